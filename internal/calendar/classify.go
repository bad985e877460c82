package calendar

import (
	"fmt"
	"time"
)

// Classifier labels forecast days relative to "now" in a fixed display zone.
type Classifier struct {
	loc *time.Location
}

// NewClassifier loads the IANA zone the dashboard displays in.
func NewClassifier(zone string) (*Classifier, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load display timezone %q: %w", zone, err)
	}
	return &Classifier{loc: loc}, nil
}

// Location returns the display zone.
func (c *Classifier) Location() *time.Location {
	return c.loc
}

// Today returns the calendar day of reference in the display zone.
func (c *Classifier) Today(reference time.Time) Date {
	return DateOf(reference, c.loc)
}

// Classify labels an instant.
func (c *Classifier) Classify(date, reference time.Time) string {
	return Classify(date, reference, c.loc)
}

// ClassifyDate labels a YYYY-MM-DD calendar date. Dates that do not parse
// are returned unchanged so a timeline can still render them.
func (c *Classifier) ClassifyDate(date string, reference time.Time) string {
	d, err := ParseDate(date)
	if err != nil {
		return date
	}
	return classifyDay(d, DateOf(reference, c.loc))
}

// Classify returns "Today", "Tomorrow" or the short weekday name of date.
// Both instants are reduced to calendar days as observed in loc, never UTC
// or the host zone.
func Classify(date, reference time.Time, loc *time.Location) string {
	return classifyDay(DateOf(date, loc), DateOf(reference, loc))
}

func classifyDay(day, today Date) string {
	switch day {
	case today:
		return LabelToday
	case today.Next():
		return LabelTomorrow
	default:
		return day.Weekday().String()[:3]
	}
}
