// Package calendar does zone-aware calendar arithmetic for the dashboard
// timeline and the webcam time grid.
package calendar

import (
	"fmt"
	"strings"
	"time"

	// Zones must resolve even on hosts without a system tz database.
	_ "time/tzdata"
)

const (
	LabelToday    = "Today"
	LabelTomorrow = "Tomorrow"

	dateLayout = "2006-01-02"
)

// Date is a calendar day with no time or zone attached.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t as observed in loc.
func DateOf(t time.Time, loc *time.Location) Date {
	y, m, d := t.In(loc).Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses an ISO YYYY-MM-DD string. Any time suffix after 'T' is
// ignored.
func ParseDate(s string) (Date, error) {
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}, nil
}

// DaysIn returns the number of days in month of year. Day zero of the
// following month normalises to the last day of this one, so leap years come
// from the calendar itself.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Next returns the following calendar day.
func (d Date) Next() Date {
	if d.Day < DaysIn(d.Year, d.Month) {
		return Date{Year: d.Year, Month: d.Month, Day: d.Day + 1}
	}
	if d.Month < time.December {
		return Date{Year: d.Year, Month: d.Month + 1, Day: 1}
	}
	return Date{Year: d.Year + 1, Month: time.January, Day: 1}
}

// Prev returns the preceding calendar day.
func (d Date) Prev() Date {
	if d.Day > 1 {
		return Date{Year: d.Year, Month: d.Month, Day: d.Day - 1}
	}
	if d.Month > time.January {
		return Date{Year: d.Year, Month: d.Month - 1, Day: DaysIn(d.Year, d.Month-1)}
	}
	return Date{Year: d.Year - 1, Month: time.December, Day: 31}
}

// Weekday reports the day of the week.
func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC).Weekday()
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}
