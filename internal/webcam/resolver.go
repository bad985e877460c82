// Package webcam resolves camera image URLs, including cameras that only
// publish snapshots on a fixed time grid.
package webcam

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/ski-tracker/internal/calendar"
	"github.com/i474232898/ski-tracker/internal/common"
)

const (
	// DefaultGridZone is where the panorama provider stamps its files.
	DefaultGridZone = "America/Edmonton"
	// MaxAttempts bounds how far back a failing grid camera retries.
	MaxAttempts = 8
	// RetryStep is how much older each retry's lookup instant is.
	RetryStep = 15 * time.Minute
)

// gridMarks are the minutes past each hour a snapshot is published.
var gridMarks = []int{10, 25, 40, 55}

// Resolver turns catalog entries into concrete image URLs. It is pure and
// safe for concurrent use.
type Resolver struct {
	zone *time.Location
}

// NewResolver loads the zone the camera provider publishes in.
func NewResolver(gridZone string) (*Resolver, error) {
	loc, err := time.LoadLocation(gridZone)
	if err != nil {
		return nil, fmt.Errorf("load webcam grid timezone %q: %w", gridZone, err)
	}
	return &Resolver{zone: loc}, nil
}

// Resolve returns the URL to load for entry. attempt is the number of failed
// loads so far and only shifts grid cameras. selectedAt is when the mountain
// was selected; it is the cache-busting stamp so re-renders keep hitting the
// browser cache.
func (r *Resolver) Resolve(entry Entry, attempt int, now, selectedAt time.Time) string {
	u := entry.URL
	if entry.IsDynamic() {
		u = r.GridURL(entry.URL, attempt, now)
	}
	if entry.CacheBust {
		if selectedAt.IsZero() {
			selectedAt = now
		}
		u = WithTimestamp(u, selectedAt.UnixMilli())
	}
	return u
}

// GridURL builds base_YYYYMMDD_HHMM.jpg for the most recent grid slot at
// or before now - attempt*RetryStep.
func (r *Resolver) GridURL(base string, attempt int, now time.Time) string {
	attempt = common.ClampInt(attempt, 0, MaxAttempts)
	lookup := now.Add(-time.Duration(attempt) * RetryStep)
	return fmt.Sprintf("%s_%s.jpg", base, r.Snap(lookup).Stamp())
}

// Slot is a grid position expressed in the provider's wall clock.
type Slot struct {
	Date   calendar.Date
	Hour   int
	Minute int
}

// Stamp formats the slot as YYYYMMDD_HHMM.
func (s Slot) Stamp() string {
	return fmt.Sprintf("%04d%02d%02d_%02d%02d", s.Date.Year, s.Date.Month, s.Date.Day, s.Hour, s.Minute)
}

// Snap finds the latest grid mark at or before t in the provider's zone.
// Before the first mark of an hour it rolls back to the previous hour's
// last mark, crossing day, month and year boundaries by calendar rules.
func (r *Resolver) Snap(t time.Time) Slot {
	local := t.In(r.zone)
	slot := Slot{
		Date:   calendar.DateOf(local, r.zone),
		Hour:   local.Hour(),
		Minute: -1,
	}

	for _, m := range gridMarks {
		if m <= local.Minute() {
			slot.Minute = m
		}
	}
	if slot.Minute >= 0 {
		return slot
	}

	slot.Minute = gridMarks[len(gridMarks)-1]
	if slot.Hour > 0 {
		slot.Hour--
	} else {
		slot.Hour = 23
		slot.Date = slot.Date.Prev()
	}
	return slot
}

// WithTimestamp sets a timestamp query parameter on rawURL. URLs that do not
// parse as absolute get the parameter appended textually.
func WithTimestamp(rawURL string, stamp int64) string {
	value := strconv.FormatInt(stamp, 10)

	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		return rawURL + sep + "timestamp=" + value
	}

	q := u.Query()
	q.Set("timestamp", value)
	u.RawQuery = q.Encode()
	return u.String()
}
