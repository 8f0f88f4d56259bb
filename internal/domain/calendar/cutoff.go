package calendar

import (
	"fmt"
	"time"

	"github.com/juberis/reqtrack/pkg/errors"
)

// TimeOfDay is a wall-clock time without a date, used for sector cutoffs
// and request registration times.  The zero value is midnight.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS" (24-hour clock).  The full
// input must be consumed; trailing garbage is rejected.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var layout string
	switch len(s) {
	case 5:
		layout = "15:04"
	case 8:
		layout = "15:04:05"
	default:
		return TimeOfDay{}, errors.InvalidInput("malformed time of day").WithDetail(s)
	}
	parsed, err := time.Parse(layout, s)
	if err != nil {
		return TimeOfDay{}, errors.InvalidInput("malformed time of day").WithDetail(s)
	}
	return TimeOfDay{
		Hour:   parsed.Hour(),
		Minute: parsed.Minute(),
		Second: parsed.Second(),
	}, nil
}

// Valid reports whether the receiver is a real wall-clock time.
func (t TimeOfDay) Valid() bool {
	return t.Hour >= 0 && t.Hour < 24 &&
		t.Minute >= 0 && t.Minute < 60 &&
		t.Second >= 0 && t.Second < 60
}

// String renders the canonical "HH:MM:SS" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// seconds returns the offset from midnight.
func (t TimeOfDay) seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

// Before reports whether t is strictly earlier than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.seconds() < other.seconds()
}

// On anchors the time of day to the given date.
func (t TimeOfDay) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, t.Second, 0, date.Location())
}

// EffectiveStart decides day zero of a delay window.  A request registered
// strictly before the cutoff counts from its own date; a request at or
// after the cutoff counts from the next calendar day (the boundary is
// inclusive on the late side).  The caller has already selected which
// cutoff applies, client or provider.
func EffectiveStart(startDate time.Time, startTime, cutoff TimeOfDay) (time.Time, bool) {
	day := DateOf(startDate)
	if startTime.Before(cutoff) {
		return day, false
	}
	return day.AddDate(0, 0, 1), true
}
