package calendar

import (
	"time"

	"github.com/juberis/reqtrack/pkg/errors"
)

// DefaultIterationCap bounds the business-day walk.  Ten years of calendar
// days is far beyond any configured delay; hitting the cap means the
// holiday calendar is misconfigured (e.g., every day marked a holiday).
const DefaultIterationCap = 3650

// HolidayFunc reports whether a date is a configured holiday.  It receives
// date-only values.
type HolidayFunc func(date time.Time) bool

// IsBusinessDay reports whether d is neither a weekend day nor a holiday.
func IsBusinessDay(d time.Time, isHoliday HolidayFunc) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !isHoliday(d)
}

// AddBusinessDays advances days business days from start, skipping
// weekends and holidays, with the default iteration cap.
//
// The start day itself is never counted: one business day from a Friday
// is the following Monday.  days == 0 returns start unchanged.
func AddBusinessDays(start time.Time, days int, isHoliday HolidayFunc) (time.Time, error) {
	return AddBusinessDaysCapped(start, days, DefaultIterationCap, isHoliday)
}

// AddBusinessDaysCapped is AddBusinessDays with an explicit iteration cap.
func AddBusinessDaysCapped(start time.Time, days, cap int, isHoliday HolidayFunc) (time.Time, error) {
	if days < 0 {
		return time.Time{}, errors.InvalidInput("business-day delay must not be negative")
	}
	if cap <= 0 {
		cap = DefaultIterationCap
	}

	current := DateOf(start)
	if days == 0 {
		return current, nil
	}

	remaining := days
	for i := 0; i < cap; i++ {
		current = current.AddDate(0, 0, 1)
		if IsBusinessDay(current, isHoliday) {
			remaining--
			if remaining == 0 {
				return current, nil
			}
		}
	}
	return time.Time{}, errors.New(errors.ErrCodeIterationCap,
		"business-day walk exceeded iteration cap").
		WithDetail(FormatDate(start))
}

// NextBusinessDay returns date itself when it is a business day, or the
// first business day after it.  A cutoff roll-over can land the effective
// start on a weekend or holiday; the delay window only starts counting
// from a day work can actually begin.
func NextBusinessDay(date time.Time, isHoliday HolidayFunc) (time.Time, error) {
	return NextBusinessDayCapped(date, DefaultIterationCap, isHoliday)
}

// NextBusinessDayCapped is NextBusinessDay with an explicit iteration cap.
func NextBusinessDayCapped(date time.Time, cap int, isHoliday HolidayFunc) (time.Time, error) {
	if cap <= 0 {
		cap = DefaultIterationCap
	}
	current := DateOf(date)
	for i := 0; i < cap; i++ {
		if IsBusinessDay(current, isHoliday) {
			return current, nil
		}
		current = current.AddDate(0, 0, 1)
	}
	return time.Time{}, errors.New(errors.ErrCodeIterationCap,
		"business-day walk exceeded iteration cap").
		WithDetail(FormatDate(date))
}
