// Package calendar holds the business-calendar domain: holiday dates, the
// cached holiday calendar, cutoff-time evaluation, and business-day
// arithmetic.  Everything here is timezone-naive: dates are normalized to
// midnight in the deployment timezone before they reach this package.
package calendar

import (
	"context"
	"time"
)

// DateLayout is the canonical date-only wire format.
const DateLayout = "2006-01-02"

// Holiday is a calendar date marking a non-business day.  The date is
// unique per holiday; the name is a display label.
type Holiday struct {
	ID        string    `json:"id"`
	Name      string    `json:"holidayName"`
	Date      time.Time `json:"holidayDate"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HolidayRepository is the read/write contract against the holiday store.
// The calendar only consumes the read side; the holidays application
// service owns the writes.
type HolidayRepository interface {
	// ListDates returns every holiday date ordered ascending, each
	// formatted with DateLayout.  Strings keep the cached snapshot
	// round-trippable through the serializing cache.
	ListDates(ctx context.Context) ([]string, error)

	// List returns all holidays with their labels, ordered by date.
	List(ctx context.Context) ([]Holiday, error)

	// ListBetween returns holidays with from <= date <= to, ordered by date.
	ListBetween(ctx context.Context, from, to time.Time) ([]Holiday, error)

	FindByID(ctx context.Context, id string) (*Holiday, error)
	ExistsByNameAndDate(ctx context.Context, name string, date time.Time) (bool, error)
	Create(ctx context.Context, h *Holiday) error
	Delete(ctx context.Context, id string) error
}

// DateOf truncates t to midnight in its own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FormatDate renders t in the canonical date-only format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a canonical date-only string in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}
