package calendar

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/juberis/reqtrack/internal/infrastructure/monitoring/logging"
	"github.com/juberis/reqtrack/pkg/errors"
)

// CacheKeyHolidays is the single cache slot for the holiday date list.
// All readers share it and every holiday mutation invalidates it.
const CacheKeyHolidays = "holidays"

// DefaultHolidayCacheTTL bounds staleness when an invalidation is missed.
const DefaultHolidayCacheTTL = 24 * time.Hour

// CachePort is the cache surface the calendar needs.  Get reports
// (found, err): a miss is not an error, a transport failure is.
type CachePort interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CalendarMetrics receives cache traffic counters.  Implementations must
// be safe for concurrent use.
type CalendarMetrics interface {
	HolidayCacheHit()
	HolidayCacheMiss()
	HolidayCacheInvalidation()
}

type nopCalendarMetrics struct{}

func (nopCalendarMetrics) HolidayCacheHit()          {}
func (nopCalendarMetrics) HolidayCacheMiss()         {}
func (nopCalendarMetrics) HolidayCacheInvalidation() {}

// HolidaySet is an immutable snapshot of holiday dates keyed by their
// "2006-01-02" form.  Computations take one snapshot up front so every
// membership probe during the walk sees the same calendar.
type HolidaySet map[string]struct{}

// Contains reports whether the date-only part of d is in the set.
func (s HolidaySet) Contains(d time.Time) bool {
	_, ok := s[FormatDate(d)]
	return ok
}

// Dates returns the member dates parsed in loc, unordered.
func (s HolidaySet) Dates(loc *time.Location) []time.Time {
	out := make([]time.Time, 0, len(s))
	for k := range s {
		d, err := ParseDate(k, loc)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return out
}

// HolidayCalendar answers holiday membership questions backed by a
// read-through cache over the holiday repository.  Lookups fail closed:
// when neither the cache nor the repository can produce the date list,
// callers get an unavailability error rather than a silently empty
// calendar.
type HolidayCalendar struct {
	repo    HolidayRepository
	cache   CachePort
	ttl     time.Duration
	metrics CalendarMetrics
	logger  logging.Logger
	group   singleflight.Group
}

// CalendarOption configures a HolidayCalendar.
type CalendarOption func(*HolidayCalendar)

// WithCacheTTL overrides the default 24h cache lifetime.
func WithCacheTTL(ttl time.Duration) CalendarOption {
	return func(c *HolidayCalendar) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCalendarMetrics attaches cache traffic counters.
func WithCalendarMetrics(m CalendarMetrics) CalendarOption {
	return func(c *HolidayCalendar) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithCalendarLogger attaches a logger.
func WithCalendarLogger(l logging.Logger) CalendarOption {
	return func(c *HolidayCalendar) {
		if l != nil {
			c.logger = l.Named("holiday-calendar")
		}
	}
}

func NewHolidayCalendar(repo HolidayRepository, cache CachePort, opts ...CalendarOption) *HolidayCalendar {
	c := &HolidayCalendar{
		repo:    repo,
		cache:   cache,
		ttl:     DefaultHolidayCacheTTL,
		metrics: nopCalendarMetrics{},
		logger:  logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns the current holiday set, loading the cache from the
// repository on a miss.  Concurrent misses collapse into a single
// repository query.
func (c *HolidayCalendar) Snapshot(ctx context.Context) (HolidaySet, error) {
	var cached []string
	found, err := c.cache.Get(ctx, CacheKeyHolidays, &cached)
	if err != nil {
		c.logger.Warn("holiday cache read failed, falling through to store",
			logging.Err(err))
	}
	if found && err == nil {
		c.metrics.HolidayCacheHit()
		return newHolidaySet(cached), nil
	}
	c.metrics.HolidayCacheMiss()

	v, err, _ := c.group.Do(CacheKeyHolidays, func() (interface{}, error) {
		dates, err := c.repo.ListDates(ctx)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeHolidaysUnavailable,
				"holiday calendar unavailable")
		}
		if err := c.cache.Set(ctx, CacheKeyHolidays, dates, c.ttl); err != nil {
			c.logger.Warn("holiday cache write failed",
				logging.Err(err))
		}
		return dates, nil
	})
	if err != nil {
		return nil, err
	}
	return newHolidaySet(v.([]string)), nil
}

// IsHoliday reports whether date is a configured holiday.
func (c *HolidayCalendar) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	set, err := c.Snapshot(ctx)
	if err != nil {
		return false, err
	}
	return set.Contains(date), nil
}

// Invalidate drops the cached date list.  Holiday writers call this
// before acknowledging their change so the next read observes it.
func (c *HolidayCalendar) Invalidate(ctx context.Context) error {
	if err := c.cache.Delete(ctx, CacheKeyHolidays); err != nil {
		return errors.Wrap(err, errors.ErrCodeCache, "invalidate holiday cache")
	}
	c.metrics.HolidayCacheInvalidation()
	return nil
}

// Refresh repopulates the cache from the repository immediately.
func (c *HolidayCalendar) Refresh(ctx context.Context) (HolidaySet, error) {
	if err := c.Invalidate(ctx); err != nil {
		return nil, err
	}
	return c.Snapshot(ctx)
}

func newHolidaySet(dates []string) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return set
}
