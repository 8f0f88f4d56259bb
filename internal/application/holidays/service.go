// Package holidays manages the holiday calendar's write path.  Every
// mutation drops the shared holiday cache entry before the write is
// acknowledged, so any computation started afterward observes the change.
package holidays

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/juberis/reqtrack/internal/domain/calendar"
	"github.com/juberis/reqtrack/internal/infrastructure/monitoring/logging"
	"github.com/juberis/reqtrack/pkg/errors"
)

// CalendarInvalidator drops the cached holiday set.
type CalendarInvalidator interface {
	Invalidate(ctx context.Context) error
}

// HolidayChangedEvent notifies downstream consumers of a calendar change.
type HolidayChangedEvent struct {
	Action     string    `json:"action"`
	HolidayID  string    `json:"holidayId"`
	Name       string    `json:"holidayName"`
	Date       string    `json:"holidayDate"`
	OccurredAt time.Time `json:"occurredAt"`
}

const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// EventPublisher fans holiday changes out to the message bus.
type EventPublisher interface {
	PublishHolidayChanged(ctx context.Context, event HolidayChangedEvent) error
}

// CreateHolidayInput is the write payload for a new holiday.
type CreateHolidayInput struct {
	Name string `json:"holidayName"`
	Date string `json:"holidayDate"`
}

// Service owns holiday reads and writes.
type Service struct {
	repo     calendar.HolidayRepository
	calendar CalendarInvalidator
	events   EventPublisher
	location *time.Location
	logger   logging.Logger
	nowFn    func() time.Time
	idFn     func() string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

func WithLogger(l logging.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l.Named("holidays")
		}
	}
}

func WithEventPublisher(p EventPublisher) ServiceOption {
	return func(s *Service) { s.events = p }
}

func WithLocation(loc *time.Location) ServiceOption {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithClock fixes time and id generation, for tests.
func WithClock(now func() time.Time, id func() string) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.nowFn = now
		}
		if id != nil {
			s.idFn = id
		}
	}
}

func NewService(repo calendar.HolidayRepository, invalidator CalendarInvalidator, opts ...ServiceOption) *Service {
	s := &Service{
		repo:     repo,
		calendar: invalidator,
		location: time.UTC,
		logger:   logging.NewNopLogger(),
		nowFn:    time.Now,
		idFn:     func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns all holidays ordered by date.
func (s *Service) List(ctx context.Context) ([]calendar.Holiday, error) {
	return s.repo.List(ctx)
}

// ListBetween returns the holidays falling inside [from, to].
func (s *Service) ListBetween(ctx context.Context, from, to time.Time) ([]calendar.Holiday, error) {
	if to.Before(from) {
		return nil, errors.InvalidInput("range end precedes range start")
	}
	return s.repo.ListBetween(ctx, from, to)
}

// Create stores a new holiday.  The cache invalidation happens before the
// call returns success; the change event is best effort.
func (s *Service) Create(ctx context.Context, input CreateHolidayInput) (*calendar.Holiday, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.InvalidInput("holiday name is required")
	}
	date, err := calendar.ParseDate(strings.TrimSpace(input.Date), s.location)
	if err != nil {
		return nil, errors.InvalidInput("holiday date must be YYYY-MM-DD").
			WithDetail(input.Date).WithCause(err)
	}

	exists, err := s.repo.ExistsByNameAndDate(ctx, name, date)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Conflict("holiday already exists for that date").
			WithDetail(name + " " + calendar.FormatDate(date))
	}

	now := s.nowFn()
	holiday := &calendar.Holiday{
		ID:        s.idFn(),
		Name:      name,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, holiday); err != nil {
		return nil, err
	}
	if err := s.invalidate(ctx); err != nil {
		return nil, err
	}

	s.publish(ctx, HolidayChangedEvent{
		Action:     ActionCreated,
		HolidayID:  holiday.ID,
		Name:       holiday.Name,
		Date:       calendar.FormatDate(holiday.Date),
		OccurredAt: now,
	})
	s.logger.Info("holiday created",
		logging.String("holiday_id", holiday.ID),
		logging.String("date", calendar.FormatDate(holiday.Date)))
	return holiday, nil
}

// Delete removes a holiday by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.InvalidInput("holiday id is required")
	}
	holiday, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.invalidate(ctx); err != nil {
		return err
	}

	s.publish(ctx, HolidayChangedEvent{
		Action:     ActionDeleted,
		HolidayID:  holiday.ID,
		Name:       holiday.Name,
		Date:       calendar.FormatDate(holiday.Date),
		OccurredAt: s.nowFn(),
	})
	s.logger.Info("holiday deleted", logging.String("holiday_id", id))
	return nil
}

// invalidate drops the cached holiday set.  A failed invalidation fails
// the whole write acknowledgement: the row is stored, but reporting
// success while readers might still see the stale calendar would break
// the ordering guarantee writers rely on.
func (s *Service) invalidate(ctx context.Context) error {
	if s.calendar == nil {
		return nil
	}
	if err := s.calendar.Invalidate(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeUnavailable,
			"holiday stored but cache invalidation failed")
	}
	return nil
}

func (s *Service) publish(ctx context.Context, event HolidayChangedEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishHolidayChanged(ctx, event); err != nil {
		s.logger.Warn("holiday change event not published",
			logging.String("holiday_id", event.HolidayID),
			logging.Err(err))
	}
}
