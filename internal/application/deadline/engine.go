// Package deadline orchestrates delay resolution, sector cutoffs, and the
// business-day walk into a single deadline computation.
package deadline

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/juberis/reqtrack/internal/domain/calendar"
	"github.com/juberis/reqtrack/internal/domain/scheduling"
	"github.com/juberis/reqtrack/internal/infrastructure/monitoring/logging"
	"github.com/juberis/reqtrack/pkg/errors"
)

// Role selects which sector cutoff applies to a computation.
type Role string

const (
	RoleClient   Role = "client"
	RoleProvider Role = "provider"
)

// DisplayLayout renders deadline instants for humans.
const DisplayLayout = "Monday, 02 January 2006 at 15:04"

// Config tunes the engine.  Zero values fall back to defaults.
type Config struct {
	// Location is the deployment-wide timezone all instants are
	// normalized to before arithmetic.
	Location *time.Location
	// UrgencyThresholdDays marks computations with a delay window at or
	// below this many business days as urgent.
	UrgencyThresholdDays int
	// HoursPerBusinessDay converts the delay window into working hours.
	HoursPerBusinessDay int
	// IterationCap bounds the business-day walk.
	IterationCap int
}

const (
	DefaultUrgencyThresholdDays = 1
	DefaultHoursPerBusinessDay  = 8
)

func (c *Config) applyDefaults() {
	if c.Location == nil {
		c.Location = time.UTC
	}
	if c.UrgencyThresholdDays <= 0 {
		c.UrgencyThresholdDays = DefaultUrgencyThresholdDays
	}
	if c.HoursPerBusinessDay <= 0 {
		c.HoursPerBusinessDay = DefaultHoursPerBusinessDay
	}
	if c.IterationCap <= 0 {
		c.IterationCap = calendar.DefaultIterationCap
	}
}

// EngineMetrics receives computation outcome counters.
type EngineMetrics interface {
	ObserveComputation(outcome string, elapsed time.Duration)
}

type nopEngineMetrics struct{}

func (nopEngineMetrics) ObserveComputation(string, time.Duration) {}

// Outcome labels reported to EngineMetrics.
const (
	OutcomeComputed    = "computed"
	OutcomeManualEntry = "manual_entry"
	OutcomeError       = "error"
)

// ComputeInput carries one computation request.  StartDate is date-only;
// the time-of-day travels separately so the cutoff comparison stays
// exact.
type ComputeInput struct {
	PairingID  string
	OverrideID string
	SectorID   string
	Role       Role
	StartDate  time.Time
	StartTime  calendar.TimeOfDay
	// CompletedAt, when set, replaces "now" in the overdue comparison.
	CompletedAt *time.Time
}

// HolidayInWindow is a holiday falling inside the computed delay window.
type HolidayInWindow struct {
	Name string `json:"holidayName"`
	Date string `json:"holidayDate"`
}

// Computation is the full result of a deadline computation.  It echoes
// its inputs and is never persisted.
type Computation struct {
	PairingID     string `json:"requestTypeServiceCategoryId"`
	OverrideID    string `json:"requestTypeDelayId,omitempty"`
	SectorID      string `json:"sectorId"`
	Role          Role   `json:"role"`
	StartDate     string `json:"startDate"`
	StartTime     string `json:"startTime"`
	DelayInDays   int    `json:"delayInDays"`
	Overridden    bool   `json:"isOverridden"`
	AutoCalculate bool   `json:"isAutoCalculate"`

	// ManualEntryRequired is set when the sector disables automatic
	// calculation; every deadline field below is then empty.
	ManualEntryRequired bool `json:"manualEntryRequired"`

	EffectiveStartDate string     `json:"effectiveStartDate,omitempty"`
	RolledOver         bool       `json:"rolledOver"`
	Deadline           *time.Time `json:"deadline,omitempty"`
	DeadlineDisplay    string     `json:"deadlineDisplay,omitempty"`
	BusinessDays       int        `json:"businessDays"`
	WorkingHours       int        `json:"workingHours"`
	IsUrgent           bool       `json:"isUrgent"`

	// EstimatedCompletion is when the work is expected to finish.  With
	// no per-request effort model it coincides with the deadline
	// instant; it is a separate field because callers treat it as an
	// estimate, not a commitment.
	EstimatedCompletion *time.Time `json:"estimatedCompletion,omitempty"`

	RelativeTime string            `json:"relativeTime,omitempty"`
	IsOverdue    bool              `json:"isOverdue"`
	Holidays     []HolidayInWindow `json:"holidays,omitempty"`
}

// Inputs is the resolve-inputs result: everything a caller needs before
// asking for a computation.
type Inputs struct {
	Delay   scheduling.ResolvedDelay `json:"delay"`
	Cutoffs scheduling.SectorCutoffs `json:"cutoffs"`
}

// Engine is the computation facade.
type Engine struct {
	cfg      Config
	delays   *scheduling.DelayResolver
	sectors  *scheduling.SectorCalendarConfig
	calendar *calendar.HolidayCalendar
	holidays calendar.HolidayRepository
	logger   logging.Logger
	metrics  EngineMetrics
	nowFn    func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

func WithLogger(l logging.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l.Named("deadline-engine")
		}
	}
}

func WithMetrics(m EngineMetrics) EngineOption {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithNowFunc fixes the clock, for tests.
func WithNowFunc(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.nowFn = now
		}
	}
}

func NewEngine(
	cfg Config,
	delays *scheduling.DelayResolver,
	sectors *scheduling.SectorCalendarConfig,
	holidayCalendar *calendar.HolidayCalendar,
	holidays calendar.HolidayRepository,
	opts ...EngineOption,
) *Engine {
	cfg.applyDefaults()
	e := &Engine{
		cfg:      cfg,
		delays:   delays,
		sectors:  sectors,
		calendar: holidayCalendar,
		holidays: holidays,
		logger:   logging.NewNopLogger(),
		metrics:  nopEngineMetrics{},
		nowFn:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ResolveInputs resolves the effective delay and sector cutoffs without
// computing a deadline.
func (e *Engine) ResolveInputs(ctx context.Context, pairingID, overrideID, sectorID string) (*Inputs, error) {
	delay, err := e.delays.Resolve(ctx, pairingID, overrideID)
	if err != nil {
		return nil, err
	}
	cutoffs, err := e.sectors.Cutoffs(ctx, sectorID)
	if err != nil {
		return nil, err
	}
	return &Inputs{Delay: delay, Cutoffs: cutoffs}, nil
}

// Compute runs the full deadline computation.  Resolution failures abort
// immediately; a sector with auto-calculate disabled yields a
// manual-entry result, which is a valid outcome and not an error.
func (e *Engine) Compute(ctx context.Context, input ComputeInput) (*Computation, error) {
	started := e.nowFn()
	result, err := e.compute(ctx, input)
	elapsed := e.nowFn().Sub(started)
	switch {
	case err != nil:
		e.metrics.ObserveComputation(OutcomeError, elapsed)
		e.logger.Warn("deadline computation failed",
			logging.String("pairing_id", input.PairingID),
			logging.String("sector_id", input.SectorID),
			logging.Err(err))
	case result.ManualEntryRequired:
		e.metrics.ObserveComputation(OutcomeManualEntry, elapsed)
	default:
		e.metrics.ObserveComputation(OutcomeComputed, elapsed)
		e.logger.Debug("deadline computed",
			logging.String("pairing_id", input.PairingID),
			logging.String("sector_id", input.SectorID),
			logging.Int("delay_days", result.DelayInDays),
			logging.String("deadline", result.Deadline.Format(time.RFC3339)))
	}
	return result, err
}

func (e *Engine) compute(ctx context.Context, input ComputeInput) (*Computation, error) {
	if input.StartDate.IsZero() {
		return nil, errors.InvalidInput("start date is required")
	}
	if !input.StartTime.Valid() {
		return nil, errors.InvalidInput("start time is out of range")
	}
	role := input.Role
	switch role {
	case "":
		role = RoleClient
	case RoleClient, RoleProvider:
	default:
		return nil, errors.InvalidInput("role must be client or provider").
			WithDetail(string(role))
	}

	delay, err := e.delays.Resolve(ctx, input.PairingID, input.OverrideID)
	if err != nil {
		return nil, err
	}
	cutoffs, err := e.sectors.Cutoffs(ctx, input.SectorID)
	if err != nil {
		return nil, err
	}

	result := &Computation{
		PairingID:     delay.PairingID,
		OverrideID:    delay.OverrideID,
		SectorID:      cutoffs.SectorID,
		Role:          role,
		StartDate:     calendar.FormatDate(input.StartDate),
		StartTime:     input.StartTime.String(),
		DelayInDays:   delay.Days,
		Overridden:    delay.Overridden,
		AutoCalculate: cutoffs.AutoCalculate,
	}
	if !cutoffs.AutoCalculate {
		result.ManualEntryRequired = true
		return result, nil
	}

	cutoff := cutoffs.ClientCutoff
	if role == RoleProvider {
		cutoff = cutoffs.ProviderCutoff
	}

	set, err := e.calendar.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	startDate := time.Date(
		input.StartDate.Year(), input.StartDate.Month(), input.StartDate.Day(),
		0, 0, 0, 0, e.cfg.Location)
	effective, rolled := calendar.EffectiveStart(startDate, input.StartTime, cutoff)
	// The roll-over can land on a weekend or holiday; day zero of the
	// delay window must itself be a business day.
	effective, err = calendar.NextBusinessDayCapped(effective, e.cfg.IterationCap, set.Contains)
	if err != nil {
		return nil, err
	}
	deadlineDate, err := calendar.AddBusinessDaysCapped(effective, delay.Days, e.cfg.IterationCap, set.Contains)
	if err != nil {
		return nil, err
	}
	deadline := cutoff.On(deadlineDate)

	now := e.nowFn().In(e.cfg.Location)
	reference := now
	if input.CompletedAt != nil {
		reference = input.CompletedAt.In(e.cfg.Location)
	}

	result.EffectiveStartDate = calendar.FormatDate(effective)
	result.RolledOver = rolled
	result.Deadline = &deadline
	result.DeadlineDisplay = deadline.Format(DisplayLayout)
	result.BusinessDays = delay.Days
	result.WorkingHours = delay.Days * e.cfg.HoursPerBusinessDay
	result.IsUrgent = delay.Days <= e.cfg.UrgencyThresholdDays
	estimated := deadline
	result.EstimatedCompletion = &estimated
	result.RelativeTime = humanize.RelTime(deadline, now, "overdue", "remaining")
	result.IsOverdue = reference.After(deadline)
	result.Holidays = e.holidaysInWindow(ctx, effective, deadlineDate)
	return result, nil
}

// holidaysInWindow fetches the named holidays falling inside the delay
// window.  Best effort: the names enrich the result but never fail a
// computation that already has a deadline.
func (e *Engine) holidaysInWindow(ctx context.Context, from, to time.Time) []HolidayInWindow {
	if e.holidays == nil {
		return nil
	}
	records, err := e.holidays.ListBetween(ctx, from, to)
	if err != nil {
		e.logger.Warn("listing holidays in window failed", logging.Err(err))
		return nil
	}
	out := make([]HolidayInWindow, 0, len(records))
	for _, h := range records {
		out = append(out, HolidayInWindow{
			Name: h.Name,
			Date: calendar.FormatDate(h.Date),
		})
	}
	return out
}
