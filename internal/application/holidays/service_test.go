package holidays

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/juberis/reqtrack/internal/domain/calendar"
	"github.com/juberis/reqtrack/pkg/errors"
)

type memRepo struct {
	mu       sync.Mutex
	holidays map[string]*calendar.Holiday
}

func newMemRepo() *memRepo {
	return &memRepo{holidays: map[string]*calendar.Holiday{}}
}

func (r *memRepo) ListDates(context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.holidays))
	for _, h := range r.holidays {
		out = append(out, calendar.FormatDate(h.Date))
	}
	return out, nil
}

func (r *memRepo) List(context.Context) ([]calendar.Holiday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]calendar.Holiday, 0, len(r.holidays))
	for _, h := range r.holidays {
		out = append(out, *h)
	}
	return out, nil
}

func (r *memRepo) ListBetween(_ context.Context, from, to time.Time) ([]calendar.Holiday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []calendar.Holiday
	for _, h := range r.holidays {
		d := calendar.DateOf(h.Date)
		if !d.Before(calendar.DateOf(from)) && !d.After(calendar.DateOf(to)) {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (r *memRepo) FindByID(_ context.Context, id string) (*calendar.Holiday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.holidays[id]; ok {
		return h, nil
	}
	return nil, errors.NotFound("holiday not found").WithDetail(id)
}

func (r *memRepo) ExistsByNameAndDate(_ context.Context, name string, date time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range r.holidays {
		if h.Name == name && calendar.SameDate(h.Date, date) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) Create(_ context.Context, h *calendar.Holiday) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.holidays[h.ID] = h
	return nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.holidays, id)
	return nil
}

type recordingInvalidator struct {
	calls int
	err   error
}

func (i *recordingInvalidator) Invalidate(context.Context) error {
	i.calls++
	return i.err
}

type recordingPublisher struct {
	events []HolidayChangedEvent
	err    error
}

func (p *recordingPublisher) PublishHolidayChanged(_ context.Context, e HolidayChangedEvent) error {
	p.events = append(p.events, e)
	return p.err
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	}
}

func TestCreateInvalidatesBeforeAcknowledging(t *testing.T) {
	repo := newMemRepo()
	inv := &recordingInvalidator{}
	pub := &recordingPublisher{}
	svc := NewService(repo, inv,
		WithEventPublisher(pub),
		WithClock(fixedClock(), func() string { return "h-1" }))

	got, err := svc.Create(context.Background(), CreateHolidayInput{
		Name: "Bastille Day",
		Date: "2025-07-14",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "h-1" {
		t.Errorf("id = %s", got.ID)
	}
	if inv.calls != 1 {
		t.Errorf("invalidations = %d, want 1", inv.calls)
	}
	if len(pub.events) != 1 || pub.events[0].Action != ActionCreated {
		t.Errorf("events = %+v", pub.events)
	}
	if pub.events[0].Date != "2025-07-14" {
		t.Errorf("event date = %s", pub.events[0].Date)
	}
}

func TestCreateFailsWhenInvalidationFails(t *testing.T) {
	repo := newMemRepo()
	inv := &recordingInvalidator{err: errors.New(errors.ErrCodeCache, "redis down")}
	svc := NewService(repo, inv, WithClock(fixedClock(), func() string { return "h-1" }))

	_, err := svc.Create(context.Background(), CreateHolidayInput{
		Name: "Bastille Day",
		Date: "2025-07-14",
	})
	if !errors.IsUnavailable(err) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestCreateRejectsDuplicates(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, &recordingInvalidator{},
		WithClock(fixedClock(), func() string { return "h-1" }))
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateHolidayInput{Name: "Bastille Day", Date: "2025-07-14"}); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Create(ctx, CreateHolidayInput{Name: "Bastille Day", Date: "2025-07-14"})
	if !errors.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemRepo(), &recordingInvalidator{})
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateHolidayInput{Name: "", Date: "2025-07-14"}); !errors.IsInvalidInput(err) {
		t.Errorf("blank name: got %v", err)
	}
	if _, err := svc.Create(ctx, CreateHolidayInput{Name: "X", Date: "14/07/2025"}); !errors.IsInvalidInput(err) {
		t.Errorf("malformed date: got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo := newMemRepo()
	inv := &recordingInvalidator{}
	pub := &recordingPublisher{}
	svc := NewService(repo, inv,
		WithEventPublisher(pub),
		WithClock(fixedClock(), func() string { return "h-1" }))
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateHolidayInput{Name: "Bastille Day", Date: "2025-07-14"}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, "h-1"); err != nil {
		t.Fatal(err)
	}
	if inv.calls != 2 {
		t.Errorf("invalidations = %d, want 2 (create + delete)", inv.calls)
	}
	if len(pub.events) != 2 || pub.events[1].Action != ActionDeleted {
		t.Errorf("events = %+v", pub.events)
	}

	if err := svc.Delete(ctx, "h-1"); !errors.IsNotFound(err) {
		t.Errorf("deleting twice: got %v", err)
	}
}

func TestWriteVisibleToCalendarAfterInvalidation(t *testing.T) {
	// End to end through a real calendar: a computation started after the
	// write's invalidation sees the new holiday.
	repo := newMemRepo()
	cache := &countingCache{entries: map[string][]byte{}}
	cal := calendar.NewHolidayCalendar(repo, cache)
	svc := NewService(repo, cal, WithClock(fixedClock(), func() string { return "h-1" }))
	ctx := context.Background()

	day := time.Date(2025, time.July, 14, 0, 0, 0, 0, time.UTC)
	if ok, err := cal.IsHoliday(ctx, day); err != nil || ok {
		t.Fatalf("before write: ok=%v err=%v", ok, err)
	}

	if _, err := svc.Create(ctx, CreateHolidayInput{Name: "Bastille Day", Date: "2025-07-14"}); err != nil {
		t.Fatal(err)
	}
	ok, err := cal.IsHoliday(ctx, day)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("holiday not visible after invalidate-then-acknowledge")
	}
}

func TestEventPublishIsBestEffort(t *testing.T) {
	repo := newMemRepo()
	pub := &recordingPublisher{err: errors.New(errors.ErrCodeInternal, "broker down")}
	svc := NewService(repo, &recordingInvalidator{},
		WithEventPublisher(pub),
		WithClock(fixedClock(), func() string { return "h-1" }))

	if _, err := svc.Create(context.Background(), CreateHolidayInput{
		Name: "Bastille Day",
		Date: "2025-07-14",
	}); err != nil {
		t.Fatalf("publish failure must not fail the write: %v", err)
	}
}

func TestListBetweenValidatesRange(t *testing.T) {
	svc := NewService(newMemRepo(), &recordingInvalidator{})
	_, err := svc.ListBetween(context.Background(),
		time.Date(2025, time.July, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	if !errors.IsInvalidInput(err) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

type countingCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func (c *countingCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *countingCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *countingCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}
