package scheduling

import (
	"context"
	"testing"

	"github.com/juberis/reqtrack/internal/domain/calendar"
	"github.com/juberis/reqtrack/pkg/errors"
)

type fakeSectorRepo struct {
	sectors map[string]*Sector
}

func (r *fakeSectorRepo) FindByID(_ context.Context, id string) (*Sector, error) {
	if s, ok := r.sectors[id]; ok {
		return s, nil
	}
	return nil, errors.NotFound("sector not found").WithDetail(id)
}

func (r *fakeSectorRepo) List(context.Context) ([]Sector, error) {
	out := make([]Sector, 0, len(r.sectors))
	for _, s := range r.sectors {
		out = append(out, *s)
	}
	return out, nil
}

type fakePairingRepo struct {
	pairings map[string]*Pairing
}

func (r *fakePairingRepo) FindByID(_ context.Context, id string) (*Pairing, error) {
	if p, ok := r.pairings[id]; ok {
		return p, nil
	}
	return nil, errors.NotFound("pairing not found").WithDetail(id)
}

type fakeOverrideRepo struct {
	overrides map[string]*DelayOverride
}

func (r *fakeOverrideRepo) FindByID(_ context.Context, id string) (*DelayOverride, error) {
	if o, ok := r.overrides[id]; ok {
		return o, nil
	}
	return nil, errors.NotFound("delay override not found").WithDetail(id)
}

func (r *fakeOverrideRepo) ListByPairing(_ context.Context, pairingID string) ([]DelayOverride, error) {
	var out []DelayOverride
	for _, o := range r.overrides {
		if o.PairingID == pairingID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func TestSectorCalendarConfigCutoffs(t *testing.T) {
	repo := &fakeSectorRepo{sectors: map[string]*Sector{
		"legal": {
			ID:             "legal",
			Name:           "Legal",
			ClientCutoff:   calendar.TimeOfDay{Hour: 15},
			ProviderCutoff: calendar.TimeOfDay{Hour: 17},
			AutoCalculate:  true,
		},
	}}
	cfg := NewSectorCalendarConfig(repo)

	got, err := cfg.Cutoffs(context.Background(), "legal")
	if err != nil {
		t.Fatal(err)
	}
	if got.ClientCutoff != (calendar.TimeOfDay{Hour: 15}) {
		t.Errorf("client cutoff = %v", got.ClientCutoff)
	}
	if got.ProviderCutoff != (calendar.TimeOfDay{Hour: 17}) {
		t.Errorf("provider cutoff = %v", got.ProviderCutoff)
	}
	if !got.AutoCalculate {
		t.Error("auto-calculate flag lost")
	}
}

func TestSectorCalendarConfigUnknownSector(t *testing.T) {
	cfg := NewSectorCalendarConfig(&fakeSectorRepo{sectors: map[string]*Sector{}})

	_, err := cfg.Cutoffs(context.Background(), "ghost")
	if !errors.IsCode(err, errors.ErrCodeSectorNotFound) {
		t.Fatalf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeSectorNotFound)
	}
	if !errors.IsNotFound(err) {
		t.Error("sector-not-found should classify as not found")
	}
}

func TestSectorCalendarConfigEmptyID(t *testing.T) {
	cfg := NewSectorCalendarConfig(&fakeSectorRepo{})
	if _, err := cfg.Cutoffs(context.Background(), ""); !errors.IsInvalidInput(err) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestDelayResolverBaseDelay(t *testing.T) {
	resolver := NewDelayResolver(
		&fakePairingRepo{pairings: map[string]*Pairing{
			"p-1": {ID: "p-1", MinimumRequiredDelay: 5},
		}},
		&fakeOverrideRepo{},
	)

	got, err := resolver.Resolve(context.Background(), "p-1", "")
	if err != nil {
		t.Fatal(err)
	}
	if got.Days != 5 {
		t.Errorf("days = %d, want 5", got.Days)
	}
	if got.Overridden {
		t.Error("no override was requested")
	}
}

func TestDelayResolverOverrideReplacesBase(t *testing.T) {
	resolver := NewDelayResolver(
		&fakePairingRepo{pairings: map[string]*Pairing{
			"p-1": {ID: "p-1", MinimumRequiredDelay: 5},
		}},
		&fakeOverrideRepo{overrides: map[string]*DelayOverride{
			"o-1": {ID: "o-1", PairingID: "p-1", Label: "express", DelayDays: 2},
		}},
	)

	got, err := resolver.Resolve(context.Background(), "p-1", "o-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Days != 2 {
		t.Errorf("days = %d, want override value 2 (replace, not add)", got.Days)
	}
	if !got.Overridden || got.OverrideID != "o-1" {
		t.Errorf("override not recorded: %+v", got)
	}
}

func TestDelayResolverOverrideMismatch(t *testing.T) {
	resolver := NewDelayResolver(
		&fakePairingRepo{pairings: map[string]*Pairing{
			"p-1": {ID: "p-1", MinimumRequiredDelay: 5},
			"p-2": {ID: "p-2", MinimumRequiredDelay: 3},
		}},
		&fakeOverrideRepo{overrides: map[string]*DelayOverride{
			"o-2": {ID: "o-2", PairingID: "p-2", DelayDays: 1},
		}},
	)

	_, err := resolver.Resolve(context.Background(), "p-1", "o-2")
	if !errors.IsCode(err, errors.ErrCodeOverrideMismatch) {
		t.Fatalf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeOverrideMismatch)
	}
	if !errors.IsInvalidInput(err) {
		t.Error("override mismatch should classify as invalid input")
	}
}

func TestDelayResolverUnknownPairing(t *testing.T) {
	resolver := NewDelayResolver(&fakePairingRepo{pairings: map[string]*Pairing{}}, &fakeOverrideRepo{})

	_, err := resolver.Resolve(context.Background(), "nope", "")
	if !errors.IsCode(err, errors.ErrCodePairingNotFound) {
		t.Fatalf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodePairingNotFound)
	}
}

func TestDelayResolverUnknownOverride(t *testing.T) {
	resolver := NewDelayResolver(
		&fakePairingRepo{pairings: map[string]*Pairing{
			"p-1": {ID: "p-1", MinimumRequiredDelay: 5},
		}},
		&fakeOverrideRepo{},
	)

	_, err := resolver.Resolve(context.Background(), "p-1", "missing")
	if !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
