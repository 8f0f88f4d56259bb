package scheduling

import (
	"context"

	"github.com/juberis/reqtrack/pkg/errors"
)

// ResolvedDelay is the outcome of a delay resolution.
type ResolvedDelay struct {
	Days       int    `json:"delayInDays"`
	PairingID  string `json:"requestTypeServiceCategoryId"`
	OverrideID string `json:"requestTypeDelayId,omitempty"`
	Overridden bool   `json:"isOverridden"`
}

// DelayResolver resolves the effective business-day delay for a pairing,
// honoring an optional delay-type override.
type DelayResolver struct {
	pairings  PairingRepository
	overrides DelayOverrideRepository
}

func NewDelayResolver(pairings PairingRepository, overrides DelayOverrideRepository) *DelayResolver {
	return &DelayResolver{pairings: pairings, overrides: overrides}
}

// Resolve returns the delay in business days for pairingID.  A non-empty
// overrideID must reference a delay override belonging to the same
// pairing; its day count replaces the base value rather than adding to
// it.
func (r *DelayResolver) Resolve(ctx context.Context, pairingID, overrideID string) (ResolvedDelay, error) {
	if pairingID == "" {
		return ResolvedDelay{}, errors.InvalidInput("pairing id is required")
	}
	pairing, err := r.pairings.FindByID(ctx, pairingID)
	if err != nil {
		if errors.IsNotFound(err) {
			return ResolvedDelay{}, errors.New(errors.ErrCodePairingNotFound,
				"request type / service category pairing not found").
				WithDetail(pairingID).WithCause(err)
		}
		return ResolvedDelay{}, err
	}
	if pairing.MinimumRequiredDelay < 0 {
		return ResolvedDelay{}, errors.InvalidInput("pairing has a negative minimum delay").
			WithDetail(pairingID)
	}

	resolved := ResolvedDelay{
		Days:      pairing.MinimumRequiredDelay,
		PairingID: pairing.ID,
	}
	if overrideID == "" {
		return resolved, nil
	}

	override, err := r.overrides.FindByID(ctx, overrideID)
	if err != nil {
		if errors.IsNotFound(err) {
			return ResolvedDelay{}, errors.NotFound("delay override not found").
				WithDetail(overrideID).WithCause(err)
		}
		return ResolvedDelay{}, err
	}
	if override.PairingID != pairing.ID {
		return ResolvedDelay{}, errors.New(errors.ErrCodeOverrideMismatch,
			"delay override does not belong to the pairing").
			WithDetail(overrideID)
	}
	if override.DelayDays < 0 {
		return ResolvedDelay{}, errors.InvalidInput("delay override has a negative day count").
			WithDetail(overrideID)
	}

	resolved.Days = override.DelayDays
	resolved.OverrideID = override.ID
	resolved.Overridden = true
	return resolved, nil
}
