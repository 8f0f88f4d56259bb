package scheduling

import (
	"context"
	"time"
)

// Pairing links a request type to a service category and carries the base
// minimum-required-delay for requests filed under that combination.
type Pairing struct {
	ID                   string    `json:"id"`
	RequestTypeID        string    `json:"requestTypeId"`
	ServiceCategoryID    string    `json:"serviceCategoryId"`
	MinimumRequiredDelay int       `json:"minimumRequiredDelay"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// DelayOverride is a named delay type attached to a pairing.  When a
// caller selects one, its day count replaces the pairing's base delay.
type DelayOverride struct {
	ID        string    `json:"id"`
	PairingID string    `json:"requestTypeServiceCategoryId"`
	Label     string    `json:"delayTypeName"`
	DelayDays int       `json:"delayValue"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PairingRepository provides read access to request-type/service-category
// pairings.
type PairingRepository interface {
	FindByID(ctx context.Context, id string) (*Pairing, error)
}

// DelayOverrideRepository provides read access to delay overrides.
type DelayOverrideRepository interface {
	FindByID(ctx context.Context, id string) (*DelayOverride, error)
	ListByPairing(ctx context.Context, pairingID string) ([]DelayOverride, error)
}
