// Package scheduling holds the per-sector calendar configuration and the
// delay requirements attached to request-type/service-category pairings.
package scheduling

import (
	"context"
	"time"

	"github.com/juberis/reqtrack/internal/domain/calendar"
)

// Sector carries a business unit's calendar configuration.  Client and
// provider requests filed after the matching cutoff are treated as filed
// on the next calendar day.
type Sector struct {
	ID             string             `json:"id"`
	Name           string             `json:"sectorName"`
	ClientCutoff   calendar.TimeOfDay `json:"clientCutoffTime"`
	ProviderCutoff calendar.TimeOfDay `json:"providerCutoffTime"`
	AutoCalculate  bool               `json:"isAutoCalculate"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// SectorRepository provides read access to sector records.
type SectorRepository interface {
	FindByID(ctx context.Context, id string) (*Sector, error)
	List(ctx context.Context) ([]Sector, error)
}
