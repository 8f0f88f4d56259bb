package scheduling

import (
	"context"

	"github.com/juberis/reqtrack/internal/domain/calendar"
	"github.com/juberis/reqtrack/pkg/errors"
)

// SectorCutoffs is the slice of sector configuration the deadline engine
// consumes.
type SectorCutoffs struct {
	SectorID       string             `json:"sectorId"`
	ClientCutoff   calendar.TimeOfDay `json:"clientCutoffTime"`
	ProviderCutoff calendar.TimeOfDay `json:"providerCutoffTime"`
	AutoCalculate  bool               `json:"isAutoCalculate"`
}

// SectorCalendarConfig looks up cutoff configuration by sector.
type SectorCalendarConfig struct {
	sectors SectorRepository
}

func NewSectorCalendarConfig(sectors SectorRepository) *SectorCalendarConfig {
	return &SectorCalendarConfig{sectors: sectors}
}

// Cutoffs returns the cutoff times and auto-calculate flag for a sector.
func (c *SectorCalendarConfig) Cutoffs(ctx context.Context, sectorID string) (SectorCutoffs, error) {
	if sectorID == "" {
		return SectorCutoffs{}, errors.InvalidInput("sector id is required")
	}
	sector, err := c.sectors.FindByID(ctx, sectorID)
	if err != nil {
		if errors.IsNotFound(err) {
			return SectorCutoffs{}, errors.New(errors.ErrCodeSectorNotFound, "sector not found").
				WithDetail(sectorID).WithCause(err)
		}
		return SectorCutoffs{}, err
	}
	if !sector.ClientCutoff.Valid() || !sector.ProviderCutoff.Valid() {
		return SectorCutoffs{}, errors.InvalidInput("sector has an invalid cutoff time").
			WithDetail(sectorID)
	}
	return SectorCutoffs{
		SectorID:       sector.ID,
		ClientCutoff:   sector.ClientCutoff,
		ProviderCutoff: sector.ProviderCutoff,
		AutoCalculate:  sector.AutoCalculate,
	}, nil
}
