package repositories

import (
	"context"
	"time"

	"github.com/juberis/reqtrack/internal/domain/calendar"
	"github.com/juberis/reqtrack/internal/domain/scheduling"
	"github.com/juberis/reqtrack/internal/infrastructure/monitoring/logging"
)

// SectorRepository is the PostgreSQL implementation of
// scheduling.SectorRepository.  Cutoff times are stored as TIME columns
// and scanned through their text form so the domain's time-of-day parsing
// stays the single source of truth.
type SectorRepository struct {
	db     querier
	logger logging.Logger
}

func NewSectorRepository(db querier, logger logging.Logger) *SectorRepository {
	return &SectorRepository{db: db, logger: logger.Named("sector-repo")}
}

var _ scheduling.SectorRepository = (*SectorRepository)(nil)

func (r *SectorRepository) FindByID(ctx context.Context, id string) (*scheduling.Sector, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, sector_name,
		       sector_client_time_end::text,
		       sector_provider_time_end::text,
		       is_auto_calculate,
		       created_at, updated_at
		FROM sectors
		WHERE id = $1`, id)
	return scanSector(row)
}

func (r *SectorRepository) List(ctx context.Context) ([]scheduling.Sector, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, sector_name,
		       sector_client_time_end::text,
		       sector_provider_time_end::text,
		       is_auto_calculate,
		       created_at, updated_at
		FROM sectors
		ORDER BY sector_name ASC`)
	if err != nil {
		return nil, mapError(err, "")
	}
	defer rows.Close()

	var out []scheduling.Sector
	for rows.Next() {
		s, err := scanSector(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, mapError(rows.Err(), "")
}

func scanSector(row interface{ Scan(dest ...any) error }) (*scheduling.Sector, error) {
	var (
		s              scheduling.Sector
		clientCutoff   string
		providerCutoff string
		createdAt      time.Time
		updatedAt      time.Time
	)
	if err := row.Scan(&s.ID, &s.Name, &clientCutoff, &providerCutoff,
		&s.AutoCalculate, &createdAt, &updatedAt); err != nil {
		return nil, mapError(err, "sector not found")
	}

	var err error
	if s.ClientCutoff, err = calendar.ParseTimeOfDay(clientCutoff); err != nil {
		return nil, err
	}
	if s.ProviderCutoff, err = calendar.ParseTimeOfDay(providerCutoff); err != nil {
		return nil, err
	}
	s.CreatedAt = createdAt
	s.UpdatedAt = updatedAt
	return &s, nil
}
