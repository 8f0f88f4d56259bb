package repositories

import (
	"context"

	"github.com/juberis/reqtrack/internal/domain/scheduling"
	"github.com/juberis/reqtrack/internal/infrastructure/monitoring/logging"
)

// PairingRepository is the PostgreSQL implementation of
// scheduling.PairingRepository.
type PairingRepository struct {
	db     querier
	logger logging.Logger
}

func NewPairingRepository(db querier, logger logging.Logger) *PairingRepository {
	return &PairingRepository{db: db, logger: logger.Named("pairing-repo")}
}

var _ scheduling.PairingRepository = (*PairingRepository)(nil)

func (r *PairingRepository) FindByID(ctx context.Context, id string) (*scheduling.Pairing, error) {
	var p scheduling.Pairing
	err := r.db.QueryRow(ctx, `
		SELECT id, request_type_id, service_category_id,
		       minimum_required_delay, created_at, updated_at
		FROM request_type_service_categories
		WHERE id = $1`, id).
		Scan(&p.ID, &p.RequestTypeID, &p.ServiceCategoryID,
			&p.MinimumRequiredDelay, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapError(err, "pairing not found")
	}
	return &p, nil
}

// DelayOverrideRepository is the PostgreSQL implementation of
// scheduling.DelayOverrideRepository.
type DelayOverrideRepository struct {
	db     querier
	logger logging.Logger
}

func NewDelayOverrideRepository(db querier, logger logging.Logger) *DelayOverrideRepository {
	return &DelayOverrideRepository{db: db, logger: logger.Named("delay-override-repo")}
}

var _ scheduling.DelayOverrideRepository = (*DelayOverrideRepository)(nil)

func (r *DelayOverrideRepository) FindByID(ctx context.Context, id string) (*scheduling.DelayOverride, error) {
	var o scheduling.DelayOverride
	err := r.db.QueryRow(ctx, `
		SELECT id, request_type_service_category_id, delay_type_name,
		       delay_value, created_at, updated_at
		FROM request_type_delays
		WHERE id = $1`, id).
		Scan(&o.ID, &o.PairingID, &o.Label, &o.DelayDays, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, mapError(err, "delay override not found")
	}
	return &o, nil
}

func (r *DelayOverrideRepository) ListByPairing(ctx context.Context, pairingID string) ([]scheduling.DelayOverride, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, request_type_service_category_id, delay_type_name,
		       delay_value, created_at, updated_at
		FROM request_type_delays
		WHERE request_type_service_category_id = $1
		ORDER BY delay_type_name ASC`, pairingID)
	if err != nil {
		return nil, mapError(err, "")
	}
	defer rows.Close()

	var out []scheduling.DelayOverride
	for rows.Next() {
		var o scheduling.DelayOverride
		if err := rows.Scan(&o.ID, &o.PairingID, &o.Label, &o.DelayDays,
			&o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, mapError(err, "")
		}
		out = append(out, o)
	}
	return out, mapError(rows.Err(), "")
}
