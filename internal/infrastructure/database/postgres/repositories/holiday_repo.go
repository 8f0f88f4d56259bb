package repositories

import (
	"context"
	"time"

	"github.com/juberis/reqtrack/internal/domain/calendar"
	"github.com/juberis/reqtrack/internal/infrastructure/monitoring/logging"
	"github.com/juberis/reqtrack/pkg/errors"
)

// HolidayRepository is the PostgreSQL implementation of
// calendar.HolidayRepository.
type HolidayRepository struct {
	db     querier
	logger logging.Logger
}

func NewHolidayRepository(db querier, logger logging.Logger) *HolidayRepository {
	return &HolidayRepository{db: db, logger: logger.Named("holiday-repo")}
}

var _ calendar.HolidayRepository = (*HolidayRepository)(nil)

// ListDates returns every holiday date as a "2006-01-02" string, ordered
// ascending.  This is the query behind the holiday cache.
func (r *HolidayRepository) ListDates(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT to_char(holiday_date, 'YYYY-MM-DD')
		FROM holidays
		ORDER BY holiday_date ASC`)
	if err != nil {
		return nil, mapError(err, "")
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, mapError(err, "")
		}
		dates = append(dates, d)
	}
	return dates, mapError(rows.Err(), "")
}

// List returns all holidays ordered by date.
func (r *HolidayRepository) List(ctx context.Context) ([]calendar.Holiday, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, holiday_name, holiday_date, created_at, updated_at
		FROM holidays
		ORDER BY holiday_date ASC`)
	if err != nil {
		return nil, mapError(err, "")
	}
	defer rows.Close()
	return scanHolidays(rows)
}

// ListBetween returns holidays with a date in [from, to] inclusive.
func (r *HolidayRepository) ListBetween(ctx context.Context, from, to time.Time) ([]calendar.Holiday, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, holiday_name, holiday_date, created_at, updated_at
		FROM holidays
		WHERE holiday_date BETWEEN $1 AND $2
		ORDER BY holiday_date ASC`,
		calendar.DateOf(from), calendar.DateOf(to))
	if err != nil {
		return nil, mapError(err, "")
	}
	defer rows.Close()
	return scanHolidays(rows)
}

func (r *HolidayRepository) FindByID(ctx context.Context, id string) (*calendar.Holiday, error) {
	var h calendar.Holiday
	err := r.db.QueryRow(ctx, `
		SELECT id, holiday_name, holiday_date, created_at, updated_at
		FROM holidays
		WHERE id = $1`, id).
		Scan(&h.ID, &h.Name, &h.Date, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, mapError(err, "holiday not found")
	}
	return &h, nil
}

func (r *HolidayRepository) ExistsByNameAndDate(ctx context.Context, name string, date time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM holidays
			WHERE holiday_name = $1 AND holiday_date = $2
		)`, name, calendar.DateOf(date)).Scan(&exists)
	if err != nil {
		return false, mapError(err, "")
	}
	return exists, nil
}

func (r *HolidayRepository) Create(ctx context.Context, h *calendar.Holiday) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO holidays (id, holiday_name, holiday_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		h.ID, h.Name, calendar.DateOf(h.Date), h.CreatedAt, h.UpdatedAt)
	if err != nil {
		return mapError(err, "")
	}
	r.logger.Debug("holiday inserted",
		logging.String("holiday_id", h.ID),
		logging.String("date", calendar.FormatDate(h.Date)))
	return nil
}

func (r *HolidayRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("holiday not found").WithDetail(id)
	}
	return nil
}

func scanHolidays(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]calendar.Holiday, error) {
	var out []calendar.Holiday
	for rows.Next() {
		var h calendar.Holiday
		if err := rows.Scan(&h.ID, &h.Name, &h.Date, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, mapError(err, "")
		}
		out = append(out, h)
	}
	return out, mapError(rows.Err(), "")
}
