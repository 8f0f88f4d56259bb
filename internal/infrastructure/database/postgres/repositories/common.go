// Package repositories provides PostgreSQL-backed implementations of the
// domain repository interfaces.  Every method takes a context.Context and
// uses parameterised queries exclusively.
package repositories

import (
	"context"
	stderrors "errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/juberis/reqtrack/pkg/errors"
)

// querier is the subset of pgxpool.Pool the repositories use, abstracted
// for tests.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ querier = (*pgxpool.Pool)(nil)

const uniqueViolation = "23505"

// mapError translates driver errors into the service taxonomy.
func mapError(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, pgx.ErrNoRows) {
		return errors.NotFound(notFoundMsg)
	}
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return errors.Conflict("record already exists").WithCause(err)
	}
	return errors.Wrap(err, errors.ErrCodeDatabase, "database query failed")
}
