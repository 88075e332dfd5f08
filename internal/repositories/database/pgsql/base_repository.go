package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lenddesk/loan_application_app/internal/apperrors"
)

// Constraint names the repositories recognize as known race signatures.
const (
	constraintSubjectPending     = "ux_applications_subject_pending"
	constraintApplicationOutcome = "ux_decisions_application_outcome"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, sql.ErrTxDone) && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a unique violation on the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}

// InsertWithRecovery runs insert and converts a lost storage race into a
// deterministic domain error. When the insert fails with a unique violation on
// the named constraint, onConflict is invoked to re-query the winning row and
// build the appropriate duplicate error. Unique violations on any other
// constraint, and integrity failures without a known signature, surface as
// ErrConstraintViolation. The application-level existence checks upstream are
// only a fast path; this recovery makes check-then-act safe without locks.
func (r *BaseRepository) InsertWithRecovery(ctx context.Context, constraint string, insert func(context.Context) error, onConflict func(context.Context) error) error {
	err := insert(ctx)
	if err == nil {
		return nil
	}
	if isUniqueViolation(err, constraint) {
		return onConflict(ctx)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: unexpected unique violation on %s", apperrors.ErrConstraintViolation, pgErr.ConstraintName)
	}
	return err
}
