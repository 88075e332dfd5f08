package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lenddesk/loan_application_app/internal/apperrors"
	"github.com/lenddesk/loan_application_app/internal/core/domain"
	portsrepo "github.com/lenddesk/loan_application_app/internal/core/ports/repositories"
	"github.com/lenddesk/loan_application_app/internal/models"
	"github.com/lenddesk/loan_application_app/internal/utils/mapping"
)

type PgxApplicationRepository struct {
	BaseRepository
}

// newPgxApplicationRepository creates a new repository for application data.
func newPgxApplicationRepository(pool *pgxpool.Pool) portsrepo.ApplicationRepositoryFacade {
	return &PgxApplicationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxApplicationRepository implements portsrepo.ApplicationRepositoryFacade
var _ portsrepo.ApplicationRepositoryFacade = (*PgxApplicationRepository)(nil)

const applicationColumns = `application_id, subject_id, status, requested_amount, term_months, purpose, created_at, updated_at`

// scanApplication scans one applications row, handling the nullable term_months column.
func scanApplication(row pgx.Row) (models.Application, error) {
	var m models.Application
	var termMonths sql.NullInt32
	err := row.Scan(
		&m.ApplicationID,
		&m.SubjectID,
		&m.Status,
		&m.RequestedAmount,
		&termMonths,
		&m.Purpose,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return models.Application{}, err
	}
	if termMonths.Valid {
		v := int(termMonths.Int32)
		m.TermMonths = &v
	}
	return m, nil
}

// SaveApplication inserts a new PENDING application. The partial unique index
// on (subject_id) WHERE status='PENDING' is the authoritative duplicate guard;
// losing the race yields *apperrors.DuplicateActiveError referencing the winner.
func (r *PgxApplicationRepository) SaveApplication(ctx context.Context, application domain.Application) error {
	m := mapping.ToModelApplication(application)

	query := `
		INSERT INTO applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	var termMonths sql.NullInt32
	if m.TermMonths != nil {
		termMonths = sql.NullInt32{Int32: int32(*m.TermMonths), Valid: true}
	}

	insert := func(ctx context.Context) error {
		_, err := r.Pool.Exec(ctx, query,
			m.ApplicationID,
			m.SubjectID,
			m.Status,
			m.RequestedAmount,
			termMonths,
			m.Purpose,
			m.CreatedAt,
			m.UpdatedAt,
		)
		return err
	}

	onConflict := func(ctx context.Context) error {
		winner, err := r.FindPendingBySubjectID(ctx, m.SubjectID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				// The racing application was decided between the violation and
				// the re-query; the caller may simply resubmit.
				return fmt.Errorf("%w: concurrent pending application no longer present for subject %s", apperrors.ErrConstraintViolation, m.SubjectID)
			}
			return fmt.Errorf("failed to re-query pending application for subject %s: %w", m.SubjectID, err)
		}
		return &apperrors.DuplicateActiveError{
			ApplicationID: winner.ApplicationID,
			CreatedAt:     winner.CreatedAt,
		}
	}

	if err := r.InsertWithRecovery(ctx, constraintSubjectPending, insert, onConflict); err != nil {
		var dupErr *apperrors.DuplicateActiveError
		if errors.As(err, &dupErr) || errors.Is(err, apperrors.ErrConstraintViolation) {
			return err
		}
		return fmt.Errorf("failed to save application %s: %w", m.ApplicationID, err)
	}
	return nil
}

// FindApplicationByID retrieves an application by its ID.
func (r *PgxApplicationRepository) FindApplicationByID(ctx context.Context, applicationID string) (*domain.Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE application_id = $1;
	`
	m, err := scanApplication(r.Pool.QueryRow(ctx, query, applicationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find application by ID %s: %w", applicationID, err)
	}
	d := mapping.ToDomainApplication(m)
	return &d, nil
}

// FindPendingBySubjectID retrieves the subject's open application, if any.
func (r *PgxApplicationRepository) FindPendingBySubjectID(ctx context.Context, subjectID string) (*domain.Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE subject_id = $1 AND status = $2;
	`
	m, err := scanApplication(r.Pool.QueryRow(ctx, query, subjectID, models.Pending))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find pending application for subject %s: %w", subjectID, err)
	}
	d := mapping.ToDomainApplication(m)
	return &d, nil
}

// ListApplicationsBySubject retrieves a paginated list of the subject's applications.
func (r *PgxApplicationRepository) ListApplicationsBySubject(ctx context.Context, subjectID string, limit int, offset int) ([]domain.Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE subject_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, subjectID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications for subject %s: %w", subjectID, err)
	}
	defer rows.Close()

	var ms []models.Application
	for rows.Next() {
		m, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate application rows: %w", err)
	}
	return mapping.ToDomainApplicationSlice(ms), nil
}

// TransitionStatusInTx flips the application to a terminal status inside tx.
// The WHERE status='PENDING' predicate makes the transition conditional, so a
// concurrent decision that committed first leaves zero rows affected and the
// caller observes false.
func (r *PgxApplicationRepository) TransitionStatusInTx(ctx context.Context, tx pgx.Tx, applicationID string, status domain.ApplicationStatus, updatedAt time.Time) (bool, error) {
	query := `
		UPDATE applications
		SET status = $2, updated_at = $3
		WHERE application_id = $1 AND status = $4;
	`
	tag, err := tx.Exec(ctx, query, applicationID, models.ApplicationStatus(status), updatedAt, models.Pending)
	if err != nil {
		return false, fmt.Errorf("failed to update status of application %s: %w", applicationID, err)
	}
	return tag.RowsAffected() == 1, nil
}
