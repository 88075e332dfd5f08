package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lenddesk/loan_application_app/internal/apperrors"
	"github.com/lenddesk/loan_application_app/internal/core/domain"
	portsrepo "github.com/lenddesk/loan_application_app/internal/core/ports/repositories"
	"github.com/lenddesk/loan_application_app/internal/models"
	"github.com/lenddesk/loan_application_app/internal/utils/mapping"
)

type PgxDecisionRepository struct {
	BaseRepository
	applicationRepo portsrepo.ApplicationRepositoryFacade
}

// newPgxDecisionRepository creates a new repository for decision data.
func newPgxDecisionRepository(pool *pgxpool.Pool, applicationRepo portsrepo.ApplicationRepositoryFacade) portsrepo.DecisionRepositoryFacade {
	return &PgxDecisionRepository{
		BaseRepository:  BaseRepository{Pool: pool},
		applicationRepo: applicationRepo,
	}
}

// Ensure PgxDecisionRepository implements portsrepo.DecisionRepositoryFacade
var _ portsrepo.DecisionRepositoryFacade = (*PgxDecisionRepository)(nil)

const decisionColumns = `decision_id, application_id, outcome, staff_id, reason, created_at`

func scanDecision(row pgx.Row) (models.Decision, error) {
	var m models.Decision
	err := row.Scan(
		&m.DecisionID,
		&m.ApplicationID,
		&m.Outcome,
		&m.StaffID,
		&m.Reason,
		&m.CreatedAt,
	)
	return m, err
}

// SaveDecisionAndTransition persists the decision record and moves the owning
// application to the outcome's terminal status inside one transaction, so an
// observer never sees a decision without the matching application status or
// vice versa. Two race outcomes are mapped deterministically:
//   - a concurrent decision with the same outcome trips the
//     (application_id, outcome) uniqueness guard → *DuplicateDecisionError,
//   - a concurrent decision with the other outcome makes the conditional
//     status update match no row → ErrApplicationNotPending.
func (r *PgxDecisionRepository) SaveDecisionAndTransition(ctx context.Context, decision domain.Decision) error {
	m := mapping.ToModelDecision(decision)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Ignored if the transaction commits successfully.
	defer r.Rollback(ctx, tx)

	insertQuery := `
		INSERT INTO decisions (` + decisionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	insert := func(ctx context.Context) error {
		_, err := tx.Exec(ctx, insertQuery,
			m.DecisionID,
			m.ApplicationID,
			m.Outcome,
			m.StaffID,
			m.Reason,
			m.CreatedAt,
		)
		return err
	}

	// A unique violation aborts the transaction, so the re-query for the
	// winning decision must run on the pool, not on tx.
	onConflict := func(ctx context.Context) error {
		winner, err := r.FindDecisionByApplicationAndOutcome(ctx, decision.ApplicationID, decision.Outcome)
		if err != nil {
			return fmt.Errorf("failed to re-query conflicting decision for application %s: %w", decision.ApplicationID, err)
		}
		return &apperrors.DuplicateDecisionError{
			DecisionID:    winner.DecisionID,
			ApplicationID: winner.ApplicationID,
			Outcome:       string(winner.Outcome),
			CreatedAt:     winner.CreatedAt,
		}
	}

	if err := r.InsertWithRecovery(ctx, constraintApplicationOutcome, insert, onConflict); err != nil {
		var dupErr *apperrors.DuplicateDecisionError
		if errors.As(err, &dupErr) || errors.Is(err, apperrors.ErrConstraintViolation) {
			return err
		}
		return fmt.Errorf("failed to insert decision %s: %w", m.DecisionID, err)
	}

	transitioned, err := r.applicationRepo.TransitionStatusInTx(ctx, tx, decision.ApplicationID, decision.Outcome.TargetStatus(), m.CreatedAt)
	if err != nil {
		return err
	}
	if !transitioned {
		return fmt.Errorf("application %s: %w", decision.ApplicationID, apperrors.ErrApplicationNotPending)
	}

	return r.Commit(ctx, tx)
}

// FindDecisionByID retrieves a decision by its ID.
func (r *PgxDecisionRepository) FindDecisionByID(ctx context.Context, decisionID string) (*domain.Decision, error) {
	query := `
		SELECT ` + decisionColumns + `
		FROM decisions
		WHERE decision_id = $1;
	`
	m, err := scanDecision(r.Pool.QueryRow(ctx, query, decisionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find decision by ID %s: %w", decisionID, err)
	}
	d := mapping.ToDomainDecision(m)
	return &d, nil
}

// FindDecisionByApplicationAndOutcome retrieves the decision for the given
// (application, outcome) pair.
func (r *PgxDecisionRepository) FindDecisionByApplicationAndOutcome(ctx context.Context, applicationID string, outcome domain.DecisionOutcome) (*domain.Decision, error) {
	query := `
		SELECT ` + decisionColumns + `
		FROM decisions
		WHERE application_id = $1 AND outcome = $2;
	`
	m, err := scanDecision(r.Pool.QueryRow(ctx, query, applicationID, string(outcome)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find decision for application %s outcome %s: %w", applicationID, outcome, err)
	}
	d := mapping.ToDomainDecision(m)
	return &d, nil
}

// ListDecisionsByApplicationID retrieves all decisions for an application.
func (r *PgxDecisionRepository) ListDecisionsByApplicationID(ctx context.Context, applicationID string) ([]domain.Decision, error) {
	query := `
		SELECT ` + decisionColumns + `
		FROM decisions
		WHERE application_id = $1
		ORDER BY created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list decisions for application %s: %w", applicationID, err)
	}
	defer rows.Close()

	var ms []models.Decision
	for rows.Next() {
		m, err := scanDecision(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan decision row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate decision rows: %w", err)
	}
	return mapping.ToDomainDecisionSlice(ms), nil
}
