package repositories

import (
	"context"

	"github.com/lenddesk/loan_application_app/internal/core/domain"
)

// DecisionReader defines read operations for decision data
type DecisionReader interface {
	// FindDecisionByID retrieves a specific decision by its unique identifier.
	FindDecisionByID(ctx context.Context, decisionID string) (*domain.Decision, error)

	// FindDecisionByApplicationAndOutcome retrieves the decision recorded for the
	// given (application, outcome) pair, or apperrors.ErrNotFound.
	FindDecisionByApplicationAndOutcome(ctx context.Context, applicationID string, outcome domain.DecisionOutcome) (*domain.Decision, error)

	// ListDecisionsByApplicationID retrieves all decisions for an application.
	ListDecisionsByApplicationID(ctx context.Context, applicationID string) ([]domain.Decision, error)
}

// DecisionWriter defines write operations for decision data
type DecisionWriter interface {
	// SaveDecisionAndTransition persists the decision and moves the owning
	// application from PENDING to the outcome's terminal status, both inside a
	// single storage transaction. It returns:
	//   - *apperrors.DuplicateDecisionError when the (application, outcome)
	//     uniqueness guard rejects the insert,
	//   - apperrors.ErrApplicationNotPending when the conditional status update
	//     matches no row because a concurrent decision committed first.
	SaveDecisionAndTransition(ctx context.Context, decision domain.Decision) error
}

// DecisionRepositoryFacade combines all decision-related repository interfaces
type DecisionRepositoryFacade interface {
	DecisionReader
	DecisionWriter
}
