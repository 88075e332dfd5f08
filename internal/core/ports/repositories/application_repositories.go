package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lenddesk/loan_application_app/internal/core/domain"
)

// ApplicationReader defines read operations for application data
type ApplicationReader interface {
	// FindApplicationByID retrieves a specific application by its unique identifier.
	FindApplicationByID(ctx context.Context, applicationID string) (*domain.Application, error)

	// FindPendingBySubjectID retrieves the subject's open application, if any.
	// Returns apperrors.ErrNotFound when the subject has no pending application.
	FindPendingBySubjectID(ctx context.Context, subjectID string) (*domain.Application, error)

	// ListApplicationsBySubject retrieves a paginated list of the subject's applications.
	ListApplicationsBySubject(ctx context.Context, subjectID string, limit int, offset int) ([]domain.Application, error)
}

// ApplicationWriter defines write operations for application data
type ApplicationWriter interface {
	// SaveApplication persists a new application in status PENDING.
	// When the insert loses a race against a concurrent creation for the same
	// subject, the storage constraint is mapped to *apperrors.DuplicateActiveError
	// referencing the winning application.
	SaveApplication(ctx context.Context, application domain.Application) error
}

// ApplicationTransactionSupport defines operations that run inside a decision transaction
type ApplicationTransactionSupport interface {
	// TransitionStatusInTx conditionally moves the application from PENDING to a
	// terminal status within the given transaction. It reports false when no row
	// matched because the application is no longer pending.
	TransitionStatusInTx(ctx context.Context, tx pgx.Tx, applicationID string, status domain.ApplicationStatus, updatedAt time.Time) (bool, error)
}

// ApplicationRepositoryFacade combines all application-related repository interfaces
type ApplicationRepositoryFacade interface {
	ApplicationReader
	ApplicationWriter
	ApplicationTransactionSupport
}
