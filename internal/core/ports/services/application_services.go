package services

import (
	"context"

	"github.com/lenddesk/loan_application_app/internal/core/domain"
	"github.com/lenddesk/loan_application_app/internal/dto"
)

// ApplicationReaderSvc defines read operations for application data
type ApplicationReaderSvc interface {
	// GetApplicationByID retrieves a specific application by its unique identifier.
	GetApplicationByID(ctx context.Context, applicationID string) (*domain.Application, error)

	// ListApplicationsBySubject retrieves a paginated list of a subject's applications.
	ListApplicationsBySubject(ctx context.Context, subjectID string, limit int, offset int) ([]domain.Application, error)
}

// ApplicationWriterSvc defines write operations for application data
type ApplicationWriterSvc interface {
	// CreateApplication validates the request, confirms the subject exists and
	// persists a new PENDING application. A subject with an open application
	// receives *apperrors.DuplicateActiveError referencing the existing one.
	CreateApplication(ctx context.Context, req dto.CreateApplicationRequest) (*domain.Application, error)
}

// ApplicationSvcFacade combines all application-related service interfaces
type ApplicationSvcFacade interface {
	ApplicationReaderSvc
	ApplicationWriterSvc
}
