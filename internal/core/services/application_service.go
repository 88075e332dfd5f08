package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lenddesk/loan_application_app/internal/apperrors"
	"github.com/lenddesk/loan_application_app/internal/core/domain"
	portsrepo "github.com/lenddesk/loan_application_app/internal/core/ports/repositories"
	portssvc "github.com/lenddesk/loan_application_app/internal/core/ports/services"
	"github.com/lenddesk/loan_application_app/internal/dto"
	"github.com/lenddesk/loan_application_app/internal/platform/metrics"
)

// ApplicationLimits bounds the optional request fields. Values come from
// configuration, not from the persistence layer.
type ApplicationLimits struct {
	MinTermMonths    int
	MaxTermMonths    int
	MaxPurposeLength int
}

// applicationService implements the ApplicationSvcFacade interface
type applicationService struct {
	BaseService
	applicationRepo portsrepo.ApplicationRepositoryFacade
	subjects        portssvc.SubjectDirectorySvc
	limits          ApplicationLimits
}

// NewApplicationService creates a new application lifecycle service.
func NewApplicationService(repo portsrepo.ApplicationRepositoryFacade, subjects portssvc.SubjectDirectorySvc, limits ApplicationLimits) portssvc.ApplicationSvcFacade {
	return &applicationService{
		applicationRepo: repo,
		subjects:        subjects,
		limits:          limits,
	}
}

// Ensure applicationService implements the ApplicationSvcFacade interface
var _ portssvc.ApplicationSvcFacade = (*applicationService)(nil)

func (s *applicationService) validateCreateRequest(req dto.CreateApplicationRequest) error {
	if !req.RequestedAmount.IsPositive() {
		return fmt.Errorf("requestedAmount must be positive: %w", apperrors.ErrValidation)
	}
	if req.TermMonths != nil {
		if *req.TermMonths < s.limits.MinTermMonths || *req.TermMonths > s.limits.MaxTermMonths {
			return fmt.Errorf("termMonths must be between %d and %d: %w", s.limits.MinTermMonths, s.limits.MaxTermMonths, apperrors.ErrValidation)
		}
	}
	if len(req.Purpose) > s.limits.MaxPurposeLength {
		return fmt.Errorf("purpose must not exceed %d characters: %w", s.limits.MaxPurposeLength, apperrors.ErrValidation)
	}
	return nil
}

// CreateApplication persists a new PENDING application for the subject.
// The pending-application pre-check is a fast path that improves error
// quality; the storage constraint remains authoritative under concurrency and
// the repository converts a lost insert race into the same DuplicateActiveError.
func (s *applicationService) CreateApplication(ctx context.Context, req dto.CreateApplicationRequest) (*domain.Application, error) {
	if err := s.validateCreateRequest(req); err != nil {
		s.LogWarn(ctx, "Application request failed validation",
			slog.String("subject_id", req.SubjectID),
			slog.String("error", err.Error()))
		return nil, err
	}

	exists, err := s.subjects.SubjectExists(ctx, req.SubjectID)
	if err != nil {
		s.LogError(ctx, err, "Subject directory lookup failed",
			slog.String("subject_id", req.SubjectID))
		return nil, fmt.Errorf("failed to look up subject %s: %w", req.SubjectID, err)
	}
	if !exists {
		return nil, fmt.Errorf("subject %s: %w", req.SubjectID, apperrors.ErrNotFound)
	}

	existing, err := s.applicationRepo.FindPendingBySubjectID(ctx, req.SubjectID)
	if err == nil {
		metrics.ApplicationCreateConflicts.Inc()
		return nil, &apperrors.DuplicateActiveError{
			ApplicationID: existing.ApplicationID,
			CreatedAt:     existing.CreatedAt,
		}
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check for pending application",
			slog.String("subject_id", req.SubjectID))
		return nil, err
	}

	now := time.Now().UTC()
	application := domain.Application{
		ApplicationID:   uuid.NewString(),
		SubjectID:       req.SubjectID,
		Status:          domain.StatusPending,
		RequestedAmount: req.RequestedAmount,
		TermMonths:      req.TermMonths,
		Purpose:         req.Purpose,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.applicationRepo.SaveApplication(ctx, application); err != nil {
		var dupErr *apperrors.DuplicateActiveError
		if errors.As(err, &dupErr) {
			// Lost the insert race; the constraint-backed recovery already
			// resolved the winning application for the error message.
			metrics.ApplicationCreateConflicts.Inc()
			s.LogInfo(ctx, "Concurrent application creation lost the race",
				slog.String("subject_id", req.SubjectID),
				slog.String("winning_application_id", dupErr.ApplicationID))
			return nil, err
		}
		s.LogError(ctx, err, "Failed to save application",
			slog.String("application_id", application.ApplicationID),
			slog.String("subject_id", req.SubjectID))
		return nil, err
	}

	metrics.ApplicationsCreated.Inc()
	s.LogInfo(ctx, "Application created successfully",
		slog.String("application_id", application.ApplicationID),
		slog.String("subject_id", application.SubjectID))
	return &application, nil
}

func (s *applicationService) GetApplicationByID(ctx context.Context, applicationID string) (*domain.Application, error) {
	application, err := s.applicationRepo.FindApplicationByID(ctx, applicationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find application by ID",
				slog.String("application_id", applicationID))
		}
		return nil, err
	}
	return application, nil
}

func (s *applicationService) ListApplicationsBySubject(ctx context.Context, subjectID string, limit int, offset int) ([]domain.Application, error) {
	applications, err := s.applicationRepo.ListApplicationsBySubject(ctx, subjectID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list applications",
			slog.String("subject_id", subjectID),
			slog.Int("limit", limit),
			slog.Int("offset", offset))
		return nil, fmt.Errorf("failed to list applications for subject %s: %w", subjectID, err)
	}
	if applications == nil {
		return []domain.Application{}, nil
	}
	return applications, nil
}
