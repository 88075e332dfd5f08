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

// decisionService implements the DecisionSvcFacade interface
type decisionService struct {
	BaseService
	decisionRepo    portsrepo.DecisionRepositoryFacade
	applicationRepo portsrepo.ApplicationRepositoryFacade
	publisher       portssvc.ApprovalEventPublisher
}

// NewDecisionService creates a new decision service.
func NewDecisionService(decisionRepo portsrepo.DecisionRepositoryFacade, applicationRepo portsrepo.ApplicationRepositoryFacade, publisher portssvc.ApprovalEventPublisher) portssvc.DecisionSvcFacade {
	return &decisionService{
		decisionRepo:    decisionRepo,
		applicationRepo: applicationRepo,
		publisher:       publisher,
	}
}

// Ensure decisionService implements the DecisionSvcFacade interface
var _ portssvc.DecisionSvcFacade = (*decisionService)(nil)

// SubmitDecision records the one-time terminal decision for a pending
// application. The decision insert and the status transition commit in a
// single storage transaction; a losing concurrent attempt observes either
// ErrApplicationNotPending or a DuplicateDecisionError, never corrupted state.
func (s *decisionService) SubmitDecision(ctx context.Context, applicationID string, req dto.SubmitDecisionRequest, staffID string) (*domain.Decision, error) {
	application, err := s.applicationRepo.FindApplicationByID(ctx, applicationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load application for decision",
				slog.String("application_id", applicationID))
		}
		return nil, err
	}

	if application.Status != domain.StatusPending {
		s.LogWarn(ctx, "Decision attempted on non-pending application",
			slog.String("application_id", applicationID),
			slog.String("status", string(application.Status)),
			slog.String("requested_outcome", string(req.Outcome)))
		return nil, fmt.Errorf("application %s has status %s: %w", applicationID, application.Status, apperrors.ErrApplicationNotPending)
	}

	// Defensive duplicate check. The status gate above already covers the
	// sequential case; this catches a decision that committed between the load
	// and here, and the storage constraint backs both checks.
	existing, err := s.decisionRepo.FindDecisionByApplicationAndOutcome(ctx, applicationID, req.Outcome)
	if err == nil {
		return nil, &apperrors.DuplicateDecisionError{
			DecisionID:    existing.DecisionID,
			ApplicationID: existing.ApplicationID,
			Outcome:       string(existing.Outcome),
			CreatedAt:     existing.CreatedAt,
		}
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check for existing decision",
			slog.String("application_id", applicationID))
		return nil, err
	}

	decision := domain.Decision{
		DecisionID:    uuid.NewString(),
		ApplicationID: applicationID,
		Outcome:       req.Outcome,
		StaffID:       staffID,
		Reason:        req.Reason,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.decisionRepo.SaveDecisionAndTransition(ctx, decision); err != nil {
		var dupErr *apperrors.DuplicateDecisionError
		switch {
		case errors.As(err, &dupErr):
			s.LogInfo(ctx, "Concurrent decision lost the race",
				slog.String("application_id", applicationID),
				slog.String("winning_decision_id", dupErr.DecisionID))
		case errors.Is(err, apperrors.ErrApplicationNotPending):
			s.LogInfo(ctx, "Application left pending state concurrently",
				slog.String("application_id", applicationID))
		default:
			s.LogError(ctx, err, "Failed to persist decision",
				slog.String("decision_id", decision.DecisionID),
				slog.String("application_id", applicationID))
		}
		return nil, err
	}

	metrics.DecisionsSubmitted.WithLabelValues(string(decision.Outcome)).Inc()
	s.LogInfo(ctx, "Decision recorded",
		slog.String("decision_id", decision.DecisionID),
		slog.String("application_id", applicationID),
		slog.String("outcome", string(decision.Outcome)),
		slog.String("staff_id", staffID))

	if decision.Outcome == domain.OutcomeApproved {
		s.publishApproval(ctx, application, decision)
	}

	return &decision, nil
}

// publishApproval notifies the event sink after the transaction has committed.
// Delivery is best-effort: a publish failure is logged and counted but does
// not fail the already-committed decision. There is no outbox journal, so an
// event can be lost if the process dies between commit and publish.
func (s *decisionService) publishApproval(ctx context.Context, application *domain.Application, decision domain.Decision) {
	event := domain.ApplicationApprovedEvent{
		ApplicationID:   application.ApplicationID,
		SubjectID:       application.SubjectID,
		RequestedAmount: application.RequestedAmount,
		StaffID:         decision.StaffID,
		DecidedAt:       decision.CreatedAt,
	}
	if err := s.publisher.PublishApplicationApproved(ctx, event); err != nil {
		metrics.ApprovalEventsFailed.Inc()
		s.LogError(ctx, err, "Failed to publish approval event",
			slog.String("application_id", application.ApplicationID))
		return
	}
	metrics.ApprovalEventsPublished.Inc()
	s.LogInfo(ctx, "Approval event published",
		slog.String("application_id", application.ApplicationID),
		slog.String("subject_id", application.SubjectID))
}

func (s *decisionService) GetDecisionByID(ctx context.Context, decisionID string) (*domain.Decision, error) {
	decision, err := s.decisionRepo.FindDecisionByID(ctx, decisionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find decision by ID",
				slog.String("decision_id", decisionID))
		}
		return nil, err
	}
	return decision, nil
}

func (s *decisionService) ListDecisionsByApplicationID(ctx context.Context, applicationID string) ([]domain.Decision, error) {
	// Confirm the application exists so a bad id yields 404, not an empty list.
	if _, err := s.applicationRepo.FindApplicationByID(ctx, applicationID); err != nil {
		return nil, err
	}
	decisions, err := s.decisionRepo.ListDecisionsByApplicationID(ctx, applicationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list decisions",
			slog.String("application_id", applicationID))
		return nil, fmt.Errorf("failed to list decisions for application %s: %w", applicationID, err)
	}
	if decisions == nil {
		return []domain.Decision{}, nil
	}
	return decisions, nil
}
