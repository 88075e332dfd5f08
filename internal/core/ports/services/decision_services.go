package services

import (
	"context"

	"github.com/lenddesk/loan_application_app/internal/core/domain"
	"github.com/lenddesk/loan_application_app/internal/dto"
)

// DecisionReaderSvc defines read operations for decision data
type DecisionReaderSvc interface {
	// GetDecisionByID retrieves a specific decision by its unique identifier.
	GetDecisionByID(ctx context.Context, decisionID string) (*domain.Decision, error)

	// ListDecisionsByApplicationID retrieves all decisions recorded for an application.
	ListDecisionsByApplicationID(ctx context.Context, applicationID string) ([]domain.Decision, error)
}

// DecisionWriterSvc defines write operations for decision data
type DecisionWriterSvc interface {
	// SubmitDecision records the one-time terminal decision for a pending
	// application and transitions its status atomically. On approval, one
	// ApplicationApprovedEvent is published after the transaction commits.
	SubmitDecision(ctx context.Context, applicationID string, req dto.SubmitDecisionRequest, staffID string) (*domain.Decision, error)
}

// DecisionSvcFacade combines all decision-related service interfaces
type DecisionSvcFacade interface {
	DecisionReaderSvc
	DecisionWriterSvc
}
