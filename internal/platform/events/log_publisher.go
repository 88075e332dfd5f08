package events

import (
	"context"
	"log/slog"

	"github.com/lenddesk/loan_application_app/internal/core/domain"
	portssvc "github.com/lenddesk/loan_application_app/internal/core/ports/services"
)

// LogPublisher writes approval events to the logger. Used when no SNS topic
// is configured, typically in local development.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a logging event publisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Ensure LogPublisher implements the ApprovalEventPublisher interface
var _ portssvc.ApprovalEventPublisher = (*LogPublisher)(nil)

func (p *LogPublisher) PublishApplicationApproved(ctx context.Context, event domain.ApplicationApprovedEvent) error {
	p.logger.Info("Application approved event",
		slog.String("application_id", event.ApplicationID),
		slog.String("subject_id", event.SubjectID),
		slog.String("requested_amount", event.RequestedAmount.String()),
		slog.String("staff_id", event.StaffID),
		slog.Time("decided_at", event.DecidedAt),
	)
	return nil
}
