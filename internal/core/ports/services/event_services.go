package services

import (
	"context"

	"github.com/lenddesk/loan_application_app/internal/core/domain"
)

// ApprovalEventPublisher delivers approval notifications to downstream
// consumers. Publication happens strictly after the decision transaction has
// committed and is best-effort: a crash between commit and publish loses the
// event (no durable outbox).
type ApprovalEventPublisher interface {
	PublishApplicationApproved(ctx context.Context, event domain.ApplicationApprovedEvent) error
}
