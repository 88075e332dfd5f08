package services

import (
	portsrepo "github.com/lenddesk/loan_application_app/internal/core/ports/repositories"
	portssvc "github.com/lenddesk/loan_application_app/internal/core/ports/services"
	"github.com/lenddesk/loan_application_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	subjects portssvc.SubjectDirectorySvc,
	publisher portssvc.ApprovalEventPublisher,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Application = NewApplicationService(repos.ApplicationRepo, subjects, ApplicationLimits{
		MinTermMonths:    cfg.TermMonthsMin,
		MaxTermMonths:    cfg.TermMonthsMax,
		MaxPurposeLength: cfg.PurposeMaxLength,
	})
	container.Decision = NewDecisionService(repos.DecisionRepo, repos.ApplicationRepo, publisher)
	container.Auth = NewAuthService(cfg)

	return container
}
