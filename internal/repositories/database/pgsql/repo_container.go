package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/lenddesk/loan_application_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	applicationRepo := newPgxApplicationRepository(dbPool)
	decisionRepo := newPgxDecisionRepository(dbPool, applicationRepo)

	return portsrepo.RepositoryProvider{
		ApplicationRepo: applicationRepo,
		DecisionRepo:    decisionRepo,
	}
}
