package mapping

import (
	"github.com/lenddesk/loan_application_app/internal/core/domain"
	"github.com/lenddesk/loan_application_app/internal/models"
)

// ToModelDecision converts a domain Decision to a model Decision
func ToModelDecision(d domain.Decision) models.Decision {
	return models.Decision{
		DecisionID:    d.DecisionID,
		ApplicationID: d.ApplicationID,
		Outcome:       string(d.Outcome),
		StaffID:       d.StaffID,
		Reason:        d.Reason,
		CreatedAt:     d.CreatedAt,
	}
}

// ToDomainDecision converts a model Decision to a domain Decision
func ToDomainDecision(m models.Decision) domain.Decision {
	return domain.Decision{
		DecisionID:    m.DecisionID,
		ApplicationID: m.ApplicationID,
		Outcome:       domain.DecisionOutcome(m.Outcome),
		StaffID:       m.StaffID,
		Reason:        m.Reason,
		CreatedAt:     m.CreatedAt,
	}
}

// ToDomainDecisionSlice converts a slice of model Decisions to domain Decisions
func ToDomainDecisionSlice(ms []models.Decision) []domain.Decision {
	ds := make([]domain.Decision, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDecision(m)
	}
	return ds
}
