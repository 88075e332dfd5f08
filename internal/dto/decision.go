package dto

import (
	"time"

	"github.com/lenddesk/loan_application_app/internal/core/domain"
)

// SubmitDecisionRequest defines the data needed to decide an application.
// The acting staff identity comes from the authentication context, not the body.
type SubmitDecisionRequest struct {
	Outcome domain.DecisionOutcome `json:"outcome" binding:"required,oneof=APPROVED REJECTED"`
	Reason  string                 `json:"reason" binding:"omitempty,max=500"` // Optional
}

// DecisionResponse defines the data returned for a decision.
// Mirrors domain.Decision.
type DecisionResponse struct {
	DecisionID    string                 `json:"decisionID"`
	ApplicationID string                 `json:"applicationID"`
	Outcome       domain.DecisionOutcome `json:"outcome"`
	StaffID       string                 `json:"staffID"`
	Reason        string                 `json:"reason"`
	CreatedAt     time.Time              `json:"createdAt"`
}

// ToDecisionResponse converts a domain.Decision to DecisionResponse DTO
func ToDecisionResponse(d *domain.Decision) DecisionResponse {
	return DecisionResponse{
		DecisionID:    d.DecisionID,
		ApplicationID: d.ApplicationID,
		Outcome:       d.Outcome,
		StaffID:       d.StaffID,
		Reason:        d.Reason,
		CreatedAt:     d.CreatedAt,
	}
}

// ToListDecisionResponse converts a slice of domain.Decision to response DTOs
func ToListDecisionResponse(decisions []domain.Decision) []DecisionResponse {
	res := make([]DecisionResponse, len(decisions))
	for i, d := range decisions {
		res[i] = ToDecisionResponse(&d)
	}
	return res
}

// ListDecisionsResponse wraps the list of decisions for an application.
type ListDecisionsResponse struct {
	Decisions []DecisionResponse `json:"decisions"`
}
