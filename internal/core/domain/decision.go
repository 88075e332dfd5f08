package domain

import "time"

// DecisionOutcome is the terminal verdict recorded for an application.
type DecisionOutcome string

const (
	OutcomeApproved DecisionOutcome = "APPROVED"
	OutcomeRejected DecisionOutcome = "REJECTED"
)

// TargetStatus returns the application status that results from this outcome.
func (o DecisionOutcome) TargetStatus() ApplicationStatus {
	if o == OutcomeApproved {
		return StatusApproved
	}
	return StatusRejected
}

// Decision is an immutable audit record of who decided an application, with
// what outcome and why. At most one decision exists per (application, outcome)
// pair; no update or delete operations exist anywhere in the system.
type Decision struct {
	DecisionID    string          `json:"decisionID"`
	ApplicationID string          `json:"applicationID"`
	Outcome       DecisionOutcome `json:"outcome"`
	StaffID       string          `json:"staffID"`
	Reason        string          `json:"reason"`
	CreatedAt     time.Time       `json:"createdAt"`
}
