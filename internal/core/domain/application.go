package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApplicationStatus is the lifecycle status of a loan application.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "PENDING"
	StatusApproved ApplicationStatus = "APPROVED"
	StatusRejected ApplicationStatus = "REJECTED"
)

// IsTerminal reports whether no further status transitions are permitted.
// Only PENDING applications may receive a decision.
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Application represents a loan application owned by a subject.
// A subject may hold at most one PENDING application at a time; the partial
// unique index on (subject_id) WHERE status='PENDING' is the authoritative
// guard, the service-level check only improves error quality.
type Application struct {
	ApplicationID   string            `json:"applicationID"`
	SubjectID       string            `json:"subjectID"`
	Status          ApplicationStatus `json:"status"`
	RequestedAmount decimal.Decimal   `json:"requestedAmount"`
	TermMonths      *int              `json:"termMonths"` // Optional, nil when not supplied
	Purpose         string            `json:"purpose"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}
