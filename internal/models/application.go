package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApplicationStatus mirrors domain.ApplicationStatus for DB storage.
type ApplicationStatus string

const (
	Pending  ApplicationStatus = "PENDING"
	Approved ApplicationStatus = "APPROVED"
	Rejected ApplicationStatus = "REJECTED"
)

// Application represents a row of the applications table.
// Note: TermMonths uses a pointer for the nullable term_months column.
type Application struct {
	ApplicationID   string            `db:"application_id"`
	SubjectID       string            `db:"subject_id"`
	Status          ApplicationStatus `db:"status"`
	RequestedAmount decimal.Decimal   `db:"requested_amount"`
	TermMonths      *int              `db:"term_months"` // Nullable
	Purpose         string            `db:"purpose"`
	CreatedAt       time.Time         `db:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at"`
}
