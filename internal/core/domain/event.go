package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApplicationApprovedEvent is published to downstream consumers strictly after
// an approval decision has committed. No event is emitted on rejection.
type ApplicationApprovedEvent struct {
	ApplicationID   string          `json:"applicationID"`
	SubjectID       string          `json:"subjectID"`
	RequestedAmount decimal.Decimal `json:"requestedAmount"`
	StaffID         string          `json:"staffID"`
	DecidedAt       time.Time       `json:"decidedAt"`
}
