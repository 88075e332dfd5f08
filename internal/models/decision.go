package models

import "time"

// Decision represents a row of the decisions table. Rows are insert-only; the
// unique constraint on (application_id, outcome) backs the one-decision rule.
type Decision struct {
	DecisionID    string    `db:"decision_id"`
	ApplicationID string    `db:"application_id"`
	Outcome       string    `db:"outcome"`
	StaffID       string    `db:"staff_id"`
	Reason        string    `db:"reason"`
	CreatedAt     time.Time `db:"created_at"`
}
