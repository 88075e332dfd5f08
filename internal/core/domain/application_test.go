package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lenddesk/loan_application_app/internal/core/domain"
)

func TestApplicationStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status domain.ApplicationStatus
		want   bool
	}{
		{name: "pending is not terminal", status: domain.StatusPending, want: false},
		{name: "approved is terminal", status: domain.StatusApproved, want: true},
		{name: "rejected is terminal", status: domain.StatusRejected, want: true},
		{name: "unknown status is not terminal", status: domain.ApplicationStatus("CANCELLED"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsTerminal())
		})
	}
}

func TestDecisionOutcome_TargetStatus(t *testing.T) {
	assert.Equal(t, domain.StatusApproved, domain.OutcomeApproved.TargetStatus())
	assert.Equal(t, domain.StatusRejected, domain.OutcomeRejected.TargetStatus())
}
