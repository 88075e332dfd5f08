package mapping

import (
	"github.com/lenddesk/loan_application_app/internal/core/domain"
	"github.com/lenddesk/loan_application_app/internal/models"
)

// ToModelApplication converts a domain Application to a model Application
func ToModelApplication(d domain.Application) models.Application {
	return models.Application{
		ApplicationID:   d.ApplicationID,
		SubjectID:       d.SubjectID,
		Status:          models.ApplicationStatus(d.Status),
		RequestedAmount: d.RequestedAmount,
		TermMonths:      d.TermMonths,
		Purpose:         d.Purpose,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// ToDomainApplication converts a model Application to a domain Application
func ToDomainApplication(m models.Application) domain.Application {
	return domain.Application{
		ApplicationID:   m.ApplicationID,
		SubjectID:       m.SubjectID,
		Status:          domain.ApplicationStatus(m.Status),
		RequestedAmount: m.RequestedAmount,
		TermMonths:      m.TermMonths,
		Purpose:         m.Purpose,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ToDomainApplicationSlice converts a slice of model Applications to domain Applications
func ToDomainApplicationSlice(ms []models.Application) []domain.Application {
	ds := make([]domain.Application, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainApplication(m)
	}
	return ds
}
