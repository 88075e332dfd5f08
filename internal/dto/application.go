package dto

import (
	"time"

	"github.com/lenddesk/loan_application_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateApplicationRequest defines the data needed to submit a new loan application.
type CreateApplicationRequest struct {
	SubjectID       string          `json:"subjectID" binding:"required"`
	RequestedAmount decimal.Decimal `json:"requestedAmount" binding:"required,decimalgt0"`
	TermMonths      *int            `json:"termMonths"` // Optional, use pointer for nullability
	Purpose         string          `json:"purpose"`    // Optional
}

// ApplicationResponse defines the data returned for an application.
// Mirrors domain.Application.
type ApplicationResponse struct {
	ApplicationID   string                   `json:"applicationID"`
	SubjectID       string                   `json:"subjectID"`
	Status          domain.ApplicationStatus `json:"status"`
	RequestedAmount decimal.Decimal          `json:"requestedAmount"`
	TermMonths      *int                     `json:"termMonths"`
	Purpose         string                   `json:"purpose"`
	CreatedAt       time.Time                `json:"createdAt"`
	UpdatedAt       time.Time                `json:"updatedAt"`
}

// ToApplicationResponse converts a domain.Application to ApplicationResponse DTO
func ToApplicationResponse(app *domain.Application) ApplicationResponse {
	return ApplicationResponse{
		ApplicationID:   app.ApplicationID,
		SubjectID:       app.SubjectID,
		Status:          app.Status,
		RequestedAmount: app.RequestedAmount,
		TermMonths:      app.TermMonths,
		Purpose:         app.Purpose,
		CreatedAt:       app.CreatedAt,
		UpdatedAt:       app.UpdatedAt,
	}
}

// ToListApplicationResponse converts a slice of domain.Application to response DTOs
func ToListApplicationResponse(apps []domain.Application) []ApplicationResponse {
	res := make([]ApplicationResponse, len(apps))
	for i, app := range apps {
		res[i] = ToApplicationResponse(&app)
	}
	return res
}

// ListApplicationsParams defines query parameters for listing applications.
type ListApplicationsParams struct {
	SubjectID string `form:"subjectID" binding:"required"`
	Limit     int    `form:"limit,default=20"`
	Offset    int    `form:"offset,default=0"`
}

// ListApplicationsResponse wraps the list of applications.
type ListApplicationsResponse struct {
	Applications []ApplicationResponse `json:"applications"`
}
