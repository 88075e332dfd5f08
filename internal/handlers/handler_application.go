package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lenddesk/loan_application_app/internal/apperrors"
	portssvc "github.com/lenddesk/loan_application_app/internal/core/ports/services"
	"github.com/lenddesk/loan_application_app/internal/dto"
	"github.com/lenddesk/loan_application_app/internal/middleware"
)

// applicationHandler handles HTTP requests related to loan applications.
type applicationHandler struct {
	applicationService portssvc.ApplicationSvcFacade
}

// newApplicationHandler creates a new applicationHandler.
func newApplicationHandler(as portssvc.ApplicationSvcFacade) *applicationHandler {
	return &applicationHandler{
		applicationService: as,
	}
}

// registerApplicationRoutes registers routes related to applications.
func registerApplicationRoutes(rg *gin.RouterGroup, applicationService portssvc.ApplicationSvcFacade) {
	h := newApplicationHandler(applicationService)

	applications := rg.Group("/applications")
	{
		applications.POST("", h.createApplication)
		applications.GET("", h.listApplications)
		applications.GET("/:id", h.getApplication)
		applications.GET("/:id/status", h.getApplicationStatus)
	}
}

// createApplication submits a new loan application for a subject.
// Responds 409 when the subject already has a pending application, carrying
// the conflicting application's id and creation timestamp.
func (h *applicationHandler) createApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateApplication", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to create application", slog.String("subject_id", req.SubjectID))

	newApplication, err := h.applicationService.CreateApplication(c.Request.Context(), req)
	if err != nil {
		var dupErr *apperrors.DuplicateActiveError
		switch {
		case errors.As(err, &dupErr):
			logger.Warn("Duplicate pending application", slog.String("existing_application_id", dupErr.ApplicationID))
			c.JSON(http.StatusConflict, gin.H{
				"error":                 dupErr.Error(),
				"existingApplicationID": dupErr.ApplicationID,
				"existingCreatedAt":     dupErr.CreatedAt.Format(time.RFC3339),
			})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error creating application", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Subject not found", slog.String("subject_id", req.SubjectID))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create application in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create application"})
		}
		return
	}

	logger.Info("Application created successfully", slog.String("application_id", newApplication.ApplicationID))
	c.JSON(http.StatusCreated, dto.ToApplicationResponse(newApplication))
}

// getApplication retrieves details for a specific application by its ID.
func (h *applicationHandler) getApplication(c *gin.Context) {
	h.respondWithApplication(c, "Received request to get application")
}

// getApplicationStatus is a status-focused read of the same resource; it
// returns the full application so callers can show amount and timestamps
// alongside the status.
func (h *applicationHandler) getApplicationStatus(c *gin.Context) {
	h.respondWithApplication(c, "Received request to get application status")
}

func (h *applicationHandler) respondWithApplication(c *gin.Context, logMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	applicationID := c.Param("id")

	logger = logger.With(slog.String("target_application_id", applicationID))
	logger.Info(logMsg)

	application, err := h.applicationService.GetApplicationByID(c.Request.Context(), applicationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Application not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		} else {
			logger.Error("Failed to get application from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve application"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToApplicationResponse(application))
}

// listApplications retrieves a paginated list of a subject's applications.
func (h *applicationHandler) listApplications(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListApplicationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListApplications", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	applications, err := h.applicationService.ListApplicationsBySubject(c.Request.Context(), params.SubjectID, params.Limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list applications", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list applications"})
		return
	}

	c.JSON(http.StatusOK, dto.ListApplicationsResponse{
		Applications: dto.ToListApplicationResponse(applications),
	})
}
