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

// decisionHandler handles HTTP requests related to application decisions.
type decisionHandler struct {
	decisionService portssvc.DecisionSvcFacade
}

// newDecisionHandler creates a new decisionHandler.
func newDecisionHandler(ds portssvc.DecisionSvcFacade) *decisionHandler {
	return &decisionHandler{
		decisionService: ds,
	}
}

// registerDecisionRoutes registers routes related to decisions.
func registerDecisionRoutes(rg *gin.RouterGroup, decisionService portssvc.DecisionSvcFacade) {
	h := newDecisionHandler(decisionService)

	decisions := rg.Group("/applications/:id/decisions")
	{
		decisions.POST("", h.submitDecision)
		decisions.GET("", h.listDecisions)
	}

	rg.GET("/decisions/:decisionID", h.getDecision)
}

// submitDecision records the one-time approval or rejection of a pending
// application. The acting staff identity comes from the authentication
// context, never from the request body.
func (h *decisionHandler) submitDecision(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	applicationID := c.Param("id")

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		logger.Error("Staff ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.SubmitDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SubmitDecision", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(
		slog.String("target_application_id", applicationID),
		slog.String("outcome", string(req.Outcome)),
	)
	logger.Info("Received request to submit decision")

	decision, err := h.decisionService.SubmitDecision(c.Request.Context(), applicationID, req, staffID)
	if err != nil {
		var dupErr *apperrors.DuplicateDecisionError
		switch {
		case errors.As(err, &dupErr):
			logger.Warn("Duplicate decision", slog.String("existing_decision_id", dupErr.DecisionID))
			c.JSON(http.StatusConflict, gin.H{
				"error":              dupErr.Error(),
				"existingDecisionID": dupErr.DecisionID,
				"existingCreatedAt":  dupErr.CreatedAt.Format(time.RFC3339),
			})
		case errors.Is(err, apperrors.ErrApplicationNotPending):
			logger.Warn("Application not pending")
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Application not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error submitting decision", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to submit decision in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit decision"})
		}
		return
	}

	logger.Info("Decision submitted successfully", slog.String("decision_id", decision.DecisionID))
	c.JSON(http.StatusOK, dto.ToDecisionResponse(decision))
}

// getDecision retrieves a single decision by its ID.
func (h *decisionHandler) getDecision(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	decisionID := c.Param("decisionID")

	decision, err := h.decisionService.GetDecisionByID(c.Request.Context(), decisionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Decision not found", slog.String("target_decision_id", decisionID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Decision not found"})
		} else {
			logger.Error("Failed to get decision", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve decision"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToDecisionResponse(decision))
}

// listDecisions retrieves the decisions recorded for an application.
func (h *decisionHandler) listDecisions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	applicationID := c.Param("id")

	decisions, err := h.decisionService.ListDecisionsByApplicationID(c.Request.Context(), applicationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Application not found", slog.String("target_application_id", applicationID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		} else {
			logger.Error("Failed to list decisions", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list decisions"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ListDecisionsResponse{
		Decisions: dto.ToListDecisionResponse(decisions),
	})
}
