package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/lenddesk/loan_application_app/internal/apperrors"
	"github.com/lenddesk/loan_application_app/internal/core/domain"
	portssvc "github.com/lenddesk/loan_application_app/internal/core/ports/services"
	"github.com/lenddesk/loan_application_app/internal/dto"
	"github.com/lenddesk/loan_application_app/internal/handlers"
	"github.com/lenddesk/loan_application_app/internal/platform/config"
	"github.com/lenddesk/loan_application_app/internal/utils"
)

// --- Mock DecisionService ---
type MockDecisionService struct {
	mock.Mock
}

func (m *MockDecisionService) SubmitDecision(ctx context.Context, applicationID string, req dto.SubmitDecisionRequest, staffID string) (*domain.Decision, error) {
	args := m.Called(ctx, applicationID, req, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Decision), args.Error(1)
}

func (m *MockDecisionService) GetDecisionByID(ctx context.Context, decisionID string) (*domain.Decision, error) {
	args := m.Called(ctx, decisionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Decision), args.Error(1)
}

func (m *MockDecisionService) ListDecisionsByApplicationID(ctx context.Context, applicationID string) ([]domain.Decision, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Decision), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.DecisionSvcFacade = (*MockDecisionService)(nil)

// --- Test Suite ---
type DecisionHandlerTestSuite struct {
	suite.Suite
	router     *gin.Engine
	mockAppSvc *MockApplicationService
	mockDecSvc *MockDecisionService
	jwtSecret  string
}

func (suite *DecisionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockAppSvc = new(MockApplicationService)
	suite.mockDecSvc = new(MockDecisionService)

	cfg := &config.Config{JWTSecret: suite.jwtSecret}
	container := &portssvc.ServiceContainer{
		Application: suite.mockAppSvc,
		Decision:    suite.mockDecSvc,
		Auth:        new(MockAuthService),
	}
	handlers.RegisterRoutes(suite.router, cfg, container, nil)
}

func (suite *DecisionHandlerTestSuite) submit(applicationID string, staffID string, body gin.H) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/applications/"+applicationID+"/decisions", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if staffID != "" {
		token, err := utils.GenerateJWT(staffID, suite.jwtSecret, time.Hour, "lda-test")
		suite.Require().NoError(err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *DecisionHandlerTestSuite) TestSubmitDecision_ApproveSuccess() {
	applicationID := uuid.NewString()
	staffID := "officer1"
	decision := &domain.Decision{
		DecisionID:    uuid.NewString(),
		ApplicationID: applicationID,
		Outcome:       domain.OutcomeApproved,
		StaffID:       staffID,
		Reason:        "meets criteria",
		CreatedAt:     time.Now().UTC(),
	}

	// Staff identity must come from the token, not the body.
	suite.mockDecSvc.On("SubmitDecision", mock.Anything, applicationID, mock.MatchedBy(func(r dto.SubmitDecisionRequest) bool {
		return r.Outcome == domain.OutcomeApproved && r.Reason == "meets criteria"
	}), staffID).Return(decision, nil).Once()

	w := suite.submit(applicationID, staffID, gin.H{"outcome": "APPROVED", "reason": "meets criteria"})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.DecisionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(decision.DecisionID, resp.DecisionID)
	suite.Equal(domain.OutcomeApproved, resp.Outcome)
	suite.Equal(staffID, resp.StaffID)
	suite.mockDecSvc.AssertExpectations(suite.T())
}

func (suite *DecisionHandlerTestSuite) TestSubmitDecision_MissingOutcome() {
	w := suite.submit(uuid.NewString(), "officer1", gin.H{"reason": "no outcome given"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockDecSvc.AssertNotCalled(suite.T(), "SubmitDecision", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DecisionHandlerTestSuite) TestSubmitDecision_UnknownOutcome() {
	w := suite.submit(uuid.NewString(), "officer1", gin.H{"outcome": "MAYBE"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockDecSvc.AssertNotCalled(suite.T(), "SubmitDecision", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DecisionHandlerTestSuite) TestSubmitDecision_Unauthorized() {
	w := suite.submit(uuid.NewString(), "", gin.H{"outcome": "APPROVED"})

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockDecSvc.AssertNotCalled(suite.T(), "SubmitDecision", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DecisionHandlerTestSuite) TestSubmitDecision_ApplicationNotFound() {
	applicationID := uuid.NewString()
	suite.mockDecSvc.On("SubmitDecision", mock.Anything, applicationID, mock.AnythingOfType("dto.SubmitDecisionRequest"), "officer1").
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.submit(applicationID, "officer1", gin.H{"outcome": "REJECTED"})

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *DecisionHandlerTestSuite) TestSubmitDecision_NotPendingConflict() {
	applicationID := uuid.NewString()
	suite.mockDecSvc.On("SubmitDecision", mock.Anything, applicationID, mock.AnythingOfType("dto.SubmitDecisionRequest"), "officer1").
		Return(nil, apperrors.ErrApplicationNotPending).Once()

	w := suite.submit(applicationID, "officer1", gin.H{"outcome": "APPROVED"})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *DecisionHandlerTestSuite) TestSubmitDecision_DuplicateConflictCarriesExistingID() {
	applicationID := uuid.NewString()
	existingID := uuid.NewString()
	suite.mockDecSvc.On("SubmitDecision", mock.Anything, applicationID, mock.AnythingOfType("dto.SubmitDecisionRequest"), "officer1").
		Return(nil, &apperrors.DuplicateDecisionError{
			DecisionID:    existingID,
			ApplicationID: applicationID,
			Outcome:       string(domain.OutcomeApproved),
			CreatedAt:     time.Now().UTC(),
		}).Once()

	w := suite.submit(applicationID, "officer1", gin.H{"outcome": "APPROVED"})

	suite.Equal(http.StatusConflict, w.Code)
	var resp map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(existingID, resp["existingDecisionID"])
}

func (suite *DecisionHandlerTestSuite) TestListDecisions_Success() {
	applicationID := uuid.NewString()
	decisions := []domain.Decision{
		{DecisionID: uuid.NewString(), ApplicationID: applicationID, Outcome: domain.OutcomeRejected, StaffID: "officer1"},
	}
	suite.mockDecSvc.On("ListDecisionsByApplicationID", mock.Anything, applicationID).Return(decisions, nil).Once()

	token, err := utils.GenerateJWT("officer1", suite.jwtSecret, time.Hour, "lda-test")
	suite.Require().NoError(err)
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/applications/"+applicationID+"/decisions", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListDecisionsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Decisions, 1)
}

func (suite *DecisionHandlerTestSuite) TestListDecisions_ApplicationNotFound() {
	applicationID := uuid.NewString()
	suite.mockDecSvc.On("ListDecisionsByApplicationID", mock.Anything, applicationID).
		Return(nil, apperrors.ErrNotFound).Once()

	token, err := utils.GenerateJWT("officer1", suite.jwtSecret, time.Hour, "lda-test")
	suite.Require().NoError(err)
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/applications/"+applicationID+"/decisions", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *DecisionHandlerTestSuite) TestGetDecision_Success() {
	decision := &domain.Decision{
		DecisionID:    uuid.NewString(),
		ApplicationID: uuid.NewString(),
		Outcome:       domain.OutcomeApproved,
		StaffID:       "officer1",
		Reason:        "verified",
		CreatedAt:     time.Now().UTC(),
	}
	suite.mockDecSvc.On("GetDecisionByID", mock.Anything, decision.DecisionID).Return(decision, nil).Once()

	token, err := utils.GenerateJWT("officer1", suite.jwtSecret, time.Hour, "lda-test")
	suite.Require().NoError(err)
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/decisions/"+decision.DecisionID, nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.DecisionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("verified", resp.Reason)
	suite.Equal("officer1", resp.StaffID)
}

// --- Run Test Suite ---

func TestDecisionHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(DecisionHandlerTestSuite))
}
