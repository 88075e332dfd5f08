package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/lenddesk/loan_application_app/internal/apperrors"
	"github.com/lenddesk/loan_application_app/internal/core/domain"
	portssvc "github.com/lenddesk/loan_application_app/internal/core/ports/services"
	"github.com/lenddesk/loan_application_app/internal/core/services"
	"github.com/lenddesk/loan_application_app/internal/dto"
)

// MockApplicationRepository is a mock type for the ApplicationRepositoryFacade interface
type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) FindApplicationByID(ctx context.Context, applicationID string) (*domain.Application, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepository) FindPendingBySubjectID(ctx context.Context, subjectID string) (*domain.Application, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepository) ListApplicationsBySubject(ctx context.Context, subjectID string, limit int, offset int) ([]domain.Application, error) {
	args := m.Called(ctx, subjectID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationRepository) SaveApplication(ctx context.Context, application domain.Application) error {
	args := m.Called(ctx, application)
	return args.Error(0)
}

func (m *MockApplicationRepository) TransitionStatusInTx(ctx context.Context, tx pgx.Tx, applicationID string, status domain.ApplicationStatus, updatedAt time.Time) (bool, error) {
	args := m.Called(ctx, tx, applicationID, status, updatedAt)
	return args.Bool(0), args.Error(1)
}

// MockSubjectDirectory is a mock type for the SubjectDirectorySvc interface
type MockSubjectDirectory struct {
	mock.Mock
}

func (m *MockSubjectDirectory) SubjectExists(ctx context.Context, subjectID string) (bool, error) {
	args := m.Called(ctx, subjectID)
	return args.Bool(0), args.Error(1)
}

// --- Test Suite Setup ---

type ApplicationServiceTestSuite struct {
	suite.Suite
	mockRepo     *MockApplicationRepository
	mockSubjects *MockSubjectDirectory
	service      portssvc.ApplicationSvcFacade
}

func (suite *ApplicationServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockApplicationRepository)
	suite.mockSubjects = new(MockSubjectDirectory)
	suite.service = services.NewApplicationService(suite.mockRepo, suite.mockSubjects, services.ApplicationLimits{
		MinTermMonths:    3,
		MaxTermMonths:    360,
		MaxPurposeLength: 255,
	})
}

func intPtr(i int) *int {
	return &i
}

// --- Test Cases ---

func (suite *ApplicationServiceTestSuite) TestCreateApplication_Success() {
	ctx := context.Background()
	subjectID := uuid.NewString()
	req := dto.CreateApplicationRequest{
		SubjectID:       subjectID,
		RequestedAmount: decimal.NewFromInt(50000),
		TermMonths:      intPtr(24),
		Purpose:         "working capital",
	}

	suite.mockSubjects.On("SubjectExists", ctx, subjectID).Return(true, nil).Once()
	suite.mockRepo.On("FindPendingBySubjectID", ctx, subjectID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveApplication", ctx, mock.AnythingOfType("domain.Application")).Return(nil).Once()

	created, err := suite.service.CreateApplication(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.ApplicationID)
	suite.Equal(subjectID, created.SubjectID)
	suite.Equal(domain.StatusPending, created.Status)
	suite.True(created.RequestedAmount.Equal(decimal.NewFromInt(50000)))
	suite.Equal(24, *created.TermMonths)
	suite.Equal("working capital", created.Purpose)
	suite.WithinDuration(time.Now(), created.CreatedAt, time.Second)
	suite.Equal(created.CreatedAt, created.UpdatedAt)

	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockSubjects.AssertExpectations(suite.T())
}

func (suite *ApplicationServiceTestSuite) TestCreateApplication_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.CreateApplicationRequest{
		SubjectID:       uuid.NewString(),
		RequestedAmount: decimal.Zero,
	}

	created, err := suite.service.CreateApplication(ctx, req)

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrValidation)
	// Validation fails before any collaborator is consulted.
	suite.mockSubjects.AssertNotCalled(suite.T(), "SubjectExists", mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveApplication", mock.Anything, mock.Anything)
}

func (suite *ApplicationServiceTestSuite) TestCreateApplication_TermMonthsOutOfBounds() {
	ctx := context.Background()

	for _, term := range []int{0, 1, 2, 361, -5} {
		req := dto.CreateApplicationRequest{
			SubjectID:       uuid.NewString(),
			RequestedAmount: decimal.NewFromInt(1000),
			TermMonths:      intPtr(term),
		}

		created, err := suite.service.CreateApplication(ctx, req)

		suite.Require().Error(err, "termMonths=%d should fail", term)
		suite.Nil(created)
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
}

func (suite *ApplicationServiceTestSuite) TestCreateApplication_SubjectNotFound() {
	ctx := context.Background()
	subjectID := uuid.NewString()
	req := dto.CreateApplicationRequest{
		SubjectID:       subjectID,
		RequestedAmount: decimal.NewFromInt(1000),
	}

	suite.mockSubjects.On("SubjectExists", ctx, subjectID).Return(false, nil).Once()

	created, err := suite.service.CreateApplication(ctx, req)

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveApplication", mock.Anything, mock.Anything)
	suite.mockSubjects.AssertExpectations(suite.T())
}

func (suite *ApplicationServiceTestSuite) TestCreateApplication_DirectoryError() {
	ctx := context.Background()
	subjectID := uuid.NewString()
	req := dto.CreateApplicationRequest{
		SubjectID:       subjectID,
		RequestedAmount: decimal.NewFromInt(1000),
	}
	directoryErr := errors.New("directory unreachable")

	suite.mockSubjects.On("SubjectExists", ctx, subjectID).Return(false, directoryErr).Once()

	created, err := suite.service.CreateApplication(ctx, req)

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, directoryErr)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveApplication", mock.Anything, mock.Anything)
}

func (suite *ApplicationServiceTestSuite) TestCreateApplication_DuplicateActive() {
	ctx := context.Background()
	subjectID := uuid.NewString()
	existing := &domain.Application{
		ApplicationID: uuid.NewString(),
		SubjectID:     subjectID,
		Status:        domain.StatusPending,
		CreatedAt:     time.Now().UTC().Add(-time.Hour),
	}
	req := dto.CreateApplicationRequest{
		SubjectID:       subjectID,
		RequestedAmount: decimal.NewFromInt(1000),
	}

	suite.mockSubjects.On("SubjectExists", ctx, subjectID).Return(true, nil).Once()
	suite.mockRepo.On("FindPendingBySubjectID", ctx, subjectID).Return(existing, nil).Once()

	created, err := suite.service.CreateApplication(ctx, req)

	suite.Require().Error(err)
	suite.Nil(created)

	var dupErr *apperrors.DuplicateActiveError
	suite.Require().ErrorAs(err, &dupErr)
	suite.Equal(existing.ApplicationID, dupErr.ApplicationID)
	suite.Equal(existing.CreatedAt, dupErr.CreatedAt)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveApplication", mock.Anything, mock.Anything)
}

func (suite *ApplicationServiceTestSuite) TestCreateApplication_DuplicateActiveRace() {
	// The pre-check sees no pending application but the insert loses the race;
	// the repository surfaces the constraint violation as DuplicateActiveError.
	ctx := context.Background()
	subjectID := uuid.NewString()
	winnerID := uuid.NewString()
	req := dto.CreateApplicationRequest{
		SubjectID:       subjectID,
		RequestedAmount: decimal.NewFromInt(1000),
	}

	suite.mockSubjects.On("SubjectExists", ctx, subjectID).Return(true, nil).Once()
	suite.mockRepo.On("FindPendingBySubjectID", ctx, subjectID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveApplication", ctx, mock.AnythingOfType("domain.Application")).
		Return(&apperrors.DuplicateActiveError{ApplicationID: winnerID, CreatedAt: time.Now().UTC()}).Once()

	created, err := suite.service.CreateApplication(ctx, req)

	suite.Require().Error(err)
	suite.Nil(created)

	var dupErr *apperrors.DuplicateActiveError
	suite.Require().ErrorAs(err, &dupErr)
	suite.Equal(winnerID, dupErr.ApplicationID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ApplicationServiceTestSuite) TestGetApplicationByID_Success() {
	ctx := context.Background()
	appID := uuid.NewString()
	expected := &domain.Application{
		ApplicationID:   appID,
		SubjectID:       uuid.NewString(),
		Status:          domain.StatusApproved,
		RequestedAmount: decimal.NewFromInt(50000),
	}

	suite.mockRepo.On("FindApplicationByID", ctx, appID).Return(expected, nil).Once()

	found, err := suite.service.GetApplicationByID(ctx, appID)

	suite.Require().NoError(err)
	suite.Equal(expected, found)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ApplicationServiceTestSuite) TestGetApplicationByID_NotFound() {
	ctx := context.Background()
	appID := uuid.NewString()

	suite.mockRepo.On("FindApplicationByID", ctx, appID).Return(nil, apperrors.ErrNotFound).Once()

	found, err := suite.service.GetApplicationByID(ctx, appID)

	suite.Require().Error(err)
	suite.Nil(found)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ApplicationServiceTestSuite) TestListApplicationsBySubject_EmptyResult() {
	ctx := context.Background()
	subjectID := uuid.NewString()

	suite.mockRepo.On("ListApplicationsBySubject", ctx, subjectID, 20, 0).Return(nil, nil).Once()

	apps, err := suite.service.ListApplicationsBySubject(ctx, subjectID, 20, 0)

	suite.Require().NoError(err)
	suite.NotNil(apps)
	suite.Empty(apps)
}

func (suite *ApplicationServiceTestSuite) TestListApplicationsBySubject_Success() {
	ctx := context.Background()
	subjectID := uuid.NewString()
	expected := []domain.Application{
		{ApplicationID: uuid.NewString(), SubjectID: subjectID, Status: domain.StatusRejected},
		{ApplicationID: uuid.NewString(), SubjectID: subjectID, Status: domain.StatusPending},
	}

	suite.mockRepo.On("ListApplicationsBySubject", ctx, subjectID, 10, 5).Return(expected, nil).Once()

	apps, err := suite.service.ListApplicationsBySubject(ctx, subjectID, 10, 5)

	suite.Require().NoError(err)
	suite.Equal(expected, apps)
}

// --- Run Test Suite ---

func TestApplicationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ApplicationServiceTestSuite))
}
