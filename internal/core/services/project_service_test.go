package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/obralink/procurement_backend/internal/apperrors"
	"github.com/obralink/procurement_backend/internal/core/domain"
	portssvc "github.com/obralink/procurement_backend/internal/core/ports/services"
	"github.com/obralink/procurement_backend/internal/core/services"
	"github.com/obralink/procurement_backend/internal/dto"
)

// --- Mock ProjectRepository ---
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ListProjects(ctx context.Context) ([]domain.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *MockProjectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) FindProjectForUpdate(ctx context.Context, tx pgx.Tx, projectID string) (*domain.Project, error) {
	args := m.Called(ctx, tx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ApplySpendAdjustmentInTx(ctx context.Context, tx pgx.Tx, adjustment domain.SpendAdjustment) error {
	args := m.Called(ctx, tx, adjustment)
	return args.Error(0)
}

func (m *MockProjectRepository) ListSpendAdjustments(ctx context.Context, projectID string) ([]domain.SpendAdjustment, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SpendAdjustment), args.Error(1)
}

func (m *MockProjectRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockProjectRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockProjectRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock TravelReportRepository ---
type MockTravelReportRepository struct {
	mock.Mock
}

func (m *MockTravelReportRepository) FindReportByID(ctx context.Context, reportID string) (*domain.TravelReport, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TravelReport), args.Error(1)
}

func (m *MockTravelReportRepository) ListReportsByProject(ctx context.Context, projectID string, status *domain.TravelReportStatus) ([]domain.TravelReport, error) {
	args := m.Called(ctx, projectID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TravelReport), args.Error(1)
}

func (m *MockTravelReportRepository) SaveReport(ctx context.Context, report domain.TravelReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockTravelReportRepository) FindReportForUpdate(ctx context.Context, tx pgx.Tx, reportID string) (*domain.TravelReport, error) {
	args := m.Called(ctx, tx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TravelReport), args.Error(1)
}

func (m *MockTravelReportRepository) UpdateReportStatusInTx(ctx context.Context, tx pgx.Tx, reportID string, status domain.TravelReportStatus, userID string, now time.Time) error {
	args := m.Called(ctx, tx, reportID, status, userID, now)
	return args.Error(0)
}

// --- Test Suite ---
type ProjectServiceTestSuite struct {
	suite.Suite
	mockProjectRepo *MockProjectRepository
	mockTravelRepo  *MockTravelReportRepository
	service         portssvc.ProjectSvcFacade
}

func (suite *ProjectServiceTestSuite) SetupTest() {
	suite.mockProjectRepo = new(MockProjectRepository)
	suite.mockTravelRepo = new(MockTravelReportRepository)
	suite.service = services.NewProjectService(suite.mockProjectRepo, suite.mockTravelRepo)
}

func (suite *ProjectServiceTestSuite) expectTx() {
	suite.mockProjectRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockProjectRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
}

func pendingReport(reportID string, amount int64) *domain.TravelReport {
	return &domain.TravelReport{
		ReportID:    reportID,
		ProjectID:   "project-1",
		EmployeeID:  "emp-7",
		Status:      domain.TravelPendingApproval,
		TotalAmount: decimal.NewFromInt(amount),
	}
}

// --- Projects ---

func (suite *ProjectServiceTestSuite) TestCreateProject_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	budget := decimal.NewFromInt(50000)
	req := dto.CreateProjectRequest{Name: "North Plant", Code: "NP-01", Budget: &budget}

	suite.mockProjectRepo.On("SaveProject", ctx, mock.MatchedBy(func(p domain.Project) bool {
		return p.Name == req.Name && p.IsActive && p.TravelSpent.IsZero() && p.CreatedBy == creatorUserID
	})).Return(nil).Once()

	project, err := suite.service.CreateProject(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(project)
	suite.True(project.IsActive)
	suite.True(project.TravelSpent.IsZero())
	suite.mockProjectRepo.AssertExpectations(suite.T())
}

func (suite *ProjectServiceTestSuite) TestCreateProject_NegativeBudget() {
	ctx := context.Background()
	budget := decimal.NewFromInt(-100)
	req := dto.CreateProjectRequest{Name: "North Plant", Budget: &budget}

	project, err := suite.service.CreateProject(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(project)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockProjectRepo.AssertNotCalled(suite.T(), "SaveProject", mock.Anything, mock.Anything)
}

// --- Travel reports ---

func (suite *ProjectServiceTestSuite) TestCreateTravelReport_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateTravelReportRequest{
		ProjectID:   "project-1",
		EmployeeID:  "emp-7",
		TotalAmount: decimal.NewFromInt(350),
		StartDate:   dto.FlexTime{Time: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		EndDate:     dto.FlexTime{Time: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)},
	}

	suite.mockProjectRepo.On("FindProjectByID", ctx, "project-1").Return(&domain.Project{ProjectID: "project-1"}, nil).Once()
	suite.mockTravelRepo.On("SaveReport", ctx, mock.MatchedBy(func(r domain.TravelReport) bool {
		return r.Status == domain.TravelPendingApproval && r.TotalAmount.Equal(req.TotalAmount)
	})).Return(nil).Once()

	report, err := suite.service.CreateTravelReport(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(report)
	suite.Equal(domain.TravelPendingApproval, report.Status)
	suite.mockTravelRepo.AssertExpectations(suite.T())
}

func (suite *ProjectServiceTestSuite) TestCreateTravelReport_EndBeforeStart() {
	ctx := context.Background()
	req := dto.CreateTravelReportRequest{
		ProjectID:   "project-1",
		EmployeeID:  "emp-7",
		TotalAmount: decimal.NewFromInt(350),
		StartDate:   dto.FlexTime{Time: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)},
		EndDate:     dto.FlexTime{Time: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}

	report, err := suite.service.CreateTravelReport(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(report)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ProjectServiceTestSuite) TestCreateTravelReport_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.CreateTravelReportRequest{
		ProjectID:   "project-1",
		EmployeeID:  "emp-7",
		TotalAmount: decimal.Zero,
	}

	report, err := suite.service.CreateTravelReport(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(report)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTravelRepo.AssertNotCalled(suite.T(), "SaveReport", mock.Anything, mock.Anything)
}

func (suite *ProjectServiceTestSuite) TestApproveTravelReport_AddsSpend() {
	ctx := context.Background()
	reportID := uuid.NewString()
	userID := uuid.NewString()
	report := pendingReport(reportID, 350)

	suite.expectTx()
	suite.mockTravelRepo.On("FindReportForUpdate", mock.Anything, mock.Anything, reportID).Return(report, nil).Once()
	suite.mockProjectRepo.On("FindProjectForUpdate", mock.Anything, mock.Anything, "project-1").Return(&domain.Project{ProjectID: "project-1"}, nil).Once()
	suite.mockProjectRepo.On("ApplySpendAdjustmentInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(a domain.SpendAdjustment) bool {
		return a.ProjectID == "project-1" &&
			a.TravelReportID == reportID &&
			a.Amount.Equal(decimal.NewFromInt(350)) &&
			a.Reason == domain.AdjustmentApproval &&
			a.CreatedBy == userID
	})).Return(nil).Once()
	suite.mockTravelRepo.On("UpdateReportStatusInTx", mock.Anything, mock.Anything, reportID, domain.TravelApproved, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockProjectRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	err := suite.service.ApproveTravelReport(ctx, reportID, userID)

	suite.Require().NoError(err)
	suite.mockProjectRepo.AssertExpectations(suite.T())
	suite.mockTravelRepo.AssertExpectations(suite.T())
}

func (suite *ProjectServiceTestSuite) TestApproveTravelReport_AlreadyApproved() {
	ctx := context.Background()
	reportID := uuid.NewString()
	report := pendingReport(reportID, 350)
	report.Status = domain.TravelApproved

	suite.expectTx()
	suite.mockTravelRepo.On("FindReportForUpdate", mock.Anything, mock.Anything, reportID).Return(report, nil).Once()

	err := suite.service.ApproveTravelReport(ctx, reportID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.mockProjectRepo.AssertNotCalled(suite.T(), "ApplySpendAdjustmentInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockProjectRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *ProjectServiceTestSuite) TestRejectTravelReport_PendingLeavesSpendUntouched() {
	ctx := context.Background()
	reportID := uuid.NewString()
	userID := uuid.NewString()
	report := pendingReport(reportID, 350)

	suite.expectTx()
	suite.mockTravelRepo.On("FindReportForUpdate", mock.Anything, mock.Anything, reportID).Return(report, nil).Once()
	suite.mockTravelRepo.On("UpdateReportStatusInTx", mock.Anything, mock.Anything, reportID, domain.TravelRejected, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockProjectRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	err := suite.service.RejectTravelReport(ctx, reportID, userID)

	suite.Require().NoError(err)
	// A report that never reached APPROVED never touched the counter.
	suite.mockProjectRepo.AssertNotCalled(suite.T(), "ApplySpendAdjustmentInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockProjectRepo.AssertNotCalled(suite.T(), "FindProjectForUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ProjectServiceTestSuite) TestRejectTravelReport_ApprovedReversesSpend() {
	ctx := context.Background()
	reportID := uuid.NewString()
	userID := uuid.NewString()
	report := pendingReport(reportID, 350)
	report.Status = domain.TravelApproved

	suite.expectTx()
	suite.mockTravelRepo.On("FindReportForUpdate", mock.Anything, mock.Anything, reportID).Return(report, nil).Once()
	suite.mockProjectRepo.On("FindProjectForUpdate", mock.Anything, mock.Anything, "project-1").Return(&domain.Project{ProjectID: "project-1"}, nil).Once()
	suite.mockProjectRepo.On("ApplySpendAdjustmentInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(a domain.SpendAdjustment) bool {
		return a.Amount.Equal(decimal.NewFromInt(-350)) && a.Reason == domain.AdjustmentRejection
	})).Return(nil).Once()
	suite.mockTravelRepo.On("UpdateReportStatusInTx", mock.Anything, mock.Anything, reportID, domain.TravelRejected, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockProjectRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	err := suite.service.RejectTravelReport(ctx, reportID, userID)

	suite.Require().NoError(err)
	suite.mockProjectRepo.AssertExpectations(suite.T())
}

func (suite *ProjectServiceTestSuite) TestCancelTravelReport_ApprovedReversesSpend() {
	ctx := context.Background()
	reportID := uuid.NewString()
	userID := uuid.NewString()
	report := pendingReport(reportID, 120)
	report.Status = domain.TravelApproved

	suite.expectTx()
	suite.mockTravelRepo.On("FindReportForUpdate", mock.Anything, mock.Anything, reportID).Return(report, nil).Once()
	suite.mockProjectRepo.On("FindProjectForUpdate", mock.Anything, mock.Anything, "project-1").Return(&domain.Project{ProjectID: "project-1"}, nil).Once()
	suite.mockProjectRepo.On("ApplySpendAdjustmentInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(a domain.SpendAdjustment) bool {
		return a.Amount.Equal(decimal.NewFromInt(-120)) && a.Reason == domain.AdjustmentCancellation
	})).Return(nil).Once()
	suite.mockTravelRepo.On("UpdateReportStatusInTx", mock.Anything, mock.Anything, reportID, domain.TravelCancelled, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockProjectRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	err := suite.service.CancelTravelReport(ctx, reportID, userID)

	suite.Require().NoError(err)
	suite.mockProjectRepo.AssertExpectations(suite.T())
}

func (suite *ProjectServiceTestSuite) TestCancelTravelReport_AlreadyCancelled() {
	ctx := context.Background()
	reportID := uuid.NewString()
	report := pendingReport(reportID, 120)
	report.Status = domain.TravelCancelled

	suite.expectTx()
	suite.mockTravelRepo.On("FindReportForUpdate", mock.Anything, mock.Anything, reportID).Return(report, nil).Once()

	err := suite.service.CancelTravelReport(ctx, reportID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
}

// --- Run Suite ---
func TestProjectService(t *testing.T) {
	suite.Run(t, new(ProjectServiceTestSuite))
}
