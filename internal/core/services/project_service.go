package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/obralink/procurement_backend/internal/apperrors"
	"github.com/obralink/procurement_backend/internal/core/domain"
	portsrepo "github.com/obralink/procurement_backend/internal/core/ports/repositories"
	portssvc "github.com/obralink/procurement_backend/internal/core/ports/services"
	"github.com/obralink/procurement_backend/internal/dto"
)

// projectService manages projects and travel expense reports. Travel
// approvals move the project's travel spend counter through signed spend
// adjustments; the counter and the adjustment always land in one transaction
// with the project row locked.
type projectService struct {
	BaseService
	projectRepo portsrepo.ProjectRepositoryWithTx
	travelRepo  portsrepo.TravelReportRepositoryFacade
}

// NewProjectService creates a new ProjectSvcFacade.
func NewProjectService(projectRepo portsrepo.ProjectRepositoryWithTx, travelRepo portsrepo.TravelReportRepositoryFacade) portssvc.ProjectSvcFacade {
	return &projectService{projectRepo: projectRepo, travelRepo: travelRepo}
}

var _ portssvc.ProjectSvcFacade = (*projectService)(nil)

// CreateProject persists a new active project.
func (s *projectService) CreateProject(ctx context.Context, req dto.CreateProjectRequest, creatorUserID string) (*domain.Project, error) {
	logger := s.GetLogger(ctx)

	if req.Budget != nil && req.Budget.IsNegative() {
		return nil, fmt.Errorf("%w: budget cannot be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	project := domain.Project{
		ProjectID:   uuid.NewString(),
		Name:        req.Name,
		Code:        req.Code,
		Budget:      req.Budget,
		TravelSpent: decimal.Zero,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.projectRepo.SaveProject(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	logger.Info("Project created", slog.String("project_id", project.ProjectID), slog.String("name", project.Name))
	return &project, nil
}

// GetProject retrieves a project by id.
func (s *projectService) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	return s.projectRepo.FindProjectByID(ctx, projectID)
}

// ListProjects retrieves all projects.
func (s *projectService) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return s.projectRepo.ListProjects(ctx)
}

// CreateTravelReport files a travel expense report in pending status.
func (s *projectService) CreateTravelReport(ctx context.Context, req dto.CreateTravelReportRequest, creatorUserID string) (*domain.TravelReport, error) {
	logger := s.GetLogger(ctx)

	if req.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: travel report amount must be positive", apperrors.ErrValidation)
	}
	if req.EndDate.Before(req.StartDate.Time) {
		return nil, fmt.Errorf("%w: end date precedes start date", apperrors.ErrValidation)
	}
	if _, err := s.projectRepo.FindProjectByID(ctx, req.ProjectID); err != nil {
		return nil, fmt.Errorf("failed to load project %s: %w", req.ProjectID, err)
	}

	now := time.Now().UTC()
	report := domain.TravelReport{
		ReportID:    uuid.NewString(),
		ProjectID:   req.ProjectID,
		EmployeeID:  req.EmployeeID,
		Description: req.Description,
		Status:      domain.TravelPendingApproval,
		TotalAmount: req.TotalAmount,
		StartDate:   req.StartDate.Time,
		EndDate:     req.EndDate.Time,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.travelRepo.SaveReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save travel report: %w", err)
	}

	logger.Info("Travel report filed",
		slog.String("report_id", report.ReportID),
		slog.String("project_id", report.ProjectID))
	return &report, nil
}

// ApproveTravelReport approves a pending report, adding its amount to the
// project's travel spend.
func (s *projectService) ApproveTravelReport(ctx context.Context, reportID string, userID string) error {
	return s.changeReportStatus(ctx, reportID, domain.TravelApproved, domain.AdjustmentApproval, userID)
}

// RejectTravelReport rejects a report. Rejecting an already approved report
// reverses its amount out of the project's travel spend.
func (s *projectService) RejectTravelReport(ctx context.Context, reportID string, userID string) error {
	return s.changeReportStatus(ctx, reportID, domain.TravelRejected, domain.AdjustmentRejection, userID)
}

// CancelTravelReport cancels a report, reversing its spend effect when it
// had been approved.
func (s *projectService) CancelTravelReport(ctx context.Context, reportID string, userID string) error {
	return s.changeReportStatus(ctx, reportID, domain.TravelCancelled, domain.AdjustmentCancellation, userID)
}

// changeReportStatus moves a travel report to its target status and applies
// the matching spend adjustment in the same transaction. Approval adds the
// report amount; rejection or cancellation of an approved report subtracts it.
func (s *projectService) changeReportStatus(ctx context.Context, reportID string, target domain.TravelReportStatus, reason domain.AdjustmentReason, userID string) error {
	logger := s.GetLogger(ctx)

	tx, err := s.projectRepo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.projectRepo.Rollback(ctx, tx)

	report, err := s.travelRepo.FindReportForUpdate(ctx, tx, reportID)
	if err != nil {
		return fmt.Errorf("failed to load travel report %s: %w", reportID, err)
	}

	adjustment, err := spendDelta(report, target)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if !adjustment.IsZero() {
		if _, err := s.projectRepo.FindProjectForUpdate(ctx, tx, report.ProjectID); err != nil {
			return fmt.Errorf("failed to lock project %s: %w", report.ProjectID, err)
		}
		if err := s.applyAdjustment(ctx, tx, report, adjustment, reason, userID, now); err != nil {
			return err
		}
	}

	if err := s.travelRepo.UpdateReportStatusInTx(ctx, tx, reportID, target, userID, now); err != nil {
		return fmt.Errorf("failed to update travel report status: %w", err)
	}
	if err := s.projectRepo.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit travel report status change: %w", err)
	}

	logger.Info("Travel report status changed",
		slog.String("report_id", reportID),
		slog.String("new_status", string(target)),
		slog.String("spend_delta", adjustment.String()))
	return nil
}

// spendDelta returns the signed travel spend movement for a status change, or
// an error when the change is not allowed from the report's current status.
func spendDelta(report *domain.TravelReport, target domain.TravelReportStatus) (decimal.Decimal, error) {
	switch target {
	case domain.TravelApproved:
		if report.Status != domain.TravelPendingApproval {
			return decimal.Zero, fmt.Errorf("%w: cannot approve travel report in status %s", apperrors.ErrInvalidTransition, report.Status)
		}
		return report.TotalAmount, nil
	case domain.TravelRejected, domain.TravelCancelled:
		switch report.Status {
		case domain.TravelPendingApproval:
			return decimal.Zero, nil
		case domain.TravelApproved:
			return report.TotalAmount.Neg(), nil
		default:
			return decimal.Zero, fmt.Errorf("%w: cannot move travel report from %s to %s", apperrors.ErrInvalidTransition, report.Status, target)
		}
	default:
		return decimal.Zero, fmt.Errorf("%w: invalid target status %s", apperrors.ErrValidation, target)
	}
}

func (s *projectService) applyAdjustment(ctx context.Context, tx pgx.Tx, report *domain.TravelReport, amount decimal.Decimal, reason domain.AdjustmentReason, userID string, now time.Time) error {
	adjustment := domain.SpendAdjustment{
		AdjustmentID:   uuid.NewString(),
		ProjectID:      report.ProjectID,
		TravelReportID: report.ReportID,
		Amount:         amount,
		Reason:         reason,
		CreatedAt:      now,
		CreatedBy:      userID,
	}
	if err := s.projectRepo.ApplySpendAdjustmentInTx(ctx, tx, adjustment); err != nil {
		return fmt.Errorf("failed to apply spend adjustment: %w", err)
	}
	return nil
}
