package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/obralink/procurement_backend/internal/core/domain"
)

// ProjectReader defines read operations for project data
type ProjectReader interface {
	// FindProjectByID retrieves a specific project by its unique identifier.
	FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error)

	// ListProjects retrieves all projects.
	ListProjects(ctx context.Context) ([]domain.Project, error)
}

// ProjectWriter defines write operations for project data
type ProjectWriter interface {
	// SaveProject persists a new project.
	SaveProject(ctx context.Context, project domain.Project) error
}

// ProjectSpendSupport defines the single mutation path for the travel spend
// counter. The adjustment row and the counter update land in one transaction
// with the project row locked, so TravelSpent always equals the sum of the
// adjustments.
type ProjectSpendSupport interface {
	// FindProjectForUpdate locks the project row within the transaction.
	FindProjectForUpdate(ctx context.Context, tx pgx.Tx, projectID string) (*domain.Project, error)

	// ApplySpendAdjustmentInTx appends the signed adjustment and moves the
	// counter on a locked project row.
	ApplySpendAdjustmentInTx(ctx context.Context, tx pgx.Tx, adjustment domain.SpendAdjustment) error

	// ListSpendAdjustments retrieves all adjustments for a project, oldest first.
	ListSpendAdjustments(ctx context.Context, projectID string) ([]domain.SpendAdjustment, error)
}

// ProjectRepositoryFacade combines all project-related repository interfaces.
type ProjectRepositoryFacade interface {
	ProjectReader
	ProjectWriter
	ProjectSpendSupport
}

// ProjectRepositoryWithTx extends ProjectRepositoryFacade with transaction capabilities.
type ProjectRepositoryWithTx interface {
	ProjectRepositoryFacade
	TransactionManager
}

// TravelReportReader defines read operations for travel report data
type TravelReportReader interface {
	// FindReportByID retrieves a specific travel report.
	FindReportByID(ctx context.Context, reportID string) (*domain.TravelReport, error)

	// ListReportsByProject retrieves reports for a project, optionally by status.
	ListReportsByProject(ctx context.Context, projectID string, status *domain.TravelReportStatus) ([]domain.TravelReport, error)
}

// TravelReportWriter defines write operations for travel report data
type TravelReportWriter interface {
	// SaveReport persists a new travel report.
	SaveReport(ctx context.Context, report domain.TravelReport) error

	// FindReportForUpdate locks the report row within the transaction.
	FindReportForUpdate(ctx context.Context, tx pgx.Tx, reportID string) (*domain.TravelReport, error)

	// UpdateReportStatusInTx writes the new status on a locked report row.
	UpdateReportStatusInTx(ctx context.Context, tx pgx.Tx, reportID string, status domain.TravelReportStatus, userID string, now time.Time) error
}

// TravelReportRepositoryFacade combines travel report repository interfaces.
type TravelReportRepositoryFacade interface {
	TravelReportReader
	TravelReportWriter
}
