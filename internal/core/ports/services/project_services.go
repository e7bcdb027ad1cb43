package services

import (
	"context"

	"github.com/obralink/procurement_backend/internal/core/domain"
	"github.com/obralink/procurement_backend/internal/dto"
)

// ProjectSvcFacade defines project and travel expense operations. Travel
// approvals are the only flow that moves a project's travel spend counter.
type ProjectSvcFacade interface {
	// CreateProject persists a new project.
	CreateProject(ctx context.Context, req dto.CreateProjectRequest, creatorUserID string) (*domain.Project, error)

	// GetProject retrieves a project by id.
	GetProject(ctx context.Context, projectID string) (*domain.Project, error)

	// ListProjects retrieves all projects.
	ListProjects(ctx context.Context) ([]domain.Project, error)

	// CreateTravelReport files a new travel expense report in pending status.
	CreateTravelReport(ctx context.Context, req dto.CreateTravelReportRequest, creatorUserID string) (*domain.TravelReport, error)

	// ApproveTravelReport approves a pending report and adds its amount to the
	// project's travel spend.
	ApproveTravelReport(ctx context.Context, reportID string, userID string) error

	// RejectTravelReport rejects a report; an already approved one has its
	// amount reversed out of the project's travel spend.
	RejectTravelReport(ctx context.Context, reportID string, userID string) error

	// CancelTravelReport cancels a report, reversing its spend effect if it
	// had been approved.
	CancelTravelReport(ctx context.Context, reportID string, userID string) error
}

// SupplierSvcFacade defines supplier operations.
type SupplierSvcFacade interface {
	CreateSupplier(ctx context.Context, req dto.CreateSupplierRequest, creatorUserID string) (*domain.Supplier, error)
	GetSupplier(ctx context.Context, supplierID string) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
}
