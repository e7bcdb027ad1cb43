package services

import (
	portsrepo "github.com/obralink/procurement_backend/internal/core/ports/repositories"
	portssvc "github.com/obralink/procurement_backend/internal/core/ports/services"
	"github.com/obralink/procurement_backend/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Reception and reconciler come first; the order service delegates the
	// received-status transitions to them.
	container.Reception = NewReceptionService(repos.OrderRepo, repos.InventoryRepo)
	container.Reconciler = NewReconcilerService(
		repos.OrderRepo,
		repos.LedgerRepo,
		repos.SupplierRepo,
		repos.ProjectRepo,
	)

	container.Order = NewOrderService(
		repos.OrderRepo,
		container.Reception,
		container.Reconciler,
		NewLogNotifier(),
		cfg.ApprovalCodeHash,
	)
	container.Reporting = NewReportingService(repos.LedgerRepo, repos.ProjectRepo, repos.ReportingRepo)
	container.Project = NewProjectService(repos.ProjectRepo, repos.TravelRepo)
	container.Supplier = NewSupplierService(repos.SupplierRepo)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.OrderSvcFacade    = (*orderService)(nil)
	_ portssvc.ReceptionSvc      = (*receptionService)(nil)
	_ portssvc.ReconcilerSvc     = (*reconcilerService)(nil)
	_ portssvc.ReportingSvc      = (*reportingService)(nil)
	_ portssvc.ProjectSvcFacade  = (*projectService)(nil)
	_ portssvc.SupplierSvcFacade = (*supplierService)(nil)
)
