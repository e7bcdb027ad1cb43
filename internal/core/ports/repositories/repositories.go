package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	OrderRepo     OrderRepositoryWithTx
	LedgerRepo    LedgerRepositoryFacade
	ProjectRepo   ProjectRepositoryWithTx
	TravelRepo    TravelReportRepositoryFacade
	SupplierRepo  SupplierRepositoryFacade
	InventoryRepo InventoryRepositoryFacade
	ReportingRepo ReportingRepository
}
