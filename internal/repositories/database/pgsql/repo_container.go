package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/obralink/procurement_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgsql repositories over one pool.
// ledgerBatchSize controls the chunking of ledger inserts; zero uses the
// default.
func NewRepositoryProvider(dbPool *pgxpool.Pool, ledgerBatchSize int) portsrepo.RepositoryProvider {
	orderRepo := newPgxOrderRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool, ledgerBatchSize)
	projectRepo := newPgxProjectRepository(dbPool)
	travelRepo := newPgxTravelReportRepository(dbPool)
	supplierRepo := newPgxSupplierRepository(dbPool)
	inventoryRepo := newPgxInventoryRepository(dbPool)
	reportingRepo := newReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		OrderRepo:     orderRepo,
		LedgerRepo:    ledgerRepo,
		ProjectRepo:   projectRepo,
		TravelRepo:    travelRepo,
		SupplierRepo:  supplierRepo,
		InventoryRepo: inventoryRepo,
		ReportingRepo: reportingRepo,
	}
}
