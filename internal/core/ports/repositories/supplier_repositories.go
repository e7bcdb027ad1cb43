package repositories

import (
	"context"

	"github.com/obralink/procurement_backend/internal/core/domain"
)

// SupplierReader defines read operations for supplier data
type SupplierReader interface {
	// FindSupplierByID retrieves a specific supplier by its unique identifier.
	FindSupplierByID(ctx context.Context, supplierID string) (*domain.Supplier, error)

	// FindSupplierByName retrieves a supplier by exact name match. This backs
	// the reconciler's name-resolution fallback.
	FindSupplierByName(ctx context.Context, name string) (*domain.Supplier, error)

	// ListSuppliers retrieves all suppliers.
	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
}

// SupplierWriter defines write operations for supplier data
type SupplierWriter interface {
	// SaveSupplier persists a new supplier.
	SaveSupplier(ctx context.Context, supplier domain.Supplier) error

	// UpdateSupplier updates an existing supplier's details.
	UpdateSupplier(ctx context.Context, supplier domain.Supplier) error
}

// SupplierRepositoryFacade combines supplier repository interfaces.
type SupplierRepositoryFacade interface {
	SupplierReader
	SupplierWriter
}
