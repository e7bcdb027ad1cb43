package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/obralink/procurement_backend/internal/apperrors"
	"github.com/obralink/procurement_backend/internal/core/domain"
	portsrepo "github.com/obralink/procurement_backend/internal/core/ports/repositories"
	"github.com/obralink/procurement_backend/internal/models"
	"github.com/obralink/procurement_backend/internal/utils/mapping"
)

const supplierColumns = `supplier_id, name, tax_id, email, phone, address, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxSupplierRepository struct {
	BaseRepository
}

// newPgxSupplierRepository creates a new repository for supplier data.
func newPgxSupplierRepository(pool *pgxpool.Pool) portsrepo.SupplierRepositoryFacade {
	return &PgxSupplierRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxSupplierRepository implements portsrepo.SupplierRepositoryFacade
var _ portsrepo.SupplierRepositoryFacade = (*PgxSupplierRepository)(nil)

// SaveSupplier persists a new supplier.
func (r *PgxSupplierRepository) SaveSupplier(ctx context.Context, supplier domain.Supplier) error {
	m := mapping.ToModelSupplier(supplier)
	query := `
		INSERT INTO suppliers (` + supplierColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.SupplierID,
		m.Name,
		m.TaxID,
		m.Email,
		m.Phone,
		m.Address,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert supplier "+m.SupplierID, err)
	}
	return nil
}

// UpdateSupplier updates an existing supplier's details.
func (r *PgxSupplierRepository) UpdateSupplier(ctx context.Context, supplier domain.Supplier) error {
	m := mapping.ToModelSupplier(supplier)
	query := `
		UPDATE suppliers
		SET name = $2, tax_id = $3, email = $4, phone = $5, address = $6, is_active = $7,
		    last_updated_at = $8, last_updated_by = $9
		WHERE supplier_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.SupplierID,
		m.Name,
		m.TaxID,
		m.Email,
		m.Phone,
		m.Address,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update supplier "+m.SupplierID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindSupplierByID retrieves a supplier by id.
func (r *PgxSupplierRepository) FindSupplierByID(ctx context.Context, supplierID string) (*domain.Supplier, error) {
	return r.scanSupplier(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE supplier_id = $1;`, supplierID)
}

// FindSupplierByName retrieves a supplier by exact name match.
func (r *PgxSupplierRepository) FindSupplierByName(ctx context.Context, name string) (*domain.Supplier, error) {
	return r.scanSupplier(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE name = $1;`, name)
}

// ListSuppliers retrieves all suppliers.
func (r *PgxSupplierRepository) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY name;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query suppliers", err)
	}
	defer rows.Close()

	suppliers := []domain.Supplier{}
	for rows.Next() {
		m, err := scanSupplierRow(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan supplier row", err)
		}
		suppliers = append(suppliers, mapping.ToDomainSupplier(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating supplier rows", err)
	}
	return suppliers, nil
}

func (r *PgxSupplierRepository) scanSupplier(ctx context.Context, query string, arg string) (*domain.Supplier, error) {
	m, err := scanSupplierRow(r.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan supplier", err)
	}
	supplier := mapping.ToDomainSupplier(m)
	return &supplier, nil
}

func scanSupplierRow(row pgx.Row) (models.Supplier, error) {
	var m models.Supplier
	err := row.Scan(
		&m.SupplierID,
		&m.Name,
		&m.TaxID,
		&m.Email,
		&m.Phone,
		&m.Address,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}
