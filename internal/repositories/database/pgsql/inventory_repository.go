package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/obralink/procurement_backend/internal/apperrors"
	"github.com/obralink/procurement_backend/internal/core/domain"
	portsrepo "github.com/obralink/procurement_backend/internal/core/ports/repositories"
	"github.com/obralink/procurement_backend/internal/models"
	"github.com/obralink/procurement_backend/internal/utils/mapping"
)

const inventoryColumns = `item_id, sku, name, unit, stock_quantity, location,
	created_at, created_by, last_updated_at, last_updated_by`

// idInChunkSize caps how many ids one lookup query carries.
const idInChunkSize = 10

type PgxInventoryRepository struct {
	BaseRepository
}

// newPgxInventoryRepository creates a new repository for inventory data.
func newPgxInventoryRepository(pool *pgxpool.Pool) portsrepo.InventoryRepositoryFacade {
	return &PgxInventoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxInventoryRepository implements portsrepo.InventoryRepositoryFacade
var _ portsrepo.InventoryRepositoryFacade = (*PgxInventoryRepository)(nil)

// SaveItem persists a new catalogue item.
func (r *PgxInventoryRepository) SaveItem(ctx context.Context, item domain.InventoryItem) error {
	m := mapping.ToModelInventoryItem(item)
	query := `
		INSERT INTO inventory_items (` + inventoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ItemID,
		m.SKU,
		m.Name,
		m.Unit,
		m.StockQuantity,
		m.Location,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert inventory item "+m.ItemID, err)
	}
	return nil
}

// FindItemByID retrieves a catalogue item by id.
func (r *PgxInventoryRepository) FindItemByID(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	m, err := scanInventoryRow(r.Pool.QueryRow(ctx,
		`SELECT `+inventoryColumns+` FROM inventory_items WHERE item_id = $1;`, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan inventory item "+itemID, err)
	}
	item := mapping.ToDomainInventoryItem(m)
	return &item, nil
}

// FindItemsByIDs retrieves multiple items by id, chunking the id set.
// Missing ids are simply absent from the result map.
func (r *PgxInventoryRepository) FindItemsByIDs(ctx context.Context, itemIDs []string) (map[string]domain.InventoryItem, error) {
	result := make(map[string]domain.InventoryItem, len(itemIDs))
	for start := 0; start < len(itemIDs); start += idInChunkSize {
		end := start + idInChunkSize
		if end > len(itemIDs) {
			end = len(itemIDs)
		}
		chunk := itemIDs[start:end]

		rows, err := r.Pool.Query(ctx,
			`SELECT `+inventoryColumns+` FROM inventory_items WHERE item_id = ANY($1);`, chunk)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to query inventory items", err)
		}
		for rows.Next() {
			m, err := scanInventoryRow(rows)
			if err != nil {
				rows.Close()
				return nil, apperrors.NewAppError(500, "failed to scan inventory item row", err)
			}
			result[m.ItemID] = mapping.ToDomainInventoryItem(m)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, apperrors.NewAppError(500, "error iterating inventory item rows", err)
		}
		rows.Close()
	}
	return result, nil
}

// AdjustStockInTx moves an item's stock level by delta within the transaction.
func (r *PgxInventoryRepository) AdjustStockInTx(ctx context.Context, tx pgx.Tx, itemID string, delta decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE inventory_items
		SET stock_quantity = stock_quantity + $2, last_updated_at = $3, last_updated_by = $4
		WHERE item_id = $1;
	`
	tag, err := tx.Exec(ctx, query, itemID, delta, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to adjust stock for item "+itemID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanInventoryRow(row pgx.Row) (models.InventoryItem, error) {
	var m models.InventoryItem
	err := row.Scan(
		&m.ItemID,
		&m.SKU,
		&m.Name,
		&m.Unit,
		&m.StockQuantity,
		&m.Location,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}
