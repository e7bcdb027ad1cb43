package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/obralink/procurement_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InventoryReader defines read operations for catalogue items and stock.
type InventoryReader interface {
	// FindItemByID retrieves a specific item by its unique identifier.
	FindItemByID(ctx context.Context, itemID string) (*domain.InventoryItem, error)

	// FindItemsByIDs retrieves multiple items by id. Implementations chunk the
	// id set to stay below the store's "id is one of" ceiling.
	FindItemsByIDs(ctx context.Context, itemIDs []string) (map[string]domain.InventoryItem, error)
}

// InventoryWriter defines write operations for stock levels.
type InventoryWriter interface {
	// SaveItem persists a new catalogue item.
	SaveItem(ctx context.Context, item domain.InventoryItem) error

	// AdjustStockInTx moves an item's stock level by delta within the
	// transaction. Receptions are the only caller.
	AdjustStockInTx(ctx context.Context, tx pgx.Tx, itemID string, delta decimal.Decimal, userID string, now time.Time) error
}

// InventoryRepositoryFacade combines inventory repository interfaces.
type InventoryRepositoryFacade interface {
	InventoryReader
	InventoryWriter
}
