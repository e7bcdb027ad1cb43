package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/obralink/procurement_backend/internal/core/domain"
)

// OrderListFilter narrows order listings.
type OrderListFilter struct {
	Status    *domain.OrderStatus
	ProjectID *string
}

// OrderReader defines read operations for purchase order data
type OrderReader interface {
	// FindOrderByID retrieves an order with its lines and status history.
	FindOrderByID(ctx context.Context, orderID string) (*domain.PurchaseOrder, error)

	// ListOrders retrieves a paginated list of orders using token-based pagination.
	ListOrders(ctx context.Context, filter OrderListFilter, limit int, nextToken *string) ([]domain.PurchaseOrder, *string, error)

	// ListOrdersByStatuses retrieves all orders in any of the given statuses,
	// lines included. Used by the reconciler backfill.
	ListOrdersByStatuses(ctx context.Context, statuses []domain.OrderStatus) ([]domain.PurchaseOrder, error)
}

// OrderWriter defines write operations for purchase order data
type OrderWriter interface {
	// SaveOrder persists a new order with its lines and seed history entry.
	SaveOrder(ctx context.Context, order domain.PurchaseOrder) error

	// UpdateOrder replaces an order's editable fields and lines.
	UpdateOrder(ctx context.Context, order domain.PurchaseOrder) error

	// DeleteOrder removes an order and its lines and history.
	DeleteOrder(ctx context.Context, orderID string) error
}

// OrderTransactionSupport defines tx-scoped operations used by the status
// machine and the reception flow.
type OrderTransactionSupport interface {
	// FindOrderForUpdate loads an order with its lines and locks the order row
	// within the transaction, serializing concurrent transition requests.
	FindOrderForUpdate(ctx context.Context, tx pgx.Tx, orderID string) (*domain.PurchaseOrder, error)

	// UpdateOrderStatusInTx writes the new status (and optional rejection
	// reason) on a locked order row.
	UpdateOrderStatusInTx(ctx context.Context, tx pgx.Tx, orderID string, status domain.OrderStatus, rejectionReason *string, userID string, now time.Time) error

	// AppendStatusHistoryInTx appends one history entry for the order.
	AppendStatusHistoryInTx(ctx context.Context, tx pgx.Tx, orderID string, entry domain.StatusHistoryEntry) error

	// UpdateReceivedQuantitiesInTx increments line received quantities.
	UpdateReceivedQuantitiesInTx(ctx context.Context, tx pgx.Tx, orderID string, lines []domain.ReceivedLine, userID string, now time.Time) error
}

// OrderRepositoryFacade combines all order-related repository interfaces.
type OrderRepositoryFacade interface {
	OrderReader
	OrderWriter
	OrderTransactionSupport
}

// OrderRepositoryWithTx extends OrderRepositoryFacade with transaction capabilities.
type OrderRepositoryWithTx interface {
	OrderRepositoryFacade
	TransactionManager
}
