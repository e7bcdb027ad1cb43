package services

import (
	"context"

	"github.com/obralink/procurement_backend/internal/core/domain"
	"github.com/obralink/procurement_backend/internal/dto"
)

// OrderSvcFacade defines the purchase order operations, including the status
// machine entry point.
type OrderSvcFacade interface {
	// CreateOrder validates the lines, recomputes the total and persists the
	// order in PENDING_APPROVAL.
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest, creatorUserID string) (*domain.PurchaseOrder, error)

	// GetOrder retrieves an order with its lines and history.
	GetOrder(ctx context.Context, orderID string) (*domain.PurchaseOrder, error)

	// ListOrders retrieves a paginated, optionally filtered order list.
	ListOrders(ctx context.Context, params dto.ListOrdersParams) (*dto.ListOrdersResponse, error)

	// UpdateOrder updates an order still pending approval.
	UpdateOrder(ctx context.Context, orderID string, req dto.UpdateOrderRequest, userID string) (*domain.PurchaseOrder, error)

	// DeleteOrder removes an order unless its budget effects are already posted.
	DeleteOrder(ctx context.Context, orderID string, userID string) error

	// RequestTransition asks the status machine to move an order. Transitions
	// not in the allowed table come back as a failed result, not an error.
	RequestTransition(ctx context.Context, orderID string, req dto.TransitionRequest, userID string) (*dto.TransitionResult, error)

	// CreateBackorder spawns a follow-up order for undelivered lines of a
	// partially received order.
	CreateBackorder(ctx context.Context, orderID string, req dto.BackorderRequest, userID string) (*domain.PurchaseOrder, error)
}

// ReceptionSvc performs the inventory-quantity effects of a reception. The
// status machine delegates here; it never adjusts stock itself.
type ReceptionSvc interface {
	// ReceiveOrder marks quantities delivered, adjusts stock and decides
	// between RECEIVED and PARTIALLY_RECEIVED. An empty line set means a full
	// delivery of everything outstanding.
	ReceiveOrder(ctx context.Context, orderID string, lines []domain.ReceivedLine, comment string, userID string) (domain.OrderStatus, []domain.ReceivedLine, error)
}

// ApprovalNotifier is the outward side channel informing a supplier contact
// that an order was approved. A notify failure aborts the approval.
type ApprovalNotifier interface {
	NotifyOrderApproved(ctx context.Context, order *domain.PurchaseOrder) error
}
