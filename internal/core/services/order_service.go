package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/obralink/procurement_backend/internal/apperrors"
	"github.com/obralink/procurement_backend/internal/core/domain"
	portsrepo "github.com/obralink/procurement_backend/internal/core/ports/repositories"
	portssvc "github.com/obralink/procurement_backend/internal/core/ports/services"
	"github.com/obralink/procurement_backend/internal/dto"
)

// Conflict-class sentinels chain to apperrors.ErrConflict so the handlers
// can map them to 409 with a single errors.Is check.
var (
	ErrOrderNotEditable   = fmt.Errorf("%w: order can only be edited while pending approval", apperrors.ErrConflict)
	ErrOrderNotDeletable  = fmt.Errorf("%w: order cannot be deleted after approval", apperrors.ErrConflict)
	ErrApprovalRejected   = fmt.Errorf("%w: approval confirmation code rejected", apperrors.ErrForbidden)
	ErrNotPartiallyRecvd  = fmt.Errorf("%w: backorders can only be created from partially received orders", apperrors.ErrConflict)
	ErrNothingOutstanding = fmt.Errorf("%w: order has no outstanding quantities", apperrors.ErrConflict)
)

// orderService is the purchase order status machine. It is the only writer of
// order status and status history.
type orderService struct {
	BaseService
	orderRepo    portsrepo.OrderRepositoryWithTx
	reception    portssvc.ReceptionSvc
	reconciler   portssvc.ReconcilerSvc
	notifier     portssvc.ApprovalNotifier
	approvalHash string
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo portsrepo.OrderRepositoryWithTx, reception portssvc.ReceptionSvc, reconciler portssvc.ReconcilerSvc, notifier portssvc.ApprovalNotifier, approvalHash string) portssvc.OrderSvcFacade {
	return &orderService{
		orderRepo:    orderRepo,
		reception:    reception,
		reconciler:   reconciler,
		notifier:     notifier,
		approvalHash: approvalHash,
	}
}

// Ensure orderService implements the portssvc.OrderSvcFacade interface
var _ portssvc.OrderSvcFacade = (*orderService)(nil)

// buildItems validates request lines and converts them to domain lines.
func buildItems(items []dto.OrderItemRequest) ([]domain.PurchaseOrderItem, error) {
	domainItems := make([]domain.PurchaseOrderItem, len(items))
	for i, it := range items {
		if it.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: quantity must be positive for line %q", apperrors.ErrValidation, it.Name)
		}
		if it.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: unit price must not be negative for line %q", apperrors.ErrValidation, it.Name)
		}
		lineType := domain.LineType(it.LineType)
		if lineType != domain.LineTypeMaterial && lineType != domain.LineTypeService {
			return nil, fmt.Errorf("%w: unknown line type %q", apperrors.ErrValidation, it.LineType)
		}
		domainItems[i] = domain.PurchaseOrderItem{
			LineID:           uuid.NewString(),
			ItemID:           it.ItemID,
			SKU:              it.SKU,
			Name:             it.Name,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			Unit:             it.Unit,
			LineType:         lineType,
			ReceivedQuantity: decimal.Zero,
		}
	}
	return domainItems, nil
}

// CreateOrder validates the lines, recomputes the total and persists the
// order in PENDING_APPROVAL with its seed history entry.
func (s *orderService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest, creatorUserID string) (*domain.PurchaseOrder, error) {
	logger := s.GetLogger(ctx)

	items, err := buildItems(req.Items)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := domain.PurchaseOrder{
		OrderID:               uuid.NewString(),
		OrderNumber:           req.OrderNumber,
		ProjectID:             req.ProjectID,
		ProjectName:           req.ProjectName,
		SupplierID:            req.SupplierID,
		SupplierName:          req.SupplierName,
		DeliveryLocation:      req.DeliveryLocation,
		Status:                domain.StatusPendingApproval,
		EstimatedDeliveryDate: req.EstimatedDeliveryDate.TimePtr(),
		Items:                 items,
		StatusHistory: []domain.StatusHistoryEntry{{
			Status:    domain.StatusPendingApproval,
			Timestamp: now,
			ChangedBy: creatorUserID,
		}},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	// Total is never trusted from input.
	order.TotalAmount = order.ComputeTotal()

	if err := s.orderRepo.SaveOrder(ctx, order); err != nil {
		logger.Error("Failed to save order", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	logger.Info("Order created", slog.String("order_id", order.OrderID), slog.String("order_number", order.OrderNumber))
	return &order, nil
}

// GetOrder retrieves an order with its lines and history.
func (s *orderService) GetOrder(ctx context.Context, orderID string) (*domain.PurchaseOrder, error) {
	order, err := s.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find order", slog.String("order_id", orderID))
		}
		return nil, fmt.Errorf("failed to find order %s: %w", orderID, err)
	}
	return order, nil
}

// ListOrders retrieves a paginated list of orders.
func (s *orderService) ListOrders(ctx context.Context, params dto.ListOrdersParams) (*dto.ListOrdersResponse, error) {
	filter := portsrepo.OrderListFilter{ProjectID: params.ProjectID}
	if params.Status != nil {
		status := domain.OrderStatus(*params.Status)
		if !domain.IsValidStatus(status) {
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, *params.Status)
		}
		filter.Status = &status
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	orders, nextToken, err := s.orderRepo.ListOrders(ctx, filter, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list orders")
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	return &dto.ListOrdersResponse{
		Orders:    dto.ToOrderResponses(orders),
		NextToken: nextToken,
	}, nil
}

// UpdateOrder updates an order that is still pending approval. The total is
// recomputed from the (possibly replaced) lines.
func (s *orderService) UpdateOrder(ctx context.Context, orderID string, req dto.UpdateOrderRequest, userID string) (*domain.PurchaseOrder, error) {
	order, err := s.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find order %s: %w", orderID, err)
	}

	if order.Status != domain.StatusPendingApproval {
		return nil, fmt.Errorf("%w: status is %s", ErrOrderNotEditable, order.Status)
	}

	if req.DeliveryLocation != nil {
		order.DeliveryLocation = *req.DeliveryLocation
	}
	if req.EstimatedDeliveryDate != nil {
		order.EstimatedDeliveryDate = req.EstimatedDeliveryDate.TimePtr()
	}
	if len(req.Items) > 0 {
		items, err := buildItems(req.Items)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}
	order.TotalAmount = order.ComputeTotal()
	order.LastUpdatedAt = time.Now().UTC()
	order.LastUpdatedBy = userID

	if err := s.orderRepo.UpdateOrder(ctx, *order); err != nil {
		s.LogError(ctx, err, "Failed to update order", slog.String("order_id", orderID))
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	s.LogInfo(ctx, "Order updated", slog.String("order_id", orderID))
	return order, nil
}

// DeleteOrder removes an order. Orders that already carry financial weight
// (approved or beyond) are refused; their committed amounts feed the project
// consumption reports.
func (s *orderService) DeleteOrder(ctx context.Context, orderID string, userID string) error {
	order, err := s.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to find order %s: %w", orderID, err)
	}

	if order.Status != domain.StatusPendingApproval && order.Status != domain.StatusRejected {
		return fmt.Errorf("%w: status is %s", ErrOrderNotDeletable, order.Status)
	}

	if err := s.orderRepo.DeleteOrder(ctx, orderID); err != nil {
		s.LogError(ctx, err, "Failed to delete order", slog.String("order_id", orderID))
		return fmt.Errorf("failed to delete order: %w", err)
	}

	s.LogInfo(ctx, "Order deleted", slog.String("order_id", orderID), slog.String("deleted_by", userID))
	return nil
}

// RequestTransition asks the status machine to move an order. Transitions not
// in the allowed table, and failed approval confirmations, come back as a
// failed TransitionResult rather than an error: they are user-correctable
// conditions, not faults.
func (s *orderService) RequestTransition(ctx context.Context, orderID string, req dto.TransitionRequest, userID string) (*dto.TransitionResult, error) {
	logger := s.GetLogger(ctx)

	target := domain.OrderStatus(req.TargetStatus)
	if !domain.IsValidStatus(target) {
		return &dto.TransitionResult{Success: false, Message: fmt.Sprintf("unknown status %q", req.TargetStatus)}, nil
	}

	if domain.IsReceivedStatus(target) {
		return s.transitionToReceived(ctx, orderID, target, req, userID)
	}

	tx, err := s.orderRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.orderRepo.Rollback(ctx, tx)

	order, err := s.orderRepo.FindOrderForUpdate(ctx, tx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order %s: %w", orderID, err)
	}

	if !domain.CanTransition(order.Status, target) {
		logger.Warn("Transition rejected",
			slog.String("order_id", orderID),
			slog.String("from", string(order.Status)),
			slog.String("to", string(target)))
		return &dto.TransitionResult{
			Success: false,
			Message: fmt.Sprintf("cannot move order from %s to %s", order.Status, target),
		}, nil
	}

	if target == domain.StatusApproved {
		if err := s.verifyApprovalCode(req.ApprovalCode); err != nil {
			logger.Warn("Approval confirmation failed", slog.String("order_id", orderID))
			return &dto.TransitionResult{Success: false, Message: "approval confirmation code rejected"}, nil
		}
	}

	now := time.Now().UTC()
	var rejectionReason *string
	if target == domain.StatusRejected && req.Comment != "" {
		rejectionReason = &req.Comment
	}

	if err := s.orderRepo.UpdateOrderStatusInTx(ctx, tx, orderID, target, rejectionReason, userID, now); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	entry := domain.StatusHistoryEntry{
		Status:    target,
		Timestamp: now,
		Comment:   req.Comment,
		ChangedBy: userID,
	}
	if err := s.orderRepo.AppendStatusHistoryInTx(ctx, tx, orderID, entry); err != nil {
		return nil, fmt.Errorf("failed to append status history: %w", err)
	}

	// The approval notification is part of the transition: if it cannot be
	// sent, the whole transition rolls back.
	if target == domain.StatusApproved && s.notifier != nil {
		order.Status = target
		if err := s.notifier.NotifyOrderApproved(ctx, order); err != nil {
			logger.Error("Approval notification failed, rolling back transition",
				slog.String("order_id", orderID), slog.String("error", err.Error()))
			return nil, fmt.Errorf("approval notification failed: %w", err)
		}
	}

	if err := s.orderRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transition: %w", err)
	}

	logger.Info("Order transitioned",
		slog.String("order_id", orderID),
		slog.String("from", string(order.Status)),
		slog.String("to", string(target)))
	return &dto.TransitionResult{
		Success: true,
		Message: fmt.Sprintf("order moved to %s", target),
	}, nil
}

// transitionToReceived delegates reception targets to the reception
// subsystem, which owns all inventory-quantity effects, then feeds the
// received material lines to the reconciler.
func (s *orderService) transitionToReceived(ctx context.Context, orderID string, target domain.OrderStatus, req dto.TransitionRequest, userID string) (*dto.TransitionResult, error) {
	logger := s.GetLogger(ctx)

	lines := make([]domain.ReceivedLine, len(req.ReceivedLines))
	for i, l := range req.ReceivedLines {
		lines[i] = domain.ReceivedLine{ItemID: l.ItemID, Quantity: l.Quantity}
	}

	newStatus, materialLines, err := s.reception.ReceiveOrder(ctx, orderID, lines, req.Comment, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidTransition) || errors.Is(err, apperrors.ErrValidation) {
			return &dto.TransitionResult{Success: false, Message: err.Error()}, nil
		}
		return nil, fmt.Errorf("reception failed for order %s: %w", orderID, err)
	}

	// Ledger side effect. The reception is already committed; a reconcile
	// failure is reported but does not undo the delivery, and the key-based
	// dedup makes a retry safe.
	if len(materialLines) > 0 {
		if _, err := s.reconciler.ReconcileOrder(ctx, orderID, materialLines); err != nil {
			logger.Error("Ledger reconciliation failed after reception",
				slog.String("order_id", orderID), slog.String("error", err.Error()))
			return &dto.TransitionResult{
				Success: true,
				Message: fmt.Sprintf("order moved to %s, but ledger reconciliation failed and should be retried", newStatus),
			}, nil
		}
	}

	return &dto.TransitionResult{
		Success: true,
		Message: fmt.Sprintf("order moved to %s", newStatus),
	}, nil
}

// verifyApprovalCode checks the short out-of-band confirmation code against
// the configured bcrypt hash.
func (s *orderService) verifyApprovalCode(code string) error {
	if s.approvalHash == "" {
		// No gate configured; approvals pass.
		return nil
	}
	if code == "" {
		return ErrApprovalRejected
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.approvalHash), []byte(code)); err != nil {
		return ErrApprovalRejected
	}
	return nil
}

// CreateBackorder spawns a follow-up order for the undelivered remainder of a
// partially received order, linked through OriginOrderID.
func (s *orderService) CreateBackorder(ctx context.Context, orderID string, req dto.BackorderRequest, userID string) (*domain.PurchaseOrder, error) {
	origin, err := s.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find order %s: %w", orderID, err)
	}
	if origin.Status != domain.StatusPartiallyReceived {
		return nil, fmt.Errorf("%w: status is %s", ErrNotPartiallyRecvd, origin.Status)
	}

	requested := make(map[string]decimal.Decimal, len(req.Lines))
	for _, l := range req.Lines {
		requested[l.ItemID] = l.Quantity
	}

	items := make([]domain.PurchaseOrderItem, 0, len(origin.Items))
	for _, item := range origin.Items {
		outstanding := item.Outstanding()
		if qty, ok := requested[item.ItemID]; ok && len(req.Lines) > 0 {
			if qty.GreaterThan(outstanding) {
				return nil, fmt.Errorf("%w: requested %s of item %s exceeds outstanding %s", apperrors.ErrValidation, qty, item.ItemID, outstanding)
			}
			outstanding = qty
		} else if len(req.Lines) > 0 {
			continue
		}
		if outstanding.LessThanOrEqual(decimal.Zero) {
			continue
		}
		items = append(items, domain.PurchaseOrderItem{
			LineID:           uuid.NewString(),
			ItemID:           item.ItemID,
			SKU:              item.SKU,
			Name:             item.Name,
			Quantity:         outstanding,
			UnitPrice:        item.UnitPrice,
			Unit:             item.Unit,
			LineType:         item.LineType,
			ReceivedQuantity: decimal.Zero,
		})
	}
	if len(items) == 0 {
		return nil, ErrNothingOutstanding
	}

	now := time.Now().UTC()
	backorder := domain.PurchaseOrder{
		OrderID:          uuid.NewString(),
		OrderNumber:      fmt.Sprintf("%s-BO", origin.OrderNumber),
		ProjectID:        origin.ProjectID,
		ProjectName:      origin.ProjectName,
		SupplierID:       origin.SupplierID,
		SupplierName:     origin.SupplierName,
		DeliveryLocation: origin.DeliveryLocation,
		Status:           domain.StatusPendingApproval,
		Items:            items,
		OriginOrderID:    &origin.OrderID,
		StatusHistory: []domain.StatusHistoryEntry{{
			Status:    domain.StatusPendingApproval,
			Timestamp: now,
			Comment:   fmt.Sprintf("backorder of %s", origin.OrderNumber),
			ChangedBy: userID,
		}},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	backorder.TotalAmount = backorder.ComputeTotal()

	if err := s.orderRepo.SaveOrder(ctx, backorder); err != nil {
		s.LogError(ctx, err, "Failed to save backorder", slog.String("origin_order_id", orderID))
		return nil, fmt.Errorf("failed to save backorder: %w", err)
	}

	s.LogInfo(ctx, "Backorder created",
		slog.String("origin_order_id", orderID),
		slog.String("backorder_id", backorder.OrderID))
	return &backorder, nil
}
