package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/obralink/procurement_backend/internal/apperrors"
	"github.com/obralink/procurement_backend/internal/core/domain"
	portsrepo "github.com/obralink/procurement_backend/internal/core/ports/repositories"
	portssvc "github.com/obralink/procurement_backend/internal/core/ports/services"
)

// receptionService performs the inventory-quantity effects of receiving an
// order: received quantities on the lines, stock increments, and the final
// RECEIVED / PARTIALLY_RECEIVED status, all in one transaction.
type receptionService struct {
	BaseService
	orderRepo     portsrepo.OrderRepositoryWithTx
	inventoryRepo portsrepo.InventoryRepositoryFacade
}

// NewReceptionService creates a new ReceptionSvc.
func NewReceptionService(orderRepo portsrepo.OrderRepositoryWithTx, inventoryRepo portsrepo.InventoryRepositoryFacade) portssvc.ReceptionSvc {
	return &receptionService{orderRepo: orderRepo, inventoryRepo: inventoryRepo}
}

var _ portssvc.ReceptionSvc = (*receptionService)(nil)

// ReceiveOrder marks the given quantities delivered. An empty line set means
// everything outstanding arrived. It returns the resulting order status and
// the material lines actually received, which the caller feeds to the
// reconciler.
func (s *receptionService) ReceiveOrder(ctx context.Context, orderID string, lines []domain.ReceivedLine, comment string, userID string) (domain.OrderStatus, []domain.ReceivedLine, error) {
	logger := s.GetLogger(ctx)

	tx, err := s.orderRepo.Begin(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.orderRepo.Rollback(ctx, tx)

	order, err := s.orderRepo.FindOrderForUpdate(ctx, tx, orderID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load order %s: %w", orderID, err)
	}

	if order.Status != domain.StatusSentToSupplier && order.Status != domain.StatusPartiallyReceived {
		return "", nil, fmt.Errorf("%w: cannot receive goods for order in status %s", apperrors.ErrInvalidTransition, order.Status)
	}

	itemsByID := make(map[string]*domain.PurchaseOrderItem, len(order.Items))
	for i := range order.Items {
		if order.Items[i].ItemID != "" {
			itemsByID[order.Items[i].ItemID] = &order.Items[i]
		}
	}

	// An empty request receives everything still outstanding.
	if len(lines) == 0 {
		for _, item := range order.Items {
			if outstanding := item.Outstanding(); outstanding.GreaterThan(decimal.Zero) && item.ItemID != "" {
				lines = append(lines, domain.ReceivedLine{ItemID: item.ItemID, Quantity: outstanding})
			}
		}
		if len(lines) == 0 {
			return "", nil, fmt.Errorf("%w: order has no outstanding quantities", apperrors.ErrValidation)
		}
	}

	materialLines := make([]domain.ReceivedLine, 0, len(lines))
	for _, line := range lines {
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return "", nil, fmt.Errorf("%w: received quantity must be positive for item %s", apperrors.ErrValidation, line.ItemID)
		}
		item, ok := itemsByID[line.ItemID]
		if !ok {
			return "", nil, fmt.Errorf("%w: item %s is not a line of order %s", apperrors.ErrValidation, line.ItemID, orderID)
		}
		if line.Quantity.GreaterThan(item.Outstanding()) {
			return "", nil, fmt.Errorf("%w: received quantity %s exceeds outstanding %s for item %s", apperrors.ErrValidation, line.Quantity, item.Outstanding(), line.ItemID)
		}
		item.ReceivedQuantity = item.ReceivedQuantity.Add(line.Quantity)
		if item.LineType == domain.LineTypeMaterial {
			materialLines = append(materialLines, line)
		}
	}

	now := time.Now().UTC()
	if err := s.orderRepo.UpdateReceivedQuantitiesInTx(ctx, tx, orderID, lines, userID, now); err != nil {
		return "", nil, fmt.Errorf("failed to update received quantities: %w", err)
	}

	// Stock moves only for catalogue items we actually track.
	itemIDs := make([]string, len(materialLines))
	for i, l := range materialLines {
		itemIDs[i] = l.ItemID
	}
	known, err := s.inventoryRepo.FindItemsByIDs(ctx, itemIDs)
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up inventory items: %w", err)
	}
	for _, line := range materialLines {
		if _, ok := known[line.ItemID]; !ok {
			logger.Debug("Received line has no inventory item, skipping stock adjustment",
				slog.String("item_id", line.ItemID))
			continue
		}
		if err := s.inventoryRepo.AdjustStockInTx(ctx, tx, line.ItemID, line.Quantity, userID, now); err != nil {
			return "", nil, fmt.Errorf("failed to adjust stock for item %s: %w", line.ItemID, err)
		}
	}

	newStatus := domain.StatusPartiallyReceived
	if order.FullyReceived() {
		newStatus = domain.StatusReceived
	}
	if !domain.CanTransition(order.Status, newStatus) {
		return "", nil, fmt.Errorf("%w: cannot move order from %s to %s", apperrors.ErrInvalidTransition, order.Status, newStatus)
	}

	if err := s.orderRepo.UpdateOrderStatusInTx(ctx, tx, orderID, newStatus, nil, userID, now); err != nil {
		return "", nil, fmt.Errorf("failed to update order status: %w", err)
	}
	entry := domain.StatusHistoryEntry{
		Status:    newStatus,
		Timestamp: now,
		Comment:   comment,
		ChangedBy: userID,
	}
	if err := s.orderRepo.AppendStatusHistoryInTx(ctx, tx, orderID, entry); err != nil {
		return "", nil, fmt.Errorf("failed to append status history: %w", err)
	}

	if err := s.orderRepo.Commit(ctx, tx); err != nil {
		return "", nil, fmt.Errorf("failed to commit reception: %w", err)
	}

	logger.Info("Order reception recorded",
		slog.String("order_id", orderID),
		slog.String("new_status", string(newStatus)),
		slog.Int("lines_received", len(lines)))
	return newStatus, materialLines, nil
}
