package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/obralink/procurement_backend/internal/apperrors"
	"github.com/obralink/procurement_backend/internal/core/domain"
	portsrepo "github.com/obralink/procurement_backend/internal/core/ports/repositories"
	portssvc "github.com/obralink/procurement_backend/internal/core/ports/services"
	"github.com/obralink/procurement_backend/internal/dto"
)

// reconcilerService derives purchase-ledger entries from received orders.
// Every entry is keyed by (orderID, itemID); the key check before each insert
// is what makes both the backfill and the incremental path safe to rerun.
type reconcilerService struct {
	BaseService
	orderRepo    portsrepo.OrderReader
	ledgerRepo   portsrepo.LedgerRepositoryFacade
	supplierRepo portsrepo.SupplierReader
	projectRepo  portsrepo.ProjectReader
}

// NewReconcilerService creates a new ReconcilerSvc.
func NewReconcilerService(
	orderRepo portsrepo.OrderReader,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	supplierRepo portsrepo.SupplierReader,
	projectRepo portsrepo.ProjectReader,
) portssvc.ReconcilerSvc {
	return &reconcilerService{
		orderRepo:    orderRepo,
		ledgerRepo:   ledgerRepo,
		supplierRepo: supplierRepo,
		projectRepo:  projectRepo,
	}
}

var _ portssvc.ReconcilerSvc = (*reconcilerService)(nil)

// ReconcileAll scans every order that is at or past dispatch, including
// SENT_TO_SUPPLIER, and appends ledger entries for material lines that have
// none yet. Backfilled entries are dated at the order's creation date, the
// closest thing to a purchase date old orders carry.
func (s *reconcilerService) ReconcileAll(ctx context.Context) (*dto.BackfillResult, error) {
	logger := s.GetLogger(ctx)
	result := &dto.BackfillResult{}

	orders, err := s.orderRepo.ListOrdersByStatuses(ctx, []domain.OrderStatus{
		domain.StatusSentToSupplier,
		domain.StatusReceived,
		domain.StatusPartiallyReceived,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list dispatched orders: %w", err)
	}

	existing, err := s.ledgerRepo.LoadKeySet(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger key set: %w", err)
	}

	var pending []domain.LedgerEntry
	for _, order := range orders {
		result.OrdersProcessed++
		supplierID, supplierName := s.resolveSupplier(ctx, order.SupplierID, order.SupplierName)
		projectName := s.resolveProjectName(ctx, order.ProjectID, order.ProjectName)

		for _, line := range order.MaterialLines() {
			key := domain.LedgerKey{OrderID: order.OrderID, ItemID: line.ItemID}
			if _, ok := existing[key]; ok {
				result.Skipped++
				continue
			}
			entry := buildLedgerEntry(order, line, line.Quantity, order.CreatedAt, supplierID, supplierName, projectName)
			pending = append(pending, entry)
			existing[key] = struct{}{}
		}
	}

	created, err := s.ledgerRepo.InsertEntries(ctx, pending)
	result.EntriesCreated = created
	if err != nil {
		// Earlier chunks already landed; report them and the failure together.
		result.Errors = append(result.Errors, err.Error())
		logger.Error("Ledger backfill stopped mid-run",
			slog.Int("entries_created", created),
			slog.String("error", err.Error()))
		return result, nil
	}

	logger.Info("Ledger backfill complete",
		slog.Int("orders_processed", result.OrdersProcessed),
		slog.Int("entries_created", result.EntriesCreated),
		slog.Int("skipped", result.Skipped))
	return result, nil
}

// ReconcileOrder records the material lines just received on one order, dated
// now. Lines whose key already has an entry are silently skipped, so a retried
// reception never doubles the ledger.
func (s *reconcilerService) ReconcileOrder(ctx context.Context, orderID string, receivedLines []domain.ReceivedLine) (*dto.TransitionResult, error) {
	logger := s.GetLogger(ctx)

	order, err := s.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order %s: %w", orderID, err)
	}
	if !domain.IsReceivedStatus(order.Status) {
		return nil, fmt.Errorf("%w: order %s is in status %s, nothing to reconcile", apperrors.ErrValidation, orderID, order.Status)
	}

	linesByItem := make(map[string]domain.PurchaseOrderItem)
	for _, line := range order.MaterialLines() {
		linesByItem[line.ItemID] = line
	}

	supplierID, supplierName := s.resolveSupplier(ctx, order.SupplierID, order.SupplierName)
	projectName := s.resolveProjectName(ctx, order.ProjectID, order.ProjectName)
	now := time.Now().UTC()

	// One entry per item key. A request may legitimately repeat an item id
	// across lines; those quantities sum into a single entry so the key
	// check, not the store, enforces uniqueness.
	totals := make(map[string]decimal.Decimal)
	itemOrder := make([]string, 0, len(receivedLines))
	for _, received := range receivedLines {
		if _, seen := totals[received.ItemID]; !seen {
			itemOrder = append(itemOrder, received.ItemID)
		}
		totals[received.ItemID] = totals[received.ItemID].Add(received.Quantity)
	}

	var pending []domain.LedgerEntry
	skipped := 0
	for _, itemID := range itemOrder {
		line, ok := linesByItem[itemID]
		if !ok {
			// Service or ad hoc line; not ledger material.
			continue
		}
		exists, err := s.ledgerRepo.KeyExists(ctx, domain.LedgerKey{OrderID: orderID, ItemID: itemID})
		if err != nil {
			return nil, fmt.Errorf("failed to check ledger key: %w", err)
		}
		if exists {
			skipped++
			continue
		}
		pending = append(pending, buildLedgerEntry(*order, line, totals[itemID], now, supplierID, supplierName, projectName))
	}

	created, err := s.ledgerRepo.InsertEntries(ctx, pending)
	if err != nil {
		return nil, fmt.Errorf("failed to insert ledger entries: %w", err)
	}

	logger.Info("Order reconciled into ledger",
		slog.String("order_id", orderID),
		slog.Int("entries_created", created),
		slog.Int("skipped", skipped))
	return &dto.TransitionResult{
		Success: true,
		Message: fmt.Sprintf("recorded %d ledger entries for order %s", created, order.OrderNumber),
	}, nil
}

// resolveSupplier resolves the supplier reference in two stages: by id first,
// then by exact name. A miss on both leaves the id empty and keeps whatever
// name the order carries; the entry is still written.
func (s *reconcilerService) resolveSupplier(ctx context.Context, supplierID, supplierName string) (string, string) {
	if supplierID != "" {
		if supplier, err := s.supplierRepo.FindSupplierByID(ctx, supplierID); err == nil {
			return supplier.SupplierID, supplier.Name
		}
	}
	if supplierName != "" {
		if supplier, err := s.supplierRepo.FindSupplierByName(ctx, supplierName); err == nil {
			return supplier.SupplierID, supplier.Name
		}
	}
	return "", supplierName
}

// resolveProjectName prefers the project's current name over the denormalized
// copy on the order.
func (s *reconcilerService) resolveProjectName(ctx context.Context, projectID, fallback string) string {
	if projectID != "" {
		if project, err := s.projectRepo.FindProjectByID(ctx, projectID); err == nil {
			return project.Name
		}
	}
	return fallback
}

func buildLedgerEntry(order domain.PurchaseOrder, line domain.PurchaseOrderItem, quantity decimal.Decimal, entryDate time.Time, supplierID, supplierName, projectName string) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:      uuid.NewString(),
		OrderID:      order.OrderID,
		OrderNumber:  order.OrderNumber,
		ItemID:       line.ItemID,
		SKU:          line.SKU,
		ItemName:     line.Name,
		SupplierID:   supplierID,
		SupplierName: supplierName,
		Quantity:     quantity,
		UnitPrice:    line.UnitPrice,
		TotalPrice:   quantity.Mul(line.UnitPrice),
		Unit:         line.Unit,
		EntryDate:    entryDate,
		ProjectID:    order.ProjectID,
		ProjectName:  projectName,
		CreatedAt:    time.Now().UTC(),
	}
}
