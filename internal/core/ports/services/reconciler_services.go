package services

import (
	"context"

	"github.com/obralink/procurement_backend/internal/core/domain"
	"github.com/obralink/procurement_backend/internal/dto"
)

// ReconcilerSvc derives ledger entries from orders. It writes nothing but
// ledger entries; orders, suppliers and projects are read-only to it.
type ReconcilerSvc interface {
	// ReconcileAll backfills ledger entries for every order in a qualifying
	// status. Idempotent: entries whose (orderID, itemID) key already exists
	// are skipped.
	ReconcileAll(ctx context.Context) (*dto.BackfillResult, error)

	// ReconcileOrder records the given received lines of one order, dated at
	// the moment of reconciliation.
	ReconcileOrder(ctx context.Context, orderID string, receivedLines []domain.ReceivedLine) (*dto.TransitionResult, error)
}
