package repositories

import (
	"context"

	"github.com/obralink/procurement_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepository defines the aggregate sums the consumption reports need
// beyond what the ledger reader already provides. All operations are read-only.
type ReportingRepository interface {
	// SumCommittedOrderTotals sums order totals for one project over orders in
	// APPROVED or SENT_TO_SUPPLIER status: money obligated but not received.
	SumCommittedOrderTotals(ctx context.Context, projectID string) (decimal.Decimal, error)

	// SumCommittedOrderTotalsByProject computes the same sum for all projects.
	SumCommittedOrderTotalsByProject(ctx context.Context) (map[string]decimal.Decimal, error)

	// SumTravelReportTotals sums travel report totals for one project and status.
	SumTravelReportTotals(ctx context.Context, projectID string, status domain.TravelReportStatus) (decimal.Decimal, error)

	// SumTravelReportTotalsByProject computes the same sum for all projects.
	SumTravelReportTotalsByProject(ctx context.Context, status domain.TravelReportStatus) (map[string]decimal.Decimal, error)
}
