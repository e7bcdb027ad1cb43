package services

import (
	"context"
	"time"

	"github.com/obralink/procurement_backend/internal/core/domain"
	"github.com/obralink/procurement_backend/internal/dto"
)

// ReportingSvc defines the read-only price intelligence and cost consumption
// reports computed over the purchase ledger and live orders. Nothing here
// mutates state; every call computes fresh.
type ReportingSvc interface {
	// GetItemPriceMetrics returns an item's purchase history and price metrics.
	// Metrics is nil when the item was never purchased.
	GetItemPriceMetrics(ctx context.Context, itemID string, from, to *time.Time) (*dto.ItemPriceMetricsResponse, error)

	// GetSupplierComparison groups an item's history by supplier, best average
	// price first.
	GetSupplierComparison(ctx context.Context, itemID string) ([]domain.SupplierPriceComparison, error)

	// GetPriceVariationReport scans the full ledger for items whose unit price
	// varies and quantifies the potential saving. Expensive; callers should
	// treat it as an infrequent operation.
	GetPriceVariationReport(ctx context.Context, params dto.PriceVariationParams) (*domain.PriceVariationReport, error)

	// GetProjectConsumption combines materials and travel spend for one
	// project. Returns nil (no error) when the project does not exist.
	GetProjectConsumption(ctx context.Context, projectID string, from, to *time.Time) (*domain.ProjectConsumptionReport, error)

	// GetProjectRanking computes consumption totals for all projects, sorted
	// by projected spend descending.
	GetProjectRanking(ctx context.Context) ([]domain.ProjectConsumptionSummary, error)
}
