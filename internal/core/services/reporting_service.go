package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/obralink/procurement_backend/internal/apperrors"
	"github.com/obralink/procurement_backend/internal/core/domain"
	portsrepo "github.com/obralink/procurement_backend/internal/core/ports/repositories"
	portssvc "github.com/obralink/procurement_backend/internal/core/ports/services"
	"github.com/obralink/procurement_backend/internal/dto"
	"github.com/obralink/procurement_backend/internal/utils/procurement"
)

// topMaterialsLimit caps the top-consumption lists in project reports.
const topMaterialsLimit = 10

// reportingService computes price intelligence and cost consumption reports
// over the purchase ledger, committed orders and travel reports. It holds no
// state; every report is computed fresh from the stores.
type reportingService struct {
	BaseService
	ledgerRepo    portsrepo.LedgerReader
	projectRepo   portsrepo.ProjectReader
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new ReportingSvc.
func NewReportingService(
	ledgerRepo portsrepo.LedgerReader,
	projectRepo portsrepo.ProjectReader,
	reportingRepo portsrepo.ReportingRepository,
) portssvc.ReportingSvc {
	return &reportingService{
		ledgerRepo:    ledgerRepo,
		projectRepo:   projectRepo,
		reportingRepo: reportingRepo,
	}
}

var _ portssvc.ReportingSvc = (*reportingService)(nil)

// GetItemPriceMetrics returns the purchase history of one item with min, max,
// weighted average and last prices. History is returned even when the window
// excludes everything; Metrics is nil only when no entries match.
func (s *reportingService) GetItemPriceMetrics(ctx context.Context, itemID string, from, to *time.Time) (*dto.ItemPriceMetricsResponse, error) {
	entries, err := s.ledgerRepo.FindEntriesByItemID(ctx, itemID, portsrepo.LedgerDateRange{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("failed to load purchase history for item %s: %w", itemID, err)
	}

	resp := &dto.ItemPriceMetricsResponse{History: dto.ToLedgerEntryResponses(entries)}
	if len(entries) == 0 {
		return resp, nil
	}
	resp.Metrics = computeItemMetrics(itemID, entries)
	return resp, nil
}

// GetSupplierComparison groups an item's full purchase history by supplier
// and summarises each supplier's pricing, best weighted average first.
// Entries whose supplier never resolved are grouped under their recorded name.
func (s *reportingService) GetSupplierComparison(ctx context.Context, itemID string) ([]domain.SupplierPriceComparison, error) {
	entries, err := s.ledgerRepo.FindEntriesByItemID(ctx, itemID, portsrepo.LedgerDateRange{})
	if err != nil {
		return nil, fmt.Errorf("failed to load purchase history for item %s: %w", itemID, err)
	}

	buckets := make(map[string][]domain.LedgerEntry)
	order := make([]string, 0)
	for _, e := range entries {
		key := e.SupplierID
		if key == "" {
			key = "name:" + e.SupplierName
		}
		if _, ok := buckets[key]; !ok {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], e)
	}

	comparisons := make([]domain.SupplierPriceComparison, 0, len(buckets))
	for _, key := range order {
		group := buckets[key]
		min, max := procurement.PriceRange(group)
		last := group[len(group)-1]
		totalQty := decimal.Zero
		for _, e := range group {
			totalQty = totalQty.Add(e.Quantity)
		}
		comparisons = append(comparisons, domain.SupplierPriceComparison{
			SupplierID:    last.SupplierID,
			SupplierName:  last.SupplierName,
			MinPrice:      min,
			MaxPrice:      max,
			AvgPrice:      procurement.WeightedAveragePrice(group),
			LastPrice:     last.UnitPrice,
			LastPurchase:  last.EntryDate,
			PurchaseCount: len(group),
			TotalQuantity: totalQty,
		})
	}

	sort.SliceStable(comparisons, func(i, j int) bool {
		return comparisons[i].AvgPrice.LessThan(comparisons[j].AvgPrice)
	})
	return comparisons, nil
}

// GetPriceVariationReport scans the whole ledger and reports items bought at
// more than one unit price, with the saving had every purchase been made at
// the minimum. Items with a single observed price never appear, whatever the
// thresholds.
func (s *reportingService) GetPriceVariationReport(ctx context.Context, params dto.PriceVariationParams) (*domain.PriceVariationReport, error) {
	logger := s.GetLogger(ctx)

	entries, err := s.ledgerRepo.ListAllEntries(ctx, portsrepo.LedgerDateRange{From: params.From, To: params.To})
	if err != nil {
		return nil, fmt.Errorf("failed to scan ledger: %w", err)
	}

	byItem := make(map[string][]domain.LedgerEntry)
	for _, e := range entries {
		byItem[e.ItemID] = append(byItem[e.ItemID], e)
	}

	report := &domain.PriceVariationReport{
		Items:       make([]domain.PriceVariationItem, 0),
		TotalImpact: decimal.Zero,
	}
	variationSum := decimal.Zero
	for itemID, group := range byItem {
		if procurement.DistinctPriceCount(group) < 2 {
			continue
		}
		min, max := procurement.PriceRange(group)
		avg := procurement.WeightedAveragePrice(group)
		variation := procurement.VariationPct(min, max, avg)
		impact := procurement.SavingsImpact(group, min)

		if params.MinVariationPct != nil && variation.LessThan(*params.MinVariationPct) {
			continue
		}
		if params.MinImpact != nil && impact.LessThan(*params.MinImpact) {
			continue
		}

		last := group[len(group)-1]
		report.Items = append(report.Items, domain.PriceVariationItem{
			ItemID:        itemID,
			SKU:           last.SKU,
			ItemName:      last.ItemName,
			MinPrice:      min,
			MaxPrice:      max,
			AvgPrice:      avg,
			VariationPct:  variation,
			PurchaseCount: len(group),
			ImpactAmount:  impact,
		})
		report.TotalImpact = report.TotalImpact.Add(impact)
		variationSum = variationSum.Add(variation)
	}

	sort.SliceStable(report.Items, func(i, j int) bool {
		return report.Items[i].ImpactAmount.GreaterThan(report.Items[j].ImpactAmount)
	})
	report.TotalItems = len(report.Items)
	if report.TotalItems > 0 {
		report.AvgVariation = variationSum.Div(decimal.NewFromInt(int64(report.TotalItems)))
	}

	logger.Debug("Price variation report computed",
		slog.Int("ledger_entries", len(entries)),
		slog.Int("qualifying_items", report.TotalItems))
	return report, nil
}

// GetProjectConsumption combines materials received (from the ledger),
// materials committed (live orders), and travel spend into one report.
// Returns nil without error when the project does not exist.
func (s *reportingService) GetProjectConsumption(ctx context.Context, projectID string, from, to *time.Time) (*domain.ProjectConsumptionReport, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load project %s: %w", projectID, err)
	}

	window := portsrepo.LedgerDateRange{From: from, To: to}
	entries, err := s.ledgerRepo.FindEntriesByProjectID(ctx, projectID, window)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger entries for project %s: %w", projectID, err)
	}
	// Old entries may predate project ids on orders; fall back to the name.
	if len(entries) == 0 {
		entries, err = s.ledgerRepo.FindEntriesByProjectName(ctx, project.Name, window)
		if err != nil {
			return nil, fmt.Errorf("failed to load ledger entries by project name: %w", err)
		}
	}

	committed, err := s.reportingRepo.SumCommittedOrderTotals(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum committed orders: %w", err)
	}
	travelApproved, err := s.reportingRepo.SumTravelReportTotals(ctx, projectID, domain.TravelApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to sum approved travel: %w", err)
	}
	travelPending, err := s.reportingRepo.SumTravelReportTotals(ctx, projectID, domain.TravelPendingApproval)
	if err != nil {
		return nil, fmt.Errorf("failed to sum pending travel: %w", err)
	}

	materialsReceived := decimal.Zero
	for _, e := range entries {
		materialsReceived = materialsReceived.Add(e.TotalPrice)
	}

	report := &domain.ProjectConsumptionReport{
		ProjectID:          project.ProjectID,
		ProjectName:        project.Name,
		Budget:             project.Budget,
		MaterialsReceived:  materialsReceived,
		MaterialsCommitted: committed,
		TravelApproved:     travelApproved,
		TravelPending:      travelPending,
		TotalSpent:         materialsReceived.Add(travelApproved),
		TotalCommitted:     committed.Add(travelPending),
		TopByAmount:        topMaterials(entries, byAmount),
		TopByQuantity:      topMaterials(entries, byQuantity),
		MonthlySpend:       monthlyBuckets(entries),
	}
	report.TotalProjected = report.TotalSpent.Add(report.TotalCommitted)
	return report, nil
}

// GetProjectRanking computes spent, committed and projected totals for every
// project, highest projected spend first.
func (s *reportingService) GetProjectRanking(ctx context.Context) ([]domain.ProjectConsumptionSummary, error) {
	projects, err := s.projectRepo.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	entries, err := s.ledgerRepo.ListAllEntries(ctx, portsrepo.LedgerDateRange{})
	if err != nil {
		return nil, fmt.Errorf("failed to scan ledger: %w", err)
	}
	committedByProject, err := s.reportingRepo.SumCommittedOrderTotalsByProject(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum committed orders: %w", err)
	}
	approvedByProject, err := s.reportingRepo.SumTravelReportTotalsByProject(ctx, domain.TravelApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to sum approved travel: %w", err)
	}
	pendingByProject, err := s.reportingRepo.SumTravelReportTotalsByProject(ctx, domain.TravelPendingApproval)
	if err != nil {
		return nil, fmt.Errorf("failed to sum pending travel: %w", err)
	}

	receivedByProject := make(map[string]decimal.Decimal)
	for _, e := range entries {
		if e.ProjectID == "" {
			continue
		}
		receivedByProject[e.ProjectID] = receivedByProject[e.ProjectID].Add(e.TotalPrice)
	}

	summaries := make([]domain.ProjectConsumptionSummary, 0, len(projects))
	for _, p := range projects {
		spent := receivedByProject[p.ProjectID].Add(approvedByProject[p.ProjectID])
		committed := committedByProject[p.ProjectID].Add(pendingByProject[p.ProjectID])
		summaries = append(summaries, domain.ProjectConsumptionSummary{
			ProjectID:      p.ProjectID,
			ProjectName:    p.Name,
			Budget:         p.Budget,
			TotalSpent:     spent,
			TotalCommitted: committed,
			TotalProjected: spent.Add(committed),
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].TotalProjected.GreaterThan(summaries[j].TotalProjected)
	})
	return summaries, nil
}

func computeItemMetrics(itemID string, entries []domain.LedgerEntry) *domain.ItemPriceMetrics {
	min, max := procurement.PriceRange(entries)
	avg := procurement.WeightedAveragePrice(entries)
	last := entries[len(entries)-1]

	totalQty := decimal.Zero
	totalSpend := decimal.Zero
	for _, e := range entries {
		totalQty = totalQty.Add(e.Quantity)
		totalSpend = totalSpend.Add(e.TotalPrice)
	}

	return &domain.ItemPriceMetrics{
		ItemID:         itemID,
		SKU:            last.SKU,
		ItemName:       last.ItemName,
		MinPrice:       min,
		MaxPrice:       max,
		AvgPrice:       avg,
		LastPrice:      last.UnitPrice,
		LastPurchase:   last.EntryDate,
		TotalPurchases: len(entries),
		TotalQuantity:  totalQty,
		TotalSpend:     totalSpend,
		VariationPct:   procurement.VariationPct(min, max, avg),
	}
}

type materialSortKey int

const (
	byAmount materialSortKey = iota
	byQuantity
)

// topMaterials aggregates entries per item and returns the top consumers.
func topMaterials(entries []domain.LedgerEntry, key materialSortKey) []domain.MaterialTotal {
	byItem := make(map[string]*domain.MaterialTotal)
	order := make([]string, 0)
	for _, e := range entries {
		total, ok := byItem[e.ItemID]
		if !ok {
			total = &domain.MaterialTotal{
				ItemID:   e.ItemID,
				SKU:      e.SKU,
				ItemName: e.ItemName,
				Unit:     e.Unit,
			}
			byItem[e.ItemID] = total
			order = append(order, e.ItemID)
		}
		total.Quantity = total.Quantity.Add(e.Quantity)
		total.Amount = total.Amount.Add(e.TotalPrice)
	}

	totals := make([]domain.MaterialTotal, 0, len(byItem))
	for _, id := range order {
		totals = append(totals, *byItem[id])
	}
	sort.SliceStable(totals, func(i, j int) bool {
		if key == byQuantity {
			return totals[i].Quantity.GreaterThan(totals[j].Quantity)
		}
		return totals[i].Amount.GreaterThan(totals[j].Amount)
	})
	if len(totals) > topMaterialsLimit {
		totals = totals[:topMaterialsLimit]
	}
	return totals
}

// monthlyBuckets groups entry totals by calendar month, oldest first.
func monthlyBuckets(entries []domain.LedgerEntry) []domain.MonthlySpend {
	byMonth := make(map[string]decimal.Decimal)
	for _, e := range entries {
		month := e.EntryDate.UTC().Format("2006-01")
		byMonth[month] = byMonth[month].Add(e.TotalPrice)
	}
	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	buckets := make([]domain.MonthlySpend, len(months))
	for i, m := range months {
		buckets[i] = domain.MonthlySpend{Month: m, Amount: byMonth[m]}
	}
	return buckets
}
