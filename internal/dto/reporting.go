package dto

import (
	"time"

	"github.com/obralink/procurement_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerEntryResponse is one historical purchase in API responses.
type LedgerEntryResponse struct {
	EntryID      string          `json:"entryID"`
	OrderID      string          `json:"orderID"`
	OrderNumber  string          `json:"orderNumber,omitempty"`
	ItemID       string          `json:"itemID"`
	SKU          string          `json:"sku,omitempty"`
	ItemName     string          `json:"itemName"`
	SupplierID   string          `json:"supplierID,omitempty"`
	SupplierName string          `json:"supplierName"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
	Unit         string          `json:"unit,omitempty"`
	EntryDate    time.Time       `json:"entryDate"`
	ProjectID    string          `json:"projectID,omitempty"`
	ProjectName  string          `json:"projectName,omitempty"`
}

// ItemPriceMetricsResponse pairs an item's purchase history with its metrics.
// Metrics is nil when the item has no recorded purchases.
type ItemPriceMetricsResponse struct {
	History []LedgerEntryResponse    `json:"history"`
	Metrics *domain.ItemPriceMetrics `json:"metrics"`
}

// PriceVariationParams filters the fleet-wide variation report.
type PriceVariationParams struct {
	From            *time.Time
	To              *time.Time
	MinVariationPct *decimal.Decimal
	MinImpact       *decimal.Decimal
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to its API shape.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:      e.EntryID,
		OrderID:      e.OrderID,
		OrderNumber:  e.OrderNumber,
		ItemID:       e.ItemID,
		SKU:          e.SKU,
		ItemName:     e.ItemName,
		SupplierID:   e.SupplierID,
		SupplierName: e.SupplierName,
		Quantity:     e.Quantity,
		UnitPrice:    e.UnitPrice,
		TotalPrice:   e.TotalPrice,
		Unit:         e.Unit,
		EntryDate:    e.EntryDate,
		ProjectID:    e.ProjectID,
		ProjectName:  e.ProjectName,
	}
}

// ToLedgerEntryResponses converts a slice of domain entries.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	responses := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToLedgerEntryResponse(&entries[i])
	}
	return responses
}
