package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemPriceMetrics summarises the purchase history of one item.
// AvgPrice is quantity-weighted: total spend divided by total quantity.
type ItemPriceMetrics struct {
	ItemID         string          `json:"itemID"`
	SKU            string          `json:"sku"`
	ItemName       string          `json:"itemName"`
	MinPrice       decimal.Decimal `json:"minPrice"`
	MaxPrice       decimal.Decimal `json:"maxPrice"`
	AvgPrice       decimal.Decimal `json:"avgPrice"`
	LastPrice      decimal.Decimal `json:"lastPrice"`
	LastPurchase   time.Time       `json:"lastPurchase"`
	TotalPurchases int             `json:"totalPurchases"`
	TotalQuantity  decimal.Decimal `json:"totalQuantity"`
	TotalSpend     decimal.Decimal `json:"totalSpend"`
	VariationPct   decimal.Decimal `json:"variationPct"` // (max-min)/avg * 100
}

// SupplierPriceComparison summarises one supplier's prices for one item.
type SupplierPriceComparison struct {
	SupplierID     string          `json:"supplierID"`
	SupplierName   string          `json:"supplierName"`
	MinPrice       decimal.Decimal `json:"minPrice"`
	MaxPrice       decimal.Decimal `json:"maxPrice"`
	AvgPrice       decimal.Decimal `json:"avgPrice"`
	LastPrice      decimal.Decimal `json:"lastPrice"`
	LastPurchase   time.Time       `json:"lastPurchase"`
	PurchaseCount  int             `json:"purchaseCount"`
	TotalQuantity  decimal.Decimal `json:"totalQuantity"`
}

// PriceVariationItem is one row of the fleet-wide savings report: an item
// whose observed unit prices vary, with the counterfactual saving had every
// purchase been made at the minimum observed price.
type PriceVariationItem struct {
	ItemID        string          `json:"itemID"`
	SKU           string          `json:"sku"`
	ItemName      string          `json:"itemName"`
	MinPrice      decimal.Decimal `json:"minPrice"`
	MaxPrice      decimal.Decimal `json:"maxPrice"`
	AvgPrice      decimal.Decimal `json:"avgPrice"`
	VariationPct  decimal.Decimal `json:"variationPct"`
	PurchaseCount int             `json:"purchaseCount"`
	ImpactAmount  decimal.Decimal `json:"impactAmount"` // sum of (price-min)*qty over purchases above min
}

// PriceVariationReport is the aggregate of all qualifying items.
type PriceVariationReport struct {
	Items        []PriceVariationItem `json:"items"`
	TotalItems   int                  `json:"totalItems"`
	TotalImpact  decimal.Decimal      `json:"totalImpact"`
	AvgVariation decimal.Decimal      `json:"avgVariation"`
}

// MaterialTotal is one material aggregated within a project window.
type MaterialTotal struct {
	ItemID   string          `json:"itemID"`
	SKU      string          `json:"sku"`
	ItemName string          `json:"itemName"`
	Quantity decimal.Decimal `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
	Unit     string          `json:"unit"`
}

// MonthlySpend is one bucket of a project's spend time series, keyed by
// calendar year-month.
type MonthlySpend struct {
	Month  string          `json:"month"` // YYYY-MM
	Amount decimal.Decimal `json:"amount"`
}

// ProjectConsumptionReport combines materials and travel spend for a project
// over an optional date window. TotalProjected = TotalSpent + TotalCommitted
// holds exactly for every report.
type ProjectConsumptionReport struct {
	ProjectID          string           `json:"projectID"`
	ProjectName        string           `json:"projectName"`
	Budget             *decimal.Decimal `json:"budget,omitempty"`
	MaterialsReceived  decimal.Decimal  `json:"materialsReceived"`
	MaterialsCommitted decimal.Decimal  `json:"materialsCommitted"`
	TravelApproved     decimal.Decimal  `json:"travelApproved"`
	TravelPending      decimal.Decimal  `json:"travelPending"`
	TotalSpent         decimal.Decimal  `json:"totalSpent"`
	TotalCommitted     decimal.Decimal  `json:"totalCommitted"`
	TotalProjected     decimal.Decimal  `json:"totalProjected"`
	TopByAmount        []MaterialTotal  `json:"topByAmount"`
	TopByQuantity      []MaterialTotal  `json:"topByQuantity"`
	MonthlySpend       []MonthlySpend   `json:"monthlySpend"`
}

// ProjectConsumptionSummary is one row of the fleet-wide project ranking.
type ProjectConsumptionSummary struct {
	ProjectID      string           `json:"projectID"`
	ProjectName    string           `json:"projectName"`
	Budget         *decimal.Decimal `json:"budget,omitempty"`
	TotalSpent     decimal.Decimal  `json:"totalSpent"`
	TotalCommitted decimal.Decimal  `json:"totalCommitted"`
	TotalProjected decimal.Decimal  `json:"totalProjected"`
}
