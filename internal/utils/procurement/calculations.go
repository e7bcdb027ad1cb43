package procurement

import (
	"github.com/obralink/procurement_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// WeightedAveragePrice returns total spend divided by total quantity over the
// given entries. A zero total quantity yields zero, never a division error.
func WeightedAveragePrice(entries []domain.LedgerEntry) decimal.Decimal {
	totalSpend := decimal.Zero
	totalQty := decimal.Zero
	for _, e := range entries {
		totalSpend = totalSpend.Add(e.TotalPrice)
		totalQty = totalQty.Add(e.Quantity)
	}
	if totalQty.IsZero() {
		return decimal.Zero
	}
	return totalSpend.Div(totalQty)
}

// PriceRange returns the minimum and maximum unit price over the entries.
// Both are zero when the slice is empty.
func PriceRange(entries []domain.LedgerEntry) (min, max decimal.Decimal) {
	if len(entries) == 0 {
		return decimal.Zero, decimal.Zero
	}
	min = entries[0].UnitPrice
	max = entries[0].UnitPrice
	for _, e := range entries[1:] {
		if e.UnitPrice.LessThan(min) {
			min = e.UnitPrice
		}
		if e.UnitPrice.GreaterThan(max) {
			max = e.UnitPrice
		}
	}
	return min, max
}

// VariationPct returns (max-min)/avg * 100, or zero when avg is zero.
func VariationPct(min, max, avg decimal.Decimal) decimal.Decimal {
	if avg.IsZero() {
		return decimal.Zero
	}
	return max.Sub(min).Div(avg).Mul(decimal.NewFromInt(100))
}

// DistinctPriceCount returns the number of distinct unit prices observed.
func DistinctPriceCount(entries []domain.LedgerEntry) int {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		seen[e.UnitPrice.String()] = struct{}{}
	}
	return len(seen)
}

// SavingsImpact returns the counterfactual saving had every purchase been
// made at the minimum observed price: the sum of (price - min) * quantity
// over purchases priced above the minimum.
func SavingsImpact(entries []domain.LedgerEntry, min decimal.Decimal) decimal.Decimal {
	impact := decimal.Zero
	for _, e := range entries {
		if e.UnitPrice.GreaterThan(min) {
			impact = impact.Add(e.UnitPrice.Sub(min).Mul(e.Quantity))
		}
	}
	return impact
}
