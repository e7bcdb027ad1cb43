package procurement

import (
	"testing"

	"github.com/obralink/procurement_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func entry(qty, price float64) domain.LedgerEntry {
	q := decimal.NewFromFloat(qty)
	p := decimal.NewFromFloat(price)
	return domain.LedgerEntry{
		Quantity:   q,
		UnitPrice:  p,
		TotalPrice: q.Mul(p),
	}
}

func TestWeightedAveragePrice(t *testing.T) {
	// 2 units at 10 plus 3 units at 5: 35 total over 5 units.
	entries := []domain.LedgerEntry{entry(2, 10), entry(3, 5)}
	avg := WeightedAveragePrice(entries)
	assert.True(t, decimal.NewFromInt(7).Equal(avg), "got %s", avg)
}

func TestWeightedAveragePrice_ZeroQuantity(t *testing.T) {
	assert.True(t, decimal.Zero.Equal(WeightedAveragePrice(nil)))
	assert.True(t, decimal.Zero.Equal(WeightedAveragePrice([]domain.LedgerEntry{entry(0, 10)})))
}

func TestPriceRange(t *testing.T) {
	entries := []domain.LedgerEntry{entry(1, 12), entry(1, 8), entry(1, 10)}
	min, max := PriceRange(entries)
	assert.True(t, decimal.NewFromInt(8).Equal(min))
	assert.True(t, decimal.NewFromInt(12).Equal(max))
}

func TestPriceRange_Empty(t *testing.T) {
	min, max := PriceRange(nil)
	assert.True(t, decimal.Zero.Equal(min))
	assert.True(t, decimal.Zero.Equal(max))
}

func TestPriceRange_SingleEntry(t *testing.T) {
	min, max := PriceRange([]domain.LedgerEntry{entry(1, 9.5)})
	assert.True(t, min.Equal(max))
	assert.True(t, decimal.NewFromFloat(9.5).Equal(min))
}

func TestVariationPct(t *testing.T) {
	// (10-5)/7 * 100
	got := VariationPct(decimal.NewFromInt(5), decimal.NewFromInt(10), decimal.NewFromInt(7))
	want := decimal.NewFromInt(5).Div(decimal.NewFromInt(7)).Mul(decimal.NewFromInt(100))
	assert.True(t, want.Equal(got), "got %s", got)
}

func TestVariationPct_ZeroAvg(t *testing.T) {
	got := VariationPct(decimal.Zero, decimal.NewFromInt(10), decimal.Zero)
	assert.True(t, decimal.Zero.Equal(got))
}

func TestVariationPct_NoVariation(t *testing.T) {
	price := decimal.NewFromInt(10)
	assert.True(t, decimal.Zero.Equal(VariationPct(price, price, price)))
}

func TestDistinctPriceCount(t *testing.T) {
	entries := []domain.LedgerEntry{entry(1, 10), entry(2, 10), entry(1, 15)}
	assert.Equal(t, 2, DistinctPriceCount(entries))
	assert.Equal(t, 0, DistinctPriceCount(nil))
}

func TestSavingsImpact(t *testing.T) {
	// 2 units bought at 15 against a minimum of 10: 10 left on the table.
	entries := []domain.LedgerEntry{entry(3, 10), entry(2, 15)}
	min := decimal.NewFromInt(10)
	impact := SavingsImpact(entries, min)
	assert.True(t, decimal.NewFromInt(10).Equal(impact), "got %s", impact)
}

func TestSavingsImpact_AllAtMinimum(t *testing.T) {
	entries := []domain.LedgerEntry{entry(3, 10), entry(2, 10)}
	assert.True(t, decimal.Zero.Equal(SavingsImpact(entries, decimal.NewFromInt(10))))
}
