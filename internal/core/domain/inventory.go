package domain

import "github.com/shopspring/decimal"

// InventoryItem is a catalogue item with a stock level. Receptions are the
// only flow in this service that adjusts StockQuantity.
type InventoryItem struct {
	ItemID        string          `json:"itemID"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	StockQuantity decimal.Decimal `json:"stockQuantity"`
	Location      string          `json:"location,omitempty"`
	AuditFields
}
