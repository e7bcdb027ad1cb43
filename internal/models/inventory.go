package models

import "github.com/shopspring/decimal"

// InventoryItem represents one row of the inventory_items table.
type InventoryItem struct {
	ItemID        string          `json:"itemID"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	StockQuantity decimal.Decimal `json:"stockQuantity"`
	Location      string          `json:"location"`
	AuditFields
}
