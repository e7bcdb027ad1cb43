package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry represents one row of the ledger_entries table.
type LedgerEntry struct {
	EntryID      string          `json:"entryID"`
	OrderID      string          `json:"orderID"`
	OrderNumber  string          `json:"orderNumber"`
	ItemID       string          `json:"itemID"`
	SKU          string          `json:"sku"`
	ItemName     string          `json:"itemName"`
	SupplierID   string          `json:"supplierID"`
	SupplierName string          `json:"supplierName"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
	Unit         string          `json:"unit"`
	EntryDate    time.Time       `json:"entryDate"`
	ProjectID    string          `json:"projectID"`
	ProjectName  string          `json:"projectName"`
	CreatedAt    time.Time       `json:"createdAt"`
}
