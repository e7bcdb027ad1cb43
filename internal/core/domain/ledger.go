package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is an immutable historical purchase fact: N units of an item
// bought from a supplier under an order at a unit price on a date, attributed
// to a project. Entries are created exactly once per (orderID, itemID) pair
// and are never updated or deleted in normal operation.
type LedgerEntry struct {
	EntryID      string          `json:"entryID"`
	OrderID      string          `json:"orderID"`
	OrderNumber  string          `json:"orderNumber"`
	ItemID       string          `json:"itemID"`
	SKU          string          `json:"sku"`
	ItemName     string          `json:"itemName"`
	SupplierID   string          `json:"supplierID"` // empty when name resolution missed
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

// LedgerKey identifies a ledger entry by its deduplication key. No two
// entries may ever share the same key; the reconciler checks this before
// every insert.
type LedgerKey struct {
	OrderID string
	ItemID  string
}

// Key returns the entry's deduplication key.
func (e LedgerEntry) Key() LedgerKey {
	return LedgerKey{OrderID: e.OrderID, ItemID: e.ItemID}
}
