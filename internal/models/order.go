package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus mirrors the purchase_orders.status column.
type OrderStatus string

// LineType mirrors the purchase_order_items.line_type column.
type LineType string

// PurchaseOrder represents one row of the purchase_orders table. Items and
// history live in their own tables and are loaded separately.
type PurchaseOrder struct {
	OrderID               string          `json:"orderID"`
	OrderNumber           string          `json:"orderNumber"`
	ProjectID             string          `json:"projectID"`
	ProjectName           string          `json:"projectName"`
	SupplierID            string          `json:"supplierID"`
	SupplierName          string          `json:"supplierName"`
	DeliveryLocation      string          `json:"deliveryLocation"`
	Status                OrderStatus     `json:"status"`
	EstimatedDeliveryDate *time.Time      `json:"estimatedDeliveryDate"`
	TotalAmount           decimal.Decimal `json:"totalAmount"`
	RejectionReason       *string         `json:"rejectionReason"`
	OriginOrderID         *string         `json:"originOrderID"`
	AuditFields
}

// PurchaseOrderItem represents one row of the purchase_order_items table.
type PurchaseOrderItem struct {
	LineID           string          `json:"lineID"`
	OrderID          string          `json:"orderID"`
	ItemID           string          `json:"itemID"`
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	Unit             string          `json:"unit"`
	LineType         LineType        `json:"lineType"`
	ReceivedQuantity decimal.Decimal `json:"receivedQuantity"`
}

// StatusHistoryEntry represents one row of the order_status_history table.
// DisplayOrder keeps the append order unambiguous when two changes share a
// timestamp.
type StatusHistoryEntry struct {
	OrderID      string      `json:"orderID"`
	Status       OrderStatus `json:"status"`
	Timestamp    time.Time   `json:"timestamp"`
	Comment      string      `json:"comment"`
	ChangedBy    string      `json:"changedBy"`
	DisplayOrder int         `json:"displayOrder"`
}
