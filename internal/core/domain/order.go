package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus indicates where a purchase order sits in its approval and
// delivery lifecycle.
type OrderStatus string

const (
	StatusPendingApproval   OrderStatus = "PENDING_APPROVAL"
	StatusApproved          OrderStatus = "APPROVED"
	StatusSentToSupplier    OrderStatus = "SENT_TO_SUPPLIER"
	StatusReceived          OrderStatus = "RECEIVED"
	StatusPartiallyReceived OrderStatus = "PARTIALLY_RECEIVED"
	StatusRejected          OrderStatus = "REJECTED"
)

// allowedTransitions is the authoritative transition table. An order status
// may only ever change along one of these edges; RECEIVED is terminal.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusPendingApproval:   {StatusApproved, StatusRejected},
	StatusApproved:          {StatusSentToSupplier, StatusPendingApproval},
	StatusRejected:          {StatusPendingApproval},
	StatusSentToSupplier:    {StatusReceived, StatusPartiallyReceived},
	StatusReceived:          {},
	StatusPartiallyReceived: {StatusReceived, StatusPartiallyReceived},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// AllowedTargets returns the statuses an order in the given status may move to.
func AllowedTargets(from OrderStatus) []OrderStatus {
	targets := allowedTransitions[from]
	out := make([]OrderStatus, len(targets))
	copy(out, targets)
	return out
}

// IsValidStatus reports whether the given value is a known order status.
func IsValidStatus(s OrderStatus) bool {
	_, ok := allowedTransitions[s]
	return ok
}

// IsReceivedStatus reports whether the status represents goods having arrived,
// fully or partially.
func IsReceivedStatus(s OrderStatus) bool {
	return s == StatusReceived || s == StatusPartiallyReceived
}

// LineType distinguishes material purchases (which feed the price ledger)
// from service lines (which do not).
type LineType string

const (
	LineTypeMaterial LineType = "MATERIAL"
	LineTypeService  LineType = "SERVICE"
)

// StatusHistoryEntry records a single status change on a purchase order.
type StatusHistoryEntry struct {
	Status       OrderStatus `json:"status"`
	Timestamp    time.Time   `json:"timestamp"`
	Comment      string      `json:"comment,omitempty"`
	ChangedBy    string      `json:"changedBy,omitempty"`
	DisplayOrder int         `json:"-"` // preserves append order within a single instant
}

// PurchaseOrderItem is one line of a purchase order. It has no identity of
// its own; it lives and dies with its order.
type PurchaseOrderItem struct {
	LineID           string          `json:"lineID"`
	ItemID           string          `json:"itemID"` // empty for ad hoc lines
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	Unit             string          `json:"unit"`
	LineType         LineType        `json:"lineType"`
	ReceivedQuantity decimal.Decimal `json:"receivedQuantity"`
}

// LineTotal returns quantity times unit price for the line.
func (i PurchaseOrderItem) LineTotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// Outstanding returns the quantity still undelivered on the line.
func (i PurchaseOrderItem) Outstanding() decimal.Decimal {
	return i.Quantity.Sub(i.ReceivedQuantity)
}

// PurchaseOrder is a procurement request moving through the status machine.
// TotalAmount is always recomputed from the lines at save time, never trusted
// from input.
type PurchaseOrder struct {
	OrderID               string               `json:"orderID"`
	OrderNumber           string               `json:"orderNumber"`
	ProjectID             string               `json:"projectID"`
	ProjectName           string               `json:"projectName"`
	SupplierID            string               `json:"supplierID"`
	SupplierName          string               `json:"supplierName"`
	DeliveryLocation      string               `json:"deliveryLocation"`
	Status                OrderStatus          `json:"status"`
	EstimatedDeliveryDate *time.Time           `json:"estimatedDeliveryDate,omitempty"`
	Items                 []PurchaseOrderItem  `json:"items,omitempty"`
	TotalAmount           decimal.Decimal      `json:"totalAmount"`
	RejectionReason       *string              `json:"rejectionReason,omitempty"`
	StatusHistory         []StatusHistoryEntry `json:"statusHistory,omitempty"`
	OriginOrderID         *string              `json:"originOrderID,omitempty"` // backorder chain
	DeliveryNoteIDs       []string             `json:"deliveryNoteIDs,omitempty"`
	AuditFields
}

// ComputeTotal returns the sum of quantity times unit price over all lines.
func (o *PurchaseOrder) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// MaterialLines returns the order's material-type lines that reference a
// catalogue item. Only these feed the purchase ledger.
func (o *PurchaseOrder) MaterialLines() []PurchaseOrderItem {
	lines := make([]PurchaseOrderItem, 0, len(o.Items))
	for _, item := range o.Items {
		if item.LineType == LineTypeMaterial && item.ItemID != "" {
			lines = append(lines, item)
		}
	}
	return lines
}

// FullyReceived reports whether every line has been delivered in full.
func (o *PurchaseOrder) FullyReceived() bool {
	for _, item := range o.Items {
		if item.ReceivedQuantity.LessThan(item.Quantity) {
			return false
		}
	}
	return true
}

// ReceivedLine names a quantity delivered against one order line.
type ReceivedLine struct {
	ItemID   string          `json:"itemID"`
	Quantity decimal.Decimal `json:"quantity"`
}
