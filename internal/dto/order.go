package dto

import (
	"time"

	"github.com/obralink/procurement_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is one line of an order create/update request.
type OrderItemRequest struct {
	ItemID    string          `json:"itemID"` // empty for ad hoc lines
	SKU       string          `json:"sku"`
	Name      string          `json:"name" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Unit      string          `json:"unit"`
	LineType  string          `json:"lineType" binding:"required,oneof=MATERIAL SERVICE"`
}

// CreateOrderRequest is the payload for creating a purchase order.
// The total is always recomputed server-side from the lines.
type CreateOrderRequest struct {
	OrderNumber           string             `json:"orderNumber" binding:"required"`
	ProjectID             string             `json:"projectID" binding:"required"`
	ProjectName           string             `json:"projectName"`
	SupplierID            string             `json:"supplierID"`
	SupplierName          string             `json:"supplierName" binding:"required"`
	DeliveryLocation      string             `json:"deliveryLocation"`
	EstimatedDeliveryDate *FlexTime          `json:"estimatedDeliveryDate"`
	Items                 []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderRequest carries editable order fields. Only orders still pending
// approval accept updates.
type UpdateOrderRequest struct {
	DeliveryLocation      *string            `json:"deliveryLocation"`
	EstimatedDeliveryDate *FlexTime          `json:"estimatedDeliveryDate"`
	Items                 []OrderItemRequest `json:"items" binding:"omitempty,min=1,dive"`
}

// ReceivedLineRequest names a quantity delivered against one order line.
type ReceivedLineRequest struct {
	ItemID   string          `json:"itemID" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// ReceiveOrderRequest records a delivery against an order. Empty lines mean
// the whole outstanding remainder was delivered.
type ReceiveOrderRequest struct {
	Lines   []ReceivedLineRequest `json:"lines" binding:"omitempty,dive"`
	Comment string                `json:"comment"`
}

// TransitionRequest asks the status machine to move an order.
type TransitionRequest struct {
	TargetStatus  string                `json:"targetStatus" binding:"required"`
	Comment       string                `json:"comment"`
	ApprovalCode  string                `json:"approvalCode"` // required when targeting APPROVED
	ReceivedLines []ReceivedLineRequest `json:"receivedLines" binding:"omitempty,dive"`
}

// TransitionResult reports the outcome of a transition request. Invalid
// transitions come back as Success=false with a self-explanatory message,
// never as a transport error.
type TransitionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// BackorderRequest spawns a follow-up order for undelivered lines.
type BackorderRequest struct {
	Lines []ReceivedLineRequest `json:"lines" binding:"omitempty,dive"`
}

// OrderItemResponse is one order line in API responses.
type OrderItemResponse struct {
	LineID           string          `json:"lineID"`
	ItemID           string          `json:"itemID,omitempty"`
	SKU              string          `json:"sku,omitempty"`
	Name             string          `json:"name"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	Unit             string          `json:"unit,omitempty"`
	LineType         string          `json:"lineType"`
	ReceivedQuantity decimal.Decimal `json:"receivedQuantity"`
}

// StatusHistoryResponse is one status change in API responses.
type StatusHistoryResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Comment   string    `json:"comment,omitempty"`
	ChangedBy string    `json:"changedBy,omitempty"`
}

// OrderResponse is the API shape of a purchase order.
type OrderResponse struct {
	OrderID               string                  `json:"orderID"`
	OrderNumber           string                  `json:"orderNumber"`
	ProjectID             string                  `json:"projectID"`
	ProjectName           string                  `json:"projectName,omitempty"`
	SupplierID            string                  `json:"supplierID,omitempty"`
	SupplierName          string                  `json:"supplierName"`
	DeliveryLocation      string                  `json:"deliveryLocation,omitempty"`
	Status                string                  `json:"status"`
	EstimatedDeliveryDate *time.Time              `json:"estimatedDeliveryDate,omitempty"`
	TotalAmount           decimal.Decimal         `json:"totalAmount"`
	RejectionReason       *string                 `json:"rejectionReason,omitempty"`
	OriginOrderID         *string                 `json:"originOrderID,omitempty"`
	Items                 []OrderItemResponse     `json:"items,omitempty"`
	StatusHistory         []StatusHistoryResponse `json:"statusHistory,omitempty"`
	CreatedAt             time.Time               `json:"createdAt"`
}

// ListOrdersParams holds listing parameters for orders.
type ListOrdersParams struct {
	Status    *string
	ProjectID *string
	Limit     int
	NextToken *string
}

// ListOrdersResponse is a page of orders plus the token for the next page.
type ListOrdersResponse struct {
	Orders    []OrderResponse `json:"orders"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToOrderResponse converts a domain.PurchaseOrder to its API shape.
func ToOrderResponse(o *domain.PurchaseOrder) OrderResponse {
	resp := OrderResponse{
		OrderID:               o.OrderID,
		OrderNumber:           o.OrderNumber,
		ProjectID:             o.ProjectID,
		ProjectName:           o.ProjectName,
		SupplierID:            o.SupplierID,
		SupplierName:          o.SupplierName,
		DeliveryLocation:      o.DeliveryLocation,
		Status:                string(o.Status),
		EstimatedDeliveryDate: o.EstimatedDeliveryDate,
		TotalAmount:           o.TotalAmount,
		RejectionReason:       o.RejectionReason,
		OriginOrderID:         o.OriginOrderID,
		CreatedAt:             o.CreatedAt,
	}
	if len(o.Items) > 0 {
		resp.Items = make([]OrderItemResponse, len(o.Items))
		for i, item := range o.Items {
			resp.Items[i] = OrderItemResponse{
				LineID:           item.LineID,
				ItemID:           item.ItemID,
				SKU:              item.SKU,
				Name:             item.Name,
				Quantity:         item.Quantity,
				UnitPrice:        item.UnitPrice,
				Unit:             item.Unit,
				LineType:         string(item.LineType),
				ReceivedQuantity: item.ReceivedQuantity,
			}
		}
	}
	if len(o.StatusHistory) > 0 {
		resp.StatusHistory = make([]StatusHistoryResponse, len(o.StatusHistory))
		for i, h := range o.StatusHistory {
			resp.StatusHistory[i] = StatusHistoryResponse{
				Status:    string(h.Status),
				Timestamp: h.Timestamp,
				Comment:   h.Comment,
				ChangedBy: h.ChangedBy,
			}
		}
	}
	return resp
}

// ToOrderResponses converts a slice of domain orders.
func ToOrderResponses(orders []domain.PurchaseOrder) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}
