package mapping

import (
	"github.com/obralink/procurement_backend/internal/core/domain"
	"github.com/obralink/procurement_backend/internal/models"
)

// ToModelPurchaseOrder converts a domain PurchaseOrder to its model row.
// Items and history are mapped separately since they live in their own tables.
func ToModelPurchaseOrder(d domain.PurchaseOrder) models.PurchaseOrder {
	return models.PurchaseOrder{
		OrderID:               d.OrderID,
		OrderNumber:           d.OrderNumber,
		ProjectID:             d.ProjectID,
		ProjectName:           d.ProjectName,
		SupplierID:            d.SupplierID,
		SupplierName:          d.SupplierName,
		DeliveryLocation:      d.DeliveryLocation,
		Status:                models.OrderStatus(d.Status),
		EstimatedDeliveryDate: d.EstimatedDeliveryDate,
		TotalAmount:           d.TotalAmount,
		RejectionReason:       d.RejectionReason,
		OriginOrderID:         d.OriginOrderID,
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPurchaseOrder converts a model row back to the domain shape.
func ToDomainPurchaseOrder(m models.PurchaseOrder) domain.PurchaseOrder {
	return domain.PurchaseOrder{
		OrderID:               m.OrderID,
		OrderNumber:           m.OrderNumber,
		ProjectID:             m.ProjectID,
		ProjectName:           m.ProjectName,
		SupplierID:            m.SupplierID,
		SupplierName:          m.SupplierName,
		DeliveryLocation:      m.DeliveryLocation,
		Status:                domain.OrderStatus(m.Status),
		EstimatedDeliveryDate: m.EstimatedDeliveryDate,
		TotalAmount:           m.TotalAmount,
		RejectionReason:       m.RejectionReason,
		OriginOrderID:         m.OriginOrderID,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelOrderItem converts a domain order line to its model row.
func ToModelOrderItem(orderID string, d domain.PurchaseOrderItem) models.PurchaseOrderItem {
	return models.PurchaseOrderItem{
		LineID:           d.LineID,
		OrderID:          orderID,
		ItemID:           d.ItemID,
		SKU:              d.SKU,
		Name:             d.Name,
		Quantity:         d.Quantity,
		UnitPrice:        d.UnitPrice,
		Unit:             d.Unit,
		LineType:         models.LineType(d.LineType),
		ReceivedQuantity: d.ReceivedQuantity,
	}
}

// ToDomainOrderItem converts a model line row to the domain shape.
func ToDomainOrderItem(m models.PurchaseOrderItem) domain.PurchaseOrderItem {
	return domain.PurchaseOrderItem{
		LineID:           m.LineID,
		ItemID:           m.ItemID,
		SKU:              m.SKU,
		Name:             m.Name,
		Quantity:         m.Quantity,
		UnitPrice:        m.UnitPrice,
		Unit:             m.Unit,
		LineType:         domain.LineType(m.LineType),
		ReceivedQuantity: m.ReceivedQuantity,
	}
}

// ToDomainOrderItemSlice converts a slice of model line rows.
func ToDomainOrderItemSlice(ms []models.PurchaseOrderItem) []domain.PurchaseOrderItem {
	ds := make([]domain.PurchaseOrderItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainOrderItem(m)
	}
	return ds
}

// ToDomainHistoryEntry converts a model history row to the domain shape.
func ToDomainHistoryEntry(m models.StatusHistoryEntry) domain.StatusHistoryEntry {
	return domain.StatusHistoryEntry{
		Status:       domain.OrderStatus(m.Status),
		Timestamp:    m.Timestamp,
		Comment:      m.Comment,
		ChangedBy:    m.ChangedBy,
		DisplayOrder: m.DisplayOrder,
	}
}

// ToDomainHistorySlice converts a slice of model history rows.
func ToDomainHistorySlice(ms []models.StatusHistoryEntry) []domain.StatusHistoryEntry {
	ds := make([]domain.StatusHistoryEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainHistoryEntry(m)
	}
	return ds
}
