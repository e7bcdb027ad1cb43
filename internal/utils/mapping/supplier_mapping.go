package mapping

import (
	"github.com/obralink/procurement_backend/internal/core/domain"
	"github.com/obralink/procurement_backend/internal/models"
)

// ToModelSupplier converts a domain Supplier to its model row.
func ToModelSupplier(d domain.Supplier) models.Supplier {
	return models.Supplier{
		SupplierID:  d.SupplierID,
		Name:        d.Name,
		TaxID:       d.TaxID,
		Email:       d.Email,
		Phone:       d.Phone,
		Address:     d.Address,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSupplier converts a model row back to the domain shape.
func ToDomainSupplier(m models.Supplier) domain.Supplier {
	return domain.Supplier{
		SupplierID:  m.SupplierID,
		Name:        m.Name,
		TaxID:       m.TaxID,
		Email:       m.Email,
		Phone:       m.Phone,
		Address:     m.Address,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelInventoryItem converts a domain InventoryItem to its model row.
func ToModelInventoryItem(d domain.InventoryItem) models.InventoryItem {
	return models.InventoryItem{
		ItemID:        d.ItemID,
		SKU:           d.SKU,
		Name:          d.Name,
		Unit:          d.Unit,
		StockQuantity: d.StockQuantity,
		Location:      d.Location,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInventoryItem converts a model inventory row to the domain shape.
func ToDomainInventoryItem(m models.InventoryItem) domain.InventoryItem {
	return domain.InventoryItem{
		ItemID:        m.ItemID,
		SKU:           m.SKU,
		Name:          m.Name,
		Unit:          m.Unit,
		StockQuantity: m.StockQuantity,
		Location:      m.Location,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
