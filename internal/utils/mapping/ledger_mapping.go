package mapping

import (
	"github.com/obralink/procurement_backend/internal/core/domain"
	"github.com/obralink/procurement_backend/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to its model row.
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:      d.EntryID,
		OrderID:      d.OrderID,
		OrderNumber:  d.OrderNumber,
		ItemID:       d.ItemID,
		SKU:          d.SKU,
		ItemName:     d.ItemName,
		SupplierID:   d.SupplierID,
		SupplierName: d.SupplierName,
		Quantity:     d.Quantity,
		UnitPrice:    d.UnitPrice,
		TotalPrice:   d.TotalPrice,
		Unit:         d.Unit,
		EntryDate:    d.EntryDate,
		ProjectID:    d.ProjectID,
		ProjectName:  d.ProjectName,
		CreatedAt:    d.CreatedAt,
	}
}

// ToDomainLedgerEntry converts a model row back to the domain shape.
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:      m.EntryID,
		OrderID:      m.OrderID,
		OrderNumber:  m.OrderNumber,
		ItemID:       m.ItemID,
		SKU:          m.SKU,
		ItemName:     m.ItemName,
		SupplierID:   m.SupplierID,
		SupplierName: m.SupplierName,
		Quantity:     m.Quantity,
		UnitPrice:    m.UnitPrice,
		TotalPrice:   m.TotalPrice,
		Unit:         m.Unit,
		EntryDate:    m.EntryDate,
		ProjectID:    m.ProjectID,
		ProjectName:  m.ProjectName,
		CreatedAt:    m.CreatedAt,
	}
}

// ToDomainLedgerEntrySlice converts a slice of model rows.
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
