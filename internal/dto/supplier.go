package dto

import "github.com/obralink/procurement_backend/internal/core/domain"

// CreateSupplierRequest is the payload for registering a supplier.
type CreateSupplierRequest struct {
	Name    string `json:"name" binding:"required"`
	TaxID   string `json:"taxID"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// SupplierResponse is the API shape of a supplier.
type SupplierResponse struct {
	SupplierID string `json:"supplierID"`
	Name       string `json:"name"`
	TaxID      string `json:"taxID,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	IsActive   bool   `json:"isActive"`
}

// ToSupplierResponse converts a domain.Supplier to its API shape.
func ToSupplierResponse(s *domain.Supplier) SupplierResponse {
	return SupplierResponse{
		SupplierID: s.SupplierID,
		Name:       s.Name,
		TaxID:      s.TaxID,
		Email:      s.Email,
		Phone:      s.Phone,
		Address:    s.Address,
		IsActive:   s.IsActive,
	}
}

// ToSupplierResponses converts a slice of domain suppliers.
func ToSupplierResponses(suppliers []domain.Supplier) []SupplierResponse {
	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = ToSupplierResponse(&suppliers[i])
	}
	return responses
}
