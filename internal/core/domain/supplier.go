package domain

// Supplier is a vendor purchase orders are placed with.
type Supplier struct {
	SupplierID string `json:"supplierID"`
	Name       string `json:"name"`
	TaxID      string `json:"taxID,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	IsActive   bool   `json:"isActive"`
	AuditFields
}
