package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project represents one row of the projects table.
type Project struct {
	ProjectID   string           `json:"projectID"`
	Name        string           `json:"name"`
	Code        string           `json:"code"`
	Budget      *decimal.Decimal `json:"budget"`
	TravelSpent decimal.Decimal  `json:"travelSpent"`
	IsActive    bool             `json:"isActive"`
	AuditFields
}

// SpendAdjustment represents one row of the project_spend_adjustments table.
type SpendAdjustment struct {
	AdjustmentID   string          `json:"adjustmentID"`
	ProjectID      string          `json:"projectID"`
	TravelReportID string          `json:"travelReportID"`
	Amount         decimal.Decimal `json:"amount"`
	Reason         string          `json:"reason"`
	CreatedAt      time.Time       `json:"createdAt"`
	CreatedBy      string          `json:"createdBy"`
}
