package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project is a cost-tracking unit. TravelSpent is the running total of travel
// expense approvals and is only ever mutated through spend adjustments;
// materials spend is never stored on the project, it is recomputed from the
// purchase ledger on every query.
type Project struct {
	ProjectID   string           `json:"projectID"`
	Name        string           `json:"name"`
	Code        string           `json:"code"`
	Budget      *decimal.Decimal `json:"budget,omitempty"`
	TravelSpent decimal.Decimal  `json:"travelSpent"`
	IsActive    bool             `json:"isActive"`
	AuditFields
}

// AdjustmentReason classifies a spend adjustment.
type AdjustmentReason string

const (
	AdjustmentApproval     AdjustmentReason = "APPROVAL"
	AdjustmentRejection    AdjustmentReason = "REJECTION"
	AdjustmentCancellation AdjustmentReason = "CANCELLATION"
)

// SpendAdjustment is one signed movement of a project's travel spend counter.
// The counter invariant is TravelSpent = sum of all adjustment amounts for
// the project, enforced by writing both in the same locked transaction.
type SpendAdjustment struct {
	AdjustmentID   string           `json:"adjustmentID"`
	ProjectID      string           `json:"projectID"`
	TravelReportID string           `json:"travelReportID"`
	Amount         decimal.Decimal  `json:"amount"` // positive on approval, negative on reversal
	Reason         AdjustmentReason `json:"reason"`
	CreatedAt      time.Time        `json:"createdAt"`
	CreatedBy      string           `json:"createdBy"`
}
