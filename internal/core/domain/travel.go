package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TravelReportStatus indicates the state of a travel expense report.
type TravelReportStatus string

const (
	TravelPendingApproval TravelReportStatus = "PENDING_APPROVAL"
	TravelApproved        TravelReportStatus = "APPROVED"
	TravelRejected        TravelReportStatus = "REJECTED"
	TravelCancelled       TravelReportStatus = "CANCELLED"
)

// TravelReport is an employee travel expense claim charged against a project.
// Approving one increments the project's travel spend; rejecting or
// cancelling an approved one reverses the increment.
type TravelReport struct {
	ReportID    string             `json:"reportID"`
	ProjectID   string             `json:"projectID"`
	EmployeeID  string             `json:"employeeID"`
	Description string             `json:"description"`
	Status      TravelReportStatus `json:"status"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
	StartDate   time.Time          `json:"startDate"`
	EndDate     time.Time          `json:"endDate"`
	AuditFields
}
