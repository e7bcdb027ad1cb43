package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TravelReportStatus mirrors the travel_reports.status column.
type TravelReportStatus string

// TravelReport represents one row of the travel_reports table.
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
