package mapping

import (
	"github.com/obralink/procurement_backend/internal/core/domain"
	"github.com/obralink/procurement_backend/internal/models"
)

// ToModelProject converts a domain Project to its model row.
func ToModelProject(d domain.Project) models.Project {
	return models.Project{
		ProjectID:   d.ProjectID,
		Name:        d.Name,
		Code:        d.Code,
		Budget:      d.Budget,
		TravelSpent: d.TravelSpent,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainProject converts a model row back to the domain shape.
func ToDomainProject(m models.Project) domain.Project {
	return domain.Project{
		ProjectID:   m.ProjectID,
		Name:        m.Name,
		Code:        m.Code,
		Budget:      m.Budget,
		TravelSpent: m.TravelSpent,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelSpendAdjustment converts a domain SpendAdjustment to its model row.
func ToModelSpendAdjustment(d domain.SpendAdjustment) models.SpendAdjustment {
	return models.SpendAdjustment{
		AdjustmentID:   d.AdjustmentID,
		ProjectID:      d.ProjectID,
		TravelReportID: d.TravelReportID,
		Amount:         d.Amount,
		Reason:         string(d.Reason),
		CreatedAt:      d.CreatedAt,
		CreatedBy:      d.CreatedBy,
	}
}

// ToDomainSpendAdjustment converts a model row back to the domain shape.
func ToDomainSpendAdjustment(m models.SpendAdjustment) domain.SpendAdjustment {
	return domain.SpendAdjustment{
		AdjustmentID:   m.AdjustmentID,
		ProjectID:      m.ProjectID,
		TravelReportID: m.TravelReportID,
		Amount:         m.Amount,
		Reason:         domain.AdjustmentReason(m.Reason),
		CreatedAt:      m.CreatedAt,
		CreatedBy:      m.CreatedBy,
	}
}

// ToDomainTravelReport converts a model travel report row to the domain shape.
func ToDomainTravelReport(m models.TravelReport) domain.TravelReport {
	return domain.TravelReport{
		ReportID:    m.ReportID,
		ProjectID:   m.ProjectID,
		EmployeeID:  m.EmployeeID,
		Description: m.Description,
		Status:      domain.TravelReportStatus(m.Status),
		TotalAmount: m.TotalAmount,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTravelReport converts a domain travel report to its model row.
func ToModelTravelReport(d domain.TravelReport) models.TravelReport {
	return models.TravelReport{
		ReportID:    d.ReportID,
		ProjectID:   d.ProjectID,
		EmployeeID:  d.EmployeeID,
		Description: d.Description,
		Status:      models.TravelReportStatus(d.Status),
		TotalAmount: d.TotalAmount,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}
