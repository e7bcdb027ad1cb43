package dto

import (
	"github.com/obralink/procurement_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProjectRequest is the payload for creating a project.
type CreateProjectRequest struct {
	Name   string           `json:"name" binding:"required"`
	Code   string           `json:"code"`
	Budget *decimal.Decimal `json:"budget"`
}

// ProjectResponse is the API shape of a project.
type ProjectResponse struct {
	ProjectID   string           `json:"projectID"`
	Name        string           `json:"name"`
	Code        string           `json:"code,omitempty"`
	Budget      *decimal.Decimal `json:"budget,omitempty"`
	TravelSpent decimal.Decimal  `json:"travelSpent"`
	IsActive    bool             `json:"isActive"`
}

// CreateTravelReportRequest is the payload for filing a travel expense report.
type CreateTravelReportRequest struct {
	ProjectID   string          `json:"projectID" binding:"required"`
	EmployeeID  string          `json:"employeeID" binding:"required"`
	Description string          `json:"description"`
	TotalAmount decimal.Decimal `json:"totalAmount" binding:"required"`
	StartDate   FlexTime        `json:"startDate" binding:"required"`
	EndDate     FlexTime        `json:"endDate" binding:"required"`
}

// ToProjectResponse converts a domain.Project to its API shape.
func ToProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ProjectID:   p.ProjectID,
		Name:        p.Name,
		Code:        p.Code,
		Budget:      p.Budget,
		TravelSpent: p.TravelSpent,
		IsActive:    p.IsActive,
	}
}

// ToProjectResponses converts a slice of domain projects.
func ToProjectResponses(projects []domain.Project) []ProjectResponse {
	responses := make([]ProjectResponse, len(projects))
	for i := range projects {
		responses[i] = ToProjectResponse(&projects[i])
	}
	return responses
}
