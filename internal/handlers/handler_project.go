package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/obralink/procurement_backend/internal/apperrors"
	portssvc "github.com/obralink/procurement_backend/internal/core/ports/services"
	"github.com/obralink/procurement_backend/internal/dto"
	"github.com/obralink/procurement_backend/internal/middleware"
)

// projectHandler handles HTTP requests for projects and travel reports.
type projectHandler struct {
	projectService portssvc.ProjectSvcFacade
}

func newProjectHandler(projectService portssvc.ProjectSvcFacade) *projectHandler {
	return &projectHandler{projectService: projectService}
}

// registerProjectRoutes registers project and travel report routes.
func registerProjectRoutes(rg *gin.RouterGroup, projectService portssvc.ProjectSvcFacade) {
	h := newProjectHandler(projectService)
	projects := rg.Group("/projects")
	{
		projects.POST("", h.createProject)
		projects.GET("", h.listProjects)
		projects.GET("/:projectID", h.getProject)
	}
	travel := rg.Group("/travel-reports")
	{
		travel.POST("", h.createTravelReport)
		travel.POST("/:reportID/approve", h.approveTravelReport)
		travel.POST("/:reportID/reject", h.rejectTravelReport)
		travel.POST("/:reportID/cancel", h.cancelTravelReport)
	}
}

// createProject godoc
// @Summary Create a project
// @Description Creates a new active project
// @Tags projects
// @Accept  json
// @Produce  json
// @Param   project body dto.CreateProjectRequest true "Project to create"
// @Success 201 {object} dto.ProjectResponse "Created project"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 500 {object} map[string]string "Failed to create project"
// @Router /projects [post]
func (h *projectHandler) createProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createProject", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to create project in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	logger.Info("Project created successfully", slog.String("project_id", project.ProjectID))
	c.JSON(http.StatusCreated, dto.ToProjectResponse(project))
}

// getProject godoc
// @Summary Get a project
// @Tags projects
// @Produce  json
// @Param   projectID path string true "Project ID"
// @Success 200 {object} dto.ProjectResponse "Project"
// @Failure 404 {object} map[string]string "Project not found"
// @Failure 500 {object} map[string]string "Failed to retrieve project"
// @Router /projects/{projectID} [get]
func (h *projectHandler) getProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")

	project, err := h.projectService.GetProject(c.Request.Context(), projectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		logger.Error("Failed to get project from service", slog.String("error", err.Error()), slog.String("project_id", projectID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// listProjects godoc
// @Summary List projects
// @Tags projects
// @Produce  json
// @Success 200 {array} dto.ProjectResponse "All projects"
// @Failure 500 {object} map[string]string "Failed to list projects"
// @Router /projects [get]
func (h *projectHandler) listProjects(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	projects, err := h.projectService.ListProjects(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list projects from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list projects"})
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectResponses(projects))
}

// createTravelReport godoc
// @Summary File a travel expense report
// @Description Files a new travel expense report in PENDING_APPROVAL status
// @Tags travel-reports
// @Accept  json
// @Produce  json
// @Param   report body dto.CreateTravelReportRequest true "Travel report to file"
// @Success 201 {object} domain.TravelReport "Filed report"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 404 {object} map[string]string "Project not found"
// @Failure 500 {object} map[string]string "Failed to file travel report"
// @Router /travel-reports [post]
func (h *projectHandler) createTravelReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTravelReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createTravelReport", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	report, err := h.projectService.CreateTravelReport(c.Request.Context(), req, creatorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to file travel report", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to file travel report"})
		}
		return
	}

	logger.Info("Travel report filed successfully", slog.String("report_id", report.ReportID))
	c.JSON(http.StatusCreated, report)
}

// approveTravelReport godoc
// @Summary Approve a travel report
// @Description Approves a pending travel report, adding its amount to the project's travel spend
// @Tags travel-reports
// @Produce  json
// @Param   reportID path string true "Report ID"
// @Success 200 {object} map[string]string "Approved"
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 409 {object} map[string]string "Report not approvable"
// @Failure 500 {object} map[string]string "Failed to approve travel report"
// @Router /travel-reports/{reportID}/approve [post]
func (h *projectHandler) approveTravelReport(c *gin.Context) {
	h.changeReportStatus(c, "approve", h.projectService.ApproveTravelReport)
}

// rejectTravelReport godoc
// @Summary Reject a travel report
// @Description Rejects a travel report; an already approved one has its amount reversed
// @Tags travel-reports
// @Produce  json
// @Param   reportID path string true "Report ID"
// @Success 200 {object} map[string]string "Rejected"
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 409 {object} map[string]string "Report not rejectable"
// @Failure 500 {object} map[string]string "Failed to reject travel report"
// @Router /travel-reports/{reportID}/reject [post]
func (h *projectHandler) rejectTravelReport(c *gin.Context) {
	h.changeReportStatus(c, "reject", h.projectService.RejectTravelReport)
}

// cancelTravelReport godoc
// @Summary Cancel a travel report
// @Description Cancels a travel report, reversing its spend effect if it had been approved
// @Tags travel-reports
// @Produce  json
// @Param   reportID path string true "Report ID"
// @Success 200 {object} map[string]string "Cancelled"
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 409 {object} map[string]string "Report not cancellable"
// @Failure 500 {object} map[string]string "Failed to cancel travel report"
// @Router /travel-reports/{reportID}/cancel [post]
func (h *projectHandler) cancelTravelReport(c *gin.Context) {
	h.changeReportStatus(c, "cancel", h.projectService.CancelTravelReport)
}

func (h *projectHandler) changeReportStatus(c *gin.Context, action string, fn func(ctx context.Context, reportID, userID string) error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reportID := c.Param("reportID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := fn(c.Request.Context(), reportID, userID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Travel report not found"})
		case errors.Is(err, apperrors.ErrInvalidTransition):
			logger.Warn("Travel report status change refused",
				slog.String("report_id", reportID),
				slog.String("action", action))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to change travel report status",
				slog.String("error", err.Error()),
				slog.String("report_id", reportID),
				slog.String("action", action))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action + " travel report"})
		}
		return
	}

	logger.Info("Travel report status changed",
		slog.String("report_id", reportID),
		slog.String("action", action))
	c.JSON(http.StatusOK, gin.H{"status": action + "d"})
}
