package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/obralink/procurement_backend/internal/apperrors"
	portssvc "github.com/obralink/procurement_backend/internal/core/ports/services"
	"github.com/obralink/procurement_backend/internal/dto"
	"github.com/obralink/procurement_backend/internal/middleware"
)

// reportingHandler handles HTTP requests for price and consumption reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvc
}

func newReportingHandler(reportingService portssvc.ReportingSvc) *reportingHandler {
	return &reportingHandler{reportingService: reportingService}
}

// registerReportingRoutes registers reporting routes under the given group.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvc) {
	h := newReportingHandler(reportingService)
	reports := rg.Group("/reports")
	{
		reports.GET("/items/:itemID/prices", h.getItemPriceMetrics)
		reports.GET("/items/:itemID/suppliers", h.getSupplierComparison)
		reports.GET("/price-variation", h.getPriceVariationReport)
		reports.GET("/projects/:projectID/consumption", h.getProjectConsumption)
		reports.GET("/projects/ranking", h.getProjectRanking)
	}
}

// parseDateParam parses an optional RFC3339 or date-only query parameter.
func parseDateParam(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, true
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " parameter"})
	return nil, false
}

// getItemPriceMetrics godoc
// @Summary Get item price metrics
// @Description Returns an item's purchase history with min, max, weighted average and last prices
// @Tags reports
// @Produce  json
// @Param   itemID path string true "Item ID"
// @Param   from query string false "Window start (RFC3339 or YYYY-MM-DD)"
// @Param   to query string false "Window end (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} dto.ItemPriceMetricsResponse "History and metrics"
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 500 {object} map[string]string "Failed to compute metrics"
// @Router /reports/items/{itemID}/prices [get]
func (h *reportingHandler) getItemPriceMetrics(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	itemID := c.Param("itemID")

	from, ok := parseDateParam(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateParam(c, "to")
	if !ok {
		return
	}

	resp, err := h.reportingService.GetItemPriceMetrics(c.Request.Context(), itemID, from, to)
	if err != nil {
		logger.Error("Failed to compute item price metrics", slog.String("error", err.Error()), slog.String("item_id", itemID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute metrics"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getSupplierComparison godoc
// @Summary Compare suppliers for an item
// @Description Groups an item's purchase history by supplier, best average price first
// @Tags reports
// @Produce  json
// @Param   itemID path string true "Item ID"
// @Success 200 {array} domain.SupplierPriceComparison "Per-supplier summaries"
// @Failure 500 {object} map[string]string "Failed to compute comparison"
// @Router /reports/items/{itemID}/suppliers [get]
func (h *reportingHandler) getSupplierComparison(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	itemID := c.Param("itemID")

	comparisons, err := h.reportingService.GetSupplierComparison(c.Request.Context(), itemID)
	if err != nil {
		logger.Error("Failed to compute supplier comparison", slog.String("error", err.Error()), slog.String("item_id", itemID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute comparison"})
		return
	}

	c.JSON(http.StatusOK, comparisons)
}

// getPriceVariationReport godoc
// @Summary Fleet-wide price variation report
// @Description Lists items bought at more than one unit price and the saving had everything been bought at the minimum
// @Tags reports
// @Produce  json
// @Param   from query string false "Window start (RFC3339 or YYYY-MM-DD)"
// @Param   to query string false "Window end (RFC3339 or YYYY-MM-DD)"
// @Param   minVariationPct query number false "Minimum variation percentage"
// @Param   minImpact query number false "Minimum savings impact"
// @Success 200 {object} domain.PriceVariationReport "Variation report"
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 500 {object} map[string]string "Failed to compute report"
// @Router /reports/price-variation [get]
func (h *reportingHandler) getPriceVariationReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.PriceVariationParams{}
	var ok bool
	if params.From, ok = parseDateParam(c, "from"); !ok {
		return
	}
	if params.To, ok = parseDateParam(c, "to"); !ok {
		return
	}
	if raw := c.Query("minVariationPct"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid minVariationPct parameter"})
			return
		}
		params.MinVariationPct = &d
	}
	if raw := c.Query("minImpact"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid minImpact parameter"})
			return
		}
		params.MinImpact = &d
	}

	report, err := h.reportingService.GetPriceVariationReport(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to compute price variation report", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// getProjectConsumption godoc
// @Summary Get project consumption report
// @Description Combines materials received, committed orders and travel spend for one project
// @Tags reports
// @Produce  json
// @Param   projectID path string true "Project ID"
// @Param   from query string false "Window start (RFC3339 or YYYY-MM-DD)"
// @Param   to query string false "Window end (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} domain.ProjectConsumptionReport "Consumption report"
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 404 {object} map[string]string "Project not found"
// @Failure 500 {object} map[string]string "Failed to compute report"
// @Router /reports/projects/{projectID}/consumption [get]
func (h *reportingHandler) getProjectConsumption(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")

	from, ok := parseDateParam(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateParam(c, "to")
	if !ok {
		return
	}

	report, err := h.reportingService.GetProjectConsumption(c.Request.Context(), projectID, from, to)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		logger.Error("Failed to compute project consumption", slog.String("error", err.Error()), slog.String("project_id", projectID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute report"})
		return
	}
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// getProjectRanking godoc
// @Summary Rank projects by projected spend
// @Description Computes spent, committed and projected totals for every project, highest projected first
// @Tags reports
// @Produce  json
// @Success 200 {array} domain.ProjectConsumptionSummary "Project ranking"
// @Failure 500 {object} map[string]string "Failed to compute ranking"
// @Router /reports/projects/ranking [get]
func (h *reportingHandler) getProjectRanking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summaries, err := h.reportingService.GetProjectRanking(c.Request.Context())
	if err != nil {
		logger.Error("Failed to compute project ranking", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute ranking"})
		return
	}

	c.JSON(http.StatusOK, summaries)
}
