package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/obralink/procurement_backend/internal/core/ports/services"
	"github.com/obralink/procurement_backend/internal/middleware"
)

// reconciliationHandler exposes the ledger backfill endpoint.
type reconciliationHandler struct {
	reconcilerService portssvc.ReconcilerSvc
}

func newReconciliationHandler(reconcilerService portssvc.ReconcilerSvc) *reconciliationHandler {
	return &reconciliationHandler{reconcilerService: reconcilerService}
}

// registerReconciliationRoutes registers ledger reconciliation routes.
func registerReconciliationRoutes(rg *gin.RouterGroup, reconcilerService portssvc.ReconcilerSvc) {
	h := newReconciliationHandler(reconcilerService)
	rg.POST("/ledger/reconcile", h.reconcileAll)
}

// reconcileAll godoc
// @Summary Backfill the purchase ledger
// @Description Scans all received orders and creates any missing ledger entries. Safe to rerun; existing entries are skipped.
// @Tags ledger
// @Produce  json
// @Success 200 {object} dto.BackfillResult "Backfill outcome"
// @Failure 500 {object} map[string]string "Failed to reconcile ledger"
// @Router /ledger/reconcile [post]
func (h *reconciliationHandler) reconcileAll(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	result, err := h.reconcilerService.ReconcileAll(c.Request.Context())
	if err != nil {
		logger.Error("Failed to reconcile ledger", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reconcile ledger"})
		return
	}

	logger.Info("Ledger reconciliation finished",
		slog.Int("orders_processed", result.OrdersProcessed),
		slog.Int("entries_created", result.EntriesCreated),
		slog.Int("skipped", result.Skipped),
		slog.Int("errors", len(result.Errors)))
	c.JSON(http.StatusOK, result)
}
