package services

import (
	"context"
	"log/slog"

	"github.com/obralink/procurement_backend/internal/core/domain"
	portssvc "github.com/obralink/procurement_backend/internal/core/ports/services"
)

// logNotifier is the default ApprovalNotifier. It only logs; deployments that
// integrate a mail or messaging provider supply their own implementation.
type logNotifier struct {
	BaseService
}

// NewLogNotifier creates an ApprovalNotifier that records approvals in the log.
func NewLogNotifier() portssvc.ApprovalNotifier {
	return &logNotifier{}
}

var _ portssvc.ApprovalNotifier = (*logNotifier)(nil)

func (n *logNotifier) NotifyOrderApproved(ctx context.Context, order *domain.PurchaseOrder) error {
	n.GetLogger(ctx).Info("Order approved, supplier notification queued",
		slog.String("order_id", order.OrderID),
		slog.String("order_number", order.OrderNumber),
		slog.String("supplier_name", order.SupplierName))
	return nil
}
