package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/obralink/procurement_backend/internal/apperrors"
	"github.com/obralink/procurement_backend/internal/core/domain"
	portsrepo "github.com/obralink/procurement_backend/internal/core/ports/repositories"
)

type ReportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new repository for report aggregates.
func newReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &ReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure ReportingRepository implements portsrepo.ReportingRepository
var _ portsrepo.ReportingRepository = (*ReportingRepository)(nil)

// committedStatuses are the order statuses whose totals count as committed
// spend: approved but not yet delivered.
var committedStatuses = []string{
	string(domain.StatusApproved),
	string(domain.StatusSentToSupplier),
}

// SumCommittedOrderTotals sums order totals for one project over orders in a
// committed status.
func (r *ReportingRepository) SumCommittedOrderTotals(ctx context.Context, projectID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM purchase_orders
		WHERE project_id = $1 AND status = ANY($2);
	`
	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, projectID, committedStatuses).Scan(&total); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum committed orders for project "+projectID, err)
	}
	return total, nil
}

// SumCommittedOrderTotalsByProject computes committed order sums for all projects.
func (r *ReportingRepository) SumCommittedOrderTotalsByProject(ctx context.Context) (map[string]decimal.Decimal, error) {
	query := `
		SELECT project_id, COALESCE(SUM(total_amount), 0)
		FROM purchase_orders
		WHERE status = ANY($1) AND project_id <> ''
		GROUP BY project_id;
	`
	return r.sumByProject(ctx, query, committedStatuses)
}

// SumTravelReportTotals sums travel report totals for one project and status.
func (r *ReportingRepository) SumTravelReportTotals(ctx context.Context, projectID string, status domain.TravelReportStatus) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM travel_reports
		WHERE project_id = $1 AND status = $2;
	`
	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, projectID, string(status)).Scan(&total); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum travel reports for project "+projectID, err)
	}
	return total, nil
}

// SumTravelReportTotalsByProject computes travel report sums for all projects.
func (r *ReportingRepository) SumTravelReportTotalsByProject(ctx context.Context, status domain.TravelReportStatus) (map[string]decimal.Decimal, error) {
	query := `
		SELECT project_id, COALESCE(SUM(total_amount), 0)
		FROM travel_reports
		WHERE status = $1
		GROUP BY project_id;
	`
	return r.sumByProject(ctx, query, string(status))
}

func (r *ReportingRepository) sumByProject(ctx context.Context, query string, arg any) (map[string]decimal.Decimal, error) {
	rows, err := r.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query per-project sums", err)
	}
	defer rows.Close()

	sums := make(map[string]decimal.Decimal)
	for rows.Next() {
		var projectID string
		var total decimal.Decimal
		if err := rows.Scan(&projectID, &total); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan per-project sum row", err)
		}
		sums[projectID] = total
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating per-project sum rows", err)
	}
	return sums, nil
}
