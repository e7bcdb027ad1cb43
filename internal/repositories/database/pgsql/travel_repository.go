package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/obralink/procurement_backend/internal/apperrors"
	"github.com/obralink/procurement_backend/internal/core/domain"
	portsrepo "github.com/obralink/procurement_backend/internal/core/ports/repositories"
	"github.com/obralink/procurement_backend/internal/models"
	"github.com/obralink/procurement_backend/internal/utils/mapping"
)

const travelColumns = `report_id, project_id, employee_id, description, status, total_amount,
	start_date, end_date, created_at, created_by, last_updated_at, last_updated_by`

type PgxTravelReportRepository struct {
	BaseRepository
}

// newPgxTravelReportRepository creates a new repository for travel report data.
func newPgxTravelReportRepository(pool *pgxpool.Pool) portsrepo.TravelReportRepositoryFacade {
	return &PgxTravelReportRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTravelReportRepository implements portsrepo.TravelReportRepositoryFacade
var _ portsrepo.TravelReportRepositoryFacade = (*PgxTravelReportRepository)(nil)

// SaveReport persists a new travel report.
func (r *PgxTravelReportRepository) SaveReport(ctx context.Context, report domain.TravelReport) error {
	m := mapping.ToModelTravelReport(report)
	query := `
		INSERT INTO travel_reports (` + travelColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ReportID,
		m.ProjectID,
		m.EmployeeID,
		m.Description,
		m.Status,
		m.TotalAmount,
		m.StartDate,
		m.EndDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert travel report "+m.ReportID, err)
	}
	return nil
}

// FindReportByID retrieves a travel report by id.
func (r *PgxTravelReportRepository) FindReportByID(ctx context.Context, reportID string) (*domain.TravelReport, error) {
	return r.scanReport(ctx, r.Pool, `SELECT `+travelColumns+` FROM travel_reports WHERE report_id = $1;`, reportID)
}

// ListReportsByProject retrieves reports for a project, optionally by status.
func (r *PgxTravelReportRepository) ListReportsByProject(ctx context.Context, projectID string, status *domain.TravelReportStatus) ([]domain.TravelReport, error) {
	query := `SELECT ` + travelColumns + ` FROM travel_reports WHERE project_id = $1`
	args := []interface{}{projectID}
	if status != nil {
		args = append(args, string(*status))
		query += ` AND status = $2`
	}
	query += ` ORDER BY created_at;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query travel reports for project "+projectID, err)
	}
	defer rows.Close()

	reports := []domain.TravelReport{}
	for rows.Next() {
		m, err := scanTravelReportRow(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan travel report row", err)
		}
		reports = append(reports, mapping.ToDomainTravelReport(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating travel report rows", err)
	}
	return reports, nil
}

// FindReportForUpdate locks the report row within the transaction.
func (r *PgxTravelReportRepository) FindReportForUpdate(ctx context.Context, tx pgx.Tx, reportID string) (*domain.TravelReport, error) {
	return r.scanReport(ctx, tx, `SELECT `+travelColumns+` FROM travel_reports WHERE report_id = $1 FOR UPDATE;`, reportID)
}

// UpdateReportStatusInTx writes the new status on a locked report row.
func (r *PgxTravelReportRepository) UpdateReportStatusInTx(ctx context.Context, tx pgx.Tx, reportID string, status domain.TravelReportStatus, userID string, now time.Time) error {
	query := `
		UPDATE travel_reports
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE report_id = $1;
	`
	tag, err := tx.Exec(ctx, query, reportID, string(status), now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of travel report "+reportID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTravelReportRepository) scanReport(ctx context.Context, q rowQuerier, query string, reportID string) (*domain.TravelReport, error) {
	rows, err := q.Query(ctx, query, reportID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query travel report "+reportID, err)
	}
	m, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.TravelReport, error) {
		return scanTravelReportRow(row)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan travel report "+reportID, err)
	}
	report := mapping.ToDomainTravelReport(m)
	return &report, nil
}

func scanTravelReportRow(row pgx.Row) (models.TravelReport, error) {
	var m models.TravelReport
	err := row.Scan(
		&m.ReportID,
		&m.ProjectID,
		&m.EmployeeID,
		&m.Description,
		&m.Status,
		&m.TotalAmount,
		&m.StartDate,
		&m.EndDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}
