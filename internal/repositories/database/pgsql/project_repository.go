package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/obralink/procurement_backend/internal/apperrors"
	"github.com/obralink/procurement_backend/internal/core/domain"
	portsrepo "github.com/obralink/procurement_backend/internal/core/ports/repositories"
	"github.com/obralink/procurement_backend/internal/models"
	"github.com/obralink/procurement_backend/internal/utils/mapping"
)

const projectColumns = `project_id, name, code, budget, travel_spent, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxProjectRepository struct {
	BaseRepository
}

// newPgxProjectRepository creates a new repository for project data.
func newPgxProjectRepository(pool *pgxpool.Pool) portsrepo.ProjectRepositoryWithTx {
	return &PgxProjectRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxProjectRepository implements portsrepo.ProjectRepositoryWithTx
var _ portsrepo.ProjectRepositoryWithTx = (*PgxProjectRepository)(nil)

// SaveProject persists a new project.
func (r *PgxProjectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	m := mapping.ToModelProject(project)
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ProjectID,
		m.Name,
		m.Code,
		m.Budget,
		m.TravelSpent,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert project "+m.ProjectID, err)
	}
	return nil
}

// FindProjectByID retrieves a project by id.
func (r *PgxProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	return r.scanProject(ctx, r.Pool, `SELECT `+projectColumns+` FROM projects WHERE project_id = $1;`, projectID)
}

// ListProjects retrieves all projects.
func (r *PgxProjectRepository) ListProjects(ctx context.Context) ([]domain.Project, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query projects", err)
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		m, err := scanProjectRow(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan project row", err)
		}
		projects = append(projects, mapping.ToDomainProject(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating project rows", err)
	}
	return projects, nil
}

// FindProjectForUpdate locks the project row within the transaction.
func (r *PgxProjectRepository) FindProjectForUpdate(ctx context.Context, tx pgx.Tx, projectID string) (*domain.Project, error) {
	return r.scanProject(ctx, tx, `SELECT `+projectColumns+` FROM projects WHERE project_id = $1 FOR UPDATE;`, projectID)
}

// ApplySpendAdjustmentInTx appends the signed adjustment and moves the travel
// spend counter. Both writes share the transaction; the caller holds the
// project row lock.
func (r *PgxProjectRepository) ApplySpendAdjustmentInTx(ctx context.Context, tx pgx.Tx, adjustment domain.SpendAdjustment) error {
	m := mapping.ToModelSpendAdjustment(adjustment)
	insertQuery := `
		INSERT INTO project_spend_adjustments (adjustment_id, project_id, travel_report_id, amount, reason, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := tx.Exec(ctx, insertQuery,
		m.AdjustmentID,
		m.ProjectID,
		m.TravelReportID,
		m.Amount,
		m.Reason,
		m.CreatedAt,
		m.CreatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert spend adjustment for project "+m.ProjectID, err)
	}

	counterQuery := `
		UPDATE projects
		SET travel_spent = travel_spent + $2, last_updated_at = $3, last_updated_by = $4
		WHERE project_id = $1;
	`
	tag, err := tx.Exec(ctx, counterQuery, m.ProjectID, m.Amount, m.CreatedAt, m.CreatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update travel spend for project "+m.ProjectID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListSpendAdjustments retrieves all adjustments for a project, oldest first.
func (r *PgxProjectRepository) ListSpendAdjustments(ctx context.Context, projectID string) ([]domain.SpendAdjustment, error) {
	query := `
		SELECT adjustment_id, project_id, travel_report_id, amount, reason, created_at, created_by
		FROM project_spend_adjustments
		WHERE project_id = $1
		ORDER BY created_at, adjustment_id;
	`
	rows, err := r.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query spend adjustments for project "+projectID, err)
	}
	defer rows.Close()

	adjustments := []domain.SpendAdjustment{}
	for rows.Next() {
		var m models.SpendAdjustment
		err := rows.Scan(
			&m.AdjustmentID,
			&m.ProjectID,
			&m.TravelReportID,
			&m.Amount,
			&m.Reason,
			&m.CreatedAt,
			&m.CreatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan spend adjustment row", err)
		}
		adjustments = append(adjustments, mapping.ToDomainSpendAdjustment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating spend adjustment rows", err)
	}
	return adjustments, nil
}

func (r *PgxProjectRepository) scanProject(ctx context.Context, q rowQuerier, query string, projectID string) (*domain.Project, error) {
	rows, err := q.Query(ctx, query, projectID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query project "+projectID, err)
	}
	m, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.Project, error) {
		return scanProjectRow(row)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan project "+projectID, err)
	}
	project := mapping.ToDomainProject(m)
	return &project, nil
}

func scanProjectRow(row pgx.Row) (models.Project, error) {
	var m models.Project
	err := row.Scan(
		&m.ProjectID,
		&m.Name,
		&m.Code,
		&m.Budget,
		&m.TravelSpent,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}
