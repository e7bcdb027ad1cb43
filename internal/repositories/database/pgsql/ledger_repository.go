package pgsql

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/obralink/procurement_backend/internal/apperrors"
	"github.com/obralink/procurement_backend/internal/core/domain"
	portsrepo "github.com/obralink/procurement_backend/internal/core/ports/repositories"
	"github.com/obralink/procurement_backend/internal/models"
	"github.com/obralink/procurement_backend/internal/utils/mapping"
)

const ledgerColumns = `entry_id, order_id, order_number, item_id, sku, item_name,
	supplier_id, supplier_name, quantity, unit_price, total_price, unit,
	entry_date, project_id, project_name, created_at`

// defaultInsertBatchSize caps one batch of ledger inserts.
const defaultInsertBatchSize = 400

type PgxLedgerRepository struct {
	BaseRepository
	batchSize int
}

// newPgxLedgerRepository creates a new repository for purchase ledger data.
func newPgxLedgerRepository(pool *pgxpool.Pool, batchSize int) portsrepo.LedgerRepositoryFacade {
	if batchSize <= 0 {
		batchSize = defaultInsertBatchSize
	}
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		batchSize:      batchSize,
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// InsertEntries appends entries in chunked batches. Each chunk commits on its
// own; on a mid-run failure the entries already flushed stay in place and the
// count of inserted entries is returned with the error.
func (r *PgxLedgerRepository) InsertEntries(ctx context.Context, entries []domain.LedgerEntry) (int, error) {
	query := `
		INSERT INTO ledger_entries (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	inserted := 0
	for start := 0; start < len(entries); start += r.batchSize {
		end := start + r.batchSize
		if end > len(entries) {
			end = len(entries)
		}
		chunk := entries[start:end]

		batch := &pgx.Batch{}
		for _, entry := range chunk {
			m := mapping.ToModelLedgerEntry(entry)
			batch.Queue(query,
				m.EntryID,
				m.OrderID,
				m.OrderNumber,
				m.ItemID,
				m.SKU,
				m.ItemName,
				m.SupplierID,
				m.SupplierName,
				m.Quantity,
				m.UnitPrice,
				m.TotalPrice,
				m.Unit,
				m.EntryDate,
				m.ProjectID,
				m.ProjectName,
				m.CreatedAt,
			)
		}
		br := r.Pool.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return inserted, apperrors.NewAppError(500, "failed to insert ledger entry batch", err)
		}
		inserted += len(chunk)
	}
	return inserted, nil
}

// FindEntriesByItemID retrieves all entries for one item within the window.
func (r *PgxLedgerRepository) FindEntriesByItemID(ctx context.Context, itemID string, window portsrepo.LedgerDateRange) ([]domain.LedgerEntry, error) {
	return r.findEntries(ctx, `item_id = $1`, itemID, window)
}

// FindEntriesByProjectID retrieves all entries attributed to a project by id.
func (r *PgxLedgerRepository) FindEntriesByProjectID(ctx context.Context, projectID string, window portsrepo.LedgerDateRange) ([]domain.LedgerEntry, error) {
	return r.findEntries(ctx, `project_id = $1`, projectID, window)
}

// FindEntriesByProjectName retrieves entries by denormalized project name.
func (r *PgxLedgerRepository) FindEntriesByProjectName(ctx context.Context, projectName string, window portsrepo.LedgerDateRange) ([]domain.LedgerEntry, error) {
	return r.findEntries(ctx, `project_name = $1`, projectName, window)
}

// ListAllEntries retrieves every entry within the window.
func (r *PgxLedgerRepository) ListAllEntries(ctx context.Context, window portsrepo.LedgerDateRange) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE 1=1`
	args := []interface{}{}
	query, args = appendWindow(query, args, window)
	query += ` ORDER BY entry_date, created_at;`

	return r.queryEntries(ctx, query, args)
}

// LoadKeySet loads the full set of existing (orderID, itemID) keys.
func (r *PgxLedgerRepository) LoadKeySet(ctx context.Context) (map[domain.LedgerKey]struct{}, error) {
	rows, err := r.Pool.Query(ctx, `SELECT order_id, item_id FROM ledger_entries;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger keys", err)
	}
	defer rows.Close()

	keys := make(map[domain.LedgerKey]struct{})
	for rows.Next() {
		var key domain.LedgerKey
		if err := rows.Scan(&key.OrderID, &key.ItemID); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger key row", err)
		}
		keys[key] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger key rows", err)
	}
	return keys, nil
}

// KeyExists checks a single deduplication key.
func (r *PgxLedgerRepository) KeyExists(ctx context.Context, key domain.LedgerKey) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM ledger_entries WHERE order_id = $1 AND item_id = $2);`,
		key.OrderID, key.ItemID,
	).Scan(&exists)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return false, apperrors.NewAppError(500, "failed to check ledger key", err)
	}
	return exists, nil
}

func (r *PgxLedgerRepository) findEntries(ctx context.Context, where string, arg string, window portsrepo.LedgerDateRange) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE ` + where
	args := []interface{}{arg}
	query, args = appendWindow(query, args, window)
	query += ` ORDER BY entry_date, created_at;`

	return r.queryEntries(ctx, query, args)
}

func appendWindow(query string, args []interface{}, window portsrepo.LedgerDateRange) (string, []interface{}) {
	if window.From != nil {
		args = append(args, *window.From)
		query += ` AND entry_date >= $` + strconv.Itoa(len(args))
	}
	if window.To != nil {
		args = append(args, *window.To)
		query += ` AND entry_date <= $` + strconv.Itoa(len(args))
	}
	return query, args
}

func (r *PgxLedgerRepository) queryEntries(ctx context.Context, query string, args []interface{}) ([]domain.LedgerEntry, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger entries", err)
	}
	defer rows.Close()

	entries := []models.LedgerEntry{}
	for rows.Next() {
		var m models.LedgerEntry
		err := rows.Scan(
			&m.EntryID,
			&m.OrderID,
			&m.OrderNumber,
			&m.ItemID,
			&m.SKU,
			&m.ItemName,
			&m.SupplierID,
			&m.SupplierName,
			&m.Quantity,
			&m.UnitPrice,
			&m.TotalPrice,
			&m.Unit,
			&m.EntryDate,
			&m.ProjectID,
			&m.ProjectName,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger entry row", err)
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger entry rows", err)
	}
	return mapping.ToDomainLedgerEntrySlice(entries), nil
}
