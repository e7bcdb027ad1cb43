package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/obralink/procurement_backend/internal/apperrors"
	"github.com/obralink/procurement_backend/internal/core/domain"
	portsrepo "github.com/obralink/procurement_backend/internal/core/ports/repositories"
	"github.com/obralink/procurement_backend/internal/models"
	"github.com/obralink/procurement_backend/internal/utils/mapping"
	"github.com/obralink/procurement_backend/internal/utils/pagination"
)

const orderColumns = `order_id, order_number, project_id, project_name, supplier_id, supplier_name,
	delivery_location, status, estimated_delivery_date, total_amount, rejection_reason, origin_order_id,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxOrderRepository struct {
	BaseRepository
}

// newPgxOrderRepository creates a new repository for purchase order data.
func newPgxOrderRepository(pool *pgxpool.Pool) portsrepo.OrderRepositoryWithTx {
	return &PgxOrderRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxOrderRepository implements portsrepo.OrderRepositoryWithTx
var _ portsrepo.OrderRepositoryWithTx = (*PgxOrderRepository)(nil)

// rowQuerier is satisfied by both the pool and a transaction.
type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SaveOrder persists a new order with its lines and seed history entry in one
// transaction.
func (r *PgxOrderRepository) SaveOrder(ctx context.Context, order domain.PurchaseOrder) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelOrder := mapping.ToModelPurchaseOrder(order)
	orderQuery := `
		INSERT INTO purchase_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err = tx.Exec(ctx, orderQuery,
		modelOrder.OrderID,
		modelOrder.OrderNumber,
		modelOrder.ProjectID,
		modelOrder.ProjectName,
		modelOrder.SupplierID,
		modelOrder.SupplierName,
		modelOrder.DeliveryLocation,
		modelOrder.Status,
		modelOrder.EstimatedDeliveryDate,
		modelOrder.TotalAmount,
		modelOrder.RejectionReason,
		modelOrder.OriginOrderID,
		modelOrder.CreatedAt,
		modelOrder.CreatedBy,
		modelOrder.LastUpdatedAt,
		modelOrder.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert order "+modelOrder.OrderID, err)
	}

	if err := r.insertItems(ctx, tx, order.OrderID, order.Items); err != nil {
		return err
	}

	for _, entry := range order.StatusHistory {
		if err := r.AppendStatusHistoryInTx(ctx, tx, order.OrderID, entry); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// UpdateOrder replaces an order's editable fields and lines. Lines are
// replaced wholesale; only pending orders reach this path, so no received
// quantities are lost.
func (r *PgxOrderRepository) UpdateOrder(ctx context.Context, order domain.PurchaseOrder) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelOrder := mapping.ToModelPurchaseOrder(order)
	query := `
		UPDATE purchase_orders
		SET project_id = $2, project_name = $3, supplier_id = $4, supplier_name = $5,
		    delivery_location = $6, estimated_delivery_date = $7, total_amount = $8,
		    last_updated_at = $9, last_updated_by = $10
		WHERE order_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		modelOrder.OrderID,
		modelOrder.ProjectID,
		modelOrder.ProjectName,
		modelOrder.SupplierID,
		modelOrder.SupplierName,
		modelOrder.DeliveryLocation,
		modelOrder.EstimatedDeliveryDate,
		modelOrder.TotalAmount,
		modelOrder.LastUpdatedAt,
		modelOrder.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update order "+order.OrderID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM purchase_order_items WHERE order_id = $1;`, order.OrderID); err != nil {
		return apperrors.NewAppError(500, "failed to clear lines of order "+order.OrderID, err)
	}
	if err := r.insertItems(ctx, tx, order.OrderID, order.Items); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// DeleteOrder removes an order with its lines and history.
func (r *PgxOrderRepository) DeleteOrder(ctx context.Context, orderID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM order_status_history WHERE order_id = $1;`, orderID); err != nil {
		return apperrors.NewAppError(500, "failed to delete history of order "+orderID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM purchase_order_items WHERE order_id = $1;`, orderID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines of order "+orderID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM purchase_orders WHERE order_id = $1;`, orderID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete order "+orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// FindOrderByID retrieves an order with its lines and status history.
func (r *PgxOrderRepository) FindOrderByID(ctx context.Context, orderID string) (*domain.PurchaseOrder, error) {
	order, err := r.scanOrder(ctx, r.Pool, `SELECT `+orderColumns+` FROM purchase_orders WHERE order_id = $1;`, orderID)
	if err != nil {
		return nil, err
	}

	items, err := r.findItems(ctx, r.Pool, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	history, err := r.findHistory(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.StatusHistory = history

	return order, nil
}

// ListOrders retrieves a paginated list of orders using token-based pagination.
func (r *PgxOrderRepository) ListOrders(ctx context.Context, filter portsrepo.OrderListFilter, limit int, nextToken *string) ([]domain.PurchaseOrder, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to decide whether a next page exists.
	fetchLimit := limit + 1

	query := `SELECT ` + orderColumns + ` FROM purchase_orders WHERE 1=1`
	args := []interface{}{}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		query += ` AND project_id = $` + strconv.Itoa(len(args))
	}
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastOrderID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt, lastOrderID)
		query += ` AND (created_at, order_id) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY created_at DESC, order_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query orders", err)
	}
	defer rows.Close()

	modelOrders := []models.PurchaseOrder{}
	for rows.Next() {
		m, err := scanOrderRow(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan order row", err)
		}
		modelOrders = append(modelOrders, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating order rows", err)
	}

	var newNextToken *string
	if len(modelOrders) == fetchLimit {
		modelOrders = modelOrders[:limit]
		last := modelOrders[len(modelOrders)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.OrderID)
		newNextToken = &token
	}

	orders := make([]domain.PurchaseOrder, len(modelOrders))
	for i, m := range modelOrders {
		orders[i] = mapping.ToDomainPurchaseOrder(m)
	}
	return orders, newNextToken, nil
}

// ListOrdersByStatuses retrieves all orders in any of the given statuses,
// lines included. History is not loaded; the backfill has no use for it.
func (r *PgxOrderRepository) ListOrdersByStatuses(ctx context.Context, statuses []domain.OrderStatus) ([]domain.PurchaseOrder, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	statusStrs := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrs[i] = string(s)
	}

	query := `SELECT ` + orderColumns + ` FROM purchase_orders WHERE status = ANY($1) ORDER BY created_at;`
	rows, err := r.Pool.Query(ctx, query, statusStrs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query orders by status", err)
	}
	defer rows.Close()

	modelOrders := []models.PurchaseOrder{}
	for rows.Next() {
		m, err := scanOrderRow(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan order row", err)
		}
		modelOrders = append(modelOrders, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating order rows", err)
	}

	orders := make([]domain.PurchaseOrder, len(modelOrders))
	for i, m := range modelOrders {
		order := mapping.ToDomainPurchaseOrder(m)
		items, err := r.findItems(ctx, r.Pool, m.OrderID)
		if err != nil {
			return nil, err
		}
		order.Items = items
		orders[i] = order
	}
	return orders, nil
}

// FindOrderForUpdate loads an order with its lines and locks the order row
// within the transaction.
func (r *PgxOrderRepository) FindOrderForUpdate(ctx context.Context, tx pgx.Tx, orderID string) (*domain.PurchaseOrder, error) {
	order, err := r.scanOrder(ctx, tx, `SELECT `+orderColumns+` FROM purchase_orders WHERE order_id = $1 FOR UPDATE;`, orderID)
	if err != nil {
		return nil, err
	}
	items, err := r.findItems(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

// UpdateOrderStatusInTx writes the new status on a locked order row.
func (r *PgxOrderRepository) UpdateOrderStatusInTx(ctx context.Context, tx pgx.Tx, orderID string, status domain.OrderStatus, rejectionReason *string, userID string, now time.Time) error {
	query := `
		UPDATE purchase_orders
		SET status = $2, rejection_reason = $3, last_updated_at = $4, last_updated_by = $5
		WHERE order_id = $1;
	`
	tag, err := tx.Exec(ctx, query, orderID, string(status), rejectionReason, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of order "+orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AppendStatusHistoryInTx appends one history entry for the order. The
// display order is derived from the current maximum so entries sharing a
// timestamp keep their append order.
func (r *PgxOrderRepository) AppendStatusHistoryInTx(ctx context.Context, tx pgx.Tx, orderID string, entry domain.StatusHistoryEntry) error {
	query := `
		INSERT INTO order_status_history (order_id, status, changed_at, comment, changed_by, display_order)
		VALUES ($1, $2, $3, $4, $5,
			(SELECT COALESCE(MAX(display_order), 0) + 1 FROM order_status_history WHERE order_id = $1));
	`
	_, err := tx.Exec(ctx, query, orderID, string(entry.Status), entry.Timestamp, entry.Comment, entry.ChangedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to append status history for order "+orderID, err)
	}
	return nil
}

// UpdateReceivedQuantitiesInTx increments line received quantities.
func (r *PgxOrderRepository) UpdateReceivedQuantitiesInTx(ctx context.Context, tx pgx.Tx, orderID string, lines []domain.ReceivedLine, userID string, now time.Time) error {
	batch := &pgx.Batch{}
	query := `
		UPDATE purchase_order_items
		SET received_quantity = received_quantity + $3
		WHERE order_id = $1 AND item_id = $2;
	`
	for _, line := range lines {
		batch.Queue(query, orderID, line.ItemID, line.Quantity)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to update received quantities for order "+orderID, err)
	}

	touch := `UPDATE purchase_orders SET last_updated_at = $2, last_updated_by = $3 WHERE order_id = $1;`
	if _, err := tx.Exec(ctx, touch, orderID, now, userID); err != nil {
		return apperrors.NewAppError(500, "failed to touch order "+orderID, err)
	}
	return nil
}

func (r *PgxOrderRepository) insertItems(ctx context.Context, tx pgx.Tx, orderID string, items []domain.PurchaseOrderItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO purchase_order_items (line_id, order_id, item_id, sku, name, quantity, unit_price, unit, line_type, received_quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, item := range items {
		m := mapping.ToModelOrderItem(orderID, item)
		batch.Queue(query,
			m.LineID,
			m.OrderID,
			m.ItemID,
			m.SKU,
			m.Name,
			m.Quantity,
			m.UnitPrice,
			m.Unit,
			string(m.LineType),
			m.ReceivedQuantity,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines of order "+orderID, err)
	}
	return nil
}

func (r *PgxOrderRepository) scanOrder(ctx context.Context, q rowQuerier, query string, orderID string) (*domain.PurchaseOrder, error) {
	rows, err := q.Query(ctx, query, orderID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query order "+orderID, err)
	}
	m, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.PurchaseOrder, error) {
		return scanOrderRow(row)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan order "+orderID, err)
	}
	order := mapping.ToDomainPurchaseOrder(m)
	return &order, nil
}

func scanOrderRow(row pgx.Row) (models.PurchaseOrder, error) {
	var m models.PurchaseOrder
	err := row.Scan(
		&m.OrderID,
		&m.OrderNumber,
		&m.ProjectID,
		&m.ProjectName,
		&m.SupplierID,
		&m.SupplierName,
		&m.DeliveryLocation,
		&m.Status,
		&m.EstimatedDeliveryDate,
		&m.TotalAmount,
		&m.RejectionReason,
		&m.OriginOrderID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxOrderRepository) findItems(ctx context.Context, q rowQuerier, orderID string) ([]domain.PurchaseOrderItem, error) {
	query := `
		SELECT line_id, order_id, item_id, sku, name, quantity, unit_price, unit, line_type, received_quantity
		FROM purchase_order_items
		WHERE order_id = $1
		ORDER BY line_id;
	`
	rows, err := q.Query(ctx, query, orderID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines of order "+orderID, err)
	}
	defer rows.Close()

	items := []models.PurchaseOrderItem{}
	for rows.Next() {
		var m models.PurchaseOrderItem
		err := rows.Scan(
			&m.LineID,
			&m.OrderID,
			&m.ItemID,
			&m.SKU,
			&m.Name,
			&m.Quantity,
			&m.UnitPrice,
			&m.Unit,
			&m.LineType,
			&m.ReceivedQuantity,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for order "+orderID, err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for order "+orderID, err)
	}
	return mapping.ToDomainOrderItemSlice(items), nil
}

func (r *PgxOrderRepository) findHistory(ctx context.Context, orderID string) ([]domain.StatusHistoryEntry, error) {
	query := `
		SELECT order_id, status, changed_at, comment, changed_by, display_order
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY changed_at, display_order;
	`
	rows, err := r.Pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query history of order "+orderID, err)
	}
	defer rows.Close()

	entries := []models.StatusHistoryEntry{}
	for rows.Next() {
		var m models.StatusHistoryEntry
		if err := rows.Scan(&m.OrderID, &m.Status, &m.Timestamp, &m.Comment, &m.ChangedBy, &m.DisplayOrder); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan history row for order "+orderID, err)
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating history rows for order "+orderID, err)
	}
	return mapping.ToDomainHistorySlice(entries), nil
}
