package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel"

	"github.com/storeline/checkout/internal/domain"
)

var tracer = otel.Tracer("orders/repository")

const defaultPageLimit = 50

// Repository bridges the Order aggregate and its two-table relational
// representation: one row per order, one row per item keyed by the item's
// own id.
type Repository struct {
	db        *sql.DB
	pageLimit int
}

type Option func(*Repository)

// WithPageLimit caps how many orders FindAll loads in one call.
func WithPageLimit(limit int) Option {
	return func(r *Repository) {
		if limit > 0 {
			r.pageLimit = limit
		}
	}
}

func NewRepository(db *sql.DB, opts ...Option) *Repository {
	r := &Repository{db: db, pageLimit: defaultPageLimit}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create persists the order row and all its item rows in one transaction.
// The stored total is recomputed from the aggregate, never taken from the
// caller.
func (r *Repository) Create(ctx context.Context, order *domain.Order) error {
	ctx, span := tracer.Start(ctx, "OrderRepository.Create")
	defer span.End()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, total)
		VALUES ($1, $2, $3)
	`, order.ID, order.CustomerID, order.Total())
	if err != nil {
		return err
	}

	for _, row := range itemRowsFromOrder(order) {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, name, price, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, row.ID, order.ID, row.ProductID, row.Name, row.Price, row.Quantity)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Update reconciles the aggregate's items against the persisted rows by
// item id. Rows that already exist keep their persisted fields and only
// have their association to this order re-affirmed; missing ones are
// inserted; rows no longer present in the aggregate are deleted. The order
// total is rewritten from the aggregate. Everything runs in a single
// transaction.
//
// The existing-row lookup is by item id alone, so an id collision with an
// item belonging to a different order steals that row.
func (r *Repository) Update(ctx context.Context, order *domain.Order) error {
	ctx, span := tracer.Start(ctx, "OrderRepository.Update")
	defer span.End()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	rows := itemRowsFromOrder(order)
	keep := make([]string, 0, len(rows))
	for _, row := range rows {
		var existingID string
		err := tx.QueryRowContext(ctx, `
			SELECT id FROM order_items WHERE id = $1
		`, row.ID).Scan(&existingID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			_, err = tx.ExecContext(ctx, `
				INSERT INTO order_items (id, order_id, product_id, name, price, quantity)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, row.ID, order.ID, row.ProductID, row.Name, row.Price, row.Quantity)
			if err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			_, err = tx.ExecContext(ctx, `
				UPDATE order_items SET order_id = $1 WHERE id = $2
			`, order.ID, row.ID)
			if err != nil {
				return err
			}
		}
		keep = append(keep, row.ID)
	}

	// Items dropped from the aggregate are hard-deleted, not orphaned.
	_, err = tx.ExecContext(ctx, `
		DELETE FROM order_items WHERE order_id = $1 AND NOT (id = ANY($2))
	`, order.ID, pq.Array(keep))
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE orders SET total = $1 WHERE id = $2
	`, order.Total(), order.ID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("order %s: %w", order.ID, domain.ErrOrderNotFound)
	}

	return tx.Commit()
}

// Find loads the order row and its items and reconstructs the aggregate.
// A missing id yields domain.ErrOrderNotFound.
func (r *Repository) Find(ctx context.Context, id string) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderRepository.Find")
	defer span.End()

	var row orderRow
	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, total
		FROM orders
		WHERE id = $1
	`, id).Scan(&row.ID, &row.CustomerID, &row.Total)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", id, domain.ErrOrderNotFound)
	}
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}

	return orderFromRows(row, items)
}

// FindAll loads one page of orders, items eagerly included, and
// reconstructs each aggregate the same way Find does.
func (r *Repository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderRepository.FindAll")
	defer span.End()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_id, total
		FROM orders
		ORDER BY id
		LIMIT $1
	`, r.pageLimit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var orderRows []orderRow
	var orderIDs []string
	for rows.Next() {
		var row orderRow
		if err := rows.Scan(&row.ID, &row.CustomerID, &row.Total); err != nil {
			return nil, err
		}
		orderRows = append(orderRows, row)
		orderIDs = append(orderIDs, row.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(orderIDs) == 0 {
		return []*domain.Order{}, nil
	}

	itemsByOrder := make(map[string][]itemRow)
	itemRows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, name, price, quantity
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer func() { _ = itemRows.Close() }()

	for itemRows.Next() {
		var orderID string
		var row itemRow
		if err := itemRows.Scan(&row.ID, &orderID, &row.ProductID, &row.Name, &row.Price, &row.Quantity); err != nil {
			return nil, err
		}
		itemsByOrder[orderID] = append(itemsByOrder[orderID], row)
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	orders := make([]*domain.Order, 0, len(orderRows))
	for _, row := range orderRows {
		order, err := orderFromRows(row, itemsByOrder[row.ID])
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, nil
}

func (r *Repository) loadItems(ctx context.Context, orderID string) ([]itemRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, name, price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []itemRow
	for rows.Next() {
		var row itemRow
		if err := rows.Scan(&row.ID, &row.ProductID, &row.Name, &row.Price, &row.Quantity); err != nil {
			return nil, err
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
