package postgres

import (
	"context"
	"errors"
	"fmt"

	"upbolis-market/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderRepo implements ports.OrderRepository.
type OrderRepo struct {
	pool Pool
}

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(pool Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

const orderColumns = `id, buyer_id, total_amount, status, transaction_id, created_at`

// Create inserts an order within a transaction.
func (r *OrderRepo) Create(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	query := `INSERT INTO orders (id, buyer_id, total_amount, status, transaction_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		order.ID, order.BuyerID, order.TotalAmount, order.Status, order.TransactionID, order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateItem inserts an order line item within a transaction.
func (r *OrderRepo) CreateItem(ctx context.Context, tx pgx.Tx, item *domain.OrderItem) error {
	query := `INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, subtotal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// GetByID fetches an order. Returns nil, nil if absent.
func (r *OrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	o := &domain.Order{}
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&o.ID, &o.BuyerID, &o.TotalAmount, &o.Status, &o.TransactionID, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order by id: %w", err)
	}
	return o, nil
}

// ListByBuyerID returns a buyer's orders, newest first.
func (r *OrderRepo) ListByBuyerID(ctx context.Context, buyerID uuid.UUID) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE buyer_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, buyerID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.BuyerID, &o.TotalAmount, &o.Status, &o.TransactionID, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// ListItems returns an order's line items. Items of one order share the
// order's timestamp, so id breaks the tie to keep the result stable.
func (r *OrderRepo) ListItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	query := `SELECT id, order_id, product_id, quantity, unit_price, subtotal, created_at
		FROM order_items WHERE order_id = $1 ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity,
			&it.UnitPrice, &it.Subtotal, &it.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	return items, nil
}
