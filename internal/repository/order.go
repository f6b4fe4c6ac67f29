package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront-bot/internal/apperr"
	"storefront-bot/internal/entity"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db}
}

// Create persists the order, its items and the matching stock decrements in
// one transaction. Either everything lands or nothing does: a partial order
// (order row without lines, or lines without stock movement) can never be
// observed. Returns ErrInsufficientStock when any product no longer covers
// the ordered quantity.
func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	if len(order.Items) == 0 {
		return nil, fmt.Errorf("order without items: %w", apperr.ErrEmptyCart)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	orderQuery := `
		INSERT INTO orders (reference, customer_id, total, payment_method, delivery_address, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, orderQuery,
		order.Reference, order.CustomerID, order.Total, order.PaymentMethod,
		order.DeliveryAddress, order.Status, now, now,
	)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// Insert order items with batch
	itemQuery := `
		INSERT INTO order_items (order_id, product_id, variant_id, name, unit_price, quantity, line_total)
		VALUES `

	var values []interface{}
	for _, item := range order.Items {
		itemQuery += "(?, ?, ?, ?, ?, ?, ?),"
		values = append(values, orderID, item.ProductID, item.VariantID, item.Name, item.UnitPrice, item.Quantity, item.LineTotal)
	}
	itemQuery = itemQuery[:len(itemQuery)-1]

	_, err = tx.ExecContext(ctx, itemQuery, values...)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// Decrement stock inside the same transaction, guarded so a concurrent
	// checkout cannot drive stock negative.
	stockQuery := `UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?`
	for _, item := range order.Items {
		res, err := tx.ExecContext(ctx, stockQuery, item.Quantity, item.ProductID, item.Quantity)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if affected == 0 {
			tx.Rollback()
			return nil, fmt.Errorf("product %d: %w", item.ProductID, apperr.ErrInsufficientStock)
		}
	}

	err = tx.Commit()
	if err != nil {
		return nil, err
	}

	order.ID = int(orderID)
	order.CreatedAt = now
	order.UpdatedAt = now
	return order, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int) (*entity.Order, error) {
	orderQuery := `
		SELECT id, reference, customer_id, total, payment_method, delivery_address, status, created_at, updated_at
		FROM orders WHERE id = ?`

	order := &entity.Order{}
	err := r.db.QueryRowContext(ctx, orderQuery, id).Scan(
		&order.ID, &order.Reference, &order.CustomerID, &order.Total,
		&order.PaymentMethod, &order.DeliveryAddress, &order.Status,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("order %d: %w", id, apperr.ErrOrderNotFound)
		}
		return nil, err
	}

	itemQuery := `
		SELECT id, order_id, product_id, variant_id, name, unit_price, quantity, line_total
		FROM order_items WHERE order_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, itemQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item entity.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.VariantID,
			&item.Name, &item.UnitPrice, &item.Quantity, &item.LineTotal)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	return order, rows.Err()
}

func (r *OrderRepository) ListByStatus(ctx context.Context, status entity.OrderStatus) ([]*entity.Order, error) {
	query := `
		SELECT id, reference, customer_id, total, payment_method, delivery_address, status, created_at, updated_at
		FROM orders WHERE status = ? ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		order := &entity.Order{}
		err := rows.Scan(
			&order.ID, &order.Reference, &order.CustomerID, &order.Total,
			&order.PaymentMethod, &order.DeliveryAddress, &order.Status,
			&order.CreatedAt, &order.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

// UpdateStatusFrom flips the status only when the order is still in the
// expected source status. The conditional write is the transition guard: a
// retried or racing transition affects zero rows instead of overwriting.
func (r *OrderRepository) UpdateStatusFrom(ctx context.Context, id int, from, to entity.OrderStatus) (bool, error) {
	query := `UPDATE orders SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, query, to, time.Now().UTC(), id, from)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
