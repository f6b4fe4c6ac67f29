package repository

import (
	"context"
	"database/sql"
	"time"

	"storefront-bot/internal/entity"
)

type CartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db}
}

// GetByUser loads a user's cart with its lines in insertion order. It returns
// (nil, nil) when the user has never had a cart, which callers use to tell
// "no cart yet" apart from "cart exists but has zero lines".
func (r *CartRepository) GetByUser(ctx context.Context, userID int64) (*entity.Cart, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM carts WHERE user_id = ?`, userID).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	query := `
		SELECT product_id, variant_id, name, unit_price, quantity, added_at
		FROM cart_items WHERE user_id = ? ORDER BY added_at, id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cart := &entity.Cart{UserID: userID}
	for rows.Next() {
		var line entity.CartLine
		err := rows.Scan(&line.ProductID, &line.VariantID, &line.Name, &line.UnitPrice, &line.Quantity, &line.AddedAt)
		if err != nil {
			return nil, err
		}
		cart.Lines = append(cart.Lines, line)
	}

	return cart, rows.Err()
}

// UpsertLine adds a line or increases the quantity of the matching
// product+variant line in a single statement. Quantities accumulate on the
// server side, so two rapid adds never lose an update; the unit price of an
// existing line is left untouched (add-time snapshot wins).
func (r *CartRepository) UpsertLine(ctx context.Context, userID int64, line entity.CartLine) error {
	if err := r.ensureCart(ctx, userID); err != nil {
		return err
	}

	query := `
		INSERT INTO cart_items (user_id, product_id, variant_id, name, unit_price, quantity, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`
	_, err := r.db.ExecContext(ctx, query,
		userID, line.ProductID, line.VariantID, line.Name, line.UnitPrice, line.Quantity, line.AddedAt,
	)
	return err
}

// Clear removes all lines but keeps the cart row, so cart identity persists
// for repeat customers. Clearing an already-empty cart is a no-op.
func (r *CartRepository) Clear(ctx context.Context, userID int64) error {
	if err := r.ensureCart(ctx, userID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ?`, userID)
	return err
}

func (r *CartRepository) ensureCart(ctx context.Context, userID int64) error {
	query := `INSERT IGNORE INTO carts (user_id, created_at) VALUES (?, ?)`
	_, err := r.db.ExecContext(ctx, query, userID, time.Now().UTC())
	return err
}
