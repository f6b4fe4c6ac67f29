package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-bot/internal/apperr"
	"storefront-bot/internal/entity"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db}
}

func (r *ProductRepository) GetByID(ctx context.Context, id int) (*entity.Product, error) {
	var product entity.Product

	query := `SELECT id, name, description, price, stock, is_active, category, min_order_qty FROM products WHERE id = ?`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID, &product.Name, &product.Description, &product.Price,
		&product.Stock, &product.IsActive, &product.Category, &product.MinOrderQty,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", id, apperr.ErrProductNotFound)
		}
		return nil, err
	}

	return &product, nil
}

func (r *ProductRepository) List(ctx context.Context, activeOnly bool) ([]*entity.Product, error) {
	query := `SELECT id, name, description, price, stock, is_active, category, min_order_qty FROM products`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		var product entity.Product
		err := rows.Scan(
			&product.ID, &product.Name, &product.Description, &product.Price,
			&product.Stock, &product.IsActive, &product.Category, &product.MinOrderQty,
		)
		if err != nil {
			return nil, err
		}
		products = append(products, &product)
	}

	return products, rows.Err()
}

func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	query := `INSERT INTO products (name, description, price, stock, is_active, category, min_order_qty) VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		product.Name, product.Description, product.Price, product.Stock,
		product.IsActive, product.Category, product.MinOrderQty,
	)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	product.ID = int(id)
	return product, nil
}

func (r *ProductRepository) SetActive(ctx context.Context, id int, active bool) error {
	query := `UPDATE products SET is_active = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("product %d: %w", id, apperr.ErrProductNotFound)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM products WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("product %d: %w", id, apperr.ErrProductNotFound)
	}
	return nil
}
