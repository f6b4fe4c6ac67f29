package repository

import (
	"context"
	"database/sql"
	"errors"

	"storefront-bot/internal/entity"
)

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db}
}

// Upsert creates or refreshes a customer identity. Name and username follow
// the platform profile; the delivery address is only overwritten when a new
// non-empty value is supplied, so it fills in progressively.
func (r *CustomerRepository) Upsert(ctx context.Context, customer *entity.Customer) error {
	query := `
		INSERT INTO customers (user_id, first_name, username, delivery_address)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			first_name = VALUES(first_name),
			username = VALUES(username),
			delivery_address = IF(VALUES(delivery_address) = '', delivery_address, VALUES(delivery_address))`
	_, err := r.db.ExecContext(ctx, query,
		customer.UserID, customer.FirstName, customer.Username, customer.DeliveryAddress,
	)
	return err
}

func (r *CustomerRepository) GetByID(ctx context.Context, userID int64) (*entity.Customer, error) {
	var customer entity.Customer

	query := `SELECT user_id, first_name, username, delivery_address FROM customers WHERE user_id = ?`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&customer.UserID, &customer.FirstName, &customer.Username, &customer.DeliveryAddress,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &customer, nil
}
