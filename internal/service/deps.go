package service

import (
	"context"

	"storefront-bot/internal/entity"
)

// Repository boundaries the services depend on. The mysql implementations in
// internal/repository satisfy these; tests substitute in-memory fakes.

type ProductRepo interface {
	GetByID(ctx context.Context, id int) (*entity.Product, error)
	List(ctx context.Context, activeOnly bool) ([]*entity.Product, error)
	Create(ctx context.Context, product *entity.Product) (*entity.Product, error)
	SetActive(ctx context.Context, id int, active bool) error
	Delete(ctx context.Context, id int) error
}

type CartRepo interface {
	// GetByUser returns (nil, nil) when the user has no cart yet.
	GetByUser(ctx context.Context, userID int64) (*entity.Cart, error)
	// UpsertLine must be atomic: concurrent adds accumulate, never lose an update.
	UpsertLine(ctx context.Context, userID int64, line entity.CartLine) error
	Clear(ctx context.Context, userID int64) error
}

type OrderRepo interface {
	// Create persists the order, its items and stock decrements as one unit.
	Create(ctx context.Context, order *entity.Order) (*entity.Order, error)
	GetByID(ctx context.Context, id int) (*entity.Order, error)
	ListByStatus(ctx context.Context, status entity.OrderStatus) ([]*entity.Order, error)
	// UpdateStatusFrom reports false when the order was no longer in `from`.
	UpdateStatusFrom(ctx context.Context, id int, from, to entity.OrderStatus) (bool, error)
}

type CustomerRepo interface {
	Upsert(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, userID int64) (*entity.Customer, error)
}
