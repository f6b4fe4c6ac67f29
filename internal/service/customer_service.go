package service

import (
	"context"

	"storefront-bot/internal/entity"
)

type CustomerService struct {
	customers CustomerRepo
}

// NewCustomerService creates a new instance of CustomerService.
func NewCustomerService(customers CustomerRepo) *CustomerService {
	return &CustomerService{customers: customers}
}

// Register upserts the platform identity on first interaction.
func (s *CustomerService) Register(ctx context.Context, customer entity.Customer) error {
	return s.customers.Upsert(ctx, &customer)
}

func (s *CustomerService) Get(ctx context.Context, userID int64) (*entity.Customer, error) {
	return s.customers.GetByID(ctx, userID)
}
