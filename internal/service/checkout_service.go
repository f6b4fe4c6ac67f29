package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-bot/internal/apperr"
	"storefront-bot/internal/entity"
	"storefront-bot/internal/notifier"
)

type CheckoutService struct {
	carts     CartRepo
	orders    OrderRepo
	customers CustomerRepo
	publisher notifier.Publisher
}

// NewCheckoutService creates a new instance of CheckoutService.
func NewCheckoutService(carts CartRepo, orders OrderRepo, customers CustomerRepo, publisher notifier.Publisher) *CheckoutService {
	return &CheckoutService{
		carts:     carts,
		orders:    orders,
		customers: customers,
		publisher: publisher,
	}
}

// DiscountAdvisory is the informational quote shown before a discount request.
type DiscountAdvisory struct {
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	Total         decimal.Decimal `json:"total"`
	TierPercent   int64           `json:"tier_percent"`
}

// Commit turns the cart into a pending order. Order and items are persisted
// as one unit before the cart is touched; if creation fails the cart stays
// intact for retry. The admin notification is fire-and-forget.
func (s *CheckoutService) Commit(ctx context.Context, customer entity.Customer, method entity.PaymentMethod, address string) (*entity.Order, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("payment method %q: %w", method, apperr.ErrInvalidPayment)
	}

	cart, err := s.carts.GetByUser(ctx, customer.UserID)
	if err != nil {
		return nil, err
	}
	if cart == nil || cart.IsEmpty() {
		return nil, apperr.ErrEmptyCart
	}

	customer.DeliveryAddress = address
	if err := s.customers.Upsert(ctx, &customer); err != nil {
		return nil, err
	}

	order := &entity.Order{
		Reference:       uuid.NewString(),
		CustomerID:      customer.UserID,
		Total:           cart.Total(),
		PaymentMethod:   method,
		DeliveryAddress: address,
		Status:          entity.StatusPending,
	}
	for _, l := range cart.Lines {
		order.Items = append(order.Items, entity.OrderItem{
			ProductID: l.ProductID,
			VariantID: l.VariantID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal(),
		})
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", customer.UserID).Msg("Error creating order")
		return nil, err
	}

	// Clear only after the order is durable. A failed clear leaves a stale
	// cart, never a lost order.
	if err := s.carts.Clear(ctx, customer.UserID); err != nil {
		logger.Error().Err(err).Int("order_id", created.ID).Msg("Error clearing cart after checkout")
	}

	if err := s.publisher.Publish(ctx, notifier.OrderCreated(created, &customer)); err != nil {
		logger.Error().Err(err).Int("order_id", created.ID).Msg("Error publishing order notice")
	}

	return created, nil
}

// RequestDiscount quotes the advisory tier for the user's cart. It fails when
// the cart does not reach the lowest tier; nothing is sent to admins yet.
func (s *CheckoutService) RequestDiscount(ctx context.Context, userID int64) (*DiscountAdvisory, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || cart.IsEmpty() {
		return nil, apperr.ErrEmptyCart
	}

	qty := cart.TotalQuantity()
	tier := DiscountTier(qty)
	if tier == 0 {
		return nil, fmt.Errorf("bulk discounts start at %s units: %w", discountTier1Qty.String(), apperr.ErrBelowMinimumQuantity)
	}

	return &DiscountAdvisory{
		TotalQuantity: qty,
		Total:         cart.Total(),
		TierPercent:   tier,
	}, nil
}

// ConfirmDiscountRequest sends the discount request to the admins. The tier
// stays advisory: the charged total is untouched until an admin negotiates.
func (s *CheckoutService) ConfirmDiscountRequest(ctx context.Context, customer entity.Customer) error {
	cart, err := s.carts.GetByUser(ctx, customer.UserID)
	if err != nil {
		return err
	}
	if cart == nil || cart.IsEmpty() {
		return apperr.ErrEmptyCart
	}

	tier := DiscountTier(cart.TotalQuantity())
	if tier == 0 {
		return fmt.Errorf("bulk discounts start at %s units: %w", discountTier1Qty.String(), apperr.ErrBelowMinimumQuantity)
	}

	if err := s.customers.Upsert(ctx, &customer); err != nil {
		return err
	}

	if err := s.publisher.Publish(ctx, notifier.DiscountRequested(&customer, cart, tier)); err != nil {
		logger.Error().Err(err).Int64("user_id", customer.UserID).Msg("Error publishing discount request")
		return fmt.Errorf("discount request not delivered: %w", err)
	}
	return nil
}
