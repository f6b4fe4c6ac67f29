package service

import (
	"context"
	"fmt"

	"storefront-bot/internal/apperr"
	"storefront-bot/internal/entity"
	"storefront-bot/internal/notifier"
)

type AdminOrderService struct {
	orders    OrderRepo
	publisher notifier.Publisher
}

// NewAdminOrderService creates a new instance of AdminOrderService.
func NewAdminOrderService(orders OrderRepo, publisher notifier.Publisher) *AdminOrderService {
	return &AdminOrderService{orders: orders, publisher: publisher}
}

func (s *AdminOrderService) ListPending(ctx context.Context) ([]*entity.Order, error) {
	return s.orders.ListByStatus(ctx, entity.StatusPending)
}

func (s *AdminOrderService) Get(ctx context.Context, orderID int) (*entity.Order, error) {
	return s.orders.GetByID(ctx, orderID)
}

// Transition applies an admin action to an order. Exactly one customer
// notification goes out per successful status change; retrying an action the
// order already reflects is a silent no-op and does not notify again.
// Terminal orders reject every action.
func (s *AdminOrderService) Transition(ctx context.Context, orderID int, action entity.OrderAction) (*entity.Order, error) {
	target, ok := action.Target()
	if !ok {
		return nil, fmt.Errorf("action %q: %w", action, apperr.ErrInvalidTransition)
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == target {
		// Retried action: already there, nothing to do, nothing to notify.
		return order, nil
	}
	if order.Status.IsTerminal() {
		return nil, fmt.Errorf("order %d is %s: %w", orderID, order.Status, apperr.ErrTerminalStatus)
	}
	if !order.Status.CanTransition(target) {
		return nil, fmt.Errorf("%s -> %s: %w", order.Status, target, apperr.ErrInvalidTransition)
	}

	changed, err := s.orders.UpdateStatusFrom(ctx, orderID, order.Status, target)
	if err != nil {
		logger.Error().Err(err).Int("order_id", orderID).Msg("Error updating order status")
		return nil, err
	}
	if !changed {
		// Lost a race with another transition; report the fresh state.
		fresh, err := s.orders.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if fresh.Status == target {
			return fresh, nil
		}
		return nil, fmt.Errorf("%s -> %s: %w", fresh.Status, target, apperr.ErrInvalidTransition)
	}

	order.Status = target
	if err := s.publisher.Publish(ctx, notifier.StatusChanged(order)); err != nil {
		logger.Error().Err(err).Int("order_id", orderID).Msg("Error publishing status notice")
	}

	return order, nil
}
