package service

import (
	"context"
	"fmt"
	"time"

	"tableside/internal/domain"
)

type OrderService struct {
	orders       OrderRepository
	menu         MenuRepository
	paymentDelay time.Duration
}

func NewOrderService(orders OrderRepository, menu MenuRepository, paymentDelay time.Duration) *OrderService {
	return &OrderService{
		orders:       orders,
		menu:         menu,
		paymentDelay: paymentDelay,
	}
}

// Create checks out a cart into a new order. The total is computed here from
// the submitted line snapshots; a client-submitted total is ignored. Orders
// always start in PENDING_PAYMENT.
func (s *OrderService) Create(ctx context.Context, order *domain.Order) error {
	if len(order.Lines) == 0 {
		return fmt.Errorf("%w: order has no lines", domain.ErrValidation)
	}
	for _, line := range order.Lines {
		if line.MenuItemID <= 0 {
			return fmt.Errorf("%w: line has no menu item", domain.ErrValidation)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("%w: line quantity must be positive", domain.ErrValidation)
		}
		if line.Price < 0 {
			return fmt.Errorf("%w: line price must not be negative", domain.ErrValidation)
		}
	}

	rest, err := s.menu.GetRestaurant(ctx, order.RestaurantID)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: unresolvable restaurant %d", domain.ErrValidation, order.RestaurantID)
		}
		return err
	}
	if err := validTable(order.TableID, rest.TableCount); err != nil {
		return err
	}

	ids := make([]int, 0, len(order.Lines))
	for _, line := range order.Lines {
		ids = append(ids, line.MenuItemID)
	}
	items, err := s.menu.GetMenuItems(ctx, order.RestaurantID, ids)
	if err != nil {
		return err
	}
	for i, line := range order.Lines {
		item, ok := items[line.MenuItemID]
		if !ok {
			return fmt.Errorf("%w: menu item %d not on this menu", domain.ErrValidation, line.MenuItemID)
		}
		if item.OutOfStock {
			return fmt.Errorf("%w: %s is out of stock", domain.ErrValidation, item.Name)
		}
		if line.Name == "" {
			order.Lines[i].Name = item.Name
		}
	}

	order.Status = domain.StatusPendingPayment
	order.TotalAmount = order.LineTotal()

	return s.orders.CreateOrder(ctx, order)
}

func (s *OrderService) Get(ctx context.Context, orderID int) (*domain.Order, error) {
	return s.orders.GetOrder(ctx, orderID)
}

// ConfirmPayment is the stubbed payment gateway: a bounded artificial delay
// followed by a conditional PENDING_PAYMENT -> PAID flip. The call is
// idempotent; a retried confirmation finds the order already PAID and
// succeeds without a second flip. Failure leaves the order in
// PENDING_PAYMENT.
func (s *OrderService) ConfirmPayment(ctx context.Context, orderID int) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch order.Status {
	case domain.StatusPaid:
		return order, nil
	case domain.StatusPendingPayment:
	default:
		return nil, fmt.Errorf("%w: order %d is %s", domain.ErrConflict, orderID, order.Status)
	}

	if s.paymentDelay > 0 {
		timer := time.NewTimer(s.paymentDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	err = s.orders.UpdateStatus(ctx, orderID, domain.StatusPendingPayment, domain.StatusPaid)
	if isConflict(err) {
		// A concurrent confirmation may have flipped it first; that still
		// counts as success for this caller.
		current, getErr := s.orders.GetOrder(ctx, orderID)
		if getErr == nil && current.Status == domain.StatusPaid {
			return current, nil
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	return s.orders.GetOrder(ctx, orderID)
}

// Transition moves an order along the lifecycle on behalf of an actor. The
// expected predecessor is pinned before the write and re-checked by the store
// with a conditional update, so a request racing a cancellation cannot
// resurrect the order.
func (s *OrderService) Transition(ctx context.Context, orderID int, target domain.Status, actor domain.Role, actorRestaurantID int) (*domain.Order, error) {
	if !target.Valid() || target == domain.StatusPendingPayment {
		return nil, fmt.Errorf("%w: unknown target status %q", domain.ErrValidation, target)
	}
	if !domain.AllowedActor(target, actor) {
		return nil, fmt.Errorf("%w: %s may not mark an order %s", domain.ErrUnauthorized, actor, target)
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actorRestaurantID != order.RestaurantID {
		return nil, fmt.Errorf("%w: actor is not scoped to restaurant %d", domain.ErrUnauthorized, order.RestaurantID)
	}

	expected, ok := domain.ExpectedFrom(target, order.Status)
	if !ok {
		return nil, fmt.Errorf("%w: order %d is %s", domain.ErrConflict, orderID, order.Status)
	}

	if err := s.orders.UpdateStatus(ctx, orderID, expected, target); err != nil {
		return nil, err
	}
	return s.orders.GetOrder(ctx, orderID)
}

// KitchenQueue is the kitchen view slice: paid orders not yet picked up.
func (s *OrderService) KitchenQueue(ctx context.Context, restaurantID int) ([]domain.Order, error) {
	return s.orders.ListByRestaurant(ctx, restaurantID, domain.KitchenStatuses())
}

// ListForRestaurant is the staff/admin slice; an empty status returns the
// full restaurant order set.
func (s *OrderService) ListForRestaurant(ctx context.Context, restaurantID int, status domain.Status) ([]domain.Order, error) {
	if status == "" {
		return s.orders.ListByRestaurant(ctx, restaurantID, nil)
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	return s.orders.ListByRestaurant(ctx, restaurantID, []domain.Status{status})
}

func (s *OrderService) TrackForTable(ctx context.Context, restaurantID int, tableID string) ([]domain.Order, error) {
	return s.orders.ListByTable(ctx, restaurantID, tableID)
}

func (s *OrderService) TrackForCustomer(ctx context.Context, customerID int) ([]domain.Order, error) {
	return s.orders.ListByCustomer(ctx, customerID)
}
