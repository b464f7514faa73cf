package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tableside/internal/domain"
	"tableside/internal/mocks"
	"tableside/internal/service"
)

func cartLines() []domain.OrderLine {
	return []domain.OrderLine{
		{MenuItemID: 1, Price: 10, Quantity: 2},
		{MenuItemID: 2, Price: 5, Quantity: 1},
	}
}

func menuFixture() map[int]domain.MenuItem {
	return map[int]domain.MenuItem{
		1: {ID: 1, RestaurantID: 1, Name: "Soup", Price: 10},
		2: {ID: 2, RestaurantID: 1, Name: "Bread", Price: 5},
	}
}

func TestCreateOrder_ComputesTotalServerSide(t *testing.T) {
	orders := mocks.NewOrderRepository(t)
	menu := mocks.NewMenuRepository(t)
	svc := service.NewOrderService(orders, menu, 0)

	menu.On("GetRestaurant", mock.Anything, 1).Return(&domain.Restaurant{ID: 1, TableCount: 10}, nil)
	menu.On("GetMenuItems", mock.Anything, 1, []int{1, 2}).Return(menuFixture(), nil)
	orders.On("CreateOrder", mock.Anything, mock.Anything).Return(nil)

	order := &domain.Order{
		RestaurantID: 1,
		TableID:      "4",
		TotalAmount:  1, // client-submitted total must be ignored
		Lines:        cartLines(),
	}
	err := svc.Create(context.Background(), order)

	assert.NoError(t, err)
	assert.Equal(t, 25.0, order.TotalAmount)
	assert.Equal(t, domain.StatusPendingPayment, order.Status)
	assert.Equal(t, "Soup", order.Lines[0].Name)
	assert.Equal(t, "Bread", order.Lines[1].Name)
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	svc := service.NewOrderService(mocks.NewOrderRepository(t), mocks.NewMenuRepository(t), 0)

	err := svc.Create(context.Background(), &domain.Order{RestaurantID: 1, TableID: "4"})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateOrder_UnresolvableRestaurant(t *testing.T) {
	orders := mocks.NewOrderRepository(t)
	menu := mocks.NewMenuRepository(t)
	svc := service.NewOrderService(orders, menu, 0)

	menu.On("GetRestaurant", mock.Anything, 99).Return(nil, domain.ErrNotFound)

	err := svc.Create(context.Background(), &domain.Order{
		RestaurantID: 99,
		TableID:      "4",
		Lines:        cartLines(),
	})

	// An unresolvable restaurant on checkout is a validation failure, not 404.
	assert.ErrorIs(t, err, domain.ErrValidation)
	orders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestCreateOrder_InvalidTable(t *testing.T) {
	orders := mocks.NewOrderRepository(t)
	menu := mocks.NewMenuRepository(t)
	svc := service.NewOrderService(orders, menu, 0)

	menu.On("GetRestaurant", mock.Anything, 1).Return(&domain.Restaurant{ID: 1, TableCount: 10}, nil)

	for _, tableID := range []string{"0", "11", "patio", ""} {
		err := svc.Create(context.Background(), &domain.Order{
			RestaurantID: 1,
			TableID:      tableID,
			Lines:        cartLines(),
		})
		assert.ErrorIs(t, err, domain.ErrValidation, "table %q should not resolve", tableID)
	}
}

func TestCreateOrder_OutOfStockItem(t *testing.T) {
	orders := mocks.NewOrderRepository(t)
	menu := mocks.NewMenuRepository(t)
	svc := service.NewOrderService(orders, menu, 0)

	items := menuFixture()
	soup := items[1]
	soup.OutOfStock = true
	items[1] = soup

	menu.On("GetRestaurant", mock.Anything, 1).Return(&domain.Restaurant{ID: 1, TableCount: 10}, nil)
	menu.On("GetMenuItems", mock.Anything, 1, []int{1, 2}).Return(items, nil)

	err := svc.Create(context.Background(), &domain.Order{
		RestaurantID: 1,
		TableID:      "4",
		Lines:        cartLines(),
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
	orders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestConfirmPayment_FlipsPendingToPaid(t *testing.T) {
	orders := mocks.NewOrderRepository(t)
	svc := service.NewOrderService(orders, mocks.NewMenuRepository(t), 0)

	orders.On("GetOrder", mock.Anything, 7).
		Return(&domain.Order{ID: 7, Status: domain.StatusPendingPayment}, nil).Once()
	orders.On("UpdateStatus", mock.Anything, 7, domain.StatusPendingPayment, domain.StatusPaid).
		Return(nil)
	orders.On("GetOrder", mock.Anything, 7).
		Return(&domain.Order{ID: 7, Status: domain.StatusPaid}, nil).Once()

	order, err := svc.ConfirmPayment(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, order.Status)
}

func TestConfirmPayment_Idempotent(t *testing.T) {
	orders := mocks.NewOrderRepository(t)
	svc := service.NewOrderService(orders, mocks.NewMenuRepository(t), 0)

	orders.On("GetOrder", mock.Anything, 7).
		Return(&domain.Order{ID: 7, Status: domain.StatusPaid}, nil)

	order, err := svc.ConfirmPayment(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, order.Status)
	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// Losing the CAS to a concurrent confirmation of the same order still reports
// success to this caller.
func TestConfirmPayment_LostRaceStillSucceeds(t *testing.T) {
	orders := mocks.NewOrderRepository(t)
	svc := service.NewOrderService(orders, mocks.NewMenuRepository(t), 0)

	orders.On("GetOrder", mock.Anything, 7).
		Return(&domain.Order{ID: 7, Status: domain.StatusPendingPayment}, nil).Once()
	orders.On("UpdateStatus", mock.Anything, 7, domain.StatusPendingPayment, domain.StatusPaid).
		Return(domain.ErrConflict)
	orders.On("GetOrder", mock.Anything, 7).
		Return(&domain.Order{ID: 7, Status: domain.StatusPaid}, nil).Once()

	order, err := svc.ConfirmPayment(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, order.Status)
}

func TestConfirmPayment_RejectsNonPendingOrder(t *testing.T) {
	orders := mocks.NewOrderRepository(t)
	svc := service.NewOrderService(orders, mocks.NewMenuRepository(t), 0)

	orders.On("GetOrder", mock.Anything, 7).
		Return(&domain.Order{ID: 7, Status: domain.StatusCancelled}, nil)

	_, err := svc.ConfirmPayment(context.Background(), 7)

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestTransition_UnauthorizedActor(t *testing.T) {
	orders := mocks.NewOrderRepository(t)
	svc := service.NewOrderService(orders, mocks.NewMenuRepository(t), 0)

	// The authority check fires before any store read.
	_, err := svc.Transition(context.Background(), 7, domain.StatusServed, domain.RoleCustomer, 1)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.Transition(context.Background(), 7, domain.StatusCancelled, domain.RoleKitchen, 1)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	orders.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything)
}

func TestTransition_WrongRestaurantScope(t *testing.T) {
	orders := mocks.NewOrderRepository(t)
	svc := service.NewOrderService(orders, mocks.NewMenuRepository(t), 0)

	orders.On("GetOrder", mock.Anything, 7).
		Return(&domain.Order{ID: 7, RestaurantID: 1, Status: domain.StatusPaid}, nil)

	_, err := svc.Transition(context.Background(), 7, domain.StatusInProgress, domain.RoleKitchen, 2)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransition_TerminalOrderConflicts(t *testing.T) {
	orders := mocks.NewOrderRepository(t)
	svc := service.NewOrderService(orders, mocks.NewMenuRepository(t), 0)

	orders.On("GetOrder", mock.Anything, 7).
		Return(&domain.Order{ID: 7, RestaurantID: 1, Status: domain.StatusCancelled}, nil)

	_, err := svc.Transition(context.Background(), 7, domain.StatusServed, domain.RoleStaff, 1)

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestTransition_KitchenStartsCooking(t *testing.T) {
	orders := mocks.NewOrderRepository(t)
	svc := service.NewOrderService(orders, mocks.NewMenuRepository(t), 0)

	orders.On("GetOrder", mock.Anything, 7).
		Return(&domain.Order{ID: 7, RestaurantID: 1, Status: domain.StatusPaid}, nil).Once()
	orders.On("UpdateStatus", mock.Anything, 7, domain.StatusPaid, domain.StatusInProgress).
		Return(nil)
	orders.On("GetOrder", mock.Anything, 7).
		Return(&domain.Order{ID: 7, RestaurantID: 1, Status: domain.StatusInProgress}, nil).Once()

	order, err := svc.Transition(context.Background(), 7, domain.StatusInProgress, domain.RoleKitchen, 1)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, order.Status)
}

func TestTransition_RejectsPendingPaymentTarget(t *testing.T) {
	svc := service.NewOrderService(mocks.NewOrderRepository(t), mocks.NewMenuRepository(t), 0)

	_, err := svc.Transition(context.Background(), 7, domain.StatusPendingPayment, domain.RoleAdmin, 1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Transition(context.Background(), 7, domain.Status("COOKED"), domain.RoleAdmin, 1)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
