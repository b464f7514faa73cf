package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tableside/internal/domain"
	"tableside/internal/service"
)

type OrderServiceInterface struct {
	mock.Mock
}

func NewOrderServiceInterface(t constructorT) *OrderServiceInterface {
	m := &OrderServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *OrderServiceInterface) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderServiceInterface) Get(ctx context.Context, orderID int) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	var order *domain.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*domain.Order)
	}
	return order, args.Error(1)
}

func (m *OrderServiceInterface) ConfirmPayment(ctx context.Context, orderID int) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	var order *domain.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*domain.Order)
	}
	return order, args.Error(1)
}

func (m *OrderServiceInterface) Transition(ctx context.Context, orderID int, target domain.Status, actor domain.Role, actorRestaurantID int) (*domain.Order, error) {
	args := m.Called(ctx, orderID, target, actor, actorRestaurantID)
	var order *domain.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*domain.Order)
	}
	return order, args.Error(1)
}

func (m *OrderServiceInterface) KitchenQueue(ctx context.Context, restaurantID int) ([]domain.Order, error) {
	args := m.Called(ctx, restaurantID)
	var orders []domain.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]domain.Order)
	}
	return orders, args.Error(1)
}

func (m *OrderServiceInterface) ListForRestaurant(ctx context.Context, restaurantID int, status domain.Status) ([]domain.Order, error) {
	args := m.Called(ctx, restaurantID, status)
	var orders []domain.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]domain.Order)
	}
	return orders, args.Error(1)
}

func (m *OrderServiceInterface) TrackForTable(ctx context.Context, restaurantID int, tableID string) ([]domain.Order, error) {
	args := m.Called(ctx, restaurantID, tableID)
	var orders []domain.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]domain.Order)
	}
	return orders, args.Error(1)
}

func (m *OrderServiceInterface) TrackForCustomer(ctx context.Context, customerID int) ([]domain.Order, error) {
	args := m.Called(ctx, customerID)
	var orders []domain.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]domain.Order)
	}
	return orders, args.Error(1)
}

type MenuServiceInterface struct {
	mock.Mock
}

func NewMenuServiceInterface(t constructorT) *MenuServiceInterface {
	m := &MenuServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MenuServiceInterface) CreateRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	args := m.Called(ctx, rest)
	return args.Error(0)
}

func (m *MenuServiceInterface) GetRestaurant(ctx context.Context, restaurantID int) (*domain.Restaurant, error) {
	args := m.Called(ctx, restaurantID)
	var rest *domain.Restaurant
	if args.Get(0) != nil {
		rest = args.Get(0).(*domain.Restaurant)
	}
	return rest, args.Error(1)
}

func (m *MenuServiceInterface) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MenuServiceInterface) ResolveTable(ctx context.Context, restaurantID int, tableID string) (*domain.TableSession, error) {
	args := m.Called(ctx, restaurantID, tableID)
	var session *domain.TableSession
	if args.Get(0) != nil {
		session = args.Get(0).(*domain.TableSession)
	}
	return session, args.Error(1)
}

func (m *MenuServiceInterface) ResolveCode(ctx context.Context, payload []byte) (*domain.TableSession, error) {
	args := m.Called(ctx, payload)
	var session *domain.TableSession
	if args.Get(0) != nil {
		session = args.Get(0).(*domain.TableSession)
	}
	return session, args.Error(1)
}

func (m *MenuServiceInterface) TableQR(ctx context.Context, restaurantID int, tableID string) ([]byte, error) {
	args := m.Called(ctx, restaurantID, tableID)
	var qr []byte
	if args.Get(0) != nil {
		qr = args.Get(0).([]byte)
	}
	return qr, args.Error(1)
}

func (m *MenuServiceInterface) CreateStaff(ctx context.Context, staff *domain.StaffUser) error {
	args := m.Called(ctx, staff)
	return args.Error(0)
}

func (m *MenuServiceInterface) ListStaff(ctx context.Context, restaurantID int) ([]domain.StaffUser, error) {
	args := m.Called(ctx, restaurantID)
	var staff []domain.StaffUser
	if args.Get(0) != nil {
		staff = args.Get(0).([]domain.StaffUser)
	}
	return staff, args.Error(1)
}

type RatingServiceInterface struct {
	mock.Mock
}

func NewRatingServiceInterface(t constructorT) *RatingServiceInterface {
	m := &RatingServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *RatingServiceInterface) Submit(ctx context.Context, sub *service.RatingSubmission) ([]domain.ItemAggregate, error) {
	args := m.Called(ctx, sub)
	var aggregates []domain.ItemAggregate
	if args.Get(0) != nil {
		aggregates = args.Get(0).([]domain.ItemAggregate)
	}
	return aggregates, args.Error(1)
}

func (m *RatingServiceInterface) ListItemRatings(ctx context.Context, restaurantID, menuItemID int) ([]domain.Rating, error) {
	args := m.Called(ctx, restaurantID, menuItemID)
	var ratings []domain.Rating
	if args.Get(0) != nil {
		ratings = args.Get(0).([]domain.Rating)
	}
	return ratings, args.Error(1)
}
