package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tableside/internal/domain"
)

type constructorT interface {
	mock.TestingT
	Cleanup(func())
}

type OrderRepository struct {
	mock.Mock
}

func NewOrderRepository(t constructorT) *OrderRepository {
	m := &OrderRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepository) GetOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	var order *domain.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*domain.Order)
	}
	return order, args.Error(1)
}

func (m *OrderRepository) ListByRestaurant(ctx context.Context, restaurantID int, statuses []domain.Status) ([]domain.Order, error) {
	args := m.Called(ctx, restaurantID, statuses)
	var orders []domain.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]domain.Order)
	}
	return orders, args.Error(1)
}

func (m *OrderRepository) ListByTable(ctx context.Context, restaurantID int, tableID string) ([]domain.Order, error) {
	args := m.Called(ctx, restaurantID, tableID)
	var orders []domain.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]domain.Order)
	}
	return orders, args.Error(1)
}

func (m *OrderRepository) ListByCustomer(ctx context.Context, customerID int) ([]domain.Order, error) {
	args := m.Called(ctx, customerID)
	var orders []domain.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]domain.Order)
	}
	return orders, args.Error(1)
}

func (m *OrderRepository) UpdateStatus(ctx context.Context, orderID int, from, to domain.Status) error {
	args := m.Called(ctx, orderID, from, to)
	return args.Error(0)
}

type MenuRepository struct {
	mock.Mock
}

func NewMenuRepository(t constructorT) *MenuRepository {
	m := &MenuRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MenuRepository) CreateRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	args := m.Called(ctx, rest)
	return args.Error(0)
}

func (m *MenuRepository) GetRestaurant(ctx context.Context, restaurantID int) (*domain.Restaurant, error) {
	args := m.Called(ctx, restaurantID)
	var rest *domain.Restaurant
	if args.Get(0) != nil {
		rest = args.Get(0).(*domain.Restaurant)
	}
	return rest, args.Error(1)
}

func (m *MenuRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MenuRepository) ListMenu(ctx context.Context, restaurantID int) ([]domain.MenuItem, error) {
	args := m.Called(ctx, restaurantID)
	var items []domain.MenuItem
	if args.Get(0) != nil {
		items = args.Get(0).([]domain.MenuItem)
	}
	return items, args.Error(1)
}

func (m *MenuRepository) GetMenuItems(ctx context.Context, restaurantID int, menuItemIDs []int) (map[int]domain.MenuItem, error) {
	args := m.Called(ctx, restaurantID, menuItemIDs)
	var items map[int]domain.MenuItem
	if args.Get(0) != nil {
		items = args.Get(0).(map[int]domain.MenuItem)
	}
	return items, args.Error(1)
}

func (m *MenuRepository) CreateStaff(ctx context.Context, staff *domain.StaffUser) error {
	args := m.Called(ctx, staff)
	return args.Error(0)
}

func (m *MenuRepository) ListStaff(ctx context.Context, restaurantID int) ([]domain.StaffUser, error) {
	args := m.Called(ctx, restaurantID)
	var staff []domain.StaffUser
	if args.Get(0) != nil {
		staff = args.Get(0).([]domain.StaffUser)
	}
	return staff, args.Error(1)
}

type RatingRepository struct {
	mock.Mock
}

func NewRatingRepository(t constructorT) *RatingRepository {
	m := &RatingRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *RatingRepository) UpsertAndRecompute(ctx context.Context, rating *domain.Rating) (domain.ItemAggregate, error) {
	args := m.Called(ctx, rating)
	return args.Get(0).(domain.ItemAggregate), args.Error(1)
}

func (m *RatingRepository) ListItemRatings(ctx context.Context, restaurantID, menuItemID int) ([]domain.Rating, error) {
	args := m.Called(ctx, restaurantID, menuItemID)
	var ratings []domain.Rating
	if args.Get(0) != nil {
		ratings = args.Get(0).([]domain.Rating)
	}
	return ratings, args.Error(1)
}

type RatingCache struct {
	mock.Mock
}

func NewRatingCache(t constructorT) *RatingCache {
	m := &RatingCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *RatingCache) StoreAggregate(ctx context.Context, agg domain.ItemAggregate) error {
	args := m.Called(ctx, agg)
	return args.Error(0)
}

func (m *RatingCache) BumpDailyPopularity(ctx context.Context, restaurantID, menuItemID int) error {
	args := m.Called(ctx, restaurantID, menuItemID)
	return args.Error(0)
}

type RatingPublisher struct {
	mock.Mock
}

func NewRatingPublisher(t constructorT) *RatingPublisher {
	m := &RatingPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *RatingPublisher) PublishRating(ctx context.Context, event domain.RatingEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
