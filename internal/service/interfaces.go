package service

import (
	"context"

	"tableside/internal/domain"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, orderID int) (*domain.Order, error)
	ListByRestaurant(ctx context.Context, restaurantID int, statuses []domain.Status) ([]domain.Order, error)
	ListByTable(ctx context.Context, restaurantID int, tableID string) ([]domain.Order, error)
	ListByCustomer(ctx context.Context, customerID int) ([]domain.Order, error)
	// UpdateStatus applies the transition only if the persisted status still
	// equals from, and returns domain.ErrConflict when it does not.
	UpdateStatus(ctx context.Context, orderID int, from, to domain.Status) error
}

type MenuRepository interface {
	CreateRestaurant(ctx context.Context, rest *domain.Restaurant) error
	GetRestaurant(ctx context.Context, restaurantID int) (*domain.Restaurant, error)
	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
	ListMenu(ctx context.Context, restaurantID int) ([]domain.MenuItem, error)
	GetMenuItems(ctx context.Context, restaurantID int, menuItemIDs []int) (map[int]domain.MenuItem, error)
	CreateStaff(ctx context.Context, staff *domain.StaffUser) error
	ListStaff(ctx context.Context, restaurantID int) ([]domain.StaffUser, error)
}

type RatingRepository interface {
	// UpsertAndRecompute writes the rating keyed by (order, menu item) and
	// recomputes the item aggregate from all rating rows in the same
	// transaction.
	UpsertAndRecompute(ctx context.Context, rating *domain.Rating) (domain.ItemAggregate, error)
	ListItemRatings(ctx context.Context, restaurantID, menuItemID int) ([]domain.Rating, error)
}

type RatingCache interface {
	StoreAggregate(ctx context.Context, agg domain.ItemAggregate) error
	BumpDailyPopularity(ctx context.Context, restaurantID, menuItemID int) error
}

type RatingPublisher interface {
	PublishRating(ctx context.Context, event domain.RatingEvent) error
}

type OrderServiceInterface interface {
	Create(ctx context.Context, order *domain.Order) error
	Get(ctx context.Context, orderID int) (*domain.Order, error)
	ConfirmPayment(ctx context.Context, orderID int) (*domain.Order, error)
	Transition(ctx context.Context, orderID int, target domain.Status, actor domain.Role, actorRestaurantID int) (*domain.Order, error)
	KitchenQueue(ctx context.Context, restaurantID int) ([]domain.Order, error)
	ListForRestaurant(ctx context.Context, restaurantID int, status domain.Status) ([]domain.Order, error)
	TrackForTable(ctx context.Context, restaurantID int, tableID string) ([]domain.Order, error)
	TrackForCustomer(ctx context.Context, customerID int) ([]domain.Order, error)
}

type MenuServiceInterface interface {
	CreateRestaurant(ctx context.Context, rest *domain.Restaurant) error
	GetRestaurant(ctx context.Context, restaurantID int) (*domain.Restaurant, error)
	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
	ResolveTable(ctx context.Context, restaurantID int, tableID string) (*domain.TableSession, error)
	ResolveCode(ctx context.Context, payload []byte) (*domain.TableSession, error)
	TableQR(ctx context.Context, restaurantID int, tableID string) ([]byte, error)
	CreateStaff(ctx context.Context, staff *domain.StaffUser) error
	ListStaff(ctx context.Context, restaurantID int) ([]domain.StaffUser, error)
}

type RatingServiceInterface interface {
	Submit(ctx context.Context, sub *RatingSubmission) ([]domain.ItemAggregate, error)
	ListItemRatings(ctx context.Context, restaurantID, menuItemID int) ([]domain.Rating, error)
}

var (
	_ OrderServiceInterface  = (*OrderService)(nil)
	_ MenuServiceInterface   = (*MenuService)(nil)
	_ RatingServiceInterface = (*RatingService)(nil)
)
