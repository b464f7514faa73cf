package storage

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"tableside/internal/domain"
)

// MemoryRepository is the in-memory variant of the store, kept behind the
// same repository interfaces as Postgres so the polling contract stays
// backend-agnostic. It holds the compare-and-swap discipline under its mutex
// and is used by tests.
type MemoryRepository struct {
	mu sync.Mutex

	restaurants map[int]domain.Restaurant
	menuItems   map[int]domain.MenuItem
	orders      map[int]domain.Order
	ratings     map[ratingKey]domain.Rating
	staff       map[int]domain.StaffUser

	nextRestaurantID int
	nextMenuItemID   int
	nextOrderID      int
	nextRatingID     int
	nextStaffID      int
}

type ratingKey struct {
	orderID    int
	menuItemID int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		restaurants:      map[int]domain.Restaurant{},
		menuItems:        map[int]domain.MenuItem{},
		orders:           map[int]domain.Order{},
		ratings:          map[ratingKey]domain.Rating{},
		staff:            map[int]domain.StaffUser{},
		nextRestaurantID: 1,
		nextMenuItemID:   1,
		nextOrderID:      1,
		nextRatingID:     1,
		nextStaffID:      1,
	}
}

func (r *MemoryRepository) CreateRestaurant(_ context.Context, rest *domain.Restaurant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rest.ID = r.nextRestaurantID
	r.nextRestaurantID++
	rest.CreatedAt = time.Now()
	r.restaurants[rest.ID] = *rest
	return nil
}

func (r *MemoryRepository) GetRestaurant(_ context.Context, restaurantID int) (*domain.Restaurant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rest, ok := r.restaurants[restaurantID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rest, nil
}

func (r *MemoryRepository) CreateMenuItem(_ context.Context, item *domain.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.ID = r.nextMenuItemID
	r.nextMenuItemID++
	item.CreatedAt = time.Now()
	r.menuItems[item.ID] = *item
	return nil
}

func (r *MemoryRepository) ListMenu(_ context.Context, restaurantID int) ([]domain.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var items []domain.MenuItem
	for _, item := range r.menuItems {
		if item.RestaurantID == restaurantID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *MemoryRepository) GetMenuItems(_ context.Context, restaurantID int, menuItemIDs []int) (map[int]domain.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make(map[int]domain.MenuItem, len(menuItemIDs))
	for _, id := range menuItemIDs {
		item, ok := r.menuItems[id]
		if ok && item.RestaurantID == restaurantID {
			items[id] = item
		}
	}
	return items, nil
}

func (r *MemoryRepository) CreateStaff(_ context.Context, staff *domain.StaffUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	staff.ID = r.nextStaffID
	r.nextStaffID++
	staff.CreatedAt = time.Now()
	r.staff[staff.ID] = *staff
	return nil
}

func (r *MemoryRepository) ListStaff(_ context.Context, restaurantID int) ([]domain.StaffUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var staff []domain.StaffUser
	for _, user := range r.staff {
		if user.RestaurantID == restaurantID {
			staff = append(staff, user)
		}
	}
	sort.Slice(staff, func(i, j int) bool { return staff[i].ID < staff[j].ID })
	return staff, nil
}

func (r *MemoryRepository) CreateOrder(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order.ID = r.nextOrderID
	r.nextOrderID++
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	r.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (r *MemoryRepository) GetOrder(_ context.Context, orderID int) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := cloneOrder(order)
	return &copied, nil
}

func (r *MemoryRepository) ListByRestaurant(_ context.Context, restaurantID int, statuses []domain.Status) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := map[domain.Status]bool{}
	for _, s := range statuses {
		wanted[s] = true
	}

	var orders []domain.Order
	for _, order := range r.orders {
		if order.RestaurantID != restaurantID {
			continue
		}
		if len(wanted) > 0 && !wanted[order.Status] {
			continue
		}
		orders = append(orders, cloneOrder(order))
	}
	sortOrders(orders)
	return orders, nil
}

func (r *MemoryRepository) ListByTable(_ context.Context, restaurantID int, tableID string) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var orders []domain.Order
	for _, order := range r.orders {
		if order.RestaurantID == restaurantID && order.TableID == tableID {
			orders = append(orders, cloneOrder(order))
		}
	}
	sortOrders(orders)
	return orders, nil
}

func (r *MemoryRepository) ListByCustomer(_ context.Context, customerID int) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var orders []domain.Order
	for _, order := range r.orders {
		if order.CustomerID == customerID {
			orders = append(orders, cloneOrder(order))
		}
	}
	sortOrders(orders)
	return orders, nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, orderID int, from, to domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	if order.Status != from {
		return fmt.Errorf("%w: order %d is no longer %s", domain.ErrConflict, orderID, from)
	}
	order.Status = to
	order.UpdatedAt = time.Now()
	r.orders[orderID] = order
	return nil
}

func (r *MemoryRepository) UpsertAndRecompute(_ context.Context, rating *domain.Rating) (domain.ItemAggregate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ratingKey{orderID: rating.OrderID, menuItemID: rating.MenuItemID}
	if existing, ok := r.ratings[key]; ok {
		rating.ID = existing.ID
	} else {
		rating.ID = r.nextRatingID
		r.nextRatingID++
	}
	rating.CreatedAt = time.Now()
	r.ratings[key] = *rating

	return r.recomputeLocked(rating.RestaurantID, rating.MenuItemID), nil
}

// recomputeLocked rebuilds the aggregate from every rating row for the item,
// mirroring the SQL recompute. Caller holds the mutex.
func (r *MemoryRepository) recomputeLocked(restaurantID, menuItemID int) domain.ItemAggregate {
	sum, count := 0, 0
	for _, rating := range r.ratings {
		if rating.MenuItemID == menuItemID {
			sum += rating.Rating
			count++
		}
	}

	agg := domain.ItemAggregate{
		MenuItemID:   menuItemID,
		RestaurantID: restaurantID,
		Count:        count,
	}
	if count > 0 {
		agg.Average = math.Round(float64(sum)/float64(count)*100) / 100
	}

	if item, ok := r.menuItems[menuItemID]; ok {
		item.AvgRating = agg.Average
		item.RatingCount = agg.Count
		r.menuItems[menuItemID] = item
	}
	return agg
}

func (r *MemoryRepository) ListItemRatings(_ context.Context, restaurantID, menuItemID int) ([]domain.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ratings []domain.Rating
	for _, rating := range r.ratings {
		if rating.MenuItemID == menuItemID && rating.RestaurantID == restaurantID {
			ratings = append(ratings, rating)
		}
	}
	return ratings, nil
}

func (r *MemoryRepository) ItemAggregate(_ context.Context, restaurantID, menuItemID int) (domain.ItemAggregate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.menuItems[menuItemID]
	if !ok || item.RestaurantID != restaurantID {
		return domain.ItemAggregate{MenuItemID: menuItemID, RestaurantID: restaurantID}, domain.ErrNotFound
	}
	return domain.ItemAggregate{
		MenuItemID:   menuItemID,
		RestaurantID: restaurantID,
		Average:      item.AvgRating,
		Count:        item.RatingCount,
	}, nil
}

func cloneOrder(order domain.Order) domain.Order {
	lines := make([]domain.OrderLine, len(order.Lines))
	copy(lines, order.Lines)
	order.Lines = lines
	return order
}

func sortOrders(orders []domain.Order) {
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
}
