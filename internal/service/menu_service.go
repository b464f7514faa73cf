package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"tableside/internal/domain"
)

type MenuService struct {
	menu MenuRepository
	qr   QRGenerator
}

func NewMenuService(menu MenuRepository, qr QRGenerator) *MenuService {
	return &MenuService{menu: menu, qr: qr}
}

func (s *MenuService) CreateRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	if rest.Name == "" {
		return fmt.Errorf("%w: restaurant name required", domain.ErrValidation)
	}
	if rest.TableCount <= 0 {
		return fmt.Errorf("%w: table count must be positive", domain.ErrValidation)
	}
	return s.menu.CreateRestaurant(ctx, rest)
}

func (s *MenuService) GetRestaurant(ctx context.Context, restaurantID int) (*domain.Restaurant, error) {
	return s.menu.GetRestaurant(ctx, restaurantID)
}

func (s *MenuService) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	if item.Name == "" {
		return fmt.Errorf("%w: item name required", domain.ErrValidation)
	}
	if item.Price < 0 {
		return fmt.Errorf("%w: item price must not be negative", domain.ErrValidation)
	}
	if _, err := s.menu.GetRestaurant(ctx, item.RestaurantID); err != nil {
		return err
	}
	return s.menu.CreateMenuItem(ctx, item)
}

// CreateStaff registers a kitchen or floor account with the restaurant.
func (s *MenuService) CreateStaff(ctx context.Context, staff *domain.StaffUser) error {
	if staff.Name == "" {
		return fmt.Errorf("%w: staff name required", domain.ErrValidation)
	}
	if !staff.Role.StaffRole() {
		return fmt.Errorf("%w: %q is not a staff role", domain.ErrValidation, staff.Role)
	}
	if _, err := s.menu.GetRestaurant(ctx, staff.RestaurantID); err != nil {
		return err
	}
	return s.menu.CreateStaff(ctx, staff)
}

func (s *MenuService) ListStaff(ctx context.Context, restaurantID int) ([]domain.StaffUser, error) {
	return s.menu.ListStaff(ctx, restaurantID)
}

// ResolveTable turns a (restaurant, table) pair into a live table session.
// The menu is always re-fetched; out-of-stock items stay in the response,
// flagged, but are not orderable.
func (s *MenuService) ResolveTable(ctx context.Context, restaurantID int, tableID string) (*domain.TableSession, error) {
	rest, err := s.menu.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if err := validTable(tableID, rest.TableCount); err != nil {
		return nil, err
	}

	items, err := s.menu.ListMenu(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	return &domain.TableSession{
		RestaurantID:   rest.ID,
		RestaurantName: rest.Name,
		TableID:        tableID,
		Menu:           items,
	}, nil
}

// ResolveCode resolves a scanned QR payload. Only restaurant_id and table_id
// are read from it; any embedded menu snapshot is stale by definition and
// dropped in favor of the live menu.
func (s *MenuService) ResolveCode(ctx context.Context, payload []byte) (*domain.TableSession, error) {
	var code domain.QRPayload
	if err := json.Unmarshal(payload, &code); err != nil {
		return nil, fmt.Errorf("%w: unreadable code payload", domain.ErrValidation)
	}
	if code.RestaurantID <= 0 || code.TableID == "" {
		return nil, fmt.Errorf("%w: code payload missing restaurant or table", domain.ErrValidation)
	}
	return s.ResolveTable(ctx, code.RestaurantID, code.TableID)
}

// TableQR renders the QR code a restaurant prints for one of its tables.
func (s *MenuService) TableQR(ctx context.Context, restaurantID int, tableID string) ([]byte, error) {
	rest, err := s.menu.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if err := validTable(tableID, rest.TableCount); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(domain.QRPayload{
		RestaurantID: restaurantID,
		TableID:      tableID,
	})
	if err != nil {
		return nil, err
	}
	return s.qr.Generate(payload)
}

// validTable checks a table id against the restaurant's configured table
// count. Table ids are restaurant-scoped strings; only numeric ids within
// 1..tableCount resolve.
func validTable(tableID string, tableCount int) error {
	n, err := strconv.Atoi(tableID)
	if err != nil || n < 1 || n > tableCount {
		return fmt.Errorf("%w: invalid table %q", domain.ErrValidation, tableID)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

func isConflict(err error) bool {
	return errors.Is(err, domain.ErrConflict)
}
