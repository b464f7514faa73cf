package service

import (
	"context"
	"fmt"
	"time"

	"tableside/internal/domain"
)

// RatingSubmission is one post-service feedback request: a set of per-item
// tuples for a single served order.
type RatingSubmission struct {
	OrderID    int
	CustomerID int
	Ratings    []RatingInput
}

type RatingInput struct {
	MenuItemID int
	Rating     int
	Review     string
}

type RatingService struct {
	ratings   RatingRepository
	orders    OrderRepository
	cache     RatingCache
	publisher RatingPublisher
}

func NewRatingService(ratings RatingRepository, orders OrderRepository, cache RatingCache, publisher RatingPublisher) *RatingService {
	return &RatingService{
		ratings:   ratings,
		orders:    orders,
		cache:     cache,
		publisher: publisher,
	}
}

// Submit records feedback for a served order. Each tuple upserts on
// (order, menu item), so resubmission updates instead of duplicating, and the
// item aggregate is recomputed from all rating rows inside the same
// transaction as the upsert. The whole submission is validated before the
// first write.
func (s *RatingService) Submit(ctx context.Context, sub *RatingSubmission) ([]domain.ItemAggregate, error) {
	if len(sub.Ratings) == 0 {
		return nil, fmt.Errorf("%w: no ratings submitted", domain.ErrValidation)
	}

	order, err := s.orders.GetOrder(ctx, sub.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.StatusServed {
		return nil, fmt.Errorf("%w: order %d is %s, not %s", domain.ErrConflict, order.ID, order.Status, domain.StatusServed)
	}
	if order.CustomerID != 0 && sub.CustomerID != order.CustomerID {
		return nil, fmt.Errorf("%w: order %d belongs to another customer", domain.ErrUnauthorized, order.ID)
	}

	ordered := make(map[int]bool, len(order.Lines))
	for _, line := range order.Lines {
		ordered[line.MenuItemID] = true
	}
	for _, in := range sub.Ratings {
		if in.Rating < 1 || in.Rating > 5 {
			return nil, fmt.Errorf("%w: rating %d out of range 1-5", domain.ErrValidation, in.Rating)
		}
		if !ordered[in.MenuItemID] {
			return nil, fmt.Errorf("%w: menu item %d was not part of order %d", domain.ErrValidation, in.MenuItemID, order.ID)
		}
	}

	aggregates := make([]domain.ItemAggregate, 0, len(sub.Ratings))
	for _, in := range sub.Ratings {
		rating := &domain.Rating{
			OrderID:      order.ID,
			MenuItemID:   in.MenuItemID,
			RestaurantID: order.RestaurantID,
			Rating:       in.Rating,
			Review:       in.Review,
			CustomerID:   sub.CustomerID,
		}

		agg, err := s.ratings.UpsertAndRecompute(ctx, rating)
		if err != nil {
			return aggregates, err
		}
		aggregates = append(aggregates, agg)

		if s.cache != nil {
			_ = s.cache.StoreAggregate(ctx, agg)
		}
		if s.publisher != nil {
			_ = s.publisher.PublishRating(ctx, domain.RatingEvent{
				Type:         domain.EventRatingRecorded,
				MenuItemID:   in.MenuItemID,
				RestaurantID: order.RestaurantID,
				OrderID:      order.ID,
				Rating:       in.Rating,
				Timestamp:    time.Now(),
			})
		}
	}

	return aggregates, nil
}

func (s *RatingService) ListItemRatings(ctx context.Context, restaurantID, menuItemID int) ([]domain.Rating, error) {
	return s.ratings.ListItemRatings(ctx, restaurantID, menuItemID)
}
