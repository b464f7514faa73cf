package aggregate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"tableside/internal/domain"
	"tableside/internal/mocks"
	"tableside/internal/storage"
)

func ratingEvent(restaurantID, menuItemID int) domain.RatingEvent {
	return domain.RatingEvent{
		Type:         domain.EventRatingRecorded,
		MenuItemID:   menuItemID,
		RestaurantID: restaurantID,
		OrderID:      7,
		Rating:       5,
		Timestamp:    time.Now(),
	}
}

func TestProcessRating_MirrorsReloadedAggregate(t *testing.T) {
	ctx := context.Background()

	repo := storage.NewMemoryRepository()
	item := &domain.MenuItem{RestaurantID: 1, Name: "Soup", Price: 10}
	if err := repo.CreateMenuItem(ctx, item); err != nil {
		t.Fatalf("create item: %v", err)
	}
	if _, err := repo.UpsertAndRecompute(ctx, &domain.Rating{
		OrderID: 7, MenuItemID: item.ID, RestaurantID: 1, Rating: 5,
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	mirror := mocks.NewRatingCache(t)
	mirror.On("StoreAggregate", mock.Anything, domain.ItemAggregate{
		MenuItemID:   item.ID,
		RestaurantID: 1,
		Average:      5,
		Count:        1,
	}).Return(nil)
	mirror.On("BumpDailyPopularity", mock.Anything, 1, item.ID).Return(nil)

	consumer := NewConsumer(nil, repo, mirror)
	consumer.ProcessRating(ctx, ratingEvent(1, item.ID))
}

func TestProcessRating_IgnoresOtherEventTypes(t *testing.T) {
	mirror := mocks.NewRatingCache(t)
	consumer := NewConsumer(nil, storage.NewMemoryRepository(), mirror)

	event := ratingEvent(1, 1)
	event.Type = "order_created"
	consumer.ProcessRating(context.Background(), event)

	mirror.AssertNotCalled(t, "StoreAggregate", mock.Anything, mock.Anything)
}

// An unknown item means nothing to mirror; the event is dropped, not retried.
func TestProcessRating_DropsUnknownItem(t *testing.T) {
	mirror := mocks.NewRatingCache(t)
	consumer := NewConsumer(nil, storage.NewMemoryRepository(), mirror)

	consumer.ProcessRating(context.Background(), ratingEvent(1, 999))

	mirror.AssertNotCalled(t, "StoreAggregate", mock.Anything, mock.Anything)
	mirror.AssertNotCalled(t, "BumpDailyPopularity", mock.Anything, mock.Anything, mock.Anything)
}
