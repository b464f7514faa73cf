package aggregate

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"

	"tableside/internal/domain"
)

// AggregateSource reloads the persisted rating pair for a menu item. The
// rating write path already recomputed it transactionally; the consumer only
// re-reads it.
type AggregateSource interface {
	ItemAggregate(ctx context.Context, restaurantID, menuItemID int) (domain.ItemAggregate, error)
}

// Mirror is the cache side the consumer keeps warm.
type Mirror interface {
	StoreAggregate(ctx context.Context, agg domain.ItemAggregate) error
	BumpDailyPopularity(ctx context.Context, restaurantID, menuItemID int) error
}

// Consumer fans rating events out into the cache mirror. Losing an event is
// harmless: the next rating for the same item rewrites the full pair.
type Consumer struct {
	Reader *kafka.Reader
	Source AggregateSource
	Mirror Mirror
}

func NewConsumer(reader *kafka.Reader, source AggregateSource, mirror Mirror) *Consumer {
	return &Consumer{
		Reader: reader,
		Source: source,
		Mirror: mirror,
	}
}

func (c *Consumer) Start(ctx context.Context) {
	log.Println("[aggregate] starting rating consumer")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[aggregate] error reading message: %v", err)
			continue
		}

		var event domain.RatingEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			log.Printf("[aggregate] error unmarshaling message: %v", err)
			continue
		}

		if event.Type == domain.EventRatingRecorded {
			c.ProcessRating(ctx, event)
		}
	}
}

func (c *Consumer) ProcessRating(ctx context.Context, event domain.RatingEvent) {
	if event.Type != domain.EventRatingRecorded {
		return
	}
	log.Printf("[aggregate] processing rating: item=%d restaurant=%d rating=%d",
		event.MenuItemID, event.RestaurantID, event.Rating)

	agg, err := c.Source.ItemAggregate(ctx, event.RestaurantID, event.MenuItemID)
	if err != nil {
		log.Printf("[aggregate] error reloading aggregate: %v", err)
		return
	}

	if err := c.Mirror.StoreAggregate(ctx, agg); err != nil {
		log.Printf("[aggregate] error mirroring aggregate: %v", err)
		return
	}
	if err := c.Mirror.BumpDailyPopularity(ctx, event.RestaurantID, event.MenuItemID); err != nil {
		log.Printf("[aggregate] error bumping popularity: %v", err)
		return
	}

	log.Printf("[aggregate] mirrored aggregate for item %d: avg=%.2f count=%d",
		event.MenuItemID, agg.Average, agg.Count)
}
