package storage

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"tableside/internal/domain"
)

// RedisRatingCache mirrors menu-item rating aggregates for quick lookups and
// keeps per-restaurant leaderboards. Postgres stays the source of truth; the
// mirror just spares the hot read path.
type RedisRatingCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisRatingCache(client *redis.Client, ttl time.Duration) *RedisRatingCache {
	return &RedisRatingCache{Client: client, TTL: ttl}
}

func itemKey(restaurantID, menuItemID int) string {
	return "item:" + strconv.Itoa(restaurantID) + ":" + strconv.Itoa(menuItemID)
}

func leaderboardKey(restaurantID int) string {
	return "ratings:top:" + strconv.Itoa(restaurantID)
}

func dailyKey(restaurantID int, day string) string {
	return "ratings:daily:" + day + ":" + strconv.Itoa(restaurantID)
}

func (c *RedisRatingCache) StoreAggregate(ctx context.Context, agg domain.ItemAggregate) error {
	key := itemKey(agg.RestaurantID, agg.MenuItemID)
	if err := c.Client.HSet(ctx, key, map[string]interface{}{
		"average":      agg.Average,
		"count":        agg.Count,
		"last_updated": time.Now().Unix(),
	}).Err(); err != nil {
		return err
	}
	c.Client.Expire(ctx, key, c.TTL)

	return c.Client.ZAdd(ctx, leaderboardKey(agg.RestaurantID), redis.Z{
		Score:  agg.Average,
		Member: strconv.Itoa(agg.MenuItemID),
	}).Err()
}

func (c *RedisRatingCache) BumpDailyPopularity(ctx context.Context, restaurantID, menuItemID int) error {
	key := dailyKey(restaurantID, time.Now().Format("2006-01-02"))
	if err := c.Client.ZIncrBy(ctx, key, 1, strconv.Itoa(menuItemID)).Err(); err != nil {
		return err
	}
	return c.Client.Expire(ctx, key, 7*24*time.Hour).Err()
}

// GetAggregate reads the mirrored pair; a miss returns ok=false so the caller
// falls back to the store.
func (c *RedisRatingCache) GetAggregate(ctx context.Context, restaurantID, menuItemID int) (domain.ItemAggregate, bool, error) {
	agg := domain.ItemAggregate{
		MenuItemID:   menuItemID,
		RestaurantID: restaurantID,
	}
	fields, err := c.Client.HGetAll(ctx, itemKey(restaurantID, menuItemID)).Result()
	if err != nil {
		return agg, false, err
	}
	if len(fields) == 0 {
		return agg, false, nil
	}
	agg.Average, _ = strconv.ParseFloat(fields["average"], 64)
	agg.Count, _ = strconv.Atoi(fields["count"])
	return agg, true, nil
}
