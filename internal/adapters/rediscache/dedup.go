package rediscache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fr0stylo/stocksync/internal/app/ports"
)

const (
	deliveryKeyPrefix = "stocksync:delivery:"
	deliveryKeyTTL    = 24 * time.Hour
)

// DedupCache records fully processed webhook delivery ids in Redis so
// redeliveries from the at-least-once upstream can be acknowledged without
// reprocessing.
type DedupCache struct {
	client *redis.Client
}

// NewDedupCache wraps a connected Redis client.
func NewDedupCache(client *redis.Client) *DedupCache {
	return &DedupCache{client: client}
}

// SeenDelivery reports whether the delivery id was already recorded.
func (c *DedupCache) SeenDelivery(ctx context.Context, deliveryID string) (bool, error) {
	count, err := c.client.Exists(ctx, deliveryKeyPrefix+deliveryID).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkDelivery records the delivery id of a fully processed webhook.
func (c *DedupCache) MarkDelivery(ctx context.Context, deliveryID string) error {
	return c.client.Set(ctx, deliveryKeyPrefix+deliveryID, 1, deliveryKeyTTL).Err()
}

var _ ports.DedupCache = (*DedupCache)(nil)
