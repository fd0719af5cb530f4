package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Dffarhn/recyle-food-mobile/internal/domain"
)

const keyPrefix = "mysterybox:"

// MysteryBoxCache implements repository.MysteryBoxCache using Redis.
type MysteryBoxCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMysteryBoxCache creates a new Redis-backed mystery box cache.
func NewMysteryBoxCache(client *redis.Client, ttl time.Duration) *MysteryBoxCache {
	return &MysteryBoxCache{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves a cached box. A miss returns nil and no error.
func (c *MysteryBoxCache) Get(ctx context.Context, id string) (*domain.MysteryBox, error) {
	data, err := c.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get mystery box: %w", err)
	}

	var box domain.MysteryBox
	if err := json.Unmarshal(data, &box); err != nil {
		return nil, fmt.Errorf("unmarshal mystery box: %w", err)
	}

	return &box, nil
}

// Set stores a box with the configured TTL. Any restaurant distance is
// stripped since it depends on the requester.
func (c *MysteryBoxCache) Set(ctx context.Context, box *domain.MysteryBox) error {
	stored := *box
	if box.Restaurant != nil {
		r := *box.Restaurant
		r.Distance = nil
		stored.Restaurant = &r
	}

	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("marshal mystery box: %w", err)
	}

	if err := c.client.Set(ctx, keyPrefix+box.ID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set mystery box: %w", err)
	}

	return nil
}

// Delete evicts a box from the cache.
func (c *MysteryBoxCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis del mystery box: %w", err)
	}

	return nil
}
