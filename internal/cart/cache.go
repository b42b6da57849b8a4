package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/angelmondragon/storefront/pkg/redis"
)

// ErrCacheMiss signals that no cached view exists for the session.
var ErrCacheMiss = errors.New("cart view not cached")

const defaultViewTTL = 10 * time.Minute

// ViewCache stores rendered cart views per session.
type ViewCache interface {
	Get(ctx context.Context, sessionID string) (*View, error)
	Set(ctx context.Context, sessionID string, view *View) error
	Delete(ctx context.Context, sessionID string) error
}

type redisStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartViewKey(sessionID string) string
}

// RedisViewCache keeps cart views as JSON with a jittered TTL so entries written together
// do not expire together.
type RedisViewCache struct {
	store   redisStore
	baseTTL time.Duration
	jitter  func(time.Duration) time.Duration
}

// NewRedisViewCache builds a cache over the shared redis client.
func NewRedisViewCache(store redisStore, baseTTL time.Duration) *RedisViewCache {
	if baseTTL <= 0 {
		baseTTL = defaultViewTTL
	}
	return &RedisViewCache{
		store:   store,
		baseTTL: baseTTL,
		jitter: func(base time.Duration) time.Duration {
			window := int64(base / 5)
			if window <= 0 {
				return 0
			}
			return time.Duration(rand.Int64N(window))
		},
	}
}

func (c *RedisViewCache) Get(ctx context.Context, sessionID string) (*View, error) {
	raw, err := c.store.Get(ctx, c.store.CartViewKey(sessionID))
	if redis.IsMiss(err) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get cart view: %w", err)
	}

	var view View
	if err := json.Unmarshal([]byte(raw), &view); err != nil {
		return nil, fmt.Errorf("unmarshal cart view: %w", err)
	}
	return &view, nil
}

func (c *RedisViewCache) Set(ctx context.Context, sessionID string, view *View) error {
	payload, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("marshal cart view: %w", err)
	}
	ttl := c.baseTTL + c.jitter(c.baseTTL)
	if err := c.store.Set(ctx, c.store.CartViewKey(sessionID), string(payload), ttl); err != nil {
		return fmt.Errorf("redis set cart view: %w", err)
	}
	return nil
}

func (c *RedisViewCache) Delete(ctx context.Context, sessionID string) error {
	if err := c.store.Del(ctx, c.store.CartViewKey(sessionID)); err != nil {
		return fmt.Errorf("redis delete cart view: %w", err)
	}
	return nil
}
