// Package cache serves the inventory snapshot for read-only endpoints out of Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/domain"
	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/repository"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultKey    = "theatre:inventory"
	GenerationKey = "theatre:inventory:generation"
	DefaultTTL    = 30 * time.Second
)

// setIfGeneration caches ARGV[2] under KEYS[1] only while KEYS[2] still holds the
// generation the caller read before loading the store.
var setIfGeneration = redis.NewScript(`
	local current = redis.call('GET', KEYS[2]) or '0'
	if current ~= ARGV[1] then
		return 0
	end

	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
	return 1
`)

// InventoryCache is a read-through cache in front of an inventory reader. Redis
// failures degrade to reading the store directly. Committed ledger changes
// invalidate the cached copy through Notify.
type InventoryCache struct {
	store         domain.InventoryReader
	client        redis.UniversalClient
	key           string
	generationKey string
	ttl           time.Duration
	logger        *slog.Logger
}

func NewInventoryCache(store domain.InventoryReader, client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *InventoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &InventoryCache{
		store:         store,
		client:        client,
		key:           DefaultKey,
		generationKey: GenerationKey,
		ttl:           ttl,
		logger:        logger,
	}
}

func (c *InventoryCache) Load(ctx context.Context) (*domain.Theatre, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	switch {
	case err == nil:
		theatre, err := repository.DecodeTheatre(data)
		if err == nil {
			return theatre, nil
		}

		c.logger.WarnContext(ctx, "discarding undecodable cached inventory", "error", err)
	case errors.Is(err, redis.Nil):
	default:
		c.logger.WarnContext(ctx, "inventory cache read failed", "error", err)
	}

	generation, genErr := c.generation(ctx)

	theatre, err := c.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	if genErr != nil {
		c.logger.WarnContext(ctx, "skipping inventory cache write", "error", genErr)
		return theatre, nil
	}

	data, err = json.Marshal(theatre)
	if err != nil {
		return nil, err
	}

	stored, err := setIfGeneration.Run(ctx, c.client, []string{c.key, c.generationKey},
		generation, data, c.ttl.Milliseconds()).Int()
	switch {
	case err != nil:
		c.logger.WarnContext(ctx, "inventory cache write failed", "error", err)
	case stored == 0:
		c.logger.DebugContext(ctx, "inventory changed while loading, not caching")
	}

	return theatre, nil
}

func (c *InventoryCache) generation(ctx context.Context) (string, error) {
	generation, err := c.client.Get(ctx, c.generationKey).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}

	return generation, err
}

// Invalidate bumps the generation before dropping the cached copy, so a racing
// Load that read the old generation cannot put a stale snapshot back.
func (c *InventoryCache) Invalidate(ctx context.Context) error {
	err := c.client.Incr(ctx, c.generationKey).Err()
	return errors.Join(err, c.client.Del(ctx, c.key).Err())
}

func (c *InventoryCache) Notify(ctx context.Context, n domain.Notification) {
	err := c.Invalidate(context.WithoutCancel(ctx))
	if err != nil {
		c.logger.WarnContext(ctx, "inventory cache invalidation failed", "type", n.Type, "error", err)
	}
}
