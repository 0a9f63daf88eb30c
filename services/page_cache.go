package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const generationKey = "portal:pages:generation"

// PageCache keeps rendered JSON views (the public products page, engineers' project
// lists) in Redis. Every cached key embeds a generation number; Invalidate bumps the
// generation, which retires every view at once without scanning keys.
//
// A PageCache without a client loads straight from the source.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewPageCache connects to redisURL. An empty URL gives a pass-through cache.
func NewPageCache(redisURL string, ttl time.Duration) (*PageCache, error) {
	if redisURL == "" {
		return NewPageCacheWithClient(nil, ttl), nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewPageCacheWithClient(client, ttl), nil
}

func NewPageCacheWithClient(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PageCache{
		client: client,
		ttl:    ttl,
		logger: log.With().Str("service", "pageCache").Logger(),
	}
}

// Fetch decodes the cached view named key into dst, or calls load, stores its
// result and decodes that. Cache errors are logged and never fail the read.
func (c *PageCache) Fetch(ctx context.Context, key string, dst any, load func() (any, error)) error {
	if c.client == nil {
		return loadInto(dst, load)
	}

	gen, err := c.generation(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("reading cache generation")
		return loadInto(dst, load)
	}
	fullKey := fmt.Sprintf("portal:pages:%d:%s", gen, key)

	cached, err := c.client.Get(ctx, fullKey).Bytes()
	switch {
	case err == nil:
		if err := json.Unmarshal(cached, dst); err == nil {
			return nil
		}
		c.logger.Warn().Str("key", fullKey).Msg("discarding undecodable cache entry")
	case !errors.Is(err, redis.Nil):
		c.logger.Warn().Err(err).Str("key", fullKey).Msg("reading cache entry")
	}

	value, err := load()
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cached view: %w", err)
	}
	if err := c.client.Set(ctx, fullKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", fullKey).Msg("writing cache entry")
	}
	return json.Unmarshal(data, dst)
}

// Invalidate retires every cached view.
func (c *PageCache) Invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		c.logger.Error().Err(err).Msg("invalidating page cache")
	}
}

func (c *PageCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

func (c *PageCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *PageCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func loadInto(dst any, load func() (any, error)) error {
	value, err := load()
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
