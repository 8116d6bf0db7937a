package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"todo-api/internal/config"
	"todo-api/internal/models"
	"todo-api/pkg/logger"
)

// TodoCache holds each user's todo list under its own key. A nil *TodoCache
// is a valid, disabled cache: reads miss and writes do nothing.
type TodoCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to cfg.RedisURL. It returns (nil, nil) when no URL is configured.
func New(ctx context.Context, cfg *config.Config) (*TodoCache, error) {
	if !cfg.CacheEnabled() {
		logger.Info(ctx, "Redis cache disabled (REDIS_URL not set)")
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	opts.PoolSize = cfg.RedisPoolSize
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	logger.Info(ctx, "Redis client initialized", "pool_size", cfg.RedisPoolSize)
	return NewWithClient(client, time.Duration(cfg.CacheTTL)*time.Second), nil
}

func NewWithClient(client *redis.Client, ttl time.Duration) *TodoCache {
	return &TodoCache{client: client, ttl: ttl}
}

// Key returns the cache key for a user's todo list.
func Key(userID string) string {
	return fmt.Sprintf("todos:user:%s", userID)
}

// GenKey returns the key of the user's invalidation counter.
func GenKey(userID string) string {
	return Key(userID) + ":gen"
}

// errStale aborts a conditional set whose generation moved.
var errStale = errors.New("todo list generation changed")

// GetTodos reads the user's list. Returns (nil, false) on miss or error.
func (c *TodoCache) GetTodos(ctx context.Context, userID string) ([]models.Todo, bool) {
	if c == nil {
		return nil, false
	}
	b, err := c.client.Get(ctx, Key(userID)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Debug(ctx, "Redis get todos failed", "error", err)
		return nil, false
	}
	var todos []models.Todo
	if err := json.Unmarshal(b, &todos); err != nil {
		logger.Debug(ctx, "Redis unmarshal todos failed", "error", err)
		return nil, false
	}
	return todos, true
}

// Generation returns the user's invalidation counter. Read it before loading
// the list from the database and hand it back to SetTodos.
func (c *TodoCache) Generation(ctx context.Context, userID string) (int64, error) {
	if c == nil {
		return 0, nil
	}
	gen, err := c.client.Get(ctx, GenKey(userID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

// SetTodos writes the user's list with the configured TTL, unless the list was
// invalidated after gen was read. The check and the write run under WATCH.
func (c *TodoCache) SetTodos(ctx context.Context, userID string, gen int64, todos []models.Todo) {
	if c == nil {
		return
	}
	b, err := json.Marshal(todos)
	if err != nil {
		logger.Debug(ctx, "Marshal todos for cache failed", "error", err)
		return
	}
	genKey := GenKey(userID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		if cur != gen {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, Key(userID), b, c.ttl)
			return nil
		})
		return err
	}, genKey)
	switch {
	case err == nil:
	case errors.Is(err, errStale), errors.Is(err, redis.TxFailedErr):
		logger.Debug(ctx, "Skipped caching stale todo list", "user_id", userID)
	default:
		logger.Debug(ctx, "Redis set todos failed", "error", err)
	}
}

// InvalidateTodos bumps the user's generation and deletes the cached list, so
// the next read goes to the database and in-flight loads cannot cache.
func (c *TodoCache) InvalidateTodos(ctx context.Context, userID string) {
	if c == nil {
		return
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, GenKey(userID))
		pipe.Del(ctx, Key(userID))
		return nil
	})
	if err != nil {
		logger.Warn(ctx, "Redis invalidate todos failed", "error", err, "user_id", userID)
	}
}

// Ping reports whether Redis is reachable. A disabled cache is always healthy.
func (c *TodoCache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

func (c *TodoCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
