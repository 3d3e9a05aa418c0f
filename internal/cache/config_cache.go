package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// State classifies the outcome of a cache read. Miss means the backend
// answered and the key is absent; Unavailable means the backend could not
// answer at all (timeout, connection failure). The two must never be
// conflated: a miss is repopulated, an unavailable backend is not written to.
type State int

const (
	Hit State = iota
	Miss
	Unavailable
)

// Lookup is the result of a single key read.
type Lookup struct {
	State State
	Value string
}

// ConfigCache wraps Redis with bounded-latency reads and best-effort writes
// for denormalized exam configuration. It holds no authoritative data; every
// value is re-derivable from the record store.
type ConfigCache struct {
	rdb     *redis.Client
	timeout time.Duration
	log     zerolog.Logger
}

// NewConfigCache creates a ConfigCache with the given per-operation timeout.
func NewConfigCache(rdb *redis.Client, timeout time.Duration, log zerolog.Logger) *ConfigCache {
	return &ConfigCache{rdb: rdb, timeout: timeout, log: log}
}

// Get reads one key within the configured timeout.
func (c *ConfigCache) Get(ctx context.Context, key string) Lookup {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return Lookup{State: Miss}
	}
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		return Lookup{State: Unavailable}
	}
	return Lookup{State: Hit, Value: val}
}

// Set writes one key best-effort. Failures are logged and swallowed; the
// caller never observes them.
func (c *ConfigCache) Set(ctx context.Context, key, value string) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}
