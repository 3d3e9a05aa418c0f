package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/saraswati/exam-gateway/internal/config"
)

// NewRedisClient creates and validates a Redis client connection.
// A failed ping is reported but not fatal to the caller by contract: the
// config cache is advisory and the gateway must keep serving from Postgres
// when Redis is down.
func NewRedisClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	opt.DialTimeout = cfg.CacheTimeout
	opt.ReadTimeout = cfg.CacheTimeout
	opt.WriteTimeout = cfg.CacheTimeout

	rdb := redis.NewClient(opt)

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", opt.Addr).Msg("Redis unreachable, cache will run degraded")
		return rdb, nil
	}

	log.Info().
		Str("addr", opt.Addr).
		Int("db", opt.DB).
		Msg("Redis connected")

	return rdb, nil
}
