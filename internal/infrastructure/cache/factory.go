package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shipdesk/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewRedisClient creates a Redis client from configuration and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewContainerTypeCacheFromConfig builds the reference cache when it is enabled.
// It returns nil without error when caching is disabled or Redis is unreachable,
// in which case reference data is read straight from the database.
func NewContainerTypeCacheFromConfig(ctx context.Context, redisCfg config.RedisConfig, cacheCfg config.ReferenceCacheConfig, logger *zap.Logger) (*RedisContainerTypeCache, func() error) {
	noop := func() error { return nil }
	if !cacheCfg.Enabled {
		logger.Info("Reference data cache disabled")
		return nil, noop
	}

	client, err := NewRedisClient(ctx, redisCfg)
	if err != nil {
		logger.Warn("Redis unavailable, reading reference data without cache", zap.Error(err))
		return nil, noop
	}

	logger.Info("Using Redis reference data cache", zap.Duration("ttl", cacheCfg.TTL))
	return NewRedisContainerTypeCache(client, cacheCfg.TTL, logger), client.Close
}
