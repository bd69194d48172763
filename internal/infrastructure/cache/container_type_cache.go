package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shipdesk/backend/internal/domain/rating"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultContainerTypeKeyPrefix = "ref:container_type:"

// cachedContainerType is the JSON shape stored in Redis
type cachedContainerType struct {
	ISOCode   string          `json:"isoCode"`
	TEUFactor decimal.Decimal `json:"teuFactor"`
	Group     string          `json:"group"`
}

// RedisContainerTypeCache is a read-through cache of container type specs.
// Container types change rarely and are read once per container on every repricing.
type RedisContainerTypeCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	logger    *zap.Logger
}

// NewRedisContainerTypeCache creates a cache over an existing Redis client
func NewRedisContainerTypeCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisContainerTypeCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisContainerTypeCache{
		client:    client,
		ttl:       ttl,
		keyPrefix: defaultContainerTypeKeyPrefix,
		logger:    logger,
	}
}

// Get returns the cached container type, reporting false on a miss
func (c *RedisContainerTypeCache) Get(ctx context.Context, isoCode string) (*rating.ContainerType, bool, error) {
	raw, err := c.client.Get(ctx, c.keyPrefix+isoCode).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read container type %s from cache: %w", isoCode, err)
	}

	var v cachedContainerType
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached container type %s: %w", isoCode, err)
	}
	return &rating.ContainerType{ISOCode: v.ISOCode, TEUFactor: v.TEUFactor, Group: v.Group}, true, nil
}

// Set stores a container type with the cache TTL
func (c *RedisContainerTypeCache) Set(ctx context.Context, ct *rating.ContainerType) error {
	raw, err := json.Marshal(cachedContainerType{ISOCode: ct.ISOCode, TEUFactor: ct.TEUFactor, Group: ct.Group})
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.keyPrefix+ct.ISOCode, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache container type %s: %w", ct.ISOCode, err)
	}
	return nil
}

// Wrap returns a gateway that serves FindContainerType through the cache
// and delegates every other lookup to next.
func (c *RedisContainerTypeCache) Wrap(next rating.ReferenceDataGateway) rating.ReferenceDataGateway {
	return &cachedReferenceData{ReferenceDataGateway: next, cache: c}
}

type cachedReferenceData struct {
	rating.ReferenceDataGateway
	cache *RedisContainerTypeCache
}

// FindContainerType reads through the cache. Cache failures fall back to the database.
func (g *cachedReferenceData) FindContainerType(ctx context.Context, isoCode string) (*rating.ContainerType, error) {
	ct, ok, err := g.cache.Get(ctx, isoCode)
	if err != nil {
		g.cache.logger.Warn("Container type cache read failed", zap.String("iso_code", isoCode), zap.Error(err))
	}
	if ok {
		return ct, nil
	}

	ct, err = g.ReferenceDataGateway.FindContainerType(ctx, isoCode)
	if err != nil {
		return nil, err
	}
	if err := g.cache.Set(ctx, ct); err != nil {
		g.cache.logger.Warn("Container type cache write failed", zap.String("iso_code", isoCode), zap.Error(err))
	}
	return ct, nil
}
