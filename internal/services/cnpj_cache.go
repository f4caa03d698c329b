package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/nova-solidum/app-onboarding/internal/logging"
	"github.com/nova-solidum/app-onboarding/internal/models"
	"github.com/nova-solidum/app-onboarding/internal/observability"
	"github.com/nova-solidum/app-onboarding/internal/redisclient"
	"github.com/nova-solidum/app-onboarding/internal/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CNPJCache stores lookup payloads keyed by normalized CNPJ. Get returns
// (nil, nil) on a miss. Expiry is checked by the caller.
type CNPJCache interface {
	Get(ctx context.Context, cnpj string) (*models.CNPJCacheEntry, error)
	Set(ctx context.Context, entry *models.CNPJCacheEntry) error
}

// CNPJCacheKey is the Redis key of a CNPJ entry
func CNPJCacheKey(cnpj string) string {
	return fmt.Sprintf("cnpj:cache:%s", cnpj)
}

// TieredCNPJCache keeps entries in an optional in-process L1 in front of Redis.
// Get checks L1, then Redis, backfilling L1 on a Redis hit.
type TieredCNPJCache struct {
	redis  *redisclient.Client
	l1     *ristretto.Cache[string, []byte]
	logger *logging.SafeLogger
	now    func() time.Time
}

// NewTieredCNPJCache creates the cache. A nil redis client leaves only L1; an
// l1MaxCost of zero disables L1.
func NewTieredCNPJCache(redisClient *redisclient.Client, l1MaxCost int64, logger *logging.SafeLogger) (*TieredCNPJCache, error) {
	c := &TieredCNPJCache{
		redis:  redisClient,
		logger: logger.Named("cnpj_cache"),
		now:    time.Now,
	}
	if l1MaxCost > 0 {
		counters := l1MaxCost / 100 * 10 // ~10x expected items
		if counters < 1000 {
			counters = 1000
		}
		l1, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
			NumCounters: counters,
			MaxCost:     l1MaxCost,
			BufferItems: 64,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create L1 cache: %w", err)
		}
		c.l1 = l1
	}
	return c, nil
}

func (c *TieredCNPJCache) Get(ctx context.Context, cnpj string) (*models.CNPJCacheEntry, error) {
	key := CNPJCacheKey(cnpj)
	ctx, span := utils.TraceCacheGet(ctx, key)
	defer span.End()

	if c.l1 != nil {
		if raw, found := c.l1.Get(key); found {
			observability.CacheHits.WithLabelValues("cnpj_lookup", "l1").Inc()
			return decodeCacheEntry(raw)
		}
	}

	if c.redis == nil {
		return nil, nil
	}

	raw, err := c.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return nil, fmt.Errorf("failed to read cnpj cache: %w", err)
	}

	entry, err := decodeCacheEntry(raw)
	if err != nil {
		return nil, err
	}
	observability.CacheHits.WithLabelValues("cnpj_lookup", "redis").Inc()
	c.logger.Debug("cnpj cache hit", zap.String("layer", "redis"), zap.String("cnpj", observability.MaskCNPJ(cnpj)))

	if c.l1 != nil {
		if ttl := entry.ExpiresAt.Sub(c.now()); ttl > 0 {
			c.l1.SetWithTTL(key, raw, int64(len(raw)), ttl)
		}
	}
	return entry, nil
}

// Set writes both levels. The Redis TTL mirrors the entry's ExpiresAt; entries
// already expired are not stored.
func (c *TieredCNPJCache) Set(ctx context.Context, entry *models.CNPJCacheEntry) error {
	key := CNPJCacheKey(entry.CNPJ)
	ttl := entry.ExpiresAt.Sub(c.now())
	ctx, span := utils.TraceCacheSet(ctx, key, ttl)
	defer span.End()

	if ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cnpj cache entry: %w", err)
	}

	if c.l1 != nil {
		c.l1.SetWithTTL(key, raw, int64(len(raw)), ttl)
		c.l1.Wait()
	}

	if c.redis == nil {
		return nil
	}
	if err := c.redis.Set(ctx, key, raw, ttl).Err(); err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return fmt.Errorf("failed to write cnpj cache: %w", err)
	}
	return nil
}

// Close releases the L1 cache
func (c *TieredCNPJCache) Close() {
	if c.l1 != nil {
		c.l1.Close()
	}
}

func decodeCacheEntry(raw []byte) (*models.CNPJCacheEntry, error) {
	var entry models.CNPJCacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode cnpj cache entry: %w", err)
	}
	return &entry, nil
}
