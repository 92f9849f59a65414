package service

import (
	"context"
	"time"
)

// InstrumentedCache decorates a cache store with hit/miss metrics. It
// satisfies cacheStore itself so services stay unaware of metrics.
type InstrumentedCache struct {
	inner   cacheStore
	metrics *MetricsService
}

// NewInstrumentedCache wraps the store. metrics may be nil.
func NewInstrumentedCache(inner cacheStore, metrics *MetricsService) *InstrumentedCache {
	return &InstrumentedCache{inner: inner, metrics: metrics}
}

// Get forwards the lookup and records the outcome.
func (c *InstrumentedCache) Get(ctx context.Context, key string, dest interface{}) error {
	start := time.Now()
	err := c.inner.Get(ctx, key, dest)
	c.metrics.RecordCacheOperation(err == nil, time.Since(start))
	return err
}

// Set forwards the write.
func (c *InstrumentedCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.inner.Set(ctx, key, value, ttl)
}

// DeleteByPattern forwards the invalidation.
func (c *InstrumentedCache) DeleteByPattern(ctx context.Context, pattern string) error {
	return c.inner.DeleteByPattern(ctx, pattern)
}
