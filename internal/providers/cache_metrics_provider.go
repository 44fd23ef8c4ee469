package providers

import "trustive/internal/structures"

// countingCache reports every directory cache lookup as a hit or a miss.
type countingCache struct {
	CacheProviderInterface
	metrics MetricsProviderInterface
}

func (c *countingCache) Get(key string) ([]byte, bool) {
	val, hit := c.CacheProviderInterface.Get(key)
	if !hit {
		c.metrics.IncCacheMisses()
		return nil, false
	}
	c.metrics.IncCacheHits()
	return val, true
}

// NewInstrumentedCacheProvider leaves a disabled cache unwrapped: every lookup
// against it misses and would only inflate the miss counter.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	cache := NewCacheProvider(conf, logger)
	if !responseCacheUsable(conf) {
		return cache
	}
	return &countingCache{CacheProviderInterface: cache, metrics: metrics}
}
