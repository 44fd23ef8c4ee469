package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type cacheMetricsTestMetrics struct {
	hits   int
	misses int
}

func (m *cacheMetricsTestMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *cacheMetricsTestMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *cacheMetricsTestMetrics) IncCacheHits()                                    { m.hits++ }
func (m *cacheMetricsTestMetrics) IncCacheMisses()                                  { m.misses++ }
func (m *cacheMetricsTestMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (m *cacheMetricsTestMetrics) IncReviewSubmissions(_ string)                    {}
func (m *cacheMetricsTestMetrics) IncClaimRequests(_ string)                        {}
func (m *cacheMetricsTestMetrics) IncSignups(_ string)                              {}

type cacheMetricsTestInner struct {
	data map[string][]byte
}

func (c *cacheMetricsTestInner) Get(key string) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}
func (c *cacheMetricsTestInner) Set(key string, value []byte) {
	c.data[key] = value
}

func TestCountingCache_Hit(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{"key1": []byte("val1")}}
	metrics := &cacheMetricsTestMetrics{}
	cache := &countingCache{CacheProviderInterface: inner, metrics: metrics}

	val, ok := cache.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, []byte("val1"), val)
	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 0, metrics.misses)
}

func TestCountingCache_Miss(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{}}
	metrics := &cacheMetricsTestMetrics{}
	cache := &countingCache{CacheProviderInterface: inner, metrics: metrics}

	val, ok := cache.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, val)
	assert.Equal(t, 0, metrics.hits)
	assert.Equal(t, 1, metrics.misses)
}

func TestCountingCache_SetDelegates(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{}}
	metrics := &cacheMetricsTestMetrics{}
	cache := &countingCache{CacheProviderInterface: inner, metrics: metrics}

	cache.Set("key2", []byte("val2"))

	val, ok := inner.Get("key2")
	assert.True(t, ok)
	assert.Equal(t, []byte("val2"), val)
}

func TestCountingCache_MultipleOperations(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{"a": []byte("1")}}
	metrics := &cacheMetricsTestMetrics{}
	cache := &countingCache{CacheProviderInterface: inner, metrics: metrics}

	cache.Get("a") // hit
	cache.Get("b") // miss
	cache.Get("a") // hit
	cache.Get("c") // miss

	assert.Equal(t, 2, metrics.hits)
	assert.Equal(t, 2, metrics.misses)
}

func TestNewInstrumentedCacheProvider_DisabledSkipsMetrics(t *testing.T) {
	metrics := &cacheMetricsTestMetrics{}
	cache := NewInstrumentedCacheProvider(cacheConfig(false, 1, 0), &cacheTestLogger{}, metrics)

	_, ok := cache.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, metrics.misses)
	assert.IsType(t, &noopCache{}, cache)
}

func TestNewInstrumentedCacheProvider_Enabled(t *testing.T) {
	metrics := &cacheMetricsTestMetrics{}
	cache := NewInstrumentedCacheProvider(cacheConfig(true, 1, 0), &cacheTestLogger{}, metrics)

	cache.Get("0:coaches:")
	cache.Set("0:coaches:", []byte("[]"))
	cache.Get("0:coaches:")

	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 1, metrics.misses)
}

func TestNewInstrumentedCacheProvider_PostgresDriverDisablesCache(t *testing.T) {
	metrics := &cacheMetricsTestMetrics{}
	conf := cacheConfig(true, 1, 0)
	conf.Storage.Driver = "postgres"
	cache := NewInstrumentedCacheProvider(conf, &cacheTestLogger{}, metrics)

	cache.Set("0:coaches:", []byte("[]"))
	_, ok := cache.Get("0:coaches:")

	assert.False(t, ok)
	assert.Equal(t, 0, metrics.misses)
	assert.IsType(t, &noopCache{}, cache)
}
