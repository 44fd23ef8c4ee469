package providers

import (
	"github.com/coocood/freecache"
	"trustive/internal/structures"
	"unsafe"
)

const defaultCacheTTL = 30

type CacheProviderInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// CacheProvider holds rendered directory responses. Keys embed the directory
// revision, so a mutation makes earlier entries unreachable and the TTL only
// bounds how long they occupy memory.
type CacheProvider struct {
	cache *freecache.Cache
	ttl   int
}

// responseCacheUsable reports whether rendered responses may be cached. A
// postgres backend can be written by other processes, and those writes never
// bump this process's revision, so caching is off for it.
func responseCacheUsable(conf *structures.Config) bool {
	return conf.Cache.Enabled && conf.Cache.Size > 0 && conf.Storage.Driver != "postgres"
}

func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	if !responseCacheUsable(conf) {
		logger.Infof(TypeApp, "Cache disabled (enabled=%t, storage driver %q)", conf.Cache.Enabled, conf.Storage.Driver)
		return &noopCache{}
	}

	sizeBytes := conf.Cache.Size * 1024 * 1024
	ttl := defaultCacheTTL
	if conf.Cache.TTL > 0 {
		ttl = max(int(conf.Cache.TTL.Seconds()), 1)
	}

	logger.Infof(TypeApp, "Cache initialized: %dMB, TTL=%ds", conf.Cache.Size, ttl)

	return &CacheProvider{
		cache: freecache.NewCache(sizeBytes),
		ttl:   ttl,
	}
}

// unsafeStringToBytes converts string to []byte without allocation.
// The result must stay read-only; freecache copies keys internally.
func unsafeStringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (c *CacheProvider) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get(unsafeStringToBytes(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *CacheProvider) Set(key string, value []byte) {
	_ = c.cache.Set(unsafeStringToBytes(key), value, c.ttl)
}

type noopCache struct{}

func (n *noopCache) Get(_ string) ([]byte, bool) { return nil, false }
func (n *noopCache) Set(_ string, _ []byte)      {}
