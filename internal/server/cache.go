package server

import (
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// completionCache memoizes suggestion lists by cleaned input text, so a
// burst of identical requests (backspacing and retyping the same words)
// hits the model once.
type completionCache struct {
	cache *ttlcache.Cache[string, []string]
}

func newCompletionCache(ttl time.Duration, capacity int) *completionCache {
	c := ttlcache.New[string, []string](
		ttlcache.WithTTL[string, []string](ttl),
		ttlcache.WithCapacity[string, []string](uint64(capacity)),
		ttlcache.WithDisableTouchOnHit[string, []string](),
	)
	go c.Start()
	return &completionCache{cache: c}
}

func cacheKey(cleaned string) string {
	return strings.ToLower(cleaned)
}

func (c *completionCache) get(cleaned string) ([]string, bool) {
	item := c.cache.Get(cacheKey(cleaned))
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

func (c *completionCache) set(cleaned string, suggestions []string) {
	c.cache.Set(cacheKey(cleaned), suggestions, ttlcache.DefaultTTL)
}

// Close stops the cache expiration loop.
func (c *completionCache) Close() {
	c.cache.Stop()
}
