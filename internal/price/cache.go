package price

import (
	"sync"
	"time"
)

// DefaultTTL keeps a last-known-good price just short of the tick
// interval, so a single upstream failure is absorbed but values never
// survive two ticks.
const DefaultTTL = 55 * time.Second

type cacheItem struct {
	price     float64
	fetchedAt time.Time
}

// Cache is a TTL store of last-known-good prices per asset id. Expired
// items simply stop being returned; removal is lazy and happens on the
// next Put for the same id.
type Cache struct {
	mu    sync.RWMutex
	items map[string]cacheItem
	ttl   time.Duration
	now   func() time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		items: make(map[string]cacheItem),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the cached price if one was stored within the TTL.
func (c *Cache) Get(assetID string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, found := c.items[assetID]
	if !found || c.now().Sub(item.fetchedAt) > c.ttl {
		return 0, false
	}
	return item.price, true
}

// Put stores a freshly fetched price.
func (c *Cache) Put(assetID string, price float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[assetID] = cacheItem{price: price, fetchedAt: c.now()}
}
