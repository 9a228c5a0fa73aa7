package price

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Fetcher is the upstream quote source.
type Fetcher interface {
	FetchPrices(ctx context.Context, assetIDs []string) (map[string]float64, error)
}

// Resolver combines the upstream client with the TTL cache: fresh prices
// are written through, and assets the fetch missed fall back to a cached
// value if one is still live. An asset absent from the result is unknown
// this round and is retried on the next tick.
type Resolver struct {
	fetcher Fetcher
	cache   *Cache
}

func NewResolver(fetcher Fetcher, cache *Cache) *Resolver {
	return &Resolver{fetcher: fetcher, cache: cache}
}

// ResolveAll fetches all asset ids in one upstream call and returns the
// best available price for each. It never fails: a dead upstream just
// means fewer (or no) entries in the result.
func (r *Resolver) ResolveAll(ctx context.Context, assetIDs []string) map[string]float64 {
	fetched, err := r.fetcher.FetchPrices(ctx, assetIDs)
	if err != nil {
		log.Warnf("price fetch failed, falling back to cache: %v", err)
		fetched = map[string]float64{}
	}

	resolved := make(map[string]float64, len(assetIDs))
	for _, id := range assetIDs {
		if p, ok := fetched[id]; ok {
			r.cache.Put(id, p)
			resolved[id] = p
			continue
		}
		if p, ok := r.cache.Get(id); ok {
			cacheFallbacks.Inc()
			log.Debugf("using cached price for %s", id)
			resolved[id] = p
		}
	}
	return resolved
}
