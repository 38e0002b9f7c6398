package distance

import (
	"context"
	"fmt"
	"log"

	"pdptw-plan-service/internal/adapters/cache"
	"pdptw-plan-service/internal/domain"
	"pdptw-plan-service/internal/ports"
)

// CachedDistanceProvider layers a persistent SQL cache over an inner
// provider. Row lookups hit the cache first and only compute the misses;
// cache write failures are logged and swallowed since recomputation is
// always possible.
type CachedDistanceProvider struct {
	inner ports.DistanceMatrixProvider
	cache *cache.SQLDistanceCache
}

func NewCachedDistanceProvider(inner ports.DistanceMatrixProvider, c *cache.SQLDistanceCache) *CachedDistanceProvider {
	return &CachedDistanceProvider{inner: inner, cache: c}
}

func (p *CachedDistanceProvider) DistanceKm(ctx context.Context, from, to domain.Location) (float64, error) {
	row, err := p.DistanceRowKm(ctx, from, []domain.Location{to})
	if err != nil {
		return 0, err
	}
	km, ok := row[to.ID]
	if !ok {
		return 0, fmt.Errorf("cached distance: no result for %q -> %q", from.ID, to.ID)
	}
	return km, nil
}

func (p *CachedDistanceProvider) DistanceRowKm(ctx context.Context, from domain.Location, to []domain.Location) (map[string]float64, error) {
	ids := make([]string, 0, len(to))
	for _, t := range to {
		ids = append(ids, t.ID)
	}

	cached, err := p.cache.GetMany(ctx, from.ID, ids)
	if err != nil {
		return nil, fmt.Errorf("cached distance: read cache row from %q: %w", from.ID, err)
	}

	var missing []domain.Location
	for _, t := range to {
		if _, ok := cached[t.ID]; !ok {
			missing = append(missing, t)
		}
	}
	if len(missing) == 0 {
		return cached, nil
	}

	fresh, err := p.inner.DistanceRowKm(ctx, from, missing)
	if err != nil {
		return nil, fmt.Errorf("cached distance: compute row from %q: %w", from.ID, err)
	}
	if err := p.cache.PutMany(ctx, from.ID, fresh); err != nil {
		log.Printf("op=distance.cache.PutMany origin=%s err=%v", from.ID, err)
	}

	for id, km := range fresh {
		cached[id] = km
	}
	return cached, nil
}
