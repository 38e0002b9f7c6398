// Package distance provides DistanceProvider implementations.
package distance

import (
	"context"

	"pdptw-plan-service/internal/domain"
)

// GreatCircleProvider computes pairwise distances from coordinates alone.
// Pure computation; the context is accepted for interface compatibility
// and never consulted.
type GreatCircleProvider struct{}

func NewGreatCircleProvider() *GreatCircleProvider { return &GreatCircleProvider{} }

func (p *GreatCircleProvider) DistanceKm(_ context.Context, from, to domain.Location) (float64, error) {
	return domain.GreatCircleKm(from.Coord, to.Coord), nil
}

// DistanceRowKm computes a full row in one call.
func (p *GreatCircleProvider) DistanceRowKm(_ context.Context, from domain.Location, to []domain.Location) (map[string]float64, error) {
	out := make(map[string]float64, len(to))
	for _, t := range to {
		out[t.ID] = domain.GreatCircleKm(from.Coord, t.Coord)
	}
	return out, nil
}
