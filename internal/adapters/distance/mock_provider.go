package distance

import (
	"context"
	"fmt"

	"pdptw-plan-service/internal/domain"
)

type MockPair struct {
	From, To string
	Km       float64
}

// MockDistanceProvider resolves pairs from a fixed table keyed by location
// IDs. Pairs are stored one-way; register both directions when symmetry is
// wanted.
type MockDistanceProvider struct {
	m map[string]float64
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		m[p.From+"|"+p.To] = p.Km
	}
	return &MockDistanceProvider{m: m}
}

func (p *MockDistanceProvider) DistanceKm(_ context.Context, from, to domain.Location) (float64, error) {
	km, ok := p.m[from.ID+"|"+to.ID]
	if !ok {
		return 0, fmt.Errorf("missing pair %q -> %q", from.ID, to.ID)
	}
	return km, nil
}
