package ports

import (
	"context"

	"pdptw-plan-service/internal/domain"
)

// Optional extension of DistanceProvider that supports batched lookups.
type DistanceMatrixProvider interface {
	DistanceProvider
	// Return distances in kilometers from one origin to many destinations,
	// keyed by destination location ID.
	DistanceRowKm(ctx context.Context, from domain.Location, to []domain.Location) (map[string]float64, error)
}
