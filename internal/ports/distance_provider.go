package ports

import (
	"context"

	"pdptw-plan-service/internal/domain"
)

// Contract for retrieving travel distance between two locations.
type DistanceProvider interface {
	// Return the travel distance between two locations in kilometers.
	DistanceKm(ctx context.Context, from, to domain.Location) (float64, error)
}
