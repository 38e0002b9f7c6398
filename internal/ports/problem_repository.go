package ports

import (
	"context"

	"pdptw-plan-service/internal/domain"
)

// Port: a boundary for retrieving problem entities from a data source.
type ProblemRepository interface {
	// Load locations, vehicles, and orders in their stored sequence.
	// Sequence is preserved: dummy-node indices derive from it.
	LoadProblem(ctx context.Context) (domain.ProblemData, error)
}
