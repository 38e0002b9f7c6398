package ports

import (
	"context"

	"pdptw-plan-service/internal/mip"
)

// SolveStatus is the verdict returned by the external MIP engine.
type SolveStatus int

const (
	// StatusOptimal: the solution is proven optimal.
	StatusOptimal SolveStatus = iota
	// StatusTimeLimit: the solver hit its budget; Values hold the best
	// integral incumbent when one was found.
	StatusTimeLimit
	// StatusInfeasible: the constraint system admits no solution.
	StatusInfeasible
	// StatusError: the solver failed for reasons unrelated to the model's
	// feasibility (numerical failure, out of memory, ...).
	StatusError
)

func (s SolveStatus) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusTimeLimit:
		return "time_limit"
	case StatusInfeasible:
		return "infeasible"
	default:
		return "error"
	}
}

// SolverResult carries the status and, when available, one value per model
// variable indexed by Variable.Index. Values is nil when the solver produced
// no assignment (infeasible, or a budget hit before any incumbent).
type SolverResult struct {
	Status    SolveStatus
	Objective float64
	Values    []float64
}

// Port: a boundary to an external mixed-integer solver. Solve blocks until
// the engine reaches a verdict; any time budget travels through ctx.
type MIPSolver interface {
	Solve(ctx context.Context, model *mip.Model) (SolverResult, error)
}
