package domain

import (
	"errors"
	"fmt"
)

// ErrNoSolution is returned when the solver stopped without producing any
// integral incumbent (e.g. a time limit hit before the first feasible
// solution).
var ErrNoSolution = errors.New("solver returned no solution to extract")

// DataIntegrityError reports malformed problem data: missing compatibility
// tags, an unknown location reference, a broken pickup/delivery pairing, or
// a non-positive distance between distinct locations. Fatal; raised before
// any variable is created.
type DataIntegrityError struct {
	Reason string
}

func (e *DataIntegrityError) Error() string {
	return "problem data integrity: " + e.Reason
}

// ConstraintDiagnostic carries one constraint's identifier and, when the
// solver returned variable values, the constraint's left-hand-side activity
// at those values. Violated marks rows the assignment breaks; without an
// assignment only the identifier is known.
type ConstraintDiagnostic struct {
	Name        string
	Activity    float64
	HasActivity bool
	Violated    bool
}

// InfeasibleModelError reports solver-proven infeasibility together with a
// diagnostic row per constraint. Infeasibility is surfaced, never silently
// relaxed into a fallback answer.
type InfeasibleModelError struct {
	Diagnostics []ConstraintDiagnostic
}

func (e *InfeasibleModelError) Error() string {
	return fmt.Sprintf("model is infeasible (%d constraints reported)", len(e.Diagnostics))
}
