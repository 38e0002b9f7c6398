// Package solver adapts MIP solving backends to the MIPSolver port.
package solver

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/costela/golpa"

	"pdptw-plan-service/internal/mip"
	"pdptw-plan-service/internal/ports"
)

// GolpaSolver translates assembled models to golpa (lp_solve bindings) and
// maps its outcomes back to the MIPSolver port. Stateless; a fresh golpa
// model is created per call.
type GolpaSolver struct{}

func NewGolpaSolver() *GolpaSolver { return &GolpaSolver{} }

// Solve translates m variable by variable and constraint by constraint, runs
// golpa under the given context, and reads the assignment back in the
// model's variable order. Cancellation with an incumbent degrades to
// StatusTimeLimit with values; without one, StatusTimeLimit with nil values.
func (s *GolpaSolver) Solve(ctx context.Context, m *mip.Model) (ports.SolverResult, error) {
	// golpa's direction type is unexported; pick the constant directly.
	dir := golpa.Minimize
	if m.Sense() == mip.Maximize {
		dir = golpa.Maximize
	}

	gm, err := golpa.NewModel(m.Name(), dir)
	if err != nil {
		return ports.SolverResult{Status: ports.StatusError}, fmt.Errorf("golpa solver: create model: %w", err)
	}

	gvars, err := translateVariables(gm, m)
	if err != nil {
		return ports.SolverResult{Status: ports.StatusError}, err
	}
	if err := translateConstraints(gm, m, gvars); err != nil {
		return ports.SolverResult{Status: ports.StatusError}, err
	}

	res, err := gm.SolveWithContext(ctx)
	switch {
	case err == nil:
		values := make([]float64, len(gvars))
		for i, gv := range gvars {
			values[i] = res.Value(gv)
		}
		status := ports.StatusOptimal
		if res.Status() != golpa.SolutionOptimal {
			status = ports.StatusTimeLimit
		}
		return ports.SolverResult{Status: status, Objective: res.ObjectiveValue(), Values: values}, nil

	case errors.Is(err, golpa.ErrModelInfeasible), errors.Is(err, golpa.ErrNoFeasibleFound):
		return ports.SolverResult{Status: ports.StatusInfeasible}, nil

	case errors.Is(err, golpa.ErrTimeout), errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ports.SolverResult{Status: ports.StatusTimeLimit}, nil

	default:
		return ports.SolverResult{Status: ports.StatusError}, fmt.Errorf("golpa solver: %w", err)
	}
}

// translateVariables creates one golpa variable per model variable, carrying
// the aggregated objective coefficient since golpa keeps the objective on
// the variables themselves.
func translateVariables(gm *golpa.Model, m *mip.Model) ([]*golpa.Variable, error) {
	objCoef := make(map[*mip.Variable]float64)
	if obj := m.Objective(); obj != nil {
		vars, coefs := obj.Aggregated()
		for i, v := range vars {
			objCoef[v] = coefs[i]
		}
	}

	gvars := make([]*golpa.Variable, 0, m.VariableCount())
	for _, v := range m.Variables() {
		var (
			gv  *golpa.Variable
			err error
		)
		if v.Type() == mip.BinaryVariable {
			gv, err = gm.AddDefinedVariable(v.Name(), golpa.BinaryVariable, objCoef[v], 0, 1)
		} else {
			lb, ub := v.Bounds()
			gv, err = gm.AddDefinedVariable(v.Name(), golpa.ContinuousVariable, objCoef[v], lb, ub)
		}
		if err != nil {
			return nil, fmt.Errorf("golpa solver: add variable %q: %w", v.Name(), err)
		}
		gvars = append(gvars, gv)
	}
	return gvars, nil
}

func translateConstraints(gm *golpa.Model, m *mip.Model, gvars []*golpa.Variable) error {
	for _, c := range m.Constraints() {
		lower, upper := bounds(c.Rel, c.RHS)

		terms := c.Expr.Terms()
		vars := make([]*golpa.Variable, 0, len(terms))
		coefs := make([]float64, 0, len(terms))
		for _, t := range terms {
			vars = append(vars, gvars[t.Var.Index()])
			coefs = append(coefs, t.Coef)
		}

		if err := gm.AddConstraint(lower, upper, vars, coefs); err != nil {
			return fmt.Errorf("golpa solver: add constraint %q: %w", c.Name, err)
		}
	}
	return nil
}

func bounds(rel mip.Relation, rhs float64) (lower, upper float64) {
	switch rel {
	case mip.LessEq:
		return math.Inf(-1), rhs
	case mip.GreaterEq:
		return rhs, math.Inf(1)
	default:
		return rhs, rhs
	}
}
