package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"pdptw-plan-service/internal/domain"
	"pdptw-plan-service/internal/metrics"
	"pdptw-plan-service/internal/mip"
	"pdptw-plan-service/internal/platform/obs"
	"pdptw-plan-service/internal/ports"
)

// violationEps is the slack below which a constraint counts as satisfied
// when diagnosing an infeasible model against a partial assignment.
const violationEps = 1e-6

// SolveOptions tunes a single solve call.
type SolveOptions struct {
	// TimeLimit bounds solver wall-clock time. Zero means no limit beyond
	// whatever deadline the context already carries.
	TimeLimit time.Duration
}

// BuildPlanModel assembles the complete MIP for a problem: variables in
// deterministic order, then the distance-cost objective, then the
// constraint system. Building the same problem twice yields structurally
// identical models.
func BuildPlanModel(ctx context.Context, p *Problem) (pm *PlanModel, err error) {
	defer obs.Time(ctx, "buildPlanModel")(&err)
	start := time.Now()

	m := mip.NewModel("pdptw_plan", mip.Minimize)
	pm = buildVariables(p, m)
	buildObjective(pm)
	if err = buildConstraints(pm); err != nil {
		return nil, err
	}

	metrics.ModelBuildDuration.Observe(time.Since(start).Seconds())
	log.Printf("op=buildPlanModel vars=%d constraints=%d vehicles=%d orders=%d",
		m.VariableCount(), m.ConstraintCount(), len(p.Vehicles()), len(p.Orders()))
	return pm, nil
}

// SolvePlan runs the solver on a built model and turns the outcome into a
// transport plan. A time limit with a feasible incumbent degrades the plan
// to non-optimal instead of failing; a time limit with no incumbent is
// ErrNoSolution; an infeasible model reports constraint diagnostics.
func SolvePlan(ctx context.Context, pm *PlanModel, solver ports.MIPSolver, opts SolveOptions) (plan domain.TransportPlan, err error) {
	defer obs.Time(ctx, "solvePlan")(&err)

	if opts.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.TimeLimit)
		defer cancel()
	}

	start := time.Now()
	res, err := solver.Solve(ctx, pm.Model)
	metrics.SolverDuration.Observe(time.Since(start).Seconds())
	if err != nil && res.Status == ports.StatusError {
		metrics.PlanSolvesTotal.WithLabelValues("error").Inc()
		return domain.TransportPlan{}, fmt.Errorf("solve plan: %w", err)
	}

	switch res.Status {
	case ports.StatusOptimal:
		routes, err := pm.ExtractRoutes(res.Values)
		if err != nil {
			metrics.PlanSolvesTotal.WithLabelValues("error").Inc()
			return domain.TransportPlan{}, err
		}
		metrics.PlanSolvesTotal.WithLabelValues("optimal").Inc()
		return domain.TransportPlan{
			ID:        uuid.NewString(),
			Status:    domain.PlanOptimal,
			Objective: res.Objective,
			Routes:    routes,
		}, nil

	case ports.StatusTimeLimit:
		if res.Values == nil {
			metrics.PlanSolvesTotal.WithLabelValues("no_solution").Inc()
			return domain.TransportPlan{}, fmt.Errorf("solve plan: time limit reached: %w", domain.ErrNoSolution)
		}
		log.Printf("op=solvePlan msg=%q objective=%f", "time limit reached, using best incumbent", res.Objective)
		routes, err := pm.ExtractRoutes(res.Values)
		if err != nil {
			metrics.PlanSolvesTotal.WithLabelValues("error").Inc()
			return domain.TransportPlan{}, err
		}
		metrics.PlanSolvesTotal.WithLabelValues("non_optimal").Inc()
		return domain.TransportPlan{
			ID:        uuid.NewString(),
			Status:    domain.PlanNonOptimal,
			Objective: res.Objective,
			Routes:    routes,
		}, nil

	case ports.StatusInfeasible:
		metrics.PlanSolvesTotal.WithLabelValues("infeasible").Inc()
		return domain.TransportPlan{}, &domain.InfeasibleModelError{
			Diagnostics: diagnoseInfeasible(pm.Model, res.Values),
		}

	default:
		metrics.PlanSolvesTotal.WithLabelValues("error").Inc()
		return domain.TransportPlan{}, fmt.Errorf("solve plan: unexpected solver status %s", res.Status)
	}
}

// diagnoseInfeasible emits one diagnostic per constraint so the caller
// always sees the full row inventory of the infeasible model. When the
// solver left a last assignment, each row also carries its activity at
// those values and a violation flag; without one only the names are known.
func diagnoseInfeasible(m *mip.Model, values []float64) []domain.ConstraintDiagnostic {
	constraints := m.Constraints()
	out := make([]domain.ConstraintDiagnostic, 0, len(constraints))
	for _, c := range constraints {
		d := domain.ConstraintDiagnostic{Name: c.Name}
		if values != nil {
			d.Activity = c.Activity(values)
			d.HasActivity = true
			d.Violated = !c.Satisfied(values, violationEps)
		}
		out = append(out, d)
	}
	return out
}
