package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"pdptw-plan-service/internal/api/dto"
	"pdptw-plan-service/internal/domain"
	"pdptw-plan-service/internal/ports"
	"pdptw-plan-service/internal/services"
)

type PlanHandler struct {
	Repo     ports.ProblemRepository
	Provider ports.DistanceProvider
	Solver   ports.MIPSolver

	// DefaultTimeLimit applies when the request carries none. MaxTimeLimit
	// caps client overrides.
	DefaultTimeLimit time.Duration
	MaxTimeLimit     time.Duration
}

// Solve runs the full pipeline: load and validate the problem, assemble the
// MIP, solve it, and extract per-vehicle routes. An infeasible model answers
// 422 with the violated constraint names; hitting the time limit with an
// incumbent answers 200 with a non_optimal plan.
func (h *PlanHandler) Solve(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.PlanRequest
	if r.Body != nil && r.ContentLength != 0 {
		dec := json.NewDecoder(r.Body)
		defer r.Body.Close()
		dec.DisallowUnknownFields()

		if err := dec.Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid json body")
			return
		}
		if err := dec.Decode(&struct{}{}); err != io.EOF {
			writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
			return
		}
	}

	if req.TimeLimitSec < 0 {
		writeError(w, r, http.StatusBadRequest, "time_limit_sec must not be negative")
		return
	}

	timeLimit := h.DefaultTimeLimit
	if req.TimeLimitSec > 0 {
		timeLimit = time.Duration(req.TimeLimitSec) * time.Second
	}
	if h.MaxTimeLimit > 0 && timeLimit > h.MaxTimeLimit {
		timeLimit = h.MaxTimeLimit
	}

	p, ok := loadProblem(w, r, h.Repo, h.Provider)
	if !ok {
		return
	}

	pm, err := services.BuildPlanModel(r.Context(), p)
	if err != nil {
		var integrity *domain.DataIntegrityError
		if errors.As(err, &integrity) {
			writeError(w, r, http.StatusUnprocessableEntity, integrity.Error())
			return
		}
		log.Printf("build plan model failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	plan, err := services.SolvePlan(r.Context(), pm, h.Solver, services.SolveOptions{TimeLimit: timeLimit})
	if err != nil {
		var infeasible *domain.InfeasibleModelError
		switch {
		case errors.As(err, &infeasible):
			writeJSON(w, r, http.StatusUnprocessableEntity, infeasibleResponse(infeasible))
		case errors.Is(err, domain.ErrNoSolution):
			writeError(w, r, http.StatusGatewayTimeout, "time limit reached before any feasible solution")
		default:
			log.Printf("solve plan failed: %v", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, r, http.StatusOK, planResponse(p, plan))
}

func infeasibleResponse(e *domain.InfeasibleModelError) dto.InfeasibleResponse {
	res := dto.InfeasibleResponse{
		Error:       e.Error(),
		Constraints: make([]dto.ConstraintDiagnosticResponse, 0, len(e.Diagnostics)),
	}
	for _, d := range e.Diagnostics {
		c := dto.ConstraintDiagnosticResponse{Name: d.Name, Violated: d.Violated}
		if d.HasActivity {
			activity := d.Activity
			c.Activity = &activity
		}
		res.Constraints = append(res.Constraints, c)
	}
	return res
}

func planResponse(p *services.Problem, plan domain.TransportPlan) dto.PlanResponse {
	res := dto.PlanResponse{
		PlanID:    plan.ID,
		Status:    string(plan.Status),
		Objective: plan.Objective,
		Routes:    make([]dto.RouteResponse, 0, len(plan.Routes)),
	}
	for _, route := range plan.Routes {
		stops := make([]dto.StopResponse, 0, len(route.Stops))
		for _, s := range route.Stops {
			stops = append(stops, dto.StopResponse{
				Node:       s.Node,
				Kind:       string(s.Kind),
				OrderID:    s.OrderID,
				LocationID: s.LocationID,
				ArriveAt:   p.Base().Add(time.Duration(s.ArrivalSec) * time.Second),
				WaitSec:    s.WaitSec,
				Load:       s.Load,
			})
		}
		res.Routes = append(res.Routes, dto.RouteResponse{
			VehicleID:  route.VehicleID,
			DistanceKm: route.DistanceKm,
			Stops:      stops,
		})
	}
	return res
}
