package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pdptw-plan-service/internal/adapters/distance"
	"pdptw-plan-service/internal/adapters/solver"
	"pdptw-plan-service/internal/api/dto"
	"pdptw-plan-service/internal/domain"
	"pdptw-plan-service/internal/ports"
)

type stubRepo struct {
	data domain.ProblemData
	err  error
}

func (r *stubRepo) LoadProblem(context.Context) (domain.ProblemData, error) {
	return r.data, r.err
}

var handlerBase = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

func handlerTestData() domain.ProblemData {
	return domain.ProblemData{
		Locations: []domain.Location{
			{ID: "depot"}, {ID: "pick"}, {ID: "drop"},
		},
		Vehicles: []domain.Vehicle{
			{
				ID: "v1", Origin: "depot", Destination: "depot",
				EarliestStart: handlerBase, LatestEnd: handlerBase.Add(10 * time.Hour),
				MaxDistanceKm: 100, MaxDurationHours: 9,
				Tags: []string{"std"}, SpeedKph: 60, MaxLoad: 5, UnitCost: 1,
			},
		},
		Orders: []domain.Order{
			{
				ID: "o1", Tags: []string{"std"}, Quantity: 2,
				PickupLocation: "pick", PickupServiceSec: 300,
				PickupStart: handlerBase.Add(30 * time.Minute), PickupEnd: handlerBase.Add(2 * time.Hour),
				DeliveryLocation: "drop", DeliveryServiceSec: 200,
				DeliveryStart: handlerBase.Add(time.Hour), DeliveryEnd: handlerBase.Add(4 * time.Hour),
			},
		},
	}
}

func handlerTestProvider() ports.DistanceProvider {
	return distance.NewMockDistanceProvider([]distance.MockPair{
		{From: "depot", To: "pick", Km: 10},
		{From: "pick", To: "depot", Km: 10},
		{From: "pick", To: "drop", Km: 10},
		{From: "drop", To: "pick", Km: 10},
		{From: "depot", To: "drop", Km: 20},
		{From: "drop", To: "depot", Km: 20},
	})
}

func newPlanHandler(s ports.MIPSolver) *PlanHandler {
	return &PlanHandler{
		Repo:             &stubRepo{data: handlerTestData()},
		Provider:         handlerTestProvider(),
		Solver:           s,
		DefaultTimeLimit: time.Minute,
		MaxTimeLimit:     10 * time.Minute,
	}
}

func TestPlanHandlerOptimal(t *testing.T) {
	mock := &solver.MockSolver{
		Result: ports.SolverResult{Status: ports.StatusOptimal, Objective: 40},
		ValuesByName: map[string]float64{
			"x_v1_0_1": 1, "x_v1_1_2": 1, "x_v1_2_3": 1,
			"a_v1_1": 600, "w_v1_1": 1200, "q_v1_1": 2,
			"a_v1_2": 3900, "a_v1_3": 5400,
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(`{"time_limit_sec": 30}`))
	rec := httptest.NewRecorder()
	newPlanHandler(mock).Solve(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res dto.PlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Status != string(domain.PlanOptimal) || res.Objective != 40 {
		t.Errorf("unexpected plan header: %+v", res)
	}
	if len(res.Routes) != 1 || len(res.Routes[0].Stops) != 4 {
		t.Fatalf("expected one 4-stop route, got %+v", res.Routes)
	}

	pickup := res.Routes[0].Stops[1]
	wantArrive := handlerBase.Add(600 * time.Second)
	if !pickup.ArriveAt.Equal(wantArrive) {
		t.Errorf("pickup arrive_at = %v, want %v", pickup.ArriveAt, wantArrive)
	}
	if pickup.OrderID != "o1" || pickup.Kind != "pickup" {
		t.Errorf("pickup stop = %+v", pickup)
	}
}

func TestPlanHandlerInfeasible(t *testing.T) {
	mock := &solver.MockSolver{
		Result:       ports.SolverResult{Status: ports.StatusInfeasible},
		ValuesByName: map[string]float64{},
	}

	req := httptest.NewRequest(http.MethodPost, "/plans", nil)
	rec := httptest.NewRecorder()
	newPlanHandler(mock).Solve(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	var res dto.InfeasibleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(res.Constraints) == 0 {
		t.Fatal("expected constraint diagnostics")
	}

	found := false
	for _, c := range res.Constraints {
		if c.Name == "tw_start_v1_1" {
			found = true
			if c.Activity == nil {
				t.Error("diagnostic should carry an activity value")
			}
			if !c.Violated {
				t.Error("window constraint should be flagged violated")
			}
		}
	}
	if !found {
		t.Errorf("diagnostics missing window constraint: %+v", res.Constraints)
	}
}

func TestPlanHandlerInfeasibleWithoutValues(t *testing.T) {
	mock := &solver.MockSolver{
		Result: ports.SolverResult{Status: ports.StatusInfeasible},
	}

	req := httptest.NewRequest(http.MethodPost, "/plans", nil)
	rec := httptest.NewRecorder()
	newPlanHandler(mock).Solve(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	var res dto.InfeasibleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(res.Constraints) == 0 {
		t.Fatal("constraint names must be listed even without solver values")
	}
	for _, c := range res.Constraints {
		if c.Activity != nil {
			t.Errorf("diagnostic %s should carry no activity without solver values", c.Name)
		}
	}
}

func TestPlanHandlerRejectsBadRequests(t *testing.T) {
	h := newPlanHandler(&solver.MockSolver{})

	req := httptest.NewRequest(http.MethodGet, "/plans", nil)
	rec := httptest.NewRecorder()
	h.Solve(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want 405", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(`{"unknown": true}`))
	rec = httptest.NewRecorder()
	h.Solve(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown field status = %d, want 400", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(`{"time_limit_sec": -5}`))
	rec = httptest.NewRecorder()
	h.Solve(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative limit status = %d, want 400", rec.Code)
	}
}

func TestPlanHandlerIntegrityErrorIs422(t *testing.T) {
	data := handlerTestData()
	data.Orders[0].Tags = nil

	h := newPlanHandler(&solver.MockSolver{})
	h.Repo = &stubRepo{data: data}

	req := httptest.NewRequest(http.MethodPost, "/plans", nil)
	rec := httptest.NewRecorder()
	h.Solve(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestProblemHandlerSummary(t *testing.T) {
	h := &ProblemHandler{
		Repo:     &stubRepo{data: handlerTestData()},
		Provider: handlerTestProvider(),
	}

	req := httptest.NewRequest(http.MethodGet, "/problem", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res dto.ProblemResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.NodeCount != 2 || res.DestinationNode != 3 || res.OrderCount != 1 {
		t.Errorf("unexpected summary: %+v", res)
	}
	if len(res.Nodes) != 2 || res.Nodes[0].Kind != "pickup" || res.Nodes[1].Kind != "delivery" {
		t.Errorf("node map wrong: %+v", res.Nodes)
	}
}

func TestCompatHandler(t *testing.T) {
	h := &ProblemHandler{
		Repo:     &stubRepo{data: handlerTestData()},
		Provider: handlerTestProvider(),
	}

	req := httptest.NewRequest(http.MethodGet, "/problems/compat", nil)
	rec := httptest.NewRecorder()
	h.Compat(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res dto.CompatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(res.Vehicles) != 1 || len(res.Vehicles[0].ServableOrders) != 1 {
		t.Errorf("unexpected compat report: %+v", res)
	}
}
