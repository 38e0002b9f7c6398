package solver

import (
	"context"

	"pdptw-plan-service/internal/mip"
	"pdptw-plan-service/internal/ports"
)

// MockSolver returns a scripted result and records the last model it was
// handed. Assignments are scripted by variable name and mapped onto the
// model's index space at call time; unnamed variables default to zero.
type MockSolver struct {
	Result       ports.SolverResult
	Err          error
	ValuesByName map[string]float64

	LastModel *mip.Model
	Calls     int
}

func (s *MockSolver) Solve(_ context.Context, m *mip.Model) (ports.SolverResult, error) {
	s.LastModel = m
	s.Calls++

	res := s.Result
	if s.ValuesByName != nil {
		values := make([]float64, m.VariableCount())
		for _, v := range m.Variables() {
			values[v.Index()] = s.ValuesByName[v.Name()]
		}
		res.Values = values
	}
	return res, s.Err
}
