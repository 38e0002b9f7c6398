package services

import (
	"strings"
	"testing"
)

// valuesFor builds a dense assignment for the model, setting the named
// variables and leaving everything else at zero.
func valuesFor(t *testing.T, pm *PlanModel, byName map[string]float64) []float64 {
	t.Helper()
	values := make([]float64, pm.Model.VariableCount())
	for name, v := range byName {
		vr := findVariable(pm.Model, name)
		if vr == nil {
			t.Fatalf("variable %q not in model", name)
		}
		values[vr.Index()] = v
	}
	return values
}

func TestExtractRoutesSkipsIdleVehicle(t *testing.T) {
	pm := buildToyModel(t)

	values := valuesFor(t, pm, map[string]float64{"x_v1_0_3": 1})
	routes, err := pm.ExtractRoutes(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(routes) != 0 {
		t.Fatalf("idle vehicle should produce no route, got %d", len(routes))
	}
}

func TestExtractRoutesIgnoresNumericNoise(t *testing.T) {
	pm := buildToyModel(t)

	values := valuesFor(t, pm, map[string]float64{
		"x_v1_0_1": 1,
		"x_v1_1_2": 0.9999999,
		"x_v1_2_3": 1,
		"x_v1_0_3": 1e-7, // solver noise, below tolerance
	})

	routes, err := pm.ExtractRoutes(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(routes) != 1 || len(routes[0].Stops) != 4 {
		t.Fatalf("expected one 4-stop route, got %+v", routes)
	}
}

func TestExtractRoutesRejectsDoubleOutbound(t *testing.T) {
	pm := buildToyModel(t)

	values := valuesFor(t, pm, map[string]float64{
		"x_v1_0_1": 1,
		"x_v1_0_3": 1,
	})

	_, err := pm.ExtractRoutes(values)
	if err == nil || !strings.Contains(err.Error(), "selected arcs to both") {
		t.Fatalf("expected double-outbound error, got %v", err)
	}
}

func TestExtractRoutesRejectsBrokenChain(t *testing.T) {
	pm := buildToyModel(t)

	// Departs the origin but never reaches the destination sentinel.
	values := valuesFor(t, pm, map[string]float64{
		"x_v1_0_1": 1,
	})

	_, err := pm.ExtractRoutes(values)
	if err == nil || !strings.Contains(err.Error(), "no selected arc out of node") {
		t.Fatalf("expected broken-chain error, got %v", err)
	}
}

func TestExtractRoutesRejectsCycle(t *testing.T) {
	pm := buildToyModel(t)

	// 0 -> 1, then 1 and 2 chase each other forever.
	values := valuesFor(t, pm, map[string]float64{
		"x_v1_0_1": 1,
		"x_v1_1_2": 1,
		"x_v1_2_1": 1,
	})

	_, err := pm.ExtractRoutes(values)
	if err == nil {
		t.Fatal("expected a cycle error")
	}
}
