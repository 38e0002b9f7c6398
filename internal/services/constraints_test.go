package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"pdptw-plan-service/internal/adapters/distance"
	"pdptw-plan-service/internal/domain"
	"pdptw-plan-service/internal/mip"
)

func buildToyModel(t *testing.T) *PlanModel {
	t.Helper()
	pm, err := BuildPlanModel(context.Background(), newToyProblem(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return pm
}

func findConstraint(t *testing.T, m *mip.Model, name string) *mip.Constraint {
	t.Helper()
	for _, c := range m.Constraints() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("constraint %q not found", name)
	return nil
}

func findVariable(m *mip.Model, name string) *mip.Variable {
	for _, v := range m.Variables() {
		if v.Name() == name {
			return v
		}
	}
	return nil
}

func TestConstraintFamiliesPresent(t *testing.T) {
	pm := buildToyModel(t)

	for _, name := range []string{
		"pickup_cover_1",
		"pair_v1_1_2",
		"flow_v1_1",
		"flow_v1_2",
		"depart_origin_v1",
		"arrive_dest_v1",
		"load_link_v1_0_1",
		"load_cap_v1_1",
		"time_link_v1_0_1",
		"tw_start_v1_1",
		"tw_end_v1_2",
		"precede_v1_1",
		"dist_limit_v1",
		"time_limit_v1",
	} {
		findConstraint(t, pm.Model, name)
	}
}

func TestPickupCoverageIsEqualityOne(t *testing.T) {
	pm := buildToyModel(t)

	c := findConstraint(t, pm.Model, "pickup_cover_1")
	if c.Rel != mip.Equal || c.RHS != 1 {
		t.Errorf("pickup coverage should be = 1, got %s %g", c.Rel, c.RHS)
	}
}

func TestLoadLinkBigM(t *testing.T) {
	pm := buildToyModel(t)

	// M = 2 * maxLoad = 10; rhs = delta(1) - M = 2 - 10.
	c := findConstraint(t, pm.Model, "load_link_v1_0_1")
	if c.Rel != mip.GreaterEq || c.RHS != -8 {
		t.Errorf("load link rhs = %g, want -8", c.RHS)
	}
}

func TestTimeLinkBigMAndService(t *testing.T) {
	pm := buildToyModel(t)

	// M = 2 * latestEnd = 72000; rhs = service(0) + travel(0,1) - M.
	c := findConstraint(t, pm.Model, "time_link_v1_0_1")
	if c.RHS != 600-72000 {
		t.Errorf("time link 0->1 rhs = %g, want %g", c.RHS, float64(600-72000))
	}

	// Departing the delivery node charges the pickup service duration (300),
	// not the delivery one (200).
	c = findConstraint(t, pm.Model, "time_link_v1_2_3")
	if c.RHS != 300+1200-72000 {
		t.Errorf("time link 2->3 rhs = %g, want %g", c.RHS, float64(300+1200-72000))
	}
}

func TestTimeWindowBoundsUseEffectiveStart(t *testing.T) {
	pm := buildToyModel(t)

	lower := findConstraint(t, pm.Model, "tw_start_v1_1")
	if lower.Rel != mip.GreaterEq || lower.RHS != 1800 {
		t.Errorf("pickup window start rhs = %g, want 1800", lower.RHS)
	}
	if lower.Expr.Len() != 2 {
		t.Errorf("window bound should combine arrival and wait, got %d terms", lower.Expr.Len())
	}

	upper := findConstraint(t, pm.Model, "tw_end_v1_2")
	if upper.Rel != mip.LessEq || upper.RHS != 14400 {
		t.Errorf("delivery window end rhs = %g, want 14400", upper.RHS)
	}
}

func TestPrecedenceIsUnconditional(t *testing.T) {
	pm := buildToyModel(t)

	// rhs = -(pickup service + direct pickup->delivery travel) = -(300+600).
	c := findConstraint(t, pm.Model, "precede_v1_1")
	if c.Rel != mip.LessEq || c.RHS != -900 {
		t.Errorf("precedence rhs = %g, want -900", c.RHS)
	}
}

func TestTravelLimits(t *testing.T) {
	pm := buildToyModel(t)

	dist := findConstraint(t, pm.Model, "dist_limit_v1")
	if dist.Rel != mip.LessEq || dist.RHS != 100 {
		t.Errorf("distance limit rhs = %g, want 100", dist.RHS)
	}

	dur := findConstraint(t, pm.Model, "time_limit_v1")
	if dur.Rel != mip.LessEq || dur.RHS != 32400 {
		t.Errorf("duration limit rhs = %g, want 32400", dur.RHS)
	}
}

func TestIdleArcExists(t *testing.T) {
	pm := buildToyModel(t)

	if findVariable(pm.Model, "x_v1_0_3") == nil {
		t.Fatal("direct origin->destination arc missing; idle vehicles cannot satisfy degree constraints without it")
	}
}

func TestIncompatibleVehicleGetsNoArcVariables(t *testing.T) {
	data := toyData()
	data.Vehicles = append(data.Vehicles, domain.Vehicle{
		ID:               "v2",
		Origin:           "depot",
		Destination:      "depot",
		EarliestStart:    testBase,
		LatestEnd:        testBase.Add(10 * time.Hour),
		MaxDistanceKm:    100,
		MaxDurationHours: 9,
		Tags:             []string{"frozen"},
		SpeedKph:         60,
		MaxLoad:          5,
		UnitCost:         1,
	})

	p, err := NewProblem(context.Background(), data, distance.NewMockDistanceProvider(toyPairs()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pm, err := BuildPlanModel(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, v := range pm.Model.Variables() {
		if strings.HasPrefix(v.Name(), "x_v2_") && v.Name() != "x_v2_0_3" {
			t.Errorf("v2 should only get the idle arc, found %s", v.Name())
		}
	}
}

func TestUncoveredPickupIsIntegrityError(t *testing.T) {
	data := toyData()
	data.Vehicles[0].Tags = []string{"frozen"}

	p, err := NewProblem(context.Background(), data, distance.NewMockDistanceProvider(toyPairs()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = BuildPlanModel(context.Background(), p)
	if err == nil || !strings.Contains(err.Error(), "no compatible vehicle") {
		t.Fatalf("expected no-compatible-vehicle error, got %v", err)
	}
}

func TestModelBuildIsDeterministic(t *testing.T) {
	a := buildToyModel(t)
	b := buildToyModel(t)

	if a.Model.VariableCount() != b.Model.VariableCount() {
		t.Fatalf("variable counts differ: %d vs %d", a.Model.VariableCount(), b.Model.VariableCount())
	}
	for i, v := range a.Model.Variables() {
		if v.Name() != b.Model.Variables()[i].Name() {
			t.Fatalf("variable %d differs: %s vs %s", i, v.Name(), b.Model.Variables()[i].Name())
		}
	}
	if a.Model.ConstraintCount() != b.Model.ConstraintCount() {
		t.Fatalf("constraint counts differ: %d vs %d", a.Model.ConstraintCount(), b.Model.ConstraintCount())
	}
	for i, c := range a.Model.Constraints() {
		if c.Name != b.Model.Constraints()[i].Name {
			t.Fatalf("constraint %d differs: %s vs %s", i, c.Name, b.Model.Constraints()[i].Name)
		}
	}
}
