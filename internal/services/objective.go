package services

import "pdptw-plan-service/internal/mip"

// buildObjective sets the minimization target: total transport cost over
// all arc variables, each weighted by leg distance and the vehicle's unit
// cost. Arcs between co-located nodes (e.g. a pickup and a delivery sharing
// one physical location) carry no cost and contribute no term.
func buildObjective(pm *PlanModel) {
	obj := mip.NewExpr()
	p := pm.problem

	for _, arc := range pm.arcs {
		fromLoc := p.LocationOf(arc.Veh, arc.From)
		toLoc := p.LocationOf(arc.Veh, arc.To)
		if fromLoc == toLoc {
			continue
		}
		obj.Add(p.DistanceKm(fromLoc, toLoc)*arc.Veh.Vehicle.UnitCost, arc.X)
	}

	pm.Model.SetObjective(obj)
}
