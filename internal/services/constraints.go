package services

import (
	"fmt"

	"pdptw-plan-service/internal/domain"
	"pdptw-plan-service/internal/mip"
)

// buildConstraints emits the full constraint system: coverage, pairing,
// flow balance, load propagation and bounds, time propagation, time
// windows, precedence, and per-vehicle distance/duration limits.
//
// Conditional couplings ("only if the arc is selected") are linearized with
// big-M: 2×maxLoad for load rows, 2×latestEnd for time rows. Load
// propagation alone cannot exclude disconnected sub-loops; time propagation
// is strictly increasing along any used arc and is the sub-tour breaker.
func buildConstraints(pm *PlanModel) error {
	if err := pickupCoverage(pm); err != nil {
		return err
	}
	pickupDeliveryPairing(pm)
	flowConservation(pm)
	loadPropagation(pm)
	loadBounds(pm)
	timePropagation(pm)
	timeWindows(pm)
	precedence(pm)
	travelLimits(pm)
	return nil
}

// pickupCoverage: every pickup node is departed from exactly once across
// the whole fleet, which guarantees the order is served.
func pickupCoverage(pm *PlanModel) error {
	p := pm.problem
	for _, n := range p.Nodes() {
		if !n.IsPickup() {
			continue
		}
		expr := mip.NewExpr()
		for _, veh := range p.Vehicles() {
			for _, arc := range pm.outgoing(veh.Vehicle.ID, n.Index) {
				expr.Add(1, arc.X)
			}
		}
		if expr.Len() == 0 {
			return &domain.DataIntegrityError{
				Reason: fmt.Sprintf("order %q has no compatible vehicle", n.OrderID),
			}
		}
		pm.Model.AddConstraint(fmt.Sprintf("pickup_cover_%d", n.Index), expr, mip.Equal, 1)
	}
	return nil
}

// pickupDeliveryPairing: a vehicle departing a pickup node must also depart
// the paired delivery node, and vice versa.
func pickupDeliveryPairing(pm *PlanModel) {
	for _, veh := range pm.problem.Vehicles() {
		id := veh.Vehicle.ID
		for _, n := range veh.ReachableNodes {
			if n%2 == 0 {
				continue
			}
			pick, del := n, n+1
			expr := mip.NewExpr()
			for _, arc := range pm.outgoing(id, pick) {
				expr.Add(1, arc.X)
			}
			for _, arc := range pm.outgoing(id, del) {
				expr.Add(-1, arc.X)
			}
			pm.Model.AddConstraint(fmt.Sprintf("pair_%s_%d_%d", id, pick, del), expr, mip.Equal, 0)
		}
	}
}

// flowConservation: in-degree equals out-degree at every reachable node,
// and each vehicle departs its origin exactly once and arrives at its
// destination exactly once. The direct origin->destination arc lets an idle
// vehicle satisfy both unit-degree rows at zero cost.
func flowConservation(pm *PlanModel) {
	p := pm.problem
	dest := p.DestinationNode()

	for _, veh := range p.Vehicles() {
		id := veh.Vehicle.ID

		for _, n := range veh.ReachableNodes {
			expr := mip.NewExpr()
			for _, arc := range pm.incoming(id, n) {
				expr.Add(1, arc.X)
			}
			for _, arc := range pm.outgoing(id, n) {
				expr.Add(-1, arc.X)
			}
			pm.Model.AddConstraint(fmt.Sprintf("flow_%s_%d", id, n), expr, mip.Equal, 0)
		}

		depart := mip.NewExpr()
		for _, arc := range pm.outgoing(id, domain.OriginNode) {
			depart.Add(1, arc.X)
		}
		pm.Model.AddConstraint(fmt.Sprintf("depart_origin_%s", id), depart, mip.Equal, 1)

		arrive := mip.NewExpr()
		for _, arc := range pm.incoming(id, dest) {
			arrive.Add(1, arc.X)
		}
		pm.Model.AddConstraint(fmt.Sprintf("arrive_dest_%s", id), arrive, mip.Equal, 1)
	}
}

// loadPropagation: q[k,j] >= q[k,i] + delta(j) - M(1-x[k,i,j]) for every
// arc, with M = 2×maxLoad, so the row only binds when the arc is used.
// q[k,i] is the cumulative load after service at node i. One-sided on
// purpose: cycles are broken by time propagation, not here.
func loadPropagation(pm *PlanModel) {
	for _, arc := range pm.arcs {
		id := arc.Veh.Vehicle.ID
		bigM := float64(2 * arc.Veh.Vehicle.MaxLoad)

		// q_j - q_i - M·x >= delta(j) - M
		expr := mip.NewExpr().
			Add(1, pm.load[id][arc.To]).
			Add(-1, pm.load[id][arc.From]).
			Add(-bigM, arc.X)
		rhs := float64(pm.problem.DeltaAt(arc.To)) - bigM

		pm.Model.AddConstraint(fmt.Sprintf("load_link_%s_%d_%d", id, arc.From, arc.To), expr, mip.GreaterEq, rhs)
	}
}

// loadBounds: cumulative load never exceeds the vehicle's capacity. The
// lower bound of zero lives on the variable itself.
func loadBounds(pm *PlanModel) {
	p := pm.problem
	dest := p.DestinationNode()
	for _, veh := range p.Vehicles() {
		id := veh.Vehicle.ID
		nodes := append([]int{domain.OriginNode}, veh.ReachableNodes...)
		nodes = append(nodes, dest)
		for _, n := range nodes {
			expr := mip.NewExpr().Add(1, pm.load[id][n])
			pm.Model.AddConstraint(fmt.Sprintf("load_cap_%s_%d", id, n), expr, mip.LessEq, float64(veh.Vehicle.MaxLoad))
		}
	}
}

// timePropagation: a[k,j] >= a[k,i] + w[k,i] + service(i) + travel(i,j)
// - M(1-x[k,i,j]), with M = 2×latestEnd. Strictly increasing along any
// used arc, which is what excludes sub-tours from the whole model.
// service(i) is the pickup service duration for every dummy node, see
// Problem.DepartureServiceSec.
func timePropagation(pm *PlanModel) {
	p := pm.problem
	for _, arc := range pm.arcs {
		id := arc.Veh.Vehicle.ID
		bigM := float64(2 * arc.Veh.EndSec)

		// a_j - a_i - w_i - M·x >= service(i) + travel(i,j) - M
		expr := mip.NewExpr().
			Add(1, pm.arrival[id][arc.To]).
			Add(-1, pm.arrival[id][arc.From]).
			Add(-1, pm.wait[id][arc.From]).
			Add(-bigM, arc.X)
		rhs := float64(p.DepartureServiceSec(arc.From)+p.TravelTimeSec(arc.Veh, arc.From, arc.To)) - bigM

		pm.Model.AddConstraint(fmt.Sprintf("time_link_%s_%d_%d", id, arc.From, arc.To), expr, mip.GreaterEq, rhs)
	}
}

// timeWindows: effective service start a[k,i] + w[k,i] lies within the
// vehicle window at sentinels, the pickup window at pickup nodes, and the
// delivery window at delivery nodes.
func timeWindows(pm *PlanModel) {
	p := pm.problem
	dest := p.DestinationNode()

	for _, veh := range p.Vehicles() {
		id := veh.Vehicle.ID
		nodes := append([]int{domain.OriginNode}, veh.ReachableNodes...)
		nodes = append(nodes, dest)

		for _, n := range nodes {
			var startSec, endSec int64
			if n == domain.OriginNode || n == dest {
				startSec, endSec = veh.StartSec, veh.EndSec
			} else {
				node, _ := p.Node(n)
				o, _ := p.OrderByID(node.OrderID)
				if node.IsPickup() {
					startSec, endSec = o.PickupStartSec, o.PickupEndSec
				} else {
					startSec, endSec = o.DeliveryStartSec, o.DeliveryEndSec
				}
			}

			lower := mip.NewExpr().Add(1, pm.arrival[id][n]).Add(1, pm.wait[id][n])
			pm.Model.AddConstraint(fmt.Sprintf("tw_start_%s_%d", id, n), lower, mip.GreaterEq, float64(startSec))

			upper := mip.NewExpr().Add(1, pm.arrival[id][n]).Add(1, pm.wait[id][n])
			pm.Model.AddConstraint(fmt.Sprintf("tw_end_%s_%d", id, n), upper, mip.LessEq, float64(endSec))
		}
	}
}

// precedence: for every reachable pickup node, start-of-service plus pickup
// service plus direct travel to the paired delivery node precedes arrival
// there. Unconditional: it holds even when other stops intervene, layered
// on top of the general time propagation.
func precedence(pm *PlanModel) {
	p := pm.problem
	for _, veh := range p.Vehicles() {
		id := veh.Vehicle.ID
		for _, n := range veh.ReachableNodes {
			if n%2 == 0 {
				continue
			}
			pick, del := n, n+1
			rhs := -(float64(p.DepartureServiceSec(pick) + p.TravelTimeSec(veh, pick, del)))

			// a_p + w_p - a_{p+1} <= -(service + travel)
			expr := mip.NewExpr().
				Add(1, pm.arrival[id][pick]).
				Add(1, pm.wait[id][pick]).
				Add(-1, pm.arrival[id][del])
			pm.Model.AddConstraint(fmt.Sprintf("precede_%s_%d", id, pick), expr, mip.LessEq, rhs)
		}
	}
}

// travelLimits: per-vehicle total selected distance stays within
// maxDistance (linear directly, binary indicator times constant), and
// destination arrival minus origin arrival stays within the duration limit.
func travelLimits(pm *PlanModel) {
	p := pm.problem
	dest := p.DestinationNode()

	for _, veh := range p.Vehicles() {
		id := veh.Vehicle.ID

		distExpr := mip.NewExpr()
		for _, arc := range pm.arcs {
			if arc.Veh != veh {
				continue
			}
			km := p.DistanceKm(p.LocationOf(veh, arc.From), p.LocationOf(veh, arc.To))
			distExpr.Add(km, arc.X)
		}
		// All-co-located arcs leave nothing to bound.
		if distExpr.Len() > 0 {
			pm.Model.AddConstraint(fmt.Sprintf("dist_limit_%s", id), distExpr, mip.LessEq, veh.Vehicle.MaxDistanceKm)
		}

		durExpr := mip.NewExpr().
			Add(1, pm.arrival[id][dest]).
			Add(-1, pm.arrival[id][domain.OriginNode])
		pm.Model.AddConstraint(fmt.Sprintf("time_limit_%s", id), durExpr, mip.LessEq, veh.Vehicle.MaxDurationHours*3600)
	}
}
