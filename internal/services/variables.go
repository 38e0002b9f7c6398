package services

import (
	"fmt"
	"math"

	"pdptw-plan-service/internal/domain"
	"pdptw-plan-service/internal/mip"
)

// arcVar is one arc-selection variable x[k,i,j]: vehicle k travels directly
// from node i to node j.
type arcVar struct {
	Veh  *PlanVehicle
	From int
	To   int
	X    *mip.Variable
}

// PlanModel couples the assembled model with the variable families the
// route extractor needs to read a solution back. All slices are in a fixed
// deterministic order so identical input yields an identical model.
type PlanModel struct {
	Model   *mip.Model
	problem *Problem

	arcs []*arcVar

	// adjacency by vehicle ID, then node index
	out map[string]map[int][]*arcVar
	in  map[string]map[int][]*arcVar

	load    map[string]map[int]*mip.Variable // q[k,i]
	arrival map[string]map[int]*mip.Variable // a[k,i]
	wait    map[string]map[int]*mip.Variable // w[k,i]
}

// buildVariables creates the four variable families scoped per vehicle to
// its reachable node subset. No variable is ever created for an
// incompatible (vehicle, order) combination; only the origin and
// destination sentinels are universal.
func buildVariables(p *Problem, m *mip.Model) *PlanModel {
	pm := &PlanModel{
		Model:   m,
		problem: p,
		out:     make(map[string]map[int][]*arcVar),
		in:      make(map[string]map[int][]*arcVar),
		load:    make(map[string]map[int]*mip.Variable),
		arrival: make(map[string]map[int]*mip.Variable),
		wait:    make(map[string]map[int]*mip.Variable),
	}

	dest := p.DestinationNode()

	for _, veh := range p.Vehicles() {
		id := veh.Vehicle.ID
		pm.out[id] = make(map[int][]*arcVar)
		pm.in[id] = make(map[int][]*arcVar)
		pm.load[id] = make(map[int]*mip.Variable)
		pm.arrival[id] = make(map[int]*mip.Variable)
		pm.wait[id] = make(map[int]*mip.Variable)

		// Complete directed subgraph on the reachable dummy nodes.
		for _, i := range veh.ReachableNodes {
			for _, j := range veh.ReachableNodes {
				if i != j {
					pm.addArc(veh, i, j)
				}
			}
		}

		// Fan-out from the origin sentinel and fan-in to the destination
		// sentinel.
		for _, n := range veh.ReachableNodes {
			pm.addArc(veh, domain.OriginNode, n)
			pm.addArc(veh, n, dest)
		}

		// Direct origin->destination arc: an idle vehicle still departs
		// once and arrives once.
		pm.addArc(veh, domain.OriginNode, dest)

		// Load, arrival-time, and wait-time variables per visited node,
		// sentinels included.
		nodes := append([]int{domain.OriginNode}, veh.ReachableNodes...)
		nodes = append(nodes, dest)
		for _, n := range nodes {
			pm.load[id][n] = m.AddContinuous(fmt.Sprintf("q_%s_%d", id, n), 0, math.Inf(1))
			pm.arrival[id][n] = m.AddContinuous(fmt.Sprintf("a_%s_%d", id, n), 0, math.Inf(1))
			pm.wait[id][n] = m.AddContinuous(fmt.Sprintf("w_%s_%d", id, n), 0, math.Inf(1))
		}
	}

	return pm
}

func (pm *PlanModel) addArc(veh *PlanVehicle, from, to int) {
	id := veh.Vehicle.ID
	a := &arcVar{
		Veh:  veh,
		From: from,
		To:   to,
		X:    pm.Model.AddBinary(fmt.Sprintf("x_%s_%d_%d", id, from, to)),
	}
	pm.arcs = append(pm.arcs, a)
	pm.out[id][from] = append(pm.out[id][from], a)
	pm.in[id][to] = append(pm.in[id][to], a)
}

// outgoing returns vehicle k's arcs leaving node n, in creation order.
func (pm *PlanModel) outgoing(vehID string, n int) []*arcVar { return pm.out[vehID][n] }

// incoming returns vehicle k's arcs entering node n, in creation order.
func (pm *PlanModel) incoming(vehID string, n int) []*arcVar { return pm.in[vehID][n] }
