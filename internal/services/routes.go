package services

import (
	"fmt"
	"math"

	"pdptw-plan-service/internal/domain"
)

// arcTolerance separates selected binary arcs from numeric noise in the
// solver's assignment.
const arcTolerance = 1e-5

// ExtractRoutes reconstructs one ordered route per vehicle from a variable
// assignment: collect the arcs with value above tolerance, then walk each
// vehicle's chain from the origin sentinel to the destination sentinel,
// attaching arrival, wait, and load values at every stop. An idle vehicle
// (the direct origin->destination arc) yields no route.
func (pm *PlanModel) ExtractRoutes(values []float64) ([]domain.VehicleRoute, error) {
	p := pm.problem
	dest := p.DestinationNode()

	var routes []domain.VehicleRoute
	for _, veh := range p.Vehicles() {
		id := veh.Vehicle.ID

		next, err := pm.selectedArcs(veh, values)
		if err != nil {
			return nil, err
		}
		if next[domain.OriginNode] == dest {
			continue
		}

		route := domain.VehicleRoute{VehicleID: id}
		node := domain.OriginNode
		// len(next) hops at most; anything longer is a cycle.
		for steps := 0; ; steps++ {
			if steps > len(next) {
				return nil, fmt.Errorf("extract routes: vehicle %q: selected arcs do not form a simple origin-to-destination path", id)
			}
			route.Stops = append(route.Stops, pm.stopAt(veh, node, values))
			if node == dest {
				break
			}
			to, ok := next[node]
			if !ok {
				return nil, fmt.Errorf("extract routes: vehicle %q: no selected arc out of node %d", id, node)
			}
			route.DistanceKm += p.DistanceKm(p.LocationOf(veh, node), p.LocationOf(veh, to))
			node = to
		}

		routes = append(routes, route)
	}

	return routes, nil
}

// selectedArcs returns the successor mapping for one vehicle, rejecting
// assignments where a node has more than one selected outbound arc.
func (pm *PlanModel) selectedArcs(veh *PlanVehicle, values []float64) (map[int]int, error) {
	next := make(map[int]int, len(veh.ReachableNodes)+1)
	for _, arc := range pm.arcs {
		if arc.Veh != veh {
			continue
		}
		if values[arc.X.Index()] <= arcTolerance {
			continue
		}
		if prev, ok := next[arc.From]; ok {
			return nil, fmt.Errorf("extract routes: vehicle %q: node %d has selected arcs to both %d and %d",
				veh.Vehicle.ID, arc.From, prev, arc.To)
		}
		next[arc.From] = arc.To
	}
	return next, nil
}

func (pm *PlanModel) stopAt(veh *PlanVehicle, node int, values []float64) domain.RouteStop {
	p := pm.problem
	id := veh.Vehicle.ID

	stop := domain.RouteStop{
		Node:       node,
		LocationID: p.LocationOf(veh, node),
		ArrivalSec: roundSec(values[pm.arrival[id][node].Index()]),
		WaitSec:    roundSec(values[pm.wait[id][node].Index()]),
		Load:       values[pm.load[id][node].Index()],
	}

	switch node {
	case domain.OriginNode:
		stop.Kind = domain.StopOrigin
	case p.DestinationNode():
		stop.Kind = domain.StopDestination
	default:
		n, _ := p.Node(node)
		stop.OrderID = n.OrderID
		if n.IsPickup() {
			stop.Kind = domain.StopPickup
		} else {
			stop.Kind = domain.StopDelivery
		}
	}

	return stop
}

func roundSec(v float64) int64 { return int64(math.Round(v)) }
