package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"pdptw-plan-service/internal/domain"
	"pdptw-plan-service/internal/ports"
)

// PlanVehicle is the frozen per-vehicle snapshot produced by compatibility
// matching: the vehicle row, its time window normalized to elapsed seconds,
// and the orders/nodes it may serve. Built exactly once inside NewProblem
// and read-only afterwards.
type PlanVehicle struct {
	Vehicle  domain.Vehicle
	StartSec int64
	EndSec   int64

	// ServableOrders and ReachableNodes are fixed at construction.
	// ReachableNodes excludes the origin and destination sentinels.
	ServableOrders []string
	ReachableNodes []int
}

// PlanOrder is an order with its windows normalized to elapsed seconds.
type PlanOrder struct {
	Order            domain.Order
	PickupStartSec   int64
	PickupEndSec     int64
	DeliveryStartSec int64
	DeliveryEndSec   int64
}

// Problem is the problem data store: entities, the pairwise distance
// matrix, and the dummy-node expansion graph. It is immutable once
// constructed, which keeps variable and constraint generation free of
// shared mutable state.
type Problem struct {
	base      time.Time
	locations map[string]domain.Location
	vehicles  []*PlanVehicle
	orders    []*PlanOrder
	byOrderID map[string]*PlanOrder
	nodes     []domain.DummyNode // nodes[k] carries Index k+1
	dist      map[string]float64 // "fromID|toID" -> km, symmetric
}

// NewProblem ingests raw problem data, validates it, computes the distance
// matrix through the provider, normalizes all times against the earliest
// vehicle start, expands orders into dummy nodes, and performs vehicle-order
// compatibility matching. Any integrity failure aborts before the caller
// can create variables.
func NewProblem(ctx context.Context, data domain.ProblemData, provider ports.DistanceProvider) (*Problem, error) {
	if len(data.Vehicles) == 0 {
		return nil, &domain.DataIntegrityError{Reason: "no vehicles in input"}
	}
	if len(data.Locations) == 0 {
		return nil, &domain.DataIntegrityError{Reason: "no locations in input"}
	}

	p := &Problem{
		locations: make(map[string]domain.Location, len(data.Locations)),
		byOrderID: make(map[string]*PlanOrder, len(data.Orders)),
		dist:      make(map[string]float64, len(data.Locations)*len(data.Locations)),
	}

	for _, loc := range data.Locations {
		if _, ok := p.locations[loc.ID]; ok {
			return nil, &domain.DataIntegrityError{Reason: fmt.Sprintf("duplicate location %q", loc.ID)}
		}
		p.locations[loc.ID] = loc
	}

	if err := p.validate(data); err != nil {
		return nil, err
	}

	// The shared base instant: the earliest vehicle start in the input.
	// Any timestamp at or before it collapses to zero.
	p.base = data.Vehicles[0].EarliestStart
	for _, v := range data.Vehicles[1:] {
		if v.EarliestStart.Before(p.base) {
			p.base = v.EarliestStart
		}
	}

	if err := p.buildDistanceMatrix(ctx, data.Locations, provider); err != nil {
		return nil, err
	}

	// Dummy-node expansion in the given order sequence: each order
	// contributes its pickup then its delivery, consecutively numbered
	// from 1. Index parity (pickup odd) is relied upon downstream.
	for _, o := range data.Orders {
		p.nodes = append(p.nodes, domain.DummyNode{
			Index:      len(p.nodes) + 1,
			OrderID:    o.ID,
			LocationID: o.PickupLocation,
			Delta:      o.Quantity,
		})
		p.nodes = append(p.nodes, domain.DummyNode{
			Index:      len(p.nodes) + 1,
			OrderID:    o.ID,
			LocationID: o.DeliveryLocation,
			Delta:      -o.Quantity,
		})

		po := &PlanOrder{
			Order:            o,
			PickupStartSec:   p.elapsedSec(o.PickupStart),
			PickupEndSec:     p.elapsedSec(o.PickupEnd),
			DeliveryStartSec: p.elapsedSec(o.DeliveryStart),
			DeliveryEndSec:   p.elapsedSec(o.DeliveryEnd),
		}
		p.orders = append(p.orders, po)
		p.byOrderID[o.ID] = po
	}

	p.matchVehicles(data.Vehicles)

	return p, nil
}

func (p *Problem) validate(data domain.ProblemData) error {
	seenVehicle := make(map[string]struct{}, len(data.Vehicles))
	for _, v := range data.Vehicles {
		if _, ok := seenVehicle[v.ID]; ok {
			return &domain.DataIntegrityError{Reason: fmt.Sprintf("duplicate vehicle %q", v.ID)}
		}
		seenVehicle[v.ID] = struct{}{}

		if len(v.Tags) == 0 {
			return &domain.DataIntegrityError{Reason: fmt.Sprintf("vehicle %q has no compatibility tags", v.ID)}
		}
		if _, ok := p.locations[v.Origin]; !ok {
			return &domain.DataIntegrityError{Reason: fmt.Sprintf("vehicle %q references unknown origin location %q", v.ID, v.Origin)}
		}
		if _, ok := p.locations[v.Destination]; !ok {
			return &domain.DataIntegrityError{Reason: fmt.Sprintf("vehicle %q references unknown destination location %q", v.ID, v.Destination)}
		}
		if v.SpeedKph <= 0 {
			return &domain.DataIntegrityError{Reason: fmt.Sprintf("vehicle %q has non-positive speed", v.ID)}
		}
		if v.MaxLoad <= 0 {
			return &domain.DataIntegrityError{Reason: fmt.Sprintf("vehicle %q has non-positive max load", v.ID)}
		}
		if v.LatestEnd.Before(v.EarliestStart) {
			return &domain.DataIntegrityError{Reason: fmt.Sprintf("vehicle %q ends before it starts", v.ID)}
		}
	}

	seenOrder := make(map[string]struct{}, len(data.Orders))
	for _, o := range data.Orders {
		if _, ok := seenOrder[o.ID]; ok {
			return &domain.DataIntegrityError{Reason: fmt.Sprintf("duplicate order %q", o.ID)}
		}
		seenOrder[o.ID] = struct{}{}

		if len(o.Tags) == 0 {
			return &domain.DataIntegrityError{Reason: fmt.Sprintf("order %q has no compatibility tags", o.ID)}
		}
		if o.Quantity <= 0 {
			return &domain.DataIntegrityError{Reason: fmt.Sprintf("order %q has non-positive quantity", o.ID)}
		}
		if _, ok := p.locations[o.PickupLocation]; !ok {
			return &domain.DataIntegrityError{Reason: fmt.Sprintf("order %q references unknown pickup location %q", o.ID, o.PickupLocation)}
		}
		if _, ok := p.locations[o.DeliveryLocation]; !ok {
			return &domain.DataIntegrityError{Reason: fmt.Sprintf("order %q references unknown delivery location %q", o.ID, o.DeliveryLocation)}
		}
	}

	return nil
}

// buildDistanceMatrix fills the symmetric pairwise distance mapping for
// every ordered pair of distinct locations. Batched row lookups are
// preferred when the provider supports them, mirroring how remote matrix
// services are consumed.
func (p *Problem) buildDistanceMatrix(ctx context.Context, locations []domain.Location, provider ports.DistanceProvider) error {
	mp, hasMatrix := provider.(ports.DistanceMatrixProvider)

	for _, from := range locations {
		targets := make([]domain.Location, 0, len(locations)-1)
		for _, to := range locations {
			if to.ID != from.ID {
				targets = append(targets, to)
			}
		}
		if len(targets) == 0 {
			continue
		}

		var row map[string]float64
		if hasMatrix {
			var err error
			row, err = mp.DistanceRowKm(ctx, from, targets)
			if err != nil {
				return fmt.Errorf("build distance matrix: row from %q: %w", from.ID, err)
			}
		} else {
			row = make(map[string]float64, len(targets))
			for _, to := range targets {
				km, err := provider.DistanceKm(ctx, from, to)
				if err != nil {
					return fmt.Errorf("build distance matrix: %q -> %q: %w", from.ID, to.ID, err)
				}
				row[to.ID] = km
			}
		}

		for _, to := range targets {
			km, ok := row[to.ID]
			if !ok {
				return fmt.Errorf("build distance matrix: provider returned no distance %q -> %q", from.ID, to.ID)
			}
			if km <= 0 {
				return &domain.DataIntegrityError{Reason: fmt.Sprintf("non-positive distance %q -> %q", from.ID, to.ID)}
			}
			p.dist[from.ID+"|"+to.ID] = km
		}
	}

	return nil
}

// matchVehicles computes each vehicle's servable orders (any shared tag
// qualifies) and from those the reachable dummy nodes. This is the single
// write of the matching data; the snapshots are read-only afterwards.
func (p *Problem) matchVehicles(vehicles []domain.Vehicle) {
	ordersByTag := make(map[string][]string)
	for _, o := range p.orders {
		for _, tag := range o.Order.Tags {
			ordersByTag[tag] = append(ordersByTag[tag], o.Order.ID)
		}
	}

	for _, v := range vehicles {
		pv := &PlanVehicle{
			Vehicle:  v,
			StartSec: p.elapsedSec(v.EarliestStart),
			EndSec:   p.elapsedSec(v.LatestEnd),
		}

		servable := make(map[string]struct{})
		for _, tag := range v.Tags {
			for _, orderID := range ordersByTag[tag] {
				if _, ok := servable[orderID]; ok {
					continue
				}
				servable[orderID] = struct{}{}
				pv.ServableOrders = append(pv.ServableOrders, orderID)
			}
		}

		for _, n := range p.nodes {
			if _, ok := servable[n.OrderID]; ok {
				pv.ReachableNodes = append(pv.ReachableNodes, n.Index)
			}
		}

		p.vehicles = append(p.vehicles, pv)
	}
}

// elapsedSec converts an absolute instant to whole seconds since the base
// instant, clamping anything at or before the base to zero.
func (p *Problem) elapsedSec(t time.Time) int64 {
	if !t.After(p.base) {
		return 0
	}
	return int64(t.Sub(p.base) / time.Second)
}

func (p *Problem) Base() time.Time { return p.base }

func (p *Problem) Vehicles() []*PlanVehicle { return p.vehicles }

func (p *Problem) Orders() []*PlanOrder { return p.orders }

func (p *Problem) LocationCount() int { return len(p.locations) }

// NodeCount returns the number of dummy nodes (2 per order).
func (p *Problem) NodeCount() int { return len(p.nodes) }

// DestinationNode returns the per-vehicle destination sentinel index.
func (p *Problem) DestinationNode() int { return len(p.nodes) + 1 }

// Nodes returns the dummy nodes in index order. Shared slice; read-only.
func (p *Problem) Nodes() []domain.DummyNode { return p.nodes }

// Node returns the dummy node with the given index (1-based).
func (p *Problem) Node(index int) (domain.DummyNode, bool) {
	if index < 1 || index > len(p.nodes) {
		return domain.DummyNode{}, false
	}
	return p.nodes[index-1], true
}

// OrderByID returns the normalized order owning a dummy node.
func (p *Problem) OrderByID(id string) (*PlanOrder, bool) {
	o, ok := p.byOrderID[id]
	return o, ok
}

// DistanceKm returns the great-circle distance between two locations by ID.
// Co-located nodes resolve to the same ID and cost zero travel.
func (p *Problem) DistanceKm(fromID, toID string) float64 {
	if fromID == toID {
		return 0
	}
	return p.dist[fromID+"|"+toID]
}

// LocationOf resolves a node index to a location ID for the given vehicle:
// the origin sentinel maps to the vehicle's origin, the destination sentinel
// to its destination, and any dummy node to its stored event location.
func (p *Problem) LocationOf(v *PlanVehicle, node int) string {
	switch node {
	case domain.OriginNode:
		return v.Vehicle.Origin
	case p.DestinationNode():
		return v.Vehicle.Destination
	default:
		return p.nodes[node-1].LocationID
	}
}

// TravelTimeSec returns the travel time in whole seconds for the given
// vehicle between two node indices: round(distance / speed * 3600).
func (p *Problem) TravelTimeSec(v *PlanVehicle, from, to int) int64 {
	km := p.DistanceKm(p.LocationOf(v, from), p.LocationOf(v, to))
	return int64(math.Round(km / v.Vehicle.SpeedKph * 3600))
}

// DepartureServiceSec returns the service time charged when departing a
// node. Sentinels carry none; every dummy node charges its order's pickup
// service duration. Delivery service duration is not charged on departure
// from delivery nodes either, matching the formulation this model
// implements (see the time-propagation test).
func (p *Problem) DepartureServiceSec(node int) int64 {
	if node == domain.OriginNode || node == p.DestinationNode() {
		return 0
	}
	o := p.byOrderID[p.nodes[node-1].OrderID]
	return int64(o.Order.PickupServiceSec)
}

// DeltaAt returns the signed load change at a node: +quantity at pickups,
// -quantity at deliveries, zero at sentinels.
func (p *Problem) DeltaAt(node int) int {
	if node == domain.OriginNode || node == p.DestinationNode() {
		return 0
	}
	return p.nodes[node-1].Delta
}
