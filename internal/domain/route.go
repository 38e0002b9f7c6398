package domain

// StopKind classifies a stop within an extracted vehicle route.
type StopKind string

const (
	StopOrigin      StopKind = "origin"
	StopPickup      StopKind = "pickup"
	StopDelivery    StopKind = "delivery"
	StopDestination StopKind = "destination"
)

// Represents a single visited node in a solved vehicle route, together with
// the solver's schedule values at that node.
type RouteStop struct {
	Node       int
	Kind       StopKind
	OrderID    string // empty for sentinel stops
	LocationID string
	ArrivalSec int64   // seconds since the problem base instant
	WaitSec    int64   // idle time before service begins
	Load       float64 // cumulative load after service at this node
}

// Represents the ordered stop sequence recovered for one vehicle from the
// solved arc variables. Immutable planning data; no side effects.
type VehicleRoute struct {
	VehicleID  string
	Stops      []RouteStop
	DistanceKm float64
}

// PlanStatus tags a solved plan as proven optimal or as the best incumbent
// found within the solver's budget.
type PlanStatus string

const (
	PlanOptimal    PlanStatus = "optimal"
	PlanNonOptimal PlanStatus = "non_optimal"
)

// Represents the full output of one solve: a route per vehicle plus the
// transport-cost objective achieved.
type TransportPlan struct {
	ID        string
	Status    PlanStatus
	Objective float64
	Routes    []VehicleRoute
}
