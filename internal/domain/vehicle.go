package domain

import "time"

// Represents a vehicle as loaded from the input boundary.
// Time fields are absolute instants; the problem store normalizes them to
// elapsed seconds from the fleet-wide base instant. Static once loaded:
// derived matching data (servable orders, reachable nodes) lives in the
// problem store, not here.
type Vehicle struct {
	ID               string
	Origin           string // location ID
	Destination      string // location ID
	EarliestStart    time.Time
	LatestEnd        time.Time
	MaxDistanceKm    float64
	MaxDurationHours float64
	Tags             []string
	SpeedKph         float64
	MaxLoad          int
	UnitCost         float64 // cost per kilometer traveled
}
