package dto

import "time"

type PlanRequest struct {
	TimeLimitSec int `json:"time_limit_sec"`
}

type StopResponse struct {
	Node       int       `json:"node"`
	Kind       string    `json:"kind"`
	OrderID    string    `json:"order_id,omitempty"`
	LocationID string    `json:"location_id"`
	ArriveAt   time.Time `json:"arrive_at"`
	WaitSec    int64     `json:"wait_sec"`
	Load       float64   `json:"load"`
}

type RouteResponse struct {
	VehicleID  string         `json:"vehicle_id"`
	DistanceKm float64        `json:"distance_km"`
	Stops      []StopResponse `json:"stops"`
}

type PlanResponse struct {
	PlanID    string          `json:"plan_id"`
	Status    string          `json:"status"`
	Objective float64         `json:"objective"`
	Routes    []RouteResponse `json:"routes"`
}

type ConstraintDiagnosticResponse struct {
	Name     string   `json:"name"`
	Activity *float64 `json:"activity,omitempty"`
	Violated bool     `json:"violated"`
}

type InfeasibleResponse struct {
	Error       string                         `json:"error"`
	Constraints []ConstraintDiagnosticResponse `json:"constraints"`
}
