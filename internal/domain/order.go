package domain

import "time"

// Represents a transport order: a quantity picked up at one location and
// delivered at another, each within a time window. Immutable after
// construction.
type Order struct {
	ID       string
	Tags     []string
	Quantity int // positive; pickup adds +Quantity, delivery removes it

	PickupLocation   string // location ID
	PickupServiceSec int
	PickupStart      time.Time
	PickupEnd        time.Time

	DeliveryLocation   string // location ID
	DeliveryServiceSec int
	DeliveryStart      time.Time
	DeliveryEnd        time.Time
}

// ProblemData is the raw output of the input boundary: entity rows in their
// given sequence. Slice order is load-bearing: dummy-node indices are
// assigned by order sequence.
type ProblemData struct {
	Locations []Location
	Vehicles  []Vehicle
	Orders    []Order
}
