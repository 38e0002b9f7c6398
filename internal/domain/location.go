package domain

// Represents a physical point referenced by vehicles and orders.
// Immutable once loaded.
type Location struct {
	ID    string
	Coord Coordinates
}
