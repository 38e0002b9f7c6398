package domain

// OriginNode is the per-vehicle virtual origin. Its resolved location is the
// vehicle's own origin location; the destination sentinel (dummy node count
// + 1) resolves to the vehicle's destination location.
const OriginNode = 0

// DummyNode is a virtual graph node representing a single pickup or delivery
// event for one order. Indices start at 1 and are assigned in order
// sequence: order k's pickup node is odd and its delivery node is exactly
// pickup+1. The index parity is load-bearing for constraint generation.
type DummyNode struct {
	Index      int
	OrderID    string
	LocationID string
	Delta      int // +quantity at a pickup node, -quantity at a delivery node
}

// IsPickup reports whether the node represents a pickup event.
func (n DummyNode) IsPickup() bool { return n.Index%2 == 1 }

// PairedNode returns the index of the node completing this node's order:
// the delivery for a pickup, the pickup for a delivery.
func (n DummyNode) PairedNode() int {
	if n.IsPickup() {
		return n.Index + 1
	}
	return n.Index - 1
}
