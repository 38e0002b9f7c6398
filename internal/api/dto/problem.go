package dto

type NodeResponse struct {
	Index      int    `json:"index"`
	Kind       string `json:"kind"`
	OrderID    string `json:"order_id"`
	LocationID string `json:"location_id"`
	Delta      int    `json:"delta"`
}

type ProblemResponse struct {
	BaseInstant     string         `json:"base_instant"`
	LocationCount   int            `json:"location_count"`
	VehicleCount    int            `json:"vehicle_count"`
	OrderCount      int            `json:"order_count"`
	NodeCount       int            `json:"node_count"`
	DestinationNode int            `json:"destination_node"`
	Nodes           []NodeResponse `json:"nodes"`
}

type VehicleCompatResponse struct {
	VehicleID      string   `json:"vehicle_id"`
	Tags           []string `json:"tags"`
	ServableOrders []string `json:"servable_orders"`
	ReachableNodes []int    `json:"reachable_nodes"`
}

type CompatResponse struct {
	Vehicles []VehicleCompatResponse `json:"vehicles"`
}
