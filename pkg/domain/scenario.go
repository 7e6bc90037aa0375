package domain

// Scenario is a scripted drive: where the device starts and the
// destinations it visits in order.
type Scenario struct {
	ID              string
	Title           string
	Description     string
	Origin          LatLng
	Waypoints       []Waypoint
	Routing         RoutingOptions
	SpeedMultiplier float64
}
