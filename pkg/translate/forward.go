package translate

import (
	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/value"
)

// Coordinate translates to {latitude, longitude}.
func Coordinate(p domain.LatLng) value.Value {
	return value.Map(value.NewMapping().
		Set("latitude", value.Double(p.Lat)).
		Set("longitude", value.Double(p.Lng)))
}

func optionalCoordinate(p *domain.LatLng) value.Value {
	if p == nil {
		return value.Null()
	}
	return Coordinate(*p)
}

// Path translates to a sequence of coordinates. An empty path is an empty sequence.
func Path(path domain.Path) value.Value {
	items := make([]value.Value, len(path))
	for i, p := range path {
		items[i] = Coordinate(p)
	}
	return value.Sequence(items...)
}

func Bounds(b domain.LatLngBounds) value.Value {
	return value.Map(value.NewMapping().
		Set("northEast", Coordinate(b.NorthEast)).
		Set("southWest", Coordinate(b.SouthWest)))
}

func Waypoint(w domain.Waypoint) value.Value {
	return value.Map(value.NewMapping().
		Set("title", value.OptionalString(w.Title)).
		Set("placeId", value.OptionalString(w.PlaceID)).
		Set("position", optionalCoordinate(w.Position)).
		Set("preferredHeading", value.OptionalInt(w.PreferredHeading)).
		Set("vehicleStopover", value.Bool(w.VehicleStopover)).
		Set("preferSameSideOfRoad", value.Bool(w.PreferSameSideOfRoad)))
}

func optionalWaypoint(w *domain.Waypoint) value.Value {
	if w == nil {
		return value.Null()
	}
	return Waypoint(*w)
}

// Location translates a position fix. Optional sensor readings become null.
func Location(l domain.Location) value.Value {
	return value.Map(value.NewMapping().
		Set("latitude", value.Double(l.Lat)).
		Set("longitude", value.Double(l.Lng)).
		Set("time", value.Int(l.Time)).
		Set("speed", value.Double(l.Speed)).
		Set("provider", value.OptionalString(l.Provider)).
		Set("bearing", value.OptionalDouble(l.Bearing)).
		Set("accuracy", value.OptionalDouble(l.Accuracy)).
		Set("altitude", value.OptionalDouble(l.Altitude)).
		Set("verticalAccuracy", value.OptionalDouble(l.VerticalAccuracy)))
}

// RouteSegment translates one leg of the route.
func RouteSegment(s domain.RouteSegment) value.Value {
	return value.Map(value.NewMapping().
		Set("destinationLatLng", Coordinate(s.Destination)).
		Set("destinationWaypoint", optionalWaypoint(s.DestinationWaypoint)).
		Set("segmentLatLngList", Path(s.Points)).
		Set("navigationTrafficData", trafficData(s.Traffic)))
}

// RouteSegments translates a list of legs in order.
func RouteSegments(segments []domain.RouteSegment) value.Value {
	items := make([]value.Value, len(segments))
	for i, s := range segments {
		items[i] = RouteSegment(s)
	}
	return value.Sequence(items...)
}

func trafficData(t *domain.TrafficData) value.Value {
	if t == nil {
		return value.Null()
	}
	stretches := make([]value.Value, len(t.Stretches))
	for i, s := range t.Stretches {
		stretches[i] = value.Map(value.NewMapping().
			Set("style", value.Int(int64(s.Style))).
			Set("lengthMeters", value.Int(s.LengthMeters)).
			Set("offsetMeters", value.Int(s.OffsetMeters)))
	}
	return value.Map(value.NewMapping().
		Set("routeStatus", value.Int(int64(t.Status))).
		Set("roadStretchRenderingDataList", value.Sequence(stretches...)))
}

func StepInfo(s domain.StepInfo) value.Value {
	return value.Map(value.NewMapping().
		Set("distanceFromPrevStepMeters", value.Int(s.DistanceFromPrevStepMeters)).
		Set("timeFromPrevStepSeconds", value.Int(s.TimeFromPrevStepSeconds)).
		Set("drivingSide", value.Int(int64(s.DrivingSide))).
		Set("stepNumber", value.Int(s.StepNumber)).
		Set("maneuver", value.Int(s.Maneuver)).
		Set("roundaboutTurnNumber", value.OptionalInt(s.RoundaboutTurnNumber)).
		Set("exitNumber", value.OptionalString(s.ExitNumber)).
		Set("fullRoadName", value.OptionalString(s.FullRoadName)).
		Set("fullInstructionText", value.OptionalString(s.FullInstructionText)))
}

// NavInfo translates a turn-by-turn snapshot including its remaining steps.
func NavInfo(n domain.NavInfo) value.Value {
	current := value.Null()
	if n.CurrentStep != nil {
		current = StepInfo(*n.CurrentStep)
	}
	steps := make([]value.Value, len(n.RemainingSteps))
	for i, s := range n.RemainingSteps {
		steps[i] = StepInfo(s)
	}
	return value.Map(value.NewMapping().
		Set("navState", value.Int(int64(n.State))).
		Set("routeChanged", value.Bool(n.RouteChanged)).
		Set("distanceToCurrentStepMeters", value.OptionalInt(n.DistanceToCurrentStepMeters)).
		Set("distanceToFinalDestinationMeters", value.OptionalInt(n.DistanceToFinalDestinationMeters)).
		Set("distanceToNextDestinationMeters", value.OptionalInt(n.DistanceToNextDestinationMeters)).
		Set("timeToCurrentStepSeconds", value.OptionalInt(n.TimeToCurrentStepSeconds)).
		Set("timeToFinalDestinationSeconds", value.OptionalInt(n.TimeToFinalDestinationSeconds)).
		Set("timeToNextDestinationSeconds", value.OptionalInt(n.TimeToNextDestinationSeconds)).
		Set("currentStep", current).
		Set("remainingSteps", value.Sequence(steps...)))
}

func TimeAndDistance(t domain.TimeAndDistance) value.Value {
	return value.Map(value.NewMapping().
		Set("meters", value.Int(t.Meters)).
		Set("seconds", value.Int(t.Seconds)).
		Set("delaySeverity", value.Int(int64(t.DelaySeverity))))
}

func RoutingOptions(o domain.RoutingOptions) value.Value {
	return value.Map(value.NewMapping().
		Set("travelMode", value.Int(int64(o.TravelMode))).
		Set("avoidTolls", value.Bool(o.AvoidTolls)).
		Set("avoidFerries", value.Bool(o.AvoidFerries)).
		Set("avoidHighways", value.Bool(o.AvoidHighways)).
		Set("locationTimeoutMs", value.Int(o.LocationTimeoutMs)))
}

func CameraPosition(c domain.CameraPosition) value.Value {
	return value.Map(value.NewMapping().
		Set("target", Coordinate(c.Target)).
		Set("zoom", value.Double(c.Zoom)).
		Set("tilt", value.Double(c.Tilt)).
		Set("bearing", value.Double(c.Bearing)))
}

func Marker(m domain.Marker) value.Value {
	return value.Map(value.NewMapping().
		Set("id", value.String(m.ID)).
		Set("position", Coordinate(m.Position)).
		Set("title", value.OptionalString(m.Title)).
		Set("snippet", value.OptionalString(m.Snippet)).
		Set("rotation", value.Double(m.Rotation)).
		Set("alpha", value.Double(m.Alpha)).
		Set("flat", value.Bool(m.Flat)).
		Set("draggable", value.Bool(m.Draggable)).
		Set("zIndex", value.OptionalDouble(m.ZIndex)))
}

func Polyline(p domain.Polyline) value.Value {
	return value.Map(value.NewMapping().
		Set("id", value.String(p.ID)).
		Set("points", Path(p.Points)).
		Set("width", value.Double(p.Width)).
		Set("color", value.OptionalString(p.Color)).
		Set("clickable", value.Bool(p.Clickable)).
		Set("geodesic", value.Bool(p.Geodesic)).
		Set("visible", value.Bool(p.Visible)).
		Set("zIndex", value.OptionalDouble(p.ZIndex)))
}

func Polygon(p domain.Polygon) value.Value {
	holes := make([]value.Value, len(p.Holes))
	for i, h := range p.Holes {
		holes[i] = Path(h)
	}
	return value.Map(value.NewMapping().
		Set("id", value.String(p.ID)).
		Set("points", Path(p.Points)).
		Set("holes", value.Sequence(holes...)).
		Set("fillColor", value.OptionalString(p.FillColor)).
		Set("strokeColor", value.OptionalString(p.StrokeColor)).
		Set("strokeWidth", value.Double(p.StrokeWidth)).
		Set("clickable", value.Bool(p.Clickable)).
		Set("geodesic", value.Bool(p.Geodesic)).
		Set("visible", value.Bool(p.Visible)).
		Set("zIndex", value.OptionalDouble(p.ZIndex)))
}

func Circle(c domain.Circle) value.Value {
	return value.Map(value.NewMapping().
		Set("id", value.String(c.ID)).
		Set("center", Coordinate(c.Center)).
		Set("radius", value.Double(c.Radius)).
		Set("strokeWidth", value.Double(c.StrokeWidth)).
		Set("strokeColor", value.OptionalString(c.StrokeColor)).
		Set("fillColor", value.OptionalString(c.FillColor)).
		Set("clickable", value.Bool(c.Clickable)).
		Set("visible", value.Bool(c.Visible)).
		Set("zIndex", value.OptionalDouble(c.ZIndex)))
}

func GroundOverlay(g domain.GroundOverlay) value.Value {
	bounds := value.Null()
	if g.Bounds != nil {
		bounds = Bounds(*g.Bounds)
	}
	return value.Map(value.NewMapping().
		Set("id", value.String(g.ID)).
		Set("position", Coordinate(g.Position)).
		Set("bounds", bounds).
		Set("width", value.Double(g.Width)).
		Set("height", value.Double(g.Height)).
		Set("bearing", value.Double(g.Bearing)).
		Set("transparency", value.Double(g.Transparency)).
		Set("clickable", value.Bool(g.Clickable)).
		Set("visible", value.Bool(g.Visible)).
		Set("zIndex", value.OptionalDouble(g.ZIndex)))
}
