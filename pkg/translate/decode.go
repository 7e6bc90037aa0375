package translate

import (
	"fmt"

	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/value"
)

// Defaults applied before host options are decoded. They match what the
// rendering engine uses when an option is left out.
const (
	defaultStrokeWidth = 10.0
)

// DecodeMarker builds marker options, applying defaults for omitted fields.
func DecodeMarker(v value.Value) (domain.Marker, error) {
	m := domain.Marker{Alpha: 1, Visible: true}
	if err := decodeInto(v, &m); err != nil {
		return domain.Marker{}, fmt.Errorf("marker: %w", err)
	}
	return m, nil
}

func DecodePolyline(v value.Value) (domain.Polyline, error) {
	p := domain.Polyline{Width: defaultStrokeWidth, Visible: true}
	if err := decodeInto(v, &p); err != nil {
		return domain.Polyline{}, fmt.Errorf("polyline: %w", err)
	}
	return p, nil
}

func DecodePolygon(v value.Value) (domain.Polygon, error) {
	p := domain.Polygon{StrokeWidth: defaultStrokeWidth, Visible: true}
	if err := decodeInto(v, &p); err != nil {
		return domain.Polygon{}, fmt.Errorf("polygon: %w", err)
	}
	return p, nil
}

func DecodeCircle(v value.Value) (domain.Circle, error) {
	c := domain.Circle{StrokeWidth: defaultStrokeWidth, Visible: true}
	if err := decodeInto(v, &c); err != nil {
		return domain.Circle{}, fmt.Errorf("circle: %w", err)
	}
	return c, nil
}

// DecodeGroundOverlay builds ground overlay options. When only bounds are
// given, the position defaults to their center.
func DecodeGroundOverlay(v value.Value) (domain.GroundOverlay, error) {
	g := domain.GroundOverlay{Visible: true}
	if err := decodeInto(v, &g); err != nil {
		return domain.GroundOverlay{}, fmt.Errorf("ground overlay: %w", err)
	}
	if g.Bounds != nil && v.Get("position").IsNull() {
		g.Position = g.Bounds.Center()
	}
	return g, nil
}

// DecodeWaypoints reads a sequence of waypoint mappings.
func DecodeWaypoints(v value.Value) ([]domain.Waypoint, error) {
	items, ok := v.AsSequence()
	if !ok {
		return nil, fmt.Errorf("waypoints: %w: expected sequence, got %s", domain.ErrInvalidArgument, v.Kind())
	}
	out := make([]domain.Waypoint, 0, len(items))
	for i, item := range items {
		var w domain.Waypoint
		if err := decodeInto(item, &w); err != nil {
			return nil, fmt.Errorf("waypoint %d: %w", i, err)
		}
		out = append(out, w)
	}
	return out, nil
}

func DecodeRoutingOptions(v value.Value) (domain.RoutingOptions, error) {
	var o domain.RoutingOptions
	if err := decodeInto(v, &o); err != nil {
		return domain.RoutingOptions{}, fmt.Errorf("routing options: %w", err)
	}
	return o, nil
}

// DecodeDisplayOptions defaults to showing destination markers.
func DecodeDisplayOptions(v value.Value) (domain.DisplayOptions, error) {
	o := domain.DisplayOptions{ShowDestinationMarkers: true}
	if err := decodeInto(v, &o); err != nil {
		return domain.DisplayOptions{}, fmt.Errorf("display options: %w", err)
	}
	return o, nil
}

func DecodeSpeedAlertOptions(v value.Value) (domain.SpeedAlertOptions, error) {
	var o domain.SpeedAlertOptions
	if err := decodeInto(v, &o); err != nil {
		return domain.SpeedAlertOptions{}, fmt.Errorf("speed alert options: %w", err)
	}
	return o, nil
}

// DecodeCameraPosition reads a camera over the given current position, so
// a partial update such as {zoom: 15} keeps the current target.
func DecodeCameraPosition(v value.Value, current domain.CameraPosition) (domain.CameraPosition, error) {
	c := current
	if err := decodeInto(v, &c); err != nil {
		return domain.CameraPosition{}, fmt.Errorf("camera position: %w", err)
	}
	return c, nil
}

func DecodePadding(v value.Value) (domain.Padding, error) {
	var p domain.Padding
	if err := decodeInto(v, &p); err != nil {
		return domain.Padding{}, fmt.Errorf("padding: %w", err)
	}
	return p, nil
}
