// Package translate converts native navigation objects into tagged values
// and back.
//
// Forward translations never fail: every object kind has a fixed key set and
// missing optional fields become null. Inverse helpers read host-supplied
// values into native coordinates, paths and overlay options.
package translate

import (
	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/value"
)

// Translate dispatches any supported native object to its translation.
// Nil pointers and unsupported kinds translate to null.
func Translate(obj any) value.Value {
	switch o := obj.(type) {
	case nil:
		return value.Null()
	case value.Value:
		return o
	case domain.LatLng:
		return Coordinate(o)
	case *domain.LatLng:
		return optionalCoordinate(o)
	case domain.LatLngBounds:
		return Bounds(o)
	case domain.Path:
		return Path(o)
	case []domain.LatLng:
		return Path(o)
	case domain.Waypoint:
		return Waypoint(o)
	case *domain.Waypoint:
		return optionalWaypoint(o)
	case domain.Location:
		return Location(o)
	case *domain.Location:
		return deref(o, Location)
	case domain.RouteSegment:
		return RouteSegment(o)
	case *domain.RouteSegment:
		return deref(o, RouteSegment)
	case []domain.RouteSegment:
		return RouteSegments(o)
	case domain.StepInfo:
		return StepInfo(o)
	case domain.NavInfo:
		return NavInfo(o)
	case *domain.NavInfo:
		return deref(o, NavInfo)
	case domain.TimeAndDistance:
		return TimeAndDistance(o)
	case *domain.TimeAndDistance:
		return deref(o, TimeAndDistance)
	case domain.CameraPosition:
		return CameraPosition(o)
	case domain.Marker:
		return Marker(o)
	case *domain.Marker:
		return deref(o, Marker)
	case domain.Polyline:
		return Polyline(o)
	case *domain.Polyline:
		return deref(o, Polyline)
	case domain.Polygon:
		return Polygon(o)
	case *domain.Polygon:
		return deref(o, Polygon)
	case domain.Circle:
		return Circle(o)
	case *domain.Circle:
		return deref(o, Circle)
	case domain.GroundOverlay:
		return GroundOverlay(o)
	case *domain.GroundOverlay:
		return deref(o, GroundOverlay)
	}
	return value.Null()
}

func deref[T any](p *T, fn func(T) value.Value) value.Value {
	if p == nil {
		return value.Null()
	}
	return fn(*p)
}
