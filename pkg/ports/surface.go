package ports

import "github.com/aretw0/navbridge/pkg/domain"

// MapSurface is one native rendering view.
// Add methods return the created object with NativeID filled in.
type MapSurface interface {
	AttachNavigator(Navigator) error
	DetachNavigator()

	AddMarker(domain.Marker) (domain.Marker, error)
	AddPolyline(domain.Polyline) (domain.Polyline, error)
	AddPolygon(domain.Polygon) (domain.Polygon, error)
	AddCircle(domain.Circle) (domain.Circle, error)
	AddGroundOverlay(domain.GroundOverlay) (domain.GroundOverlay, error)
	RemoveOverlay(kind domain.OverlayKind, nativeID string)
	Clear()

	CameraPosition() domain.CameraPosition
	MoveCamera(domain.CameraPosition)
	AnimateCamera(pos domain.CameraPosition, durationMs int64)
	SetMinZoomLevel(float64)
	SetMaxZoomLevel(float64)
	FollowMyLocation(domain.CameraPerspective)

	SetToggle(domain.Toggle, bool)
	SetMapType(domain.MapType)
	SetMapStyle(styleJSON string) error
	SetPadding(domain.Padding)

	SetListener(SurfaceListener)
}

// SurfaceListener receives user interaction on a surface.
// Overlays are identified by their native id.
type SurfaceListener interface {
	OnMapReady()
	OnMapClick(domain.LatLng)
	OnMarkerClick(nativeID string)
	OnMarkerInfoWindowTapped(nativeID string)
	OnOverlayClick(kind domain.OverlayKind, nativeID string)
	OnRecenterButtonClick()
	OnPromptVisibilityChanged(visible bool)
}

// SurfaceFactory creates native surfaces for hosts that cannot hand one in,
// such as the HTTP and MCP adapters.
type SurfaceFactory interface {
	NewSurface(id string) (MapSurface, error)
}
