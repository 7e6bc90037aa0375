package memory

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/ports"
)

var _ ports.MapSurface = (*Surface)(nil)

// Surface is an in-memory map view. Native ids are "<kind>-<n>". The
// Click and Tap helpers play the part of a user touching the view.
type Surface struct {
	id string

	mu        sync.Mutex
	navigator ports.Navigator
	seq       int
	objects   map[string]domain.OverlayKind
	camera    domain.CameraPosition
	minZoom   float64
	maxZoom   float64
	following *domain.CameraPerspective
	toggles   map[domain.Toggle]bool
	mapType   domain.MapType
	style     string
	padding   domain.Padding
	listener  ports.SurfaceListener
}

// NewSurface creates a detached, empty view.
func NewSurface(id string) *Surface {
	return &Surface{
		id:      id,
		objects: make(map[string]domain.OverlayKind),
		camera:  domain.CameraPosition{Zoom: 15},
		minZoom: 2,
		maxZoom: 21,
		toggles: make(map[domain.Toggle]bool),
		mapType: domain.MapTypeNormal,
	}
}

func (s *Surface) ID() string { return s.id }

func (s *Surface) AttachNavigator(nav ports.Navigator) error {
	if nav == nil {
		return fmt.Errorf("%w: nil navigator", domain.ErrInvalidArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navigator = nav
	return nil
}

func (s *Surface) DetachNavigator() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navigator = nil
	s.following = nil
}

// Navigator returns the attached navigator, or nil.
func (s *Surface) Navigator() ports.Navigator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.navigator
}

func (s *Surface) place(kind domain.OverlayKind) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	id := fmt.Sprintf("%s-%d", kind, s.seq)
	s.objects[id] = kind
	return id
}

func (s *Surface) AddMarker(m domain.Marker) (domain.Marker, error) {
	m.NativeID = s.place(domain.OverlayMarker)
	return m, nil
}

func (s *Surface) AddPolyline(p domain.Polyline) (domain.Polyline, error) {
	if len(p.Points) < 2 {
		return p, fmt.Errorf("%w: polyline needs at least two points", domain.ErrInvalidArgument)
	}
	p.NativeID = s.place(domain.OverlayPolyline)
	return p, nil
}

func (s *Surface) AddPolygon(p domain.Polygon) (domain.Polygon, error) {
	if len(p.Points) < 3 {
		return p, fmt.Errorf("%w: polygon needs at least three points", domain.ErrInvalidArgument)
	}
	p.NativeID = s.place(domain.OverlayPolygon)
	return p, nil
}

func (s *Surface) AddCircle(c domain.Circle) (domain.Circle, error) {
	if c.Radius < 0 {
		return c, fmt.Errorf("%w: negative radius", domain.ErrInvalidArgument)
	}
	c.NativeID = s.place(domain.OverlayCircle)
	return c, nil
}

func (s *Surface) AddGroundOverlay(g domain.GroundOverlay) (domain.GroundOverlay, error) {
	g.NativeID = s.place(domain.OverlayGroundOverlay)
	return g, nil
}

func (s *Surface) RemoveOverlay(kind domain.OverlayKind, nativeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.objects[nativeID] == kind {
		delete(s.objects, nativeID)
	}
}

func (s *Surface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.objects)
}

// Objects counts the overlays drawn on the view.
func (s *Surface) Objects() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// Has reports whether nativeID is drawn.
func (s *Surface) Has(nativeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[nativeID]
	return ok
}

func (s *Surface) CameraPosition() domain.CameraPosition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.camera
}

func (s *Surface) MoveCamera(pos domain.CameraPosition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos.Zoom = min(max(pos.Zoom, s.minZoom), s.maxZoom)
	s.camera = pos
	s.following = nil
}

// AnimateCamera jumps straight to the end position.
func (s *Surface) AnimateCamera(pos domain.CameraPosition, _ int64) {
	s.MoveCamera(pos)
}

func (s *Surface) SetMinZoomLevel(z float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.minZoom = z
}

func (s *Surface) SetMaxZoomLevel(z float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxZoom = z
}

func (s *Surface) FollowMyLocation(p domain.CameraPerspective) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.following = &p
}

// Following returns the perspective of an active follow mode.
func (s *Surface) Following() (domain.CameraPerspective, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.following == nil {
		return 0, false
	}
	return *s.following, true
}

func (s *Surface) SetToggle(t domain.Toggle, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toggles[t] = enabled
}

func (s *Surface) Toggle(t domain.Toggle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toggles[t]
}

func (s *Surface) SetMapType(t domain.MapType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mapType = t
}

func (s *Surface) MapType() domain.MapType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mapType
}

// SetMapStyle accepts any JSON document.
func (s *Surface) SetMapStyle(styleJSON string) error {
	if !json.Valid([]byte(styleJSON)) {
		return fmt.Errorf("%w: map style is not valid JSON", domain.ErrInvalidArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.style = styleJSON
	return nil
}

func (s *Surface) MapStyle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.style
}

func (s *Surface) SetPadding(p domain.Padding) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.padding = p
}

func (s *Surface) Padding() domain.Padding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.padding
}

func (s *Surface) SetListener(l ports.SurfaceListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = l
}

func (s *Surface) notify(fn func(ports.SurfaceListener)) {
	s.mu.Lock()
	l := s.listener
	s.mu.Unlock()
	if l != nil {
		fn(l)
	}
}

// Ready reports the view as loaded.
func (s *Surface) Ready() {
	s.notify(func(l ports.SurfaceListener) { l.OnMapReady() })
}

func (s *Surface) ClickMap(p domain.LatLng) {
	s.notify(func(l ports.SurfaceListener) { l.OnMapClick(p) })
}

// ClickOverlay taps a drawn object. Markers report through OnMarkerClick.
func (s *Surface) ClickOverlay(nativeID string) {
	s.mu.Lock()
	kind, ok := s.objects[nativeID]
	s.mu.Unlock()
	if !ok {
		return
	}
	if kind == domain.OverlayMarker {
		s.notify(func(l ports.SurfaceListener) { l.OnMarkerClick(nativeID) })
		return
	}
	s.notify(func(l ports.SurfaceListener) { l.OnOverlayClick(kind, nativeID) })
}

func (s *Surface) TapInfoWindow(nativeID string) {
	s.notify(func(l ports.SurfaceListener) { l.OnMarkerInfoWindowTapped(nativeID) })
}

func (s *Surface) ClickRecenter() {
	s.notify(func(l ports.SurfaceListener) { l.OnRecenterButtonClick() })
}

func (s *Surface) SetPromptVisible(visible bool) {
	s.notify(func(l ports.SurfaceListener) { l.OnPromptVisibilityChanged(visible) })
}
