package surface

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/navbridge/internal/logging"
	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/events"
	"github.com/aretw0/navbridge/pkg/observability"
	"github.com/aretw0/navbridge/pkg/ports"
	"github.com/aretw0/navbridge/pkg/translate"
	"github.com/aretw0/navbridge/pkg/value"
)

var _ ports.SurfaceListener = (*Binding)(nil)

// Binding adapts one native map surface: it attaches the surface to the
// shared session, owns the surface's overlay registries and reports
// interaction events through its own tap.
type Binding struct {
	id     string
	native ports.MapSurface
	tap    *events.Tap

	mu        sync.Mutex
	navigator ports.Navigator

	markers        *overlays[domain.Marker]
	polylines      *overlays[domain.Polyline]
	polygons       *overlays[domain.Polygon]
	circles        *overlays[domain.Circle]
	groundOverlays *overlays[domain.GroundOverlay]

	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option configures a Binding.
type Option func(*Binding)

func WithLogger(logger *slog.Logger) Option {
	return func(b *Binding) {
		b.logger = logger
	}
}

func WithMetrics(metrics *observability.Metrics) Option {
	return func(b *Binding) {
		b.metrics = metrics
	}
}

// New binds a native surface and installs the binding as its listener.
func New(id string, native ports.MapSurface, opts ...Option) *Binding {
	b := &Binding{
		id:             id,
		native:         native,
		markers:        newMarkers(),
		polylines:      newPolylines(),
		polygons:       newPolygons(),
		circles:        newCircles(),
		groundOverlays: newGroundOverlays(),
		logger:         logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With("surface_id", id)
	b.tap = events.NewTap(events.WithLogger(b.logger), events.WithMetrics(b.metrics))
	native.SetListener(b)
	return b
}

func (b *Binding) ID() string { return b.id }

// AttachSession connects the native surface to the navigator.
func (b *Binding) AttachSession(nav ports.Navigator) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.native.AttachNavigator(nav); err != nil {
		return err
	}
	b.navigator = nav
	return nil
}

// DetachSession disconnects the native surface from the session.
func (b *Binding) DetachSession() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.navigator == nil {
		return
	}
	b.native.DetachNavigator()
	b.navigator = nil
}

// Attached reports whether the surface is bound to a session.
func (b *Binding) Attached() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.navigator != nil
}

// SetConsumer routes this surface's interaction events to c.
func (b *Binding) SetConsumer(c events.Consumer) { b.tap.Register(c) }

func (b *Binding) ClearConsumer() { b.tap.Clear() }

// Close removes every overlay and stops event delivery. The binding must
// already be detached from the session.
func (b *Binding) Close() {
	b.ClearMap()
	b.tap.Clear()
	b.native.SetListener(nil)
}

// Overlay commands. Add returns the created entity as the caller should see
// it, including a generated id when none was given. Ids are unique per kind;
// reusing one fails with domain.ErrDuplicateID.

func (b *Binding) AddMarker(opts value.Value) (value.Value, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.markers.add(b, opts)
}

func (b *Binding) AddPolyline(opts value.Value) (value.Value, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.polylines.add(b, opts)
}

func (b *Binding) AddPolygon(opts value.Value) (value.Value, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.polygons.add(b, opts)
}

func (b *Binding) AddCircle(opts value.Value) (value.Value, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.circles.add(b, opts)
}

func (b *Binding) AddGroundOverlay(opts value.Value) (value.Value, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.groundOverlays.add(b, opts)
}

// Remove commands report false for ids that are not registered.

func (b *Binding) RemoveMarker(id string) bool {
	return b.RemoveOverlay(domain.OverlayMarker, id)
}

func (b *Binding) RemovePolyline(id string) bool {
	return b.RemoveOverlay(domain.OverlayPolyline, id)
}

func (b *Binding) RemovePolygon(id string) bool {
	return b.RemoveOverlay(domain.OverlayPolygon, id)
}

func (b *Binding) RemoveCircle(id string) bool {
	return b.RemoveOverlay(domain.OverlayCircle, id)
}

func (b *Binding) RemoveGroundOverlay(id string) bool {
	return b.RemoveOverlay(domain.OverlayGroundOverlay, id)
}

// AddOverlay dispatches on kind, for adapters that take the kind as input.
func (b *Binding) AddOverlay(kind domain.OverlayKind, opts value.Value) (value.Value, error) {
	switch kind {
	case domain.OverlayMarker:
		return b.AddMarker(opts)
	case domain.OverlayPolyline:
		return b.AddPolyline(opts)
	case domain.OverlayPolygon:
		return b.AddPolygon(opts)
	case domain.OverlayCircle:
		return b.AddCircle(opts)
	case domain.OverlayGroundOverlay:
		return b.AddGroundOverlay(opts)
	}
	return value.Null(), fmt.Errorf("%w: overlay kind %q", domain.ErrInvalidArgument, kind)
}

// RemoveOverlay removes by kind and id. Unknown kinds report false.
func (b *Binding) RemoveOverlay(kind domain.OverlayKind, id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch kind {
	case domain.OverlayMarker:
		return b.markers.remove(b, id)
	case domain.OverlayPolyline:
		return b.polylines.remove(b, id)
	case domain.OverlayPolygon:
		return b.polygons.remove(b, id)
	case domain.OverlayCircle:
		return b.circles.remove(b, id)
	case domain.OverlayGroundOverlay:
		return b.groundOverlays.remove(b, id)
	}
	return false
}

// Overlays lists the entities of one kind in insertion order.
func (b *Binding) Overlays(kind domain.OverlayKind) (value.Value, error) {
	switch kind {
	case domain.OverlayMarker:
		return b.markers.list(), nil
	case domain.OverlayPolyline:
		return b.polylines.list(), nil
	case domain.OverlayPolygon:
		return b.polygons.list(), nil
	case domain.OverlayCircle:
		return b.circles.list(), nil
	case domain.OverlayGroundOverlay:
		return b.groundOverlays.list(), nil
	}
	return value.Null(), fmt.Errorf("%w: overlay kind %q", domain.ErrInvalidArgument, kind)
}

func (b *Binding) Markers() value.Value        { return b.markers.list() }
func (b *Binding) Polylines() value.Value      { return b.polylines.list() }
func (b *Binding) Polygons() value.Value       { return b.polygons.list() }
func (b *Binding) Circles() value.Value        { return b.circles.list() }
func (b *Binding) GroundOverlays() value.Value { return b.groundOverlays.list() }

// ClearMap removes every overlay from the native surface and the registries.
func (b *Binding) ClearMap() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.native.Clear()
	b.markers.reset(b)
	b.polylines.reset(b)
	b.polygons.reset(b)
	b.circles.reset(b)
	b.groundOverlays.reset(b)
}

// Camera commands. Partial positions keep the fields they omit.

func (b *Binding) CameraPosition() value.Value {
	return translate.CameraPosition(b.native.CameraPosition())
}

func (b *Binding) MoveCamera(pos value.Value) error {
	c, err := translate.DecodeCameraPosition(pos, b.native.CameraPosition())
	if err != nil {
		return err
	}
	b.native.MoveCamera(c)
	return nil
}

func (b *Binding) AnimateCamera(pos value.Value, durationMs int64) error {
	c, err := translate.DecodeCameraPosition(pos, b.native.CameraPosition())
	if err != nil {
		return err
	}
	b.native.AnimateCamera(c, durationMs)
	return nil
}

func (b *Binding) SetZoomLevel(zoom float64) {
	c := b.native.CameraPosition()
	c.Zoom = zoom
	b.native.MoveCamera(c)
}

// SetZoomBounds sets the minimum and maximum zoom. A minimum above the
// maximum is rejected.
func (b *Binding) SetZoomBounds(minZoom, maxZoom float64) error {
	if minZoom > maxZoom {
		return fmt.Errorf("%w: minimum zoom %v above maximum %v", domain.ErrInvalidArgument, minZoom, maxZoom)
	}
	b.native.SetMinZoomLevel(minZoom)
	b.native.SetMaxZoomLevel(maxZoom)
	return nil
}

// FollowMyLocation needs an attached session since it tracks the device.
func (b *Binding) FollowMyLocation(perspective domain.CameraPerspective) error {
	if !b.Attached() {
		return domain.ErrSurfaceNotAttached
	}
	b.native.FollowMyLocation(perspective)
	return nil
}

// Styling pass-through.

func (b *Binding) SetToggle(name string, enabled bool) error {
	t, ok := domain.ParseToggle(name)
	if !ok {
		return fmt.Errorf("%w: unknown toggle %q", domain.ErrInvalidArgument, name)
	}
	b.native.SetToggle(t, enabled)
	return nil
}

func (b *Binding) SetMapType(t domain.MapType) { b.native.SetMapType(t) }

func (b *Binding) SetMapStyle(styleJSON string) error { return b.native.SetMapStyle(styleJSON) }

func (b *Binding) SetPadding(padding value.Value) error {
	p, err := translate.DecodePadding(padding)
	if err != nil {
		return err
	}
	b.native.SetPadding(p)
	return nil
}
