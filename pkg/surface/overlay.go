package surface

import (
	"fmt"

	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/ports"
	"github.com/aretw0/navbridge/pkg/registry"
	"github.com/aretw0/navbridge/pkg/translate"
	"github.com/aretw0/navbridge/pkg/value"
	"github.com/google/uuid"
)

// overlays wires one entity kind to its decoder, native constructor and
// forward translation. Callers hold Binding.mu for add, remove and reset.
type overlays[T any] struct {
	kind     domain.OverlayKind
	reg      *registry.Registry[T]
	decode   func(value.Value) (T, error)
	create   func(ports.MapSurface, T) (T, error)
	id       func(*T) *string
	nativeID func(T) string
	forward  func(T) value.Value
}

func (o *overlays[T]) add(b *Binding, opts value.Value) (value.Value, error) {
	entity, err := o.decode(opts)
	if err != nil {
		return value.Null(), err
	}
	id := o.id(&entity)
	if *id == "" {
		*id = uuid.NewString()
	}
	if o.reg.Has(*id) {
		return value.Null(), fmt.Errorf("%s %q: %w", o.kind, *id, domain.ErrDuplicateID)
	}

	created, err := o.create(b.native, entity)
	if err != nil {
		return value.Null(), fmt.Errorf("create %s: %w", o.kind, err)
	}
	*o.id(&created) = *id

	if err := o.reg.Register(*id, o.nativeID(created), created); err != nil {
		b.native.RemoveOverlay(o.kind, o.nativeID(created))
		return value.Null(), err
	}
	b.metrics.OverlayAdded(o.kind)
	return o.forward(created), nil
}

func (o *overlays[T]) remove(b *Binding, id string) bool {
	entity, ok := o.reg.Remove(id, o.nativeID)
	if !ok {
		return false
	}
	b.native.RemoveOverlay(o.kind, o.nativeID(entity))
	b.metrics.OverlayRemoved(o.kind, 1)
	return true
}

func (o *overlays[T]) list() value.Value {
	items := o.reg.List()
	out := make([]value.Value, len(items))
	for i, e := range items {
		out[i] = o.forward(e)
	}
	return value.Sequence(out...)
}

func (o *overlays[T]) lookupNative(nativeID string) (value.Value, bool) {
	e, ok := o.reg.LookupNative(nativeID)
	if !ok {
		return value.Null(), false
	}
	return o.forward(e), true
}

func (o *overlays[T]) reset(b *Binding) {
	b.metrics.OverlayRemoved(o.kind, o.reg.Reset())
}

func newMarkers() *overlays[domain.Marker] {
	return &overlays[domain.Marker]{
		kind:     domain.OverlayMarker,
		reg:      registry.New[domain.Marker](),
		decode:   translate.DecodeMarker,
		create:   ports.MapSurface.AddMarker,
		id:       func(m *domain.Marker) *string { return &m.ID },
		nativeID: func(m domain.Marker) string { return m.NativeID },
		forward:  translate.Marker,
	}
}

func newPolylines() *overlays[domain.Polyline] {
	return &overlays[domain.Polyline]{
		kind:     domain.OverlayPolyline,
		reg:      registry.New[domain.Polyline](),
		decode:   translate.DecodePolyline,
		create:   ports.MapSurface.AddPolyline,
		id:       func(p *domain.Polyline) *string { return &p.ID },
		nativeID: func(p domain.Polyline) string { return p.NativeID },
		forward:  translate.Polyline,
	}
}

func newPolygons() *overlays[domain.Polygon] {
	return &overlays[domain.Polygon]{
		kind:     domain.OverlayPolygon,
		reg:      registry.New[domain.Polygon](),
		decode:   translate.DecodePolygon,
		create:   ports.MapSurface.AddPolygon,
		id:       func(p *domain.Polygon) *string { return &p.ID },
		nativeID: func(p domain.Polygon) string { return p.NativeID },
		forward:  translate.Polygon,
	}
}

func newCircles() *overlays[domain.Circle] {
	return &overlays[domain.Circle]{
		kind:     domain.OverlayCircle,
		reg:      registry.New[domain.Circle](),
		decode:   translate.DecodeCircle,
		create:   ports.MapSurface.AddCircle,
		id:       func(c *domain.Circle) *string { return &c.ID },
		nativeID: func(c domain.Circle) string { return c.NativeID },
		forward:  translate.Circle,
	}
}

func newGroundOverlays() *overlays[domain.GroundOverlay] {
	return &overlays[domain.GroundOverlay]{
		kind:     domain.OverlayGroundOverlay,
		reg:      registry.New[domain.GroundOverlay](),
		decode:   translate.DecodeGroundOverlay,
		create:   ports.MapSurface.AddGroundOverlay,
		id:       func(g *domain.GroundOverlay) *string { return &g.ID },
		nativeID: func(g domain.GroundOverlay) string { return g.NativeID },
		forward:  translate.GroundOverlay,
	}
}
