package surface

import (
	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/translate"
	"github.com/aretw0/navbridge/pkg/value"
)

func (b *Binding) OnMapReady() {
	b.tap.Emit(domain.EventMapReady, value.Null())
}

func (b *Binding) OnMapClick(p domain.LatLng) {
	b.tap.Emit(domain.EventMapClick, translate.Coordinate(p))
}

func (b *Binding) OnMarkerClick(nativeID string) {
	b.emitEntity(domain.EventMarkerClick, domain.OverlayMarker, nativeID)
}

func (b *Binding) OnMarkerInfoWindowTapped(nativeID string) {
	b.emitEntity(domain.EventMarkerInfoWindowTapped, domain.OverlayMarker, nativeID)
}

func (b *Binding) OnOverlayClick(kind domain.OverlayKind, nativeID string) {
	switch kind {
	case domain.OverlayMarker:
		b.emitEntity(domain.EventMarkerClick, kind, nativeID)
	case domain.OverlayPolyline:
		b.emitEntity(domain.EventPolylineClick, kind, nativeID)
	case domain.OverlayPolygon:
		b.emitEntity(domain.EventPolygonClick, kind, nativeID)
	case domain.OverlayCircle:
		b.emitEntity(domain.EventCircleClick, kind, nativeID)
	case domain.OverlayGroundOverlay:
		b.emitEntity(domain.EventGroundOverlayClick, kind, nativeID)
	default:
		b.logger.Debug("click on unknown overlay kind", "kind", kind)
	}
}

func (b *Binding) OnRecenterButtonClick() {
	b.tap.Emit(domain.EventRecenterButtonClick, value.Null())
}

func (b *Binding) OnPromptVisibilityChanged(visible bool) {
	b.tap.Emit(domain.EventPromptVisibilityChanged, value.Bool(visible))
}

// emitEntity resolves the native id against the registry of kind. Clicks on
// objects the bridge did not create are dropped.
func (b *Binding) emitEntity(event domain.EventType, kind domain.OverlayKind, nativeID string) {
	var (
		payload value.Value
		ok      bool
	)
	switch kind {
	case domain.OverlayMarker:
		payload, ok = b.markers.lookupNative(nativeID)
	case domain.OverlayPolyline:
		payload, ok = b.polylines.lookupNative(nativeID)
	case domain.OverlayPolygon:
		payload, ok = b.polygons.lookupNative(nativeID)
	case domain.OverlayCircle:
		payload, ok = b.circles.lookupNative(nativeID)
	case domain.OverlayGroundOverlay:
		payload, ok = b.groundOverlays.lookupNative(nativeID)
	}
	if !ok {
		b.logger.Debug("interaction on unregistered overlay", "kind", kind, "native_id", nativeID)
		return
	}
	b.tap.Emit(event, payload)
}
