package tests

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Recorder is a route, location and surface listener that logs callback names.
type Recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *Recorder) add(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, name)
}

// Events returns the callbacks received so far.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *Recorder) OnRemainingTimeOrDistanceChanged()                         { r.add("remainingTimeOrDistance") }
func (r *Recorder) OnRouteChanged()                                           { r.add("routeChanged") }
func (r *Recorder) OnArrival(domain.Waypoint)                                 { r.add("arrival") }
func (r *Recorder) OnTurnByTurn(domain.NavInfo)                               { r.add("turnByTurn") }
func (r *Recorder) OnTurnByTurnWithProgress(domain.NavInfo, float64, float64) { r.add("turnByTurn") }
func (r *Recorder) OnReroutingRequestedByOffRoute()                           { r.add("rerouting") }
func (r *Recorder) OnTrafficUpdated()                                         { r.add("traffic") }
func (r *Recorder) OnLocationChanged(domain.Location)                         { r.add("location") }
func (r *Recorder) OnRawLocationChanged(domain.Location)                      { r.add("rawLocation") }
func (r *Recorder) OnMapReady()                                               { r.add("mapReady") }
func (r *Recorder) OnMapClick(domain.LatLng)                                  { r.add("mapClick") }
func (r *Recorder) OnMarkerClick(string)                                      { r.add("markerClick") }
func (r *Recorder) OnMarkerInfoWindowTapped(string)                           { r.add("infoWindow") }
func (r *Recorder) OnOverlayClick(domain.OverlayKind, string)                 { r.add("overlayClick") }
func (r *Recorder) OnRecenterButtonClick()                                    { r.add("recenter") }
func (r *Recorder) OnPromptVisibilityChanged(bool)                            { r.add("prompt") }

func at(lat, lng float64) *domain.LatLng { return &domain.LatLng{Lat: lat, Lng: lng} }

// NavigatorContractTest verifies route bookkeeping of a ports.SessionFactory
// implementation. The engine must accept positioned waypoints once the
// simulator has set a device location.
func NavigatorContractTest(t *testing.T, factory ports.SessionFactory) {
	t.Helper()
	ctx := context.Background()

	newRouted := func(t *testing.T) (ports.Navigator, *Recorder) {
		t.Helper()
		nav, err := factory.NewSession(ctx)
		require.NoError(t, err)
		t.Cleanup(nav.Cleanup)

		rec := &Recorder{}
		nav.AddRouteListener(rec)
		nav.Simulator().SetUserLocation(domain.LatLng{Lat: 0, Lng: 0})
		status, err := nav.SetDestinations(ctx, []domain.Waypoint{
			{Position: at(0, 0.01)},
			{Position: at(0.01, 0.01)},
		}, domain.RoutingOptions{}, domain.DisplayOptions{})
		require.NoError(t, err)
		require.Equal(t, domain.RouteStatusOK, status)
		return nav, rec
	}

	t.Run("SetDestinations", func(t *testing.T) {
		nav, rec := newRouted(t)
		assert.Len(t, nav.RouteSegments(), 2)
		seg := nav.CurrentRouteSegment()
		require.NotNil(t, seg)
		assert.Equal(t, *at(0, 0.01), seg.Destination)
		assert.Contains(t, rec.Events(), "routeChanged")
		assert.NotNil(t, nav.CurrentTimeAndDistance())
	})

	t.Run("ContinueToNextDestination", func(t *testing.T) {
		nav, _ := newRouted(t)
		next := nav.ContinueToNextDestination()
		require.NotNil(t, next)
		assert.Equal(t, at(0.01, 0.01), next.Position)
		assert.Nil(t, nav.ContinueToNextDestination())
		assert.Nil(t, nav.ContinueToNextDestination())
	})

	t.Run("Guidance", func(t *testing.T) {
		nav, _ := newRouted(t)
		assert.False(t, nav.IsGuidanceRunning())
		nav.StartGuidance()
		assert.True(t, nav.IsGuidanceRunning())
		nav.StopGuidance()
		assert.False(t, nav.IsGuidanceRunning())
	})

	t.Run("ClearDestinations", func(t *testing.T) {
		nav, _ := newRouted(t)
		nav.StartGuidance()
		nav.ClearDestinations()
		assert.Nil(t, nav.CurrentRouteSegment())
		assert.Empty(t, nav.RouteSegments())
		assert.False(t, nav.IsGuidanceRunning())
	})

	t.Run("RemoveListener", func(t *testing.T) {
		nav, rec := newRouted(t)
		nav.RemoveRouteListener(rec)
		before := len(rec.Events())
		nav.ClearDestinations()
		assert.Len(t, rec.Events(), before)
	})
}

// SurfaceContractTest verifies overlay and camera handling of a
// ports.SurfaceFactory implementation.
func SurfaceContractTest(t *testing.T, factory ports.SurfaceFactory) {
	t.Helper()

	t.Run("NativeIDsAreUnique", func(t *testing.T) {
		s, err := factory.NewSurface("contract-ids")
		require.NoError(t, err)

		m1, err := s.AddMarker(domain.Marker{Position: *at(1, 1)})
		require.NoError(t, err)
		m2, err := s.AddMarker(domain.Marker{Position: *at(1, 1)})
		require.NoError(t, err)
		c, err := s.AddCircle(domain.Circle{Center: *at(1, 1), Radius: 10})
		require.NoError(t, err)

		assert.NotEmpty(t, m1.NativeID)
		assert.NotEqual(t, m1.NativeID, m2.NativeID)
		assert.NotEqual(t, m1.NativeID, c.NativeID)
	})

	t.Run("Camera", func(t *testing.T) {
		s, err := factory.NewSurface("contract-camera")
		require.NoError(t, err)
		pos := domain.CameraPosition{Target: *at(10, 20), Zoom: 12, Tilt: 30, Bearing: 90}
		s.MoveCamera(pos)
		assert.Equal(t, pos, s.CameraPosition())
	})

	t.Run("MapStyle", func(t *testing.T) {
		s, err := factory.NewSurface("contract-style")
		require.NoError(t, err)
		assert.NoError(t, s.SetMapStyle(`[{"featureType": "road"}]`))
	})
}
