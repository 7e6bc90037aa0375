package translate_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/hostvalue"
	"github.com/aretw0/navbridge/pkg/translate"
	"github.com/aretw0/navbridge/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func keysOf(t *testing.T, v value.Value) []string {
	t.Helper()
	m, ok := v.AsMapping()
	require.True(t, ok, "expected mapping, got %s", v.Kind())
	return m.Keys()
}

func TestCoordinate_Scenario(t *testing.T) {
	v := translate.Coordinate(domain.LatLng{Lat: 37.422, Lng: -122.084})

	assert.Equal(t, []string{"latitude", "longitude"}, keysOf(t, v))

	host, ok := hostvalue.ToHost(v).(map[string]any)
	require.True(t, ok)
	assert.Len(t, host, 2)
	assert.Equal(t, 37.422, host["latitude"])
	assert.Equal(t, -122.084, host["longitude"])
}

func TestWaypoint_MissingOptionalsAreNull(t *testing.T) {
	v := translate.Waypoint(domain.Waypoint{})

	assert.Equal(t, []string{"title", "placeId", "position", "preferredHeading", "vehicleStopover", "preferSameSideOfRoad"}, keysOf(t, v))
	assert.True(t, v.Get("title").IsNull())
	assert.True(t, v.Get("position").IsNull())
	assert.True(t, v.Get("preferredHeading").IsNull())
	assert.Equal(t, value.KindBool, v.Get("vehicleStopover").Kind())
}

func TestLocation_PreservesNumericTags(t *testing.T) {
	v := translate.Location(domain.Location{
		LatLng:   domain.LatLng{Lat: 1, Lng: 2},
		Time:     1700000000000,
		Speed:    13,
		Accuracy: ptr(4.5),
	})

	assert.Equal(t, value.KindDouble, v.Get("latitude").Kind())
	assert.Equal(t, value.KindInt, v.Get("time").Kind())
	assert.Equal(t, value.KindDouble, v.Get("speed").Kind())
	assert.Equal(t, value.KindDouble, v.Get("accuracy").Kind())
	assert.True(t, v.Get("bearing").IsNull())
	assert.True(t, v.Get("provider").IsNull())
}

func TestPath_EmptyIsEmptySequence(t *testing.T) {
	v := translate.Path(nil)
	items, ok := v.AsSequence()
	require.True(t, ok)
	assert.Empty(t, items)

	seg := translate.RouteSegment(domain.RouteSegment{})
	assert.Equal(t, value.KindSequence, seg.Get("segmentLatLngList").Kind())
	assert.True(t, seg.Get("navigationTrafficData").IsNull())
	assert.True(t, seg.Get("destinationWaypoint").IsNull())
}

func TestRouteSegment_Traffic(t *testing.T) {
	v := translate.RouteSegment(domain.RouteSegment{
		Destination: domain.LatLng{Lat: 1, Lng: 1},
		Points:      domain.Path{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}},
		Traffic: &domain.TrafficData{
			Status:    domain.TrafficStatusOK,
			Stretches: []domain.RoadStretch{{Style: domain.TrafficStyleTrafficJam, LengthMeters: 120, OffsetMeters: 30}},
		},
	})

	assert.Equal(t, 2, v.Get("segmentLatLngList").Len())
	stretches, _ := v.Get("navigationTrafficData").Get("roadStretchRenderingDataList").AsSequence()
	require.Len(t, stretches, 1)
	n, _ := stretches[0].Get("lengthMeters").AsInt()
	assert.Equal(t, int64(120), n)
}

func TestNavInfo_Steps(t *testing.T) {
	v := translate.NavInfo(domain.NavInfo{
		State:                         domain.NavStateEnroute,
		TimeToFinalDestinationSeconds: ptr(int64(600)),
		CurrentStep:                   &domain.StepInfo{StepNumber: 1, FullRoadName: ptr("Main St")},
		RemainingSteps:                []domain.StepInfo{{StepNumber: 2}, {StepNumber: 3}},
	})

	assert.Equal(t, 2, v.Get("remainingSteps").Len())
	assert.True(t, v.Get("distanceToCurrentStepMeters").IsNull())
	name, _ := v.Get("currentStep").Get("fullRoadName").AsString()
	assert.Equal(t, "Main St", name)
	assert.True(t, v.Get("currentStep").Get("exitNumber").IsNull())
}

func TestMarker_FixedKeys(t *testing.T) {
	v := translate.Marker(domain.Marker{ID: "m1", Alpha: 1})
	assert.Equal(t, []string{"id", "position", "title", "snippet", "rotation", "alpha", "flat", "draggable", "zIndex"}, keysOf(t, v))
}

func TestTranslate_Dispatch(t *testing.T) {
	assert.True(t, translate.Translate(nil).IsNull())
	assert.True(t, translate.Translate((*domain.Marker)(nil)).IsNull())
	assert.True(t, translate.Translate(struct{}{}).IsNull(), "unsupported kinds are a translation gap")

	c := domain.Circle{ID: "c", Radius: 5}
	assert.True(t, value.Equal(translate.Circle(c), translate.Translate(c)))
	assert.True(t, value.Equal(translate.Circle(c), translate.Translate(&c)))
}

// Every supported kind survives translate, host conversion and a parse back
// with the same keys and numeric tags, both in memory and over JSON.
func TestRoundTrip_AllKinds(t *testing.T) {
	bounds := domain.LatLngBounds{NorthEast: domain.LatLng{Lat: 2, Lng: 2}, SouthWest: domain.LatLng{Lat: 1, Lng: 1}}
	objects := map[string]any{
		"coordinate": domain.LatLng{Lat: 37.422, Lng: -122.084},
		"waypoint":   domain.Waypoint{Title: ptr("HQ"), Position: &domain.LatLng{Lat: 1.5, Lng: 2}, PreferredHeading: ptr(int64(90))},
		"location":   domain.Location{LatLng: domain.LatLng{Lat: 3, Lng: 4}, Time: 99, Speed: 2.0, Bearing: ptr(180.0)},
		"leg": domain.RouteSegment{
			Destination:         domain.LatLng{Lat: 5, Lng: 6},
			DestinationWaypoint: &domain.Waypoint{PlaceID: ptr("abc")},
			Points:              domain.Path{{Lat: 5, Lng: 6}},
		},
		"path":          domain.Path{{Lat: 0.1, Lng: 0.2}, {Lat: 0.3, Lng: 0.4}},
		"marker":        domain.Marker{ID: "m", Position: domain.LatLng{Lat: 1, Lng: 1}, Alpha: 0.5, ZIndex: ptr(3.0)},
		"polyline":      domain.Polyline{ID: "l", Points: domain.Path{{Lat: 1, Lng: 1}}, Width: 4, Color: ptr("#ff0000")},
		"polygon":       domain.Polygon{ID: "p", Points: domain.Path{{Lat: 1, Lng: 1}}, Holes: []domain.Path{{{Lat: 0, Lng: 0}}}},
		"circle":        domain.Circle{ID: "c", Center: domain.LatLng{Lat: 1, Lng: 1}, Radius: 100},
		"groundOverlay": domain.GroundOverlay{ID: "g", Bounds: &bounds, Transparency: 0.25},
	}

	for name, obj := range objects {
		t.Run(name, func(t *testing.T) {
			v := translate.Translate(obj)
			require.False(t, v.IsNull())

			back, err := hostvalue.FromHost(hostvalue.ToHost(v))
			require.NoError(t, err)
			// Host maps carry no order, so compare per key.
			assertSameFields(t, v, back)

			data, err := json.Marshal(v)
			require.NoError(t, err)
			decoded, err := hostvalue.DecodeBytes(data)
			require.NoError(t, err)
			assert.True(t, value.Equal(v, decoded), "json round trip: %s", decoded)
		})
	}
}

func assertSameFields(t *testing.T, want, got value.Value) {
	t.Helper()
	require.Equal(t, want.Kind(), got.Kind())
	switch want.Kind() {
	case value.KindMapping:
		wm, _ := want.AsMapping()
		gm, _ := got.AsMapping()
		assert.ElementsMatch(t, wm.Keys(), gm.Keys())
		wm.Range(func(k string, wv value.Value) bool {
			gv, _ := gm.Get(k)
			assertSameFields(t, wv, gv)
			return true
		})
	case value.KindSequence:
		wi, _ := want.AsSequence()
		gi, _ := got.AsSequence()
		require.Len(t, gi, len(wi))
		for i := range wi {
			assertSameFields(t, wi[i], gi[i])
		}
	default:
		assert.True(t, value.Equal(want, got), "want %s, got %s", want, got)
	}
}

func TestRoutingOptions_RoundTrip(t *testing.T) {
	want := domain.RoutingOptions{TravelMode: domain.TravelModeCycling, AvoidFerries: true, LocationTimeoutMs: 500}
	got, err := translate.DecodeRoutingOptions(translate.RoutingOptions(want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
