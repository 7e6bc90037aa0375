package loam

import (
	"context"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/navbridge/internal/testutils"
	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const downtown = `---
title: Downtown loop
origin: {lat: 37.42, lng: -122.08}
travel_mode: walking
avoid: [ferries]
speed_multiplier: 2
waypoints:
  - title: Cafe
    position: {lat: 37.421, lng: -122.081}
    stopover: true
  - title: Office
    place_id: ChIJ-office
    heading: 90
---
A short walk with a coffee stop.
`

func setupLoader(t *testing.T, files map[string]string) *Loader {
	t.Helper()
	dir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, files)
	return New(loam.NewTypedRepository[ScenarioMetadata](repo))
}

func TestLoader_Load(t *testing.T) {
	loader := setupLoader(t, map[string]string{"downtown.md": downtown})

	sc, err := loader.Load(context.Background(), "downtown")
	require.NoError(t, err)

	assert.Equal(t, "downtown", sc.ID)
	assert.Equal(t, "Downtown loop", sc.Title)
	assert.Equal(t, "A short walk with a coffee stop.", sc.Description)
	assert.Equal(t, domain.LatLng{Lat: 37.42, Lng: -122.08}, sc.Origin)
	assert.Equal(t, domain.TravelModeWalking, sc.Routing.TravelMode)
	assert.True(t, sc.Routing.AvoidFerries)
	assert.Equal(t, 2.0, sc.SpeedMultiplier)

	require.Len(t, sc.Waypoints, 2)
	cafe := sc.Waypoints[0]
	require.NotNil(t, cafe.Title)
	assert.Equal(t, "Cafe", *cafe.Title)
	require.NotNil(t, cafe.Position)
	assert.Equal(t, domain.LatLng{Lat: 37.421, Lng: -122.081}, *cafe.Position)
	assert.True(t, cafe.VehicleStopover)
	assert.Nil(t, cafe.PlaceID)

	office := sc.Waypoints[1]
	assert.Nil(t, office.Position)
	require.NotNil(t, office.PlaceID)
	assert.Equal(t, "ChIJ-office", *office.PlaceID)
	require.NotNil(t, office.PreferredHeading)
	assert.Equal(t, int64(90), *office.PreferredHeading)
}

func TestLoader_Load_Defaults(t *testing.T) {
	loader := setupLoader(t, map[string]string{"short.md": `---
origin: {lat: 0, lng: 0}
waypoints:
  - position: {lat: 0, lng: 0.001}
---
`})

	sc, err := loader.Load(context.Background(), "short")
	require.NoError(t, err)
	assert.Equal(t, "short", sc.Title)
	assert.Equal(t, domain.TravelModeDriving, sc.Routing.TravelMode)
	assert.Equal(t, 1.0, sc.SpeedMultiplier)
	assert.Nil(t, sc.Waypoints[0].Title)
}

func TestLoader_Load_Invalid(t *testing.T) {
	loader := setupLoader(t, map[string]string{
		"no-origin.md": `---
waypoints:
  - position: {lat: 0, lng: 1}
---
`,
		"no-waypoints.md": `---
origin: {lat: 0, lng: 0}
---
`,
		"bad-mode.md": `---
origin: {lat: 0, lng: 0}
travel_mode: teleport
waypoints:
  - position: {lat: 0, lng: 1}
---
`,
		"bare-waypoint.md": `---
origin: {lat: 0, lng: 0}
waypoints:
  - title: Nowhere
---
`,
	})

	for _, id := range []string{"no-origin", "no-waypoints", "bad-mode", "bare-waypoint"} {
		t.Run(id, func(t *testing.T) {
			_, err := loader.Load(context.Background(), id)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}

	_, err := loader.Load(context.Background(), "missing")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestLoader_List_NormalizesIDs(t *testing.T) {
	loader := setupLoader(t, map[string]string{
		"downtown.md": downtown,
		"airport.json": `{
  "origin": {"lat": 1, "lng": 1},
  "waypoints": [{"position": {"lat": 1, "lng": 2}}]
}`,
	})

	ids, err := loader.List(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"downtown", "airport"}, ids)
}

func TestLoader_List_DetectsCollisions(t *testing.T) {
	loader := setupLoader(t, map[string]string{
		"loop.md": `---
id: loop
origin: {lat: 0, lng: 0}
---
`,
		"loop.json": `{"id": "loop", "origin": {"lat": 0, "lng": 0}}`,
	})

	_, err := loader.List(context.Background())
	assert.ErrorContains(t, err, "collision detected")
}
