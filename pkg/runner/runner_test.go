package runner_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/aretw0/navbridge"
	"github.com/aretw0/navbridge/pkg/adapters/memory"
	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/events"
	"github.com/aretw0/navbridge/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func twoStops() domain.Scenario {
	return domain.Scenario{
		ID:     "two-stops",
		Title:  "Two stops",
		Origin: domain.LatLng{Lat: 0, Lng: 0},
		Waypoints: []domain.Waypoint{
			{Title: ptr("A"), Position: &domain.LatLng{Lat: 0, Lng: 0.001}},
			{Title: ptr("B"), Position: &domain.LatLng{Lat: 0, Lng: 0.002}},
		},
		SpeedMultiplier: 1,
	}
}

func newBridge(t *testing.T) *navbridge.Bridge {
	t.Helper()
	bridge := navbridge.New(memory.NewEngine())
	t.Cleanup(func() { bridge.Close(context.Background()) })
	return bridge
}

func TestRunner_CompletesScenario(t *testing.T) {
	var observed int
	r := runner.New(newBridge(t), runner.WithObserver(events.ConsumerFunc(func(events.Event) { observed++ })))

	report, err := r.Run(context.Background(), twoStops())
	require.NoError(t, err)

	assert.Equal(t, "OK", report.Status)
	assert.True(t, report.Completed)
	assert.Equal(t, []string{"A", "B"}, report.Arrivals)
	assert.Equal(t, 6, report.Steps, "three 50m ticks per 111m hop")
	assert.Equal(t, 7, report.TraveledPoints, "origin plus one point per tick")

	counts := report.Counts()
	assert.Equal(t, 1, counts[domain.EventNavigationReady])
	assert.Equal(t, 2, counts[domain.EventArrival])
	assert.Equal(t, 1, counts[domain.EventStartGuidance])
	assert.Equal(t, 6, counts[domain.EventTurnByTurn])
	assert.Equal(t, len(report.Events), observed)
}

func TestRunner_RejectedRoute(t *testing.T) {
	sc := twoStops()
	sc.Waypoints = []domain.Waypoint{{PlaceID: ptr("ChIJ-unknown")}}

	report, err := runner.New(newBridge(t)).Run(context.Background(), sc)
	require.NoError(t, err)

	assert.Equal(t, "INVALID_PLACE_ID", report.Status)
	assert.Zero(t, report.Steps)
	assert.False(t, report.Completed)
	assert.Contains(t, report.Markdown(), "route rejected")
}

func TestRunner_MaxSteps(t *testing.T) {
	report, err := runner.New(newBridge(t), runner.WithMaxSteps(2)).Run(context.Background(), twoStops())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Steps)
	assert.False(t, report.Completed)
	assert.Empty(t, report.Arrivals)
}

func TestRunner_ReleasesConsumer(t *testing.T) {
	bridge := newBridge(t)
	_, err := runner.New(bridge).Run(context.Background(), twoStops())
	require.NoError(t, err)
	assert.False(t, bridge.Events().Registered())
}

func TestRunner_RestoresPreviousConsumer(t *testing.T) {
	bridge := newBridge(t)
	var seen atomic.Int32
	bridge.Events().Register(events.ConsumerFunc(func(events.Event) { seen.Add(1) }))

	_, err := runner.New(bridge).Run(context.Background(), twoStops())
	require.NoError(t, err)
	require.Equal(t, int32(0), seen.Load(), "scenario events go to the run's recorder")

	bridge.Events().OnRouteChanged()
	assert.Equal(t, int32(1), seen.Load())
}

func TestReport_Markdown(t *testing.T) {
	report, err := runner.New(newBridge(t)).Run(context.Background(), twoStops())
	require.NoError(t, err)

	md := report.Markdown()
	assert.Contains(t, md, "# Two stops")
	assert.Contains(t, md, "**Outcome:** completed")
	assert.Contains(t, md, "1. A\n2. B")
	assert.Contains(t, md, "| `onArrival` | 2 |")
}
