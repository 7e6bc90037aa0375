package observability_test

import (
	"strings"
	"testing"

	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	m.EventEmitted(domain.EventArrival)
	m.EventEmitted(domain.EventArrival)
	m.EventDropped(domain.EventRouteChanged)
	m.SessionCreated()
	m.OverlayAdded(domain.OverlayMarker)
	m.OverlayAdded(domain.OverlayMarker)
	m.OverlayRemoved(domain.OverlayMarker, 1)
	m.SetAttached(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.EventsEmitted.WithLabelValues(string(domain.EventArrival))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsDropped.WithLabelValues(string(domain.EventRouteChanged))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Overlays.WithLabelValues(string(domain.OverlayMarker))))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.SurfacesAttached))

	err := testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP navbridge_sessions_created_total Navigation sessions created by the engine factory
# TYPE navbridge_sessions_created_total counter
navbridge_sessions_created_total 1
`), "navbridge_sessions_created_total")
	require.NoError(t, err)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *observability.Metrics
	assert.NotPanics(t, func() {
		m.EventEmitted(domain.EventArrival)
		m.EventDropped(domain.EventArrival)
		m.SessionCreated()
		m.SessionDisposed()
		m.InitFailed()
		m.SetAttached(1)
		m.OverlayAdded(domain.OverlayCircle)
		m.OverlayRemoved(domain.OverlayCircle, 2)
	})
}
