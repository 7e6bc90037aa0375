package observability

import (
	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors navbridge updates.
type Metrics struct {
	EventsEmitted    *prometheus.CounterVec
	EventsDropped    *prometheus.CounterVec
	SessionsCreated  prometheus.Counter
	SessionsDisposed prometheus.Counter
	InitFailures     prometheus.Counter
	SurfacesAttached prometheus.Gauge
	Overlays         *prometheus.GaugeVec
}

// NewMetrics builds the collectors and registers them with reg.
// A nil reg leaves them unregistered, which is convenient in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EventsEmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "navbridge_events_emitted_total",
				Help: "Events delivered to a registered consumer",
			},
			[]string{"event"},
		),
		EventsDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "navbridge_events_dropped_total",
				Help: "Events dropped because no consumer was registered",
			},
			[]string{"event"},
		),
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "navbridge_sessions_created_total",
			Help: "Navigation sessions created by the engine factory",
		}),
		SessionsDisposed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "navbridge_sessions_disposed_total",
			Help: "Navigation sessions torn down",
		}),
		InitFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "navbridge_session_init_failures_total",
			Help: "Engine factory calls that failed",
		}),
		SurfacesAttached: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "navbridge_surfaces_attached",
			Help: "View surfaces currently attached to the session",
		}),
		Overlays: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "navbridge_overlays",
				Help: "Map entities currently registered across surfaces",
			},
			[]string{"kind"},
		),
	}
	if reg != nil {
		reg.MustRegister(
			m.EventsEmitted,
			m.EventsDropped,
			m.SessionsCreated,
			m.SessionsDisposed,
			m.InitFailures,
			m.SurfacesAttached,
			m.Overlays,
		)
	}
	return m
}

func (m *Metrics) EventEmitted(t domain.EventType) {
	if m == nil {
		return
	}
	m.EventsEmitted.WithLabelValues(string(t)).Inc()
}

func (m *Metrics) EventDropped(t domain.EventType) {
	if m == nil {
		return
	}
	m.EventsDropped.WithLabelValues(string(t)).Inc()
}

func (m *Metrics) SessionCreated() {
	if m == nil {
		return
	}
	m.SessionsCreated.Inc()
}

func (m *Metrics) SessionDisposed() {
	if m == nil {
		return
	}
	m.SessionsDisposed.Inc()
}

func (m *Metrics) InitFailed() {
	if m == nil {
		return
	}
	m.InitFailures.Inc()
}

// SetAttached records the current size of the attached surface set.
func (m *Metrics) SetAttached(n int) {
	if m == nil {
		return
	}
	m.SurfacesAttached.Set(float64(n))
}

// OverlayAdded and OverlayRemoved track the overlay gauge per kind.
func (m *Metrics) OverlayAdded(kind domain.OverlayKind) {
	if m == nil {
		return
	}
	m.Overlays.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) OverlayRemoved(kind domain.OverlayKind, n int) {
	if m == nil || n == 0 {
		return
	}
	m.Overlays.WithLabelValues(string(kind)).Sub(float64(n))
}
