package events

import (
	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/ports"
	"github.com/aretw0/navbridge/pkg/translate"
	"github.com/aretw0/navbridge/pkg/value"
)

var (
	_ ports.RouteListener    = (*Multiplexer)(nil)
	_ ports.LocationListener = (*Multiplexer)(nil)
)

// Multiplexer listens to every native engine protocol and republishes each
// callback as one named event through its Tap.
type Multiplexer struct {
	*Tap
}

// NewMultiplexer creates an unregistered multiplexer.
func NewMultiplexer(opts ...Option) *Multiplexer {
	return &Multiplexer{Tap: NewTap(opts...)}
}

func (m *Multiplexer) OnRemainingTimeOrDistanceChanged() {
	m.Emit(domain.EventRemainingTimeOrDistanceChanged, value.Null())
}

func (m *Multiplexer) OnRouteChanged() {
	m.Emit(domain.EventRouteChanged, value.Null())
}

func (m *Multiplexer) OnArrival(waypoint domain.Waypoint) {
	m.Emit(domain.EventArrival, translate.Waypoint(waypoint))
}

// OnTurnByTurn and OnTurnByTurnWithProgress both emit onTurnByTurn; the
// progress fields are null when the engine did not supply them.
func (m *Multiplexer) OnTurnByTurn(info domain.NavInfo) {
	m.Emit(domain.EventTurnByTurn, turnByTurn(info, value.Null(), value.Null()))
}

func (m *Multiplexer) OnTurnByTurnWithProgress(info domain.NavInfo, distanceToNextDestinationMeters, timeToNextDestinationSeconds float64) {
	m.Emit(domain.EventTurnByTurn, turnByTurn(info,
		value.Double(distanceToNextDestinationMeters),
		value.Double(timeToNextDestinationSeconds)))
}

func turnByTurn(info domain.NavInfo, distance, time value.Value) value.Value {
	return value.Map(value.NewMapping().
		Set("navInfo", translate.NavInfo(info)).
		Set("distanceToNextDestinationMeters", distance).
		Set("timeToNextDestinationSeconds", time))
}

func (m *Multiplexer) OnReroutingRequestedByOffRoute() {
	m.Emit(domain.EventReroutingRequestedByOffRoute, value.Null())
}

func (m *Multiplexer) OnTrafficUpdated() {
	m.Emit(domain.EventTrafficUpdated, value.Null())
}

func (m *Multiplexer) OnLocationChanged(l domain.Location) {
	m.Emit(domain.EventLocationChanged, translate.Location(l))
}

func (m *Multiplexer) OnRawLocationChanged(l domain.Location) {
	m.Emit(domain.EventRawLocationChanged, translate.Location(l))
}

// The notifications below originate in the bridge rather than in a native
// listener protocol: session creation, command results and diagnostics.

func (m *Multiplexer) NavigationReady() {
	m.Emit(domain.EventNavigationReady, value.Null())
}

func (m *Multiplexer) NavigationInitError(code domain.NavigationInitErrorCode) {
	m.Emit(domain.EventNavigationInitError, value.Int(int64(code)))
}

func (m *Multiplexer) StartGuidance() {
	m.Emit(domain.EventStartGuidance, value.Null())
}

func (m *Multiplexer) RouteStatusResult(status domain.RouteStatus) {
	m.Emit(domain.EventRouteStatusResult, value.String(status.String()))
}

func (m *Multiplexer) DebugInfo(message string) {
	m.Emit(domain.EventLogDebugInfo, value.String(message))
}
