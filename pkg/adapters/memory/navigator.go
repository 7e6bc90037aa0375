package memory

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/ports"
)

var _ ports.Navigator = (*Navigator)(nil)

// DefaultStepMeters is how far one simulation step moves the device at a
// speed multiplier of 1.
const DefaultStepMeters = 50.0

const simulationProvider = "simulation"

// Navigator is a session of the in-memory engine. Listener callbacks are
// delivered synchronously on the goroutine that caused them, never while
// the navigator's lock is held.
type Navigator struct {
	mu      sync.Mutex
	cleaned bool

	waypoints []domain.Waypoint
	segments  []domain.RouteSegment
	routing   domain.RoutingOptions
	display   domain.DisplayOptions
	guidance  bool
	arrived   bool

	location *domain.LatLng
	traveled domain.Path

	audio       domain.AudioGuidance
	speedAlerts domain.SpeedAlertOptions

	simActive  bool
	simPaused  bool
	multiplier float64
	stepMeters float64

	routeListeners    []ports.RouteListener
	locationListeners []ports.LocationListener
}

func newNavigator() *Navigator {
	return &Navigator{
		audio:      domain.AudioGuidanceAlertsAndGuidance,
		multiplier: 1,
		stepMeters: DefaultStepMeters,
	}
}

// SetDestinations computes straight-line legs from the device location
// through every waypoint. Waypoints must carry a position; place ids cannot
// be resolved offline.
func (n *Navigator) SetDestinations(ctx context.Context, waypoints []domain.Waypoint, routing domain.RoutingOptions, display domain.DisplayOptions) (domain.RouteStatus, error) {
	if err := ctx.Err(); err != nil {
		return domain.RouteStatusRouteCanceled, err
	}

	n.mu.Lock()
	if n.cleaned {
		n.mu.Unlock()
		return domain.RouteStatusUnknown, domain.ErrNoSession
	}
	if status := validateWaypoints(waypoints); status != domain.RouteStatusOK {
		n.mu.Unlock()
		return status, nil
	}
	if n.location == nil {
		n.mu.Unlock()
		return domain.RouteStatusLocationUnknown, nil
	}
	n.waypoints = slices.Clone(waypoints)
	n.routing = routing
	n.display = display
	n.arrived = false
	n.segments = buildSegments(*n.location, n.waypoints)
	listeners := slices.Clone(n.routeListeners)
	n.mu.Unlock()

	for _, l := range listeners {
		l.OnRouteChanged()
	}
	return domain.RouteStatusOK, nil
}

func validateWaypoints(waypoints []domain.Waypoint) domain.RouteStatus {
	if len(waypoints) == 0 {
		return domain.RouteStatusWaypointError
	}
	for _, w := range waypoints {
		if w.Position != nil {
			continue
		}
		if w.PlaceID != nil {
			return domain.RouteStatusInvalidPlaceID
		}
		return domain.RouteStatusWaypointError
	}
	return domain.RouteStatusOK
}

func buildSegments(origin domain.LatLng, waypoints []domain.Waypoint) []domain.RouteSegment {
	segments := make([]domain.RouteSegment, 0, len(waypoints))
	from := origin
	for i := range waypoints {
		w := waypoints[i]
		to := *w.Position
		segments = append(segments, domain.RouteSegment{
			Destination:         to,
			DestinationWaypoint: &w,
			Points:              domain.Path{from, to},
			Traffic:             &domain.TrafficData{Status: domain.TrafficStatusOK},
		})
		from = to
	}
	return segments
}

func (n *Navigator) ClearDestinations() {
	n.mu.Lock()
	n.waypoints = nil
	n.segments = nil
	n.guidance = false
	n.arrived = false
	listeners := slices.Clone(n.routeListeners)
	n.mu.Unlock()

	for _, l := range listeners {
		l.OnRouteChanged()
	}
}

func (n *Navigator) ContinueToNextDestination() *domain.Waypoint {
	n.mu.Lock()
	if len(n.waypoints) == 0 {
		n.mu.Unlock()
		return nil
	}
	n.waypoints = n.waypoints[1:]
	n.segments = n.segments[1:]
	n.arrived = false
	var next *domain.Waypoint
	if len(n.waypoints) > 0 {
		w := n.waypoints[0]
		next = &w
		if n.location != nil {
			n.segments[0].Points = domain.Path{*n.location, n.segments[0].Destination}
		}
	} else {
		n.guidance = false
	}
	listeners := slices.Clone(n.routeListeners)
	n.mu.Unlock()

	for _, l := range listeners {
		l.OnRouteChanged()
	}
	return next
}

// StartGuidance is ignored while no route is set.
func (n *Navigator) StartGuidance() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.segments) > 0 {
		n.guidance = true
	}
}

func (n *Navigator) StopGuidance() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.guidance = false
}

func (n *Navigator) IsGuidanceRunning() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.guidance
}

func (n *Navigator) CurrentRouteSegment() *domain.RouteSegment {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.segments) == 0 {
		return nil
	}
	seg := n.segments[0]
	return &seg
}

func (n *Navigator) RouteSegments() []domain.RouteSegment {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.segments)
}

func (n *Navigator) TraveledPath() domain.Path {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.traveled)
}

func (n *Navigator) CurrentTimeAndDistance() *domain.TimeAndDistance {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.segments) == 0 || n.location == nil {
		return nil
	}
	meters := distance(*n.location, n.segments[0].Destination)
	return &domain.TimeAndDistance{
		Meters:        int64(math.Round(meters)),
		Seconds:       int64(math.Round(meters / speed(n.routing.TravelMode))),
		DelaySeverity: domain.DelaySeverityLight,
	}
}

func (n *Navigator) SetAudioGuidance(a domain.AudioGuidance) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.audio = a
}

func (n *Navigator) AudioGuidance() domain.AudioGuidance {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.audio
}

func (n *Navigator) SetSpeedAlertOptions(o domain.SpeedAlertOptions) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.speedAlerts = o
}

func (n *Navigator) SpeedAlertOptions() domain.SpeedAlertOptions {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.speedAlerts
}

func (n *Navigator) Simulator() ports.Simulator {
	return &simulator{n: n}
}

func (n *Navigator) AddRouteListener(l ports.RouteListener) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cleaned || slices.Contains(n.routeListeners, l) {
		return
	}
	n.routeListeners = append(n.routeListeners, l)
}

func (n *Navigator) RemoveRouteListener(l ports.RouteListener) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routeListeners = slices.DeleteFunc(n.routeListeners, func(x ports.RouteListener) bool { return x == l })
}

func (n *Navigator) AddLocationListener(l ports.LocationListener) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cleaned || slices.Contains(n.locationListeners, l) {
		return
	}
	n.locationListeners = append(n.locationListeners, l)
}

func (n *Navigator) RemoveLocationListener(l ports.LocationListener) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.locationListeners = slices.DeleteFunc(n.locationListeners, func(x ports.LocationListener) bool { return x == l })
}

// Listeners reports how many route and location listeners are installed.
func (n *Navigator) Listeners() (route, location int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.routeListeners), len(n.locationListeners)
}

// Cleanup drops every listener and stops guidance and simulation.
func (n *Navigator) Cleanup() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cleaned = true
	n.guidance = false
	n.simActive = false
	n.routeListeners = nil
	n.locationListeners = nil
}

// Cleaned reports whether Cleanup ran.
func (n *Navigator) Cleaned() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cleaned
}

// Location returns the simulated device position, if set.
func (n *Navigator) Location() (domain.LatLng, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.location == nil {
		return domain.LatLng{}, false
	}
	return *n.location, true
}

// Step advances an active, unpaused simulation by one tick and delivers the
// resulting callbacks. It reports whether the device moved.
func (n *Navigator) Step() bool {
	n.mu.Lock()
	if n.cleaned || !n.simActive || n.simPaused || n.arrived || n.location == nil || len(n.segments) == 0 {
		n.mu.Unlock()
		return false
	}
	from := *n.location
	seg := n.segments[0]
	to, arrived := toward(from, seg.Destination, n.stepMeters*n.multiplier)
	n.location = &to
	n.traveled = append(n.traveled, to)
	n.arrived = arrived

	fix := n.fix(to, &from)
	guiding := n.guidance
	var (
		info      domain.NavInfo
		remaining = distance(to, seg.Destination)
		seconds   = remaining / speed(n.routing.TravelMode)
	)
	if guiding {
		info = n.navInfo(to)
	}
	var reached *domain.Waypoint
	if arrived && seg.DestinationWaypoint != nil {
		w := *seg.DestinationWaypoint
		reached = &w
	}
	routeListeners := slices.Clone(n.routeListeners)
	locationListeners := slices.Clone(n.locationListeners)
	n.mu.Unlock()

	for _, l := range locationListeners {
		l.OnLocationChanged(fix)
		l.OnRawLocationChanged(fix)
	}
	if !guiding {
		return true
	}
	for _, l := range routeListeners {
		l.OnRemainingTimeOrDistanceChanged()
		l.OnTurnByTurnWithProgress(info, remaining, seconds)
	}
	if reached != nil {
		for _, l := range routeListeners {
			l.OnArrival(*reached)
		}
	}
	return true
}

// RequestReroute reports an off-route deviation to route listeners.
func (n *Navigator) RequestReroute() {
	n.mu.Lock()
	listeners := slices.Clone(n.routeListeners)
	n.mu.Unlock()
	for _, l := range listeners {
		l.OnReroutingRequestedByOffRoute()
	}
}

// UpdateTraffic replaces the traffic data of the current leg.
func (n *Navigator) UpdateTraffic(data domain.TrafficData) {
	n.mu.Lock()
	if len(n.segments) > 0 {
		n.segments[0].Traffic = &data
	}
	listeners := slices.Clone(n.routeListeners)
	n.mu.Unlock()
	for _, l := range listeners {
		l.OnTrafficUpdated()
	}
}

// fix builds a location report. Caller holds n.mu.
func (n *Navigator) fix(at domain.LatLng, from *domain.LatLng) domain.Location {
	provider := simulationProvider
	loc := domain.Location{
		LatLng:   at,
		Time:     time.Now().UnixMilli(),
		Provider: &provider,
	}
	if from != nil {
		b := bearing(*from, at)
		loc.Bearing = &b
		loc.Speed = speed(n.routing.TravelMode) * n.multiplier
	}
	return loc
}

// navInfo describes the remaining route from at. Caller holds n.mu.
func (n *Navigator) navInfo(at domain.LatLng) domain.NavInfo {
	mps := speed(n.routing.TravelMode)
	steps := make([]domain.StepInfo, len(n.segments))
	toNext := distance(at, n.segments[0].Destination)
	total := toNext
	for i, seg := range n.segments {
		length := toNext
		if i > 0 {
			length = distance(seg.Points[0], seg.Points[1])
			total += length
		}
		steps[i] = domain.StepInfo{
			DistanceFromPrevStepMeters: int64(math.Round(length)),
			TimeFromPrevStepSeconds:    int64(math.Round(length / mps)),
			StepNumber:                 int64(i + 1),
			FullInstructionText:        instruction(seg),
		}
	}
	meters := func(m float64) *int64 { v := int64(math.Round(m)); return &v }
	secs := func(m float64) *int64 { v := int64(math.Round(m / mps)); return &v }
	return domain.NavInfo{
		State:                            domain.NavStateEnroute,
		DistanceToCurrentStepMeters:      meters(toNext),
		DistanceToNextDestinationMeters:  meters(toNext),
		DistanceToFinalDestinationMeters: meters(total),
		TimeToCurrentStepSeconds:         secs(toNext),
		TimeToNextDestinationSeconds:     secs(toNext),
		TimeToFinalDestinationSeconds:    secs(total),
		CurrentStep:                      &steps[0],
		RemainingSteps:                   steps[1:],
	}
}

func instruction(seg domain.RouteSegment) *string {
	target := fmt.Sprintf("%.5f,%.5f", seg.Destination.Lat, seg.Destination.Lng)
	if w := seg.DestinationWaypoint; w != nil && w.Title != nil {
		target = *w.Title
	}
	s := "Head to " + target
	return &s
}

type simulator struct {
	n *Navigator
}

// SetUserLocation teleports the device and restarts the traveled path.
func (s *simulator) SetUserLocation(p domain.LatLng) {
	n := s.n
	n.mu.Lock()
	n.location = &p
	n.traveled = domain.Path{p}
	fix := n.fix(p, nil)
	listeners := slices.Clone(n.locationListeners)
	n.mu.Unlock()

	for _, l := range listeners {
		l.OnLocationChanged(fix)
		l.OnRawLocationChanged(fix)
	}
}

func (s *simulator) SimulateLocationsAlongExistingRoute(multiplier float64) {
	s.n.mu.Lock()
	defer s.n.mu.Unlock()
	if multiplier <= 0 {
		multiplier = 1
	}
	s.n.simActive = true
	s.n.simPaused = false
	s.n.multiplier = multiplier
}

func (s *simulator) Pause() {
	s.n.mu.Lock()
	defer s.n.mu.Unlock()
	s.n.simPaused = true
}

func (s *simulator) Resume() {
	s.n.mu.Lock()
	defer s.n.mu.Unlock()
	s.n.simPaused = false
}

// Unset stops the simulation and forgets the device location.
func (s *simulator) Unset() {
	s.n.mu.Lock()
	defer s.n.mu.Unlock()
	s.n.simActive = false
	s.n.simPaused = false
	s.n.location = nil
}
