package ports

import (
	"context"

	"github.com/aretw0/navbridge/pkg/domain"
)

// SessionFactory creates the engine's navigation session.
// Implementations return *domain.InitError when the engine refuses to start.
type SessionFactory interface {
	NewSession(ctx context.Context) (Navigator, error)
}

// Navigator is a live navigation session.
type Navigator interface {
	// SetDestinations replaces the route and returns the computation status.
	SetDestinations(ctx context.Context, waypoints []domain.Waypoint, routing domain.RoutingOptions, display domain.DisplayOptions) (domain.RouteStatus, error)
	ClearDestinations()
	// ContinueToNextDestination drops the reached waypoint and returns the next one, if any.
	ContinueToNextDestination() *domain.Waypoint

	StartGuidance()
	StopGuidance()
	IsGuidanceRunning() bool

	CurrentRouteSegment() *domain.RouteSegment
	RouteSegments() []domain.RouteSegment
	TraveledPath() domain.Path
	CurrentTimeAndDistance() *domain.TimeAndDistance

	SetAudioGuidance(domain.AudioGuidance)
	SetSpeedAlertOptions(domain.SpeedAlertOptions)

	Simulator() Simulator

	AddRouteListener(RouteListener)
	RemoveRouteListener(RouteListener)
	AddLocationListener(LocationListener)
	RemoveLocationListener(LocationListener)

	// Cleanup releases the engine session. The Navigator is unusable afterwards.
	Cleanup()
}

// Simulator drives a fake device location.
type Simulator interface {
	SetUserLocation(domain.LatLng)
	SimulateLocationsAlongExistingRoute(speedMultiplier float64)
	Pause()
	Resume()
	Unset()
}

// RouteListener is the engine's route and progress callback protocol.
// Callbacks arrive on the engine's delivery context, in the order raised.
type RouteListener interface {
	OnRemainingTimeOrDistanceChanged()
	OnRouteChanged()
	OnArrival(waypoint domain.Waypoint)
	OnTurnByTurn(info domain.NavInfo)
	OnTurnByTurnWithProgress(info domain.NavInfo, distanceToNextDestinationMeters, timeToNextDestinationSeconds float64)
	OnReroutingRequestedByOffRoute()
	OnTrafficUpdated()
}

// LocationListener is the engine's road-snapped location protocol.
type LocationListener interface {
	OnLocationChanged(domain.Location)
	OnRawLocationChanged(domain.Location)
}
