package navigation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/navbridge/internal/logging"
	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/events"
	"github.com/aretw0/navbridge/pkg/ports"
	"github.com/aretw0/navbridge/pkg/session"
	"github.com/aretw0/navbridge/pkg/translate"
	"github.com/aretw0/navbridge/pkg/value"
)

// Controller issues commands against the manager's session. Every command
// except Init fails with domain.ErrNoSession while no session exists.
type Controller struct {
	manager *session.Manager
	mux     *events.Multiplexer
	logger  *slog.Logger

	mu sync.Mutex
	// routed and listening belong to the navigator they were set on and
	// are stale once that session is disposed.
	routedOn    ports.Navigator
	waypoints   []domain.Waypoint
	listeningOn ports.Navigator
}

// Option configures a Controller.
type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController wraps manager. mux should be the multiplexer whose
// SessionHooks the manager was built with.
func NewController(manager *session.Manager, mux *events.Multiplexer, opts ...Option) *Controller {
	c := &Controller{
		manager: manager,
		mux:     mux,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) navigator() (ports.Navigator, error) {
	nav, ok := c.manager.Navigator()
	if !ok {
		return nil, domain.ErrNoSession
	}
	return nav, nil
}

// Init creates the session if needed.
func (c *Controller) Init(ctx context.Context) error {
	_, err := c.manager.EnsureSession(ctx)
	return err
}

// Cleanup stops location updates and guidance, then disposes the session.
func (c *Controller) Cleanup(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	nav, err := c.navigator()
	if err != nil {
		return err
	}
	c.stopUpdatingLocation(nav)
	nav.StopGuidance()

	c.mu.Lock()
	c.routedOn, c.waypoints = nil, nil
	c.mu.Unlock()
	return c.manager.DisposeSession()
}

// SetDestinations replaces the route. waypoints is a sequence of waypoint
// mappings; both option arguments may be null. The route status is emitted
// as onRouteStatusResult and returned by name.
func (c *Controller) SetDestinations(ctx context.Context, waypoints, routing, display value.Value) (string, error) {
	nav, err := c.navigator()
	if err != nil {
		return "", err
	}
	wps, err := translate.DecodeWaypoints(waypoints)
	if err != nil {
		return "", err
	}
	ro, err := translate.DecodeRoutingOptions(routing)
	if err != nil {
		return "", err
	}
	do, err := translate.DecodeDisplayOptions(display)
	if err != nil {
		return "", err
	}

	status, err := nav.SetDestinations(ctx, wps, ro, do)
	if err != nil {
		c.logger.Warn("set destinations failed", "err", err, "status", status)
		return "", fmt.Errorf("set destinations: %w", err)
	}
	if status == domain.RouteStatusOK {
		c.mu.Lock()
		c.routedOn, c.waypoints = nav, wps
		c.mu.Unlock()
	}
	c.mux.RouteStatusResult(status)
	return status.String(), nil
}

func (c *Controller) ClearDestinations() error {
	nav, err := c.navigator()
	if err != nil {
		return err
	}
	nav.ClearDestinations()
	c.mu.Lock()
	c.routedOn, c.waypoints = nil, nil
	c.mu.Unlock()
	return nil
}

// ContinueToNextDestination returns the next waypoint, or null after the last.
func (c *Controller) ContinueToNextDestination() (value.Value, error) {
	nav, err := c.navigator()
	if err != nil {
		return value.Null(), err
	}
	next := nav.ContinueToNextDestination()

	c.mu.Lock()
	if c.routedOn == nav && len(c.waypoints) > 0 {
		c.waypoints = c.waypoints[1:]
	}
	c.mu.Unlock()
	return translate.Translate(next), nil
}

// StartGuidance fails with domain.ErrNoWaypoints until a route is set.
func (c *Controller) StartGuidance() error {
	nav, err := c.navigator()
	if err != nil {
		return err
	}
	c.mu.Lock()
	routed := c.routedOn == nav && len(c.waypoints) > 0
	c.mu.Unlock()
	if !routed {
		return domain.ErrNoWaypoints
	}
	nav.StartGuidance()
	c.mux.StartGuidance()
	return nil
}

func (c *Controller) StopGuidance() error {
	nav, err := c.navigator()
	if err != nil {
		return err
	}
	nav.StopGuidance()
	return nil
}

func (c *Controller) IsGuidanceRunning() (bool, error) {
	nav, err := c.navigator()
	if err != nil {
		return false, err
	}
	return nav.IsGuidanceRunning(), nil
}

// Simulation.

// SimulateLocation places the simulated device at a coordinate mapping.
func (c *Controller) SimulateLocation(at value.Value) error {
	nav, err := c.navigator()
	if err != nil {
		return err
	}
	p, ok := translate.ExtractCoordinate(at)
	if !ok {
		return fmt.Errorf("%w: expected a coordinate, got %s", domain.ErrInvalidArgument, at)
	}
	nav.Simulator().SetUserLocation(p)
	return nil
}

func (c *Controller) SimulateLocationsAlongExistingRoute(speedMultiplier float64) error {
	nav, err := c.navigator()
	if err != nil {
		return err
	}
	if speedMultiplier <= 0 {
		return fmt.Errorf("%w: speed multiplier must be positive", domain.ErrInvalidArgument)
	}
	nav.Simulator().SimulateLocationsAlongExistingRoute(speedMultiplier)
	return nil
}

func (c *Controller) PauseLocationSimulation() error {
	nav, err := c.navigator()
	if err != nil {
		return err
	}
	nav.Simulator().Pause()
	return nil
}

func (c *Controller) ResumeLocationSimulation() error {
	nav, err := c.navigator()
	if err != nil {
		return err
	}
	nav.Simulator().Resume()
	return nil
}

func (c *Controller) StopLocationSimulation() error {
	nav, err := c.navigator()
	if err != nil {
		return err
	}
	nav.Simulator().Unset()
	return nil
}

// Queries.

func (c *Controller) CurrentRouteSegment() (value.Value, error) {
	nav, err := c.navigator()
	if err != nil {
		return value.Null(), err
	}
	return translate.Translate(nav.CurrentRouteSegment()), nil
}

func (c *Controller) RouteSegments() (value.Value, error) {
	nav, err := c.navigator()
	if err != nil {
		return value.Null(), err
	}
	return translate.RouteSegments(nav.RouteSegments()), nil
}

func (c *Controller) TraveledPath() (value.Value, error) {
	nav, err := c.navigator()
	if err != nil {
		return value.Null(), err
	}
	return translate.Path(nav.TraveledPath()), nil
}

func (c *Controller) CurrentTimeAndDistance() (value.Value, error) {
	nav, err := c.navigator()
	if err != nil {
		return value.Null(), err
	}
	return translate.Translate(nav.CurrentTimeAndDistance()), nil
}

// Location updates.

// StartUpdatingLocation subscribes the multiplexer to location fixes.
// Calling it twice is harmless.
func (c *Controller) StartUpdatingLocation() error {
	nav, err := c.navigator()
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listeningOn == nav {
		return nil
	}
	nav.AddLocationListener(c.mux)
	c.listeningOn = nav
	return nil
}

func (c *Controller) StopUpdatingLocation() error {
	nav, err := c.navigator()
	if err != nil {
		return err
	}
	c.stopUpdatingLocation(nav)
	return nil
}

func (c *Controller) stopUpdatingLocation(nav ports.Navigator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listeningOn != nav {
		return
	}
	nav.RemoveLocationListener(c.mux)
	c.listeningOn = nil
}

// Settings.

func (c *Controller) SetAudioGuidance(a domain.AudioGuidance) error {
	nav, err := c.navigator()
	if err != nil {
		return err
	}
	nav.SetAudioGuidance(a)
	return nil
}

func (c *Controller) SetSpeedAlertOptions(opts value.Value) error {
	nav, err := c.navigator()
	if err != nil {
		return err
	}
	o, err := translate.DecodeSpeedAlertOptions(opts)
	if err != nil {
		return err
	}
	nav.SetSpeedAlertOptions(o)
	return nil
}

// Lifecycle callbacks, delegated to the session manager.

func (c *Controller) RegisterReadyCallback(cb func())    { c.manager.RegisterReadyCallback(cb) }
func (c *Controller) UnregisterReadyCallback()           { c.manager.UnregisterReadyCallback() }
func (c *Controller) RegisterDisposedCallback(cb func()) { c.manager.RegisterDisposedCallback(cb) }
func (c *Controller) UnregisterDisposedCallback()        { c.manager.UnregisterDisposedCallback() }
