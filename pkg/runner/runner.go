package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/navbridge"
	"github.com/aretw0/navbridge/internal/logging"
	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/events"
	"github.com/aretw0/navbridge/pkg/translate"
	"github.com/aretw0/navbridge/pkg/value"
)

// ErrNotSteppable is returned when the engine cannot be advanced tick by tick.
var ErrNotSteppable = errors.New("navigator does not support stepping")

// Stepper is implemented by navigators whose simulation can be advanced
// one tick at a time.
type Stepper interface {
	Step() bool
}

// Runner plays scenarios on a Bridge. It takes over the bridge's
// navigation consumer for the duration of a run.
type Runner struct {
	bridge   *navbridge.Bridge
	logger   *slog.Logger
	maxSteps int
	interval time.Duration
	observer events.Consumer
}

// New creates a Runner for bridge.
func New(bridge *navbridge.Bridge, opts ...Option) *Runner {
	r := &Runner{
		bridge:   bridge,
		logger:   logging.NewNop(),
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run plays sc and returns what happened. A route status other than OK is
// reported, not returned as an error. On context cancellation the partial
// report is returned with the error. The event consumer registered before
// Run is restored when it returns.
func (r *Runner) Run(ctx context.Context, sc domain.Scenario) (*Report, error) {
	rec := &recorder{}
	var consumer events.Consumer = rec
	if r.observer != nil {
		consumer = events.Tee(rec, r.observer)
	}
	mux := r.bridge.Events()
	prev := mux.Swap(consumer)
	defer mux.Register(prev)

	report := &Report{Scenario: sc}
	defer func() { report.Events = rec.snapshot() }()

	nav := r.bridge.Navigation()
	if err := nav.Init(ctx); err != nil {
		return report, err
	}
	native, _ := r.bridge.Session().Navigator()
	stepper, ok := native.(Stepper)
	if !ok {
		return report, ErrNotSteppable
	}

	if err := nav.StartUpdatingLocation(); err != nil {
		return report, err
	}
	if err := nav.SimulateLocation(translate.Coordinate(sc.Origin)); err != nil {
		return report, err
	}

	status, err := nav.SetDestinations(ctx, waypoints(sc.Waypoints), translate.RoutingOptions(sc.Routing), value.Null())
	if err != nil {
		return report, err
	}
	report.Status = status
	if status != domain.RouteStatusOK.String() {
		r.logger.Warn("scenario route rejected", "scenario", sc.ID, "status", status)
		return report, nil
	}

	if err := nav.StartGuidance(); err != nil {
		return report, err
	}
	if err := nav.SimulateLocationsAlongExistingRoute(sc.SpeedMultiplier); err != nil {
		return report, err
	}

	handled := 0
	for report.Steps < r.maxSteps {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if stepper.Step() {
			report.Steps++
			if err := r.wait(ctx); err != nil {
				return report, err
			}
			continue
		}

		arrivals := rec.arrivals()
		if len(arrivals) == handled {
			r.logger.Warn("simulation stalled", "scenario", sc.ID, "steps", report.Steps)
			break
		}
		handled = len(arrivals)
		report.Arrivals = arrivals

		next, err := nav.ContinueToNextDestination()
		if err != nil {
			return report, fmt.Errorf("continue after arrival: %w", err)
		}
		if next.IsNull() {
			report.Completed = true
			break
		}
		r.logger.Debug("continuing to next destination", "scenario", sc.ID, "next", next.Get("title"))
	}

	traveled, err := nav.TraveledPath()
	if err == nil {
		report.TraveledPoints = traveled.Len()
	}
	r.logger.Info("scenario finished", "scenario", sc.ID, "steps", report.Steps, "completed", report.Completed)
	return report, nil
}

func (r *Runner) wait(ctx context.Context) error {
	if r.interval <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(r.interval):
		return nil
	}
}

func waypoints(ws []domain.Waypoint) value.Value {
	items := make([]value.Value, len(ws))
	for i, w := range ws {
		items[i] = translate.Waypoint(w)
	}
	return value.Sequence(items...)
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) OnEvent(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) snapshot() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Event, len(r.events))
	copy(out, r.events)
	return out
}

// arrivals lists the title of each reached waypoint, or its place id when
// untitled.
func (r *recorder) arrivals() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		if e.Type != domain.EventArrival {
			continue
		}
		name, ok := e.Payload.Get("title").AsString()
		if !ok {
			name, _ = e.Payload.Get("placeId").AsString()
		}
		out = append(out, name)
	}
	return out
}
