package navbridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/aretw0/navbridge/internal/logging"
	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/events"
	"github.com/aretw0/navbridge/pkg/navigation"
	"github.com/aretw0/navbridge/pkg/observability"
	"github.com/aretw0/navbridge/pkg/ports"
	"github.com/aretw0/navbridge/pkg/session"
	"github.com/aretw0/navbridge/pkg/surface"
)

// Version of the navbridge library and CLI.
const Version = "0.3.0"

// Bridge is the high-level entry point. It owns the single navigation
// session, the navigation event multiplexer and every registered surface.
type Bridge struct {
	manager     *session.Manager
	mux         *events.Multiplexer
	controller  *navigation.Controller
	logger      *slog.Logger
	metrics     *observability.Metrics
	consumer    events.Consumer
	sessionOpts []session.Option

	mu       sync.Mutex
	surfaces map[string]*surface.Binding
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the structured logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// WithMetrics enables Prometheus collectors.
func WithMetrics(m *observability.Metrics) Option {
	return func(b *Bridge) {
		b.metrics = m
	}
}

// WithConsumer registers the initial navigation event consumer.
func WithConsumer(c events.Consumer) Option {
	return func(b *Bridge) {
		b.consumer = c
	}
}

// WithSessionOptions passes extra options to the session manager, such as
// session.WithLocker.
func WithSessionOptions(opts ...session.Option) Option {
	return func(b *Bridge) {
		b.sessionOpts = append(b.sessionOpts, opts...)
	}
}

// New creates a bridge over an engine. No session is started until the
// first command that needs one.
func New(factory ports.SessionFactory, opts ...Option) *Bridge {
	b := &Bridge{
		logger:   logging.NewNop(),
		surfaces: make(map[string]*surface.Binding),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.mux = events.NewMultiplexer(
		events.WithLogger(b.logger.With("component", "events")),
		events.WithMetrics(b.metrics),
	)
	if b.consumer != nil {
		b.mux.Register(b.consumer)
	}
	sessionOpts := append([]session.Option{
		session.WithLogger(b.logger.With("component", "session")),
		session.WithMetrics(b.metrics),
		session.WithHooks(navigation.SessionHooks(b.mux)),
	}, b.sessionOpts...)
	b.manager = session.NewManager(factory, sessionOpts...)
	b.controller = navigation.NewController(b.manager, b.mux,
		navigation.WithLogger(b.logger.With("component", "navigation")),
	)
	return b
}

// Navigation returns the session command surface.
func (b *Bridge) Navigation() *navigation.Controller { return b.controller }

// Events returns the navigation event multiplexer.
func (b *Bridge) Events() *events.Multiplexer { return b.mux }

// Session returns the lifecycle manager.
func (b *Bridge) Session() *session.Manager { return b.manager }

// CreateSurface binds a native view under id. The surface starts detached.
func (b *Bridge) CreateSurface(id string, native ports.MapSurface) (*surface.Binding, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty surface id", domain.ErrInvalidArgument)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.surfaces[id]; ok {
		return nil, fmt.Errorf("surface %q: %w", id, domain.ErrDuplicateID)
	}
	binding := surface.New(id, native,
		surface.WithLogger(b.logger.With("component", "surface")),
		surface.WithMetrics(b.metrics),
	)
	b.surfaces[id] = binding
	return binding, nil
}

// Surface looks up a registered surface.
func (b *Bridge) Surface(id string) (*surface.Binding, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.surfaces[id]
	return s, ok
}

// Surfaces lists registered surface ids in lexical order.
func (b *Bridge) Surfaces() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]string, 0, len(b.surfaces))
	for id := range b.surfaces {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (b *Bridge) lookup(id string) (*surface.Binding, error) {
	s, ok := b.Surface(id)
	if !ok {
		return nil, fmt.Errorf("surface %q: %w", id, domain.ErrSurfaceNotFound)
	}
	return s, nil
}

// AttachSurface attaches a registered surface, starting the session if needed.
func (b *Bridge) AttachSurface(ctx context.Context, id string) error {
	s, err := b.lookup(id)
	if err != nil {
		return err
	}
	return b.manager.Attach(ctx, s)
}

// DetachSurface detaches a surface from the session. Detaching a surface
// that is not attached is a no-op.
func (b *Bridge) DetachSurface(id string) error {
	if _, err := b.lookup(id); err != nil {
		return err
	}
	b.manager.Detach(id)
	return nil
}

// DestroySurface detaches the surface, removes its overlays and forgets it.
func (b *Bridge) DestroySurface(id string) error {
	b.mu.Lock()
	s, ok := b.surfaces[id]
	delete(b.surfaces, id)
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("surface %q: %w", id, domain.ErrSurfaceNotFound)
	}
	b.manager.Detach(id)
	s.Close()
	return nil
}

// Close destroys every surface, disposes the session and clears the
// navigation consumer.
func (b *Bridge) Close(ctx context.Context) error {
	var errs []error
	for _, id := range b.Surfaces() {
		if err := b.DestroySurface(id); err != nil {
			errs = append(errs, err)
		}
	}
	if err := b.controller.Cleanup(ctx); err != nil && !errors.Is(err, domain.ErrNoSession) {
		errs = append(errs, err)
	}
	b.mux.Clear()
	return errors.Join(errs...)
}
