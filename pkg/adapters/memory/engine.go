package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/ports"
)

var (
	_ ports.SessionFactory = (*Engine)(nil)
	_ ports.SurfaceFactory = (*Engine)(nil)
)

// Engine is an in-process navigation engine. Routes are straight lines
// between waypoints and the device only moves when the simulator is stepped.
// It is meant for tests, demos and the CLI.
type Engine struct {
	mu       sync.Mutex
	initErr  domain.NavigationInitErrorCode
	sessions int
	current  *Navigator
	surfaces map[string]*Surface
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithInitError makes every session start fail with code.
func WithInitError(code domain.NavigationInitErrorCode) EngineOption {
	return func(e *Engine) {
		e.initErr = code
	}
}

// NewEngine creates an engine with no sessions.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{surfaces: make(map[string]*Surface)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetInitError changes the start outcome for later sessions. Zero clears it.
func (e *Engine) SetInitError(code domain.NavigationInitErrorCode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initErr = code
}

// NewSession starts a navigator.
func (e *Engine) NewSession(ctx context.Context) (ports.Navigator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.initErr != 0 {
		return nil, &domain.InitError{Code: e.initErr}
	}
	e.sessions++
	e.current = newNavigator()
	return e.current, nil
}

// Sessions counts the sessions started so far.
func (e *Engine) Sessions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessions
}

// Current returns the most recently started navigator.
func (e *Engine) Current() *Navigator {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// NewSurface creates a map view. Ids are unique per engine.
func (e *Engine) NewSurface(id string) (ports.MapSurface, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.surfaces[id]; ok {
		return nil, domain.ErrDuplicateID
	}
	s := NewSurface(id)
	e.surfaces[id] = s
	return s, nil
}

// Surface returns a surface created by NewSurface.
func (e *Engine) Surface(id string) (*Surface, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.surfaces[id]
	return s, ok
}

// ReleaseSurface forgets a surface so its id can be reused.
func (e *Engine) ReleaseSurface(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.surfaces, id)
}

// Drive steps the current session's simulation every interval until ctx is
// done. Sessions replaced while driving are picked up on the next tick.
func (e *Engine) Drive(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := e.Current(); n != nil {
				n.Step()
			}
		}
	}
}
