package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/navbridge/internal/logging"
	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/observability"
	"github.com/aretw0/navbridge/pkg/ports"
)

// State is the lifecycle state of the session.
type State int

const (
	NoSession State = iota
	SessionCreated
)

func (s State) String() string {
	if s == SessionCreated {
		return "created"
	}
	return "none"
}

// Surface is a view that can be attached to the session.
type Surface interface {
	ID() string
	AttachSession(ports.Navigator) error
	DetachSession()
}

// Hooks observe lifecycle transitions. They run outside the lock, before
// the registered ready or disposed callback.
type Hooks struct {
	OnCreated   func(ports.Navigator)
	OnInitError func(error)
	OnDisposed  func()
}

// Manager owns the navigation session and the surfaces attached to it.
type Manager struct {
	factory ports.SessionFactory

	mu        sync.Mutex
	navigator ports.Navigator
	attached  []Surface
	ready     latch
	disposed  latch
	creating  chan struct{} // Closed when an in-flight creation ends

	hooks   Hooks
	logger  *slog.Logger
	metrics *observability.Metrics

	locker  ports.DistributedLocker // Optional; guards the session across processes
	lockKey string
	lockTTL time.Duration
	unlock  ports.UnlockFunc
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithMetrics enables lifecycle metrics.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// WithHooks installs lifecycle hooks.
func WithHooks(hooks Hooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// WithLocker makes session creation take the distributed lock key and
// hold it until the session is disposed. The locker is expected to keep a
// held lock alive; ttl only bounds how long a crashed holder keeps it.
func WithLocker(locker ports.DistributedLocker, key string, ttl time.Duration) Option {
	return func(m *Manager) {
		m.locker = locker
		m.lockKey = key
		m.lockTTL = ttl
	}
}

// NewManager creates a Manager with no session. The factory is only called
// when a session is first needed.
func NewManager(factory ports.SessionFactory, opts ...Option) *Manager {
	m := &Manager{
		factory: factory,
		logger:  logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.navigator != nil {
		return SessionCreated
	}
	return NoSession
}

// Navigator returns the live session, if any.
func (m *Manager) Navigator() (ports.Navigator, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.navigator, m.navigator != nil
}

// EnsureSession returns the live session, creating it on first use.
// Concurrent callers share the one session; the factory runs at most once
// per session lifetime. Creation, including the distributed lock wait, runs
// outside the manager lock, so other operations never wait on it. Callers
// waiting for another caller's creation give up when their ctx is done.
func (m *Manager) EnsureSession(ctx context.Context) (ports.Navigator, error) {
	for {
		m.mu.Lock()
		if nav := m.navigator; nav != nil {
			m.mu.Unlock()
			return nav, nil
		}
		if pending := m.creating; pending != nil {
			m.mu.Unlock()
			select {
			case <-pending:
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		done := make(chan struct{})
		m.creating = done
		m.mu.Unlock()

		return m.create(ctx, done)
	}
}

// create runs with m.creating set to done and closes done when finished.
// Hooks and callbacks run after the manager lock is released.
func (m *Manager) create(ctx context.Context, done chan struct{}) (ports.Navigator, error) {
	var unlock ports.UnlockFunc
	if m.locker != nil {
		var err error
		if unlock, err = m.locker.Lock(ctx, m.lockKey, m.lockTTL); err != nil {
			m.finishCreate(done)
			m.logger.Warn("session lock not acquired", "key", m.lockKey, "err", err)
			return nil, fmt.Errorf("lock session: %w", err)
		}
	}

	nav, err := m.factory.NewSession(ctx)
	if err == nil && nav == nil {
		err = errors.New("engine returned no session")
	}
	if err != nil {
		m.release(unlock)
		m.finishCreate(done)
		m.metrics.InitFailed()
		m.logger.Warn("navigation session init failed", "err", err)
		if m.hooks.OnInitError != nil {
			m.hooks.OnInitError(err)
		}
		return nil, fmt.Errorf("create session: %w", err)
	}

	m.mu.Lock()
	m.navigator = nav
	m.unlock = unlock
	m.creating = nil
	close(done)
	m.disposed.reset()
	cb := m.ready.trigger()
	m.mu.Unlock()

	m.metrics.SessionCreated()
	m.logger.Info("navigation session created")
	if m.hooks.OnCreated != nil {
		m.hooks.OnCreated(nav)
	}
	run(cb)
	return nav, nil
}

func (m *Manager) finishCreate(done chan struct{}) {
	m.mu.Lock()
	m.creating = nil
	m.mu.Unlock()
	close(done)
}

// DisposeSession detaches every surface, releases the engine session and
// runs the disposed callback. It returns domain.ErrNoSession when there is
// nothing to dispose.
func (m *Manager) DisposeSession() error {
	m.mu.Lock()
	nav := m.navigator
	if nav == nil {
		m.mu.Unlock()
		return domain.ErrNoSession
	}

	for _, s := range m.attached {
		s.DetachSession()
	}
	detached := len(m.attached)
	m.attached = nil
	nav.Cleanup()
	m.navigator = nil
	m.release(m.unlock)
	m.unlock = nil

	m.ready.reset()
	cb := m.disposed.trigger()
	m.metrics.SessionDisposed()
	m.metrics.SetAttached(0)
	onDisposed := m.hooks.OnDisposed
	m.mu.Unlock()

	m.logger.Info("navigation session disposed", "detached_surfaces", detached)
	if onDisposed != nil {
		onDisposed()
	}
	run(cb)
	return nil
}

func (m *Manager) release(unlock ports.UnlockFunc) {
	if unlock == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := unlock(ctx); err != nil {
		m.logger.Error("session lock release failed", "key", m.lockKey, "err", err)
	}
}

// RegisterReadyCallback stores cb as the ready callback, replacing any
// previous one. If the session already exists cb runs immediately.
func (m *Manager) RegisterReadyCallback(cb func()) {
	m.mu.Lock()
	replay := m.ready.register(cb)
	m.mu.Unlock()
	run(replay)
}

func (m *Manager) UnregisterReadyCallback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ready.clear()
}

// RegisterDisposedCallback stores cb as the disposed callback. If the last
// session was disposed and no new one exists yet, cb runs immediately.
func (m *Manager) RegisterDisposedCallback(cb func()) {
	m.mu.Lock()
	replay := m.disposed.register(cb)
	m.mu.Unlock()
	run(replay)
}

func (m *Manager) UnregisterDisposedCallback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disposed.clear()
}

// Attach binds s to the session, creating the session if needed.
// Attaching an already attached surface is a no-op. It returns
// domain.ErrNoSession if the session is disposed while being created.
func (m *Manager) Attach(ctx context.Context, s Surface) error {
	nav, err := m.EnsureSession(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.navigator != nav {
		return domain.ErrNoSession
	}
	if m.indexLocked(s.ID()) >= 0 {
		return nil
	}
	if err := s.AttachSession(nav); err != nil {
		return fmt.Errorf("attach surface %s: %w", s.ID(), err)
	}
	m.attached = append(m.attached, s)
	m.metrics.SetAttached(len(m.attached))
	return nil
}

// Detach unbinds the surface with the given id. It reports false when the
// surface was not attached.
func (m *Manager) Detach(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(id)
	if i < 0 {
		return false
	}
	s := m.attached[i]
	m.attached = append(m.attached[:i], m.attached[i+1:]...)
	s.DetachSession()
	m.metrics.SetAttached(len(m.attached))
	return true
}

// Attached returns the ids of attached surfaces in attach order.
func (m *Manager) Attached() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, len(m.attached))
	for i, s := range m.attached {
		ids[i] = s.ID()
	}
	return ids
}

func (m *Manager) indexLocked(id string) int {
	for i, s := range m.attached {
		if s.ID() == id {
			return i
		}
	}
	return -1
}
