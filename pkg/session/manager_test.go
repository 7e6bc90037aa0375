package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/ports"
	"github.com/aretw0/navbridge/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubNavigator only implements Cleanup; other calls are not expected here.
type stubNavigator struct {
	ports.Navigator
	cleaned atomic.Bool
}

func (n *stubNavigator) Cleanup() { n.cleaned.Store(true) }

// slowFactory simulates engine latency to provoke races if locking is missing.
type slowFactory struct {
	calls atomic.Int32
	err   error
}

func (f *slowFactory) NewSession(ctx context.Context) (ports.Navigator, error) {
	f.calls.Add(1)
	time.Sleep(5 * time.Millisecond)
	if f.err != nil {
		return nil, f.err
	}
	return &stubNavigator{}, nil
}

type stubSurface struct {
	id       string
	attached atomic.Bool
	err      error
}

func (s *stubSurface) ID() string { return s.id }

func (s *stubSurface) AttachSession(ports.Navigator) error {
	if s.err != nil {
		return s.err
	}
	s.attached.Store(true)
	return nil
}

func (s *stubSurface) DetachSession() { s.attached.Store(false) }

func TestManager_EnsureSessionIsIdempotent(t *testing.T) {
	factory := &slowFactory{}
	manager := session.NewManager(factory)
	ctx := context.Background()

	var wg sync.WaitGroup
	navs := make([]ports.Navigator, 20)
	for i := range navs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			nav, err := manager.EnsureSession(ctx)
			assert.NoError(t, err)
			navs[i] = nav
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), factory.calls.Load(), "engine factory must run once")
	for _, nav := range navs {
		assert.Same(t, navs[0], nav)
	}
	assert.Equal(t, session.SessionCreated, manager.State())
}

func TestManager_ReadyCallbackReplay(t *testing.T) {
	manager := session.NewManager(&slowFactory{})
	ctx := context.Background()

	_, err := manager.EnsureSession(ctx)
	require.NoError(t, err)

	var fired int
	manager.RegisterReadyCallback(func() { fired++ })
	assert.Equal(t, 1, fired, "late registration replays synchronously")

	_, err = manager.EnsureSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fired, "an existing session is not a new ready event")
}

func TestManager_ReadyCallbackBeforeSession(t *testing.T) {
	manager := session.NewManager(&slowFactory{})

	var fired int
	manager.RegisterReadyCallback(func() { fired++ })
	assert.Equal(t, 0, fired)

	_, err := manager.EnsureSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fired)
}

func TestManager_UnregisterReadyCallback(t *testing.T) {
	manager := session.NewManager(&slowFactory{})

	var fired int
	manager.RegisterReadyCallback(func() { fired++ })
	manager.UnregisterReadyCallback()

	_, err := manager.EnsureSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, fired)
}

func TestManager_ReadyFiresPerSession(t *testing.T) {
	manager := session.NewManager(&slowFactory{})
	ctx := context.Background()

	var fired int
	manager.RegisterReadyCallback(func() { fired++ })

	_, err := manager.EnsureSession(ctx)
	require.NoError(t, err)
	require.NoError(t, manager.DisposeSession())
	_, err = manager.EnsureSession(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, fired)
}

func TestManager_DisposedCallback(t *testing.T) {
	manager := session.NewManager(&slowFactory{})
	ctx := context.Background()

	var early, late int
	manager.RegisterDisposedCallback(func() { early++ })
	assert.Equal(t, 0, early, "no session has been disposed yet")

	_, err := manager.EnsureSession(ctx)
	require.NoError(t, err)
	require.NoError(t, manager.DisposeSession())
	assert.Equal(t, 1, early)

	manager.RegisterDisposedCallback(func() { late++ })
	assert.Equal(t, 1, late, "late registration replays")

	_, err = manager.EnsureSession(ctx)
	require.NoError(t, err)
	manager.RegisterDisposedCallback(func() { late += 10 })
	assert.Equal(t, 1, late, "a live session resets the disposed latch")
}

func TestManager_DisposeWithoutSession(t *testing.T) {
	manager := session.NewManager(&slowFactory{})
	assert.ErrorIs(t, manager.DisposeSession(), domain.ErrNoSession)
}

func TestManager_AttachDisposeScenario(t *testing.T) {
	factory := &slowFactory{}
	manager := session.NewManager(factory)
	ctx := context.Background()

	nav, err := manager.EnsureSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), factory.calls.Load())
	assert.Equal(t, session.SessionCreated, manager.State())

	surfaceA := &stubSurface{id: "A"}
	require.NoError(t, manager.Attach(ctx, surfaceA))
	assert.Equal(t, []string{"A"}, manager.Attached())
	assert.True(t, surfaceA.attached.Load())

	require.NoError(t, manager.DisposeSession())
	assert.Empty(t, manager.Attached())
	assert.False(t, surfaceA.attached.Load())
	assert.Equal(t, session.NoSession, manager.State())
	assert.True(t, nav.(*stubNavigator).cleaned.Load())
}

func TestManager_AttachCreatesSession(t *testing.T) {
	factory := &slowFactory{}
	manager := session.NewManager(factory)

	require.NoError(t, manager.Attach(context.Background(), &stubSurface{id: "A"}))
	require.NoError(t, manager.Attach(context.Background(), &stubSurface{id: "A"}))

	assert.Equal(t, session.SessionCreated, manager.State())
	assert.Equal(t, []string{"A"}, manager.Attached(), "attach is idempotent per surface id")
	assert.Equal(t, int32(1), factory.calls.Load())
}

func TestManager_AttachFailureKeepsSurfaceOut(t *testing.T) {
	manager := session.NewManager(&slowFactory{})
	boom := errors.New("view gone")

	err := manager.Attach(context.Background(), &stubSurface{id: "A", err: boom})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, manager.Attached())
	assert.Equal(t, session.SessionCreated, manager.State())
}

func TestManager_Detach(t *testing.T) {
	manager := session.NewManager(&slowFactory{})
	ctx := context.Background()
	a, b := &stubSurface{id: "A"}, &stubSurface{id: "B"}
	require.NoError(t, manager.Attach(ctx, a))
	require.NoError(t, manager.Attach(ctx, b))

	assert.True(t, manager.Detach("A"))
	assert.False(t, a.attached.Load())
	assert.False(t, manager.Detach("A"), "detaching twice is a no-op")
	assert.False(t, manager.Detach("missing"))
	assert.Equal(t, []string{"B"}, manager.Attached())
}

func TestManager_InitError(t *testing.T) {
	factory := &slowFactory{err: &domain.InitError{Code: domain.InitErrorNotAuthorized}}

	var hookErr error
	var readyFired bool
	manager := session.NewManager(factory, session.WithHooks(session.Hooks{
		OnInitError: func(err error) { hookErr = err },
	}))
	manager.RegisterReadyCallback(func() { readyFired = true })

	_, err := manager.EnsureSession(context.Background())
	var initErr *domain.InitError
	require.ErrorAs(t, err, &initErr)
	assert.Equal(t, domain.InitErrorNotAuthorized, initErr.Code)
	assert.Error(t, hookErr)
	assert.False(t, readyFired)
	assert.Equal(t, session.NoSession, manager.State())
}

func TestManager_HooksRunBeforeCallbacks(t *testing.T) {
	var order []string
	manager := session.NewManager(&slowFactory{}, session.WithHooks(session.Hooks{
		OnCreated:  func(ports.Navigator) { order = append(order, "created") },
		OnDisposed: func() { order = append(order, "disposed") },
	}))
	manager.RegisterReadyCallback(func() { order = append(order, "ready") })
	manager.RegisterDisposedCallback(func() { order = append(order, "disposed-cb") })

	_, err := manager.EnsureSession(context.Background())
	require.NoError(t, err)
	require.NoError(t, manager.DisposeSession())

	assert.Equal(t, []string{"created", "ready", "disposed", "disposed-cb"}, order)
}

func TestManager_CallbacksMayReenter(t *testing.T) {
	manager := session.NewManager(&slowFactory{})
	ctx := context.Background()

	done := make(chan struct{})
	manager.RegisterReadyCallback(func() {
		_ = manager.Attach(ctx, &stubSurface{id: "from-callback"})
		manager.RegisterDisposedCallback(func() {})
		close(done)
	})

	_, err := manager.EnsureSession(ctx)
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ready callback deadlocked")
	}
	assert.Equal(t, []string{"from-callback"}, manager.Attached())
}

// A registration racing with session creation fires exactly once.
func TestManager_RegistrationRace(t *testing.T) {
	for i := 0; i < 50; i++ {
		manager := session.NewManager(&slowFactory{})
		var fired atomic.Int32

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = manager.EnsureSession(context.Background())
		}()
		go func() {
			defer wg.Done()
			manager.RegisterReadyCallback(func() { fired.Add(1) })
		}()
		wg.Wait()

		require.Equal(t, int32(1), fired.Load(), "iteration %d", i)
	}
}

type stubLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	released int
}

func (l *stubLocker) Lock(ctx context.Context, key string, _ time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return nil, errors.New("lock held elsewhere")
	}
	if l.held == nil {
		l.held = make(map[string]bool)
	}
	l.held[key] = true
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
		l.released++
		return nil
	}, nil
}

func TestManager_LockerGuardsSession(t *testing.T) {
	locker := &stubLocker{}
	first := session.NewManager(&slowFactory{}, session.WithLocker(locker, "engine", 0))
	second := session.NewManager(&slowFactory{}, session.WithLocker(locker, "engine", 0))

	_, err := first.EnsureSession(context.Background())
	require.NoError(t, err)

	factory := &slowFactory{}
	third := session.NewManager(factory, session.WithLocker(locker, "engine", 0))
	_, err = third.EnsureSession(context.Background())
	assert.Error(t, err)
	assert.Equal(t, int32(0), factory.calls.Load(), "engine untouched without the lock")

	require.NoError(t, first.DisposeSession())
	assert.Equal(t, 1, locker.released)

	_, err = second.EnsureSession(context.Background())
	assert.NoError(t, err)
}

func TestManager_LockReleasedOnInitError(t *testing.T) {
	locker := &stubLocker{}
	failing := session.NewManager(&slowFactory{err: errors.New("boom")}, session.WithLocker(locker, "engine", 0))

	_, err := failing.EnsureSession(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, locker.released)
}

// blockingLocker never grants the lock; Lock returns only when ctx is done.
type blockingLocker struct {
	entered chan struct{}
}

func (l *blockingLocker) Lock(ctx context.Context, _ string, _ time.Duration) (ports.UnlockFunc, error) {
	l.entered <- struct{}{}
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestManager_LockWaitDoesNotBlockOtherCalls(t *testing.T) {
	locker := &blockingLocker{entered: make(chan struct{}, 1)}
	factory := &slowFactory{}
	manager := session.NewManager(factory, session.WithLocker(locker, "engine", 0))

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() {
		_, err := manager.EnsureSession(ctx)
		result <- err
	}()
	<-locker.entered

	calls := make(chan struct{})
	go func() {
		defer close(calls)
		assert.Equal(t, session.NoSession, manager.State())
		_, ok := manager.Navigator()
		assert.False(t, ok)
		manager.RegisterReadyCallback(func() {})
		manager.UnregisterReadyCallback()
		assert.Empty(t, manager.Attached())
		assert.False(t, manager.Detach("missing"))
		assert.ErrorIs(t, manager.DisposeSession(), domain.ErrNoSession)
	}()
	select {
	case <-calls:
	case <-time.After(time.Second):
		t.Fatal("manager calls blocked behind the session lock wait")
	}

	// A second caller waits for the in-flight creation only as long as its ctx allows.
	short, cancelShort := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancelShort()
	_, err := manager.EnsureSession(short)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	cancel()
	select {
	case err := <-result:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("EnsureSession did not return after cancel")
	}
	assert.Equal(t, int32(0), factory.calls.Load())
	assert.Equal(t, session.NoSession, manager.State())
}
