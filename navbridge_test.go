package navbridge_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/navbridge"
	"github.com/aretw0/navbridge/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/navbridge/pkg/adapters/redis"
	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/events"
	"github.com/aretw0/navbridge/pkg/hostvalue"
	"github.com/aretw0/navbridge/pkg/observability"
	"github.com/aretw0/navbridge/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sink struct {
	mu    sync.Mutex
	types []domain.EventType
}

func (s *sink) OnEvent(e events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types = append(s.types, e.Type)
}

func (s *sink) seen() []domain.EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.EventType(nil), s.types...)
}

func newSurface(t *testing.T, engine *memory.Engine, b *navbridge.Bridge, id string) *memory.Surface {
	t.Helper()
	native, err := engine.NewSurface(id)
	require.NoError(t, err)
	_, err = b.CreateSurface(id, native)
	require.NoError(t, err)
	return native.(*memory.Surface)
}

func TestBridge_SurfaceRegistry(t *testing.T) {
	engine := memory.NewEngine()
	b := navbridge.New(engine)

	newSurface(t, engine, b, "main")
	newSurface(t, engine, b, "mini")

	_, err := b.CreateSurface("main", memory.NewSurface("main"))
	assert.ErrorIs(t, err, domain.ErrDuplicateID)
	_, err = b.CreateSurface("", memory.NewSurface(""))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Equal(t, []string{"main", "mini"}, b.Surfaces())

	assert.ErrorIs(t, b.AttachSurface(context.Background(), "nope"), domain.ErrSurfaceNotFound)
	assert.ErrorIs(t, b.DetachSurface("nope"), domain.ErrSurfaceNotFound)
	assert.ErrorIs(t, b.DestroySurface("nope"), domain.ErrSurfaceNotFound)
}

// Attaching the first surface starts the session; later surfaces share it.
func TestBridge_SurfacesShareOneSession(t *testing.T) {
	ctx := context.Background()
	engine := memory.NewEngine()
	rec := &sink{}
	b := navbridge.New(engine, navbridge.WithConsumer(rec))

	ready := 0
	b.Navigation().RegisterReadyCallback(func() { ready++ })

	main := newSurface(t, engine, b, "main")
	mini := newSurface(t, engine, b, "mini")

	require.NoError(t, b.AttachSurface(ctx, "main"))
	require.NoError(t, b.AttachSurface(ctx, "mini"))
	require.NoError(t, b.AttachSurface(ctx, "main"))

	assert.Equal(t, 1, engine.Sessions())
	assert.Equal(t, 1, ready)
	assert.Equal(t, session.SessionCreated, b.Session().State())
	assert.Equal(t, []string{"main", "mini"}, b.Session().Attached())
	assert.Same(t, engine.Current(), main.Navigator())
	assert.Same(t, engine.Current(), mini.Navigator())
	assert.Equal(t, []domain.EventType{domain.EventNavigationReady}, rec.seen())

	require.NoError(t, b.DetachSurface("mini"))
	assert.Nil(t, mini.Navigator())
	assert.Equal(t, []string{"main"}, b.Session().Attached())
}

func TestBridge_CleanupDetachesSurfaces(t *testing.T) {
	ctx := context.Background()
	engine := memory.NewEngine()
	b := navbridge.New(engine)
	main := newSurface(t, engine, b, "main")

	disposed := 0
	b.Navigation().RegisterDisposedCallback(func() { disposed++ })

	require.NoError(t, b.AttachSurface(ctx, "main"))
	require.NoError(t, b.Navigation().Cleanup(ctx))

	assert.Equal(t, 1, disposed)
	assert.Nil(t, main.Navigator())
	assert.Empty(t, b.Session().Attached())
	assert.Equal(t, session.NoSession, b.Session().State())

	view, ok := b.Surface("main")
	require.True(t, ok, "disposal keeps the surface registered")
	assert.False(t, view.Attached())

	require.NoError(t, b.AttachSurface(ctx, "main"))
	assert.Equal(t, 2, engine.Sessions())
}

func TestBridge_DestroySurface(t *testing.T) {
	ctx := context.Background()
	engine := memory.NewEngine()
	b := navbridge.New(engine)
	native := newSurface(t, engine, b, "main")
	view, _ := b.Surface("main")

	require.NoError(t, b.AttachSurface(ctx, "main"))
	opts, err := hostvalue.DecodeBytes([]byte(`{"position": {"lat": 1, "lng": 1}}`))
	require.NoError(t, err)
	_, err = view.AddMarker(opts)
	require.NoError(t, err)

	require.NoError(t, b.DestroySurface("main"))
	assert.Zero(t, native.Objects())
	assert.Nil(t, native.Navigator())
	assert.Empty(t, b.Surfaces())
	assert.Equal(t, session.SessionCreated, b.Session().State(), "destroying a view keeps the session")
}

func TestBridge_Close(t *testing.T) {
	ctx := context.Background()
	engine := memory.NewEngine()
	rec := &sink{}
	b := navbridge.New(engine, navbridge.WithConsumer(rec))
	newSurface(t, engine, b, "main")
	require.NoError(t, b.AttachSurface(ctx, "main"))

	require.NoError(t, b.Close(ctx))
	assert.Empty(t, b.Surfaces())
	assert.True(t, engine.Current().Cleaned())
	assert.False(t, b.Events().Registered())

	require.NoError(t, b.Close(ctx), "closing twice is harmless")
}

func TestBridge_InitErrorEvent(t *testing.T) {
	ctx := context.Background()
	engine := memory.NewEngine(memory.WithInitError(domain.InitErrorLocationPermissionMissing))
	rec := &sink{}
	b := navbridge.New(engine, navbridge.WithConsumer(rec))
	newSurface(t, engine, b, "main")

	err := b.AttachSurface(ctx, "main")
	var initErr *domain.InitError
	require.ErrorAs(t, err, &initErr)
	assert.Equal(t, []domain.EventType{domain.EventNavigationInitError}, rec.seen())
	assert.Empty(t, b.Session().Attached())
}

func TestBridge_Metrics(t *testing.T) {
	ctx := context.Background()
	engine := memory.NewEngine()
	m := observability.NewMetrics(prometheus.NewRegistry())
	b := navbridge.New(engine, navbridge.WithMetrics(m))
	newSurface(t, engine, b, "main")

	require.NoError(t, b.AttachSurface(ctx, "main"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SurfacesAttached))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsDropped.WithLabelValues(string(domain.EventNavigationReady))),
		"no consumer was registered")

	require.NoError(t, b.Close(ctx))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsDisposed))
	assert.Zero(t, testutil.ToFloat64(m.SurfacesAttached))
}

func TestBridge_SessionLockedAcrossBridges(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	locker := redisAdapter.NewLocker(client, "test:")

	newBridge := func() *navbridge.Bridge {
		return navbridge.New(memory.NewEngine(),
			navbridge.WithSessionOptions(session.WithLocker(locker, "session", time.Minute)),
		)
	}
	first, second := newBridge(), newBridge()
	ctx := context.Background()

	require.NoError(t, first.Navigation().Init(ctx))
	assert.True(t, mr.Exists("test:lock:session"))

	waitCtx, cancel := context.WithTimeout(ctx, 150*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, second.Navigation().Init(waitCtx), redisAdapter.ErrLockAcquire)
	assert.Equal(t, session.NoSession, second.Session().State())

	require.NoError(t, first.Close(ctx))
	require.NoError(t, second.Navigation().Init(ctx))
	require.NoError(t, second.Close(ctx))
	assert.False(t, mr.Exists("test:lock:session"))
}
