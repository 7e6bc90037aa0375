package events

import (
	"log/slog"
	"sync"

	"github.com/aretw0/navbridge/internal/logging"
	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/observability"
	"github.com/aretw0/navbridge/pkg/value"
)

// Tap forwards events to at most one consumer. Registering replaces the
// previous consumer. Events emitted while nobody is registered are dropped.
type Tap struct {
	mu       sync.RWMutex
	consumer Consumer
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// Option configures a Tap or a Multiplexer.
type Option func(*Tap)

// WithLogger sets the logger used to report dropped events.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tap) {
		t.logger = logger
	}
}

// WithMetrics enables delivery counters.
func WithMetrics(m *observability.Metrics) Option {
	return func(t *Tap) {
		t.metrics = m
	}
}

// NewTap creates an unregistered tap.
func NewTap(opts ...Option) *Tap {
	t := &Tap{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Register makes c the only consumer. A nil c is the same as Clear.
func (t *Tap) Register(c Consumer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.consumer = c
}

// Swap registers c and returns the consumer it replaced, which may be nil.
func (t *Tap) Swap(c Consumer) Consumer {
	t.mu.Lock()
	defer t.mu.Unlock()
	prev := t.consumer
	t.consumer = c
	return prev
}

// Clear removes the current consumer.
func (t *Tap) Clear() {
	t.Register(nil)
}

// Registered reports whether a consumer is currently attached.
func (t *Tap) Registered() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.consumer != nil
}

// Emit delivers an event synchronously on the caller's goroutine and
// reports whether a consumer received it. The consumer is called outside
// the lock, so it may register or clear consumers itself.
func (t *Tap) Emit(typ domain.EventType, payload value.Value) bool {
	t.mu.RLock()
	c := t.consumer
	t.mu.RUnlock()

	if c == nil {
		t.logger.Debug("event dropped, no consumer", "event", typ)
		t.metrics.EventDropped(typ)
		return false
	}
	c.OnEvent(Event{Type: typ, Payload: payload})
	t.metrics.EventEmitted(typ)
	return true
}
