package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/aretw0/navbridge/internal/logging"
	"github.com/aretw0/navbridge/pkg/events"
	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "navbridge:"

// Publisher relays events to Redis pub/sub channels and keeps a short
// history per topic for clients that connect late.
type Publisher struct {
	client  *backend.Client
	prefix  string
	history int64
	ttl     time.Duration
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithPrefix sets the key and channel prefix. Defaults to "navbridge:".
func WithPrefix(prefix string) Option {
	return func(p *Publisher) {
		p.prefix = prefix
	}
}

// WithHistory keeps the last n events of each topic. Zero disables history.
func WithHistory(n int) Option {
	return func(p *Publisher) {
		p.history = int64(n)
	}
}

// WithTTL expires a topic's history after d without new events.
func WithTTL(d time.Duration) Option {
	return func(p *Publisher) {
		p.ttl = d
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// New creates a Publisher connecting to the given address.
func New(addr string, password string, db int, opts ...Option) *Publisher {
	client := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Publisher using an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Publisher {
	p := &Publisher{
		client:  client,
		prefix:  defaultPrefix,
		history: 100,
		timeout: 2 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Client exposes the underlying client, e.g. to build a Locker on it.
func (p *Publisher) Client() *backend.Client { return p.client }

// Channel is the pub/sub channel of topic.
func (p *Publisher) Channel(topic string) string {
	return p.prefix + "events:" + topic
}

func (p *Publisher) historyKey(topic string) string {
	return p.prefix + "history:" + topic
}

// Publish sends one encoded event on topic and appends it to the history.
func (p *Publisher) Publish(ctx context.Context, topic string, e events.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	pipe := p.client.Pipeline()
	pipe.Publish(ctx, p.Channel(topic), data)
	if p.history > 0 {
		key := p.historyKey(topic)
		pipe.RPush(ctx, key, data)
		pipe.LTrim(ctx, key, -p.history, -1)
		if p.ttl > 0 {
			pipe.Expire(ctx, key, p.ttl)
		}
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Recent returns up to the last n events of topic, oldest first.
func (p *Publisher) Recent(ctx context.Context, topic string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	return p.client.LRange(ctx, p.historyKey(topic), int64(-n), -1).Result()
}

// Consumer publishes events to topic. Failures are logged; the event is
// not retried.
func (p *Publisher) Consumer(topic string) events.Consumer {
	return events.ConsumerFunc(func(e events.Event) {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		if err := p.Publish(ctx, topic, e); err != nil {
			p.logger.Error("redis publish failed", "topic", topic, "event", e.Type, "err", err)
		}
	})
}

// Close closes the underlying client.
func (p *Publisher) Close() error {
	return p.client.Close()
}
