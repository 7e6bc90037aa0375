package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/navbridge/pkg/adapters/redis"
	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/events"
	"github.com/aretw0/navbridge/pkg/value"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func statusEvent(status string) events.Event {
	return events.Event{Type: domain.EventRouteStatusResult, Payload: value.String(status)}
}

func TestPublisher_PubSub(t *testing.T) {
	_, client := newClient(t)
	pub := redis.NewFromClient(client, redis.WithPrefix("test:"))
	ctx := context.Background()

	sub := client.Subscribe(ctx, pub.Channel("navigation"))
	defer sub.Close()
	_, err := sub.Receive(ctx) // subscription confirmation
	require.NoError(t, err)

	pub.Consumer("navigation").OnEvent(statusEvent("OK"))

	msgCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	msg, err := sub.ReceiveMessage(msgCtx)
	require.NoError(t, err)
	assert.Equal(t, "test:events:navigation", msg.Channel)
	assert.JSONEq(t, `{"type":"onRouteStatusResult","payload":"OK"}`, msg.Payload)
}

func TestPublisher_History(t *testing.T) {
	_, client := newClient(t)
	pub := redis.NewFromClient(client, redis.WithHistory(2))
	ctx := context.Background()

	for _, s := range []string{"OK", "NO_ROUTE_FOUND", "NETWORK_ERROR"} {
		require.NoError(t, pub.Publish(ctx, "navigation", statusEvent(s)))
	}

	recent, err := pub.Recent(ctx, "navigation", 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.JSONEq(t, `{"type":"onRouteStatusResult","payload":"NO_ROUTE_FOUND"}`, recent[0])
	assert.JSONEq(t, `{"type":"onRouteStatusResult","payload":"NETWORK_ERROR"}`, recent[1])

	recent, err = pub.Recent(ctx, "main", 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestPublisher_HistoryTTL(t *testing.T) {
	mr, client := newClient(t)
	pub := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, pub.Publish(ctx, "navigation", statusEvent("OK")))
	mr.FastForward(2 * time.Second)

	recent, err := pub.Recent(ctx, "navigation", 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestPublisher_NoHistory(t *testing.T) {
	mr, client := newClient(t)
	pub := redis.NewFromClient(client, redis.WithHistory(0))

	require.NoError(t, pub.Publish(context.Background(), "navigation", statusEvent("OK")))
	assert.Empty(t, mr.Keys())
}

func TestPublisher_ConsumerSurvivesOutage(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	pub := redis.NewFromClient(client)
	mr.Close()

	assert.NotPanics(t, func() {
		pub.Consumer("navigation").OnEvent(statusEvent("OK"))
	})
}
