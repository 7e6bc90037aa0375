package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/navbridge"
	"github.com/aretw0/navbridge/pkg/adapters/memory"
	"github.com/aretw0/navbridge/pkg/events"
	"github.com/aretw0/navbridge/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type toolResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StructuredContent map[string]any `json:"structuredContent"`
	IsError           bool           `json:"isError"`
}

type harness struct {
	t      *testing.T
	srv    *Server
	bridge *navbridge.Bridge
	nextID int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	engine := memory.NewEngine()
	bridge := navbridge.New(engine)
	t.Cleanup(func() { bridge.Close(context.Background()) })
	return &harness{t: t, srv: NewServer(bridge, WithSurfaceFactory(engine)), bridge: bridge}
}

func (h *harness) rpc(method string, params any) json.RawMessage {
	h.t.Helper()
	h.nextID++
	req, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      h.nextID,
		"method":  method,
		"params":  params,
	})
	require.NoError(h.t, err)

	resp := h.srv.MCPServer().HandleMessage(context.Background(), req)
	data, err := json.Marshal(resp)
	require.NoError(h.t, err)

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(h.t, json.Unmarshal(data, &envelope))
	require.Nil(h.t, envelope.Error, "rpc %s failed", method)
	return envelope.Result
}

func (h *harness) call(tool string, args map[string]any) toolResult {
	h.t.Helper()
	raw := h.rpc("tools/call", map[string]any{"name": tool, "arguments": args})
	var res toolResult
	require.NoError(h.t, json.Unmarshal(raw, &res))
	return res
}

func (r toolResult) text() string {
	if len(r.Content) == 0 {
		return ""
	}
	return r.Content[0].Text
}

func TestTools_Listed(t *testing.T) {
	h := newHarness(t)
	raw := h.rpc("tools/list", map[string]any{})

	var list struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(raw, &list))
	var names []string
	for _, tool := range list.Tools {
		names = append(names, tool.Name)
	}
	assert.Contains(t, names, "set_destinations")
	assert.Contains(t, names, "create_surface")
	assert.Contains(t, names, "add_overlay")
}

func TestNavigation_RouteFlow(t *testing.T) {
	h := newHarness(t)

	res := h.call("start_guidance", nil)
	assert.True(t, res.IsError, "no session yet")

	require.False(t, h.call("init_navigation", nil).IsError)
	require.False(t, h.call("simulate_location", map[string]any{"lat": 0, "lng": 0}).IsError)

	res = h.call("set_destinations", map[string]any{
		"waypoints": `[{"title": "A", "position": {"lat": 0, "lng": 0.001}}, {"title": "B", "position": {"lat": 0, "lng": 0.002}}]`,
	})
	require.False(t, res.IsError, res.text())
	assert.Equal(t, "OK", res.StructuredContent["status"])

	require.False(t, h.call("start_guidance", nil).IsError)

	res = h.call("get_route_segments", nil)
	require.False(t, res.IsError)
	var segments []any
	require.NoError(t, json.Unmarshal([]byte(res.text()), &segments))
	assert.Len(t, segments, 2)

	res = h.call("continue_to_next_destination", nil)
	require.False(t, res.IsError)
	assert.Contains(t, res.text(), `"title":"B"`)

	require.False(t, h.call("cleanup_navigation", nil).IsError)
	assert.True(t, h.call("cleanup_navigation", nil).IsError)
}

func TestNavigation_BadWaypoints(t *testing.T) {
	h := newHarness(t)
	require.False(t, h.call("init_navigation", nil).IsError)

	res := h.call("set_destinations", map[string]any{"waypoints": `{broken`})
	assert.True(t, res.IsError)
}

func TestSurfaces_Overlays(t *testing.T) {
	h := newHarness(t)
	require.False(t, h.call("create_surface", map[string]any{"surface": "main"}).IsError)
	assert.True(t, h.call("create_surface", map[string]any{"surface": "main"}).IsError, "duplicate")

	res := h.call("add_overlay", map[string]any{
		"surface": "main",
		"kind":    "circle",
		"options": `{"id": "zone", "center": {"lat": 1, "lng": 1}, "radius": 250}`,
	})
	require.False(t, res.IsError, res.text())
	assert.Contains(t, res.text(), `"id":"zone"`)

	res = h.call("list_overlays", map[string]any{"surface": "main", "kind": "circle"})
	require.False(t, res.IsError)
	var circles []map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.text()), &circles))
	require.Len(t, circles, 1)
	assert.Equal(t, 250.0, circles[0]["radius"])

	assert.False(t, h.call("remove_overlay", map[string]any{"surface": "main", "kind": "circle", "id": "zone"}).IsError)
	assert.True(t, h.call("remove_overlay", map[string]any{"surface": "main", "kind": "circle", "id": "zone"}).IsError)
	assert.True(t, h.call("list_overlays", map[string]any{"surface": "nope", "kind": "circle"}).IsError)

	require.False(t, h.call("attach_surface", map[string]any{"surface": "main"}).IsError)
	assert.Equal(t, []string{"main"}, h.bridge.Session().Attached())
	require.False(t, h.call("detach_surface", map[string]any{"surface": "main"}).IsError)
	assert.Empty(t, h.bridge.Session().Attached())
}

func TestResource_Session(t *testing.T) {
	h := newHarness(t)
	require.False(t, h.call("create_surface", map[string]any{"surface": "main"}).IsError)
	require.False(t, h.call("attach_surface", map[string]any{"surface": "main"}).IsError)

	raw := h.rpc("resources/read", map[string]any{"uri": SessionURI})
	var read struct {
		Contents []struct {
			URI  string `json:"uri"`
			Text string `json:"text"`
		} `json:"contents"`
	}
	require.NoError(t, json.Unmarshal(raw, &read))
	require.Len(t, read.Contents, 1)
	assert.JSONEq(t, `{"state":"created","attached":["main"],"surfaces":["main"]}`, read.Contents[0].Text)
}

func TestConsumer_WithoutClients(t *testing.T) {
	h := newHarness(t)
	c := h.srv.Consumer()
	assert.NotPanics(t, func() {
		c.OnEvent(events.Event{Type: "onArrival", Payload: value.Null()})
	})
}
