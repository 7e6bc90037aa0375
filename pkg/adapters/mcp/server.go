package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/navbridge"
	"github.com/aretw0/navbridge/internal/logging"
	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/events"
	"github.com/aretw0/navbridge/pkg/hostvalue"
	"github.com/aretw0/navbridge/pkg/ports"
	"github.com/aretw0/navbridge/pkg/surface"
	"github.com/aretw0/navbridge/pkg/value"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SessionURI is the resource describing the session and its surfaces.
const SessionURI = "navbridge://session"

// EventNotification is the method of notifications carrying navigation
// events to connected clients.
const EventNotification = "notifications/navbridge/event"

// RouteStatusResponse is the structured result of set_destinations.
type RouteStatusResponse struct {
	Status string `json:"status" jsonschema_description:"Route status, OK when a route was found"`
}

// SessionResponse describes the session resource.
type SessionResponse struct {
	State    string   `json:"state"`
	Attached []string `json:"attached"`
	Surfaces []string `json:"surfaces"`
}

type destinationsArgs struct {
	Waypoints      string `json:"waypoints"`
	RoutingOptions string `json:"routing_options"`
	DisplayOptions string `json:"display_options"`
}

// Server exposes a Bridge as MCP tools and resources.
type Server struct {
	bridge    *navbridge.Bridge
	surfaces  ports.SurfaceFactory
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithSurfaceFactory enables the create_surface tool.
func WithSurfaceFactory(f ports.SurfaceFactory) Option {
	return func(s *Server) {
		s.surfaces = f
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(bridge *navbridge.Bridge, opts ...Option) *Server {
	s := &Server{
		bridge: bridge,
		logger: logging.NewNop(),
		mcpServer: server.NewMCPServer("navbridge-mcp", navbridge.Version,
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerNavigationTools()
	s.registerSurfaceTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, mainly for in-process clients.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// Consumer forwards events to every connected client as EventNotification.
func (s *Server) Consumer() events.Consumer {
	return events.ConsumerFunc(func(e events.Event) {
		s.mcpServer.SendNotificationToAllClients(EventNotification, map[string]any{
			"type":    string(e.Type),
			"payload": e.HostPayload(),
		})
	})
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves on the given port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// command adapts a call that only reports an error.
func command(fn func(ctx context.Context, req mcp.CallToolRequest) error) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := fn(ctx, req); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("ok"), nil
	}
}

// query adapts a call returning a value, rendered as JSON text.
func query(fn func(ctx context.Context, req mcp.CallToolRequest) (value.Value, error)) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		v, err := fn(ctx, req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(v.String()), nil
	}
}

// parseArg decodes an optional JSON string argument; absent is null.
func parseArg(raw string) (value.Value, error) {
	v, err := hostvalue.DecodeBytes([]byte(raw))
	if err != nil {
		return value.Null(), fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	return v, nil
}

func (s *Server) registerNavigationTools() {
	nav := s.bridge.Navigation()

	s.mcpServer.AddTool(mcp.NewTool("init_navigation",
		mcp.WithDescription("Start the navigation session. Safe to call when it already runs."),
	), command(func(ctx context.Context, _ mcp.CallToolRequest) error {
		return nav.Init(ctx)
	}))

	s.mcpServer.AddTool(mcp.NewTool("cleanup_navigation",
		mcp.WithDescription("Stop guidance, clear the route and dispose the session."),
	), command(func(ctx context.Context, _ mcp.CallToolRequest) error {
		return nav.Cleanup(ctx)
	}))

	s.mcpServer.AddTool(mcp.NewTool("set_destinations",
		mcp.WithDescription("Replace the route with the given waypoints."),
		mcp.WithString("waypoints", mcp.Required(), mcp.Description(`JSON array of waypoints, e.g. [{"title":"HQ","position":{"lat":1,"lng":2}}]`)),
		mcp.WithString("routing_options", mcp.Description("JSON object of routing options (optional)")),
		mcp.WithString("display_options", mcp.Description("JSON object of display options (optional)")),
		mcp.WithOutputSchema[RouteStatusResponse](),
	), mcp.NewStructuredToolHandler(s.handleSetDestinations))

	s.mcpServer.AddTool(mcp.NewTool("clear_destinations",
		mcp.WithDescription("Remove every destination."),
	), command(func(context.Context, mcp.CallToolRequest) error {
		return nav.ClearDestinations()
	}))

	s.mcpServer.AddTool(mcp.NewTool("continue_to_next_destination",
		mcp.WithDescription("Drop the current destination and return the next waypoint, or null."),
	), query(func(context.Context, mcp.CallToolRequest) (value.Value, error) {
		return nav.ContinueToNextDestination()
	}))

	s.mcpServer.AddTool(mcp.NewTool("start_guidance",
		mcp.WithDescription("Start turn-by-turn guidance along the current route."),
	), command(func(context.Context, mcp.CallToolRequest) error {
		return nav.StartGuidance()
	}))

	s.mcpServer.AddTool(mcp.NewTool("stop_guidance",
		mcp.WithDescription("Stop guidance, keeping the route."),
	), command(func(context.Context, mcp.CallToolRequest) error {
		return nav.StopGuidance()
	}))

	s.mcpServer.AddTool(mcp.NewTool("simulate_location",
		mcp.WithDescription("Move the simulated device to a coordinate."),
		mcp.WithNumber("lat", mcp.Required(), mcp.Description("Latitude in degrees")),
		mcp.WithNumber("lng", mcp.Required(), mcp.Description("Longitude in degrees")),
	), command(func(_ context.Context, req mcp.CallToolRequest) error {
		lat, err := req.RequireFloat("lat")
		if err != nil {
			return err
		}
		lng, err := req.RequireFloat("lng")
		if err != nil {
			return err
		}
		return nav.SimulateLocation(value.Map(value.NewMapping().
			Set("lat", value.Double(lat)).
			Set("lng", value.Double(lng))))
	}))

	s.mcpServer.AddTool(mcp.NewTool("simulate_route",
		mcp.WithDescription("Drive the simulated device along the current route."),
		mcp.WithNumber("speed_multiplier", mcp.Description("Speed multiplier, 1 by default")),
	), command(func(_ context.Context, req mcp.CallToolRequest) error {
		return nav.SimulateLocationsAlongExistingRoute(req.GetFloat("speed_multiplier", 1))
	}))

	s.mcpServer.AddTool(mcp.NewTool("stop_simulation",
		mcp.WithDescription("Stop simulating locations."),
	), command(func(context.Context, mcp.CallToolRequest) error {
		return nav.StopLocationSimulation()
	}))

	s.mcpServer.AddTool(mcp.NewTool("get_route_segments",
		mcp.WithDescription("List the remaining route legs."),
	), query(func(context.Context, mcp.CallToolRequest) (value.Value, error) {
		return nav.RouteSegments()
	}))

	s.mcpServer.AddTool(mcp.NewTool("get_time_and_distance",
		mcp.WithDescription("Time and distance to the next destination."),
	), query(func(context.Context, mcp.CallToolRequest) (value.Value, error) {
		return nav.CurrentTimeAndDistance()
	}))
}

func (s *Server) handleSetDestinations(ctx context.Context, _ mcp.CallToolRequest, args destinationsArgs) (RouteStatusResponse, error) {
	waypoints, err := parseArg(args.Waypoints)
	if err != nil {
		return RouteStatusResponse{}, fmt.Errorf("waypoints: %w", err)
	}
	routing, err := parseArg(args.RoutingOptions)
	if err != nil {
		return RouteStatusResponse{}, fmt.Errorf("routing_options: %w", err)
	}
	display, err := parseArg(args.DisplayOptions)
	if err != nil {
		return RouteStatusResponse{}, fmt.Errorf("display_options: %w", err)
	}
	status, err := s.bridge.Navigation().SetDestinations(ctx, waypoints, routing, display)
	if err != nil {
		return RouteStatusResponse{}, err
	}
	return RouteStatusResponse{Status: status}, nil
}

var overlayKinds = []string{
	string(domain.OverlayMarker),
	string(domain.OverlayPolyline),
	string(domain.OverlayPolygon),
	string(domain.OverlayCircle),
	string(domain.OverlayGroundOverlay),
}

func (s *Server) registerSurfaceTools() {
	surfaceArg := mcp.WithString("surface", mcp.Required(), mcp.Description("Surface id"))
	kindArg := mcp.WithString("kind", mcp.Required(), mcp.Enum(overlayKinds...), mcp.Description("Overlay kind"))

	if s.surfaces != nil {
		s.mcpServer.AddTool(mcp.NewTool("create_surface",
			mcp.WithDescription("Create a detached map surface."),
			surfaceArg,
		), command(func(_ context.Context, req mcp.CallToolRequest) error {
			id, err := req.RequireString("surface")
			if err != nil {
				return err
			}
			native, err := s.surfaces.NewSurface(id)
			if err != nil {
				return err
			}
			_, err = s.bridge.CreateSurface(id, native)
			return err
		}))
	}

	s.mcpServer.AddTool(mcp.NewTool("attach_surface",
		mcp.WithDescription("Attach a surface to the session, starting it if needed."),
		surfaceArg,
	), command(func(ctx context.Context, req mcp.CallToolRequest) error {
		id, err := req.RequireString("surface")
		if err != nil {
			return err
		}
		return s.bridge.AttachSurface(ctx, id)
	}))

	s.mcpServer.AddTool(mcp.NewTool("detach_surface",
		mcp.WithDescription("Detach a surface from the session."),
		surfaceArg,
	), command(func(_ context.Context, req mcp.CallToolRequest) error {
		id, err := req.RequireString("surface")
		if err != nil {
			return err
		}
		return s.bridge.DetachSurface(id)
	}))

	s.mcpServer.AddTool(mcp.NewTool("add_overlay",
		mcp.WithDescription("Draw an overlay. Returns the created overlay with its id."),
		surfaceArg,
		kindArg,
		mcp.WithString("options", mcp.Required(), mcp.Description(`JSON object of overlay options, e.g. {"position":{"lat":1,"lng":2}}`)),
	), query(func(_ context.Context, req mcp.CallToolRequest) (value.Value, error) {
		b, kind, err := s.overlayTarget(req)
		if err != nil {
			return value.Null(), err
		}
		opts, err := parseArg(req.GetString("options", ""))
		if err != nil {
			return value.Null(), err
		}
		return b.AddOverlay(kind, opts)
	}))

	s.mcpServer.AddTool(mcp.NewTool("remove_overlay",
		mcp.WithDescription("Remove an overlay by id."),
		surfaceArg,
		kindArg,
		mcp.WithString("id", mcp.Required(), mcp.Description("Overlay id")),
	), command(func(_ context.Context, req mcp.CallToolRequest) error {
		b, kind, err := s.overlayTarget(req)
		if err != nil {
			return err
		}
		id, err := req.RequireString("id")
		if err != nil {
			return err
		}
		if !b.RemoveOverlay(kind, id) {
			return fmt.Errorf("%s %q: %w", kind, id, domain.ErrUnknownEntity)
		}
		return nil
	}))

	s.mcpServer.AddTool(mcp.NewTool("list_overlays",
		mcp.WithDescription("List the overlays of a kind in insertion order."),
		surfaceArg,
		kindArg,
	), query(func(_ context.Context, req mcp.CallToolRequest) (value.Value, error) {
		b, kind, err := s.overlayTarget(req)
		if err != nil {
			return value.Null(), err
		}
		return b.Overlays(kind)
	}))

	s.mcpServer.AddTool(mcp.NewTool("clear_map",
		mcp.WithDescription("Remove every overlay from a surface."),
		surfaceArg,
	), command(func(_ context.Context, req mcp.CallToolRequest) error {
		id, err := req.RequireString("surface")
		if err != nil {
			return err
		}
		b, ok := s.bridge.Surface(id)
		if !ok {
			return fmt.Errorf("surface %q: %w", id, domain.ErrSurfaceNotFound)
		}
		b.ClearMap()
		return nil
	}))
}

func (s *Server) overlayTarget(req mcp.CallToolRequest) (*surface.Binding, domain.OverlayKind, error) {
	id, err := req.RequireString("surface")
	if err != nil {
		return nil, "", err
	}
	kind, err := req.RequireString("kind")
	if err != nil {
		return nil, "", err
	}
	b, ok := s.bridge.Surface(id)
	if !ok {
		return nil, "", fmt.Errorf("surface %q: %w", id, domain.ErrSurfaceNotFound)
	}
	return b, domain.OverlayKind(kind), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(SessionURI, "Navigation session",
		mcp.WithResourceDescription("Session state, attached surfaces and registered surfaces"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.session())
		if err != nil {
			return nil, fmt.Errorf("encode session: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      SessionURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}

func (s *Server) session() SessionResponse {
	m := s.bridge.Session()
	return SessionResponse{
		State:    m.State().String(),
		Attached: m.Attached(),
		Surfaces: s.bridge.Surfaces(),
	}
}
