package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/navbridge"
	"github.com/aretw0/navbridge/internal/logging"
	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/events"
	"github.com/aretw0/navbridge/pkg/hostvalue"
	"github.com/aretw0/navbridge/pkg/ports"
	"github.com/aretw0/navbridge/pkg/value"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds request bodies; overlay and route payloads are small.
const maxBodyBytes = 1 << 20

// Server exposes a Bridge over HTTP. Commands are JSON in and out; events
// stream over SSE (/events) and WebSocket (/ws).
type Server struct {
	bridge   *navbridge.Bridge
	surfaces ports.SurfaceFactory
	streams  *StreamManager
	upgrader websocket.Upgrader
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithSurfaceFactory lets clients create surfaces with POST /surfaces.
func WithSurfaceFactory(f ports.SurfaceFactory) Option {
	return func(s *Server) {
		s.surfaces = f
	}
}

// WithGatherer selects the registry served on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewServer creates a server for bridge. Register Consumer() with the
// bridge's multiplexer (alone or in an events.Tee) to stream navigation
// events.
func NewServer(bridge *navbridge.Bridge, opts ...Option) *Server {
	s := &Server{
		bridge:   bridge,
		gatherer: prometheus.DefaultGatherer,
		logger:   logging.NewNop(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.streams = NewStreamManager(s.logger)
	return s
}

// Consumer streams navigation events to subscribers of NavigationTopic.
func (s *Server) Consumer() events.Consumer {
	return s.streams.Consumer(NavigationTopic)
}

// Streams exposes the subscriber registry.
func (s *Server) Streams() *StreamManager { return s.streams }

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Get("/events", s.SubscribeEvents)
	r.Get("/ws", s.SubscribeWebSocket)

	r.Route("/session", func(r chi.Router) {
		r.Get("/", s.GetSession)
		r.Post("/", s.InitSession)
		r.Delete("/", s.CleanupSession)
	})

	r.Route("/navigation", func(r chi.Router) {
		r.Post("/destinations", s.SetDestinations)
		r.Delete("/destinations", s.ClearDestinations)
		r.Post("/destinations/next", s.ContinueToNextDestination)
		r.Get("/guidance", s.GetGuidance)
		r.Post("/guidance", s.StartGuidance)
		r.Delete("/guidance", s.StopGuidance)
		r.Get("/route/current", s.GetCurrentRouteSegment)
		r.Get("/route/segments", s.GetRouteSegments)
		r.Get("/route/traveled", s.GetTraveledPath)
		r.Get("/route/progress", s.GetTimeAndDistance)
		r.Post("/location-updates", s.StartUpdatingLocation)
		r.Delete("/location-updates", s.StopUpdatingLocation)
		r.Put("/simulation/location", s.SimulateLocation)
		r.Post("/simulation", s.SimulateRoute)
		r.Post("/simulation/pause", s.PauseSimulation)
		r.Post("/simulation/resume", s.ResumeSimulation)
		r.Delete("/simulation", s.StopSimulation)
		r.Put("/audio-guidance", s.SetAudioGuidance)
		r.Put("/speed-alerts", s.SetSpeedAlertOptions)
	})

	r.Route("/surfaces", func(r chi.Router) {
		r.Get("/", s.ListSurfaces)
		r.Post("/", s.CreateSurface)
		r.Route("/{surface}", func(r chi.Router) {
			r.Delete("/", s.DestroySurface)
			r.Post("/attach", s.AttachSurface)
			r.Post("/detach", s.DetachSurface)
			r.Delete("/overlays", s.ClearMap)
			r.Get("/overlays/{kind}", s.ListOverlays)
			r.Post("/overlays/{kind}", s.AddOverlay)
			r.Delete("/overlays/{kind}/{entity}", s.RemoveOverlay)
			r.Get("/camera", s.GetCamera)
			r.Put("/camera", s.MoveCamera)
			r.Put("/zoom", s.SetZoom)
			r.Post("/follow", s.FollowMyLocation)
			r.Put("/toggles/{toggle}", s.SetToggle)
			r.Put("/map-type", s.SetMapType)
			r.Put("/style", s.SetMapStyle)
			r.Put("/padding", s.SetPadding)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>navbridge API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if doc, err := LoadOpenAPI(r.Context()); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	} else if err != nil {
		s.logger.Error("load OpenAPI document", "err", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "navbridge-http",
		"version":     navbridge.Version,
		"api_version": apiVersion,
	})
}

// GetOpenAPI handles GET /openapi.yaml.
func (s *Server) GetOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/yaml")
	w.Write(openapiSpec)
}

// topic resolves the optional surface query parameter of the stream
// endpoints. It writes the error response itself.
func (s *Server) topic(w http.ResponseWriter, r *http.Request) (string, bool) {
	var surfaceID *string
	if err := runtime.BindQueryParameter("form", true, false, "surface", r.URL.Query(), &surfaceID); err != nil {
		http.Error(w, fmt.Sprintf("Invalid surface parameter: %v", err), http.StatusBadRequest)
		return "", false
	}
	if surfaceID == nil {
		return NavigationTopic, true
	}
	if _, ok := s.bridge.Surface(*surfaceID); !ok {
		http.Error(w, fmt.Sprintf("surface %q not found", *surfaceID), http.StatusNotFound)
		return "", false
	}
	return *surfaceID, true
}

// -- Helpers --

// readValue decodes the request body. An empty body is null.
func readValue(r *http.Request) (value.Value, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return value.Null(), err
	}
	v, err := hostvalue.DecodeBytes(data)
	if err != nil {
		return value.Null(), fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}

// writeError maps domain errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "err", err)
	} else {
		s.logger.Debug(op+" rejected", "err", err)
	}
	http.Error(w, fmt.Sprintf("%s: %v", op, err), status)
}

func statusOf(err error) int {
	var initErr *domain.InitError
	switch {
	case errors.As(err, &initErr):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSurfaceNotFound), errors.Is(err, domain.ErrUnknownEntity):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoSession),
		errors.Is(err, domain.ErrNoWaypoints),
		errors.Is(err, domain.ErrDuplicateID),
		errors.Is(err, domain.ErrSurfaceNotAttached):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	}
	return http.StatusInternalServerError
}

// reply writes v, or the mapped error.
func (s *Server) reply(w http.ResponseWriter, op string, v value.Value, err error) {
	if err != nil {
		s.writeError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// done writes 204, or the mapped error.
func (s *Server) done(w http.ResponseWriter, op string, err error) {
	if err != nil {
		s.writeError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
