package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/surface"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// binding resolves the {surface} path parameter, writing 404 when unknown.
func (s *Server) binding(w http.ResponseWriter, r *http.Request) (*surface.Binding, bool) {
	id := chi.URLParam(r, "surface")
	b, ok := s.bridge.Surface(id)
	if !ok {
		s.writeError(w, "surface", fmt.Errorf("surface %q: %w", id, domain.ErrSurfaceNotFound))
		return nil, false
	}
	return b, true
}

// ListSurfaces handles GET /surfaces.
func (s *Server) ListSurfaces(w http.ResponseWriter, r *http.Request) {
	attached := make(map[string]bool)
	for _, id := range s.bridge.Session().Attached() {
		attached[id] = true
	}
	type entry struct {
		ID       string `json:"id"`
		Attached bool   `json:"attached"`
	}
	out := []entry{}
	for _, id := range s.bridge.Surfaces() {
		out = append(out, entry{ID: id, Attached: attached[id]})
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateSurface handles POST /surfaces with {id}. The surface's events are
// streamed under its id.
func (s *Server) CreateSurface(w http.ResponseWriter, r *http.Request) {
	if s.surfaces == nil {
		http.Error(w, "surface creation not supported by this engine", http.StatusNotImplemented)
		return
	}
	body, err := readValue(r)
	if err != nil {
		s.writeError(w, "create surface", err)
		return
	}
	id, ok := body.Get("id").AsString()
	if !ok || id == "" {
		http.Error(w, "create surface: expected {\"id\": string}", http.StatusBadRequest)
		return
	}
	if id == NavigationTopic {
		http.Error(w, fmt.Sprintf("create surface: %q is reserved", id), http.StatusBadRequest)
		return
	}
	if _, exists := s.bridge.Surface(id); exists {
		s.writeError(w, "create surface", fmt.Errorf("surface %q: %w", id, domain.ErrDuplicateID))
		return
	}

	native, err := s.surfaces.NewSurface(id)
	if err != nil {
		s.writeError(w, "create surface", err)
		return
	}
	b, err := s.bridge.CreateSurface(id, native)
	if err != nil {
		s.release(id)
		s.writeError(w, "create surface", err)
		return
	}
	b.SetConsumer(s.streams.Consumer(id))
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// release frees a native surface id on engines that track them.
func (s *Server) release(id string) {
	if r, ok := s.surfaces.(interface{ ReleaseSurface(string) }); ok {
		r.ReleaseSurface(id)
	}
}

func (s *Server) DestroySurface(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "surface")
	if err := s.bridge.DestroySurface(id); err != nil {
		s.writeError(w, "destroy surface", err)
		return
	}
	if s.surfaces != nil {
		s.release(id)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) AttachSurface(w http.ResponseWriter, r *http.Request) {
	s.done(w, "attach surface", s.bridge.AttachSurface(r.Context(), chi.URLParam(r, "surface")))
}

func (s *Server) DetachSurface(w http.ResponseWriter, r *http.Request) {
	s.done(w, "detach surface", s.bridge.DetachSurface(chi.URLParam(r, "surface")))
}

func (s *Server) ClearMap(w http.ResponseWriter, r *http.Request) {
	b, ok := s.binding(w, r)
	if !ok {
		return
	}
	b.ClearMap()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) ListOverlays(w http.ResponseWriter, r *http.Request) {
	b, ok := s.binding(w, r)
	if !ok {
		return
	}
	v, err := b.Overlays(domain.OverlayKind(chi.URLParam(r, "kind")))
	s.reply(w, "list overlays", v, err)
}

// AddOverlay handles POST /surfaces/{surface}/overlays/{kind}. A taken id
// is answered with 409.
func (s *Server) AddOverlay(w http.ResponseWriter, r *http.Request) {
	b, ok := s.binding(w, r)
	if !ok {
		return
	}
	body, err := readValue(r)
	if err != nil {
		s.writeError(w, "add overlay", err)
		return
	}
	v, err := b.AddOverlay(domain.OverlayKind(chi.URLParam(r, "kind")), body)
	if err != nil {
		s.writeError(w, "add overlay", err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) RemoveOverlay(w http.ResponseWriter, r *http.Request) {
	b, ok := s.binding(w, r)
	if !ok {
		return
	}
	kind, id := domain.OverlayKind(chi.URLParam(r, "kind")), chi.URLParam(r, "entity")
	if !b.RemoveOverlay(kind, id) {
		s.writeError(w, "remove overlay", fmt.Errorf("%s %q: %w", kind, id, domain.ErrUnknownEntity))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) GetCamera(w http.ResponseWriter, r *http.Request) {
	b, ok := s.binding(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, b.CameraPosition())
}

// MoveCamera handles PUT /surfaces/{surface}/camera. With a duration query
// parameter in milliseconds the move is animated.
func (s *Server) MoveCamera(w http.ResponseWriter, r *http.Request) {
	b, ok := s.binding(w, r)
	if !ok {
		return
	}
	var duration *int64
	if err := runtime.BindQueryParameter("form", true, false, "duration", r.URL.Query(), &duration); err != nil {
		http.Error(w, fmt.Sprintf("Invalid duration parameter: %v", err), http.StatusBadRequest)
		return
	}
	body, err := readValue(r)
	if err != nil {
		s.writeError(w, "camera", err)
		return
	}
	if duration != nil {
		err = b.AnimateCamera(body, *duration)
	} else {
		err = b.MoveCamera(body)
	}
	s.reply(w, "camera", b.CameraPosition(), err)
}

// SetZoom handles PUT /surfaces/{surface}/zoom with any of {level, min, max}.
func (s *Server) SetZoom(w http.ResponseWriter, r *http.Request) {
	b, ok := s.binding(w, r)
	if !ok {
		return
	}
	body, err := readValue(r)
	if err != nil {
		s.writeError(w, "zoom", err)
		return
	}
	minZoom, hasMin := body.Get("min").AsNumber()
	maxZoom, hasMax := body.Get("max").AsNumber()
	if hasMin != hasMax {
		http.Error(w, "zoom: min and max must be given together", http.StatusBadRequest)
		return
	}
	if hasMin {
		if err := b.SetZoomBounds(minZoom, maxZoom); err != nil {
			s.writeError(w, "zoom", err)
			return
		}
	}
	if level, ok := body.Get("level").AsNumber(); ok {
		b.SetZoomLevel(level)
	}
	writeJSON(w, http.StatusOK, b.CameraPosition())
}

// FollowMyLocation handles POST /surfaces/{surface}/follow with {perspective}.
func (s *Server) FollowMyLocation(w http.ResponseWriter, r *http.Request) {
	b, ok := s.binding(w, r)
	if !ok {
		return
	}
	body, err := readValue(r)
	if err != nil {
		s.writeError(w, "follow", err)
		return
	}
	p, _ := body.Get("perspective").AsInt()
	if p < int64(domain.PerspectiveTilted) || p > int64(domain.PerspectiveTopDownNorthUp) {
		http.Error(w, "follow: unknown perspective", http.StatusBadRequest)
		return
	}
	s.done(w, "follow", b.FollowMyLocation(domain.CameraPerspective(p)))
}

// SetToggle handles PUT /surfaces/{surface}/toggles/{toggle} with {enabled}.
func (s *Server) SetToggle(w http.ResponseWriter, r *http.Request) {
	b, ok := s.binding(w, r)
	if !ok {
		return
	}
	body, err := readValue(r)
	if err != nil {
		s.writeError(w, "toggle", err)
		return
	}
	enabled, ok := body.Get("enabled").AsBool()
	if !ok {
		http.Error(w, "toggle: expected {\"enabled\": bool}", http.StatusBadRequest)
		return
	}
	s.done(w, "toggle", b.SetToggle(chi.URLParam(r, "toggle"), enabled))
}

// SetMapType handles PUT /surfaces/{surface}/map-type with {mapType}.
func (s *Server) SetMapType(w http.ResponseWriter, r *http.Request) {
	b, ok := s.binding(w, r)
	if !ok {
		return
	}
	body, err := readValue(r)
	if err != nil {
		s.writeError(w, "map type", err)
		return
	}
	t, ok := body.Get("mapType").AsInt()
	if !ok || t < int64(domain.MapTypeNone) || t > int64(domain.MapTypeHybrid) {
		http.Error(w, "map type: expected mapType 0-4", http.StatusBadRequest)
		return
	}
	b.SetMapType(domain.MapType(t))
	w.WriteHeader(http.StatusNoContent)
}

// SetMapStyle handles PUT /surfaces/{surface}/style. The body is the style
// document itself.
func (s *Server) SetMapStyle(w http.ResponseWriter, r *http.Request) {
	b, ok := s.binding(w, r)
	if !ok {
		return
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, "style", err)
		return
	}
	err = b.SetMapStyle(string(data))
	if err != nil && !errors.Is(err, domain.ErrInvalidArgument) {
		err = fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	s.done(w, "style", err)
}

func (s *Server) SetPadding(w http.ResponseWriter, r *http.Request) {
	b, ok := s.binding(w, r)
	if !ok {
		return
	}
	body, err := readValue(r)
	if err != nil {
		s.writeError(w, "padding", err)
		return
	}
	s.done(w, "padding", b.SetPadding(body))
}
