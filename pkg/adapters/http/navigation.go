package http

import (
	"net/http"

	"github.com/aretw0/navbridge/pkg/domain"
)

// GetSession handles GET /session.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	m := s.bridge.Session()
	writeJSON(w, http.StatusOK, map[string]any{
		"state":    m.State().String(),
		"attached": m.Attached(),
	})
}

// InitSession handles POST /session.
func (s *Server) InitSession(w http.ResponseWriter, r *http.Request) {
	s.done(w, "init", s.bridge.Navigation().Init(r.Context()))
}

// CleanupSession handles DELETE /session.
func (s *Server) CleanupSession(w http.ResponseWriter, r *http.Request) {
	s.done(w, "cleanup", s.bridge.Navigation().Cleanup(r.Context()))
}

// SetDestinations handles POST /navigation/destinations with a body of
// {waypoints, routingOptions, displayOptions}.
func (s *Server) SetDestinations(w http.ResponseWriter, r *http.Request) {
	body, err := readValue(r)
	if err != nil {
		s.writeError(w, "set destinations", err)
		return
	}
	status, err := s.bridge.Navigation().SetDestinations(r.Context(),
		body.Get("waypoints"), body.Get("routingOptions"), body.Get("displayOptions"))
	if err != nil {
		s.writeError(w, "set destinations", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

func (s *Server) ClearDestinations(w http.ResponseWriter, r *http.Request) {
	s.done(w, "clear destinations", s.bridge.Navigation().ClearDestinations())
}

func (s *Server) ContinueToNextDestination(w http.ResponseWriter, r *http.Request) {
	next, err := s.bridge.Navigation().ContinueToNextDestination()
	s.reply(w, "continue", next, err)
}

func (s *Server) GetGuidance(w http.ResponseWriter, r *http.Request) {
	running, err := s.bridge.Navigation().IsGuidanceRunning()
	if err != nil {
		s.writeError(w, "guidance", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"running": running})
}

func (s *Server) StartGuidance(w http.ResponseWriter, r *http.Request) {
	s.done(w, "start guidance", s.bridge.Navigation().StartGuidance())
}

func (s *Server) StopGuidance(w http.ResponseWriter, r *http.Request) {
	s.done(w, "stop guidance", s.bridge.Navigation().StopGuidance())
}

func (s *Server) GetCurrentRouteSegment(w http.ResponseWriter, r *http.Request) {
	v, err := s.bridge.Navigation().CurrentRouteSegment()
	s.reply(w, "current route segment", v, err)
}

func (s *Server) GetRouteSegments(w http.ResponseWriter, r *http.Request) {
	v, err := s.bridge.Navigation().RouteSegments()
	s.reply(w, "route segments", v, err)
}

func (s *Server) GetTraveledPath(w http.ResponseWriter, r *http.Request) {
	v, err := s.bridge.Navigation().TraveledPath()
	s.reply(w, "traveled path", v, err)
}

func (s *Server) GetTimeAndDistance(w http.ResponseWriter, r *http.Request) {
	v, err := s.bridge.Navigation().CurrentTimeAndDistance()
	s.reply(w, "time and distance", v, err)
}

func (s *Server) StartUpdatingLocation(w http.ResponseWriter, r *http.Request) {
	s.done(w, "start location updates", s.bridge.Navigation().StartUpdatingLocation())
}

func (s *Server) StopUpdatingLocation(w http.ResponseWriter, r *http.Request) {
	s.done(w, "stop location updates", s.bridge.Navigation().StopUpdatingLocation())
}

// SimulateLocation handles PUT /navigation/simulation/location with a
// coordinate body.
func (s *Server) SimulateLocation(w http.ResponseWriter, r *http.Request) {
	body, err := readValue(r)
	if err != nil {
		s.writeError(w, "simulate location", err)
		return
	}
	s.done(w, "simulate location", s.bridge.Navigation().SimulateLocation(body))
}

// SimulateRoute handles POST /navigation/simulation with an optional
// {speedMultiplier} body.
func (s *Server) SimulateRoute(w http.ResponseWriter, r *http.Request) {
	body, err := readValue(r)
	if err != nil {
		s.writeError(w, "simulate route", err)
		return
	}
	multiplier := 1.0
	if m, ok := body.Get("speedMultiplier").AsNumber(); ok {
		multiplier = m
	}
	s.done(w, "simulate route", s.bridge.Navigation().SimulateLocationsAlongExistingRoute(multiplier))
}

func (s *Server) PauseSimulation(w http.ResponseWriter, r *http.Request) {
	s.done(w, "pause simulation", s.bridge.Navigation().PauseLocationSimulation())
}

func (s *Server) ResumeSimulation(w http.ResponseWriter, r *http.Request) {
	s.done(w, "resume simulation", s.bridge.Navigation().ResumeLocationSimulation())
}

func (s *Server) StopSimulation(w http.ResponseWriter, r *http.Request) {
	s.done(w, "stop simulation", s.bridge.Navigation().StopLocationSimulation())
}

// SetAudioGuidance handles PUT /navigation/audio-guidance with {guidance: int}.
func (s *Server) SetAudioGuidance(w http.ResponseWriter, r *http.Request) {
	body, err := readValue(r)
	if err != nil {
		s.writeError(w, "audio guidance", err)
		return
	}
	g, ok := body.Get("guidance").AsInt()
	if !ok || g < int64(domain.AudioGuidanceSilent) || g > int64(domain.AudioGuidanceAlertsAndGuidance) {
		http.Error(w, "audio guidance: expected guidance 0-2", http.StatusBadRequest)
		return
	}
	s.done(w, "audio guidance", s.bridge.Navigation().SetAudioGuidance(domain.AudioGuidance(g)))
}

func (s *Server) SetSpeedAlertOptions(w http.ResponseWriter, r *http.Request) {
	body, err := readValue(r)
	if err != nil {
		s.writeError(w, "speed alerts", err)
		return
	}
	s.done(w, "speed alerts", s.bridge.Navigation().SetSpeedAlertOptions(body))
}

