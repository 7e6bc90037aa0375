package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/navbridge/pkg/events"
)

// NavigationTopic carries navigation session events. Surface events use
// the surface id as topic.
const NavigationTopic = "navigation"

// StreamManager fans events out to SSE and WebSocket subscribers by topic.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan string]struct{}
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan string]struct{}),
		logger:      logger,
	}
}

// Subscribe returns a buffered channel of JSON encoded events and a cancel
// func that closes it. Cancel may be called more than once.
func (sm *StreamManager) Subscribe(topic string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 16)
	if _, ok := sm.subscribers[topic]; !ok {
		sm.subscribers[topic] = make(map[chan string]struct{})
	}
	sm.subscribers[topic][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		subs, ok := sm.subscribers[topic]
		if !ok {
			return
		}
		if _, ok := subs[ch]; !ok {
			return
		}
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(sm.subscribers, topic)
		}
	}
}

// Subscribers counts the live subscriptions of a topic.
func (sm *StreamManager) Subscribers(topic string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[topic])
}

// Broadcast delivers msg to every subscriber of topic. Slow subscribers
// whose buffer is full miss the message.
func (sm *StreamManager) Broadcast(topic string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[topic] {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("stream: subscriber buffer full, dropping event", "topic", topic)
		}
	}
}

// Consumer publishes events to topic.
func (sm *StreamManager) Consumer(topic string) events.Consumer {
	return events.ConsumerFunc(func(e events.Event) {
		data, err := json.Marshal(e)
		if err != nil {
			sm.logger.Error("stream: encode event", "err", err, "event", e.Type)
			return
		}
		sm.Broadcast(topic, string(data))
	})
}

// SubscribeEvents handles GET /events as a server-sent event stream. The
// optional surface query parameter selects a surface's events instead of
// the navigation events.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	topic, ok := s.topic(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.streams.Subscribe(topic)
	defer cancel()
	s.logger.Info("SSE: client subscribed", "topic", topic)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: client disconnected", "topic", topic)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
