package http

import (
	"net/http"

	"github.com/gorilla/websocket"
)

const helloMessage = `{"type":"connected","payload":null}`

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

func newWSClient(conn *websocket.Conn) *wsClient {
	c := &wsClient{
		conn: conn,
		send: make(chan []byte, 64),
	}
	go c.writePump()
	return c
}

func (c *wsClient) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// SubscribeWebSocket handles GET /ws. It streams the same JSON events as
// SSE, one per text frame, after a "connected" greeting.
func (s *Server) SubscribeWebSocket(w http.ResponseWriter, r *http.Request) {
	topic, ok := s.topic(w, r)
	if !ok {
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws: upgrade failed", "err", err)
		return
	}

	ch, cancel := s.streams.Subscribe(topic)
	c := newWSClient(conn)
	c.send <- []byte(helloMessage)
	s.logger.Info("ws: client connected", "topic", topic, "remote", r.RemoteAddr)

	// Clients never send; a read error means they went away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for msg := range ch {
		select {
		case c.send <- []byte(msg):
		default:
			s.logger.Warn("ws: client too slow, dropping event", "topic", topic)
		}
	}
	close(c.send)
	s.logger.Info("ws: client disconnected", "topic", topic)
}
