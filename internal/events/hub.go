// Package events streams installer progress over a local-only websocket so
// the storefront admin panel can mirror an in-flight upgrade. It is a
// one-way broadcast: the pipeline never depends on a subscriber being
// connected.
package events

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one progress/state notification.
type Event struct {
	Type     string    `json:"type"` // "state" or "progress"
	State    string    `json:"state,omitempty"`
	Message  string    `json:"message,omitempty"`
	Version  string    `json:"version,omitempty"`
	Received int64     `json:"received,omitempty"`
	Total    int64     `json:"total,omitempty"`
	Percent  int       `json:"percent,omitempty"`
	Speed    float64   `json:"speed,omitempty"`
	At       time.Time `json:"at"`
}

// Hub broadcasts events to connected websocket subscribers.
type Hub struct {
	mu       sync.Mutex
	conns    map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		conns: map[*websocket.Conn]struct{}{},
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 5 * time.Second,
			// Local-only endpoint; the listener binds loopback.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request and registers the subscriber. The read
// loop only watches for the peer closing.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()

	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

// Publish sends the event to every subscriber, dropping connections whose
// writes fail. Safe to call with no subscribers; never blocks the pipeline
// beyond the write deadline.
func (h *Hub) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		_ = c.SetWriteDeadline(time.Now().Add(time.Second))
		if err := c.WriteJSON(ev); err != nil {
			h.drop(c)
		}
	}
}

// Serve listens on a loopback address and serves the hub at /events.
// Returns the bound listener so callers can report the actual port.
func Serve(addr string, h *Hub) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/events", h)
	go func() { _ = http.Serve(ln, mux) }()
	return ln, nil
}
