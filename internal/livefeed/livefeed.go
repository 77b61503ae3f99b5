// Package livefeed is an optional read-only WebSocket endpoint
// (/debug/live) that broadcasts catalog change events (registration,
// unregistration, eviction, param update) to connected observers — a
// debugging/observability feature, not part of the node-facing contract
// (SPEC_FULL domain-stack table).
//
// Grounded on the teacher's pkg/ws.Manager: the same broadcast-to-a-set-
// of-connections shape, narrowed from per-campaign fan-out to one global
// feed of catalog events and simplified to broadcast-only (the master
// never reads from these connections).
package livefeed

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event is one catalog change event broadcast to every connected observer.
type Event struct {
	Kind string      `json:"kind"` // "evict", "topic_registered", "topic_retired", "publisher_update", "param_update"
	Data interface{} `json:"data"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub broadcasts Events to every connected observer. Dead observers are
// removed, and events for slow observers are discarded, rather than
// either being allowed to block the broadcast (the
// same best-effort, no-backpressure posture §1 specifies for node
// notifications).
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan Event
	log     *zap.Logger
}

// NewHub builds an empty Hub.
func NewHub(log *zap.Logger) *Hub {
	return &Hub{clients: make(map[*websocket.Conn]chan Event), log: log}
}

// Handler upgrades the HTTP request to a WebSocket connection and
// registers it as an observer until the connection closes or errors.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Warn("livefeed upgrade failed", zap.Error(err))
			return
		}
		out := make(chan Event, 32)
		h.mu.Lock()
		h.clients[conn] = out
		h.mu.Unlock()

		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()

		for ev := range out {
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}
}

// Broadcast fans ev out to every connected observer. Observers whose
// outbound buffer is full are dropped for this event rather than blocking
// the caller.
func (h *Hub) Broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, ch := range h.clients {
		select {
		case ch <- ev:
		default:
			h.log.Debug("livefeed observer backpressured, dropping event", zap.String("kind", ev.Kind))
			_ = conn
		}
	}
}

// Close disconnects every observer.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, ch := range h.clients {
		close(ch)
		conn.Close()
		delete(h.clients, conn)
	}
}
