// Package realtime fans lifecycle events out to every connected websocket
// session. Delivery is best-effort: every session receives every event,
// with no acknowledgment and no replay. A session that is disconnected at
// broadcast time misses the event and reconciles by re-fetching on
// reconnect.
package realtime

import (
	"encoding/json"

	"github.com/tablecraft/tablecraft-api/internal/metrics"
	"github.com/tablecraft/tablecraft-api/pkg/logger"
)

// Envelope is the frame written to every session.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub owns the session set. A single goroutine started by Run serialises
// registration, removal, and broadcast, so no locking is needed anywhere
// else.
type Hub struct {
	sessions   map[*Session]struct{}
	register   chan *Session
	unregister chan *Session
	broadcast  chan []byte
}

func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[*Session]struct{}),
		register:   make(chan *Session),
		unregister: make(chan *Session),
		broadcast:  make(chan []byte, 64),
	}
}

// Run processes hub events until the process exits. Call in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case s := <-h.register:
			h.sessions[s] = struct{}{}
			metrics.RealtimeSessions.Set(float64(len(h.sessions)))
		case s := <-h.unregister:
			h.drop(s)
		case msg := <-h.broadcast:
			for s := range h.sessions {
				select {
				case s.send <- msg:
				default:
					// Send buffer full: the session is too slow to keep
					// up. Drop it rather than block the fan-out.
					metrics.SessionsDroppedTotal.Inc()
					h.drop(s)
				}
			}
		}
	}
}

func (h *Hub) drop(s *Session) {
	if _, ok := h.sessions[s]; ok {
		delete(h.sessions, s)
		close(s.send)
		metrics.RealtimeSessions.Set(float64(len(h.sessions)))
	}
}

// Publish hands a named event to the hub for fan-out. It is fire-and-forget:
// it never blocks the caller and never reports per-session failures, so a
// broken session cannot affect the request that triggered the event.
func (h *Hub) Publish(event string, payload any) {
	msg, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		logger.Get().Error().Err(err).Str("event", event).Msg("failed to encode event")
		return
	}

	metrics.EventsBroadcastTotal.WithLabelValues(event).Inc()

	select {
	case h.broadcast <- msg:
	default:
		logger.Get().Warn().Str("event", event).Msg("broadcast queue full, event dropped")
	}
}
