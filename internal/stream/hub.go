// Package stream serves live step snapshots to websocket viewers while a
// simulation runs. The hub fans each published snapshot out to every
// subscriber; a subscriber that cannot keep up is dropped rather than
// allowed to stall the simulation loop.
package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/wanderlab/brownian/internal/core/observability/log"
	"github.com/wanderlab/brownian/internal/core/sim"
)

const subscriberBuffer = 256

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Envelope is the wire format: a hello frame on connect, then one snapshot
// frame per published step.
type Envelope struct {
	Type      string            `json:"type"` // "hello" | "snapshot"
	RunID     string            `json:"run_id,omitempty"`
	HalfWidth float64           `json:"half_width,omitempty"`
	Snapshot  *sim.StepSnapshot `json:"snapshot,omitempty"`
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub owns the subscriber set and the listening socket.
type Hub struct {
	runID     string
	halfWidth float64
	logger    log.Log

	mu          sync.Mutex
	subscribers map[*subscriber]struct{}

	srv *http.Server
}

// NewHub creates a hub identified by runID over an arena of the given
// half-width (both are announced in the hello frame).
func NewHub(runID string, halfWidth float64, logger log.Log) *Hub {
	return &Hub{
		runID:       runID,
		halfWidth:   halfWidth,
		logger:      logger,
		subscribers: make(map[*subscriber]struct{}),
	}
}

// Handler returns the websocket endpoint, mountable under any mux.
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(h.handleWebSocket)
}

// Start begins serving on addr in the background. Stop shuts it down.
func (h *Hub) Start(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/snapshots", h.Handler())
	h.srv = &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := h.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			h.logger.Error("stream server stopped", log.Error(err))
		}
	}()
	h.logger.Info("live stream listening", log.String("addr", addr))
}

// Stop closes all subscriber connections and shuts the server down.
func (h *Hub) Stop(ctx context.Context) error {
	h.mu.Lock()
	for sub := range h.subscribers {
		close(sub.send)
		delete(h.subscribers, sub)
	}
	h.mu.Unlock()

	if h.srv == nil {
		return nil
	}
	return h.srv.Shutdown(ctx)
}

// Publish fans a snapshot out to all subscribers. It never blocks: a
// subscriber whose buffer is full is disconnected.
func (h *Hub) Publish(s sim.StepSnapshot) {
	payload, err := json.Marshal(Envelope{Type: "snapshot", Snapshot: &s})
	if err != nil {
		h.logger.Error("snapshot marshal failed", log.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subscribers {
		select {
		case sub.send <- payload:
		default:
			h.logger.Warn("dropping slow subscriber",
				log.String("remote", sub.conn.RemoteAddr().String()))
			close(sub.send)
			delete(h.subscribers, sub)
		}
	}
}

// SubscriberCount returns the number of connected viewers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", log.Error(err))
		return
	}

	hello, err := json.Marshal(Envelope{Type: "hello", RunID: h.runID, HalfWidth: h.halfWidth})
	if err != nil {
		conn.Close()
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, hello); err != nil {
		conn.Close()
		return
	}

	sub := &subscriber{
		conn: conn,
		send: make(chan []byte, subscriberBuffer),
	}

	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("subscriber connected", log.String("remote", conn.RemoteAddr().String()))

	go h.writeLoop(sub)
	go h.readLoop(sub)
}

func (h *Hub) writeLoop(sub *subscriber) {
	defer sub.conn.Close()
	for payload := range sub.send {
		if err := sub.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.remove(sub)
			return
		}
	}
}

// readLoop drains inbound frames so close/ping handling works; viewers are
// not expected to send anything.
func (h *Hub) readLoop(sub *subscriber) {
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			h.remove(sub)
			return
		}
	}
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[sub]; ok {
		close(sub.send)
		delete(h.subscribers, sub)
	}
}
