// Package feed pushes library change events to WebSocket subscribers.
package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"log/slog"

	"github.com/coder/websocket"

	"gamelib-service/internal/app/library"
	"gamelib-service/internal/logging"
)

const (
	// sendBuffer is the per-client queue depth. A client that falls this
	// far behind starts losing events rather than blocking the hub.
	sendBuffer = 16

	writeTimeout = 5 * time.Second
)

// Hub fans library change events out to connected WebSocket clients. It
// implements library.Notifier so the service can stay unaware of transports.
type Hub struct {
	mu      sync.Mutex
	logger  *slog.Logger
	nextID  int
	clients map[int]chan []byte
}

// NewHub constructs an empty hub. logger may be nil.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[int]chan []byte),
	}
}

// LibraryChanged broadcasts the event to every subscriber. Slow clients are
// skipped; the feed is best effort and must never block a mutation.
func (h *Hub) LibraryChanged(event library.ChangeEvent) {
	if h == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		logging.Warn(h.logger, "feed event marshal failed", "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, send := range h.clients {
		select {
		case send <- payload:
		default:
			logging.Warn(h.logger, "feed client lagging, event dropped", "client", id, "event", event.Type)
		}
	}
}

// ClientCount reports how many subscribers are currently connected.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) register() (int, chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	send := make(chan []byte, sendBuffer)
	h.clients[id] = send
	return id, send
}

func (h *Hub) unregister(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, id)
}

// ServeHTTP upgrades the request to a WebSocket and streams change events
// until the client disconnects. Incoming messages are discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		logging.Warn(h.logger, "feed accept failed", "err", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "feed closed")

	id, send := h.register()
	defer h.unregister(id)
	logging.Info(h.logger, "feed client connected", "client", id)

	// CloseRead keeps the read side drained and cancels the context when
	// the peer goes away.
	ctx := conn.CloseRead(r.Context())
	for {
		select {
		case <-ctx.Done():
			logging.Info(h.logger, "feed client disconnected", "client", id)
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case msg := <-send:
			if err := h.write(ctx, conn, msg); err != nil {
				logging.Warn(h.logger, "feed write failed", "client", id, "err", err)
				return
			}
		}
	}
}

func (h *Hub) write(ctx context.Context, conn *websocket.Conn, msg []byte) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, msg)
}
