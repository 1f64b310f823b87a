package socket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"secondbrain/internal/knowledge/model"
	"secondbrain/pkg/logger"
	"secondbrain/pkg/metrics"

	"github.com/gorilla/websocket"
)

const (
	NoteCreatedType = "NOTE_CREATED" // A note was persisted

	broadcastBuffer = 64
	sendBuffer      = 256
)

type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans created notes out to every connected dashboard.
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan WSMessage
	Register   chan *Client
	Unregister chan *Client
	origins    map[string]bool
	done       chan struct{}
	mu         sync.Mutex
}

type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	UserID string
	Send   chan []byte
}

// NewHub accepts upgrades from the given browser origins; with none, any origin is accepted.
func NewHub(origins ...string) *Hub {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &Hub{
		origins:    allowed,
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan WSMessage, broadcastBuffer),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run owns the client set until ctx is cancelled, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.Clients {
				h.remove(client)
			}
			h.mu.Unlock()
			logger.Sugar.Info("Live feed hub stopped")
			return

		case client := <-h.Register:
			h.mu.Lock()
			h.Clients[client] = true
			h.mu.Unlock()
			metrics.WebSocketConnections.Inc()
			logger.Sugar.Infof("Live feed client connected (user %q)", client.UserID)

		case client := <-h.Unregister:
			h.mu.Lock()
			if h.Clients[client] {
				h.remove(client)
			}
			h.mu.Unlock()

		case msg := <-h.Broadcast:
			payload, err := json.Marshal(msg)
			if err != nil {
				logger.Sugar.Errorf("Error marshalling broadcast message: %v", err)
				continue
			}
			h.mu.Lock()
			for client := range h.Clients {
				select {
				case client.Send <- payload:
				default:
					// Lagging client; dropping it keeps the hub from blocking.
					logger.Sugar.Warnf("Client %q send buffer is full. Unregistering.", client.UserID)
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove must be called with mu held.
func (h *Hub) remove(client *Client) {
	delete(h.Clients, client)
	close(client.Send)
	metrics.WebSocketConnections.Dec()
}

// NoteCreated queues note for broadcast. It never blocks; when the queue is full the event is dropped.
func (h *Hub) NoteCreated(note model.Note) {
	payload, err := json.Marshal(note)
	if err != nil {
		logger.Sugar.Errorf("Error marshalling note %s for broadcast: %v", note.ID, err)
		return
	}
	select {
	case h.Broadcast <- WSMessage{Type: NoteCreatedType, Payload: payload}:
	default:
		logger.Sugar.Warnf("Broadcast queue full, dropping %s event for note %s", NoteCreatedType, note.ID)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.Clients)
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || len(h.origins) == 0 || h.origins[origin]
}

func (h *Hub) register(c *Client) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregister(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}
