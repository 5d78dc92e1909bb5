// internal/realtime/hub.go

package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event is the wire frame pushed to connected clients when tracker
// state changes.
type Event struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

const (
	// EventSnapshot signals that the lead and interaction collections
	// were replaced by a remote change and should be refetched.
	EventSnapshot = "snapshot"

	// EventSyncStatus carries a sync connectivity transition.
	EventSyncStatus = "sync_status"
)

// Hub maintains active websocket connections and fans events out to
// all of them. Every client sees every event.
type Hub struct {
	clients    map[*Client]struct{}
	clientsMux sync.RWMutex

	broadcast  chan Event
	register   chan *Client
	unregister chan *Client

	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewHub(logger *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer func() {
		h.cleanup()
		close(h.done)
	}()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)

		case <-h.ctx.Done():
			return
		}
	}
}

// Broadcast queues an event for every connected client. The payload
// is marshaled once, up front, so a bad value is caught here rather
// than per client.
func (h *Hub) Broadcast(eventType string, payload interface{}) {
	var data json.RawMessage
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			h.logger.Error("marshaling broadcast payload", zap.String("type", eventType), zap.Error(err))
			return
		}
		data = raw
	}

	event := Event{Type: eventType, Data: data, Timestamp: time.Now()}
	select {
	case h.broadcast <- event:
	case <-h.ctx.Done():
	}
}

func (h *Hub) registerClient(client *Client) {
	h.clientsMux.Lock()
	h.clients[client] = struct{}{}
	total := len(h.clients)
	h.clientsMux.Unlock()

	h.logger.Info("websocket client connected", zap.Int("total", total))
}

func (h *Hub) unregisterClient(client *Client) {
	h.clientsMux.Lock()
	if _, exists := h.clients[client]; exists {
		client.close()
		delete(h.clients, client)
	}
	total := len(h.clients)
	h.clientsMux.Unlock()

	h.logger.Info("websocket client disconnected", zap.Int("total", total))
}

func (h *Hub) broadcastEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("marshaling event", zap.Error(err))
		return
	}

	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			// Slow consumer, drop the connection.
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

func (h *Hub) cleanup() {
	h.clientsMux.Lock()
	for client := range h.clients {
		client.close()
	}
	h.clients = make(map[*Client]struct{})
	h.clientsMux.Unlock()
}

func (h *Hub) Shutdown() {
	h.cancel()
	<-h.done
}

func (h *Hub) ActiveConnections() int {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	return len(h.clients)
}
