// Package ws pushes task change events to connected browsers so they can
// drop cached listings and refetch.
package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"taskboard/internal/logger"
)

// TaskEvent is the wire format of a change notification.
type TaskEvent struct {
	Type   string `json:"type"`
	TaskID string `json:"task_id"`
	At     string `json:"at"`
}

// Hub tracks connected clients and broadcasts task events to all of them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	logger.Debug("ws client connected", "clients", n)
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.Send)
	}
	h.mu.Unlock()
}

// Broadcast queues the event for every connected client. Clients whose send
// buffer is full are dropped rather than blocking the caller.
func (h *Hub) Broadcast(ev TaskEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		logger.Error("ws event marshal failed", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.Send <- data:
		default:
			delete(h.clients, c)
			close(c.Send)
		}
	}
}

// TaskChanged implements service.ChangeNotifier.
func (h *Hub) TaskChanged(ctx context.Context, action, taskID string) {
	h.Broadcast(TaskEvent{
		Type:   action,
		TaskID: taskID,
		At:     time.Now().UTC().Format(time.RFC3339),
	})
}

// ClientCount reports how many clients are connected.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
