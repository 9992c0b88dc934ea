// Package ws delivers live update events to connected browsers. Services
// publish events to the hub and every open socket belonging to the target
// user receives them. Delivery is best-effort: a slow or absent client
// never blocks a mutation.
package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTodoCreated         EventType = "todo.created"
	EventTodoUpdated         EventType = "todo.updated"
	EventTodoCompleted       EventType = "todo.completed"
	EventTodoDeleted         EventType = "todo.deleted"
	EventFriendRequest       EventType = "friend.request"
	EventFriendAccepted      EventType = "friend.accepted"
	EventFriendRemoved       EventType = "friend.removed"
	EventCollaboratorAdded   EventType = "collaborator.added"
	EventCollaboratorRemoved EventType = "collaborator.removed"
	EventNotification        EventType = "notification"
)

type Event struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func NewEvent(eventType EventType, payload interface{}) Event {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ERROR [ws.NewEvent] failed to marshal payload: %v", err)
		data = nil
	}
	return Event{Type: eventType, Payload: data}
}

// Hub tracks connected clients per user and fans events out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uuid.UUID]map[*Client]struct{})}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[client.userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[client.userID] = set
	}
	set[client] = struct{}{}
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
}

// Publish sends an event to every open socket of the given user. Clients
// whose buffers are full are dropped rather than waited on.
//
// Sends happen under the read lock: close(client.send) only ever runs in
// Unregister under the write lock, so a racing disconnect cannot close
// the channel mid-send. Full clients are collected and dropped after the
// lock is released, since Unregister needs the write lock.
func (h *Hub) Publish(userID uuid.UUID, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ERROR [ws.Publish] failed to marshal event: %v", err)
		return
	}

	h.mu.RLock()
	var full []*Client
	for client := range h.clients[userID] {
		select {
		case client.send <- data:
		default:
			full = append(full, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range full {
		h.Unregister(client)
	}
}

// Connected reports how many sockets the user currently has open.
func (h *Hub) Connected(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
