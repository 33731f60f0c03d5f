package websocket

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Hub maintains the set of active clients and routes events to them. Each
// user holds at most one connection; registering a second one closes the
// first. Thread topics are transient subscription sets that vanish with
// their last subscriber.
type Hub struct {
	clients map[uuid.UUID]*Client
	topics  map[uuid.UUID]map[*Client]bool

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		topics:     make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's registration loop.
func (h *Hub) Run() {
	log.Println("WebSocket hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if previous, ok := h.clients[client.UserID]; ok {
				h.dropClientLocked(previous)
				close(previous.Send)
				log.Printf("Replacing existing connection for user %s", client.UserID)
			}
			h.clients[client.UserID] = client
			h.mu.Unlock()
			log.Printf("WebSocket client registered for user %s", client.UserID)

		case client := <-h.unregister:
			h.mu.Lock()
			// Only unregister if this client still owns the slot; a replaced
			// connection's teardown must not evict its successor.
			if current, ok := h.clients[client.UserID]; ok && current == client {
				h.dropClientLocked(client)
				close(client.Send)
				log.Printf("WebSocket client unregistered for user %s", client.UserID)
			}
			h.mu.Unlock()
		}
	}
}

// dropClientLocked removes the client from the registry and every topic.
// Caller holds h.mu.
func (h *Hub) dropClientLocked(client *Client) {
	delete(h.clients, client.UserID)
	for threadID, subscribers := range h.topics {
		if subscribers[client] {
			delete(subscribers, client)
			if len(subscribers) == 0 {
				delete(h.topics, threadID)
			}
		}
	}
}

// Subscribe adds the client to a thread topic.
func (h *Hub) Subscribe(client *Client, threadID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.topics[threadID]; !ok {
		h.topics[threadID] = make(map[*Client]bool)
	}
	h.topics[threadID][client] = true
}

// Unsubscribe removes the client from a thread topic.
func (h *Hub) Unsubscribe(client *Client, threadID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subscribers, ok := h.topics[threadID]; ok {
		delete(subscribers, client)
		if len(subscribers) == 0 {
			delete(h.topics, threadID)
		}
	}
}

// PushToUser queues an event for one user's connection. Delivery is
// best-effort: a disconnected user or a full send buffer drops the frame.
func (h *Hub) PushToUser(userID uuid.UUID, payload []byte) {
	if payload == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.clients[userID]
	if !ok {
		return
	}
	select {
	case client.Send <- payload:
	default:
		log.Printf("Send buffer full for user %s, dropping frame", userID)
	}
}

// PushToTopic queues an event for every subscriber of a thread topic.
func (h *Hub) PushToTopic(threadID uuid.UUID, payload []byte) {
	if payload == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.topics[threadID] {
		select {
		case client.Send <- payload:
		default:
			log.Printf("Send buffer full for user %s, dropping topic frame", client.UserID)
		}
	}
}

// Broadcast queues an event for every connected user.
func (h *Hub) Broadcast(payload []byte) {
	if payload == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.Send <- payload:
		default:
			log.Printf("Send buffer full for user %s, dropping broadcast frame", client.UserID)
		}
	}
}

// ConnectedUsers returns the number of registered connections.
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
