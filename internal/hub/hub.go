package hub

import "sync"

// Client represents a single connection's outbound queue. The session
// that owns the connection drains it onto the socket.
type Client chan []byte

// Hub fans rendered output out to subscribers of named topics. Topics
// are scope strings like "server", "room:The Lobby", "table:Alpha" and
// "user:42".
type Hub struct {
	topics map[string]map[Client]bool
	mu     sync.RWMutex
}

// New creates a new Hub.
func New() *Hub {
	return &Hub{
		topics: make(map[string]map[Client]bool),
	}
}

// Subscribe adds a client to a topic.
func (h *Hub) Subscribe(topic string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.topics[topic]; !ok {
		h.topics[topic] = make(map[Client]bool)
	}
	h.topics[topic][client] = true
}

// Unsubscribe removes a client from a topic. The client channel stays
// open; a session subscribes to several topics and owns its channel.
func (h *Hub) Unsubscribe(topic string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.topics[topic]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.topics, topic)
		}
	}
}

// Drop removes a client from every topic, for disconnects.
func (h *Hub) Drop(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for topic, clients := range h.topics {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.topics, topic)
		}
	}
}

// Broadcast sends a message to all clients subscribed to a topic.
func (h *Hub) Broadcast(topic string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.topics[topic] {
		// Use a non-blocking send so a slow or dead client never stalls
		// the sender. The disconnect path cleans the client up.
		select {
		case client <- message:
		default:
		}
	}
}
