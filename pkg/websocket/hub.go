package websocket

import (
	"sync"

	"go.uber.org/zap"

	"github.com/geargillie/safetrade-mvp-sub000/pkg/logger"
)

// Message is the envelope broadcast to connected clients
type Message struct {
	Type           string                 `json:"type"`
	ConversationID string                 `json:"conversation_id,omitempty"`
	UserID         string                 `json:"user_id,omitempty"`
	Data           map[string]interface{} `json:"data,omitempty"`
}

// Hub maintains the set of active clients and routes messages to them
type Hub struct {
	mu            sync.RWMutex
	clients       map[string]*Client
	conversations map[string]map[string]bool // conversation ID -> set of client IDs

	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan *Message
}

// NewHub creates a new hub
func NewHub() *Hub {
	return &Hub{
		clients:       make(map[string]*Client),
		conversations: make(map[string]map[string]bool),
		Register:      make(chan *Client, 16),
		Unregister:    make(chan *Client, 16),
		Broadcast:     make(chan *Message, 256),
	}
}

// Run processes register/unregister/broadcast events until the process exits
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)
		case client := <-h.Unregister:
			h.unregisterClient(client)
		case msg := <-h.Broadcast:
			h.broadcast(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Replace any existing connection for the same user
	if existing, ok := h.clients[client.ID]; ok {
		existing.Close()
	}
	h.clients[client.ID] = client
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.clients[client.ID]; !ok || current != client {
		return
	}
	delete(h.clients, client.ID)
	client.Close()

	for convID, members := range h.conversations {
		delete(members, client.ID)
		if len(members) == 0 {
			delete(h.conversations, convID)
		}
	}
}

func (h *Hub) broadcast(msg *Message) {
	if msg.ConversationID != "" {
		h.SendToConversation(msg.ConversationID, msg)
		return
	}
	if msg.UserID != "" {
		h.SendToUser(msg.UserID, msg)
	}
}

// JoinConversation subscribes a client to conversation events
func (h *Hub) JoinConversation(clientID, conversationID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conversations[conversationID]; !ok {
		h.conversations[conversationID] = make(map[string]bool)
	}
	h.conversations[conversationID][clientID] = true
}

// LeaveConversation unsubscribes a client from conversation events
func (h *Hub) LeaveConversation(clientID, conversationID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.conversations[conversationID]; ok {
		delete(members, clientID)
		if len(members) == 0 {
			delete(h.conversations, conversationID)
		}
	}
}

// SendToConversation sends a message to every client subscribed to a conversation
func (h *Hub) SendToConversation(conversationID string, msg *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for clientID := range h.conversations[conversationID] {
		if client, ok := h.clients[clientID]; ok {
			client.Send(msg)
		}
	}
}

// SendToUser sends a message to a single connected user
func (h *Hub) SendToUser(userID string, msg *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if client, ok := h.clients[userID]; ok {
		client.Send(msg)
	}
}

// GetClient returns the client for a user, if connected
func (h *Hub) GetClient(userID string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[userID]
	return client, ok
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetConversationCount returns the number of conversations with subscribers
func (h *Hub) GetConversationCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conversations)
}

// GetClientsInConversation returns the IDs of clients subscribed to a conversation
func (h *Hub) GetClientsInConversation(conversationID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.conversations[conversationID]))
	for id := range h.conversations[conversationID] {
		ids = append(ids, id)
	}
	return ids
}

func (h *Hub) logDroppedMessage(client *Client, msg *Message) {
	logger.Warn("Dropping websocket message, client send buffer full",
		zap.String("client_id", client.ID),
		zap.String("type", msg.Type),
	)
}
