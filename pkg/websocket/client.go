package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

// Client is a single websocket connection owned by one user
type Client struct {
	ID   string
	Role string

	hub  *Hub
	conn *websocket.Conn
	send chan *Message
	log  *zap.Logger

	closeOnce sync.Once
}

// NewClient creates a new websocket client
func NewClient(id string, conn *websocket.Conn, hub *Hub, role string, log *zap.Logger) *Client {
	return &Client{
		ID:   id,
		Role: role,
		hub:  hub,
		conn: conn,
		send: make(chan *Message, sendBufferSize),
		log:  log,
	}
}

// Send queues a message for delivery; messages are dropped if the buffer is full
func (c *Client) Send(msg *Message) {
	select {
	case c.send <- msg:
	default:
		c.hub.logDroppedMessage(c, msg)
	}
}

// Close closes the underlying connection
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
		_ = c.conn.Close()
	})
}

// ReadPump reads incoming frames until the connection drops, then unregisters
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister <- c
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var incoming Message
		if err := c.conn.ReadJSON(&incoming); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("Unexpected websocket close", zap.String("client_id", c.ID), zap.Error(err))
			}
			return
		}

		switch incoming.Type {
		case "conversation.join":
			if incoming.ConversationID != "" {
				c.hub.JoinConversation(c.ID, incoming.ConversationID)
			}
		case "conversation.leave":
			if incoming.ConversationID != "" {
				c.hub.LeaveConversation(c.ID, incoming.ConversationID)
			}
		}
	}
}

// WritePump writes queued messages and pings until the send channel closes
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			payload, err := json.Marshal(msg)
			if err != nil {
				c.log.Error("Failed to marshal websocket message", zap.Error(err))
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
