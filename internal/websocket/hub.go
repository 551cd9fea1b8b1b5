package assistantws

import (
	"context"
	"encoding/json"
	"log"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"github.com/SG2407/Aarogyan-BE-Project/internal/models"
	"github.com/SG2407/Aarogyan-BE-Project/internal/services"
)

// Hub fans assistant replies out to a user's open connections. A user may be
// connected from several devices; every connection sees both halves of an
// exchange regardless of which transport sent it.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan *delivery
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

type sender interface {
	SendMessage(ctx context.Context, userID, chatID uuid.UUID, content string) (*services.AssistantReply, error)
}

type Message struct {
	Type      string `json:"type"`
	ChatID    string `json:"chat_id,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	Sender    string `json:"sender,omitempty"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// delivery fans out to all of a user's connections, or to a single one when
// client is set. All channel sends and closes happen on the hub goroutine.
type delivery struct {
	userID  string
	client  *Client
	message *Message
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *delivery, 64),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			set, ok := h.clients[client.userID]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				delete(set, client)
				close(client.send)
			}
			if len(set) == 0 {
				delete(h.clients, client.userID)
			}
		case d := <-h.broadcast:
			h.deliver(d)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Publish pushes a stored chat message to the owning user's connections.
// Used by the HTTP handler so websocket listeners see replies to messages
// sent over REST.
func (h *Hub) Publish(userID uuid.UUID, message *models.ChatMessage) {
	h.broadcast <- &delivery{
		userID:  userID.String(),
		message: chatMessagePayload(message),
	}
}

func (h *Hub) deliver(d *delivery) {
	encoded, err := json.Marshal(d.message)
	if err != nil {
		log.Printf("assistant hub encode message: %v", err)
		return
	}
	if d.client != nil {
		h.sendToClient(d.client, encoded)
		return
	}
	h.sendToUser(d.userID, encoded)
}

// sendToClient targets one connection; a client already gone from the
// registry is skipped, so its closed send channel is never written to.
func (h *Hub) sendToClient(client *Client, payload []byte) {
	set, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, registered := set[client]; !registered {
		return
	}
	select {
	case client.send <- payload:
	default:
		delete(set, client)
		close(client.send)
		if len(set) == 0 {
			delete(h.clients, client.userID)
		}
	}
}

func (h *Hub) sendToUser(userID string, payload []byte) {
	set, ok := h.clients[userID]
	if !ok {
		return
	}

	for client := range set {
		select {
		case client.send <- payload:
		default:
			delete(set, client)
			close(client.send)
		}
	}
	if len(set) == 0 {
		delete(h.clients, userID)
	}
}

func (c *Client) ReadPump(service sender) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	userID, err := uuid.Parse(c.userID)
	if err != nil {
		writeError(c, "invalid user")
		return
	}

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var incoming struct {
			Type    string `json:"type"`
			ChatID  string `json:"chat_id"`
			Content string `json:"content"`
		}
		if err := json.Unmarshal(payload, &incoming); err != nil {
			writeError(c, "invalid message payload")
			continue
		}
		if incoming.Type != "message" {
			writeError(c, "unsupported message type")
			continue
		}

		chatID, err := uuid.Parse(incoming.ChatID)
		if err != nil {
			writeError(c, "invalid chat id")
			continue
		}

		reply, err := service.SendMessage(context.Background(), userID, chatID, incoming.Content)
		if err != nil {
			writeError(c, "failed to send message")
			continue
		}

		c.hub.broadcast <- &delivery{userID: c.userID, message: chatMessagePayload(reply.UserMessage)}
		c.hub.broadcast <- &delivery{userID: c.userID, message: chatMessagePayload(reply.AIMessage)}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

func chatMessagePayload(message *models.ChatMessage) *Message {
	return &Message{
		Type:      "message",
		ChatID:    message.ChatID.String(),
		MessageID: message.ID.String(),
		Sender:    message.Sender,
		Content:   message.Content,
		Timestamp: services.FormatChatTimestamp(message.CreatedAt),
	}
}

func writeError(client *Client, message string) {
	client.hub.broadcast <- &delivery{
		userID: client.userID,
		client: client,
		message: &Message{
			Type:      "error",
			Content:   message,
			Timestamp: services.FormatChatTimestamp(time.Now().UTC()),
		},
	}
}
