package handlers

import (
	"context"
	"errors"
	"strings"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SG2407/Aarogyan-BE-Project/internal/models"
	"github.com/SG2407/Aarogyan-BE-Project/internal/services"
	assistantws "github.com/SG2407/Aarogyan-BE-Project/internal/websocket"
	"github.com/SG2407/Aarogyan-BE-Project/pkg/utils"
)

type assistantApplicationService interface {
	CreateChat(ctx context.Context, userID uuid.UUID, title string) (*models.Chat, error)
	ListChats(ctx context.Context, userID uuid.UUID) ([]models.Chat, error)
	DeleteChat(ctx context.Context, userID, chatID uuid.UUID) error
	ListMessages(ctx context.Context, userID, chatID uuid.UUID) ([]models.ChatMessage, error)
	SendMessage(ctx context.Context, userID, chatID uuid.UUID, content string) (*services.AssistantReply, error)
}

type AssistantHandler struct {
	service   assistantApplicationService
	hub       *assistantws.Hub
	jwtSecret string
}

func NewAssistantHandler(service assistantApplicationService, hub *assistantws.Hub, jwtSecret string) *AssistantHandler {
	return &AssistantHandler{
		service:   service,
		hub:       hub,
		jwtSecret: jwtSecret,
	}
}

type createChatRequest struct {
	Title string `json:"title"`
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

func (h *AssistantHandler) CreateChat(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createChatRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	chat, err := h.service.CreateChat(c.Context(), userID, req.Title)
	if err != nil {
		return mapAssistantError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"chat": chat})
}

func (h *AssistantHandler) ListChats(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	chats, err := h.service.ListChats(c.Context(), userID)
	if err != nil {
		return mapAssistantError(c, err)
	}
	return c.JSON(fiber.Map{"chats": chats})
}

func (h *AssistantHandler) DeleteChat(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	chatID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid chat id"})
	}

	if err := h.service.DeleteChat(c.Context(), userID, chatID); err != nil {
		return mapAssistantError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AssistantHandler) GetMessages(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	chatID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid chat id"})
	}

	messages, err := h.service.ListMessages(c.Context(), userID, chatID)
	if err != nil {
		return mapAssistantError(c, err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}

// SendMessage returns the AI reply and also pushes both halves of the
// exchange to the user's websocket connections.
func (h *AssistantHandler) SendMessage(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	chatID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid chat id"})
	}

	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	reply, err := h.service.SendMessage(c.Context(), userID, chatID, req.Content)
	if err != nil {
		return mapAssistantError(c, err)
	}

	if h.hub != nil {
		h.hub.Publish(userID, reply.UserMessage)
		h.hub.Publish(userID, reply.AIMessage)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": reply.AIMessage})
}

func (h *AssistantHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "WebSocket upgrade required"})
	}

	claims, err := h.parseWSClaims(c)
	if err != nil || claims.TokenType != utils.TokenTypeAccess {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	c.Locals("user_id", claims.UserID)
	return c.Next()
}

func (h *AssistantHandler) HandleWebSocket(conn *websocket.Conn) {
	userID, _ := conn.Locals("user_id").(string)
	client := assistantws.NewClient(h.hub, conn, userID)

	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump(h.service)
}

func (h *AssistantHandler) parseWSClaims(c *fiber.Ctx) (*utils.Claims, error) {
	tokenString := strings.TrimSpace(c.Query("token"))
	if tokenString == "" {
		authHeader := strings.TrimSpace(c.Get("Authorization"))
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
	}

	if tokenString == "" {
		return nil, errors.New("missing token")
	}

	return utils.ValidateToken(tokenString, h.jwtSecret)
}

func mapAssistantError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrChatNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Chat not found"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Chat not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process chat request"})
	}
}
