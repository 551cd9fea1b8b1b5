package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SG2407/Aarogyan-BE-Project/internal/models"
)

const defaultChatTitle = "AI Medical Assistant"

const assistantSystemPrompt = "You are an AI Medical Assistant. Answer user medical queries in a helpful, safe, and user-specific way."

type chatStore interface {
	Create(ctx context.Context, userID uuid.UUID, title string) (*models.Chat, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Chat, error)
	GetByIDForUser(ctx context.Context, chatID, userID uuid.UUID) (*models.Chat, error)
	Delete(ctx context.Context, chatID, userID uuid.UUID) error
	Touch(ctx context.Context, chatID uuid.UUID) error
}

type messageStore interface {
	Create(ctx context.Context, chatID uuid.UUID, sender, content string) (*models.ChatMessage, error)
	ListByChat(ctx context.Context, chatID uuid.UUID) ([]models.ChatMessage, error)
	ListRecent(ctx context.Context, chatID uuid.UUID, limit int) ([]models.ChatMessage, error)
}

type userReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AssistantService brokers chats between the user and the LLM. Every message
// exchange is persisted before and after the model call, so a chat survives
// client disconnects.
type AssistantService struct {
	chatRepo    chatStore
	messageRepo messageStore
	userRepo    userReader
	llm         LLMClient
}

func NewAssistantService(chatRepo chatStore, messageRepo messageStore, userRepo userReader, llm LLMClient) *AssistantService {
	return &AssistantService{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		llm:         llm,
	}
}

// AssistantReply carries both halves of one exchange. The AI message is what
// the HTTP response returns; the user message is available for realtime
// delivery.
type AssistantReply struct {
	UserMessage *models.ChatMessage
	AIMessage   *models.ChatMessage
}

func (s *AssistantService) CreateChat(ctx context.Context, userID uuid.UUID, title string) (*models.Chat, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultChatTitle
	}
	return s.chatRepo.Create(ctx, userID, title)
}

func (s *AssistantService) ListChats(ctx context.Context, userID uuid.UUID) ([]models.Chat, error) {
	return s.chatRepo.ListByUser(ctx, userID)
}

func (s *AssistantService) DeleteChat(ctx context.Context, userID, chatID uuid.UUID) error {
	if _, err := s.requireChat(ctx, chatID, userID); err != nil {
		return err
	}
	return s.chatRepo.Delete(ctx, chatID, userID)
}

func (s *AssistantService) ListMessages(ctx context.Context, userID, chatID uuid.UUID) ([]models.ChatMessage, error) {
	if _, err := s.requireChat(ctx, chatID, userID); err != nil {
		return nil, err
	}
	return s.messageRepo.ListByChat(ctx, chatID)
}

// SendMessage stores the user's message, asks the LLM for a reply built from
// the user's account details and the last ten messages, stores the reply,
// and bumps the chat's last_message_at.
func (s *AssistantService) SendMessage(ctx context.Context, userID, chatID uuid.UUID, content string) (*AssistantReply, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrInvalidInput
	}
	if _, err := s.requireChat(ctx, chatID, userID); err != nil {
		return nil, err
	}

	userMessage, err := s.messageRepo.Create(ctx, chatID, models.SenderUser, content)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	history, err := s.messageRepo.ListRecent(ctx, chatID, 10)
	if err != nil {
		return nil, err
	}

	aiContent, err := s.llm.Complete(ctx, assistantSystemPrompt, buildAssistantPrompt(user, history))
	if err != nil {
		return nil, err
	}

	aiMessage, err := s.messageRepo.Create(ctx, chatID, models.SenderAI, aiContent)
	if err != nil {
		return nil, err
	}
	if err := s.chatRepo.Touch(ctx, chatID); err != nil {
		return nil, err
	}

	return &AssistantReply{UserMessage: userMessage, AIMessage: aiMessage}, nil
}

func (s *AssistantService) requireChat(ctx context.Context, chatID, userID uuid.UUID) (*models.Chat, error) {
	chat, err := s.chatRepo.GetByIDForUser(ctx, chatID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return chat, nil
}

func buildAssistantPrompt(user *models.User, history []models.ChatMessage) string {
	var b strings.Builder
	b.WriteString("User Info:\n")
	fmt.Fprintf(&b, "Name: %s\n", user.Name)
	if user.Age != nil {
		fmt.Fprintf(&b, "Age: %d\n", *user.Age)
	}
	if user.Gender != nil {
		fmt.Fprintf(&b, "Gender: %s\n", *user.Gender)
	}
	if user.Phone != nil {
		fmt.Fprintf(&b, "Phone: %s\n", *user.Phone)
	}
	if user.EmergencyContact != nil {
		fmt.Fprintf(&b, "Emergency Contact: %s\n", *user.EmergencyContact)
	}

	b.WriteString("\nChat History:\n")
	for _, message := range history {
		fmt.Fprintf(&b, "%s: %s\n", senderLabel(message.Sender), message.Content)
	}
	if len(history) > 0 {
		fmt.Fprintf(&b, "User: %s\n", history[len(history)-1].Content)
	}
	b.WriteString("AI:")
	return b.String()
}

// FormatChatTimestamp renders message timestamps for the websocket payload.
func FormatChatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func senderLabel(sender string) string {
	if sender == models.SenderAI {
		return "AI"
	}
	return "User"
}
