package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SG2407/Aarogyan-BE-Project/internal/models"
)

type stubChatStore struct {
	chats   map[uuid.UUID]*models.Chat
	touched []uuid.UUID
	deleted []uuid.UUID
}

func newStubChatStore() *stubChatStore {
	return &stubChatStore{chats: make(map[uuid.UUID]*models.Chat)}
}

func (s *stubChatStore) Create(_ context.Context, userID uuid.UUID, title string) (*models.Chat, error) {
	chat := &models.Chat{ID: uuid.New(), UserID: userID, Title: title, CreatedAt: time.Now(), LastMessageAt: time.Now()}
	s.chats[chat.ID] = chat
	return chat, nil
}

func (s *stubChatStore) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Chat, error) {
	chats := []models.Chat{}
	for _, chat := range s.chats {
		if chat.UserID == userID {
			chats = append(chats, *chat)
		}
	}
	return chats, nil
}

func (s *stubChatStore) GetByIDForUser(_ context.Context, chatID, userID uuid.UUID) (*models.Chat, error) {
	chat, ok := s.chats[chatID]
	if !ok || chat.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	return chat, nil
}

func (s *stubChatStore) Delete(_ context.Context, chatID, _ uuid.UUID) error {
	delete(s.chats, chatID)
	s.deleted = append(s.deleted, chatID)
	return nil
}

func (s *stubChatStore) Touch(_ context.Context, chatID uuid.UUID) error {
	s.touched = append(s.touched, chatID)
	return nil
}

type stubMessageStore struct {
	messages []models.ChatMessage
}

func (s *stubMessageStore) Create(_ context.Context, chatID uuid.UUID, sender, content string) (*models.ChatMessage, error) {
	message := models.ChatMessage{
		ID:        uuid.New(),
		ChatID:    chatID,
		Sender:    sender,
		Content:   content,
		CreatedAt: time.Now(),
	}
	s.messages = append(s.messages, message)
	return &message, nil
}

func (s *stubMessageStore) ListByChat(_ context.Context, chatID uuid.UUID) ([]models.ChatMessage, error) {
	messages := []models.ChatMessage{}
	for _, message := range s.messages {
		if message.ChatID == chatID {
			messages = append(messages, message)
		}
	}
	return messages, nil
}

func (s *stubMessageStore) ListRecent(_ context.Context, chatID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	messages, _ := s.ListByChat(context.Background(), chatID)
	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

type stubUserReader struct {
	user *models.User
}

func (s *stubUserReader) GetByID(_ context.Context, _ uuid.UUID) (*models.User, error) {
	if s.user == nil {
		return nil, pgx.ErrNoRows
	}
	return s.user, nil
}

type stubLLM struct {
	reply      string
	err        error
	lastSystem string
	lastPrompt string
	calls      int
}

func (s *stubLLM) Complete(_ context.Context, system, prompt string) (string, error) {
	s.calls++
	s.lastSystem = system
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newAssistantFixture() (*AssistantService, *stubChatStore, *stubMessageStore, *stubUserReader, *stubLLM) {
	chats := newStubChatStore()
	messages := &stubMessageStore{}
	age := 34
	users := &stubUserReader{user: &models.User{ID: uuid.New(), Name: "Asha", Age: &age}}
	llm := &stubLLM{reply: "Please rest and stay hydrated."}
	return NewAssistantService(chats, messages, users, llm), chats, messages, users, llm
}

func TestCreateChatDefaultTitle(t *testing.T) {
	service, _, _, _, _ := newAssistantFixture()

	chat, err := service.CreateChat(context.Background(), uuid.New(), "  ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if chat.Title != "AI Medical Assistant" {
		t.Errorf("Expected default title, got %q", chat.Title)
	}
}

func TestSendMessageStoresBothSides(t *testing.T) {
	service, chats, messages, _, llm := newAssistantFixture()
	userID := uuid.New()
	chat, _ := chats.Create(context.Background(), userID, "checkup")

	reply, err := service.SendMessage(context.Background(), userID, chat.ID, "I have a headache")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(messages.messages) != 2 {
		t.Fatalf("Expected 2 stored messages, got %d", len(messages.messages))
	}
	if messages.messages[0].Sender != models.SenderUser {
		t.Errorf("Expected first message from user")
	}
	if messages.messages[1].Sender != models.SenderAI {
		t.Errorf("Expected second message from ai")
	}
	if reply.AIMessage.Content != "Please rest and stay hydrated." {
		t.Errorf("Unexpected AI reply: %q", reply.AIMessage.Content)
	}
	if len(chats.touched) != 1 {
		t.Errorf("Expected chat to be touched once")
	}
	if !strings.Contains(llm.lastPrompt, "Name: Asha") {
		t.Errorf("Expected user info in prompt, got %q", llm.lastPrompt)
	}
	if !strings.Contains(llm.lastPrompt, "I have a headache") {
		t.Errorf("Expected user message in prompt")
	}
	if llm.lastSystem == "" {
		t.Errorf("Expected system prompt to be set")
	}
}

func TestSendMessageRejectsForeignChat(t *testing.T) {
	service, chats, _, _, llm := newAssistantFixture()
	owner := uuid.New()
	chat, _ := chats.Create(context.Background(), owner, "private")

	_, err := service.SendMessage(context.Background(), uuid.New(), chat.ID, "hello")
	if !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("Expected ErrChatNotFound, got %v", err)
	}
	if llm.calls != 0 {
		t.Errorf("Expected no LLM call for a foreign chat")
	}
}

func TestSendMessageRejectsEmptyContent(t *testing.T) {
	service, chats, _, _, _ := newAssistantFixture()
	userID := uuid.New()
	chat, _ := chats.Create(context.Background(), userID, "checkup")

	_, err := service.SendMessage(context.Background(), userID, chat.ID, "   ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestSendMessagePropagatesLLMFailure(t *testing.T) {
	service, chats, messages, _, llm := newAssistantFixture()
	llm.err = errors.New("upstream unavailable")
	userID := uuid.New()
	chat, _ := chats.Create(context.Background(), userID, "checkup")

	_, err := service.SendMessage(context.Background(), userID, chat.ID, "hello")
	if err == nil {
		t.Fatalf("Expected error from LLM failure")
	}
	// the user message stays stored even when the model call fails
	if len(messages.messages) != 1 {
		t.Errorf("Expected only the user message stored, got %d", len(messages.messages))
	}
}

func TestListMessagesChecksOwnership(t *testing.T) {
	service, chats, _, _, _ := newAssistantFixture()
	owner := uuid.New()
	chat, _ := chats.Create(context.Background(), owner, "private")

	_, err := service.ListMessages(context.Background(), uuid.New(), chat.ID)
	if !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("Expected ErrChatNotFound, got %v", err)
	}
}

func TestDeleteChatChecksOwnership(t *testing.T) {
	service, chats, _, _, _ := newAssistantFixture()
	owner := uuid.New()
	chat, _ := chats.Create(context.Background(), owner, "private")

	if err := service.DeleteChat(context.Background(), uuid.New(), chat.ID); !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("Expected ErrChatNotFound, got %v", err)
	}
	if err := service.DeleteChat(context.Background(), owner, chat.ID); err != nil {
		t.Fatalf("Expected owner delete to succeed, got %v", err)
	}
	if len(chats.deleted) != 1 {
		t.Errorf("Expected one deletion")
	}
}
