package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/SG2407/Aarogyan-BE-Project/internal/models"
)

type MessageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, chatID uuid.UUID, sender, content string) (*models.ChatMessage, error) {
	query := `
		INSERT INTO messages (chat_id, sender, content)
		VALUES ($1, $2, $3)
		RETURNING id, chat_id, sender, content, created_at
	`
	var message models.ChatMessage
	err := r.db.QueryRow(ctx, query, chatID, sender, content).
		Scan(&message.ID, &message.ChatID, &message.Sender, &message.Content, &message.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *MessageRepository) ListByChat(ctx context.Context, chatID uuid.UUID) ([]models.ChatMessage, error) {
	query := `
		SELECT id, chat_id, sender, content, created_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.ChatMessage{}
	for rows.Next() {
		var message models.ChatMessage
		if err := rows.Scan(&message.ID, &message.ChatID, &message.Sender, &message.Content, &message.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}

// ListRecent returns the newest limit messages in chronological order, for
// assembling LLM context.
func (r *MessageRepository) ListRecent(ctx context.Context, chatID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	query := `
		SELECT id, chat_id, sender, content, created_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, chatID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.ChatMessage{}
	for rows.Next() {
		var message models.ChatMessage
		if err := rows.Scan(&message.ID, &message.ChatID, &message.Sender, &message.Content, &message.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
