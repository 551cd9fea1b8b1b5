package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/SG2407/Aarogyan-BE-Project/internal/models"
)

type ChatRepository struct {
	db DBTX
}

func NewChatRepository(db DBTX) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) Create(ctx context.Context, userID uuid.UUID, title string) (*models.Chat, error) {
	query := `
		INSERT INTO chats (user_id, title)
		VALUES ($1, $2)
		RETURNING id, user_id, title, created_at, last_message_at
	`
	var chat models.Chat
	err := r.db.QueryRow(ctx, query, userID, title).
		Scan(&chat.ID, &chat.UserID, &chat.Title, &chat.CreatedAt, &chat.LastMessageAt)
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *ChatRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Chat, error) {
	query := `
		SELECT id, user_id, title, created_at, last_message_at
		FROM chats
		WHERE user_id = $1
		ORDER BY last_message_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chats := []models.Chat{}
	for rows.Next() {
		var chat models.Chat
		if err := rows.Scan(&chat.ID, &chat.UserID, &chat.Title, &chat.CreatedAt, &chat.LastMessageAt); err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

func (r *ChatRepository) GetByIDForUser(ctx context.Context, chatID, userID uuid.UUID) (*models.Chat, error) {
	query := `
		SELECT id, user_id, title, created_at, last_message_at
		FROM chats
		WHERE id = $1 AND user_id = $2
	`
	var chat models.Chat
	err := r.db.QueryRow(ctx, query, chatID, userID).
		Scan(&chat.ID, &chat.UserID, &chat.Title, &chat.CreatedAt, &chat.LastMessageAt)
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *ChatRepository) Delete(ctx context.Context, chatID, userID uuid.UUID) error {
	query := `DELETE FROM chats WHERE id = $1 AND user_id = $2`
	_, err := r.db.Exec(ctx, query, chatID, userID)
	return err
}

func (r *ChatRepository) Touch(ctx context.Context, chatID uuid.UUID) error {
	query := `UPDATE chats SET last_message_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, chatID)
	return err
}
