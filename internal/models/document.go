package models

import (
	"time"

	"github.com/google/uuid"
)

type MedicalDocument struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	Title         string    `json:"title"`
	FileURL       string    `json:"file_url"`
	FileType      string    `json:"file_type"`
	FileSize      int64     `json:"file_size"`
	ExtractedText string    `json:"extracted_text"`
	Explanation   string    `json:"explanation"`
	CreatedAt     time.Time `json:"created_at"`
}
