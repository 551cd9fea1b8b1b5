package models

import (
	"time"

	"github.com/google/uuid"
)

// OnboardingSession tracks questionnaire progress for one user. At most one
// row per user; is_active flips to false once progress crosses the
// completion threshold or the user ends the session.
type OnboardingSession struct {
	ID           int64     `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	CurrentStep  *string   `json:"current_step"`
	Progress     float64   `json:"progress"`
	LastQuestion *string   `json:"last_question"`
	IsActive     bool      `json:"is_active"`
	StartedAt    time.Time `json:"started_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
