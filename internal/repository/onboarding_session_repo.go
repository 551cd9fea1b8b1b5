package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/SG2407/Aarogyan-BE-Project/internal/models"
)

type OnboardingSessionRepository struct {
	db DBTX
}

func NewOnboardingSessionRepository(db DBTX) *OnboardingSessionRepository {
	return &OnboardingSessionRepository{db: db}
}

const sessionColumns = `id, user_id, current_step, progress, last_question, is_active, started_at, updated_at`

func (r *OnboardingSessionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.OnboardingSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM onboarding_sessions WHERE user_id = $1`
	return r.scanSession(ctx, query, userID)
}

func (r *OnboardingSessionRepository) Create(ctx context.Context, userID uuid.UUID, isActive bool) (*models.OnboardingSession, error) {
	query := `
		INSERT INTO onboarding_sessions (user_id, is_active)
		VALUES ($1, $2)
		RETURNING ` + sessionColumns
	return r.scanSession(ctx, query, userID, isActive)
}

// Reactivate resets an inactive session for a fresh run of the
// questionnaire.
func (r *OnboardingSessionRepository) Reactivate(ctx context.Context, userID uuid.UUID) (*models.OnboardingSession, error) {
	query := `
		UPDATE onboarding_sessions
		SET is_active = TRUE, current_step = NULL, progress = 0, started_at = NOW(), updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + sessionColumns
	return r.scanSession(ctx, query, userID)
}

// SetCurrentStep writes the field the session now waits on; nil clears it.
func (r *OnboardingSessionRepository) SetCurrentStep(ctx context.Context, userID uuid.UUID, step *string) error {
	query := `UPDATE onboarding_sessions SET current_step = $1, updated_at = NOW() WHERE user_id = $2`
	_, err := r.db.Exec(ctx, query, step, userID)
	return err
}

func (r *OnboardingSessionRepository) SetLastQuestion(ctx context.Context, userID uuid.UUID, question string) error {
	query := `UPDATE onboarding_sessions SET last_question = $1, updated_at = NOW() WHERE user_id = $2`
	_, err := r.db.Exec(ctx, query, question, userID)
	return err
}

func (r *OnboardingSessionRepository) SetProgress(ctx context.Context, userID uuid.UUID, progress float64) error {
	query := `UPDATE onboarding_sessions SET progress = $1, updated_at = NOW() WHERE user_id = $2`
	_, err := r.db.Exec(ctx, query, progress, userID)
	return err
}

func (r *OnboardingSessionRepository) SetActive(ctx context.Context, userID uuid.UUID, active bool) error {
	query := `UPDATE onboarding_sessions SET is_active = $1, updated_at = NOW() WHERE user_id = $2`
	_, err := r.db.Exec(ctx, query, active, userID)
	return err
}

func (r *OnboardingSessionRepository) scanSession(ctx context.Context, query string, args ...any) (*models.OnboardingSession, error) {
	var s models.OnboardingSession
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&s.ID,
		&s.UserID,
		&s.CurrentStep,
		&s.Progress,
		&s.LastQuestion,
		&s.IsActive,
		&s.StartedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
