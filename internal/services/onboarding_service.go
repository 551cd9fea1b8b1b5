package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SG2407/Aarogyan-BE-Project/internal/models"
	"github.com/SG2407/Aarogyan-BE-Project/internal/onboarding"
)

// CompletionThreshold is the progress score at which a session deactivates.
const CompletionThreshold = 70.0

type profileStore interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.MedicalProfile, error)
	CreateEmpty(ctx context.Context, userID uuid.UUID) (*models.MedicalProfile, error)
	UpdateScalarField(ctx context.Context, userID uuid.UUID, field string, value any) error
}

type sessionStore interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.OnboardingSession, error)
	Create(ctx context.Context, userID uuid.UUID, isActive bool) (*models.OnboardingSession, error)
	Reactivate(ctx context.Context, userID uuid.UUID) (*models.OnboardingSession, error)
	SetCurrentStep(ctx context.Context, userID uuid.UUID, step *string) error
	SetLastQuestion(ctx context.Context, userID uuid.UUID, question string) error
	SetProgress(ctx context.Context, userID uuid.UUID, progress float64) error
	SetActive(ctx context.Context, userID uuid.UUID, active bool) error
}

type entryStore interface {
	AddEntry(ctx context.Context, profileID int64, field, name string) error
}

// OnboardingService drives the questionnaire session lifecycle. Answer and
// skip are read-modify-write sequences over two rows with no transactional
// guard, so all mutating operations for one user serialize through a
// per-user mutex.
type OnboardingService struct {
	profileRepo   profileStore
	sessionRepo   sessionStore
	subRecordRepo entryStore

	mu        sync.Mutex
	userLocks map[uuid.UUID]*sync.Mutex // one entry per user seen, never evicted
}

func NewOnboardingService(profileRepo profileStore, sessionRepo sessionStore, subRecordRepo entryStore) *OnboardingService {
	return &OnboardingService{
		profileRepo:   profileRepo,
		sessionRepo:   sessionRepo,
		subRecordRepo: subRecordRepo,
		userLocks:     make(map[uuid.UUID]*sync.Mutex),
	}
}

type ProfileView struct {
	Profile         *models.MedicalProfile `json:"profile"`
	CompletionScore float64                `json:"completion_score"`
	NextQuestion    *string                `json:"next_question"`
}

type AnswerResult struct {
	Profile         *models.MedicalProfile    `json:"profile"`
	CompletionScore float64                   `json:"completion_score"`
	Session         *models.OnboardingSession `json:"session"`
	NextQuestion    *string                   `json:"next_question"`
}

type SkipResult struct {
	Session      *models.OnboardingSession `json:"session"`
	NextQuestion *string                   `json:"next_question"`
}

func (s *OnboardingService) lockUser(userID uuid.UUID) func() {
	s.mu.Lock()
	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// GetProfile returns the profile with its completion score, creating an
// empty profile on first access. The pending question comes from the active
// session, if any.
func (s *OnboardingService) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileView, error) {
	profile, err := s.getOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	var nextQuestion *string
	session, err := s.sessionRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if session != nil && session.IsActive {
		nextQuestion = session.CurrentStep
	}

	return &ProfileView{
		Profile:         profile,
		CompletionScore: onboarding.CompletionScore(profile),
		NextQuestion:    nextQuestion,
	}, nil
}

// Start returns the active session unchanged when one exists, reactivates a
// finished one, and creates a fresh session otherwise.
func (s *OnboardingService) Start(ctx context.Context, userID uuid.UUID) (*models.OnboardingSession, error) {
	defer s.lockUser(userID)()

	session, err := s.sessionRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if session != nil {
		if session.IsActive {
			return session, nil
		}
		return s.sessionRepo.Reactivate(ctx, userID)
	}
	return s.sessionRepo.Create(ctx, userID, true)
}

// Answer submits one questionnaire answer. The target field is the session's
// current step when set, otherwise the selector's pick. A parseable value is
// persisted onto the profile, the completion score is recomputed, the
// session deactivates once the score reaches the threshold, and the next
// question is stored as the new current step either way.
func (s *OnboardingService) Answer(ctx context.Context, userID uuid.UUID, answer map[string]any) (*AnswerResult, error) {
	defer s.lockUser(userID)()

	session, err := s.requireActiveSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.getOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	target := ""
	if session.CurrentStep != nil && *session.CurrentStep != "" {
		target = *session.CurrentStep
	} else if next, ok := onboarding.NextQuestion(profile); ok {
		target = next
	}

	if target != "" {
		if value := onboarding.ExtractAnswer(target, answer); value != nil {
			if err := s.persistAnswer(ctx, userID, profile.ID, target, value); err != nil {
				return nil, err
			}
		}
		if err := s.sessionRepo.SetLastQuestion(ctx, userID, target); err != nil {
			return nil, err
		}
	}

	profile, err = s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	score := onboarding.CompletionScore(profile)
	if err := s.sessionRepo.SetProgress(ctx, userID, score); err != nil {
		return nil, err
	}
	if score >= CompletionThreshold {
		if err := s.sessionRepo.SetActive(ctx, userID, false); err != nil {
			return nil, err
		}
	}

	step := nextStep(profile)
	if err := s.sessionRepo.SetCurrentStep(ctx, userID, step); err != nil {
		return nil, err
	}

	session, err = s.sessionRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &AnswerResult{
		Profile:         profile,
		CompletionScore: score,
		Session:         session,
		NextQuestion:    step,
	}, nil
}

// Skip advances the current step without touching the profile. Nothing marks
// the skipped field as seen, so the selector re-offers it until a different
// field becomes the first unfilled one.
func (s *OnboardingService) Skip(ctx context.Context, userID uuid.UUID) (*SkipResult, error) {
	defer s.lockUser(userID)()

	if _, err := s.requireActiveSession(ctx, userID); err != nil {
		return nil, err
	}

	profile, err := s.getOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	step := nextStep(profile)
	if err := s.sessionRepo.SetCurrentStep(ctx, userID, step); err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &SkipResult{Session: session, NextQuestion: step}, nil
}

// End deactivates the session unconditionally; without a session it is a
// no-op.
func (s *OnboardingService) End(ctx context.Context, userID uuid.UUID) (*models.OnboardingSession, error) {
	defer s.lockUser(userID)()

	session, err := s.sessionRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := s.sessionRepo.SetActive(ctx, userID, false); err != nil {
		return nil, err
	}
	session, err = s.sessionRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *OnboardingService) requireActiveSession(ctx context.Context, userID uuid.UUID) (*models.OnboardingSession, error) {
	session, err := s.sessionRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}
	if !session.IsActive {
		return nil, ErrNoActiveSession
	}
	return session, nil
}

func (s *OnboardingService) getOrCreateProfile(ctx context.Context, userID uuid.UUID) (*models.MedicalProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.profileRepo.CreateEmpty(ctx, userID)
		}
		return nil, err
	}
	return profile, nil
}

func (s *OnboardingService) persistAnswer(ctx context.Context, userID uuid.UUID, profileID int64, field string, value any) error {
	if onboarding.IsCollectionField(field) {
		for _, name := range entryNames(value) {
			if err := s.subRecordRepo.AddEntry(ctx, profileID, field, name); err != nil {
				return err
			}
		}
		return nil
	}
	if onboarding.IsScalarField(field) {
		return s.profileRepo.UpdateScalarField(ctx, userID, field, value)
	}
	return nil
}

// entryNames interprets a collection answer: a plain string names one
// sub-record, an array names one per element.
func entryNames(value any) []string {
	var names []string
	appendName := func(v any) {
		if s, ok := v.(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				names = append(names, trimmed)
			}
		}
	}
	switch v := value.(type) {
	case string:
		appendName(v)
	case []string:
		for _, item := range v {
			appendName(item)
		}
	case []any:
		for _, item := range v {
			appendName(item)
		}
	}
	return names
}

func nextStep(profile *models.MedicalProfile) *string {
	if next, ok := onboarding.NextQuestion(profile); ok {
		return &next
	}
	return nil
}
