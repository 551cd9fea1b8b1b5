package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/SG2407/Aarogyan-BE-Project/internal/models"
	"github.com/SG2407/Aarogyan-BE-Project/internal/services"
)

type stubOnboardingService struct {
	profileResult *services.ProfileView
	startResult   *models.OnboardingSession
	answerResult  *services.AnswerResult
	skipResult    *services.SkipResult
	endResult     *models.OnboardingSession
	err           error
	lastUserID    uuid.UUID
	lastAnswer    map[string]any
}

func (s *stubOnboardingService) GetProfile(_ context.Context, userID uuid.UUID) (*services.ProfileView, error) {
	s.lastUserID = userID
	return s.profileResult, s.err
}

func (s *stubOnboardingService) Start(_ context.Context, userID uuid.UUID) (*models.OnboardingSession, error) {
	s.lastUserID = userID
	return s.startResult, s.err
}

func (s *stubOnboardingService) Answer(_ context.Context, userID uuid.UUID, answer map[string]any) (*services.AnswerResult, error) {
	s.lastUserID = userID
	s.lastAnswer = answer
	return s.answerResult, s.err
}

func (s *stubOnboardingService) Skip(_ context.Context, userID uuid.UUID) (*services.SkipResult, error) {
	s.lastUserID = userID
	return s.skipResult, s.err
}

func (s *stubOnboardingService) End(_ context.Context, userID uuid.UUID) (*models.OnboardingSession, error) {
	s.lastUserID = userID
	return s.endResult, s.err
}

func newOnboardingApp(service *stubOnboardingService, userID uuid.UUID) *fiber.App {
	handler := NewOnboardingHandler(service)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID.String())
		return c.Next()
	})
	app.Get("/api/v1/onboarding/profile", handler.GetProfile)
	app.Post("/api/v1/onboarding/start", handler.Start)
	app.Post("/api/v1/onboarding/answer", handler.Answer)
	app.Post("/api/v1/onboarding/skip", handler.Skip)
	app.Post("/api/v1/onboarding/end", handler.End)
	return app
}

func TestAnswerForwardsPayload(t *testing.T) {
	userID := uuid.New()
	next := "biological_sex"
	service := &stubOnboardingService{
		answerResult: &services.AnswerResult{
			CompletionScore: 10.0,
			Session:         &models.OnboardingSession{ID: 1, UserID: userID, IsActive: true},
			NextQuestion:    &next,
		},
	}
	app := newOnboardingApp(service, userID)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding/answer", strings.NewReader(`{"response":"I am 45"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	if service.lastUserID != userID {
		t.Errorf("Expected user id to be forwarded")
	}
	if service.lastAnswer["response"] != "I am 45" {
		t.Errorf("Expected answer payload to be forwarded, got %v", service.lastAnswer)
	}

	var body struct {
		CompletionScore float64 `json:"completion_score"`
		NextQuestion    *string `json:"next_question"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.CompletionScore != 10.0 {
		t.Errorf("Expected score 10.0, got %v", body.CompletionScore)
	}
	if body.NextQuestion == nil || *body.NextQuestion != "biological_sex" {
		t.Errorf("Expected next question biological_sex")
	}
}

func TestAnswerWithoutBody(t *testing.T) {
	app := newOnboardingApp(&stubOnboardingService{}, uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding/answer", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", resp.StatusCode)
	}
}

func TestAnswerMapsNoActiveSession(t *testing.T) {
	service := &stubOnboardingService{err: services.ErrNoActiveSession}
	app := newOnboardingApp(service, uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding/answer", strings.NewReader(`{"response":"45"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", resp.StatusCode)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error != "No active onboarding session" {
		t.Errorf("Unexpected error message: %q", body.Error)
	}
}

func TestStartReturnsSession(t *testing.T) {
	userID := uuid.New()
	service := &stubOnboardingService{
		startResult: &models.OnboardingSession{ID: 1, UserID: userID, IsActive: true},
	}
	app := newOnboardingApp(service, userID)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding/start", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Session *models.OnboardingSession `json:"session"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Session == nil || !body.Session.IsActive {
		t.Errorf("Expected active session in response")
	}
}

func TestGetProfileRequiresUser(t *testing.T) {
	handler := NewOnboardingHandler(&stubOnboardingService{})
	app := fiber.New()
	app.Get("/api/v1/onboarding/profile", handler.GetProfile)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/onboarding/profile", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", resp.StatusCode)
	}
}
