package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SG2407/Aarogyan-BE-Project/internal/models"
	"github.com/SG2407/Aarogyan-BE-Project/internal/services"
)

type onboardingApplicationService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*services.ProfileView, error)
	Start(ctx context.Context, userID uuid.UUID) (*models.OnboardingSession, error)
	Answer(ctx context.Context, userID uuid.UUID, answer map[string]any) (*services.AnswerResult, error)
	Skip(ctx context.Context, userID uuid.UUID) (*services.SkipResult, error)
	End(ctx context.Context, userID uuid.UUID) (*models.OnboardingSession, error)
}

type OnboardingHandler struct {
	service onboardingApplicationService
}

func NewOnboardingHandler(service onboardingApplicationService) *OnboardingHandler {
	return &OnboardingHandler{service: service}
}

func (h *OnboardingHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	view, err := h.service.GetProfile(c.Context(), userID)
	if err != nil {
		return mapOnboardingError(c, err)
	}

	return c.JSON(view)
}

func (h *OnboardingHandler) Start(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	session, err := h.service.Start(c.Context(), userID)
	if err != nil {
		return mapOnboardingError(c, err)
	}

	return c.JSON(fiber.Map{"session": session})
}

func (h *OnboardingHandler) Answer(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var answer map[string]any
	if err := c.BodyParser(&answer); err != nil || len(answer) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.service.Answer(c.Context(), userID, answer)
	if err != nil {
		return mapOnboardingError(c, err)
	}

	return c.JSON(result)
}

func (h *OnboardingHandler) Skip(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	result, err := h.service.Skip(c.Context(), userID)
	if err != nil {
		return mapOnboardingError(c, err)
	}

	return c.JSON(result)
}

func (h *OnboardingHandler) End(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	session, err := h.service.End(c.Context(), userID)
	if err != nil {
		return mapOnboardingError(c, err)
	}

	return c.JSON(fiber.Map{"session": session})
}

func mapOnboardingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNoActiveSession):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No active onboarding session"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process onboarding request"})
	}
}
