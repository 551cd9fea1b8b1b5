package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SG2407/Aarogyan-BE-Project/internal/models"
	"github.com/SG2407/Aarogyan-BE-Project/internal/repository"
	"github.com/SG2407/Aarogyan-BE-Project/internal/services"
)

type profileApplicationService interface {
	EditProfile(ctx context.Context, userID uuid.UUID, updates map[string]any) (*models.MedicalProfile, error)
	AddCondition(ctx context.Context, userID uuid.UUID, input repository.ConditionInput) (*models.ChronicCondition, error)
	DeleteCondition(ctx context.Context, userID uuid.UUID, id int64) error
	AddMedication(ctx context.Context, userID uuid.UUID, input repository.MedicationInput) (*models.Medication, error)
	DeleteMedication(ctx context.Context, userID uuid.UUID, id int64) error
	AddAllergy(ctx context.Context, userID uuid.UUID, input repository.AllergyInput) (*models.Allergy, error)
	DeleteAllergy(ctx context.Context, userID uuid.UUID, id int64) error
	AddSurgery(ctx context.Context, userID uuid.UUID, input repository.SurgeryInput) (*models.SurgicalProcedure, error)
	DeleteSurgery(ctx context.Context, userID uuid.UUID, id int64) error
	AddFamilyHistory(ctx context.Context, userID uuid.UUID, input repository.FamilyHistoryInput) (*models.FamilyHistoryItem, error)
	DeleteFamilyHistory(ctx context.Context, userID uuid.UUID, id int64) error
	AddLabValue(ctx context.Context, userID uuid.UUID, input repository.LabValueInput) (*models.LabValue, error)
	DeleteLabValue(ctx context.Context, userID uuid.UUID, id int64) error
}

type ProfileHandler struct {
	service profileApplicationService
}

func NewProfileHandler(service profileApplicationService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Edit(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var updates map[string]any
	if err := c.BodyParser(&updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	profile, err := h.service.EditProfile(c.Context(), userID, updates)
	if err != nil {
		return mapProfileError(c, err)
	}

	return c.JSON(fiber.Map{"profile": profile})
}

func (h *ProfileHandler) AddCondition(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var input repository.ConditionInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	condition, err := h.service.AddCondition(c.Context(), userID, input)
	if err != nil {
		return mapProfileError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"condition": condition})
}

func (h *ProfileHandler) DeleteCondition(c *fiber.Ctx) error {
	return h.deleteSubRecord(c, h.service.DeleteCondition)
}

func (h *ProfileHandler) AddMedication(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var input repository.MedicationInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	medication, err := h.service.AddMedication(c.Context(), userID, input)
	if err != nil {
		return mapProfileError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"medication": medication})
}

func (h *ProfileHandler) DeleteMedication(c *fiber.Ctx) error {
	return h.deleteSubRecord(c, h.service.DeleteMedication)
}

func (h *ProfileHandler) AddAllergy(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var input repository.AllergyInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	allergy, err := h.service.AddAllergy(c.Context(), userID, input)
	if err != nil {
		return mapProfileError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"allergy": allergy})
}

func (h *ProfileHandler) DeleteAllergy(c *fiber.Ctx) error {
	return h.deleteSubRecord(c, h.service.DeleteAllergy)
}

func (h *ProfileHandler) AddSurgery(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var input repository.SurgeryInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	surgery, err := h.service.AddSurgery(c.Context(), userID, input)
	if err != nil {
		return mapProfileError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"surgery": surgery})
}

func (h *ProfileHandler) DeleteSurgery(c *fiber.Ctx) error {
	return h.deleteSubRecord(c, h.service.DeleteSurgery)
}

func (h *ProfileHandler) AddFamilyHistory(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var input repository.FamilyHistoryInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	item, err := h.service.AddFamilyHistory(c.Context(), userID, input)
	if err != nil {
		return mapProfileError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"family_history": item})
}

func (h *ProfileHandler) DeleteFamilyHistory(c *fiber.Ctx) error {
	return h.deleteSubRecord(c, h.service.DeleteFamilyHistory)
}

func (h *ProfileHandler) AddLabValue(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var input repository.LabValueInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	labValue, err := h.service.AddLabValue(c.Context(), userID, input)
	if err != nil {
		return mapProfileError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"lab_value": labValue})
}

func (h *ProfileHandler) DeleteLabValue(c *fiber.Ctx) error {
	return h.deleteSubRecord(c, h.service.DeleteLabValue)
}

func (h *ProfileHandler) deleteSubRecord(c *fiber.Ctx, remove func(ctx context.Context, userID uuid.UUID, id int64) error) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record id"})
	}

	if err := remove(c.Context(), userID, id); err != nil {
		return mapProfileError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func mapProfileError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrProfileNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process profile request"})
	}
}
