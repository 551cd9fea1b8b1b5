package handlers

import (
	"context"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SG2407/Aarogyan-BE-Project/internal/models"
	"github.com/SG2407/Aarogyan-BE-Project/internal/services"
)

type documentApplicationService interface {
	Upload(ctx context.Context, userID uuid.UUID, filename, contentType string, content []byte) (*models.MedicalDocument, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.MedicalDocument, error)
	Get(ctx context.Context, userID, docID uuid.UUID) (*models.MedicalDocument, error)
	Delete(ctx context.Context, userID, docID uuid.UUID) error
}

type DocumentHandler struct {
	service documentApplicationService
}

func NewDocumentHandler(service documentApplicationService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read file"})
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read file"})
	}

	doc, err := h.service.Upload(c.Context(), userID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), content)
	if err != nil {
		return mapDocumentError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"document": doc})
}

func (h *DocumentHandler) List(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	docs, err := h.service.List(c.Context(), userID)
	if err != nil {
		return mapDocumentError(c, err)
	}
	return c.JSON(fiber.Map{"documents": docs})
}

func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	docID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid document id"})
	}

	doc, err := h.service.Get(c.Context(), userID, docID)
	if err != nil {
		return mapDocumentError(c, err)
	}
	return c.JSON(fiber.Map{"document": doc})
}

func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	docID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid document id"})
	}

	if err := h.service.Delete(c.Context(), userID, docID); err != nil {
		return mapDocumentError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func mapDocumentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUnsupportedFileType):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unsupported file type"})
	case errors.Is(err, services.ErrFileTooLarge):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File too large (max 5 MB)"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, services.ErrDocumentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Document not found"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Document not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process document request"})
	}
}
