package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SG2407/Aarogyan-BE-Project/internal/models"
)

const maxDocumentSize = 5 << 20 // 5 MB

var allowedDocumentTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"application/pdf": {},
}

const explanationPromptFormat = `You are a medical assistant. Summarize and explain the following medical document in simple terms for a patient to understand:

%s`

type documentStore interface {
	Create(ctx context.Context, doc *models.MedicalDocument) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.MedicalDocument, error)
	GetByIDForUser(ctx context.Context, docID, userID uuid.UUID) (*models.MedicalDocument, error)
	Delete(ctx context.Context, docID, userID uuid.UUID) error
}

// DocumentService digitizes uploaded medical documents: the file goes to
// object storage, OCR pulls the text out, and the LLM writes a plain-language
// explanation. All three results are persisted together.
type DocumentService struct {
	docRepo   documentStore
	storage   StorageService
	extractor TextExtractor
	llm       LLMClient
}

func NewDocumentService(docRepo documentStore, storage StorageService, extractor TextExtractor, llm LLMClient) *DocumentService {
	return &DocumentService{
		docRepo:   docRepo,
		storage:   storage,
		extractor: extractor,
		llm:       llm,
	}
}

func (s *DocumentService) Upload(ctx context.Context, userID uuid.UUID, filename, contentType string, content []byte) (*models.MedicalDocument, error) {
	if _, ok := allowedDocumentTypes[contentType]; !ok {
		return nil, ErrUnsupportedFileType
	}
	if len(content) == 0 || filename == "" {
		return nil, ErrInvalidInput
	}
	if len(content) > maxDocumentSize {
		return nil, ErrFileTooLarge
	}

	fileURL, err := s.storage.UploadFile(ctx, content, filename, userID.String(), contentType)
	if err != nil {
		return nil, err
	}

	extractedText, err := s.extractor.ExtractText(ctx, content, contentType)
	if err != nil {
		return nil, err
	}

	explanation, err := s.llm.Complete(ctx, "", fmt.Sprintf(explanationPromptFormat, extractedText))
	if err != nil {
		return nil, err
	}

	doc := &models.MedicalDocument{
		UserID:        userID,
		Title:         filename,
		FileURL:       fileURL,
		FileType:      contentType,
		FileSize:      int64(len(content)),
		ExtractedText: extractedText,
		Explanation:   explanation,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) List(ctx context.Context, userID uuid.UUID) ([]models.MedicalDocument, error) {
	return s.docRepo.ListByUser(ctx, userID)
}

func (s *DocumentService) Get(ctx context.Context, userID, docID uuid.UUID) (*models.MedicalDocument, error) {
	doc, err := s.docRepo.GetByIDForUser(ctx, docID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return doc, nil
}

// Delete removes the stored file first, then the row. A missing object in
// storage is not an error.
func (s *DocumentService) Delete(ctx context.Context, userID, docID uuid.UUID) error {
	doc, err := s.Get(ctx, userID, docID)
	if err != nil {
		return err
	}
	if err := s.storage.DeleteFile(ctx, doc.FileURL); err != nil {
		return err
	}
	return s.docRepo.Delete(ctx, docID, userID)
}
