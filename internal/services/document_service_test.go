package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SG2407/Aarogyan-BE-Project/internal/models"
)

type stubDocumentStore struct {
	docs    []models.MedicalDocument
	deleted []uuid.UUID
}

func (s *stubDocumentStore) Create(_ context.Context, doc *models.MedicalDocument) error {
	doc.ID = uuid.New()
	doc.CreatedAt = time.Now()
	s.docs = append(s.docs, *doc)
	return nil
}

func (s *stubDocumentStore) ListByUser(_ context.Context, userID uuid.UUID) ([]models.MedicalDocument, error) {
	docs := []models.MedicalDocument{}
	for _, doc := range s.docs {
		if doc.UserID == userID {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (s *stubDocumentStore) GetByIDForUser(_ context.Context, docID, userID uuid.UUID) (*models.MedicalDocument, error) {
	for _, doc := range s.docs {
		if doc.ID == docID && doc.UserID == userID {
			found := doc
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubDocumentStore) Delete(_ context.Context, docID, _ uuid.UUID) error {
	s.deleted = append(s.deleted, docID)
	return nil
}

type stubStorage struct {
	uploads int
	deletes []string
	err     error
}

func (s *stubStorage) UploadFile(_ context.Context, _ []byte, filename, folder, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.uploads++
	return "https://storage.example.com/medical_documents/" + folder + "/" + filename, nil
}

func (s *stubStorage) DeleteFile(_ context.Context, fileURL string) error {
	s.deletes = append(s.deletes, fileURL)
	return nil
}

type stubExtractor struct {
	text  string
	err   error
	calls int
}

func (s *stubExtractor) ExtractText(_ context.Context, _ []byte, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func newDocumentFixture() (*DocumentService, *stubDocumentStore, *stubStorage, *stubExtractor, *stubLLM) {
	docs := &stubDocumentStore{}
	storage := &stubStorage{}
	extractor := &stubExtractor{text: "Hemoglobin 13.5 g/dL"}
	llm := &stubLLM{reply: "Your blood count is in the normal range."}
	return NewDocumentService(docs, storage, extractor, llm), docs, storage, extractor, llm
}

func TestUploadDigitizesDocument(t *testing.T) {
	service, docs, storage, extractor, llm := newDocumentFixture()
	userID := uuid.New()
	content := bytes.Repeat([]byte{0xFF}, 128)

	doc, err := service.Upload(context.Background(), userID, "cbc-report.jpg", "image/jpeg", content)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if storage.uploads != 1 {
		t.Errorf("Expected one upload")
	}
	if extractor.calls != 1 {
		t.Errorf("Expected one OCR call")
	}
	if doc.ExtractedText != "Hemoglobin 13.5 g/dL" {
		t.Errorf("Unexpected extracted text: %q", doc.ExtractedText)
	}
	if doc.Explanation != "Your blood count is in the normal range." {
		t.Errorf("Unexpected explanation: %q", doc.Explanation)
	}
	if !strings.Contains(llm.lastPrompt, "Hemoglobin") {
		t.Errorf("Expected OCR text in the explanation prompt")
	}
	if doc.FileSize != int64(len(content)) {
		t.Errorf("Expected file size %d, got %d", len(content), doc.FileSize)
	}
	if len(docs.docs) != 1 {
		t.Errorf("Expected one persisted document")
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	service, _, storage, _, _ := newDocumentFixture()

	_, err := service.Upload(context.Background(), uuid.New(), "notes.txt", "text/plain", []byte("hello"))
	if !errors.Is(err, ErrUnsupportedFileType) {
		t.Fatalf("Expected ErrUnsupportedFileType, got %v", err)
	}
	if storage.uploads != 0 {
		t.Errorf("Expected no upload for rejected file")
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	service, _, _, _, _ := newDocumentFixture()
	content := make([]byte, maxDocumentSize+1)

	_, err := service.Upload(context.Background(), uuid.New(), "scan.pdf", "application/pdf", content)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("Expected ErrFileTooLarge, got %v", err)
	}
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	service, _, _, _, _ := newDocumentFixture()

	_, err := service.Upload(context.Background(), uuid.New(), "scan.pdf", "application/pdf", nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestGetUnknownDocument(t *testing.T) {
	service, _, _, _, _ := newDocumentFixture()

	_, err := service.Get(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("Expected ErrDocumentNotFound, got %v", err)
	}
}

func TestDeleteRemovesFileAndRow(t *testing.T) {
	service, docs, storage, _, _ := newDocumentFixture()
	userID := uuid.New()

	doc, err := service.Upload(context.Background(), userID, "scan.png", "image/png", []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := service.Delete(context.Background(), userID, doc.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(storage.deletes) != 1 {
		t.Errorf("Expected the stored file to be deleted")
	}
	if len(docs.deleted) != 1 {
		t.Errorf("Expected the row to be deleted")
	}
}
