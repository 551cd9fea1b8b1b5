package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/SG2407/Aarogyan-BE-Project/internal/models"
)

type DocumentRepository struct {
	db DBTX
}

func NewDocumentRepository(db DBTX) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *models.MedicalDocument) error {
	query := `
		INSERT INTO medical_documents (user_id, title, file_url, file_type, file_size, extracted_text, explanation)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, query,
		doc.UserID,
		doc.Title,
		doc.FileURL,
		doc.FileType,
		doc.FileSize,
		doc.ExtractedText,
		doc.Explanation,
	).Scan(&doc.ID, &doc.CreatedAt)
}

func (r *DocumentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.MedicalDocument, error) {
	query := `
		SELECT id, user_id, title, file_url, file_type, file_size, extracted_text, explanation, created_at
		FROM medical_documents
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []models.MedicalDocument{}
	for rows.Next() {
		var doc models.MedicalDocument
		if err := rows.Scan(
			&doc.ID,
			&doc.UserID,
			&doc.Title,
			&doc.FileURL,
			&doc.FileType,
			&doc.FileSize,
			&doc.ExtractedText,
			&doc.Explanation,
			&doc.CreatedAt,
		); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *DocumentRepository) GetByIDForUser(ctx context.Context, docID, userID uuid.UUID) (*models.MedicalDocument, error) {
	query := `
		SELECT id, user_id, title, file_url, file_type, file_size, extracted_text, explanation, created_at
		FROM medical_documents
		WHERE id = $1 AND user_id = $2
	`
	var doc models.MedicalDocument
	err := r.db.QueryRow(ctx, query, docID, userID).Scan(
		&doc.ID,
		&doc.UserID,
		&doc.Title,
		&doc.FileURL,
		&doc.FileType,
		&doc.FileSize,
		&doc.ExtractedText,
		&doc.Explanation,
		&doc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepository) Delete(ctx context.Context, docID, userID uuid.UUID) error {
	query := `DELETE FROM medical_documents WHERE id = $1 AND user_id = $2`
	_, err := r.db.Exec(ctx, query, docID, userID)
	return err
}
