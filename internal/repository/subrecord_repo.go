package repository

import (
	"context"
	"fmt"

	"github.com/SG2407/Aarogyan-BE-Project/internal/models"
)

// SubRecordRepository owns the six sub-record tables hanging off a medical
// profile. Deletes are scoped by profile id so one user can never remove
// another user's rows.
type SubRecordRepository struct {
	db DBTX
}

func NewSubRecordRepository(db DBTX) *SubRecordRepository {
	return &SubRecordRepository{db: db}
}

type ConditionInput struct {
	Name             string  `json:"name"`
	YearDiagnosed    *int    `json:"year_diagnosed"`
	ControlledStatus *string `json:"controlled_status"`
}

func (r *SubRecordRepository) AddCondition(ctx context.Context, profileID int64, input ConditionInput) (*models.ChronicCondition, error) {
	query := `
		INSERT INTO chronic_conditions (profile_id, name, year_diagnosed, controlled_status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, profile_id, name, year_diagnosed, controlled_status
	`
	var c models.ChronicCondition
	err := r.db.QueryRow(ctx, query, profileID, input.Name, input.YearDiagnosed, input.ControlledStatus).
		Scan(&c.ID, &c.ProfileID, &c.Name, &c.YearDiagnosed, &c.ControlledStatus)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *SubRecordRepository) DeleteCondition(ctx context.Context, profileID, id int64) error {
	return r.deleteRow(ctx, "chronic_conditions", profileID, id)
}

type MedicationInput struct {
	Name      string  `json:"name"`
	Dose      *string `json:"dose"`
	Frequency *string `json:"frequency"`
	Condition *string `json:"condition"`
	Since     *string `json:"since"`
}

func (r *SubRecordRepository) AddMedication(ctx context.Context, profileID int64, input MedicationInput) (*models.Medication, error) {
	query := `
		INSERT INTO medications (profile_id, name, dose, frequency, condition, since)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, profile_id, name, dose, frequency, condition, since
	`
	var m models.Medication
	err := r.db.QueryRow(ctx, query, profileID, input.Name, input.Dose, input.Frequency, input.Condition, input.Since).
		Scan(&m.ID, &m.ProfileID, &m.Name, &m.Dose, &m.Frequency, &m.Condition, &m.Since)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *SubRecordRepository) DeleteMedication(ctx context.Context, profileID, id int64) error {
	return r.deleteRow(ctx, "medications", profileID, id)
}

type AllergyInput struct {
	Allergen     string  `json:"allergen"`
	ReactionType *string `json:"reaction_type"`
	Severity     *string `json:"severity"`
}

func (r *SubRecordRepository) AddAllergy(ctx context.Context, profileID int64, input AllergyInput) (*models.Allergy, error) {
	query := `
		INSERT INTO allergies (profile_id, allergen, reaction_type, severity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, profile_id, allergen, reaction_type, severity
	`
	var a models.Allergy
	err := r.db.QueryRow(ctx, query, profileID, input.Allergen, input.ReactionType, input.Severity).
		Scan(&a.ID, &a.ProfileID, &a.Allergen, &a.ReactionType, &a.Severity)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *SubRecordRepository) DeleteAllergy(ctx context.Context, profileID, id int64) error {
	return r.deleteRow(ctx, "allergies", profileID, id)
}

type SurgeryInput struct {
	Surgery string `json:"surgery"`
	Year    *int   `json:"year"`
}

func (r *SubRecordRepository) AddSurgery(ctx context.Context, profileID int64, input SurgeryInput) (*models.SurgicalProcedure, error) {
	query := `
		INSERT INTO surgical_history (profile_id, surgery, year)
		VALUES ($1, $2, $3)
		RETURNING id, profile_id, surgery, year
	`
	var s models.SurgicalProcedure
	err := r.db.QueryRow(ctx, query, profileID, input.Surgery, input.Year).
		Scan(&s.ID, &s.ProfileID, &s.Surgery, &s.Year)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubRecordRepository) DeleteSurgery(ctx context.Context, profileID, id int64) error {
	return r.deleteRow(ctx, "surgical_history", profileID, id)
}

type FamilyHistoryInput struct {
	Disease  string  `json:"disease"`
	Relation *string `json:"relation"`
}

func (r *SubRecordRepository) AddFamilyHistory(ctx context.Context, profileID int64, input FamilyHistoryInput) (*models.FamilyHistoryItem, error) {
	query := `
		INSERT INTO family_history (profile_id, disease, relation)
		VALUES ($1, $2, $3)
		RETURNING id, profile_id, disease, relation
	`
	var f models.FamilyHistoryItem
	err := r.db.QueryRow(ctx, query, profileID, input.Disease, input.Relation).
		Scan(&f.ID, &f.ProfileID, &f.Disease, &f.Relation)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *SubRecordRepository) DeleteFamilyHistory(ctx context.Context, profileID, id int64) error {
	return r.deleteRow(ctx, "family_history", profileID, id)
}

type LabValueInput struct {
	Name  string  `json:"name"`
	Value *string `json:"value"`
	Date  *string `json:"date"`
}

func (r *SubRecordRepository) AddLabValue(ctx context.Context, profileID int64, input LabValueInput) (*models.LabValue, error) {
	query := `
		INSERT INTO lab_values (profile_id, name, value, date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, profile_id, name, value, date
	`
	var l models.LabValue
	err := r.db.QueryRow(ctx, query, profileID, input.Name, input.Value, input.Date).
		Scan(&l.ID, &l.ProfileID, &l.Name, &l.Value, &l.Date)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *SubRecordRepository) DeleteLabValue(ctx context.Context, profileID, id int64) error {
	return r.deleteRow(ctx, "lab_values", profileID, id)
}

// collectionInserts maps a collection field name to a minimal insert used by
// the questionnaire flow, where an answer only names the entry.
var collectionInserts = map[string]string{
	"chronic_conditions": `INSERT INTO chronic_conditions (profile_id, name) VALUES ($1, $2)`,
	"medications":        `INSERT INTO medications (profile_id, name) VALUES ($1, $2)`,
	"allergies":          `INSERT INTO allergies (profile_id, allergen) VALUES ($1, $2)`,
	"surgical_history":   `INSERT INTO surgical_history (profile_id, surgery) VALUES ($1, $2)`,
	"family_history":     `INSERT INTO family_history (profile_id, disease) VALUES ($1, $2)`,
	"lab_values":         `INSERT INTO lab_values (profile_id, name) VALUES ($1, $2)`,
}

// AddEntry inserts a named sub-record for a collection field answered during
// onboarding.
func (r *SubRecordRepository) AddEntry(ctx context.Context, profileID int64, field, name string) error {
	query, ok := collectionInserts[field]
	if !ok {
		return fmt.Errorf("not a collection field: %s", field)
	}
	_, err := r.db.Exec(ctx, query, profileID, name)
	return err
}

func (r *SubRecordRepository) deleteRow(ctx context.Context, table string, profileID, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND profile_id = $2`, table)
	_, err := r.db.Exec(ctx, query, id, profileID)
	return err
}
