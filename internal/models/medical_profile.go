package models

import (
	"time"

	"github.com/google/uuid"
)

// MedicalProfile is the questionnaire target: scalar columns on
// user_medical_profiles plus six owned sub-record collections.
type MedicalProfile struct {
	ID                 int64     `json:"id"`
	UserID             uuid.UUID `json:"user_id"`
	Age                *int      `json:"age"`
	BiologicalSex      *string   `json:"biological_sex"`
	HeightCM           *float64  `json:"height_cm"`
	WeightKG           *float64  `json:"weight_kg"`
	PregnancyStatus    *string   `json:"pregnancy_status"`
	SmokingStatus      *string   `json:"smoking_status"`
	AlcoholConsumption *string   `json:"alcohol_consumption"`
	ExerciseFrequency  *string   `json:"exercise_frequency"`
	SleepDuration      *float64  `json:"sleep_duration"`
	DietType           *string   `json:"diet_type"`
	StressLevel        *string   `json:"stress_level"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	ChronicConditions []ChronicCondition  `json:"chronic_conditions"`
	Medications       []Medication        `json:"medications"`
	Allergies         []Allergy           `json:"allergies"`
	SurgicalHistory   []SurgicalProcedure `json:"surgical_history"`
	FamilyHistory     []FamilyHistoryItem `json:"family_history"`
	LabValues         []LabValue          `json:"lab_values"`
}

type ChronicCondition struct {
	ID               int64   `json:"id"`
	ProfileID        int64   `json:"profile_id"`
	Name             string  `json:"name"`
	YearDiagnosed    *int    `json:"year_diagnosed"`
	ControlledStatus *string `json:"controlled_status"`
}

type Medication struct {
	ID        int64   `json:"id"`
	ProfileID int64   `json:"profile_id"`
	Name      string  `json:"name"`
	Dose      *string `json:"dose"`
	Frequency *string `json:"frequency"`
	Condition *string `json:"condition"`
	Since     *string `json:"since"`
}

type Allergy struct {
	ID           int64   `json:"id"`
	ProfileID    int64   `json:"profile_id"`
	Allergen     string  `json:"allergen"`
	ReactionType *string `json:"reaction_type"`
	Severity     *string `json:"severity"`
}

type SurgicalProcedure struct {
	ID        int64  `json:"id"`
	ProfileID int64  `json:"profile_id"`
	Surgery   string `json:"surgery"`
	Year      *int   `json:"year"`
}

type FamilyHistoryItem struct {
	ID        int64   `json:"id"`
	ProfileID int64   `json:"profile_id"`
	Disease   string  `json:"disease"`
	Relation  *string `json:"relation"`
}

type LabValue struct {
	ID        int64   `json:"id"`
	ProfileID int64   `json:"profile_id"`
	Name      string  `json:"name"`
	Value     *string `json:"value"`
	Date      *string `json:"date"`
}
