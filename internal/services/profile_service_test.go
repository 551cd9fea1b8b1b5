package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SG2407/Aarogyan-BE-Project/internal/models"
	"github.com/SG2407/Aarogyan-BE-Project/internal/repository"
)

type stubProfileEditStore struct {
	profile     *models.MedicalProfile
	lastUpdates map[string]any
}

func (s *stubProfileEditStore) GetByUserID(_ context.Context, _ uuid.UUID) (*models.MedicalProfile, error) {
	if s.profile == nil {
		return nil, pgx.ErrNoRows
	}
	return s.profile, nil
}

func (s *stubProfileEditStore) UpdateScalarFields(_ context.Context, _ uuid.UUID, updates map[string]any) error {
	s.lastUpdates = updates
	return nil
}

type stubSubRecordStore struct {
	added   []string
	removed []string
}

func (s *stubSubRecordStore) AddCondition(_ context.Context, _ int64, input repository.ConditionInput) (*models.ChronicCondition, error) {
	s.added = append(s.added, "condition:"+input.Name)
	return &models.ChronicCondition{ID: 1, Name: input.Name}, nil
}

func (s *stubSubRecordStore) DeleteCondition(_ context.Context, _, _ int64) error {
	s.removed = append(s.removed, "condition")
	return nil
}

func (s *stubSubRecordStore) AddMedication(_ context.Context, _ int64, input repository.MedicationInput) (*models.Medication, error) {
	s.added = append(s.added, "medication:"+input.Name)
	return &models.Medication{ID: 1, Name: input.Name}, nil
}

func (s *stubSubRecordStore) DeleteMedication(_ context.Context, _, _ int64) error {
	s.removed = append(s.removed, "medication")
	return nil
}

func (s *stubSubRecordStore) AddAllergy(_ context.Context, _ int64, input repository.AllergyInput) (*models.Allergy, error) {
	s.added = append(s.added, "allergy:"+input.Allergen)
	return &models.Allergy{ID: 1, Allergen: input.Allergen}, nil
}

func (s *stubSubRecordStore) DeleteAllergy(_ context.Context, _, _ int64) error {
	s.removed = append(s.removed, "allergy")
	return nil
}

func (s *stubSubRecordStore) AddSurgery(_ context.Context, _ int64, input repository.SurgeryInput) (*models.SurgicalProcedure, error) {
	s.added = append(s.added, "surgery:"+input.Surgery)
	return &models.SurgicalProcedure{ID: 1, Surgery: input.Surgery}, nil
}

func (s *stubSubRecordStore) DeleteSurgery(_ context.Context, _, _ int64) error {
	s.removed = append(s.removed, "surgery")
	return nil
}

func (s *stubSubRecordStore) AddFamilyHistory(_ context.Context, _ int64, input repository.FamilyHistoryInput) (*models.FamilyHistoryItem, error) {
	s.added = append(s.added, "family:"+input.Disease)
	return &models.FamilyHistoryItem{ID: 1, Disease: input.Disease}, nil
}

func (s *stubSubRecordStore) DeleteFamilyHistory(_ context.Context, _, _ int64) error {
	s.removed = append(s.removed, "family")
	return nil
}

func (s *stubSubRecordStore) AddLabValue(_ context.Context, _ int64, input repository.LabValueInput) (*models.LabValue, error) {
	s.added = append(s.added, "lab:"+input.Name)
	return &models.LabValue{ID: 1, Name: input.Name}, nil
}

func (s *stubSubRecordStore) DeleteLabValue(_ context.Context, _, _ int64) error {
	s.removed = append(s.removed, "lab")
	return nil
}

func newProfileFixture() (*ProfileService, *stubProfileEditStore, *stubSubRecordStore) {
	profiles := &stubProfileEditStore{profile: &models.MedicalProfile{ID: 1}}
	subRecords := &stubSubRecordStore{}
	return NewProfileService(profiles, subRecords), profiles, subRecords
}

func TestEditProfileFiltersUnknownFields(t *testing.T) {
	service, profiles, _ := newProfileFixture()

	_, err := service.EditProfile(context.Background(), uuid.New(), map[string]any{
		"age":                45,
		"smoking_status":     "never",
		"chronic_conditions": "not a scalar",
		"is_admin":           true,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(profiles.lastUpdates) != 2 {
		t.Fatalf("Expected 2 applied updates, got %d", len(profiles.lastUpdates))
	}
	if _, ok := profiles.lastUpdates["is_admin"]; ok {
		t.Errorf("Expected unknown field to be dropped")
	}
	if _, ok := profiles.lastUpdates["chronic_conditions"]; ok {
		t.Errorf("Expected collection field to be dropped from scalar edit")
	}
}

func TestEditProfileRequiresExistingProfile(t *testing.T) {
	service, profiles, _ := newProfileFixture()
	profiles.profile = nil

	_, err := service.EditProfile(context.Background(), uuid.New(), map[string]any{"age": 45})
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("Expected ErrProfileNotFound, got %v", err)
	}
}

func TestEditProfileRejectsEmptyUpdate(t *testing.T) {
	service, _, _ := newProfileFixture()

	_, err := service.EditProfile(context.Background(), uuid.New(), map[string]any{"unknown": 1})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestAddConditionRequiresName(t *testing.T) {
	service, _, subRecords := newProfileFixture()

	_, err := service.AddCondition(context.Background(), uuid.New(), repository.ConditionInput{Name: "  "})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput, got %v", err)
	}
	if len(subRecords.added) != 0 {
		t.Errorf("Expected nothing added")
	}
}

func TestAddConditionStoresRecord(t *testing.T) {
	service, _, subRecords := newProfileFixture()

	condition, err := service.AddCondition(context.Background(), uuid.New(), repository.ConditionInput{Name: "diabetes"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if condition.Name != "diabetes" {
		t.Errorf("Expected condition name diabetes, got %q", condition.Name)
	}
	if len(subRecords.added) != 1 {
		t.Errorf("Expected one added record")
	}
}

func TestDeleteSubRecordRequiresProfile(t *testing.T) {
	service, profiles, _ := newProfileFixture()
	profiles.profile = nil

	err := service.DeleteMedication(context.Background(), uuid.New(), 7)
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("Expected ErrProfileNotFound, got %v", err)
	}
}
