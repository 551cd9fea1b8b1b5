package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SG2407/Aarogyan-BE-Project/internal/models"
	"github.com/SG2407/Aarogyan-BE-Project/internal/onboarding"
	"github.com/SG2407/Aarogyan-BE-Project/internal/repository"
)

type profileEditStore interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.MedicalProfile, error)
	UpdateScalarFields(ctx context.Context, userID uuid.UUID, updates map[string]any) error
}

type subRecordStore interface {
	AddCondition(ctx context.Context, profileID int64, input repository.ConditionInput) (*models.ChronicCondition, error)
	DeleteCondition(ctx context.Context, profileID, id int64) error
	AddMedication(ctx context.Context, profileID int64, input repository.MedicationInput) (*models.Medication, error)
	DeleteMedication(ctx context.Context, profileID, id int64) error
	AddAllergy(ctx context.Context, profileID int64, input repository.AllergyInput) (*models.Allergy, error)
	DeleteAllergy(ctx context.Context, profileID, id int64) error
	AddSurgery(ctx context.Context, profileID int64, input repository.SurgeryInput) (*models.SurgicalProcedure, error)
	DeleteSurgery(ctx context.Context, profileID, id int64) error
	AddFamilyHistory(ctx context.Context, profileID int64, input repository.FamilyHistoryInput) (*models.FamilyHistoryItem, error)
	DeleteFamilyHistory(ctx context.Context, profileID, id int64) error
	AddLabValue(ctx context.Context, profileID int64, input repository.LabValueInput) (*models.LabValue, error)
	DeleteLabValue(ctx context.Context, profileID, id int64) error
}

// ProfileService handles direct edits to an existing medical profile, as
// opposed to the questionnaire flow which creates one on demand.
type ProfileService struct {
	profileRepo   profileEditStore
	subRecordRepo subRecordStore
}

func NewProfileService(profileRepo profileEditStore, subRecordRepo subRecordStore) *ProfileService {
	return &ProfileService{profileRepo: profileRepo, subRecordRepo: subRecordRepo}
}

// EditProfile applies the scalar fields present in updates, silently
// dropping keys that are not questionnaire scalars. Editing requires an
// existing profile.
func (s *ProfileService) EditProfile(ctx context.Context, userID uuid.UUID, updates map[string]any) (*models.MedicalProfile, error) {
	if _, err := s.requireProfile(ctx, userID); err != nil {
		return nil, err
	}

	filtered := make(map[string]any)
	for field, value := range updates {
		if onboarding.IsScalarField(field) {
			filtered[field] = value
		}
	}
	if len(filtered) == 0 {
		return nil, ErrInvalidInput
	}

	if err := s.profileRepo.UpdateScalarFields(ctx, userID, filtered); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByUserID(ctx, userID)
}

func (s *ProfileService) AddCondition(ctx context.Context, userID uuid.UUID, input repository.ConditionInput) (*models.ChronicCondition, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidInput
	}
	profile, err := s.requireProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.subRecordRepo.AddCondition(ctx, profile.ID, input)
}

func (s *ProfileService) DeleteCondition(ctx context.Context, userID uuid.UUID, id int64) error {
	profile, err := s.requireProfile(ctx, userID)
	if err != nil {
		return err
	}
	return s.subRecordRepo.DeleteCondition(ctx, profile.ID, id)
}

func (s *ProfileService) AddMedication(ctx context.Context, userID uuid.UUID, input repository.MedicationInput) (*models.Medication, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidInput
	}
	profile, err := s.requireProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.subRecordRepo.AddMedication(ctx, profile.ID, input)
}

func (s *ProfileService) DeleteMedication(ctx context.Context, userID uuid.UUID, id int64) error {
	profile, err := s.requireProfile(ctx, userID)
	if err != nil {
		return err
	}
	return s.subRecordRepo.DeleteMedication(ctx, profile.ID, id)
}

func (s *ProfileService) AddAllergy(ctx context.Context, userID uuid.UUID, input repository.AllergyInput) (*models.Allergy, error) {
	if strings.TrimSpace(input.Allergen) == "" {
		return nil, ErrInvalidInput
	}
	profile, err := s.requireProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.subRecordRepo.AddAllergy(ctx, profile.ID, input)
}

func (s *ProfileService) DeleteAllergy(ctx context.Context, userID uuid.UUID, id int64) error {
	profile, err := s.requireProfile(ctx, userID)
	if err != nil {
		return err
	}
	return s.subRecordRepo.DeleteAllergy(ctx, profile.ID, id)
}

func (s *ProfileService) AddSurgery(ctx context.Context, userID uuid.UUID, input repository.SurgeryInput) (*models.SurgicalProcedure, error) {
	if strings.TrimSpace(input.Surgery) == "" {
		return nil, ErrInvalidInput
	}
	profile, err := s.requireProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.subRecordRepo.AddSurgery(ctx, profile.ID, input)
}

func (s *ProfileService) DeleteSurgery(ctx context.Context, userID uuid.UUID, id int64) error {
	profile, err := s.requireProfile(ctx, userID)
	if err != nil {
		return err
	}
	return s.subRecordRepo.DeleteSurgery(ctx, profile.ID, id)
}

func (s *ProfileService) AddFamilyHistory(ctx context.Context, userID uuid.UUID, input repository.FamilyHistoryInput) (*models.FamilyHistoryItem, error) {
	if strings.TrimSpace(input.Disease) == "" {
		return nil, ErrInvalidInput
	}
	profile, err := s.requireProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.subRecordRepo.AddFamilyHistory(ctx, profile.ID, input)
}

func (s *ProfileService) DeleteFamilyHistory(ctx context.Context, userID uuid.UUID, id int64) error {
	profile, err := s.requireProfile(ctx, userID)
	if err != nil {
		return err
	}
	return s.subRecordRepo.DeleteFamilyHistory(ctx, profile.ID, id)
}

func (s *ProfileService) AddLabValue(ctx context.Context, userID uuid.UUID, input repository.LabValueInput) (*models.LabValue, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidInput
	}
	profile, err := s.requireProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.subRecordRepo.AddLabValue(ctx, profile.ID, input)
}

func (s *ProfileService) DeleteLabValue(ctx context.Context, userID uuid.UUID, id int64) error {
	profile, err := s.requireProfile(ctx, userID)
	if err != nil {
		return err
	}
	return s.subRecordRepo.DeleteLabValue(ctx, profile.ID, id)
}

func (s *ProfileService) requireProfile(ctx context.Context, userID uuid.UUID) (*models.MedicalProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}
