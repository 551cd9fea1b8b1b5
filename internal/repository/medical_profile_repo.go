package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/SG2407/Aarogyan-BE-Project/internal/models"
)

// scalarColumns whitelists the questionnaire-writable columns of
// user_medical_profiles. Field names arrive from request payloads, so only
// names present here ever reach a SQL statement.
var scalarColumns = map[string]struct{}{
	"age":                 {},
	"biological_sex":      {},
	"height_cm":           {},
	"weight_kg":           {},
	"pregnancy_status":    {},
	"smoking_status":      {},
	"alcohol_consumption": {},
	"exercise_frequency":  {},
	"sleep_duration":      {},
	"diet_type":           {},
	"stress_level":        {},
}

type MedicalProfileRepository struct {
	db DBTX
}

func NewMedicalProfileRepository(db DBTX) *MedicalProfileRepository {
	return &MedicalProfileRepository{db: db}
}

const profileColumns = `id, user_id, age, biological_sex, height_cm, weight_kg, pregnancy_status,
	   smoking_status, alcohol_consumption, exercise_frequency, sleep_duration, diet_type,
	   stress_level, created_at, updated_at`

func (r *MedicalProfileRepository) CreateEmpty(ctx context.Context, userID uuid.UUID) (*models.MedicalProfile, error) {
	query := `INSERT INTO user_medical_profiles (user_id) VALUES ($1) RETURNING ` + profileColumns
	profile, err := r.scanProfile(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *MedicalProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.MedicalProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_medical_profiles WHERE user_id = $1`
	profile, err := r.scanProfile(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	if err := r.loadCollections(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *MedicalProfileRepository) scanProfile(ctx context.Context, query string, args ...any) (*models.MedicalProfile, error) {
	var profile models.MedicalProfile
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Age,
		&profile.BiologicalSex,
		&profile.HeightCM,
		&profile.WeightKG,
		&profile.PregnancyStatus,
		&profile.SmokingStatus,
		&profile.AlcoholConsumption,
		&profile.ExerciseFrequency,
		&profile.SleepDuration,
		&profile.DietType,
		&profile.StressLevel,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	profile.ChronicConditions = []models.ChronicCondition{}
	profile.Medications = []models.Medication{}
	profile.Allergies = []models.Allergy{}
	profile.SurgicalHistory = []models.SurgicalProcedure{}
	profile.FamilyHistory = []models.FamilyHistoryItem{}
	profile.LabValues = []models.LabValue{}
	return &profile, nil
}

// UpdateScalarField writes a single questionnaire answer onto the profile
// row. The field name must be whitelisted in scalarColumns.
func (r *MedicalProfileRepository) UpdateScalarField(ctx context.Context, userID uuid.UUID, field string, value any) error {
	if _, ok := scalarColumns[field]; !ok {
		return fmt.Errorf("not a profile column: %s", field)
	}
	query := fmt.Sprintf(
		`UPDATE user_medical_profiles SET %s = $1, updated_at = NOW() WHERE user_id = $2`,
		field,
	)
	_, err := r.db.Exec(ctx, query, value, userID)
	return err
}

// UpdateScalarFields applies several whitelisted columns at once; keys
// outside the whitelist must be filtered out by the caller beforehand.
func (r *MedicalProfileRepository) UpdateScalarFields(ctx context.Context, userID uuid.UUID, updates map[string]any) error {
	setClauses := make([]string, 0, len(updates))
	args := make([]any, 0, len(updates)+1)
	for field, value := range updates {
		if _, ok := scalarColumns[field]; !ok {
			return fmt.Errorf("not a profile column: %s", field)
		}
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field, len(args)))
	}
	if len(setClauses) == 0 {
		return nil
	}
	args = append(args, userID)
	query := fmt.Sprintf(
		`UPDATE user_medical_profiles SET %s, updated_at = NOW() WHERE user_id = $%d`,
		strings.Join(setClauses, ", "),
		len(args),
	)
	_, err := r.db.Exec(ctx, query, args...)
	return err
}

func (r *MedicalProfileRepository) loadCollections(ctx context.Context, profile *models.MedicalProfile) error {
	rows, err := r.db.Query(ctx,
		`SELECT id, profile_id, name, year_diagnosed, controlled_status FROM chronic_conditions WHERE profile_id = $1 ORDER BY id`,
		profile.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var c models.ChronicCondition
		if err := rows.Scan(&c.ID, &c.ProfileID, &c.Name, &c.YearDiagnosed, &c.ControlledStatus); err != nil {
			rows.Close()
			return err
		}
		profile.ChronicConditions = append(profile.ChronicConditions, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.db.Query(ctx,
		`SELECT id, profile_id, name, dose, frequency, condition, since FROM medications WHERE profile_id = $1 ORDER BY id`,
		profile.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var m models.Medication
		if err := rows.Scan(&m.ID, &m.ProfileID, &m.Name, &m.Dose, &m.Frequency, &m.Condition, &m.Since); err != nil {
			rows.Close()
			return err
		}
		profile.Medications = append(profile.Medications, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.db.Query(ctx,
		`SELECT id, profile_id, allergen, reaction_type, severity FROM allergies WHERE profile_id = $1 ORDER BY id`,
		profile.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var a models.Allergy
		if err := rows.Scan(&a.ID, &a.ProfileID, &a.Allergen, &a.ReactionType, &a.Severity); err != nil {
			rows.Close()
			return err
		}
		profile.Allergies = append(profile.Allergies, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.db.Query(ctx,
		`SELECT id, profile_id, surgery, year FROM surgical_history WHERE profile_id = $1 ORDER BY id`,
		profile.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var s models.SurgicalProcedure
		if err := rows.Scan(&s.ID, &s.ProfileID, &s.Surgery, &s.Year); err != nil {
			rows.Close()
			return err
		}
		profile.SurgicalHistory = append(profile.SurgicalHistory, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.db.Query(ctx,
		`SELECT id, profile_id, disease, relation FROM family_history WHERE profile_id = $1 ORDER BY id`,
		profile.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var f models.FamilyHistoryItem
		if err := rows.Scan(&f.ID, &f.ProfileID, &f.Disease, &f.Relation); err != nil {
			rows.Close()
			return err
		}
		profile.FamilyHistory = append(profile.FamilyHistory, f)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.db.Query(ctx,
		`SELECT id, profile_id, name, value, date FROM lab_values WHERE profile_id = $1 ORDER BY id`,
		profile.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var l models.LabValue
		if err := rows.Scan(&l.ID, &l.ProfileID, &l.Name, &l.Value, &l.Date); err != nil {
			rows.Close()
			return err
		}
		profile.LabValues = append(profile.LabValues, l)
	}
	rows.Close()
	return rows.Err()
}
