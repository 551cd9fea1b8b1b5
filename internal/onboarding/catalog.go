// Package onboarding implements the adaptive questionnaire engine: a static
// field catalog, a weighted completion scorer, a rule-based answer extractor
// and a priority-ordered question selector. Everything here is pure; storage
// and transport live in the service and handler layers.
package onboarding

import "github.com/SG2407/Aarogyan-BE-Project/internal/models"

type FieldKind int

const (
	KindScalar FieldKind = iota
	KindCollection
)

type Tier string

const (
	TierCritical    Tier = "critical"
	TierImportant   Tier = "important"
	TierEnhancement Tier = "enhancement"
)

// Weights per tier. They must sum to 1.0.
var Weights = map[Tier]float64{
	TierCritical:    0.5,
	TierImportant:   0.3,
	TierEnhancement: 0.2,
}

// Field is one catalog entry. The filled predicate is fixed at definition
// time so scalar truthiness and collection emptiness never get mixed up
// downstream: scalars count when non-nil and non-zero, collections count
// when at least one sub-record exists.
type Field struct {
	Name   string
	Kind   FieldKind
	filled func(*models.MedicalProfile) bool
}

func (f Field) Filled(p *models.MedicalProfile) bool {
	if p == nil {
		return false
	}
	return f.filled(p)
}

func intField(name string, get func(*models.MedicalProfile) *int) Field {
	return Field{Name: name, Kind: KindScalar, filled: func(p *models.MedicalProfile) bool {
		v := get(p)
		return v != nil && *v != 0
	}}
}

func floatField(name string, get func(*models.MedicalProfile) *float64) Field {
	return Field{Name: name, Kind: KindScalar, filled: func(p *models.MedicalProfile) bool {
		v := get(p)
		return v != nil && *v != 0
	}}
}

func textField(name string, get func(*models.MedicalProfile) *string) Field {
	return Field{Name: name, Kind: KindScalar, filled: func(p *models.MedicalProfile) bool {
		v := get(p)
		return v != nil && *v != ""
	}}
}

func collectionField(name string, count func(*models.MedicalProfile) int) Field {
	return Field{Name: name, Kind: KindCollection, filled: func(p *models.MedicalProfile) bool {
		return count(p) > 0
	}}
}

// Order within each tier is the question order; the selector walks these
// slices front to back.
var (
	CriticalFields = []Field{
		intField("age", func(p *models.MedicalProfile) *int { return p.Age }),
		textField("biological_sex", func(p *models.MedicalProfile) *string { return p.BiologicalSex }),
		collectionField("chronic_conditions", func(p *models.MedicalProfile) int { return len(p.ChronicConditions) }),
		collectionField("medications", func(p *models.MedicalProfile) int { return len(p.Medications) }),
		collectionField("allergies", func(p *models.MedicalProfile) int { return len(p.Allergies) }),
	}

	ImportantFields = []Field{
		floatField("height_cm", func(p *models.MedicalProfile) *float64 { return p.HeightCM }),
		floatField("weight_kg", func(p *models.MedicalProfile) *float64 { return p.WeightKG }),
		textField("pregnancy_status", func(p *models.MedicalProfile) *string { return p.PregnancyStatus }),
		collectionField("surgical_history", func(p *models.MedicalProfile) int { return len(p.SurgicalHistory) }),
		collectionField("family_history", func(p *models.MedicalProfile) int { return len(p.FamilyHistory) }),
		textField("smoking_status", func(p *models.MedicalProfile) *string { return p.SmokingStatus }),
		textField("alcohol_consumption", func(p *models.MedicalProfile) *string { return p.AlcoholConsumption }),
	}

	EnhancementFields = []Field{
		collectionField("lab_values", func(p *models.MedicalProfile) int { return len(p.LabValues) }),
		textField("exercise_frequency", func(p *models.MedicalProfile) *string { return p.ExerciseFrequency }),
		floatField("sleep_duration", func(p *models.MedicalProfile) *float64 { return p.SleepDuration }),
		textField("diet_type", func(p *models.MedicalProfile) *string { return p.DietType }),
		textField("stress_level", func(p *models.MedicalProfile) *string { return p.StressLevel }),
	}
)

var tiers = []struct {
	Tier   Tier
	Fields []Field
}{
	{TierCritical, CriticalFields},
	{TierImportant, ImportantFields},
	{TierEnhancement, EnhancementFields},
}

var fieldsByName = func() map[string]Field {
	m := make(map[string]Field)
	for _, tier := range tiers {
		for _, f := range tier.Fields {
			m[f.Name] = f
		}
	}
	return m
}()

// FieldByName looks a field up across all tiers.
func FieldByName(name string) (Field, bool) {
	f, ok := fieldsByName[name]
	return f, ok
}

// IsScalarField reports whether name is a catalog field backed by a profile
// column (as opposed to a sub-record collection).
func IsScalarField(name string) bool {
	f, ok := fieldsByName[name]
	return ok && f.Kind == KindScalar
}

// IsCollectionField reports whether name is a catalog field backed by a
// sub-record table.
func IsCollectionField(name string) bool {
	f, ok := fieldsByName[name]
	return ok && f.Kind == KindCollection
}
