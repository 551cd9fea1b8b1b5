package onboarding

import "testing"

func TestExtractAge(t *testing.T) {
	tests := []struct {
		name   string
		answer map[string]any
		want   any
	}{
		{"free text", map[string]any{"response": "I am 34 years old"}, 34},
		{"field key wins over response", map[string]any{"age": "45", "response": "I am 34"}, 45},
		{"first digit run wins", map[string]any{"response": "room 12, I am 34"}, 12},
		{"numeric payload", map[string]any{"age": float64(45)}, 45},
		{"no digits", map[string]any{"response": "no number here"}, nil},
		{"empty payload", map[string]any{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractAnswer("age", tt.answer); got != tt.want {
				t.Fatalf("ExtractAnswer(age, %v) = %v, want %v", tt.answer, got, tt.want)
			}
		})
	}
}

// Guards the substring ambiguity: "female" contains "male" and must never be
// classified as male.
func TestExtractBiologicalSexFemaleNotMale(t *testing.T) {
	if got := ExtractAnswer("biological_sex", map[string]any{"response": "Female"}); got != "female" {
		t.Fatalf("expected female, got %v", got)
	}
	if got := ExtractAnswer("biological_sex", map[string]any{"response": "I am a FEMALE"}); got != "female" {
		t.Fatalf("expected female, got %v", got)
	}
}

func TestExtractBiologicalSex(t *testing.T) {
	tests := []struct {
		name   string
		answer map[string]any
		want   any
	}{
		{"male", map[string]any{"response": "Male"}, "male"},
		{"field key", map[string]any{"biological_sex": "male"}, "male"},
		{"other", map[string]any{"response": "other"}, "other"},
		{"unrecognized", map[string]any{"response": "prefer not to say"}, nil},
		{"empty", map[string]any{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractAnswer("biological_sex", tt.answer); got != tt.want {
				t.Fatalf("ExtractAnswer(biological_sex, %v) = %v, want %v", tt.answer, got, tt.want)
			}
		})
	}
}

func TestExtractVerbatimFields(t *testing.T) {
	if got := ExtractAnswer("smoking_status", map[string]any{"smoking_status": "never"}); got != "never" {
		t.Fatalf("expected verbatim value, got %v", got)
	}
	if got := ExtractAnswer("smoking_status", map[string]any{"response": "never"}); got != nil {
		t.Fatalf("expected nil when field key absent, got %v", got)
	}
	if got := ExtractAnswer("height_cm", map[string]any{"height_cm": float64(170)}); got != float64(170) {
		t.Fatalf("expected 170, got %v", got)
	}
}
