package onboarding

import "github.com/SG2407/Aarogyan-BE-Project/internal/models"

// NextQuestion returns the first unfilled field scanning critical, important
// and enhancement tiers in catalog order. ok is false once every field in
// every tier is filled. Ties break on declaration order, nothing else.
func NextQuestion(p *models.MedicalProfile) (name string, ok bool) {
	for _, tier := range tiers {
		for _, f := range tier.Fields {
			if !f.Filled(p) {
				return f.Name, true
			}
		}
	}
	return "", false
}
