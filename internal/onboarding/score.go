package onboarding

import (
	"math"

	"github.com/SG2407/Aarogyan-BE-Project/internal/models"
)

// CompletionScore computes the weighted completion percentage of a profile.
// Each tier contributes filled/total * weight * 100; the sum is rounded to
// two decimal places. An all-empty profile scores 0, a fully filled one 100.
func CompletionScore(p *models.MedicalProfile) float64 {
	total := 0.0
	for _, tier := range tiers {
		filled := 0
		for _, f := range tier.Fields {
			if f.Filled(p) {
				filled++
			}
		}
		total += float64(filled) / float64(len(tier.Fields)) * Weights[tier.Tier] * 100
	}
	return math.Round(total*100) / 100
}
