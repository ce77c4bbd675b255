// ABOUTME: Actionable recommendations aggregated from all analyzers
// ABOUTME: Fixed per-type confidence scores and deterministic ordering

package models

import "sort"

// RecommendationType defines the class of finding a recommendation
// belongs to.
type RecommendationType string

const (
	RecommendationPatternModernization RecommendationType = "pattern_modernization"
	RecommendationPackageUpgrade       RecommendationType = "package_upgrade"
	RecommendationAsyncOptimization    RecommendationType = "async_optimization"
	RecommendationDeprecationFix       RecommendationType = "deprecation_fix"
)

// ImpactLevel grades how much a recommendation is worth acting on.
type ImpactLevel string

const (
	ImpactLow    ImpactLevel = "low"
	ImpactMedium ImpactLevel = "medium"
	ImpactHigh   ImpactLevel = "high"
)

// impactRank orders impact levels for sorting; higher sorts first.
func impactRank(l ImpactLevel) int {
	switch l {
	case ImpactHigh:
		return 3
	case ImpactMedium:
		return 2
	case ImpactLow:
		return 1
	default:
		return 0
	}
}

// confidenceByType fixes the confidence score per recommendation type
// so identical input always yields identical confidence for the same
// finding class.
var confidenceByType = map[RecommendationType]float64{
	RecommendationDeprecationFix:       0.90,
	RecommendationPackageUpgrade:       0.75,
	RecommendationAsyncOptimization:    0.70,
	RecommendationPatternModernization: 0.65,
}

// ConfidenceFor returns the fixed confidence score for a
// recommendation type, always within [0,1].
func ConfidenceFor(t RecommendationType) float64 {
	if c, ok := confidenceByType[t]; ok {
		return c
	}
	return 0.50
}

// Recommendation is one actionable finding in the final ranked output.
type Recommendation struct {
	Type            RecommendationType `json:"type"`
	CurrentCode     string             `json:"current_code,omitempty"`
	SuggestedCode   string             `json:"suggested_code,omitempty"`
	Reason          string             `json:"reason"`
	ConfidenceScore float64            `json:"confidence_score"`
	Impact          ImpactLevel        `json:"impact"`
}

// SortRecommendations orders recommendations by descending confidence,
// then descending impact, keeping discovery order for ties so repeated
// runs on identical input produce identical output.
func SortRecommendations(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].ConfidenceScore != recs[j].ConfidenceScore {
			return recs[i].ConfidenceScore > recs[j].ConfidenceScore
		}
		return impactRank(recs[i].Impact) > impactRank(recs[j].Impact)
	})
}
