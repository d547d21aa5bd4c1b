package classifier

import (
	"strings"

	"research-assistant/internal/models"
)

// scoreDenominator normalizes keyword-match counts: three matched keywords
// saturate a type's score at 1.0.
const scoreDenominator = 3.0

// Classify scores the question against every catalog entry and returns the
// best match. It never fails: an unmatched question resolves to the general
// type at confidence 0, with a zero score recorded for every type.
//
// Multi-intent questions ("compare and explain") deliberately resolve to
// the single highest-scoring type; composite strategies are not supported.
func Classify(question string) models.ClassificationResult {
	lower := strings.ToLower(question)

	scores := make(map[string]float64, len(Catalog))
	best := GeneralType
	bestScore := 0.0

	for _, qt := range Catalog {
		matches := 0
		for _, keyword := range qt.Keywords {
			if strings.Contains(lower, keyword) {
				matches++
			}
		}

		score := float64(matches) / scoreDenominator
		if score > 1.0 {
			score = 1.0
		}
		scores[qt.Name] = score

		// Strictly greater keeps ties on the earlier catalog entry.
		if score > bestScore {
			bestScore = score
			best = qt
		}
	}

	if bestScore == 0 {
		return models.ClassificationResult{
			Type:       GeneralType,
			Confidence: 0,
			Scores:     scores,
		}
	}

	return models.ClassificationResult{
		Type:       best,
		Confidence: bestScore,
		Scores:     scores,
	}
}
