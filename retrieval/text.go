package retrieval

import "strings"

// Field weights for lexical scoring. Title matches count most, genre
// tags next, overview text least.
const (
	titleWeight    = 3.0
	genresWeight   = 2.0
	overviewWeight = 1.0
)

// Per-keyword match credit within a field.
const (
	exactMatchCredit   = 1.0
	partialMatchCredit = 0.5
)

// fieldOverlap scores how well the keywords match a single text field.
// Each keyword earns full credit for a substring match of the field
// and half credit for a partial match inside one of the field's words.
// The result is normalized by the keyword count into [0,1].
func fieldOverlap(fieldText string, keywords []string) float64 {
	if fieldText == "" || len(keywords) == 0 {
		return 0
	}

	lower := strings.ToLower(fieldText)
	words := strings.Fields(lower)

	var score float64
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			score += exactMatchCredit
			continue
		}
		for _, word := range words {
			if strings.Contains(word, keyword) {
				score += partialMatchCredit
				break
			}
		}
	}

	return score / float64(len(keywords))
}

// lexicalScore computes the weighted keyword overlap of a movie's
// title, genres and overview, normalized into [0,1].
func lexicalScore(title string, genres []string, overview string, keywords []string) float32 {
	if len(keywords) == 0 {
		return 0
	}

	var score, totalWeight float64

	if title != "" {
		score += fieldOverlap(title, keywords) * titleWeight
		totalWeight += titleWeight
	}
	if len(genres) > 0 {
		score += fieldOverlap(strings.Join(genres, " "), keywords) * genresWeight
		totalWeight += genresWeight
	}
	if overview != "" {
		score += fieldOverlap(overview, keywords) * overviewWeight
		totalWeight += overviewWeight
	}

	if totalWeight == 0 {
		return 0
	}
	return float32(score / totalWeight)
}

// clamp01 clips a cosine similarity into the [0,1] score range.
func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
