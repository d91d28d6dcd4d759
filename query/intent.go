package query

import (
	"strings"

	"github.com/poiesic/cinerag/core"
)

// Confidence assigned per cue tier. Higher tiers are both checked first
// and trusted more.
const (
	similarityConfidence     = 0.9
	recommendationConfidence = 0.8
	genreConfidence          = 0.7
	moodConfidence           = 0.6
	qualityConfidence        = 0.5
)

// classifyIntent inspects the cleaned (pre-stripping) query text and
// returns the detected intent with a confidence score.
//
// Cue tables are checked in a fixed priority order: similarity phrases
// outrank recommendation phrases, which outrank genre words, mood
// words, and quality words. A text matching no table is IntentUnknown
// with confidence 0.
func classifyIntent(text string) (core.Intent, float32) {
	if containsAny(text, similarityCues) {
		return core.IntentSimilarity, similarityConfidence
	}
	if containsAny(text, recommendationCues) {
		return core.IntentRecommendation, recommendationConfidence
	}
	if containsAnyWord(text, genreCues) {
		return core.IntentGenreSearch, genreConfidence
	}
	if containsAnyWord(text, moodCues) {
		return core.IntentMoodSearch, moodConfidence
	}
	if containsAny(text, qualityCues) {
		return core.IntentQualitySearch, qualityConfidence
	}
	return core.IntentUnknown, 0
}

// containsAny reports whether text contains any of the cue substrings.
func containsAny(text string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(text, cue) {
			return true
		}
	}
	return false
}

// containsAnyWord reports whether text contains any cue as a whole
// word (or whole phrase bounded by spaces).
func containsAnyWord(text string, cues []string) bool {
	padded := " " + text + " "
	for _, cue := range cues {
		if strings.Contains(padded, " "+cue+" ") {
			return true
		}
	}
	return false
}

// extractGenres returns the catalog genres mentioned in the text as
// explicit filter constraints.
func extractGenres(text string) []string {
	var genres []string
	padded := " " + text + " "
	for _, genre := range filterGenres {
		if strings.Contains(padded, " "+genre+" ") {
			genres = append(genres, genre)
		}
	}
	return genres
}
