package reembed

import (
	"math"
	"strings"
)

// NormalizeVector scales a vector to unit length, returning a new
// slice. A zero vector comes back as a fresh zero vector.
func NormalizeVector(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	var sumSquares float32
	for _, val := range v {
		sumSquares += val * val
	}
	magnitude := float32(math.Sqrt(float64(sumSquares)))

	result := make([]float32, len(v))
	if magnitude == 0 {
		return result
	}
	for i, val := range v {
		result[i] = val / magnitude
	}
	return result
}

// EmbeddingText is the text embedded for a catalog record: title,
// genres and overview joined with sentence breaks. Seeding and
// reembedding use the same shape so query and record vectors share a
// space.
func EmbeddingText(title string, genres []string, overview string) string {
	parts := []string{title}
	if len(genres) > 0 {
		parts = append(parts, strings.Join(genres, " "))
	}
	if overview != "" {
		parts = append(parts, overview)
	}
	return strings.Join(parts, ". ")
}
