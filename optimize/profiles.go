package optimize

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/cinerag/core"
)

const (
	// emaAlpha is the learning rate for profile updates.
	emaAlpha = 0.3

	// slowLatency marks a query pattern as worth simplifying.
	slowLatency = 500 * time.Millisecond

	// thinResultCount marks a query pattern as worth expanding.
	thinResultCount = 3

	// lowClickThrough marks a query pattern as worth expanding.
	lowClickThrough = 0.8
)

// Query pattern labels used for performance profiling.
const (
	PatternShort          = "short_query"
	PatternLong           = "long_query"
	PatternGenre          = "genre_query"
	PatternRecommendation = "recommendation_query"
	PatternGeneral        = "general_query"
)

// PatternOf buckets a normalized query into a performance pattern.
// Length wins over content, genre words over recommendation cues.
func PatternOf(query *core.Query) string {
	switch {
	case len(query.Tokens) <= 2:
		return PatternShort
	case len(query.Tokens) >= 6:
		return PatternLong
	}

	for genre := range expansionTerms {
		if strings.Contains(query.Normalized, genre) {
			return PatternGenre
		}
	}

	for _, cue := range []string{"like", "similar", "recommend"} {
		if strings.Contains(query.Normalized, cue) {
			return PatternRecommendation
		}
	}

	return PatternGeneral
}

// ProfileStore holds per-pattern performance profiles, updated with an
// exponential moving average. Updates are best-effort; the lock is
// never held across I/O.
type ProfileStore struct {
	mu       sync.Mutex
	profiles map[string]*core.QueryPerformanceProfile
}

// NewProfileStore creates an empty profile store.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: make(map[string]*core.QueryPerformanceProfile)}
}

// Observe folds one search outcome into the pattern's profile.
func (s *ProfileStore) Observe(pattern string, latency time.Duration, resultCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[pattern]
	if !ok {
		s.profiles[pattern] = &core.QueryPerformanceProfile{
			Pattern:        pattern,
			AvgLatency:     latency,
			AvgResultCount: float32(resultCount),
			ClickThrough:   1.0,
			Samples:        1,
		}
		return
	}

	profile.AvgLatency = time.Duration(emaAlpha*float64(latency) + (1-emaAlpha)*float64(profile.AvgLatency))
	profile.AvgResultCount = emaAlpha*float32(resultCount) + (1-emaAlpha)*profile.AvgResultCount
	profile.Samples++
}

// RecordOutcome folds a click-through observation into the pattern's
// profile. Unknown patterns are ignored.
func (s *ProfileStore) RecordOutcome(pattern string, clicked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[pattern]
	if !ok {
		return
	}

	observed := float32(0)
	if clicked {
		observed = 1
	}
	profile.ClickThrough = emaAlpha*observed + (1-emaAlpha)*profile.ClickThrough
}

// Profile returns a copy of the pattern's profile.
func (s *ProfileStore) Profile(pattern string) (core.QueryPerformanceProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[pattern]
	if !ok {
		return core.QueryPerformanceProfile{}, false
	}
	return *profile, true
}

// Suggestions derives rewrite advice from the pattern's profile:
// "simplify" for slow patterns, "expand" for thin or ignored ones.
func (s *ProfileStore) Suggestions(pattern string) []string {
	profile, ok := s.Profile(pattern)
	if !ok {
		return nil
	}

	var suggestions []string
	if profile.AvgLatency > slowLatency {
		suggestions = append(suggestions, "simplify")
	}
	if profile.AvgResultCount < thinResultCount || profile.ClickThrough < lowClickThrough {
		suggestions = append(suggestions, "expand")
	}
	return suggestions
}

// Patterns returns the tracked pattern names, sorted.
func (s *ProfileStore) Patterns() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	patterns := make([]string, 0, len(s.profiles))
	for pattern := range s.profiles {
		patterns = append(patterns, pattern)
	}
	slices.Sort(patterns)
	return patterns
}

// Len returns the number of tracked patterns.
func (s *ProfileStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.profiles)
}
