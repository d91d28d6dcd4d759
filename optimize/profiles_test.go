package optimize

import (
	"testing"
	"time"

	"github.com/poiesic/cinerag/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternOf(t *testing.T) {
	tests := []struct {
		name     string
		query    *core.Query
		expected string
	}{
		{"short", &core.Query{Normalized: "action", Tokens: []string{"action"}}, PatternShort},
		{"long", &core.Query{
			Normalized: "a b c d e f",
			Tokens:     []string{"a", "b", "c", "d", "e", "f"},
		}, PatternLong},
		{"genre", &core.Query{
			Normalized: "intense horror tonight",
			Tokens:     []string{"intense", "horror", "tonight"},
		}, PatternGenre},
		{"recommendation", &core.Query{
			Normalized: "something similar inception please",
			Tokens:     []string{"something", "similar", "inception", "please"},
		}, PatternRecommendation},
		{"general", &core.Query{
			Normalized: "inception sequel plot",
			Tokens:     []string{"inception", "sequel", "plot"},
		}, PatternGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PatternOf(tt.query))
		})
	}
}

func TestProfileStore_FirstObservationSetsBaseline(t *testing.T) {
	store := NewProfileStore()
	store.Observe(PatternShort, 100*time.Millisecond, 10)

	profile, ok := store.Profile(PatternShort)
	require.True(t, ok)
	assert.Equal(t, 100*time.Millisecond, profile.AvgLatency)
	assert.Equal(t, float32(10), profile.AvgResultCount)
	assert.Equal(t, float32(1.0), profile.ClickThrough)
	assert.Equal(t, uint64(1), profile.Samples)
}

func TestProfileStore_MovingAverage(t *testing.T) {
	store := NewProfileStore()
	store.Observe(PatternShort, 100*time.Millisecond, 10)
	store.Observe(PatternShort, 200*time.Millisecond, 20)

	profile, ok := store.Profile(PatternShort)
	require.True(t, ok)
	// alpha 0.3: 0.3*200ms + 0.7*100ms = 130ms
	assert.InDelta(t, float64(130*time.Millisecond), float64(profile.AvgLatency), 1e3)
	assert.InDelta(t, 13.0, float64(profile.AvgResultCount), 1e-4)
	assert.Equal(t, uint64(2), profile.Samples)
}

func TestProfileStore_ClickThrough(t *testing.T) {
	store := NewProfileStore()
	store.Observe(PatternGenre, 50*time.Millisecond, 10)
	store.RecordOutcome(PatternGenre, false)

	profile, ok := store.Profile(PatternGenre)
	require.True(t, ok)
	assert.InDelta(t, 0.7, float64(profile.ClickThrough), 1e-4)

	store.RecordOutcome(PatternGenre, true)
	profile, _ = store.Profile(PatternGenre)
	assert.InDelta(t, 0.3+0.7*0.7, float64(profile.ClickThrough), 1e-4)
}

func TestProfileStore_Suggestions(t *testing.T) {
	store := NewProfileStore()

	assert.Nil(t, store.Suggestions(PatternShort))

	store.Observe(PatternShort, time.Second, 10)
	assert.Equal(t, []string{"simplify"}, store.Suggestions(PatternShort))

	store.Observe(PatternLong, 50*time.Millisecond, 1)
	assert.Equal(t, []string{"expand"}, store.Suggestions(PatternLong))

	store.Observe(PatternGeneral, 50*time.Millisecond, 10)
	assert.Nil(t, store.Suggestions(PatternGeneral))
}

func TestProfileStore_Patterns(t *testing.T) {
	store := NewProfileStore()
	store.Observe(PatternShort, time.Millisecond, 1)
	store.Observe(PatternGenre, time.Millisecond, 1)

	assert.Equal(t, []string{PatternGenre, PatternShort}, store.Patterns())
	assert.Equal(t, 2, store.Len())
}
