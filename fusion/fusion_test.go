package fusion

import (
	"testing"

	"github.com/poiesic/cinerag/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFuser(t *testing.T) *Fuser {
	t.Helper()
	f, err := NewFuser()
	require.NoError(t, err)
	return f
}

func semItem(id core.ID, score float32, movie core.Movie) core.CandidateItem {
	movie.Id = id
	return core.CandidateItem{Id: id, SemanticScore: score, Channels: core.ChannelSemantic, Movie: movie}
}

func lexItem(id core.ID, score float32, movie core.Movie) core.CandidateItem {
	movie.Id = id
	return core.CandidateItem{Id: id, LexicalScore: score, Channels: core.ChannelLexical, Movie: movie}
}

func TestFuse_CombinesBothChannels(t *testing.T) {
	f := newTestFuser(t)

	semantic := []core.CandidateItem{semItem(1, 0.8, core.Movie{Title: "Alien"})}
	lexical := []core.CandidateItem{lexItem(1, 0.5, core.Movie{Title: "Alien"})}

	fused := f.Fuse(semantic, lexical, &core.Query{Intent: core.IntentUnknown})

	require.Len(t, fused, 1)
	assert.True(t, fused[0].Channels.Has(core.ChannelSemantic))
	assert.True(t, fused[0].Channels.Has(core.ChannelLexical))
	// combined = 0.7*0.8 + 0.3*0.5
	assert.InDelta(t, 0.71, fused[0].Combined, 0.0001)
}

func TestFuse_SingleChannelWeighting(t *testing.T) {
	f := newTestFuser(t)

	semantic := []core.CandidateItem{semItem(1, 0.8, core.Movie{})}
	lexical := []core.CandidateItem{lexItem(2, 0.8, core.Movie{})}

	fused := f.Fuse(semantic, lexical, &core.Query{Intent: core.IntentUnknown})

	require.Len(t, fused, 2)
	// Semantic-only gets w_sem * score, lexical-only w_lex * score, no
	// implicit boost or penalty beyond the weights
	assert.InDelta(t, 0.56, fused[0].Combined, 0.0001)
	assert.InDelta(t, 0.24, fused[1].Combined, 0.0001)
}

func TestFuse_IntentTuning(t *testing.T) {
	f := newTestFuser(t)

	semantic := []core.CandidateItem{semItem(1, 0.6, core.Movie{})}
	lexical := []core.CandidateItem{lexItem(1, 0.6, core.Movie{})}

	t.Run("similarity boosts semantic weight", func(t *testing.T) {
		fused := f.Fuse(semantic, lexical, &core.Query{Intent: core.IntentSimilarity})
		require.Len(t, fused, 1)
		// 0.85*0.6 + 0.15*0.6
		assert.InDelta(t, 0.6, fused[0].Combined, 0.0001)

		w := f.WeightsFor(core.IntentSimilarity)
		assert.InDelta(t, 0.85, w.Semantic, 0.0001)
	})

	t.Run("genre search boosts lexical weight", func(t *testing.T) {
		w := f.WeightsFor(core.IntentGenreSearch)
		assert.InDelta(t, 0.45, w.Lexical, 0.0001)
	})

	t.Run("unlisted intent falls back to defaults", func(t *testing.T) {
		w := f.WeightsFor(core.IntentMoodSearch)
		assert.Equal(t, DefaultWeights, w)
	})
}

func TestFuse_NoDuplicates(t *testing.T) {
	f := newTestFuser(t)

	semantic := []core.CandidateItem{
		semItem(1, 0.9, core.Movie{}),
		semItem(2, 0.8, core.Movie{}),
	}
	lexical := []core.CandidateItem{
		lexItem(1, 0.7, core.Movie{}),
		lexItem(3, 0.6, core.Movie{}),
	}

	fused := f.Fuse(semantic, lexical, nil)

	seen := make(map[core.ID]bool)
	for _, item := range fused {
		assert.False(t, seen[item.Id], "item %d appears twice", item.Id)
		seen[item.Id] = true
	}
	assert.Len(t, fused, 3)
}

func TestFuse_YearFilterIsHard(t *testing.T) {
	f := newTestFuser(t)

	semantic := []core.CandidateItem{
		semItem(1, 0.9, core.Movie{Year: 1985}),
		semItem(2, 0.9, core.Movie{Year: 2005}),
		semItem(3, 0.9, core.Movie{}), // unknown year passes
	}

	query := &core.Query{Years: &core.YearRange{From: 1980, To: 1989}}
	fused := f.Fuse(semantic, nil, query)

	require.Len(t, fused, 2)
	for _, item := range fused {
		assert.NotEqual(t, core.ID(2), item.Id)
	}
}

func TestFuse_ContradictoryYearsDoNotFilter(t *testing.T) {
	f := newTestFuser(t)

	semantic := []core.CandidateItem{
		semItem(1, 0.9, core.Movie{Year: 1985}),
		semItem(2, 0.9, core.Movie{Year: 2005}),
	}

	query := &core.Query{Years: &core.YearRange{From: 2050, To: 2000, Contradictory: true}}
	fused := f.Fuse(semantic, nil, query)

	// A contradictory range is unsatisfiable as written, so nothing
	// gets excluded by it
	assert.Len(t, fused, 2)
}

func TestFuse_GenreFilter(t *testing.T) {
	f := newTestFuser(t)

	semantic := []core.CandidateItem{
		semItem(1, 0.9, core.Movie{Genres: []string{"Horror"}}),
		semItem(2, 0.9, core.Movie{Genres: []string{"Comedy"}}),
	}

	query := &core.Query{Genres: []string{"horror"}}
	fused := f.Fuse(semantic, nil, query)

	require.Len(t, fused, 1)
	assert.Equal(t, core.ID(1), fused[0].Id)
}

func TestFuse_TieBreaks(t *testing.T) {
	f := newTestFuser(t)

	t.Run("both channels beats single channel", func(t *testing.T) {
		// id 2 in both channels, id 1 semantic only, equal combined
		semantic := []core.CandidateItem{
			semItem(1, 1.0, core.Movie{}),
			semItem(2, 0.7, core.Movie{}),
		}
		lexical := []core.CandidateItem{lexItem(2, 0.7, core.Movie{})}

		fused := f.Fuse(semantic, lexical, nil)
		require.Len(t, fused, 2)
		assert.Equal(t, fused[0].Combined, fused[1].Combined)
		assert.Equal(t, core.ID(2), fused[0].Id)
	})

	t.Run("popularity then id", func(t *testing.T) {
		semantic := []core.CandidateItem{
			semItem(3, 0.5, core.Movie{Popularity: 10}),
			semItem(1, 0.5, core.Movie{Popularity: 50}),
			semItem(2, 0.5, core.Movie{Popularity: 10}),
		}

		fused := f.Fuse(semantic, nil, nil)
		require.Len(t, fused, 3)
		assert.Equal(t, core.ID(1), fused[0].Id)
		assert.Equal(t, core.ID(2), fused[1].Id)
		assert.Equal(t, core.ID(3), fused[2].Id)
	})
}

func TestFuse_DeterministicAcrossRuns(t *testing.T) {
	f := newTestFuser(t)

	semantic := []core.CandidateItem{
		semItem(5, 0.5, core.Movie{}),
		semItem(3, 0.5, core.Movie{}),
		semItem(9, 0.5, core.Movie{}),
	}
	lexical := []core.CandidateItem{
		lexItem(3, 0.2, core.Movie{}),
		lexItem(7, 0.9, core.Movie{}),
	}

	first := f.Fuse(semantic, lexical, nil)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, f.Fuse(semantic, lexical, nil))
	}
}

func TestWithWeights(t *testing.T) {
	f, err := NewFuser(WithWeights(Weights{Semantic: 0.5, Lexical: 0.5}))
	require.NoError(t, err)

	// Unknown intents pick up the configured base weights.
	w := f.WeightsFor(core.IntentUnknown)
	assert.Equal(t, Weights{Semantic: 0.5, Lexical: 0.5}, w)

	// Tuned intents keep their table entries.
	assert.Equal(t, Weights{Semantic: 0.85, Lexical: 0.15}, f.WeightsFor(core.IntentSimilarity))

	_, err = NewFuser(WithWeights(Weights{Semantic: -1, Lexical: 0.3}))
	assert.ErrorIs(t, err, ErrInvalidWeights)
}

func TestWithWeightsNormalizes(t *testing.T) {
	f, err := NewFuser(WithWeights(Weights{Semantic: 0.5, Lexical: 0.9}))
	require.NoError(t, err)

	w := f.WeightsFor(core.IntentUnknown)
	assert.InDelta(t, 1.0, float64(w.Semantic+w.Lexical), 1e-6)
	assert.InDelta(t, 0.5/1.4, float64(w.Semantic), 1e-6)
	assert.InDelta(t, 0.9/1.4, float64(w.Lexical), 1e-6)
}
