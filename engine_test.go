package cinerag

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/poiesic/cinerag/ai/mock"
	"github.com/poiesic/cinerag/core"
)

var (
	axisQuery  = []float32{0, 0, 0, 1}
	axisFamily = []float32{1, 0, 0, 0}
	axisDrama  = []float32{0, 1, 0, 0}
)

// newTestEngine builds an in-memory engine whose embedder maps every
// query onto a fixed axis, so semantic similarity is fully controlled
// by the seeded movie vectors.
func newTestEngine(t *testing.T, queryVec []float32) (*Engine, *mock.MockEmbedder) {
	t.Helper()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return queryVec, nil
	}

	engine, err := NewEngine("", WithProvider(mock.NewMockProviderWithEmbedder(embedder)))
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })
	return engine, embedder
}

func seedCatalog(t *testing.T, engine *Engine, movies ...*core.Movie) {
	t.Helper()
	_, err := engine.MovieRepository().AddMovies(context.Background(), movies...)
	require.NoError(t, err)
}

func familyCatalog() []*core.Movie {
	movies := []*core.Movie{
		{Title: "Toy Story", Genres: []string{"Animation", "Children"}, Year: 1995, Popularity: 0.9, Overview: "toys come alive", Vector: axisFamily},
	}
	dramaTitles := []string{"Heavy Rain", "Quiet Streets", "The Long Winter", "Glass Houses", "Last Orchard"}
	for _, title := range dramaTitles {
		movies = append(movies, &core.Movie{
			Title:      title,
			Genres:     []string{"Drama"},
			Year:       2001,
			Popularity: 0.5,
			Overview:   "a serious story about people",
			Vector:     axisDrama,
		})
	}
	return movies
}

func TestEngine_SearchEmptyQuery(t *testing.T) {
	engine, _ := newTestEngine(t, axisQuery)

	_, err := engine.Search(context.Background(), "   ", 10)
	assert.ErrorIs(t, err, core.ErrInvalidQuery)
}

func TestEngine_SearchRanksLexicalMatchOnTop(t *testing.T) {
	engine, _ := newTestEngine(t, axisQuery)
	seedCatalog(t, engine, familyCatalog()...)

	result, err := engine.Search(context.Background(), "animated movies for kids", 10)
	require.NoError(t, err)
	require.NotEmpty(t, result.Items)

	topTitles := make([]string, 0, 3)
	for i := 0; i < len(result.Items) && i < 3; i++ {
		topTitles = append(topTitles, result.Items[i].Movie.Title)
	}
	assert.Contains(t, topTitles, "Toy Story")
	assert.Equal(t, core.CacheMiss, result.CacheStatus)
	assert.Equal(t, "optimized", result.Stage)
}

func TestEngine_SearchRanksSemanticMatchFirst(t *testing.T) {
	engine, _ := newTestEngine(t, axisFamily)
	seedCatalog(t, engine, familyCatalog()...)

	result, err := engine.Search(context.Background(), "heartwarming stories tonight", 10)
	require.NoError(t, err)
	require.NotEmpty(t, result.Items)
	assert.Equal(t, "Toy Story", result.Items[0].Movie.Title)
}

func TestEngine_SecondSearchHitsCache(t *testing.T) {
	engine, embedder := newTestEngine(t, axisQuery)
	seedCatalog(t, engine, familyCatalog()...)

	first, err := engine.Search(context.Background(), "animated movies for kids", 10)
	require.NoError(t, err)
	assert.Equal(t, core.CacheMiss, first.CacheStatus)
	callsAfterFirst := embedder.CallCount()
	require.Positive(t, callsAfterFirst)

	second, err := engine.Search(context.Background(), "animated movies for kids", 10)
	require.NoError(t, err)
	assert.Equal(t, core.CacheHitL1, second.CacheStatus)
	assert.Equal(t, callsAfterFirst, embedder.CallCount())

	require.Equal(t, len(first.Items), len(second.Items))
	for i := range first.Items {
		assert.Equal(t, first.Items[i].Id, second.Items[i].Id)
	}
}

func TestEngine_ConcurrentSearchesCollapse(t *testing.T) {
	engine, embedder := newTestEngine(t, axisQuery)
	seedCatalog(t, engine, familyCatalog()...)

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			result, err := engine.Search(context.Background(), "animated movies for kids", 10)
			if err != nil {
				return err
			}
			if len(result.Items) == 0 {
				return fmt.Errorf("empty result")
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	// One retrieval serves every in-flight request for the same key.
	assert.Equal(t, 1, embedder.CallCount())
}

func TestEngine_SearchLimit(t *testing.T) {
	engine, _ := newTestEngine(t, axisDrama)
	seedCatalog(t, engine, familyCatalog()...)

	result, err := engine.Search(context.Background(), "a serious story", 2)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.Items), 2)
}

func TestEngine_WithFilters(t *testing.T) {
	engine, _ := newTestEngine(t, axisQuery)
	seedCatalog(t, engine, familyCatalog()...)

	result, err := engine.Search(context.Background(), "a serious story", 10,
		WithFilters([]string{"Animation"}, nil))
	require.NoError(t, err)
	for _, item := range result.Items {
		assert.Contains(t, item.Movie.Genres, "Animation")
	}
}

func TestEngine_InvalidateItem(t *testing.T) {
	engine, embedder := newTestEngine(t, axisQuery)
	seedCatalog(t, engine, familyCatalog()...)

	first, err := engine.Search(context.Background(), "animated movies for kids", 10)
	require.NoError(t, err)
	require.NotEmpty(t, first.Items)
	calls := embedder.CallCount()

	engine.InvalidateItem(first.Items[0].Id)

	second, err := engine.Search(context.Background(), "animated movies for kids", 10)
	require.NoError(t, err)
	assert.Equal(t, core.CacheMiss, second.CacheStatus)
	assert.Greater(t, embedder.CallCount(), calls)
}

func TestEngine_Similar(t *testing.T) {
	engine, _ := newTestEngine(t, axisQuery)
	seedCatalog(t, engine,
		&core.Movie{Title: "Alpha", Genres: []string{"Drama"}, Year: 2000, Vector: []float32{1, 0, 0, 0}},
		&core.Movie{Title: "Beta", Genres: []string{"Drama"}, Year: 2001, Vector: []float32{0.9, 0.1, 0, 0}},
		&core.Movie{Title: "Gamma", Genres: []string{"Comedy"}, Year: 2002, Vector: []float32{0, 0, 1, 0}},
	)

	movies, err := engine.MovieRepository().AllMovies(context.Background())
	require.NoError(t, err)
	var alpha *core.Movie
	for _, m := range movies {
		if m.Title == "Alpha" {
			alpha = m
		}
	}
	require.NotNil(t, alpha)

	result, err := engine.Similar(context.Background(), alpha.Id, 2)
	require.NoError(t, err)
	require.NotEmpty(t, result.Items)
	assert.Equal(t, "Beta", result.Items[0].Movie.Title)
	for _, item := range result.Items {
		assert.NotEqual(t, alpha.Id, item.Id)
	}
	assert.Equal(t, "similar", result.Stage)
}

func TestEngine_WarmCacheAndStats(t *testing.T) {
	engine, _ := newTestEngine(t, axisQuery)
	seedCatalog(t, engine, familyCatalog()...)

	warmed := engine.WarmCache(context.Background(), []string{"animated movies for kids", "a serious story"})
	assert.Equal(t, 2, warmed)

	stats, err := engine.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Movies)
	assert.Equal(t, uint64(2), stats.Cache.Puts)

	// Warmed queries now answer from L1.
	result, err := engine.Search(context.Background(), "a serious story", DefaultLimit)
	require.NoError(t, err)
	assert.Equal(t, core.CacheHitL1, result.CacheStatus)
}

func TestEngine_RecordInteraction(t *testing.T) {
	engine, _ := newTestEngine(t, axisQuery)
	seedCatalog(t, engine, familyCatalog()...)

	engine.RecordInteraction(core.InteractionSignal{ItemId: 1, Action: core.ActionClick, Timestamp: time.Now()})

	require.Eventually(t, func() bool {
		stats, err := engine.Stats(context.Background())
		return err == nil && stats.Optimizer.TrackedItems == 1
	}, time.Second, 5*time.Millisecond)
}
