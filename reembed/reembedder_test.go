package reembed

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/cinerag/ai/mock"
	"github.com/poiesic/cinerag/catalog"
	"github.com/poiesic/cinerag/catalog/badger"
	"github.com/poiesic/cinerag/core"
)

func seededRepo(t *testing.T, n int) catalog.MovieRepository {
	t.Helper()

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	movies := make([]*core.Movie, 0, n)
	titles := []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon"}
	for i := 0; i < n; i++ {
		movies = append(movies, &core.Movie{
			Title:  titles[i%len(titles)],
			Genres: []string{"Drama"},
			Year:   1990 + i,
			Vector: []float32{1, 0, 0},
		})
	}
	_, err = repo.AddMovies(context.Background(), movies...)
	require.NoError(t, err)
	return repo
}

func TestReembedder_Run(t *testing.T) {
	repo := seededRepo(t, 5)
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = []float32{0, 3, 4}
		}
		return out, nil
	}

	var buf bytes.Buffer
	r := NewReembedder(repo, embedder, &Config{BatchSize: 2, ReportInterval: 2, MaxRetries: 1, RetryDelay: 0}, &buf)
	require.NoError(t, r.Run(context.Background()))

	movies, err := repo.AllMovies(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 5)
	for _, movie := range movies {
		require.Len(t, movie.Vector, 3)
		assert.InDelta(t, 0.6, float64(movie.Vector[1]), 1e-6)
		assert.InDelta(t, 0.8, float64(movie.Vector[2]), 1e-6)
	}
	assert.Contains(t, buf.String(), "Reembedding complete")
}

func TestReembedder_EmptyCatalog(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	var buf bytes.Buffer
	r := NewReembedder(repo, mock.NewMockEmbedder(), nil, &buf)
	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, buf.String(), "No movies found")
}

func TestReembedder_EmbeddingFailure(t *testing.T) {
	repo := seededRepo(t, 3)
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(_ context.Context, _ []string) ([][]float32, error) {
		return nil, errors.New("service down")
	}

	var buf bytes.Buffer
	r := NewReembedder(repo, embedder, &Config{BatchSize: 2, ReportInterval: 1, MaxRetries: 2, RetryDelay: 0}, &buf)
	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to process batch")
}

func TestMovieIterator_Batches(t *testing.T) {
	repo := seededRepo(t, 5)

	var batchSizes []int
	it := NewMovieIterator(repo, 2)
	err := it.ForEach(context.Background(), func(movies []*core.Movie) error {
		batchSizes = append(batchSizes, len(movies))
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 1}, batchSizes)
}

func TestMovieIterator_StopsOnError(t *testing.T) {
	repo := seededRepo(t, 5)

	boom := errors.New("boom")
	calls := 0
	it := NewMovieIterator(repo, 2)
	err := it.ForEach(context.Background(), func(_ []*core.Movie) error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestBatchProcessor_CountMismatch(t *testing.T) {
	repo := seededRepo(t, 2)
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(_ context.Context, _ []string) ([][]float32, error) {
		return [][]float32{{1, 0, 0}}, nil
	}

	movies, err := repo.AllMovies(context.Background())
	require.NoError(t, err)

	bp := NewBatchProcessor(repo, embedder, 1, 0)
	err = bp.Process(context.Background(), movies)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")
}
