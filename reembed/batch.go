package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/cinerag/ai"
	"github.com/poiesic/cinerag/catalog"
	"github.com/poiesic/cinerag/core"
)

// BatchProcessor generates fresh embeddings for batches of movies.
type BatchProcessor struct {
	repo           catalog.MovieRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo catalog.MovieRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process embeds a batch of movies and writes the updated records
// back. Vectors are normalized so similarity search stays a dot
// product.
func (bp *BatchProcessor) Process(ctx context.Context, movies []*core.Movie) error {
	if len(movies) == 0 {
		return nil
	}

	texts := make([]string, len(movies))
	for i, movie := range movies {
		texts[i] = EmbeddingText(movie.Title, movie.Genres, movie.Overview)
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(movies) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(movies), len(embeddings))
	}

	for i := range movies {
		movies[i].Vector = NormalizeVector(embeddings[i])
	}

	if _, err := bp.repo.UpdateMovies(ctx, movies...); err != nil {
		return fmt.Errorf("failed to update movies: %w", err)
	}

	return nil
}
