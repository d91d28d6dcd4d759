package catalog

import (
	"context"

	"github.com/poiesic/cinerag/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// FindSimilar finds movies similar to the given vector.
	// Returns movies with similarity >= minSimilarity, up to limit results.
	// Results are ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.ScoredMovie, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// MovieRepository provides operations for managing the movie catalog.
type MovieRepository interface {
	Repository

	// AddMovies adds one or more movies to the catalog.
	// Movies with Id=0 receive content-based IDs derived from title and year,
	// so re-seeding the same catalog is idempotent.
	// Returns the movies with generated IDs populated.
	AddMovies(ctx context.Context, movies ...*core.Movie) ([]*core.Movie, error)

	// UpdateMovies updates existing movies.
	// Returns ErrNotFound if any movie doesn't exist.
	UpdateMovies(ctx context.Context, movies ...*core.Movie) ([]*core.Movie, error)

	// DeleteMovies removes movies by their IDs.
	// Also removes associated indices.
	// Returns ErrNotFound if any movie doesn't exist.
	DeleteMovies(ctx context.Context, ids ...core.ID) error

	// GetMovie retrieves a single movie by ID.
	// Returns ErrNotFound if the movie doesn't exist.
	GetMovie(ctx context.Context, id core.ID) (*core.Movie, error)

	// GetMovies retrieves multiple movies by their IDs.
	// Returns only the movies that exist (no error for missing movies).
	GetMovies(ctx context.Context, ids ...core.ID) ([]*core.Movie, error)

	// GetMoviesByGenre retrieves movies tagged with the given genre.
	// Genre matching is case-insensitive.
	GetMoviesByGenre(ctx context.Context, genre string) ([]*core.Movie, error)

	// GetMoviesByYearRange retrieves movies where from <= Year <= to,
	// ordered by year ascending.
	GetMoviesByYearRange(ctx context.Context, from, to int) ([]*core.Movie, error)

	// AllMovies retrieves every movie in the catalog.
	// Intended for full scans by the lexical retrieval channel and cache warming.
	AllMovies(ctx context.Context) ([]*core.Movie, error)

	// CountMovies returns the number of movies in the catalog.
	CountMovies(ctx context.Context) (int, error)
}
