package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/cinerag/catalog"
	"github.com/poiesic/cinerag/core"
)

func TestMovieBasics(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	movie := &core.Movie{
		Title:      "Inception",
		Genres:     []string{"Sci-Fi", "Thriller"},
		Year:       2010,
		Popularity: 82.5,
		Overview:   "A thief who steals corporate secrets through dream-sharing technology.",
	}

	added, err := repo.AddMovies(ctx, movie)
	if err != nil {
		t.Fatalf("Failed to add movie: %v", err)
	}

	if len(added) != 1 {
		t.Fatalf("Expected 1 movie, got %d", len(added))
	}

	if added[0].Id == 0 {
		t.Fatal("Expected non-zero ID")
	}

	retrieved, err := repo.GetMovie(ctx, added[0].Id)
	if err != nil {
		t.Fatalf("Failed to get movie: %v", err)
	}

	if retrieved.Title != "Inception" {
		t.Fatalf("Expected 'Inception', got '%s'", retrieved.Title)
	}
	if retrieved.Year != 2010 {
		t.Fatalf("Expected year 2010, got %d", retrieved.Year)
	}
}

func TestMovieContentIDIsStable(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	first := &core.Movie{Title: "The Matrix", Year: 1999, Genres: []string{"Sci-Fi"}}
	second := &core.Movie{Title: "The Matrix", Year: 1999, Genres: []string{"Sci-Fi"}}

	_, err = repo.AddMovies(ctx, first)
	if err != nil {
		t.Fatalf("Failed to add movie: %v", err)
	}
	_, err = repo.AddMovies(ctx, second)
	if err != nil {
		t.Fatalf("Failed to re-add movie: %v", err)
	}

	if first.Id != second.Id {
		t.Fatalf("Expected identical IDs for identical content, got %d and %d", first.Id, second.Id)
	}

	// Re-seeding must not duplicate the record
	count, err := repo.CountMovies(ctx)
	if err != nil {
		t.Fatalf("Failed to count movies: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected 1 movie after re-seed, got %d", count)
	}
}

func TestGetMoviesByGenre(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	movies := []*core.Movie{
		{Title: "Alien", Genres: []string{"Horror", "Sci-Fi"}, Year: 1979},
		{Title: "The Shining", Genres: []string{"Horror"}, Year: 1980},
		{Title: "Airplane!", Genres: []string{"Comedy"}, Year: 1980},
	}

	_, err = repo.AddMovies(ctx, movies...)
	if err != nil {
		t.Fatalf("Failed to add movies: %v", err)
	}

	horror, err := repo.GetMoviesByGenre(ctx, "horror")
	if err != nil {
		t.Fatalf("Failed to get movies by genre: %v", err)
	}
	if len(horror) != 2 {
		t.Fatalf("Expected 2 horror movies, got %d", len(horror))
	}

	// Genre lookup is case-insensitive
	comedy, err := repo.GetMoviesByGenre(ctx, "COMEDY")
	if err != nil {
		t.Fatalf("Failed to get movies by genre: %v", err)
	}
	if len(comedy) != 1 {
		t.Fatalf("Expected 1 comedy movie, got %d", len(comedy))
	}
}

func TestGetMoviesByYearRange(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	movies := []*core.Movie{
		{Title: "Jaws", Genres: []string{"Thriller"}, Year: 1975},
		{Title: "Star Wars", Genres: []string{"Sci-Fi"}, Year: 1977},
		{Title: "Blade Runner", Genres: []string{"Sci-Fi"}, Year: 1982},
		{Title: "Jurassic Park", Genres: []string{"Adventure"}, Year: 1993},
	}

	_, err = repo.AddMovies(ctx, movies...)
	if err != nil {
		t.Fatalf("Failed to add movies: %v", err)
	}

	results, err := repo.GetMoviesByYearRange(ctx, 1977, 1985)
	if err != nil {
		t.Fatalf("Failed to get movies by year range: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 movies in range, got %d", len(results))
	}

	// Bounds are inclusive and ordered by year ascending
	if results[0].Title != "Star Wars" || results[1].Title != "Blade Runner" {
		t.Fatalf("Unexpected ordering: %s, %s", results[0].Title, results[1].Title)
	}

	// Reversed bounds are swapped, not rejected
	swapped, err := repo.GetMoviesByYearRange(ctx, 1985, 1977)
	if err != nil {
		t.Fatalf("Failed to get movies with swapped bounds: %v", err)
	}
	if len(swapped) != 2 {
		t.Fatalf("Expected 2 movies with swapped bounds, got %d", len(swapped))
	}
}

func TestUpdateMovie(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	movie := &core.Movie{Title: "Dune", Genres: []string{"Sci-Fi"}, Year: 2021}
	_, err = repo.AddMovies(ctx, movie)
	if err != nil {
		t.Fatalf("Failed to add movie: %v", err)
	}

	movie.Genres = []string{"Sci-Fi", "Adventure"}
	movie.Popularity = 95.0
	_, err = repo.UpdateMovies(ctx, movie)
	if err != nil {
		t.Fatalf("Failed to update movie: %v", err)
	}

	retrieved, err := repo.GetMovie(ctx, movie.Id)
	if err != nil {
		t.Fatalf("Failed to get movie: %v", err)
	}
	if len(retrieved.Genres) != 2 {
		t.Fatalf("Expected 2 genres after update, got %d", len(retrieved.Genres))
	}

	// New genre index entry must exist
	adventure, err := repo.GetMoviesByGenre(ctx, "adventure")
	if err != nil {
		t.Fatalf("Failed to get movies by genre: %v", err)
	}
	if len(adventure) != 1 {
		t.Fatalf("Expected 1 adventure movie after update, got %d", len(adventure))
	}
}

func TestUpdateMissingMovie(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	missing := &core.Movie{Id: 42, Title: "Ghost", Year: 1990}
	_, err = repo.UpdateMovies(ctx, missing)
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestDeleteMovie(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	movie := &core.Movie{Title: "Heat", Genres: []string{"Crime"}, Year: 1995}
	_, err = repo.AddMovies(ctx, movie)
	if err != nil {
		t.Fatalf("Failed to add movie: %v", err)
	}

	if err := repo.DeleteMovies(ctx, movie.Id); err != nil {
		t.Fatalf("Failed to delete movie: %v", err)
	}

	_, err = repo.GetMovie(ctx, movie.Id)
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}

	// Genre index entries must be cleaned up
	crime, err := repo.GetMoviesByGenre(ctx, "crime")
	if err != nil {
		t.Fatalf("Failed to get movies by genre: %v", err)
	}
	if len(crime) != 0 {
		t.Fatalf("Expected 0 crime movies after delete, got %d", len(crime))
	}
}

func TestAllMoviesAndCount(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	movies := []*core.Movie{
		{Title: "Up", Genres: []string{"Animation"}, Year: 2009},
		{Title: "Coco", Genres: []string{"Animation"}, Year: 2017},
		{Title: "Soul", Genres: []string{"Animation"}, Year: 2020},
	}

	_, err = repo.AddMovies(ctx, movies...)
	if err != nil {
		t.Fatalf("Failed to add movies: %v", err)
	}

	all, err := repo.AllMovies(ctx)
	if err != nil {
		t.Fatalf("Failed to get all movies: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 movies, got %d", len(all))
	}

	count, err := repo.CountMovies(ctx)
	if err != nil {
		t.Fatalf("Failed to count movies: %v", err)
	}
	if count != 3 {
		t.Fatalf("Expected count 3, got %d", count)
	}
}

func TestAddInvalidMovie(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	_, err = repo.AddMovies(ctx, &core.Movie{Title: "", Year: 2000})
	if !errors.Is(err, core.ErrEmptyTitle) {
		t.Fatalf("Expected ErrEmptyTitle, got %v", err)
	}
}
