package badger

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/cinerag/catalog"
	"github.com/poiesic/cinerag/core"
)

// MovieRepository implements catalog.MovieRepository for BadgerDB.
type MovieRepository struct {
	backend *Backend
}

var _ catalog.MovieRepository = (*MovieRepository)(nil)

// NewMovieRepository creates a new MovieRepository.
//
// Returns catalog.MovieRepository interface to enforce abstraction.
func NewMovieRepository(backend *Backend) (catalog.MovieRepository, error) {
	return &MovieRepository{
		backend: backend,
	}, nil
}

// Close releases resources. MovieRepository has no resources to release.
func (r *MovieRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (r *MovieRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.ScoredMovie, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// WithTransaction delegates to the backend.
func (r *MovieRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// movieContentID derives a stable ID from the movie's title and year.
func movieContentID(movie *core.Movie) core.ID {
	return core.IDFromContent(fmt.Sprintf("%s|%d", strings.ToLower(movie.Title), movie.Year))
}

// AddMovies adds one or more movies to the catalog.
func (r *MovieRepository) AddMovies(ctx context.Context, movies ...*core.Movie) ([]*core.Movie, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, movie := range movies {
			if err := core.ValidateMovie(movie); err != nil {
				return err
			}

			// Use content-based ID if not set
			if movie.Id == 0 {
				movie.Id = movieContentID(movie)
			}

			// Store primary record
			key := makeMovieKey(movie.Id)
			value := catalog.MarshalMovie(movie)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update genre index
			if err := updateGenreIndex(tx, movie); err != nil {
				return err
			}

			// Update year index
			if movie.Year > 0 {
				yearKey := makeYearKey(movie.Year, movie.Id)
				if err := tx.Set(yearKey, catalog.MarshalID(movie.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return movies, err
}

// UpdateMovies updates existing movies.
func (r *MovieRepository) UpdateMovies(ctx context.Context, movies ...*core.Movie) ([]*core.Movie, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, movie := range movies {
			key := makeMovieKey(movie.Id)

			// Read old movie to detect changes
			old, err := readMovie(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return catalog.ErrNotFound
			}

			// Store updated record
			value := catalog.MarshalMovie(movie)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update genre index if genres changed
			if !genresEqual(old.Genres, movie.Genres) {
				if err := deleteGenreIndex(tx, old); err != nil {
					return err
				}
				if err := updateGenreIndex(tx, movie); err != nil {
					return err
				}
			}

			// Update year index if year changed
			if old.Year != movie.Year {
				if old.Year > 0 {
					if err := tx.Delete(makeYearKey(old.Year, old.Id)); err != nil {
						return err
					}
				}
				if movie.Year > 0 {
					yearKey := makeYearKey(movie.Year, movie.Id)
					if err := tx.Set(yearKey, catalog.MarshalID(movie.Id)); err != nil {
						return err
					}
				}
			}
		}
		return tx.Commit()
	}, true)

	return movies, err
}

// DeleteMovies removes movies by their IDs.
func (r *MovieRepository) DeleteMovies(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeMovieKey(id)

			// Read movie to get metadata for index cleanup
			movie, err := readMovie(tx, key)
			if err != nil {
				return err
			}
			if movie == nil {
				return catalog.ErrNotFound
			}

			// Delete from genre index
			if err := deleteGenreIndex(tx, movie); err != nil {
				return err
			}

			// Delete from year index
			if movie.Year > 0 {
				if err := tx.Delete(makeYearKey(movie.Year, movie.Id)); err != nil {
					return err
				}
			}

			// Delete primary record
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetMovie retrieves a single movie by ID.
func (r *MovieRepository) GetMovie(ctx context.Context, id core.ID) (*core.Movie, error) {
	var movie *core.Movie
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		movie, err = readMovie(tx, makeMovieKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, catalog.ErrNotFound
	}
	return movie, nil
}

// GetMovies retrieves multiple movies by their IDs.
// Missing movies are skipped without error.
func (r *MovieRepository) GetMovies(ctx context.Context, ids ...core.ID) ([]*core.Movie, error) {
	var movies []*core.Movie
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			movie, err := readMovie(tx, makeMovieKey(id))
			if err != nil {
				return err
			}
			if movie != nil {
				movies = append(movies, movie)
			}
		}
		return nil
	}, false)

	return movies, err
}

// GetMoviesByGenre retrieves movies tagged with the given genre.
func (r *MovieRepository) GetMoviesByGenre(ctx context.Context, genre string) ([]*core.Movie, error) {
	var movies []*core.Movie
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialGenreKey(genre)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			// Check if key still has our genre prefix
			if len(key) < len(startKey) {
				break
			}
			if slices.Compare(key[:len(startKey)], startKey) != 0 {
				break
			}

			// Read the movieID from the value
			var movieID core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				movieID, err = catalog.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			// Look up the full record
			movie, err := readMovie(tx, makeMovieKey(movieID))
			if err != nil {
				return err
			}
			if movie != nil {
				movies = append(movies, movie)
			}
		}
		return nil
	}, false)

	return movies, err
}

// GetMoviesByYearRange retrieves movies where from <= Year <= to.
func (r *MovieRepository) GetMoviesByYearRange(ctx context.Context, from, to int) ([]*core.Movie, error) {
	if to < from {
		from, to = to, from
	}

	var movies []*core.Movie
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialYearKey(from)
		// End bound is exclusive on the next year's partial key
		endKey := makePartialYearKey(to + 1)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, []byte(movieYearPrefix+":")) {
				break
			}
			if slices.Compare(key, endKey) >= 0 {
				break
			}

			// Read the movieID from the index
			var movieID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				movieID, err = catalog.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			// Look up the full record
			movie, err := readMovie(tx, makeMovieKey(movieID))
			if err != nil {
				return err
			}
			if movie != nil {
				movies = append(movies, movie)
			}
		}
		return nil
	}, false)

	return movies, err
}

// AllMovies retrieves every movie in the catalog.
func (r *MovieRepository) AllMovies(ctx context.Context) ([]*core.Movie, error) {
	var movies []*core.Movie
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(moviePrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			key := item.Key()

			// Skip index keys
			if bytes.HasPrefix(key, []byte(movieGenrePrefix)) ||
				bytes.HasPrefix(key, []byte(movieYearPrefix)) {
				continue
			}

			var movie *core.Movie
			err := item.Value(func(val []byte) error {
				var err error
				movie, err = catalog.UnmarshalMovie(val)
				return err
			})
			if err != nil {
				return err
			}
			if movie != nil {
				movies = append(movies, movie)
			}
		}
		return nil
	}, false)

	return movies, err
}

// CountMovies returns the number of movies in the catalog.
func (r *MovieRepository) CountMovies(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(moviePrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if bytes.HasPrefix(key, []byte(movieGenrePrefix)) ||
				bytes.HasPrefix(key, []byte(movieYearPrefix)) {
				continue
			}
			count++
		}
		return nil
	}, false)

	return count, err
}

// readMovie reads a movie by key, returning nil if the key does not exist.
func readMovie(tx *badger.Txn, key []byte) (*core.Movie, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var movie *core.Movie
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		movie, unmarshalErr = catalog.UnmarshalMovie(val)
		return unmarshalErr
	})
	return movie, err
}

// updateGenreIndex adds genre index entries for the movie.
func updateGenreIndex(tx *badger.Txn, movie *core.Movie) error {
	for _, genre := range movie.Genres {
		genreKey := makeGenreKey(genre, movie.Id)
		if err := tx.Set(genreKey, catalog.MarshalID(movie.Id)); err != nil {
			return err
		}
	}
	return nil
}

// deleteGenreIndex removes genre index entries for the movie.
func deleteGenreIndex(tx *badger.Txn, movie *core.Movie) error {
	for _, genre := range movie.Genres {
		if err := tx.Delete(makeGenreKey(genre, movie.Id)); err != nil {
			return err
		}
	}
	return nil
}

// genresEqual compares two genre lists, ignoring case.
func genresEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}
