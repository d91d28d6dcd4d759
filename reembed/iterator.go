// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"

	"github.com/poiesic/cinerag/catalog"
	"github.com/poiesic/cinerag/core"
)

const (
	// DefaultBatchSize is the default number of movies to process in each batch
	DefaultBatchSize = 100
)

// MovieIterator walks the whole catalog in batches.
type MovieIterator struct {
	repo      catalog.MovieRepository
	batchSize int
}

// NewMovieIterator creates a new movie iterator.
// batchSize: number of movies per batch (must be > 0)
func NewMovieIterator(repo catalog.MovieRepository, batchSize int) *MovieIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &MovieIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach calls fn for each batch of movies. Iteration stops on the
// first error from fn; context cancellation is checked between
// batches.
func (it *MovieIterator) ForEach(ctx context.Context, fn func([]*core.Movie) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	movies, err := it.repo.AllMovies(ctx)
	if err != nil {
		return err
	}
	if len(movies) == 0 {
		return nil
	}

	for i := 0; i < len(movies); i += it.batchSize {
		end := i + it.batchSize
		if end > len(movies) {
			end = len(movies)
		}

		if err := fn(movies[i:end]); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}
