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
	"fmt"
	"io"
	"time"

	"github.com/poiesic/cinerag/ai"
	"github.com/poiesic/cinerag/catalog"
	"github.com/poiesic/cinerag/core"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of movies to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of movies)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder regenerates the vectors of every movie in the catalog.
type Reembedder struct {
	repo      catalog.MovieRepository
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *MovieIterator
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo catalog.MovieRepository, embedder ai.Embedder, config *Config, progress io.Writer) *Reembedder {
	if config == nil {
		config = DefaultConfig()
	}

	return &Reembedder{
		repo:      repo,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(repo, embedder, config.MaxRetries, config.RetryDelay),
		iterator:  NewMovieIterator(repo, config.BatchSize),
	}
}

// Run reembeds every movie in the catalog with the configured
// embedder, reporting progress to the configured writer.
func (r *Reembedder) Run(ctx context.Context) error {
	total, err := r.repo.CountMovies(ctx)
	if err != nil {
		return fmt.Errorf("failed to count movies: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(r.progress, "No movies found in catalog (0 movies)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d movies (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, func(movies []*core.Movie) error {
		if err := r.processor.Process(ctx, movies); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		processed += len(movies)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d movies in %v (%.1f movies/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}
