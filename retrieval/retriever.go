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


package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/poiesic/cinerag/ai"
	"github.com/poiesic/cinerag/catalog"
	"github.com/poiesic/cinerag/core"
	"golang.org/x/sync/errgroup"
)

const (
	// defaultOverfetchFactor over-fetches candidates per channel so
	// fusion and filtering still fill the requested limit.
	defaultOverfetchFactor = 3

	// defaultTimeout bounds how long the two channels may run.
	defaultTimeout = 800 * time.Millisecond
)

// ChannelResults holds the per-channel candidate lists before fusion.
type ChannelResults struct {
	Semantic []core.CandidateItem
	Lexical  []core.CandidateItem
}

// Retriever runs the semantic and lexical retrieval channels
// concurrently against the movie catalog.
type Retriever struct {
	movies    catalog.MovieRepository
	embedder  ai.Embedder
	overfetch int
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithOverfetchFactor sets how many candidates per requested result
// each channel fetches. Minimum is 2.
func WithOverfetchFactor(factor int) Option {
	return func(r *Retriever) error {
		if factor < 2 {
			factor = 2
		}
		r.overfetch = factor
		return nil
	}
}

// WithTimeout bounds the combined channel run time.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Retriever) error {
		if timeout > 0 {
			r.timeout = timeout
		}
		return nil
	}
}

// NewRetriever creates a new retriever.
func NewRetriever(movies catalog.MovieRepository, provider ai.AIProvider, opts ...Option) (*Retriever, error) {
	if movies == nil {
		return nil, ErrMovieRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	r := &Retriever{
		movies:    movies,
		embedder:  provider.Embedder(),
		overfetch: defaultOverfetchFactor,
		timeout:   defaultTimeout,
		logger:    slog.Default().With("component", "retriever"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Retrieve runs both channels concurrently and returns their raw
// candidate lists.
//
// A failing channel degrades to an empty list while the other's
// results are still returned; ErrRetrievalUnavailable is returned only
// when both channels fail. An empty normalized query yields empty
// lists and no error.
func (r *Retriever) Retrieve(ctx context.Context, query *core.Query, limit int) (*ChannelResults, error) {
	results := &ChannelResults{}

	if query == nil || query.Normalized == "" || limit <= 0 {
		return results, nil
	}

	fetch := limit * r.overfetch

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// Channel errors are captured, not propagated through the group:
	// one surviving channel is a degraded success, not a failure.
	var semanticErr, lexicalErr error

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		items, err := r.semanticChannel(gctx, query, fetch)
		if err != nil {
			r.logger.Warn("semantic channel failed", "query", query.Normalized, "err", err)
			semanticErr = err
			return nil
		}
		results.Semantic = items
		return nil
	})

	g.Go(func() error {
		items, err := r.lexicalChannel(gctx, query, fetch)
		if err != nil {
			r.logger.Warn("lexical channel failed", "query", query.Normalized, "err", err)
			lexicalErr = err
			return nil
		}
		results.Lexical = items
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if semanticErr != nil && lexicalErr != nil {
		return nil, fmt.Errorf("%w: semantic: %v, lexical: %v", ErrRetrievalUnavailable, semanticErr, lexicalErr)
	}

	return results, nil
}

// semanticChannel embeds the normalized text and runs a nearest
// neighbor search against the catalog's vector index.
func (r *Retriever) semanticChannel(ctx context.Context, query *core.Query, fetch int) ([]core.CandidateItem, error) {
	vector, err := r.embedder.EmbedText(ctx, query.Normalized)
	if err != nil {
		return nil, err
	}
	if len(vector) == 0 {
		return nil, nil
	}

	matches, err := r.movies.FindSimilar(ctx, vector, 0, fetch)
	if err != nil {
		return nil, err
	}

	items := make([]core.CandidateItem, 0, len(matches))
	for _, match := range matches {
		items = append(items, core.CandidateItem{
			Id:            match.Movie.Id,
			SemanticScore: clamp01(match.Score),
			Channels:      core.ChannelSemantic,
			Movie:         *match.Movie,
		})
	}
	return items, nil
}

// lexicalChannel scores keyword overlap against every catalog item's
// title, genres and overview.
func (r *Retriever) lexicalChannel(ctx context.Context, query *core.Query, fetch int) ([]core.CandidateItem, error) {
	if len(query.Tokens) == 0 {
		return nil, nil
	}

	movies, err := r.movies.AllMovies(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]core.CandidateItem, 0, len(movies))
	for _, movie := range movies {
		score := lexicalScore(movie.Title, movie.Genres, movie.Overview, query.Tokens)
		if score <= 0 {
			continue
		}
		items = append(items, core.CandidateItem{
			Id:           movie.Id,
			LexicalScore: score,
			Channels:     core.ChannelLexical,
			Movie:        *movie,
		})
	}

	// Deterministic order: score descending, then id ascending
	slices.SortFunc(items, func(a, b core.CandidateItem) int {
		if a.LexicalScore > b.LexicalScore {
			return -1
		}
		if a.LexicalScore < b.LexicalScore {
			return 1
		}
		if a.Id < b.Id {
			return -1
		}
		if a.Id > b.Id {
			return 1
		}
		return 0
	})

	if len(items) > fetch {
		items = items[:fetch]
	}
	return items, nil
}
