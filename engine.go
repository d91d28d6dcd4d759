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


package cinerag

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/poiesic/cinerag/ai"
	"github.com/poiesic/cinerag/ai/openai"
	"github.com/poiesic/cinerag/cache"
	"github.com/poiesic/cinerag/catalog"
	"github.com/poiesic/cinerag/catalog/badger"
	"github.com/poiesic/cinerag/core"
	"github.com/poiesic/cinerag/fusion"
	"github.com/poiesic/cinerag/optimize"
	"github.com/poiesic/cinerag/query"
	"github.com/poiesic/cinerag/retrieval"
)

// DefaultLimit is used when a caller passes a non-positive limit.
const DefaultLimit = 10

// Engine wires the full pipeline: normalize, cache lookup, dual-channel
// retrieval, fusion, optimization, cache write-through. It owns the
// catalog backend, the cache tiers and the embedding provider.
type Engine struct {
	backend    *badger.Backend
	movies     catalog.MovieRepository
	provider   ai.AIProvider
	normalizer *query.Normalizer
	retriever  *retrieval.Retriever
	fuser      *fusion.Fuser
	cache      *cache.Manager
	controller *optimize.Controller
	flight     singleflight.Group
	logger     *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig         *ai.Config
	provider         ai.AIProvider
	weights          *fusion.Weights
	retrievalTimeout time.Duration
	l1Size           int
	l1TTL            time.Duration
	l2TTL            time.Duration
	sharedCache      bool
	maxConsecutive   int
	shortThreshold   int
	longThreshold    int
}

// WithAIConfig sets the embedding provider configuration.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider injects an existing AI provider instead of building one
// from configuration. The engine takes ownership and closes it.
func WithProvider(provider ai.AIProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithFusionWeights sets the base semantic/lexical channel weights.
func WithFusionWeights(semantic, lexical float32) EngineOption {
	return func(o *engineOptions) {
		o.weights = &fusion.Weights{Semantic: semantic, Lexical: lexical}
	}
}

// WithRetrievalTimeout bounds the dual-channel retrieval wait.
func WithRetrievalTimeout(timeout time.Duration) EngineOption {
	return func(o *engineOptions) {
		if timeout > 0 {
			o.retrievalTimeout = timeout
		}
	}
}

// WithL1Cache sets the in-process cache tier's entry bound and max age.
func WithL1Cache(size int, ttl time.Duration) EngineOption {
	return func(o *engineOptions) {
		o.l1Size = size
		o.l1TTL = ttl
	}
}

// WithL2TTL sets the shared cache tier's entry TTL.
func WithL2TTL(ttl time.Duration) EngineOption {
	return func(o *engineOptions) {
		if ttl > 0 {
			o.l2TTL = ttl
		}
	}
}

// WithoutSharedCache disables the L2 tier; results are cached
// in-process only.
func WithoutSharedCache() EngineOption {
	return func(o *engineOptions) {
		o.sharedCache = false
	}
}

// WithDiversityMaxConsecutive caps same-primary-genre runs in results.
func WithDiversityMaxConsecutive(n int) EngineOption {
	return func(o *engineOptions) {
		if n >= 1 {
			o.maxConsecutive = n
		}
	}
}

// WithRewriteThresholds sets the token counts that trigger query
// expansion and simplification.
func WithRewriteThresholds(short, long int) EngineOption {
	return func(o *engineOptions) {
		o.shortThreshold = short
		o.longThreshold = long
	}
}

// NewEngine opens an engine rooted at filePath. An empty filePath runs
// everything in memory, which is what the tests use.
func NewEngine(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig:    ai.DefaultConfig(),
		sharedCache: true,
	}
	for _, opt := range opts {
		opt(options)
	}

	inMemory := filePath == ""
	catalogPath := ""
	cachePath := ""
	if !inMemory {
		catalogPath = filepath.Join(filePath, "catalog")
		cachePath = filepath.Join(filePath, "cache")
	}

	backend, err := badger.OpenBackend(catalogPath, inMemory)
	if err != nil {
		return nil, err
	}

	movies, err := badger.NewMovieRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	var retrieverOpts []retrieval.Option
	if options.retrievalTimeout > 0 {
		retrieverOpts = append(retrieverOpts, retrieval.WithTimeout(options.retrievalTimeout))
	}
	retriever, err := retrieval.NewRetriever(movies, provider, retrieverOpts...)
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	var fuserOpts []fusion.Option
	if options.weights != nil {
		fuserOpts = append(fuserOpts, fusion.WithWeights(*options.weights))
	}
	fuser, err := fusion.NewFuser(fuserOpts...)
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	cacheOpts := []cache.Option{}
	if options.l1Size > 0 || options.l1TTL > 0 {
		cacheOpts = append(cacheOpts, cache.WithL1(options.l1Size, options.l1TTL))
	}
	if options.sharedCache {
		store, err := cache.NewBadgerStore(cachePath, inMemory)
		if err != nil {
			provider.Close()
			backend.Close()
			return nil, err
		}
		cacheOpts = append(cacheOpts, cache.WithShared(store, options.l2TTL))
	}
	resultCache, err := cache.NewManager(cacheOpts...)
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	var controllerOpts []optimize.Option
	if options.maxConsecutive > 0 {
		controllerOpts = append(controllerOpts, optimize.WithMaxConsecutiveGenre(options.maxConsecutive))
	}
	if options.shortThreshold > 0 && options.longThreshold > 0 {
		controllerOpts = append(controllerOpts, optimize.WithRewriteThresholds(options.shortThreshold, options.longThreshold))
	}
	controller, err := optimize.NewController(controllerOpts...)
	if err != nil {
		resultCache.Close()
		provider.Close()
		backend.Close()
		return nil, err
	}

	normalizer, err := query.NewNormalizer()
	if err != nil {
		controller.Close()
		resultCache.Close()
		provider.Close()
		backend.Close()
		return nil, err
	}

	return &Engine{
		backend:    backend,
		movies:     movies,
		provider:   provider,
		normalizer: normalizer,
		retriever:  retriever,
		fuser:      fuser,
		cache:      resultCache,
		controller: controller,
		logger:     slog.Default().With("component", "engine"),
	}, nil
}

// SearchOption adjusts a single Search call.
type SearchOption func(*searchOptions)

type searchOptions struct {
	genres []string
	years  *core.YearRange
	user   *core.UserContext
}

// WithFilters overrides the genre and year filters extracted from the
// query text. Pass nil to leave a filter as extracted.
func WithFilters(genres []string, years *core.YearRange) SearchOption {
	return func(o *searchOptions) {
		o.genres = genres
		o.years = years
	}
}

// WithUserContext enables personalization for the call.
func WithUserContext(user *core.UserContext) SearchOption {
	return func(o *searchOptions) {
		o.user = user
	}
}

// Search is the single entry point: it normalizes rawQuery, runs the
// cached dual-channel pipeline under the optimization controller and
// returns a ranked result. An empty query returns
// core.ErrInvalidQuery; when both retrieval channels fail the error
// wraps retrieval.ErrRetrievalUnavailable. Everything in between
// degrades to a valid, possibly partial, result.
func (e *Engine) Search(ctx context.Context, rawQuery string, limit int, opts ...SearchOption) (*core.RankedResult, error) {
	start := time.Now()
	if limit <= 0 {
		limit = DefaultLimit
	}

	options := &searchOptions{}
	for _, opt := range opts {
		opt(options)
	}

	q, err := e.normalizer.Normalize(rawQuery)
	if err != nil {
		return nil, err
	}
	if options.genres != nil {
		q.Genres = options.genres
	}
	if options.years != nil {
		q.Years = options.years
	}

	bucket := cache.PersonalizationBucket(options.user)
	result, err := e.controller.OptimizeAndSearch(ctx, q, options.user, func(ctx context.Context, active *core.Query) (*core.RankedResult, error) {
		return e.baseSearch(ctx, active, limit, bucket)
	})
	if err != nil {
		return nil, err
	}

	result.Elapsed = time.Since(start)
	e.logger.Debug("search complete",
		"query", q.Normalized,
		"results", len(result.Items),
		"cache", result.CacheStatus.String(),
		"elapsed", result.Elapsed)
	return result, nil
}

// baseSearch is the cache-then-retrieve-then-fuse pipeline. Concurrent
// misses for the same key are collapsed into one retrieval.
func (e *Engine) baseSearch(ctx context.Context, q *core.Query, limit int, bucket string) (*core.RankedResult, error) {
	key := cache.Key(q, bucket)

	if cached, status := e.cache.Get(key); cached != nil {
		return resultCopy(cached, status), nil
	}

	v, err, _ := e.flight.Do(key, func() (interface{}, error) {
		if cached, status := e.cache.Get(key); cached != nil {
			return resultCopy(cached, status), nil
		}

		channels, err := e.retriever.Retrieve(ctx, q, limit)
		if err != nil {
			return nil, err
		}

		items := e.fuser.Fuse(channels.Semantic, channels.Lexical, q)
		if len(items) > limit {
			items = items[:limit]
		}

		result := &core.RankedResult{
			Items:       items,
			Stage:       "fused",
			CacheStatus: core.CacheMiss,
		}
		e.cache.Put(key, result)
		return result, nil
	})
	if err != nil {
		return nil, err
	}

	return resultCopy(v.(*core.RankedResult), v.(*core.RankedResult).CacheStatus), nil
}

// Similar returns the catalog neighbors of a movie by its stored
// vector, excluding the movie itself.
func (e *Engine) Similar(ctx context.Context, id core.ID, limit int) (*core.RankedResult, error) {
	start := time.Now()
	if limit <= 0 {
		limit = DefaultLimit
	}

	movie, err := e.movies.GetMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(movie.Vector) == 0 {
		return nil, fmt.Errorf("movie %d has no vector", id)
	}

	scored, err := e.movies.FindSimilar(ctx, movie.Vector, 0, limit+1)
	if err != nil {
		return nil, err
	}

	items := make([]core.CandidateItem, 0, limit)
	for _, s := range scored {
		if s.Movie.Id == id {
			continue
		}
		items = append(items, core.CandidateItem{
			Id:            s.Movie.Id,
			SemanticScore: s.Score,
			Combined:      s.Score,
			Channels:      core.ChannelSemantic,
			Movie:         *s.Movie,
		})
		if len(items) == limit {
			break
		}
	}

	return &core.RankedResult{
		Items:       items,
		Stage:       "similar",
		CacheStatus: core.CacheMiss,
		Elapsed:     time.Since(start),
	}, nil
}

// RecordInteraction feeds a user interaction into the optimization
// profiles. It never blocks the caller.
func (e *Engine) RecordInteraction(signal core.InteractionSignal) {
	e.controller.RecordInteraction(signal)
}

// WarmCache runs the given queries through the pipeline so their
// results are cached. Individual failures are logged and skipped.
func (e *Engine) WarmCache(ctx context.Context, queries []string) int {
	warmed := 0
	for _, raw := range queries {
		if _, err := e.Search(ctx, raw, DefaultLimit); err != nil {
			e.logger.Warn("cache warm query failed", "query", raw, "err", err)
			continue
		}
		warmed++
	}
	return warmed
}

// InvalidateItem drops every cached result referencing the movie.
// Call it after catalog updates or deletes.
func (e *Engine) InvalidateItem(id core.ID) {
	e.cache.InvalidateItem(id)
}

// EngineStats aggregates the counters of the engine's subsystems.
type EngineStats struct {
	Movies    int
	Cache     cache.Stats
	Optimizer optimize.Stats
}

// Stats returns a snapshot of catalog size, cache and optimizer
// counters.
func (e *Engine) Stats(ctx context.Context) (EngineStats, error) {
	count, err := e.movies.CountMovies(ctx)
	if err != nil {
		return EngineStats{}, err
	}
	return EngineStats{
		Movies:    count,
		Cache:     e.cache.Stats(),
		Optimizer: e.controller.Stats(),
	}, nil
}

// MovieRepository exposes the catalog for seeding and maintenance.
func (e *Engine) MovieRepository() catalog.MovieRepository {
	return e.movies
}

// Embedder exposes the embedding service, used when seeding to embed
// catalog records with the same model that embeds queries.
func (e *Engine) Embedder() ai.Embedder {
	return e.provider.Embedder()
}

// Close shuts the engine down. The cache and provider are closed
// first; repository and backend errors are returned.
func (e *Engine) Close() error {
	if err := e.controller.Close(); err != nil {
		e.logger.Error("error closing optimization controller", "err", err)
	}
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}
	if err := e.cache.Close(); err != nil {
		e.logger.Error("error closing result cache", "err", err)
	}
	if err := e.movies.Close(); err != nil {
		e.logger.Error("error closing movie repository", "err", err)
		return err
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func resultCopy(result *core.RankedResult, status core.CacheStatus) *core.RankedResult {
	out := *result
	out.Items = slices.Clone(result.Items)
	out.CacheStatus = status
	return &out
}
