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


package optimize

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/cinerag/core"
)

const (
	defaultShortThreshold = 2
	defaultLongThreshold  = 6
	defaultMaxConsecutive = 2
	defaultBoost          = 1.1
	defaultPoolSize       = 8

	// maxItemSignal caps accumulated per-item interaction weight.
	maxItemSignal = 1.0
)

// SearchFunc runs the base pipeline (cache, retrieve, fuse) for a
// possibly rewritten query.
type SearchFunc func(ctx context.Context, query *core.Query) (*core.RankedResult, error)

// Stats summarizes controller activity.
type Stats struct {
	Patterns       int
	Rewrites       uint64
	DroppedSignals uint64
	TrackedItems   int
}

// Controller wraps the base search pipeline with best-effort
// optimizations: profile-driven query rewriting, preference boosts and
// a genre diversity pass. Interaction signals are folded in off the
// request path through a bounded worker pool.
type Controller struct {
	profiles *ProfileStore
	pool     *ants.Pool

	shortThreshold int
	longThreshold  int
	maxConsecutive int
	boost          float32
	poolSize       int

	mu          sync.Mutex
	itemSignals map[core.ID]float32
	rewrites    uint64
	dropped     uint64

	logger *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithProfileStore shares an existing profile store.
func WithProfileStore(profiles *ProfileStore) Option {
	return func(c *Controller) error {
		if profiles != nil {
			c.profiles = profiles
		}
		return nil
	}
}

// WithRewriteThresholds sets the token counts below which queries are
// expanded and at or above which they are simplified.
func WithRewriteThresholds(short, long int) Option {
	return func(c *Controller) error {
		if short >= 1 {
			c.shortThreshold = short
		}
		if long > short {
			c.longThreshold = long
		}
		return nil
	}
}

// WithMaxConsecutiveGenre caps same-primary-genre runs in the output.
func WithMaxConsecutiveGenre(n int) Option {
	return func(c *Controller) error {
		if n >= 1 {
			c.maxConsecutive = n
		}
		return nil
	}
}

// WithPersonalizationBoost sets the multiplicative preference boost.
func WithPersonalizationBoost(factor float32) Option {
	return func(c *Controller) error {
		if factor > 1 {
			c.boost = factor
		}
		return nil
	}
}

// WithPoolSize sets the signal worker pool size.
func WithPoolSize(size int) Option {
	return func(c *Controller) error {
		if size >= 1 {
			c.poolSize = size
		}
		return nil
	}
}

// NewController creates an optimization controller with its own
// profile store and worker pool.
func NewController(opts ...Option) (*Controller, error) {
	c := &Controller{
		profiles:       NewProfileStore(),
		shortThreshold: defaultShortThreshold,
		longThreshold:  defaultLongThreshold,
		maxConsecutive: defaultMaxConsecutive,
		boost:          defaultBoost,
		poolSize:       defaultPoolSize,
		itemSignals:    make(map[core.ID]float32),
		logger:         slog.Default().With("component", "optimize"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	pool, err := ants.NewPool(c.poolSize, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}
	c.pool = pool
	return c, nil
}

// OptimizeAndSearch runs base on the (possibly rewritten) query, then
// applies personalization and the diversity pass to a copy of the
// result. A failing rewritten query falls back to the original; the
// base result is never mutated.
func (c *Controller) OptimizeAndSearch(ctx context.Context, query *core.Query, user *core.UserContext, base SearchFunc) (*core.RankedResult, error) {
	start := time.Now()

	active, rewritten := c.rewrite(query)
	result, err := base(ctx, active)
	if err != nil && rewritten {
		c.logger.Warn("rewritten query failed, retrying original", "query", query.Normalized, "err", err)
		rewritten = false
		result, err = base(ctx, query)
	}
	if err != nil {
		return nil, err
	}

	optimized := *result
	optimized.Items = slices.Clone(result.Items)
	optimized.QueryRewritten = rewritten

	c.personalize(optimized.Items, user)
	optimized.Items = diversify(optimized.Items, c.maxConsecutive)
	optimized.Stage = "optimized"

	c.observeAsync(PatternOf(query), time.Since(start), len(optimized.Items))
	return &optimized, nil
}

// rewrite applies at most one rewriting strategy. Profile suggestions
// take precedence over the length heuristics.
func (c *Controller) rewrite(query *core.Query) (*core.Query, bool) {
	text := query.Normalized
	if text == "" {
		return query, false
	}

	out := text
	suggestions := c.profiles.Suggestions(PatternOf(query))
	switch {
	case slices.Contains(suggestions, "simplify"):
		out = simplifyQuery(text)
	case slices.Contains(suggestions, "expand"):
		out = expandQuery(text)
	case len(query.Tokens) >= c.longThreshold:
		out = simplifyQuery(text)
	case len(query.Tokens) <= c.shortThreshold:
		out = expandQuery(text)
	}
	if out == text {
		return query, false
	}

	c.mu.Lock()
	c.rewrites++
	c.mu.Unlock()

	clone := *query
	clone.Normalized = out
	clone.Tokens = strings.Fields(out)
	clone.Rewritten = true
	c.logger.Debug("rewrote query", "from", text, "to", out)
	return &clone, true
}

// personalize boosts items matching the user's preferred genres or
// years by the bounded factor, then restores score order. The stable
// sort keeps the incoming tie-break order for untouched pairs.
func (c *Controller) personalize(items []core.CandidateItem, user *core.UserContext) {
	if user == nil || (len(user.PreferredGenres) == 0 && user.PreferredYears == nil) {
		return
	}

	boosted := false
	for i := range items {
		if matchesPreferences(&items[i].Movie, user) {
			items[i].Combined *= c.boost
			boosted = true
		}
	}
	if !boosted {
		return
	}

	slices.SortStableFunc(items, func(a, b core.CandidateItem) int {
		return cmp.Compare(b.Combined, a.Combined)
	})
}

func matchesPreferences(movie *core.Movie, user *core.UserContext) bool {
	for _, preferred := range user.PreferredGenres {
		for _, genre := range movie.Genres {
			if strings.EqualFold(preferred, genre) {
				return true
			}
		}
	}
	if user.PreferredYears != nil && movie.Year > 0 && user.PreferredYears.Contains(movie.Year) {
		return true
	}
	return false
}

// RecordInteraction folds the signal in asynchronously. When the pool
// is saturated the signal is logged and dropped rather than blocking
// the caller.
func (c *Controller) RecordInteraction(signal core.InteractionSignal) {
	err := c.pool.Submit(func() {
		c.applySignal(signal)
	})
	if err != nil {
		c.mu.Lock()
		c.dropped++
		c.mu.Unlock()
		c.logger.Warn("dropping interaction signal", "item", signal.ItemId, "err", err)
	}
}

func (c *Controller) applySignal(signal core.InteractionSignal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	weight := c.itemSignals[signal.ItemId] + signal.Action.Weight()
	if weight > maxItemSignal {
		weight = maxItemSignal
	}
	c.itemSignals[signal.ItemId] = weight
}

// ItemSignal returns the accumulated interaction weight for an item.
func (c *Controller) ItemSignal(id core.ID) float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.itemSignals[id]
}

// Profiles exposes the shared profile store.
func (c *Controller) Profiles() *ProfileStore {
	return c.profiles
}

// Stats returns a snapshot of controller counters.
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Patterns:       c.profiles.Len(),
		Rewrites:       c.rewrites,
		DroppedSignals: c.dropped,
		TrackedItems:   len(c.itemSignals),
	}
}

// Close releases the signal worker pool.
func (c *Controller) Close() error {
	c.pool.Release()
	return nil
}

func (c *Controller) observeAsync(pattern string, latency time.Duration, resultCount int) {
	err := c.pool.Submit(func() {
		c.profiles.Observe(pattern, latency, resultCount)
	})
	if err != nil {
		c.logger.Debug("skipping profile update", "pattern", pattern, "err", err)
	}
}
