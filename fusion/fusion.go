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


package fusion

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/cinerag/core"
)

// Weights holds the per-channel fusion weights.
type Weights struct {
	Semantic float32
	Lexical  float32
}

// DefaultWeights is the baseline channel weighting.
var DefaultWeights = Weights{Semantic: 0.7, Lexical: 0.3}

// defaultIntentWeights tunes the channel balance per query intent.
// Similarity queries lean on the embedding space; genre searches carry
// most of their signal in keywords.
var defaultIntentWeights = map[core.Intent]Weights{
	core.IntentSimilarity:  {Semantic: 0.85, Lexical: 0.15},
	core.IntentGenreSearch: {Semantic: 0.55, Lexical: 0.45},
}

// Fuser merges the two retrieval channels into a single deduplicated,
// combined-score ranked candidate list.
type Fuser struct {
	baseWeights   Weights
	intentWeights map[core.Intent]Weights
	logger        *slog.Logger
}

// Option configures a Fuser.
type Option func(*Fuser) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fuser) error {
		if logger == nil {
			logger = slog.Default()
		}
		f.logger = logger
		return nil
	}
}

// WithIntentWeights replaces the per-intent weight table.
// Intents absent from the table use the base weights.
func WithIntentWeights(weights map[core.Intent]Weights) Option {
	return func(f *Fuser) error {
		f.intentWeights = weights
		return nil
	}
}

// WithWeights sets the base channel weights used for intents without
// a tuned entry. The pair is normalized to sum to 1, so callers can
// pass any non-negative ratio.
func WithWeights(weights Weights) Option {
	return func(f *Fuser) error {
		if weights.Semantic < 0 || weights.Lexical < 0 || weights.Semantic+weights.Lexical == 0 {
			return ErrInvalidWeights
		}
		sum := weights.Semantic + weights.Lexical
		f.baseWeights = Weights{
			Semantic: weights.Semantic / sum,
			Lexical:  weights.Lexical / sum,
		}
		return nil
	}
}

// NewFuser creates a new fuser.
func NewFuser(opts ...Option) (*Fuser, error) {
	f := &Fuser{
		baseWeights:   DefaultWeights,
		intentWeights: defaultIntentWeights,
		logger:        slog.Default().With("component", "fusion"),
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// WeightsFor returns the channel weights in effect for an intent.
func (f *Fuser) WeightsFor(intent core.Intent) Weights {
	if w, ok := f.intentWeights[intent]; ok {
		return w
	}
	return f.baseWeights
}

// Fuse unions the channel candidates by item id, applies the query's
// hard metadata filters, computes combined scores, and sorts.
//
// An item present in both channels gets the weighted sum of its
// scores; a single-channel item gets its one score scaled by that
// channel's weight. The combined score is a pure function of the
// channel scores and the weights for the query's intent.
//
// Ordering is deterministic: combined score descending, then
// both-channel presence, then popularity descending, then id
// ascending. No item appears twice.
func (f *Fuser) Fuse(semantic, lexical []core.CandidateItem, query *core.Query) []core.CandidateItem {
	weights := DefaultWeights
	if query != nil {
		weights = f.WeightsFor(query.Intent)
	}

	merged := make(map[core.ID]*core.CandidateItem, len(semantic)+len(lexical))

	for _, item := range semantic {
		copied := item
		merged[item.Id] = &copied
	}
	for _, item := range lexical {
		if existing, ok := merged[item.Id]; ok {
			existing.LexicalScore = item.LexicalScore
			existing.Channels |= core.ChannelLexical
			continue
		}
		copied := item
		merged[item.Id] = &copied
	}

	items := make([]core.CandidateItem, 0, len(merged))
	for _, item := range merged {
		if !passesFilters(item, query) {
			continue
		}
		item.Combined = weights.Semantic*item.SemanticScore + weights.Lexical*item.LexicalScore
		items = append(items, *item)
	}

	slices.SortFunc(items, compareCandidates)

	return items
}

// passesFilters applies the query's hard constraints. Filtered items
// are excluded entirely, never down-ranked.
func passesFilters(item *core.CandidateItem, query *core.Query) bool {
	if query == nil {
		return true
	}

	// Contradictory ranges are kept as written on the Query but are
	// unsatisfiable as a filter, so they do not filter at all.
	if query.Years != nil && !query.Years.Contradictory && item.Movie.Year != 0 {
		if !query.Years.Contains(item.Movie.Year) {
			return false
		}
	}

	if len(query.Genres) > 0 {
		if !hasAnyGenre(item.Movie.Genres, query.Genres) {
			return false
		}
	}

	return true
}

// hasAnyGenre reports whether any wanted genre appears in the movie's
// genre list, ignoring case.
func hasAnyGenre(movieGenres, wanted []string) bool {
	for _, w := range wanted {
		for _, g := range movieGenres {
			if strings.EqualFold(g, w) {
				return true
			}
		}
	}
	return false
}

// compareCandidates orders by combined score descending, both-channel
// presence, popularity descending, then id ascending.
func compareCandidates(a, b core.CandidateItem) int {
	if a.Combined > b.Combined {
		return -1
	}
	if a.Combined < b.Combined {
		return 1
	}

	aBoth := a.Channels.Has(core.ChannelSemantic) && a.Channels.Has(core.ChannelLexical)
	bBoth := b.Channels.Has(core.ChannelSemantic) && b.Channels.Has(core.ChannelLexical)
	if aBoth != bBoth {
		if aBoth {
			return -1
		}
		return 1
	}

	if a.Movie.Popularity > b.Movie.Popularity {
		return -1
	}
	if a.Movie.Popularity < b.Movie.Popularity {
		return 1
	}

	if a.Id < b.Id {
		return -1
	}
	if a.Id > b.Id {
		return 1
	}
	return 0
}
