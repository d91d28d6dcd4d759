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


package query

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/poiesic/cinerag/core"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer turns raw user text into a structured core.Query.
// It is a pure function of the input text and its tables: the same
// input always produces the same Query, with no side effects.
type Normalizer struct {
	synonyms      map[string]string
	spellings     map[string]string
	stopWords     map[string]bool
	preserveWords map[string]bool
	logger        *slog.Logger
}

// Option is a functional option for configuring a Normalizer.
type Option func(*Normalizer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(n *Normalizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		n.logger = logger
		return nil
	}
}

// WithSynonyms replaces the synonym expansion table.
func WithSynonyms(synonyms map[string]string) Option {
	return func(n *Normalizer) error {
		n.synonyms = synonyms
		return nil
	}
}

// WithSpellings replaces the spelling correction table.
func WithSpellings(spellings map[string]string) Option {
	return func(n *Normalizer) error {
		n.spellings = spellings
		return nil
	}
}

// WithStopWords replaces the stop word table.
func WithStopWords(stopWords map[string]bool) Option {
	return func(n *Normalizer) error {
		n.stopWords = stopWords
		return nil
	}
}

// NewNormalizer creates a Normalizer with the default tables and
// applies the provided options.
func NewNormalizer(opts ...Option) (*Normalizer, error) {
	n := &Normalizer{
		synonyms:      defaultSynonyms,
		spellings:     defaultSpellings,
		stopWords:     defaultStopWords,
		preserveWords: defaultPreserveWords,
		logger:        slog.Default().With("component", "query-normalizer"),
	}
	for _, opt := range opts {
		if err := opt(n); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// Normalize processes raw user text into a core.Query.
//
// The pipeline runs in a fixed order: text cleanup, intent
// classification, framing-phrase removal, year extraction, term
// normalization, synonym expansion, spelling correction, stop-word
// removal. Intent is classified before framing phrases are stripped so
// similarity cues like "movies like" are still visible.
//
// Returns core.ErrInvalidQuery only when the input is empty or
// whitespace-only. All other inputs degrade to a best-effort Query.
func (n *Normalizer) Normalize(raw string) (*core.Query, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, core.ErrInvalidQuery
	}

	cleaned := cleanText(raw)

	intent, confidence := classifyIntent(cleaned)

	text := stripSearchPhrases(cleaned)
	text, years := extractYears(text)
	text = applyNormalizations(text)
	text = n.expandSynonyms(text)
	text = n.correctSpelling(text)

	filtered := n.removeStopWords(text)
	// Never normalize down to nothing: if stop-word removal consumed
	// every token, keep the pre-filter text.
	if filtered != "" {
		text = filtered
	}

	if text == "" {
		text = cleaned
	}

	q := &core.Query{
		Raw:        raw,
		Normalized: text,
		Tokens:     strings.Fields(text),
		Intent:     intent,
		Confidence: confidence,
		Years:      years,
		Genres:     extractGenres(text),
	}

	n.logger.Debug("normalized query",
		"raw", raw,
		"normalized", q.Normalized,
		"intent", q.Intent.String(),
	)

	return q, nil
}

var (
	nonWordRe     = regexp.MustCompile(`[^\w\s'-]`)
	possessiveRe  = regexp.MustCompile(`'s\b`)
	notRe         = regexp.MustCompile(`n't\b`)
	areRe         = regexp.MustCompile(`'re\b`)
	willRe        = regexp.MustCompile(`'ll\b`)
	haveRe        = regexp.MustCompile(`'ve\b`)
	wouldRe       = regexp.MustCompile(`'d\b`)
	nfkdTransform = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// cleanText lowercases, folds Unicode to its compatibility form,
// expands contractions and strips punctuation except hyphens.
func cleanText(s string) string {
	if folded, _, err := transform.String(nfkdTransform, s); err == nil {
		s = folded
	}

	s = strings.ToLower(strings.TrimSpace(s))
	s = collapseSpaces(s)
	s = nonWordRe.ReplaceAllString(s, " ")

	s = possessiveRe.ReplaceAllString(s, "")
	s = notRe.ReplaceAllString(s, " not")
	s = areRe.ReplaceAllString(s, " are")
	s = willRe.ReplaceAllString(s, " will")
	s = haveRe.ReplaceAllString(s, " have")
	s = wouldRe.ReplaceAllString(s, " would")

	return collapseSpaces(s)
}

// stripSearchPhrases removes framing artifacts like "find me" and
// "movies like" that carry no content.
func stripSearchPhrases(s string) string {
	for _, phrase := range stripPhrases {
		s = strings.ReplaceAll(s, phrase, "")
	}
	return collapseSpaces(s)
}

// applyNormalizations folds term variants into canonical vocabulary.
func applyNormalizations(s string) string {
	for _, rule := range defaultNormalizations {
		s = replaceWord(s, rule.from, rule.to)
	}
	return collapseSpaces(s)
}

// expandSynonyms replaces each token found in the synonym table with
// its expansion.
func (n *Normalizer) expandSynonyms(s string) string {
	words := strings.Fields(s)
	expanded := make([]string, 0, len(words))
	for _, word := range words {
		if exp, ok := n.synonyms[word]; ok {
			expanded = append(expanded, strings.Fields(exp)...)
		} else {
			expanded = append(expanded, word)
		}
	}
	return strings.Join(expanded, " ")
}

// correctSpelling fixes tokens found in the misspelling table.
// Unknown tokens pass through untouched.
func (n *Normalizer) correctSpelling(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		if fixed, ok := n.spellings[word]; ok {
			words[i] = fixed
		}
	}
	return strings.Join(words, " ")
}

// removeStopWords drops stop words while keeping movie-domain terms.
func (n *Normalizer) removeStopWords(s string) string {
	words := strings.Fields(s)
	kept := make([]string, 0, len(words))
	for _, word := range words {
		if n.preserveWords[word] || !n.stopWords[word] {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}

// replaceWord substitutes whole-word occurrences of from with to.
func replaceWord(s, from, to string) string {
	words := strings.Fields(s)
	out := make([]string, 0, len(words))
	for _, word := range words {
		if word == from {
			out = append(out, strings.Fields(to)...)
		} else {
			out = append(out, word)
		}
	}
	return strings.Join(out, " ")
}
