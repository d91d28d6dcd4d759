// Package query normalizes raw user text into structured queries.
//
// The Normalizer lowercases and Unicode-folds input, strips search
// framing phrases, extracts year constraints, expands genre synonyms,
// corrects known misspellings, removes stop words, and classifies
// intent with keyword heuristics. All transformation tables are data
// and can be swapped per instance via options.
//
// Normalization is deterministic and side-effect free. The only input
// it rejects is an empty or whitespace-only string.
package query
