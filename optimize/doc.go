// Package optimize implements best-effort result optimization around
// the base search pipeline.
//
// The Controller rewrites queries at most once per request (expanding
// terse genre queries, simplifying verbose ones, steered by learned
// per-pattern performance profiles), boosts items matching the user's
// preferences by a bounded factor, and reorders the final list so no
// more than a configured number of consecutive items share a primary
// genre. All of it degrades: a failing rewrite falls back to the
// original query and optimization never fails a request.
//
// Interaction signals feed the profiles through a non-blocking worker
// pool; a saturated pool drops signals instead of delaying responses.
package optimize
