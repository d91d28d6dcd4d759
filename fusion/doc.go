// Package fusion merges semantic and lexical retrieval candidates
// into one ranked list.
//
// Candidates are unioned by item id, hard-filtered by the query's year
// and genre constraints, scored as a weighted sum of their channel
// scores, and sorted deterministically. Channel weights default to 0.7
// semantic / 0.3 lexical and are tuned per query intent.
package fusion
