// Package cache provides the two-tier result cache for search responses.
//
// Tier one is a bounded in-process LRU with per-entry expiry. Tier two
// is an optional shared store (Badger-backed) whose entries carry their
// own TTL, so restarts and sibling processes can reuse warm results.
// Reads go L1 then L2, with L2 hits promoted into L1. Writes go through
// both tiers; a failing shared tier is logged and the cache degrades to
// L1-only.
//
// Keys are derived from the normalized query, its extracted filters and
// an optional personalization bucket, so two phrasings that normalize
// to the same query share an entry while personalized results stay
// separate. See Key and PersonalizationBucket.
package cache
