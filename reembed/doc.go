// Package reembed regenerates the embedding vectors of catalog movies
// with a new or updated embedding model.
//
// It processes the catalog in batches with progress reporting, retries
// embedding calls with exponential backoff, and normalizes vectors to
// unit length.
package reembed
