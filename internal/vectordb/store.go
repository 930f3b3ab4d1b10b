package vectordb

import (
	"context"
	"errors"
)

// ErrCollectionNotFound indicates a query was made against a collection
// that does not exist, which is distinct from an existing but empty one.
var ErrCollectionNotFound = errors.New("collection not found")

// ErrWrite indicates the underlying storage rejected a write. No entries
// from the failed call are queryable.
var ErrWrite = errors.New("vector store write failed")

// VectorStore defines the interface for storing document chunks and
// searching them by embedding similarity.
type VectorStore interface {
	// Add inserts entries and returns the number inserted. Empty input
	// is a no-op returning 0. The call is all-or-nothing: on error,
	// none of its entries are queryable. Re-adding an existing id is
	// implementation-defined; callers generate collision-free ids.
	Add(ctx context.Context, entries []Entry) (int, error)

	// Search returns up to limit entries ordered by descending cosine
	// similarity to the query vector. A filter that matches nothing
	// yields an empty result, not an error.
	Search(ctx context.Context, query []float32, limit int, filter *SearchFilter) ([]SearchResult, error)

	// Count returns the total number of stored entries.
	Count() int

	// Distinct returns the sorted set of values seen for the given
	// metadata field across all entries.
	Distinct(ctx context.Context, field string) ([]string, error)

	// Sections returns the sorted set of distinct section labels.
	Sections(ctx context.Context) ([]string, error)

	// Clear removes all entries. Safe to call on an empty store.
	Clear(ctx context.Context) error
}
