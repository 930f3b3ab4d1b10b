// Package retrieval composes the embedding port and the vector index to
// turn a query string into ranked, scored search results, optionally
// scoped to a section or source document.
package retrieval

import (
	"context"
	"fmt"

	"github.com/clarityhealth/medrag/internal/embeddings"
	"github.com/clarityhealth/medrag/internal/vectordb"
)

// DefaultLimit is the number of results returned when none is requested.
const DefaultLimit = 5

// SearchOptions narrows a search. Empty fields are ignored; setting both
// requires results to match both.
type SearchOptions struct {
	Section    string
	SourceFile string
}

// Retriever answers natural-language queries against the vector index.
type Retriever struct {
	embedder embeddings.Embedder
	store    vectordb.VectorStore
}

// New creates a Retriever. The embedder must be the same model used at
// ingestion time; mixing embedding spaces silently breaks ranking.
func New(embedder embeddings.Embedder, store vectordb.VectorStore) *Retriever {
	return &Retriever{embedder: embedder, store: store}
}

// Search embeds the query, applies any filters, and returns up to limit
// results ranked by descending similarity. Errors from the embedder or
// store surface unchanged; each call re-embeds the query.
func (r *Retriever) Search(ctx context.Context, query string, limit int, opts SearchOptions) ([]vectordb.SearchResult, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	vec, err := embeddings.EmbedOne(ctx, r.embedder, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	return r.store.Search(ctx, vec, limit, buildFilter(opts))
}

// SearchBySection searches within a single section.
func (r *Retriever) SearchBySection(ctx context.Context, query, section string, limit int) ([]vectordb.SearchResult, error) {
	return r.Search(ctx, query, limit, SearchOptions{Section: section})
}

func buildFilter(opts SearchOptions) *vectordb.SearchFilter {
	var filter vectordb.SearchFilter
	set := false
	if opts.Section != "" {
		filter.Section = &opts.Section
		set = true
	}
	if opts.SourceFile != "" {
		filter.SourceFile = &opts.SourceFile
		set = true
	}
	if !set {
		return nil
	}
	return &filter
}
