package vectordb

import (
	"context"
	"fmt"
	"sort"

	chromem "github.com/philippgille/chromem-go"

	"github.com/clarityhealth/medrag/internal/embeddings"
)

// DefaultCollection is the collection name used when none is configured.
const DefaultCollection = "patient_docs"

// Options configures a ChromemStore.
type Options struct {
	// Collection names the chromem collection. Defaults to DefaultCollection.
	Collection string
	// PersistDir, when set, makes the store durable across restarts.
	// Empty means in-memory.
	PersistDir string
	// Compress enables gzip compression of persisted data.
	Compress bool
}

// ChromemStore implements VectorStore using chromem-go. Similarity is
// always cosine; the ranking contract depends on the metric staying fixed.
type ChromemStore struct {
	db        *chromem.DB
	name      string
	embedFunc chromem.EmbeddingFunc
	dims      int
}

// NewChromemStore creates a store and its collection, creating the
// collection if it does not exist yet.
func NewChromemStore(embedder embeddings.Embedder, opts Options) (*ChromemStore, error) {
	s, err := newChromemStore(embedder, opts)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.GetOrCreateCollection(s.name, collectionMetadata(), s.embedFunc); err != nil {
		return nil, fmt.Errorf("create collection %q: %w", s.name, err)
	}
	return s, nil
}

// OpenChromemStore opens a store over an existing collection without
// creating one. Operations against a collection that was never created
// return ErrCollectionNotFound, so callers can tell "no data" from
// "never ingested".
func OpenChromemStore(embedder embeddings.Embedder, opts Options) (*ChromemStore, error) {
	return newChromemStore(embedder, opts)
}

func newChromemStore(embedder embeddings.Embedder, opts Options) (*ChromemStore, error) {
	name := opts.Collection
	if name == "" {
		name = DefaultCollection
	}

	var db *chromem.DB
	var err error
	if opts.PersistDir != "" {
		db, err = chromem.NewPersistentDB(opts.PersistDir, opts.Compress)
		if err != nil {
			return nil, fmt.Errorf("open persistent vector db at %s: %w", opts.PersistDir, err)
		}
	} else {
		db = chromem.NewDB()
	}

	return &ChromemStore{
		db:        db,
		name:      name,
		embedFunc: embeddings.ToChromemFunc(embedder),
		dims:      embedder.Dimensions(),
	}, nil
}

func collectionMetadata() map[string]string {
	return map[string]string{"hnsw:space": "cosine"}
}

func (s *ChromemStore) collection() (*chromem.Collection, error) {
	col := s.db.GetCollection(s.name, s.embedFunc)
	if col == nil {
		return nil, fmt.Errorf("collection %q: %w", s.name, ErrCollectionNotFound)
	}
	return col, nil
}

func (s *ChromemStore) Add(ctx context.Context, entries []Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	col, err := s.collection()
	if err != nil {
		return 0, err
	}

	docs := make([]chromem.Document, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			return 0, fmt.Errorf("%w: entry %d has an empty id", ErrWrite, i)
		}
		if e.Content == "" {
			return 0, fmt.Errorf("%w: entry %q has empty content", ErrWrite, e.ID)
		}
		if len(e.Embedding) == 0 {
			return 0, fmt.Errorf("%w: entry %q has no embedding", ErrWrite, e.ID)
		}
		if s.dims > 0 && len(e.Embedding) != s.dims {
			return 0, fmt.Errorf("%w: entry %q embedding has %d dimensions, want %d",
				ErrWrite, e.ID, len(e.Embedding), s.dims)
		}
		docs[i] = chromem.Document{
			ID:        e.ID,
			Content:   e.Content,
			Embedding: e.Embedding,
			Metadata:  metadataToMap(e.Metadata),
		}
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	// Every entry is validated and carries a precomputed embedding, so
	// the insert below cannot fail midway; detaching cancellation keeps
	// the call all-or-nothing once it starts.
	if err := col.AddDocuments(context.WithoutCancel(ctx), docs, 1); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return len(docs), nil
}

func (s *ChromemStore) Search(ctx context.Context, query []float32, limit int, filter *SearchFilter) ([]SearchResult, error) {
	col, err := s.collection()
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 5
	}

	// chromem-go requires nResults <= collection size.
	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	results, err := col.QueryEmbedding(ctx, query, limit, buildWhereClause(filter), nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	searchResults := make([]SearchResult, len(results))
	for i, r := range results {
		searchResults[i] = SearchResult{
			Entry: Entry{
				ID:       r.ID,
				Content:  r.Content,
				Metadata: mapToMetadata(r.Metadata),
			},
			Score: r.Similarity,
		}
	}
	return searchResults, nil
}

func (s *ChromemStore) Count() int {
	col := s.db.GetCollection(s.name, s.embedFunc)
	if col == nil {
		return 0
	}
	return col.Count()
}

func (s *ChromemStore) Distinct(ctx context.Context, field string) ([]string, error) {
	results, err := s.allResults(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, r := range results {
		if v, ok := r.Metadata[field]; ok && v != "" {
			seen[v] = struct{}{}
		}
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}

func (s *ChromemStore) Sections(ctx context.Context) ([]string, error) {
	return s.Distinct(ctx, FieldSection)
}

// allResults retrieves every stored entry. chromem-go has no enumeration
// API, so this queries with a unit basis vector and the collection size as
// the limit, which returns all documents regardless of their score.
func (s *ChromemStore) allResults(ctx context.Context) ([]chromem.Result, error) {
	col, err := s.collection()
	if err != nil {
		return nil, err
	}

	count := col.Count()
	if count == 0 {
		return nil, nil
	}

	probe := make([]float32, s.dims)
	if len(probe) == 0 {
		probe = make([]float32, 1)
	}
	probe[0] = 1

	results, err := col.QueryEmbedding(ctx, probe, count, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem scan: %w", err)
	}
	return results, nil
}

// Clear drops and recreates the collection, removing all entries. After
// Clear the collection exists and behaves as freshly created: Count is 0
// and searches return empty results rather than ErrCollectionNotFound.
func (s *ChromemStore) Clear(ctx context.Context) error {
	if err := s.db.DeleteCollection(s.name); err != nil {
		return fmt.Errorf("delete collection %q: %w", s.name, err)
	}
	if _, err := s.db.GetOrCreateCollection(s.name, collectionMetadata(), s.embedFunc); err != nil {
		return fmt.Errorf("recreate collection %q: %w", s.name, err)
	}
	return nil
}
