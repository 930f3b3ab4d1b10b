package ingest

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/clarityhealth/medrag/internal/catalog"
	"github.com/clarityhealth/medrag/internal/chunker"
	"github.com/clarityhealth/medrag/internal/loader"
	"github.com/clarityhealth/medrag/internal/tokenizer"
	"github.com/clarityhealth/medrag/internal/vectordb"
)

type mockEmbedder struct {
	dims int
	fail bool
}

func (m *mockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if m.fail {
		return nil, errors.New("mock embedder failure")
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = deterministicVector(text, m.dims)
	}
	return vectors, nil
}

func (m *mockEmbedder) Dimensions() int { return m.dims }
func (m *mockEmbedder) Name() string    { return "mock" }

func deterministicVector(text string, dims int) []float32 {
	vec := make([]float32, dims)
	for i, r := range text {
		vec[i%dims] += float32(r)
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		vec[0] = 1
		return vec
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}

func newTestPipeline(t *testing.T, emb *mockEmbedder) (*Pipeline, vectordb.VectorStore, *catalog.Catalog) {
	t.Helper()

	store, err := vectordb.NewChromemStore(emb, vectordb.Options{})
	if err != nil {
		t.Fatalf("NewChromemStore() error = %v", err)
	}
	cat, err := catalog.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	t.Cleanup(func() { cat.Close() })

	ck := chunker.New(20, 5, tokenizer.WordCounter{})
	p, err := New(Options{
		Chunker:     ck,
		Embedder:    emb,
		Store:       store,
		Catalog:     cat,
		BatchSize:   2,
		Concurrency: 2,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p, store, cat
}

const dischargeText = `MEDICATIONS:
Take aspirin 81 mg daily with food. Take lisinopril 10 mg every morning.
Do not stop any medication without talking to your doctor first.
FOLLOW-UP:
See Dr. Smith in two weeks. Call the clinic if you have questions.
WARNING SIGNS:
Return to the emergency department for chest pain or shortness of breath.`

func TestIngestDocument(t *testing.T) {
	emb := &mockEmbedder{dims: 8}
	p, store, cat := newTestPipeline(t, emb)
	ctx := context.Background()

	doc := loader.Document{
		Content: dischargeText,
		Metadata: loader.DocumentMetadata{
			SourceFile: "discharge.txt",
			DocType:    "discharge_summary",
			PageCount:  1,
		},
	}

	res, err := p.IngestDocument(ctx, doc)
	if err != nil {
		t.Fatalf("IngestDocument() error = %v", err)
	}
	if res.Chunks == 0 {
		t.Fatal("IngestDocument() indexed no chunks")
	}
	if store.Count() != res.Chunks {
		t.Errorf("store.Count() = %d, want %d", store.Count(), res.Chunks)
	}

	wantSections := map[string]bool{"medications": true, "follow-up": true, "warning signs": true}
	for _, s := range res.Sections {
		if !wantSections[s] {
			t.Errorf("unexpected section %q", s)
		}
	}
	if len(res.Sections) != 3 {
		t.Errorf("res.Sections = %v, want 3 sections", res.Sections)
	}

	rec, err := cat.Get(ctx, "discharge.txt")
	if err != nil {
		t.Fatalf("catalog.Get() error = %v", err)
	}
	if rec.ChunkCount != res.Chunks || rec.DocType != "discharge_summary" {
		t.Errorf("catalog record = %+v, want %d chunks of discharge_summary", rec, res.Chunks)
	}
}

func TestIngestDocumentVectorAlignment(t *testing.T) {
	emb := &mockEmbedder{dims: 8}
	p, store, _ := newTestPipeline(t, emb)
	ctx := context.Background()

	doc := loader.Document{
		Content:  dischargeText,
		Metadata: loader.DocumentMetadata{SourceFile: "discharge.txt"},
	}
	if _, err := p.IngestDocument(ctx, doc); err != nil {
		t.Fatalf("IngestDocument() error = %v", err)
	}

	// Querying with a chunk's own embedding must return that exact
	// chunk first. Misordered vectors from the batch workers would
	// break this.
	chunks := chunker.New(20, 5, tokenizer.WordCounter{}).ChunkText(dischargeText, "discharge.txt")
	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}
	for _, ch := range []chunker.Chunk{chunks[0], chunks[len(chunks)-1]} {
		query := deterministicVector(ch.Content, 8)
		results, err := store.Search(ctx, query, 1, nil)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("Search() returned %d results, want 1", len(results))
		}
		if results[0].Entry.ID != ch.ID {
			t.Errorf("top result ID = %s, want %s", results[0].Entry.ID, ch.ID)
		}
	}
}

func TestIngestEmptyDocument(t *testing.T) {
	emb := &mockEmbedder{dims: 8}
	p, store, _ := newTestPipeline(t, emb)

	res, err := p.IngestDocument(context.Background(), loader.Document{
		Metadata: loader.DocumentMetadata{SourceFile: "empty.txt"},
	})
	if err != nil {
		t.Fatalf("IngestDocument() error = %v", err)
	}
	if res.Chunks != 0 {
		t.Errorf("res.Chunks = %d, want 0", res.Chunks)
	}
	if store.Count() != 0 {
		t.Errorf("store.Count() = %d, want 0", store.Count())
	}
}

func TestIngestEmbedderFailureWritesNothing(t *testing.T) {
	emb := &mockEmbedder{dims: 8, fail: true}
	p, store, cat := newTestPipeline(t, emb)
	ctx := context.Background()

	_, err := p.IngestDocument(ctx, loader.Document{
		Content:  dischargeText,
		Metadata: loader.DocumentMetadata{SourceFile: "discharge.txt"},
	})
	if err == nil {
		t.Fatal("IngestDocument() error = nil, want embed failure")
	}
	if store.Count() != 0 {
		t.Errorf("store.Count() = %d, want 0 after failed ingest", store.Count())
	}
	if _, err := cat.Get(ctx, "discharge.txt"); err == nil {
		t.Error("catalog.Get() found a record for a failed ingest")
	}
}

func TestIngestAll(t *testing.T) {
	emb := &mockEmbedder{dims: 8}
	p, store, _ := newTestPipeline(t, emb)

	docs := []loader.Document{
		{Content: dischargeText, Metadata: loader.DocumentMetadata{SourceFile: "a.txt"}},
		{Content: "Walk twice a day. Avoid lifting more than ten pounds.", Metadata: loader.DocumentMetadata{SourceFile: "b.txt"}},
	}
	results, errs := p.IngestAll(context.Background(), docs)
	if len(errs) != 0 {
		t.Fatalf("IngestAll() errors = %v", errs)
	}
	if len(results) != 2 {
		t.Fatalf("IngestAll() returned %d results, want 2", len(results))
	}
	total := results[0].Chunks + results[1].Chunks
	if store.Count() != total {
		t.Errorf("store.Count() = %d, want %d", store.Count(), total)
	}
}

func TestIngestAllCancelled(t *testing.T) {
	emb := &mockEmbedder{dims: 8}
	p, _, _ := newTestPipeline(t, emb)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, errs := p.IngestAll(ctx, []loader.Document{
		{Content: dischargeText, Metadata: loader.DocumentMetadata{SourceFile: "a.txt"}},
	})
	if len(errs) == 0 || !errors.Is(errs[0], context.Canceled) {
		t.Errorf("IngestAll() errors = %v, want context.Canceled", errs)
	}
}
