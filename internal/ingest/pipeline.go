package ingest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/clarityhealth/medrag/internal/catalog"
	"github.com/clarityhealth/medrag/internal/chunker"
	"github.com/clarityhealth/medrag/internal/embeddings"
	"github.com/clarityhealth/medrag/internal/loader"
	"github.com/clarityhealth/medrag/internal/progress"
	"github.com/clarityhealth/medrag/internal/vectordb"
)

// DefaultBatchSize is how many chunks are embedded per API call.
const DefaultBatchSize = 32

// Pipeline turns loaded documents into indexed, searchable chunks.
type Pipeline struct {
	chunker     *chunker.Chunker
	embedder    embeddings.Embedder
	store       vectordb.VectorStore
	catalog     *catalog.Catalog
	reporter    progress.Reporter
	batchSize   int
	concurrency int
}

// Options configures a Pipeline. Catalog and Reporter may be nil.
type Options struct {
	Chunker     *chunker.Chunker
	Embedder    embeddings.Embedder
	Store       vectordb.VectorStore
	Catalog     *catalog.Catalog
	Reporter    progress.Reporter
	BatchSize   int
	Concurrency int
}

// New creates a Pipeline.
func New(opts Options) (*Pipeline, error) {
	if opts.Chunker == nil || opts.Embedder == nil || opts.Store == nil {
		return nil, fmt.Errorf("ingest pipeline requires a chunker, an embedder, and a store")
	}
	if opts.BatchSize < 1 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Reporter == nil {
		opts.Reporter = progress.NopReporter{}
	}
	return &Pipeline{
		chunker:     opts.Chunker,
		embedder:    opts.Embedder,
		store:       opts.Store,
		catalog:     opts.Catalog,
		reporter:    opts.Reporter,
		batchSize:   opts.BatchSize,
		concurrency: opts.Concurrency,
	}, nil
}

// Result summarizes the ingestion of one document.
type Result struct {
	SourceFile string
	DocType    string
	Chunks     int
	Sections   []string
}

// IngestDocument chunks, embeds, and indexes a single document. Either
// every chunk of the document is written to the store or none are.
func (p *Pipeline) IngestDocument(ctx context.Context, doc loader.Document) (*Result, error) {
	source := doc.Metadata.SourceFile
	docType := string(doc.Metadata.DocType)
	chunks := p.chunker.ChunkText(doc.Content, source)
	if len(chunks) == 0 {
		return &Result{SourceFile: source, DocType: docType}, nil
	}

	vectors, err := p.embedChunks(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embedding %s: %w", source, err)
	}

	entries := make([]vectordb.Entry, len(chunks))
	for i, ch := range chunks {
		entries[i] = vectordb.Entry{
			ID:        ch.ID,
			Content:   ch.Content,
			Embedding: vectors[i],
			Metadata: vectordb.Metadata{
				SourceFile: ch.SourceFile,
				Section:    ch.Section,
				ChunkIndex: ch.Index,
				TokenCount: ch.TokenCount,
				DocType:    docType,
			},
		}
	}

	added, err := p.store.Add(ctx, entries)
	if err != nil {
		return nil, fmt.Errorf("indexing %s: %w", source, err)
	}

	sections := sectionsOf(chunks)
	if p.catalog != nil {
		rec := catalog.Record{
			SourceFile: source,
			DocType:    docType,
			PageCount:  doc.Metadata.PageCount,
			ChunkCount: added,
			Sections:   sections,
			IngestedAt: time.Now().UTC(),
		}
		if err := p.catalog.Put(ctx, rec); err != nil {
			return nil, fmt.Errorf("recording %s: %w", source, err)
		}
	}

	return &Result{
		SourceFile: source,
		DocType:    docType,
		Chunks:     added,
		Sections:   sections,
	}, nil
}

// IngestAll ingests documents one after another, reporting progress
// across the combined chunk count. Documents that fail are reported
// through the returned errors; the rest are still ingested.
func (p *Pipeline) IngestAll(ctx context.Context, docs []loader.Document) ([]Result, []error) {
	var results []Result
	var errs []error
	for _, doc := range docs {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		res, err := p.IngestDocument(ctx, doc)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, *res)
	}
	return results, errs
}

// embedChunks embeds all chunks in batches, running up to concurrency
// batches in parallel. Each batch writes into its own slice range so
// vector order matches chunk order.
func (p *Pipeline) embedChunks(ctx context.Context, chunks []chunker.Chunk) ([][]float32, error) {
	total := len(chunks)
	vectors := make([][]float32, total)

	p.reporter.Start(total)
	defer p.reporter.Finish()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, p.concurrency)
	var mu sync.Mutex
	var firstErr error
	var processed int64

	var wg sync.WaitGroup
	for start := 0; start < total; start += p.batchSize {
		end := start + p.batchSize
		if end > total {
			end = total
		}

		select {
		case <-ctx.Done():
			mu.Lock()
			if firstErr == nil {
				firstErr = ctx.Err()
			}
			mu.Unlock()
		case sem <- struct{}{}:
			wg.Add(1)
			go func(start, end int) {
				defer wg.Done()
				defer func() { <-sem }()

				texts := make([]string, end-start)
				for i := start; i < end; i++ {
					texts[i-start] = chunks[i].Content
				}

				batch, err := p.embedder.Embed(ctx, texts)
				if err == nil && len(batch) != len(texts) {
					err = fmt.Errorf("embedder returned %d vectors for %d texts", len(batch), len(texts))
				}
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					cancel()
					return
				}
				for i, vec := range batch {
					vectors[start+i] = vec
				}

				count := atomic.AddInt64(&processed, int64(end-start))
				p.reporter.Update(int(count), chunks[start].SourceFile)
			}(start, end)
		}

		mu.Lock()
		failed := firstErr != nil
		mu.Unlock()
		if failed {
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return vectors, nil
}

func sectionsOf(chunks []chunker.Chunk) []string {
	seen := make(map[string]bool)
	var sections []string
	for _, ch := range chunks {
		if ch.Section == "" || seen[ch.Section] {
			continue
		}
		seen[ch.Section] = true
		sections = append(sections, ch.Section)
	}
	return sections
}
