package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clarityhealth/medrag/internal/ingest"
	"github.com/clarityhealth/medrag/internal/loader"
	"github.com/clarityhealth/medrag/internal/progress"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Chunk, embed, and index documents from a file or directory",
	Long: `Reads plain-text medical documents, splits them into section-aware
chunks, embeds each chunk, and writes the result to the local vector
index. Pass a single file or a directory; directories are walked using
the include/exclude patterns from the config.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	path := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	store, err := createStore(cfg, embedder)
	if err != nil {
		return err
	}

	cat, err := openCatalog(cfg)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer cat.Close()

	docs, err := loadDocuments(path, cfg.Include, cfg.Exclude)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Println("No documents found to ingest.")
		return nil
	}

	pipeline, err := ingest.New(ingest.Options{
		Chunker:     createChunker(cfg),
		Embedder:    embedder,
		Store:       store,
		Catalog:     cat,
		Reporter:    progress.NewReporter(),
		BatchSize:   cfg.BatchSize,
		Concurrency: cfg.MaxConcurrency,
	})
	if err != nil {
		return err
	}

	results, errs := pipeline.IngestAll(ctx, docs)

	for _, res := range results {
		fmt.Printf("  %s: %d chunks", res.SourceFile, res.Chunks)
		if res.DocType != "" {
			fmt.Printf(" (%s)", res.DocType)
		}
		if len(res.Sections) > 0 {
			fmt.Printf(", sections: %s", strings.Join(res.Sections, ", "))
		}
		fmt.Println()
	}
	fmt.Printf("\nIngested %d document(s), %d chunk(s) total.\n", len(results), totalChunks(results))

	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "Error: %v\n", e)
		}
		return fmt.Errorf("%d document(s) failed to ingest", len(errs))
	}
	return nil
}

// loadDocuments loads a single file or every matching file in a directory.
func loadDocuments(path string, include, exclude []string) ([]loader.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		doc, err := loader.Load(path)
		if err != nil {
			return nil, err
		}
		return []loader.Document{doc}, nil
	}

	return loader.LoadDirectory(path, include, exclude, func(p string, err error) {
		fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", p, err)
	})
}

func totalChunks(results []ingest.Result) int {
	total := 0
	for _, res := range results {
		total += res.Chunks
	}
	return total
}
