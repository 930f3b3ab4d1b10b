package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clarityhealth/medrag/internal/retrieval"
	"github.com/clarityhealth/medrag/internal/vectordb"
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question against the indexed documents",
	Long:  `Embeds the question and returns the most relevant chunks from the vector index, optionally restricted to a section or source file.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().Int("limit", retrieval.DefaultLimit, "maximum number of results")
	queryCmd.Flags().String("section", "", "restrict results to a section (e.g. medications)")
	queryCmd.Flags().String("source", "", "restrict results to a source file")
	queryCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	question := args[0]

	limit, _ := cmd.Flags().GetInt("limit")
	section, _ := cmd.Flags().GetString("section")
	source, _ := cmd.Flags().GetString("source")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	store, err := openStore(cfg, embedder)
	if err != nil {
		return err
	}

	retriever := retrieval.New(embedder, store)
	results, err := retriever.Search(ctx, question, limit, retrieval.SearchOptions{
		Section:    section,
		SourceFile: source,
	})
	if err != nil {
		if errors.Is(err, vectordb.ErrCollectionNotFound) {
			return fmt.Errorf("no index found: run `medrag ingest` first")
		}
		return fmt.Errorf("search failed: %w", err)
	}

	if jsonOutput {
		return printResultsJSON(results)
	}
	fmt.Println(vectordb.FormatResults(results))
	return nil
}

type queryResultJSON struct {
	Rank       int     `json:"rank"`
	Score      float64 `json:"score"`
	SourceFile string  `json:"source_file"`
	Section    string  `json:"section,omitempty"`
	ChunkIndex int     `json:"chunk_index"`
	Content    string  `json:"content"`
}

func printResultsJSON(results []vectordb.SearchResult) error {
	out := []queryResultJSON{}
	for i, r := range results {
		out = append(out, queryResultJSON{
			Rank:       i + 1,
			Score:      float64(r.Score),
			SourceFile: r.Entry.Metadata.SourceFile,
			Section:    r.Entry.Metadata.Section,
			ChunkIndex: r.Entry.Metadata.ChunkIndex,
			Content:    r.Entry.Content,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
