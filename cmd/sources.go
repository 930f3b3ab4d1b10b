package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the ingested source documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		cat, err := openCatalog(cfg)
		if err != nil {
			return fmt.Errorf("opening catalog: %w", err)
		}
		defer cat.Close()

		records, err := cat.List(ctx)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No documents have been ingested.")
			return nil
		}

		for _, rec := range records {
			fmt.Printf("%s\n", rec.SourceFile)
			fmt.Printf("  type: %s, pages: %d, chunks: %d\n", rec.DocType, rec.PageCount, rec.ChunkCount)
			if len(rec.Sections) > 0 {
				fmt.Printf("  sections: %s\n", strings.Join(rec.Sections, ", "))
			}
			fmt.Printf("  ingested: %s\n", rec.IngestedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
