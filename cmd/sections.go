package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clarityhealth/medrag/internal/vectordb"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List the document sections present in the index",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

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

		sections, err := store.Sections(ctx)
		if err != nil {
			if errors.Is(err, vectordb.ErrCollectionNotFound) {
				return fmt.Errorf("no index found: run `medrag ingest` first")
			}
			return err
		}

		if len(sections) == 0 {
			fmt.Println("The index is empty.")
			return nil
		}
		for _, s := range sections {
			fmt.Println(s)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sectionsCmd)
}
