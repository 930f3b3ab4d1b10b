package cmd

import (
	"context"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all indexed documents",
	Long:  `Deletes every chunk from the vector index and resets the document catalog. The configuration file is left untouched.`,
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().Bool("force", false, "skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	force, _ := cmd.Flags().GetBool("force")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if !force {
		confirm := promptui.Prompt{
			Label:     fmt.Sprintf("Delete all indexed documents from %q", cfg.Collection),
			IsConfirm: true,
		}
		if _, err := confirm.Run(); err != nil {
			fmt.Println("Aborted.")
			return nil
		}
	}

	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	store, err := createStore(cfg, embedder)
	if err != nil {
		return err
	}
	if err := store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}

	cat, err := openCatalog(cfg)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer cat.Close()
	if err := cat.Clear(ctx); err != nil {
		return fmt.Errorf("clearing catalog: %w", err)
	}

	fmt.Println("Index cleared.")
	return nil
}
