package cmd

import (
	"github.com/spf13/cobra"

	"github.com/clarityhealth/medrag/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize medrag configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose an embedding preset and chunking parameters, and generates a .medrag.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
