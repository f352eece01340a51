// Package cmd implements the init command for cxgraph CLI.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/NicolasVautrin/cxgraph/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .cxgraph/config.yaml with default settings",
	Long: `Creates the .cxgraph directory and a default config.yaml in the
current directory. Run "cxgraph run" to actually index and analyze
packages; init only prepares configuration.

Examples:
  cxgraph init          # write .cxgraph/config.yaml in the current directory`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	path, err := config.SaveDefault(cwd)
	if err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}

	fmt.Printf("Wrote default configuration to %s\n", path)
	return nil
}
