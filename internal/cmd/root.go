// Package cmd is the thin CLI driver for cxgraph: it parses flags, loads
// config, and calls internal/orchestrator.Run. It owns no query surface —
// per SPEC_FULL.md §2.1, CLI/logging/progress presentation is an ambient
// concern, not a component of the core.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is the current version of cxgraph.
var Version = "0.1.0"

var (
	verbose    bool
	configPath string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "cxgraph",
	Short:   "Call-graph extraction and incremental indexing engine for JVM bytecode",
	Version: Version,
	Long: `cxgraph extracts a call graph from a JVM code corpus: given compiled
class trees for one or more packages, it decodes every class, resolves
symbols to their owning package, and persists classes, methods,
inheritance edges, call edges, and member-of edges into a SQLite store.

Re-running against an unchanged package is a no-op: each package is
keyed by a content hash over its class files, and only packages whose
hash changed are re-indexed and re-analyzed.

Examples:
  cxgraph init                                  # create .cxgraph/config.yaml
  cxgraph run --packages packages.yaml          # index and analyze every package
  cxgraph run --packages packages.yaml --init   # also (re)create the database schema

See 'cxgraph <command> --help' for command-specific options.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: .cxgraph/config.yaml)")
}
