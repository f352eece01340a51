// Package cmd implements the run command for cxgraph CLI: it starts the
// in-process Analysis Service, then drives internal/orchestrator.Run over
// a --packages file.
package cmd

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/NicolasVautrin/cxgraph/internal/analysisservice"
	"github.com/NicolasVautrin/cxgraph/internal/config"
	"github.com/NicolasVautrin/cxgraph/internal/orchestrator"
)

var (
	runPackagesFile string
	runDBPath       string
	runInit         bool
	runLimit        int
	runDomains      []string
	runAnalyzerURL  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Index and analyze every package in a package spec file",
	Long: `Run starts the in-process Analysis Service, then drives the
orchestrator over every package named in --packages: the Symbol Index
Builder indexes each package's symbols (skipping packages whose content
hash is unchanged), then the Call-Graph Builder extracts nodes and edges
for every package that was not skipped.

Examples:
  cxgraph run --packages packages.yaml
  cxgraph run --packages packages.yaml --init
  cxgraph run --packages packages.yaml --limit 2 --domains com.example.app`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runPackagesFile, "packages", "", "Path to a YAML file listing PackageSpec entries (required)")
	runCmd.Flags().StringVar(&runDBPath, "db", "", "Path to the SQLite database file (default: config store.path)")
	runCmd.Flags().BoolVar(&runInit, "init", false, "Drop and recreate all database tables before running")
	runCmd.Flags().IntVar(&runLimit, "limit", 0, "Process at most this many packages (0 = all)")
	runCmd.Flags().StringSliceVar(&runDomains, "domains", nil, "Restrict call-graph extraction to these FQN-prefix domains (comma-separated)")
	runCmd.Flags().StringVar(&runAnalyzerURL, "analyzer-url", "", "Analysis Service URL (default: config analyzer.url)")
	runCmd.MarkFlagRequired("packages")
}

func runRun(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	cfg, err := loadRunConfig(cwd)
	if err != nil {
		return err
	}

	specs, err := loadPackageSpecs(runPackagesFile)
	if err != nil {
		return err
	}
	if runLimit > 0 && runLimit < len(specs) {
		specs = specs[:runLimit]
	}

	dbPath := cfg.Store.Path
	if runDBPath != "" {
		dbPath = runDBPath
	}

	analyzerURL := cfg.Analyzer.URL
	if runAnalyzerURL != "" {
		analyzerURL = runAnalyzerURL
	}

	stopAnalyzer, err := startAnalysisService(analyzerURL, cfg.Analyzer.MaxWorkers)
	if err != nil {
		return fmt.Errorf("start analysis service: %w", err)
	}
	defer stopAnalyzer()

	fmt.Fprintf(os.Stderr, "cxgraph: running %d package(s) against %s\n", len(specs), dbPath)
	if verbose {
		fmt.Fprintf(os.Stderr, "  analyzer: %s (max workers %d)\n", analyzerURL, cfg.Analyzer.MaxWorkers)
		fmt.Fprintf(os.Stderr, "  call graph: chunk size %d, edge batch size %d\n",
			cfg.CallGraph.AnalyzeChunkSize, cfg.CallGraph.EdgeBatchSize)
		for _, spec := range specs {
			fmt.Fprintf(os.Stderr, "  package: %s (classes: %s)\n", spec.Name, spec.ClassesDir)
		}
	}

	summary, err := orchestrator.Run(context.Background(), orchestrator.Options{
		DBPath:           dbPath,
		Init:             runInit,
		Packages:         specs,
		Domains:          runDomains,
		AnalyzerURL:      analyzerURL,
		RequestTimeout:   time.Duration(cfg.Analyzer.RequestTimeoutSeconds) * time.Second,
		AnalyzeChunkSize: cfg.CallGraph.AnalyzeChunkSize,
		EdgeBatchSize:    cfg.CallGraph.EdgeBatchSize,
	})
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	printSummary(summary)
	if summary.FailedCount > 0 {
		return fmt.Errorf("%d package(s) failed", summary.FailedCount)
	}
	return nil
}

func loadRunConfig(cwd string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}
	return config.Load(cwd)
}

// startAnalysisService starts the Analysis Service HTTP handler on the
// loopback address encoded in analyzerURL and blocks until it answers
// /health, per SPEC_FULL.md §4.3's "transport is net/http on a fixed
// loopback port". Returns a func that shuts the listener down.
func startAnalysisService(analyzerURL string, maxWorkers int) (func(), error) {
	u, err := url.Parse(analyzerURL)
	if err != nil {
		return nil, fmt.Errorf("parse analyzer url: %w", err)
	}

	srv, err := analysisservice.NewServer(maxWorkers)
	if err != nil {
		return nil, fmt.Errorf("create analysis service: %w", err)
	}

	listener, err := net.Listen("tcp", u.Host)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", u.Host, err)
	}

	httpServer := &http.Server{Handler: srv}
	go httpServer.Serve(listener)

	client := analysisservice.NewClient(analyzerURL, 2*time.Second)
	if err := waitForHealth(client, 5*time.Second); err != nil {
		httpServer.Close()
		return nil, err
	}

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(ctx)
	}
	return stop, nil
}

func waitForHealth(client *analysisservice.Client, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		_, lastErr = client.Health(ctx)
		cancel()
		if lastErr == nil {
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("analysis service did not become healthy: %w", lastErr)
}

func printSummary(summary orchestrator.Summary) {
	for _, pr := range summary.Packages {
		if pr.Err != nil {
			fmt.Fprintf(os.Stderr, "  %s: FAILED: %v\n", pr.Name, pr.Err)
			continue
		}
		if pr.IndexSkipped {
			fmt.Fprintf(os.Stderr, "  %s: unchanged, skipped\n", pr.Name)
			continue
		}
		fmt.Fprintf(os.Stderr, "  %s: %d symbols (%d collisions), %d classes, %d nodes, %d edges\n",
			pr.Name, pr.SymbolCount, pr.Collisions, pr.ClassCount, pr.NodeCount, pr.EdgeCount)
	}
	fmt.Fprintf(os.Stderr, "done: %d package(s), %d failed, index %s, call graph %s\n",
		len(summary.Packages), summary.FailedCount, summary.IndexDuration, summary.GraphDuration)
}
