// Package orchestrator implements the Orchestrator (C7): top-level
// sequencing that opens the store, drives the Symbol Index Builder over
// every package, then the Call-Graph Builder over every package, and
// surfaces per-step durations and counts, per SPEC_FULL.md §4.7.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/NicolasVautrin/cxgraph/internal/analysisservice"
	"github.com/NicolasVautrin/cxgraph/internal/callgraph"
	"github.com/NicolasVautrin/cxgraph/internal/model"
	"github.com/NicolasVautrin/cxgraph/internal/store"
	"github.com/NicolasVautrin/cxgraph/internal/symbolindex"
)

// Options configures one orchestrator run.
type Options struct {
	DBPath   string
	Init     bool
	Packages []model.PackageSpec
	Domains  []string

	// AnalyzerURL is the Analysis Service's base URL. The orchestrator does
	// not start or stop the service; that is the caller's concern (§2
	// scope: the CLI wires process lifecycle, the core only speaks the
	// wire protocol).
	AnalyzerURL    string
	RequestTimeout time.Duration

	// AnalyzeChunkSize and EdgeBatchSize carry config.CallGraphConfig's
	// request-chunking and batch-commit sizes into the Call-Graph Builder.
	// Zero values fall back to callgraph's own defaults.
	AnalyzeChunkSize int
	EdgeBatchSize    int
}

// PackageResult reports one package's outcome across both phases.
type PackageResult struct {
	Name         string
	IndexSkipped bool
	SymbolCount  int
	Collisions   int
	Analyzed     bool
	ClassCount   int
	NodeCount    int
	EdgeCount    int
	Err          error
}

// Summary is the end-of-run report, per §7's "successful runs emit a
// summary per step" requirement.
type Summary struct {
	Packages      []PackageResult
	IndexDuration time.Duration
	GraphDuration time.Duration
	FailedCount   int
}

// Run executes the full pipeline: open-or-reuse the store, index every
// package (C4), then build the call graph for every package that was not
// skipped by indexing (C5), per §8 invariant 7 — an unchanged package
// re-indexes to the same hash and therefore contributes no new writes in
// either phase.
func Run(ctx context.Context, opts Options) (Summary, error) {
	s, err := store.Open(opts.DBPath, opts.Init)
	if err != nil {
		return Summary{}, fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	client := analysisservice.NewClient(opts.AnalyzerURL, opts.RequestTimeout)

	symBuilder := symbolindex.NewBuilder(s.DB(), client)
	cgBuilder := callgraph.NewBuilder(s.DB(), client, opts.AnalyzeChunkSize, opts.EdgeBatchSize)

	results := make(map[string]*PackageResult, len(opts.Packages))
	for _, spec := range opts.Packages {
		results[spec.Name] = &PackageResult{Name: spec.Name}
	}

	indexStart := time.Now()
	for _, spec := range opts.Packages {
		pr := results[spec.Name]
		res, err := symBuilder.BuildPackage(ctx, spec)
		if err != nil {
			pr.Err = fmt.Errorf("index %s: %w", spec.Name, err)
			continue
		}
		pr.IndexSkipped = res.Skipped
		pr.SymbolCount = res.SymbolCount
		pr.Collisions = res.Collisions
	}
	indexDuration := time.Since(indexStart)

	graphStart := time.Now()
	for _, spec := range opts.Packages {
		pr := results[spec.Name]
		if pr.Err != nil || pr.IndexSkipped {
			continue
		}
		res, err := cgBuilder.BuildPackage(ctx, spec, opts.Domains)
		if err != nil {
			pr.Err = fmt.Errorf("analyze %s: %w", spec.Name, err)
			continue
		}
		pr.Analyzed = true
		pr.ClassCount = res.ClassCount
		pr.NodeCount = res.NodeCount
		pr.EdgeCount = res.EdgeCount
	}
	graphDuration := time.Since(graphStart)

	summary := Summary{IndexDuration: indexDuration, GraphDuration: graphDuration}
	for _, spec := range opts.Packages {
		pr := *results[spec.Name]
		summary.Packages = append(summary.Packages, pr)
		if pr.Err != nil {
			summary.FailedCount++
		}
	}
	return summary, nil
}
