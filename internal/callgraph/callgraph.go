// Package callgraph implements the Call-Graph Builder (C5): per package,
// decode every class via the Analysis Service, reconstruct flat facts via
// analysisservice.Ungroup, resolve each edge's to_package against the
// symbol index, and persist in batched transactions sized per
// config.CallGraphConfig, per SPEC_FULL.md §4.5.
package callgraph

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/NicolasVautrin/cxgraph/internal/analysisservice"
	"github.com/NicolasVautrin/cxgraph/internal/fsutil"
	"github.com/NicolasVautrin/cxgraph/internal/model"
	"github.com/NicolasVautrin/cxgraph/internal/store"
)

// DefaultAnalyzeChunkSize bounds the class count per /analyze request, per
// §4.5 step 2's "cumulative class count does not exceed an implementation-
// chosen bound (protects request payload size)". It is the fallback used
// when a Builder is constructed with a non-positive chunk size.
const DefaultAnalyzeChunkSize = 50

// Result reports the outcome of building the call graph for one package.
type Result struct {
	Package    string
	ClassCount int
	NodeCount  int
	EdgeCount  int
}

// Builder drives C5 against a Store and an Analysis Service client.
type Builder struct {
	DB     *sql.DB
	Client *analysisservice.Client

	// AnalyzeChunkSize and EdgeBatchSize are config.CallGraphConfig's
	// request-chunking and batch-commit sizes (§9's call_graph config
	// block), threaded through by the caller rather than imported
	// directly so this package stays decoupled from internal/config.
	AnalyzeChunkSize int
	EdgeBatchSize    int
}

// NewBuilder constructs a Builder. Non-positive analyzeChunkSize or
// edgeBatchSize fall back to DefaultAnalyzeChunkSize and store.BatchSize
// respectively.
func NewBuilder(db *sql.DB, client *analysisservice.Client, analyzeChunkSize, edgeBatchSize int) *Builder {
	if analyzeChunkSize <= 0 {
		analyzeChunkSize = DefaultAnalyzeChunkSize
	}
	if edgeBatchSize <= 0 {
		edgeBatchSize = store.BatchSize
	}
	return &Builder{DB: db, Client: client, AnalyzeChunkSize: analyzeChunkSize, EdgeBatchSize: edgeBatchSize}
}

// BuildPackage enumerates spec's class files in sorted order, submits them
// to Analyze in chunks of b.AnalyzeChunkSize, and flushes nodes/edges in
// ~b.EdgeBatchSize batches. domains, if non-empty, restricts analysis to
// matching FQN prefixes per §4.3.
func (b *Builder) BuildPackage(ctx context.Context, spec model.PackageSpec, domains []string) (Result, error) {
	files, err := fsutil.ListClassFiles(spec.ClassesDir)
	if err != nil {
		return Result{}, fmt.Errorf("list class files for %s: %w", spec.Name, err)
	}

	result := Result{Package: spec.Name}
	var nodeBuf []model.Node
	var edgeBuf []model.Edge

	flush := func() error {
		if len(nodeBuf) == 0 && len(edgeBuf) == 0 {
			return nil
		}
		tx, err := b.DB.Begin()
		if err != nil {
			return fmt.Errorf("begin call-graph tx for %s: %w", spec.Name, err)
		}
		defer tx.Rollback()

		resolved, err := store.ResolvePackages(tx, distinctToFQNs(edgeBuf))
		if err != nil {
			return fmt.Errorf("resolve packages for %s: %w", spec.Name, err)
		}
		for i := range edgeBuf {
			if pkg, ok := resolved[edgeBuf[i].ToFQN]; ok {
				edgeBuf[i].ToPackage = pkg
			} else {
				edgeBuf[i].ToPackage = model.UnknownPackage
			}
		}

		if err := store.UpsertNodesBulk(tx, nodeBuf); err != nil {
			return fmt.Errorf("upsert nodes for %s: %w", spec.Name, err)
		}
		if err := store.InsertEdgesBulk(tx, edgeBuf); err != nil {
			return fmt.Errorf("insert edges for %s: %w", spec.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit call-graph tx for %s: %w", spec.Name, err)
		}

		result.NodeCount += len(nodeBuf)
		result.EdgeCount += len(edgeBuf)
		nodeBuf = nodeBuf[:0]
		edgeBuf = edgeBuf[:0]
		return nil
	}

	for start := 0; start < len(files); start += b.AnalyzeChunkSize {
		end := min(start+b.AnalyzeChunkSize, len(files))
		chunk := files[start:end]

		classes, err := b.Client.Analyze(ctx, analysisservice.AnalyzeRequest{
			ClassFiles: chunk,
			Domains:    domains,
		})
		if err != nil {
			return result, fmt.Errorf("analyze chunk for %s: %w", spec.Name, err)
		}

		for _, ac := range classes {
			nodes, edges := analysisservice.Ungroup(ac, spec.Name)
			nodeBuf = append(nodeBuf, nodes...)
			edgeBuf = append(edgeBuf, edges...)
			result.ClassCount++

			if len(edgeBuf) >= b.EdgeBatchSize {
				if err := flush(); err != nil {
					return result, err
				}
			}
		}
	}

	if err := flush(); err != nil {
		return result, err
	}
	return result, nil
}

func distinctToFQNs(edges []model.Edge) []string {
	seen := make(map[string]bool, len(edges))
	var out []string
	for _, e := range edges {
		if !seen[e.ToFQN] {
			seen[e.ToFQN] = true
			out = append(out, e.ToFQN)
		}
	}
	return out
}
