// Package symbolindex implements the Symbol Index Builder (C4): per
// package, decide skip-vs-rebuild via content hash, then populate
// symbol_index with each class/method FQN's owning package, source URI,
// and definition line, per SPEC_FULL.md §4.4.
package symbolindex

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/NicolasVautrin/cxgraph/internal/analysisservice"
	"github.com/NicolasVautrin/cxgraph/internal/fsutil"
	"github.com/NicolasVautrin/cxgraph/internal/model"
	"github.com/NicolasVautrin/cxgraph/internal/store"
)

// ErrHashMismatch is returned when a post-write re-hash of a package's
// class files no longer matches the hash computed at the start of
// BuildPackage, per spec.md §7: the package's class files changed out
// from under the run. The run is aborted before commit, so the package's
// previously committed state (or absence of one) is left intact.
var ErrHashMismatch = errors.New("symbolindex: content hash changed during build, aborting")

// Result reports the outcome of indexing one package.
type Result struct {
	Package     string
	Skipped     bool // unchanged since last run
	Collisions  int
	SymbolCount int
}

// Builder drives C4 against a Store and an Analysis Service client.
type Builder struct {
	DB     *sql.DB
	Client *analysisservice.Client
}

// NewBuilder constructs a Builder.
func NewBuilder(db *sql.DB, client *analysisservice.Client) *Builder {
	return &Builder{DB: db, Client: client}
}

// BuildPackage runs the full per-package algorithm of §4.4: hash, decide,
// cascade-delete, decode, upsert, write metadata — all but the hash and
// decode steps within a single transaction, per §4.6's per-package
// atomicity requirement.
func (b *Builder) BuildPackage(ctx context.Context, spec model.PackageSpec) (Result, error) {
	hash, err := HashPackage(spec.ClassesDir)
	if err != nil {
		return Result{}, fmt.Errorf("hash package %s: %w", spec.Name, err)
	}

	existing, err := store.GetIndexMetadata(b.DB, spec.Name)
	if err != nil {
		return Result{}, fmt.Errorf("read index metadata for %s: %w", spec.Name, err)
	}
	if existing != nil && existing.ContentHash == hash {
		return Result{Package: spec.Name, Skipped: true}, nil
	}

	files, err := fsutil.ListClassFiles(spec.ClassesDir)
	if err != nil {
		return Result{}, fmt.Errorf("list class files for %s: %w", spec.Name, err)
	}

	indexResults, err := b.Client.IndexBatch(ctx, files)
	if err != nil {
		return Result{}, fmt.Errorf("index symbols for %s: %w", spec.Name, err)
	}

	var symbols []model.Symbol
	for i, r := range indexResults {
		if !r.Success || r.Skipped == "enum" {
			continue
		}
		for _, sym := range r.Symbols {
			symbols = append(symbols, model.Symbol{
				FQN:     sym.FQN,
				URI:     buildSymbolURI(spec, files[i], sym.Line),
				Package: spec.Name,
				Line:    sym.Line,
			})
		}
	}

	tx, err := b.DB.Begin()
	if err != nil {
		return Result{}, fmt.Errorf("begin index tx for %s: %w", spec.Name, err)
	}
	defer tx.Rollback()

	if err := store.CascadeDeletePackage(tx, spec.Name); err != nil {
		return Result{}, err
	}

	collisions, err := store.UpsertSymbolsBulk(tx, symbols)
	if err != nil {
		return Result{}, fmt.Errorf("upsert symbols for %s: %w", spec.Name, err)
	}

	if err := store.PutIndexMetadata(tx, model.IndexMetadata{
		Package:     spec.Name,
		ContentHash: hash,
		IndexedAt:   time.Now().Unix(),
	}); err != nil {
		return Result{}, err
	}

	// Post-write verification (spec.md §7 ErrHashMismatch): re-hash the
	// package's class files before committing. A mismatch means the files
	// changed while this build was running; abort without committing so
	// the package is never marked clean against a hash that no longer
	// describes its class files.
	verifyHash, err := HashPackage(spec.ClassesDir)
	if err != nil {
		return Result{}, fmt.Errorf("verify hash for %s: %w", spec.Name, err)
	}
	if verifyHash != hash {
		return Result{}, fmt.Errorf("%w: package %s", ErrHashMismatch, spec.Name)
	}

	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("commit index tx for %s: %w", spec.Name, err)
	}

	return Result{Package: spec.Name, Collisions: collisions, SymbolCount: len(symbols)}, nil
}
