package store

import (
	"database/sql"
	"fmt"

	"github.com/NicolasVautrin/cxgraph/internal/model"
)

// UpsertSymbolsBulk writes symbol_index rows within an already-open
// transaction, all of them in that one transaction (it does not split
// them into BatchSize batches), using INSERT OR REPLACE so that a
// later write to an FQN already claimed by another package wins per the
// last-writer-wins semantics of §3/§9.
//
// collisions counts how many of the rows already existed in a different
// package before this write, for the operator-visible collision counter
// SPEC_FULL.md §9's open-question decision calls for.
func UpsertSymbolsBulk(tx *sql.Tx, symbols []model.Symbol) (collisions int, err error) {
	existing, err := existingPackages(tx, symbols)
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO symbol_index (fqn, uri, package, line) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare symbol upsert: %w", err)
	}
	defer stmt.Close()

	for i, sym := range symbols {
		if prevPkg, ok := existing[sym.FQN]; ok && prevPkg != sym.Package {
			collisions++
		}
		if _, err := stmt.Exec(sym.FQN, sym.URI, sym.Package, sym.Line); err != nil {
			return collisions, fmt.Errorf("upsert symbol %d (%s): %w", i, sym.FQN, err)
		}
	}
	return collisions, nil
}

func existingPackages(tx *sql.Tx, symbols []model.Symbol) (map[string]string, error) {
	out := make(map[string]string, len(symbols))
	stmt, err := tx.Prepare(`SELECT package FROM symbol_index WHERE fqn = ?`)
	if err != nil {
		return nil, fmt.Errorf("prepare symbol lookup: %w", err)
	}
	defer stmt.Close()

	for _, sym := range symbols {
		var pkg string
		err := stmt.QueryRow(sym.FQN).Scan(&pkg)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("lookup symbol %s: %w", sym.FQN, err)
		}
		out[sym.FQN] = pkg
	}
	return out, nil
}

// ResolvePackages looks up the owning package for each FQN in fqns against
// symbol_index in a single grouped query, per §4.5's "issue a single
// grouped lookup" requirement. FQNs with no row are simply absent from the
// result map; callers treat a miss as model.UnknownPackage.
func ResolvePackages(tx *sql.Tx, fqns []string) (map[string]string, error) {
	out := make(map[string]string, len(fqns))
	if len(fqns) == 0 {
		return out, nil
	}

	placeholders := make([]byte, 0, len(fqns)*2)
	args := make([]any, len(fqns))
	for i, fqn := range fqns {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
		args[i] = fqn
	}

	query := fmt.Sprintf(`SELECT fqn, package FROM symbol_index WHERE fqn IN (%s)`, string(placeholders))
	rows, err := tx.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("resolve packages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var fqn, pkg string
		if err := rows.Scan(&fqn, &pkg); err != nil {
			return nil, fmt.Errorf("scan resolved package: %w", err)
		}
		out[fqn] = pkg
	}
	return out, rows.Err()
}
