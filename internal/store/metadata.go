package store

import (
	"database/sql"
	"fmt"

	"github.com/NicolasVautrin/cxgraph/internal/model"
)

// GetIndexMetadata reads index_metadata[pkg], returning (nil, nil) if the
// package has never been indexed.
func GetIndexMetadata(db *sql.DB, pkg string) (*model.IndexMetadata, error) {
	row := db.QueryRow(`SELECT package, content_hash, indexed_at FROM index_metadata WHERE package = ?`, pkg)
	var m model.IndexMetadata
	err := row.Scan(&m.Package, &m.ContentHash, &m.IndexedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get index metadata for %s: %w", pkg, err)
	}
	return &m, nil
}

// PutIndexMetadata upserts index_metadata[pkg] within an already-open
// transaction.
func PutIndexMetadata(tx *sql.Tx, m model.IndexMetadata) error {
	_, err := tx.Exec(`
		INSERT OR REPLACE INTO index_metadata (package, content_hash, indexed_at)
		VALUES (?, ?, ?)
	`, m.Package, m.ContentHash, m.IndexedAt)
	if err != nil {
		return fmt.Errorf("put index metadata for %s: %w", m.Package, err)
	}
	return nil
}

// CascadeDeletePackage performs the four-table cascade-delete of
// SPEC_FULL.md §4.6 within an already-open transaction, ahead of
// re-indexing package p.
func CascadeDeletePackage(tx *sql.Tx, p string) error {
	stmts := []struct {
		query string
		args  []any
	}{
		{`DELETE FROM symbol_index WHERE package = ?`, []any{p}},
		{`DELETE FROM nodes WHERE package = ?`, []any{p}},
		{`DELETE FROM edges WHERE from_package = ? OR to_package = ?`, []any{p, p}},
		{`DELETE FROM index_metadata WHERE package = ?`, []any{p}},
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s.query, s.args...); err != nil {
			return fmt.Errorf("cascade-delete package %s: %w", p, err)
		}
	}
	return nil
}
