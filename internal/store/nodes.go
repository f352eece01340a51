package store

import (
	"database/sql"
	"fmt"

	"github.com/NicolasVautrin/cxgraph/internal/model"
)

// UpsertNodesBulk writes nodes rows within an already-open transaction.
// nodes.fqn is the primary key; a repeat FQN (e.g. the class re-emitted as
// part of a re-indexed package) replaces the prior row.
func UpsertNodesBulk(tx *sql.Tx, nodes []model.Node) error {
	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO nodes
			(fqn, type, package, line, visibility, has_override, is_transactional, is_entity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare node upsert: %w", err)
	}
	defer stmt.Close()

	for i, n := range nodes {
		if _, err := stmt.Exec(n.FQN, string(n.Type), n.Package, n.Line, string(n.Visibility),
			boolToInt(n.HasOverride), boolToInt(n.IsTransactional), nullableBool(n.IsEntity)); err != nil {
			return fmt.Errorf("upsert node %d (%s): %w", i, n.FQN, err)
		}
	}
	return nil
}

// InsertEdgesBulk appends edges rows within an already-open transaction.
// Edges are not deduplicated at insert time, per §3.
func InsertEdgesBulk(tx *sql.Tx, edges []model.Edge) error {
	stmt, err := tx.Prepare(`
		INSERT INTO edges (from_fqn, edge_type, to_fqn, kind, from_package, to_package, from_line)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare edge insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range edges {
		toPackage := e.ToPackage
		if toPackage == "" {
			toPackage = model.UnknownPackage
		}
		if _, err := stmt.Exec(e.FromFQN, string(e.EdgeType), e.ToFQN, e.Kind, e.FromPackage, toPackage, e.FromLine); err != nil {
			return fmt.Errorf("insert edge %d (%s -> %s): %w", i, e.FromFQN, e.ToFQN, err)
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableBool(b *bool) any {
	if b == nil {
		return nil
	}
	return boolToInt(*b)
}
