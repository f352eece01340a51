// Package store implements the Store (C6): a single-writer relational
// persistence layer over a local SQLite file, with the schema, batch
// insert, and per-package cascade-delete policy of SPEC_FULL.md §4.6.
//
// The open/close sequence and WAL-mode setup follow the teacher's
// internal/cache/cache.go; table/index DDL structure follows
// internal/store/schema.go, generalized from the teacher's entity graph to
// the four-table nodes/edges/symbol_index/index_metadata schema of §3.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// BatchSize is the target transaction size for bulk writes, per §4.6's
// "transactions sized to ≈5,000 rows" batch discipline.
const BatchSize = 5000

// Store manages the project's SQLite database file.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates the database at path. If init is true, all four
// tables are dropped and recreated; otherwise any missing table is
// created and existing rows are left alone, per §4.6's Modes.
func Open(path string, init bool) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=OFF"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set foreign_keys pragma: %w", err)
	}

	s := &Store{db: db, dbPath: path}

	if init {
		if err := s.dropAll(); err != nil {
			db.Close()
			return nil, fmt.Errorf("drop tables: %w", err)
		}
	}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// DB returns the underlying database handle for call sites (callgraph,
// symbolindex) that need to build their own prepared statements and
// transactions against the single-writer connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) dropAll() error {
	stmts := []string{
		"DROP TABLE IF EXISTS edges",
		"DROP TABLE IF EXISTS nodes",
		"DROP TABLE IF EXISTS symbol_index",
		"DROP TABLE IF EXISTS index_metadata",
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}
	return nil
}

func (s *Store) initSchema() error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec schema stmt: %w", err)
		}
	}
	return nil
}
