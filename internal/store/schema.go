package store

// schemaStatements is the DDL for the four tables of SPEC_FULL.md §3/§4.6:
// symbol_index, nodes, edges, index_metadata, plus the secondary indices
// §4.6 names (to_fqn, from_fqn, from_package, to_package on edges).
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS symbol_index (
		fqn     TEXT PRIMARY KEY,
		uri     TEXT NOT NULL,
		package TEXT NOT NULL,
		line    INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_symbol_index_package ON symbol_index(package)`,

	`CREATE TABLE IF NOT EXISTS nodes (
		fqn              TEXT PRIMARY KEY,
		type             TEXT NOT NULL,
		package          TEXT NOT NULL,
		line             INTEGER NOT NULL,
		visibility       TEXT NOT NULL,
		has_override     INTEGER NOT NULL DEFAULT 0,
		is_transactional INTEGER NOT NULL DEFAULT 0,
		is_entity        INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_nodes_package ON nodes(package)`,

	`CREATE TABLE IF NOT EXISTS edges (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		from_fqn     TEXT NOT NULL,
		edge_type    TEXT NOT NULL,
		to_fqn       TEXT NOT NULL,
		kind         TEXT NOT NULL,
		from_package TEXT NOT NULL,
		to_package   TEXT NOT NULL,
		from_line    INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_edges_to_fqn ON edges(to_fqn)`,
	`CREATE INDEX IF NOT EXISTS idx_edges_from_fqn ON edges(from_fqn)`,
	`CREATE INDEX IF NOT EXISTS idx_edges_from_package ON edges(from_package)`,
	`CREATE INDEX IF NOT EXISTS idx_edges_to_package ON edges(to_package)`,

	`CREATE TABLE IF NOT EXISTS index_metadata (
		package      TEXT PRIMARY KEY,
		content_hash TEXT NOT NULL,
		indexed_at   INTEGER NOT NULL
	)`,
}
