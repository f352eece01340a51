package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/NicolasVautrin/cxgraph/internal/model"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "cxgraph-store-test-*")
	if err != nil {
		t.Fatalf("create temp dir: %v", err)
	}

	s, err := Open(filepath.Join(tmpDir, "cxgraph.db"), true)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("open store: %v", err)
	}

	cleanup := func() {
		s.Close()
		os.RemoveAll(tmpDir)
	}
	return s, cleanup
}

func TestOpenInitCreatesSchema(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	for _, table := range []string{"symbol_index", "nodes", "edges", "index_metadata"} {
		var name string
		err := s.DB().QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestOpenNonInitPreservesRows(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "cxgraph-store-test-*")
	if err != nil {
		t.Fatalf("create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)
	dbPath := filepath.Join(tmpDir, "cxgraph.db")

	s1, err := Open(dbPath, true)
	if err != nil {
		t.Fatalf("open (init): %v", err)
	}
	tx, err := s1.DB().Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := PutIndexMetadata(tx, model.IndexMetadata{Package: "p1", ContentHash: "abc", IndexedAt: 1}); err != nil {
		t.Fatalf("put metadata: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	s1.Close()

	s2, err := Open(dbPath, false)
	if err != nil {
		t.Fatalf("reopen (no init): %v", err)
	}
	defer s2.Close()

	m, err := GetIndexMetadata(s2.DB(), "p1")
	if err != nil {
		t.Fatalf("get metadata: %v", err)
	}
	if m == nil || m.ContentHash != "abc" {
		t.Errorf("metadata = %+v, want content_hash=abc", m)
	}
}

func TestUpsertAndResolveSymbols(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	tx, err := s.DB().Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	line := 42
	symbols := []model.Symbol{
		{FQN: "com.ex.A", URI: "file:///a.class", Package: "p1"},
		{FQN: "com.ex.A.f()", URI: "file:///a.class:42", Package: "p1", Line: &line},
	}
	collisions, err := UpsertSymbolsBulk(tx, symbols)
	if err != nil {
		t.Fatalf("upsert symbols: %v", err)
	}
	if collisions != 0 {
		t.Errorf("collisions = %d, want 0 on first write", collisions)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	tx2, err := s.DB().Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx2.Rollback()
	resolved, err := ResolvePackages(tx2, []string{"com.ex.A", "com.ex.Missing"})
	if err != nil {
		t.Fatalf("resolve packages: %v", err)
	}
	if resolved["com.ex.A"] != "p1" {
		t.Errorf("resolved[com.ex.A] = %q, want p1", resolved["com.ex.A"])
	}
	if _, ok := resolved["com.ex.Missing"]; ok {
		t.Error("expected com.ex.Missing to be absent, not resolved")
	}
}

func TestSymbolCollisionLastWriterWins(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	tx, err := s.DB().Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := UpsertSymbolsBulk(tx, []model.Symbol{{FQN: "com.ex.Shared", URI: "file:///p1.class", Package: "p1"}}); err != nil {
		t.Fatalf("upsert p1: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	tx2, err := s.DB().Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	collisions, err := UpsertSymbolsBulk(tx2, []model.Symbol{{FQN: "com.ex.Shared", URI: "file:///p2.class", Package: "p2"}})
	if err != nil {
		t.Fatalf("upsert p2: %v", err)
	}
	if collisions != 1 {
		t.Errorf("collisions = %d, want 1", collisions)
	}
	if err := tx2.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	tx3, err := s.DB().Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx3.Rollback()
	resolved, err := ResolvePackages(tx3, []string{"com.ex.Shared"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved["com.ex.Shared"] != "p2" {
		t.Errorf("resolved[com.ex.Shared] = %q, want p2 (last writer)", resolved["com.ex.Shared"])
	}
}

func TestCascadeDeleteIsolatesOtherPackages(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	tx, err := s.DB().Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := UpsertSymbolsBulk(tx, []model.Symbol{
		{FQN: "com.p1.A", URI: "file:///p1/A.class", Package: "p1"},
		{FQN: "com.p2.B", URI: "file:///p2/B.class", Package: "p2"},
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := UpsertNodesBulk(tx, []model.Node{
		{FQN: "com.p1.A", Type: model.NodeClass, Package: "p1", Line: -1, Visibility: model.VisibilityPublic},
		{FQN: "com.p2.B", Type: model.NodeClass, Package: "p2", Line: -1, Visibility: model.VisibilityPublic},
	}); err != nil {
		t.Fatalf("upsert nodes: %v", err)
	}
	if err := PutIndexMetadata(tx, model.IndexMetadata{Package: "p1", ContentHash: "h1", IndexedAt: 1}); err != nil {
		t.Fatalf("put metadata p1: %v", err)
	}
	if err := PutIndexMetadata(tx, model.IndexMetadata{Package: "p2", ContentHash: "h2", IndexedAt: 1}); err != nil {
		t.Fatalf("put metadata p2: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	tx2, err := s.DB().Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := CascadeDeletePackage(tx2, "p1"); err != nil {
		t.Fatalf("cascade delete: %v", err)
	}
	if err := tx2.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	var count int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM nodes WHERE package = 'p1'`).Scan(&count); err != nil {
		t.Fatalf("count p1 nodes: %v", err)
	}
	if count != 0 {
		t.Errorf("p1 nodes remaining = %d, want 0", count)
	}

	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM nodes WHERE package = 'p2'`).Scan(&count); err != nil {
		t.Fatalf("count p2 nodes: %v", err)
	}
	if count != 1 {
		t.Errorf("p2 nodes remaining = %d, want 1 (untouched)", count)
	}

	m, err := GetIndexMetadata(s.DB(), "p1")
	if err != nil {
		t.Fatalf("get metadata p1: %v", err)
	}
	if m != nil {
		t.Errorf("expected p1 index_metadata deleted, got %+v", m)
	}
}

func TestInsertEdgesBulkUnknownPackage(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	tx, err := s.DB().Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	err = InsertEdgesBulk(tx, []model.Edge{
		{FromFQN: "com.ex.A.f()", EdgeType: model.EdgeCall, ToFQN: "com.ex.B.g()", Kind: model.KindStandard, FromPackage: "p1", FromLine: 10},
	})
	if err != nil {
		t.Fatalf("insert edges: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	var toPackage string
	if err := s.DB().QueryRow(`SELECT to_package FROM edges WHERE to_fqn = 'com.ex.B.g()'`).Scan(&toPackage); err != nil {
		t.Fatalf("query edge: %v", err)
	}
	if toPackage != model.UnknownPackage {
		t.Errorf("to_package = %q, want %q", toPackage, model.UnknownPackage)
	}
}
