package symbolindex

import (
	"bytes"
	"context"
	"encoding/binary"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/NicolasVautrin/cxgraph/internal/analysisservice"
	"github.com/NicolasVautrin/cxgraph/internal/model"
	"github.com/NicolasVautrin/cxgraph/internal/store"
)

// writeMinimalClassFile serializes the smallest valid class file for one
// public top-level class with no members, mirroring
// internal/analysisservice's test fixture builder.
func writeMinimalClassFile(t *testing.T, dir, internalName string) string {
	t.Helper()

	const tagUTF8 = 1
	const tagClass = 7
	const classMagic = 0xCAFEBABE

	var pool bytes.Buffer
	var entry bytes.Buffer
	entry.WriteByte(tagUTF8)
	binary.Write(&entry, binary.BigEndian, uint16(len(internalName)))
	entry.WriteString(internalName)
	pool.Write(entry.Bytes())

	var classEntry bytes.Buffer
	classEntry.WriteByte(tagClass)
	binary.Write(&classEntry, binary.BigEndian, uint16(1))
	pool.Write(classEntry.Bytes())

	var out bytes.Buffer
	binary.Write(&out, binary.BigEndian, uint32(classMagic))
	binary.Write(&out, binary.BigEndian, uint16(0))
	binary.Write(&out, binary.BigEndian, uint16(61))
	binary.Write(&out, binary.BigEndian, uint16(3))
	out.Write(pool.Bytes())
	binary.Write(&out, binary.BigEndian, uint16(0x0001))
	binary.Write(&out, binary.BigEndian, uint16(2))
	binary.Write(&out, binary.BigEndian, uint16(0))
	binary.Write(&out, binary.BigEndian, uint16(0))
	binary.Write(&out, binary.BigEndian, uint16(0))
	binary.Write(&out, binary.BigEndian, uint16(0))
	binary.Write(&out, binary.BigEndian, uint16(0))

	relDir := filepath.Dir(internalName)
	if relDir != "." {
		if err := os.MkdirAll(filepath.Join(dir, relDir), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	path := filepath.Join(dir, internalName+".class")
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		t.Fatalf("write class file: %v", err)
	}
	return path
}

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	srv, err := analysisservice.NewServer(2)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	client := analysisservice.NewClient(ts.URL, 0)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.Open(dbPath, true)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return NewBuilder(s.DB(), client)
}

func TestBuildPackageIndexesThenSkipsUnchanged(t *testing.T) {
	dir := t.TempDir()
	writeMinimalClassFile(t, dir, "com/ex/A")
	writeMinimalClassFile(t, dir, "com/ex/B")

	b := newTestBuilder(t)
	spec := model.PackageSpec{Name: "p1", ClassesDir: dir}

	res, err := b.BuildPackage(context.Background(), spec)
	if err != nil {
		t.Fatalf("BuildPackage: %v", err)
	}
	if res.Skipped {
		t.Fatal("expected first build to not skip")
	}
	if res.SymbolCount != 2 {
		t.Errorf("SymbolCount = %d, want 2", res.SymbolCount)
	}

	res2, err := b.BuildPackage(context.Background(), spec)
	if err != nil {
		t.Fatalf("BuildPackage (second): %v", err)
	}
	if !res2.Skipped {
		t.Error("expected second build on unchanged corpus to skip")
	}
}

func TestBuildPackageRebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	writeMinimalClassFile(t, dir, "com/ex/A")

	b := newTestBuilder(t)
	spec := model.PackageSpec{Name: "p1", ClassesDir: dir}

	if _, err := b.BuildPackage(context.Background(), spec); err != nil {
		t.Fatalf("BuildPackage: %v", err)
	}

	writeMinimalClassFile(t, dir, "com/ex/C")

	res, err := b.BuildPackage(context.Background(), spec)
	if err != nil {
		t.Fatalf("BuildPackage (after change): %v", err)
	}
	if res.Skipped {
		t.Fatal("expected rebuild after adding a class file")
	}
	if res.SymbolCount != 2 {
		t.Errorf("SymbolCount = %d, want 2", res.SymbolCount)
	}
}

func TestBuildPackageCollisionCounter(t *testing.T) {
	dir1 := t.TempDir()
	writeMinimalClassFile(t, dir1, "com/ex/Shared")
	dir2 := t.TempDir()
	writeMinimalClassFile(t, dir2, "com/ex/Shared")

	b := newTestBuilder(t)

	if _, err := b.BuildPackage(context.Background(), model.PackageSpec{Name: "p1", ClassesDir: dir1}); err != nil {
		t.Fatalf("BuildPackage p1: %v", err)
	}
	res, err := b.BuildPackage(context.Background(), model.PackageSpec{Name: "p2", ClassesDir: dir2})
	if err != nil {
		t.Fatalf("BuildPackage p2: %v", err)
	}
	if res.Collisions != 1 {
		t.Errorf("Collisions = %d, want 1", res.Collisions)
	}
}
