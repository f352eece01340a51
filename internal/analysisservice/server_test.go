package analysisservice

import (
	"bytes"
	"context"
	"encoding/binary"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// writeMinimalClassFile serializes the smallest valid class file (a public
// class with no super-specific behavior beyond implicit java.lang.Object,
// no fields, no methods) to a temp file and returns its path. Kept minimal
// deliberately: these tests exercise the HTTP wire protocol, not the
// decoder's full grammar (see internal/classfile for that coverage).
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
	binary.Write(&classEntry, binary.BigEndian, uint16(1)) // name_index -> utf8 at pool slot 1
	pool.Write(classEntry.Bytes())

	var out bytes.Buffer
	binary.Write(&out, binary.BigEndian, uint32(classMagic))
	binary.Write(&out, binary.BigEndian, uint16(0))  // minor
	binary.Write(&out, binary.BigEndian, uint16(61)) // major
	binary.Write(&out, binary.BigEndian, uint16(3))  // constant_pool_count (2 entries + 1)
	out.Write(pool.Bytes())
	binary.Write(&out, binary.BigEndian, uint16(0x0001)) // access_flags: public
	binary.Write(&out, binary.BigEndian, uint16(2))      // this_class -> pool slot 2
	binary.Write(&out, binary.BigEndian, uint16(0))      // super_class: none (implicit Object)
	binary.Write(&out, binary.BigEndian, uint16(0))      // interfaces_count
	binary.Write(&out, binary.BigEndian, uint16(0))      // fields_count
	binary.Write(&out, binary.BigEndian, uint16(0))      // methods_count
	binary.Write(&out, binary.BigEndian, uint16(0))      // attributes_count

	path := filepath.Join(dir, filepath.Base(internalName)+".class")
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		t.Fatalf("write class file: %v", err)
	}
	return path
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	srv, err := NewServer(2)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return srv, ts
}

func TestHealthRoundTrip(t *testing.T) {
	_, ts := newTestServer(t)
	client := NewClient(ts.URL, 0)

	resp, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if resp.Status != "ok" || resp.Service != serviceName {
		t.Errorf("Health = %+v, want status ok, service %q", resp, serviceName)
	}
}

func TestIndexBatchRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeMinimalClassFile(t, dir, "com/ex/Empty")

	_, ts := newTestServer(t)
	client := NewClient(ts.URL, 0)

	results, err := client.IndexBatch(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("IndexBatch: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if !results[0].Success || results[0].ClassFQN != "com.ex.Empty" {
		t.Errorf("results[0] = %+v, want success for com.ex.Empty", results[0])
	}
}

func TestIndexBatchUnreadableFileDoesNotAbortBatch(t *testing.T) {
	dir := t.TempDir()
	good := writeMinimalClassFile(t, dir, "com/ex/Good")
	missing := filepath.Join(dir, "does-not-exist.class")

	_, ts := newTestServer(t)
	client := NewClient(ts.URL, 0)

	results, err := client.IndexBatch(context.Background(), []string{good, missing})
	if err != nil {
		t.Fatalf("IndexBatch: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if !results[0].Success {
		t.Errorf("results[0].Success = false, want true")
	}
	if results[1].Success {
		t.Errorf("results[1].Success = true, want false for missing file")
	}
}

func TestAnalyzeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeMinimalClassFile(t, dir, "com/ex/Empty")

	_, ts := newTestServer(t)
	client := NewClient(ts.URL, 0)

	classes, err := client.Analyze(context.Background(), AnalyzeRequest{ClassFiles: []string{path}})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(classes) != 1 || classes[0].FQN != "com.ex.Empty" {
		t.Fatalf("classes = %+v, want one class com.ex.Empty", classes)
	}
}

func TestAnalyzeDiscoversClassFilesUnderRoot(t *testing.T) {
	dir := t.TempDir()
	writeMinimalClassFile(t, dir, "com/ex/A")
	writeMinimalClassFile(t, dir, "com/ex/B")

	_, ts := newTestServer(t)
	client := NewClient(ts.URL, 0)

	classes, err := client.Analyze(context.Background(), AnalyzeRequest{ClassDirs: []string{dir}})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(classes) != 2 {
		t.Fatalf("classes = %d, want 2", len(classes))
	}
}

func TestShutdownClosesRequestedChannel(t *testing.T) {
	srv, ts := newTestServer(t)
	client := NewClient(ts.URL, 0)

	if err := client.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	select {
	case <-srv.ShutdownRequested():
	default:
		t.Fatal("expected ShutdownRequested channel to be closed")
	}
}
