package analysisservice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/NicolasVautrin/cxgraph/internal/fsutil"
)

// Version is the Analysis Service's reported version, surfaced by /health.
const Version = "0.1.0"

const serviceName = "cxgraph-analysis-service"

// Server is the process-local HTTP loopback service of C3: stateless
// across requests, with bounded per-request worker concurrency and an LRU
// cache of per-root classpaths keyed by the canonical sorted tuple of
// input roots (SPEC_FULL.md §9's re-architected getOrBuild(roots) cache).
type Server struct {
	maxWorkers int
	rootCache  *lru.Cache[string, []string]
	mux        *http.ServeMux
	shutdownCh chan struct{}
}

// NewServer builds a Server with the given bounded worker-pool size.
func NewServer(maxWorkers int) (*Server, error) {
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	cache, err := lru.New[string, []string](64)
	if err != nil {
		return nil, fmt.Errorf("create root cache: %w", err)
	}

	s := &Server{maxWorkers: maxWorkers, rootCache: cache, shutdownCh: make(chan struct{})}
	s.mux = http.NewServeMux()
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /index", s.handleIndex)
	s.mux.HandleFunc("POST /index/batch", s.handleIndexBatch)
	s.mux.HandleFunc("POST /analyze", s.handleAnalyze)
	s.mux.HandleFunc("POST /shutdown", s.handleShutdown)
	return s, nil
}

// ShutdownRequested returns a channel closed once /shutdown is called, for
// the caller's grace-period exit.
func (s *Server) ShutdownRequested() <-chan struct{} {
	return s.shutdownCh
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Service: serviceName, Version: Version})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var req IndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	files := req.ClassFiles
	if req.ClassFile != "" {
		files = append(files, req.ClassFile)
	}
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("classFile or classFiles required"))
		return
	}

	results := s.indexBatch(r.Context(), files)
	if len(req.ClassFiles) > 0 {
		writeJSON(w, http.StatusOK, IndexBatchResponse{Success: true, Results: results})
		return
	}
	writeJSON(w, http.StatusOK, results[0])
}

func (s *Server) handleIndexBatch(w http.ResponseWriter, r *http.Request) {
	var req IndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	results := s.indexBatch(r.Context(), req.ClassFiles)
	writeJSON(w, http.StatusOK, IndexBatchResponse{Success: true, Results: results})
}

// indexBatch decodes each file concurrently, bounded to maxWorkers, per
// §4.3's "Decoding may be parallelized within a request over the supplied
// file list." Per-file failures are recorded, never abort the batch.
func (s *Server) indexBatch(ctx context.Context, files []string) []IndexResult {
	results := make([]IndexResult, len(files))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(s.maxWorkers)

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			results[i] = indexOne(f)
			return nil
		})
	}
	_ = g.Wait() // indexOne never returns an error to the group; per-file failures live in results[i]
	return results
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	files := req.ClassFiles
	if len(req.ClassDirs) > 0 || len(req.PackageRoots) > 0 {
		roots := append(append([]string{}, req.ClassDirs...), req.PackageRoots...)
		discovered, err := s.getOrBuildClasspath(roots)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		files = append(files, discovered...)
	}
	if req.Limit > 0 && len(files) > req.Limit {
		files = files[:req.Limit]
	}

	classes, err := s.analyzeBatch(r.Context(), files, req.Domains)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, AnalyzeResponse{Success: true, Classes: classes})
}

func (s *Server) analyzeBatch(ctx context.Context, files []string, domains []string) ([]AnalyzedClass, error) {
	type slot struct {
		class AnalyzedClass
		ok    bool
	}
	slots := make([]slot, len(files))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(s.maxWorkers)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			ac, ok, err := analyzeOne(f, "", domains)
			if err != nil {
				return nil // per-file decode errors do not abort the batch (§4.3)
			}
			slots[i] = slot{class: ac, ok: ok}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []AnalyzedClass
	for _, s := range slots {
		if s.ok {
			out = append(out, s.class)
		}
	}
	return out, nil
}

// getOrBuildClasspath returns the sorted class-file list under roots,
// serving it from the LRU cache when the canonical sorted-tuple key has
// been seen before and re-walking the filesystem only on a miss, per
// SPEC_FULL.md §9's getOrBuild(roots) -> *classpath design note.
func (s *Server) getOrBuildClasspath(roots []string) ([]string, error) {
	sorted := append([]string{}, roots...)
	sort.Strings(sorted)
	key := canonicalRootsKey(sorted)

	if cached, ok := s.rootCache.Get(key); ok {
		return cached, nil
	}

	files, err := fsutil.ListClassFilesUnder(sorted)
	if err != nil {
		return nil, err
	}
	s.rootCache.Add(key, files)
	return files, nil
}

func canonicalRootsKey(sortedRoots []string) string {
	key := ""
	for i, r := range sortedRoots {
		if i > 0 {
			key += "\x00"
		}
		key += r
	}
	return key
}

func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ShutdownResponse{Status: "shutting down"})
	close(s.shutdownCh)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorEnvelope{Error: err.Error()})
}
