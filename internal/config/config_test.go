package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("DefaultConfig() failed validation: %v", err)
	}
}

func TestLoadFromPathMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFromPath(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Analyzer.URL != DefaultConfig().Analyzer.URL {
		t.Errorf("expected defaults when no file present, got %+v", cfg)
	}
}

func TestLoadFromPathMergesPartialConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "analyzer:\n  max_workers: 16\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Analyzer.MaxWorkers != 16 {
		t.Errorf("Analyzer.MaxWorkers = %d, want 16", cfg.Analyzer.MaxWorkers)
	}
	if cfg.Store.Path != DefaultConfig().Store.Path {
		t.Errorf("Store.Path = %q, want default %q", cfg.Store.Path, DefaultConfig().Store.Path)
	}
}

func TestLoadFromPathInvalidConfigFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "call_graph:\n  analyze_chunk_size: -1\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatal("expected validation error for negative analyze_chunk_size")
	}
}

func TestFindConfigDirWalksUpTree(t *testing.T) {
	root := t.TempDir()
	if _, err := EnsureConfigDir(root); err != nil {
		t.Fatalf("EnsureConfigDir: %v", err)
	}

	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir nested: %v", err)
	}

	found, err := FindConfigDir(nested)
	if err != nil {
		t.Fatalf("FindConfigDir: %v", err)
	}
	want := filepath.Join(root, ConfigDirName)
	if found != want {
		t.Errorf("FindConfigDir = %q, want %q", found, want)
	}
}

func TestFindConfigDirNotFound(t *testing.T) {
	root := t.TempDir()
	if _, err := FindConfigDir(root); err == nil {
		t.Fatal("expected ErrConfigNotFound")
	}
}

func TestSaveDefaultThenLoad(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveDefault(dir)
	if err != nil {
		t.Fatalf("SaveDefault: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Store.Path != DefaultConfig().Store.Path {
		t.Errorf("round-tripped Store.Path = %q, want %q", cfg.Store.Path, DefaultConfig().Store.Path)
	}
}

func TestSaveDefaultRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	if _, err := SaveDefault(dir); err != nil {
		t.Fatalf("SaveDefault (first): %v", err)
	}
	if _, err := SaveDefault(dir); err == nil {
		t.Fatal("expected second SaveDefault to fail, config already exists")
	}
}

func TestValidateRejectsZeroValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"max workers", func(c *Config) { c.Analyzer.MaxWorkers = 0 }},
		{"request timeout", func(c *Config) { c.Analyzer.RequestTimeoutSeconds = 0 }},
		{"analyze chunk size", func(c *Config) { c.CallGraph.AnalyzeChunkSize = 0 }},
		{"edge batch size", func(c *Config) { c.CallGraph.EdgeBatchSize = 0 }},
		{"store path", func(c *Config) { c.Store.Path = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Errorf("expected Validate to reject %s", tc.name)
			}
		})
	}
}
