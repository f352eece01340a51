// Package config loads cxgraph's tuning knobs: analyzer connection
// settings, batch/worker bounds, and the pervasive-type filter toggle.
// Directory discovery (FindConfigDir walking up from a start directory)
// and the Load/Merge/Validate/SaveDefault shape follow the teacher's
// internal/config/config.go verbatim; the fields themselves are
// SPEC_FULL.md's own (§2.1 Ambient Stack, §5 Concurrency & Resource
// Model, §9 pervasive-type filter design note).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the cxgraph configuration file.
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the cxgraph configuration directory.
const ConfigDirName = ".cxgraph"

// Config holds all cxgraph configuration.
type Config struct {
	Analyzer  AnalyzerConfig  `yaml:"analyzer"`
	CallGraph CallGraphConfig `yaml:"call_graph"`
	Store     StoreConfig     `yaml:"store"`
	Filter    FilterConfig    `yaml:"filter"`
}

// AnalyzerConfig configures the orchestrator's connection to the Analysis
// Service (C3) and the service's bounded worker pool. RequestTimeoutSeconds
// is one fixed timeout applied to every request; it does not scale with
// the number of class files in a batch.
type AnalyzerConfig struct {
	URL                   string `yaml:"url"`
	MaxWorkers            int    `yaml:"max_workers"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
}

// CallGraphConfig tunes the Call-Graph Builder's (C5) request chunking and
// batch-commit sizes, per §4.5 and §4.6.
type CallGraphConfig struct {
	AnalyzeChunkSize int `yaml:"analyze_chunk_size"`
	EdgeBatchSize    int `yaml:"edge_batch_size"`
}

// StoreConfig names the database file the orchestrator opens (C6).
type StoreConfig struct {
	Path string `yaml:"path"`
}

// FilterConfig holds the pervasive-base-type exclusion toggle of §3/§9.
// The field is loaded and merged but read by no other package: the
// exclusion is always applied, and mergeFilterConfig replaces an explicit
// false with the default (true).
type FilterConfig struct {
	ExcludePervasive bool `yaml:"exclude_pervasive"`
}

// ErrConfigNotFound is returned when no config file can be found.
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails.
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .cxgraph/config.yaml, falling back to defaults.
// It searches for the config directory starting from workDir and walking
// up the directory tree. If no config is found, returns defaults.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		return DefaultConfig(), nil
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	return LoadFromPath(configPath)
}

// LoadFromPath reads config from a specific path. Merges loaded config
// with defaults and validates the result.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	merged := Merge(loaded, DefaultConfig())

	if err := Validate(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// FindConfigDir locates the .cxgraph directory by walking up from
// startDir.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates the .cxgraph directory if it doesn't exist.
func EnsureConfigDir(workDir string) (string, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	configDir := filepath.Join(absDir, ConfigDirName)

	info, err := os.Stat(configDir)
	if err == nil {
		if info.IsDir() {
			return configDir, nil
		}
		return "", fmt.Errorf("%s exists but is not a directory", configDir)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	return configDir, nil
}

// Validate checks that config values are valid.
func Validate(cfg *Config) error {
	if cfg.Analyzer.MaxWorkers <= 0 {
		return fmt.Errorf("%w: analyzer.max_workers must be positive, got %d",
			ErrInvalidConfig, cfg.Analyzer.MaxWorkers)
	}
	if cfg.Analyzer.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("%w: analyzer.request_timeout_seconds must be positive, got %d",
			ErrInvalidConfig, cfg.Analyzer.RequestTimeoutSeconds)
	}
	if cfg.CallGraph.AnalyzeChunkSize <= 0 {
		return fmt.Errorf("%w: call_graph.analyze_chunk_size must be positive, got %d",
			ErrInvalidConfig, cfg.CallGraph.AnalyzeChunkSize)
	}
	if cfg.CallGraph.EdgeBatchSize <= 0 {
		return fmt.Errorf("%w: call_graph.edge_batch_size must be positive, got %d",
			ErrInvalidConfig, cfg.CallGraph.EdgeBatchSize)
	}
	if cfg.Store.Path == "" {
		return fmt.Errorf("%w: store.path must be set", ErrInvalidConfig)
	}
	return nil
}

// SaveDefault writes the default configuration to .cxgraph/config.yaml in
// workDir. Creates the .cxgraph directory if it doesn't exist.
func SaveDefault(workDir string) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}

	header := "# cxgraph configuration\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return configPath, nil
}
