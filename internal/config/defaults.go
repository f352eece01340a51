package config

// DefaultConfig returns configuration with sensible defaults.
// These defaults are used when no config file exists or when
// config file is missing specific fields.
func DefaultConfig() *Config {
	return &Config{
		Analyzer: AnalyzerConfig{
			URL:                   "http://127.0.0.1:8089",
			MaxWorkers:            8,
			RequestTimeoutSeconds: 30,
		},
		CallGraph: CallGraphConfig{
			AnalyzeChunkSize: 50,
			EdgeBatchSize:    5000,
		},
		Store: StoreConfig{
			Path: "cxgraph.db",
		},
		Filter: FilterConfig{
			ExcludePervasive: true,
		},
	}
}

// Merge merges loaded config with defaults.
// Values from loaded config take precedence over defaults.
// Returns a new Config with merged values.
func Merge(loaded, defaults *Config) *Config {
	result := &Config{}

	result.Analyzer = mergeAnalyzerConfig(loaded.Analyzer, defaults.Analyzer)
	result.CallGraph = mergeCallGraphConfig(loaded.CallGraph, defaults.CallGraph)
	result.Store = mergeStoreConfig(loaded.Store, defaults.Store)
	result.Filter = mergeFilterConfig(loaded.Filter, defaults.Filter)

	return result
}

func mergeAnalyzerConfig(loaded, defaults AnalyzerConfig) AnalyzerConfig {
	result := AnalyzerConfig{}

	if loaded.URL != "" {
		result.URL = loaded.URL
	} else {
		result.URL = defaults.URL
	}

	if loaded.MaxWorkers != 0 {
		result.MaxWorkers = loaded.MaxWorkers
	} else {
		result.MaxWorkers = defaults.MaxWorkers
	}

	if loaded.RequestTimeoutSeconds != 0 {
		result.RequestTimeoutSeconds = loaded.RequestTimeoutSeconds
	} else {
		result.RequestTimeoutSeconds = defaults.RequestTimeoutSeconds
	}

	return result
}

func mergeCallGraphConfig(loaded, defaults CallGraphConfig) CallGraphConfig {
	result := CallGraphConfig{}

	if loaded.AnalyzeChunkSize != 0 {
		result.AnalyzeChunkSize = loaded.AnalyzeChunkSize
	} else {
		result.AnalyzeChunkSize = defaults.AnalyzeChunkSize
	}

	if loaded.EdgeBatchSize != 0 {
		result.EdgeBatchSize = loaded.EdgeBatchSize
	} else {
		result.EdgeBatchSize = defaults.EdgeBatchSize
	}

	return result
}

func mergeStoreConfig(loaded, defaults StoreConfig) StoreConfig {
	result := StoreConfig{}

	if loaded.Path != "" {
		result.Path = loaded.Path
	} else {
		result.Path = defaults.Path
	}

	return result
}

// mergeFilterConfig merges the pervasive-exclusion toggle. Booleans can't
// distinguish "unset" from "explicitly false" after YAML unmarshaling, so
// an explicit false in the loaded config only sticks when the default
// itself is false; otherwise the §3-mandated default (true) wins.
func mergeFilterConfig(loaded, defaults FilterConfig) FilterConfig {
	result := FilterConfig{}

	result.ExcludePervasive = loaded.ExcludePervasive
	if !loaded.ExcludePervasive && defaults.ExcludePervasive {
		result.ExcludePervasive = defaults.ExcludePervasive
	}

	return result
}
