package symbolindex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/NicolasVautrin/cxgraph/internal/model"
)

// buildSymbolURI constructs the file:///… URI for one symbol per
// SPEC_FULL.md §4.4 step 4: prefer the .java source under sourcesDir, by
// package/name convention, when it resolves on disk; otherwise fall back
// to the .class file itself. For local packages, the resolved path is
// rewritten from the cache root (sourcesDir) to the project's own source
// tree, per §4.4's "local-package URI rewriting".
func buildSymbolURI(spec model.PackageSpec, classFile string, line *int) string {
	path := classFile
	if spec.SourcesDir != "" {
		if rel, err := filepath.Rel(spec.ClassesDir, classFile); err == nil {
			javaRel := strings.TrimSuffix(rel, ".class") + ".java"
			candidate := filepath.Join(spec.SourcesDir, javaRel)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}

	if spec.IsLocal && spec.ProjectSourceRoot != "" && spec.SourcesDir != "" && strings.HasPrefix(path, spec.SourcesDir) {
		rel := strings.TrimPrefix(path, spec.SourcesDir)
		path = filepath.Join(spec.ProjectSourceRoot, rel)
	}

	uri := "file://" + filepath.ToSlash(path)
	if line != nil {
		uri = fmt.Sprintf("%s:%d", uri, *line)
	}
	return uri
}
