// Package fsutil provides the deterministic, sorted-by-relative-path class
// file enumeration shared by C3 (discovering files under a submitted root),
// C4 (hashing a package's classesDir), and C5 (walking a package's classes).
package fsutil

import (
	"os"
	"path/filepath"
	"sort"
)

// ListClassFiles returns every "*.class" file under root, sorted by path
// relative to root, per the deterministic visiting order SPEC_FULL.md §4.4
// and §4.5 both require.
func ListClassFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) == ".class" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rels := make([]string, len(files))
	byRel := make(map[string]string, len(files))
	for i, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			rel = f
		}
		rels[i] = rel
		byRel[rel] = f
	}
	sort.Strings(rels)

	sorted := make([]string, len(rels))
	for i, rel := range rels {
		sorted[i] = byRel[rel]
	}
	return sorted, nil
}

// ListClassFilesUnder enumerates class files across multiple roots,
// preserving each root's own sorted order and visiting roots in the order
// supplied.
func ListClassFilesUnder(roots []string) ([]string, error) {
	var all []string
	for _, root := range roots {
		files, err := ListClassFiles(root)
		if err != nil {
			return nil, err
		}
		all = append(all, files...)
	}
	return all, nil
}
