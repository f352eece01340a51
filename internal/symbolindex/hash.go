package symbolindex

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/NicolasVautrin/cxgraph/internal/fsutil"
)

// HashPackage computes the hex SHA-256 digest over the byte concatenation
// of every *.class file under classesDir, visited in sorted relative-path
// order, per SPEC_FULL.md §4.4 step 1. Grounded on the teacher's
// internal/extract/hash.go ComputeFileHash, generalized from a single
// file's content to a deterministic multi-file concatenation.
func HashPackage(classesDir string) (string, error) {
	files, err := fsutil.ListClassFiles(classesDir)
	if err != nil {
		return "", fmt.Errorf("list class files under %s: %w", classesDir, err)
	}

	h := sha256.New()
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", f, err)
		}
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
