package analysisservice

import (
	"fmt"
	"os"

	"github.com/NicolasVautrin/cxgraph/internal/classfile"
	"github.com/NicolasVautrin/cxgraph/internal/factemit"
	"github.com/NicolasVautrin/cxgraph/internal/model"
)

// decodeFile reads and decodes one class file from disk — the single
// blocking point within per-file work, per SPEC_FULL.md §5.
func decodeFile(path string) (*classfile.ClassView, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	cv, err := classfile.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, classfile.ErrMalformedClass)
	}
	return cv, nil
}

// indexOne decodes one class file and returns its IndexResult. Enums are
// short-circuited per §9's enum-handling design note: they contribute no
// symbols beyond themselves.
func indexOne(path string) IndexResult {
	cv, err := decodeFile(path)
	if err != nil {
		return IndexResult{Success: false, Error: err.Error()}
	}

	if cv.IsEnum {
		return IndexResult{Success: true, ClassFQN: cv.FQN, NodeType: "enum", IsEnum: true, Skipped: "enum"}
	}

	facts := factemit.Emit(cv, "")
	symbols := make([]SymbolEntry, 0, len(facts.Nodes))
	var isEntity *bool
	nodeType := string(classNodeType(cv))
	for _, n := range facts.Nodes {
		entry := SymbolEntry{FQN: n.FQN, NodeType: string(n.Type)}
		if n.Type == model.NodeMethod && n.Line != model.NoLine {
			line := n.Line
			entry.Line = &line
		}
		symbols = append(symbols, entry)
		if n.FQN == cv.FQN {
			isEntity = n.IsEntity
		}
	}

	return IndexResult{
		Success:  true,
		ClassFQN: cv.FQN,
		NodeType: nodeType,
		IsEntity: isEntity,
		Symbols:  symbols,
	}
}

func classNodeType(cv *classfile.ClassView) model.NodeType {
	switch {
	case cv.IsEnum:
		return model.NodeEnum
	case cv.IsInterface:
		return model.NodeInterface
	default:
		return model.NodeClass
	}
}

// analyzeOne decodes one class file, runs C2, and regroups its flat facts
// into the per-class wire shape of §6, matching domain filtering if
// prefixes are supplied.
func analyzeOne(path string, pkg string, domains []string) (AnalyzedClass, bool, error) {
	cv, err := decodeFile(path)
	if err != nil {
		return AnalyzedClass{}, false, err
	}
	if len(domains) > 0 && !matchesAnyPrefix(cv.FQN, domains) {
		return AnalyzedClass{}, false, nil
	}

	facts := factemit.Emit(cv, pkg)
	return groupFacts(cv, facts), true, nil
}

func matchesAnyPrefix(fqn string, prefixes []string) bool {
	for _, p := range prefixes {
		if len(fqn) >= len(p) && fqn[:len(p)] == p {
			return true
		}
	}
	return false
}
