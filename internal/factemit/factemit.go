// Package factemit implements the Fact Emitter (C2): translating one
// decoded classfile.ClassView into the stream of nodes and edges defined by
// the taxonomy in SPEC_FULL.md §3.
//
// The emit-then-resolve shape (collect facts from one decoded unit, defer
// cross-unit name resolution to a later stage) mirrors the teacher's
// internal/extract/callgraph.go ExtractDependencies pipeline, generalized
// here from a tree-sitter AST input to a classfile.ClassView input.
package factemit

import (
	"github.com/NicolasVautrin/cxgraph/internal/classfile"
	"github.com/NicolasVautrin/cxgraph/internal/model"
)

// transactionalAnnotations are the FQNs whose presence on a method marks
// it IsTransactional, per SPEC_FULL.md §4.2.
var transactionalAnnotations = map[string]bool{
	"org.springframework.transaction.annotation.Transactional": true,
	"javax.transaction.Transactional":                           true,
	"jakarta.transaction.Transactional":                         true,
}

const overrideAnnotation = "java.lang.Override"

// Facts is the flat fact stream produced from one ClassView: a node list
// and an edge list, emitted in the deterministic order C2's algorithm
// visits them.
type Facts struct {
	Nodes []model.Node
	Edges []model.Edge
}

// Emit translates one decoded class into its nodes and edges. pkg is the
// analyzing package name, recorded as every emitted node's and edge's
// from_package.
func Emit(cv *classfile.ClassView, pkg string) Facts {
	var f Facts

	classType := model.NodeClass
	switch {
	case cv.IsEnum:
		classType = model.NodeEnum
	case cv.IsInterface:
		classType = model.NodeInterface
	}

	classEntity := isEntityHeuristic(cv)
	f.Nodes = append(f.Nodes, model.Node{
		FQN:        cv.FQN,
		Type:       classType,
		Package:    pkg,
		Line:       model.NoLine,
		Visibility: model.Visibility(cv.Access.Visibility()),
		IsEntity:   classEntity,
	})

	if cv.SuperFQN != "" {
		f.Edges = append(f.Edges, model.Edge{
			FromFQN:     cv.FQN,
			EdgeType:    model.EdgeInheritance,
			ToFQN:       cv.SuperFQN,
			Kind:        model.KindExtends,
			FromPackage: pkg,
			FromLine:    model.NoLine,
		})
	}
	for _, iface := range cv.Interfaces {
		f.Edges = append(f.Edges, model.Edge{
			FromFQN:     cv.FQN,
			EdgeType:    model.EdgeInheritance,
			ToFQN:       iface,
			Kind:        model.KindImplements,
			FromPackage: pkg,
			FromLine:    model.NoLine,
		})
	}

	for _, field := range cv.Fields {
		if classfile.IsPervasive(field.Type) {
			continue
		}
		f.Edges = append(f.Edges, model.Edge{
			FromFQN:     field.Type,
			EdgeType:    model.EdgeMemberOf,
			ToFQN:       cv.FQN,
			Kind:        model.KindClass,
			FromPackage: pkg,
			FromLine:    model.NoLine,
		})
	}

	for _, m := range cv.Methods {
		methodFQN := cv.FQN + "." + m.Name + "(" + joinTypes(m.ParamTypes) + ")"

		hasOverride := false
		isTransactional := false
		for _, a := range m.AnnotationFQNs {
			if a == overrideAnnotation {
				hasOverride = true
			}
			if transactionalAnnotations[a] {
				isTransactional = true
			}
		}

		f.Nodes = append(f.Nodes, model.Node{
			FQN:             methodFQN,
			Type:            model.NodeMethod,
			Package:         pkg,
			Line:            m.Line,
			Visibility:      model.Visibility(m.Access.Visibility()),
			HasOverride:     hasOverride,
			IsTransactional: isTransactional,
		})

		f.Edges = append(f.Edges, model.Edge{
			FromFQN:     methodFQN,
			EdgeType:    model.EdgeMemberOf,
			ToFQN:       cv.FQN,
			Kind:        model.KindMethod,
			FromPackage: pkg,
			FromLine:    model.NoLine,
		})

		if !classfile.IsPervasive(m.ReturnType) {
			f.Edges = append(f.Edges, model.Edge{
				FromFQN:     m.ReturnType,
				EdgeType:    model.EdgeMemberOf,
				ToFQN:       methodFQN,
				Kind:        model.KindReturn,
				FromPackage: pkg,
				FromLine:    model.NoLine,
			})
		}

		for _, paramType := range m.ParamTypes {
			if classfile.IsPervasive(paramType) {
				continue
			}
			f.Edges = append(f.Edges, model.Edge{
				FromFQN:     paramType,
				EdgeType:    model.EdgeMemberOf,
				ToFQN:       methodFQN,
				Kind:        model.KindArgument,
				FromPackage: pkg,
				FromLine:    model.NoLine,
			})
		}

		for _, call := range m.Calls {
			kind := model.KindStandard
			if call.IsNew {
				kind = model.KindNew
			}
			f.Edges = append(f.Edges, model.Edge{
				FromFQN:     methodFQN,
				EdgeType:    model.EdgeCall,
				ToFQN:       call.TargetFQN,
				Kind:        kind,
				FromPackage: pkg,
				FromLine:    call.Line,
			})
		}
	}

	return f
}

func joinTypes(types []string) string {
	if len(types) == 0 {
		return ""
	}
	out := types[0]
	for _, t := range types[1:] {
		out += ", " + t
	}
	return out
}

// isEntityHeuristic reproduces the teacher's "entity" heuristic
// (SPEC_FULL.md §9 design note): a class is flagged as an entity if its
// superclass FQN contains "AuditableModel" or it lives in a ".db." package.
// This is carried only as an annotation; nothing downstream depends on it.
func isEntityHeuristic(cv *classfile.ClassView) *bool {
	entity := containsSubstring(cv.SuperFQN, "AuditableModel") || containsSubstring(cv.FQN, ".db.")
	return &entity
}

func containsSubstring(s, sub string) bool {
	if len(sub) == 0 {
		return true
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
