package analysisservice

import (
	"github.com/NicolasVautrin/cxgraph/internal/classfile"
	"github.com/NicolasVautrin/cxgraph/internal/factemit"
	"github.com/NicolasVautrin/cxgraph/internal/model"
)

// groupFacts regroups one class's flat fact stream into the per-class
// wire shape §6 specifies, per the design note in SPEC_FULL.md §9: the
// analyzer emits flat edges internally (factemit.Emit) and regroups them
// before responding, so the fact count per response is bounded by class
// count rather than edge count.
func groupFacts(cv *classfile.ClassView, facts factemit.Facts) AnalyzedClass {
	ac := AnalyzedClass{
		FQN:      cv.FQN,
		NodeType: string(classNodeType(cv)),
	}
	if len(facts.Nodes) > 0 {
		ac.Modifiers = string(facts.Nodes[0].Visibility)
	}
	for _, n := range facts.Nodes {
		if n.FQN == cv.FQN {
			ac.IsEntity = n.IsEntity
			break
		}
	}

	for _, f := range cv.Fields {
		ac.Fields = append(ac.Fields, AnalyzedField{Name: f.Name, Type: f.Type})
	}

	for _, e := range facts.Edges {
		if e.EdgeType != model.EdgeInheritance {
			continue
		}
		if e.Kind == model.KindExtends {
			ac.Extends = e.ToFQN
		} else {
			ac.Implements = append(ac.Implements, e.ToFQN)
		}
	}

	methodByFQN := map[string]*AnalyzedMethod{}
	var order []string
	methodOf := func(fqn string) *AnalyzedMethod {
		if m, ok := methodByFQN[fqn]; ok {
			return m
		}
		m := &AnalyzedMethod{FQN: fqn, Line: model.NoLine}
		methodByFQN[fqn] = m
		order = append(order, fqn)
		return m
	}

	for _, n := range facts.Nodes {
		if n.Type != model.NodeMethod {
			continue
		}
		m := methodOf(n.FQN)
		m.Line = n.Line
		m.Modifiers = string(n.Visibility)
		m.HasOverride = n.HasOverride
		m.IsTransactional = n.IsTransactional
	}

	for _, e := range facts.Edges {
		switch {
		case e.EdgeType == model.EdgeMemberOf && e.Kind == model.KindReturn:
			methodOf(e.ToFQN).ReturnType = e.FromFQN
		case e.EdgeType == model.EdgeMemberOf && e.Kind == model.KindArgument:
			m := methodOf(e.ToFQN)
			m.Arguments = append(m.Arguments, e.FromFQN)
		case e.EdgeType == model.EdgeCall:
			m := methodOf(e.FromFQN)
			m.Calls = append(m.Calls, AnalyzedCall{ToFQN: e.ToFQN, Kind: e.Kind, Line: e.FromLine})
		}
	}

	for _, fqn := range order {
		ac.Methods = append(ac.Methods, *methodByFQN[fqn])
	}

	return ac
}

// Ungroup reverses groupFacts, reconstructing the flat model.Node/model.Edge
// stream the Call-Graph Builder (C5) persists, from a grouped AnalyzedClass
// the wire protocol handed back. from_package is pkg; to_package is left
// empty for the caller to resolve against the symbol index.
func Ungroup(ac AnalyzedClass, pkg string) (nodes []model.Node, edges []model.Edge) {
	classLine := model.NoLine
	nodes = append(nodes, model.Node{
		FQN:        ac.FQN,
		Type:       model.NodeType(ac.NodeType),
		Package:    pkg,
		Line:       classLine,
		Visibility: model.Visibility(ac.Modifiers),
		IsEntity:   ac.IsEntity,
	})

	if ac.Extends != "" {
		edges = append(edges, model.Edge{
			FromFQN: ac.FQN, EdgeType: model.EdgeInheritance, ToFQN: ac.Extends, Kind: model.KindExtends,
			FromPackage: pkg, FromLine: model.NoLine,
		})
	}
	for _, to := range ac.Implements {
		edges = append(edges, model.Edge{
			FromFQN: ac.FQN, EdgeType: model.EdgeInheritance, ToFQN: to, Kind: model.KindImplements,
			FromPackage: pkg, FromLine: model.NoLine,
		})
	}

	for _, f := range ac.Fields {
		if classfile.IsPervasive(f.Type) {
			continue
		}
		edges = append(edges, model.Edge{
			FromFQN: f.Type, EdgeType: model.EdgeMemberOf, ToFQN: ac.FQN, Kind: model.KindClass,
			FromPackage: pkg, FromLine: model.NoLine,
		})
	}

	for _, m := range ac.Methods {
		nodes = append(nodes, model.Node{
			FQN: m.FQN, Type: model.NodeMethod, Package: pkg, Line: m.Line,
			Visibility: model.Visibility(m.Modifiers), HasOverride: m.HasOverride, IsTransactional: m.IsTransactional,
		})
		edges = append(edges, model.Edge{
			FromFQN: m.FQN, EdgeType: model.EdgeMemberOf, ToFQN: ac.FQN, Kind: model.KindMethod,
			FromPackage: pkg, FromLine: model.NoLine,
		})
		if m.ReturnType != "" && !classfile.IsPervasive(m.ReturnType) {
			edges = append(edges, model.Edge{
				FromFQN: m.ReturnType, EdgeType: model.EdgeMemberOf, ToFQN: m.FQN, Kind: model.KindReturn,
				FromPackage: pkg, FromLine: model.NoLine,
			})
		}
		for _, arg := range m.Arguments {
			if classfile.IsPervasive(arg) {
				continue
			}
			edges = append(edges, model.Edge{
				FromFQN: arg, EdgeType: model.EdgeMemberOf, ToFQN: m.FQN, Kind: model.KindArgument,
				FromPackage: pkg, FromLine: model.NoLine,
			})
		}
		for _, c := range m.Calls {
			edges = append(edges, model.Edge{
				FromFQN: m.FQN, EdgeType: model.EdgeCall, ToFQN: c.ToFQN, Kind: c.Kind,
				FromPackage: pkg, FromLine: c.Line,
			})
		}
	}

	return nodes, edges
}
