package analysisservice

import (
	"testing"

	"github.com/NicolasVautrin/cxgraph/internal/classfile"
	"github.com/NicolasVautrin/cxgraph/internal/factemit"
)

func TestGroupFactsCarriesIsEntity(t *testing.T) {
	cv := &classfile.ClassView{FQN: "com.ex.db.Thing"}
	facts := factemit.Emit(cv, "p1")

	ac := groupFacts(cv, facts)
	if ac.IsEntity == nil || !*ac.IsEntity {
		t.Fatalf("IsEntity = %v, want true", ac.IsEntity)
	}

	nodes, _ := Ungroup(ac, "p1")
	if len(nodes) == 0 || nodes[0].IsEntity == nil || !*nodes[0].IsEntity {
		t.Fatalf("Ungroup class node IsEntity = %v, want true", nodes[0].IsEntity)
	}
}

func TestGroupFactsNonEntityStaysFalse(t *testing.T) {
	cv := &classfile.ClassView{FQN: "com.ex.svc.Plain"}
	facts := factemit.Emit(cv, "p1")

	ac := groupFacts(cv, facts)
	if ac.IsEntity == nil || *ac.IsEntity {
		t.Fatalf("IsEntity = %v, want false", ac.IsEntity)
	}
}
