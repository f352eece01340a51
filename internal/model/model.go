// Package model defines the shared data types of the call-graph extraction
// and incremental indexing engine: the node/edge/symbol taxonomy produced by
// the analyzer and persisted by the store.
package model

// NodeType classifies a nodes row.
type NodeType string

const (
	NodeClass     NodeType = "class"
	NodeInterface NodeType = "interface"
	NodeEnum      NodeType = "enum"
	NodeMethod    NodeType = "method"
)

// Visibility classifies bytecode-derived access.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityPrivate   Visibility = "private"
	VisibilityProtected Visibility = "protected"
	VisibilityPackage   Visibility = "package"
)

// EdgeType is the top-level edge taxonomy of SPEC_FULL.md §3.
type EdgeType string

const (
	EdgeInheritance EdgeType = "inheritance"
	EdgeCall        EdgeType = "call"
	EdgeMemberOf    EdgeType = "member_of"
)

// Edge kinds, namespaced by EdgeType per the tie-break table.
const (
	KindExtends    = "extends"
	KindImplements = "implements"
	KindNew        = "new"
	KindStandard   = "standard"
	KindMethod     = "method"
	KindClass      = "class"
	KindReturn     = "return"
	KindArgument   = "argument"
)

// UnknownPackage is the literal string stored as to_package when an edge's
// target FQN cannot be resolved against the symbol index.
const UnknownPackage = "unknown"

// NoLine is the sentinel line value used when no line-number attribute is
// present for a method or call site.
const NoLine = -1

// PackageSpec is a caller-supplied unit of indexing and invalidation,
// corresponding to one compiled library version.
type PackageSpec struct {
	Name       string
	ClassesDir string
	SourcesDir string

	// IsLocal flags this package as part of the project under analysis;
	// when true, ProjectSourceRoot drives symbol URI rewriting (§4.4).
	IsLocal           bool
	ProjectSourceRoot string
}

// Symbol is a row of symbol_index: the FQN-to-(URI, package, line) mapping
// written by the Symbol Index Builder (C4) and read by the Call-Graph
// Builder (C5).
type Symbol struct {
	FQN     string
	URI     string
	Package string
	Line    *int
}

// Node is a row of nodes: one class/interface/enum/method fact.
type Node struct {
	FQN             string
	Type            NodeType
	Package         string
	Line            int
	Visibility      Visibility
	HasOverride     bool
	IsTransactional bool
	// IsEntity is a nullable heuristic annotation (SPEC_FULL.md §9
	// "Entity" detection design note): true when the class's superclass
	// FQN contains AuditableModel or it lives in a .db. package. It is
	// never used for resolution or correctness, only carried through.
	IsEntity *bool
}

// Edge is a row of edges: not deduplicated at insert time.
type Edge struct {
	FromFQN     string
	EdgeType    EdgeType
	ToFQN       string
	Kind        string
	FromPackage string
	ToPackage   string
	FromLine    int // NoLine when absent
}

// IndexMetadata is a row of index_metadata: the per-package content hash
// used for skip-vs-rebuild decisions.
type IndexMetadata struct {
	Package     string
	ContentHash string
	IndexedAt   int64 // unix seconds
}
