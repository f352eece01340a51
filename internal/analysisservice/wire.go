// Package analysisservice implements the Analysis Service (C3): a
// long-lived, stateless-across-requests worker exposing the five-route
// HTTP wire protocol of SPEC_FULL.md §6, decoding class files via
// classfile.Decode and emitting facts via factemit.Emit with bounded
// per-request concurrency.
//
// The JSON request/response envelope and the client's dial-and-retry idiom
// are grounded on the teacher's internal/daemon/socket.go (Request/Response
// structs, Client.Send, exponential-backoff WaitForDaemon), re-platformed
// here from a Unix socket to the HTTP loopback transport §6 specifies.
package analysisservice

// HealthResponse is the /health response body.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// SymbolEntry is one symbol contributed by a decoded class, per §4.3's
// IndexSymbols per-class record shape.
type SymbolEntry struct {
	FQN      string `json:"fqn"`
	NodeType string `json:"nodeType"`
	Line     *int   `json:"line,omitempty"`
}

// IndexResult is the per-file record of /index and /index/batch, matching
// §6's `{success, class_fqn, is_entity, symbols[]}` wire shape, with the
// `skipped` enum short-circuit of §9's enum-handling design note folded
// in, and the `nodeType`/`isEnum` fields §4.3's operation description also
// names.
type IndexResult struct {
	Success  bool          `json:"success"`
	ClassFQN string        `json:"class_fqn,omitempty"`
	NodeType string        `json:"nodeType,omitempty"`
	IsEnum   bool          `json:"isEnum,omitempty"`
	IsEntity *bool         `json:"is_entity,omitempty"`
	Symbols  []SymbolEntry `json:"symbols,omitempty"`
	Skipped  string        `json:"skipped,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// IndexRequest is the /index and /index/batch request body; either
// ClassFile (singular) or ClassFiles (batch) is populated.
type IndexRequest struct {
	ClassFile  string   `json:"classFile,omitempty"`
	ClassFiles []string `json:"classFiles,omitempty"`
}

// IndexBatchResponse is the /index/batch response body.
type IndexBatchResponse struct {
	Success bool          `json:"success"`
	Results []IndexResult `json:"results"`
}

// AnalyzeRequest is the /analyze request body.
type AnalyzeRequest struct {
	PackageRoots []string `json:"packageRoots,omitempty"`
	ClassDirs    []string `json:"classDirs,omitempty"`
	ClassFiles   []string `json:"classFiles,omitempty"`
	Domains      []string `json:"domains,omitempty"`
	Limit        int      `json:"limit,omitempty"`
}

// AnalyzedField is one field of a grouped class record.
type AnalyzedField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// AnalyzedCall is one call site within a grouped method record.
type AnalyzedCall struct {
	ToFQN string `json:"toFqn"`
	Kind  string `json:"kind"` // "new" | "standard"
	Line  int    `json:"line"`
}

// AnalyzedMethod is one method of a grouped class record.
type AnalyzedMethod struct {
	FQN             string         `json:"fqn"`
	Line            int            `json:"line"`
	Modifiers       string         `json:"modifiers"`
	HasOverride     bool           `json:"hasOverride"`
	IsTransactional bool           `json:"isTransactional"`
	ReturnType      string         `json:"returnType"`
	Arguments       []string       `json:"arguments"`
	Calls           []AnalyzedCall `json:"calls"`
}

// AnalyzedClass is one grouped class record of the /analyze response, per
// §4.3's "regroup the flat nodes/edges into a per-class structure".
type AnalyzedClass struct {
	FQN       string `json:"fqn"`
	NodeType  string `json:"nodeType"`
	Modifiers string `json:"modifiers"`
	// Extends and Implements together form the wire protocol's
	// "inheritance[]" list of SPEC_FULL.md §4.3, split by kind so C5 can
	// reconstruct the extends/implements distinction the edge taxonomy
	// of §3 requires without a second round trip.
	Extends    string           `json:"extends,omitempty"`
	Implements []string         `json:"implements,omitempty"`
	IsEntity   *bool            `json:"is_entity,omitempty"`
	Fields     []AnalyzedField  `json:"fields"`
	Methods    []AnalyzedMethod `json:"methods"`
}

// AnalyzeResponse is the /analyze response body.
type AnalyzeResponse struct {
	Success bool            `json:"success"`
	Classes []AnalyzedClass `json:"classes"`
}

// ShutdownResponse is the /shutdown response body.
type ShutdownResponse struct {
	Status string `json:"status"`
}

// ErrorEnvelope is the typed error body for rejected (4xx) and internal
// (5xx) failures.
type ErrorEnvelope struct {
	Error string `json:"error"`
}
