// Package analysis defines the typed shapes of save-analysis artifacts:
// the per-unit record produced by the compiler's analysis pass, its
// definitions, references, imports and macro-expansion sites, and the
// source spans attached to all of them.
package analysis

// Format identifies the source encoding of an artifact
type Format string

const (
	// FormatCsv is the legacy tabular encoding
	FormatCsv Format = "Csv"
	// FormatJson is the structured document encoding
	FormatJson Format = "Json"
	// FormatJsonApi is the structured encoding with API metadata
	FormatJsonApi Format = "JsonApi"
)

// KnownFormat reports whether f is a format this consumer understands
func KnownFormat(f Format) bool {
	switch f {
	case FormatCsv, FormatJson, FormatJsonApi:
		return true
	}
	return false
}

// Record is one compilation unit's decoded analysis document.
//
// Sequence order is insertion order from the producer. It is preserved for
// stable iteration but carries no further meaning.
type Record struct {
	Kind      Format     `json:"kind"`
	Prelude   *Prelude   `json:"prelude"`
	Imports   []Import   `json:"imports"`
	Defs      []Def      `json:"defs"`
	Refs      []Ref      `json:"refs"`
	MacroRefs []MacroRef `json:"macro_refs"`
}

// CompilerId is the compiler-assigned identity of a definition: the pair
// (unit index, local index). It is a weak reference — a plain value key for
// lookup in a caller-built index, never a dereferenceable pointer. The
// definition it names may live in a different unit or may not be loaded at
// all.
type CompilerId struct {
	Unit  uint32 `json:"krate"`
	Index uint32 `json:"index"`
}

// Prelude carries unit-level metadata emitted at the top of an artifact.
type Prelude struct {
	UnitName      string         `json:"crate_name"`
	UnitRoot      string         `json:"crate_root"`
	ExternalUnits []ExternalUnit `json:"external_crates"`
	Span          SpanData       `json:"span"`
}

// ExternalUnit references another compilation unit by name and index.
type ExternalUnit struct {
	Name     string `json:"name"`
	Num      uint32 `json:"num"`
	FileName string `json:"file_name"`
}

// Def is a single definition record.
type Def struct {
	Kind     DefKind      `json:"kind"`
	Id       CompilerId   `json:"id"`
	Span     SpanData     `json:"span"`
	Name     string       `json:"name"`
	QualName string       `json:"qualname"`
	Parent   *CompilerId  `json:"parent"`
	Children []CompilerId `json:"children"`
	Value    string       `json:"value"`
	Docs     string       `json:"docs"`
	Sig      *Signature   `json:"sig"`
}

// DefKind classifies a definition
type DefKind string

const (
	DefEnum     DefKind = "Enum"
	DefTuple    DefKind = "Tuple"
	DefStruct   DefKind = "Struct"
	DefTrait    DefKind = "Trait"
	DefFunction DefKind = "Function"
	DefMethod   DefKind = "Method"
	DefMacro    DefKind = "Macro"
	DefMod      DefKind = "Mod"
	DefType     DefKind = "Type"
	DefLocal    DefKind = "Local"
	DefStatic   DefKind = "Static"
	DefConst    DefKind = "Const"
	DefField    DefKind = "Field"
	DefImport   DefKind = "Import"
)

// Signature is a rendered signature for hover and navigation: the signature
// text plus marked sub-ranges that are themselves definitions or references.
type Signature struct {
	Span       SpanData     `json:"span"`
	Text       string       `json:"text"`
	IdentStart int          `json:"ident_start"`
	IdentEnd   int          `json:"ident_end"`
	Defs       []SigElement `json:"defs"`
	Refs       []SigElement `json:"refs"`
}

// SigElement marks a sub-range of a signature's text.
type SigElement struct {
	Id    CompilerId `json:"id"`
	Start int        `json:"start"`
	End   int        `json:"end"`
}

// Ref is one occurrence of a reference to a definition.
type Ref struct {
	Kind  RefKind    `json:"kind"`
	Span  SpanData   `json:"span"`
	RefId CompilerId `json:"ref_id"`
}

// RefKind classifies a reference occurrence
type RefKind string

const (
	RefFunction RefKind = "Function"
	RefMod      RefKind = "Mod"
	RefType     RefKind = "Type"
	RefVariable RefKind = "Variable"
)

// MacroRef records a macro invocation site.
type MacroRef struct {
	Span       SpanData `json:"span"`
	QualName   string   `json:"qualname"`
	CalleeSpan SpanData `json:"callee_span"`
}

// Import is a single import record.
type Import struct {
	Kind  ImportKind  `json:"kind"`
	RefId *CompilerId `json:"ref_id"`
	Span  SpanData    `json:"span"`
	Name  string      `json:"name"`
	Value string      `json:"value"`
}

// ImportKind classifies an import
type ImportKind string

const (
	ImportExternUnit ImportKind = "ExternCrate"
	ImportUse        ImportKind = "Use"
	ImportGlobUse    ImportKind = "GlobUse"
)

// SpanData is a source range. Purely descriptive; line and column fields
// are 1-based, byte offsets 0-based.
type SpanData struct {
	FileName    string `json:"file_name"`
	ByteStart   uint32 `json:"byte_start"`
	ByteEnd     uint32 `json:"byte_end"`
	LineStart   int    `json:"line_start"`
	LineEnd     int    `json:"line_end"`
	ColumnStart int    `json:"column_start"`
	ColumnEnd   int    `json:"column_end"`
}
