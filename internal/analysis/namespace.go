package analysis

// Namespace classifies a definition kind for symbol-resolution purposes
type Namespace string

const (
	// NamespaceType for type-like definitions
	NamespaceType Namespace = "type"
	// NamespaceValue for value-like definitions
	NamespaceValue Namespace = "value"
	// NamespaceMacro for macros
	NamespaceMacro Namespace = "macro"
)

// NamespaceOf maps a definition kind to its namespace. Imports have no
// namespace; for DefImport the second return value is false and callers
// must not treat the zero Namespace as meaningful.
func NamespaceOf(kind DefKind) (Namespace, bool) {
	switch kind {
	case DefEnum, DefTuple, DefStruct, DefType, DefTrait:
		return NamespaceType, true
	case DefFunction, DefMethod, DefMod, DefLocal, DefStatic, DefConst, DefField:
		return NamespaceValue, true
	case DefMacro:
		return NamespaceMacro, true
	}
	return "", false
}

// MustNamespaceOf is NamespaceOf for call sites that have already excluded
// imports. Calling it with DefImport is a contract breach and panics.
func MustNamespaceOf(kind DefKind) Namespace {
	ns, ok := NamespaceOf(kind)
	if !ok {
		panic("analysis: no namespace for kind " + string(kind))
	}
	return ns
}
