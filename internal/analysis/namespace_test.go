package analysis

import "testing"

func TestNamespaceOf(t *testing.T) {
	tests := []struct {
		kind DefKind
		want Namespace
		ok   bool
	}{
		{DefEnum, NamespaceType, true},
		{DefTuple, NamespaceType, true},
		{DefStruct, NamespaceType, true},
		{DefType, NamespaceType, true},
		{DefTrait, NamespaceType, true},
		{DefFunction, NamespaceValue, true},
		{DefMethod, NamespaceValue, true},
		{DefMod, NamespaceValue, true},
		{DefLocal, NamespaceValue, true},
		{DefStatic, NamespaceValue, true},
		{DefConst, NamespaceValue, true},
		{DefField, NamespaceValue, true},
		{DefMacro, NamespaceMacro, true},
		{DefImport, "", false},
	}

	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			ns, ok := NamespaceOf(tc.kind)
			if ok != tc.ok {
				t.Fatalf("NamespaceOf(%s) ok = %v, want %v", tc.kind, ok, tc.ok)
			}
			if ns != tc.want {
				t.Errorf("NamespaceOf(%s) = %q, want %q", tc.kind, ns, tc.want)
			}
		})
	}
}

func TestMustNamespaceOfPanicsOnImport(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustNamespaceOf(DefImport) did not panic")
		}
	}()
	MustNamespaceOf(DefImport)
}

func TestKnownFormat(t *testing.T) {
	for _, f := range []Format{FormatCsv, FormatJson, FormatJsonApi} {
		if !KnownFormat(f) {
			t.Errorf("KnownFormat(%s) = false", f)
		}
	}
	if KnownFormat(Format("Xml")) {
		t.Error("KnownFormat(Xml) = true")
	}
}
