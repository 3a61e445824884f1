package generator

import (
	"bytes"
	"strings"
	"testing"
)

func generateDemo(t *testing.T) *Result {
	t.Helper()
	res, err := Generate(Options{
		Entry:   "example.com/demo",
		Dir:     "testdata/demo",
		Package: "mirrordata",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return res
}

func TestGenerate_DemoModule(t *testing.T) {
	res := generateDemo(t)

	if res.Report.Classes != 3 {
		t.Errorf("Classes = %d, want 3", res.Report.Classes)
	}
	if res.Report.Enums != 1 {
		t.Errorf("Enums = %d, want 1", res.Report.Enums)
	}
	if res.Report.Functions != 2 {
		t.Errorf("Functions = %d, want 2", res.Report.Functions)
	}

	src := string(res.Source)
	wantFragments := []string{
		`Name: "example.com/demo.Point"`,
		"case src.Point:",
		"case *src.Point:",
		"src.NewPoint(",
		"src.NewPointOrigin(",
		`Name: "origin"`,
		`Name: "new"`,
		`{Name: "ColorRed", Index: 0, Value: src.ColorRed}`,
		`{Name: "ColorGreen", Index: 1, Value: src.ColorGreen}`,
		// Add's second parameter defaults to 10.
		"a1 := 10",
		"src.Add(",
		// Parse's trailing error result propagates.
		"v, err := src.Parse(pos[0].(string))",
		"return v, err",
	}
	for _, want := range wantFragments {
		if !strings.Contains(src, want) {
			t.Errorf("generated source missing %q", want)
		}
	}
}

func TestGenerate_GetterShapedMethodAppearsInBothViews(t *testing.T) {
	res := generateDemo(t)
	src := string(res.Source)

	// Norm is both a getter thunk entry and an invocable method.
	if !strings.Contains(src, `"Norm": func(recv any) any {`) {
		t.Error("Norm missing from the getter thunks")
	}
	if !strings.Contains(src, `"Norm": func(recv any, args []any) any {`) {
		t.Error("Norm missing from the method thunks")
	}
}

func TestGenerate_FieldSettersRequireAddressableReceiver(t *testing.T) {
	res := generateDemo(t)
	src := string(res.Source)

	if !strings.Contains(src, "r.X = value.(float64)") {
		t.Error("field setter thunk for X not emitted")
	}
	if !strings.Contains(src, "mirror.NewUnsettableError") {
		t.Error("setter thunk missing unsettable fallback")
	}
}

// scanDemo runs closure expansion and scanning only, for assertions on the
// scanned model rather than the emitted source.
func scanDemo(t *testing.T) (*Context, *ScanResult) {
	t.Helper()
	ctx := NewContext("example.com/demo", nil)
	pkgs, err := ExpandClosure(ctx, LoadConfig{Dir: "testdata/demo"})
	if err != nil {
		t.Fatalf("ExpandClosure() error = %v", err)
	}
	return ctx, NewScanner(ctx).Scan(pkgs)
}

func TestScan_EmbeddingMergesFieldsOwnWins(t *testing.T) {
	_, scan := scanDemo(t)

	var circle *ClassInfo
	for _, c := range scan.Classes {
		if c.Name == "Circle" {
			circle = c
		}
	}
	if circle == nil {
		t.Fatal("Circle not scanned")
	}

	names := make([]string, len(circle.Fields))
	for i, f := range circle.Fields {
		names[i] = f.Name
	}
	want := []string{"ID", "Radius", "Tag"}
	if len(names) != len(want) {
		t.Fatalf("fields = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("fields = %v, want %v (own before promoted)", names, want)
		}
	}

	// Circle's own ID shadows the embedded int field.
	if got := fieldNamed(circle, "ID").GoType.String(); got != "string" {
		t.Errorf("ID type = %s, want string", got)
	}
}

func TestScan_OverridingMethodInheritsAnnotations(t *testing.T) {
	ctx, scan := scanDemo(t)

	var circle *ClassInfo
	for _, c := range scan.Classes {
		if c.Name == "Circle" {
			circle = c
		}
	}
	if circle == nil {
		t.Fatal("Circle not scanned")
	}

	m := methodNamed(circle, "Describe")
	if m == nil {
		t.Fatal("Describe not collected on Circle")
	}
	if len(m.Annotations) != 1 {
		t.Fatalf("Describe annotations = %d, want 1 inherited from the embedded type", len(m.Annotations))
	}
	if got := Render(m.Annotations[0].Expr, ctx.Aliases); got != `src.Doc{Text: "describes the shape"}` {
		t.Errorf("inherited annotation = %q", got)
	}
}

func TestGenerate_GenericTypeSkipped(t *testing.T) {
	res := generateDemo(t)

	if strings.Contains(string(res.Source), "Box") {
		t.Error("generic declaration must not reach the generated payload")
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	first := generateDemo(t)
	second := generateDemo(t)

	if !bytes.Equal(first.Source, second.Source) {
		t.Error("two runs over unchanged input produced different bytes")
	}
}

func TestGenerate_RequiresEntry(t *testing.T) {
	if _, err := Generate(Options{}); err == nil {
		t.Error("Generate() without an entry package should fail")
	}
}

func TestIsStdlib(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"fmt", true},
		{"go/types", true},
		{"golang.org/x/tools/go/packages", false},
		{"example.com/demo", false},
	}
	for _, tc := range cases {
		if got := isStdlib(tc.path); got != tc.want {
			t.Errorf("isStdlib(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestSplitTopLevel(t *testing.T) {
	got := splitTopLevel(`a=1, b=Rule{Max: 3, Label: "x,y"}, c=f(1, 2)`)
	want := []string{"a=1", `b=Rule{Max: 3, Label: "x,y"}`, "c=f(1, 2)"}
	if len(got) != len(want) {
		t.Fatalf("splitTopLevel len = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitTopLevel[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMirrorCtorName(t *testing.T) {
	cases := []struct {
		suffix string
		want   string
	}{
		{"", "new"},
		{"Origin", "origin"},
		{"FromPolar", "fromPolar"},
		{"s", ""}, // belongs to a longer type name
	}
	for _, tc := range cases {
		if got := mirrorCtorName(tc.suffix); got != tc.want {
			t.Errorf("mirrorCtorName(%q) = %q, want %q", tc.suffix, got, tc.want)
		}
	}
}

func TestSetterProperty(t *testing.T) {
	if prop, ok := setterProperty("SetName"); !ok || prop != "Name" {
		t.Errorf("setterProperty(SetName) = %q, %v", prop, ok)
	}
	for _, name := range []string{"Set", "Settle", "Name"} {
		if _, ok := setterProperty(name); ok {
			t.Errorf("setterProperty(%q) unexpectedly matched", name)
		}
	}
}
