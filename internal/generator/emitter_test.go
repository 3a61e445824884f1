package generator

import (
	"bytes"
	"go/types"
	"strings"
	"testing"

	"github.com/mirrorlang/mirror/capability"
)

// buildScanFixture assembles a scan result by hand: one class with a field,
// a pointer-receiver method and a constructor, one enum, and one function
// with a defaulted trailing parameter.
func buildScanFixture(t *testing.T) (*Context, *ScanResult) {
	t.Helper()
	ctx := NewContext("example.com/geom", nil)

	point := namedType("example.com/geom", "geom", "Point", types.NewStruct(nil, nil))
	pointIdx := ctx.Registry.Register(point)
	f64 := types.Typ[types.Float64]
	f64Idx := ctx.Registry.Register(f64)
	intIdx := ctx.Registry.Register(types.Typ[types.Int])
	voidIdx := ctx.Registry.RegisterVoid()

	class := &ClassInfo{
		Name:      "Point",
		PkgPath:   "example.com/geom",
		TypeIndex: pointIdx,
		Named:     point,
		Caps:      capability.SetFields | capability.SetMethods | capability.SetConstructors,
		Annotations: []AnnotationInfo{
			{Expr: &Composite{Type: &Ref{PkgPath: "example.com/geom", Name: "Reflect"}}},
		},
		Fields: []FieldInfo{
			{Name: "X", TypeIndex: f64Idx, GoType: f64},
			{Name: "Y", TypeIndex: f64Idx, GoType: f64},
		},
		Methods: []MethodInfo{
			{
				Name:        "Scale",
				ReturnIndex: voidIdx,
				Params:      []ParamInfo{{Name: "f", TypeIndex: f64Idx, GoType: f64}},
				PtrRecv:     true,
			},
		},
		Constructors: []CtorInfo{
			{
				Name:       PrimaryCtorName,
				FuncName:   "NewPoint",
				NumResults: 1,
				Params: []ParamInfo{
					{Name: "x", TypeIndex: f64Idx, GoType: f64, Index: 0},
					{Name: "y", TypeIndex: f64Idx, GoType: f64, Index: 1},
				},
			},
		},
	}
	for _, f := range class.Fields {
		ctx.Accessors.AddGetter(f.Name, class)
		ctx.Accessors.AddSetter(f.Name, class)
	}
	ctx.Accessors.AddMethod("Scale", class)

	color := namedType("example.com/geom", "geom", "Color", types.Typ[types.Int])
	enum := &EnumInfo{
		Name:      "Color",
		PkgPath:   "example.com/geom",
		TypeIndex: ctx.Registry.Register(color),
		Caps:      capability.SetFields,
		Values: []EnumValueInfo{
			{ConstName: "ColorRed", Index: 0},
			{ConstName: "ColorGreen", Index: 1},
		},
	}

	fn := &FuncInfo{
		Name:        "Add",
		PkgPath:     "example.com/geom",
		ReturnIndex: intIdx,
		NumResults:  1,
		Params: []ParamInfo{
			{Name: "a", TypeIndex: intIdx, GoType: types.Typ[types.Int], Index: 0},
			{Name: "b", TypeIndex: intIdx, GoType: types.Typ[types.Int], Index: 1,
				Optional: true, Default: &Lit{Text: "10"}},
		},
	}

	return ctx, &ScanResult{
		Classes:   []*ClassInfo{class},
		Enums:     []*EnumInfo{enum},
		Functions: []*FuncInfo{fn},
	}
}

func TestEmitter_GeneratedFileShape(t *testing.T) {
	ctx, result := buildScanFixture(t)

	out, err := NewEmitter(ctx, result, "mirrordata").Emit()
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	src := string(out)

	wantFragments := []string{
		"// Code generated by mirror. DO NOT EDIT.",
		"package mirrordata",
		`Name: "example.com/geom.Point"`,
		"case src.Point:",
		"case *src.Point:",
		"r.Scale(args[0].(float64))",
		"src.NewPoint(a0, a1)",
		"mirror.NewUnsettableError",
		`{Name: "ColorRed", Index: 0, Value: src.ColorRed}`,
		"a1 := 10",
		"if len(pos) > 1 {",
		"func resolveType(v any) (int, bool)",
	}
	for _, want := range wantFragments {
		if !strings.Contains(src, want) {
			t.Errorf("generated source missing %q", want)
		}
	}
}

func TestEmitter_ConstructorChecksRequiredArgs(t *testing.T) {
	ctx, result := buildScanFixture(t)

	out, err := NewEmitter(ctx, result, "mirrordata").Emit()
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	src := string(out)

	if !strings.Contains(src, "if len(pos) < 2 {") {
		t.Error("constructor missing required-argument check")
	}
	if !strings.Contains(src, `mirror.NewMissingArgsError("Point", "new", 2, len(pos))`) {
		t.Error("constructor missing NewMissingArgsError call")
	}
}

func TestEmitter_AnnotationValueEmittedWhenConstructible(t *testing.T) {
	ctx, result := buildScanFixture(t)

	out, err := NewEmitter(ctx, result, "mirrordata").Emit()
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	if !strings.Contains(string(out), `{Source: "src.Reflect{}", Value: src.Reflect{}}`) {
		t.Error("constructible annotation should carry both Source and Value")
	}
}

func TestEmitter_RawAnnotationEmitsSourceOnly(t *testing.T) {
	ctx, result := buildScanFixture(t)
	result.Classes[0].Annotations = []AnnotationInfo{{Expr: &Raw{Text: "mystery()"}}}

	out, err := NewEmitter(ctx, result, "mirrordata").Emit()
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	src := string(out)

	if !strings.Contains(src, `{Source: "mystery()"}`) {
		t.Error("raw annotation should emit Source only")
	}
	if strings.Contains(src, "Value: mystery()") {
		t.Error("raw annotation must not reconstruct a Value")
	}
}

func TestEmitter_FunctionTrailingErrorPropagates(t *testing.T) {
	ctx, result := buildScanFixture(t)
	str := types.Typ[types.String]
	result.Functions = append(result.Functions, &FuncInfo{
		Name:        "Parse",
		PkgPath:     "example.com/geom",
		ReturnIndex: ctx.Registry.Register(namedType("example.com/geom", "geom", "Point", types.NewStruct(nil, nil))),
		NumResults:  2,
		ReturnsErr:  true,
		Params: []ParamInfo{
			{Name: "s", TypeIndex: ctx.Registry.Register(str), GoType: str, Index: 0},
		},
	})

	out, err := NewEmitter(ctx, result, "mirrordata").Emit()
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	src := string(out)

	if !strings.Contains(src, "v, err := src.Parse(pos[0].(string))") {
		t.Error("invoker should bind the trailing error result")
	}
	if !strings.Contains(src, "return v, err") {
		t.Error("invoker should propagate the trailing error")
	}
	if strings.Contains(src, "src.Parse(pos[0].(string)), nil") {
		t.Error("trailing error must not be discarded")
	}
}

func TestEmitter_StringOnlyAnnotationAddsNoImport(t *testing.T) {
	ctx, result := buildScanFixture(t)
	// An unexported cross-package reference: source string only, no value.
	result.Classes[0].Annotations = []AnnotationInfo{
		{Expr: &Composite{Type: &Ref{PkgPath: "example.com/extra", Name: "hidden"}}},
	}

	out, err := NewEmitter(ctx, result, "mirrordata").Emit()
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	src := string(out)

	if !strings.Contains(src, `{Source: "m1.hidden{}"}`) {
		t.Error("unconstructible annotation should still record its source")
	}
	if strings.Contains(src, `m1 "example.com/extra"`) {
		t.Error("string-only alias must not produce an import line")
	}
}

func TestEmitter_Deterministic(t *testing.T) {
	ctx, result := buildScanFixture(t)

	first, err := NewEmitter(ctx, result, "mirrordata").Emit()
	if err != nil {
		t.Fatalf("first Emit() error = %v", err)
	}
	second, err := NewEmitter(ctx, result, "mirrordata").Emit()
	if err != nil {
		t.Fatalf("second Emit() error = %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("repeated emission over unchanged input produced different bytes")
	}
}

func TestEmitter_EmptyResultStillFormats(t *testing.T) {
	ctx := NewContext("example.com/empty", nil)

	out, err := NewEmitter(ctx, &ScanResult{}, "").Emit()
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	src := string(out)

	if !strings.Contains(src, "package mirrordata") {
		t.Error("default package name not applied")
	}
	if strings.Contains(src, "capability") {
		t.Error("capability import should be omitted when nothing uses it")
	}
}
