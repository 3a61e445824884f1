package generator

import (
	"bytes"
	"fmt"
	"go/format"
	"go/types"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/mirrorlang/mirror/capability"
	"github.com/mirrorlang/mirror/runtime/mirror"
)

// runtimePkg is the import path of the runtime facade the generated file
// feeds.
const runtimePkg = "github.com/mirrorlang/mirror/runtime/mirror"

// capabilityPkg is the import path of the capability marker package.
const capabilityPkg = "github.com/mirrorlang/mirror/capability"

// Emitter serializes one scan result into a Go source file. Sections are
// written in a fixed order (type table, invoker maps, classes, enums,
// functions, resolver) with sorted map keys, so repeated runs over unchanged
// input produce byte-identical output.
type Emitter struct {
	ctx     *Context
	result  *ScanResult
	pkgName string
}

// NewEmitter creates an emitter for one scan result. pkgName is the package
// name of the generated file.
func NewEmitter(ctx *Context, result *ScanResult, pkgName string) *Emitter {
	if pkgName == "" {
		pkgName = "mirrordata"
	}
	return &Emitter{ctx: ctx, result: result, pkgName: pkgName}
}

// Emit renders the generated file and runs it through go/format. The body is
// rendered before the import block because alias allocation happens on
// demand during body rendering.
func (e *Emitter) Emit() ([]byte, error) {
	var body bytes.Buffer
	e.emitPayload(&body)
	e.emitTypes(&body)
	e.emitGetters(&body)
	e.emitSetters(&body)
	e.emitMethods(&body)
	e.emitClasses(&body)
	e.emitEnums(&body)
	e.emitFunctions(&body)
	e.emitResolve(&body)

	var file bytes.Buffer
	fmt.Fprintf(&file, "// Code generated by mirror. DO NOT EDIT.\n")
	fmt.Fprintf(&file, "//\n// Entry: %s\n\n", e.ctx.Entry)
	fmt.Fprintf(&file, "package %s\n\n", e.pkgName)
	file.WriteString("import (\n")
	fmt.Fprintf(&file, "\tmirror %q\n", runtimePkg)
	if len(e.result.Classes) > 0 || len(e.result.Enums) > 0 {
		fmt.Fprintf(&file, "\tcapability %q\n", capabilityPkg)
	}
	for _, line := range e.ctx.Aliases.Imports() {
		fmt.Fprintf(&file, "\t%s\n", line)
	}
	file.WriteString(")\n\n")
	file.Write(body.Bytes())

	out, err := format.Source(file.Bytes())
	if err != nil {
		e.ctx.Log.Error("generated source failed to format", zap.Error(err))
		return nil, fmt.Errorf("failed to format generated source: %w", err)
	}
	return out, nil
}

func (e *Emitter) emitPayload(b *bytes.Buffer) {
	b.WriteString("// NewPayload builds the reflection payload for the scanned closure.\n")
	b.WriteString("func NewPayload() *mirror.Payload {\n")
	b.WriteString("\treturn &mirror.Payload{\n")
	b.WriteString("\t\tTypes:     payloadTypes(),\n")
	b.WriteString("\t\tGetters:   payloadGetters(),\n")
	b.WriteString("\t\tSetters:   payloadSetters(),\n")
	b.WriteString("\t\tMethods:   payloadMethods(),\n")
	b.WriteString("\t\tClasses:   payloadClasses(),\n")
	b.WriteString("\t\tEnums:     payloadEnums(),\n")
	b.WriteString("\t\tFunctions: payloadFunctions(),\n")
	b.WriteString("\t\tResolve:   resolveType,\n")
	b.WriteString("\t}\n}\n\n")
	b.WriteString("// Init installs the payload into the runtime registry.\n")
	b.WriteString("func Init() error {\n")
	b.WriteString("\treturn mirror.Initialize(NewPayload())\n")
	b.WriteString("}\n\n")
}

func (e *Emitter) emitTypes(b *bytes.Buffer) {
	b.WriteString("func payloadTypes() []mirror.TypeRecord {\n")
	b.WriteString("\treturn []mirror.TypeRecord{\n")
	for _, entry := range e.ctx.Registry.Entries() {
		b.WriteString("\t\t{")
		switch entry.Kind {
		case mirror.KindAny:
			b.WriteString("Kind: mirror.KindAny")
		case mirror.KindVoid:
			b.WriteString("Kind: mirror.KindVoid")
		default:
			fmt.Fprintf(b, "Kind: mirror.KindNominal, Name: %q", entry.Name)
			if len(entry.Args) > 0 {
				b.WriteString(", TypeArgs: []int{")
				for i, a := range entry.Args {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(strconv.Itoa(a))
				}
				b.WriteString("}")
			}
			if entry.Nullable {
				b.WriteString(", Nullable: true")
			}
		}
		b.WriteString("},\n")
	}
	b.WriteString("\t}\n}\n\n")
}

// writeRecvSwitch wraps rendered receiver cases in a type switch. An empty
// case set skips the switch so the bound variable is never left unused.
func writeRecvSwitch(b *bytes.Buffer, cases *bytes.Buffer) {
	if cases.Len() == 0 {
		return
	}
	b.WriteString("\t\t\tswitch r := recv.(type) {\n")
	b.Write(cases.Bytes())
	b.WriteString("\t\t\t}\n")
}

// sortedNames returns the keys of an accessor set in sorted order.
func sortedNames(m map[string][]*ClassInfo) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// codePrefix renders an alias prefix for emitted code, marking the import
// used. String metadata goes through the plain Prefix instead.
func (e *Emitter) codePrefix(pkgPath string) string {
	e.ctx.Aliases.MarkUsed(pkgPath)
	return e.ctx.Aliases.Prefix(pkgPath)
}

// classRef renders the alias-qualified name of a class's type.
func (e *Emitter) classRef(c *ClassInfo) string {
	return e.codePrefix(c.PkgPath) + c.Name
}

// castExpr renders a type assertion for one argument slot. The dynamic
// sentinel needs no assertion.
func (e *Emitter) castExpr(expr string, t types.Type) string {
	if isEmptyInterface(t) {
		return expr
	}
	qual := func(p *types.Package) string {
		e.ctx.Aliases.MarkUsed(p.Path())
		return e.ctx.Aliases.Alias(p.Path())
	}
	return expr + ".(" + types.TypeString(t, qual) + ")"
}

// portableType reports whether a type can be named from the generated
// package: every named component must be exported.
func portableType(t types.Type) bool {
	switch tt := t.(type) {
	case *types.Named:
		if tt.Obj().Pkg() != nil && !tt.Obj().Exported() {
			return false
		}
		if targs := tt.TypeArgs(); targs != nil {
			for i := 0; i < targs.Len(); i++ {
				if !portableType(targs.At(i)) {
					return false
				}
			}
		}
		return true
	case *types.Alias:
		return portableType(types.Unalias(t))
	case *types.Pointer:
		return portableType(tt.Elem())
	case *types.Slice:
		return portableType(tt.Elem())
	case *types.Array:
		return portableType(tt.Elem())
	case *types.Map:
		return portableType(tt.Key()) && portableType(tt.Elem())
	}
	return true
}

// fieldNamed finds a class's selected field by name.
func fieldNamed(c *ClassInfo, name string) *FieldInfo {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i]
		}
	}
	return nil
}

func accessorNamed(list []AccessorInfo, name string) *AccessorInfo {
	for i := range list {
		if list[i].Name == name {
			return &list[i]
		}
	}
	return nil
}

func methodNamed(c *ClassInfo, name string) *MethodInfo {
	for i := range c.Methods {
		if c.Methods[i].Name == name {
			return &c.Methods[i]
		}
	}
	return nil
}

func (e *Emitter) emitGetters(b *bytes.Buffer) {
	b.WriteString("func payloadGetters() map[string]mirror.GetterThunk {\n")
	b.WriteString("\treturn map[string]mirror.GetterThunk{\n")
	for _, name := range sortedNames(e.ctx.Accessors.Getters) {
		fmt.Fprintf(b, "\t\t%q: func(recv any) any {\n", name)
		var cases bytes.Buffer
		for _, c := range e.ctx.Accessors.Getters[name] {
			ref := e.classRef(c)
			if f := fieldNamed(c, name); f != nil {
				fmt.Fprintf(&cases, "\t\t\tcase %s:\n\t\t\t\treturn r.%s\n", ref, f.Name)
				fmt.Fprintf(&cases, "\t\t\tcase *%s:\n\t\t\t\treturn r.%s\n", ref, f.Name)
				continue
			}
			g := accessorNamed(c.Getters, name)
			if g == nil {
				continue
			}
			if c.Abstract {
				fmt.Fprintf(&cases, "\t\t\tcase %s:\n\t\t\t\treturn r.%s()\n", ref, g.MethodName)
				continue
			}
			if !g.PtrRecv {
				fmt.Fprintf(&cases, "\t\t\tcase %s:\n\t\t\t\treturn r.%s()\n", ref, g.MethodName)
			}
			fmt.Fprintf(&cases, "\t\t\tcase *%s:\n\t\t\t\treturn r.%s()\n", ref, g.MethodName)
		}
		writeRecvSwitch(b, &cases)
		b.WriteString("\t\t\treturn nil\n\t\t},\n")
	}
	b.WriteString("\t}\n}\n\n")
}

func (e *Emitter) emitSetters(b *bytes.Buffer) {
	b.WriteString("func payloadSetters() map[string]mirror.SetterThunk {\n")
	b.WriteString("\treturn map[string]mirror.SetterThunk{\n")
	for _, name := range sortedNames(e.ctx.Accessors.Setters) {
		fmt.Fprintf(b, "\t\t%q: func(recv, value any) error {\n", name)
		var cases bytes.Buffer
		for _, c := range e.ctx.Accessors.Setters[name] {
			ref := e.classRef(c)
			if f := fieldNamed(c, name); f != nil {
				if !portableType(f.GoType) {
					continue
				}
				// Field writes need an addressable receiver.
				fmt.Fprintf(&cases, "\t\t\tcase *%s:\n\t\t\t\tr.%s = %s\n\t\t\t\treturn nil\n",
					ref, f.Name, e.castExpr("value", f.GoType))
				continue
			}
			st := accessorNamed(c.Setters, name)
			if st == nil || !portableType(st.GoType) {
				continue
			}
			if c.Abstract {
				fmt.Fprintf(&cases, "\t\t\tcase %s:\n\t\t\t\tr.%s(%s)\n\t\t\t\treturn nil\n",
					ref, st.MethodName, e.castExpr("value", st.GoType))
				continue
			}
			if !st.PtrRecv {
				fmt.Fprintf(&cases, "\t\t\tcase %s:\n\t\t\t\tr.%s(%s)\n\t\t\t\treturn nil\n",
					ref, st.MethodName, e.castExpr("value", st.GoType))
			}
			fmt.Fprintf(&cases, "\t\t\tcase *%s:\n\t\t\t\tr.%s(%s)\n\t\t\t\treturn nil\n",
				ref, st.MethodName, e.castExpr("value", st.GoType))
		}
		writeRecvSwitch(b, &cases)
		fmt.Fprintf(b, "\t\t\treturn mirror.NewUnsettableError(%q)\n\t\t},\n", name)
	}
	b.WriteString("\t}\n}\n\n")
}

func (e *Emitter) emitMethods(b *bytes.Buffer) {
	b.WriteString("func payloadMethods() map[string]mirror.MethodThunk {\n")
	b.WriteString("\treturn map[string]mirror.MethodThunk{\n")
	for _, name := range sortedNames(e.ctx.Accessors.Methods) {
		fmt.Fprintf(b, "\t\t%q: func(recv any, args []any) any {\n", name)
		var cases bytes.Buffer
		for _, c := range e.ctx.Accessors.Methods[name] {
			m := methodNamed(c, name)
			if m == nil || !e.invocable(m.Params) {
				continue
			}
			ref := e.classRef(c)
			if c.Abstract {
				e.emitMethodCase(&cases, ref, m)
				continue
			}
			if !m.PtrRecv {
				e.emitMethodCase(&cases, ref, m)
			}
			e.emitMethodCase(&cases, "*"+ref, m)
		}
		writeRecvSwitch(b, &cases)
		b.WriteString("\t\t\treturn nil\n\t\t},\n")
	}
	b.WriteString("\t}\n}\n\n")
}

// invocable reports whether every parameter type can be asserted from the
// generated package.
func (e *Emitter) invocable(params []ParamInfo) bool {
	for _, p := range params {
		if !portableType(p.GoType) {
			return false
		}
	}
	return true
}

// emitMethodCase renders one receiver case of a method thunk: optional
// parameters get default-initialized locals overridden by supplied
// arguments, the call is made, and the first result (if any) is returned.
func (e *Emitter) emitMethodCase(b *bytes.Buffer, caseType string, m *MethodInfo) {
	fmt.Fprintf(b, "\t\t\tcase %s:\n", caseType)
	callArgs := e.emitArgPrelude(b, "\t\t\t\t", "args", m.Params)
	call := fmt.Sprintf("r.%s(%s)", m.Name, callArgs)
	switch m.NumResults {
	case 0:
		fmt.Fprintf(b, "\t\t\t\t%s\n\t\t\t\treturn nil\n", call)
	case 1:
		fmt.Fprintf(b, "\t\t\t\treturn %s\n", call)
	default:
		b.WriteString("\t\t\t\tret")
		for i := 1; i < m.NumResults; i++ {
			b.WriteString(", _")
		}
		fmt.Fprintf(b, " := %s\n\t\t\t\treturn ret\n", call)
	}
}

// emitArgPrelude writes default-handling locals for optional parameters and
// returns the rendered argument list. Required parameters index the slice
// directly.
func (e *Emitter) emitArgPrelude(b *bytes.Buffer, indent, slice string, params []ParamInfo) string {
	var list bytes.Buffer
	for i, p := range params {
		if i > 0 {
			list.WriteString(", ")
		}
		slot := fmt.Sprintf("%s[%d]", slice, i)
		if !p.Optional {
			list.WriteString(e.castExpr(slot, p.GoType))
			continue
		}
		local := fmt.Sprintf("a%d", i)
		fmt.Fprintf(b, "%s%s := %s\n", indent, local, RenderCode(p.Default, e.ctx.Aliases))
		fmt.Fprintf(b, "%sif len(%s) > %d {\n%s\t%s = %s\n%s}\n",
			indent, slice, i, indent, local, e.castExpr(slot, p.GoType), indent)
		list.WriteString(local)
	}
	return list.String()
}

// emitAnnotations renders an annotation slice literal, or nothing when the
// slice is empty. Values are reconstructed only when the whole expression
// resolved without raw fallback and references only exported names.
func (e *Emitter) emitAnnotations(b *bytes.Buffer, indent, field string, anns []AnnotationInfo) {
	if len(anns) == 0 {
		return
	}
	fmt.Fprintf(b, "%s%s: []mirror.AnnotationData{\n", indent, field)
	for _, a := range anns {
		source := Render(a.Expr, e.ctx.Aliases)
		if constructible(a.Expr) {
			fmt.Fprintf(b, "%s\t{Source: %q, Value: %s},\n", indent, source, RenderCode(a.Expr, e.ctx.Aliases))
		} else {
			fmt.Fprintf(b, "%s\t{Source: %q},\n", indent, source)
		}
	}
	fmt.Fprintf(b, "%s},\n", indent)
}

// constructible reports whether a reconstructed expression can be emitted as
// a live value: no raw fallback and no unexported cross-package references.
func constructible(expr ConstExpr) bool {
	if HasRaw(expr) {
		return false
	}
	return exportedRefs(expr)
}

func exportedRefs(e ConstExpr) bool {
	switch n := e.(type) {
	case *Ref:
		if n.PkgPath == "" {
			return true
		}
		for _, r := range n.Name {
			return r >= 'A' && r <= 'Z'
		}
		return false
	case *Sel:
		return exportedRefs(n.X)
	case *Unary:
		return exportedRefs(n.X)
	case *Paren:
		return exportedRefs(n.X)
	case *Binary:
		return exportedRefs(n.X) && exportedRefs(n.Y)
	case *Call:
		if !exportedRefs(n.Fn) {
			return false
		}
		for _, a := range n.Args {
			if !exportedRefs(a) {
				return false
			}
		}
	case *Composite:
		if n.Type != nil && !exportedRefs(n.Type) {
			return false
		}
		for _, el := range n.Elts {
			if !exportedRefs(el) {
				return false
			}
		}
	case *KeyValue:
		return exportedRefs(n.Key) && exportedRefs(n.Value)
	case *Index:
		if !exportedRefs(n.X) {
			return false
		}
		for _, i := range n.Idxs {
			if !exportedRefs(i) {
				return false
			}
		}
	}
	return true
}

// emitParams renders a ParamData slice literal.
func (e *Emitter) emitParams(b *bytes.Buffer, indent string, params []ParamInfo) {
	fmt.Fprintf(b, "%sParams: []mirror.ParamData{\n", indent)
	for _, p := range params {
		fmt.Fprintf(b, "%s\t{Name: %q, Type: %d, Index: %d", indent, p.Name, p.TypeIndex, p.Index)
		if p.Optional {
			fmt.Fprintf(b, ", Optional: true, Default: %q", Render(p.Default, e.ctx.Aliases))
		}
		b.WriteString("},\n")
	}
	fmt.Fprintf(b, "%s},\n", indent)
}

// capsLiteral renders a capability set as an or-chain of named bits.
func capsLiteral(caps capability.Set) string {
	type bit struct {
		set  capability.Set
		name string
	}
	bits := []bit{
		{capability.SetFields, "capability.SetFields"},
		{capability.SetGetters, "capability.SetGetters"},
		{capability.SetSetters, "capability.SetSetters"},
		{capability.SetMethods, "capability.SetMethods"},
		{capability.SetConstructors, "capability.SetConstructors"},
	}
	out := ""
	for _, bt := range bits {
		if !caps.Has(bt.set) {
			continue
		}
		if out != "" {
			out += " | "
		}
		out += bt.name
	}
	if out == "" {
		return "0"
	}
	return out
}

func (e *Emitter) emitClasses(b *bytes.Buffer) {
	b.WriteString("func payloadClasses() []mirror.ClassData {\n")
	b.WriteString("\treturn []mirror.ClassData{\n")
	for _, c := range e.result.Classes {
		b.WriteString("\t\t{\n")
		fmt.Fprintf(b, "\t\t\tName:    %q,\n", c.Name)
		fmt.Fprintf(b, "\t\t\tPkgPath: %q,\n", c.PkgPath)
		fmt.Fprintf(b, "\t\t\tType:    %d,\n", c.TypeIndex)
		if c.Abstract {
			b.WriteString("\t\t\tAbstract: true,\n")
		}
		fmt.Fprintf(b, "\t\t\tCapabilities: %s,\n", capsLiteral(c.Caps))
		e.emitAnnotations(b, "\t\t\t", "Annotations", c.Annotations)
		if c.Fields != nil {
			b.WriteString("\t\t\tFields: []mirror.FieldData{\n")
			for _, f := range c.Fields {
				fmt.Fprintf(b, "\t\t\t\t{Name: %q, Type: %d},\n", f.Name, f.TypeIndex)
			}
			b.WriteString("\t\t\t},\n")
		}
		if c.Getters != nil {
			b.WriteString("\t\t\tGetters: []mirror.GetterData{\n")
			for _, g := range c.Getters {
				fmt.Fprintf(b, "\t\t\t\t{Name: %q, Type: %d},\n", g.Name, g.TypeIndex)
			}
			b.WriteString("\t\t\t},\n")
		}
		if c.Setters != nil {
			b.WriteString("\t\t\tSetters: []mirror.SetterData{\n")
			for _, st := range c.Setters {
				fmt.Fprintf(b, "\t\t\t\t{Name: %q, Type: %d},\n", st.Name, st.TypeIndex)
			}
			b.WriteString("\t\t\t},\n")
		}
		if c.Methods != nil {
			b.WriteString("\t\t\tMethods: []mirror.MethodData{\n")
			for _, m := range c.Methods {
				b.WriteString("\t\t\t\t{\n")
				fmt.Fprintf(b, "\t\t\t\t\tName:   %q,\n", m.Name)
				fmt.Fprintf(b, "\t\t\t\t\tReturn: %d,\n", m.ReturnIndex)
				if len(m.Params) > 0 {
					e.emitParams(b, "\t\t\t\t\t", m.Params)
				}
				e.emitAnnotations(b, "\t\t\t\t\t", "Annotations", m.Annotations)
				b.WriteString("\t\t\t\t},\n")
			}
			b.WriteString("\t\t\t},\n")
		}
		if c.Constructors != nil {
			b.WriteString("\t\t\tConstructors: []mirror.ConstructorData{\n")
			for _, ct := range c.Constructors {
				e.emitConstructor(b, c, ct)
			}
			b.WriteString("\t\t\t},\n")
		}
		b.WriteString("\t\t},\n")
	}
	b.WriteString("\t}\n}\n\n")
}

// emitConstructor renders one ConstructorData literal with its deferred
// factory closure. The closure checks the required-argument count, applies
// declared defaults for omitted trailing optionals, and invokes the bound
// function directly.
func (e *Emitter) emitConstructor(b *bytes.Buffer, c *ClassInfo, ct CtorInfo) {
	b.WriteString("\t\t\t\t{\n")
	fmt.Fprintf(b, "\t\t\t\t\tName: %q,\n", ct.Name)
	if len(ct.Params) > 0 {
		e.emitParams(b, "\t\t\t\t\t", ct.Params)
	}
	b.WriteString("\t\t\t\t\tInvoke: func(pos []any, named map[string]any) (any, error) {\n")

	required := 0
	for _, p := range ct.Params {
		if !p.Optional {
			required++
		}
	}
	if required > 0 {
		fmt.Fprintf(b, "\t\t\t\t\t\tif len(pos) < %d {\n", required)
		fmt.Fprintf(b, "\t\t\t\t\t\t\treturn nil, mirror.NewMissingArgsError(%q, %q, %d, len(pos))\n",
			c.Name, ct.Name, required)
		b.WriteString("\t\t\t\t\t\t}\n")
	}
	callArgs := e.emitArgPrelude(b, "\t\t\t\t\t\t", "pos", ct.Params)
	fnRef := e.codePrefix(c.PkgPath) + ct.FuncName
	if ct.ReturnsErr {
		fmt.Fprintf(b, "\t\t\t\t\t\tv, err := %s(%s)\n", fnRef, callArgs)
		b.WriteString("\t\t\t\t\t\tif err != nil {\n\t\t\t\t\t\t\treturn nil, err\n\t\t\t\t\t\t}\n")
		b.WriteString("\t\t\t\t\t\treturn v, nil\n")
	} else {
		fmt.Fprintf(b, "\t\t\t\t\t\treturn %s(%s), nil\n", fnRef, callArgs)
	}
	b.WriteString("\t\t\t\t\t},\n")
	b.WriteString("\t\t\t\t},\n")
}

func (e *Emitter) emitEnums(b *bytes.Buffer) {
	b.WriteString("func payloadEnums() []mirror.EnumData {\n")
	b.WriteString("\treturn []mirror.EnumData{\n")
	for _, en := range e.result.Enums {
		b.WriteString("\t\t{\n")
		fmt.Fprintf(b, "\t\t\tName:    %q,\n", en.Name)
		fmt.Fprintf(b, "\t\t\tPkgPath: %q,\n", en.PkgPath)
		fmt.Fprintf(b, "\t\t\tType:    %d,\n", en.TypeIndex)
		fmt.Fprintf(b, "\t\t\tCapabilities: %s,\n", capsLiteral(en.Caps))
		e.emitAnnotations(b, "\t\t\t", "Annotations", en.Annotations)
		b.WriteString("\t\t\tValues: []mirror.EnumValueData{\n")
		prefix := e.codePrefix(en.PkgPath)
		for _, v := range en.Values {
			fmt.Fprintf(b, "\t\t\t\t{Name: %q, Index: %d, Value: %s%s",
				v.ConstName, v.Index, prefix, v.ConstName)
			if len(v.Annotations) > 0 {
				b.WriteString(",\n")
				e.emitAnnotations(b, "\t\t\t\t\t", "Annotations", v.Annotations)
				b.WriteString("\t\t\t\t},\n")
			} else {
				b.WriteString("},\n")
			}
		}
		b.WriteString("\t\t\t},\n")
		b.WriteString("\t\t},\n")
	}
	b.WriteString("\t}\n}\n\n")
}

func (e *Emitter) emitFunctions(b *bytes.Buffer) {
	b.WriteString("func payloadFunctions() []mirror.FunctionData {\n")
	b.WriteString("\treturn []mirror.FunctionData{\n")
	for _, fn := range e.result.Functions {
		b.WriteString("\t\t{\n")
		fmt.Fprintf(b, "\t\t\tName:    %q,\n", fn.Name)
		fmt.Fprintf(b, "\t\t\tPkgPath: %q,\n", fn.PkgPath)
		fmt.Fprintf(b, "\t\t\tReturn:  %d,\n", fn.ReturnIndex)
		if len(fn.Params) > 0 {
			e.emitParams(b, "\t\t\t", fn.Params)
		}
		e.emitAnnotations(b, "\t\t\t", "Annotations", fn.Annotations)
		b.WriteString("\t\t\tInvoke: func(pos []any) (any, error) {\n")
		e.emitFunctionBody(b, fn)
		b.WriteString("\t\t\t},\n")
		b.WriteString("\t\t},\n")
	}
	b.WriteString("\t}\n}\n\n")
}

// emitFunctionBody renders a function invoker: required-count check,
// defaults, direct call. A trailing error result propagates; results between
// the first and the error are dropped.
func (e *Emitter) emitFunctionBody(b *bytes.Buffer, fn *FuncInfo) {
	required := 0
	for _, p := range fn.Params {
		if !p.Optional {
			required++
		}
	}
	if required > 0 {
		fmt.Fprintf(b, "\t\t\t\tif len(pos) < %d {\n", required)
		fmt.Fprintf(b, "\t\t\t\t\treturn nil, mirror.NewMissingArgsError(%q, %q, %d, len(pos))\n",
			fn.PkgPath, fn.Name, required)
		b.WriteString("\t\t\t\t}\n")
	}
	callArgs := e.emitArgPrelude(b, "\t\t\t\t", "pos", fn.Params)
	call := fmt.Sprintf("%s%s(%s)", e.codePrefix(fn.PkgPath), fn.Name, callArgs)
	switch {
	case fn.NumResults == 0:
		fmt.Fprintf(b, "\t\t\t\t%s\n\t\t\t\treturn nil, nil\n", call)
	case fn.ReturnsErr && fn.NumResults == 1:
		fmt.Fprintf(b, "\t\t\t\treturn nil, %s\n", call)
	case fn.ReturnsErr:
		b.WriteString("\t\t\t\tv")
		for i := 1; i < fn.NumResults-1; i++ {
			b.WriteString(", _")
		}
		fmt.Fprintf(b, ", err := %s\n\t\t\t\treturn v, err\n", call)
	case fn.NumResults == 1:
		fmt.Fprintf(b, "\t\t\t\treturn %s, nil\n", call)
	default:
		b.WriteString("\t\t\t\tret")
		for i := 1; i < fn.NumResults; i++ {
			b.WriteString(", _")
		}
		fmt.Fprintf(b, " := %s\n\t\t\t\treturn ret, nil\n", call)
	}
}

// emitResolve renders the value-to-type resolver. Concrete classes and enums
// come first so an abstract interface case never shadows a concrete match.
func (e *Emitter) emitResolve(b *bytes.Buffer) {
	b.WriteString("func resolveType(v any) (int, bool) {\n")
	b.WriteString("\tswitch v.(type) {\n")
	for _, c := range e.result.Classes {
		if c.Abstract {
			continue
		}
		ref := e.classRef(c)
		fmt.Fprintf(b, "\tcase %s, *%s:\n\t\treturn %d, true\n", ref, ref, c.TypeIndex)
	}
	for _, en := range e.result.Enums {
		fmt.Fprintf(b, "\tcase %s:\n\t\treturn %d, true\n", e.codePrefix(en.PkgPath)+en.Name, en.TypeIndex)
	}
	for _, c := range e.result.Classes {
		if !c.Abstract {
			continue
		}
		fmt.Fprintf(b, "\tcase %s:\n\t\treturn %d, true\n", e.classRef(c), c.TypeIndex)
	}
	b.WriteString("\t}\n\treturn 0, false\n}\n")
}
