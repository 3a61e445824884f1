package generator

import (
	"go/ast"
	"go/token"
	"strings"

	"github.com/mirrorlang/mirror/internal/util/astutil"
)

// ConstExpr is a node in the typed literal-expression tree built from
// annotation arguments and default values. The tree is constructed once at
// generation time and rendered through the alias table, so emitted
// expressions stay valid regardless of which package the generated code
// lives in.
type ConstExpr interface {
	constExpr()
}

type (
	// Lit is a literal token carried verbatim (bool, int, float, rune,
	// string - the source spelling is already portable).
	Lit struct {
		Text string
	}

	// NilLit is the untyped nil literal.
	NilLit struct{}

	// Ref is an identifier resolved to its owning package.
	Ref struct {
		PkgPath string // "" for universe scope
		Name    string
	}

	// Sel is property access on a non-package operand.
	Sel struct {
		X   ConstExpr
		Name string
	}

	// Unary is a prefixed expression.
	Unary struct {
		Op string
		X  ConstExpr
	}

	// Binary is an infix expression.
	Binary struct {
		X  ConstExpr
		Op string
		Y  ConstExpr
	}

	// Paren preserves source parenthesization.
	Paren struct {
		X ConstExpr
	}

	// Call is a constructor or constant-safe function invocation.
	Call struct {
		Fn   ConstExpr
		Args []ConstExpr
	}

	// Composite is a composite literal: list, set, map or struct value.
	// Type is nil for element literals that elide their type.
	Composite struct {
		Type ConstExpr
		Elts []ConstExpr
	}

	// KeyValue is one keyed element of a composite literal.
	KeyValue struct {
		Key   ConstExpr
		Value ConstExpr
	}

	// Index is a generic instantiation or constant index expression.
	Index struct {
		X    ConstExpr
		Idxs []ConstExpr
	}

	// TypeLit is a type expression rendered with alias-qualified names
	// (composite literal types such as []m1.Rule or map[string]int).
	// Pkgs lists the packages the rendered text references, since the
	// aliases are already baked into Text.
	TypeLit struct {
		Text string
		Pkgs []string
	}

	// Raw is the best-effort fallback: literal source text copied without
	// alias correction. A fidelity risk, not a hard error.
	Raw struct {
		Text string
	}
)

func (*Lit) constExpr()       {}
func (*NilLit) constExpr()    {}
func (*Ref) constExpr()       {}
func (*Sel) constExpr()       {}
func (*Unary) constExpr()     {}
func (*Binary) constExpr()    {}
func (*Paren) constExpr()     {}
func (*Call) constExpr()      {}
func (*Composite) constExpr() {}
func (*KeyValue) constExpr()  {}
func (*Index) constExpr()     {}
func (*TypeLit) constExpr()   {}
func (*Raw) constExpr()       {}

// HasRaw reports whether any node in the tree fell back to raw source text.
// Raw-bearing annotations are recorded as source only; their values are not
// reconstructed into the generated payload.
func HasRaw(e ConstExpr) bool {
	switch n := e.(type) {
	case *Raw:
		return true
	case *Sel:
		return HasRaw(n.X)
	case *Unary:
		return HasRaw(n.X)
	case *Paren:
		return HasRaw(n.X)
	case *Binary:
		return HasRaw(n.X) || HasRaw(n.Y)
	case *Call:
		if HasRaw(n.Fn) {
			return true
		}
		for _, a := range n.Args {
			if HasRaw(a) {
				return true
			}
		}
	case *Composite:
		if n.Type != nil && HasRaw(n.Type) {
			return true
		}
		for _, el := range n.Elts {
			if HasRaw(el) {
				return true
			}
		}
	case *KeyValue:
		return HasRaw(n.Key) || HasRaw(n.Value)
	case *Index:
		if HasRaw(n.X) {
			return true
		}
		for _, i := range n.Idxs {
			if HasRaw(i) {
				return true
			}
		}
	}
	return false
}

// Render serializes the tree back to Go source, qualifying every resolved
// reference through the alias table.
func Render(e ConstExpr, aliases *AliasTable) string {
	var b strings.Builder
	render(&b, e, aliases)
	return b.String()
}

// RenderCode serializes the tree as emitted code, marking every referenced
// package used so its import line is kept. Render alone serves metadata
// strings, whose references must not pull in imports.
func RenderCode(e ConstExpr, aliases *AliasTable) string {
	markUsed(e, aliases)
	return Render(e, aliases)
}

func markUsed(e ConstExpr, aliases *AliasTable) {
	switch n := e.(type) {
	case *Ref:
		aliases.MarkUsed(n.PkgPath)
	case *TypeLit:
		for _, p := range n.Pkgs {
			aliases.MarkUsed(p)
		}
	case *Sel:
		markUsed(n.X, aliases)
	case *Unary:
		markUsed(n.X, aliases)
	case *Paren:
		markUsed(n.X, aliases)
	case *Binary:
		markUsed(n.X, aliases)
		markUsed(n.Y, aliases)
	case *Call:
		markUsed(n.Fn, aliases)
		for _, a := range n.Args {
			markUsed(a, aliases)
		}
	case *Composite:
		if n.Type != nil {
			markUsed(n.Type, aliases)
		}
		for _, el := range n.Elts {
			markUsed(el, aliases)
		}
	case *KeyValue:
		markUsed(n.Key, aliases)
		markUsed(n.Value, aliases)
	case *Index:
		markUsed(n.X, aliases)
		for _, i := range n.Idxs {
			markUsed(i, aliases)
		}
	}
}

func render(b *strings.Builder, e ConstExpr, aliases *AliasTable) {
	switch n := e.(type) {
	case *Lit:
		b.WriteString(n.Text)
	case *NilLit:
		b.WriteString("nil")
	case *Ref:
		b.WriteString(aliases.Prefix(n.PkgPath))
		b.WriteString(n.Name)
	case *Sel:
		render(b, n.X, aliases)
		b.WriteByte('.')
		b.WriteString(n.Name)
	case *Unary:
		b.WriteString(n.Op)
		render(b, n.X, aliases)
	case *Binary:
		render(b, n.X, aliases)
		b.WriteByte(' ')
		b.WriteString(n.Op)
		b.WriteByte(' ')
		render(b, n.Y, aliases)
	case *Paren:
		b.WriteByte('(')
		render(b, n.X, aliases)
		b.WriteByte(')')
	case *Call:
		render(b, n.Fn, aliases)
		b.WriteByte('(')
		for i, a := range n.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			render(b, a, aliases)
		}
		b.WriteByte(')')
	case *Composite:
		if n.Type != nil {
			render(b, n.Type, aliases)
		}
		b.WriteByte('{')
		for i, el := range n.Elts {
			if i > 0 {
				b.WriteString(", ")
			}
			render(b, el, aliases)
		}
		b.WriteByte('}')
	case *KeyValue:
		render(b, n.Key, aliases)
		b.WriteString(": ")
		render(b, n.Value, aliases)
	case *Index:
		render(b, n.X, aliases)
		b.WriteByte('[')
		for i, idx := range n.Idxs {
			if i > 0 {
				b.WriteString(", ")
			}
			render(b, idx, aliases)
		}
		b.WriteByte(']')
	case *TypeLit:
		b.WriteString(n.Text)
	case *Raw:
		b.WriteString(n.Text)
	}
}

// Resolver maps a bare identifier to its owning package path. The scanner
// supplies one per file so that directive expressions (which are parsed
// outside the package's type-checked syntax) resolve through file imports
// and package scope.
type Resolver interface {
	// ResolveIdent resolves a bare identifier. ok is false for unknown
	// names, which degrade to Raw.
	ResolveIdent(name string) (pkgPath string, ok bool)
	// ResolvePkgName resolves an import qualifier (the "x" of x.Sel) to a
	// package path; ok is false when the name is not an import.
	ResolvePkgName(name string) (pkgPath string, ok bool)
	// RenderType renders a type expression with alias-qualified names and
	// the package paths it references; ok is false when the type cannot be
	// resolved.
	RenderType(e ast.Expr) (text string, pkgs []string, ok bool)
}

// Reconstructor rebuilds annotation arguments and default values as portable
// expression trees. Unrecognized forms fall back to literal source-text copy
// and are counted on the report.
type Reconstructor struct {
	report *Report
}

// NewReconstructor creates a reconstructor feeding fallback counts into the
// report.
func NewReconstructor(report *Report) *Reconstructor {
	return &Reconstructor{report: report}
}

// Reconstruct walks the constant-expression syntax tree and resolves every
// identifier through the resolver.
func (r *Reconstructor) Reconstruct(e ast.Expr, res Resolver) ConstExpr {
	switch n := e.(type) {
	case *ast.BasicLit:
		return &Lit{Text: n.Value}

	case *ast.Ident:
		if n.Name == "nil" {
			return &NilLit{}
		}
		if n.Name == "true" || n.Name == "false" || n.Name == "iota" {
			return &Lit{Text: n.Name}
		}
		if pkgPath, ok := res.ResolveIdent(n.Name); ok {
			return &Ref{PkgPath: pkgPath, Name: n.Name}
		}
		return r.fallback(e)

	case *ast.SelectorExpr:
		// A prefixed identifier: either an import-qualified reference or
		// property access on a constant operand.
		if ident, ok := n.X.(*ast.Ident); ok {
			if pkgPath, isPkg := res.ResolvePkgName(ident.Name); isPkg {
				return &Ref{PkgPath: pkgPath, Name: n.Sel.Name}
			}
		}
		return &Sel{X: r.Reconstruct(n.X, res), Name: n.Sel.Name}

	case *ast.UnaryExpr:
		if n.Op == token.AND || n.Op == token.SUB || n.Op == token.NOT || n.Op == token.XOR || n.Op == token.ADD {
			return &Unary{Op: n.Op.String(), X: r.Reconstruct(n.X, res)}
		}
		return r.fallback(e)

	case *ast.BinaryExpr:
		return &Binary{
			X:  r.Reconstruct(n.X, res),
			Op: n.Op.String(),
			Y:  r.Reconstruct(n.Y, res),
		}

	case *ast.ParenExpr:
		return &Paren{X: r.Reconstruct(n.X, res)}

	case *ast.CallExpr:
		call := &Call{Fn: r.Reconstruct(n.Fun, res)}
		for _, a := range n.Args {
			call.Args = append(call.Args, r.Reconstruct(a, res))
		}
		return call

	case *ast.CompositeLit:
		comp := &Composite{}
		if n.Type != nil {
			comp.Type = r.reconstructType(n.Type, res)
		}
		for _, el := range n.Elts {
			comp.Elts = append(comp.Elts, r.Reconstruct(el, res))
		}
		return comp

	case *ast.KeyValueExpr:
		// Struct field keys are bare names, never package references.
		var key ConstExpr
		if ident, ok := n.Key.(*ast.Ident); ok {
			key = &Lit{Text: ident.Name}
		} else {
			key = r.Reconstruct(n.Key, res)
		}
		return &KeyValue{Key: key, Value: r.Reconstruct(n.Value, res)}

	case *ast.IndexExpr:
		return &Index{X: r.Reconstruct(n.X, res), Idxs: []ConstExpr{r.reconstructType(n.Index, res)}}

	case *ast.IndexListExpr:
		idx := &Index{X: r.Reconstruct(n.X, res)}
		for _, i := range n.Indices {
			idx.Idxs = append(idx.Idxs, r.reconstructType(i, res))
		}
		return idx
	}
	return r.fallback(e)
}

// reconstructType handles expressions in type position: named types resolve
// like identifiers, structural types render through the resolver's
// type-rendering path.
func (r *Reconstructor) reconstructType(e ast.Expr, res Resolver) ConstExpr {
	switch n := e.(type) {
	case *ast.Ident:
		if pkgPath, ok := res.ResolveIdent(n.Name); ok {
			return &Ref{PkgPath: pkgPath, Name: n.Name}
		}
	case *ast.SelectorExpr:
		if ident, ok := n.X.(*ast.Ident); ok {
			if pkgPath, isPkg := res.ResolvePkgName(ident.Name); isPkg {
				return &Ref{PkgPath: pkgPath, Name: n.Sel.Name}
			}
		}
	case *ast.IndexExpr, *ast.IndexListExpr:
		return r.Reconstruct(e, res)
	}
	if text, pkgs, ok := res.RenderType(e); ok {
		return &TypeLit{Text: text, Pkgs: pkgs}
	}
	return r.fallback(e)
}

// fallback copies the source text verbatim. Not alias-corrected; counted as
// a fidelity risk on the report.
func (r *Reconstructor) fallback(e ast.Expr) ConstExpr {
	if r.report != nil {
		r.report.FallbackExprs++
	}
	return &Raw{Text: astutil.ExprString(e)}
}
