// Package astutil provides small go/ast helpers shared by the generator.
package astutil

import (
	"bytes"
	"go/ast"
	"go/printer"
	"go/token"
)

// ExprString renders an expression back to source text. Used for raw
// fallback copies and diagnostics; the rendered text follows gofmt's
// single-line conventions.
func ExprString(e ast.Expr) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, token.NewFileSet(), e); err != nil {
		return ""
	}
	return buf.String()
}
