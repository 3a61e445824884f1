package generator

import (
	"fmt"
	"go/types"
	"sort"
)

// EntryAlias is the reserved import alias for the entry package.
const EntryAlias = "src"

// AliasTable assigns stable, collision-free import aliases for cross-package
// references in generated output. The entry package always receives the
// reserved alias; every other package gets a sequentially assigned alias on
// first encounter. Repeated calls for the same package return the same alias,
// so repeated generation runs on unchanged input emit identical imports.
type AliasTable struct {
	entry   string
	aliases map[string]string // import path -> alias
	used    map[string]bool   // import paths referenced by emitted code
	next    int
}

// NewAliasTable creates a table with the given entry package path.
func NewAliasTable(entryPath string) *AliasTable {
	return &AliasTable{
		entry:   entryPath,
		aliases: make(map[string]string),
		used:    make(map[string]bool),
	}
}

// Alias returns the bare alias for a package path, allocating one on first
// encounter. The empty path (universe scope) has no alias.
func (a *AliasTable) Alias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}
	if alias, ok := a.aliases[pkgPath]; ok {
		return alias
	}
	var alias string
	if pkgPath == a.entry {
		alias = EntryAlias
	} else {
		a.next++
		alias = fmt.Sprintf("m%d", a.next)
	}
	a.aliases[pkgPath] = alias
	return alias
}

// Prefix returns the alias plus trailing separator for a package path, or
// the empty string for universe-scope references.
func (a *AliasTable) Prefix(pkgPath string) string {
	alias := a.Alias(pkgPath)
	if alias == "" {
		return ""
	}
	return alias + "."
}

// Qualifier adapts the table to go/types type rendering.
func (a *AliasTable) Qualifier() types.Qualifier {
	return func(p *types.Package) string {
		return a.Alias(p.Path())
	}
}

// MarkUsed records that emitted code references the package. Aliases touched
// only while rendering string metadata (annotation sources, default-expression
// text) stay unmarked so their imports are not emitted.
func (a *AliasTable) MarkUsed(pkgPath string) {
	if pkgPath == "" {
		return
	}
	a.Alias(pkgPath)
	a.used[pkgPath] = true
}

// Imports returns one aliased import line per alias referenced by emitted
// code, sorted by import path for deterministic output.
func (a *AliasTable) Imports() []string {
	paths := make([]string, 0, len(a.used))
	for path := range a.used {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	lines := make([]string, len(paths))
	for i, path := range paths {
		lines[i] = fmt.Sprintf("%s %q", a.aliases[path], path)
	}
	return lines
}
