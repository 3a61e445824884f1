package generator

import (
	"fmt"
	"go/ast"
	"go/types"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"
)

// loadMode is everything the scanner needs: syntax with full type
// information, plus the import graph for closure expansion.
const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports |
	packages.NeedDeps

// LoadConfig controls how the closure expander resolves packages.
type LoadConfig struct {
	// Dir is the working directory for package resolution ("" = cwd).
	Dir string
	// Extra packages scanned in addition to the entry's closure.
	Extra []string
}

// ExpandClosure computes the full set of packages whose declarations must be
// scanned, sorted by import path.
//
// Phase A walks the import graph breadth-first from the entry package (and
// any extras), never enqueueing standard-library packages. Phase B re-walks
// the annotated classes of every visited package and enqueues any package a
// member type names that the import walk did not reach (a type can arrive
// solely through a generic argument). Phase B runs to a fixed point over the
// classes gathered in Phase A; it discovers packages, never new members.
//
// Unresolvable packages are skipped and reported, never fatal: exclusion is
// the selection predicate, not an error.
func ExpandClosure(ctx *Context, cfg LoadConfig) ([]*packages.Package, error) {
	patterns := append([]string{ctx.Entry}, cfg.Extra...)
	roots, err := packages.Load(&packages.Config{
		Mode: loadMode,
		Dir:  cfg.Dir,
	}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load entry packages: %w", err)
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("no packages matched %q", patterns)
	}

	// Index every package reachable through the dependency graph so Phase B
	// can look up packages by path.
	all := make(map[string]*packages.Package)
	var index func(p *packages.Package)
	index = func(p *packages.Package) {
		if _, seen := all[p.PkgPath]; seen {
			return
		}
		all[p.PkgPath] = p
		for _, imp := range p.Imports {
			index(imp)
		}
	}
	for _, root := range roots {
		index(root)
	}

	visited := make(map[string]*packages.Package)
	queue := make([]*packages.Package, 0, len(roots))

	enqueue := func(p *packages.Package) {
		if p == nil || isStdlib(p.PkgPath) {
			return
		}
		if _, seen := visited[p.PkgPath]; seen {
			return
		}
		if len(p.Errors) > 0 {
			ctx.Report.PackagesSkipped = append(ctx.Report.PackagesSkipped, SkippedPackage{
				Path:   p.PkgPath,
				Reason: p.Errors[0].Msg,
			})
			ctx.Log.Warn("skipping unresolvable package",
				zap.String("package", p.PkgPath),
				zap.String("reason", p.Errors[0].Msg))
			// Mark it visited so it is neither re-reported nor rescanned.
			visited[p.PkgPath] = nil
			return
		}
		visited[p.PkgPath] = p
		queue = append(queue, p)
	}

	// Phase A: import reachability.
	for _, root := range roots {
		enqueue(root)
	}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, imp := range p.Imports {
			enqueue(imp)
		}
	}

	// Phase B: usage expansion over the classes gathered so far.
	phaseA := collectVisited(visited)
	for _, p := range phaseA {
		for _, named := range annotatedClasses(p) {
			for _, dep := range memberTypePackages(named) {
				if _, seen := visited[dep]; seen {
					continue
				}
				if target, ok := all[dep]; ok {
					enqueue(target)
				}
			}
		}
	}
	// Newly enqueued packages still contribute their own import closures.
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, imp := range p.Imports {
			enqueue(imp)
		}
	}

	result := collectVisited(visited)
	for _, p := range result {
		ctx.Report.PackagesScanned = append(ctx.Report.PackagesScanned, p.PkgPath)
	}
	ctx.Log.Info("closure expanded",
		zap.Int("packages", len(result)),
		zap.Int("skipped", len(ctx.Report.PackagesSkipped)))
	return result, nil
}

// collectVisited returns the visited packages sorted by import path. The
// sorted order fixes the scan order, which in turn fixes type-table indices.
func collectVisited(visited map[string]*packages.Package) []*packages.Package {
	out := make([]*packages.Package, 0, len(visited))
	for _, p := range visited {
		if p != nil {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PkgPath < out[j].PkgPath })
	return out
}

// isStdlib reports whether an import path names a standard-library package.
// Standard-library paths have no dot in their first segment.
func isStdlib(path string) bool {
	first := path
	if i := strings.IndexByte(path, '/'); i >= 0 {
		first = path[:i]
	}
	return !strings.Contains(first, ".")
}

// annotatedClasses finds the named types in a package that carry a mirror
// directive. This is the cheap syntactic pre-scan Phase B runs with; full
// classification happens later in the scanner.
func annotatedClasses(p *packages.Package) []*types.Named {
	var out []*types.Named
	for _, file := range p.Syntax {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok {
				continue
			}
			for _, spec := range gen.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				if !hasDirective(gen.Doc) && !hasDirective(ts.Doc) {
					continue
				}
				obj := p.Types.Scope().Lookup(ts.Name.Name)
				if obj == nil {
					continue
				}
				if named, ok := obj.Type().(*types.Named); ok {
					out = append(out, named)
				}
			}
		}
	}
	return out
}

// memberTypePackages returns the import paths of every package named by a
// class's field, method return/parameter and constructor parameter types.
func memberTypePackages(named *types.Named) []string {
	seen := make(map[string]struct{})
	var collect func(t types.Type, depth int)
	collect = func(t types.Type, depth int) {
		if t == nil || depth > 8 {
			return
		}
		switch tt := t.(type) {
		case *types.Pointer:
			collect(tt.Elem(), depth+1)
		case *types.Slice:
			collect(tt.Elem(), depth+1)
		case *types.Array:
			collect(tt.Elem(), depth+1)
		case *types.Map:
			collect(tt.Key(), depth+1)
			collect(tt.Elem(), depth+1)
		case *types.Named:
			if obj := tt.Obj(); obj.Pkg() != nil {
				seen[obj.Pkg().Path()] = struct{}{}
			}
			if targs := tt.TypeArgs(); targs != nil {
				for i := 0; i < targs.Len(); i++ {
					collect(targs.At(i), depth+1)
				}
			}
		}
	}

	if st, ok := named.Underlying().(*types.Struct); ok {
		for i := 0; i < st.NumFields(); i++ {
			collect(st.Field(i).Type(), 0)
		}
	}
	for i := 0; i < named.NumMethods(); i++ {
		sig, ok := named.Method(i).Type().(*types.Signature)
		if !ok {
			continue
		}
		for j := 0; j < sig.Params().Len(); j++ {
			collect(sig.Params().At(j).Type(), 0)
		}
		for j := 0; j < sig.Results().Len(); j++ {
			collect(sig.Results().At(j).Type(), 0)
		}
	}

	out := make([]string, 0, len(seen))
	for path := range seen {
		if !isStdlib(path) {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}
