package generator

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"github.com/mirrorlang/mirror/capability"
	"github.com/mirrorlang/mirror/internal/util/astutil"
)

// DirectivePrefix marks a mirror annotation directive in a doc comment.
const DirectivePrefix = "//mirror:"

// defaultsKeyword introduces a parameter-defaults directive on a function,
// method or constructor: //mirror:defaults b=10, c="x".
const defaultsKeyword = "defaults "

// markerMethods maps capability marker method names to capability bits. An
// annotation type's capability set is the union of the markers its method
// set carries, which includes markers acquired through embedding.
var markerMethods = map[string]capability.Set{
	"MirrorFields":       capability.SetFields,
	"MirrorGetters":      capability.SetGetters,
	"MirrorSetters":      capability.SetSetters,
	"MirrorMethods":      capability.SetMethods,
	"MirrorConstructors": capability.SetConstructors,
}

// AnnotationInfo is one reconstructed annotation expression.
type AnnotationInfo struct {
	Expr ConstExpr
}

// ParamInfo describes one parameter of a scanned callable.
type ParamInfo struct {
	Name      string
	TypeIndex int
	GoType    types.Type
	Index     int
	Optional  bool
	Default   ConstExpr // nil when no default is declared
}

// FieldInfo is one capability-selected field.
type FieldInfo struct {
	Name        string
	TypeIndex   int
	GoType      types.Type
	Final       bool
	Static      bool
	Annotations []AnnotationInfo
}

// AccessorInfo is one explicit getter or setter. Name is the property key;
// MethodName is the declared Go method (for setters it keeps the Set prefix).
type AccessorInfo struct {
	Name        string
	MethodName  string
	TypeIndex   int
	GoType      types.Type
	PtrRecv     bool
	Static      bool
	Annotations []AnnotationInfo
}

// MethodInfo is one invocable method.
type MethodInfo struct {
	Name        string
	ReturnIndex int
	NumResults  int
	Params      []ParamInfo
	PtrRecv     bool
	Static      bool
	Annotations []AnnotationInfo
}

// CtorInfo is one constructor: a package function following the NewType
// naming convention, recorded as a deferred binding.
type CtorInfo struct {
	Name        string // "new" for the primary constructor
	FuncName    string // declared Go function name
	NumResults  int
	ReturnsErr  bool
	Params      []ParamInfo
	Annotations []AnnotationInfo
}

// ClassInfo is one scanned class declaration with its capability-gated
// member collections. A capability absent from Caps leaves its collection
// nil; a present capability with no members yields an empty slice.
type ClassInfo struct {
	Name         string
	PkgPath      string
	TypeIndex    int
	Named        *types.Named
	Abstract     bool
	Caps         capability.Set
	Annotations  []AnnotationInfo
	Fields       []FieldInfo
	Getters      []AccessorInfo
	Setters      []AccessorInfo
	Methods      []MethodInfo
	Constructors []CtorInfo
}

// EnumValueInfo is one enum constant in declaration order.
type EnumValueInfo struct {
	ConstName   string
	Index       int
	Annotations []AnnotationInfo
}

// EnumInfo is one scanned enum: a named type with a const block.
type EnumInfo struct {
	Name        string
	PkgPath     string
	TypeIndex   int
	Caps        capability.Set
	Annotations []AnnotationInfo
	Values      []EnumValueInfo
}

// FuncInfo is one scanned top-level function.
type FuncInfo struct {
	Name        string
	PkgPath     string
	ReturnIndex int
	NumResults  int
	ReturnsErr  bool
	Params      []ParamInfo
	Annotations []AnnotationInfo
}

// ScanResult is everything the scanner collected, in scan order.
type ScanResult struct {
	Classes   []*ClassInfo
	Enums     []*EnumInfo
	Functions []*FuncInfo
}

// Scanner finds annotated declarations in the closure and classifies their
// requested capabilities. Selection is the predicate: a declaration without
// a recognized marker is simply not collected.
type Scanner struct {
	ctx   *Context
	recon *Reconstructor

	// methodDecls indexes FuncDecls by package, receiver type and method
	// name so annotation lookup can find the declaring syntax, including
	// for methods promoted from embedded types in other packages.
	methodDecls map[string]map[string]*funcDeclSite
	// funcDecls indexes package-level FuncDecls for constructor and
	// function annotation lookup.
	funcDecls map[string]map[string]*funcDeclSite
}

// funcDeclSite ties a FuncDecl to its file for resolution context.
type funcDeclSite struct {
	pkg  *packages.Package
	file *ast.File
	decl *ast.FuncDecl
}

// NewScanner creates a scanner bound to one generation context.
func NewScanner(ctx *Context) *Scanner {
	return &Scanner{
		ctx:         ctx,
		recon:       NewReconstructor(ctx.Report),
		methodDecls: make(map[string]map[string]*funcDeclSite),
		funcDecls:   make(map[string]map[string]*funcDeclSite),
	}
}

// Scan walks every package in the closure (already sorted by path) and
// collects annotated classes, enums and functions. Every selected member and
// parameter type is registered in the type registry as it is selected, and
// every requested accessor or method name joins the global invoker name sets.
func (s *Scanner) Scan(pkgs []*packages.Package) *ScanResult {
	for _, p := range pkgs {
		s.indexDecls(p)
	}

	result := &ScanResult{}
	for _, p := range pkgs {
		s.scanPackage(p, result)
	}

	s.ctx.Report.Classes = len(result.Classes)
	s.ctx.Report.Enums = len(result.Enums)
	s.ctx.Report.Functions = len(result.Functions)
	s.ctx.Log.Info("scan complete",
		zap.Int("classes", len(result.Classes)),
		zap.Int("enums", len(result.Enums)),
		zap.Int("functions", len(result.Functions)))
	return result
}

// indexDecls builds the per-package FuncDecl indexes.
func (s *Scanner) indexDecls(p *packages.Package) {
	methods := make(map[string]*funcDeclSite)
	funcs := make(map[string]*funcDeclSite)
	for _, file := range sortedFiles(p) {
		for _, decl := range file.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok {
				continue
			}
			site := &funcDeclSite{pkg: p, file: file, decl: fd}
			if fd.Recv == nil || len(fd.Recv.List) == 0 {
				funcs[fd.Name.Name] = site
				continue
			}
			if recvName := receiverTypeName(fd.Recv.List[0].Type); recvName != "" {
				methods[recvName+"."+fd.Name.Name] = site
			}
		}
	}
	s.methodDecls[p.PkgPath] = methods
	s.funcDecls[p.PkgPath] = funcs
}

// sortedFiles returns a package's syntax files sorted by file name so scan
// order (and therefore type-table order) does not depend on loader order.
func sortedFiles(p *packages.Package) []*ast.File {
	files := make([]*ast.File, len(p.Syntax))
	copy(files, p.Syntax)
	sort.Slice(files, func(i, j int) bool {
		return p.Fset.File(files[i].Pos()).Name() < p.Fset.File(files[j].Pos()).Name()
	})
	return files
}

// scanPackage collects every annotated declaration of one package.
func (s *Scanner) scanPackage(p *packages.Package, result *ScanResult) {
	for _, file := range sortedFiles(p) {
		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				if d.Tok != token.TYPE {
					continue
				}
				for _, spec := range d.Specs {
					ts, ok := spec.(*ast.TypeSpec)
					if !ok {
						continue
					}
					s.scanType(p, file, d, ts, result)
				}
			case *ast.FuncDecl:
				if d.Recv == nil {
					s.scanFunction(p, file, d, result)
				}
			}
		}
	}
}

// scanType classifies one annotated type declaration as a class or an enum.
func (s *Scanner) scanType(p *packages.Package, file *ast.File, gen *ast.GenDecl, ts *ast.TypeSpec, result *ScanResult) {
	directives := directiveTexts(gen.Doc, ts.Doc)
	if len(directives) == 0 {
		return
	}
	if !ts.Name.IsExported() {
		// The generated package cannot reference unexported declarations.
		s.ctx.Log.Warn("skipping unexported annotated type",
			zap.String("package", p.PkgPath),
			zap.String("type", ts.Name.Name))
		return
	}
	obj := p.Types.Scope().Lookup(ts.Name.Name)
	if obj == nil {
		return
	}
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return
	}
	if named.TypeParams().Len() > 0 {
		// The generated switches and resolver cases need a concrete type
		// name; an uninstantiated type parameter list has none.
		s.ctx.Log.Warn("skipping generic annotated type",
			zap.String("package", p.PkgPath),
			zap.String("type", ts.Name.Name))
		return
	}

	caps, recognized := s.classify(p, ts.Pos(), directives)
	if !recognized {
		// No recognized marker annotation: the declaration is simply
		// not collected.
		return
	}

	res := s.resolver(p, file, ts.Pos())
	annotations := s.reconstructAnnotations(directives, res)

	if isEnum(named) {
		result.Enums = append(result.Enums, s.scanEnum(p, named, caps, annotations))
		return
	}
	result.Classes = append(result.Classes, s.scanClass(p, named, caps, annotations))
}

// classify evaluates directive expressions until one's static type carries a
// recognized capability marker, and returns that type's full capability set.
func (s *Scanner) classify(p *packages.Package, pos token.Pos, directives []string) (capability.Set, bool) {
	for _, text := range directives {
		if strings.HasPrefix(text, defaultsKeyword) {
			continue
		}
		tv, err := types.Eval(p.Fset, p.Types, pos, text)
		if err != nil || tv.Type == nil {
			continue
		}
		if caps := capsOf(tv.Type); caps != 0 {
			return caps, true
		}
	}
	return 0, false
}

// capsOf derives the capability set from a type's method set, covering both
// value and pointer method sets so embedded markers are always seen.
func capsOf(t types.Type) capability.Set {
	var caps capability.Set
	for _, ms := range []*types.MethodSet{
		types.NewMethodSet(t),
		types.NewMethodSet(types.NewPointer(t)),
	} {
		for i := 0; i < ms.Len(); i++ {
			if c, ok := markerMethods[ms.At(i).Obj().Name()]; ok {
				caps |= c
			}
		}
	}
	return caps
}

// reconstructAnnotations parses and reconstructs every non-defaults
// directive expression.
func (s *Scanner) reconstructAnnotations(directives []string, res Resolver) []AnnotationInfo {
	var out []AnnotationInfo
	for _, text := range directives {
		if strings.HasPrefix(text, defaultsKeyword) {
			continue
		}
		expr, err := parser.ParseExpr(text)
		if err != nil {
			s.ctx.Report.FallbackExprs++
			out = append(out, AnnotationInfo{Expr: &Raw{Text: text}})
			continue
		}
		out = append(out, AnnotationInfo{Expr: s.recon.Reconstruct(expr, res)})
	}
	return out
}

// scanClass selects the capability-gated members of one class. Every
// selected member and parameter type is registered immediately, and every
// accessor and method name is recorded in the global invoker name sets.
func (s *Scanner) scanClass(p *packages.Package, named *types.Named, caps capability.Set, annotations []AnnotationInfo) *ClassInfo {
	_, abstract := named.Underlying().(*types.Interface)
	info := &ClassInfo{
		Name:        named.Obj().Name(),
		PkgPath:     p.PkgPath,
		TypeIndex:   s.ctx.Registry.Register(named),
		Named:       named,
		Abstract:    abstract,
		Caps:        caps,
		Annotations: annotations,
	}

	if caps.Has(capability.SetFields) && !abstract {
		info.Fields = s.collectFields(named)
		for _, f := range info.Fields {
			s.ctx.Accessors.AddGetter(f.Name, info)
			if !f.Final {
				s.ctx.Accessors.AddSetter(f.Name, info)
			}
		}
	} else if caps.Has(capability.SetFields) {
		info.Fields = []FieldInfo{}
	}

	getters, setters, methods := s.collectMethods(p, named, abstract)
	if caps.Has(capability.SetGetters) {
		info.Getters = getters
		for _, g := range info.Getters {
			s.ctx.Accessors.AddGetter(g.Name, info)
		}
	}
	if caps.Has(capability.SetSetters) {
		info.Setters = setters
		for _, st := range info.Setters {
			s.ctx.Accessors.AddSetter(st.Name, info)
		}
	}
	if caps.Has(capability.SetMethods) {
		info.Methods = methods
		for _, m := range info.Methods {
			s.ctx.Accessors.AddMethod(m.Name, info)
		}
	}
	if caps.Has(capability.SetConstructors) && !abstract {
		info.Constructors = s.collectConstructors(p, named)
	} else if caps.Has(capability.SetConstructors) {
		info.Constructors = []CtorInfo{}
	}
	return info
}

// collectFields gathers own plus promoted exported fields. Own declarations
// take precedence on name collision; fields promoted from shallower
// embeddings win over deeper ones. Unexported fields are excluded from the
// capability-gated list.
func (s *Scanner) collectFields(named *types.Named) []FieldInfo {
	fields := []FieldInfo{}
	seen := make(map[string]bool)

	type level struct {
		st *types.Struct
	}
	current := []level{}
	if st, ok := named.Underlying().(*types.Struct); ok {
		current = append(current, level{st: st})
	}

	for len(current) > 0 {
		var next []level
		// Named (non-embedded) fields of this level first.
		for _, lv := range current {
			for i := 0; i < lv.st.NumFields(); i++ {
				f := lv.st.Field(i)
				if f.Embedded() || !f.Exported() || seen[f.Name()] {
					continue
				}
				seen[f.Name()] = true
				fields = append(fields, FieldInfo{
					Name:        f.Name(),
					TypeIndex:   s.ctx.Registry.Register(f.Type()),
					GoType:      f.Type(),
					Annotations: nil,
				})
			}
		}
		// Then descend into embedded structs for the next level.
		for _, lv := range current {
			for i := 0; i < lv.st.NumFields(); i++ {
				f := lv.st.Field(i)
				if !f.Embedded() {
					continue
				}
				t := f.Type()
				if ptr, ok := t.(*types.Pointer); ok {
					t = ptr.Elem()
				}
				if st, ok := t.Underlying().(*types.Struct); ok {
					next = append(next, level{st: st})
				}
			}
		}
		current = next
	}
	return fields
}

// collectMethods walks the full method set (own plus promoted) and
// classifies accessor-shaped methods. A zero-parameter single-result method
// is a getter; a SetX single-parameter no-result method is a setter keyed by
// the property name; every exported non-variadic method is invocable.
func (s *Scanner) collectMethods(p *packages.Package, named *types.Named, abstract bool) (getters, setters []AccessorInfo, methods []MethodInfo) {
	getters = []AccessorInfo{}
	setters = []AccessorInfo{}
	methods = []MethodInfo{}

	var ms *types.MethodSet
	if abstract {
		ms = types.NewMethodSet(named)
	} else {
		ms = types.NewMethodSet(types.NewPointer(named))
	}

	for i := 0; i < ms.Len(); i++ {
		fn, ok := ms.At(i).Obj().(*types.Func)
		if !ok || !fn.Exported() {
			continue
		}
		sig, ok := fn.Type().(*types.Signature)
		if !ok || sig.Variadic() {
			if ok && sig.Variadic() {
				s.ctx.Log.Debug("skipping variadic method",
					zap.String("class", named.Obj().Name()),
					zap.String("method", fn.Name()))
			}
			continue
		}
		ptrRecv := false
		if sig.Recv() != nil {
			_, ptrRecv = sig.Recv().Type().(*types.Pointer)
		}
		annotations := s.methodAnnotations(named, fn)

		if sig.Params().Len() == 0 && sig.Results().Len() == 1 {
			getters = append(getters, AccessorInfo{
				Name:        fn.Name(),
				MethodName:  fn.Name(),
				TypeIndex:   s.ctx.Registry.Register(sig.Results().At(0).Type()),
				GoType:      sig.Results().At(0).Type(),
				PtrRecv:     ptrRecv,
				Annotations: annotations,
			})
		}
		if prop, ok := setterProperty(fn.Name()); ok && sig.Params().Len() == 1 && sig.Results().Len() == 0 {
			setters = append(setters, AccessorInfo{
				Name:        prop,
				MethodName:  fn.Name(),
				TypeIndex:   s.ctx.Registry.Register(sig.Params().At(0).Type()),
				GoType:      sig.Params().At(0).Type(),
				PtrRecv:     ptrRecv,
				Annotations: annotations,
			})
		}

		methods = append(methods, MethodInfo{
			Name:        fn.Name(),
			ReturnIndex: s.registerReturn(sig),
			NumResults:  sig.Results().Len(),
			Params:      s.collectParams(p, sig, s.declSiteFor(fn)),
			PtrRecv:     ptrRecv,
			Annotations: annotations,
		})
	}
	return getters, setters, methods
}

// registerReturn interns a signature's result type: the first result for
// value-returning methods, the void sentinel otherwise.
func (s *Scanner) registerReturn(sig *types.Signature) int {
	if sig.Results().Len() == 0 {
		return s.ctx.Registry.RegisterVoid()
	}
	return s.ctx.Registry.Register(sig.Results().At(0).Type())
}

// collectParams interns parameter types and applies any declared defaults
// from the callable's defaults directive.
func (s *Scanner) collectParams(p *packages.Package, sig *types.Signature, site *funcDeclSite) []ParamInfo {
	defaults := s.parseDefaults(site)
	params := make([]ParamInfo, 0, sig.Params().Len())
	for i := 0; i < sig.Params().Len(); i++ {
		pv := sig.Params().At(i)
		info := ParamInfo{
			Name:      pv.Name(),
			TypeIndex: s.ctx.Registry.Register(pv.Type()),
			GoType:    pv.Type(),
			Index:     i,
		}
		if def, ok := defaults[pv.Name()]; ok {
			info.Optional = true
			info.Default = def
		}
		params = append(params, info)
	}
	return params
}

// parseDefaults extracts the defaults directive of a declaration:
// //mirror:defaults b=10, c=Rule{Max: 3}
func (s *Scanner) parseDefaults(site *funcDeclSite) map[string]ConstExpr {
	if site == nil || site.decl.Doc == nil {
		return nil
	}
	out := make(map[string]ConstExpr)
	res := s.resolver(site.pkg, site.file, site.decl.Pos())
	for _, text := range directiveTexts(site.decl.Doc) {
		if !strings.HasPrefix(text, defaultsKeyword) {
			continue
		}
		for _, assign := range splitTopLevel(strings.TrimPrefix(text, defaultsKeyword)) {
			name, value, found := strings.Cut(assign, "=")
			if !found {
				continue
			}
			name = strings.TrimSpace(name)
			value = strings.TrimSpace(value)
			expr, err := parser.ParseExpr(value)
			if err != nil {
				s.ctx.Report.FallbackExprs++
				out[name] = &Raw{Text: value}
				continue
			}
			out[name] = s.recon.Reconstruct(expr, res)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// methodAnnotations finds the directives on a method's declaring FuncDecl.
// When an overriding method carries none, the lookup falls back to the
// same-named method along the embedded (super) type chain, so inherited
// annotation intent is preserved.
func (s *Scanner) methodAnnotations(owner *types.Named, fn *types.Func) []AnnotationInfo {
	if anns := s.declAnnotations(fn); anns != nil {
		return anns
	}
	// Fall back through the embedding chain.
	for _, embedded := range embeddedNamed(owner) {
		for i := 0; i < embedded.NumMethods(); i++ {
			m := embedded.Method(i)
			if m.Name() == fn.Name() && m != fn {
				if anns := s.methodAnnotations(embedded, m); anns != nil {
					return anns
				}
			}
		}
	}
	return nil
}

// declAnnotations reconstructs the directives on a func's own declaration.
func (s *Scanner) declAnnotations(fn *types.Func) []AnnotationInfo {
	site := s.declSiteFor(fn)
	if site == nil || site.decl.Doc == nil {
		return nil
	}
	directives := directiveTexts(site.decl.Doc)
	texts := directives[:0]
	for _, d := range directives {
		if !strings.HasPrefix(d, defaultsKeyword) {
			texts = append(texts, d)
		}
	}
	if len(texts) == 0 {
		return nil
	}
	return s.reconstructAnnotations(texts, s.resolver(site.pkg, site.file, site.decl.Pos()))
}

// declSiteFor locates the FuncDecl behind a method or function object.
func (s *Scanner) declSiteFor(fn *types.Func) *funcDeclSite {
	if fn.Pkg() == nil {
		return nil
	}
	sig, ok := fn.Type().(*types.Signature)
	if !ok {
		return nil
	}
	if sig.Recv() == nil {
		return s.funcDecls[fn.Pkg().Path()][fn.Name()]
	}
	recv := sig.Recv().Type()
	if ptr, isPtr := recv.(*types.Pointer); isPtr {
		recv = ptr.Elem()
	}
	named, ok := types.Unalias(recv).(*types.Named)
	if !ok {
		return nil
	}
	return s.methodDecls[fn.Pkg().Path()][named.Obj().Name()+"."+fn.Name()]
}

// collectConstructors finds package functions following the constructor
// naming convention for a concrete class: NewType for the primary
// constructor, NewTypeXxx for the named constructor "xxx". Only exported,
// non-variadic, value-returning functions qualify.
func (s *Scanner) collectConstructors(p *packages.Package, named *types.Named) []CtorInfo {
	ctors := []CtorInfo{}
	className := named.Obj().Name()
	prefix := "New" + className
	scope := p.Types.Scope()

	for _, name := range scope.Names() { // Names() is sorted
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		fn, ok := scope.Lookup(name).(*types.Func)
		if !ok || !fn.Exported() {
			continue
		}
		sig, ok := fn.Type().(*types.Signature)
		if !ok || sig.Variadic() {
			continue
		}
		if !constructsType(sig, named) {
			continue
		}
		ctorName := mirrorCtorName(name[len(prefix):])
		if ctorName == "" && name != prefix {
			continue
		}
		site := s.funcDecls[p.PkgPath][name]
		ctors = append(ctors, CtorInfo{
			Name:        ctorName,
			FuncName:    name,
			NumResults:  sig.Results().Len(),
			ReturnsErr:  returnsError(sig),
			Params:      s.collectParams(p, sig, site),
			Annotations: s.declAnnotations(fn),
		})
	}
	return ctors
}

// mirrorCtorName maps a NewType suffix to the constructor name: the empty
// suffix is the primary constructor "new", FromPolar becomes "fromPolar".
// A suffix that does not start upper-case is not a constructor of this type
// (it belongs to a longer type name).
func mirrorCtorName(suffix string) string {
	if suffix == "" {
		return PrimaryCtorName
	}
	r, size := utf8.DecodeRuneInString(suffix)
	if !unicode.IsUpper(r) {
		return ""
	}
	return string(unicode.ToLower(r)) + suffix[size:]
}

// PrimaryCtorName is the conventional name of the unnamed constructor.
const PrimaryCtorName = "new"

// constructsType reports whether a signature returns the class (or a
// pointer to it), optionally with a trailing error.
func constructsType(sig *types.Signature, named *types.Named) bool {
	n := sig.Results().Len()
	if n == 0 || n > 2 {
		return false
	}
	if n == 2 && !returnsError(sig) {
		return false
	}
	ret := sig.Results().At(0).Type()
	if ptr, ok := ret.(*types.Pointer); ok {
		ret = ptr.Elem()
	}
	retNamed, ok := types.Unalias(ret).(*types.Named)
	return ok && retNamed.Obj() == named.Obj()
}

// returnsError reports whether the last result is the error type.
func returnsError(sig *types.Signature) bool {
	n := sig.Results().Len()
	if n == 0 {
		return false
	}
	last := sig.Results().At(n - 1).Type()
	named, ok := last.(*types.Named)
	return ok && named.Obj().Pkg() == nil && named.Obj().Name() == "error"
}

// scanEnum collects an enum's constants in declaration order across the
// package's files.
func (s *Scanner) scanEnum(p *packages.Package, named *types.Named, caps capability.Set, annotations []AnnotationInfo) *EnumInfo {
	info := &EnumInfo{
		Name:        named.Obj().Name(),
		PkgPath:     p.PkgPath,
		TypeIndex:   s.ctx.Registry.Register(named),
		Caps:        caps,
		Annotations: annotations,
	}

	ordinal := 0
	for _, file := range sortedFiles(p) {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.CONST {
				continue
			}
			for _, spec := range gen.Specs {
				vs, ok := spec.(*ast.ValueSpec)
				if !ok {
					continue
				}
				for _, name := range vs.Names {
					obj := p.TypesInfo.Defs[name]
					if obj == nil || obj.Type() != named {
						continue
					}
					if !name.IsExported() {
						// Unexported constants cannot be referenced
						// from the generated package.
						ordinal++
						continue
					}
					var anns []AnnotationInfo
					if texts := directiveTexts(vs.Doc, vs.Comment); len(texts) > 0 {
						anns = s.reconstructAnnotations(texts, s.resolver(p, file, vs.Pos()))
					}
					info.Values = append(info.Values, EnumValueInfo{
						ConstName:   name.Name,
						Index:       ordinal,
						Annotations: anns,
					})
					ordinal++
				}
			}
		}
	}
	return info
}

// scanFunction collects one annotated top-level function.
func (s *Scanner) scanFunction(p *packages.Package, file *ast.File, fd *ast.FuncDecl, result *ScanResult) {
	directives := directiveTexts(fd.Doc)
	if len(directives) == 0 || !fd.Name.IsExported() {
		return
	}
	if _, recognized := s.classify(p, fd.Pos(), directives); !recognized {
		return
	}
	obj := p.Types.Scope().Lookup(fd.Name.Name)
	fn, ok := obj.(*types.Func)
	if !ok {
		return
	}
	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Variadic() {
		return
	}

	res := s.resolver(p, file, fd.Pos())
	texts := make([]string, 0, len(directives))
	for _, d := range directives {
		if !strings.HasPrefix(d, defaultsKeyword) {
			texts = append(texts, d)
		}
	}
	retErr := returnsError(sig)
	var retIndex int
	if retErr && sig.Results().Len() == 1 {
		// A lone error result carries no value; the declared return is void.
		retIndex = s.ctx.Registry.RegisterVoid()
	} else {
		retIndex = s.registerReturn(sig)
	}
	site := &funcDeclSite{pkg: p, file: file, decl: fd}
	result.Functions = append(result.Functions, &FuncInfo{
		Name:        fd.Name.Name,
		PkgPath:     p.PkgPath,
		ReturnIndex: retIndex,
		NumResults:  sig.Results().Len(),
		ReturnsErr:  retErr,
		Params:      s.collectParams(p, sig, site),
		Annotations: s.reconstructAnnotations(texts, res),
	})
}

// resolver builds the per-file identifier resolver used by the
// reconstructor.
func (s *Scanner) resolver(p *packages.Package, file *ast.File, pos token.Pos) Resolver {
	return &fileResolver{pkg: p, file: file, pos: pos, aliases: s.ctx.Aliases}
}

// isEnum reports whether a named type is an enum: a basic underlying type
// with at least one package-level constant of that type.
func isEnum(named *types.Named) bool {
	if _, basic := named.Underlying().(*types.Basic); !basic {
		return false
	}
	pkg := named.Obj().Pkg()
	if pkg == nil {
		return false
	}
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		if c, ok := scope.Lookup(name).(*types.Const); ok && c.Type() == named {
			return true
		}
	}
	return false
}

// embeddedNamed returns the named types a class embeds, through one pointer
// level, excluding non-named embeddings.
func embeddedNamed(named *types.Named) []*types.Named {
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil
	}
	var out []*types.Named
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if !f.Embedded() {
			continue
		}
		t := f.Type()
		if ptr, isPtr := t.(*types.Pointer); isPtr {
			t = ptr.Elem()
		}
		if n, isNamed := types.Unalias(t).(*types.Named); isNamed {
			out = append(out, n)
		}
	}
	return out
}

// hasDirective reports whether a comment group carries a mirror directive.
func hasDirective(g *ast.CommentGroup) bool {
	if g == nil {
		return false
	}
	for _, c := range g.List {
		if strings.HasPrefix(c.Text, DirectivePrefix) {
			return true
		}
	}
	return false
}

// directiveTexts extracts mirror directive payloads from comment groups.
func directiveTexts(groups ...*ast.CommentGroup) []string {
	var out []string
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, c := range g.List {
			if strings.HasPrefix(c.Text, DirectivePrefix) {
				out = append(out, strings.TrimSpace(strings.TrimPrefix(c.Text, DirectivePrefix)))
			}
		}
	}
	return out
}

// receiverTypeName extracts the bare type name from a receiver expression.
func receiverTypeName(e ast.Expr) string {
	switch t := e.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.IndexExpr:
		return receiverTypeName(t.X)
	case *ast.IndexListExpr:
		return receiverTypeName(t.X)
	}
	return ""
}

// setterProperty maps a SetX method name to its property key X.
func setterProperty(name string) (string, bool) {
	if !strings.HasPrefix(name, "Set") || len(name) == len("Set") {
		return "", false
	}
	rest := name[len("Set"):]
	r, _ := utf8.DecodeRuneInString(rest)
	if !unicode.IsUpper(r) {
		return "", false
	}
	return rest, true
}

// splitTopLevel splits a comma-separated list, ignoring commas nested in
// braces, brackets, parens or string literals, so composite defaults stay
// intact.
func splitTopLevel(s string) []string {
	var out []string
	depth := 0
	inString := false
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			if ch == '\\' {
				i++
			} else if ch == quote {
				inString = false
			}
			continue
		}
		switch ch {
		case '"', '\'', '`':
			inString = true
			quote = ch
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(s[start:]); tail != "" {
		out = append(out, tail)
	}
	return out
}

// fileResolver resolves identifiers in directive expressions through the
// file's imports, the package scope, and finally the universe scope.
type fileResolver struct {
	pkg     *packages.Package
	file    *ast.File
	pos     token.Pos
	aliases *AliasTable
}

func (r *fileResolver) ResolveIdent(name string) (string, bool) {
	if obj := r.pkg.Types.Scope().Lookup(name); obj != nil {
		if obj.Pkg() == nil {
			return "", true
		}
		return obj.Pkg().Path(), true
	}
	if types.Universe.Lookup(name) != nil {
		return "", true
	}
	return "", false
}

func (r *fileResolver) ResolvePkgName(name string) (string, bool) {
	for _, imp := range r.file.Imports {
		path := strings.Trim(imp.Path.Value, `"`)
		local := ""
		if imp.Name != nil {
			local = imp.Name.Name
		} else if dep, ok := r.pkg.Imports[path]; ok {
			local = dep.Name
		} else {
			// Fall back to the last path segment.
			local = path
			if i := strings.LastIndexByte(path, '/'); i >= 0 {
				local = path[i+1:]
			}
		}
		if local == name {
			return path, true
		}
	}
	return "", false
}

func (r *fileResolver) RenderType(e ast.Expr) (string, []string, bool) {
	var pkgs []string
	qual := func(p *types.Package) string {
		pkgs = append(pkgs, p.Path())
		return r.aliases.Alias(p.Path())
	}
	if tv, ok := r.pkg.TypesInfo.Types[e]; ok && tv.Type != nil {
		return types.TypeString(tv.Type, qual), pkgs, true
	}
	text := astutil.ExprString(e)
	if text == "" {
		return "", nil, false
	}
	tv, err := types.Eval(r.pkg.Fset, r.pkg.Types, r.pos, text)
	if err != nil || tv.Type == nil {
		return "", nil, false
	}
	return types.TypeString(tv.Type, qual), pkgs, true
}
