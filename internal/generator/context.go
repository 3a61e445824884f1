package generator

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Context owns all mutable generation state: the type registry, the alias
// table, the accessor name sets and the scan report. One Context serves one
// generation run and is threaded explicitly through the whole call graph;
// nothing in this package keeps ambient global state.
type Context struct {
	Entry     string // entry package import path
	Registry  *TypeRegistry
	Aliases   *AliasTable
	Accessors *AccessorSets
	Report    *Report
	Log       *zap.Logger
	RunID     string
}

// NewContext creates the state for one generation run. A nil logger is
// replaced with a no-op logger for library use.
func NewContext(entry string, log *zap.Logger) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	runID := uuid.NewString()
	return &Context{
		Entry:     entry,
		Registry:  NewTypeRegistry(),
		Aliases:   NewAliasTable(entry),
		Accessors: NewAccessorSets(),
		Report:    &Report{},
		Log:       log.With(zap.String("run_id", runID)),
		RunID:     runID,
	}
}

// Report collects what one generation run scanned and what it skipped.
// Generation never aborts for one bad package or one unrecognized constant
// expression; everything skipped lands here.
type Report struct {
	PackagesScanned []string
	PackagesSkipped []SkippedPackage
	Classes         int
	Enums           int
	Functions       int
	FallbackExprs   int
}

// SkippedPackage records one package excluded from the closure and why.
type SkippedPackage struct {
	Path   string
	Reason string
}

// AccessorSets records every requested accessor and method name across all
// scanned declarations, together with the declaring classes in scan order.
// Dispatch entries are emitted per bare name, shared by every class that
// requested it.
type AccessorSets struct {
	Getters map[string][]*ClassInfo
	Setters map[string][]*ClassInfo
	Methods map[string][]*ClassInfo
}

// NewAccessorSets creates empty accessor name sets.
func NewAccessorSets() *AccessorSets {
	return &AccessorSets{
		Getters: make(map[string][]*ClassInfo),
		Setters: make(map[string][]*ClassInfo),
		Methods: make(map[string][]*ClassInfo),
	}
}

func appendClass(m map[string][]*ClassInfo, name string, c *ClassInfo) {
	for _, existing := range m[name] {
		if existing == c {
			return
		}
	}
	m[name] = append(m[name], c)
}

// AddGetter records a readable name (field or explicit getter) for a class.
func (s *AccessorSets) AddGetter(name string, c *ClassInfo) {
	appendClass(s.Getters, name, c)
}

// AddSetter records a writable name (non-final field or explicit setter).
func (s *AccessorSets) AddSetter(name string, c *ClassInfo) {
	appendClass(s.Setters, name, c)
}

// AddMethod records an invocable method name for a class.
func (s *AccessorSets) AddMethod(name string, c *ClassInfo) {
	appendClass(s.Methods, name, c)
}
