package mirror

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// registry holds the process-global lookup tables. It is populated exactly
// once by Initialize (called from the generated Init) and treated as
// immutable afterwards: the initializer is the sole writer, every reflective
// query is a pure read behind an atomic initialized check.
type registry struct {
	payload *Payload

	// Pre-computed indexes for O(1) lookups, built once at initialization.
	classesByName   map[string]*ClassMirror // qualified and display names
	classesByType   map[int]*ClassMirror    // type-table index
	enumsByName     map[string]*EnumMirror
	functionsByName map[string]*FunctionMirror

	initialized atomic.Bool
	initMu      sync.Mutex
}

var globalRegistry = &registry{}

// Initialize wires the generated payload into the global lookup tables.
// It is called from the generated Init() and must run before any lookup.
// A second call fails with ErrAlreadyInitialized; the tables are never
// rebuilt within one process.
func Initialize(p *Payload) error {
	globalRegistry.initMu.Lock()
	defer globalRegistry.initMu.Unlock()

	if globalRegistry.initialized.Load() {
		return ErrAlreadyInitialized
	}
	globalRegistry.install(p)
	globalRegistry.initialized.Store(true)
	return nil
}

// install builds all indexes. Display names are indexed first-wins so that
// lookups stay deterministic when two packages export the same name; the
// qualified name is always an exact key.
func (r *registry) install(p *Payload) {
	r.payload = p
	r.classesByName = make(map[string]*ClassMirror, 2*len(p.Classes))
	r.classesByType = make(map[int]*ClassMirror, len(p.Classes))
	r.enumsByName = make(map[string]*EnumMirror, 2*len(p.Enums))
	r.functionsByName = make(map[string]*FunctionMirror, len(p.Functions))

	for i := range p.Classes {
		data := &p.Classes[i]
		m := &ClassMirror{data: data, payload: p}
		r.classesByType[data.Type] = m
		r.classesByName[data.QualifiedName()] = m
		if _, taken := r.classesByName[data.Name]; !taken {
			r.classesByName[data.Name] = m
		}
	}
	for i := range p.Enums {
		data := &p.Enums[i]
		m := &EnumMirror{data: data, payload: p}
		r.enumsByName[data.QualifiedName()] = m
		if _, taken := r.enumsByName[data.Name]; !taken {
			r.enumsByName[data.Name] = m
		}
	}
	for i := range p.Functions {
		data := &p.Functions[i]
		r.functionsByName[data.Name] = &FunctionMirror{data: data, payload: p}
	}
}

// ready reports whether the registry has been initialized.
func (r *registry) ready() bool {
	return r.initialized.Load()
}

// Reset clears the registry. Test support only; production processes
// initialize once and never tear down.
func Reset() {
	globalRegistry.initMu.Lock()
	defer globalRegistry.initMu.Unlock()
	globalRegistry.payload = nil
	globalRegistry.classesByName = nil
	globalRegistry.classesByType = nil
	globalRegistry.enumsByName = nil
	globalRegistry.functionsByName = nil
	globalRegistry.initialized.Store(false)
}

// ClassByName returns the ClassMirror for a class by display name or
// package-qualified name. Fails with NotFoundError when the class was never
// registered, and ErrNotInitialized before the generated Init has run.
func ClassByName(name string) (*ClassMirror, error) {
	if !globalRegistry.ready() {
		return nil, ErrNotInitialized
	}
	if m, ok := globalRegistry.classesByName[name]; ok {
		return m, nil
	}
	return nil, &NotFoundError{Kind: "class", Name: name}
}

// TryClassByName is the optional-result variant of ClassByName. It reports
// false both for unknown classes and before initialization.
func TryClassByName(name string) (*ClassMirror, bool) {
	m, err := ClassByName(name)
	return m, err == nil
}

// EnumByName returns the EnumMirror for an enum by display or qualified name.
func EnumByName(name string) (*EnumMirror, error) {
	if !globalRegistry.ready() {
		return nil, ErrNotInitialized
	}
	if m, ok := globalRegistry.enumsByName[name]; ok {
		return m, nil
	}
	return nil, &NotFoundError{Kind: "enum", Name: name}
}

// TryEnumByName is the optional-result variant of EnumByName.
func TryEnumByName(name string) (*EnumMirror, bool) {
	m, err := EnumByName(name)
	return m, err == nil
}

// Function returns the FunctionMirror for a top-level function by bare name.
func Function(name string) (*FunctionMirror, error) {
	if !globalRegistry.ready() {
		return nil, ErrNotInitialized
	}
	if m, ok := globalRegistry.functionsByName[name]; ok {
		return m, nil
	}
	return nil, &NotFoundError{Kind: "function", Name: name}
}

// TryFunction is the optional-result variant of Function.
func TryFunction(name string) (*FunctionMirror, bool) {
	m, err := Function(name)
	return m, err == nil
}

// Object wraps a live value in an InstanceMirror, resolving its ClassMirror
// through the generated value resolver. Fails with NotFoundError when the
// value's type was never registered.
func Object(v any) (*InstanceMirror, error) {
	if !globalRegistry.ready() {
		return nil, ErrNotInitialized
	}
	p := globalRegistry.payload
	if p.Resolve != nil {
		if idx, ok := p.Resolve(v); ok {
			if m, found := globalRegistry.classesByType[idx]; found {
				return &InstanceMirror{class: m, value: v}, nil
			}
		}
	}
	return nil, &NotFoundError{Kind: "class", Name: typeNameOf(v)}
}

// Classes returns every registered ClassMirror in payload order.
func Classes() ([]*ClassMirror, error) {
	if !globalRegistry.ready() {
		return nil, ErrNotInitialized
	}
	p := globalRegistry.payload
	out := make([]*ClassMirror, 0, len(p.Classes))
	for i := range p.Classes {
		out = append(out, globalRegistry.classesByType[p.Classes[i].Type])
	}
	return out, nil
}

// Enums returns every registered EnumMirror in payload order.
func Enums() ([]*EnumMirror, error) {
	if !globalRegistry.ready() {
		return nil, ErrNotInitialized
	}
	p := globalRegistry.payload
	out := make([]*EnumMirror, 0, len(p.Enums))
	for i := range p.Enums {
		out = append(out, globalRegistry.enumsByName[p.Enums[i].QualifiedName()])
	}
	return out, nil
}

// Functions returns every registered FunctionMirror in payload order.
func Functions() ([]*FunctionMirror, error) {
	if !globalRegistry.ready() {
		return nil, ErrNotInitialized
	}
	p := globalRegistry.payload
	out := make([]*FunctionMirror, 0, len(p.Functions))
	for i := range p.Functions {
		out = append(out, globalRegistry.functionsByName[p.Functions[i].Name])
	}
	return out, nil
}

// TypeByIndex returns the interned type record at a table index.
func TypeByIndex(i int) (TypeRecord, error) {
	if !globalRegistry.ready() {
		return TypeRecord{}, ErrNotInitialized
	}
	p := globalRegistry.payload
	if i < 0 || i >= len(p.Types) {
		return TypeRecord{}, &NotFoundError{Kind: "type", Name: "#" + itoa(i)}
	}
	return p.Types[i], nil
}

// typeNameOf labels a value's dynamic type for error messages. The payload
// resolver stays the only source of type identity for dispatch; this name is
// diagnostic only.
func typeNameOf(v any) string {
	return fmt.Sprintf("%T", v)
}
