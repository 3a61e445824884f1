// Package generator is the build-time half of the static reflection system.
// It expands the package closure, scans annotated declarations, interns
// every referenced type into a flat indexed table, reconstructs annotation
// and default-value expressions, and emits the generated data module
// consumed by runtime/mirror.
package generator

import (
	"go/types"
	"strings"

	"github.com/mirrorlang/mirror/runtime/mirror"
)

// Sentinel registry keys. Fixed so each sentinel is registered at most once.
const (
	keyAny  = "$any"
	keyVoid = "$void"
)

// TypeEntry is one interned type: the serializable record plus the original
// go/types value, kept so later passes can render alias-qualified syntax.
type TypeEntry struct {
	Kind     mirror.TypeKind
	Name     string // qualified declaration name
	Args     []int  // registry indices of type arguments
	Nullable bool
	Type     types.Type // nil for sentinels
}

// Record converts the entry to its payload form.
func (e TypeEntry) Record() mirror.TypeRecord {
	return mirror.TypeRecord{Kind: e.Kind, Name: e.Name, TypeArgs: e.Args, Nullable: e.Nullable}
}

// TypeRegistry deduplicates type references into a dense, insertion-ordered
// table of indices. Structurally equal types collapse to one slot; type
// arguments are registered before their container completes registration, so
// nested generic structures resolve without unbounded recursion (the key map
// is the cycle guard, not recursion depth).
type TypeRegistry struct {
	keys    map[string]int
	entries []TypeEntry
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{keys: make(map[string]int)}
}

// Len returns the number of interned types.
func (r *TypeRegistry) Len() int { return len(r.entries) }

// At returns the entry at a registry index.
func (r *TypeRegistry) At(i int) TypeEntry { return r.entries[i] }

// Entries returns the table in insertion order.
func (r *TypeRegistry) Entries() []TypeEntry { return r.entries }

// RegisterVoid interns the void sentinel (a function with no results).
func (r *TypeRegistry) RegisterVoid() int {
	if idx, ok := r.keys[keyVoid]; ok {
		return idx
	}
	idx := len(r.entries)
	r.keys[keyVoid] = idx
	r.entries = append(r.entries, TypeEntry{Kind: mirror.KindVoid})
	return idx
}

// registerAny interns the dynamic sentinel (any / empty interface).
func (r *TypeRegistry) registerAny() int {
	if idx, ok := r.keys[keyAny]; ok {
		return idx
	}
	idx := len(r.entries)
	r.keys[keyAny] = idx
	r.entries = append(r.entries, TypeEntry{Kind: mirror.KindAny})
	return idx
}

// Register interns a type and returns its table index. Registration is
// idempotent: the same structural type always yields the same index.
func (r *TypeRegistry) Register(t types.Type) int {
	if t == nil {
		return r.RegisterVoid()
	}
	if isEmptyInterface(t) {
		return r.registerAny()
	}

	if ptr, ok := t.(*types.Pointer); ok {
		// A pointer is the nullable rendering of its element.
		elem := ptr.Elem()
		key := structKey(elem) + "?"
		if idx, ok := r.keys[key]; ok {
			return idx
		}
		// Register the element first so its arguments land before the
		// nullable variant.
		elemIdx := r.Register(elem)
		if idx, ok := r.keys[key]; ok {
			return idx
		}
		base := r.entries[elemIdx]
		idx := len(r.entries)
		r.keys[key] = idx
		r.entries = append(r.entries, TypeEntry{
			Kind:     base.Kind,
			Name:     base.Name,
			Args:     base.Args,
			Nullable: true,
			Type:     t,
		})
		return idx
	}

	key := structKey(t)
	if idx, ok := r.keys[key]; ok {
		return idx
	}

	// Register every type argument before the container is appended.
	args := typeArguments(t)
	argIdx := make([]int, 0, len(args))
	for _, arg := range args {
		argIdx = append(argIdx, r.Register(arg))
	}
	if idx, ok := r.keys[key]; ok {
		// A cyclic argument chain already interned the container.
		return idx
	}

	idx := len(r.entries)
	r.keys[key] = idx
	r.entries = append(r.entries, TypeEntry{
		Kind: mirror.KindNominal,
		Name: nominalName(t),
		Args: argIdx,
		Type: t,
	})
	return idx
}

// TypeArgIndices returns the already-registered indices of a type's
// arguments. Registration is idempotent, so this is safe to call repeatedly.
func (r *TypeRegistry) TypeArgIndices(t types.Type) []int {
	idx := r.Register(t)
	return r.entries[idx].Args
}

// structKey computes the canonical structural key of a type: qualified name
// plus comma-joined argument keys plus a nullability suffix.
func structKey(t types.Type) string {
	if t == nil {
		return keyVoid
	}
	if isEmptyInterface(t) {
		return keyAny
	}
	if ptr, ok := t.(*types.Pointer); ok {
		return structKey(ptr.Elem()) + "?"
	}
	args := typeArguments(t)
	if len(args) == 0 {
		return nominalName(t)
	}
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = structKey(arg)
	}
	return nominalName(t) + "<" + strings.Join(parts, ",") + ">"
}

// nominalName renders a type's qualified declaration name. Structural types
// (slices, maps, channels, funcs) have no declaration; they are carried
// under their full type string so member records referencing them still
// resolve to one registry slot.
func nominalName(t types.Type) string {
	switch tt := t.(type) {
	case *types.Named:
		obj := tt.Obj()
		if obj.Pkg() == nil {
			return obj.Name() // universe scope (error)
		}
		return obj.Pkg().Path() + "." + obj.Name()
	case *types.Alias:
		return nominalName(types.Unalias(t))
	case *types.Basic:
		return tt.Name()
	default:
		return types.TypeString(t, func(p *types.Package) string { return p.Path() })
	}
}

// typeArguments returns the instantiated type arguments of a named type.
func typeArguments(t types.Type) []types.Type {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return nil
	}
	targs := named.TypeArgs()
	if targs == nil || targs.Len() == 0 {
		return nil
	}
	out := make([]types.Type, targs.Len())
	for i := 0; i < targs.Len(); i++ {
		out[i] = targs.At(i)
	}
	return out
}

// isEmptyInterface reports whether t is the unnamed empty interface.
func isEmptyInterface(t types.Type) bool {
	if _, named := t.(*types.Named); named {
		return false
	}
	iface, ok := t.Underlying().(*types.Interface)
	return ok && iface.Empty()
}
