package mirror

import (
	"strings"

	"github.com/mirrorlang/mirror/capability"
)

// TypeKind discriminates entries in the type table.
type TypeKind int

const (
	// KindNominal is a named type, possibly instantiated with type arguments.
	KindNominal TypeKind = iota
	// KindAny is the dynamic sentinel (any / interface{}).
	KindAny
	// KindVoid is the no-result sentinel.
	KindVoid
)

// TypeRecord is one entry in the payload's interned type table. Nominal
// records carry the qualified declaration name and the table indices of
// their type arguments; sentinel records carry neither.
type TypeRecord struct {
	Kind     TypeKind
	Name     string // qualified name, e.g. "example.com/geom.Point"
	TypeArgs []int  // indices into Payload.Types
	Nullable bool   // pointer types
}

// String renders the record for diagnostics. Type arguments are rendered by
// index since a record does not carry its owning table.
func (t TypeRecord) String() string {
	switch t.Kind {
	case KindAny:
		return "any"
	case KindVoid:
		return "void"
	}
	var b strings.Builder
	if t.Nullable {
		b.WriteByte('*')
	}
	b.WriteString(t.Name)
	if len(t.TypeArgs) > 0 {
		b.WriteByte('[')
		for i, arg := range t.TypeArgs {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('#')
			b.WriteString(itoa(arg))
		}
		b.WriteByte(']')
	}
	return b.String()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// Invoker thunks. Dispatch is by bare member name: one thunk serves every
// annotated declaration that requested that name, narrowing the receiver
// with a type switch. A nil receiver is used for static dispatch.
type (
	// GetterThunk reads a property or field from a receiver.
	GetterThunk func(recv any) any
	// SetterThunk writes a property or field on a receiver. Returns an
	// error when the receiver is not addressable for the member.
	SetterThunk func(recv, value any) error
	// MethodThunk invokes a method on a receiver with positional args.
	MethodThunk func(recv any, args []any) any
)

// AnnotationData is one reconstructed annotation on a declaration, member
// or parameter. Source is the alias-resolved expression text; Value is the
// evaluated annotation value when the generated payload can construct it.
type AnnotationData struct {
	Source string
	Value  any
}

// ParamData describes one parameter of a method, constructor or function.
type ParamData struct {
	Name        string
	Type        int // index into Payload.Types
	Index       int // positional index
	Named       bool
	Required    bool   // named parameters only
	Optional    bool   // positional parameters only
	Default     string // reconstructed default expression, "" if none
	Annotations []AnnotationData
}

// FieldData describes one capability-selected field. Field access dispatches
// through the global getter/setter maps under the field's bare name.
type FieldData struct {
	Name        string
	Type        int
	IsFinal     bool
	IsStatic    bool
	Annotations []AnnotationData
}

// GetterData describes an explicitly declared getter.
type GetterData struct {
	Name        string
	Type        int // result type
	IsStatic    bool
	Annotations []AnnotationData
}

// SetterData describes an explicitly declared setter, keyed by the property
// name it assigns.
type SetterData struct {
	Name        string
	Type        int // parameter type
	IsStatic    bool
	Annotations []AnnotationData
}

// MethodData describes one invocable method.
type MethodData struct {
	Name        string
	Return      int
	Params      []ParamData
	IsStatic    bool
	Annotations []AnnotationData
}

// ConstructorData describes one constructor. Invoke is the deferred factory
// binding: the generated closure resolves the constructor reference at call
// time, applies declared defaults, and reports missing required arguments.
type ConstructorData struct {
	Name   string // "new" for the primary constructor
	Params []ParamData
	Invoke func(pos []any, named map[string]any) (any, error)
}

// ClassData is the payload record for one annotated class. Member slices for
// capabilities the annotation did not request are nil; a requested capability
// with no members is a non-nil empty slice. Callers must distinguish the two.
type ClassData struct {
	Name         string // display name
	PkgPath      string
	Type         int // owning index into Payload.Types
	Abstract     bool
	Capabilities capability.Set
	Annotations  []AnnotationData
	Fields       []FieldData
	Getters      []GetterData
	Setters      []SetterData
	Methods      []MethodData
	Constructors []ConstructorData
}

// QualifiedName returns the package-qualified declaration name.
func (c *ClassData) QualifiedName() string {
	if c.PkgPath == "" {
		return c.Name
	}
	return c.PkgPath + "." + c.Name
}

// EnumValueData is one enum constant: its name, declaration ordinal, and the
// runtime constant value.
type EnumValueData struct {
	Name        string
	Index       int
	Value       any
	Annotations []AnnotationData
}

// EnumData is the payload record for one annotated enum.
type EnumData struct {
	Name         string
	PkgPath      string
	Type         int
	Capabilities capability.Set
	Annotations  []AnnotationData
	Values       []EnumValueData
}

// QualifiedName returns the package-qualified declaration name.
func (e *EnumData) QualifiedName() string {
	if e.PkgPath == "" {
		return e.Name
	}
	return e.PkgPath + "." + e.Name
}

// FunctionData is the payload record for one annotated top-level function.
// Invoke applies declared defaults for trailing optional parameters.
type FunctionData struct {
	Name        string
	PkgPath     string
	Return      int
	Params      []ParamData
	Annotations []AnnotationData
	Invoke      func(pos []any) (any, error)
}

// Payload is the complete generated data artifact consumed by Initialize.
// It is pure data plus invoker closures; section order mirrors the emitter's
// fixed serialization order.
type Payload struct {
	// Types is the interned type table. Indices are dense and stable for
	// the lifetime of the payload.
	Types []TypeRecord

	// Name-keyed invoker maps, shared across all declarations.
	Getters map[string]GetterThunk
	Setters map[string]SetterThunk
	Methods map[string]MethodThunk

	Classes   []ClassData
	Enums     []EnumData
	Functions []FunctionData

	// Resolve maps a live value to the type-table index of its class.
	// Generated as a type switch so runtime type resolution never needs
	// native reflection.
	Resolve func(v any) (int, bool)
}
