package mirror

import (
	"sync"

	"github.com/mirrorlang/mirror/capability"
)

// Annotation is one reconstructed annotation as seen through a mirror.
type Annotation struct {
	Source string
	Value  any
}

// Field is a read-only view of one capability-selected field.
type Field struct {
	Owner       *ClassMirror
	Name        string
	Type        TypeRecord
	TypeIndex   int
	IsFinal     bool
	IsStatic    bool
	Annotations []Annotation
}

// Accessor is a read-only view of one explicit getter or setter.
type Accessor struct {
	Owner       *ClassMirror
	Name        string
	Type        TypeRecord
	TypeIndex   int
	IsStatic    bool
	Annotations []Annotation
}

// Param is a read-only view of one parameter.
type Param struct {
	Name        string
	Type        TypeRecord
	TypeIndex   int
	Index       int
	Named       bool
	Required    bool
	Optional    bool
	Default     string
	Annotations []Annotation
}

// Method is a read-only view of one invocable method.
type Method struct {
	Owner       *ClassMirror
	Name        string
	Return      TypeRecord
	ReturnIndex int
	Params      []Param
	IsStatic    bool
	Annotations []Annotation
}

// Constructor is a read-only view of one constructor. The underlying factory
// binding stays deferred until NewInstance resolves it.
type Constructor struct {
	Owner       *ClassMirror
	Name        string
	Params      []Param
	Annotations []Annotation
}

// ClassMirror exposes the metadata and invocation surface of one annotated
// class. Member views are computed lazily on first access and cached; a
// capability the annotation did not request yields a nil collection, which
// is distinct from a requested capability with zero members (empty non-nil).
type ClassMirror struct {
	data    *ClassData
	payload *Payload

	once         sync.Once
	fields       []Field
	getters      []Accessor
	setters      []Accessor
	methods      []Method
	constructors []Constructor
}

// Name returns the class display name.
func (c *ClassMirror) Name() string { return c.data.Name }

// QualifiedName returns the package-qualified declaration name.
func (c *ClassMirror) QualifiedName() string { return c.data.QualifiedName() }

// PkgPath returns the owning package's import path.
func (c *ClassMirror) PkgPath() string { return c.data.PkgPath }

// IsAbstract reports whether the class is abstract (an interface type);
// abstract classes carry no constructors.
func (c *ClassMirror) IsAbstract() bool { return c.data.Abstract }

// Capabilities returns the capability set requested by the annotation.
func (c *ClassMirror) Capabilities() capability.Set { return c.data.Capabilities }

// TypeIndex returns the class's index in the interned type table.
func (c *ClassMirror) TypeIndex() int { return c.data.Type }

// TypeRecord returns the class's interned type record.
func (c *ClassMirror) TypeRecord() TypeRecord { return c.payload.Types[c.data.Type] }

// Annotations returns the reconstructed annotations on the class declaration.
func (c *ClassMirror) Annotations() []Annotation {
	return annotationViews(c.data.Annotations)
}

func annotationViews(data []AnnotationData) []Annotation {
	if data == nil {
		return nil
	}
	out := make([]Annotation, len(data))
	for i, a := range data {
		out[i] = Annotation{Source: a.Source, Value: a.Value}
	}
	return out
}

func (c *ClassMirror) paramViews(data []ParamData) []Param {
	if data == nil {
		return nil
	}
	out := make([]Param, len(data))
	for i, p := range data {
		out[i] = Param{
			Name:        p.Name,
			Type:        c.payload.Types[p.Type],
			TypeIndex:   p.Type,
			Index:       p.Index,
			Named:       p.Named,
			Required:    p.Required,
			Optional:    p.Optional,
			Default:     p.Default,
			Annotations: annotationViews(p.Annotations),
		}
	}
	return out
}

// build materializes every member view once. Absent capabilities stay nil.
func (c *ClassMirror) build() {
	c.once.Do(func() {
		d := c.data
		if d.Fields != nil {
			c.fields = make([]Field, len(d.Fields))
			for i, f := range d.Fields {
				c.fields[i] = Field{
					Owner:       c,
					Name:        f.Name,
					Type:        c.payload.Types[f.Type],
					TypeIndex:   f.Type,
					IsFinal:     f.IsFinal,
					IsStatic:    f.IsStatic,
					Annotations: annotationViews(f.Annotations),
				}
			}
		}
		if d.Getters != nil {
			c.getters = make([]Accessor, len(d.Getters))
			for i, g := range d.Getters {
				c.getters[i] = Accessor{
					Owner:       c,
					Name:        g.Name,
					Type:        c.payload.Types[g.Type],
					TypeIndex:   g.Type,
					IsStatic:    g.IsStatic,
					Annotations: annotationViews(g.Annotations),
				}
			}
		}
		if d.Setters != nil {
			c.setters = make([]Accessor, len(d.Setters))
			for i, s := range d.Setters {
				c.setters[i] = Accessor{
					Owner:       c,
					Name:        s.Name,
					Type:        c.payload.Types[s.Type],
					TypeIndex:   s.Type,
					IsStatic:    s.IsStatic,
					Annotations: annotationViews(s.Annotations),
				}
			}
		}
		if d.Methods != nil {
			c.methods = make([]Method, len(d.Methods))
			for i, m := range d.Methods {
				c.methods[i] = Method{
					Owner:       c,
					Name:        m.Name,
					Return:      c.payload.Types[m.Return],
					ReturnIndex: m.Return,
					Params:      c.paramViews(m.Params),
					IsStatic:    m.IsStatic,
					Annotations: annotationViews(m.Annotations),
				}
			}
		}
		if d.Constructors != nil {
			c.constructors = make([]Constructor, len(d.Constructors))
			for i, ctor := range d.Constructors {
				c.constructors[i] = Constructor{
					Owner:  c,
					Name:   ctor.Name,
					Params: c.paramViews(ctor.Params),
				}
			}
		}
	})
}

// Fields returns the field views, or nil when the fields capability was not
// requested.
func (c *ClassMirror) Fields() []Field {
	c.build()
	return c.fields
}

// Getters returns the explicit getter views, or nil when not requested.
func (c *ClassMirror) Getters() []Accessor {
	c.build()
	return c.getters
}

// Setters returns the explicit setter views, or nil when not requested.
func (c *ClassMirror) Setters() []Accessor {
	c.build()
	return c.setters
}

// Methods returns the method views, or nil when not requested.
func (c *ClassMirror) Methods() []Method {
	c.build()
	return c.methods
}

// Constructors returns the constructor views, or nil when not requested.
func (c *ClassMirror) Constructors() []Constructor {
	c.build()
	return c.constructors
}

// Field returns the named field view, failing with MissingMemberError when
// absent and CapabilityError when fields were never requested.
func (c *ClassMirror) Field(name string) (Field, error) {
	if !c.data.Capabilities.Has(capability.SetFields) {
		return Field{}, &CapabilityError{Class: c.QualifiedName(), Capability: "fields"}
	}
	for _, f := range c.Fields() {
		if f.Name == name {
			return f, nil
		}
	}
	return Field{}, &MissingMemberError{Class: c.QualifiedName(), Member: name, Kind: "field"}
}

// Method returns the named method view. This is the strict lookup: it never
// returns a zero value silently.
func (c *ClassMirror) Method(name string) (Method, error) {
	if !c.data.Capabilities.Has(capability.SetMethods) {
		return Method{}, &CapabilityError{Class: c.QualifiedName(), Capability: "methods"}
	}
	for _, m := range c.Methods() {
		if m.Name == name {
			return m, nil
		}
	}
	return Method{}, &MissingMemberError{Class: c.QualifiedName(), Member: name, Kind: "method"}
}

// Getter returns the named explicit getter view.
func (c *ClassMirror) Getter(name string) (Accessor, error) {
	if !c.data.Capabilities.Has(capability.SetGetters) {
		return Accessor{}, &CapabilityError{Class: c.QualifiedName(), Capability: "getters"}
	}
	for _, g := range c.Getters() {
		if g.Name == name {
			return g, nil
		}
	}
	return Accessor{}, &MissingMemberError{Class: c.QualifiedName(), Member: name, Kind: "getter"}
}

// Setter returns the named explicit setter view.
func (c *ClassMirror) Setter(name string) (Accessor, error) {
	if !c.data.Capabilities.Has(capability.SetSetters) {
		return Accessor{}, &CapabilityError{Class: c.QualifiedName(), Capability: "setters"}
	}
	for _, s := range c.Setters() {
		if s.Name == name {
			return s, nil
		}
	}
	return Accessor{}, &MissingMemberError{Class: c.QualifiedName(), Member: name, Kind: "setter"}
}

// Constructor returns the named constructor view. The primary constructor
// uses the default name "new".
func (c *ClassMirror) Constructor(name string) (Constructor, error) {
	if !c.data.Capabilities.Has(capability.SetConstructors) {
		return Constructor{}, &CapabilityError{Class: c.QualifiedName(), Capability: "constructors"}
	}
	for _, ctor := range c.Constructors() {
		if ctor.Name == name {
			return ctor, nil
		}
	}
	return Constructor{}, &MissingMemberError{Class: c.QualifiedName(), Member: name, Kind: "constructor"}
}

// NewInstance invokes the named constructor's deferred factory binding with
// the supplied arguments and wraps the result in an InstanceMirror. The
// constructor name defaults to "new" when empty.
func (c *ClassMirror) NewInstance(ctorName string, pos []any, named map[string]any) (*InstanceMirror, error) {
	if ctorName == "" {
		ctorName = PrimaryConstructor
	}
	if !c.data.Capabilities.Has(capability.SetConstructors) {
		return nil, &CapabilityError{Class: c.QualifiedName(), Capability: "constructors"}
	}
	for i := range c.data.Constructors {
		ctor := &c.data.Constructors[i]
		if ctor.Name != ctorName {
			continue
		}
		value, err := ctor.Invoke(pos, named)
		if err != nil {
			return nil, err
		}
		return &InstanceMirror{class: c, value: value}, nil
	}
	return nil, &MissingMemberError{Class: c.QualifiedName(), Member: ctorName, Kind: "constructor"}
}

// PrimaryConstructor is the conventional name of a class's unnamed
// constructor.
const PrimaryConstructor = "new"

// InvokeStatic invokes a static method through the global method table.
// Members that exist but are not flagged static fail with NotStaticError.
func (c *ClassMirror) InvokeStatic(name string, args []any) (any, error) {
	m, err := c.Method(name)
	if err != nil {
		return nil, err
	}
	if !m.IsStatic {
		return nil, &NotStaticError{Class: c.QualifiedName(), Member: name}
	}
	thunk, ok := c.payload.Methods[name]
	if !ok {
		return nil, &MissingMemberError{Class: c.QualifiedName(), Member: name, Kind: "method"}
	}
	return thunk(nil, args), nil
}

// InvokeStaticGetter reads a static getter through the global getter table.
func (c *ClassMirror) InvokeStaticGetter(name string) (any, error) {
	g, err := c.Getter(name)
	if err != nil {
		return nil, err
	}
	if !g.IsStatic {
		return nil, &NotStaticError{Class: c.QualifiedName(), Member: name}
	}
	thunk, ok := c.payload.Getters[name]
	if !ok {
		return nil, &MissingMemberError{Class: c.QualifiedName(), Member: name, Kind: "getter"}
	}
	return thunk(nil), nil
}

// InvokeStaticSetter writes a static setter through the global setter table.
func (c *ClassMirror) InvokeStaticSetter(name string, value any) error {
	s, err := c.Setter(name)
	if err != nil {
		return err
	}
	if !s.IsStatic {
		return &NotStaticError{Class: c.QualifiedName(), Member: name}
	}
	thunk, ok := c.payload.Setters[name]
	if !ok {
		return &MissingMemberError{Class: c.QualifiedName(), Member: name, Kind: "setter"}
	}
	return thunk(nil, value)
}
