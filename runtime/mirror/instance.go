package mirror

import "github.com/mirrorlang/mirror/capability"

// InstanceMirror wraps a live value together with its resolved ClassMirror.
// Member resolution happens on the class; dispatch goes through the global
// invoker tables keyed by bare member name.
type InstanceMirror struct {
	class *ClassMirror
	value any
}

// Value returns the wrapped value.
func (m *InstanceMirror) Value() any { return m.value }

// Class returns the owning ClassMirror.
func (m *InstanceMirror) Class() *ClassMirror { return m.class }

// Invoke calls the named method on the wrapped value. Resolution is strict:
// the method must be present in the class's capability-gated method list.
func (m *InstanceMirror) Invoke(name string, args []any) (any, error) {
	method, err := m.class.Method(name)
	if err != nil {
		return nil, err
	}
	if method.IsStatic {
		return nil, &MissingMemberError{Class: m.class.QualifiedName(), Member: name, Kind: "method"}
	}
	thunk, ok := m.class.payload.Methods[name]
	if !ok {
		return nil, &MissingMemberError{Class: m.class.QualifiedName(), Member: name, Kind: "method"}
	}
	return thunk(m.value, args), nil
}

// InvokeGetter reads the named property. Resolution falls back from an
// explicit getter record to a field-backed accessor when no explicit getter
// exists; a distinct missing-member error is returned when neither matches.
func (m *InstanceMirror) InvokeGetter(name string) (any, error) {
	if !m.hasReadable(name) {
		return nil, &MissingMemberError{Class: m.class.QualifiedName(), Member: name, Kind: "getter"}
	}
	thunk, ok := m.class.payload.Getters[name]
	if !ok {
		return nil, &MissingMemberError{Class: m.class.QualifiedName(), Member: name, Kind: "getter"}
	}
	return thunk(m.value), nil
}

// InvokeSetter writes the named property, falling back from an explicit
// setter record to a non-final field.
func (m *InstanceMirror) InvokeSetter(name string, value any) error {
	if !m.hasWritable(name) {
		return &MissingMemberError{Class: m.class.QualifiedName(), Member: name, Kind: "setter"}
	}
	thunk, ok := m.class.payload.Setters[name]
	if !ok {
		return &MissingMemberError{Class: m.class.QualifiedName(), Member: name, Kind: "setter"}
	}
	return thunk(m.value, value)
}

// hasReadable reports whether name resolves to an explicit getter or a
// capability-selected field.
func (m *InstanceMirror) hasReadable(name string) bool {
	caps := m.class.data.Capabilities
	if caps.Has(capability.SetGetters) {
		for _, g := range m.class.Getters() {
			if g.Name == name && !g.IsStatic {
				return true
			}
		}
	}
	if caps.Has(capability.SetFields) {
		for _, f := range m.class.Fields() {
			if f.Name == name && !f.IsStatic {
				return true
			}
		}
	}
	return false
}

// hasWritable reports whether name resolves to an explicit setter or a
// non-final capability-selected field.
func (m *InstanceMirror) hasWritable(name string) bool {
	caps := m.class.data.Capabilities
	if caps.Has(capability.SetSetters) {
		for _, s := range m.class.Setters() {
			if s.Name == name && !s.IsStatic {
				return true
			}
		}
	}
	if caps.Has(capability.SetFields) {
		for _, f := range m.class.Fields() {
			if f.Name == name && !f.IsStatic && !f.IsFinal {
				return true
			}
		}
	}
	return false
}
