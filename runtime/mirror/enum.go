package mirror

import "github.com/mirrorlang/mirror/capability"

// EnumValue is a read-only view of one enum constant.
type EnumValue struct {
	Owner       *EnumMirror
	Name        string
	Index       int // declaration ordinal
	Value       any // the runtime constant
	Annotations []Annotation
}

// EnumMirror exposes the metadata of one annotated enum: a named type with
// an associated constant block, in declaration order.
type EnumMirror struct {
	data    *EnumData
	payload *Payload
}

// Name returns the enum display name.
func (e *EnumMirror) Name() string { return e.data.Name }

// QualifiedName returns the package-qualified declaration name.
func (e *EnumMirror) QualifiedName() string { return e.data.QualifiedName() }

// PkgPath returns the owning package's import path.
func (e *EnumMirror) PkgPath() string { return e.data.PkgPath }

// Capabilities returns the capability set requested by the annotation.
func (e *EnumMirror) Capabilities() capability.Set { return e.data.Capabilities }

// TypeIndex returns the enum's index in the interned type table.
func (e *EnumMirror) TypeIndex() int { return e.data.Type }

// TypeRecord returns the enum's interned type record.
func (e *EnumMirror) TypeRecord() TypeRecord { return e.payload.Types[e.data.Type] }

// Annotations returns the reconstructed annotations on the enum declaration.
func (e *EnumMirror) Annotations() []Annotation {
	return annotationViews(e.data.Annotations)
}

// Values returns every constant in declaration (ordinal) order.
func (e *EnumMirror) Values() []EnumValue {
	out := make([]EnumValue, len(e.data.Values))
	for i, v := range e.data.Values {
		out[i] = EnumValue{
			Owner:       e,
			Name:        v.Name,
			Index:       v.Index,
			Value:       v.Value,
			Annotations: annotationViews(v.Annotations),
		}
	}
	return out
}

// Value returns the named constant, failing with MissingMemberError when the
// enum declares no constant with that name.
func (e *EnumMirror) Value(name string) (EnumValue, error) {
	for _, v := range e.Values() {
		if v.Name == name {
			return v, nil
		}
	}
	return EnumValue{}, &MissingMemberError{Class: e.QualifiedName(), Member: name, Kind: "enum value"}
}
