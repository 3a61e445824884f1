// Package capability defines the marker interfaces that annotation types
// implement to declare which member categories a mirrored declaration
// exposes. A declaration opts in to reflection by referencing a value whose
// static type implements one or more of these markers; the generator derives
// the declaration's capability set from that type, including markers
// acquired through embedding.
package capability

import "strings"

// Fields grants access to field records (read and write through the
// field-backed accessors).
type Fields interface {
	MirrorFields()
}

// Getters grants access to explicitly declared getter methods.
type Getters interface {
	MirrorGetters()
}

// Setters grants access to explicitly declared setter methods.
type Setters interface {
	MirrorSetters()
}

// Methods grants access to regular method invocation.
type Methods interface {
	MirrorMethods()
}

// Constructors grants access to constructor discovery and NewInstance.
type Constructors interface {
	MirrorConstructors()
}

// All is the convenience marker granting every capability.
type All interface {
	Fields
	Getters
	Setters
	Methods
	Constructors
}

// Embeddable marker implementations. Annotation types compose capabilities
// by embedding one or more of these:
//
//	type serializable struct {
//		capability.WithFields
//		capability.WithConstructors
//	}
//	var Serializable serializable
type (
	WithFields       struct{}
	WithGetters      struct{}
	WithSetters      struct{}
	WithMethods      struct{}
	WithConstructors struct{}

	// WithAll grants all five capabilities.
	WithAll struct {
		WithFields
		WithGetters
		WithSetters
		WithMethods
		WithConstructors
	}
)

func (WithFields) MirrorFields()             {}
func (WithGetters) MirrorGetters()           {}
func (WithSetters) MirrorSetters()           {}
func (WithMethods) MirrorMethods()           {}
func (WithConstructors) MirrorConstructors() {}

// Set is a bitmask of requested capabilities. It is shared by the generator
// (which computes it from an annotation's static type) and the runtime
// payload (which stores it per declaration).
type Set uint8

const (
	SetFields Set = 1 << iota
	SetGetters
	SetSetters
	SetMethods
	SetConstructors

	// SetAll is the union of every capability.
	SetAll = SetFields | SetGetters | SetSetters | SetMethods | SetConstructors
)

// Has reports whether every capability in c is present in s.
func (s Set) Has(c Set) bool {
	return s&c == c
}

// Union returns the combination of s and c.
func (s Set) Union(c Set) Set {
	return s | c
}

// String renders the set as a stable, comma-joined list.
func (s Set) String() string {
	if s == 0 {
		return "none"
	}
	names := make([]string, 0, 5)
	if s.Has(SetFields) {
		names = append(names, "fields")
	}
	if s.Has(SetGetters) {
		names = append(names, "getters")
	}
	if s.Has(SetSetters) {
		names = append(names, "setters")
	}
	if s.Has(SetMethods) {
		names = append(names, "methods")
	}
	if s.Has(SetConstructors) {
		names = append(names, "constructors")
	}
	return strings.Join(names, ",")
}
