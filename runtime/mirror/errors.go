package mirror

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is returned by every lookup performed before the
// generated initializer has run. Lookups never fall back to empty tables.
var ErrNotInitialized = errors.New("mirror: registry not initialized - call the generated Init() before any lookup")

// ErrAlreadyInitialized is returned when Initialize is called a second time.
var ErrAlreadyInitialized = errors.New("mirror: registry already initialized")

// NotFoundError reports a failed class/enum/function lookup. The requested
// identifier is carried so callers can surface it.
type NotFoundError struct {
	Kind string // "class", "enum", "function"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("mirror: %s %q not found - is the declaration annotated with a capability marker?", e.Kind, e.Name)
}

// MissingMemberError reports a member lookup that found no matching
// accessor, method or field on the class.
type MissingMemberError struct {
	Class  string
	Member string
	Kind   string // "method", "getter", "setter", "field", "constructor"
}

func (e *MissingMemberError) Error() string {
	return fmt.Sprintf("mirror: class %s has no %s %q", e.Class, e.Kind, e.Member)
}

// NotStaticError reports static invocation of a member that exists but is
// not flagged static.
type NotStaticError struct {
	Class  string
	Member string
}

func (e *NotStaticError) Error() string {
	return fmt.Sprintf("mirror: member %q of class %s is not static", e.Member, e.Class)
}

// CapabilityError reports use of an operation whose capability was not
// requested by the declaration's annotation.
type CapabilityError struct {
	Class      string
	Capability string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("mirror: class %s was not annotated with the %s capability", e.Class, e.Capability)
}

// ConstructorError reports a construction failure at invocation time:
// missing required arguments or an unsettable state. Construction is fully
// dynamic, so these never surface at generation time.
type ConstructorError struct {
	Class       string
	Constructor string
	Reason      string
}

func (e *ConstructorError) Error() string {
	return fmt.Sprintf("mirror: constructor %q of %s: %s", e.Constructor, e.Class, e.Reason)
}

// NewMissingArgsError builds the ConstructorError used by generated invoker
// closures when too few positional arguments are supplied.
func NewMissingArgsError(class, ctor string, want, got int) *ConstructorError {
	return &ConstructorError{
		Class:       class,
		Constructor: ctor,
		Reason:      fmt.Sprintf("missing required arguments: want %d, got %d", want, got),
	}
}

// UnsettableError reports a setter dispatched against a receiver that the
// generated thunk cannot address (a value copy rather than a pointer).
type UnsettableError struct {
	Member string
}

func (e *UnsettableError) Error() string {
	return fmt.Sprintf("mirror: cannot set %q on an unaddressable receiver - pass a pointer", e.Member)
}

// NewUnsettableError is called from generated setter thunks.
func NewUnsettableError(member string) *UnsettableError {
	return &UnsettableError{Member: member}
}
