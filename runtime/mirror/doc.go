// Package mirror is the runtime half of the static reflection system: a
// query and invocation API over the data module produced by the generator.
//
// The generated payload is registered exactly once per process by calling
// the generated Init(), which wires the payload into global lookup tables
// via Initialize. Every lookup performed before that fails with
// ErrNotInitialized; after it, the tables are immutable and safe for
// unrestricted concurrent reads.
//
// Lookups are keyed by name:
//
//	point, err := mirror.ClassByName("geom.Point")
//	if err != nil {
//		log.Fatal(err)
//	}
//	inst, err := point.NewInstance("new", []any{1, 2}, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	x, _ := inst.InvokeGetter("X") // 1
//
// Live values resolve through the generated type-switch resolver:
//
//	inst, err := mirror.Object(someValue)
//
// Member collections are capability-gated: a category the declaration's
// annotation did not request is nil, which callers must distinguish from a
// requested category with zero members (an empty, non-nil slice).
//
// Dispatch is data-driven by bare member name. The payload carries three
// global invoker maps (getters, setters, methods); each entry is a closure
// that narrows the receiver with a type switch over every declaring class.
// Two unrelated classes sharing a member name share one dispatch entry.
// No part of this package, nor any generated payload, imports reflect.
package mirror
