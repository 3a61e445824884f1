package mirror

import (
	"github.com/mirrorlang/mirror/capability"
)

// Test fixtures shaped exactly like emitter output: literal data plus
// type-switch invoker closures.

type point struct {
	X int
	Y int
}

func newPoint(x, y int) *point { return &point{X: x, Y: y} }

func (p *point) Scale(f int) *point { return &point{X: p.X * f, Y: p.Y * f} }

type color int

const (
	colorRed color = iota
	colorGreen
	colorBlue
)

func addInts(a, b int) int { return a + b }

// counter is a methods-only class used for capability gating tests.
type counter struct {
	n int
}

func (c *counter) Increment() int {
	c.n++
	return c.n
}

const (
	tiInt = iota
	tiPoint
	tiVoid
	tiColor
	tiCounter
	tiPointPtr
)

func testPayload() *Payload {
	return &Payload{
		Types: []TypeRecord{
			{Kind: KindNominal, Name: "int"},
			{Kind: KindNominal, Name: "example.com/geom.Point"},
			{Kind: KindVoid},
			{Kind: KindNominal, Name: "example.com/paint.Color"},
			{Kind: KindNominal, Name: "example.com/tally.Counter"},
			{Kind: KindNominal, Name: "example.com/geom.Point", Nullable: true},
		},
		Getters: map[string]GetterThunk{
			"X": func(recv any) any {
				switch r := recv.(type) {
				case point:
					return r.X
				case *point:
					return r.X
				}
				return nil
			},
			"Y": func(recv any) any {
				switch r := recv.(type) {
				case point:
					return r.Y
				case *point:
					return r.Y
				}
				return nil
			},
		},
		Setters: map[string]SetterThunk{
			"X": func(recv, value any) error {
				switch r := recv.(type) {
				case *point:
					r.X = value.(int)
					return nil
				}
				return NewUnsettableError("X")
			},
			"Y": func(recv, value any) error {
				switch r := recv.(type) {
				case *point:
					r.Y = value.(int)
					return nil
				}
				return NewUnsettableError("Y")
			},
		},
		Methods: map[string]MethodThunk{
			"Scale": func(recv any, args []any) any {
				switch r := recv.(type) {
				case *point:
					return r.Scale(args[0].(int))
				}
				return nil
			},
			"Increment": func(recv any, args []any) any {
				switch r := recv.(type) {
				case *counter:
					return r.Increment()
				}
				return nil
			},
		},
		Classes: []ClassData{
			{
				Name:         "Point",
				PkgPath:      "example.com/geom",
				Type:         tiPoint,
				Capabilities: capability.SetFields | capability.SetConstructors,
				Annotations:  []AnnotationData{{Source: "geom.Serializable"}},
				Fields: []FieldData{
					{Name: "X", Type: tiInt},
					{Name: "Y", Type: tiInt},
				},
				Constructors: []ConstructorData{
					{
						Name: "new",
						Params: []ParamData{
							{Name: "x", Type: tiInt, Index: 0},
							{Name: "y", Type: tiInt, Index: 1},
						},
						Invoke: func(pos []any, named map[string]any) (any, error) {
							if len(pos) < 2 {
								return nil, NewMissingArgsError("example.com/geom.Point", "new", 2, len(pos))
							}
							return newPoint(pos[0].(int), pos[1].(int)), nil
						},
					},
				},
			},
			{
				Name:         "Counter",
				PkgPath:      "example.com/tally",
				Type:         tiCounter,
				Capabilities: capability.SetMethods,
				Methods: []MethodData{
					{Name: "Increment", Return: tiInt},
				},
			},
		},
		Enums: []EnumData{
			{
				Name:         "Color",
				PkgPath:      "example.com/paint",
				Type:         tiColor,
				Capabilities: capability.SetFields,
				Values: []EnumValueData{
					{Name: "red", Index: 0, Value: colorRed},
					{Name: "green", Index: 1, Value: colorGreen},
					{Name: "blue", Index: 2, Value: colorBlue},
				},
			},
		},
		Functions: []FunctionData{
			{
				Name:    "add",
				PkgPath: "example.com/calc",
				Return:  tiInt,
				Params: []ParamData{
					{Name: "a", Type: tiInt, Index: 0},
					{Name: "b", Type: tiInt, Index: 1, Optional: true, Default: "10"},
				},
				Invoke: func(pos []any) (any, error) {
					if len(pos) < 1 {
						return nil, NewMissingArgsError("example.com/calc", "add", 1, len(pos))
					}
					b := 10
					if len(pos) > 1 {
						b = pos[1].(int)
					}
					return addInts(pos[0].(int), b), nil
				},
			},
		},
		Resolve: func(v any) (int, bool) {
			switch v.(type) {
			case point:
				return tiPoint, true
			case *point:
				return tiPoint, true
			case *counter:
				return tiCounter, true
			}
			return 0, false
		},
	}
}

func mustInit() {
	Reset()
	if err := Initialize(testPayload()); err != nil {
		panic(err)
	}
}
