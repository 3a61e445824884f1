package generator

import (
	"go/token"
	"go/types"
	"testing"

	"github.com/mirrorlang/mirror/runtime/mirror"
)

func namedType(pkgPath, pkgName, name string, underlying types.Type) *types.Named {
	pkg := types.NewPackage(pkgPath, pkgName)
	obj := types.NewTypeName(token.NoPos, pkg, name, nil)
	return types.NewNamed(obj, underlying, nil)
}

func TestRegistry_DeduplicatesStructurallyEqualTypes(t *testing.T) {
	reg := NewTypeRegistry()

	first := reg.Register(types.Typ[types.Int])
	second := reg.Register(types.Typ[types.Int])

	if first != second {
		t.Errorf("int registered twice: indices %d and %d, want equal", first, second)
	}
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
}

func TestRegistry_NamedTypeQualifiedName(t *testing.T) {
	reg := NewTypeRegistry()
	point := namedType("example.com/geom", "geom", "Point", types.NewStruct(nil, nil))

	idx := reg.Register(point)

	entry := reg.At(idx)
	if entry.Kind != mirror.KindNominal {
		t.Errorf("Kind = %v, want KindNominal", entry.Kind)
	}
	if entry.Name != "example.com/geom.Point" {
		t.Errorf("Name = %q, want example.com/geom.Point", entry.Name)
	}
}

func TestRegistry_PointerIsNullableVariant(t *testing.T) {
	reg := NewTypeRegistry()
	point := namedType("example.com/geom", "geom", "Point", types.NewStruct(nil, nil))

	ptrIdx := reg.Register(types.NewPointer(point))
	elemIdx := reg.Register(point)

	if ptrIdx == elemIdx {
		t.Fatalf("pointer and element share index %d", ptrIdx)
	}
	// The element registers before the nullable variant completes.
	if elemIdx > ptrIdx {
		t.Errorf("element index %d after pointer index %d", elemIdx, ptrIdx)
	}
	ptr := reg.At(ptrIdx)
	if !ptr.Nullable {
		t.Error("pointer entry not marked nullable")
	}
	if ptr.Name != reg.At(elemIdx).Name {
		t.Errorf("pointer Name = %q, element Name = %q, want equal", ptr.Name, reg.At(elemIdx).Name)
	}
	if reg.At(elemIdx).Nullable {
		t.Error("element entry marked nullable")
	}
}

func TestRegistry_Sentinels(t *testing.T) {
	reg := NewTypeRegistry()

	voidIdx := reg.RegisterVoid()
	if again := reg.RegisterVoid(); again != voidIdx {
		t.Errorf("void registered twice: %d and %d", voidIdx, again)
	}
	if reg.At(voidIdx).Kind != mirror.KindVoid {
		t.Errorf("void Kind = %v, want KindVoid", reg.At(voidIdx).Kind)
	}

	anyType := types.NewInterfaceType(nil, nil)
	anyIdx := reg.Register(anyType)
	if again := reg.Register(types.NewInterfaceType(nil, nil)); again != anyIdx {
		t.Errorf("any registered twice: %d and %d", anyIdx, again)
	}
	if reg.At(anyIdx).Kind != mirror.KindAny {
		t.Errorf("any Kind = %v, want KindAny", reg.At(anyIdx).Kind)
	}

	if reg.Register(nil) != voidIdx {
		t.Error("nil type did not collapse to the void sentinel")
	}
}

func TestRegistry_StructuralTypesCarryFullTypeString(t *testing.T) {
	reg := NewTypeRegistry()
	point := namedType("example.com/geom", "geom", "Point", types.NewStruct(nil, nil))

	idx := reg.Register(types.NewSlice(point))

	got := reg.At(idx).Name
	want := "[]example.com/geom.Point"
	if got != want {
		t.Errorf("slice Name = %q, want %q", got, want)
	}
}

func TestRegistry_BasicTypeName(t *testing.T) {
	reg := NewTypeRegistry()
	idx := reg.Register(types.Typ[types.Float64])
	if got := reg.At(idx).Name; got != "float64" {
		t.Errorf("Name = %q, want float64", got)
	}
}
