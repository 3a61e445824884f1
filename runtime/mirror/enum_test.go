package mirror

import (
	"errors"
	"testing"
)

// End-to-end enum scenario: Color{red, green, blue}.
func TestEnumValues(t *testing.T) {
	mustInit()
	defer Reset()

	e, err := EnumByName("Color")
	if err != nil {
		t.Fatalf("EnumByName failed: %v", err)
	}

	values := e.Values()
	if len(values) != 3 {
		t.Fatalf("Values count: got %d, want 3", len(values))
	}
	if values[1].Name != "green" {
		t.Errorf("values[1].Name: got %s, want green", values[1].Name)
	}
	if values[1].Index != 1 {
		t.Errorf("values[1].Index: got %d, want 1", values[1].Index)
	}
	if values[1].Value != colorGreen {
		t.Errorf("values[1].Value: got %v, want %v", values[1].Value, colorGreen)
	}
	if values[1].Owner != e {
		t.Error("enum value must carry an owner back-reference")
	}
}

func TestEnumValueByName(t *testing.T) {
	mustInit()
	defer Reset()

	e, _ := EnumByName("Color")
	v, err := e.Value("blue")
	if err != nil {
		t.Fatalf("Value(blue) failed: %v", err)
	}
	if v.Index != 2 {
		t.Errorf("blue ordinal: got %d, want 2", v.Index)
	}

	_, err = e.Value("magenta")
	var mm *MissingMemberError
	if !errors.As(err, &mm) {
		t.Fatalf("expected MissingMemberError for unknown constant, got %v", err)
	}
}

func TestEnumIdentity(t *testing.T) {
	mustInit()
	defer Reset()

	e, _ := EnumByName("Color")
	if e.QualifiedName() != "example.com/paint.Color" {
		t.Errorf("QualifiedName: got %s", e.QualifiedName())
	}
	if e.TypeRecord().Name != "example.com/paint.Color" {
		t.Errorf("TypeRecord: %+v", e.TypeRecord())
	}
}
