package mirror

import (
	"errors"
	"testing"
)

// End-to-end function scenario: add(a, b=10) with the default applied.
func TestFunctionInvokeWithDefault(t *testing.T) {
	mustInit()
	defer Reset()

	f, err := Function("add")
	if err != nil {
		t.Fatalf("Function(add) failed: %v", err)
	}

	got, err := f.Invoke([]any{5})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if got != 15 {
		t.Errorf("add(5) with default: got %v, want 15", got)
	}

	got, err = f.Invoke([]any{5, 1})
	if err != nil {
		t.Fatalf("Invoke with both args failed: %v", err)
	}
	if got != 6 {
		t.Errorf("add(5, 1): got %v, want 6", got)
	}
}

func TestFunctionInvokeMissingRequired(t *testing.T) {
	mustInit()
	defer Reset()

	f, _ := Function("add")
	_, err := f.Invoke(nil)
	var ce *ConstructorError
	if !errors.As(err, &ce) {
		t.Fatalf("expected invocation failure for missing required arg, got %v", err)
	}
}

func TestFunctionParams(t *testing.T) {
	mustInit()
	defer Reset()

	f, _ := Function("add")
	params := f.Params()
	if len(params) != 2 {
		t.Fatalf("Params count: got %d, want 2", len(params))
	}
	if params[0].Optional {
		t.Error("first parameter must be required")
	}
	if !params[1].Optional || params[1].Default != "10" {
		t.Errorf("second parameter: %+v", params[1])
	}
	if f.Return().Name != "int" {
		t.Errorf("Return: %+v", f.Return())
	}
}
