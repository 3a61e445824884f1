package generator

import "testing"

func TestAliasTable_EntryGetsReservedAlias(t *testing.T) {
	a := NewAliasTable("example.com/app")

	if got := a.Alias("example.com/app"); got != EntryAlias {
		t.Errorf("entry alias = %q, want %q", got, EntryAlias)
	}
}

func TestAliasTable_SequentialAllocation(t *testing.T) {
	a := NewAliasTable("example.com/app")

	first := a.Alias("example.com/dep1")
	second := a.Alias("example.com/dep2")

	if first != "m1" {
		t.Errorf("first alias = %q, want m1", first)
	}
	if second != "m2" {
		t.Errorf("second alias = %q, want m2", second)
	}
	// Repeated lookups are stable.
	if again := a.Alias("example.com/dep1"); again != first {
		t.Errorf("repeated alias = %q, want %q", again, first)
	}
}

func TestAliasTable_UniverseScopeHasNoPrefix(t *testing.T) {
	a := NewAliasTable("example.com/app")

	if got := a.Prefix(""); got != "" {
		t.Errorf("universe prefix = %q, want empty", got)
	}
	if got := a.Prefix("example.com/app"); got != "src." {
		t.Errorf("entry prefix = %q, want src.", got)
	}
}

func TestAliasTable_ImportsSortedByPath(t *testing.T) {
	a := NewAliasTable("example.com/app")
	a.MarkUsed("example.com/zeta")
	a.MarkUsed("example.com/alpha")
	a.MarkUsed("example.com/app")

	lines := a.Imports()
	want := []string{
		`m2 "example.com/alpha"`,
		`src "example.com/app"`,
		`m1 "example.com/zeta"`,
	}
	if len(lines) != len(want) {
		t.Fatalf("Imports() len = %d, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("Imports()[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestAliasTable_StringOnlyAllocationEmitsNoImport(t *testing.T) {
	a := NewAliasTable("example.com/app")

	// Rendering metadata strings allocates an alias but never an import.
	if got := a.Prefix("example.com/zeta"); got != "m1." {
		t.Errorf("prefix = %q, want m1.", got)
	}
	if lines := a.Imports(); len(lines) != 0 {
		t.Errorf("Imports() = %v, want none before code references the package", lines)
	}

	a.MarkUsed("example.com/zeta")
	lines := a.Imports()
	if len(lines) != 1 || lines[0] != `m1 "example.com/zeta"` {
		t.Errorf("Imports() after MarkUsed = %v", lines)
	}
}
