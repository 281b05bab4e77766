package facts

import "testing"

func TestComputeDeltaAddsAndRemoves(t *testing.T) {
	prev := Tables{
		Components: []ComponentRow{
			{Name: "a", Kind: "component", File: "f.vhdp", Line: 1},
		},
		Includes: []IncludeRow{
			{File: "f.vhdp", Item: "ieee.numeric_std.all", Resolved: true},
		},
	}
	next := Tables{
		Components: []ComponentRow{
			{Name: "b", Kind: "component", File: "f.vhdp", Line: 3},
		},
		Includes: []IncludeRow{
			{File: "f.vhdp", Item: "ieee.math_real.all", Resolved: true},
		},
	}

	delta := ComputeDelta(prev, next)

	if len(delta.Added.Components) != 1 || delta.Added.Components[0].Name != "b" {
		t.Fatalf("expected component b added, got %+v", delta.Added.Components)
	}
	if len(delta.Removed.Components) != 1 || delta.Removed.Components[0].Name != "a" {
		t.Fatalf("expected component a removed, got %+v", delta.Removed.Components)
	}
	if len(delta.Added.Includes) != 1 || delta.Added.Includes[0].Item != "ieee.math_real.all" {
		t.Fatalf("expected include added, got %+v", delta.Added.Includes)
	}
	if len(delta.Removed.Includes) != 1 || delta.Removed.Includes[0].Item != "ieee.numeric_std.all" {
		t.Fatalf("expected include removed, got %+v", delta.Removed.Includes)
	}
	if delta.Empty() {
		t.Fatalf("expected non-empty delta")
	}
}

func TestComputeDeltaIdentical(t *testing.T) {
	tables := Tables{
		Diagnostics: []DiagnosticRow{{File: "f.vhdp", Line: 2, Col: 4, Severity: "error", Rule: "undefined-variable", Message: "Undefined Variable b"}},
	}
	if d := ComputeDelta(tables, tables); !d.Empty() {
		t.Fatalf("expected empty delta, got %+v", d)
	}
}
