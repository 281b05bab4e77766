package facts

import "testing"

func TestFilterTablesByFiles(t *testing.T) {
	tables := Tables{
		Files: []FileRow{
			{Path: "a.vhdp"},
			{Path: "b.vhdp"},
		},
		Components: []ComponentRow{
			{Name: "a", File: "a.vhdp"},
			{Name: "b", File: "b.vhdp"},
		},
		Ports: []PortRow{
			{Component: "a", Name: "clk", File: "a.vhdp"},
			{Component: "b", Name: "rst", File: "b.vhdp"},
		},
		Diagnostics: []DiagnosticRow{
			{File: "a.vhdp", Message: "x"},
			{File: "b.vhdp", Message: "y"},
		},
	}

	files := map[string]bool{"a.vhdp": true}
	filtered := FilterTablesByFiles(tables, files)

	if len(filtered.Files) != 1 || filtered.Files[0].Path != "a.vhdp" {
		t.Fatalf("expected only a.vhdp file row, got %#v", filtered.Files)
	}
	if len(filtered.Components) != 1 || filtered.Components[0].File != "a.vhdp" {
		t.Fatalf("expected only a.vhdp component rows, got %#v", filtered.Components)
	}
	if len(filtered.Ports) != 1 || filtered.Ports[0].File != "a.vhdp" {
		t.Fatalf("expected only a.vhdp port rows, got %#v", filtered.Ports)
	}
	if len(filtered.Diagnostics) != 1 || filtered.Diagnostics[0].Message != "x" {
		t.Fatalf("expected only a.vhdp diagnostics, got %#v", filtered.Diagnostics)
	}
}

func TestFilterDeltaByFilesEmpty(t *testing.T) {
	delta := Delta{
		Added: Tables{
			Files: []FileRow{{Path: "a.vhdp"}},
		},
		Removed: Tables{
			Files: []FileRow{{Path: "b.vhdp"}},
		},
	}

	filtered := FilterDeltaByFiles(delta, map[string]bool{})
	if len(filtered.Added.Files) != 0 || len(filtered.Removed.Files) != 0 {
		t.Fatalf("expected empty delta, got %#v", filtered)
	}
}
