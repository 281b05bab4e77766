package facts

import (
	"testing"

	"github.com/robert-at-pretension-io/vhdp-lint/internal/analyzer"
)

const blinkSource = `Component Blink
(
    LED : OUT STD_LOGIC;
)
{
    Signal s : STD_LOGIC;
    Process ()
    {
        Variable v : INTEGER;
        v := 1;
    }
}`

func TestBuildTablesPopulatesCoreRelations(t *testing.T) {
	ctx := analyzer.Analyze("rtl/blink.vhdp", blinkSource, analyzer.Full, nil)
	sources := []Source{{
		Path:     "rtl/blink.vhdp",
		Library:  "work",
		Language: "vhdp",
		Context:  ctx,
		Diagnostics: []DiagnosticRow{
			{File: "rtl/blink.vhdp", Line: 1, Severity: "warning", Rule: "type-mismatch", Message: "m"},
		},
	}}

	tables := BuildTables(sources, []DependencyRow{{File: "rtl/blink.vhdp", Target: "Uart", TargetFile: "rtl/uart.vhd", Kind: "component"}})

	if len(tables.Files) != 1 || tables.Files[0].Library != "work" {
		t.Fatalf("expected 1 work file row, got %+v", tables.Files)
	}
	if len(tables.Components) != 1 || tables.Components[0].Name != "Blink" || tables.Components[0].Kind != "component" {
		t.Fatalf("expected component Blink, got %+v", tables.Components)
	}
	if tables.Components[0].Line != 1 {
		t.Fatalf("expected component on line 1, got %d", tables.Components[0].Line)
	}
	if len(tables.Ports) != 1 || tables.Ports[0].Name != "LED" || tables.Ports[0].Direction != "out" {
		t.Fatalf("expected port LED out, got %+v", tables.Ports)
	}
	if len(tables.Signals) != 1 || tables.Signals[0].Name != "s" || tables.Signals[0].Type != "STD_LOGIC" {
		t.Fatalf("expected signal s, got %+v", tables.Signals)
	}
	if len(tables.Variables) != 1 || tables.Variables[0].Kind != "variable" || tables.Variables[0].Line != 9 {
		t.Fatalf("expected variable v on line 9, got %+v", tables.Variables)
	}
	if len(tables.Processes) != 1 || tables.Processes[0].InComponent != "Blink" {
		t.Fatalf("expected one process in Blink, got %+v", tables.Processes)
	}
	if len(tables.Dependencies) != 1 || len(tables.Diagnostics) != 1 {
		t.Fatalf("expected passthrough dependency and diagnostic rows, got %+v / %+v", tables.Dependencies, tables.Diagnostics)
	}
}

func TestBuildTablesExternalComponent(t *testing.T) {
	ctx := analyzer.NewExternalContext("ip/uart.vhd", "uart", []analyzer.ExternalPort{{Name: "tx"}})
	tables := BuildTables([]Source{{Path: "ip/uart.vhd", Language: "vhdl", Context: ctx}}, nil)

	if len(tables.Components) != 1 || tables.Components[0].Kind != "external" {
		t.Fatalf("expected external component, got %+v", tables.Components)
	}
	if len(tables.Ports) != 1 || tables.Ports[0].Component != "uart" {
		t.Fatalf("expected uart port, got %+v", tables.Ports)
	}
}

func TestBuildTablesSortsFiles(t *testing.T) {
	tables := BuildTables([]Source{{Path: "b.vhdp"}, {Path: "a.vhdp"}}, nil)
	if tables.Files[0].Path != "a.vhdp" || tables.Files[1].Path != "b.vhdp" {
		t.Fatalf("expected sorted files, got %+v", tables.Files)
	}
	if tables.Components == nil || tables.Dependencies == nil {
		t.Fatalf("expected empty relations to be non-nil")
	}
}
