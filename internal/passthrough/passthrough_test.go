package passthrough

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robert-at-pretension-io/vhdp-lint/internal/analyzer"
	"github.com/robert-at-pretension-io/vhdp-lint/internal/types"
)

const uartSource = `library ieee;
use ieee.std_logic_1164.all;

-- entity commented is
entity uart_tx is
  generic (
    BAUD : integer := 9600
  );
  port (
    clk, rst : in  std_logic;
    data     : in  std_logic_vector(7 downto 0); -- payload
    tx       : out std_logic;
    busy     : buffer std_logic := '0'
  );
end entity;

architecture rtl of uart_tx is
begin
  u0 : entity work.baud_gen port map (clk => clk);
  u1 : shifter port map (clk => clk);
end architecture;

package uart_pkg is
end package;
`

func TestExtractSimpleEntity(t *testing.T) {
	facts, err := New().Extract(context.Background(), "uart.vhd", []byte(uartSource))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(facts.Entities) != 1 {
		t.Fatalf("expected one entity, got %+v", facts.Entities)
	}
	ent := facts.Entities[0]
	if ent.Name != "uart_tx" || ent.Line != 5 || ent.Offset != strings.Index(uartSource, "entity uart_tx") {
		t.Fatalf("unexpected entity header %+v", ent)
	}

	want := []Port{
		{Name: "clk", Direction: "in", Type: "std_logic", Line: 10},
		{Name: "rst", Direction: "in", Type: "std_logic", Line: 10},
		{Name: "data", Direction: "in", Type: "std_logic_vector(7 downto 0)", Line: 11},
		{Name: "tx", Direction: "out", Type: "std_logic", Line: 12},
		{Name: "busy", Direction: "buffer", Type: "std_logic", Line: 13},
	}
	if len(ent.Ports) != len(want) {
		t.Fatalf("expected %d ports, got %+v", len(want), ent.Ports)
	}
	for i, p := range want {
		if ent.Ports[i] != p {
			t.Errorf("port %d = %+v, want %+v", i, ent.Ports[i], p)
		}
	}
}

func TestExtractSimpleStructure(t *testing.T) {
	facts, err := New().Extract(context.Background(), "uart.vhd", []byte(uartSource))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(facts.Architectures) != 1 || facts.Architectures[0].EntityName != "uart_tx" || facts.Architectures[0].Line != 17 {
		t.Fatalf("unexpected architectures %+v", facts.Architectures)
	}
	if len(facts.Packages) != 1 || facts.Packages[0].Name != "uart_pkg" {
		t.Fatalf("unexpected packages %+v", facts.Packages)
	}
	if len(facts.Instances) != 2 {
		t.Fatalf("expected two instances, got %+v", facts.Instances)
	}
	if facts.Instances[0].Target != "baud_gen" || facts.Instances[0].Line != 19 {
		t.Fatalf("expected direct entity instance of baud_gen, got %+v", facts.Instances[0])
	}
	if facts.Instances[1].Label != "u1" || facts.Instances[1].Target != "shifter" {
		t.Fatalf("expected component instance of shifter, got %+v", facts.Instances[1])
	}
	if len(facts.Uses) != 2 || facts.Uses[0].Target != "ieee.std_logic_1164.all" || facts.Uses[1].Kind != "library" {
		t.Fatalf("unexpected uses %+v", facts.Uses)
	}
}

func TestExtractFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uart.vhd")
	if err := os.WriteFile(path, []byte(uartSource), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	facts, err := New().ExtractFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	if facts.File != path || len(facts.Entities) != 1 {
		t.Fatalf("unexpected facts %+v", facts)
	}

	if _, err := New().ExtractFile(context.Background(), filepath.Join(t.TempDir(), "missing.vhd")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestContextDeclaresEntity(t *testing.T) {
	facts, _ := New().Extract(context.Background(), "uart.vhd", []byte(uartSource))
	c := facts.Context(uartSource)

	comp, ok := c.LookupComponent("UART_TX")
	if !ok {
		t.Fatalf("expected uart_tx component")
	}
	if c.Position(comp.Offset).Line != 4 {
		t.Fatalf("expected component on line index 4, got %d", c.Position(comp.Offset).Line)
	}
	if v := comp.Vars["data"]; v == nil || v.Type != types.StdLogicVector || v.Direction != types.In {
		t.Fatalf("unexpected data port %+v", v)
	}
	if v := comp.Vars["busy"]; v == nil || v.Direction != types.Buffer {
		t.Fatalf("unexpected busy port %+v", v)
	}

	top := analyzer.Analyze("top.vhdp", "Main (){NewComponent uart_tx (tx => x);}", analyzer.Full, analyzer.NewProjectContext(c))
	for _, d := range top.Diagnostics() {
		if strings.HasPrefix(d.Message, "Undefined Component") {
			t.Fatalf("expected uart_tx to resolve, got %q", d.Message)
		}
	}
}

func TestTypeName(t *testing.T) {
	tests := map[string]string{
		"std_logic":                    "std_logic",
		"std_logic_vector(7 downto 0)": "std_logic_vector",
		"integer range 0 to 7":         "integer",
		"ieee.numeric_std.unsigned":    "unsigned",
		"  natural ":                   "natural",
		"":                             "",
	}
	for in, want := range tests {
		if got := TypeName(in); got != want {
			t.Errorf("TypeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBlankCommentsKeepsOffsets(t *testing.T) {
	src := "a <= \"--\"; -- note\nb"
	got := blankComments(src)
	if len(got) != len(src) {
		t.Fatalf("length changed: %d vs %d", len(got), len(src))
	}
	if strings.Contains(got, "note") || !strings.Contains(got, "\"--\"") {
		t.Fatalf("unexpected blanking %q", got)
	}
}

func TestNewWithGrammar(t *testing.T) {
	e, err := NewWithGrammar("")
	if err != nil {
		t.Fatalf("NewWithGrammar: %v", err)
	}
	if e.lang != nil {
		t.Fatalf("expected pattern fallback without a grammar")
	}

	missing := filepath.Join(t.TempDir(), "libtree-sitter-vhdl.so")
	if _, err := NewWithGrammar(missing); err == nil || !strings.Contains(err.Error(), missing) {
		t.Fatalf("expected load error naming %s, got %v", missing, err)
	}

	// A library without the grammar entry point is rejected too.
	notGrammar := filepath.Join(t.TempDir(), "empty.so")
	if err := os.WriteFile(notGrammar, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadGrammar(notGrammar); err == nil {
		t.Fatalf("expected error for a file that is not a grammar")
	}
}
