package analyzer

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/robert-at-pretension-io/vhdp-lint/internal/types"
)

func messages(c *Context) []string {
	var out []string
	for _, d := range c.Diagnostics() {
		out = append(out, d.Message)
	}
	return out
}

func countPrefix(c *Context, prefix string) int {
	n := 0
	for _, d := range c.Diagnostics() {
		if strings.HasPrefix(d.Message, prefix) {
			n++
		}
	}
	return n
}

func TestAnalyzeNestedParameters(t *testing.T) {
	tests := []string{
		"Component a (){SIGNAL LED : INTEGER := (12) + (0 + (((1/10))/10)/10);}",
		"Component a (){SIGNAL LED : INTEGER := ((12) + (0 + (((1/10))/10)/10));}",
		"Component a (){SIGNAL LED : INTEGER := ((5) => (((5)/30)));}",
		"Component a (){SIGNAL LED : BOOLEAN := ((true) AND false);}",
	}
	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			c := Analyze("", text, Full, nil)
			be.Equal(t, len(c.Diagnostics()), 0)
		})
	}
}

func TestAnalyzeOperators(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"Component a (){Signal a : STD_LOGIC; a <= '1';}", 0},
		{"Component a (){Signal a : STD_LOGIC; a := '1';}", 1},
		{"Component a (){Process(){Variable a : STD_LOGIC; a := '1';}}", 0},
		{"Component a (){Process(){Variable a : STD_LOGIC; a <= '1';}}", 1},
	}
	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			c := Analyze("", test.text, Full, nil)
			diags := c.Diagnostics()
			be.Equal(t, len(diags), test.want)
			for _, d := range diags {
				be.True(t, strings.HasPrefix(d.Message, "Invalid Operator"))
				be.Equal(t, d.Severity, SeverityError)
				be.Equal(t, d.Phase, PhaseCheck)
			}
		})
	}
}

func TestAnalyzeSignalAssignMessage(t *testing.T) {
	c := Analyze("", "Component a (){Signal a : STD_LOGIC; a := '1';}", Full, nil)
	be.Equal(t, messages(c), []string{"Invalid Operator := for Signal a. Use <= instead"})
}

func TestAnalyzeUndefinedVariable(t *testing.T) {
	text := "Component a (){Signal s : STD_LOGIC; s <= b;}"
	c := Analyze("", text, Full, nil)

	diags := c.Diagnostics()
	be.Equal(t, len(diags), 1)
	d := diags[0]
	be.Equal(t, d.Message, "Undefined Variable b")
	be.Equal(t, d.Severity, SeverityError)
	off := strings.Index(text, "b;")
	be.Equal(t, d.StartOffset, off)
	be.Equal(t, d.EndOffset, off+1)
	be.Equal(t, d.Start, Position{Line: 0, Col: off})
}

func TestAnalyzeDrivers(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{
			name: "two processes",
			text: "Component a (){Signal s : STD_LOGIC; Process(){s <= '1';} Process(){s <= '0';}}",
			want: 1,
		},
		{
			name: "one process",
			text: "Component a (){Signal s : STD_LOGIC; Process(){s <= '1'; s <= '0';}}",
			want: 0,
		},
		{
			name: "generate",
			text: "Component a (){Signal s : STD_LOGIC; Process(){s <= '1';} Generate(for i in 0 to 1){s <= '0';}}",
			want: 0,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := Analyze("", test.text, Full, nil)
			be.Equal(t, countPrefix(c, "Multiple constant drivers"), test.want)
		})
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	text := "Component a (){Signal s : STD_LOGIC; s := b; Process(){s <= '1';} Process(){s <= '0';}}"
	first := Analyze("x.vhdp", text, Full, nil)
	second := Analyze("x.vhdp", text, Full, nil)
	be.Equal(t, second.Diagnostics(), first.Diagnostics())

	// Rerunning the phases on the same context replaces their findings.
	again := Reanalyze(first, Full, nil)
	be.Equal(t, again.Diagnostics(), second.Diagnostics())
}

func TestAnalyzeIndexingOnly(t *testing.T) {
	c := Analyze("", "Component a (){Signal s : STD_LOGIC; s <= b;}", Indexing, nil)
	be.Equal(t, len(c.Diagnostics()), 0)

	typ, seg, comp, seq := c.Unresolved()
	be.Equal(t, typ, 0)
	be.True(t, seg > 0)
	be.Equal(t, comp, 0)
	be.Equal(t, seq, 0)
}

func TestAnalyzeUnexpectedEOF(t *testing.T) {
	c := Analyze("", "Component a (){Signal s : STD_LOGIC;", Indexing, nil)
	be.Equal(t, messages(c), []string{"Unexpected end of file"})
	be.Equal(t, c.Diagnostics()[0].Phase, PhaseParse)
}

func TestAnalyzeProjectComponent(t *testing.T) {
	lib := Analyze("lib.vhdp", "Component Blink (LED : OUT STD_LOGIC;){}", Indexing, nil)
	_, ok := lib.LookupComponent("blink")
	be.True(t, ok)

	text := "Main (){NewComponent Blink (LED => x);}"
	alone := Analyze("top.vhdp", text, Full, nil)
	be.Equal(t, countPrefix(alone, "Undefined Component"), 1)

	linked := Analyze("top.vhdp", text, Full, NewProjectContext(lib))
	be.Equal(t, countPrefix(linked, "Undefined Component"), 0)
}

func TestAnalyzeExternalComponent(t *testing.T) {
	ext := NewExternalContext("uart.vhd", "UART_TX", []ExternalPort{
		{Name: "TX", Direction: types.Out, Type: "STD_LOGIC"},
		{Name: "Data", Direction: types.In, Type: "STD_LOGIC_VECTOR"},
	})
	comp, ok := ext.LookupComponent("uart_tx")
	be.True(t, ok)
	be.Equal(t, comp.Vars["tx"].Type, types.StdLogic)
	be.Equal(t, comp.Vars["data"].Direction, types.In)

	c := Analyze("top.vhdp", "Main (){NewComponent UART_TX (TX => x);}", Full, NewProjectContext(ext))
	be.Equal(t, countPrefix(c, "Undefined Component"), 0)
}

func TestModeString(t *testing.T) {
	be.Equal(t, Indexing.String(), "indexing")
	be.Equal(t, Resolve.String(), "indexing|resolve")
	be.Equal(t, Full.String(), "indexing|resolve|check")
	be.True(t, Full.Has(Check))
	be.True(t, !Indexing.Has(Resolve))
}
