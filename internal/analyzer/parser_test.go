package analyzer

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/robert-at-pretension-io/vhdp-lint/internal/types"
)

func TestNativeType(t *testing.T) {
	tests := []struct {
		val  string
		want *types.DataType
	}{
		{"'1'", types.StdLogic},
		{"'Z'", types.StdLogic},
		{"42", types.Integer},
		{"1.5", types.Real},
		{"2e3", types.Real},
		{"\"0101\"", types.StdLogicVector},
		{"x\"FF\"", types.StdLogicVector},
		{"TRUE", types.Boolean},
		{"false", types.Boolean},
		{"others", types.Others},
		{"10 ns", types.Time},
		{"5 ms", types.Time},
		{"1 s", types.Time},
		{".5", types.Unknown},
		{"counter", types.Unknown},
		{"", types.Unknown},
	}
	for _, test := range tests {
		t.Run(test.val, func(t *testing.T) {
			be.Equal(t, nativeType(test.val), test.want)
		})
	}
}

func TestParseDeclaresSignal(t *testing.T) {
	text := "Component a (){Signal s : STD_LOGIC; s <= '1';}"
	c := Parse("", text)

	comp, ok := c.LookupComponent("a")
	be.True(t, ok)
	be.Equal(t, comp.Kind, Component)

	v := comp.Vars["s"]
	be.True(t, v != nil)
	be.Equal(t, v.Type, types.StdLogic)
	be.Equal(t, v.Kind, types.KindSignal)
	be.Equal(t, v.Offset, strings.Index(text, "s :"))
}

func TestParseMainUsesFileStem(t *testing.T) {
	c := Parse("/work/Blink.vhdp", "Main (){}")
	_, ok := c.LookupComponent("blink")
	be.True(t, ok)
	be.Equal(t, c.TopLevels()[0].Name, "Component blink")
}

func TestParseIncludes(t *testing.T) {
	c := Parse("", "Include(IEEE.numeric_std.all);")
	be.Equal(t, len(c.Includes), 1)
	be.True(t, strings.EqualFold(c.Includes[0], "ieee.numeric_std.all"))
}

func TestParseComments(t *testing.T) {
	text := "Component a (){\n  Signal s : STD_LOGIC; -- note\n  /* block */ s <= '1';\n}"
	c := Parse("", text)

	be.Equal(t, len(c.Comments), 2)
	be.True(t, c.InComment(strings.Index(text, "note")))
	be.True(t, c.InComment(strings.Index(text, "block")))
	be.True(t, !c.InComment(strings.Index(text, "s <=")))
	be.Equal(t, len(c.Diagnostics()), 0)
}

func TestParseLineOffsets(t *testing.T) {
	text := "Component a ()\n{\n  Signal s : STD_LOGIC;\n  s <= b;\n}"
	c := Analyze("", text, Full, nil)

	be.Equal(t, c.LineOffsets, []int{0, 15, 17, 41, 51})
	be.Equal(t, c.Position(strings.Index(text, "b;")), Position{Line: 3, Col: 7})
	be.Equal(t, c.Offset(3, 7), strings.Index(text, "b;"))
	be.Equal(t, c.Offset(9, 0), -1)

	diags := c.Diagnostics()
	be.Equal(t, len(diags), 1)
	be.Equal(t, diags[0].Start, Position{Line: 3, Col: 7})
	be.Equal(t, diags[0].End, Position{Line: 3, Col: 8})
}

func TestParseCRLF(t *testing.T) {
	text := "Component a ()\r\n{\r\n\tSignal s : STD_LOGIC;\r\n\ts <= '1';\r\n}"
	c := Analyze("", text, Full, nil)
	be.Equal(t, len(c.Diagnostics()), 0)
	be.Equal(t, len(c.LineOffsets), 5)
}

func TestParseUnbalancedBraces(t *testing.T) {
	c := Parse("", "Component a (){Process(){")
	be.Equal(t, messages(c), []string{"Unexpected end of file"})
	for _, s := range c.TopLevels() {
		be.True(t, s.EndOffset > 0)
	}
}

func TestParseNeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"}",
		")",
		"((((",
		"\"unterminated",
		"/* open comment",
		"Component (",
		"a <= ;;; => :=",
		"Main(){ Vhdl { if a then b; end if; } }",
	}
	for _, text := range inputs {
		t.Run(text, func(t *testing.T) {
			c := Analyze("", text, Full, nil)
			be.True(t, c.Top != nil)
		})
	}
}
