package types

import (
	"testing"

	"github.com/nalgeon/be"
)

var primitives = []*DataType{
	StdLogic, StdLogicVector, Integer, Signed, Natural, Unsigned, Positive,
	Boolean, Time, String, Real, Bit, BitVector,
}

func TestCompatibleReflexive(t *testing.T) {
	for _, p := range primitives {
		for _, op := range []string{"", "&", "<=", "=", "+"} {
			be.True(t, Compatible(p, p, op))
		}
	}
}

func TestCompatibleAllowListPairs(t *testing.T) {
	tests := []struct {
		from, to *DataType
		op       string
		expected bool
	}{
		{StdLogicVector, StdLogic, "<=", true},
		{StdLogicVector, Unsigned, "<=", true},
		{StdLogicVector, String, "<=", true},
		{String, StdLogicVector, "<=", true},
		{Unsigned, StdLogic, "<=", true},
		{Integer, Unsigned, ":=", true},
		{Integer, Signed, ":=", true},
		{Integer, StdLogicVector, ":=", true},
		{Integer, Positive, ":=", true},
		{Integer, Natural, ":=", true},
		{Integer, Real, ":=", true},
		{Real, Integer, ":=", true},
		{Natural, Integer, ":=", true},
		{Natural, Positive, ":=", true},
		{Positive, Integer, ":=", true},
		{Positive, Natural, ":=", true},
		{Time, Integer, "=", true},

		{StdLogicVector, Signed, "&", true},
		{StdLogic, StdLogicVector, "&", true},
		{StdLogic, Signed, "&", true},
		{StdLogic, Unsigned, "&", true},
		{Unsigned, StdLogicVector, "&", true},
		{Signed, StdLogicVector, "&", true},
		{Bit, BitVector, "&", true},
		{BitVector, Bit, "&", true},
		{Bit, BitVector, "<=", false},
		{StdLogicVector, Signed, "<=", false},
		{StdLogic, Unsigned, "=", false},
		{Signed, StdLogicVector, ":=", false},

		{Unsigned, Natural, "<", true},
		{Natural, Unsigned, ">", true},
		{Unsigned, StdLogicVector, ">=", true},
		{StdLogicVector, Unsigned, "<", true},
		{Natural, Unsigned, "=", false},
		{Natural, Unsigned, "&", false},

		{Unsigned, Integer, ":=", false},
		{Signed, Integer, ":=", false},
		{StdLogic, Unsigned, ":=", false},
		{Integer, Time, "=", false},
		{Boolean, StdLogic, "<=", false},
		{Bit, StdLogic, "<=", false},
		{BitVector, StdLogicVector, "&", false},
		{Signed, Unsigned, "<", false},
	}

	for _, test := range tests {
		name := test.from.Name + " " + test.op + " " + test.to.Name
		t.Run(name, func(t *testing.T) {
			be.Equal(t, Compatible(test.from, test.to, test.op), test.expected)
		})
	}
}

func TestCompatible(t *testing.T) {
	tests := []struct {
		name     string
		from, to *DataType
		op       string
		expected bool
	}{
		{"integer into unsigned", Integer, Unsigned, ":=", true},
		{"unsigned into integer", Unsigned, Integer, ":=", false},
		{"time into integer", Time, Integer, "=", true},
		{"bit concat on vector", StdLogic, StdLogicVector, "&", true},
		{"bit assign to vector", StdLogic, StdLogicVector, "<=", false},
		{"unsigned compared to natural", Unsigned, Natural, "<", true},
		{"unsigned equals natural", Unsigned, Natural, "=", false},
		{"boolean into std_logic", Boolean, StdLogic, "<=", false},
		{"distinct enums", NewEnum("state_a"), NewEnum("state_b"), ":=", true},
		{"records by name", NewRecord("rec"), NewRecord("rec"), "<=", true},
		{"unknown into integer", Unknown, Integer, "=", false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			be.Equal(t, Compatible(test.from, test.to, test.op), test.expected)
		})
	}
}

func TestPrimitiveSingletons(t *testing.T) {
	pkg, ok := LookupPackage("IEEE.NUMERIC_STD.ALL")
	be.True(t, ok)
	be.True(t, pkg.Types["integer"] == Integer)
	be.True(t, pkg.Types["std_logic"] == Packages["ieee.std_logic_1164.all"].Types["std_logic"])

	mathReal, ok := LookupPackage("ieee.math_real.all")
	be.True(t, ok)
	be.True(t, mathReal.Types["real"] == Real)
	be.Equal(t, len(mathReal.Functions["ceil"]), 2)
}

func TestEnumStates(t *testing.T) {
	e := NewEnum("state_t")
	e.States = append(e.States, "Idle", "Busy")
	be.True(t, e.HasState("idle"))
	be.True(t, !e.HasState("done"))
	be.Equal(t, e.Summary(), "Enum with states Idle, Busy")

	a := NewArray("mem_t")
	be.Equal(t, a.Summary(), "Array of UNKNOWN")
	a.Element = Unsigned
	be.Equal(t, a.Summary(), "Array of UNSIGNED")
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection("BUFFER")
	be.True(t, ok)
	be.Equal(t, d, Buffer)

	_, ok = ParseDirection("signal")
	be.True(t, !ok)

	be.Equal(t, ParseVarKind("Constant"), KindConstant)
	be.Equal(t, KindRecordMember.String(), "RecordMember")

	v := &Variable{Name: "CLK", Type: StdLogic, Kind: KindIo, Direction: In}
	be.Equal(t, v.String(), "CLK : In STD_LOGIC")
}
