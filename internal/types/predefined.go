package types

import (
	"strings"
)

// Package is a predefined library that an Include brings into scope.
type Package struct {
	Name      string
	Types     map[string]*DataType
	Functions map[string][]*Function
}

func param(name string, t *DataType) *Param { return &Param{Name: name, Type: t} }

func fn(name, desc string, ret *DataType, params ...*Param) *Function {
	return &Function{Name: name, Description: desc, Return: ret, Params: params}
}

var (
	risingEdge  = fn("rising_edge", "Detects the rising edge of a std_logic signal", Boolean, param("Signal", StdLogic))
	fallingEdge = fn("falling_edge", "Detects the falling edge of a std_logic signal", Boolean, param("Signal", StdLogic))

	toUnsigned = fn("to_unsigned", "Converts Integer to Unsigned", Unsigned,
		param("Source", Integer), param("Length", Integer))
	toSigned = fn("to_signed", "Converts Integer to Signed", Signed,
		param("Source", Integer), param("Length", Integer))
	unsignedFn = fn("unsigned", "Converts Vector to Unsigned", Unsigned, param("Source", StdLogicVector))
	signedFn   = fn("signed", "Converts Vector to Signed", Signed, param("Source", StdLogicVector))

	toIntegerFromSigned   = fn("to_integer", "Converts Signed to Integer", Natural, param("Source", Signed))
	toIntegerFromUnsigned = fn("to_integer", "Converts Unsigned to Integer", Integer, param("Source", Unsigned))

	slvFromSigned   = fn("std_logic_vector", "Converts Signed to STD_LOGIC_VECTOR", StdLogicVector, param("Source", Signed))
	slvFromUnsigned = fn("std_logic_vector", "Converts Unsigned to STD_LOGIC_VECTOR", StdLogicVector, param("Source", Unsigned))

	resizeSigned   = fn("resize", "Resizes the Signed Vector", Signed, param("Source", Signed), param("New Size", Integer))
	resizeUnsigned = fn("resize", "Resizes the unsigned Vector", Unsigned, param("Source", Unsigned), param("New Size", Integer))

	shiftRightSigned   = fn("shift_right", "Performs a shift-right on an SIGNED vector COUNT times", Signed, param("Source", Signed), param("Count", Integer))
	shiftRightUnsigned = fn("shift_right", "Performs a shift-right on an UNSIGNED vector COUNT times", Unsigned, param("Source", Unsigned), param("Count", Integer))
	shiftLeftSigned    = fn("shift_left", "Performs a shift-left on an SIGNED vector COUNT times", Signed, param("Source", Signed), param("Count", Integer))
	shiftLeftUnsigned  = fn("shift_left", "Performs a shift-left on an UNSIGNED vector COUNT times", Unsigned, param("Source", Unsigned), param("Count", Integer))

	toBit       = fn("to_bit", "Converts STD_LOGIC to Bit", Bit, param("Source", StdLogic))
	toBitVector = fn("to_bitvector", "Converts STD_LOGIC_VECTOR to BIT_VECTOR", BitVector, param("Source", StdLogicVector))

	sxt         = fn("sxt", "Sign extend STD_LOGIC_VECTOR", StdLogicVector, param("Source", StdLogicVector), param("New Size", Integer))
	ext         = fn("ext", "Zero extend STD_LOGIC_VECTOR", StdLogicVector, param("Source", StdLogicVector), param("New Size", Integer))
	convInteger = fn("conv_integer", "Converts STD_LOGIC_VECTOR to integer", Integer, param("Source", StdLogicVector))
	convSLV     = fn("conv_std_logic_vector", "Converts Integer to STD_LOGIC_VECTOR", StdLogicVector, param("Source", Integer), param("Size", Integer))
	convSLVU    = fn("conv_std_logic_vector", "Converts Unsigned to STD_LOGIC_VECTOR", StdLogicVector, param("Source", Unsigned), param("Size", Integer))
	convSLVS    = fn("conv_std_logic_vector", "Converts Signed to STD_LOGIC_VECTOR", StdLogicVector, param("Source", Signed), param("Size", Integer))

	integerFromReal = fn("integer", "Converts Real to Integer", Integer, param("Source", Real))
	realFromInteger = fn("real", "Converts Integer to Real", Real, param("Source", Integer))
	ceilReal        = fn("ceil", "returns smallest integer value (as real) not less than X", Real, param("X", Real))
	ceilVector      = fn("ceil", "returns smallest integer value (as real) not less than X", Real, param("X", StdLogicVector))
	log2            = fn("log2", "returns logarithm base 2 of X", Real, param("X", Real))
)

// Packages are keyed by the lower-cased include path.
var Packages = map[string]*Package{
	"ieee.std_logic_1164.all": {
		Name: "ieee.std_logic_1164.all",
		Types: map[string]*DataType{
			"std_logic":        StdLogic,
			"std_logic_vector": StdLogicVector,
			"bit":              Bit,
			"bit_vector":       BitVector,
		},
		Functions: map[string][]*Function{
			"rising_edge":  {risingEdge},
			"falling_edge": {fallingEdge},
		},
	},
	"ieee.numeric_std.all": {
		Name: "ieee.numeric_std.all",
		Types: map[string]*DataType{
			"std_logic":        StdLogic,
			"std_logic_vector": StdLogicVector,
			"integer":          Integer,
			"signed":           Signed,
			"natural":          Natural,
			"unsigned":         Unsigned,
			"positive":         Positive,
			"boolean":          Boolean,
			"time":             Time,
			"string":           String,
			"bit":              Bit,
			"bit_vector":       BitVector,
		},
		Functions: map[string][]*Function{
			"to_unsigned":      {toUnsigned},
			"unsigned":         {unsignedFn},
			"to_signed":        {toSigned},
			"signed":           {signedFn},
			"to_integer":       {toIntegerFromSigned, toIntegerFromUnsigned},
			"std_logic_vector": {slvFromSigned, slvFromUnsigned},
			"resize":           {resizeSigned, resizeUnsigned},
			"shift_right":      {shiftRightSigned, shiftRightUnsigned},
			"shift_left":       {shiftLeftSigned, shiftLeftUnsigned},
			"to_bit":           {toBit},
			"to_bitvector":     {toBitVector},
		},
	},
	"ieee.std_logic_arith.all": {
		Name:  "ieee.std_logic_arith.all",
		Types: map[string]*DataType{},
		Functions: map[string][]*Function{
			"sxt":                   {sxt},
			"ext":                   {ext},
			"conv_integer":          {convInteger},
			"conv_std_logic_vector": {convSLV, convSLVS, convSLVU},
		},
	},
	"ieee.math_real.all": {
		Name:  "ieee.math_real.all",
		Types: map[string]*DataType{"real": Real},
		Functions: map[string][]*Function{
			"integer": {integerFromReal},
			"real":    {realFromInteger},
			"ceil":    {ceilReal, ceilVector},
			"log2":    {log2},
		},
	},
}

// DefaultIncludes are in scope for every file.
var DefaultIncludes = []string{"ieee.numeric_std.all", "ieee.std_logic_1164.all"}

// LookupPackage finds a predefined package by include path.
func LookupPackage(include string) (*Package, bool) {
	p, ok := Packages[strings.ToLower(strings.TrimSpace(include))]
	return p, ok
}
