package types

import (
	"strings"
)

// Class groups data types by how they are built.
type Class int

const (
	Primitive Class = iota
	Internal
	Array
	Record
	Enum
)

func (c Class) String() string {
	switch c {
	case Internal:
		return "internal"
	case Array:
		return "array"
	case Record:
		return "record"
	case Enum:
		return "enum"
	}
	return "primitive"
}

// DataType is a VHDP/VHDL data type. Types are compared by identity;
// compatibility between distinct types is decided by name and the
// allow-lists in compat.go.
type DataType struct {
	Name        string
	Description string
	Class       Class

	// Element is the element type of an Array. It starts as Unknown and is
	// filled in once the declaration's element type resolves.
	Element *DataType

	// Fields holds record members keyed by lower-cased name.
	Fields map[string]*Variable

	// States holds enum literals in declaration order.
	States []string
}

func (d *DataType) String() string {
	if d == nil {
		return Unknown.Name
	}
	return d.Name
}

// Summary is the text shown for a type in tooling output.
func (d *DataType) Summary() string {
	switch d.Class {
	case Array:
		return "Array of " + d.Element.String()
	case Record:
		return "Record with " + strings.Join(d.FieldNames(), ", ")
	case Enum:
		return "Enum with states " + strings.Join(d.States, ", ")
	}
	return d.Description
}

// HasState reports whether name is one of the enum literals.
// VHDL identifiers are case-insensitive.
func (d *DataType) HasState(name string) bool {
	for _, s := range d.States {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

// FieldNames returns record field names in no particular order.
func (d *DataType) FieldNames() []string {
	names := make([]string, 0, len(d.Fields))
	for _, v := range d.Fields {
		names = append(names, v.Name)
	}
	return names
}

// NewArray creates a user-defined array type whose element is not yet known.
func NewArray(name string) *DataType {
	return &DataType{Name: name, Class: Array, Element: Unknown}
}

// NewRecord creates an empty user-defined record type.
func NewRecord(name string) *DataType {
	return &DataType{Name: name, Class: Record, Fields: make(map[string]*Variable)}
}

// NewEnum creates a user-defined enum type without states.
func NewEnum(name string) *DataType {
	return &DataType{Name: name, Class: Enum}
}

var (
	Unknown = &DataType{Name: "UNKNOWN", Class: Internal}
	Others  = &DataType{Name: "OTHERS", Class: Internal}

	StdLogic = &DataType{Name: "STD_LOGIC", Class: Primitive,
		Description: "Type with states '0', '1', 'U', 'X', 'Z', 'W', 'L', 'H' and '-'"}
	StdLogicVector = &DataType{Name: "STD_LOGIC_VECTOR", Class: Primitive,
		Description: "Array of STD_LOGIC\nSize e.g. (7 downto 0)"}
	Integer = &DataType{Name: "INTEGER", Class: Primitive,
		Description: "Number with a maximum range of -2147483648 to 2147483647\nSize e.g. range 0 to 255"}
	Signed = &DataType{Name: "SIGNED", Class: Primitive,
		Description: "Array of STD_LOGIC with support of computational operations\nSize e.g. (7 downto 0) with range of -128 to 127"}
	Natural = &DataType{Name: "NATURAL", Class: Primitive,
		Description: "Number with a maximum range of 0 to 2147483647\nSize e.g. range 0 to 255"}
	Unsigned = &DataType{Name: "UNSIGNED", Class: Primitive,
		Description: "Array of STD_LOGIC with support of computational operations\nSize e.g. (7 downto 0) with range of 0 to 255"}
	Positive = &DataType{Name: "POSITIVE", Class: Primitive,
		Description: "Number with a maximum range of 1 to 2147483647\nSize e.g. range 1 to 256"}
	Boolean = &DataType{Name: "BOOLEAN", Class: Primitive,
		Description: "Type with states false and true"}
	Time = &DataType{Name: "TIME", Class: Primitive,
		Description: "Type for simulation to e.g. define time to wait"}
	String = &DataType{Name: "STRING", Class: Primitive,
		Description: "Type for simulation or constant signals\nUse the String_Type library or s\"...\" that creates a hex value for synthesizable code"}
	Real = &DataType{Name: "REAL", Class: Primitive,
		Description: "Type for simulation or constant signals\nNeeds include of math_real library\nUse integer operations for synthesizable code"}
	Bit = &DataType{Name: "BIT", Class: Primitive,
		Description: "Type with states '0' and '1'"}
	BitVector = &DataType{Name: "BIT_VECTOR", Class: Primitive,
		Description: "Array of BIT\nSize e.g. (7 downto 0)"}
)

// IsVector reports whether t is one of the std_logic array primitives.
func IsVector(t *DataType) bool {
	return t == StdLogicVector || t == Signed || t == Unsigned
}
