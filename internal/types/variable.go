package types

import (
	"fmt"
	"strings"
)

// VarKind is the declaration category of a variable.
type VarKind int

const (
	KindUnknown VarKind = iota
	KindIo
	KindSignal
	KindVariable
	KindConstant
	KindIterator
	KindComponentMember
	KindGeneric
	KindAttribute
	KindRecordMember
)

var varKindNames = [...]string{
	KindUnknown:         "Unknown",
	KindIo:              "Io",
	KindSignal:          "Signal",
	KindVariable:        "Variable",
	KindConstant:        "Constant",
	KindIterator:        "Iterator",
	KindComponentMember: "ComponentMember",
	KindGeneric:         "Generic",
	KindAttribute:       "Attribute",
	KindRecordMember:    "RecordMember",
}

func (k VarKind) String() string {
	if k < 0 || int(k) >= len(varKindNames) {
		return fmt.Sprintf("VarKind(%d)", int(k))
	}
	return varKindNames[k]
}

// ParseVarKind maps a declaration keyword (signal, variable, constant,
// attribute) to its kind. Anything else is KindUnknown.
func ParseVarKind(word string) VarKind {
	switch strings.ToLower(word) {
	case "signal":
		return KindSignal
	case "variable":
		return KindVariable
	case "constant":
		return KindConstant
	case "attribute":
		return KindAttribute
	}
	return KindUnknown
}

// Direction of an I/O port. NoDirection marks non-port variables.
type Direction int

const (
	NoDirection Direction = iota
	In
	Out
	InOut
	Buffer
)

func (d Direction) String() string {
	switch d {
	case In:
		return "In"
	case Out:
		return "Out"
	case InOut:
		return "InOut"
	case Buffer:
		return "Buffer"
	}
	return ""
}

// ParseDirection recognizes the port direction keywords.
func ParseDirection(word string) (Direction, bool) {
	switch strings.ToLower(word) {
	case "in":
		return In, true
	case "out":
		return Out, true
	case "inout":
		return InOut, true
	case "buffer":
		return Buffer, true
	}
	return NoDirection, false
}

// IsDirection reports whether word is a port direction keyword.
func IsDirection(word string) bool {
	_, ok := ParseDirection(word)
	return ok
}

// Variable is a declared name: signal, variable, constant, port, iterator
// or record field.
type Variable struct {
	Name      string
	Type      *DataType
	Kind      VarKind
	Direction Direction
	Offset    int
	Owner     string
}

func (v *Variable) String() string {
	if v.Kind == KindIo && v.Direction != NoDirection {
		return fmt.Sprintf("%s : %s %s", v.Name, v.Direction, v.Type)
	}
	return fmt.Sprintf("%s : %s", v.Name, v.Type)
}
