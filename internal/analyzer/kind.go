package analyzer

import (
	"fmt"
	"strings"
)

// Kind is the syntactic role of a Segment.
type Kind int

const (
	Unknown Kind = iota
	GlobalSegment
	EmptyName
	Component
	Package
	NewComponent
	Vhdl
	Main
	Process
	Thread
	Function
	FunctionContent
	SeqFunction
	SeqFor
	NewFunction
	Return
	Null
	TypeUsage
	Type
	SubType
	Connections
	ConnectionsMember
	Step
	Generate
	While
	CustomBuiltinFunction
	If
	When
	With
	Case
	Generic
	Include
	AttributeDeclaration
	Else
	Elsif
	For
	VariableDeclaration
	DataVariable
	NativeDataValue
	ComponentMember
	VhdlFunction
	VhdlFunctionReturn
	Record
	Array
	Range
	IncludePackage
	VhdlEnd
	EnumDeclaration
	Enum
	ParFor
	Class
	SeqWhile
	Exit
	ParWhile
	None
	Open
	VhdlAttribute
	Attribute
	Begin
	Then
	Port

	kindCount
)

var kindNames = [...]string{
	"Unknown", "GlobalSegment", "EmptyName", "Component", "Package", "NewComponent",
	"Vhdl", "Main", "Process", "Thread", "Function", "FunctionContent", "SeqFunction",
	"SeqFor", "NewFunction", "Return", "Null", "TypeUsage", "Type", "SubType",
	"Connections", "ConnectionsMember", "Step", "Generate", "While",
	"CustomBuiltinFunction", "If", "When", "With", "Case", "Generic", "Include",
	"AttributeDeclaration", "Else", "Elsif", "For", "VariableDeclaration",
	"DataVariable", "NativeDataValue", "ComponentMember", "VhdlFunction",
	"VhdlFunctionReturn", "Record", "Array", "Range", "IncludePackage", "VhdlEnd",
	"EnumDeclaration", "Enum", "ParFor", "Class", "SeqWhile", "Exit", "ParWhile",
	"None", "Open", "VhdlAttribute", "Attribute", "Begin", "Then", "Port",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames)+1)
	for i, n := range kindNames {
		m[strings.ToLower(n)] = Kind(i)
	}
	m["impure"] = Function
	return m
}()

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// is reports whether k is one of kinds.
func (k Kind) is(kinds ...Kind) bool {
	for _, o := range kinds {
		if k == o {
			return true
		}
	}
	return false
}

// kindSet is a bitmask over Kind; there are fewer than 64 kinds.
type kindSet uint64

func setOf(kinds ...Kind) kindSet {
	var s kindSet
	for _, k := range kinds {
		s |= 1 << uint(k)
	}
	return s
}

func (s kindSet) has(k Kind) bool { return s&(1<<uint(k)) != 0 }

// kindOfWord classifies a token by its first word. All-digit words are
// literal values; everything else must match a kind name.
func kindOfWord(word string) Kind {
	if word == "" {
		return Unknown
	}
	if isAllDigits(word) {
		return NativeDataValue
	}
	if k, ok := kindByName[strings.ToLower(word)]; ok {
		return k
	}
	return Unknown
}
