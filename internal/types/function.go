package types

import (
	"strings"
)

// Param is a formal parameter. The type is mutable because user-declared
// parameters are typed only after resolution.
type Param struct {
	Name string
	Type *DataType
}

// Function is a predefined or user-declared VHDL function. Overloads share
// a name and are kept as separate values.
type Function struct {
	Name        string
	Description string
	Params      []*Param
	Return      *DataType
}

// NewFunction creates a function with an unresolved return type.
func NewFunction(name string) *Function {
	return &Function{Name: name, Return: Unknown}
}

func (f *Function) Parameters() []*Param { return f.Params }

func (f *Function) String() string {
	var b strings.Builder
	b.WriteString(f.Name)
	b.WriteByte('(')
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(p.Name)
		b.WriteString(" : ")
		b.WriteString(p.Type.String())
	}
	b.WriteString(") return ")
	b.WriteString(f.Return.String())
	return b.String()
}

// Builtin is a VHDP language builtin that looks like a call.
type Builtin struct {
	Name        string
	Description string
	Params      []*Param
}

func (b *Builtin) Parameters() []*Param { return b.Params }

// Builtins are keyed by lower-cased name.
var Builtins = map[string]*Builtin{
	"wait": {
		Name:        "Wait",
		Description: "Waits the given number of clock cycles or the given time",
		Params:      []*Param{{Name: "timespan", Type: Integer}},
	},
}

// LookupBuiltin finds a builtin by case-insensitive name.
func LookupBuiltin(name string) (*Builtin, bool) {
	b, ok := Builtins[strings.ToLower(name)]
	return b, ok
}
