package analyzer

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/robert-at-pretension-io/vhdp-lint/internal/types"
)

// SequentialFunction is a sequential function declared with the SeqFunction
// keyword. Calls inline it; its exposing variables become visible at the
// call site.
type SequentialFunction struct {
	Owner  *Segment
	Name   string
	Params []*types.Param

	exposing      map[string]*types.Variable
	exposingOrder []string
}

func newSeqFunction(owner *Segment, name string) *SequentialFunction {
	return &SequentialFunction{Owner: owner, Name: name, exposing: make(map[string]*types.Variable)}
}

func (f *SequentialFunction) Parameters() []*types.Param { return f.Params }

func (f *SequentialFunction) addExposing(v *types.Variable) {
	key := strings.ToLower(v.Name)
	if _, ok := f.exposing[key]; !ok {
		f.exposingOrder = append(f.exposingOrder, key)
	}
	f.exposing[key] = v
}

// Exposing returns the exposing variables in declaration order.
func (f *SequentialFunction) Exposing() []*types.Variable {
	out := make([]*types.Variable, 0, len(f.exposingOrder))
	for _, k := range f.exposingOrder {
		out = append(out, f.exposing[k])
	}
	return out
}

func (f *SequentialFunction) param(name string) (int, *types.Param) {
	for i, p := range f.Params {
		if strings.EqualFold(p.Name, name) {
			return i, p
		}
	}
	return -1, nil
}

// ParameterOwner is anything with an ordered formal parameter list.
type ParameterOwner interface {
	Parameters() []*types.Param
}

// Connection is one member of a Connections block, optionally mapped to a
// pin with "=>".
type Connection struct {
	Name   string
	Target string
}

// Comment is a closed byte range of a line or block comment.
type Comment struct {
	Start int
	End   int
}

// Context holds everything known about one file: its segment tree, the
// symbols it declares, the symbols it can see, and its diagnostics.
type Context struct {
	Path string
	Text string
	Top  *Segment

	Includes      []string
	IncludeExists bool
	Connections   map[string]Connection
	Comments      []Comment
	LineOffsets   []int

	types          map[string]*types.DataType
	availTypes     map[string]*types.DataType
	enums          []*types.DataType
	functions      map[string][]*types.Function
	availFunctions map[string][]*types.Function
	declared       map[*Segment]*types.Function
	seqFunctions   map[string]*SequentialFunction
	availSeqFuncs  map[string]*SequentialFunction
	exposing       map[string]*types.Variable
	availExposing  map[string]*types.Variable
	components     map[string]*Segment
	availComps     map[string]*Segment
	packages       map[string]*Segment

	unresolvedTypes        []*Segment
	unresolvedSegments     []*Segment
	unresolvedComponents   []*Segment
	unresolvedSeqFunctions []*Segment

	diags [phaseCount][]Diagnostic
}

// NewContext creates an empty context for path. Files other than .ghdp see
// the implicit CLK input, and the default IEEE packages are in scope.
func NewContext(path, text string) *Context {
	c := &Context{
		Path:           path,
		Text:           text,
		Connections:    make(map[string]Connection),
		LineOffsets:    []int{0},
		types:          make(map[string]*types.DataType),
		availTypes:     make(map[string]*types.DataType),
		functions:      make(map[string][]*types.Function),
		availFunctions: make(map[string][]*types.Function),
		declared:       make(map[*Segment]*types.Function),
		seqFunctions:   make(map[string]*SequentialFunction),
		availSeqFuncs:  make(map[string]*SequentialFunction),
		exposing:       make(map[string]*types.Variable),
		availExposing:  make(map[string]*types.Variable),
		components:     make(map[string]*Segment),
		availComps:     make(map[string]*Segment),
		packages:       make(map[string]*Segment),
	}
	c.Top = newSegment(c, nil, "GlobalScope", GlobalSegment, types.Unknown, 0, "", 0)
	c.Top.EndOffset = len(text)

	if !strings.EqualFold(filepath.Ext(path), ".ghdp") {
		c.availExposing["clk"] = &types.Variable{
			Name:      "CLK",
			Type:      types.StdLogic,
			Kind:      types.KindIo,
			Direction: types.In,
			Owner:     c.Top.Name,
		}
	}
	for _, inc := range types.DefaultIncludes {
		c.resolveInclude(inc)
	}
	return c
}

// Stem is the file name without directory and extension.
func (c *Context) Stem() string {
	base := filepath.Base(c.Path)
	if c.Path == "" {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Line returns the 0-based line containing offset.
func (c *Context) Line(offset int) int {
	i := sort.Search(len(c.LineOffsets), func(i int) bool { return c.LineOffsets[i] > offset })
	if i == 0 {
		return 0
	}
	return i - 1
}

// Position converts a byte offset to a line and column.
func (c *Context) Position(offset int) Position {
	line := c.Line(offset)
	return Position{Line: line, Col: offset - c.LineOffsets[line]}
}

// Offset is the inverse of Position. It returns -1 for lines outside the
// file.
func (c *Context) Offset(line, col int) int {
	if line < 0 || line >= len(c.LineOffsets) {
		return -1
	}
	return c.LineOffsets[line] + col
}

// InComment reports whether offset falls inside a recorded comment.
func (c *Context) InComment(offset int) bool {
	for _, cm := range c.Comments {
		if offset >= cm.Start && offset <= cm.End {
			return true
		}
	}
	return false
}

// TopLevels are the direct children of the global segment.
func (c *Context) TopLevels() []*Segment { return c.Top.Children }

func (c *Context) LookupType(name string) (*types.DataType, bool) {
	t, ok := c.availTypes[strings.ToLower(name)]
	return t, ok
}

func (c *Context) LookupFunctions(name string) []*types.Function {
	return c.availFunctions[strings.ToLower(name)]
}

func (c *Context) LookupSeqFunction(name string) (*SequentialFunction, bool) {
	f, ok := c.availSeqFuncs[strings.ToLower(name)]
	return f, ok
}

func (c *Context) LookupExposing(name string) (*types.Variable, bool) {
	v, ok := c.availExposing[strings.ToLower(name)]
	return v, ok
}

func (c *Context) LookupComponent(name string) (*Segment, bool) {
	s, ok := c.availComps[strings.ToLower(name)]
	return s, ok
}

// LocalTypes are the types declared in this file, keyed by lower-cased name.
func (c *Context) LocalTypes() map[string]*types.DataType { return c.types }

// LocalFunctions are the functions declared in this file.
func (c *Context) LocalFunctions() map[string][]*types.Function { return c.functions }

// LocalSeqFunctions are the sequential functions declared in this file.
func (c *Context) LocalSeqFunctions() map[string]*SequentialFunction { return c.seqFunctions }

// LocalExposing are the variables this file exposes to the project.
func (c *Context) LocalExposing() map[string]*types.Variable { return c.exposing }

// LocalComponents are the components declared in this file.
func (c *Context) LocalComponents() map[string]*Segment { return c.components }

// LocalPackages are the packages declared in this file.
func (c *Context) LocalPackages() map[string]*Segment { return c.packages }

// DeclaredFunction returns the function a Function segment declares.
func (c *Context) DeclaredFunction(s *Segment) *types.Function { return c.declared[s] }

// Unresolved returns how many entries are left in each work-list.
func (c *Context) Unresolved() (typ, seg, comp, seq int) {
	return len(c.unresolvedTypes), len(c.unresolvedSegments), len(c.unresolvedComponents), len(c.unresolvedSeqFunctions)
}

func (c *Context) addLocalType(key string, t *types.DataType) {
	if _, ok := c.types[key]; ok {
		return
	}
	c.types[key] = t
	if _, ok := c.availTypes[key]; !ok {
		c.availTypes[key] = t
		if t.Class == types.Enum {
			c.enums = append(c.enums, t)
		}
	}
}

func (c *Context) addLocalFunction(key string, owner *Segment, f *types.Function) {
	c.functions[key] = append(c.functions[key], f)
	c.availFunctions[key] = append(c.availFunctions[key], f)
	if owner != nil {
		c.declared[owner] = f
	}
}

func (c *Context) addLocalSeqFunction(key string, f *SequentialFunction) {
	if _, ok := c.availSeqFuncs[key]; ok {
		return
	}
	c.seqFunctions[key] = f
	c.availSeqFuncs[key] = f
}

func (c *Context) addLocalExposing(key string, v *types.Variable) {
	if _, ok := c.availExposing[key]; ok {
		return
	}
	c.exposing[key] = v
	c.availExposing[key] = v
}

func (c *Context) addLocalComponent(key string, s *Segment) {
	if _, ok := c.components[key]; !ok {
		c.components[key] = s
	}
	if _, ok := c.availComps[key]; !ok {
		c.availComps[key] = s
	}
}

func (c *Context) addLocalPackage(key string, s *Segment) {
	if _, ok := c.packages[key]; !ok {
		c.packages[key] = s
	}
}

// ResolveIncludes brings every included predefined package into scope.
func (c *Context) ResolveIncludes() {
	for _, inc := range c.Includes {
		c.resolveInclude(inc)
	}
}

// AddInclude records include as if the file had declared it.
func (c *Context) AddInclude(include string) {
	for _, inc := range c.Includes {
		if strings.EqualFold(inc, include) {
			return
		}
	}
	c.Includes = append(c.Includes, include)
	c.resolveInclude(include)
}

func (c *Context) resolveInclude(include string) {
	pkg, ok := types.LookupPackage(include)
	if !ok {
		return
	}
	for _, k := range sortedKeys(pkg.Functions) {
		if _, ok := c.availFunctions[k]; !ok {
			c.availFunctions[k] = pkg.Functions[k]
		}
	}
	for _, k := range sortedKeys(pkg.Types) {
		if _, ok := c.availTypes[k]; !ok {
			c.availTypes[k] = pkg.Types[k]
		}
	}
}

// AddProjectContext makes the declarations of other files visible. Names
// already visible in this context are never replaced.
func (c *Context) AddProjectContext(pc *ProjectContext) {
	if pc == nil {
		return
	}
	for _, f := range pc.Files {
		if f == c {
			continue
		}
		for _, k := range sortedKeys(f.types) {
			if _, ok := c.availTypes[k]; !ok {
				t := f.types[k]
				c.availTypes[k] = t
				if t.Class == types.Enum {
					c.enums = append(c.enums, t)
				}
			}
		}
		for _, k := range sortedKeys(f.exposing) {
			if _, ok := c.availExposing[k]; !ok {
				c.availExposing[k] = f.exposing[k]
			}
		}
		for _, k := range sortedKeys(f.seqFunctions) {
			if _, ok := c.availSeqFuncs[k]; !ok {
				c.availSeqFuncs[k] = f.seqFunctions[k]
			}
		}
	}
	for _, f := range pc.Files {
		if f == c {
			continue
		}
		for _, s := range f.TopLevels() {
			if s.Kind != Component {
				continue
			}
			if w := s.words(); len(w) == 2 {
				key := strings.ToLower(w[1])
				if _, ok := c.availComps[key]; !ok {
					c.availComps[key] = s
				}
			}
		}
	}
	for _, f := range pc.Files {
		if f == c {
			continue
		}
		for _, s := range f.TopLevels() {
			if s.Kind != Main {
				continue
			}
			key := strings.ToLower(f.Stem())
			if _, ok := c.availComps[key]; !ok {
				c.availComps[key] = s
			}
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ProjectContext is the set of analyzed files whose declarations are
// visible to each other.
type ProjectContext struct {
	Files []*Context
}

func NewProjectContext(files ...*Context) *ProjectContext {
	return &ProjectContext{Files: files}
}

func (pc *ProjectContext) Add(c *Context) { pc.Files = append(pc.Files, c) }

// Without returns a project context that excludes the file at path.
func (pc *ProjectContext) Without(path string) *ProjectContext {
	out := &ProjectContext{Files: make([]*Context, 0, len(pc.Files))}
	for _, f := range pc.Files {
		if f.Path != path {
			out.Files = append(out.Files, f)
		}
	}
	return out
}
