package analyzer

import (
	"strings"

	"github.com/robert-at-pretension-io/vhdp-lint/internal/types"
)

func hasOp(s *Segment, ops []string) bool {
	for _, op := range ops {
		if s.ConcatOp == op {
			return true
		}
	}
	return false
}

// searchVariable finds name in the exposing table or in the variable tables
// of start and its ancestors. The global segment is not searched.
func searchVariable(start *Segment, name string) *types.Variable {
	key := strings.ToLower(name)
	if v, ok := start.ctx.availExposing[key]; ok {
		return v
	}
	for s := start; s.Parent != nil; s = s.Parent {
		if v, ok := s.Vars[key]; ok {
			return v
		}
	}
	return nil
}

// searchVariableInRecord resolves a record field: either the right side of
// "rec.field" or a named member "field => x" inside an array-of-record
// aggregate.
func searchVariableInRecord(s *Segment) *types.Variable {
	key := strings.ToLower(s.Name)
	if s.ConcatOp == "." && s.Parent != nil {
		if t := effectiveType(s.Parent); t.Class == types.Record {
			return t.Fields[key]
		}
		return nil
	}
	if c := s.firstChild(); c != nil && c.ConcatOp == "=>" {
		decl := searchTopSegment(s, VariableDeclaration, DataVariable)
		if decl != nil && decl.Type.Class == types.Array && decl.Type.Element.Class == types.Record {
			return decl.Type.Element.Fields[key]
		}
	}
	return nil
}

// searchEnum returns the first visible enum type with a state called name.
func searchEnum(c *Context, name string) *types.DataType {
	for _, e := range c.enums {
		if e.HasState(name) {
			return e
		}
	}
	return nil
}

// searchFunction picks the overload of name whose parameters accept the
// arguments of s, or the first overload when none matches.
func searchFunction(s *Segment, name string) *types.Function {
	fs := s.ctx.availFunctions[strings.ToLower(name)]
	if len(fs) == 0 {
		return nil
	}
	if len(s.Params) > 0 {
		for _, f := range fs {
			if overloadMatches(s, f) {
				return f
			}
		}
	}
	return fs[0]
}

func overloadMatches(s *Segment, f *types.Function) bool {
	arg := s.firstArg()
	for i := 0; arg != nil && i < len(f.Params); i++ {
		from, _ := childOperatorType(arg)
		if !types.Compatible(from, f.Params[i].Type, ":=") {
			return false
		}
		arg = searchNextOperatorChild(arg, ",")
	}
	return true
}

func searchSeqFunction(s *Segment, name string) *SequentialFunction {
	return s.ctx.availSeqFuncs[strings.ToLower(name)]
}

// searchTopSegment returns the nearest ancestor-or-self of one of kinds,
// stopping before the global segment.
func searchTopSegment(s *Segment, kinds ...Kind) *Segment {
	for ; s != nil && s.Parent != nil; s = s.Parent {
		if s.Kind.is(kinds...) {
			return s
		}
	}
	return nil
}

// searchParameterOwner climbs out of parameter groups to the segment that
// owns them.
func searchParameterOwner(s *Segment) *Segment {
	for s.Parent != nil && inParameter(s) {
		s = s.Parent
	}
	return s
}

// searchOperatorChild follows first children from s (inclusive) until a
// segment joined by one of ops.
func searchOperatorChild(s *Segment, ops ...string) *Segment {
	for {
		if hasOp(s, ops) {
			return s
		}
		if len(s.Children) == 0 {
			return nil
		}
		s = s.Children[0]
	}
}

// searchNextOperatorChild is searchOperatorChild excluding s itself. It is
// how the next argument after a "," is found.
func searchNextOperatorChild(s *Segment, ops ...string) *Segment {
	for len(s.Children) > 0 {
		s = s.Children[0]
		if hasOp(s, ops) {
			return s
		}
	}
	return nil
}

// searchConcatParent walks up a continuation chain to its head, stopping
// early at one of kinds or at a when/and/or joint.
func searchConcatParent(s *Segment, kinds ...Kind) *Segment {
	for ; s.Parent != nil; s = s.Parent {
		if !s.Concat() || s.Kind.is(kinds...) {
			return s
		}
		switch s.ConcatOp {
		case "when", "and", "or":
			return s
		}
	}
	return s
}

// inParameter reports whether the chain containing s sits in a parameter
// group rather than in its parent's children.
func inParameter(s *Segment) bool {
	s = searchConcatParent(s)
	return s.Parent != nil && !s.isChildOf(s.Parent)
}

// lastOperatorSegment returns the nearest segment on the current
// continuation chain joined by one of ops.
func lastOperatorSegment(s *Segment, ops ...string) *Segment {
	for ; s.Parent != nil && s.Concat(); s = s.Parent {
		if hasOp(s, ops) {
			return s
		}
	}
	return nil
}

// SegmentAt returns the innermost segment covering offset, or nil when the
// offset is inside a comment or outside every segment.
func SegmentAt(c *Context, offset int) *Segment {
	if c.InComment(offset) {
		return nil
	}
	return segmentAt(c.Top.Children, offset)
}

func segmentAt(segs []*Segment, offset int) *Segment {
	for _, s := range segs {
		starts := offset >= s.Offset || s.Concat() && offset >= s.ConcatIndex
		if !starts || offset > s.EndOffset {
			continue
		}
		inner := segmentAt(s.Children, offset)
		for _, group := range s.Params {
			if p := segmentAt(group, offset); p != nil {
				return p
			}
		}
		if inner != nil {
			return inner
		}
		return s
	}
	return nil
}

// VisibleVariables lists the variables in scope at s: exposing variables
// first, then the declarations of s and its ancestors, innermost first.
func (c *Context) VisibleVariables(s *Segment) []*types.Variable {
	var out []*types.Variable
	for _, k := range sortedKeys(c.availExposing) {
		out = append(out, c.availExposing[k])
	}
	for ; s != nil && s.Parent != nil; s = s.Parent {
		for _, k := range sortedKeys(s.Vars) {
			if _, ok := c.availExposing[k]; !ok {
				out = append(out, s.Vars[k])
			}
		}
	}
	return out
}

// BlockDepth counts the statement-level ancestors of s.
func BlockDepth(s *Segment) int {
	d := 0
	for ; s.Parent != nil; s = s.Parent {
		if !s.Concat() {
			d++
		}
	}
	return d
}

// BlockDepthAt is the block depth at the start of a 0-based line.
func (c *Context) BlockDepthAt(line int) int {
	off := c.Offset(line, 0)
	if off < 0 {
		return 0
	}
	s := SegmentAt(c, off)
	if s == nil {
		return 0
	}
	return BlockDepth(s)
}
