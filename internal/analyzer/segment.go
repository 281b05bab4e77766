package analyzer

import (
	"strings"

	"github.com/robert-at-pretension-io/vhdp-lint/internal/types"
)

// Segment is one node of the parse tree. A segment is either a child of its
// parent (statement position), a member of one of its parent's parameter
// groups, or a continuation of its parent joined by ConcatOp.
type Segment struct {
	Kind      Kind
	Type      *types.DataType
	Name      string
	Offset    int
	EndOffset int

	// ConcatOp is the operator joining this segment to its parent; empty
	// when the segment is not a continuation.
	ConcatOp    string
	ConcatIndex int

	Parent   *Segment
	Children []*Segment
	Params   [][]*Segment
	Vars     map[string]*types.Variable

	ctx *Context
}

func newSegment(ctx *Context, parent *Segment, name string, kind Kind, t *types.DataType, offset int, op string, opIndex int) *Segment {
	if t == nil {
		t = types.Unknown
	}
	return &Segment{
		Kind:        kind,
		Type:        t,
		Name:        name,
		Offset:      offset,
		ConcatOp:    op,
		ConcatIndex: opIndex,
		Parent:      parent,
		Vars:        make(map[string]*types.Variable),
		ctx:         ctx,
	}
}

func (s *Segment) String() string { return s.Name }

// Context returns the analysis context that owns the segment.
func (s *Segment) Context() *Context { return s.ctx }

// Concat reports whether the segment continues its parent.
func (s *Segment) Concat() bool { return s.ConcatOp != "" }

func (s *Segment) words() []string { return strings.Fields(s.Name) }

// LastName is the last word of the segment name, e.g. "uart" for
// "NewComponent uart".
func (s *Segment) LastName() string {
	w := s.words()
	if len(w) == 0 {
		return ""
	}
	return w[len(w)-1]
}

// End is the offset just past the segment name.
func (s *Segment) End() int { return s.Offset + len(s.Name) }

func (s *Segment) firstChild() *Segment {
	if len(s.Children) == 0 {
		return nil
	}
	return s.Children[0]
}

func (s *Segment) lastChild() *Segment {
	if len(s.Children) == 0 {
		return nil
	}
	return s.Children[len(s.Children)-1]
}

func (s *Segment) isChildOf(p *Segment) bool {
	for _, c := range p.Children {
		if c == s {
			return true
		}
	}
	return false
}

// firstArg is the first segment of the first parameter group.
func (s *Segment) firstArg() *Segment {
	if len(s.Params) == 0 || len(s.Params[0]) == 0 {
		return nil
	}
	return s.Params[0][0]
}

func (s *Segment) addVar(v *types.Variable) {
	s.Vars[strings.ToLower(v.Name)] = v
}
