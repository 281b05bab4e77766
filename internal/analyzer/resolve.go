package analyzer

import (
	"strings"

	"github.com/robert-at-pretension-io/vhdp-lint/internal/types"
)

// resolve drains the unresolved work-lists. Each list is scanned until a
// scan resolves nothing, and the lists are revisited as a group until none
// of them makes progress.
func (c *Context) resolve() {
	c.ResolveIncludes()
	for {
		progress := drain(&c.unresolvedTypes, c.resolveType)
		progress = drain(&c.unresolvedSeqFunctions, c.resolveSeqFunction) || progress
		progress = drain(&c.unresolvedComponents, c.resolveComponent) || progress
		progress = drain(&c.unresolvedSegments, c.resolveSegment) || progress
		if !progress {
			return
		}
	}
}

// drain removes every entry fn resolves, repeating full passes until one
// removes nothing. It reports whether any entry was removed.
func drain(queue *[]*Segment, fn func(*Segment) bool) bool {
	removedAny := false
	for {
		kept := (*queue)[:0]
		removed := false
		for _, s := range *queue {
			if fn(s) {
				removed = true
				continue
			}
			kept = append(kept, s)
		}
		for i := len(kept); i < len(*queue); i++ {
			(*queue)[i] = nil
		}
		*queue = kept
		if !removed {
			return removedAny
		}
		removedAny = true
	}
}

func (c *Context) resolveType(s *Segment) bool {
	if s.ConcatOp == "return" {
		t, ok := c.availTypes[strings.ToLower(s.LastName())]
		if !ok {
			return false
		}
		if owner := c.variableOwner(s, types.KindVariable); owner.seg != nil && owner.seg.Kind == Function {
			if f := c.declared[owner.seg]; f != nil {
				f.Return = t
			}
		}
		return true
	}

	t, ok := c.availTypes[strings.ToLower(s.Name)]
	if !ok {
		return false
	}
	s.Type = t
	s.Kind = TypeUsage

	if p := s.Parent; p != nil && p.Kind == SubType {
		if alias := strings.ToLower(p.LastName()); alias != "" {
			c.addLocalType(alias, t)
		}
	}
	if arr := s.Parent; arr != nil && arr.Kind == Array && arr.Parent != nil {
		if at, ok := c.availTypes[strings.ToLower(arr.Parent.LastName())]; ok && at.Class == types.Array {
			at.Element = t
		}
	}

	// Propagate to every name of "a, b : T".
	parent := s.Parent
	var names []string
	if s.ConcatOp == ":" || types.IsDirection(s.ConcatOp) {
		if parent != nil && parent.ConcatOp == ":" {
			parent = parent.Parent
		}
		for parent != nil {
			parent.Type = t
			names = append(names, strings.ToLower(parent.LastName()))
			if parent.ConcatOp != "," {
				break
			}
			parent = parent.Parent
		}
	}
	if parent == nil || parent.Name == "" {
		return true
	}

	varName := parent.LastName()
	owner := c.variableOwner(s, varKindOf(parent.Name))
	vars := owner.vars()
	for _, n := range names {
		if v, ok := vars[n]; ok {
			v.Type = parent.Type
		}
	}

	if owner.seg == nil {
		return true
	}
	switch owner.seg.Kind {
	case SeqFunction:
		if sf := searchSeqFunction(s, owner.seg.LastName()); sf != nil {
			if _, p := sf.param(varName); p != nil {
				if v, ok := sf.exposing[strings.ToLower(p.Name)]; ok {
					v.Type = parent.Type
				}
				p.Type = parent.Type
			}
		}
	case Function:
		if f := c.declared[owner.seg]; f != nil {
			for _, p := range f.Params {
				if strings.EqualFold(p.Name, varName) {
					p.Type = parent.Type
				}
			}
		}
	}
	return true
}

func (c *Context) resolveSegment(s *Segment) bool {
	var v *types.Variable
	if s.ConcatOp == "." {
		v = searchVariableInRecord(s)
	} else {
		v = searchVariable(s, s.Name)
	}
	if v == nil {
		v = c.availExposing[strings.ToLower(s.Name)]
	}
	if v != nil {
		s.Type = v.Type
		if s.Kind == Unknown {
			s.Kind = DataVariable
		}
		return true
	}

	if f := searchFunction(s, s.Name); f != nil {
		s.Kind = VhdlFunction
		s.Type = f.Return
		return true
	}

	if e := searchEnum(c, s.Name); e != nil {
		s.Kind = DataVariable
		s.Type = e
		return true
	}
	return false
}

// resolveComponent binds "NewComponent x" to the component x and types the
// port map members.
func (c *Context) resolveComponent(s *Segment) bool {
	w := s.words()
	if len(w) != 2 {
		return false
	}
	comp, ok := c.availComps[strings.ToLower(w[1])]
	if !ok {
		return false
	}
	if len(s.Params) > 0 {
		for _, m := range s.Params[0] {
			if v, ok := comp.Vars[strings.ToLower(m.Name)]; ok {
				m.Type = v.Type
			}
		}
	}
	return true
}

// resolveSeqFunction inlines "NewFunction f (args)": each identifier
// argument is declared at the call site with the type of its parameter,
// and the variables f exposes become visible there.
func (c *Context) resolveSeqFunction(s *Segment) bool {
	w := s.words()
	if len(w) != 2 {
		return false
	}
	sf := searchSeqFunction(s, w[1])
	if sf == nil {
		return false
	}

	arg := s.firstArg()
	for _, p := range sf.Params {
		if arg == nil {
			break
		}
		if isIdentifier(arg.Name) {
			kind := types.KindSignal
			if v, ok := sf.Owner.Vars[strings.ToLower(p.Name)]; ok {
				kind = v.Kind
			}
			arg.Type = p.Type
			arg.Kind = VariableDeclaration
			owner := c.variableOwner(s, kind)
			v := &types.Variable{Name: arg.Name, Type: p.Type, Kind: kind, Offset: arg.Offset, Owner: owner.String()}
			c.declareAt(owner, arg, v)
		}
		arg = searchNextOperatorChild(arg, ",")
	}

	for _, v := range sf.Exposing() {
		owner := c.variableOwner(s, v.Kind)
		if prev, ok := owner.vars()[strings.ToLower(v.Name)]; ok && prev == v {
			continue
		}
		c.declareAt(owner, s, v)
	}
	return true
}

// declareAt adds v to owner unless the name is taken, in which case the
// collision is reported on at.
func (c *Context) declareAt(owner declOwner, at *Segment, v *types.Variable) {
	vars := owner.vars()
	key := strings.ToLower(v.Name)
	if _, ok := vars[key]; ok {
		c.reportAt(PhaseResolve, SeverityError, at, "%s already defined in %s", v.Name, owner)
		return
	}
	vars[key] = v
}

func isIdentifier(name string) bool {
	if name == "" || !isWordLetter(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isWordLetter(name[i]) && (name[i] < '0' || name[i] > '9') {
			return false
		}
	}
	return true
}
