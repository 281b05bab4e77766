package analyzer

// pairFunc receives one (parent, child) edge of the tree. param is set for
// members of a parameter group; thread is set below a Thread or
// SeqFunction.
type pairFunc func(parent, child *Segment, param, thread bool)

// crawl visits every edge below s exactly once, parameter groups before
// children. Generate parameters and raw VHDL bodies are not entered.
func crawl(s *Segment, thread bool, visit pairFunc) {
	if s.Kind != Generate {
		for _, group := range s.Params {
			for _, p := range group {
				visit(s, p, true, thread)
				crawl(p, thread, visit)
			}
		}
	}
	if s.Kind == Vhdl {
		return
	}
	inner := thread || s.Kind.is(Thread, SeqFunction)
	for _, child := range s.Children {
		visit(s, child, false, inner)
		crawl(child, inner, visit)
	}
}

// Walk calls fn for every edge of the tree below c.Top.
func (c *Context) Walk(fn func(parent, child *Segment, param, thread bool)) {
	crawl(c.Top, false, fn)
}

func (c *Context) check() {
	for _, s := range c.unresolvedSegments {
		c.reportAt(PhaseCheck, SeverityError, s, "Undefined Variable %s", s.Name)
	}
	for _, s := range c.unresolvedComponents {
		c.reportAt(PhaseCheck, SeverityError, s, "Undefined Component %s", s.LastName())
	}
	for _, s := range c.unresolvedSeqFunctions {
		c.reportAt(PhaseCheck, SeverityError, s, "Undefined SeqFunction %s", s.LastName())
	}
	for _, s := range c.unresolvedTypes {
		c.reportAt(PhaseCheck, SeverityWarning, s, "Undefined Type %s", s.LastName())
	}

	d := make(drivers)
	crawl(c.Top, false, func(parent, child *Segment, param, thread bool) {
		c.checkStructure(parent, child, param, thread)
		c.checkOperator(parent, child, d)
		c.checkTypePair(parent, child)
		if isCall(child) {
			c.checkCall(child)
		}
	})
}
