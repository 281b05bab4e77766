package analyzer

import (
	"github.com/robert-at-pretension-io/vhdp-lint/internal/types"
)

// drivers maps each driven signal to the scope that first assigned it.
type drivers map[*types.Variable]*Segment

func (c *Context) reportOp(child *Segment, format string, args ...any) {
	start := child.ConcatIndex
	c.report(PhaseCheck, SeverityError, start, start+len(child.ConcatOp), format, args...)
}

// checkOperator enforces the assignment forms: signals and ports take <=,
// variables take :=, inputs cannot be driven, outputs cannot be read, and a
// signal has one driving process.
func (c *Context) checkOperator(parent, child *Segment, d drivers) {
	switch child.ConcatOp {
	case "=":
		head := searchConcatParent(parent)
		if !head.Kind.is(DataVariable, VariableDeclaration) {
			return
		}
		if v := searchVariable(head, head.Name); v != nil && v.Kind == types.KindIo && v.Direction == types.Out {
			c.reportOp(child, "Invalid Operator '=' for %s %s. Cannot read from Output, use Buffer instead", v.Direction, parent)
		}

	case ":=":
		head := searchConcatParent(parent)
		if head.Kind != DataVariable {
			return
		}
		v := searchVariable(head, head.Name)
		if v == nil {
			return
		}
		switch v.Kind {
		case types.KindIo, types.KindSignal, types.KindRecordMember:
			c.reportOp(child, "Invalid Operator := for %s %s. Use <= instead", v.Kind, parent)
		}

	case "<=":
		if inParameter(parent) {
			return
		}
		head := searchConcatParent(parent)
		if !head.Kind.is(DataVariable, VariableDeclaration) {
			return
		}
		switch head.ConcatOp {
		case "and", "or", "when":
			return
		}
		v := searchVariable(head, head.Name)
		if v == nil {
			return
		}
		switch {
		case v.Kind != types.KindIo && v.Kind != types.KindSignal && v.Kind != types.KindUnknown:
			c.reportOp(child, "Invalid Operator <= for %s %s. Use := instead", v.Kind, parent)
		case v.Kind == types.KindIo && v.Direction == types.In:
			c.reportOp(child, "Invalid Operator <= for %s %s. Cannot assign a value to an input", v.Kind, parent)
		}

		if v.Kind != types.KindSignal && v.Kind != types.KindIo || v.Type.Class == types.Record || len(head.Params) > 0 {
			return
		}
		scope := searchTopSegment(parent, Process, Main, Component, Generate)
		if scope == nil {
			return
		}
		prev, ok := d[v]
		if !ok {
			d[v] = scope
			return
		}
		if (prev != scope || scope.Kind != Process) && searchTopSegment(parent, Generate) == nil {
			c.reportOp(child, "Multiple constant drivers for %s. You can only drive a signal from one process", parent)
		}
	}
}
