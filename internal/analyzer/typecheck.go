package analyzer

import (
	"github.com/robert-at-pretension-io/vhdp-lint/internal/types"
)

// Operators that join segments without imposing a type relation.
var untypedOps = map[string]bool{
	"": true, "when": true, "is": true, "else": true, ",": true, "and": true,
	".": true, ":": true, "or": true, "of": true, "not": true,
}

func isComparison(op string) bool {
	switch op {
	case "=", "<", ">", ">=", "<=", "/=":
		return true
	}
	return false
}

func isArithmetic(op string) bool {
	switch op {
	case "-", "+", "*", "/", "**", "mod", "&":
		return true
	}
	return false
}

func operation(op string) string {
	switch op {
	case "&":
		return "concat"
	case "or", "and", "=", "/=", ">=", ">", "<":
		return "compare"
	}
	return "assign"
}

// checkTypePair checks that the value joined to parent by child's operator
// is compatible with the parent's type.
func (c *Context) checkTypePair(parent, child *Segment) {
	op := child.ConcatOp
	if untypedOps[op] {
		return
	}
	from, expr := childOperatorType(child)
	if from == types.Others || from == types.Unknown || parent.Type == types.Unknown || parent.Type == types.Others {
		return
	}
	to := effectiveType(parent)

	// "if a = 3" compares two integers; the result is a condition.
	if !inParameter(expr) && parent.Parent != nil && isComparison(parent.ConcatOp) &&
		parent.Type == types.Integer &&
		(parent.Parent.Type == types.Integer || parent.Parent.Type == types.Unknown) &&
		!isArithmetic(expr.ConcatOp) {
		to = types.Boolean
	}

	if !types.Compatible(from, to, op) {
		c.reportAt(PhaseCheck, SeverityWarning, expr, "Cannot %s %s to %s", operation(op), from, to)
	}
}

// recordChild follows "a.b.c" to the last field access.
func recordChild(s *Segment) *Segment {
	for len(s.Children) > 0 && s.Children[0].ConcatOp == "." {
		s = s.Children[0]
	}
	return s
}

// childOperatorType computes the type of the expression headed by s, taking
// the first operator applied to it into account. The returned segment is
// the one the type belongs to.
func childOperatorType(s *Segment) (*types.DataType, *Segment) {
	s = recordChild(s)
	sD := effectiveType(s)
	if len(s.Children) == 0 {
		return sD, s
	}
	child := s.Children[0]
	cD := effectiveType(child)
	if child.ConcatOp == "-" {
		cD = types.Integer
	}

	bitOr := func(t, a, b *types.DataType) bool { return t == a || t == b }
	switch child.ConcatOp {
	case "<", ">", "=", "/=":
		if !isArithmetic(s.ConcatOp) {
			return types.Boolean, s
		}
	case "&":
		if bitOr(cD, types.StdLogicVector, types.StdLogic) && bitOr(sD, types.StdLogicVector, types.StdLogic) {
			return types.StdLogicVector, s
		}
		if bitOr(cD, types.Unsigned, types.StdLogic) && bitOr(sD, types.Unsigned, types.StdLogic) {
			return types.Unsigned, s
		}
		if bitOr(cD, types.BitVector, types.Bit) && bitOr(sD, types.BitVector, types.Bit) {
			return types.BitVector, s
		}
	case "'":
		if types.IsVector(sD) {
			return types.Integer, s
		}
	}
	return sD, s
}

// effectiveType is the type of s after applying its parameter groups:
// indexing narrows vectors and arrays to their element, a call yields the
// function's return type, and a bare parenthesized expression takes the
// type of its content.
func effectiveType(s *Segment) *types.DataType {
	t := s.Type
	for i := range s.Params {
		t = convertParameter(s, t, i)
	}
	if s.Kind == EmptyName && t == types.Unknown && len(s.Params) == 1 {
		if arg := s.firstArg(); arg != nil && searchNextOperatorChild(arg, ",") == nil {
			t, _ = childOperatorType(arg)
		}
	}
	return t
}

func convertParameter(s *Segment, t *types.DataType, i int) *types.DataType {
	group := s.Params[i]
	if s.Kind.is(VhdlFunction, Function) {
		if f := searchFunction(s, s.Name); f != nil {
			return f.Return
		}
		return t
	}
	if len(group) > 0 && searchOperatorChild(group[0], "downto", "to") != nil {
		return t
	}
	switch {
	case types.IsVector(t):
		return types.StdLogic
	case t == types.BitVector:
		return types.Bit
	case t.Class == types.Array:
		return t.Element
	}
	return t
}
