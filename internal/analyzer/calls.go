package analyzer

import (
	"github.com/robert-at-pretension-io/vhdp-lint/internal/types"
)

// callee finds the parameter list a call segment is checked against:
// a builtin, then a function overload, then a sequential function.
func callee(fn *Segment) ParameterOwner {
	name := fn.LastName()
	if b, ok := types.LookupBuiltin(name); ok {
		return b
	}
	if f := searchFunction(fn, name); f != nil {
		return f
	}
	if sf := searchSeqFunction(fn, name); sf != nil {
		return sf
	}
	return nil
}

// checkCall compares the arguments of fn with the callee's parameters by
// position.
func (c *Context) checkCall(fn *Segment) {
	owner := callee(fn)
	if owner == nil {
		return
	}
	params := owner.Parameters()

	i := 0
	for arg := fn.firstArg(); arg != nil; i++ {
		if i >= len(params) {
			c.reportAt(PhaseCheck, SeverityWarning, arg, "More parameters provided than expected")
			break
		}
		if want := params[i].Type; want != nil && want != types.Unknown {
			got, _ := childOperatorType(arg)
			if got != types.Unknown && !types.Compatible(got, want, "=") {
				c.reportAt(PhaseCheck, SeverityError, arg, "Invalid Parameter of type %s. Expected %s", got, want)
			}
		}
		arg = searchNextOperatorChild(arg, ",")
	}
	if len(params) > i {
		c.reportAt(PhaseCheck, SeverityWarning, fn, "Less parameters provided than expected")
	}
}

func isCall(s *Segment) bool {
	return s.Kind.is(VhdlFunction, NewFunction, CustomBuiltinFunction) && len(s.Params) > 0
}
