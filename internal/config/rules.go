package config

import "strings"

// Rule ids. Diagnostics carry plain messages; the id is derived from the
// message so that configuration can switch findings off or change their
// severity.
const (
	RuleParse                = "parse"
	RuleDuplicateDeclaration = "duplicate-declaration"
	RuleMissingIODirection   = "missing-io-direction"
	RuleUndefinedVariable    = "undefined-variable"
	RuleUndefinedComponent   = "undefined-component"
	RuleUndefinedSeqFunction = "undefined-seqfunction"
	RuleUndefinedType        = "undefined-type"
	RuleTypeMismatch         = "type-mismatch"
	RuleOperatorDirection    = "operator-direction"
	RuleMultipleDrivers      = "multiple-drivers"
	RuleInvalidSegment       = "invalid-segment"
	RuleCallArity            = "call-arity"
	RuleCallType             = "call-type"
	PolicyRulePrefix         = "policy:"
)

var rulePrefixes = []struct {
	prefix string
	rule   string
}{
	{"Undefined Variable", RuleUndefinedVariable},
	{"Undefined Component", RuleUndefinedComponent},
	{"Undefined SeqFunction", RuleUndefinedSeqFunction},
	{"Undefined Type", RuleUndefinedType},
	{"Cannot ", RuleTypeMismatch},
	{"Multiple constant drivers", RuleMultipleDrivers},
	{"Invalid Operator", RuleOperatorDirection},
	{"Invalid Parameter Segment", RuleInvalidSegment},
	{"Invalid Segment", RuleInvalidSegment},
	{"Invalid Parameter of type", RuleCallType},
	{"More parameters", RuleCallArity},
	{"Less parameters", RuleCallArity},
	{"I/O Type missing", RuleMissingIODirection},
}

// RuleForMessage maps an analyzer message to its rule id. Messages that
// match no rule are structural parse findings.
func RuleForMessage(msg string) string {
	for _, p := range rulePrefixes {
		if strings.HasPrefix(msg, p.prefix) {
			return p.rule
		}
	}
	if strings.Contains(msg, " already defined in ") {
		return RuleDuplicateDeclaration
	}
	return RuleParse
}

// Severities accepted in lint.rules.
var Severities = []string{"off", "hint", "warning", "error"}

// ValidSeverity reports whether s is one of Severities.
func ValidSeverity(s string) bool {
	for _, v := range Severities {
		if v == s {
			return true
		}
	}
	return false
}
