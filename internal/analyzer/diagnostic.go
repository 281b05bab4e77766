package analyzer

import (
	"fmt"
)

// Severity of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityHint:
		return "hint"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Phase records which analysis step produced a diagnostic. Rerunning a phase
// discards only the diagnostics it produced earlier.
type Phase int

const (
	PhaseParse Phase = iota
	PhaseResolve
	PhaseCheck

	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseParse:
		return "parse"
	case PhaseResolve:
		return "resolve"
	case PhaseCheck:
		return "check"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Position is a 0-based line and column.
type Position struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

type Diagnostic struct {
	Severity    Severity `json:"severity"`
	Message     string   `json:"message"`
	Phase       Phase    `json:"phase"`
	Start       Position `json:"start"`
	End         Position `json:"end"`
	StartOffset int      `json:"startOffset"`
	EndOffset   int      `json:"endOffset"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Start.Line+1, d.Start.Col+1, d.Severity, d.Message)
}

func (c *Context) report(phase Phase, sev Severity, start, end int, format string, args ...any) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	c.diags[phase] = append(c.diags[phase], Diagnostic{
		Severity:    sev,
		Message:     msg,
		Phase:       phase,
		Start:       c.Position(start),
		End:         c.Position(end),
		StartOffset: start,
		EndOffset:   end,
	})
}

func (c *Context) reportAt(phase Phase, sev Severity, s *Segment, format string, args ...any) {
	c.report(phase, sev, s.Offset, s.End(), format, args...)
}

// Diagnostics returns parse, resolve and check findings in that order.
func (c *Context) Diagnostics() []Diagnostic {
	var out []Diagnostic
	for _, d := range c.diags {
		out = append(out, d...)
	}
	return out
}

func (c *Context) clearDiagnostics(p Phase) { c.diags[p] = nil }
