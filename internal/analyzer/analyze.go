package analyzer

import (
	"strings"

	"github.com/robert-at-pretension-io/vhdp-lint/internal/types"
)

// Mode selects the phases after parsing. Parsing (Indexing) always runs.
type Mode uint8

const (
	Indexing Mode = 0
	Resolve  Mode = 1
	Check    Mode = 2

	Full = Resolve | Check
)

func (m Mode) Has(f Mode) bool { return m&f != 0 }

func (m Mode) String() string {
	parts := []string{"indexing"}
	if m.Has(Resolve) {
		parts = append(parts, "resolve")
	}
	if m.Has(Check) {
		parts = append(parts, "check")
	}
	return strings.Join(parts, "|")
}

// Analyze parses text and runs the phases in mode. Declarations of the
// files in pc become visible before resolution.
func Analyze(path, text string, mode Mode, pc *ProjectContext) *Context {
	return Reanalyze(Parse(path, text), mode, pc)
}

// Reanalyze runs the phases in mode on an already parsed context. Only the
// diagnostics of the phases being rerun are discarded.
func Reanalyze(c *Context, mode Mode, pc *ProjectContext) *Context {
	if pc != nil {
		c.AddProjectContext(pc)
	}
	if mode.Has(Resolve) || mode.Has(Check) {
		c.clearDiagnostics(PhaseCheck)
	}
	if mode.Has(Resolve) {
		c.clearDiagnostics(PhaseResolve)
		c.resolve()
	}
	if mode.Has(Check) {
		c.check()
	}
	return c
}

// ExternalPort describes one port of a component defined outside VHDP, such as a
// VHDL entity.
type ExternalPort struct {
	Name      string
	Direction types.Direction
	Type      string
}

// NewExternalContext builds a context that declares a single component
// with the given ports, so VHDP files can instantiate entities written in
// plain VHDL.
func NewExternalContext(path, entity string, ports []ExternalPort) *Context {
	c := NewContext(path, "")
	c.AddExternalComponent(entity, 0, ports)
	return c
}

// NewForeignContext wraps a non-VHDP source file. Only its line table is
// computed; declarations are added with AddExternalComponent.
func NewForeignContext(path, text string) *Context {
	c := NewContext(path, text)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			c.LineOffsets = append(c.LineOffsets, i+1)
		}
	}
	return c
}

// AddExternalComponent declares entity at offset with the given ports.
func (c *Context) AddExternalComponent(entity string, offset int, ports []ExternalPort) *Segment {
	s := newSegment(c, c.Top, "Component "+entity, Component, types.Unknown, offset, "", 0)
	c.Top.Children = append(c.Top.Children, s)
	for _, p := range ports {
		s.addVar(&types.Variable{
			Name:      p.Name,
			Type:      c.declaredType(p.Type),
			Kind:      types.KindIo,
			Direction: p.Direction,
			Owner:     s.Name,
			Offset:    offset,
		})
	}
	c.addLocalComponent(strings.ToLower(entity), s)
	return s
}
