package analyzer

import (
	"strings"

	"github.com/robert-at-pretension-io/vhdp-lint/internal/types"
)

type position int

const (
	posBody position = iota
	posParameter
	posAfterParameter
)

// parser is the character-level state machine that builds the segment tree.
// It keeps a text buffer for the token being collected and the operator
// that will join the next segment to the current one.
type parser struct {
	ctx  *Context
	text string

	i         int
	ch, next  byte
	last      byte
	lastNoWS  byte
	cur       []byte
	curStart  int
	lastInner int
	seg       *Segment
	pos       position
	depth     int
	op        string
	opIndex   int
	inString  bool
	vhdl      bool
}

func newParser(ctx *Context) *parser {
	return &parser{
		ctx:       ctx,
		text:      ctx.Text,
		last:      '\n',
		lastNoWS:  '\n',
		lastInner: 1,
		seg:       ctx.Top,
	}
}

func (p *parser) setOp(op string) {
	p.op = op
	if op != "" {
		p.opIndex = p.i - len(op) + 1
	}
}

func (p *parser) concat() bool { return p.op != "" }

// offsetChar returns the character k positions from the current index, or
// a newline outside the text.
func (p *parser) offsetChar(k int) byte {
	k += p.i
	if k >= 0 && k < len(p.text) {
		return p.text[k]
	}
	return '\n'
}

// nextChars reports whether the text at the current index starts with s,
// ignoring case.
func (p *parser) nextChars(s string) bool {
	if p.i+len(s) <= len(p.text) {
		return strings.EqualFold(p.text[p.i:p.i+len(s)], s)
	}
	return false
}

func (p *parser) current() string { return string(p.cur) }

func (p *parser) currentEmpty() bool { return strings.TrimSpace(string(p.cur)) == "" }

func (p *parser) appendCurrent() {
	if len(p.cur) == 0 {
		if p.ch == ' ' {
			return
		}
		p.curStart = p.i
	}
	if p.ch != ' ' {
		p.lastInner = p.i
	}
	p.cur = append(p.cur, p.ch)
}

// trimWord drops the last n bytes of the buffer.
func (p *parser) trimWord(n int) {
	if n > len(p.cur) {
		n = len(p.cur)
	}
	p.cur = p.cur[:len(p.cur)-n]
}

func (p *parser) skip(n int) { p.i += n }

// pushSegment turns the buffer into a segment under the current one and
// makes it current.
func (p *parser) pushSegment() {
	value := strings.TrimSpace(p.current())
	parameter := p.pos == posParameter && !p.concat()

	kind, dt := p.classify(&value, p.concat() || parameter)

	offset := p.curStart
	if value == "" {
		offset = p.i - 1
	}
	s := newSegment(p.ctx, p.seg, value, kind, dt, offset, p.op, p.opIndex)
	words := strings.Fields(value)
	last := ""
	if len(words) > 0 {
		last = words[len(words)-1]
	}

	switch {
	case kind == Unknown && (p.ch != ':' || p.next == '='),
		kind == DataVariable && dt == types.Unknown:
		p.ctx.unresolvedSegments = append(p.ctx.unresolvedSegments, s)
	case kind == TypeUsage && dt == types.Unknown:
		p.ctx.unresolvedTypes = append(p.ctx.unresolvedTypes, s)
	case kind == Vhdl:
		p.vhdl = true
	case kind == Main:
		stem := strings.ToLower(p.ctx.Stem())
		s.Name = "Component " + stem
		p.ctx.addLocalComponent(stem, s)
	case kind == Component:
		p.ctx.addLocalComponent(strings.ToLower(last), s)
	case kind == Package:
		p.ctx.addLocalPackage(strings.ToLower(last), s)
	case kind == NewComponent:
		p.ctx.unresolvedComponents = append(p.ctx.unresolvedComponents, s)
	case kind == NewFunction:
		p.ctx.unresolvedSeqFunctions = append(p.ctx.unresolvedSeqFunctions, s)
	case kind == Function && last != "":
		p.ctx.addLocalFunction(strings.ToLower(last), s, types.NewFunction(last))
	case kind == SeqFunction && last != "":
		key := strings.ToLower(last)
		if _, ok := p.ctx.availSeqFuncs[key]; !ok {
			p.ctx.addLocalSeqFunction(key, newSeqFunction(s, last))
		}
	}

	p.cur = p.cur[:0]
	p.op = ""

	if kind == VhdlEnd {
		if p.seg.Kind.is(Begin, Then) {
			p.popBlock()
		}
		p.popSegment()
		if p.seg.Kind == While && strings.EqualFold(value, "loop") {
			p.popSegment()
		}
		s = newSegment(p.ctx, p.seg, "end "+value, kind, dt, s.Offset, "", 0)
	}

	if parameter {
		if len(p.seg.Params) == 0 {
			p.seg.Params = append(p.seg.Params, nil)
		}
		g := len(p.seg.Params) - 1
		p.seg.Params[g] = append(p.seg.Params[g], s)
	} else {
		p.seg.Children = append(p.seg.Children, s)
	}
	p.seg = s
}

// popTempBlocks leaves every continuation segment on the current chain.
func (p *parser) popTempBlocks() {
	for p.seg.Parent != nil && p.seg.Concat() {
		p.popBlock()
	}
}

func (p *parser) popBlock() bool {
	if p.seg.Parent == nil {
		return false
	}
	p.seg.EndOffset = p.i
	p.seg = p.seg.Parent
	return true
}

func (p *parser) popSegment() {
	if !p.currentEmpty() && p.seg.Kind != Connections {
		p.ctx.report(PhaseParse, SeverityWarning, p.curStart, p.lastInner, "Unexpected input")
	}
	p.popTempBlocks()
	if !p.popBlock() {
		p.ctx.report(PhaseParse, SeverityError, p.curStart, p.lastInner, "Unexpected end")
	}
	p.cur = p.cur[:0]
}

func (p *parser) newLine() {
	p.ctx.LineOffsets = append(p.ctx.LineOffsets, p.i+1)
}
