package analyzer

import (
	"strings"

	"github.com/robert-at-pretension-io/vhdp-lint/internal/types"
)

const validStdLogic = "UX01ZWLH-"

var wordOperators = []string{
	"and", "or", "nand", "nor", "xor", "xnor", "mod", "not",
	"abs", "rem", "sll", "srl", "sla", "sra", "rol", "ror",
}

// Parse segments text into a fresh context. It never fails; malformed input
// produces parse diagnostics and a tree with every scope closed.
func Parse(path, text string) *Context {
	ctx := NewContext(path, text)
	p := newParser(ctx)

	var (
		preProcessor bool
		lineComment  bool
		lineStart    int
		blockComment bool
		blockStart   int
	)

	for p.i = 0; p.i < len(text); p.i++ {
		p.ch = text[p.i]
		p.next = ' '
		if p.i < len(text)-1 {
			p.next = text[p.i+1]
		}
		if p.ch == '\r' && p.next == '\n' {
			continue
		}
		if p.ch == '\t' || p.ch == '\r' || p.ch == '\f' || p.ch == '\v' {
			p.ch = ' '
		}
		if (p.last == ' ' || p.last == '\n') && p.ch == ' ' {
			continue
		}

		switch p.ch {
		case '\n':
			if lineComment {
				ctx.Comments = append(ctx.Comments, Comment{Start: lineStart, End: p.i - 1})
			}
			lineComment = false
			preProcessor = false
			p.newLine()
			p.inString = false
		case '-':
			if p.next == '-' && !lineComment && !blockComment && !p.inString {
				lineComment = true
				lineStart = p.i
			}
		case '/':
			if p.next == '*' && !blockComment && !lineComment && !p.inString {
				blockComment = true
				blockStart = p.i
			}
		case '#':
			if !p.inString && !lineComment && !blockComment {
				preProcessor = true
			}
		}

		if !lineComment && !blockComment && !preProcessor {
			if p.ch == '\n' {
				p.ch = ' '
			}
			p.parseChar()
		}

		if p.ch == '/' && p.last == '*' && blockComment && p.i > blockStart+1 {
			blockComment = false
			ctx.Comments = append(ctx.Comments, Comment{Start: blockStart, End: p.i + 1})
		}

		p.last = p.ch
		if !isSpace(p.ch) && !lineComment && !blockComment {
			p.lastNoWS = p.ch
		}
	}
	if lineComment {
		ctx.Comments = append(ctx.Comments, Comment{Start: lineStart, End: len(text) - 1})
	}

	if !p.currentEmpty() {
		p.pushSegment()
	}
	if p.seg.Parent != nil {
		start := 0
		if len(text) > 1 {
			start = len(text) - 2
		}
		ctx.report(PhaseParse, SeverityError, start, len(text)-1, "Unexpected end of file")
		for p.popBlock() {
		}
	}
	return ctx
}

func (p *parser) parseChar() {
	if p.vhdl && p.ch == '}' {
		p.vhdl = false
	}

	if p.inString {
		p.appendCurrent()
		if p.ch == '"' {
			p.inString = false
		}
		return
	}

	switch p.pos {
	case posBody:
		p.parseBody()
	case posParameter:
		p.parseParameter()
	case posAfterParameter:
		p.parseAfterParameter()
	}
}

func (p *parser) parseBody() {
	switch {
	case p.ch == '(':
		if p.lastNoWS != ')' {
			p.pushSegment()
		}
		p.pos = posParameter
	case p.ch == '{':
		p.pos = posBody
		if p.seg.Kind != Record {
			p.pushSegment()
		}
	case p.ch == '}':
		if !p.currentEmpty() {
			p.pushSegment()
			p.popSegment()
		}
		if p.concat() {
			p.op = ""
			p.popSegment()
		}
		p.popSegment()
	case p.ch == ';':
		if !p.currentEmpty() {
			p.pushSegment()
			p.popSegment()
		}
	case p.singleOperator():
		if !p.currentEmpty() || p.concat() {
			p.pushSegment()
		}
		p.setOp(string(p.ch))
	case p.doubleOperator():
		p.skip(1)
		if !p.currentEmpty() || p.concat() {
			p.pushSegment()
		}
		p.setOp(strings.ToLower(string([]byte{p.ch, p.next})))
	case p.ch == '"':
		p.inString = true
		p.appendCurrent()
	default:
		if p.ch != ' ' {
			if p.checkWordOperators() {
				return
			}
			if p.lastNoWS == ')' && !p.vhdl {
				p.setOp("{")
			}
		}
		p.checkKeywords()
		p.appendCurrent()
	}
}

func (p *parser) parseParameter() {
	switch {
	case p.ch == '(':
		if p.lastNoWS == ')' {
			if c := p.seg.lastChild(); c != nil {
				p.seg = c
			}
			p.seg.Params = append(p.seg.Params, nil)
		} else {
			p.pushSegment()
		}
		p.depth++
	case p.ch == ')':
		if !p.currentEmpty() {
			p.pushSegment()
		}
		p.op = ""
		if p.lastNoWS != ';' && p.lastNoWS != '(' {
			p.popSegment()
		}
		if p.depth == 0 {
			p.pos = posAfterParameter
		} else {
			p.depth--
		}
	case p.ch == ';':
		if !p.currentEmpty() || p.concat() {
			p.pushSegment()
			p.popSegment()
		}
		if p.lastNoWS == ')' {
			p.popSegment()
		}
	case p.singleOperator():
		if !p.currentEmpty() || p.concat() || p.lastNoWS == '(' {
			p.pushSegment()
		}
		p.setOp(string(p.ch))
	case p.doubleOperator():
		p.skip(1)
		if !p.currentEmpty() || p.concat() || p.lastNoWS == '(' {
			p.pushSegment()
		}
		p.setOp(string([]byte{p.ch, p.next}))
	case p.ch == '"':
		p.inString = true
		p.appendCurrent()
	default:
		if p.ch != ' ' {
			if p.checkWordOperators() {
				return
			}
			if p.lastNoWS == ')' {
				p.popSegment()
			}
		}
		p.checkKeywords()
		p.appendCurrent()
	}
}

func (p *parser) parseAfterParameter() {
	switch p.ch {
	case '{':
		if c := p.seg.lastChild(); c != nil {
			p.seg = c
		}
		p.pos = posBody
	case '(':
		p.pos = posBody
		if p.lastNoWS == ')' {
			if c := p.seg.lastChild(); c != nil {
				p.seg = c
			}
			p.seg.Params = append(p.seg.Params, nil)
			p.parseChar()
		}
	case ' ':
	case ';':
		p.pos = posBody
		p.popSegment()
	default:
		p.pos = posBody
		p.parseChar()
	}
}

// singleOperator reports whether the current character is a one-character
// operator in this position.
func (p *parser) singleOperator() bool {
	switch p.ch {
	case '+', '.', ',', '|', '&':
		return true
	case '-':
		return p.next != '\''
	case '/', ':':
		return p.next != '='
	case '*':
		return p.next != '*'
	case '=':
		return p.next != '>'
	case '<':
		return p.next != '=' && p.next != '>'
	case '>':
		return p.next != '=' && p.last != '<'
	case '\'':
		literal := p.offsetChar(2) == '\'' && strings.IndexByte(validStdLogic, p.next) >= 0
		return !literal && p.offsetChar(-2) != '\''
	}
	return false
}

// doubleOperator reports whether the current and next character form one of
// := <= >= ** => /=.
func (p *parser) doubleOperator() bool {
	switch p.ch {
	case ':', '<', '>', '/':
		return p.next == '='
	case '*':
		return p.next == '*'
	case '=':
		return p.next == '>'
	}
	return false
}

func (p *parser) checkWordOperators() bool {
	if isWordLetter(p.last) {
		return false
	}
	for _, op := range wordOperators {
		if p.checkStringOperator(op) {
			return true
		}
	}
	for _, op := range []string{"is", "of", "downto"} {
		if p.checkStringOperator(op) {
			return true
		}
	}
	if lastOperatorSegment(p.seg, ":=", "<=") == nil {
		return false
	}
	return p.checkStringOperator("when") || p.checkStringOperator("else")
}

func (p *parser) checkStringOperator(op string) bool {
	if isWordLetter(p.offsetChar(len(op))) {
		return false
	}
	if !p.nextChars(op) {
		return false
	}
	p.skip(len(op) - 1)
	if !p.currentEmpty() || p.lastNoWS == '(' || p.concat() {
		p.pushSegment()
	}
	if !(p.vhdl && op == "is" && p.seg.Kind == Case) {
		p.setOp(op)
	}
	return true
}

// checkKeywords splits the buffer at keywords that end a token without an
// operator character, e.g. "0 to 7" or "a : in STD_LOGIC".
func (p *parser) checkKeywords() {
	if p.ch != ' ' && p.ch != '(' {
		return
	}
	current := p.current()
	words := strings.Split(current, " ")
	lastWord := strings.ToLower(words[len(words)-1])
	if lastWord == "" {
		return
	}

	split := lastWord == "to" || lastWord == "end" ||
		lastWord == "when" && searchConcatParent(p.seg, Case).Kind != Case ||
		lastWord == "else" && (p.op == "when" || p.seg.ConcatOp == "when") ||
		types.IsDirection(lastWord)
	if split {
		p.trimWord(len(lastWord))
		p.lastInner = p.curStart + len(current) - len(lastWord) - 1
		p.pushSegment()
		if lastWord == "end" {
			p.popSegment()
		}
		p.curStart = p.i - len(lastWord)
		p.setOp(lastWord)
	}

	if lastWord == "select" {
		p.trimWord(len(lastWord))
		p.lastInner = p.curStart + len(current) - len(lastWord) - 1
		if len(words) > 1 || p.concat() {
			p.pushSegment()
		}
		p.curStart = p.i - len(lastWord)
		p.setOp(lastWord)
	}

	if !p.vhdl {
		if p.op == "is" && lastWord == "record" {
			p.pushSegment()
		}
		return
	}
	switch lastWord {
	case "then", "begin", "is", "generate", "loop":
		p.trimWord(len(lastWord))
		p.lastInner = p.curStart + len(current) - len(lastWord) - 1
		if len(words) > 1 || p.concat() {
			p.pushSegment()
		}
		p.curStart = p.i - len(lastWord)
	case "elsif":
		if p.seg.Kind == Then {
			p.popBlock()
		}
		p.popTempBlocks()
		p.popBlock()
	case "else":
		if p.seg.Kind == Then {
			p.popBlock()
		}
		p.popTempBlocks()
		p.popBlock()
		p.pushSegment()
	}
}

func isWordLetter(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r' || c == '\f' || c == '\v'
}

func isAllDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
