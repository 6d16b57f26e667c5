package jsonpath

import (
	"fmt"
	"strconv"

	"github.com/agentflare-ai/go-jsonpatch/internal/stack"
)

// parserState is a context the parser is nested inside; the state stack is
// what makes parseQuoted context-sensitive (it reads the top of stack to
// learn which quote character closes the string it's scanning) rather than
// threading that choice through every call.
type parserState uint8

const (
	stateSingleQuoted parserState = iota
	stateDoubleQuoted
	stateBracketIndex
)

type parser struct {
	input  []rune
	pos    int
	line   int
	column int
	states *stack.Stack[parserState]
	chain  []Selector
}

func newParser(expr string) *parser {
	return &parser{input: []rune(expr), line: 1, column: 1, states: stack.New[parserState]()}
}

// Parse compiles expr into an Expr. expr must start with the root selector
// $, per the baseline grammar's mandatory first token.
func Parse(expr string) (*Expr, error) {
	if expr == "" {
		return nil, &ParseError{Message: "empty input", Line: 1, Column: 1}
	}
	p := newParser(expr)
	if err := p.parseRoot(); err != nil {
		return nil, err
	}
	for !p.atEnd() {
		if err := p.parseSegment(); err != nil {
			return nil, err
		}
	}
	return &Expr{raw: expr, chain: p.chain}, nil
}

func (p *parser) pushToken(s Selector) {
	p.chain = append(p.chain, s)
}

func (p *parser) parseRoot() error {
	p.skipWhitespace()
	if p.atEnd() {
		return p.errorf("unexpected end of input")
	}
	if p.peek() != '$' {
		return p.errorf("expected '$' at start of expression")
	}
	p.advance()
	p.pushToken(Selector{Kind: SelectorRoot})
	return nil
}

func (p *parser) parseSegment() error {
	p.skipWhitespace()
	if p.atEnd() {
		return nil
	}
	switch p.peek() {
	case '.':
		return p.parseDotSegment()
	case '[':
		return p.parseBracketSegment()
	default:
		return p.errorf("unexpected character %q", p.peek())
	}
}

func (p *parser) parseDotSegment() error {
	p.advance() // consume '.'
	if !p.atEnd() && p.peek() == '.' {
		p.advance() // consume second '.'
		p.pushToken(Selector{Kind: SelectorRecursiveDescent})
		return p.parseRecursiveTarget()
	}
	if !p.atEnd() && p.peek() == '*' {
		p.advance()
		p.pushToken(Selector{Kind: SelectorWildcard})
		return nil
	}
	name, err := p.parseBareName()
	if err != nil {
		return err
	}
	p.pushToken(Selector{Kind: SelectorIdentifier, Name: name})
	return nil
}

// parseRecursiveTarget consumes the name-or-bracket token that must follow
// "..", per the baseline grammar.
func (p *parser) parseRecursiveTarget() error {
	if p.atEnd() {
		return p.errorf("unexpected end of input after recursive descent")
	}
	if p.peek() == '[' {
		return p.parseBracketSegment()
	}
	name, err := p.parseBareName()
	if err != nil {
		return err
	}
	p.pushToken(Selector{Kind: SelectorIdentifier, Name: name})
	return nil
}

func (p *parser) parseBareName() (string, error) {
	start := p.pos
	for !p.atEnd() && isNameRune(p.peek()) {
		p.advance()
	}
	if p.pos == start {
		return "", p.errorf("expected an identifier")
	}
	return string(p.input[start:p.pos]), nil
}

func isNameRune(r rune) bool {
	return r == '_' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

func (p *parser) parseBracketSegment() error {
	p.advance() // consume '['
	if p.atEnd() {
		return p.errorf("unexpected end of input inside bracket selector")
	}
	switch p.peek() {
	case '\'':
		p.states.Push(stateSingleQuoted)
		name, err := p.parseQuoted()
		p.states.Pop()
		if err != nil {
			return err
		}
		p.pushToken(Selector{Kind: SelectorIdentifier, Name: name})
	case '"':
		p.states.Push(stateDoubleQuoted)
		name, err := p.parseQuoted()
		p.states.Pop()
		if err != nil {
			return err
		}
		p.pushToken(Selector{Kind: SelectorIdentifier, Name: name})
	default:
		p.states.Push(stateBracketIndex)
		idx, err := p.parseIndex()
		p.states.Pop()
		if err != nil {
			return err
		}
		p.pushToken(Selector{Kind: SelectorIndex, Index: idx})
	}
	if p.atEnd() || p.peek() != ']' {
		return p.errorf("expected ']' to close bracket selector")
	}
	p.advance()
	return nil
}

func (p *parser) parseIndex() (int, error) {
	start := p.pos
	for !p.atEnd() && p.peek() >= '0' && p.peek() <= '9' {
		p.advance()
	}
	if p.pos == start {
		return 0, p.errorf("expected an integer index")
	}
	n, err := strconv.Atoi(string(p.input[start:p.pos]))
	if err != nil {
		return 0, p.errorf("invalid integer index")
	}
	return n, nil
}

// parseQuoted reads the closing delimiter off the top of the state stack,
// so it can be shared between single- and double-quoted contexts.
func (p *parser) parseQuoted() (string, error) {
	st, _ := p.states.Peek()
	quote := rune('\'')
	if st == stateDoubleQuoted {
		quote = '"'
	}
	p.advance() // consume opening quote
	var out []rune
	for {
		if p.atEnd() {
			return "", p.errorf("unterminated quoted name")
		}
		c := p.peek()
		if c == quote {
			p.advance()
			return string(out), nil
		}
		if c != '\\' {
			out = append(out, c)
			p.advance()
			continue
		}
		p.advance()
		if p.atEnd() {
			return "", p.errorf("unexpected end of input in escape sequence")
		}
		r, err := p.parseEscape()
		if err != nil {
			return "", err
		}
		out = append(out, r)
	}
}

func (p *parser) parseEscape() (rune, error) {
	esc := p.peek()
	switch esc {
	case '\\', '\'', '"', '/':
		p.advance()
		return esc, nil
	case 'b':
		p.advance()
		return '\b', nil
	case 'f':
		p.advance()
		return '\f', nil
	case 'n':
		p.advance()
		return '\n', nil
	case 'r':
		p.advance()
		return '\r', nil
	case 't':
		p.advance()
		return '\t', nil
	case 'u':
		p.advance()
		return p.parseUnicodeEscape()
	default:
		return 0, p.errorf("invalid escape sequence '\\%c'", esc)
	}
}

// parseUnicodeEscape decodes \uXXXX, and when the first codepoint lands in
// the high-surrogate range 0xD800-0xDBFF, requires and decodes a following
// \uXXXX low surrogate, combining them per the standard UTF-16 formula.
func (p *parser) parseUnicodeEscape() (rune, error) {
	hi, err := p.readHex4()
	if err != nil {
		return 0, err
	}
	if hi < 0xD800 || hi > 0xDBFF {
		return rune(hi), nil
	}
	if p.atEnd() || p.peek() != '\\' {
		return 0, p.errorf("expected low surrogate escape")
	}
	p.advance()
	if p.atEnd() || p.peek() != 'u' {
		return 0, p.errorf("expected low surrogate escape")
	}
	p.advance()
	lo, err := p.readHex4()
	if err != nil {
		return 0, err
	}
	if lo < 0xDC00 || lo > 0xDFFF {
		return 0, p.errorf("invalid low surrogate")
	}
	return rune(0x10000 + ((hi & 0x3FF) << 10) + (lo & 0x3FF)), nil
}

func (p *parser) readHex4() (int, error) {
	if p.pos+4 > len(p.input) {
		return 0, p.errorf("incomplete unicode escape")
	}
	s := string(p.input[p.pos : p.pos+4])
	n, err := strconv.ParseInt(s, 16, 32)
	if err != nil {
		return 0, p.errorf("invalid unicode escape %q", s)
	}
	for i := 0; i < 4; i++ {
		p.advance()
	}
	return int(n), nil
}

func (p *parser) atEnd() bool { return p.pos >= len(p.input) }

func (p *parser) peek() rune { return p.input[p.pos] }

func (p *parser) advance() {
	if p.atEnd() {
		return
	}
	if p.input[p.pos] == '\n' {
		p.line++
		p.column = 1
	} else {
		p.column++
	}
	p.pos++
}

// skipWhitespace skips spaces, tabs, CR, LF; a CR optionally pairs with a
// following LF as one line break.
func (p *parser) skipWhitespace() {
	for !p.atEnd() {
		switch p.peek() {
		case ' ', '\t', '\n':
			p.advance()
		case '\r':
			p.advance()
			if !p.atEnd() && p.peek() == '\n' {
				p.advance()
			}
		default:
			return
		}
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Message: fmt.Sprintf(format, args...), Line: p.line, Column: p.column}
}
