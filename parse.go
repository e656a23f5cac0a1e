package calc

import (
	"io"
	"strings"
	"unicode/utf8"
)

// Expr = Term { ('+' | '-') Term }
// Term = Factor { ('*' | '/' | '//' | '%') Factor }
// Factor = token | '(' Expr ')'
// token = identchar { identchar }

// Expr is a parsed expression that can be evaluated with a context. An Expr is
// never modified after parsing, so it is safe to evaluate it concurrently
// with different contexts.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// names is the sorted list of variable names used in the expression.
	names []string
}

// parser holds the state of a single parse.
type parser struct {
	parsectx
	// src is the entire input.
	src string
	// pos is the byte offset of the next unconsumed character.
	pos int
	// names is the set of variable names that have been seen this parse.
	names map[string]bool
}

// Parse parses an expression so it can be evaluated with a context. The given
// options are applied in order. The whole of src must be a single expression
// unless AllowTrailing is given.
func Parse(src string, opts ...ParseOption) (*Expr, error) {
	p := parser{
		src:   src,
		names: make(map[string]bool),
	}
	for _, opt := range opts {
		p.parsectx = opt.parseOption(p.parsectx)
	}
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.space()
	if p.pos < len(p.src) && !p.trailing {
		return nil, p.unexpected("operator or end of input")
	}
	ex := Expr{
		n:     n,
		names: make([]string, 0, len(p.names)),
	}
	for k := range p.names {
		ex.names = append(ex.names, k)
	}
	sortstrs(ex.names)
	return &ex, nil
}

// ParseReader reads all of src and parses it as an expression. Trailing line
// terminators are removed before parsing.
func ParseReader(src io.Reader, opts ...ParseOption) (*Expr, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return Parse(strings.TrimRight(string(b), "\r\n"), opts...)
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// parseExpr parses one or more terms separated by additive operators.
func (p *parser) parseExpr() (*node, error) {
	n, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		var kind nodeKind
		switch p.peek() {
		case '+':
			kind = nodeAdd
		case '-':
			kind = nodeSub
		default:
			return n, nil
		}
		p.pos++
		rhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		n = &node{kind: kind, left: n, right: rhs}
	}
}

// parseTerm parses one or more factors separated by multiplicative
// operators.
func (p *parser) parseTerm() (*node, error) {
	n, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		var kind nodeKind
		switch p.peek() {
		case '*':
			kind = nodeMul
		case '/':
			kind = nodeDiv
			// Only two adjacent slashes are floor division.
			if p.pos+1 < len(p.src) && p.src[p.pos+1] == '/' {
				kind = nodeFloorDiv
				p.pos++
			}
		case '%':
			kind = nodeMod
		default:
			return n, nil
		}
		p.pos++
		rhs, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		n = &node{kind: kind, left: n, right: rhs}
	}
}

// parseFactor parses a token or a parenthesized expression.
func (p *parser) parseFactor() (*node, error) {
	p.space()
	if p.pos < len(p.src) && isIdentChar(p.src[p.pos]) {
		return p.parseToken()
	}
	if err := p.expect('(', `number, variable, or "("`); err != nil {
		return nil, err
	}
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.space()
	if err := p.expect(')', `operator or ")"`); err != nil {
		return nil, err
	}
	return n, nil
}

// parseToken parses a maximal run of identifier characters as either a
// number or a variable name.
func (p *parser) parseToken() (*node, error) {
	start := p.pos
	tok, numeric := scanToken(p.src, p.pos)
	p.pos += len(tok)
	if numeric {
		if !validNumber(tok) {
			return nil, &NumberError{Col: p.col(start), Text: tok}
		}
		return &node{kind: nodeNum, name: tok}, nil
	}
	p.names[tok] = true
	return &node{kind: nodeName, name: tok}, nil
}

// peek returns the next character without consuming it, or 0 at the end of
// the input.
func (p *parser) peek() byte {
	p.space()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

// space skips whitespace if the parse options allow it.
func (p *parser) space() {
	if !p.spaces {
		return
	}
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

// expect consumes c or returns a SyntaxError describing want.
func (p *parser) expect(c byte, want string) error {
	if p.pos >= len(p.src) || p.src[p.pos] != c {
		return p.unexpected(want)
	}
	p.pos++
	return nil
}

// unexpected creates an error for the character at the current position.
func (p *parser) unexpected(want string) error {
	err := SyntaxError{Col: p.col(p.pos), Want: want}
	if p.pos < len(p.src) {
		r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
		if r == utf8.RuneError {
			err.Got = p.src[p.pos : p.pos+1]
		} else {
			err.Got = string(r)
		}
	}
	return &err
}

// col converts a byte offset into a 1-based rune column.
func (p *parser) col(pos int) int {
	return utf8.RuneCountInString(p.src[:pos]) + 1
}

// Vars returns the variable names used when evaluating the expression, in
// lexicographic order. Each name appears once.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each operation.
func (e *Expr) String() string {
	var b strings.Builder
	e.n.fmt(&b, false, true)
	return b.String()
}

// Canonical creates a fully parenthesized representation of the expression
// which parses with SkipSpace to the same tree.
func (e *Expr) Canonical() string {
	var b strings.Builder
	e.n.fmt(&b, false, false)
	return b.String()
}
