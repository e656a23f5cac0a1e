package calc

import (
	"strings"
)

// node is a node in the abstract syntax tree of an expression. Nodes are
// never modified after parsing, so a tree may be evaluated concurrently.
type node struct {
	kind nodeKind

	// name is the literal text of a nodeNum or the variable of a nodeName.
	name string

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // push num
	nodeName // push lookup(name)

	nodeAdd      // evaluate left, add right
	nodeSub      // evaluate left, sub right
	nodeMul      // evaluate left, mul right
	nodeDiv      // evaluate left, div by right
	nodeFloorDiv // evaluate left, div by right, floor
	nodeMod      // evaluate left, truncated remainder by right
)

//go:generate stringer -type=nodeKind -trimprefix=node

// binary reports whether the node kind is a binary operation.
func (k nodeKind) binary() bool {
	return nodeAdd <= k && k <= nodeMod
}

// symbol returns the operator text for a binary node kind.
func (k nodeKind) symbol() string {
	switch k {
	case nodeAdd:
		return "+"
	case nodeSub:
		return "-"
	case nodeMul:
		return "*"
	case nodeDiv:
		return "/"
	case nodeFloorDiv:
		return "//"
	case nodeMod:
		return "%"
	default:
		panic("calc: no operator for node kind " + k.String())
	}
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b, false, false)
	return b.String()
}

// fmt writes n fully bracketed. If alt is true, nested groups alternate
// between round and square brackets, which the parser does not accept.
func (n *node) fmt(b *strings.Builder, square, alt bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	switch {
	case n.kind == nodeNum, n.kind == nodeName:
		// Leaves need no brackets.
		b.WriteString(n.name)
	case n.kind.binary():
		b.WriteByte(l)
		n.left.fmt(b, alt && !square, alt)
		b.WriteByte(' ')
		b.WriteString(n.kind.symbol())
		b.WriteByte(' ')
		n.right.fmt(b, alt && !square, alt)
		b.WriteByte(r)
	case n.kind == nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		if n.left != nil {
			n.left.fmt(b, square, alt)
		}
		b.WriteByte('#')
		if n.right != nil {
			n.right.fmt(b, square, alt)
		}
		b.WriteByte('$')
	default:
		panic("calc: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}
