package calc

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	trailopt struct{}
	spaceopt struct{}
)

// parsectx holds general data for parsing.
type parsectx struct {
	// trailing allows unconsumed input after a complete expression.
	trailing bool
	// spaces allows whitespace between tokens.
	spaces bool
}

// AllowTrailing tells the parser to stop at the first character that cannot
// continue the expression instead of reporting a SyntaxError for it. The
// remainder of the input is ignored.
func AllowTrailing() ParseOption {
	return trailopt{}
}

func (trailopt) parseOption(p parsectx) parsectx {
	p.trailing = true
	return p
}

// SkipSpace tells the parser to ignore ASCII whitespace between tokens. By
// default, any whitespace in an expression is a syntax error.
func SkipSpace() ParseOption {
	return spaceopt{}
}

func (spaceopt) parseOption(p parsectx) parsectx {
	p.spaces = true
	return p
}
