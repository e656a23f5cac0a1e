package calc

import "strconv"

// SyntaxError is an error indicating malformed input: a missing or
// mismatched parenthesis, an unexpected character, input ending where more
// was needed, or input left over after a complete expression. It implements
// InputError.
type SyntaxError struct {
	// Col is the position of the offending character, or one past the end of
	// the input if the input ended early.
	Col int
	// Want describes what the parser expected.
	Want string
	// Got is the offending text. It is empty if the input ended early.
	Got string
}

func (err *SyntaxError) Error() string {
	if err.Got == "" {
		return errpos(err.Col, "unexpected end of input, expected "+err.Want)
	}
	return errpos(err.Col, "expected "+err.Want+", found "+strconv.Quote(err.Got))
}

func (err *SyntaxError) Pos() int {
	return err.Col
}

// NumberError is an error indicating a token made only of digits and dots
// that is not a valid number, e.g. "1.2.3". It implements InputError.
type NumberError struct {
	// Col is the position of the start of the token.
	Col int
	// Text is the token.
	Text string
}

func (err *NumberError) Error() string {
	return errpos(err.Col, "invalid number "+strconv.Quote(err.Text))
}

func (err *NumberError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the 1-based column of the character that caused the error.
	Pos() int
}

var (
	_ InputError = (*SyntaxError)(nil)
	_ InputError = (*NumberError)(nil)
)
