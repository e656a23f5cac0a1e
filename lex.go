package calc

// isIdentChar reports whether c can appear in a number or variable token.
// Quotes have no special meaning; they are ordinary token characters.
func isIdentChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '.', c == '_', c == '\'', c == '"':
		return true
	default:
		return false
	}
}

// isDigitChar reports whether c can appear in a number token.
func isDigitChar(c byte) bool {
	return '0' <= c && c <= '9' || c == '.'
}

// isSpace reports whether c is ASCII whitespace.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

// scanToken returns the maximal run of identifier characters in src starting
// at byte offset pos, and whether every character in it is a digit or dot.
func scanToken(src string, pos int) (tok string, numeric bool) {
	numeric = true
	end := pos
	for end < len(src) && isIdentChar(src[end]) {
		if !isDigitChar(src[end]) {
			numeric = false
		}
		end++
	}
	return src[pos:end], numeric
}

// validNumber reports whether a numeric token is a well-formed decimal
// number: at least one digit and at most one dot.
func validNumber(tok string) bool {
	var dig, dot bool
	for i := 0; i < len(tok); i++ {
		switch c := tok[i]; {
		case c == '.':
			if dot {
				return false
			}
			dot = true
		case '0' <= c && c <= '9':
			dig = true
		default:
			return false
		}
	}
	return dig
}
