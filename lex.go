package svg

import (
	"strings"

	gl "github.com/rustyoz/genericlexer"
)

// lexer wraps a generic lexer over normalized input. close must be
// called once the caller is done with it: the lexer goroutine keeps
// sending items and only exits once they are all received.
type lexer struct {
	*gl.Lexer
	input string
	items chan gl.Item
}

func newLexer(name, input string) *lexer {
	input = normalizeNumbers(input)
	l, items := gl.Lex(name, input)
	return &lexer{Lexer: l, input: input, items: items}
}

func (l *lexer) close() {
	for range l.items {
	}
}

// rest returns the input the lexer stopped short of at the end of
// stream item i, ignoring separators.
func (l *lexer) rest(i gl.Item) string {
	pos := int(i.Pos)
	if pos < 0 || pos >= len(l.input) {
		return ""
	}
	return strings.TrimRight(l.input[pos:], " \t\r\n,")
}

// normalizeNumbers writes a leading zero in front of numbers that start
// with a dot, so ".5" becomes "0.5" and "1.5.5" becomes "1.5 0.5". The
// lexer does not recognize a number starting with a dot.
func normalizeNumbers(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	var inNum, dot, exp bool
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			inNum = true
		case c == '.':
			if !inNum || dot || exp {
				if inNum {
					b.WriteByte(' ')
				}
				b.WriteByte('0')
				exp = false
			}
			inNum, dot = true, true
		case (c == 'e' || c == 'E') && inNum && !exp:
			exp = true
		case (c == '-' || c == '+') && exp && (s[i-1] == 'e' || s[i-1] == 'E'):
			// exponent sign
		default:
			inNum, dot, exp = false, false, false
		}
		b.WriteByte(c)
	}
	return b.String()
}
