package lexer

import (
	"drift/internal/token"
)

// scanNumber consumes an integer or float literal. Tool output prints
// plain decimals (counts, durations, asserted values) and hex addresses
// in stack frames; nothing richer is required, so unusual shapes stop
// early and the remainder scans as whatever it is.
func (sc *Scanner) scanNumber() token.Token {
	start := sc.cursor.Mark()
	kind := token.Int

	// hex address: 0x7f8a...
	if b0, b1, ok := sc.cursor.Peek2(); ok && b0 == '0' && (b1 == 'x' || b1 == 'X') {
		sc.cursor.Bump()
		sc.cursor.Bump()
		for isHex(sc.cursor.Peek()) {
			sc.cursor.Bump()
		}
		sp := sc.cursor.SpanFrom(start)
		return token.Token{Kind: token.Int, Span: sp, Text: sc.text(sp)}
	}

	for isDec(sc.cursor.Peek()) || sc.cursor.Peek() == '_' {
		sc.cursor.Bump()
	}

	// fraction only when a digit follows the dot, so "5." in prose and
	// "0.05s" both split correctly
	if b0, b1, ok := sc.cursor.Peek2(); ok && b0 == '.' && isDec(b1) {
		kind = token.Float
		sc.cursor.Bump()
		for isDec(sc.cursor.Peek()) || sc.cursor.Peek() == '_' {
			sc.cursor.Bump()
		}
	}

	// exponent only when digits follow
	if b := sc.cursor.Peek(); b == 'e' || b == 'E' {
		mark := sc.cursor.Mark()
		sc.cursor.Bump()
		if sc.cursor.Peek() == '+' || sc.cursor.Peek() == '-' {
			sc.cursor.Bump()
		}
		if isDec(sc.cursor.Peek()) {
			kind = token.Float
			for isDec(sc.cursor.Peek()) {
				sc.cursor.Bump()
			}
		} else {
			sc.cursor.Reset(mark)
		}
	}

	sp := sc.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: sc.text(sp)}
}
