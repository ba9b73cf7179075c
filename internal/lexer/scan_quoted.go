package lexer

import (
	"drift/internal/token"
)

// scanQuoted consumes a quoted literal delimited by ", ', or `. Quotes stay
// in Token.Text so resolvers can strip them during canonicalization.
//
// Tool prose makes quoting ambiguous: "can't" is not a literal. An
// apostrophe glued to the previous word never opens a quote, and a quote
// with no closing mate on the same line falls back to a single Punct so
// the rest of the line still tokenizes.
func (sc *Scanner) scanQuoted(quote byte) token.Token {
	start := sc.cursor.Mark()

	if quote == '\'' && sc.cursor.Off > 0 && isWordContinueByte(sc.file.Content[sc.cursor.Off-1]) {
		sc.cursor.Bump()
		sp := sc.cursor.SpanFrom(start)
		return token.Token{Kind: token.Punct, Span: sp, Text: sc.text(sp)}
	}

	sc.cursor.Bump() // opening quote
	for !sc.cursor.EOF() {
		b := sc.cursor.Peek()
		if b == quote {
			sc.cursor.Bump()
			sp := sc.cursor.SpanFrom(start)
			return token.Token{Kind: token.String, Span: sp, Text: sc.text(sp)}
		}
		if b == '\\' {
			sc.cursor.Bump()
			if sc.cursor.EOF() {
				break
			}
			sc.cursor.Bump()
			continue
		}
		if b == '\n' {
			break
		}
		sc.cursor.Bump()
	}

	// no closing mate on this line
	if quote == '"' {
		sp := sc.cursor.SpanFrom(start)
		sc.report("UnterminatedString", sp, "quote never closed on its line")
	}
	sc.cursor.Reset(start)
	sc.cursor.Bump()
	sp := sc.cursor.SpanFrom(start)
	return token.Token{Kind: token.Punct, Span: sp, Text: sc.text(sp)}
}
