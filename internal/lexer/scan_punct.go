package lexer

import (
	"unicode/utf8"

	"drift/internal/token"
)

// Marker characters that tools repeat to draw separators: "----", "@@",
// "...", "=== RUN". Runs of one such character collapse into one token so
// builders can match IsPunctText("---") directly.
func isRunPunct(b byte) bool {
	switch b {
	case '-', '+', '=', '@', '.', '*', '~', '#':
		return true
	default:
		return false
	}
}

func (sc *Scanner) scanPunctOrUnstructured() token.Token {
	start := sc.cursor.Mark()
	b := sc.cursor.Peek()

	// printable ASCII punctuation
	if b > 0x20 && b < utf8.RuneSelf && b != 0x7f {
		sc.cursor.Bump()
		if isRunPunct(b) {
			for sc.cursor.Peek() == b {
				sc.cursor.Bump()
			}
		}
		sp := sc.cursor.SpanFrom(start)
		return token.Token{Kind: token.Punct, Span: sp, Text: sc.text(sp)}
	}

	// control bytes, DEL, and non-word unicode collapse into one
	// Unstructured run; scanning never rejects content
	for !sc.cursor.EOF() {
		b := sc.cursor.Peek()
		if b == '\n' || b == ' ' || b == '\t' {
			break
		}
		if b < utf8.RuneSelf {
			if b > 0x20 && b != 0x7f {
				break
			}
			sc.cursor.Bump()
			continue
		}
		r, size := sc.peekRune()
		if isWordRune(r) {
			break
		}
		sc.bumpRune(size)
	}
	sp := sc.cursor.SpanFrom(start)
	return token.Token{Kind: token.Unstructured, Span: sp, Text: sc.text(sp)}
}
