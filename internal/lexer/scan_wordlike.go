package lexer

import (
	"drift/internal/token"
)

// scanWordlike consumes a maximal run of name-shaped bytes and classifies
// it as Word or Path. The run may absorb:
//   - '.' when a letter or digit follows (auth.rs, example.com, v1.2)
//   - '/' when a path segment follows (a/src/auth.rs, /rustc/lib)
//   - '-' when a letter or digit follows (filtered-out)
//   - '::' qualifiers when Config.QualifiedWords is set
//   - ':' + digits once the run already looks like a file (auth.rs:89:5)
//
// A run that saw '/' or a :line suffix is a Path; everything else is a Word.
func (sc *Scanner) scanWordlike() token.Token {
	start := sc.cursor.Mark()
	hasSlash := false
	hasDot := false
	hasLineSuffix := false

	for !sc.cursor.EOF() {
		b := sc.cursor.Peek()
		switch {
		case isWordContinueByte(b):
			sc.cursor.Bump()

		case b >= utf8RuneSelf:
			r, size := sc.peekRune()
			if !isWordRune(r) {
				goto done
			}
			sc.bumpRune(size)

		case b == '.':
			_, b1, ok := sc.cursor.Peek2()
			if !ok || !isWordContinueByte(b1) {
				goto done
			}
			hasDot = true
			sc.cursor.Bump()

		case b == '/':
			_, b1, ok := sc.cursor.Peek2()
			if !ok || (!isWordContinueByte(b1) && b1 != '.') {
				goto done
			}
			hasSlash = true
			sc.cursor.Bump()

		case b == '-':
			_, b1, ok := sc.cursor.Peek2()
			if !ok || !isWordContinueByte(b1) {
				goto done
			}
			sc.cursor.Bump()

		case b == ':':
			if sc.cfg.QualifiedWords {
				if b0, b1, b2, ok := sc.cursor.Peek3(); ok && b0 == ':' && b1 == ':' && isWordStartByte(b2) {
					sc.cursor.Bump()
					sc.cursor.Bump()
					continue
				}
			}
			// :line or :line:col suffix on file-shaped runs only
			if !hasDot && !hasSlash {
				goto done
			}
			_, b1, ok := sc.cursor.Peek2()
			if !ok || !isDec(b1) {
				goto done
			}
			sc.cursor.Bump()
			for isDec(sc.cursor.Peek()) {
				sc.cursor.Bump()
			}
			hasLineSuffix = true

		default:
			goto done
		}
	}

done:
	sp := sc.cursor.SpanFrom(start)
	kind := token.Word
	if hasSlash || hasLineSuffix {
		kind = token.Path
	}
	return token.Token{Kind: kind, Span: sp, Text: sc.text(sp)}
}
