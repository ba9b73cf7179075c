package token

import (
	"drift/internal/source"
)

// Token represents a single captured-output token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// Position materializes the token's line/column/offset through the file set
// that owns its capture.
func (t Token) Position(fs *source.FileSet) source.Pos {
	return fs.ResolvePos(t.Span.File, t.Span.Start)
}

// IsValue reports whether the token carries a comparable literal value.
func (t Token) IsValue() bool {
	switch t.Kind {
	case Int, Float, String:
		return true
	default:
		return false
	}
}

// IsLineBreak reports whether the token terminates a line.
func (t Token) IsLineBreak() bool { return t.Kind == Newline || t.Kind == EOF }

// IsWord reports whether the token is a bare word.
func (t Token) IsWord() bool { return t.Kind == Word }

// IsWordText reports whether the token is a bare word with exactly the
// given text. Grammar markers such as "FAILED" or "ok" are matched this
// way by the front ends.
func (t Token) IsWordText(text string) bool {
	return t.Kind == Word && t.Text == text
}

// IsPunctText reports whether the token is punctuation with the given text.
func (t Token) IsPunctText(text string) bool {
	return t.Kind == Punct && t.Text == text
}
