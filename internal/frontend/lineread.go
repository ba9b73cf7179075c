package frontend

import (
	"drift/internal/source"
	"drift/internal/token"
)

// Line is one physical line of a token stream: the leading indent text,
// the payload tokens between indent and line break, and the span covering
// both. The line break itself is not kept.
type Line struct {
	Indent string
	Toks   []token.Token
	Span   source.Span
}

// IsBlank reports whether the line carries no payload tokens.
func (l Line) IsBlank() bool { return len(l.Toks) == 0 }

// At returns the i-th payload token. Negative i counts from the end;
// out-of-range yields a zero (Invalid) token, so probes never branch on
// length first.
func (l Line) At(i int) token.Token {
	if i < 0 {
		i += len(l.Toks)
	}
	if i < 0 || i >= len(l.Toks) {
		return token.Token{}
	}
	return l.Toks[i]
}

// TextAt returns the text of the i-th payload token, "" when out of range.
func (l Line) TextAt(i int) string { return l.At(i).Text }

// KindAt returns the kind of the i-th payload token, Invalid when out of range.
func (l Line) KindAt(i int) token.Kind { return l.At(i).Kind }

// HasPrefix reports whether the leading payload tokens carry exactly the
// given texts.
func (l Line) HasPrefix(texts ...string) bool {
	if len(l.Toks) < len(texts) {
		return false
	}
	for i, want := range texts {
		if l.Toks[i].Text != want {
			return false
		}
	}
	return true
}

// Text returns the raw line text, indent included and line break excluded.
func (l Line) Text(f *source.File) string {
	if l.Span.Empty() {
		return ""
	}
	return string(f.Content[l.Span.Start:l.Span.End])
}

// Rest returns the raw text from the i-th payload token to the line's end,
// "" when the line has no i-th token. Grammar rules use it to capture a
// message tail verbatim, interior spacing included.
func (l Line) Rest(f *source.File, i int) string {
	if i < 0 || i >= len(l.Toks) {
		return ""
	}
	return string(f.Content[l.Toks[i].Span.Start:l.Span.End])
}

// Slice returns the raw text from the i-th through the j-th payload token,
// inclusive. Names that tokenize into several pieces are recovered this way.
func (l Line) Slice(f *source.File, i, j int) string {
	if i < 0 || j < i || j >= len(l.Toks) {
		return ""
	}
	return string(f.Content[l.Toks[i].Span.Start:l.Toks[j].Span.End])
}

// SplitLines groups a token stream into physical lines. Newline and EOF
// terminate lines and are dropped; a final newline does not open an empty
// tail line. Builders that think line-wise start here instead of walking
// raw tokens.
func SplitLines(toks []token.Token) []Line {
	lines := make([]Line, 0, 32)
	var cur Line
	open := false

	begin := func(tok token.Token) {
		cur = Line{Span: source.Span{File: tok.Span.File, Start: tok.Span.Start, End: tok.Span.Start}}
		open = true
	}

	for _, tok := range toks {
		switch tok.Kind {
		case token.Newline:
			if !open {
				begin(tok)
			}
			lines = append(lines, cur)
			cur = Line{}
			open = false
		case token.EOF:
			if open {
				lines = append(lines, cur)
				cur = Line{}
				open = false
			}
		case token.Indent:
			if !open {
				begin(tok)
			}
			cur.Indent = tok.Text
			cur.Span = cur.Span.Cover(tok.Span)
		default:
			if !open {
				begin(tok)
			}
			cur.Toks = append(cur.Toks, tok)
			cur.Span = cur.Span.Cover(tok.Span)
		}
	}
	return lines
}
