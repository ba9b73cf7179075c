package lexer

import (
	"drift/internal/source"
	"drift/internal/token"
)

// Scanner turns one normalized capture into the shared token vocabulary.
// Line structure is preserved: every '\n' is a Newline token and leading
// whitespace becomes one Indent token, while interior spaces are skipped.
type Scanner struct {
	file        *source.File
	cursor      Cursor
	cfg         Config
	opts        Options
	look        *token.Token
	atLineStart bool
}

// New creates a scanner over the capture.
func New(file *source.File, cfg Config, opts Options) *Scanner {
	return &Scanner{
		file:        file,
		cursor:      NewCursor(file),
		cfg:         cfg,
		opts:        opts,
		look:        nil,
		atLineStart: true,
	}
}

// Scan tokenizes the whole capture, EOF token included. Calling it again
// on a fresh Scanner restarts from the first byte.
func Scan(file *source.File, cfg Config, opts Options) []token.Token {
	sc := New(file, cfg, opts)
	toks := make([]token.Token, 0, len(file.Content)/6)
	for {
		tok := sc.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

// Next returns the next token. After EOF it always returns EOF.
func (sc *Scanner) Next() token.Token {
	if sc.look != nil {
		tok := *sc.look
		sc.look = nil
		return tok
	}

	if sc.atLineStart {
		sc.atLineStart = false
		if b := sc.cursor.Peek(); b == ' ' || b == '\t' {
			return sc.scanIndent()
		}
	}
	sc.skipInteriorSpace()

	if sc.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: sc.emptySpan(), Text: ""}
	}

	ch := sc.cursor.Peek()
	switch {
	case ch == '\n':
		return sc.scanNewline()
	case isDec(ch):
		return sc.scanNumber()
	case isWordStartByte(ch):
		return sc.scanWordlike()
	case ch >= utf8RuneSelf:
		if r, _ := sc.peekRune(); isWordRune(r) {
			return sc.scanWordlike()
		}
		return sc.scanPunctOrUnstructured()
	case ch == '/' && sc.startsPath():
		return sc.scanWordlike()
	case ch == '"' || ch == '\'' || ch == '`':
		return sc.scanQuoted(ch)
	default:
		return sc.scanPunctOrUnstructured()
	}
}

// Peek returns the next token without consuming it.
func (sc *Scanner) Peek() token.Token {
	t := sc.Next()
	sc.look = &t
	return t
}

func (sc *Scanner) scanIndent() token.Token {
	start := sc.cursor.Mark()
	for {
		b := sc.cursor.Peek()
		if b != ' ' && b != '\t' {
			break
		}
		sc.cursor.Bump()
	}
	sp := sc.cursor.SpanFrom(start)
	return token.Token{Kind: token.Indent, Span: sp, Text: sc.text(sp)}
}

func (sc *Scanner) scanNewline() token.Token {
	start := sc.cursor.Mark()
	sc.cursor.Bump()
	sc.atLineStart = true
	sp := sc.cursor.SpanFrom(start)
	return token.Token{Kind: token.Newline, Span: sp, Text: "\n"}
}

// skipInteriorSpace drops spaces, tabs, and stray carriage returns between
// tokens. They carry no structure once the line's Indent is emitted.
func (sc *Scanner) skipInteriorSpace() {
	for {
		b := sc.cursor.Peek()
		if b != ' ' && b != '\t' && b != '\r' {
			return
		}
		sc.cursor.Bump()
	}
}

// startsPath reports whether a leading '/' opens an absolute path such as
// /rustc/lib/core/src/panicking.rs rather than a bare slash.
func (sc *Scanner) startsPath() bool {
	_, b1, ok := sc.cursor.Peek2()
	return ok && (isWordContinueByte(b1) || b1 == '.')
}

func (sc *Scanner) text(sp source.Span) string {
	return string(sc.file.Content[sp.Start:sp.End])
}

func (sc *Scanner) emptySpan() source.Span {
	return source.Span{File: sc.file.ID, Start: sc.cursor.Off, End: sc.cursor.Off}
}
