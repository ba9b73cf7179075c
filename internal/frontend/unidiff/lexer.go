package unidiff

import (
	"drift/internal/frontend"
	"drift/internal/lexer"
	"drift/internal/source"
	"drift/internal/token"
)

// lexerImpl adapts the shared scanner. Diff grammar lives in the marker
// runs ("---", "+++", "@@") the scanner already collapses, so the default
// configuration serves as is.
type lexerImpl struct {
	sc  *lexer.Scanner
	eof token.Token
	err *frontend.LexError
}

func newLexer(file *source.File, rep lexer.Reporter) frontend.Lexer {
	if off, reason, ok := lexer.CheckText(file.Content); !ok {
		return &lexerImpl{
			eof: token.Token{Kind: token.EOF, Span: source.Span{File: file.ID, Start: off, End: off}},
			err: &frontend.LexError{Tool: Tool, Reason: reason, Pos: file.Pos(off)},
		}
	}
	return &lexerImpl{
		sc: lexer.New(file, lexer.Config{}, lexer.Options{Reporter: rep}),
	}
}

func (lx *lexerImpl) Next() token.Token {
	if lx.sc == nil {
		return lx.eof
	}
	return lx.sc.Next()
}

func (lx *lexerImpl) Err() *frontend.LexError { return lx.err }
