package cargotest

import (
	"drift/internal/frontend"
	"drift/internal/lexer"
	"drift/internal/source"
	"drift/internal/token"
)

// lexerImpl adapts the shared scanner to the cargo grammar. '::'-qualified
// test and frame names stay single Words.
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
		sc: lexer.New(file, lexer.Config{QualifiedWords: true}, lexer.Options{Reporter: rep}),
	}
}

func (lx *lexerImpl) Next() token.Token {
	if lx.sc == nil {
		return lx.eof
	}
	return lx.sc.Next()
}

func (lx *lexerImpl) Err() *frontend.LexError { return lx.err }
