package driver

import (
	"drift/internal/source"
	"drift/internal/token"
)

// TokenizeResult carries one capture's token stream for inspection.
type TokenizeResult struct {
	File   *source.File
	Tokens []token.Token
}

// Tokenize runs only the token stage for tool on raw. Inspection entry
// point; the full pipeline goes through Compile.
func (p *Pipeline) Tokenize(tool, name string, raw []byte) (*TokenizeResult, error) {
	fe, err := p.reg.Lookup(tool)
	if err != nil {
		return nil, err
	}
	file := newCapture(name, raw)
	toks, lerr := collectTokens(fe, file)
	if lerr != nil {
		return nil, lerr
	}
	return &TokenizeResult{File: file, Tokens: toks}, nil
}
