package driver

import (
	"drift/internal/ast"
	"drift/internal/frontend"
	"drift/internal/source"
)

// StructureResult carries one capture's structure tree for inspection.
// Partial is non-nil when the builder degraded; Tree still holds
// everything recognized before that.
type StructureResult struct {
	File    *source.File
	Tree    *ast.Tree
	Partial *frontend.ParseError
}

// Structure runs the token and structure stages for tool on raw.
func (p *Pipeline) Structure(tool, name string, raw []byte) (*StructureResult, error) {
	fe, err := p.reg.Lookup(tool)
	if err != nil {
		return nil, err
	}
	file := newCapture(name, raw)
	toks, lerr := collectTokens(fe, file)
	if lerr != nil {
		return nil, lerr
	}
	tree, perr := fe.Builder.Build(file, toks)
	return &StructureResult{File: file, Tree: tree, Partial: perr}, nil
}
