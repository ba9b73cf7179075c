// Package frontend defines the per-tool stage contracts and the registry
// that keys them on tool identity.
//
// A front end owns the first three stages for one tool's output dialect:
// tokenizing raw capture bytes, folding tokens into a structure tree, and
// resolving the tree into raw observations. Everything after that —
// canonicalization, reduction, report sealing — is shared and tool-blind.
package frontend

import (
	"context"

	"drift/internal/ast"
	"drift/internal/codectx"
	"drift/internal/ir"
	"drift/internal/lexer"
	"drift/internal/source"
	"drift/internal/token"
)

// Lexer streams the shared token vocabulary for one capture. Instances are
// single-use; the driver obtains a fresh one per capture from
// Frontend.NewLexer.
type Lexer interface {
	// Next returns the next token. Once the stream ends, normally or after
	// a fatal failure, it keeps returning EOF.
	Next() token.Token

	// Err reports the fatal scan failure, if any. Meaningful once Next has
	// returned EOF: non-nil means the capture was rejected and the token
	// stream is incomplete.
	Err() *LexError
}

// Builder folds one token stream into exactly one structure tree.
//
// The returned tree is never nil. On structural failure it holds whatever
// was recognized before the failure and the *ParseError carries the
// detail; the caller keeps going with the partial tree.
type Builder interface {
	Build(file *source.File, toks []token.Token) (*ast.Tree, *ParseError)
}

// Resolver turns the structure tree into raw observations, zero or more
// per outcome-carrying node. It is the only stage allowed to consult
// external state: provider may be nil when no code context is configured,
// and provider trouble degrades the affected observation rather than
// failing the resolve.
type Resolver interface {
	Resolve(ctx context.Context, tree *ast.Tree, provider codectx.Provider) []ir.Observation
}

// Frontend bundles the three tool-specific stages under the tool identity
// the registry keys on.
type Frontend struct {
	ID       string
	NewLexer func(file *source.File, rep lexer.Reporter) Lexer
	Builder  Builder
	Resolver Resolver
}

// Collect drains lx into a slice, final EOF token included. The caller
// still checks lx.Err afterwards.
func Collect(lx Lexer) []token.Token {
	toks := make([]token.Token, 0, 64)
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}
