package frontend

import (
	"fmt"
	"strings"

	"drift/internal/ast"
	"drift/internal/source"
)

// LexError rejects a capture at the token stage. It is fatal for the
// invocation: nothing downstream runs, and Pos points at the byte that
// triggered the rejection.
type LexError struct {
	Tool   string
	Reason string
	Pos    source.Pos
}

func (e *LexError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: capture is not tokenizable text at %s: %s", e.Tool, e.Pos, e.Reason)
}

// ParseError reports a structural failure without aborting the invocation.
// Partial holds whatever the builder recognized before giving up; the
// pipeline continues with it and marks the run's provenance instead.
type ParseError struct {
	Tool    string
	Reason  string
	Pos     source.Pos
	Partial *ast.Tree
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: partial structure at %s: %s", e.Tool, e.Pos, e.Reason)
}

// UnknownToolError is the registry miss: no front end is registered for
// the requested tool identity.
type UnknownToolError struct {
	Tool  string
	Known []string // registered identities, sorted
}

func (e *UnknownToolError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown tool %q: no front ends registered", e.Tool)
	}
	return fmt.Sprintf("unknown tool %q: registered tools are %s", e.Tool, strings.Join(e.Known, ", "))
}
