// Package gotest is the front end for `go test` captures: RUN markers and
// per-case result headers, the file:line log lines of failing cases, panic
// dumps with goroutine stacks, compiler diagnostics under "# pkg" headers,
// and the closing per-package ok/FAIL lines.
package gotest

import (
	"drift/internal/frontend"
)

// Tool is the registry identity of this front end.
const Tool = "go-test"

// New assembles the go-test front end.
func New() *frontend.Frontend {
	return &frontend.Frontend{
		ID:       Tool,
		NewLexer: newLexer,
		Builder:  builder{},
		Resolver: resolver{},
	}
}
