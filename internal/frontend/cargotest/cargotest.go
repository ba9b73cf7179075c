// Package cargotest is the front end for `cargo test` captures: the rustc
// diagnostics interleaved with the build, the per-case result lines, the
// panic and assertion stdout sections of failing cases, and the closing
// result summary.
package cargotest

import (
	"drift/internal/frontend"
)

// Tool is the registry identity of this front end.
const Tool = "cargo-test"

// New assembles the cargo-test front end.
func New() *frontend.Frontend {
	return &frontend.Frontend{
		ID:       Tool,
		NewLexer: newLexer,
		Builder:  builder{},
		Resolver: resolver{},
	}
}
