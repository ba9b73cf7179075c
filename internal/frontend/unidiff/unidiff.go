// Package unidiff is the front end for unified diffs, git-style or plain:
// "---"/"+++" file headers, "@@" hunk ranges, and the marker-prefixed
// payload lines. Each hunk resolves to one behavioral deviation carrying
// the removed block as the expectation and the added block as the new
// behavior.
package unidiff

import (
	"drift/internal/frontend"
)

// Tool is the registry identity of this front end.
const Tool = "unified-diff"

// New assembles the unified-diff front end.
func New() *frontend.Frontend {
	return &frontend.Frontend{
		ID:       Tool,
		NewLexer: newLexer,
		Builder:  builder{},
		Resolver: resolver{},
	}
}
