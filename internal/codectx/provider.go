// Package codectx defines the code-context capability the expectation
// resolvers may consult: symbol lookups and recent renames. The pipeline
// consumes this interface but never implements project indexing itself;
// absence of an answer is a first-class result, not an error.
package codectx

import (
	"context"

	"drift/internal/ir"
)

// Symbol is what a provider knows about one name at one place.
type Symbol struct {
	Name         string
	DeclaredType string
	DeclaredAt   ir.Location
}

// Rename records that a symbol recently changed its name.
type Rename struct {
	OldName  string
	NewName  string
	Location ir.Location
}

// Provider answers enrichment queries during expectation resolution.
// ok=false with a nil error means the provider has no answer, which is
// never treated as a failure. A non-nil error marks the provider as
// degraded for the observation being resolved: confidence drops, the hint
// is omitted, and the run continues.
type Provider interface {
	LookupSymbol(ctx context.Context, name string, loc ir.Location) (Symbol, bool, error)
	FindRecentRename(ctx context.Context, name string) (Rename, bool, error)
}
