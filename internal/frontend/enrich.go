package frontend

import (
	"context"
	"fmt"

	"drift/internal/codectx"
	"drift/internal/ir"
)

// EnrichName asks the code-context provider about a name a diagnostic could
// not resolve and renders the answer as a hint. A rename answer wins over a
// declaration. No provider at all and a failed query both count as degraded;
// an empty answer does not.
func EnrichName(ctx context.Context, provider codectx.Provider, name string, loc ir.Location) (hint string, degraded bool) {
	if provider == nil {
		return "", true
	}
	ren, ok, err := provider.FindRecentRename(ctx, name)
	if err != nil {
		return "", true
	}
	if ok {
		return fmt.Sprintf("`%s` was recently renamed to `%s` (%s)",
			ren.OldName, ren.NewName, ren.Location), false
	}
	sym, ok, err := provider.LookupSymbol(ctx, name, loc)
	if err != nil {
		return "", true
	}
	if ok {
		if sym.DeclaredType != "" {
			return fmt.Sprintf("`%s` (%s) is declared at %s",
				sym.Name, sym.DeclaredType, sym.DeclaredAt), false
		}
		return fmt.Sprintf("`%s` is declared at %s", sym.Name, sym.DeclaredAt), false
	}
	return "", false
}
