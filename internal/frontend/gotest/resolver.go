package gotest

import (
	"context"
	"strings"

	"drift/internal/ast"
	"drift/internal/codectx"
	"drift/internal/frontend"
	"drift/internal/ir"
)

// resolver extracts observations from the structure tree. A failing case
// reports each captured got/want pair; one without a pair claims the panic
// section filed under its name, or falls back to its bare status. Parent
// cases whose subtests already failed are skipped so a failure is reported
// once, at the deepest name that saw it.
type resolver struct{}

func (resolver) Resolve(ctx context.Context, tree *ast.Tree, provider codectx.Provider) []ir.Observation {
	r := &resolveRun{ctx: ctx, tree: tree, provider: provider}
	root := tree.Get(tree.Root)
	if root == nil {
		return nil
	}
	for _, id := range root.Children {
		switch n := tree.Get(id); n.Kind {
		case ast.NodeSuite:
			r.suite(n)
		case ast.NodeDiagnostic:
			r.diagnostic(n)
		case ast.NodeSection:
			r.section(n, nil)
		}
	}
	return r.out
}

type resolveRun struct {
	ctx      context.Context
	tree     *ast.Tree
	provider codectx.Provider
	out      []ir.Observation
}

func (r *resolveRun) suite(suite *ast.Node) {
	sections := make(map[string]ast.NodeID)
	claimed := make(map[ast.NodeID]bool)
	var failing []string

	for _, id := range suite.Children {
		n := r.tree.Get(id)
		switch n.Kind {
		case ast.NodeSection:
			if name, ok := n.Field("case"); ok {
				sections[name] = id
			}
		case ast.NodeDiagnostic:
			r.diagnostic(n)
		case ast.NodeCase:
			if n.FieldOr("status", "") == "fail" {
				failing = append(failing, n.FieldOr("name", ""))
			}
		}
	}

	for _, id := range suite.Children {
		n := r.tree.Get(id)
		if n.Kind != ast.NodeCase || n.FieldOr("status", "") != "fail" {
			continue
		}
		name := n.FieldOr("name", "")
		if parentOfFailing(name, failing) {
			continue
		}
		frames := strings.Split(name, "/")
		caseLoc := frontend.NodeLocation(n)

		if asserts := r.childrenOfKind(n, ast.NodeAssertion); len(asserts) > 0 {
			for _, a := range asserts {
				loc := frontend.NodeLocation(a)
				if loc.File == "" {
					loc = caseLoc
				}
				r.out = append(r.out, ir.Observation{
					Kind:        ir.DevTest,
					ExpectedRaw: a.FieldOr("want", ""),
					ActualRaw:   a.FieldOr("got", ""),
					Location:    loc,
					Frames:      frames,
				})
			}
			continue
		}

		if secID := sections[name]; secID != ast.NoNodeID {
			claimed[secID] = true
			r.section(r.tree.Get(secID), frames)
			continue
		}

		r.out = append(r.out, ir.Observation{
			Kind:        ir.DevTest,
			ValueKind:   ir.ValueStatus,
			ExpectedRaw: "pass",
			ActualRaw:   "fail",
			Location:    caseLoc,
			Frames:      frames,
		})
	}

	for _, id := range suite.Children {
		n := r.tree.Get(id)
		if n.Kind == ast.NodeSection && !claimed[id] {
			r.section(n, nil)
		}
	}
}

// section turns one panic or fatal-error block into a runtime observation.
// Frames come from the goroutine dump with the harness plumbing dropped;
// a dump with nothing left falls back to the owning case's name.
func (r *resolveRun) section(sec *ast.Node, caseFrames []string) {
	frames := filterFrames(sec.FieldAll("frame"))
	if len(frames) == 0 {
		frames = caseFrames
	}
	if len(frames) == 0 {
		if name, ok := sec.Field("case"); ok {
			frames = strings.Split(name, "/")
		}
	}
	r.out = append(r.out, ir.Observation{
		Kind:      ir.DevRuntime,
		ValueKind: ir.ValueText,
		ActualRaw: sec.FieldOr("panic", ""),
		Location:  frontend.NodeLocation(sec),
		Frames:    frames,
	})
}

// diagnostic classifies one compiler or vet diagnostic. A "cannot use"
// mismatch carries both sides of the type; an undefined name becomes a
// type deviation enriched through the provider; the rest stay build
// deviations with the message as printed.
func (r *resolveRun) diagnostic(n *ast.Node) {
	msg := n.FieldOr("msg", "")
	if msg == "" {
		return
	}
	loc := frontend.NodeLocation(n)

	if want, got, ok := typeMismatch(msg); ok {
		r.out = append(r.out, ir.Observation{
			Kind:        ir.DevType,
			ValueKind:   ir.ValueType,
			ExpectedRaw: want,
			ActualRaw:   got,
			Location:    loc,
		})
		return
	}

	obs := ir.Observation{
		Kind:      ir.DevBuild,
		ValueKind: ir.ValueText,
		ActualRaw: msg,
		Location:  loc,
	}
	if name, ok := strings.CutPrefix(msg, "undefined: "); ok {
		obs.Kind = ir.DevType
		obs.Hint, obs.ProviderDegraded = frontend.EnrichName(r.ctx, r.provider, firstWord(name), loc)
	}
	r.out = append(r.out, obs)
}

func (r *resolveRun) childrenOfKind(n *ast.Node, kind ast.NodeKind) []*ast.Node {
	var out []*ast.Node
	for _, id := range n.Children {
		if c := r.tree.Get(id); c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// parentOfFailing reports whether name is an ancestor of another failing
// case. The runner marks every ancestor of a failing subtest as failed
// too; only the deepest name carries information.
func parentOfFailing(name string, failing []string) bool {
	prefix := name + "/"
	for _, other := range failing {
		if strings.HasPrefix(other, prefix) {
			return true
		}
	}
	return false
}

func filterFrames(frames []string) []string {
	var kept []string
	for _, f := range frames {
		if plumbing(f) {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// typeMismatch takes apart the compiler's "cannot use X (variable of type
// A) as B value in ..." message, covering the older "(type A) as type B"
// wording as well.
func typeMismatch(msg string) (want, got string, ok bool) {
	rest, found := strings.CutPrefix(msg, "cannot use ")
	if !found {
		return "", "", false
	}
	i := strings.LastIndex(rest, ") as ")
	if i < 0 {
		return "", "", false
	}
	head, tail := rest[:i], rest[i+len(") as "):]

	if j := strings.LastIndex(head, " of type "); j >= 0 {
		got = head[j+len(" of type "):]
	} else {
		j := strings.LastIndex(head, " (")
		if j < 0 {
			return "", "", false
		}
		got = strings.TrimPrefix(head[j+len(" ("):], "type ")
	}

	want = strings.TrimPrefix(tail, "type ")
	if k := strings.Index(want, " value"); k >= 0 {
		want = want[:k]
	} else if k := strings.Index(want, " in "); k >= 0 {
		want = want[:k]
	}
	if want == "" || got == "" {
		return "", "", false
	}
	return want, got, true
}

// firstWord trims an undefined-name message down to the identifier itself.
func firstWord(s string) string {
	if i := strings.IndexAny(s, " \t("); i >= 0 {
		return s[:i]
	}
	return s
}
