package cargotest

import (
	"context"
	"fmt"
	"strings"

	"drift/internal/ast"
	"drift/internal/codectx"
	"drift/internal/frontend"
	"drift/internal/ir"
)

// resolver extracts observations from the structure tree. Failing cases
// join their stdout sections by test name; diagnostics classify into type
// or build deviations, with the code-context provider enriching missing
// names.
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
			r.section(n)
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

// suite pairs failing cases with their stdout sections. Sections no case
// claims, as partial parses leave behind, still resolve on their own.
func (r *resolveRun) suite(suite *ast.Node) {
	sections := make(map[string]ast.NodeID)
	claimed := make(map[ast.NodeID]bool)

	for _, id := range suite.Children {
		n := r.tree.Get(id)
		switch n.Kind {
		case ast.NodeSection:
			if name, ok := n.Field("name"); ok {
				sections[name] = id
			}
		case ast.NodeDiagnostic:
			r.diagnostic(n)
		}
	}

	for _, id := range suite.Children {
		n := r.tree.Get(id)
		if n.Kind != ast.NodeCase || n.FieldOr("status", "") != "fail" {
			continue
		}
		name := n.FieldOr("name", "")
		if secID := sections[name]; secID != ast.NoNodeID {
			claimed[secID] = true
			r.section(r.tree.Get(secID))
			continue
		}
		// a failure with no stdout block: the status itself is the
		// observation, the case name its one-frame trace
		r.out = append(r.out, ir.Observation{
			Kind:        ir.DevTest,
			ValueKind:   ir.ValueStatus,
			ExpectedRaw: "pass",
			ActualRaw:   "fail",
			Frames:      []string{name},
		})
	}

	for _, id := range suite.Children {
		n := r.tree.Get(id)
		if n.Kind == ast.NodeSection && !claimed[id] {
			r.section(n)
		}
	}
}

// section turns one failing-case stdout block into its observation:
// an assertion pair when one was captured, otherwise the panic message,
// otherwise the bare failed status.
func (r *resolveRun) section(sec *ast.Node) {
	loc := frontend.NodeLocation(sec)
	frames := filterFrames(sec.FieldAll("frame"))
	if len(frames) == 0 {
		if name, ok := sec.Field("name"); ok {
			frames = []string{name}
		}
	}

	if a := r.childOfKind(sec, ast.NodeAssertion); a != nil {
		left := a.FieldOr("left", "")
		right := a.FieldOr("right", "")
		if strings.TrimSpace(left) != "" || strings.TrimSpace(right) != "" {
			expected := right
			if a.FieldOr("op", "==") == "!=" {
				// assert_ne reports equal sides; the expectation is
				// anything but the right value
				expected = "not " + right
			}
			r.out = append(r.out, ir.Observation{
				Kind:        ir.DevTest,
				ExpectedRaw: expected,
				ActualRaw:   left,
				Location:    loc,
				Frames:      frames,
			})
			return
		}
	}

	if msg, ok := sec.Field("panic"); ok && strings.TrimSpace(msg) != "" {
		r.out = append(r.out, ir.Observation{
			Kind:      ir.DevRuntime,
			ValueKind: ir.ValueText,
			ActualRaw: msg,
			Location:  loc,
			Frames:    frames,
		})
		return
	}

	r.out = append(r.out, ir.Observation{
		Kind:        ir.DevTest,
		ValueKind:   ir.ValueStatus,
		ExpectedRaw: "pass",
		ActualRaw:   "fail",
		Location:    loc,
		Frames:      frames,
	})
}

// diagnostic classifies one rustc diagnostic. A captured expected/found
// pair makes it a type deviation; an unresolvable name makes it a type
// deviation enriched through the provider; everything else is a build
// deviation carrying the headline.
func (r *resolveRun) diagnostic(n *ast.Node) {
	msg := n.FieldOr("msg", "")
	if msg == "" || isDiagChatter(msg) {
		return
	}
	loc := frontend.NodeLocation(n)

	if exp, ok := n.Field("expected"); ok {
		r.out = append(r.out, ir.Observation{
			Kind:        ir.DevType,
			ValueKind:   ir.ValueType,
			ExpectedRaw: exp,
			ActualRaw:   n.FieldOr("found", ""),
			Location:    loc,
		})
		return
	}

	obs := ir.Observation{
		Kind:      ir.DevBuild,
		ValueKind: ir.ValueText,
		ActualRaw: headline(n.FieldOr("severity", "error"), n.FieldOr("code", ""), msg),
		Location:  loc,
	}
	if name, ok := missingName(msg); ok {
		obs.Kind = ir.DevType
		obs.Hint, obs.ProviderDegraded = r.enrich(name, loc)
	}
	r.out = append(r.out, obs)
}

func (r *resolveRun) enrich(name string, loc ir.Location) (hint string, degraded bool) {
	return frontend.EnrichName(r.ctx, r.provider, name, loc)
}

func (r *resolveRun) childOfKind(n *ast.Node, kind ast.NodeKind) *ast.Node {
	for _, id := range n.Children {
		if c := r.tree.Get(id); c.Kind == kind {
			return c
		}
	}
	return nil
}

// panicPlumbing lists the unwinder frame prefixes cargo prints above the
// code under test; they say nothing about where a failure lives.
var panicPlumbing = []string{
	"rust_begin_unwind",
	"rust_panic",
	"core::panicking::",
	"std::panicking::",
	"core::panic::",
	"std::rt::",
	"__rust",
}

func filterFrames(frames []string) []string {
	var kept []string
	for _, f := range frames {
		if isPlumbing(f) {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

func isPlumbing(frame string) bool {
	for _, prefix := range panicPlumbing {
		if strings.HasPrefix(frame, prefix) {
			return true
		}
	}
	return false
}

// missingName extracts the symbol from name-resolution failures such as
// "cannot find function `get_user` in this scope".
func missingName(msg string) (string, bool) {
	if !strings.HasPrefix(msg, "cannot find ") && !strings.Contains(msg, "no method named") {
		return "", false
	}
	start := strings.IndexByte(msg, '`')
	if start < 0 {
		return "", false
	}
	end := strings.IndexByte(msg[start+1:], '`')
	if end <= 0 {
		return "", false
	}
	return msg[start+1 : start+1+end], true
}

// headline rebuilds the diagnostic's first line for display and hashing.
func headline(sev, code, msg string) string {
	if code != "" {
		return fmt.Sprintf("%s[%s]: %s", sev, code, msg)
	}
	return fmt.Sprintf("%s: %s", sev, msg)
}

// isDiagChatter matches the closing summaries cargo emits about other
// diagnostics; they never represent a deviation of their own.
func isDiagChatter(msg string) bool {
	switch {
	case strings.HasPrefix(msg, "aborting due to"):
		return true
	case strings.HasPrefix(msg, "could not compile"):
		return true
	case strings.Contains(msg, ") generated ") && strings.Contains(msg, "warning"):
		return true
	}
	return false
}
