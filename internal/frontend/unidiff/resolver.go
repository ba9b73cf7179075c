package unidiff

import (
	"context"
	"strings"

	"drift/internal/ast"
	"drift/internal/codectx"
	"drift/internal/ir"
)

// resolver turns each hunk into one behavioral observation: the removed
// block is the recorded expectation, the added block the behavior that
// replaced it. Diffs carry no names worth a provider query, so the
// provider goes unused.
type resolver struct{}

func (resolver) Resolve(_ context.Context, tree *ast.Tree, _ codectx.Provider) []ir.Observation {
	r := &resolveRun{tree: tree}
	root := tree.Get(tree.Root)
	if root == nil {
		return nil
	}
	for _, id := range root.Children {
		if n := tree.Get(id); n.Kind == ast.NodeSuite {
			r.suite(n)
		}
	}
	return r.out
}

type resolveRun struct {
	tree *ast.Tree
	out  []ir.Observation
}

func (r *resolveRun) suite(suite *ast.Node) {
	file := suite.FieldOr("name", "")
	for _, id := range suite.Children {
		n := r.tree.Get(id)
		if n.Kind != ast.NodeHunk {
			continue
		}
		expected := strings.Join(n.FieldAll("del"), "\n")
		actual := strings.Join(n.FieldAll("add"), "\n")
		if strings.TrimSpace(expected) == "" && strings.TrimSpace(actual) == "" {
			// pure context or blank-line churn: nothing observable
			continue
		}
		r.out = append(r.out, ir.Observation{
			Kind:        ir.DevBehavioral,
			ValueKind:   ir.ValueLines,
			ExpectedRaw: expected,
			ActualRaw:   actual,
			Location:    hunkLocation(file, n),
		})
	}
}

// hunkLocation anchors a hunk at its post-change start line; a pure
// deletion has no post-change lines, so the pre-change start stands in.
func hunkLocation(file string, n *ast.Node) ir.Location {
	if file == "" {
		return ir.Location{}
	}
	line := atoi(n.FieldOr("newstart", "0"))
	if line == 0 {
		line = atoi(n.FieldOr("oldstart", "0"))
	}
	if line == 0 {
		return ir.Location{}
	}
	return ir.Location{File: file, Line: uint32(line)}
}
