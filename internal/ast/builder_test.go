package ast_test

import (
	"testing"

	"drift/internal/ast"
	"drift/internal/source"
)

func span(start, end uint32) source.Span {
	return source.Span{File: 1, Start: start, End: end}
}

func TestBuilderNesting(t *testing.T) {
	b := ast.NewBuilder(1, 0)

	suite := b.Open(ast.NodeSuite, span(0, 10))
	b.SetField("name", "auth")
	caseID := b.Open(ast.NodeCase, span(2, 8))
	b.SetField("status", "fail")
	b.Leaf(ast.NodeAssertion, span(4, 6),
		ast.Field{Key: "expected", Val: "401"},
		ast.Field{Key: "actual", Val: "403"})
	b.Close() // case
	b.Close() // suite

	tree := b.Finish()

	root := tree.Get(tree.Root)
	if root.Kind != ast.NodeRoot {
		t.Fatalf("root kind = %v", root.Kind)
	}
	if len(root.Children) != 1 || root.Children[0] != suite {
		t.Fatalf("root children = %v", root.Children)
	}

	sn := tree.Get(suite)
	if got, _ := sn.Field("name"); got != "auth" {
		t.Errorf("suite name = %q", got)
	}
	if len(sn.Children) != 1 || sn.Children[0] != caseID {
		t.Fatalf("suite children = %v", sn.Children)
	}

	cn := tree.Get(caseID)
	if cn.Parent != suite {
		t.Errorf("case parent = %v, want %v", cn.Parent, suite)
	}
	if got := cn.FieldOr("status", ""); got != "fail" {
		t.Errorf("status = %q", got)
	}
	if len(cn.Children) != 1 {
		t.Fatalf("case children = %v", cn.Children)
	}

	an := tree.Get(cn.Children[0])
	if an.Kind != ast.NodeAssertion {
		t.Errorf("leaf kind = %v", an.Kind)
	}
	if got, _ := an.Field("expected"); got != "401" {
		t.Errorf("expected field = %q", got)
	}
}

func TestBuilderSpanContainment(t *testing.T) {
	b := ast.NewBuilder(1, 0)

	// child spans deliberately wider than what the parent was opened with
	b.Open(ast.NodeSuite, span(5, 6))
	b.Leaf(ast.NodeCase, span(2, 20))
	b.Leaf(ast.NodeCase, span(30, 44))
	b.Close()
	tree := b.Finish()

	var violations int
	tree.Walk(tree.Root, func(_ ast.NodeID, n *ast.Node) bool {
		for _, childID := range n.Children {
			child := tree.Get(childID)
			if !n.Span.Contains(child.Span) {
				violations++
			}
		}
		return true
	})
	if violations != 0 {
		t.Fatalf("%d span containment violations", violations)
	}
}

func TestBuilderFinishClosesOpenNodes(t *testing.T) {
	b := ast.NewBuilder(1, 0)
	b.Open(ast.NodeSuite, span(0, 5))
	b.Open(ast.NodeCase, span(1, 4))
	if b.Depth() != 3 {
		t.Fatalf("depth = %d, want 3", b.Depth())
	}

	tree := b.Finish()
	root := tree.Get(tree.Root)
	if len(root.Children) != 1 {
		t.Fatalf("root children = %d", len(root.Children))
	}
	if !root.Span.Contains(tree.Get(root.Children[0]).Span) {
		t.Error("root span must cover the auto-closed suite")
	}
}

func TestFieldRepetitionKeepsOrder(t *testing.T) {
	b := ast.NewBuilder(1, 0)
	b.Open(ast.NodeCase, span(0, 10))
	b.SetField("frame", "test_auth_invalid_token")
	b.SetField("frame", "validate_token")
	b.SetField("frame", "token_expired")
	b.Close()
	tree := b.Finish()

	caseNode := tree.Get(tree.Get(tree.Root).Children[0])
	frames := caseNode.FieldAll("frame")
	want := []string{"test_auth_invalid_token", "validate_token", "token_expired"}
	if len(frames) != len(want) {
		t.Fatalf("frames = %v", frames)
	}
	for i := range want {
		if frames[i] != want[i] {
			t.Errorf("frame %d = %q, want %q", i, frames[i], want[i])
		}
	}
}
