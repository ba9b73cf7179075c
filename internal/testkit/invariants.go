// Package testkit holds structural invariant checkers shared by tests
// across packages. Production code never imports it.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"drift/internal/ast"
	"drift/internal/report"
	"drift/internal/source"
)

// CheckTreeInvariants runs a minimal set of span invariants on a built tree:
// 1) the root span stays within the capture's content bounds
// 2) every node's span is fully contained in its parent's span
// 3) siblings appear in input order and child Parent links point back
func CheckTreeInvariants(tree *ast.Tree, sf *source.File) error {
	if tree == nil || sf == nil {
		return fmt.Errorf("nil tree or capture")
	}
	root := tree.Get(tree.Root)
	if root == nil {
		return fmt.Errorf("root node not found")
	}
	if root.Kind != ast.NodeRoot {
		return fmt.Errorf("root node has kind %s", root.Kind)
	}
	if root.Span.File != sf.ID {
		return fmt.Errorf("root span points to different capture: got=%d want=%d", root.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if root.Span.End > lenContent {
		return fmt.Errorf("root span end beyond content: %d > %d", root.Span.End, lenContent)
	}

	var fail error
	tree.Walk(tree.Root, func(id ast.NodeID, n *ast.Node) bool {
		prevStart := uint32(0)
		for i, childID := range n.Children {
			child := tree.Get(childID)
			if child == nil {
				fail = fmt.Errorf("nil child %d of node %d", childID, id)
				return false
			}
			if child.Parent != id {
				fail = fmt.Errorf("child %d has parent %d, want %d", childID, child.Parent, id)
				return false
			}
			if !n.Span.Contains(child.Span) {
				fail = fmt.Errorf("child span %v escapes parent span %v", child.Span, n.Span)
				return false
			}
			if i > 0 && child.Span.Start < prevStart {
				fail = fmt.Errorf("children of node %d out of input order at %v", id, child.Span)
				return false
			}
			prevStart = child.Span.Start
		}
		return true
	})
	return fail
}

// CheckReportInvariants verifies the ordering and accounting a sealed
// report promises:
// 1) confidences stay within (0, 1]
// 2) deviations are ranked: kind ascending, confidence descending per kind
// 3) deviation IDs are unique and non-empty
// 4) provenance accounting matches the deviation list
// 5) every cluster has at least two members, of the cluster's kind, and
// every Rest member references a ranked deviation other than Best
func CheckReportInvariants(rep *report.Report) error {
	if rep == nil {
		return fmt.Errorf("nil report")
	}
	devs := rep.Deviations()
	seen := make(map[string]bool, len(devs))
	for i, d := range devs {
		if d.Confidence <= 0 || d.Confidence > 1 {
			return fmt.Errorf("deviation %d confidence %v out of range", i, d.Confidence)
		}
		if d.ID == "" {
			return fmt.Errorf("deviation %d has empty id", i)
		}
		if seen[d.ID] {
			return fmt.Errorf("duplicate deviation id %s", d.ID)
		}
		seen[d.ID] = true
		if i == 0 {
			continue
		}
		prev := devs[i-1]
		if d.Kind < prev.Kind {
			return fmt.Errorf("rank %d breaks kind order: %s after %s", i, d.Kind, prev.Kind)
		}
		if d.Kind == prev.Kind && d.Confidence > prev.Confidence {
			return fmt.Errorf("rank %d breaks confidence order within %s: %v after %v", i, d.Kind, d.Confidence, prev.Confidence)
		}
	}

	prov := rep.Provenance()
	if prov.Retained != len(devs) {
		return fmt.Errorf("provenance retained=%d but report holds %d deviations", prov.Retained, len(devs))
	}
	if prov.Seen < prov.Retained {
		return fmt.Errorf("provenance seen=%d < retained=%d", prov.Seen, prov.Retained)
	}

	for _, c := range rep.Clusters() {
		if c.Size() < 2 {
			return fmt.Errorf("cluster on %s has %d members, want at least 2", c.Frame, c.Size())
		}
		if c.Frame == "" {
			return fmt.Errorf("cluster for %s has empty frame", c.Best.ID)
		}
		if c.Best.Kind != c.Kind {
			return fmt.Errorf("cluster kind %s but best member is %s", c.Kind, c.Best.Kind)
		}
		if !seen[c.Best.ID] {
			return fmt.Errorf("cluster best %s is not a ranked deviation", c.Best.ID)
		}
		for _, ref := range c.Rest {
			if !seen[ref.ID] {
				return fmt.Errorf("cluster member %s is not a ranked deviation", ref.ID)
			}
			if ref.ID == c.Best.ID {
				return fmt.Errorf("cluster member %s repeats the best member", ref.ID)
			}
		}
	}
	return nil
}
