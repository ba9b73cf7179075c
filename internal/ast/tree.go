package ast

import (
	"drift/internal/source"
)

// Tree is the structural view of one tool report. It is built once by a
// front end's structure builder and read-only afterwards.
type Tree struct {
	Nodes *Arena[Node]
	Root  NodeID
	File  source.FileID
}

// Get returns the node for id, or nil for NoNodeID.
func (t *Tree) Get(id NodeID) *Node {
	return t.Nodes.Get(uint32(id))
}

// Walk visits id and its subtree in preorder. Children are visited in
// stored order. Walk stops early when visit returns false.
func (t *Tree) Walk(id NodeID, visit func(id NodeID, n *Node) bool) bool {
	n := t.Get(id)
	if n == nil {
		return true
	}
	if !visit(id, n) {
		return false
	}
	for _, child := range n.Children {
		if !t.Walk(child, visit) {
			return false
		}
	}
	return true
}

// CountKind returns how many nodes of the given kind the subtree under the
// root contains.
func (t *Tree) CountKind(kind NodeKind) int {
	count := 0
	t.Walk(t.Root, func(_ NodeID, n *Node) bool {
		if n.Kind == kind {
			count++
		}
		return true
	})
	return count
}
