package ast

import (
	"drift/internal/source"
)

// Builder assembles a Tree front to back. Open/Close nest nodes; the root
// is opened by NewBuilder and closed by Finish. Parent spans widen to
// cover everything their children claim, so span containment holds by
// construction no matter what spans a grammar hands in.
type Builder struct {
	tree  *Tree
	stack []NodeID
}

// NewBuilder starts a tree for the given capture with an open root node.
func NewBuilder(file source.FileID, capHint uint) *Builder {
	if capHint == 0 {
		capHint = 1 << 7
	}
	b := &Builder{
		tree:  &Tree{Nodes: NewArena[Node](capHint), File: file},
		stack: make([]NodeID, 0, 8),
	}
	root := b.tree.Nodes.Allocate(Node{
		Kind: NodeRoot,
		Span: source.Span{File: file},
	})
	b.tree.Root = NodeID(root)
	b.stack = append(b.stack, NodeID(root))
	return b
}

// Open starts a child node under the current one and makes it current.
func (b *Builder) Open(kind NodeKind, sp source.Span) NodeID {
	parent := b.current()
	id := NodeID(b.tree.Nodes.Allocate(Node{
		Kind:   kind,
		Span:   sp,
		Parent: parent,
	}))
	pn := b.tree.Get(parent)
	pn.Children = append(pn.Children, id)
	b.stack = append(b.stack, id)
	return id
}

// Close finishes the current node and widens its ancestors to cover it.
func (b *Builder) Close() {
	if len(b.stack) <= 1 {
		return
	}
	id := b.current()
	b.stack = b.stack[:len(b.stack)-1]
	b.cover(b.tree.Get(id).Span)
}

// Leaf adds a childless node under the current one.
func (b *Builder) Leaf(kind NodeKind, sp source.Span, fields ...Field) NodeID {
	id := b.Open(kind, sp)
	n := b.tree.Get(id)
	n.Fields = append(n.Fields, fields...)
	b.Close()
	return id
}

// SetField appends a payload field to the current node.
func (b *Builder) SetField(key, val string) {
	n := b.tree.Get(b.current())
	n.Fields = append(n.Fields, Field{Key: key, Val: val})
}

// Extend widens the current node's span to cover sp.
func (b *Builder) Extend(sp source.Span) {
	n := b.tree.Get(b.current())
	if n.Span.Empty() && n.Span.Start == 0 {
		n.Span = sp
		return
	}
	n.Span = n.Span.Cover(sp)
}

// Current returns the node being built.
func (b *Builder) Current() *Node {
	return b.tree.Get(b.current())
}

// Depth reports how many nodes are open, the root included.
func (b *Builder) Depth() int {
	return len(b.stack)
}

// Finish closes everything still open and seals the tree.
func (b *Builder) Finish() *Tree {
	for len(b.stack) > 1 {
		b.Close()
	}
	return b.tree
}

func (b *Builder) current() NodeID {
	return b.stack[len(b.stack)-1]
}

// cover widens every open ancestor so the closed child stays contained.
func (b *Builder) cover(sp source.Span) {
	if sp.Empty() && sp.Start == 0 {
		return
	}
	for _, id := range b.stack {
		n := b.tree.Get(id)
		if n.Span.Empty() && n.Span.Start == 0 {
			n.Span = sp
			continue
		}
		n.Span = n.Span.Cover(sp)
	}
}
