package ast

import (
	"drift/internal/source"
)

// NodeKind classifies one structural unit of a tool report.
type NodeKind uint8

const (
	// NodeInvalid indicates an erroneous node.
	NodeInvalid NodeKind = iota
	// NodeRoot is the single root of a report tree.
	NodeRoot
	// NodeSuite groups the cases of one test run or one diffed file pair.
	NodeSuite
	// NodeCase is a single test case with a pass/fail/skip status field.
	NodeCase
	// NodeAssertion carries an expected/actual pair a failing case asserted.
	NodeAssertion
	// NodeDiagnostic is a build or type error/warning with an optional code.
	NodeDiagnostic
	// NodeHunk is one diff hunk with its added/removed/context lines.
	NodeHunk
	// NodeSection is a named auxiliary block, such as a captured stdout
	// region or a failure summary listing.
	NodeSection
	// NodeUnstructured is tool chatter no grammar rule claimed.
	NodeUnstructured
)

// String returns the string representation of NodeKind.
func (k NodeKind) String() string {
	switch k {
	case NodeInvalid:
		return "Invalid"
	case NodeRoot:
		return "Root"
	case NodeSuite:
		return "Suite"
	case NodeCase:
		return "Case"
	case NodeAssertion:
		return "Assertion"
	case NodeDiagnostic:
		return "Diagnostic"
	case NodeHunk:
		return "Hunk"
	case NodeSection:
		return "Section"
	case NodeUnstructured:
		return "Unstructured"
	default:
		return "Unknown"
	}
}

// Field is one tool-specific key/value pair of a node's payload. Payloads
// stay ordered and allow repeated keys; stack frames, for example, repeat
// the "frame" key once per frame, outermost first.
type Field struct {
	Key string
	Val string
}

// Node is one structural unit. Children are ordered by appearance in the
// input and every child's span lies inside its parent's span.
type Node struct {
	Kind     NodeKind
	Span     source.Span
	Parent   NodeID
	Children []NodeID
	Fields   []Field
}

// Field returns the first value for key.
func (n *Node) Field(key string) (string, bool) {
	for _, f := range n.Fields {
		if f.Key == key {
			return f.Val, true
		}
	}
	return "", false
}

// FieldOr returns the first value for key, or def when absent.
func (n *Node) FieldOr(key, def string) string {
	if v, ok := n.Field(key); ok {
		return v
	}
	return def
}

// FieldAll returns every value for key in payload order.
func (n *Node) FieldAll(key string) []string {
	var vals []string
	for _, f := range n.Fields {
		if f.Key == key {
			vals = append(vals, f.Val)
		}
	}
	return vals
}
