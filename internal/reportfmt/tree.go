package reportfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"drift/internal/ast"
	"drift/internal/source"
)

// FieldOutput is one node payload entry for JSON output. Payload order is
// preserved and keys repeat, so this is a list, not a map.
type FieldOutput struct {
	Key string `json:"key"`
	Val string `json:"val"`
}

// NodeOutput is one structure node for JSON output.
type NodeOutput struct {
	Kind     string        `json:"kind"`
	Line     uint32        `json:"line,omitempty"`
	Fields   []FieldOutput `json:"fields,omitempty"`
	Children []NodeOutput  `json:"children,omitempty"`
}

// FormatTreePretty draws the structure tree with box-drawing connectors,
// one node per line: kind, start line, then the payload as key=val pairs.
func FormatTreePretty(w io.Writer, file *source.File, tree *ast.Tree) error {
	root := tree.Get(tree.Root)
	if root == nil {
		fmt.Fprintln(w, "<empty tree>")
		return nil
	}
	fmt.Fprintf(w, "%s: %s\n", file.Path, nodeLabel(file, root))
	writeChildren(w, file, tree, root, "")
	return nil
}

func writeChildren(w io.Writer, file *source.File, tree *ast.Tree, n *ast.Node, prefix string) {
	for i, id := range n.Children {
		child := tree.Get(id)
		connector, childPrefix := "├─ ", prefix+"│  "
		if i == len(n.Children)-1 {
			connector, childPrefix = "└─ ", prefix+"   "
		}
		fmt.Fprintf(w, "%s%s%s\n", prefix, connector, nodeLabel(file, child))
		writeChildren(w, file, tree, child, childPrefix)
	}
}

func nodeLabel(file *source.File, n *ast.Node) string {
	var sb strings.Builder
	sb.WriteString(n.Kind.String())
	if line := file.Pos(n.Span.Start).Line; line > 0 {
		fmt.Fprintf(&sb, " L%d", line)
	}
	for _, f := range n.Fields {
		if strings.ContainsAny(f.Val, " \t") || f.Val == "" {
			fmt.Fprintf(&sb, " %s=%q", f.Key, f.Val)
		} else {
			fmt.Fprintf(&sb, " %s=%s", f.Key, f.Val)
		}
	}
	return sb.String()
}

// FormatTreeJSON serializes the structure tree.
func FormatTreeJSON(w io.Writer, file *source.File, tree *ast.Tree) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(nodeJSON(file, tree, tree.Root))
}

func nodeJSON(file *source.File, tree *ast.Tree, id ast.NodeID) NodeOutput {
	n := tree.Get(id)
	if n == nil {
		return NodeOutput{Kind: "missing"}
	}
	out := NodeOutput{
		Kind: n.Kind.String(),
		Line: file.Pos(n.Span.Start).Line,
	}
	for _, f := range n.Fields {
		out.Fields = append(out.Fields, FieldOutput{Key: f.Key, Val: f.Val})
	}
	for _, child := range n.Children {
		out.Children = append(out.Children, nodeJSON(file, tree, child))
	}
	return out
}
