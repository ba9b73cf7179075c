package frontend

import (
	"strconv"
	"strings"

	"drift/internal/ast"
	"drift/internal/ir"
)

// SplitLocation splits a PATH:LINE[:COL] token text. A missing or malformed
// line number yields line 0 so callers treat the location as absent.
func SplitLocation(s string) (file string, line, col uint32) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return s, 0, 0
	}
	n, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return s, 0, 0
	}
	var c uint64
	if len(parts) >= 3 {
		c, _ = strconv.ParseUint(parts[2], 10, 32)
	}
	return parts[0], uint32(n), uint32(c)
}

// NodeLocation reads the file/line/col payload fields builders store on
// located nodes; a node without a file field has no location.
func NodeLocation(n *ast.Node) ir.Location {
	file, ok := n.Field("file")
	if !ok {
		return ir.Location{}
	}
	line, _ := strconv.ParseUint(n.FieldOr("line", "0"), 10, 32)
	col, _ := strconv.ParseUint(n.FieldOr("col", "0"), 10, 32)
	return ir.Location{File: file, Line: uint32(line), Col: uint32(col)}
}
