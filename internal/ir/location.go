package ir

import (
	"fmt"
	"strings"
)

// Location points into the code under test, as reported by the tool. A
// zero Location means the tool reported none; locations are never invented
// downstream. Col is optional and 0 when the tool omits it.
type Location struct {
	File string
	Line uint32
	Col  uint32
}

// Valid reports whether the tool actually provided a location.
func (l Location) Valid() bool {
	return l.File != "" && l.Line >= 1
}

// String renders file:line or file:line:col; "?" for an absent location.
func (l Location) String() string {
	if !l.Valid() {
		return "?"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:%d", l.File, l.Line)
	if l.Col >= 1 {
		fmt.Fprintf(&sb, ":%d", l.Col)
	}
	return sb.String()
}

// Compare orders locations file-first, then line, then column. Absent
// locations sort after present ones so ranked reports surface locatable
// deviations first.
func (l Location) Compare(other Location) int {
	if l.Valid() != other.Valid() {
		if l.Valid() {
			return -1
		}
		return 1
	}
	if c := strings.Compare(l.File, other.File); c != 0 {
		return c
	}
	if l.Line != other.Line {
		if l.Line < other.Line {
			return -1
		}
		return 1
	}
	if l.Col != other.Col {
		if l.Col < other.Col {
			return -1
		}
		return 1
	}
	return 0
}
