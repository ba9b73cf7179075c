package report

import (
	"fmt"
	"strings"
)

// FormatGolden renders a report into a stable, single-line-per-deviation
// representation suitable for golden assertions. Lines keep rank order so
// a golden captures ranking too, and carry the identity fields only: kind,
// location, and both canonical values. Confidence and traces stay out;
// they are heuristic and assert through bounds instead. Returns the empty
// string for an empty report.
func FormatGolden(r *Report) string {
	if r == nil || r.Empty() {
		return ""
	}
	var b strings.Builder
	for i, d := range r.devs {
		loc := "?"
		if d.Location.Valid() {
			loc = d.Location.String()
		}
		fmt.Fprintf(&b, "%s %s expected=%q actual=%q", d.Kind, loc, d.Expected.Canonical, d.Actual.Canonical)
		if i < r.Len()-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
