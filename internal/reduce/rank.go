package reduce

import (
	"sort"

	"drift/internal/ir"
)

// rank sorts deviations into report order. The order is total, so any
// permutation of the same deviations ranks identically.
func rank(devs []ir.Deviation) {
	sort.SliceStable(devs, func(i, j int) bool {
		return less(devs[i], devs[j])
	})
}

// less is the report order: kind severity first (the DevKind constant
// order, a build break blocks everything behind it), then confidence
// descending, then location, then ID as the final tie-break.
func less(a, b ir.Deviation) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if c := a.Location.Compare(b.Location); c != 0 {
		return c < 0
	}
	return a.ID < b.ID
}
