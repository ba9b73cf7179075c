package reduce

import (
	"sort"

	"drift/internal/ir"
)

// dedup collapses deviations sharing an ID into one representative each.
// Output order is first appearance per ID; rank reorders afterwards.
func dedup(devs []ir.Deviation, maxAlt int) []ir.Deviation {
	if len(devs) == 0 {
		return nil
	}
	groups := make(map[string][]ir.Deviation, len(devs))
	order := make([]string, 0, len(devs))
	for _, d := range devs {
		if _, ok := groups[d.ID]; !ok {
			order = append(order, d.ID)
		}
		groups[d.ID] = append(groups[d.ID], d)
	}
	out := make([]ir.Deviation, 0, len(order))
	for _, id := range order {
		out = append(out, merge(groups[id], maxAlt))
	}
	return out
}

// merge elects the representative of one ID group and folds the rest of
// the group into it as route evidence. Discarded members lose nothing the
// representative cannot answer for: their traces land in AltTraces up to
// the bound, and RouteCount stays the true total past it.
func merge(group []ir.Deviation, maxAlt int) ir.Deviation {
	sort.SliceStable(group, func(i, j int) bool {
		return preferred(group[i], group[j])
	})
	rep := group[0]

	routes := 0
	var alts []ir.Trace
	add := func(t ir.Trace) {
		if t.Empty() || t.Equal(rep.Trace) || len(alts) >= maxAlt {
			return
		}
		for i := range alts {
			if alts[i].Equal(t) {
				return
			}
		}
		alts = append(alts, t)
	}
	for _, d := range group {
		routes += routeCount(d)
		add(d.Trace)
		for _, t := range d.AltTraces {
			add(t)
		}
	}
	rep.AltTraces = alts
	rep.RouteCount = routes
	return rep
}

// preferred reports whether a is the better representative of two
// deviations sharing an ID: highest confidence wins, then the shortest
// trace, then the smallest location, then the smallest frame names, then
// the smallest raw text. Every field the two can differ in is compared,
// so the election never falls back to arrival order.
func preferred(a, b ir.Deviation) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if a.Trace.Depth() != b.Trace.Depth() {
		return a.Trace.Depth() < b.Trace.Depth()
	}
	if c := a.Location.Compare(b.Location); c != 0 {
		return c < 0
	}
	// Depths are equal here, so frames line up index for index.
	for i := range a.Trace.Frames {
		if a.Trace.Frames[i] != b.Trace.Frames[i] {
			return a.Trace.Frames[i] < b.Trace.Frames[i]
		}
	}
	if a.Trace.Truncated != b.Trace.Truncated {
		return !a.Trace.Truncated
	}
	if a.Expected.Raw != b.Expected.Raw {
		return a.Expected.Raw < b.Expected.Raw
	}
	return a.Actual.Raw < b.Actual.Raw
}

// routeCount reads how many observations a deviation already stands for.
// Fresh canonicalizer output carries zero, which counts as one route.
func routeCount(d ir.Deviation) int {
	if d.RouteCount > 0 {
		return d.RouteCount
	}
	return 1
}
