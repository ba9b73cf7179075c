// Package reduce collapses duplicate deviations, fixes the report order,
// and groups failures that share a root frame. It is the last judgement
// stage before a report is sealed: everything after it only formats.
package reduce

import "drift/internal/ir"

// Result carries the surviving deviations in final rank order and the
// clusters layered on top of them.
type Result struct {
	Deviations []ir.Deviation
	Clusters   []Cluster
}

// Reducer dedups, ranks, and clusters canonical deviations. Reduction is
// pure and deterministic: the input slice is never mutated, and the same
// multiset of deviations reduces to the same result regardless of arrival
// order. Reducing a reduced result changes nothing.
type Reducer struct {
	limits ir.Limits
}

// New returns a Reducer bounded by the given limits.
func New(limits ir.Limits) *Reducer {
	return &Reducer{limits: limits}
}

// Reduce collapses duplicates, sorts the survivors into rank order, and
// builds clusters. Empty input reduces to an empty, valid result.
func (r *Reducer) Reduce(devs []ir.Deviation) Result {
	merged := dedup(devs, r.limits.MaxAltTraces)
	rank(merged)
	return Result{
		Deviations: merged,
		Clusters:   cluster(merged),
	}
}
