// Package report defines the sealed deviation report: the reducer's
// output frozen together with the provenance of the run that produced
// it. Everything downstream of sealing is read-only.
package report

import (
	"drift/internal/ir"
	"drift/internal/reduce"
)

// Report is a finished compilation: ranked deviations, clusters, and
// provenance. Reports are sealed once and never modified.
type Report struct {
	devs     []ir.Deviation
	clusters []reduce.Cluster
	prov     Provenance
}

// Seal freezes a reduced result into a report. The result's slices pass
// into the report's ownership; callers must not modify them afterwards.
func Seal(res reduce.Result, prov Provenance) *Report {
	return &Report{
		devs:     res.Deviations,
		clusters: res.Clusters,
		prov:     prov,
	}
}

// Len returns the number of deviations.
func (r *Report) Len() int {
	return len(r.devs)
}

// Empty reports whether the run surfaced no deviations.
func (r *Report) Empty() bool {
	return len(r.devs) == 0
}

// At returns the deviation at rank i.
func (r *Report) At(i int) ir.Deviation {
	return r.devs[i]
}

// Deviations returns the ranked deviations.
// Callers must not modify the returned slice.
func (r *Report) Deviations() []ir.Deviation {
	return r.devs
}

// Clusters returns the clusters in rank order of their best member.
// Callers must not modify the returned slice.
func (r *Report) Clusters() []reduce.Cluster {
	return r.clusters
}

// Provenance returns the run's provenance.
func (r *Report) Provenance() Provenance {
	return r.prov
}
