package reportfmt

import (
	"encoding/json"
	"io"
	"time"

	"drift/internal/ir"
	"drift/internal/pipeline"
	"drift/internal/report"
)

// LocationJSON is a deviation location for JSON output.
type LocationJSON struct {
	File string `json:"file"`
	Line uint32 `json:"line"`
	Col  uint32 `json:"col,omitempty"`
}

// ValueJSON is one side of a deviation for JSON output.
type ValueJSON struct {
	Kind      string `json:"kind"`
	Canonical string `json:"canonical"`
	Raw       string `json:"raw,omitempty"`
}

// TraceJSON is a failure route for JSON output.
type TraceJSON struct {
	Frames    []string `json:"frames"`
	Truncated bool     `json:"truncated,omitempty"`
}

// DeviationJSON is one ranked deviation for JSON output.
type DeviationJSON struct {
	ID         string        `json:"id"`
	Kind       string        `json:"kind"`
	Summary    string        `json:"summary"`
	Expected   *ValueJSON    `json:"expected,omitempty"`
	Actual     *ValueJSON    `json:"actual,omitempty"`
	Location   *LocationJSON `json:"location,omitempty"`
	Confidence float64       `json:"confidence"`
	Hint       string        `json:"hint,omitempty"`
	Trace      *TraceJSON    `json:"trace,omitempty"`
	AltTraces  []TraceJSON   `json:"alt_traces,omitempty"`
	RouteCount int           `json:"route_count,omitempty"`
}

// ClusterMemberJSON is one non-best cluster member reference.
type ClusterMemberJSON struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
}

// ClusterJSON is one shared-route cluster for JSON output.
type ClusterJSON struct {
	Kind  string              `json:"kind"`
	Frame string              `json:"frame"`
	Size  int                 `json:"size"`
	Best  string              `json:"best"`
	Rest  []ClusterMemberJSON `json:"rest,omitempty"`
}

// ProvenanceJSON is the run provenance for JSON output.
type ProvenanceJSON struct {
	Tool            string                 `json:"tool"`
	RunID           string                 `json:"run_id"`
	StartedAt       time.Time              `json:"started_at"`
	DurationMS      float64                `json:"duration_ms"`
	Seen            int                    `json:"seen"`
	Retained        int                    `json:"retained"`
	Partial         bool                   `json:"partial,omitempty"`
	PartialNote     string                 `json:"partial_note,omitempty"`
	TruncatedTraces bool                   `json:"truncated_traces,omitempty"`
	Stages          []pipeline.StageReport `json:"stages,omitempty"`
}

// ReportOutput is the root JSON structure.
type ReportOutput struct {
	Deviations []DeviationJSON `json:"deviations"`
	Count      int             `json:"count"`
	Clusters   []ClusterJSON   `json:"clusters,omitempty"`
	Provenance *ProvenanceJSON `json:"provenance,omitempty"`
}

// BuildReportOutput assembles the JSON structure without serializing it.
func BuildReportOutput(rep *report.Report, opts JSONOpts) ReportOutput {
	devs := rep.Deviations()
	count := len(devs)
	if opts.Max > 0 && opts.Max < count {
		count = opts.Max
	}

	out := ReportOutput{Deviations: make([]DeviationJSON, 0, count)}
	for i := 0; i < count; i++ {
		out.Deviations = append(out.Deviations, deviationJSON(devs[i], opts))
	}
	out.Count = len(out.Deviations)

	for _, c := range rep.Clusters() {
		cj := ClusterJSON{
			Kind:  c.Kind.String(),
			Frame: c.Frame,
			Size:  c.Size(),
			Best:  c.Best.ID,
		}
		for _, ref := range c.Rest {
			cj.Rest = append(cj.Rest, ClusterMemberJSON{ID: ref.ID, Summary: ref.Summary})
		}
		out.Clusters = append(out.Clusters, cj)
	}

	if opts.IncludeProvenance {
		prov := rep.Provenance()
		pj := &ProvenanceJSON{
			Tool:            prov.Tool,
			RunID:           prov.RunID.String(),
			StartedAt:       prov.StartedAt,
			DurationMS:      float64(prov.Duration) / float64(time.Millisecond),
			Seen:            prov.Seen,
			Retained:        prov.Retained,
			Partial:         prov.Partial,
			PartialNote:     prov.PartialNote,
			TruncatedTraces: prov.TruncatedTraces,
		}
		pj.Stages = prov.Stages.Report(prov.Duration).Stages
		out.Provenance = pj
	}
	return out
}

// JSON serializes the report.
func JSON(w io.Writer, rep *report.Report, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReportOutput(rep, opts))
}

func deviationJSON(d ir.Deviation, opts JSONOpts) DeviationJSON {
	dj := DeviationJSON{
		ID:         d.ID,
		Kind:       d.Kind.String(),
		Summary:    d.Summary,
		Confidence: d.Confidence,
		Hint:       d.Hint,
		RouteCount: d.RouteCount,
	}
	if d.Expected.Canonical != "" || d.Expected.Raw != "" {
		dj.Expected = valueJSON(d.Expected, opts)
	}
	if d.Actual.Canonical != "" || d.Actual.Raw != "" {
		dj.Actual = valueJSON(d.Actual, opts)
	}
	if d.Location.Valid() {
		dj.Location = &LocationJSON{File: d.Location.File, Line: d.Location.Line, Col: d.Location.Col}
	}
	if opts.IncludeTraces {
		if !d.Trace.Empty() {
			dj.Trace = &TraceJSON{Frames: d.Trace.Frames, Truncated: d.Trace.Truncated}
		}
		for _, alt := range d.AltTraces {
			dj.AltTraces = append(dj.AltTraces, TraceJSON{Frames: alt.Frames, Truncated: alt.Truncated})
		}
	}
	return dj
}

func valueJSON(v ir.Value, opts JSONOpts) *ValueJSON {
	vj := &ValueJSON{Kind: v.Kind.String(), Canonical: v.Canonical}
	if opts.IncludeRaw {
		vj.Raw = v.Raw
	}
	return vj
}
