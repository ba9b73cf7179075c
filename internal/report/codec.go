package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"drift/internal/ir"
	"drift/internal/pipeline"
	"drift/internal/reduce"
)

// Current schema version - increment when reportPayload format changes.
const reportSchemaVersion uint16 = 1

// reportPayload is the on-disk shape of a sealed report. Domain types
// never serialize themselves; the payload flattens them so the schema
// stays stable while the domain moves.
type reportPayload struct {
	Schema uint16

	Tool       string
	RunID      string
	StartedAt  time.Time
	DurationNS int64

	// Stage timings as parallel arrays, pipeline order.
	StageNames []string
	StageNS    []int64

	Seen            int
	Retained        int
	Partial         bool
	PartialNote     string
	TruncatedTraces bool

	Deviations []deviationPayload
	Clusters   []clusterPayload
}

type valuePayload struct {
	Kind      uint8
	Canonical string
	Raw       string
}

type locationPayload struct {
	File string
	Line uint32
	Col  uint32
}

type tracePayload struct {
	Frames    []string
	Truncated bool
}

type deviationPayload struct {
	ID         string
	Kind       uint8
	Expected   valuePayload
	Actual     valuePayload
	Location   locationPayload
	Trace      tracePayload
	Confidence float64
	Summary    string
	Hint       string
	AltTraces  []tracePayload
	RouteCount int
}

// clusterPayload references its members by ID; the best member is
// reconstructed from the deviation list on load.
type clusterPayload struct {
	Kind    uint8
	Frame   string
	BestID  string
	RestIDs []string
	RestSum []string
}

// Save writes the report to path atomically: encode into a temp file in
// the target directory, then rename over the destination.
func Save(path string, r *Report) error {
	if r == nil {
		return fmt.Errorf("nil report")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if tmp != "" {
			_ = os.Remove(tmp)
		}
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(toPayload(r)); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return err
	}
	tmp = ""
	return nil
}

// Load reads a report written by Save. Schema mismatches and dangling
// cluster references are errors, not silent drops.
func Load(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var payload reportPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode report %q: %w", path, err)
	}
	if payload.Schema != reportSchemaVersion {
		return nil, fmt.Errorf("report %q: schema %d, want %d", path, payload.Schema, reportSchemaVersion)
	}
	return fromPayload(&payload)
}

func toPayload(r *Report) *reportPayload {
	prov := r.Provenance()
	payload := &reportPayload{
		Schema:          reportSchemaVersion,
		Tool:            prov.Tool,
		RunID:           prov.RunID.String(),
		StartedAt:       prov.StartedAt,
		DurationNS:      int64(prov.Duration),
		Seen:            prov.Seen,
		Retained:        prov.Retained,
		Partial:         prov.Partial,
		PartialNote:     prov.PartialNote,
		TruncatedTraces: prov.TruncatedTraces,
	}
	for _, stage := range pipeline.Stages() {
		if !prov.Stages.Has(stage) {
			continue
		}
		payload.StageNames = append(payload.StageNames, string(stage))
		payload.StageNS = append(payload.StageNS, int64(prov.Stages.Duration(stage)))
	}
	payload.Deviations = make([]deviationPayload, len(r.devs))
	for i, d := range r.devs {
		payload.Deviations[i] = deviationToPayload(d)
	}
	payload.Clusters = make([]clusterPayload, len(r.clusters))
	for i, c := range r.clusters {
		cp := clusterPayload{
			Kind:   uint8(c.Kind),
			Frame:  c.Frame,
			BestID: c.Best.ID,
		}
		for _, ref := range c.Rest {
			cp.RestIDs = append(cp.RestIDs, ref.ID)
			cp.RestSum = append(cp.RestSum, ref.Summary)
		}
		payload.Clusters[i] = cp
	}
	return payload
}

func fromPayload(payload *reportPayload) (*Report, error) {
	runID, err := uuid.Parse(payload.RunID)
	if err != nil {
		return nil, fmt.Errorf("report run id: %w", err)
	}
	if len(payload.StageNames) != len(payload.StageNS) {
		return nil, fmt.Errorf("report timings: %d names, %d durations", len(payload.StageNames), len(payload.StageNS))
	}
	prov := Provenance{
		Tool:            payload.Tool,
		RunID:           runID,
		StartedAt:       payload.StartedAt,
		Duration:        time.Duration(payload.DurationNS),
		Seen:            payload.Seen,
		Retained:        payload.Retained,
		Partial:         payload.Partial,
		PartialNote:     payload.PartialNote,
		TruncatedTraces: payload.TruncatedTraces,
	}
	for i, name := range payload.StageNames {
		prov.Stages.Set(pipeline.Stage(name), time.Duration(payload.StageNS[i]))
	}

	devs := make([]ir.Deviation, len(payload.Deviations))
	byID := make(map[string]ir.Deviation, len(payload.Deviations))
	for i, dp := range payload.Deviations {
		d := deviationFromPayload(dp)
		devs[i] = d
		byID[d.ID] = d
	}

	clusters := make([]reduce.Cluster, 0, len(payload.Clusters))
	for _, cp := range payload.Clusters {
		best, ok := byID[cp.BestID]
		if !ok {
			return nil, fmt.Errorf("report cluster references unknown deviation %s", cp.BestID)
		}
		if len(cp.RestIDs) != len(cp.RestSum) {
			return nil, fmt.Errorf("report cluster %s: %d ids, %d summaries", cp.BestID, len(cp.RestIDs), len(cp.RestSum))
		}
		c := reduce.Cluster{
			Kind:  ir.DevKind(cp.Kind),
			Frame: cp.Frame,
			Best:  best,
		}
		for i, id := range cp.RestIDs {
			c.Rest = append(c.Rest, reduce.ClusterRef{ID: id, Summary: cp.RestSum[i]})
		}
		clusters = append(clusters, c)
	}
	if len(clusters) == 0 {
		clusters = nil
	}

	return &Report{devs: devs, clusters: clusters, prov: prov}, nil
}

func deviationToPayload(d ir.Deviation) deviationPayload {
	dp := deviationPayload{
		ID:         d.ID,
		Kind:       uint8(d.Kind),
		Expected:   valuePayload{Kind: uint8(d.Expected.Kind), Canonical: d.Expected.Canonical, Raw: d.Expected.Raw},
		Actual:     valuePayload{Kind: uint8(d.Actual.Kind), Canonical: d.Actual.Canonical, Raw: d.Actual.Raw},
		Location:   locationPayload{File: d.Location.File, Line: d.Location.Line, Col: d.Location.Col},
		Trace:      tracePayload{Frames: d.Trace.Frames, Truncated: d.Trace.Truncated},
		Confidence: d.Confidence,
		Summary:    d.Summary,
		Hint:       d.Hint,
		RouteCount: d.RouteCount,
	}
	for _, alt := range d.AltTraces {
		dp.AltTraces = append(dp.AltTraces, tracePayload{Frames: alt.Frames, Truncated: alt.Truncated})
	}
	return dp
}

func deviationFromPayload(dp deviationPayload) ir.Deviation {
	d := ir.Deviation{
		ID:         dp.ID,
		Kind:       ir.DevKind(dp.Kind),
		Expected:   ir.Value{Kind: ir.ValueKind(dp.Expected.Kind), Canonical: dp.Expected.Canonical, Raw: dp.Expected.Raw},
		Actual:     ir.Value{Kind: ir.ValueKind(dp.Actual.Kind), Canonical: dp.Actual.Canonical, Raw: dp.Actual.Raw},
		Location:   ir.Location{File: dp.Location.File, Line: dp.Location.Line, Col: dp.Location.Col},
		Trace:      ir.Trace{Frames: dp.Trace.Frames, Truncated: dp.Trace.Truncated},
		Confidence: dp.Confidence,
		Summary:    dp.Summary,
		Hint:       dp.Hint,
		RouteCount: dp.RouteCount,
	}
	for _, alt := range dp.AltTraces {
		d.AltTraces = append(d.AltTraces, ir.Trace{Frames: alt.Frames, Truncated: alt.Truncated})
	}
	return d
}
