package report_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"drift/internal/ir"
	"drift/internal/pipeline"
	"drift/internal/reduce"
	"drift/internal/report"
)

// sampleResult is a plausible reduced run: a type break, a clustered
// pair of test failures, alternate routes, a truncated trace.
func sampleResult() reduce.Result {
	typ := ir.Deviation{
		ID:         "7f3a9c01d2e4b566",
		Kind:       ir.DevType,
		Expected:   ir.Value{Kind: ir.ValueType, Canonical: "string", Raw: "string"},
		Actual:     ir.Value{Kind: ir.ValueType, Canonical: "int", Raw: "int"},
		Location:   ir.Location{File: "conv.go", Line: 7, Col: 15},
		Trace:      ir.Trace{Frames: []string{"build"}, Truncated: true},
		Confidence: 0.9,
		Summary:    "type: expected string, got int at conv.go:7",
		Hint:       "toLabel was renamed to formatLabel 2 commits ago",
		RouteCount: 1,
	}
	auth := ir.Deviation{
		ID:         "0011223344556677",
		Kind:       ir.DevTest,
		Expected:   ir.Value{Kind: ir.ValueNumber, Canonical: "403", Raw: "403"},
		Actual:     ir.Value{Kind: ir.ValueNumber, Canonical: "401", Raw: "401"},
		Location:   ir.Location{File: "auth_test.go", Line: 42},
		Trace:      ir.Trace{Frames: []string{"TestAuth", "expired"}},
		Confidence: 1.0,
		Summary:    "test: expected 403, got 401 at auth_test.go:42",
		AltTraces:  []ir.Trace{{Frames: []string{"TestAuth"}}},
		RouteCount: 2,
	}
	valid := ir.Deviation{
		ID:         "8899aabbccddeeff",
		Kind:       ir.DevTest,
		Expected:   ir.Value{Kind: ir.ValueNumber, Canonical: "200", Raw: "200"},
		Actual:     ir.Value{Kind: ir.ValueNumber, Canonical: "500", Raw: "500"},
		Location:   ir.Location{File: "auth_test.go", Line: 50},
		Trace:      ir.Trace{Frames: []string{"TestAuth", "valid"}},
		Confidence: 1.0,
		Summary:    "test: expected 200, got 500 at auth_test.go:50",
		RouteCount: 1,
	}
	return reduce.Result{
		Deviations: []ir.Deviation{typ, auth, valid},
		Clusters: []reduce.Cluster{{
			Kind:  ir.DevTest,
			Frame: "TestAuth",
			Best:  auth,
			Rest:  []reduce.ClusterRef{{ID: valid.ID, Summary: valid.Summary}},
		}},
	}
}

func sampleProvenance() report.Provenance {
	prov := report.NewProvenance("go-test")
	prov.Duration = 42 * time.Millisecond
	prov.Stages.Set(pipeline.StageTokenize, 5*time.Millisecond)
	prov.Stages.Set(pipeline.StageReduce, 7*time.Millisecond)
	prov.Seen = 4
	prov.Retained = 3
	prov.Partial = true
	prov.PartialNote = "package result arrived before any case"
	prov.TruncatedTraces = true
	return prov
}

func TestSealAccessors(t *testing.T) {
	res := sampleResult()
	prov := sampleProvenance()
	r := report.Seal(res, prov)

	require.Equal(t, 3, r.Len())
	assert.False(t, r.Empty())
	assert.Equal(t, res.Deviations[0], r.At(0))
	assert.Empty(t, cmp.Diff(res.Deviations, r.Deviations()))
	assert.Empty(t, cmp.Diff(res.Clusters, r.Clusters()))
	assert.Equal(t, prov.RunID, r.Provenance().RunID)
	assert.Equal(t, "go-test", r.Provenance().Tool)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	r := report.Seal(sampleResult(), sampleProvenance())
	path := filepath.Join(t.TempDir(), "run.drift")
	require.NoError(t, report.Save(path, r))

	loaded, err := report.Load(path)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(r.Deviations(), loaded.Deviations()))
	assert.Empty(t, cmp.Diff(r.Clusters(), loaded.Clusters()))

	want, got := r.Provenance(), loaded.Provenance()
	assert.Equal(t, want.Tool, got.Tool)
	assert.Equal(t, want.RunID, got.RunID)
	assert.True(t, got.StartedAt.Equal(want.StartedAt), "StartedAt = %v, want %v", got.StartedAt, want.StartedAt)
	assert.Equal(t, want.Duration, got.Duration)
	assert.Equal(t, want.Seen, got.Seen)
	assert.Equal(t, want.Retained, got.Retained)
	assert.Equal(t, want.Partial, got.Partial)
	assert.Equal(t, want.PartialNote, got.PartialNote)
	assert.Equal(t, want.TruncatedTraces, got.TruncatedTraces)
	for _, stage := range pipeline.Stages() {
		assert.Equal(t, want.Stages.Duration(stage), got.Stages.Duration(stage), "stage %s", stage)
	}
}

func TestSaveLoadEmptyReport(t *testing.T) {
	r := report.Seal(reduce.Result{}, report.NewProvenance("unified-diff"))
	path := filepath.Join(t.TempDir(), "nested", "dir", "empty.drift")
	require.NoError(t, report.Save(path, r), "parent directories are created")

	loaded, err := report.Load(path)
	require.NoError(t, err)
	assert.True(t, loaded.Empty())
	assert.Zero(t, loaded.Len())
	assert.Empty(t, cmp.Diff(r.Deviations(), loaded.Deviations(), cmpopts.EquateEmpty()))
	assert.Empty(t, cmp.Diff(r.Clusters(), loaded.Clusters(), cmpopts.EquateEmpty()))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := report.Load(filepath.Join(t.TempDir(), "absent.drift"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadSchemaMismatch(t *testing.T) {
	raw, err := msgpack.Marshal(map[string]any{"Schema": uint16(9999)})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "future.drift")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	_, err = report.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema")
}

func TestFormatGolden(t *testing.T) {
	r := report.Seal(sampleResult(), sampleProvenance())
	want := `type conv.go:7:15 expected="string" actual="int"
test auth_test.go:42 expected="403" actual="401"
test auth_test.go:50 expected="200" actual="500"`
	assert.Equal(t, want, report.FormatGolden(r))
}

func TestFormatGoldenEmpty(t *testing.T) {
	r := report.Seal(reduce.Result{}, report.NewProvenance("go-test"))
	assert.Equal(t, "", report.FormatGolden(r))
	assert.Equal(t, "", report.FormatGolden(nil))
}
