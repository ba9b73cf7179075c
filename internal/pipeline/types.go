// Package pipeline defines the stages of a compilation run and the
// progress plumbing the driver reports through.
package pipeline

import "time"

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StageTokenize is the lexing stage.
	StageTokenize Stage = "tokenize"
	// StageStructure is the tree building stage.
	StageStructure Stage = "structure"
	// StageResolve is the expectation resolution stage.
	StageResolve Stage = "resolve"
	// StageCanonicalize is the normalization stage.
	StageCanonicalize Stage = "canonicalize"
	// StageReduce is the dedup, rank, and cluster stage.
	StageReduce Stage = "reduce"
	// StageFinalize is the report sealing stage.
	StageFinalize Stage = "finalize"
)

// Stages lists the phases in pipeline order.
func Stages() []Stage {
	return []Stage{
		StageTokenize,
		StageStructure,
		StageResolve,
		StageCanonicalize,
		StageReduce,
		StageFinalize,
	}
}

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the input is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the stage is done.
	StatusDone Status = "done"
	// StatusError indicates the stage failed.
	StatusError Status = "error"
)

// Event reports progress for one input (or for the whole batch when
// Input is empty).
type Event struct {
	Input   string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds stage durations for one run.
type Timings struct {
	stages map[Stage]time.Duration
}

func (t *Timings) ensure() {
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
}

// Set stores a duration for the given stage.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	t.ensure()
	t.stages[stage] = dur
}

// Has reports whether a duration for stage is recorded.
func (t Timings) Has(stage Stage) bool {
	if t.stages == nil {
		return false
	}
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	return t.stages[stage]
}

// Sum returns the sum of durations across the provided stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}
