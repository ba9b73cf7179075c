package pipeline

import (
	"fmt"
	"time"
)

// Clock measures the stages of one run and the run's wall time. A run is
// straight-line, so at most one stage is open at a time.
type Clock struct {
	wall    time.Time
	stage   Stage
	started time.Time
	timings Timings
}

// NewClock starts the wall timer.
func NewClock() *Clock {
	return &Clock{wall: time.Now()}
}

// Begin opens a stage, closing any stage still open.
func (c *Clock) Begin(stage Stage) {
	c.End()
	c.stage = stage
	c.started = time.Now()
}

// End closes the open stage and records its duration. Ending with no
// stage open does nothing.
func (c *Clock) End() {
	if c.stage == "" {
		return
	}
	c.timings.Set(c.stage, time.Since(c.started))
	c.stage = ""
}

// Elapsed returns the duration of the stage most recently recorded.
func (c *Clock) Elapsed(stage Stage) time.Duration {
	return c.timings.Duration(stage)
}

// Wall returns time elapsed since the clock started.
func (c *Clock) Wall() time.Duration {
	return time.Since(c.wall)
}

// Timings returns the recorded stage durations.
func (c *Clock) Timings() Timings {
	return c.timings
}

// StageReport is one stage's share of a run, shaped for serialization.
type StageReport struct {
	Stage      string  `json:"stage"`
	DurationMS float64 `json:"duration_ms"`
}

// RunReport aggregates a run's timings in milliseconds.
type RunReport struct {
	WallMS  float64       `json:"wall_ms"`
	TotalMS float64       `json:"total_ms"`
	Stages  []StageReport `json:"stages"`
}

// Report renders recorded stages in pipeline order.
func (t Timings) Report(wall time.Duration) RunReport {
	report := RunReport{WallMS: durationToMillis(wall)}
	var total time.Duration
	for _, stage := range Stages() {
		if !t.Has(stage) {
			continue
		}
		dur := t.Duration(stage)
		total += dur
		report.Stages = append(report.Stages, StageReport{
			Stage:      string(stage),
			DurationMS: durationToMillis(dur),
		})
	}
	report.TotalMS = durationToMillis(total)
	return report
}

// Summary returns a human-readable block summarizing the run.
func (r RunReport) Summary() string {
	out := "timings:\n"
	for _, s := range r.Stages {
		out += fmt.Sprintf("  %-14s %7.2f ms\n", s.Stage, s.DurationMS)
	}
	out += fmt.Sprintf("  %-14s %7.2f ms\n", "total", r.TotalMS)
	out += fmt.Sprintf("  %-14s %7.2f ms\n", "wall", r.WallMS)
	return out
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
