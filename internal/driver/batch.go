package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"drift/internal/pipeline"
	"drift/internal/report"
)

// Input is one capture in a batch.
type Input struct {
	Name string
	Tool string
	Raw  []byte
}

// BatchResult pairs an input with its outcome. Exactly one of Report and
// Err is set: per-capture failures are results, not batch failures.
type BatchResult struct {
	Name   string
	Report *report.Report
	Err    error
}

// CompileBatch compiles independent captures in parallel, at most jobs at
// a time (non-positive means GOMAXPROCS). Results keep input order. The
// returned error is cancellation only; everything else lands in the
// per-input results.
func (p *Pipeline) CompileBatch(ctx context.Context, inputs []Input, jobs int) ([]BatchResult, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	for _, in := range inputs {
		p.emit(in.Name, pipeline.StageTokenize, pipeline.StatusQueued, nil, 0)
	}

	results := make([]BatchResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(inputs)))
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rep, err := p.compile(gctx, in.Tool, in.Name, in.Raw)
			// Index i is unique per goroutine; no lock needed.
			results[i] = BatchResult{Name: in.Name, Report: rep, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
