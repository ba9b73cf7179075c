// Package driver orchestrates the pipeline: it owns stage sequencing,
// cancellation, timing, and progress reporting, and hands each run's
// state from stage to stage with exclusive ownership.
package driver

import (
	"context"
	"time"

	"drift/internal/codectx"
	"drift/internal/frontend"
	"drift/internal/ir"
	"drift/internal/pipeline"
	"drift/internal/reduce"
	"drift/internal/report"
	"drift/internal/source"
	"drift/internal/token"
)

// Options configures a Pipeline.
type Options struct {
	// Registry maps tool identities to front ends. Nil means the default
	// registry with every built-in tool.
	Registry *frontend.Registry
	// Provider supplies code context for hint enrichment. Nil disables
	// enrichment; resolvers degrade the affected observations instead.
	Provider codectx.Provider
	// Limits bounds traces, alternate routes, and provider queries. The
	// zero value means ir.DefaultLimits.
	Limits ir.Limits
	// Progress receives stage events. Nil drops them.
	Progress pipeline.ProgressSink
}

// Pipeline turns tool captures into sealed deviation reports. It is
// immutable after New and safe for concurrent use: every invocation owns
// its run state exclusively, so runs share nothing but the registry and
// the provider.
type Pipeline struct {
	reg      *frontend.Registry
	provider codectx.Provider
	limits   ir.Limits
	progress pipeline.ProgressSink
}

// New builds a Pipeline from opts.
func New(opts Options) *Pipeline {
	p := &Pipeline{
		reg:      opts.Registry,
		limits:   opts.Limits,
		progress: opts.Progress,
	}
	if p.reg == nil {
		p.reg = DefaultRegistry()
	}
	if p.limits == (ir.Limits{}) {
		p.limits = ir.DefaultLimits()
	}
	if opts.Provider != nil {
		p.provider = codectx.Bound(opts.Provider, p.limits.ProviderTimeout)
	}
	return p
}

// Compile runs the full pipeline on one capture. The returned error is
// fatal only: an unknown tool, an untokenizable capture, a front-end
// contract breach, or cancellation. Structural trouble degrades into the
// report's provenance instead of failing, and a clean capture with no
// deviations seals an empty report.
func (p *Pipeline) Compile(ctx context.Context, tool string, raw []byte) (*report.Report, error) {
	return p.compile(ctx, tool, "capture", raw)
}

func (p *Pipeline) compile(ctx context.Context, tool, name string, raw []byte) (*report.Report, error) {
	fe, err := p.reg.Lookup(tool)
	if err != nil {
		p.emit(name, pipeline.StageTokenize, pipeline.StatusError, err, 0)
		return nil, err
	}

	prov := report.NewProvenance(tool)
	clock := pipeline.NewClock()
	run := &run{p: p, name: name, clock: clock}

	if err := run.begin(ctx, pipeline.StageTokenize); err != nil {
		return nil, err
	}
	file := newCapture(name, raw)
	toks, lerr := collectTokens(fe, file)
	if lerr != nil {
		return nil, run.fail(lerr)
	}
	run.done()

	if err := run.begin(ctx, pipeline.StageStructure); err != nil {
		return nil, err
	}
	tree, perr := fe.Builder.Build(file, toks)
	if perr != nil {
		prov.Partial = true
		prov.PartialNote = perr.Reason
	}
	run.done()

	if err := run.begin(ctx, pipeline.StageResolve); err != nil {
		return nil, err
	}
	obs := fe.Resolver.Resolve(ctx, tree, p.provider)
	run.done()

	if err := run.begin(ctx, pipeline.StageCanonicalize); err != nil {
		return nil, err
	}
	canon := ir.NewCanonicalizer(p.limits)
	devs := make([]ir.Deviation, 0, len(obs))
	for _, o := range obs {
		d, ok, cerr := canon.Canonicalize(o)
		if cerr != nil {
			return nil, run.fail(cerr)
		}
		if !ok {
			continue
		}
		if d.Trace.Truncated {
			prov.TruncatedTraces = true
		}
		devs = append(devs, d)
	}
	run.done()

	if err := run.begin(ctx, pipeline.StageReduce); err != nil {
		return nil, err
	}
	res := reduce.New(p.limits).Reduce(devs)
	run.done()

	if err := run.begin(ctx, pipeline.StageFinalize); err != nil {
		return nil, err
	}
	prov.Seen = len(obs)
	prov.Retained = len(res.Deviations)
	run.done()

	prov.Duration = clock.Wall()
	prov.Stages = clock.Timings()
	return report.Seal(res, prov), nil
}

// run tracks the event and timing bookkeeping of one invocation so the
// stage sequence in compile reads straight-line.
type run struct {
	p     *Pipeline
	name  string
	stage pipeline.Stage
	clock *pipeline.Clock
}

// begin opens a stage unless the run is cancelled. A cancelled run
// finalizes no report.
func (r *run) begin(ctx context.Context, stage pipeline.Stage) error {
	if err := ctx.Err(); err != nil {
		r.p.emit(r.name, stage, pipeline.StatusError, err, 0)
		return err
	}
	r.stage = stage
	r.clock.Begin(stage)
	r.p.emit(r.name, stage, pipeline.StatusWorking, nil, 0)
	return nil
}

// done closes the open stage.
func (r *run) done() {
	r.clock.End()
	r.p.emit(r.name, r.stage, pipeline.StatusDone, nil, r.clock.Elapsed(r.stage))
}

// fail closes the open stage with err and hands err back.
func (r *run) fail(err error) error {
	r.clock.End()
	r.p.emit(r.name, r.stage, pipeline.StatusError, err, r.clock.Elapsed(r.stage))
	return err
}

func (p *Pipeline) emit(input string, stage pipeline.Stage, status pipeline.Status, err error, elapsed time.Duration) {
	if p.progress == nil {
		return
	}
	p.progress.OnEvent(pipeline.Event{Input: input, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}

// newCapture wraps raw bytes as a virtual source file.
func newCapture(name string, raw []byte) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual(name, raw))
}

func collectTokens(fe *frontend.Frontend, file *source.File) ([]token.Token, *frontend.LexError) {
	lx := fe.NewLexer(file, nil)
	toks := frontend.Collect(lx)
	return toks, lx.Err()
}
