package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"drift/internal/driver"
	"drift/internal/pipeline"
	"drift/internal/ui"
)

type batchOutcome struct {
	results []driver.BatchResult
	err     error
}

// runBatchWithUI compiles the batch behind the progress TUI fed from the
// pipeline's event stream. The pipeline outcome always wins over a UI
// error: rendering trouble must not drop compiled reports.
func runBatchWithUI(ctx context.Context, title string, inputs []driver.Input, opts driver.Options, jobs int) ([]driver.BatchResult, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = pipeline.ChannelSink{Ch: events}
		results, err := driver.New(optsCopy).CompileBatch(ctx, inputs, jobs)
		outcomeCh <- batchOutcome{results: results, err: err}
		close(events)
	}()

	names := make([]string, len(inputs))
	for i, in := range inputs {
		names[i] = in.Name
	}
	model := ui.NewProgressModel(title, names, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}

// runBatchPlain compiles the batch with a line-per-capture event log on w
// for runs without a terminal.
func runBatchPlain(ctx context.Context, w io.Writer, inputs []driver.Input, opts driver.Options, jobs int) ([]driver.BatchResult, error) {
	events := make(chan pipeline.Event, 256)
	drained := make(chan struct{})

	go func() {
		defer close(drained)
		for ev := range events {
			switch {
			case ev.Status == pipeline.StatusError && ev.Err != nil:
				fmt.Fprintf(w, "%s: %s: %v\n", ev.Input, ev.Stage, ev.Err)
			case ev.Status == pipeline.StatusDone && ev.Stage == pipeline.StageFinalize:
				fmt.Fprintf(w, "%s: compiled\n", ev.Input)
			}
		}
	}()

	optsCopy := opts
	optsCopy.Progress = pipeline.ChannelSink{Ch: events}
	results, err := driver.New(optsCopy).CompileBatch(ctx, inputs, jobs)
	close(events)
	<-drained
	return results, err
}
