package ui

import (
	"strings"
	"testing"

	"drift/internal/pipeline"
)

func newTestModel(names ...string) *progressModel {
	events := make(chan pipeline.Event)
	return NewProgressModel("compiling captures", names, events).(*progressModel)
}

func TestApplyEventTracksStatus(t *testing.T) {
	m := newTestModel("a.txt", "b.txt")

	m.applyEvent(pipeline.Event{Input: "a.txt", Stage: pipeline.StageResolve, Status: pipeline.StatusWorking})
	if m.items[0].status != "resolving" {
		t.Errorf("status = %q, want resolving", m.items[0].status)
	}

	m.applyEvent(pipeline.Event{Input: "a.txt", Stage: pipeline.StageFinalize, Status: pipeline.StatusDone})
	if m.items[0].status != "done" {
		t.Errorf("status = %q, want done", m.items[0].status)
	}

	m.applyEvent(pipeline.Event{Input: "b.txt", Stage: pipeline.StageTokenize, Status: pipeline.StatusError})
	if !m.items[1].failed || m.items[1].status != "error" {
		t.Errorf("item = %+v, want failed", m.items[1])
	}

	// events for unknown inputs are dropped, not crashed on
	m.applyEvent(pipeline.Event{Input: "stray.txt", Status: pipeline.StatusDone})
}

func TestViewListsCaptures(t *testing.T) {
	m := newTestModel("alpha.txt", "beta.txt")

	out := m.View()
	for _, want := range []string{"alpha.txt", "beta.txt", "queued", "compiling captures"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestDoneMessageQuits(t *testing.T) {
	m := newTestModel("a.txt")

	model, cmd := m.Update(doneMsg{})
	if cmd == nil {
		t.Fatal("done must trigger quit")
	}
	out := model.View()
	if !strings.Contains(out, "done:") {
		t.Errorf("view missing done header:\n%s", out)
	}
}

func TestStageLabels(t *testing.T) {
	for _, stage := range pipeline.Stages() {
		if stageLabel(stage) == "" {
			t.Errorf("stage %s has no label", stage)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 20); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	if got := truncate("a-very-long-capture-name.txt", 10); len(got) > 10 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate(long) = %q", got)
	}
}
