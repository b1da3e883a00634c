package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"appicon/internal/pipeline"
	"appicon/internal/processor"
)

func TestModelAccumulates(t *testing.T) {
	updates := make(chan processor.ProgressUpdate)
	var m tea.Model = NewModel("appicon", updates)

	for _, u := range []processor.ProgressUpdate{
		{TotalDelta: 2},
		{Percent: 40, Step: "Generated Icon (20x20)"},
		{Percent: 30},
		{ProcessedDelta: 1, IconDelta: 19, BytesDelta: 2048},
		{ErrorDelta: 1},
	} {
		next, _ := m.Update(updateMsg(u))
		m = next
	}
	model := m.(Model)
	if model.total != 2 || model.processed != 1 || model.errors != 1 || model.icons != 19 || model.bytes != 2048 {
		t.Fatalf("unexpected totals %+v", model)
	}
	if model.percent != 40 {
		t.Fatalf("percent must not go backwards, got %v", model.percent)
	}
	view := model.View()
	if !strings.Contains(view, "Generated Icon (20x20)") || !strings.Contains(view, "Logos: 1/2") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestRatioFallback(t *testing.T) {
	m := Model{total: 4, processed: 1}
	if got := m.Ratio(); got != 0.25 {
		t.Fatalf("ratio %v", got)
	}
	m.percent = 150
	if got := m.Ratio(); got != 1 {
		t.Fatalf("ratio must clamp, got %v", got)
	}
}

func TestRenderBar(t *testing.T) {
	if got := renderBar(10, 0.5); got != "[=====     ]" {
		t.Fatalf("bar %q", got)
	}
	if got := renderBar(4, 2); got != "[====]" {
		t.Fatalf("bar %q", got)
	}
}

func TestFromPipeline(t *testing.T) {
	msgs := make(chan pipeline.Message, 4)
	msgs <- pipeline.Message{Type: pipeline.TypeProgress, Payload: pipeline.ProgressPayload{Progress: 50, CurrentStep: "half"}}
	msgs <- pipeline.Message{Type: pipeline.TypeComplete, Payload: pipeline.CompletePayload{
		ProcessedIcons: []pipeline.ProcessedIcon{{Data: []byte("abc")}, {Data: []byte("de")}},
	}}
	close(msgs)

	var got []processor.ProgressUpdate
	for u := range FromPipeline(msgs) {
		got = append(got, u)
	}
	if len(got) != 3 {
		t.Fatalf("got %d updates", len(got))
	}
	if got[0].TotalDelta != 1 || got[1].Percent != 50 || got[2].IconDelta != 2 || got[2].BytesDelta != 5 {
		t.Fatalf("unexpected updates %+v", got)
	}
}

func TestHumanBytes(t *testing.T) {
	tests := map[int64]string{
		512:     "512 B",
		2048:    "2.0 KiB",
		5 << 20: "5.0 MiB",
	}
	for in, want := range tests {
		if got := HumanBytes(in); got != want {
			t.Errorf("HumanBytes(%d) = %q, want %q", in, got, want)
		}
	}
}
