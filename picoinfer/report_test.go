package picoinfer

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestWriteReport(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	records := []BenchmarkRecord{
		{Step: 100, Prompt: "p1", LoadTime: 1500 * time.Millisecond,
			Result: &GenerationResult{Text: "hello world", GeneratedTokens: 12, Elapsed: 2 * time.Second}},
		{Step: 100, Prompt: "p2", LoadTime: 1500 * time.Millisecond,
			Err: errors.New("boom")},
		{Step: 200, Prompt: "p1", LoadTime: time.Second,
			Result: &GenerationResult{Text: "again", GeneratedTokens: 3, Elapsed: time.Second}},
		{Step: 200, Prompt: "p2", LoadTime: time.Second,
			Result: &GenerationResult{Text: "done", GeneratedTokens: 4, Elapsed: time.Second}},
	}

	var b strings.Builder
	if err := WriteReport(&b, "pico-decoder-tiny", records, now); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		"# Benchmark Report: pico-decoder-tiny",
		"**Total Checkpoints**: 2",
		"**Total Prompts**: 2",
		"## Checkpoint: step_100",
		"## Checkpoint: step_200",
		"**Load Time**: 1.50s",
		"hello world",
		"**Error**: boom",
		`### Prompt 2: "p2"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Report missing %q:\n%s", want, out)
		}
	}
}

func TestWriteReportEmpty(t *testing.T) {
	var b strings.Builder
	if err := WriteReport(&b, "m", nil, time.Now()); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}
	if !strings.Contains(b.String(), "**Total Checkpoints**: 0") {
		t.Errorf("Expected zero checkpoints in empty report, got:\n%s", b.String())
	}
}

func TestReportPath(t *testing.T) {
	now := time.Date(2026, 8, 23, 9, 30, 5, 0, time.UTC)
	got := ReportPath("results", "pico-decoder-tiny", now)
	want := "results/pico-decoder-tiny_benchmark_20260823_093005.md"
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}
