package picoinfer

import (
	"fmt"
	"io"
	"path/filepath"
	"time"
)

// ReportPath builds the per-sweep report file name:
// <outputDir>/<model>_benchmark_<timestamp>.md
func ReportPath(outputDir, modelName string, now time.Time) string {
	return filepath.Join(outputDir, fmt.Sprintf("%s_benchmark_%s.md", modelName, now.Format("20060102_150405")))
}

// WriteReport renders the sweep's records as a markdown report, written
// once at sweep end. Records are expected in (checkpoint ascending,
// prompt declaration) order, as produced by BenchmarkRunner.Run.
func WriteReport(w io.Writer, modelName string, records []BenchmarkRecord, now time.Time) error {
	steps := countSteps(records)
	prompts := 0
	if steps > 0 {
		prompts = len(records) / steps
	}

	fmt.Fprintf(w, "# Benchmark Report: %s\n\n", modelName)
	fmt.Fprintf(w, "**Generated**: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "**Total Checkpoints**: %d\n", steps)
	fmt.Fprintf(w, "**Total Prompts**: %d\n\n", prompts)
	fmt.Fprintf(w, "---\n\n")

	lastStep := -1
	promptNum := 0
	for _, rec := range records {
		if rec.Step != lastStep {
			lastStep = rec.Step
			promptNum = 0
			fmt.Fprintf(w, "## Checkpoint: step_%d\n\n", rec.Step)
			if rec.LoadTime > 0 {
				fmt.Fprintf(w, "**Load Time**: %.2fs\n\n", rec.LoadTime.Seconds())
			}
		}
		promptNum++

		fmt.Fprintf(w, "### Prompt %d: %q\n\n", promptNum, rec.Prompt)
		if rec.Err != nil {
			fmt.Fprintf(w, "**Error**: %v\n\n", rec.Err)
			continue
		}
		fmt.Fprintf(w, "**Response**:\n```\n%s\n```\n\n", rec.Result.Text)
		fmt.Fprintf(w, "**Metadata**: tokens=%d, time=%.2fs\n\n", rec.Result.GeneratedTokens, rec.Result.Elapsed.Seconds())
	}

	_, err := fmt.Fprintf(w, "---\n")
	return err
}

func countSteps(records []BenchmarkRecord) int {
	n := 0
	last := -1
	for _, rec := range records {
		if rec.Step != last {
			n++
			last = rec.Step
		}
	}
	return n
}
