package picoinfer

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// makeCheckpoint creates a minimal valid checkpoint directory:
// <root>/<model>/checkpoints/step_<N> with config and weights artifacts.
func makeCheckpoint(t *testing.T, root, model string, step int) string {
	t.Helper()
	dir := filepath.Join(root, model, "checkpoints", "step_"+strconv.Itoa(step))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, name := range []string{ConfigArtifact, "model.onnx"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestResolveByStep(t *testing.T) {
	root := t.TempDir()
	want := makeCheckpoint(t, root, "pico-decoder-tiny-dolma5M-v1", 1000)

	r := NewResolver(root)
	got, err := r.Resolve(NewStepRef("pico-decoder-tiny-dolma5M-v1", 1000))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestResolveMissingCheckpoint(t *testing.T) {
	r := NewResolver(t.TempDir())
	_, err := r.Resolve(NewStepRef("pico-decoder-tiny-dolma5M-v1", 1000))
	if !errors.Is(err, ErrCheckpointNotFound) {
		t.Errorf("Expected ErrCheckpointNotFound, got %v", err)
	}
}

func TestResolveMissingArtifacts(t *testing.T) {
	root := t.TempDir()
	dir := makeCheckpoint(t, root, "m", 5)
	if err := os.Remove(filepath.Join(dir, "model.onnx")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	r := NewResolver(root)
	if _, err := r.Resolve(NewStepRef("m", 5)); !errors.Is(err, ErrCheckpointNotFound) {
		t.Errorf("Expected ErrCheckpointNotFound for missing weights, got %v", err)
	}

	dir2 := makeCheckpoint(t, root, "m", 6)
	if err := os.Remove(filepath.Join(dir2, ConfigArtifact)); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := r.Resolve(NewStepRef("m", 6)); !errors.Is(err, ErrCheckpointNotFound) {
		t.Errorf("Expected ErrCheckpointNotFound for missing config, got %v", err)
	}
}

func TestResolveExplicitPath(t *testing.T) {
	root := t.TempDir()
	dir := makeCheckpoint(t, root, "m", 7)

	// The resolver's runs root must not matter for explicit paths.
	r := NewResolver("/nonexistent")
	got, err := r.Resolve(NewPathRef(dir))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != dir {
		t.Errorf("Expected %s, got %s", dir, got)
	}

	if _, err := r.Resolve(NewPathRef(filepath.Join(root, "nope"))); !errors.Is(err, ErrCheckpointNotFound) {
		t.Errorf("Expected ErrCheckpointNotFound, got %v", err)
	}
}

func TestDiscoverStepsSorted(t *testing.T) {
	root := t.TempDir()
	for _, step := range []int{1755, 10, 500} {
		makeCheckpoint(t, root, "m", step)
	}
	// Directories that do not match the convention are skipped.
	if err := os.MkdirAll(filepath.Join(root, "m", "checkpoints", "step_final"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(root, "m", "checkpoints", "latest"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	r := NewResolver(root)
	steps, err := r.DiscoverSteps("m")
	if err != nil {
		t.Fatalf("DiscoverSteps failed: %v", err)
	}

	want := []int{10, 500, 1755}
	if len(steps) != len(want) {
		t.Fatalf("Expected %d steps, got %d", len(want), len(steps))
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("Expected step %d at index %d, got %d", want[i], i, steps[i])
		}
	}
}

func TestDiscoverStepsEmpty(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "m", "checkpoints"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	r := NewResolver(root)
	steps, err := r.DiscoverSteps("m")
	if err != nil {
		t.Fatalf("Empty checkpoints directory should not be an error, got %v", err)
	}
	if len(steps) != 0 {
		t.Errorf("Expected no steps, got %v", steps)
	}
}

func TestDiscoverStepsMissingModel(t *testing.T) {
	r := NewResolver(t.TempDir())
	if _, err := r.DiscoverSteps("missing-model"); !errors.Is(err, ErrCheckpointNotFound) {
		t.Errorf("Expected ErrCheckpointNotFound, got %v", err)
	}
}
