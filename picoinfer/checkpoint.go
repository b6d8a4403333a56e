package picoinfer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Artifact file names a checkpoint directory must contain.
const (
	ConfigArtifact = "config.json"
)

// WeightsArtifacts lists the accepted weights file names. The original
// trainer writes safetensors; the ONNX export writes model.onnx. Either
// satisfies resolution.
var WeightsArtifacts = []string{"model.safetensors", "model.onnx"}

const stepPrefix = "step_"

// CheckpointRef identifies a trained snapshot. Exactly one resolution
// mode is active: either Path is set, or ModelName/Step are.
type CheckpointRef struct {
	ModelName string
	Step      int
	Path      string
}

// NewStepRef references a checkpoint by model name and training step.
func NewStepRef(modelName string, step int) CheckpointRef {
	return CheckpointRef{ModelName: modelName, Step: step}
}

// NewPathRef references a checkpoint by explicit directory path.
func NewPathRef(path string) CheckpointRef {
	return CheckpointRef{Path: path}
}

// Resolver maps checkpoint references to directories under a fixed runs
// root. The root is explicit configuration, not a hidden global.
type Resolver struct {
	runsRoot string
}

// NewResolver creates a Resolver rooted at runsRoot.
func NewResolver(runsRoot string) *Resolver {
	return &Resolver{runsRoot: runsRoot}
}

// Resolve returns the checkpoint directory for ref. An explicit path is
// returned verbatim after validation; otherwise the directory is
// constructed as <runsRoot>/<model>/checkpoints/step_<N>. The directory
// must contain the config artifact and a weights artifact.
func (r *Resolver) Resolve(ref CheckpointRef) (string, error) {
	dir := ref.Path
	if dir == "" {
		if ref.ModelName == "" {
			return "", fmt.Errorf("%w: reference has neither path nor model name", ErrCheckpointNotFound)
		}
		dir = filepath.Join(r.runsRoot, ref.ModelName, "checkpoints", fmt.Sprintf("%s%d", stepPrefix, ref.Step))
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrCheckpointNotFound, dir)
	}

	if _, err := os.Stat(filepath.Join(dir, ConfigArtifact)); err != nil {
		return "", fmt.Errorf("%w: %s missing %s", ErrCheckpointNotFound, dir, ConfigArtifact)
	}
	if WeightsPath(dir) == "" {
		return "", fmt.Errorf("%w: %s missing weights artifact", ErrCheckpointNotFound, dir)
	}

	return dir, nil
}

// WeightsPath returns the path of the first weights artifact present in
// dir, or "" when none exists.
func WeightsPath(dir string) string {
	for _, name := range WeightsArtifacts {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// DiscoverSteps lists the training steps that have a checkpoint
// directory for the given model, sorted ascending. Directories that do
// not match the step_<N> convention are skipped. An empty result means
// "no checkpoints yet" and is not an error; a missing model run
// directory is.
func (r *Resolver) DiscoverSteps(modelName string) ([]int, error) {
	dir := filepath.Join(r.runsRoot, modelName, "checkpoints")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCheckpointNotFound, dir)
	}

	steps := make([]int, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), stepPrefix) {
			continue
		}
		step, err := strconv.Atoi(strings.TrimPrefix(e.Name(), stepPrefix))
		if err != nil {
			continue
		}
		steps = append(steps, step)
	}

	sort.Ints(steps)
	return steps, nil
}
