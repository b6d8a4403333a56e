package backend

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"

	"pico-infer-go/picoinfer"
)

// CheckpointLoader implements picoinfer.Loader over ONNX Runtime and
// the HuggingFace tokenizer binding.
type CheckpointLoader struct {
	probe func() bool
	log   zerolog.Logger
}

// LoaderOption is a functional option for CheckpointLoader.
type LoaderOption func(*CheckpointLoader)

// NewCheckpointLoader creates a loader using the CUDA capability probe.
func NewCheckpointLoader(opts ...LoaderOption) *CheckpointLoader {
	l := &CheckpointLoader{
		probe: gpuAvailable,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// WithProbe replaces the GPU capability probe (used in tests).
func WithProbe(probe func() bool) LoaderOption {
	return func(l *CheckpointLoader) {
		l.probe = probe
	}
}

// WithLoaderLogger attaches a logger to the loader.
func WithLoaderLogger(log zerolog.Logger) LoaderOption {
	return func(l *CheckpointLoader) {
		l.log = log
	}
}

// Load turns a resolved checkpoint directory into a runnable model and
// tokenizer. Nothing is left behind on failure: the model is closed if
// the tokenizer fails to load afterwards.
func (l *CheckpointLoader) Load(dir string, device picoinfer.Device) (*picoinfer.LoadResult, error) {
	cfg, err := LoadModelConfig(dir)
	if err != nil {
		return nil, err
	}

	weights := picoinfer.WeightsPath(dir)
	if weights == "" {
		return nil, fmt.Errorf("%w: %s has no weights artifact", picoinfer.ErrCheckpointNotFound, dir)
	}
	if filepath.Ext(weights) != ".onnx" {
		// Converting safetensors is out of scope; the checkpoint must ship
		// an ONNX export to be runnable here.
		return nil, fmt.Errorf("%w: %s is not runnable (expected model.onnx)", picoinfer.ErrLoad, weights)
	}

	fingerprint, err := fingerprintFile(weights)
	if err != nil {
		return nil, fmt.Errorf("%w: fingerprint %s: %v", picoinfer.ErrLoad, weights, err)
	}

	resolved := picoinfer.ResolveDevice(device, l.probe())

	model, err := NewONNXModel(weights, cfg.VocabSize, resolved)
	if err != nil {
		return nil, err
	}

	tokenizer, err := NewHFTokenizer(dir, cfg)
	if err != nil {
		model.Close()
		return nil, err
	}

	l.log.Info().
		Str("checkpoint", dir).
		Str("device", resolved.String()).
		Int("vocab_size", cfg.VocabSize).
		Str("weights_xxh64", fmt.Sprintf("%016x", fingerprint)).
		Msg("checkpoint loaded")

	return &picoinfer.LoadResult{
		Model:              model,
		Tokenizer:          tokenizer,
		Device:             resolved,
		WeightsFingerprint: fingerprint,
	}, nil
}

// fingerprintFile streams a file through xxhash64. The digest identifies
// the weights artifact in logs and reports without loading it twice.
func fingerprintFile(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
