package picoinfer

import "errors"

// Sentinel errors for the failure classes callers are expected to
// distinguish. Wrap with fmt.Errorf("%w: ...") and match with errors.Is.
var (
	// ErrCheckpointNotFound indicates a checkpoint directory or one of its
	// required artifacts (config, weights) does not exist.
	ErrCheckpointNotFound = errors.New("checkpoint not found")

	// ErrLoad indicates a checkpoint exists but its artifacts are
	// malformed or incompatible. Fatal to the calling operation; a corrupt
	// checkpoint will not self-heal, so there is no retry.
	ErrLoad = errors.New("load failed")

	// ErrInvalidConfig indicates a bad generation configuration, caught
	// before any model work begins.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrGeneration indicates a runtime failure mid-sampling. Fatal to
	// that single generation call only.
	ErrGeneration = errors.New("generation failed")
)
