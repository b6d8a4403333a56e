package backend

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pico-infer-go/picoinfer"
)

func TestLoadRejectsSafetensorsOnlyCheckpoint(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"vocab_size": 1000}`)
	if err := os.WriteFile(filepath.Join(dir, "model.safetensors"), []byte("weights"), 0o644); err != nil {
		t.Fatalf("write weights: %v", err)
	}

	loader := NewCheckpointLoader(WithProbe(func() bool { return false }))
	_, err := loader.Load(dir, picoinfer.DeviceCPU)
	if !errors.Is(err, picoinfer.ErrLoad) {
		t.Errorf("Expected ErrLoad for a checkpoint without an ONNX export, got %v", err)
	}
}

func TestLoadMissingWeights(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"vocab_size": 1000}`)

	loader := NewCheckpointLoader(WithProbe(func() bool { return false }))
	_, err := loader.Load(dir, picoinfer.DeviceCPU)
	if !errors.Is(err, picoinfer.ErrCheckpointNotFound) {
		t.Errorf("Expected ErrCheckpointNotFound for missing weights, got %v", err)
	}
}

func TestLoadMalformedConfigFailsBeforeWeights(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `not json`)
	if err := os.WriteFile(filepath.Join(dir, "model.onnx"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write weights: %v", err)
	}

	loader := NewCheckpointLoader(WithProbe(func() bool { return false }))
	if _, err := loader.Load(dir, picoinfer.DeviceCPU); !errors.Is(err, picoinfer.ErrLoad) {
		t.Errorf("Expected ErrLoad for malformed config, got %v", err)
	}
}

func TestFingerprintFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.bin")
	b := filepath.Join(dir, "b.bin")
	os.WriteFile(a, []byte("same bytes"), 0o644)
	os.WriteFile(b, []byte("same bytes"), 0o644)

	fa, err := fingerprintFile(a)
	if err != nil {
		t.Fatalf("fingerprint failed: %v", err)
	}
	fb, _ := fingerprintFile(b)
	if fa != fb {
		t.Errorf("Identical files must fingerprint identically: %x vs %x", fa, fb)
	}

	os.WriteFile(b, []byte("other bytes"), 0o644)
	fb, _ = fingerprintFile(b)
	if fa == fb {
		t.Errorf("Different files should not collide: %x", fa)
	}

	if _, err := fingerprintFile(filepath.Join(dir, "missing")); err == nil {
		t.Errorf("Expected an error for a missing file")
	}
}
