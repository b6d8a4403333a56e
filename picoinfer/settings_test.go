package picoinfer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSettingsDefaultsWhenAbsent(t *testing.T) {
	cwd, _ := os.Getwd()
	os.Chdir(t.TempDir())
	defer os.Chdir(cwd)

	s, err := LoadSettings("")
	if err != nil {
		t.Fatalf("Missing settings file should mean defaults, got %v", err)
	}
	if s.RunsRoot != "pico-train/runs" {
		t.Errorf("Expected default runs root, got %q", s.RunsRoot)
	}
	if s.Temperature != 0.7 || s.MaxLength != 100 {
		t.Errorf("Unexpected generation defaults: %+v", s)
	}
}

func TestLoadSettingsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pico-infer.yaml")
	data := []byte("runs_root: /data/runs\nmax_length: 50\ndevice: cpu\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if s.RunsRoot != "/data/runs" {
		t.Errorf("Expected runs root /data/runs, got %q", s.RunsRoot)
	}
	if s.MaxLength != 50 {
		t.Errorf("Expected max length 50, got %d", s.MaxLength)
	}
	// Unset keys keep their defaults.
	if s.Temperature != 0.7 {
		t.Errorf("Expected default temperature, got %g", s.Temperature)
	}
	if s.Device != "cpu" {
		t.Errorf("Expected device cpu, got %q", s.Device)
	}
}

func TestLoadSettingsErrors(t *testing.T) {
	if _, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Errorf("An explicit missing path must be an error")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(bad, []byte(":\t: not yaml"), 0o644)
	if _, err := LoadSettings(bad); err == nil {
		t.Errorf("Malformed yaml must be an error")
	}
}
