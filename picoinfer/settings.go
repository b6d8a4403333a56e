package picoinfer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is the file-backed harness configuration: the runs root
// convention and generation defaults. CLI flags override it.
type Settings struct {
	RunsRoot    string  `yaml:"runs_root"`
	OutputDir   string  `yaml:"output_dir"`
	PromptsFile string  `yaml:"prompts_file"`
	MaxLength   int     `yaml:"max_length"`
	Temperature float64 `yaml:"temperature"`
	Device      string  `yaml:"device"`
}

// DefaultSettings returns the defaults used when no settings file is
// present. The runs root matches the original trainer's layout.
func DefaultSettings() *Settings {
	return &Settings{
		RunsRoot:    "pico-train/runs",
		OutputDir:   "results",
		PromptsFile: "prompts.json",
		MaxLength:   100,
		Temperature: 0.7,
		Device:      "auto",
	}
}

// settingsSearchPath lists default settings file names, tried in order
// when no explicit path is given.
var settingsSearchPath = []string{"pico-infer.yaml", ".pico-infer.yaml"}

// LoadSettings reads settings from path, or searches the default file
// names when path is empty. No file found means defaults, not an error;
// an unreadable or unparsable file is an error.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()

	var data []byte
	var err error
	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
	} else {
		found := false
		for _, name := range settingsSearchPath {
			if data, err = os.ReadFile(name); err == nil {
				path = name
				found = true
				break
			}
		}
		if !found {
			return s, nil
		}
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return s, nil
}
