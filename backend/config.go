// Package backend is the model-loading collaborator: it turns a
// checkpoint directory into a runnable picoinfer.Model and Tokenizer.
// The model executes through ONNX Runtime; the tokenizer is the
// HuggingFace tokenizer.json binding. Weight bytes are never parsed
// here beyond handing them to the runtime.
package backend

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"pico-infer-go/picoinfer"
)

// ModelConfig is the subset of the checkpoint's config.json the backend
// needs. Token ids use pointers so "absent" and "zero" stay distinct.
type ModelConfig struct {
	ModelType             string `json:"model_type"`
	VocabSize             int    `json:"vocab_size"`
	EOSTokenID            *int   `json:"eos_token_id"`
	BOSTokenID            *int   `json:"bos_token_id"`
	MaxPositionEmbeddings int    `json:"max_position_embeddings"`
}

// LoadModelConfig reads and validates <dir>/config.json.
func LoadModelConfig(dir string) (*ModelConfig, error) {
	path := filepath.Join(dir, picoinfer.ConfigArtifact)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", picoinfer.ErrLoad, path, err)
	}

	var cfg ModelConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", picoinfer.ErrLoad, path, err)
	}
	if cfg.VocabSize <= 0 {
		return nil, fmt.Errorf("%w: %s: vocab_size must be positive, got %d", picoinfer.ErrLoad, path, cfg.VocabSize)
	}

	return &cfg, nil
}

// eos returns the configured EOS id, or -1 when absent.
func (c *ModelConfig) eos() int {
	if c.EOSTokenID == nil {
		return -1
	}
	return *c.EOSTokenID
}

// bos returns the configured BOS id, or -1 when absent.
func (c *ModelConfig) bos() int {
	if c.BOSTokenID == nil {
		return -1
	}
	return *c.BOSTokenID
}
