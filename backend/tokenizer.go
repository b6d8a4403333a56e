package backend

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/daulet/tokenizers"

	"pico-infer-go/picoinfer"
)

// HFTokenizer wraps the HuggingFace tokenizer.json binding. Special
// token ids come from the checkpoint's config.json, never hard-coded.
type HFTokenizer struct {
	tk    *tokenizers.Tokenizer
	eosID int
	bosID int
}

// NewHFTokenizer loads <dir>/tokenizer.json. Special token ids are
// taken from cfg.
func NewHFTokenizer(dir string, cfg *ModelConfig) (*HFTokenizer, error) {
	path := filepath.Join(dir, "tokenizer.json")
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", picoinfer.ErrLoad, path, err)
	}

	tk, err := tokenizers.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", picoinfer.ErrLoad, path, err)
	}

	return &HFTokenizer{
		tk:    tk,
		eosID: cfg.eos(),
		bosID: cfg.bos(),
	}, nil
}

// Encode converts text to token IDs without appending special tokens;
// BOS substitution for empty prompts is the engine's decision.
func (t *HFTokenizer) Encode(text string) ([]int, error) {
	ids, _ := t.tk.Encode(text, false)
	tokens := make([]int, len(ids))
	for i, id := range ids {
		tokens[i] = int(id)
	}
	return tokens, nil
}

// Decode converts token IDs to text, skipping special tokens.
func (t *HFTokenizer) Decode(tokenIDs []int) (string, error) {
	ids := make([]uint32, len(tokenIDs))
	for i, id := range tokenIDs {
		if id < 0 {
			return "", fmt.Errorf("negative token id %d", id)
		}
		ids[i] = uint32(id)
	}
	return t.tk.Decode(ids, true), nil
}

// EOSTokenID returns the EOS token ID, or -1 when the checkpoint does
// not define one.
func (t *HFTokenizer) EOSTokenID() int {
	return t.eosID
}

// BOSTokenID returns the BOS token ID, or -1 when the checkpoint does
// not define one.
func (t *HFTokenizer) BOSTokenID() int {
	return t.bosID
}

// Close releases the native tokenizer handle.
func (t *HFTokenizer) Close() error {
	return t.tk.Close()
}
