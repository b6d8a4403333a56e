package picoinfer

import "fmt"

// Model is the narrow interface to the model-loading collaborator.
// The engine never parses weight bytes itself; a backend implements
// this using whatever runtime it likes:
// - ONNX Runtime (backend package)
// - CGo bindings to other runtimes
// - HTTP calls to an inference server
type Model interface {
	// Forward runs the model over the full token sequence and returns the
	// next-token logits (pre-softmax, one score per vocab entry).
	Forward(tokenIDs []int) ([]float32, error)

	// Close releases model resources.
	Close() error
}

// Tokenizer converts between text and token IDs.
type Tokenizer interface {
	// Encode converts text to token IDs.
	Encode(text string) ([]int, error)

	// Decode converts token IDs to text.
	Decode(tokenIDs []int) (string, error)

	// EOSTokenID returns the end-of-sequence token ID, or -1 when the
	// tokenizer has none.
	EOSTokenID() int

	// BOSTokenID returns the beginning-of-sequence token ID, or -1 when
	// the tokenizer has none.
	BOSTokenID() int
}

// MockModel is a deterministic Model for tests and demos. Its logits
// always put the highest score on (lastToken+1) mod vocab, and it emits
// EOS after EOSAfter generated calls when EOSAfter > 0.
type MockModel struct {
	Vocab    int
	EOSID    int
	EOSAfter int

	calls  int
	closed bool

	// FailAt makes Forward return an error on the n-th call (1-based)
	// to exercise mid-generation failure paths.
	FailAt int
}

// NewMockModel creates a mock model with the given vocab size and EOS id.
func NewMockModel(vocab, eosID int) *MockModel {
	return &MockModel{Vocab: vocab, EOSID: eosID}
}

// Forward produces deterministic mock logits.
func (m *MockModel) Forward(tokenIDs []int) ([]float32, error) {
	if m.closed {
		return nil, fmt.Errorf("model is closed")
	}
	if len(tokenIDs) == 0 {
		return nil, fmt.Errorf("empty token sequence")
	}

	m.calls++
	if m.FailAt > 0 && m.calls >= m.FailAt {
		return nil, fmt.Errorf("simulated forward failure at call %d", m.calls)
	}

	logits := make([]float32, m.Vocab)
	next := (tokenIDs[len(tokenIDs)-1] + 1) % m.Vocab
	if m.EOSAfter > 0 && m.calls >= m.EOSAfter {
		next = m.EOSID
	}
	logits[next] = 100 // dominates softmax at any sane temperature
	return logits, nil
}

// Calls returns how many times Forward ran.
func (m *MockModel) Calls() int {
	return m.calls
}

// Close marks the model closed.
func (m *MockModel) Close() error {
	m.closed = true
	return nil
}

// MockTokenizer is a byte-level mock tokenizer: each byte maps to the
// token (byte + reservedTokens), so encode/decode round-trip exactly.
type MockTokenizer struct {
	eosID int
	bosID int
}

// reservedTokens keeps ids 0..3 free for special tokens.
const reservedTokens = 4

// NewMockTokenizer creates a mock tokenizer with EOS id 2 and BOS id 1.
func NewMockTokenizer() *MockTokenizer {
	return &MockTokenizer{eosID: 2, bosID: 1}
}

// Encode converts each byte of text to a token ID.
func (t *MockTokenizer) Encode(text string) ([]int, error) {
	tokens := make([]int, len(text))
	for i := 0; i < len(text); i++ {
		tokens[i] = int(text[i]) + reservedTokens
	}
	return tokens, nil
}

// Decode converts token IDs back to text, skipping special tokens.
func (t *MockTokenizer) Decode(tokenIDs []int) (string, error) {
	buf := make([]byte, 0, len(tokenIDs))
	for _, id := range tokenIDs {
		if id < reservedTokens {
			continue
		}
		buf = append(buf, byte(id-reservedTokens))
	}
	return string(buf), nil
}

// EOSTokenID returns the EOS token ID.
func (t *MockTokenizer) EOSTokenID() int {
	return t.eosID
}

// BOSTokenID returns the BOS token ID.
func (t *MockTokenizer) BOSTokenID() int {
	return t.bosID
}
