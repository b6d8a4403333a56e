package picoinfer

// Sequence tracks the token IDs of one generation call: the encoded
// prompt plus every token appended by the sampling loop.
type Sequence struct {
	TokenIDs        []int
	NumPromptTokens int
}

// NewSequence creates a sequence from the encoded prompt tokens.
func NewSequence(promptTokens []int) *Sequence {
	tokens := make([]int, len(promptTokens))
	copy(tokens, promptTokens)
	return &Sequence{
		TokenIDs:        tokens,
		NumPromptTokens: len(tokens),
	}
}

// Len returns the total number of tokens.
func (s *Sequence) Len() int {
	return len(s.TokenIDs)
}

// NumCompletionTokens returns the number of generated tokens.
func (s *Sequence) NumCompletionTokens() int {
	return len(s.TokenIDs) - s.NumPromptTokens
}

// PromptTokenIDs returns the prompt span.
func (s *Sequence) PromptTokenIDs() []int {
	return s.TokenIDs[:s.NumPromptTokens]
}

// CompletionTokenIDs returns the generated span, excluding the prompt.
func (s *Sequence) CompletionTokenIDs() []int {
	return s.TokenIDs[s.NumPromptTokens:]
}

// AppendToken appends a generated token.
func (s *Sequence) AppendToken(tokenID int) {
	s.TokenIDs = append(s.TokenIDs, tokenID)
}
