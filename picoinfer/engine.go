package picoinfer

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// GenerationResult is the output of one generation call.
type GenerationResult struct {
	Text            string
	PromptTokens    int
	GeneratedTokens int
	Elapsed         time.Duration
}

// StopPredicate decides whether a freshly sampled token terminates
// generation. The predicate comes from the model-loading collaborator;
// the engine never hard-codes a token id.
type StopPredicate func(tokenID int) bool

// Engine runs the autoregressive sampling loop. Calls are synchronous
// and single-sequence; a call blocks until the stop predicate fires or
// the configured maximum length is reached.
type Engine struct {
	sampler *Sampler
	stop    StopPredicate
	log     zerolog.Logger
}

// EngineOption is a functional option for Engine.
type EngineOption func(*Engine)

// NewEngine creates an engine with a clock-seeded sampler and no
// logging.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		sampler: NewSampler(0),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithSampler replaces the engine's sampler (e.g. with a fixed seed).
func WithSampler(s *Sampler) EngineOption {
	return func(e *Engine) {
		e.sampler = s
	}
}

// WithStopPredicate overrides the default EOS-based stop condition.
func WithStopPredicate(p StopPredicate) EngineOption {
	return func(e *Engine) {
		e.stop = p
	}
}

// WithLogger attaches a logger to the engine.
func WithLogger(log zerolog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = log
	}
}

// Generate produces a completion for prompt. The configuration is
// validated before any model work; a runtime model failure mid-loop
// wraps ErrGeneration and discards the call's partial output.
func (e *Engine) Generate(model Model, tokenizer Tokenizer, prompt string, cfg GenerationConfig) (*GenerationResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	promptTokens, err := tokenizer.Encode(prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: encode prompt: %v", ErrGeneration, err)
	}
	if len(promptTokens) == 0 {
		// An empty encoding leaves the model nothing to condition on;
		// substitute BOS when the tokenizer has one.
		bos := tokenizer.BOSTokenID()
		if bos < 0 {
			return nil, fmt.Errorf("%w: prompt encoded to zero tokens and tokenizer has no BOS", ErrGeneration)
		}
		promptTokens = []int{bos}
	}

	stop := e.stop
	if stop == nil {
		eos := tokenizer.EOSTokenID()
		stop = func(id int) bool { return eos >= 0 && id == eos }
	}

	seq := NewSequence(promptTokens)
	for i := 0; i < cfg.MaxLength; i++ {
		logits, err := model.Forward(seq.TokenIDs)
		if err != nil {
			return nil, fmt.Errorf("%w: step %d: %v", ErrGeneration, i, err)
		}
		if len(logits) == 0 {
			return nil, fmt.Errorf("%w: step %d: model returned empty logits", ErrGeneration, i)
		}

		tokenID := e.sampler.Sample(logits, cfg.Temperature)
		if stop(tokenID) {
			break
		}
		seq.AppendToken(tokenID)
	}

	text, err := tokenizer.Decode(seq.CompletionTokenIDs())
	if err != nil {
		return nil, fmt.Errorf("%w: decode completion: %v", ErrGeneration, err)
	}

	result := &GenerationResult{
		Text:            strings.TrimSpace(text),
		PromptTokens:    seq.NumPromptTokens,
		GeneratedTokens: seq.NumCompletionTokens(),
		Elapsed:         time.Since(start),
	}

	e.log.Debug().
		Int("prompt_tokens", result.PromptTokens).
		Int("generated_tokens", result.GeneratedTokens).
		Dur("elapsed", result.Elapsed).
		Msg("generation complete")

	return result, nil
}
