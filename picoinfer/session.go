package picoinfer

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// SessionState is the interactive session's state machine state.
type SessionState int

const (
	StateIdle SessionState = iota
	StateAwaitingInput
	StateGenerating
	StateTerminated
)

// Interactive session commands.
const (
	QuitCommand  = "quit"
	ClearCommand = "clear"
)

// Turn is one role-tagged span of the conversation.
type Turn struct {
	Role string
	Text string
}

// Session is a stateful wrapper over the engine that accumulates
// conversation context turn by turn. It does not own the model or
// tokenizer; their lifetime outlives the session.
type Session struct {
	engine    *Engine
	model     Model
	tokenizer Tokenizer
	cfg       GenerationConfig

	state SessionState
	turns []Turn
	out   io.Writer
	log   zerolog.Logger
}

// NewSession creates an idle session writing its responses to out.
func NewSession(engine *Engine, model Model, tokenizer Tokenizer, cfg GenerationConfig, out io.Writer) *Session {
	return &Session{
		engine:    engine,
		model:     model,
		tokenizer: tokenizer,
		cfg:       cfg,
		state:     StateIdle,
		out:       out,
		log:       zerolog.Nop(),
	}
}

// SetLogger attaches a logger to the session.
func (s *Session) SetLogger(log zerolog.Logger) {
	s.log = log
}

// State returns the current state machine state.
func (s *Session) State() SessionState {
	return s.state
}

// Turns returns the accumulated conversation.
func (s *Session) Turns() []Turn {
	return s.turns
}

// Run drives the session over in until the quit command or EOF.
func (s *Session) Run(in io.Reader) error {
	fmt.Fprintln(s.out, "=== pico-infer interactive mode ===")
	fmt.Fprintf(s.out, "Type '%s' to exit, '%s' to clear context\n", QuitCommand, ClearCommand)

	scanner := bufio.NewScanner(in)
	for s.state != StateTerminated {
		s.state = StateAwaitingInput
		fmt.Fprint(s.out, "\nYou: ")
		if !scanner.Scan() {
			s.state = StateTerminated
			break
		}
		s.HandleLine(scanner.Text())
	}

	fmt.Fprintln(s.out, "Goodbye!")
	return scanner.Err()
}

// HandleLine performs one state machine transition for a line of user
// input. Exposed separately so session behavior is testable without a
// live terminal.
func (s *Session) HandleLine(line string) {
	input := strings.TrimSpace(line)

	switch strings.ToLower(input) {
	case QuitCommand:
		s.state = StateTerminated
		return
	case ClearCommand:
		s.turns = s.turns[:0]
		s.state = StateAwaitingInput
		fmt.Fprintln(s.out, "Context cleared.")
		return
	case "":
		s.state = StateAwaitingInput
		return
	}

	s.state = StateGenerating
	prompt := s.promptWith(input)
	result, err := s.engine.Generate(s.model, s.tokenizer, prompt, s.cfg)
	if err != nil {
		// The failed turn leaves no trace: neither the user input nor any
		// partial output joins the conversation.
		s.log.Error().Err(err).Msg("turn failed")
		fmt.Fprintf(s.out, "Error: %v\n", err)
		s.state = StateAwaitingInput
		return
	}

	s.turns = append(s.turns, Turn{Role: "user", Text: input})
	s.turns = append(s.turns, Turn{Role: "assistant", Text: result.Text})
	fmt.Fprintf(s.out, "PicoLM: %s\n", result.Text)
	s.state = StateAwaitingInput
}

// promptWith renders the accumulated conversation plus the pending user
// input as the generation prompt.
func (s *Session) promptWith(input string) string {
	if len(s.turns) == 0 {
		return input
	}
	var b strings.Builder
	for _, t := range s.turns {
		b.WriteString(t.Text)
		b.WriteString("\n")
	}
	b.WriteString(input)
	return b.String()
}
