package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pico-infer-go/backend"
	"pico-infer-go/picoinfer"
)

var (
	settingsFile string
	logLevel     string

	checkpointPath string
	prompt         string
	maxLength      int
	temperature    float64
	interactive    bool
	deviceName     string

	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pico-infer [model_name step_number]",
	Short: "Text generation harness for pico-decoder checkpoints",
	Long: `Resolves a trained pico-decoder checkpoint, loads its model and
tokenizer, and runs autoregressive sampling as a one-shot completion or
an interactive multi-turn session.

A checkpoint is referenced either by model name and training step
(resolved under the configured runs root) or by an explicit directory
with --checkpoint.`,
	Example: `  # One-shot completion by model name and step
  pico-infer pico-decoder-tiny-dolma5M-v1 1000 --prompt "Once upon a time"

  # Explicit checkpoint directory, interactive session
  pico-infer --checkpoint runs/pico-decoder-tiny/checkpoints/step_1755 --interactive

  # Force CPU and flatten the distribution
  pico-infer pico-decoder-tiny 500 -p "Hello" --device cpu --temperature 1.2`,
	Args:          cobra.MaximumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runGenerate,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsFile, "config", "", "settings file (default is ./pico-infer.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.Flags().StringVarP(&checkpointPath, "checkpoint", "c", "", "explicit checkpoint directory (instead of model_name step_number)")
	rootCmd.Flags().StringVarP(&prompt, "prompt", "p", "", "input prompt for one-shot generation")
	rootCmd.Flags().IntVarP(&maxLength, "max-length", "l", 0, "maximum number of tokens to generate")
	rootCmd.Flags().Float64VarP(&temperature, "temperature", "t", 0, "sampling temperature")
	rootCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "run an interactive multi-turn session")
	rootCmd.Flags().StringVarP(&deviceName, "device", "d", "", "compute device (cpu, gpu, auto)")

	rootCmd.AddCommand(benchCmd)
}

// setupLogging installs a console logger at the requested level.
func setupLogging() {
	level := zerolog.InfoLevel
	switch strings.ToLower(logLevel) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// generationConfig merges settings-file defaults with flag overrides.
func generationConfig(s *picoinfer.Settings) (picoinfer.GenerationConfig, error) {
	if deviceName == "" {
		deviceName = s.Device
	}
	device, err := picoinfer.ParseDevice(deviceName)
	if err != nil {
		return picoinfer.GenerationConfig{}, err
	}
	if maxLength == 0 {
		maxLength = s.MaxLength
	}
	if temperature == 0 {
		temperature = s.Temperature
	}
	return picoinfer.NewGenerationConfig(
		picoinfer.WithMaxLength(maxLength),
		picoinfer.WithTemperature(temperature),
		picoinfer.WithDevice(device),
	)
}

// checkpointRef builds the checkpoint reference from the CLI surface:
// either the --checkpoint path or the model_name/step positionals.
func checkpointRef(args []string) (picoinfer.CheckpointRef, error) {
	if checkpointPath != "" {
		if len(args) > 0 {
			return picoinfer.CheckpointRef{}, fmt.Errorf("--checkpoint and model_name/step_number are mutually exclusive")
		}
		return picoinfer.NewPathRef(checkpointPath), nil
	}
	if len(args) != 2 {
		return picoinfer.CheckpointRef{}, fmt.Errorf("expected model_name and step_number (or --checkpoint)")
	}
	step, err := strconv.Atoi(args[1])
	if err != nil {
		return picoinfer.CheckpointRef{}, fmt.Errorf("invalid step number %q", args[1])
	}
	return picoinfer.NewStepRef(args[0], step), nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	setupLogging()

	settings, err := picoinfer.LoadSettings(settingsFile)
	if err != nil {
		return err
	}
	cfg, err := generationConfig(settings)
	if err != nil {
		return err
	}
	ref, err := checkpointRef(args)
	if err != nil {
		return err
	}

	resolver := picoinfer.NewResolver(settings.RunsRoot)
	dir, err := resolver.Resolve(ref)
	if err != nil {
		return err
	}

	loader := backend.NewCheckpointLoader(backend.WithLoaderLogger(log))
	loaded, err := loader.Load(dir, cfg.Device)
	if err != nil {
		return err
	}
	defer loaded.Close()

	engine := picoinfer.NewEngine(picoinfer.WithLogger(log))

	if interactive || prompt == "" {
		if prompt == "" && !interactive {
			fmt.Println("No prompt provided. Starting interactive mode...")
		}
		session := picoinfer.NewSession(engine, loaded.Model, loaded.Tokenizer, cfg, os.Stdout)
		session.SetLogger(log)
		return session.Run(os.Stdin)
	}

	result, err := engine.Generate(loaded.Model, loaded.Tokenizer, prompt, cfg)
	if err != nil {
		return err
	}

	fmt.Printf("\nPrompt: %s\n", prompt)
	fmt.Printf("Completion: %s\n", result.Text)
	log.Info().
		Int("prompt_tokens", result.PromptTokens).
		Int("generated_tokens", result.GeneratedTokens).
		Dur("elapsed", result.Elapsed).
		Msg("done")
	return nil
}
