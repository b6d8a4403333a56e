package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pico-infer-go/backend"
	"pico-infer-go/picoinfer"
)

var (
	benchOutput  string
	benchPrompts string
)

var benchCmd = &cobra.Command{
	Use:   "bench model_name",
	Short: "Run the benchmark sweep over all checkpoints of a model",
	Long: `Discovers every checkpoint of a model under the runs root and runs
each benchmark prompt against each checkpoint, ascending by step.
Checkpoints load one at a time; a failing checkpoint or prompt is
recorded and the sweep continues. A markdown report is written once at
the end.`,
	Example: `  pico-infer bench pico-decoder-tiny-dolma5M-v1
  pico-infer bench pico-decoder-tiny-dolma29k-v3 --output results/ --prompts prompts.json`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBench,
}

func init() {
	benchCmd.Flags().StringVarP(&benchOutput, "output", "o", "", "output directory for the report")
	benchCmd.Flags().StringVarP(&benchPrompts, "prompts", "p", "", "prompts JSON file")
}

func runBench(cmd *cobra.Command, args []string) error {
	setupLogging()
	modelName := args[0]

	settings, err := picoinfer.LoadSettings(settingsFile)
	if err != nil {
		return err
	}
	if benchOutput == "" {
		benchOutput = settings.OutputDir
	}
	if benchPrompts == "" {
		benchPrompts = settings.PromptsFile
	}

	cfg, err := generationConfig(settings)
	if err != nil {
		return err
	}

	prompts, err := picoinfer.LoadPrompts(benchPrompts)
	if err != nil {
		log.Warn().Err(err).Msg("using default fallback prompts")
	}
	log.Info().Int("prompts", len(prompts)).Msg("prompts loaded")

	resolver := picoinfer.NewResolver(settings.RunsRoot)
	loader := backend.NewCheckpointLoader(backend.WithLoaderLogger(log))
	engine := picoinfer.NewEngine(picoinfer.WithLogger(log))

	runner := picoinfer.NewBenchmarkRunner(resolver, loader, engine, cfg)
	runner.SetLogger(log)
	runner.SetProgress(true)

	records, err := runner.Run(modelName, prompts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(benchOutput, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	now := time.Now()
	reportPath := picoinfer.ReportPath(benchOutput, modelName, now)
	f, err := os.Create(reportPath)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer f.Close()

	if err := picoinfer.WriteReport(f, modelName, records, now); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Printf("Benchmark complete. Report saved to: %s\n", reportPath)
	return nil
}
