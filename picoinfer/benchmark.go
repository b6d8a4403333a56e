package picoinfer

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
)

// DefaultPrompt is the fallback when no prompts file is available.
const DefaultPrompt = "Hello, how are you?"

// BenchmarkRecord is the outcome of one (checkpoint, prompt) pair.
// Exactly one of Result and Err is set.
type BenchmarkRecord struct {
	Step     int
	Prompt   string
	Result   *GenerationResult
	Err      error
	LoadTime time.Duration
}

// BenchmarkRunner sweeps every checkpoint of a model across a prompt
// list. Checkpoints are loaded fresh and sequentially: one model is
// resident at a time, exhausted across its prompts, then closed before
// the next loads.
type BenchmarkRunner struct {
	resolver *Resolver
	loader   Loader
	engine   *Engine
	cfg      GenerationConfig

	progress bool
	log      zerolog.Logger
}

// NewBenchmarkRunner creates a runner over the given resolver, loader
// and engine.
func NewBenchmarkRunner(resolver *Resolver, loader Loader, engine *Engine, cfg GenerationConfig) *BenchmarkRunner {
	return &BenchmarkRunner{
		resolver: resolver,
		loader:   loader,
		engine:   engine,
		cfg:      cfg,
		log:      zerolog.Nop(),
	}
}

// SetLogger attaches a logger to the runner.
func (r *BenchmarkRunner) SetLogger(log zerolog.Logger) {
	r.log = log
}

// SetProgress toggles the terminal progress bar.
func (r *BenchmarkRunner) SetProgress(on bool) {
	r.progress = on
}

// Run evaluates every prompt against every checkpoint of modelName,
// ascending by step. Each pair yields exactly one record; a failure is
// captured in the record and never aborts the sweep. Discovery failure
// (no run directory at all) is the only fatal error.
func (r *BenchmarkRunner) Run(modelName string, prompts []string) ([]BenchmarkRecord, error) {
	steps, err := r.resolver.DiscoverSteps(modelName)
	if err != nil {
		return nil, err
	}
	r.log.Info().Str("model", modelName).Int("checkpoints", len(steps)).Int("prompts", len(prompts)).Msg("starting benchmark sweep")

	var bar *progressbar.ProgressBar
	if r.progress {
		bar = progressbar.NewOptions(len(steps)*len(prompts),
			progressbar.OptionSetDescription("Benchmarking"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
		)
	}

	records := make([]BenchmarkRecord, 0, len(steps)*len(prompts))
	for _, step := range steps {
		records = append(records, r.runCheckpoint(modelName, step, prompts, bar)...)
	}

	if bar != nil {
		bar.Finish()
	}
	return records, nil
}

// runCheckpoint loads one checkpoint and runs all prompts against it.
// A resolution or load failure produces one error record per prompt so
// the sweep's record count stays checkpoints x prompts.
func (r *BenchmarkRunner) runCheckpoint(modelName string, step int, prompts []string, bar *progressbar.ProgressBar) []BenchmarkRecord {
	records := make([]BenchmarkRecord, 0, len(prompts))

	fail := func(err error) []BenchmarkRecord {
		r.log.Error().Err(err).Int("step", step).Msg("checkpoint failed")
		for _, prompt := range prompts {
			records = append(records, BenchmarkRecord{Step: step, Prompt: prompt, Err: err})
			if bar != nil {
				bar.Add(1)
			}
		}
		return records
	}

	dir, err := r.resolver.Resolve(NewStepRef(modelName, step))
	if err != nil {
		return fail(err)
	}

	loadStart := time.Now()
	loaded, err := r.loader.Load(dir, r.cfg.Device)
	if err != nil {
		return fail(err)
	}
	defer loaded.Close()
	loadTime := time.Since(loadStart)

	r.log.Info().Int("step", step).Str("device", loaded.Device.String()).Dur("load_time", loadTime).Msg("checkpoint loaded")

	for _, prompt := range prompts {
		rec := BenchmarkRecord{Step: step, Prompt: prompt, LoadTime: loadTime}
		result, err := r.engine.Generate(loaded.Model, loaded.Tokenizer, prompt, r.cfg)
		if err != nil {
			r.log.Warn().Err(err).Int("step", step).Msg("prompt failed")
			rec.Err = err
		} else {
			rec.Result = result
		}
		records = append(records, rec)
		if bar != nil {
			bar.Add(1)
		}
	}

	return records
}

// promptsFile mirrors the legacy prompts format, a JSON object wrapping
// prompt entries.
type promptsFile struct {
	BenchmarkPrompts []struct {
		Text string `json:"text"`
	} `json:"benchmark_prompts"`
}

// LoadPrompts reads a prompts file: either a plain JSON string list or
// the legacy {"benchmark_prompts": [{"text": ...}]} shape. A missing or
// malformed file falls back to the default prompt.
func LoadPrompts(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{DefaultPrompt}, fmt.Errorf("prompts file not found: %s", path)
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var legacy promptsFile
	if err := json.Unmarshal(data, &legacy); err == nil && len(legacy.BenchmarkPrompts) > 0 {
		prompts := make([]string, len(legacy.BenchmarkPrompts))
		for i, p := range legacy.BenchmarkPrompts {
			prompts[i] = p.Text
		}
		return prompts, nil
	}

	return []string{DefaultPrompt}, fmt.Errorf("invalid prompts format: %s", path)
}
