// Command audiobook turns written text into narrated audio. It enriches raw
// document text with an LLM rewrite pass and synthesizes speech through one
// of five text-to-speech engines.
//
// Usage:
//
//	audiobook enrich  [flags] [file]   rewrite text for narration, print to stdout
//	audiobook speak   [flags] [file]   synthesize text to an audio file
//	audiobook engines [flags]          show engine availability and the recommended pick
//
// Input is read from file when given, otherwise from stdin. A YAML config
// file may be passed to every subcommand with -config; all settings have
// working defaults.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/Abhi95081/AI-AudioBook-Generator/internal/config"
	"github.com/Abhi95081/AI-AudioBook-Generator/internal/observe"
	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/enrich"
	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/synth"
	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/synth/engine"
	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/synth/engine/bark"
	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/synth/engine/coqui"
	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/synth/engine/edge"
	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/synth/engine/espeak"
	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/synth/engine/gtts"
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		usage()
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{})
	if err != nil {
		fmt.Fprintln(os.Stderr, "audiobook:", err)
		return 1
	}
	defer shutdown(context.Background())

	switch os.Args[1] {
	case "enrich":
		return runEnrich(ctx, os.Args[2:])
	case "speak":
		return runSpeak(ctx, os.Args[2:])
	case "engines":
		return runEngines(ctx, os.Args[2:])
	case "help", "-h", "--help":
		usage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "audiobook: unknown command %q\n\n", os.Args[1])
		usage()
		return 2
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: audiobook <command> [flags] [file]

Commands:
  enrich    rewrite text for narration using an LLM, print the result
  speak     synthesize text to an audio file
  engines   show engine availability and the recommended pick

Run "audiobook <command> -h" for command flags.
`)
}

// setup loads the config and installs the default logger. Shared by every
// subcommand.
func setup(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel.Slog(),
	}))
	slog.SetDefault(logger)
	return cfg, nil
}

// readInput returns the contents of the first positional argument, or stdin
// when none is given ("-" also means stdin).
func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func runEnrich(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("audiobook enrich", flag.ExitOnError)
	configPath := fs.String("config", "", "path to the YAML config file")
	provider := fs.String("provider", "", "LLM provider: auto, openai, or gemini")
	model := fs.String("model", "", "override the provider's default model")
	simple := fs.Bool("simple", false, "use the terse clarity prompt instead of the narration prompt")
	outPath := fs.String("o", "", "write the result to this file instead of stdout")
	fs.Parse(args)

	cfg, err := setup(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "audiobook:", err)
		return 1
	}

	text, err := readInput(fs.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, "audiobook:", err)
		return 1
	}

	opts := enrichOptions(cfg, *provider, *model)
	opts.Narration = !*simple

	m := observe.DefaultMetrics()
	start := time.Now()
	result := enrich.New().Enrich(ctx, text, opts)
	m.EnrichDuration.Record(ctx, time.Since(start).Seconds())

	if *outPath != "" {
		if err := os.WriteFile(*outPath, []byte(result), 0o644); err != nil {
			fmt.Fprintln(os.Stderr, "audiobook:", err)
			return 1
		}
		return 0
	}
	fmt.Print(result)
	return 0
}

func runSpeak(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("audiobook speak", flag.ExitOnError)
	configPath := fs.String("config", "", "path to the YAML config file")
	engineName := fs.String("engine", "", "engine to use (default: recommended)")
	lang := fs.String("lang", "", "language code, e.g. en (default: en)")
	voice := fs.String("voice", "", "named voice, where the engine supports one")
	rate := fs.Int("rate", 0, "speaking rate in words per minute (0 = engine default)")
	basename := fs.String("basename", "", "output filename stem (default: speech)")
	outDir := fs.String("out", "", "output directory (default: from config)")
	doEnrich := fs.Bool("enrich", false, "run the LLM enrichment pass before synthesis")
	provider := fs.String("provider", "", "LLM provider for -enrich: auto, openai, or gemini")
	fs.Parse(args)

	cfg, err := setup(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "audiobook:", err)
		return 1
	}

	text, err := readInput(fs.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, "audiobook:", err)
		return 1
	}

	if *doEnrich {
		text = enrich.New().Enrich(ctx, text, enrichOptions(cfg, *provider, ""))
	}

	registry := synth.NewRegistry(ctx, buildEngines(cfg)...)
	recordAvailability(ctx, registry)

	dir := cfg.OutputDir
	if *outDir != "" {
		dir = *outDir
	}
	synthesizer := synth.NewSynthesizer(registry, synth.WithOutputDir(dir))

	// Resolve the engine up front so metrics and output name the real one
	// even when the recommendation picked it.
	name := *engineName
	if name == "" {
		if name, err = registry.Recommended(); err != nil {
			fmt.Fprintln(os.Stderr, "audiobook:", err)
			return 1
		}
	}

	start := time.Now()
	path, err := synthesizer.Synthesize(ctx, synth.Request{
		Text:     text,
		Engine:   name,
		Language: *lang,
		Voice:    *voice,
		Rate:     *rate,
		Basename: *basename,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "audiobook:", err)
		return 1
	}

	info, statErr := os.Stat(path)
	bytes := 0
	if statErr == nil {
		bytes = int(info.Size())
	}
	observe.DefaultMetrics().RecordSynthesis(ctx, name, time.Since(start).Seconds(), bytes)

	fmt.Println(path)
	return 0
}

func runEngines(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("audiobook engines", flag.ExitOnError)
	configPath := fs.String("config", "", "path to the YAML config file")
	fs.Parse(args)

	cfg, err := setup(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "audiobook:", err)
		return 1
	}

	registry := synth.NewRegistry(ctx, buildEngines(cfg)...)
	recordAvailability(ctx, registry)
	caps := registry.Capabilities()

	names := make([]string, 0, len(caps))
	for name := range caps {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ENGINE\tAVAILABLE\tQUALITY\tSPEED\tMODE\tNOTES")
	for _, name := range names {
		d := caps[name]
		status := "yes"
		if !d.Available {
			status = "no (" + d.Hint + ")"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			d.Name, status, d.Quality, d.Speed, d.Mode, d.Notes)
	}
	w.Flush()

	if recommended, err := registry.Recommended(); err == nil {
		fmt.Printf("\nRecommended: %s\n", recommended)
	} else {
		fmt.Printf("\nRecommended: none (%v)\n", err)
	}
	return 0
}

// recordAvailability publishes the registry's probe snapshot as a gauge.
func recordAvailability(ctx context.Context, registry *synth.Registry) {
	m := observe.DefaultMetrics()
	for name, d := range registry.Capabilities() {
		m.RecordEngineAvailability(ctx, name, d.Available)
	}
}

// buildEngines instantiates every engine the config allows. Availability is
// decided later by the registry probe, not here.
func buildEngines(cfg *config.Config) []engine.Engine {
	engines := []engine.Engine{
		espeak.New(cfg.Engines.Espeak.Binary),
		coqui.New(cfg.Engines.Coqui.URL),
		bark.New(cfg.Engines.Bark.URL),
	}
	if !cfg.Engines.Gtts.Disabled {
		engines = append(engines, gtts.New())
	}
	if !cfg.Engines.Edge.Disabled {
		var opts []edge.Option
		if cfg.Engines.Edge.Voice != "" {
			opts = append(opts, edge.WithVoice(cfg.Engines.Edge.Voice))
		}
		engines = append(engines, edge.New(opts...))
	}
	return engines
}

// enrichOptions merges config values with per-invocation flag overrides.
func enrichOptions(cfg *config.Config, provider, model string) enrich.Options {
	opts := enrich.DefaultOptions()
	if cfg.Enrich.Provider != "" {
		opts.Provider = enrich.ProviderName(cfg.Enrich.Provider)
	}
	if provider != "" {
		opts.Provider = enrich.ProviderName(provider)
	}
	opts.Model = cfg.Enrich.Model
	if model != "" {
		opts.Model = model
	}
	opts.MaxChunkChars = cfg.Enrich.MaxChunkChars
	return opts
}
