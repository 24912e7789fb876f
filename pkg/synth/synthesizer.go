package synth

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/synth/engine"
	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/textutil"
)

const (
	// DefaultOutputDir is where audio files land unless configured
	// otherwise.
	DefaultOutputDir = "output_audio"

	defaultLanguage = "en"
	defaultBasename = "speech"
)

// Request describes one synthesis job.
type Request struct {
	// Text is the content to speak. Must be non-blank.
	Text string

	// Engine is the registry key of the engine to use. Empty selects the
	// registry's recommended engine.
	Engine string

	// Language is the target language code. Empty means "en".
	Language string

	// Voice selects a named voice where the engine supports one.
	Voice string

	// Rate is the speaking rate in words per minute; zero means engine
	// default.
	Rate int

	// Basename is the output filename stem. Empty means "speech".
	Basename string
}

// Option is a functional option for Synthesizer.
type Option func(*Synthesizer)

// WithOutputDir sets the directory audio files are written to. Defaults to
// DefaultOutputDir. The directory is created on first write.
func WithOutputDir(dir string) Option {
	return func(s *Synthesizer) {
		s.outputDir = dir
	}
}

// Synthesizer dispatches synthesis requests against a Registry and writes
// the resulting audio to disk. Safe for concurrent use.
type Synthesizer struct {
	registry  *Registry
	outputDir string
}

// NewSynthesizer returns a Synthesizer over the given registry.
func NewSynthesizer(registry *Registry, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		registry:  registry,
		outputDir: DefaultOutputDir,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Registry returns the registry this synthesizer dispatches against.
func (s *Synthesizer) Registry() *Registry { return s.registry }

// Synthesize validates req, dispatches it to the requested engine, writes
// exactly one audio file, and returns its path.
//
// Failure modes, in check order:
//
//   - blank text: ErrEmptyInput, before any engine lookup;
//   - engine name not in the registry: *UnknownEngineError;
//   - engine known but unusable: *EngineUnavailableError (never substitutes
//     another engine);
//   - engine or filesystem failure: wrapped error.
func (s *Synthesizer) Synthesize(ctx context.Context, req Request) (string, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return "", ErrEmptyInput
	}

	name := req.Engine
	if name == "" {
		recommended, err := s.registry.Recommended()
		if err != nil {
			return "", err
		}
		name = recommended
	}

	eng, err := s.registry.engineFor(name)
	if err != nil {
		return "", err
	}

	opts := engine.Options{
		Language: req.Language,
		Voice:    req.Voice,
		Rate:     req.Rate,
	}
	if opts.Language == "" {
		opts.Language = defaultLanguage
	}

	audio, err := eng.Synthesize(ctx, text, opts)
	if err != nil {
		return "", fmt.Errorf("synth: %s: %w", name, err)
	}

	path, err := s.write(name, req.Basename, audio)
	if err != nil {
		return "", err
	}

	slog.Info("synth: wrote audio file",
		"engine", name, "path", path, "bytes", len(audio.Data))
	return path, nil
}

// write stores the audio under a collision-free timestamped name.
func (s *Synthesizer) write(engineName, basename string, audio *engine.Audio) (string, error) {
	if basename == "" {
		basename = defaultBasename
	}

	if err := textutil.EnsureDir(s.outputDir); err != nil {
		return "", fmt.Errorf("synth: ensure output dir: %w", err)
	}

	filename := textutil.TimestampedName(basename, engineName) + "." + audio.Extension
	path := filepath.Join(s.outputDir, filename)

	if err := os.WriteFile(path, audio.Data, 0o644); err != nil {
		return "", fmt.Errorf("synth: write %s: %w", path, err)
	}
	return path, nil
}
