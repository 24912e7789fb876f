// Package espeak provides an offline TTS engine backed by the espeak-ng
// speech synthesizer binary. Synthesis shells out per utterance and reads
// the WAV output back from a temporary file.
package espeak

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/synth/engine"
)

const (
	// Name is the registry key for this engine.
	Name = "espeak"

	defaultVoice = "en"
)

// binaryCandidates are tried in order when no binary is configured.
var binaryCandidates = []string{"espeak-ng", "espeak"}

var _ engine.Engine = (*Engine)(nil)

// Engine implements engine.Engine by invoking the espeak-ng binary.
type Engine struct {
	binary string
}

// New returns an espeak engine. binary overrides the executable name; empty
// means try espeak-ng, then espeak.
func New(binary string) *Engine {
	return &Engine{binary: binary}
}

// Name implements engine.Engine.
func (e *Engine) Name() string { return Name }

// Available implements engine.Engine. It reports whether the binary is on
// PATH.
func (e *Engine) Available(context.Context) error {
	if _, err := e.resolve(); err != nil {
		return err
	}
	return nil
}

// Synthesize implements engine.Engine. It writes WAV output to a temporary
// file via the binary's -w flag and reads it back; espeak-ng's stdout
// streaming mode produces broken headers on some builds, the file path is
// reliable everywhere.
func (e *Engine) Synthesize(ctx context.Context, text string, opts engine.Options) (*engine.Audio, error) {
	bin, err := e.resolve()
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "espeak-*.wav")
	if err != nil {
		return nil, fmt.Errorf("espeak: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	args := buildArgs(tmpPath, text, opts)
	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return nil, fmt.Errorf("espeak: run %s: %w: %s", bin, err, msg)
		}
		return nil, fmt.Errorf("espeak: run %s: %w", bin, err)
	}

	wav, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("espeak: read output: %w", err)
	}
	if _, err := engine.ParseWAV(wav); err != nil {
		return nil, fmt.Errorf("espeak: %s produced invalid output: %w", bin, err)
	}

	return &engine.Audio{Data: wav, Extension: "wav"}, nil
}

// resolve locates the espeak binary on PATH.
func (e *Engine) resolve() (string, error) {
	if e.binary != "" {
		path, err := exec.LookPath(e.binary)
		if err != nil {
			return "", fmt.Errorf("espeak: %s not found on PATH, install espeak-ng: %w", e.binary, err)
		}
		return path, nil
	}
	for _, candidate := range binaryCandidates {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("espeak: neither espeak-ng nor espeak found on PATH, install espeak-ng")
}

// buildArgs assembles the espeak command line for one utterance.
func buildArgs(outPath, text string, opts engine.Options) []string {
	voice := opts.Voice
	if voice == "" {
		voice = opts.Language
	}
	if voice == "" {
		voice = defaultVoice
	}

	args := []string{"-w", outPath, "-v", voice}
	if opts.Rate > 0 {
		args = append(args, "-s", strconv.Itoa(opts.Rate))
	}
	return append(args, text)
}
