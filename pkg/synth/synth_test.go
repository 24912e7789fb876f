package synth_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/synth"
	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/synth/engine"
	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/synth/engine/enginetest"
)

func TestCapabilitiesAlwaysCoversAllEngines(t *testing.T) {
	t.Parallel()

	// No engines registered at all: the snapshot still lists every canonical
	// name, all unavailable.
	r := synth.NewRegistry(context.Background())

	caps := r.Capabilities()
	want := []string{"bark", "coqui", "edge", "espeak", "gtts"}
	if len(caps) != len(want) {
		t.Fatalf("got %d capability entries, want %d: %v", len(caps), len(want), r.Names())
	}
	for _, name := range want {
		d, ok := caps[name]
		if !ok {
			t.Errorf("capabilities missing %q", name)
			continue
		}
		if d.Available {
			t.Errorf("%s: Available = true, want false with no engines registered", name)
		}
		if d.Hint == "" {
			t.Errorf("%s: unavailable descriptor has no hint", name)
		}
	}
}

func TestRegistryProbesEachEngineOnce(t *testing.T) {
	t.Parallel()

	eng := &enginetest.Engine{EngineName: "gtts"}
	r := synth.NewRegistry(context.Background(), eng)

	r.Capabilities()
	r.Capabilities()
	if _, err := r.Recommended(); err != nil {
		t.Fatalf("Recommended: %v", err)
	}

	if eng.AvailableCalls != 1 {
		t.Errorf("Available called %d times, want 1 (probe only at construction)", eng.AvailableCalls)
	}
}

func TestRecommendedPreferenceOrder(t *testing.T) {
	t.Parallel()

	probeErr := errors.New("not installed")

	tests := []struct {
		name    string
		engines []*enginetest.Engine
		want    string
	}{
		{
			name: "gtts wins when available",
			engines: []*enginetest.Engine{
				{EngineName: "espeak"},
				{EngineName: "edge"},
				{EngineName: "gtts"},
			},
			want: "gtts",
		},
		{
			name: "edge when gtts is down",
			engines: []*enginetest.Engine{
				{EngineName: "gtts", AvailableErr: probeErr},
				{EngineName: "edge"},
				{EngineName: "espeak"},
			},
			want: "edge",
		},
		{
			name: "espeak as last preference",
			engines: []*enginetest.Engine{
				{EngineName: "espeak"},
			},
			want: "espeak",
		},
		{
			name: "any available engine beats an error",
			engines: []*enginetest.Engine{
				{EngineName: "bark"},
			},
			want: "bark",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newRegistry(t, tt.engines...)
			got, err := r.Recommended()
			if err != nil {
				t.Fatalf("Recommended: %v", err)
			}
			if got != tt.want {
				t.Errorf("Recommended = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecommendedNoEngines(t *testing.T) {
	t.Parallel()

	r := newRegistry(t, &enginetest.Engine{EngineName: "gtts", AvailableErr: errors.New("blocked")})
	if _, err := r.Recommended(); !errors.Is(err, synth.ErrNoEngineAvailable) {
		t.Errorf("Recommended error = %v, want ErrNoEngineAvailable", err)
	}
}

func TestSynthesizeEmptyInput(t *testing.T) {
	t.Parallel()

	gtts := &enginetest.Engine{EngineName: "gtts"}
	s := newSynthesizer(t, gtts)

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := s.Synthesize(context.Background(), synth.Request{Text: text, Engine: "gtts"}); !errors.Is(err, synth.ErrEmptyInput) {
			t.Errorf("Synthesize(%q) error = %v, want ErrEmptyInput", text, err)
		}
	}
	if len(gtts.Calls) != 0 {
		t.Errorf("engine was called %d times for empty input, want 0", len(gtts.Calls))
	}
}

func TestSynthesizeEmptyInputPrecedesEngineLookup(t *testing.T) {
	t.Parallel()

	s := newSynthesizer(t)

	// Empty text plus a nonsense engine name: the input check must win.
	_, err := s.Synthesize(context.Background(), synth.Request{Text: "  ", Engine: "no-such-engine"})
	if !errors.Is(err, synth.ErrEmptyInput) {
		t.Errorf("error = %v, want ErrEmptyInput even for unknown engine", err)
	}
}

func TestSynthesizeUnknownEngine(t *testing.T) {
	t.Parallel()

	s := newSynthesizer(t, &enginetest.Engine{EngineName: "gtts"})

	_, err := s.Synthesize(context.Background(), synth.Request{Text: "hello", Engine: "polly"})

	var unknown *synth.UnknownEngineError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want *UnknownEngineError", err)
	}
	if unknown.Engine != "polly" {
		t.Errorf("Engine = %q, want polly", unknown.Engine)
	}
	var unavailable *synth.EngineUnavailableError
	if errors.As(err, &unavailable) {
		t.Error("unknown engine must not also match *EngineUnavailableError")
	}
}

func TestSynthesizeUnavailableEngine(t *testing.T) {
	t.Parallel()

	s := newSynthesizer(t,
		&enginetest.Engine{EngineName: "espeak", AvailableErr: errors.New("espeak: not found on PATH, install espeak-ng")},
		&enginetest.Engine{EngineName: "gtts"},
	)

	_, err := s.Synthesize(context.Background(), synth.Request{Text: "hello", Engine: "espeak"})

	var unavailable *synth.EngineUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("error = %v, want *EngineUnavailableError", err)
	}
	if unavailable.Engine != "espeak" {
		t.Errorf("Engine = %q, want espeak", unavailable.Engine)
	}
	if !strings.Contains(unavailable.Hint, "install espeak-ng") {
		t.Errorf("Hint = %q, want install hint from the probe", unavailable.Hint)
	}

	var unknown *synth.UnknownEngineError
	if errors.As(err, &unknown) {
		t.Error("unavailable engine must not also match *UnknownEngineError")
	}
}

func TestSynthesizeWritesExactlyOneFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	gtts := &enginetest.Engine{EngineName: "gtts", Ext: "mp3", Data: []byte("mp3-bytes")}
	s := newSynthesizerInDir(t, dir, gtts)

	path, err := s.Synthesize(context.Background(), synth.Request{
		Text:     "hello world",
		Engine:   "gtts",
		Basename: "story",
	})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d files, want exactly 1", len(entries))
	}

	name := filepath.Base(path)
	if entries[0].Name() != name {
		t.Errorf("returned path %q does not match written file %q", name, entries[0].Name())
	}
	if !strings.HasPrefix(name, "story_gtts_") {
		t.Errorf("filename = %q, want prefix story_gtts_", name)
	}
	if !strings.HasSuffix(name, ".mp3") {
		t.Errorf("filename = %q, want .mp3 extension", name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "mp3-bytes" {
		t.Errorf("file content = %q, want engine audio bytes", data)
	}
}

func TestSynthesizeDistinctFilenames(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := newSynthesizerInDir(t, dir, &enginetest.Engine{EngineName: "gtts"})

	seen := make(map[string]bool)
	for range 5 {
		path, err := s.Synthesize(context.Background(), synth.Request{Text: "again", Engine: "gtts"})
		if err != nil {
			t.Fatalf("Synthesize: %v", err)
		}
		if seen[path] {
			t.Fatalf("duplicate output path %q", path)
		}
		seen[path] = true
	}
}

func TestSynthesizeDefaultEngineIsRecommended(t *testing.T) {
	t.Parallel()

	gtts := &enginetest.Engine{EngineName: "gtts"}
	espeak := &enginetest.Engine{EngineName: "espeak"}
	s := newSynthesizerInDir(t, t.TempDir(), gtts, espeak)

	if _, err := s.Synthesize(context.Background(), synth.Request{Text: "hello"}); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if len(gtts.Calls) != 1 {
		t.Errorf("gtts calls = %d, want 1 (recommended engine)", len(gtts.Calls))
	}
	if len(espeak.Calls) != 0 {
		t.Errorf("espeak calls = %d, want 0", len(espeak.Calls))
	}
}

func TestSynthesizePassesOptions(t *testing.T) {
	t.Parallel()

	gtts := &enginetest.Engine{EngineName: "gtts"}
	s := newSynthesizerInDir(t, t.TempDir(), gtts)

	_, err := s.Synthesize(context.Background(), synth.Request{
		Text:   "  padded text  ",
		Engine: "gtts",
		Voice:  "some-voice",
		Rate:   150,
	})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if len(gtts.Calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(gtts.Calls))
	}
	call := gtts.Calls[0]
	if call.Text != "padded text" {
		t.Errorf("Text = %q, want trimmed input", call.Text)
	}
	if call.Opts.Language != "en" {
		t.Errorf("Language = %q, want default en", call.Opts.Language)
	}
	if call.Opts.Voice != "some-voice" || call.Opts.Rate != 150 {
		t.Errorf("Opts = %+v, want voice and rate passed through", call.Opts)
	}
}

func TestSynthesizeEngineFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	gtts := &enginetest.Engine{EngineName: "gtts", SynthesizeErr: errors.New("upstream 429")}
	s := newSynthesizerInDir(t, dir, gtts)

	_, err := s.Synthesize(context.Background(), synth.Request{Text: "hello", Engine: "gtts"})
	if err == nil {
		t.Fatal("Synthesize: want error when the engine fails")
	}
	if !strings.Contains(err.Error(), "upstream 429") {
		t.Errorf("error = %v, want wrapped engine error", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("got %d files after failed synthesis, want 0", len(entries))
	}
}

// ---- helpers ----

func newRegistry(t *testing.T, engines ...*enginetest.Engine) *synth.Registry {
	t.Helper()
	r := synth.NewRegistry(context.Background(), asEngines(engines)...)
	return r
}

func newSynthesizer(t *testing.T, engines ...*enginetest.Engine) *synth.Synthesizer {
	t.Helper()
	return newSynthesizerInDir(t, t.TempDir(), engines...)
}

func newSynthesizerInDir(t *testing.T, dir string, engines ...*enginetest.Engine) *synth.Synthesizer {
	t.Helper()
	return synth.NewSynthesizer(newRegistry(t, engines...), synth.WithOutputDir(dir))
}

func asEngines(fakes []*enginetest.Engine) []engine.Engine {
	out := make([]engine.Engine, len(fakes))
	for i, f := range fakes {
		out[i] = f
	}
	return out
}
