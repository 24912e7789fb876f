// Package enginetest provides a configurable fake engine for registry and
// dispatcher tests.
package enginetest

import (
	"context"
	"sync"

	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/synth/engine"
)

var _ engine.Engine = (*Engine)(nil)

// Call records a single invocation of Synthesize.
type Call struct {
	Text string
	Opts engine.Options
}

// Engine is a fake engine.Engine.
type Engine struct {
	mu sync.Mutex

	// EngineName is returned by Name. Defaults to "fake".
	EngineName string

	// Ext is the extension of produced audio. Defaults to "wav".
	Ext string

	// AvailableErr, if non-nil, is returned by Available.
	AvailableErr error

	// AvailableCalls counts invocations of Available.
	AvailableCalls int

	// Data is the audio payload returned by Synthesize. Defaults to
	// []byte("fake-audio").
	Data []byte

	// SynthesizeErr, if non-nil, is returned by Synthesize.
	SynthesizeErr error

	// Calls records every invocation of Synthesize in order.
	Calls []Call
}

// Name implements engine.Engine.
func (e *Engine) Name() string {
	if e.EngineName == "" {
		return "fake"
	}
	return e.EngineName
}

// Available implements engine.Engine.
func (e *Engine) Available(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.AvailableCalls++
	return e.AvailableErr
}

// Synthesize implements engine.Engine.
func (e *Engine) Synthesize(_ context.Context, text string, opts engine.Options) (*engine.Audio, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Calls = append(e.Calls, Call{Text: text, Opts: opts})

	if e.SynthesizeErr != nil {
		return nil, e.SynthesizeErr
	}

	data := e.Data
	if data == nil {
		data = []byte("fake-audio")
	}
	ext := e.Ext
	if ext == "" {
		ext = "wav"
	}
	return &engine.Audio{Data: data, Extension: ext}, nil
}
