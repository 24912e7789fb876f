// Package engine defines the Engine interface implemented by every TTS
// backend, plus the shared audio container types.
//
// An engine converts one piece of text into one encoded audio blob in a
// single blocking call. Engines differ wildly underneath (a subprocess, an
// HTTP API, a WebSocket stream, a local inference server) but none of that
// leaks through this interface; the dispatcher treats them uniformly.
package engine

import "context"

// Audio is one synthesized utterance.
type Audio struct {
	// Data is the complete encoded audio file content.
	Data []byte

	// Extension is the file extension for Data without the dot, e.g. "mp3"
	// or "wav". It is fixed per engine.
	Extension string
}

// Options carries per-request synthesis parameters. Engines ignore fields
// they cannot honor.
type Options struct {
	// Language is a BCP-47-ish language code (e.g. "en", "de"). Empty means
	// the engine default.
	Language string

	// Voice selects a named voice where the engine supports one.
	Voice string

	// Rate is the speaking rate in words per minute. Zero means the engine
	// default.
	Rate int
}

// Engine is the abstraction over any TTS backend.
//
// Implementations must be safe for concurrent use. Synthesize must not touch
// the filesystem; writing output files is the dispatcher's job.
type Engine interface {
	// Name returns the engine's registry key (e.g. "gtts", "espeak").
	Name() string

	// Available reports whether the engine can synthesize right now. A nil
	// return means usable; a non-nil error describes what is missing (a
	// binary not on PATH, a local server not running). The result feeds the
	// capability snapshot and the error text feeds install hints.
	Available(ctx context.Context) error

	// Synthesize converts text into one encoded audio blob. text is never
	// empty; the dispatcher validates input before dispatching.
	Synthesize(ctx context.Context, text string, opts Options) (*Audio, error)
}
