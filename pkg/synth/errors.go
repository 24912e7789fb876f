package synth

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyInput is returned when the request text is empty or
// whitespace-only. The check runs before any engine lookup, so an empty
// request against an unknown engine name still yields this error.
var ErrEmptyInput = errors.New("synth: input text is empty")

// ErrNoEngineAvailable is returned by Recommended when no engine in the
// registry is usable.
var ErrNoEngineAvailable = errors.New("synth: no TTS engine is available")

// UnknownEngineError is returned when a request names an engine the registry
// has never heard of. Distinct from EngineUnavailableError: the name itself
// is wrong, not the machine's setup.
type UnknownEngineError struct {
	// Engine is the requested name.
	Engine string

	// Known lists the valid engine names.
	Known []string
}

func (e *UnknownEngineError) Error() string {
	return fmt.Sprintf("synth: unknown engine %q (known engines: %s)",
		e.Engine, strings.Join(e.Known, ", "))
}

// EngineUnavailableError is returned when a request names a known engine
// that cannot run right now. Hint tells the user how to make it available.
type EngineUnavailableError struct {
	// Engine is the requested name.
	Engine string

	// Hint describes how to make the engine available, e.g.
	// "install espeak-ng" or "start a Coqui TTS server".
	Hint string
}

func (e *EngineUnavailableError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("synth: engine %q is not available", e.Engine)
	}
	return fmt.Sprintf("synth: engine %q is not available: %s", e.Engine, e.Hint)
}
