// Package synth implements the TTS engine registry and the synthesis
// dispatcher that routes one request to one engine and writes exactly one
// audio file.
//
// Error policy is fail-fast: every failure surfaces as a typed error and no
// engine is ever silently substituted for the one the caller asked for. This
// is deliberately the opposite of the enrichment layer's degrade-and-continue
// behavior.
package synth

import (
	"context"
	"sort"

	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/synth/engine"
)

// Canonical engine names, in recommendation order where it matters.
const (
	EngineEspeak = "espeak"
	EngineGtts   = "gtts"
	EngineEdge   = "edge"
	EngineCoqui  = "coqui"
	EngineBark   = "bark"
)

// Descriptor describes one engine's capabilities and current availability.
type Descriptor struct {
	// Name is the engine's registry key.
	Name string

	// Available reports whether the engine passed its startup probe.
	Available bool

	// Quality is a coarse voice-quality label ("basic" .. "excellent").
	Quality string

	// Speed is a coarse synthesis-latency label ("fast" .. "very slow").
	Speed string

	// Mode is "online" or "offline".
	Mode string

	// Notes is a one-line human description.
	Notes string

	// Hint describes how to make the engine available. Set when Available
	// is false.
	Hint string
}

// meta is the static capability table. Every canonical engine appears here
// so the registry snapshot always covers all five names, registered or not.
var meta = map[string]Descriptor{
	EngineEspeak: {
		Name:    EngineEspeak,
		Quality: "basic",
		Speed:   "fast",
		Mode:    "offline",
		Notes:   "system voice via the espeak-ng binary, WAV",
		Hint:    "install espeak-ng",
	},
	EngineGtts: {
		Name:    EngineGtts,
		Quality: "good",
		Speed:   "fast",
		Mode:    "online",
		Notes:   "Google Translate voice, MP3, no credentials needed",
		Hint:    "enable the gtts engine in the configuration",
	},
	EngineEdge: {
		Name:    EngineEdge,
		Quality: "excellent",
		Speed:   "medium",
		Mode:    "online",
		Notes:   "Microsoft Edge neural voices, MP3, no credentials needed",
		Hint:    "enable the edge engine in the configuration",
	},
	EngineCoqui: {
		Name:    EngineCoqui,
		Quality: "very good",
		Speed:   "slow",
		Mode:    "offline",
		Notes:   "local Coqui TTS server, default model tts_models/en/ljspeech/tacotron2-DDC, WAV",
		Hint:    "start a Coqui TTS server and set engines.coqui.url",
	},
	EngineBark: {
		Name:    EngineBark,
		Quality: "excellent",
		Speed:   "very slow",
		Mode:    "offline",
		Notes:   "local Bark server, expressive speech, WAV",
		Hint:    "start a Bark server and set engines.bark.url",
	},
}

// recommendationOrder is the preference used by Recommended: best
// effort-free quality first, offline fallback last.
var recommendationOrder = []string{EngineGtts, EngineEdge, EngineEspeak}

// Registry holds the engine instances and a capability snapshot taken once
// at construction. It is immutable afterwards and safe for concurrent use.
type Registry struct {
	engines     map[string]engine.Engine
	descriptors map[string]Descriptor
}

// NewRegistry probes each given engine exactly once and records the outcome.
// Canonical engines not passed in (e.g. disabled by configuration) still
// appear in the snapshot as unavailable. Probing happens at construction so
// later lookups never pay for it; engines that come up afterwards need a new
// registry.
func NewRegistry(ctx context.Context, engines ...engine.Engine) *Registry {
	r := &Registry{
		engines:     make(map[string]engine.Engine, len(engines)),
		descriptors: make(map[string]Descriptor, len(meta)),
	}

	for name, d := range meta {
		r.descriptors[name] = d
	}

	for _, eng := range engines {
		name := eng.Name()
		r.engines[name] = eng

		d, ok := r.descriptors[name]
		if !ok {
			d = Descriptor{Name: name}
		}
		if err := eng.Available(ctx); err != nil {
			d.Available = false
			d.Hint = err.Error()
		} else {
			d.Available = true
			d.Hint = ""
		}
		r.descriptors[name] = d
	}

	return r
}

// Capabilities returns a copy of the capability snapshot, keyed by engine
// name.
func (r *Registry) Capabilities() map[string]Descriptor {
	out := make(map[string]Descriptor, len(r.descriptors))
	for name, d := range r.descriptors {
		out[name] = d
	}
	return out
}

// Names returns all engine names in the snapshot, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.descriptors))
	for name := range r.descriptors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Recommended returns the preferred available engine: gtts, then edge, then
// espeak, then any other available engine. Returns ErrNoEngineAvailable when
// nothing is usable.
func (r *Registry) Recommended() (string, error) {
	for _, name := range recommendationOrder {
		if r.descriptors[name].Available {
			return name, nil
		}
	}
	for _, name := range r.Names() {
		if r.descriptors[name].Available {
			return name, nil
		}
	}
	return "", ErrNoEngineAvailable
}

// engineFor resolves a request's engine name to a usable instance, mapping
// the failure modes to their typed errors.
func (r *Registry) engineFor(name string) (engine.Engine, error) {
	d, known := r.descriptors[name]
	if !known {
		return nil, &UnknownEngineError{Engine: name, Known: r.Names()}
	}
	if !d.Available {
		return nil, &EngineUnavailableError{Engine: name, Hint: d.Hint}
	}
	eng, ok := r.engines[name]
	if !ok {
		return nil, &EngineUnavailableError{Engine: name, Hint: d.Hint}
	}
	return eng, nil
}
