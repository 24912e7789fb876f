// Package config provides the configuration schema and loader for the
// audiobook tools. Configuration is optional: every field has a working
// default and the CLIs run without any config file at all.
package config

import "log/slog"

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Slog maps l to its slog.Level. Unknown values map to Info.
func (l LogLevel) Slog() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Config is the root configuration structure, typically loaded from a YAML
// file using [Load] or [LoadFromReader].
type Config struct {
	// OutputDir is where synthesized audio files are written.
	OutputDir string `yaml:"output_dir"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	Engines  EnginesConfig  `yaml:"engines"`
	Enrich   EnrichConfig   `yaml:"enrich"`
	VectorDB VectorDBConfig `yaml:"vectordb"`
}

// EnginesConfig holds per-engine settings.
type EnginesConfig struct {
	Espeak EspeakConfig `yaml:"espeak"`
	Gtts   GttsConfig   `yaml:"gtts"`
	Edge   EdgeConfig   `yaml:"edge"`
	Coqui  CoquiConfig  `yaml:"coqui"`
	Bark   BarkConfig   `yaml:"bark"`
}

// EspeakConfig configures the espeak engine.
type EspeakConfig struct {
	// Binary overrides the executable name. Empty tries espeak-ng, then
	// espeak.
	Binary string `yaml:"binary"`
}

// GttsConfig configures the gtts engine.
type GttsConfig struct {
	// Disabled keeps the engine out of the registry, e.g. on air-gapped
	// machines.
	Disabled bool `yaml:"disabled"`
}

// EdgeConfig configures the edge engine.
type EdgeConfig struct {
	// Disabled keeps the engine out of the registry.
	Disabled bool `yaml:"disabled"`

	// Voice is the default neural voice, e.g. "en-US-JennyNeural".
	Voice string `yaml:"voice"`
}

// CoquiConfig configures the coqui engine.
type CoquiConfig struct {
	// URL is the Coqui TTS server base URL. Empty means
	// http://localhost:5002.
	URL string `yaml:"url"`
}

// BarkConfig configures the bark engine.
type BarkConfig struct {
	// URL is the Bark server base URL. Empty means http://localhost:8000.
	URL string `yaml:"url"`
}

// EnrichConfig configures the LLM enrichment pass.
type EnrichConfig struct {
	// Provider is "auto", "openai", or "gemini". Empty means auto.
	Provider string `yaml:"provider"`

	// Model overrides the provider's default model.
	Model string `yaml:"model"`

	// MaxChunkChars bounds per-request chunk size. Zero means the built-in
	// default.
	MaxChunkChars int `yaml:"max_chunk_chars"`
}

// VectorDBConfig configures the PostgreSQL vector store.
type VectorDBConfig struct {
	// DSN is the PostgreSQL connection string.
	DSN string `yaml:"dsn"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		OutputDir: "output_audio",
		LogLevel:  LogInfo,
	}
}
