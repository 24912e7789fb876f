package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// validEnrichProviders lists known enrichment provider names. Used by
// [Validate] to warn about likely typos.
var validEnrichProviders = []string{"auto", "openai", "gemini"}

// Load reads the YAML configuration file at path and returns a validated
// [Config]. An empty path or a missing file yields [Default]; configuration
// is optional.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("config: file not found, using defaults", "path", path)
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Fields absent from the YAML keep their [Default] values. Useful in tests
// where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}
	if cfg.OutputDir == "" {
		errs = append(errs, errors.New("output_dir must not be empty"))
	}
	if cfg.Enrich.MaxChunkChars < 0 {
		errs = append(errs, fmt.Errorf("enrich.max_chunk_chars %d must not be negative", cfg.Enrich.MaxChunkChars))
	}

	if cfg.Enrich.Provider != "" && !slices.Contains(validEnrichProviders, cfg.Enrich.Provider) {
		slog.Warn("unknown enrich provider name, may be a typo",
			"name", cfg.Enrich.Provider,
			"known", validEnrichProviders,
		)
	}

	return errors.Join(errs...)
}
