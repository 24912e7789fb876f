// Package coqui provides an offline TTS engine backed by a locally running
// Coqui TTS server (ghcr.io/coqui-ai/tts-cpu). Synthesis is performed via
// GET /api/tts with URL query parameters; availability and the hosted model
// name come from GET /details.
package coqui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/synth/engine"
)

const (
	// Name is the registry key for this engine.
	Name = "coqui"

	// DefaultServerURL is where the stock Coqui TTS container listens.
	DefaultServerURL = "http://localhost:5002"

	// DefaultModel is the pretrained model the quickstart setup hosts.
	DefaultModel = "tts_models/en/ljspeech/tacotron2-DDC"

	apiTTSEndpoint  = "/api/tts"
	detailsEndpoint = "/details"

	defaultTimeout = 60 * time.Second
)

var _ engine.Engine = (*Engine)(nil)

// Option is a functional option for Engine.
type Option func(*Engine)

// WithTimeout sets the per-request HTTP timeout. Synthesis on CPU is slow,
// the default is 60 s.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.httpClient.Timeout = d
	}
}

// Engine implements engine.Engine against a local Coqui TTS server.
type Engine struct {
	serverURL  string
	httpClient *http.Client
}

// New returns a coqui engine targeting serverURL. Empty means
// DefaultServerURL.
func New(serverURL string, opts ...Option) *Engine {
	if serverURL == "" {
		serverURL = DefaultServerURL
	}
	e := &Engine{
		serverURL:  strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Name implements engine.Engine.
func (e *Engine) Name() string { return Name }

// detailsResponse is the JSON body returned by GET /details.
type detailsResponse struct {
	ModelName string `json:"model_name"`
	Language  string `json:"language"`
}

// Available implements engine.Engine. It probes GET /details and fails when
// the server is unreachable.
func (e *Engine) Available(ctx context.Context) error {
	if _, err := e.Details(ctx); err != nil {
		return err
	}
	return nil
}

// Details returns the model name hosted by the server.
func (e *Engine) Details(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.serverURL+detailsEndpoint, nil)
	if err != nil {
		return "", fmt.Errorf("coqui: create details request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("coqui: server not reachable at %s, start a Coqui TTS server: %w", e.serverURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("coqui: GET %s returned status %d", detailsEndpoint, resp.StatusCode)
	}

	var details detailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return "", fmt.Errorf("coqui: decode details response: %w", err)
	}
	if details.ModelName == "" {
		return DefaultModel, nil
	}
	return details.ModelName, nil
}

// Synthesize implements engine.Engine. Rate is not supported by the server
// API and ignored; Voice selects a speaker_id on multi-speaker models.
func (e *Engine) Synthesize(ctx context.Context, text string, opts engine.Options) (*engine.Audio, error) {
	params := url.Values{}
	params.Set("text", text)
	if opts.Voice != "" {
		params.Set("speaker_id", opts.Voice)
	}
	if opts.Language != "" {
		params.Set("language_id", opts.Language)
	}

	reqURL := e.serverURL + apiTTSEndpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("coqui: create tts request: %w", err)
	}
	req.Header.Set("Accept", "audio/wav")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coqui: GET %s: %w", apiTTSEndpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coqui: GET %s returned status %d", apiTTSEndpoint, resp.StatusCode)
	}

	wav, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("coqui: read WAV response: %w", err)
	}
	if _, err := engine.ParseWAV(wav); err != nil {
		return nil, fmt.Errorf("coqui: server returned invalid WAV: %w", err)
	}

	return &engine.Audio{Data: wav, Extension: "wav"}, nil
}
