// Package bark provides an offline TTS engine backed by a locally running
// Bark inference server. Bark models are large; the server exposes an
// explicit preload endpoint so the first utterance does not pay the full
// model load inside a synthesis request. The engine triggers preload exactly
// once per process.
//
// The server returns raw mono 16-bit PCM (base64 in JSON); the engine wraps
// it in a WAV container. Bark generates at a fixed 24 kHz.
package bark

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/synth/engine"
)

const (
	// Name is the registry key for this engine.
	Name = "bark"

	// DefaultServerURL is where the Bark server listens by default.
	DefaultServerURL = "http://localhost:8000"

	// SampleRate is Bark's fixed output rate in Hz.
	SampleRate = 24000

	healthEndpoint   = "/health"
	preloadEndpoint  = "/preload"
	generateEndpoint = "/generate"

	// defaultTimeout is generous: Bark inference on CPU takes tens of
	// seconds per sentence.
	defaultTimeout = 5 * time.Minute
)

var _ engine.Engine = (*Engine)(nil)

// Option is a functional option for Engine.
type Option func(*Engine)

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.httpClient.Timeout = d
	}
}

// Engine implements engine.Engine against a local Bark server.
type Engine struct {
	serverURL  string
	httpClient *http.Client

	preloadOnce sync.Once
	preloadErr  error
}

// New returns a bark engine targeting serverURL. Empty means
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

// Available implements engine.Engine. It probes GET /health.
func (e *Engine) Available(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.serverURL+healthEndpoint, nil)
	if err != nil {
		return fmt.Errorf("bark: create health request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bark: server not reachable at %s, start a Bark server: %w", e.serverURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bark: GET %s returned status %d", healthEndpoint, resp.StatusCode)
	}
	return nil
}

// generateRequest is the JSON body sent to POST /generate.
type generateRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

// generateResponse is the JSON body returned by POST /generate. Audio is
// base64-encoded raw mono 16-bit PCM.
type generateResponse struct {
	Audio      string `json:"audio"`
	SampleRate int    `json:"sample_rate,omitempty"`
}

// Synthesize implements engine.Engine. Language and Rate are not supported
// by Bark and ignored; Voice selects a history prompt (e.g.
// "v2/en_speaker_6").
func (e *Engine) Synthesize(ctx context.Context, text string, opts engine.Options) (*engine.Audio, error) {
	if err := e.preload(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(generateRequest{Text: text, Voice: opts.Voice})
	if err != nil {
		return nil, fmt.Errorf("bark: marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.serverURL+generateEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("bark: create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bark: POST %s: %w", generateEndpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bark: POST %s returned status %d", generateEndpoint, resp.StatusCode)
	}

	var gen generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gen); err != nil {
		return nil, fmt.Errorf("bark: decode generate response: %w", err)
	}

	pcm, err := base64.StdEncoding.DecodeString(gen.Audio)
	if err != nil {
		return nil, fmt.Errorf("bark: decode PCM payload: %w", err)
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("bark: generate response contained no audio")
	}

	rate := gen.SampleRate
	if rate == 0 {
		rate = SampleRate
	}
	wav, err := engine.EncodeWAV(pcm, rate, 1, 16)
	if err != nil {
		return nil, fmt.Errorf("bark: encode WAV: %w", err)
	}

	return &engine.Audio{Data: wav, Extension: "wav"}, nil
}

// preload asks the server to load model weights. Runs at most once per
// Engine; the outcome, including a failure, is cached.
func (e *Engine) preload(ctx context.Context) error {
	e.preloadOnce.Do(func() {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.serverURL+preloadEndpoint, nil)
		if err != nil {
			e.preloadErr = fmt.Errorf("bark: create preload request: %w", err)
			return
		}

		resp, err := e.httpClient.Do(req)
		if err != nil {
			e.preloadErr = fmt.Errorf("bark: POST %s: %w", preloadEndpoint, err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			e.preloadErr = fmt.Errorf("bark: POST %s returned status %d", preloadEndpoint, resp.StatusCode)
		}
	})
	return e.preloadErr
}
