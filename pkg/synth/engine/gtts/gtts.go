// Package gtts provides an online TTS engine backed by the Google Translate
// text-to-speech endpoint. It needs no credentials and returns MP3.
//
// The endpoint caps input at 200 characters per request, so longer texts are
// split at word boundaries and the MP3 segments concatenated. MP3 frames are
// self-delimiting, a plain byte concatenation plays back as one continuous
// stream.
package gtts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/synth/engine"
	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/textutil"
)

const (
	// Name is the registry key for this engine.
	Name = "gtts"

	defaultBaseURL  = "https://translate.google.com"
	ttsPath         = "/translate_tts"
	defaultLanguage = "en"
	defaultTimeout  = 30 * time.Second

	// maxSegmentChars is the endpoint's per-request input limit.
	maxSegmentChars = 200

	// userAgent mimics a browser; the endpoint rejects obviously
	// programmatic clients.
	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

var _ engine.Engine = (*Engine)(nil)

// Option is a functional option for Engine.
type Option func(*Engine)

// WithBaseURL overrides the endpoint base URL. Used by tests.
func WithBaseURL(u string) Option {
	return func(e *Engine) {
		e.baseURL = u
	}
}

// WithTimeout sets the per-request HTTP timeout. Defaults to 30 s.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.httpClient.Timeout = d
	}
}

// Engine implements engine.Engine against the Google Translate TTS endpoint.
type Engine struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a gtts engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Name implements engine.Engine.
func (e *Engine) Name() string { return Name }

// Available implements engine.Engine. The engine is a pure HTTP client with
// no local prerequisites, so it always reports available; network failures
// surface at synthesis time.
func (e *Engine) Available(context.Context) error { return nil }

// Synthesize implements engine.Engine. Voice and Rate are not supported by
// the endpoint and are ignored.
func (e *Engine) Synthesize(ctx context.Context, text string, opts engine.Options) (*engine.Audio, error) {
	lang := opts.Language
	if lang == "" {
		lang = defaultLanguage
	}

	segments := textutil.Chunk(text, maxSegmentChars)

	var mp3 []byte
	for i, segment := range segments {
		data, err := e.fetchSegment(ctx, segment, lang, i, len(segments))
		if err != nil {
			return nil, err
		}
		mp3 = append(mp3, data...)
	}

	return &engine.Audio{Data: mp3, Extension: "mp3"}, nil
}

// fetchSegment requests the MP3 for one text segment.
func (e *Engine) fetchSegment(ctx context.Context, segment, lang string, idx, total int) ([]byte, error) {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("q", segment)
	params.Set("tl", lang)
	params.Set("idx", fmt.Sprint(idx))
	params.Set("total", fmt.Sprint(total))
	params.Set("textlen", fmt.Sprint(len([]rune(segment))))

	reqURL := e.baseURL + ttsPath + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("gtts: create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gtts: GET %s: %w", ttsPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gtts: GET %s returned status %d", ttsPath, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gtts: read MP3 response: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("gtts: empty MP3 response for segment %d", idx)
	}
	return data, nil
}
