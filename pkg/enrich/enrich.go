// Package enrich implements the LLM enrichment dispatcher: it rewrites raw
// document text for better spoken narration by sending bounded-length chunks
// to a configurable LLM provider.
//
// Enrichment is strictly best-effort. Missing credentials, an unavailable
// provider, or a failing per-chunk call all degrade to returning the best
// available text (the original input or the original chunk); callers never
// observe an error from this path. Synthesis takes the opposite, fail-fast
// stance: enrichment is an optional quality pass, synthesis is an explicitly
// requested action.
package enrich

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/provider/llm"
	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/provider/llm/gemini"
	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/provider/llm/openai"
	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/textutil"
)

// ProviderName selects the LLM backend for enrichment.
type ProviderName string

const (
	// ProviderOpenAI forces the OpenAI backend (OPENAI_API_KEY).
	ProviderOpenAI ProviderName = "openai"

	// ProviderGemini forces the Gemini backend (GOOGLE_API_KEY or GEMINI_API_KEY).
	ProviderGemini ProviderName = "gemini"

	// ProviderAuto probes credentials in a fixed order: Gemini first, then
	// OpenAI. The order is load-bearing and must not be reordered.
	ProviderAuto ProviderName = "auto"
)

// NarrationPrompt is the audiobook-focused rewrite instruction.
const NarrationPrompt = `You are an expert audiobook editor. Rewrite the following text to make it perfect for audiobook narration:

1. Fix any OCR errors or typos
2. Improve sentence flow and pacing for spoken narration
3. Add natural pauses where appropriate (use punctuation)
4. Make the language more engaging and listener-friendly
5. Keep the original meaning and key information intact
6. Remove awkward phrasing that sounds unnatural when spoken

Output only the improved text, no explanations.`

// ClarityPrompt is the terse correction-only instruction used when narration
// mode is off.
const ClarityPrompt = "You are a helpful assistant. Improve clarity and fix obvious OCR errors " +
	"without changing meaning. Keep the output concise but faithful."

// completionTemperature keeps rewrites close to the source text.
const completionTemperature = 0.3

// Options controls a single Enrich call.
type Options struct {
	// Provider selects the backend. Empty means ProviderAuto.
	Provider ProviderName

	// Model overrides the provider's default model.
	Model string

	// MaxChunkChars bounds the per-request chunk size. Non-positive means
	// textutil.DefaultMaxChunkChars.
	MaxChunkChars int

	// Narration selects the audiobook narration prompt instead of the terse
	// clarity prompt.
	Narration bool
}

// DefaultOptions returns the options used by the CLI when nothing is
// configured: auto provider, default chunk bound, narration mode on.
func DefaultOptions() Options {
	return Options{
		Provider:  ProviderAuto,
		Narration: true,
	}
}

// Factory constructs an llm.Provider for the given backend name, or returns
// an error when the backend cannot be used (missing credentials, bad
// configuration). model may be empty.
type Factory func(name ProviderName, model string) (llm.Provider, error)

// Option is a functional option for Enricher.
type Option func(*Enricher)

// WithFactory overrides the provider factory. Used by tests to inject mocks.
func WithFactory(f Factory) Option {
	return func(e *Enricher) {
		e.factory = f
	}
}

// WithEnv overrides the environment lookup used for credential probing.
// Used by tests to avoid mutating the process environment.
func WithEnv(lookup func(string) string) Option {
	return func(e *Enricher) {
		e.env = lookup
	}
}

// Enricher dispatches enrichment requests to an LLM provider. The zero-cost
// construction performs no credential probing; providers are resolved per
// call. Safe for concurrent use.
type Enricher struct {
	factory Factory
	env     func(string) string
}

// New returns a new Enricher.
func New(opts ...Option) *Enricher {
	e := &Enricher{
		factory: defaultFactory,
		env:     os.Getenv,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Enrich rewrites text chunk-by-chunk using the configured provider and
// returns the joined result. It never fails:
//
//   - blank input (empty or whitespace-only) is returned unchanged without
//     contacting any provider;
//   - when no provider is available the input is returned unchanged;
//   - a failing or empty per-chunk completion substitutes the original
//     chunk and processing continues.
//
// Chunk outputs are joined with "\n" in original order.
func (e *Enricher) Enrich(ctx context.Context, text string, opts Options) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	name := e.resolve(opts.Provider)
	if name == "" {
		slog.Debug("enrich: no LLM provider available, returning input unchanged")
		return text
	}

	provider, err := e.factory(name, opts.Model)
	if err != nil {
		slog.Warn("enrich: provider unavailable, returning input unchanged",
			"provider", name, "err", err)
		return text
	}

	prompt := ClarityPrompt
	if opts.Narration {
		prompt = NarrationPrompt
	}

	chunks := textutil.Chunk(text, opts.MaxChunkChars)
	outputs := make([]string, 0, len(chunks))

	for i, chunk := range chunks {
		req := llm.CompletionRequest{
			SystemPrompt: prompt,
			Messages:     []llm.Message{{Role: "user", Content: chunk}},
			Temperature:  completionTemperature,
		}

		resp, err := provider.Complete(ctx, req)
		if err != nil {
			slog.Warn("enrich: chunk failed, keeping original",
				"provider", provider.Name(), "chunk", i, "err", err)
			outputs = append(outputs, chunk)
			continue
		}
		if resp == nil || resp.Content == "" {
			slog.Warn("enrich: empty completion, keeping original",
				"provider", provider.Name(), "chunk", i)
			outputs = append(outputs, chunk)
			continue
		}

		outputs = append(outputs, resp.Content)
	}

	return strings.Join(outputs, "\n")
}

// resolve maps the requested provider to a concrete backend name, or ""
// when auto-detection finds no credentials.
func (e *Enricher) resolve(name ProviderName) ProviderName {
	switch name {
	case ProviderOpenAI, ProviderGemini:
		return name
	case ProviderAuto, "":
		// Fixed probe order: Gemini before OpenAI.
		if e.env("GOOGLE_API_KEY") != "" || e.env("GEMINI_API_KEY") != "" {
			return ProviderGemini
		}
		if e.env("OPENAI_API_KEY") != "" {
			return ProviderOpenAI
		}
		return ""
	default:
		slog.Warn("enrich: unknown provider, returning input unchanged", "provider", name)
		return ""
	}
}

// defaultFactory builds real SDK-backed providers from environment
// credentials.
func defaultFactory(name ProviderName, model string) (llm.Provider, error) {
	switch name {
	case ProviderOpenAI:
		if model == "" {
			model = os.Getenv("OPENAI_MODEL")
		}
		return openai.New(os.Getenv("OPENAI_API_KEY"), model)
	case ProviderGemini:
		// The gemini backend reads GEMINI_API_KEY / GOOGLE_API_KEY itself.
		return gemini.New(model)
	}
	return nil, &unknownProviderError{name: name}
}

type unknownProviderError struct {
	name ProviderName
}

func (e *unknownProviderError) Error() string {
	return "enrich: unknown provider " + string(e.name)
}
