// Package openai provides an embeddings provider backed by the OpenAI
// embeddings API.
package openai

import (
	"context"
	"fmt"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/provider/embeddings"
)

// DefaultModel is used when no model is configured.
const DefaultModel = oai.EmbeddingModelTextEmbedding3Small

// defaultDimensions matches DefaultModel's native output size.
const defaultDimensions = 1536

var _ embeddings.Provider = (*Provider)(nil)

// Provider implements embeddings.Provider using the OpenAI API.
type Provider struct {
	client     oai.Client
	model      oai.EmbeddingModel
	dimensions int
}

// config holds optional configuration for the provider.
type config struct {
	baseURL    string
	model      oai.EmbeddingModel
	dimensions int
}

// Option is a functional option for Provider.
type Option func(*config)

// WithBaseURL overrides the default OpenAI API base URL.
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithModel selects an embedding model other than DefaultModel. Callers
// choosing a non-default model must also set WithDimensions to match.
func WithModel(model oai.EmbeddingModel, dimensions int) Option {
	return func(c *config) {
		c.model = model
		c.dimensions = dimensions
	}
}

// New constructs a new OpenAI embeddings Provider. apiKey must be non-empty.
func New(apiKey string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai embeddings: apiKey must not be empty")
	}

	cfg := &config{
		model:      DefaultModel,
		dimensions: defaultDimensions,
	}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.dimensions <= 0 {
		return nil, fmt.Errorf("openai embeddings: dimensions must be positive, got %d", cfg.dimensions)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}

	return &Provider{
		client:     oai.NewClient(reqOpts...),
		model:      cfg.model,
		dimensions: cfg.dimensions,
	}, nil
}

// Embed implements embeddings.Provider.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch implements embeddings.Provider.
func (p *Provider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := p.client.Embeddings.New(ctx, oai.EmbeddingNewParams{
		Model: p.model,
		Input: oai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embeddings: got %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	vecs := make([][]float32, len(resp.Data))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(vecs) {
			return nil, fmt.Errorf("openai embeddings: embedding index %d out of range", d.Index)
		}
		vecs[d.Index] = float64ToFloat32(d.Embedding)
	}
	return vecs, nil
}

// Dimensions implements embeddings.Provider.
func (p *Provider) Dimensions() int { return p.dimensions }

// ModelID implements embeddings.Provider.
func (p *Provider) ModelID() string { return string(p.model) }

func float64ToFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
