// Package mock provides a test double for the embeddings.Provider interface.
package mock

import (
	"context"
	"sync"

	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/provider/embeddings"
)

var _ embeddings.Provider = (*Provider)(nil)

// Provider is a mock implementation of embeddings.Provider. Unless EmbedFunc
// is set it returns deterministic vectors derived from the input length, so
// identical texts always map to identical vectors.
type Provider struct {
	mu sync.Mutex

	// Dims is the vector length to produce. Defaults to 4.
	Dims int

	// Model is returned by ModelID. Defaults to "mock-embedding".
	Model string

	// EmbedErr, if non-nil, is returned from Embed and EmbedBatch.
	EmbedErr error

	// EmbedFunc, if set, computes the vector for each text.
	EmbedFunc func(text string) []float32

	// EmbedCalls records every text passed to Embed or EmbedBatch, in order.
	EmbedCalls []string
}

func (p *Provider) dims() int {
	if p.Dims <= 0 {
		return 4
	}
	return p.Dims
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
func (p *Provider) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.EmbedCalls = append(p.EmbedCalls, texts...)

	if p.EmbedErr != nil {
		return nil, p.EmbedErr
	}

	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		if p.EmbedFunc != nil {
			vecs[i] = p.EmbedFunc(text)
			continue
		}
		vec := make([]float32, p.dims())
		for j := range vec {
			vec[j] = float32(len(text)+j) / float32(p.dims())
		}
		vecs[i] = vec
	}
	return vecs, nil
}

// Dimensions implements embeddings.Provider.
func (p *Provider) Dimensions() int { return p.dims() }

// ModelID implements embeddings.Provider.
func (p *Provider) ModelID() string {
	if p.Model == "" {
		return "mock-embedding"
	}
	return p.Model
}
