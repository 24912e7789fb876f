// Package mock provides a test double for the llm.Provider interface.
//
// Use Provider in unit tests to verify that the enrichment dispatcher sends
// correct CompletionRequests and to feed controlled responses without a live
// LLM backend.
//
// Example:
//
//	p := &mock.Provider{
//	    CompleteResponse: &llm.CompletionResponse{Content: "Improved text."},
//	}
//	resp, err := p.Complete(ctx, req)
package mock

import (
	"context"
	"sync"

	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/provider/llm"
)

var _ llm.Provider = (*Provider)(nil)

// CompleteCall records a single invocation of Complete.
type CompleteCall struct {
	// Ctx is the context passed to Complete.
	Ctx context.Context
	// Req is the CompletionRequest passed to Complete.
	Req llm.CompletionRequest
}

// Result pairs a response with an error for scripted multi-call tests.
type Result struct {
	Response *llm.CompletionResponse
	Err      error
}

// Provider is a mock implementation of llm.Provider.
//
// When Results is non-empty, calls to Complete consume it in order (the last
// element repeats once exhausted). Otherwise CompleteResponse/CompleteErr are
// returned for every call.
type Provider struct {
	mu sync.Mutex

	// ProviderName is returned by Name. Defaults to "mock".
	ProviderName string

	// CompleteResponse is returned by Complete when Results is empty.
	// May be nil (returns nil, nil).
	CompleteResponse *llm.CompletionResponse

	// CompleteErr, if non-nil, is returned as the error from Complete when
	// Results is empty.
	CompleteErr error

	// Results scripts per-call outcomes, consumed in order.
	Results []Result

	// CompleteCalls records every invocation of Complete in order.
	CompleteCalls []CompleteCall

	resultIdx int
}

// Name implements llm.Provider.
func (p *Provider) Name() string {
	if p.ProviderName == "" {
		return "mock"
	}
	return p.ProviderName
}

// Complete implements llm.Provider. It records the call and returns the
// configured response.
func (p *Provider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.CompleteCalls = append(p.CompleteCalls, CompleteCall{Ctx: ctx, Req: req})

	if len(p.Results) > 0 {
		r := p.Results[min(p.resultIdx, len(p.Results)-1)]
		p.resultIdx++
		return r.Response, r.Err
	}

	return p.CompleteResponse, p.CompleteErr
}
