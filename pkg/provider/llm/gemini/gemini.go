// Package gemini provides an LLM provider backed by the Google Gemini API,
// wrapped through github.com/mozilla-ai/any-llm-go's gemini backend.
package gemini

import (
	"context"
	"fmt"

	anyllm "github.com/mozilla-ai/any-llm-go"
	geminibackend "github.com/mozilla-ai/any-llm-go/providers/gemini"

	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/provider/llm"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-pro"

var _ llm.Provider = (*Provider)(nil)

// Provider implements llm.Provider using the Gemini API.
type Provider struct {
	backend anyllm.Provider
	model   string
}

// New constructs a new Gemini LLM Provider. An empty model selects
// DefaultModel. opts are any-llm-go options (e.g., anyllm.WithAPIKey); when
// no key option is given the backend falls back to the GEMINI_API_KEY or
// GOOGLE_API_KEY environment variable.
func New(model string, opts ...anyllm.Option) (*Provider, error) {
	if model == "" {
		model = DefaultModel
	}

	backend, err := geminibackend.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini: create backend: %w", err)
	}

	return &Provider{backend: backend, model: model}, nil
}

// Name implements llm.Provider.
func (p *Provider) Name() string { return "gemini" }

// Complete implements llm.Provider.
func (p *Provider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	resp, err := p.backend.Completion(ctx, p.buildParams(req))
	if err != nil {
		return nil, fmt.Errorf("gemini: completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("gemini: empty choices in response")
	}

	result := &llm.CompletionResponse{
		Content: resp.Choices[0].Message.ContentString(),
	}
	if resp.Usage != nil {
		result.Usage = llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	return result, nil
}

// buildParams converts a CompletionRequest into any-llm-go params.
func (p *Provider) buildParams(req llm.CompletionRequest) anyllm.CompletionParams {
	var messages []anyllm.Message

	if req.SystemPrompt != "" {
		messages = append(messages, anyllm.Message{
			Role:    anyllm.RoleSystem,
			Content: req.SystemPrompt,
		})
	}

	for _, m := range req.Messages {
		role := anyllm.RoleUser
		switch m.Role {
		case "system":
			role = anyllm.RoleSystem
		case "assistant":
			role = anyllm.RoleAssistant
		}
		messages = append(messages, anyllm.Message{Role: role, Content: m.Content})
	}

	params := anyllm.CompletionParams{
		Model:    p.model,
		Messages: messages,
	}

	if req.Temperature != 0 {
		t := req.Temperature
		params.Temperature = &t
	}
	if req.MaxTokens > 0 {
		mt := req.MaxTokens
		params.MaxTokens = &mt
	}

	return params
}
