package provider

import (
	"encoding/json"
	"strings"

	"github.com/docforge/docforge/internal/domain"
)

const (
	anthropicDefaultBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
)

// Anthropic targets the Messages API. The system prompt travels in the
// dedicated system field, not the message list.
type Anthropic struct{}

func (a *Anthropic) Name() string { return "anthropic" }

func (a *Anthropic) BuildRequest(req *domain.GenerationRequest, settings Settings) (*domain.RequestDescriptor, error) {
	if settings.APIKey == "" {
		return nil, domain.NewConfigurationError("Anthropic API key is not set")
	}

	base := strings.TrimSuffix(settings.BaseURL, "/")
	if base == "" {
		base = anthropicDefaultBaseURL
	}

	payload := map[string]any{
		"model":      req.Model,
		"max_tokens": req.MaxOutputTokens,
		"system":     req.SystemPrompt,
		"messages": []map[string]any{
			{"role": "user", "content": req.UserPrompt},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, domain.NewProviderProtocolError("anthropic", "failed to encode request: %v", err)
	}

	return &domain.RequestDescriptor{
		URL:  base + "/v1/messages",
		Body: body,
		Headers: map[string]string{
			"Content-Type":      "application/json",
			"x-api-key":         settings.APIKey,
			"anthropic-version": anthropicVersion,
		},
	}, nil
}

func (a *Anthropic) ExtractText(payload map[string]any) (string, error) {
	return extractText("anthropic", payload)
}
