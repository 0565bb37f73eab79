package provider

import (
	"encoding/json"
	"strings"

	"github.com/docforge/docforge/internal/domain"
)

const openaiDefaultBaseURL = "https://api.openai.com/v1"

// responsesFamilies lists the model identifier prefixes that must use the
// Responses endpoint instead of chat completions. Those families also take
// their token limit through max_output_tokens rather than
// max_completion_tokens.
var responsesFamilies = []string{"o1", "o3", "o4"}

// UsesResponsesAPI reports whether model belongs to a family served by the
// Responses endpoint.
func UsesResponsesAPI(model string) bool {
	for _, prefix := range responsesFamilies {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return strings.Contains(model, "gpt-5")
}

// OpenAI targets the OpenAI-family API: chat completions by default, the
// Responses endpoint for the model families that require it.
type OpenAI struct{}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) BuildRequest(req *domain.GenerationRequest, settings Settings) (*domain.RequestDescriptor, error) {
	if settings.APIKey == "" {
		return nil, domain.NewConfigurationError("OpenAI API key is not set")
	}

	base := strings.TrimSuffix(settings.BaseURL, "/")
	if base == "" {
		base = openaiDefaultBaseURL
	}

	var url string
	var payload map[string]any

	if UsesResponsesAPI(req.Model) {
		url = base + "/responses"
		payload = map[string]any{
			"model":             req.Model,
			"input":             req.Messages(),
			"max_output_tokens": req.MaxOutputTokens,
		}
		// Pings have no JSON-structure requirement on the response.
		if !req.Ping {
			payload["text"] = map[string]any{
				"format": map[string]any{"type": "json_object"},
			}
		}
	} else {
		url = base + "/chat/completions"
		payload = map[string]any{
			"model":                 req.Model,
			"messages":              req.Messages(),
			"max_completion_tokens": req.MaxOutputTokens,
		}
		if !req.Ping {
			payload["response_format"] = map[string]any{"type": "json_object"}
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, domain.NewProviderProtocolError("openai", "failed to encode request: %v", err)
	}

	return &domain.RequestDescriptor{
		URL:  url,
		Body: body,
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": "Bearer " + settings.APIKey,
		},
	}, nil
}

func (o *OpenAI) ExtractText(payload map[string]any) (string, error) {
	return extractText("openai", payload)
}
