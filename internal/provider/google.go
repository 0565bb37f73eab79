package provider

import (
	"encoding/json"
	"strings"

	"github.com/docforge/docforge/internal/domain"
)

const (
	googleDefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// generationTemperature keeps structured output conservative without
	// collapsing to deterministic sampling.
	generationTemperature = 0.2
)

// Google targets the Gemini generateContent API. The system and user
// prompts travel as a single concatenated text part.
type Google struct{}

func (g *Google) Name() string { return "google" }

func (g *Google) BuildRequest(req *domain.GenerationRequest, settings Settings) (*domain.RequestDescriptor, error) {
	if settings.APIKey == "" {
		return nil, domain.NewConfigurationError("Google API key is not set")
	}

	base := strings.TrimSuffix(settings.BaseURL, "/")
	if base == "" {
		base = googleDefaultBaseURL
	}

	generationConfig := map[string]any{
		"temperature":     generationTemperature,
		"maxOutputTokens": req.MaxOutputTokens,
	}
	if !req.Ping {
		generationConfig["responseMimeType"] = "application/json"
	}

	payload := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]any{
					{"text": req.SystemPrompt + "\n\n" + req.UserPrompt},
				},
			},
		},
		"generationConfig": generationConfig,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, domain.NewProviderProtocolError("google", "failed to encode request: %v", err)
	}

	return &domain.RequestDescriptor{
		URL:  base + "/models/" + req.Model + ":generateContent",
		Body: body,
		Headers: map[string]string{
			"Content-Type":   "application/json",
			"x-goog-api-key": settings.APIKey,
		},
	}, nil
}

func (g *Google) ExtractText(payload map[string]any) (string, error) {
	return extractText("google", payload)
}
