package provider

import (
	"strings"

	"github.com/docforge/docforge/internal/domain"
)

// extractText pulls the generated text out of a raw provider payload. The
// shapes are checked in order of specificity: the flat output_text field,
// the Responses-style output segment list, Gemini candidates, Anthropic
// content parts, then the chat-completions choices array. Provider-reported
// truncation fails before any shape is tried: partial text must never be
// parsed.
func extractText(providerName string, payload map[string]any) (string, error) {
	if reason := truncationMarker(payload); reason != "" {
		return "", domain.NewProviderProtocolError(providerName, "generation did not finish (%s)", reason)
	}

	if text, ok := payload["output_text"].(string); ok && text != "" {
		return text, nil
	}

	if segments, ok := payload["output"].([]any); ok {
		if text := firstSegmentText(segments); text != "" {
			return text, nil
		}
	}

	if candidates, ok := payload["candidates"].([]any); ok && len(candidates) > 0 {
		if text := candidateText(candidates[0]); text != "" {
			return text, nil
		}
	}

	if parts, ok := payload["content"].([]any); ok {
		if text := joinPartText(parts); text != "" {
			return text, nil
		}
	}

	if choices, ok := payload["choices"].([]any); ok && len(choices) > 0 {
		if text := choiceText(choices[0]); text != "" {
			return text, nil
		}
	}

	return "", domain.NewProviderProtocolError(providerName, "no recognized text payload in response")
}

// truncationMarker returns a description of a provider-reported incomplete
// generation, or "" when the response finished normally.
func truncationMarker(payload map[string]any) string {
	if status, ok := payload["status"].(string); ok && status == "incomplete" {
		return "status=incomplete"
	}
	if stop, ok := payload["stop_reason"].(string); ok && stop == "max_tokens" {
		return "stop_reason=max_tokens"
	}
	if choices, ok := payload["choices"].([]any); ok && len(choices) > 0 {
		if choice, ok := choices[0].(map[string]any); ok {
			if reason, ok := choice["finish_reason"].(string); ok && reason == "length" {
				return "finish_reason=length"
			}
		}
	}
	if candidates, ok := payload["candidates"].([]any); ok && len(candidates) > 0 {
		if candidate, ok := candidates[0].(map[string]any); ok {
			if reason, ok := candidate["finishReason"].(string); ok && strings.EqualFold(reason, "MAX_TOKENS") {
				return "finishReason=MAX_TOKENS"
			}
		}
	}
	return ""
}

// firstSegmentText walks output segments depth-first, left-to-right, and
// returns the first text-bearing content part.
func firstSegmentText(segments []any) string {
	for _, seg := range segments {
		m, ok := seg.(map[string]any)
		if !ok {
			continue
		}
		parts, ok := m["content"].([]any)
		if !ok {
			continue
		}
		for _, part := range parts {
			pm, ok := part.(map[string]any)
			if !ok {
				continue
			}
			if text, ok := pm["text"].(string); ok && text != "" {
				return text
			}
		}
	}
	return ""
}

// candidateText concatenates the text parts of one Gemini candidate.
func candidateText(candidate any) string {
	m, ok := candidate.(map[string]any)
	if !ok {
		return ""
	}
	content, ok := m["content"].(map[string]any)
	if !ok {
		return ""
	}
	parts, ok := content["parts"].([]any)
	if !ok {
		return ""
	}
	return joinPartText(parts)
}

// choiceText handles chat-completions entries carrying either a flat content
// string or a list of content parts.
func choiceText(choice any) string {
	m, ok := choice.(map[string]any)
	if !ok {
		return ""
	}
	if message, ok := m["message"].(map[string]any); ok {
		switch content := message["content"].(type) {
		case string:
			return content
		case []any:
			return joinPartText(content)
		}
	}
	// Legacy completions carry the text directly on the choice.
	if text, ok := m["text"].(string); ok {
		return text
	}
	return ""
}

// joinPartText concatenates the text of every text-bearing part in order.
func joinPartText(parts []any) string {
	var b strings.Builder
	for _, part := range parts {
		pm, ok := part.(map[string]any)
		if !ok {
			continue
		}
		if t, ok := pm["type"].(string); ok && t != "" && t != "text" && t != "output_text" {
			continue
		}
		if text, ok := pm["text"].(string); ok {
			b.WriteString(text)
		}
	}
	return b.String()
}
