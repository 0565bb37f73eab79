// Package tokens estimates prompt sizes before dispatch, so oversized
// prompts are visible in the logs and events rather than discovered as
// provider-side truncation.
package tokens

import (
	"strings"
	"sync"

	"github.com/tiktoken-go/tokenizer"
)

// Estimator counts prompt tokens with tiktoken encodings. Counts are exact
// for OpenAI-family models and a serviceable approximation for the others,
// which is all the pipeline needs for logging.
type Estimator struct {
	mu    sync.Mutex
	cache map[tokenizer.Encoding]tokenizer.Codec
}

// NewEstimator creates an estimator with an empty codec cache.
func NewEstimator() *Estimator {
	return &Estimator{cache: make(map[tokenizer.Encoding]tokenizer.Codec)}
}

// chat models carry a small per-message framing overhead on the wire.
const (
	tokensPerMessage = 3
	tokensPerRole    = 1
	assistantPriming = 3
)

// EstimatePrompt counts the tokens of a system+user prompt pair for model.
func (e *Estimator) EstimatePrompt(model, systemPrompt, userPrompt string) int {
	codec, err := e.codecFor(model)
	if err != nil {
		// Rough fallback: ~4 characters per token.
		return (len(systemPrompt) + len(userPrompt)) / 4
	}

	total := assistantPriming
	for _, content := range []string{systemPrompt, userPrompt} {
		total += tokensPerMessage + tokensPerRole
		ids, _, err := codec.Encode(content)
		if err != nil {
			total += len(content) / 4
			continue
		}
		total += len(ids)
	}
	return total
}

func (e *Estimator) codecFor(model string) (tokenizer.Codec, error) {
	encoding := encodingFor(model)

	e.mu.Lock()
	defer e.mu.Unlock()
	if codec, ok := e.cache[encoding]; ok {
		return codec, nil
	}
	codec, err := tokenizer.Get(encoding)
	if err != nil {
		return nil, err
	}
	e.cache[encoding] = codec
	return codec, nil
}

func encodingFor(model string) tokenizer.Encoding {
	switch {
	case strings.HasPrefix(model, "gpt-4o"), strings.HasPrefix(model, "gpt-5"),
		strings.HasPrefix(model, "o1"), strings.HasPrefix(model, "o3"), strings.HasPrefix(model, "o4"):
		return tokenizer.O200kBase
	case strings.HasPrefix(model, "gpt-4"), strings.HasPrefix(model, "gpt-3.5"):
		return tokenizer.Cl100kBase
	default:
		// Non-OpenAI models have no published tiktoken encoding; O200k is
		// the closest stand-in for estimation.
		return tokenizer.O200kBase
	}
}
