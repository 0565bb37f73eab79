// Package provider maps generation requests onto the wire protocols of the
// supported text-generation backends. Each backend is one Strategy in a
// table keyed by provider name; selection happens once per call.
package provider

import (
	"strings"

	"github.com/docforge/docforge/internal/domain"
)

// DefaultProvider is the fallback for unknown provider names.
const DefaultProvider = "openai"

// Settings carries the per-provider connection parameters resolved from
// configuration.
type Settings struct {
	APIKey  string
	BaseURL string
}

// Strategy builds wire requests for one provider and extracts generated
// text from its response payloads.
type Strategy interface {
	Name() string
	// BuildRequest translates req into the provider's wire shape. The
	// credential lands only in the designated header, never in the body or
	// URL.
	BuildRequest(req *domain.GenerationRequest, settings Settings) (*domain.RequestDescriptor, error)
	// ExtractText pulls the generated text out of the raw decoded payload,
	// failing with a ProviderProtocolError when the generation is reported
	// incomplete or no known shape matches.
	ExtractText(payload map[string]any) (string, error)
}

// strategies is the dispatch table. Entries are registered at package init;
// the set is fixed for the life of the process.
var strategies = map[string]Strategy{}

func register(s Strategy) {
	strategies[s.Name()] = s
}

func init() {
	register(&OpenAI{})
	register(&Google{})
	register(&Anthropic{})
}

// Lookup returns the strategy for name, falling back to the default
// provider for unknown names.
func Lookup(name string) Strategy {
	if s, ok := strategies[strings.ToLower(name)]; ok {
		return s
	}
	return strategies[DefaultProvider]
}

// Names lists the registered provider names.
func Names() []string {
	out := make([]string, 0, len(strategies))
	for name := range strategies {
		out = append(out, name)
	}
	return out
}
