package types

import (
	"github.com/m-mizutani/goerr/v2"
)

// ModelProvider selects which inference backend performs extraction and summary.
type ModelProvider string

const (
	ModelProviderGroq   ModelProvider = "groq"
	ModelProviderGemini ModelProvider = "gemini"
)

// AllModelProviders returns all supported providers in display order
func AllModelProviders() []ModelProvider {
	return []ModelProvider{
		ModelProviderGroq,
		ModelProviderGemini,
	}
}

// IsValid checks if the provider is one of the supported providers
func (p ModelProvider) IsValid() bool {
	switch p {
	case ModelProviderGroq, ModelProviderGemini:
		return true
	default:
		return false
	}
}

// Validate accepts the empty value (meaning "server default") and the supported providers.
func (p ModelProvider) Validate() error {
	if p == "" || p.IsValid() {
		return nil
	}
	return goerr.New("unsupported model provider", goerr.V("provider", string(p)))
}

// String returns the string representation of the provider
func (p ModelProvider) String() string {
	return string(p)
}

// DisplayName returns a human readable name of the provider's default model family
func (p ModelProvider) DisplayName() string {
	switch p {
	case ModelProviderGroq:
		return "Groq Llama 3.3"
	case ModelProviderGemini:
		return "Gemini 2.5 Flash"
	default:
		return string(p)
	}
}

// ParseModelProvider parses s into a ModelProvider. The empty string is allowed.
func ParseModelProvider(s string) (ModelProvider, error) {
	p := ModelProvider(s)
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

// ExtractionMethod records how extracted variables were obtained.
type ExtractionMethod string

const (
	ExtractionMethodLLM   ExtractionMethod = "llm"
	ExtractionMethodRegex ExtractionMethod = "regex"
)

func (m ExtractionMethod) String() string {
	return string(m)
}
