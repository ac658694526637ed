// Package providers builds concrete model clients from the provider
// configuration in the environment.
package providers

import (
	"github.com/pkg/errors"

	"github.com/llmcouncil/go-llm-council/pkg/config"
	"github.com/llmcouncil/go-llm-council/pkg/llm"
	"github.com/llmcouncil/go-llm-council/pkg/llm/ollama"
	"github.com/llmcouncil/go-llm-council/pkg/llm/openaicompat"
)

// NewClient is the llm.ClientFactory used in production: Ollama gets
// its native adapter, every other provider speaks the OpenAI dialect.
func NewClient(providerID string) (llm.Client, error) {
	p, ok := config.GetProvider(providerID)
	if !ok {
		return nil, errors.Wrapf(llm.ErrProviderNotConfigured, "unknown provider %s", providerID)
	}
	if !config.ProviderHasKey(p) {
		return nil, errors.Wrapf(llm.ErrProviderNotConfigured, "%s has no API key", providerID)
	}

	if p.ID == "ollama" {
		return ollama.NewClient(ollama.Config{
			BaseURL: config.ProviderBaseURL(p),
		}), nil
	}

	return openaicompat.NewClient(openaicompat.Config{
		APIKey:  config.ProviderAPIKey(p),
		BaseURL: config.ProviderBaseURL(p),
	}), nil
}
