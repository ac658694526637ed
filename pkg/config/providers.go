package config

import (
	"github.com/spf13/viper"
)

// ProviderConfig describes one upstream model provider. Every provider is
// reachable through an OpenAI-compatible completion endpoint.
type ProviderConfig struct {
	ID          string
	Name        string
	Description string
	// KeyVar / BaseURLVar are viper keys (bound below), not raw env names.
	KeyVar     string
	BaseURLVar string
	// DefaultBaseURL is used when the base URL variable is unset.
	DefaultBaseURL string
}

// Providers lists the upstream providers the relay knows how to talk to.
// Order is the display order of the catalog.
var Providers = []ProviderConfig{
	{
		ID:             "openai",
		Name:           "OpenAI",
		Description:    "GPT-4, GPT-4o, and other OpenAI models",
		KeyVar:         "OPENAI_API_KEY",
		BaseURLVar:     "OPENAI_BASE_URL",
		DefaultBaseURL: "https://api.openai.com/v1",
	},
	{
		ID:             "anthropic",
		Name:           "Anthropic",
		Description:    "Claude 3.5 and Claude 4 series models",
		KeyVar:         "ANTHROPIC_API_KEY",
		BaseURLVar:     "ANTHROPIC_BASE_URL",
		DefaultBaseURL: "https://api.anthropic.com/v1",
	},
	{
		ID:             "gemini",
		Name:           "Google Gemini",
		Description:    "Gemini 1.5, 2.0 Flash and Pro models",
		KeyVar:         "GEMINI_API_KEY",
		BaseURLVar:     "GEMINI_BASE_URL",
		DefaultBaseURL: "https://generativelanguage.googleapis.com/v1beta/openai",
	},
	{
		ID:             "xai",
		Name:           "xAI",
		Description:    "Grok series models",
		KeyVar:         "XAI_API_KEY",
		BaseURLVar:     "XAI_BASE_URL",
		DefaultBaseURL: "https://api.x.ai/v1",
	},
	{
		ID:             "mistral",
		Name:           "Mistral AI",
		Description:    "Mistral and Mixtral models",
		KeyVar:         "MISTRAL_API_KEY",
		BaseURLVar:     "MISTRAL_BASE_URL",
		DefaultBaseURL: "https://api.mistral.ai/v1",
	},
	{
		ID:             "groq",
		Name:           "Groq",
		Description:    "Fast inference for Llama and Mixtral",
		KeyVar:         "GROQ_API_KEY",
		BaseURLVar:     "GROQ_BASE_URL",
		DefaultBaseURL: "https://api.groq.com/openai/v1",
	},
	{
		ID:             "deepseek",
		Name:           "DeepSeek",
		Description:    "DeepSeek Coder and Chat models",
		KeyVar:         "DEEPSEEK_API_KEY",
		BaseURLVar:     "DEEPSEEK_BASE_URL",
		DefaultBaseURL: "https://api.deepseek.com/v1",
	},
	{
		ID:             "perplexity",
		Name:           "Perplexity",
		Description:    "Perplexity online models with search",
		KeyVar:         "PERPLEXITY_API_KEY",
		BaseURLVar:     "PERPLEXITY_BASE_URL",
		DefaultBaseURL: "https://api.perplexity.ai",
	},
	{
		ID:             "openrouter",
		Name:           "OpenRouter",
		Description:    "Unified access to OpenAI, Anthropic, Meta, and 100+ models",
		KeyVar:         "OPENROUTER_API_KEY",
		BaseURLVar:     "OPENROUTER_BASE_URL",
		DefaultBaseURL: "https://openrouter.ai/api/v1",
	},
	{
		ID:             "ollama",
		Name:           "Ollama",
		Description:    "Locally hosted models, no API key required",
		KeyVar:         "",
		BaseURLVar:     "OLLAMA_BASE_URL",
		DefaultBaseURL: "http://localhost:11434",
	},
}

// GetProvider returns the provider config for the given id.
func GetProvider(id string) (ProviderConfig, bool) {
	for _, p := range Providers {
		if p.ID == id {
			return p, true
		}
	}
	return ProviderConfig{}, false
}

// ProviderAPIKey returns the configured API key for a provider, empty if unset.
func ProviderAPIKey(p ProviderConfig) string {
	if p.KeyVar == "" {
		return ""
	}
	return viper.GetString(p.KeyVar)
}

// ProviderBaseURL returns the configured base URL for a provider.
func ProviderBaseURL(p ProviderConfig) string {
	if url := viper.GetString(p.BaseURLVar); url != "" {
		return url
	}
	return p.DefaultBaseURL
}

// ProviderHasKey reports whether requests to the provider can be authenticated.
// Providers without a key variable (local inference) are always usable.
func ProviderHasKey(p ProviderConfig) bool {
	return p.KeyVar == "" || ProviderAPIKey(p) != ""
}

func bindProviderEnvVariables() {
	for _, p := range Providers {
		if p.KeyVar != "" {
			bindEnvVariable(p.KeyVar, "")
		}
		bindEnvVariable(p.BaseURLVar, "")
	}
}
