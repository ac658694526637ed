package catalog

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"gpt-4o", "GPT 4o"},
		{"gpt-4o-mini", "GPT 4o Mini"},
		{"o1-mini", "o1 Mini"},
		{"claude-3-5-sonnet-20241022", "Claude 3 5 Sonnet"},
		{"gemini/gemini-2.0-flash", "Gemini 2.0 Flash"},
		{"xai/grok-3", "Grok 3"},
		{"deepseek/deepseek-chat", "DeepSeek Chat"},
		{"mistral/mistral-large-latest", "Mistral Large Latest"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, displayName(tt.id))
		})
	}
}

func TestSortKeyNewestFirst(t *testing.T) {
	// date-stamped ids order by date, undated ids fall back to version
	assert.Greater(t, sortKey("claude-3-5-sonnet-20241022"), sortKey("claude-3-opus-20240229"))
	assert.Greater(t, sortKey("gemini/gemini-2.0-flash"), sortKey("gemini/gemini-1.5-flash"))
}

func TestRegistryOrdering(t *testing.T) {
	r := NewRegistry()

	var anthropic []string
	for _, m := range r.models {
		if m.Provider == "anthropic" {
			anthropic = append(anthropic, m.ID)
		}
	}
	require.NotEmpty(t, anthropic)
	assert.Equal(t, "claude-sonnet-4-20250514", anthropic[0])
}

func TestResolveModel(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name       string
		modelID    string
		provider   string
		upstreamID string
		ok         bool
	}{
		{"unprefixed openai id", "gpt-4o", "openai", "gpt-4o", true},
		{"prefixed id strips provider", "gemini/gemini-2.0-flash", "gemini", "gemini-2.0-flash", true},
		{"catalog ollama model", "ollama/llama3.2", "ollama", "llama3.2", true},
		{"uncatalogued ollama model", "ollama/mistral-nemo", "ollama", "mistral-nemo", true},
		{"unknown model", "made-up-model", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, upstream, ok := r.ResolveModel(tt.modelID)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.provider, provider)
			assert.Equal(t, tt.upstreamID, upstream)
		})
	}
}

func TestAvailableModelsRequiresCredentials(t *testing.T) {
	viper.Set("OPENAI_API_KEY", "test-key")
	defer viper.Set("OPENAI_API_KEY", "")

	r := NewRegistry()
	groups := r.AvailableModels()

	ids := make(map[string]bool)
	for _, g := range groups {
		ids[g.ID] = true
		assert.NotEmpty(t, g.Models)
	}
	assert.True(t, ids["openai"])
	assert.True(t, ids["ollama"], "local provider needs no key")
	assert.False(t, ids["anthropic"], "provider without key must be hidden")
}

func TestFeaturedModelsCapsPerProvider(t *testing.T) {
	viper.Set("OPENAI_API_KEY", "test-key")
	defer viper.Set("OPENAI_API_KEY", "")

	r := NewRegistry()
	perProvider := make(map[string]int)
	for _, m := range r.FeaturedModels() {
		perProvider[m.Provider]++
	}
	for provider, n := range perProvider {
		assert.LessOrEqual(t, n, 3, "provider %s", provider)
	}
	assert.Equal(t, 3, perProvider["openai"])
}

func TestPricingCache(t *testing.T) {
	r := NewRegistry()

	calls := 0
	r.pricing = newPricingCache(func(modelID string) (Pricing, bool) {
		calls++
		return r.lookupPricing(modelID)
	})

	p := r.CostPerMillionTokens("gpt-4o")
	require.NotNil(t, p.InputPerMillion)
	assert.Equal(t, 2.5, *p.InputPerMillion)
	assert.Equal(t, 10.0, *p.OutputPerMillion)

	r.CostPerMillionTokens("gpt-4o")
	assert.Equal(t, 1, calls, "second lookup must hit the cache")

	r.InvalidatePricing("gpt-4o")
	r.CostPerMillionTokens("gpt-4o")
	assert.Equal(t, 2, calls, "invalidation must force a fresh lookup")

	unknown := r.CostPerMillionTokens("no-such-model")
	assert.Nil(t, unknown.InputPerMillion)
	assert.Nil(t, unknown.OutputPerMillion)
}
