package catalog

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/llmcouncil/go-llm-council/pkg/config"
)

// ModelInfo describes one chat model the relay can talk to.
// Costs are USD per million tokens; nil means no published price
// (local models, pass-through routers).
type ModelInfo struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Provider             string   `json:"provider"`
	Description          string   `json:"description"`
	MaxTokens            int      `json:"max_tokens"`
	InputCostPerMillion  *float64 `json:"input_cost_per_million,omitempty"`
	OutputCostPerMillion *float64 `json:"output_cost_per_million,omitempty"`
}

// ProviderModels groups the available models of one configured provider.
type ProviderModels struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Models      []ModelInfo `json:"models"`
}

// Registry is the model catalog. It answers which models exist, which
// providers are configured, and routes public model ids to provider
// clients. Implements llm.ProviderResolver.
type Registry struct {
	models  []ModelInfo
	byID    map[string]ModelInfo
	pricing *pricingCache
}

// NewRegistry builds the catalog from the built-in model table,
// generating display names and sorting newest-first per provider.
func NewRegistry() *Registry {
	r := &Registry{
		byID: make(map[string]ModelInfo, len(builtinModels)),
	}
	for _, m := range builtinModels {
		if m.Name == "" {
			m.Name = displayName(m.ID)
		}
		r.models = append(r.models, m)
		r.byID[m.ID] = m
	}
	sort.SliceStable(r.models, func(i, j int) bool {
		a, b := r.models[i], r.models[j]
		if a.Provider != b.Provider {
			return a.Provider < b.Provider
		}
		ka, kb := sortKey(a.ID), sortKey(b.ID)
		if ka != kb {
			return ka > kb
		}
		return a.ID < b.ID
	})
	r.pricing = newPricingCache(r.lookupPricing)
	return r
}

// Lookup returns the catalog entry for a public model id.
func (r *Registry) Lookup(modelID string) (ModelInfo, bool) {
	m, ok := r.byID[modelID]
	return m, ok
}

// AvailableModels lists models grouped by provider, restricted to
// providers that have credentials configured in the environment.
func (r *Registry) AvailableModels() []ProviderModels {
	var out []ProviderModels
	for _, p := range config.Providers {
		if !config.ProviderHasKey(p) {
			continue
		}
		group := ProviderModels{ID: p.ID, Name: p.Name, Description: p.Description}
		for _, m := range r.models {
			if m.Provider == p.ID {
				group.Models = append(group.Models, m)
			}
		}
		if len(group.Models) > 0 {
			out = append(out, group)
		}
	}
	return out
}

// FeaturedModels returns up to three models per configured provider,
// newest first. Used as the default selection offered to new sessions.
func (r *Registry) FeaturedModels() []ModelInfo {
	var out []ModelInfo
	for _, group := range r.AvailableModels() {
		n := len(group.Models)
		if n > 3 {
			n = 3
		}
		out = append(out, group.Models[:n]...)
	}
	return out
}

// ResolveModel maps a public model id to its provider and the id the
// provider API expects. The provider prefix ("gemini/", "ollama/", ...)
// is stripped from the upstream id. Unknown "ollama/" ids still resolve
// so locally pulled models work without a catalog entry.
func (r *Registry) ResolveModel(modelID string) (providerID, upstreamID string, ok bool) {
	if m, found := r.byID[modelID]; found {
		return m.Provider, stripProviderPrefix(modelID, m.Provider), true
	}
	if rest, found := strings.CutPrefix(modelID, "ollama/"); found && rest != "" {
		return "ollama", rest, true
	}
	return "", "", false
}

func stripProviderPrefix(modelID, provider string) string {
	if rest, found := strings.CutPrefix(modelID, provider+"/"); found {
		return rest
	}
	return modelID
}

var (
	dateSuffixRe  = regexp.MustCompile(`[-_](20\d{6}|20\d{2}-\d{2}-\d{2})$`)
	versionPartRe = regexp.MustCompile(`\d+(\.\d+)?`)

	// case fixups applied after title-casing the id words
	nameFixups = []struct{ from, to string }{
		{"Gpt", "GPT"},
		{"Xai", "xAI"},
		{"Ai", "AI"},
		{"Llm", "LLM"},
		{"O1", "o1"},
		{"O3", "o3"},
		{"Deepseek", "DeepSeek"},
		{"Openrouter", "OpenRouter"},
	}
)

// displayName derives a human readable name from a model id:
// drop the provider prefix and trailing date stamp, split on
// dashes/underscores, title-case, then fix vendor casing.
func displayName(modelID string) string {
	id := modelID
	if i := strings.Index(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	id = dateSuffixRe.ReplaceAllString(id, "")
	words := strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, w := range words {
		words[i] = titleWord(w)
	}
	name := strings.Join(words, " ")
	for _, fx := range nameFixups {
		name = replaceWord(name, fx.from, fx.to)
	}
	return name
}

func titleWord(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + w[1:]
}

// replaceWord replaces whole-word occurrences only, so "o1-mini"
// becomes "o1 Mini" without mangling words that merely contain "O1".
func replaceWord(s, from, to string) string {
	parts := strings.Split(s, " ")
	for i, p := range parts {
		if p == from {
			parts[i] = to
		}
	}
	return strings.Join(parts, " ")
}

// sortKey orders models newest-first within a provider. The key
// combines the date stamp (when present) with the first version
// number found in the id, so "claude-3-5-sonnet-20241022" sorts
// above "claude-3-opus-20240229".
func sortKey(modelID string) int64 {
	var key int64
	if m := dateSuffixRe.FindStringSubmatch(modelID); m != nil {
		digits := strings.ReplaceAll(m[1], "-", "")
		if v, err := strconv.ParseInt(digits, 10, 64); err == nil {
			key = v * 1000
		}
	}
	if v := versionPartRe.FindString(modelID); v != "" {
		if fv, err := strconv.ParseFloat(v, 64); err == nil {
			key += int64(fv * 10)
		}
	}
	return key
}
