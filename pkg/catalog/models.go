package catalog

// builtinModels is the curated model table: public id, owning provider,
// cost per million tokens (USD, nil when the provider does not publish one)
// and a short description for display. Ids keep the provider-prefixed form
// used by unified gateways; the prefix is stripped before hitting the
// provider API.
var builtinModels = []ModelInfo{
	// OpenAI
	{ID: "gpt-4o", Provider: "openai", InputCostPerMillion: f(2.5), OutputCostPerMillion: f(10), MaxTokens: 16384,
		Description: "Most capable GPT-4 model with vision. Great for complex tasks."},
	{ID: "gpt-4o-mini", Provider: "openai", InputCostPerMillion: f(0.15), OutputCostPerMillion: f(0.6), MaxTokens: 16384,
		Description: "Fast and affordable GPT-4 variant for simpler tasks."},
	{ID: "gpt-4-turbo", Provider: "openai", InputCostPerMillion: f(10), OutputCostPerMillion: f(30), MaxTokens: 4096,
		Description: "GPT-4 Turbo with 128K context window."},
	{ID: "o1", Provider: "openai", InputCostPerMillion: f(15), OutputCostPerMillion: f(60), MaxTokens: 100000,
		Description: "OpenAI's reasoning model for complex problem solving."},
	{ID: "o1-mini", Provider: "openai", InputCostPerMillion: f(1.1), OutputCostPerMillion: f(4.4), MaxTokens: 65536,
		Description: "Faster, more affordable reasoning model."},
	{ID: "o3-mini", Provider: "openai", InputCostPerMillion: f(1.1), OutputCostPerMillion: f(4.4), MaxTokens: 100000,
		Description: "Latest compact reasoning model."},

	// Anthropic
	{ID: "claude-sonnet-4-20250514", Provider: "anthropic", InputCostPerMillion: f(3), OutputCostPerMillion: f(15), MaxTokens: 64000,
		Description: "Latest Claude Sonnet 4 - balanced performance and speed."},
	{ID: "claude-3-5-sonnet-20241022", Provider: "anthropic", InputCostPerMillion: f(3), OutputCostPerMillion: f(15), MaxTokens: 8192,
		Description: "Claude 3.5 Sonnet - excellent for coding and analysis."},
	{ID: "claude-3-5-haiku-20241022", Provider: "anthropic", InputCostPerMillion: f(0.8), OutputCostPerMillion: f(4), MaxTokens: 8192,
		Description: "Claude 3.5 Haiku - fast and affordable."},
	{ID: "claude-3-opus-20240229", Provider: "anthropic", InputCostPerMillion: f(15), OutputCostPerMillion: f(75), MaxTokens: 4096,
		Description: "Most capable Claude 3, best for complex tasks."},

	// Google Gemini
	{ID: "gemini/gemini-2.0-flash", Provider: "gemini", InputCostPerMillion: f(0.1), OutputCostPerMillion: f(0.4), MaxTokens: 8192,
		Description: "Latest Gemini Flash - fast multimodal model."},
	{ID: "gemini/gemini-2.0-flash-lite", Provider: "gemini", InputCostPerMillion: f(0.075), OutputCostPerMillion: f(0.3), MaxTokens: 8192,
		Description: "Lighter Gemini 2.0 for cost-effective tasks."},
	{ID: "gemini/gemini-1.5-pro", Provider: "gemini", InputCostPerMillion: f(1.25), OutputCostPerMillion: f(5), MaxTokens: 8192,
		Description: "Gemini 1.5 Pro with 1M+ context window."},
	{ID: "gemini/gemini-1.5-flash", Provider: "gemini", InputCostPerMillion: f(0.075), OutputCostPerMillion: f(0.3), MaxTokens: 8192,
		Description: "Fast Gemini 1.5 variant."},

	// xAI
	{ID: "xai/grok-3", Provider: "xai", InputCostPerMillion: f(3), OutputCostPerMillion: f(15), MaxTokens: 131072,
		Description: "Latest Grok 3 model."},
	{ID: "xai/grok-2", Provider: "xai", InputCostPerMillion: f(2), OutputCostPerMillion: f(10), MaxTokens: 131072,
		Description: "xAI's Grok 2 - capable general model."},

	// Mistral
	{ID: "mistral/mistral-large-latest", Provider: "mistral", InputCostPerMillion: f(2), OutputCostPerMillion: f(6), MaxTokens: 128000,
		Description: "Mistral's most capable model."},
	{ID: "mistral/mistral-small-latest", Provider: "mistral", InputCostPerMillion: f(0.1), OutputCostPerMillion: f(0.3), MaxTokens: 128000,
		Description: "Cost-effective Mistral model."},

	// Groq
	{ID: "groq/llama-3.3-70b-versatile", Provider: "groq", InputCostPerMillion: f(0.59), OutputCostPerMillion: f(0.79), MaxTokens: 32768,
		Description: "Llama 3.3 70B on Groq's fast inference."},
	{ID: "groq/llama-3.1-8b-instant", Provider: "groq", InputCostPerMillion: f(0.05), OutputCostPerMillion: f(0.08), MaxTokens: 8192,
		Description: "Small, very fast Llama variant."},

	// DeepSeek
	{ID: "deepseek/deepseek-chat", Provider: "deepseek", InputCostPerMillion: f(0.27), OutputCostPerMillion: f(1.1), MaxTokens: 8192,
		Description: "DeepSeek's chat model."},
	{ID: "deepseek/deepseek-reasoner", Provider: "deepseek", InputCostPerMillion: f(0.55), OutputCostPerMillion: f(2.19), MaxTokens: 8192,
		Description: "DeepSeek's reasoning model."},

	// Perplexity
	{ID: "perplexity/sonar-pro", Provider: "perplexity", InputCostPerMillion: f(3), OutputCostPerMillion: f(15), MaxTokens: 8192,
		Description: "Perplexity's flagship with web search."},
	{ID: "perplexity/sonar", Provider: "perplexity", InputCostPerMillion: f(1), OutputCostPerMillion: f(1), MaxTokens: 8192,
		Description: "Perplexity's online model."},

	// OpenRouter (pass-through pricing varies, billed by OpenRouter)
	{ID: "openrouter/auto", Provider: "openrouter", MaxTokens: 8192,
		Description: "OpenRouter picks the best model for the prompt."},

	// Ollama (local, free)
	{ID: "ollama/llama3.2", Provider: "ollama", MaxTokens: 8192,
		Description: "Llama 3.2 running locally via Ollama."},
	{ID: "ollama/qwen2.5-coder", Provider: "ollama", MaxTokens: 8192,
		Description: "Qwen 2.5 Coder running locally via Ollama."},
}

func f(v float64) *float64 {
	return &v
}
