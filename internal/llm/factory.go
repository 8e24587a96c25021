package llm

import "fmt"

// NewClient builds the client for cfg.Provider, wrapped in the configured
// rate limit. Callers check cfg.Enabled first.
func NewClient(cfg LLMConfig, observer Observer) (LLMClient, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel(cfg.Provider)
	}

	var client LLMClient
	switch cfg.Provider {
	case ProviderOllama, "":
		cfg.Provider = ProviderOllama
		client = NewOllamaClient(cfg, observer)
	case ProviderAnthropic:
		client = NewAnthropicClient(cfg, observer)
	case ProviderGemini:
		client = NewGeminiClient(cfg, observer)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	return WithRateLimit(client, cfg.RatePerSec, cfg.Burst), nil
}
