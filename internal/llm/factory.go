package llm

import (
	"context"
	"fmt"
)

// NewProvider creates a Provider from configuration, wrapped with the
// retry and request-log middleware. log may be nil. The returned
// UsageTracker accumulates this process's token totals.
func NewProvider(ctx context.Context, cfg Config, log RequestLog) (Provider, *UsageTracker, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Middleware order: caller, timeout, retry, logging, base. The
	// timeout sits outside retry so it bounds the whole attempt chain.
	logged := WithLogging(base, cfg.Provider, log)
	retried := WithRetry(logged, cfg.Retry)
	bounded := WithTimeout(retried, cfg.Timeout)

	return bounded, logged.Usage(), nil
}

// NewProviderFromEnv discovers a provider from the environment. Returns an
// error when no API key is configured anywhere, which callers treat as
// "AI features unavailable" rather than fatal.
func NewProviderFromEnv(ctx context.Context, log RequestLog) (Provider, *UsageTracker, error) {
	cfg, ok := DiscoverConfig()
	if !ok {
		return nil, nil, fmt.Errorf("no LLM API key found in environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return NewProvider(ctx, cfg, log)
}
