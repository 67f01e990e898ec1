package llm

import (
	"context"
	"fmt"

	"github.com/AKakshat1729/AGI-119/internal/logger"
)

// NewProvider builds the configured provider and wraps it as
// caller → retry → recorder → SDK, so every attempt is recorded.
func NewProvider(ctx context.Context, cfg Config, rec EventRecorder, log *logger.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	log.Info("llm provider ready", "provider", base.Name(), "model", base.ModelID())
	return WithRetry(WithRecorder(base, rec, log), cfg.Retry, cfg.Timeout, log), nil
}
