package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures one provider.
type Config struct {
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig is exponential backoff with ±20% jitter.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns defaults with no provider selected.
func DefaultConfig() Config {
	return Config{
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 45 * time.Second,
	}
}

// envOverrides maps AGI119_* variables onto config fields.
func (c *Config) envOverrides() map[string]*string {
	return map[string]*string{
		"AGI119_LLM_PROVIDER":       &c.Provider,
		"AGI119_ANTHROPIC_API_KEY":  &c.Anthropic.APIKey,
		"AGI119_ANTHROPIC_MODEL":    &c.Anthropic.Model,
		"AGI119_OPENAI_API_KEY":     &c.OpenAI.APIKey,
		"AGI119_OPENAI_MODEL":       &c.OpenAI.Model,
		"AGI119_OPENAI_BASE_URL":    &c.OpenAI.BaseURL,
		"AGI119_GEMINI_API_KEY":     &c.Gemini.APIKey,
		"AGI119_GEMINI_MODEL":       &c.Gemini.Model,
		"AGI119_OPENROUTER_API_KEY": &c.OpenRouter.APIKey,
		"AGI119_OPENROUTER_MODEL":   &c.OpenRouter.Model,
	}
}

// standardKeys are probed, in order, when AGI119_LLM_PROVIDER is unset.
var standardKeys = []struct {
	env      string
	provider string
}{
	{"ANTHROPIC_API_KEY", ProviderAnthropic},
	{"OPENAI_API_KEY", ProviderOpenAI},
	{"GEMINI_API_KEY", ProviderGemini},
	{"OPENROUTER_API_KEY", ProviderOpenRouter},
}

// ConfigFromEnv builds a config from AGI119_* variables. When no provider
// is named explicitly it falls back to the first standard *_API_KEY
// variable found. The bool is false when nothing is configured.
func ConfigFromEnv() (Config, bool) {
	cfg := DefaultConfig()
	for name, dst := range cfg.envOverrides() {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	if cfg.Provider != "" {
		return cfg, true
	}

	for _, k := range standardKeys {
		key := os.Getenv(k.env)
		if key == "" {
			continue
		}
		cfg.Provider = k.provider
		switch k.provider {
		case ProviderAnthropic:
			cfg.Anthropic.APIKey = key
		case ProviderOpenAI:
			cfg.OpenAI.APIKey = key
		case ProviderGemini:
			cfg.Gemini.APIKey = key
		case ProviderOpenRouter:
			cfg.OpenRouter.APIKey = key
		}
		return cfg, true
	}
	return cfg, false
}

// Validate checks that the selected provider has a key.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case ProviderAnthropic:
		key = c.Anthropic.APIKey
	case ProviderOpenAI:
		key = c.OpenAI.APIKey
	case ProviderGemini:
		key = c.Gemini.APIKey
	case ProviderOpenRouter:
		key = c.OpenRouter.APIKey
	case ProviderMock:
		return nil
	case "":
		return ErrNotConfigured
	default:
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s provider selected but no API key set (AGI119_%s_API_KEY)", c.Provider, strings.ToUpper(c.Provider))
	}
	return nil
}
