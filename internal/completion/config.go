package completion

import (
	"fmt"
	"os"
	"strconv"
)

const (
	defaultGeminiModel    = "gemini-1.5-flash"
	defaultAnthropicModel = "claude-3-5-haiku-20241022"
	defaultMaxTokens      = 4096
	defaultTemperature    = float32(0.7)
)

// loadConfig loads completer configuration from environment variables
func loadConfig() (*Config, error) {
	provider := Provider(os.Getenv("COMPLETION_PROVIDER"))

	if provider == "" {
		// default to the provider whose key is present, gemini first
		if os.Getenv("GEMINI_API_KEY") != "" {
			provider = ProviderGemini
		} else {
			provider = ProviderAnthropic
		}
	}

	var apiKey, model string

	switch provider {
	case ProviderGemini:
		apiKey = os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
		}

		model = os.Getenv("COMPLETION_MODEL")
		if model == "" {
			model = defaultGeminiModel
		}

	case ProviderAnthropic:
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is required")
		}

		model = os.Getenv("COMPLETION_MODEL")
		if model == "" {
			model = defaultAnthropicModel
		}

	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", provider)
	}

	maxTokens := defaultMaxTokens
	if maxTokensStr := os.Getenv("COMPLETION_MAX_TOKENS"); maxTokensStr != "" {
		if val, err := strconv.Atoi(maxTokensStr); err == nil {
			maxTokens = val
		}
	}

	temperature := defaultTemperature
	if tempStr := os.Getenv("COMPLETION_TEMPERATURE"); tempStr != "" {
		if val, err := strconv.ParseFloat(tempStr, 32); err == nil {
			temperature = float32(val)
		}
	}

	return &Config{
		Provider:    provider,
		APIKey:      apiKey,
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}, nil
}
