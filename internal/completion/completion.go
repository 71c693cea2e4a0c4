package completion

import (
	"fmt"
)

// creates a completer with auto-configuration from environment variables
func NewCompleter() (Completer, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load completion config: %w", err)
	}

	return NewCompleterWithConfig(config)
}

// creates a completer with explicit configuration
func NewCompleterWithConfig(config *Config) (Completer, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiCompleter(*config), nil
	case ProviderAnthropic:
		return NewAnthropicCompleter(*config), nil
	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", config.Provider)
	}
}
