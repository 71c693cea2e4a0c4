package completion

import (
	"context"
	"errors"
)

// represents different completion providers
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderAnthropic Provider = "anthropic"
)

// returned when the provider answered but carried no generated text
var ErrNoContent = errors.New("no content in completion response")

// a single text-in/text-out call to a generative AI service. implementations
// own their own latency, rate-limiting, and transport concerns.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
}

// holds configuration for completer initialization
type Config struct {
	Provider    Provider
	APIKey      string
	Model       string  // e.g., "gemini-1.5-flash", "claude-3-5-haiku-20241022"
	MaxTokens   int     // max tokens for the response
	Temperature float32 // 0.0 to 1.0
}
