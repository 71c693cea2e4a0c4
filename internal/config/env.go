package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have a .env file
	}

	databaseURL := os.Getenv("DATABASE_URL")
	redisURL := os.Getenv("REDIS_URL")
	geminiKey := os.Getenv("GEMINI_API_KEY")
	anthropicKey := os.Getenv("ANTHROPIC_API_KEY")
	jwtSecret := os.Getenv("JWT_SECRET")
	environment := os.Getenv("ENVIRONMENT")

	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if geminiKey == "" && anthropicKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY or ANTHROPIC_API_KEY environment variable is required")
	}

	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if environment == "" {
		environment = "development"
	}

	// REDIS_URL is optional - without it the recent-sessions cache is disabled
	return &Config{
		DatabaseURL:  databaseURL,
		RedisURL:     redisURL,
		GeminiKey:    geminiKey,
		AnthropicKey: anthropicKey,
		JWTSecret:    jwtSecret,
		Environment:  environment,
	}, nil
}

// returns the origins allowed to reach the API from a browser, parsed from
// the ALLOWED_ORIGINS comma-separated list. both the CORS layer and the
// websocket origin check read from here so the two never disagree.
func AllowedOrigins() []string {
	envOrigins := os.Getenv("ALLOWED_ORIGINS")
	if envOrigins == "" {
		return nil
	}

	origins := strings.Split(envOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return origins
}
