package config

// holds all server configuration loaded from the environment
type Config struct {
	DatabaseURL  string
	RedisURL     string
	GeminiKey    string
	AnthropicKey string
	JWTSecret    string
	Environment  string
}
