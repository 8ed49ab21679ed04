package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	LLM       LLMConfig       `mapstructure:"llm" validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains the settings used to verify tokens issued by the
// external authentication provider.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// TokenLifetimeMinutes bounds tokens minted locally for development.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
}

// LLMConfig contains all LLM integration related settings.
//
// API keys are deliberately not required here: a missing key is reported by
// the invoker when a generation is attempted, so the server can still start
// in mock mode or serve the non-generation endpoints.
type LLMConfig struct {
	// Provider selects the live backend: "openrouter" or "gemini".
	Provider string `mapstructure:"provider" validate:"required,oneof=openrouter gemini"`

	// UseMock bypasses the network and returns deterministic proposals.
	UseMock bool `mapstructure:"use_mock"`

	OpenRouterAPIKey  string `mapstructure:"openrouter_api_key"`
	OpenRouterBaseURL string `mapstructure:"openrouter_base_url" validate:"required,url"`
	ModelName         string `mapstructure:"model_name" validate:"required"`

	// SiteURL is sent as the HTTP-Referer header for provider attribution.
	SiteURL  string `mapstructure:"site_url" validate:"omitempty,url"`
	AppTitle string `mapstructure:"app_title"`

	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GeminiModel  string `mapstructure:"gemini_model" validate:"required"`

	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"required,gt=0,lte=600"`
}

// RateLimitConfig configures the per-user generation rate limit.
// An empty RedisAddr disables limiting.
type RateLimitConfig struct {
	RedisAddr     string `mapstructure:"redis_addr" validate:"omitempty,hostname_port"`
	RedisPassword string `mapstructure:"redis_password"`
	Requests      int    `mapstructure:"requests" validate:"gt=0"`
	WindowSeconds int    `mapstructure:"window_seconds" validate:"gt=0"`
}
