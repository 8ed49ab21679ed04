package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix shared by all environment variables read by Load.
const EnvPrefix = "FLASHFORGE"

// defaults lists every configuration key with its default value. Registering
// each key is what lets viper's AutomaticEnv feed Unmarshal.
var defaults = map[string]any{
	"server.port":                 8080,
	"server.log_level":            "info",
	"database.url":                "",
	"auth.jwt_secret":             "",
	"auth.token_lifetime_minutes": 60,
	"llm.provider":                "openrouter",
	"llm.use_mock":                false,
	"llm.openrouter_api_key":      "",
	"llm.openrouter_base_url":     "https://openrouter.ai/api/v1",
	"llm.model_name":              "openai/gpt-4o-mini",
	"llm.site_url":                "",
	"llm.app_title":               "flashforge",
	"llm.gemini_api_key":          "",
	"llm.gemini_model":            "gemini-2.0-flash",
	"llm.request_timeout_seconds": 60,
	"rate_limit.redis_addr":       "",
	"rate_limit.redis_password":   "",
	"rate_limit.requests":         10,
	"rate_limit.window_seconds":   60,
}

// aliases binds well-known provider variables in addition to the prefixed ones.
var aliases = map[string][]string{
	"llm.openrouter_api_key": {"OPENROUTER_API_KEY"},
	"llm.gemini_api_key":     {"GEMINI_API_KEY"},
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range aliases {
		envName := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(append([]string{key, envName}, names...)...); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
