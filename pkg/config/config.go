package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port             string        `mapstructure:"PORT"`
	Env              string        `mapstructure:"ENV"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	LogFormat        string        `mapstructure:"LOG_FORMAT"`
	MaxContentLength int64         `mapstructure:"MAX_CONTENT_LENGTH"`
	RequestTimeout   time.Duration `mapstructure:"REQUEST_TIMEOUT"`

	// CORS
	CorsOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Models
	PositionsModelPath          string `mapstructure:"POSITIONS_MODEL_PATH"`
	PhysicalConditionsModelPath string `mapstructure:"PHYSICAL_CONDITIONS_MODEL_PATH"`

	// Redis
	RedisURL string `mapstructure:"REDIS_URL"`

	// LLM Integration
	LLMProvider      string        `mapstructure:"LLM_PROVIDER"` // "openai", "anthropic"
	OpenAIAPIKey     string        `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL    string        `mapstructure:"OPENAI_BASE_URL"`
	OpenAIModel      string        `mapstructure:"OPENAI_MODEL"`
	AnthropicAPIKey  string        `mapstructure:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL string        `mapstructure:"ANTHROPIC_BASE_URL"`
	AnthropicModel   string        `mapstructure:"ANTHROPIC_MODEL"`
	LLMTemperature   float64       `mapstructure:"LLM_TEMPERATURE"`
	LLMMaxTokens     int           `mapstructure:"LLM_MAX_TOKENS"`
	LLMTimeout       time.Duration `mapstructure:"LLM_TIMEOUT"`
	LLMRetryAttempts int           `mapstructure:"LLM_RETRY_ATTEMPTS"`

	// Limits
	AIRateLimit             int   `mapstructure:"AI_RATE_LIMIT"`
	AITokenLimit            int64 `mapstructure:"AI_TOKEN_LIMIT"`
	AICacheExpiration       int   `mapstructure:"AI_CACHE_EXPIRATION"`
	CircuitBreakerThreshold int   `mapstructure:"CIRCUIT_BREAKER_THRESHOLD"`
	BatchConcurrency        int   `mapstructure:"BATCH_CONCURRENCY"`
}

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// ConfigError lists every problem found while validating the configuration.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", strings.Join(e.Problems, "; "))
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")

	setDefaults(v)

	// Read from environment
	v.AutomaticEnv()

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Parse CORS origins from comma-separated string
	if corsStr := v.GetString("CORS_ORIGINS"); corsStr != "" {
		config.CorsOrigins = strings.Split(corsStr, ",")
	}

	config.LLMProvider = strings.ToLower(strings.TrimSpace(config.LLMProvider))

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "9041")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("LOG_FORMAT", "") // text in development, json elsewhere
	v.SetDefault("MAX_CONTENT_LENGTH", 1024*1024)
	v.SetDefault("REQUEST_TIMEOUT", "120s")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("POSITIONS_MODEL_PATH", "")
	v.SetDefault("PHYSICAL_CONDITIONS_MODEL_PATH", "")
	v.SetDefault("REDIS_URL", "") // cache disabled unless set

	v.SetDefault("LLM_PROVIDER", ProviderOpenAI)
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_BASE_URL", "")
	v.SetDefault("OPENAI_MODEL", "gpt-4o")
	v.SetDefault("ANTHROPIC_API_KEY", "")
	v.SetDefault("ANTHROPIC_BASE_URL", "https://api.anthropic.com/v1")
	v.SetDefault("ANTHROPIC_MODEL", "claude-sonnet-4-20250514")
	v.SetDefault("LLM_TEMPERATURE", 0.5)
	v.SetDefault("LLM_MAX_TOKENS", 1500)
	v.SetDefault("LLM_TIMEOUT", "60s")
	v.SetDefault("LLM_RETRY_ATTEMPTS", 3)

	v.SetDefault("AI_RATE_LIMIT", 60)          // requests per minute
	v.SetDefault("AI_TOKEN_LIMIT", 100000)     // tokens per hour
	v.SetDefault("AI_CACHE_EXPIRATION", 3600)  // 1 hour in seconds
	v.SetDefault("CIRCUIT_BREAKER_THRESHOLD", 3)
	v.SetDefault("BATCH_CONCURRENCY", 1)
}

// Validate checks the settings the service cannot start without. A missing LLM
// credential is not one of them: analyses then report a not-configured result.
func (c *Config) Validate() error {
	var problems []string

	checkModel := func(key, path string) {
		if path == "" {
			problems = append(problems, fmt.Sprintf("%s is required", key))
			return
		}
		if info, err := os.Stat(path); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", key, err))
		} else if info.IsDir() {
			problems = append(problems, fmt.Sprintf("%s: %s is a directory", key, path))
		}
	}
	checkModel("POSITIONS_MODEL_PATH", c.PositionsModelPath)
	checkModel("PHYSICAL_CONDITIONS_MODEL_PATH", c.PhysicalConditionsModelPath)

	switch c.LLMProvider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		problems = append(problems, fmt.Sprintf("LLM_PROVIDER %q is not supported", c.LLMProvider))
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("LOG_FORMAT %q is not supported", c.LogFormat))
	}

	if c.LLMMaxTokens <= 0 {
		problems = append(problems, "LLM_MAX_TOKENS must be positive")
	}
	if c.LLMTemperature < 0 || c.LLMTemperature > 2 {
		problems = append(problems, "LLM_TEMPERATURE must be between 0 and 2")
	}
	if c.BatchConcurrency < 1 {
		problems = append(problems, "BATCH_CONCURRENCY must be at least 1")
	}

	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	return nil
}

// LLMAPIKey returns the credential of the selected provider.
func (c *Config) LLMAPIKey() string {
	if c.LLMProvider == ProviderAnthropic {
		return c.AnthropicAPIKey
	}
	return c.OpenAIAPIKey
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.AICacheExpiration) * time.Second
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
