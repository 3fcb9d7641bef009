package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderSarvam = "sarvam"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	HistoryBackendFile     = "file"
	HistoryBackendPostgres = "postgres"

	// DefaultHistoryFile is the history file earlier releases wrote, so
	// existing history is picked up without configuration
	DefaultHistoryFile = "reviews_history.json"

	defaultRequestTimeoutSeconds = 30
	minAPIKeyLength              = 10
)

// Config holds the application configuration.
// Values are read once at startup and injected into the components that need them.
type Config struct {
	// Environment
	Environment string
	Port        string

	// Completion API
	Provider           string        // sarvam (default), openai or gemini
	CompletionAPIKey   string        // Subscription key for the OpenAI-compatible endpoint
	CompletionEndpoint string        // Chat completions URL
	CompletionModel    string        // Model name sent in the request body
	CompletionAuthKey  string        // Header that carries the key
	GeminiAPIKey       string        // Google Gemini API key
	GeminiModel        string        // Gemini model name
	RequestTimeout     time.Duration // Hard bound on a single completion call

	// History
	HistoryBackend string // file or postgres
	HistoryFile    string // history log for the file backend; legacy JSON arrays are converted on first append
	DatabaseURL    string // Postgres DSN for the postgres backend

	// Observability
	SentryDSN         string
	LangfusePublicKey string
	LangfuseSecretKey string
	LangfuseHost      string
	LangfuseEnabled   bool
	CloudWatchEnabled bool
	LogLevel          string
	LogFormat         string
}

func Load() *Config {
	return &Config{
		Environment:        getEnv("ENVIRONMENT", "development"),
		Port:               getEnv("PORT", "5000"),
		Provider:           strings.ToLower(getEnv("LLM_PROVIDER", ProviderSarvam)),
		CompletionAPIKey:   getEnv("SARVAM_API_KEY", ""),
		CompletionEndpoint: getEnv("COMPLETION_ENDPOINT", "https://api.sarvam.ai/v1/chat/completions"),
		CompletionModel:    getEnv("COMPLETION_MODEL", "sarvam-m"),
		CompletionAuthKey:  getEnv("COMPLETION_AUTH_HEADER", "api-subscription-key"),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		RequestTimeout:     time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", defaultRequestTimeoutSeconds)) * time.Second,
		HistoryBackend:     strings.ToLower(getEnv("HISTORY_BACKEND", HistoryBackendFile)),
		HistoryFile:        getEnv("HISTORY_FILE", DefaultHistoryFile),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		SentryDSN:          getEnv("SENTRY_DSN", ""),
		LangfusePublicKey:  getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey:  getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseHost:       getEnv("LANGFUSE_HOST", "https://cloud.langfuse.com"),
		LangfuseEnabled:    getEnv("LANGFUSE_ENABLED", "false") == "true",
		CloudWatchEnabled:  getEnv("CLOUDWATCH_ENABLED", "false") == "true",
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
	}
}

// Validate checks the settings the service cannot start without.
// It is called once at startup; a failure is fatal.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderSarvam, ProviderOpenAI:
		if len(strings.TrimSpace(c.CompletionAPIKey)) < minAPIKeyLength {
			return &ConfigurationError{Field: "SARVAM_API_KEY", Reason: "missing or too short"}
		}
		if c.CompletionEndpoint == "" {
			return &ConfigurationError{Field: "COMPLETION_ENDPOINT", Reason: "must not be empty"}
		}
	case ProviderGemini:
		if len(strings.TrimSpace(c.GeminiAPIKey)) < minAPIKeyLength {
			return &ConfigurationError{Field: "GEMINI_API_KEY", Reason: "missing or too short"}
		}
	default:
		return &ConfigurationError{Field: "LLM_PROVIDER", Reason: fmt.Sprintf("unknown provider %q", c.Provider)}
	}

	if c.RequestTimeout <= 0 {
		return &ConfigurationError{Field: "REQUEST_TIMEOUT_SECONDS", Reason: "must be positive"}
	}

	switch c.HistoryBackend {
	case HistoryBackendFile:
		if c.HistoryFile == "" {
			return &ConfigurationError{Field: "HISTORY_FILE", Reason: "must not be empty"}
		}
	case HistoryBackendPostgres:
		if c.DatabaseURL == "" {
			return &ConfigurationError{Field: "DATABASE_URL", Reason: "required for the postgres history backend"}
		}
	default:
		return &ConfigurationError{Field: "HISTORY_BACKEND", Reason: fmt.Sprintf("unknown backend %q", c.HistoryBackend)}
	}

	return nil
}

// IsProduction reports whether the service runs in the production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ActiveModel returns the model name used by the configured provider
func (c *Config) ActiveModel() string {
	if c.Provider == ProviderGemini {
		return c.GeminiModel
	}
	return c.CompletionModel
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
