package config

import (
	"log/slog"

	"github.com/caarlos0/env/v10"
)

// Config holds minimal runtime configuration. Extend as needed.
type Config struct {
	// Server
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Upload limits
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"` // 10MB in bytes

	// Store
	StoreProvider string `env:"STORE_PROVIDER" envDefault:"postgres"` // "postgres" (production database)
	DBURL         string `env:"DB_URL"`

	// Queue
	QueueProvider string `env:"QUEUE_PROVIDER" envDefault:"nats"` // "nats" (archive hand-off to the archiver service)
	QueueURL      string `env:"QUEUE_URL"`

	// Cache
	CacheProvider   string `env:"CACHE_PROVIDER" envDefault:"noop"` // "redis" or "noop"
	RedisAddr       string `env:"REDIS_ADDR"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	HistoryCacheTTL int    `env:"HISTORY_CACHE_TTL" envDefault:"300"` // seconds

	// History
	HistoryLimit int `env:"HISTORY_LIMIT" envDefault:"20"`

	// Providers. A missing key disables that provider's calls, not the service.
	OpenAIKey       string `env:"OPENAI_API_KEY"`
	OpenAIModel     string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	GeminiKey       string `env:"GEMINI_API_KEY"`
	GeminiModel     string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
	PerplexityKey   string `env:"PERPLEXITY_API_KEY"`
	PerplexityModel string `env:"PERPLEXITY_MODEL" envDefault:"sonar"`

	// Auth: comma-separated token:user pairs for the static authenticator.
	AuthTokens string `env:"AUTH_TOKENS"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
