package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the transcript service
type Config struct {
	// Server configuration
	Port string `envconfig:"PORT" default:"8080"`

	// Gemini transcription configuration
	GeminiAPIKey      string  `envconfig:"GEMINI_API_KEY" required:"true"`
	GeminiModel       string  `envconfig:"GEMINI_MODEL" default:"gemini-3-flash-preview"`
	GeminiTemperature float64 `envconfig:"GEMINI_TEMPERATURE" default:"0.2"`

	// TranscribeTimeout bounds a single transcription call, in seconds.
	// Long media can take minutes to transcribe.
	TranscribeTimeout int `envconfig:"TRANSCRIBE_TIMEOUT" default:"300"`

	// Cloudflare R2 object storage (S3-compatible) for staged uploads
	R2AccountID       string `envconfig:"R2_ACCOUNT_ID" default:""`
	R2AccessKeyID     string `envconfig:"R2_ACCESS_KEY_ID" default:""`
	R2SecretAccessKey string `envconfig:"R2_SECRET_ACCESS_KEY" default:""`
	R2BucketName      string `envconfig:"R2_BUCKET_NAME" default:"transcriptai-videos"`
	PresignExpiry     int    `envconfig:"PRESIGN_EXPIRY" default:"3600"` // seconds

	// Upload limits
	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"104857600"` // 100 MiB

	// Storage retry configuration
	StorageRetryMaxAttempts    int `envconfig:"STORAGE_RETRY_MAX_ATTEMPTS" default:"3"`
	StorageRetryInitialBackoff int `envconfig:"STORAGE_RETRY_INITIAL_BACKOFF" default:"100"` // milliseconds

	// Observability configuration
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`       // Log level: debug, info, warn, error
	LogPretty      bool   `envconfig:"LOG_PRETTY" default:"false"`     // Pretty print logs (for development)
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"` // Enable Prometheus metrics
}

// Load reads configuration from environment variables
// It first attempts to load from .env file if it exists, then from environment
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	return LoadFromEnv()
}

// LoadFromEnv loads configuration directly from environment variables
// without attempting to load .env file (useful for containerized deployments)
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Validate required fields
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if cfg.TranscribeTimeout <= 0 {
		return nil, fmt.Errorf("TRANSCRIBE_TIMEOUT must be positive")
	}

	return &cfg, nil
}

// StorageConfigured reports whether R2 credentials are present. The
// upload-url endpoint and key-based transcription are disabled without them.
func (c *Config) StorageConfigured() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != ""
}

// GetEnv returns the value of an environment variable or a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
