package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	LogLevel    string
	Port        uint16
	Dataset     DatasetConfig
	Storage     StorageConfig
	Placeholder PlaceholderConfig
	API         APIConfig
	Sentry      SentryConfig
}

// APIConfig controls access to the JSON lookup API.
type APIConfig struct {
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst uint16

	// TrustProxyHeaders keys the rate limiter on X-Forwarded-For/X-Real-IP.
	// Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

// DatasetConfig describes where the address dataset lives and how it is read.
type DatasetConfig struct {
	// Key is resolved against the configured storage provider.
	Key string
	// Format is one of "", "json", "json-nested", "yaml". Empty sniffs the content.
	Format string
	// Watch reloads the dataset when the file changes. Local storage only.
	Watch       bool
	LoadTimeout time.Duration

	// RefreshInterval reloads the dataset periodically. 0 disables it.
	RefreshInterval time.Duration
}

// PlaceholderConfig overrides the placeholder label of each select.
// Empty values keep the built-in Thai labels.
type PlaceholderConfig struct {
	Province    string
	District    string
	SubDistrict string
}

// SentryConfig holds configuration for Sentry error tracking
type SentryConfig struct {
	DSN              string
	Enabled          bool
	Environment      string
	Release          string
	SampleRate       float64
	TracesSampleRate float64
	Debug            bool
}

type StorageConfig struct {
	Provider      string // "local" or "r2"
	LocalPath     string
	R2AccountID   string
	R2AccessKeyID string
	R2SecretKey   string
	R2BucketName  string
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	return configFromEnv()
}

func configFromEnv() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnvInt("PORT", 3000),
		Dataset: DatasetConfig{
			Key:             getEnv("DATASET_KEY", "thai-address.json"),
			Format:          getEnv("DATASET_FORMAT", ""),
			Watch:           getEnvBool("DATASET_WATCH", false),
			LoadTimeout:     getEnvDuration("LOAD_TIMEOUT", 30*time.Second),
			RefreshInterval: getEnvDuration("DATASET_REFRESH_INTERVAL", 0),
		},
		Storage: StorageConfig{
			Provider:      getEnv("STORAGE_PROVIDER", "local"),
			LocalPath:     getEnv("LOCAL_STORAGE_PATH", "./data"),
			R2AccountID:   getEnv("R2_ACCOUNT_ID", ""),
			R2AccessKeyID: getEnv("R2_ACCESS_KEY_ID", ""),
			R2SecretKey:   getEnv("R2_SECRET_ACCESS_KEY", ""),
			R2BucketName:  getEnv("R2_BUCKET_NAME", ""),
		},
		Placeholder: PlaceholderConfig{
			Province:    getEnv("PLACEHOLDER_PROVINCE", ""),
			District:    getEnv("PLACEHOLDER_DISTRICT", ""),
			SubDistrict: getEnv("PLACEHOLDER_SUB_DISTRICT", ""),
		},
		API: APIConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
			RateLimitRPS:   getEnvFloat("API_RATE_LIMIT_RPS", 20),
			RateLimitBurst: getEnvInt("API_RATE_LIMIT_BURST", 40),

			TrustProxyHeaders: getEnvBool("TRUST_PROXY_HEADERS", false),
		},
		Sentry: SentryConfig{
			DSN:              getEnv("SENTRY_DSN", ""),
			Enabled:          getEnvBool("SENTRY_ENABLED", false), // Disabled by default for development
			Environment:      getEnv("SENTRY_ENVIRONMENT", "development"),
			Release:          getEnv("SENTRY_RELEASE", ""),
			SampleRate:       getEnvFloat("SENTRY_SAMPLE_RATE", 1.0),
			TracesSampleRate: getEnvFloat("SENTRY_TRACES_SAMPLE_RATE", 0.0),
			Debug:            getEnvBool("SENTRY_DEBUG", false),
		},
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	if _, ok := ParseLogLevel(cfg.LogLevel); !ok {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	switch cfg.Dataset.Format {
	case "", "json", "json-nested", "yaml", "yml":
	default:
		return nil, fmt.Errorf("DATASET_FORMAT %q is not supported", cfg.Dataset.Format)
	}

	if cfg.Dataset.Key == "" {
		return nil, fmt.Errorf("DATASET_KEY must not be empty")
	}

	switch cfg.Storage.Provider {
	case "local":
	case "r2":
		if cfg.Storage.R2AccountID == "" {
			return nil, fmt.Errorf("R2_ACCOUNT_ID required when using R2 storage")
		}
		if cfg.Storage.R2AccessKeyID == "" || cfg.Storage.R2SecretKey == "" {
			return nil, fmt.Errorf("R2 credentials required when using R2 storage")
		}
		if cfg.Storage.R2BucketName == "" {
			return nil, fmt.Errorf("R2_BUCKET_NAME required when using R2 storage")
		}
		if cfg.Dataset.Watch {
			slog.Default().Warn("DATASET_WATCH is only supported with local storage; disabling")
			cfg.Dataset.Watch = false
		}
	default:
		return nil, fmt.Errorf("STORAGE_PROVIDER %q is not supported", cfg.Storage.Provider)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		var intValue uint16
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var floatValue float64
		if _, err := fmt.Sscanf(value, "%f", &floatValue); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated value, dropping empty entries.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
		slog.Default().Warn("Invalid duration. Using default", slog.String("key", key), slog.String("value", value))
	}
	return defaultValue
}
