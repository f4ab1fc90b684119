package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Santiagodiaz04/chatbot-api/internal/log"

	"github.com/joho/godotenv"
)

// Rewriter providers
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

// Config holds all configuration for the application
type Config struct {
	PostgreSQL PostgreSQLConfig
	Server     ServerConfig
	Chat       ChatConfig
	Scheduler  SchedulerConfig
	Rewriter   RewriterConfig
	Gemini     GeminiConfig
	OpenAI     OpenAIConfig
	Redis      RedisConfig
	Logging    LoggingConfig
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, wins over the fields below
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	AutoMigrate        bool
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            int
	Host            string
	GinMode         string
	AllowedOrigins  string
	AllowedMethods  string
	AllowedHeaders  string
	RateLimit       float64 // requests per second per client IP, 0 disables
	RateBurst       int
	ShutdownTimeout time.Duration
}

// ChatConfig holds dialogue settings that are not admin-editable.
type ChatConfig struct {
	SiteBaseURL         string
	Origin              string
	EmbeddingDimensions int
}

// SchedulerConfig points at the site's scheduling endpoints.
type SchedulerConfig struct {
	BaseURL             string
	AvailabilityPath    string
	BookingPath         string
	AvailabilityTimeout time.Duration
	BookingTimeout      time.Duration
}

// RewriterConfig holds settings shared by every rewriting provider.
type RewriterConfig struct {
	Provider     string
	Timeout      time.Duration
	MaxAttempts  int
	BackoffBase  time.Duration
	MaxReplyChar int
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// OpenAIConfig holds OpenAI-compatible API configuration
type OpenAIConfig struct {
	APIKey      string
	APIBase     string
	Model       string
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// RedisConfig holds the settings cache configuration. An empty address
// disables the cache.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	SettingsTTL time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
	File  string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "inmobiliaria"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
			AutoMigrate:        getEnvAsBool("PG_AUTO_MIGRATE", false),
		},
		Server: ServerConfig{
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:         getEnv("GIN_MODE", "release"),
			AllowedOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods:  getEnv("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS"),
			AllowedHeaders:  getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization,X-Request-ID"),
			RateLimit:       getEnvAsFloat("RATE_LIMIT_RPS", 2),
			RateBurst:       getEnvAsInt("RATE_LIMIT_BURST", 10),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Chat: ChatConfig{
			SiteBaseURL:         strings.TrimRight(getEnv("SITE_BASE_URL", "http://localhost"), "/"),
			Origin:              getEnv("CHAT_ORIGIN", "web"),
			EmbeddingDimensions: getEnvAsInt("EMBEDDING_DIMENSIONS", 768),
		},
		Scheduler: SchedulerConfig{
			BaseURL:             getEnv("SCHEDULER_BASE_URL", "http://localhost"),
			AvailabilityPath:    getEnv("SCHEDULER_AVAILABILITY_PATH", "/api/available-times.php"),
			BookingPath:         getEnv("SCHEDULER_BOOKING_PATH", "/api/create-appointment.php"),
			AvailabilityTimeout: getEnvAsDuration("SCHEDULER_AVAILABILITY_TIMEOUT", 10*time.Second),
			BookingTimeout:      getEnvAsDuration("SCHEDULER_BOOKING_TIMEOUT", 15*time.Second),
		},
		Rewriter: RewriterConfig{
			Provider:     strings.ToLower(getEnv("REWRITER_PROVIDER", ProviderGemini)),
			Timeout:      getEnvAsDuration("REWRITER_TIMEOUT", 22*time.Second),
			MaxAttempts:  getEnvAsInt("REWRITER_MAX_ATTEMPTS", 3),
			BackoffBase:  getEnvAsDuration("REWRITER_BACKOFF", 2*time.Second),
			MaxReplyChar: getEnvAsInt("REWRITER_MAX_CHARS", 2800),
		},
		Gemini: GeminiConfig{
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			Model:       getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			Temperature: getEnvAsFloat("GEMINI_TEMPERATURE", 0.5),
			TopP:        getEnvAsFloat("GEMINI_TOP_P", 0.9),
			MaxTokens:   getEnvAsInt("GEMINI_MAX_TOKENS", 500),
		},
		OpenAI: OpenAIConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			APIBase:     getEnv("OPENAI_API_BASE", "https://api.openai.com/v1"),
			Model:       getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			Temperature: getEnvAsFloat("OPENAI_CHAT_TEMPERATURE", 0.5),
			TopP:        getEnvAsFloat("OPENAI_CHAT_TOP_P", 0.9),
			MaxTokens:   getEnvAsInt("OPENAI_CHAT_MAX_TOKENS", 500),
		},
		Redis: RedisConfig{
			Addr:        getEnv("REDIS_ADDR", ""),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvAsInt("REDIS_DB", 0),
			SettingsTTL: getEnvAsDuration("SETTINGS_CACHE_TTL", 5*time.Minute),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	switch cfg.Rewriter.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderNone:
	default:
		return nil, fmt.Errorf("unknown REWRITER_PROVIDER %q", cfg.Rewriter.Provider)
	}

	return cfg, nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// RewriterEnabled reports whether the selected provider has credentials.
func (c *Config) RewriterEnabled() bool {
	switch c.Rewriter.Provider {
	case ProviderGemini:
		return c.Gemini.APIKey != ""
	case ProviderOpenAI:
		return c.OpenAI.APIKey != ""
	}
	return false
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warn(log.Fields{"key": key, "default": defaultValue}, "invalid integer value, using default")
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Warn(log.Fields{"key": key, "default": defaultValue}, "invalid float value, using default")
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Warn(log.Fields{"key": key, "default": defaultValue}, "invalid boolean value, using default")
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go durations ("15s") or a bare number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if secs, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Warn(log.Fields{"key": key, "default": defaultValue.String()}, "invalid duration value, using default")
		return defaultValue
	}
	return value
}
