package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DatabaseDSN string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	ServerPort string
	ServerHost string

	// Auth
	JWTSecret    string
	JWTAlgorithm string
	JWTExpiry    time.Duration

	// Embedding + generation providers
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	AnthropicAPIKey   string
	GeminiAPIKey      string
	EmbeddingProvider string
	EmbeddingModel    string
	EmbeddingDim      int
	LLMProvider       string
	LLMModel          string
	LLMMaxTokens      int
	LLMTemperature    float64
	HTTPClientTimeout time.Duration

	// Query embedding cache; empty address disables it
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	EmbeddingCacheTTL time.Duration

	// Worker pool configuration
	ReindexWorkers   int
	ReindexQueueSize int

	// Observability
	JaegerEndpoint string
	LogLevel       string
	LogFormat      string
}

var defaults = map[string]interface{}{
	"DB_HOST":             "localhost",
	"DB_PORT":             "5432",
	"DB_USER":             "postgres",
	"DB_PASSWORD":         "postgres",
	"DB_NAME":             "tintas",
	"DB_SSLMODE":          "disable",
	"SERVER_PORT":         "8000",
	"SERVER_HOST":         "0.0.0.0",
	"JWT_SECRET":          "change-me",
	"JWT_ALG":             "HS256",
	"JWT_EXP_MIN":         60,
	"OPENAI_BASE_URL":     "https://api.openai.com/v1",
	"EMBEDDING_PROVIDER":  "openai",
	"EMBEDDING_MODEL":     "text-embedding-3-small",
	"EMBEDDING_DIM":       1536,
	"LLM_PROVIDER":        "openai",
	"LLM_MODEL":           "gpt-4o-mini",
	"LLM_MAX_TOKENS":      400,
	"LLM_TEMPERATURE":     0.7,
	"HTTP_CLIENT_TIMEOUT": "30s",
	"REDIS_DB":            0,
	"EMBEDDING_CACHE_TTL": "24h",
	"REINDEX_WORKERS":     3,
	"REINDEX_QUEUE_SIZE":  100,
	"LOG_LEVEL":           "info",
	"LOG_FORMAT":          "console",
}

// Load reads configuration from the environment, after loading .env if present
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	cfg := &Config{
		DatabaseDSN: v.GetString("DATABASE_URL"),
		DBHost:      v.GetString("DB_HOST"),
		DBPort:      v.GetString("DB_PORT"),
		DBUser:      v.GetString("DB_USER"),
		DBPassword:  v.GetString("DB_PASSWORD"),
		DBName:      v.GetString("DB_NAME"),
		DBSSLMode:   v.GetString("DB_SSLMODE"),

		ServerPort: v.GetString("SERVER_PORT"),
		ServerHost: v.GetString("SERVER_HOST"),

		JWTSecret:    v.GetString("JWT_SECRET"),
		JWTAlgorithm: strings.ToUpper(v.GetString("JWT_ALG")),
		JWTExpiry:    time.Duration(v.GetInt("JWT_EXP_MIN")) * time.Minute,

		OpenAIAPIKey:      v.GetString("OPENAI_API_KEY"),
		OpenAIBaseURL:     strings.TrimRight(v.GetString("OPENAI_BASE_URL"), "/"),
		AnthropicAPIKey:   v.GetString("ANTHROPIC_API_KEY"),
		GeminiAPIKey:      v.GetString("GEMINI_API_KEY"),
		EmbeddingProvider: strings.ToLower(v.GetString("EMBEDDING_PROVIDER")),
		EmbeddingModel:    v.GetString("EMBEDDING_MODEL"),
		EmbeddingDim:      v.GetInt("EMBEDDING_DIM"),
		LLMProvider:       strings.ToLower(v.GetString("LLM_PROVIDER")),
		LLMModel:          v.GetString("LLM_MODEL"),
		LLMMaxTokens:      v.GetInt("LLM_MAX_TOKENS"),
		LLMTemperature:    v.GetFloat64("LLM_TEMPERATURE"),
		HTTPClientTimeout: v.GetDuration("HTTP_CLIENT_TIMEOUT"),

		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		EmbeddingCacheTTL: v.GetDuration("EMBEDDING_CACHE_TTL"),

		ReindexWorkers:   v.GetInt("REINDEX_WORKERS"),
		ReindexQueueSize: v.GetInt("REINDEX_QUEUE_SIZE"),

		JaegerEndpoint: v.GetString("JAEGER_ENDPOINT"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
// Missing provider keys are allowed: recommendations then use the substring fallback.
func (c *Config) Validate() error {
	switch c.EmbeddingProvider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("unsupported EMBEDDING_PROVIDER %q", c.EmbeddingProvider)
	}
	switch c.LLMProvider {
	case "openai", "claude", "gemini":
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLMProvider)
	}
	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported JWT_ALG %q", c.JWTAlgorithm)
	}
	if c.EmbeddingDim <= 0 {
		return fmt.Errorf("EMBEDDING_DIM must be positive, got %d", c.EmbeddingDim)
	}
	if c.JWTExpiry <= 0 {
		return fmt.Errorf("JWT_EXP_MIN must be positive")
	}
	if c.LLMMaxTokens <= 0 {
		return fmt.Errorf("LLM_MAX_TOKENS must be positive, got %d", c.LLMMaxTokens)
	}
	if c.ReindexWorkers <= 0 || c.ReindexQueueSize <= 0 {
		return fmt.Errorf("REINDEX_WORKERS and REINDEX_QUEUE_SIZE must be positive")
	}
	return nil
}

func (c *Config) DatabaseURL() string {
	if c.DatabaseDSN != "" {
		return c.DatabaseDSN
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%s", c.ServerHost, c.ServerPort)
}

// EmbeddingAPIKey returns the key for the configured embedding provider
func (c *Config) EmbeddingAPIKey() string {
	if c.EmbeddingProvider == "gemini" {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

// LLMAPIKey returns the key for the configured generation provider
func (c *Config) LLMAPIKey() string {
	switch c.LLMProvider {
	case "claude":
		return c.AnthropicAPIKey
	case "gemini":
		return c.GeminiAPIKey
	default:
		return c.OpenAIAPIKey
	}
}
