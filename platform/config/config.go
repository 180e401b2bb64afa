// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetQueryRateLimitPerMinute() int
}

// AgentConfig provides settings for the research agent's chat model.
type AgentConfig interface {
	GetLLMAPIKey() string
	GetLLMBaseURL() string
	GetLLMModel() string
	GetAgentTimeout() time.Duration
	IsAgentEnabled() bool
}

// QdrantConfig provides settings for Qdrant vector database.
type QdrantConfig interface {
	GetQdrantURL() string
	GetQdrantAPIKey() string
	GetQdrantCollection() string
	IsQdrantEnabled() bool
}

// EmbeddingConfig provides settings for text embeddings.
// Provider "gemini" uses the Gemini API, "http" posts to an embedding service.
type EmbeddingConfig interface {
	GetEmbeddingProvider() string
	GetGeminiAPIKey() string
	GetEmbeddingModel() string
	GetEmbeddingAPIURL() string
	GetEmbeddingAPIKey() string
	GetEmbeddingDimensions() int
	GetEmbeddingConcurrency() int
	IsEmbeddingEnabled() bool
}

// MarketSearchConfig provides settings for the Serper web search API.
type MarketSearchConfig interface {
	GetSerperAPIKey() string
	GetSerperURL() string
	IsMarketSearchEnabled() bool
}

// CatalogConfig provides the location of the product catalog CSV.
type CatalogConfig interface {
	GetCatalogSource() string
	GetCatalogPath() string
	GetCatalogObject() string
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOBucketCatalog() string
	GetMinIOMaxFileSize() int64
	IsMinIOEnabled() bool
}

// SchedulerConfig provides settings for background jobs.
type SchedulerConfig interface {
	GetRedisURL() string
	GetSchedulerQueue() string
	GetReindexCron() string
}

const (
	CatalogSourceFile  = "file"
	CatalogSourceMinIO = "minio"

	EmbeddingProviderGemini = "gemini"
	EmbeddingProviderHTTP   = "http"
)

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                     string
	HTTPAddr                string
	DatabaseURL             string
	JWTAccessSecret         string
	CORSAllowAll            bool
	CORSOrigins             []string
	CORSAllowCreds          bool
	QueryRateLimitPerMinute int
	GeminiAPIKey            string
	LLMAPIKey               string
	LLMBaseURL              string
	LLMModel                string
	AgentTimeout            time.Duration
	QdrantURL               string
	QdrantAPIKey            string
	QdrantCollection        string
	EmbeddingProvider       string
	EmbeddingModel          string
	EmbeddingAPIURL         string
	EmbeddingAPIKey         string
	EmbeddingDimensions     int
	EmbeddingConcurrency    int
	SerperAPIKey            string
	SerperURL               string
	CatalogSource           string
	CatalogPath             string
	CatalogObject           string
	MinIOEndpoint           string
	MinIOAccessKey          string
	MinIOSecretKey          string
	MinIOUseSSL             bool
	MinIOBucketCatalog      string
	MinIOMaxFileSize        int64
	RedisURL                string
	SchedulerQueue          string
	ReindexCron             string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string             { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool           { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string        { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool         { return c.CORSAllowCreds }
func (c *Config) GetQueryRateLimitPerMinute() int { return c.QueryRateLimitPerMinute }

// AgentConfig implementation
func (c *Config) GetLLMAPIKey() string           { return c.LLMAPIKey }
func (c *Config) GetLLMBaseURL() string          { return c.LLMBaseURL }
func (c *Config) GetLLMModel() string            { return c.LLMModel }
func (c *Config) GetAgentTimeout() time.Duration { return c.AgentTimeout }
func (c *Config) IsAgentEnabled() bool           { return c.LLMAPIKey != "" }

// QdrantConfig implementation
func (c *Config) GetQdrantURL() string        { return c.QdrantURL }
func (c *Config) GetQdrantAPIKey() string     { return c.QdrantAPIKey }
func (c *Config) GetQdrantCollection() string { return c.QdrantCollection }
func (c *Config) IsQdrantEnabled() bool {
	return c.QdrantURL != "" && c.QdrantCollection != ""
}

// EmbeddingConfig implementation
func (c *Config) GetEmbeddingProvider() string { return c.EmbeddingProvider }
func (c *Config) GetGeminiAPIKey() string      { return c.GeminiAPIKey }
func (c *Config) GetEmbeddingModel() string    { return c.EmbeddingModel }
func (c *Config) GetEmbeddingAPIURL() string   { return c.EmbeddingAPIURL }
func (c *Config) GetEmbeddingAPIKey() string   { return c.EmbeddingAPIKey }
func (c *Config) GetEmbeddingDimensions() int  { return c.EmbeddingDimensions }
func (c *Config) GetEmbeddingConcurrency() int { return c.EmbeddingConcurrency }
func (c *Config) IsEmbeddingEnabled() bool {
	switch c.EmbeddingProvider {
	case EmbeddingProviderGemini:
		return c.GeminiAPIKey != ""
	case EmbeddingProviderHTTP:
		return c.EmbeddingAPIURL != ""
	}
	return false
}

// MarketSearchConfig implementation
func (c *Config) GetSerperAPIKey() string     { return c.SerperAPIKey }
func (c *Config) GetSerperURL() string        { return c.SerperURL }
func (c *Config) IsMarketSearchEnabled() bool { return c.SerperAPIKey != "" }

// CatalogConfig implementation
func (c *Config) GetCatalogSource() string { return c.CatalogSource }
func (c *Config) GetCatalogPath() string   { return c.CatalogPath }
func (c *Config) GetCatalogObject() string { return c.CatalogObject }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string      { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string     { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string     { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool          { return c.MinIOUseSSL }
func (c *Config) GetMinIOBucketCatalog() string { return c.MinIOBucketCatalog }
func (c *Config) GetMinIOMaxFileSize() int64    { return c.MinIOMaxFileSize }
func (c *Config) IsMinIOEnabled() bool          { return c.MinIOEndpoint != "" }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetSchedulerQueue() string { return c.SchedulerQueue }
func (c *Config) GetReindexCron() string    { return c.ReindexCron }

// Load reads configuration from environment variables, after loading .env if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	geminiKey := getEnv("GEMINI_API_KEY", "")

	cfg := &Config{
		Env:                     getEnv("APP_ENV", "development"),
		HTTPAddr:                getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		JWTAccessSecret:         getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:            corsAllowAll,
		CORSOrigins:             corsOrigins,
		CORSAllowCreds:          strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		QueryRateLimitPerMinute: mustInt(getEnv("QUERY_RATE_LIMIT_PER_MINUTE", "30")),
		GeminiAPIKey:            geminiKey,
		LLMAPIKey:               getEnv("LLM_API_KEY", geminiKey),
		LLMBaseURL:              getEnv("LLM_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:                getEnv("LLM_MODEL", "gemini-2.5-flash"),
		AgentTimeout:            mustDuration(getEnv("AGENT_TIMEOUT", "90s")),
		QdrantURL:               getEnv("QDRANT_URL", ""),
		QdrantAPIKey:            getEnv("QDRANT_API_KEY", ""),
		QdrantCollection:        getEnv("QDRANT_COLLECTION", "products_collection"),
		EmbeddingProvider:       strings.ToLower(getEnv("EMBEDDING_PROVIDER", EmbeddingProviderGemini)),
		EmbeddingModel:          getEnv("EMBEDDING_MODEL", "gemini-embedding-001"),
		EmbeddingAPIURL:         getEnv("EMBEDDING_API_URL", ""),
		EmbeddingAPIKey:         getEnv("EMBEDDING_API_KEY", ""),
		EmbeddingDimensions:     mustInt(getEnv("EMBEDDING_DIMENSIONS", "768")),
		EmbeddingConcurrency:    mustInt(getEnv("EMBEDDING_CONCURRENCY", "4")),
		SerperAPIKey:            getEnv("SERPER_API_KEY", ""),
		SerperURL:               getEnv("SERPER_URL", "https://google.serper.dev/search"),
		CatalogSource:           strings.ToLower(getEnv("CATALOG_SOURCE", CatalogSourceFile)),
		CatalogPath:             getEnv("CATALOG_PATH", "data/products_catalog.csv"),
		CatalogObject:           getEnv("CATALOG_OBJECT", "products_catalog.csv"),
		MinIOEndpoint:           getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:          getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:          getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:             strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOBucketCatalog:      getEnv("MINIO_BUCKET_CATALOG", "catalog"),
		MinIOMaxFileSize:        mustInt64(getEnv("MINIO_MAX_FILE_SIZE", "20971520")),
		RedisURL:                getEnv("REDIS_URL", ""),
		SchedulerQueue:          getEnv("SCHEDULER_QUEUE", "default"),
		ReindexCron:             getEnv("CATALOG_REINDEX_CRON", "0 3 1 * *"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTAccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if c.CORSAllowAll && c.CORSAllowCreds {
		return fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if c.AgentTimeout <= 0 {
		return fmt.Errorf("AGENT_TIMEOUT must be a positive duration")
	}
	switch c.CatalogSource {
	case CatalogSourceFile:
	case CatalogSourceMinIO:
		if !c.IsMinIOEnabled() {
			return fmt.Errorf("MINIO_ENDPOINT is required when CATALOG_SOURCE is minio")
		}
	default:
		return fmt.Errorf("CATALOG_SOURCE must be %q or %q", CatalogSourceFile, CatalogSourceMinIO)
	}
	switch c.EmbeddingProvider {
	case EmbeddingProviderGemini, EmbeddingProviderHTTP:
	default:
		return fmt.Errorf("EMBEDDING_PROVIDER must be %q or %q", EmbeddingProviderGemini, EmbeddingProviderHTTP)
	}
	if c.EmbeddingDimensions <= 0 {
		return fmt.Errorf("EMBEDDING_DIMENSIONS must be positive")
	}
	if c.EmbeddingConcurrency <= 0 {
		c.EmbeddingConcurrency = 1
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
