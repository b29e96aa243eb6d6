package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Extract  ExtractConfig
	LLM      LLMConfig
	Policy   PolicyConfig
	Batch    BatchConfig
	LogLevel string
}

// DatabaseConfig holds database-related configuration.
// An empty DSN disables job history.
type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr string
	APIKey   string
}

// ExtractConfig controls document text extraction and the repair loop.
type ExtractConfig struct {
	PDFBackend  string
	MaxRetries  int
	BackoffBase time.Duration
	MaxTextLen  int
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	Endpoint    string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// PolicyConfig points at optional external requirement tables.
type PolicyConfig struct {
	MandatoryPath string
	SpecificPath  string
}

// BatchConfig controls directory batch runs.
type BatchConfig struct {
	Workers int
}

// PDF backends understood by the extract package.
const (
	PDFBackendNative    = "native"
	PDFBackendFitz      = "fitz"
	PDFBackendPdftotext = "pdftotext"
)

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			GRPCAddr: getEnv("GRPC_ADDR", ":8080"),
			APIKey:   getEnv("EXTRACT_API_KEY", ""),
		},
		Extract: ExtractConfig{
			PDFBackend:  strings.ToLower(getEnv("PDF_BACKEND", PDFBackendNative)),
			MaxRetries:  getEnvAsInt("EXTRACT_MAX_RETRIES", 2),
			BackoffBase: getEnvAsDuration("EXTRACT_BACKOFF_BASE", 500*time.Millisecond),
			MaxTextLen:  getEnvAsInt("EXTRACT_MAX_TEXT_LEN", 200000),
		},
		LLM: LLMConfig{
			Endpoint:    getEnv("LLM_ENDPOINT", "http://localhost:11434"),
			Model:       getEnv("LLM_MODEL", "qwen3:4b"),
			MaxTokens:   getEnvAsInt("LLM_MAX_TOKENS", 1500),
			Temperature: getEnvAsFloat32("LLM_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),
		},
		Policy: PolicyConfig{
			MandatoryPath: getEnv("MANDATORY_CSV_PATH", ""),
			SpecificPath:  getEnv("SPECIFIC_CSV_PATH", ""),
		},
		Batch: BatchConfig{
			Workers: getEnvAsInt("BATCH_WORKERS", 4),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.LLM.Endpoint) == "" {
		return NewAppError("CONFIG_ERROR", "LLM_ENDPOINT is required", ErrInvalidInput)
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return NewAppError("CONFIG_ERROR", "LLM_MODEL is required", ErrInvalidInput)
	}
	if c.Extract.MaxRetries < 0 {
		return NewAppError("CONFIG_ERROR", "EXTRACT_MAX_RETRIES must not be negative", ErrInvalidInput)
	}
	switch c.Extract.PDFBackend {
	case PDFBackendNative, PDFBackendFitz, PDFBackendPdftotext:
	default:
		return NewAppError("CONFIG_ERROR", "PDF_BACKEND must be one of native, fitz, pdftotext", ErrInvalidInput)
	}
	if c.Server.GRPCAddr == "" {
		return NewAppError("CONFIG_ERROR", "GRPC_ADDR is required", ErrInvalidInput)
	}
	if c.Batch.Workers <= 0 {
		c.Batch.Workers = 1
	}
	return nil
}
