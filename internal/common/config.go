package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	LLM      LLMConfig
	Pipeline PipelineConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
}

// LLMConfig holds completion-model configuration
type LLMConfig struct {
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float32
	Timeout     time.Duration
}

// PipelineConfig holds the caps and budgets for one pipeline run.
// Core packages receive this struct explicitly; they never read env.
type PipelineConfig struct {
	MaxPages              int
	MaxTotalChars         int
	ChunkCharLimit        int
	ChunkPageLimit        int
	MaxChunks             int
	ChunkConcurrency      int
	MaxCandidatesPerChunk int
	EvidenceMaxLen        int
	MaxDecisions          int
	AdvisoryMinDecisions  int
	Score                 ScoreConfig
}

// ScoreConfig holds the quality-score weights. Deterministic and
// explainable; never derived from the model.
type ScoreConfig struct {
	Base            int
	DateBonus       int
	DigitBonus      int
	LengthBonus     int
	LengthThreshold int
	Max             int
}

// DefaultScoreConfig returns the scoring weights used in production.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		Base:            55,
		DateBonus:       20,
		DigitBonus:      10,
		LengthBonus:     5,
		LengthThreshold: 60,
		Max:             100,
	}
}

// DefaultPipelineConfig returns the production caps. Tests build on this.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		MaxPages:              20,
		MaxTotalChars:         300_000,
		ChunkCharLimit:        12_000,
		ChunkPageLimit:        2,
		MaxChunks:             8,
		ChunkConcurrency:      2,
		MaxCandidatesPerChunk: 25,
		EvidenceMaxLen:        220,
		MaxDecisions:          80,
		AdvisoryMinDecisions:  20,
		Score:                 DefaultScoreConfig(),
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	pipe := DefaultPipelineConfig()
	pipe.MaxPages = getEnvAsInt("MAX_PAGES", pipe.MaxPages)
	pipe.MaxTotalChars = getEnvAsInt("MAX_TOTAL_CHARS", pipe.MaxTotalChars)
	pipe.ChunkCharLimit = getEnvAsInt("CHUNK_CHAR_LIMIT", pipe.ChunkCharLimit)
	pipe.ChunkPageLimit = getEnvAsInt("CHUNK_PAGE_LIMIT", pipe.ChunkPageLimit)
	pipe.MaxChunks = getEnvAsInt("MAX_CHUNKS", pipe.MaxChunks)
	pipe.ChunkConcurrency = getEnvAsInt("CHUNK_CONCURRENCY", pipe.ChunkConcurrency)
	pipe.MaxCandidatesPerChunk = getEnvAsInt("MAX_CANDIDATES_PER_CHUNK", pipe.MaxCandidatesPerChunk)
	pipe.EvidenceMaxLen = getEnvAsInt("EVIDENCE_MAX_LEN", pipe.EvidenceMaxLen)
	pipe.MaxDecisions = getEnvAsInt("MAX_DECISIONS", pipe.MaxDecisions)

	return &Config{
		Server: ServerConfig{
			HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		LLM: LLMConfig{
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 18*time.Second),
		},
		Pipeline: pipe,
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

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Pipeline.ChunkConcurrency < 1 {
		return NewAppError("CONFIG_ERROR", "CHUNK_CONCURRENCY must be at least 1", ErrInvalidInput)
	}
	if c.Pipeline.MaxChunks < 1 || c.Pipeline.MaxPages < 1 {
		return NewAppError("CONFIG_ERROR", "MAX_CHUNKS and MAX_PAGES must be at least 1", ErrInvalidInput)
	}
	return nil
}
