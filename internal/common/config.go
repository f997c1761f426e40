package common

import (
	"encoding/json"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Provider names accepted in the config file.
const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

// Config holds all application configuration.
type Config struct {
	Provider string        `json:"provider"` // "ollama" (default) | "gemini"
	Ollama   OllamaConfig  `json:"ollama"`
	Gemini   GeminiConfig  `json:"gemini"`
	Extract  ExtractConfig `json:"extract"`
	Sheet    SheetConfig   `json:"sheet"`
	Matcher  MatcherConfig `json:"matcher"`
}

// OllamaConfig holds the local HTTP backend configuration.
type OllamaConfig struct {
	BaseURL string        `json:"base_url"`
	Model   string        `json:"model"`
	Timeout time.Duration `json:"-"`
}

// GeminiConfig holds the cloud backend configuration.
type GeminiConfig struct {
	APIKey string `json:"api_key"`
	Model  string `json:"model"`
}

// ExtractConfig holds the text extraction configuration.
type ExtractConfig struct {
	Tesseract     string `json:"tesseract"`
	Pdftotext     string `json:"pdftotext"`
	Pdftoppm      string `json:"pdftoppm"`
	TesseractLang string `json:"tesseract_lang"`
	DPI           int    `json:"dpi"`
	MaxPages      int    `json:"max_pages"`
}

// SheetConfig names the columns that receive extracted content.
type SheetConfig struct {
	EvidenceColumn string `json:"evidence_column"`
	SourceColumn   string `json:"source_column"`
}

// MatcherConfig holds row-matching policy.
type MatcherConfig struct {
	MaxCandidates int `json:"max_candidates"`
	// RequireTargetColumn drops matches whose response lacks a target_column
	// instead of defaulting them to the evidence column.
	RequireTargetColumn bool `json:"require_target_column"`
}

// Defaults returns the configuration used when no config file is present.
func Defaults() *Config {
	return &Config{
		Provider: ProviderOllama,
		Ollama: OllamaConfig{
			BaseURL: "http://localhost:11434",
			Model:   "qwen2.5:latest",
			Timeout: 60 * time.Second,
		},
		Gemini: GeminiConfig{
			Model: "gemini-1.5-flash",
		},
		Extract: ExtractConfig{
			Tesseract:     "tesseract",
			Pdftotext:     "pdftotext",
			Pdftoppm:      "pdftoppm",
			TesseractLang: "rus+eng",
			DPI:           300,
		},
		Sheet: SheetConfig{
			EvidenceColumn: "Выявленные несоответствия",
			SourceColumn:   "Файл-источник",
		},
		Matcher: MatcherConfig{
			MaxCandidates: 50,
		},
	}
}

// LoadConfig reads the JSON config file at path and fills unset fields with
// defaults. A missing file is not an error: the default provider is used and
// a warning is logged. Environment variables override credentials.
func LoadConfig(path string, logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := Defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			logger.Warn("config.file_missing", "path", path, "provider", cfg.Provider)
		case err != nil:
			return nil, NewAppError("CONFIG_ERROR", "read config file", err)
		default:
			if err := json.Unmarshal(raw, cfg); err != nil {
				return nil, NewAppError("CONFIG_ERROR", "parse config file", err)
			}
		}
	}

	// env overrides for credentials and endpoints
	cfg.Ollama.BaseURL = getEnv("OLLAMA_BASE_URL", cfg.Ollama.BaseURL)
	cfg.Ollama.Model = getEnv("OLLAMA_MODEL", cfg.Ollama.Model)
	cfg.Gemini.APIKey = getEnv("GEMINI_API_KEY", cfg.Gemini.APIKey)
	cfg.Gemini.Model = getEnv("GEMINI_MODEL", cfg.Gemini.Model)
	cfg.Ollama.Timeout = getEnvAsDuration("OLLAMA_TIMEOUT", cfg.Ollama.Timeout)
	cfg.Extract.DPI = getEnvAsInt("EXTRACT_DPI", cfg.Extract.DPI)
	cfg.Extract.MaxPages = getEnvAsInt("EXTRACT_MAX_PAGES", cfg.Extract.MaxPages)

	if cfg.Provider == "" {
		cfg.Provider = ProviderOllama
	}
	if cfg.Matcher.MaxCandidates <= 0 {
		cfg.Matcher.MaxCandidates = 50
	}
	if cfg.Sheet.EvidenceColumn == "" {
		cfg.Sheet.EvidenceColumn = Defaults().Sheet.EvidenceColumn
	}
	if cfg.Sheet.SourceColumn == "" {
		cfg.Sheet.SourceColumn = Defaults().Sheet.SourceColumn
	}
	return cfg, nil
}

// Validate validates the loaded configuration.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOllama:
		if c.Ollama.BaseURL == "" {
			return NewAppError("CONFIG_ERROR", "ollama.base_url is required", ErrInvalidInput)
		}
		if c.Ollama.Model == "" {
			return NewAppError("CONFIG_ERROR", "ollama.model is required", ErrInvalidInput)
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return NewAppError("CONFIG_ERROR", "gemini.api_key (or GEMINI_API_KEY) is required", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", "unknown provider: "+c.Provider, ErrInvalidInput)
	}
	return nil
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
