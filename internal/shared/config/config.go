package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	// OCR
	OCRProvider        string
	OCRSpaceAPIKey     string
	OCRSpaceURL        string
	OCRLanguage        string
	OCRTimeout         time.Duration
	OCRMaxDimension    int
	GoogleVisionAPIKey string
	TesseractLanguage  string
	OpenAIKey          string
	OpenAIModel        string

	// Extraction & matching
	StrictDateSeparators bool
	MatchTopN            int
	MatchThreshold       int

	// Reference names
	ReferenceSource      string
	ReferenceFile        string
	ReferenceSQLitePath  string
	ReferenceRefreshCron string
	ReferenceWatch       bool

	DatabaseURL   string
	AuditEnabled  bool
	MaxUploadSize int64
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, using system environment variables")
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		OCRProvider:        strings.ToLower(getEnv("OCR_PROVIDER", "ocrspace")),
		OCRSpaceAPIKey:     os.Getenv("OCR_SPACE_API_KEY"),
		OCRSpaceURL:        getEnv("OCR_SPACE_URL", "https://api.ocr.space/parse/image"),
		OCRLanguage:        getEnv("OCR_LANGUAGE", "eng"),
		OCRTimeout:         getEnvAsDuration("OCR_TIMEOUT", 30*time.Second),
		OCRMaxDimension:    getEnvAsInt("OCR_MAX_DIMENSION", 0),
		GoogleVisionAPIKey: os.Getenv("GOOGLE_VISION_API_KEY"),
		TesseractLanguage:  getEnv("TESSERACT_LANGUAGE", "eng"),
		OpenAIKey:          os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		StrictDateSeparators: getEnvAsBool("EXTRACT_STRICT_DATE_SEPARATORS", false),
		MatchTopN:            getEnvAsInt("MATCH_TOP_N", 5),
		MatchThreshold:       getEnvAsInt("MATCH_THRESHOLD", 80),

		ReferenceSource:      strings.ToLower(getEnv("REFERENCE_SOURCE", "static")),
		ReferenceFile:        os.Getenv("REFERENCE_FILE"),
		ReferenceSQLitePath:  getEnv("REFERENCE_SQLITE_PATH", "./references.db"),
		ReferenceRefreshCron: os.Getenv("REFERENCE_REFRESH_CRON"),
		ReferenceWatch:       getEnvAsBool("REFERENCE_WATCH", false),

		DatabaseURL:   os.Getenv("DATABASE_URL"),
		AuditEnabled:  getEnvAsBool("AUDIT_ENABLED", false),
		MaxUploadSize: int64(getEnvAsInt("MAX_UPLOAD_SIZE", 10*1024*1024)),
	}

	return cfg
}

// Validate checks that the selected providers have what they need.
func (c *Config) Validate() error {
	switch c.OCRProvider {
	case "ocrspace":
		if c.OCRSpaceAPIKey == "" {
			return fmt.Errorf("OCR_SPACE_API_KEY is required for OCR_PROVIDER=ocrspace")
		}
	case "googlevision":
		if c.GoogleVisionAPIKey == "" {
			return fmt.Errorf("GOOGLE_VISION_API_KEY is required for OCR_PROVIDER=googlevision")
		}
	case "openai":
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for OCR_PROVIDER=openai")
		}
	case "tesseract":
	default:
		return fmt.Errorf("unknown OCR_PROVIDER: %s", c.OCRProvider)
	}

	if c.MatchThreshold < 0 || c.MatchThreshold > 100 {
		return fmt.Errorf("MATCH_THRESHOLD must be within 0..100, got %d", c.MatchThreshold)
	}
	if c.MatchTopN <= 0 {
		return fmt.Errorf("MATCH_TOP_N must be positive, got %d", c.MatchTopN)
	}
	if c.OCRTimeout <= 0 {
		return fmt.Errorf("OCR_TIMEOUT must be positive")
	}

	switch c.ReferenceSource {
	case "static", "sqlite":
	case "file":
		if c.ReferenceFile == "" {
			return fmt.Errorf("REFERENCE_FILE is required for REFERENCE_SOURCE=file")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for REFERENCE_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("unknown REFERENCE_SOURCE: %s", c.ReferenceSource)
	}

	if c.AuditEnabled && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required when AUDIT_ENABLED=true")
	}

	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

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
		log.Warn().Str("key", key).Str("value", value).Msg("invalid integer, using default")
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Warn().Str("key", key).Str("value", value).Msg("invalid boolean, using default")
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Warn().Str("key", key).Str("value", value).Msg("invalid duration, using default")
	}
	return defaultValue
}
