package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("OCR_SPACE_API_KEY", "test-key")

	cfg := LoadConfig()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.OCRProvider != "ocrspace" || cfg.OCRLanguage != "eng" {
		t.Fatalf("unexpected OCR defaults: %q %q", cfg.OCRProvider, cfg.OCRLanguage)
	}
	if cfg.OCRTimeout != 30*time.Second {
		t.Fatalf("expected 30s timeout, got %s", cfg.OCRTimeout)
	}
	if cfg.MatchTopN != 5 || cfg.MatchThreshold != 80 {
		t.Fatalf("unexpected match defaults: %d %d", cfg.MatchTopN, cfg.MatchThreshold)
	}
	if cfg.StrictDateSeparators {
		t.Fatalf("strict date separators should be off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("OCR_PROVIDER", "Tesseract")
	t.Setenv("MATCH_TOP_N", "3")
	t.Setenv("MATCH_THRESHOLD", "not-a-number")
	t.Setenv("OCR_TIMEOUT", "5s")
	t.Setenv("EXTRACT_STRICT_DATE_SEPARATORS", "true")
	t.Setenv("REFERENCE_WATCH", "1")

	cfg := LoadConfig()
	if cfg.OCRProvider != "tesseract" {
		t.Fatalf("provider should be lowercased, got %q", cfg.OCRProvider)
	}
	if cfg.MatchTopN != 3 {
		t.Fatalf("expected top-n 3, got %d", cfg.MatchTopN)
	}
	if cfg.MatchThreshold != 80 {
		t.Fatalf("invalid threshold should fall back to 80, got %d", cfg.MatchThreshold)
	}
	if cfg.OCRTimeout != 5*time.Second {
		t.Fatalf("expected 5s, got %s", cfg.OCRTimeout)
	}
	if !cfg.StrictDateSeparators {
		t.Fatalf("expected strict date separators")
	}
	if !cfg.ReferenceWatch {
		t.Fatalf("expected reference watch to be on")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			OCRProvider:     "ocrspace",
			OCRSpaceAPIKey:  "k",
			OCRTimeout:      time.Second,
			MatchTopN:       5,
			MatchThreshold:  80,
			ReferenceSource: "static",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing ocrspace key", func(c *Config) { c.OCRSpaceAPIKey = "" }, true},
		{"unknown provider", func(c *Config) { c.OCRProvider = "abbyy" }, true},
		{"tesseract needs no key", func(c *Config) { c.OCRProvider = "tesseract"; c.OCRSpaceAPIKey = "" }, false},
		{"openai without key", func(c *Config) { c.OCRProvider = "openai" }, true},
		{"threshold too high", func(c *Config) { c.MatchThreshold = 101 }, true},
		{"zero top-n", func(c *Config) { c.MatchTopN = 0 }, true},
		{"file source without file", func(c *Config) { c.ReferenceSource = "file" }, true},
		{"postgres source without db", func(c *Config) { c.ReferenceSource = "postgres" }, true},
		{"audit without db", func(c *Config) { c.AuditEnabled = true }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}
