package ocr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Service wraps the OCR provider
type Service struct {
	provider     Provider
	maxDimension int
}

// NewService creates a new OCR service with the given provider. maxDimension
// enables downscaling of large jpg/png uploads; 0 turns it off.
func NewService(provider Provider, maxDimension int) *Service {
	return &Service{provider: provider, maxDimension: maxDimension}
}

// ExtractText validates the document type and runs the configured provider.
// Provider errors are returned unchanged so callers can tell transport
// failures from processing failures.
func (s *Service) ExtractText(ctx context.Context, doc Document) (*OCRResult, error) {
	if !doc.Supported() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, doc.Filename)
	}

	originalSize := len(doc.Data)
	if s.maxDimension > 0 {
		doc = Downscale(doc, s.maxDimension)
	}

	start := time.Now()
	result, err := s.provider.ExtractText(ctx, doc)
	elapsed := time.Since(start)

	if err != nil {
		event := log.Error().Err(err)
		if errors.Is(err, ErrProcessingFailed) {
			event = log.Warn().Err(err)
		}
		event.
			Str("provider", s.provider.GetProviderName()).
			Str("filename", doc.Filename).
			Int("size", len(doc.Data)).
			Dur("duration", elapsed).
			Msg("ocr extraction failed")
		return nil, err
	}

	log.Info().
		Str("provider", s.provider.GetProviderName()).
		Str("filename", doc.Filename).
		Int("original_size", originalSize).
		Int("size", len(doc.Data)).
		Int("segments", result.Segments).
		Int("text_length", len(result.Text)).
		Dur("duration", elapsed).
		Msg("ocr extraction done")

	return result, nil
}

// GetProviderName returns the name of the current provider
func (s *Service) GetProviderName() string {
	return s.provider.GetProviderName()
}
