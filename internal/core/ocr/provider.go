package ocr

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
)

// Error kinds surfaced by every provider. Callers check them with errors.Is.
var (
	// ErrTransportFailure covers connection errors, timeouts, non-2xx
	// statuses and responses that cannot be decoded.
	ErrTransportFailure = errors.New("ocr transport failure")
	// ErrProcessingFailed means the service answered but reported that it
	// could not process the image.
	ErrProcessingFailed = errors.New("ocr processing failed")
	// ErrUnsupportedType is returned before any network call when the
	// filename extension is not an accepted upload type.
	ErrUnsupportedType = errors.New("unsupported document type")
)

// SupportedExtensions are the upload types accepted at the boundary.
var SupportedExtensions = []string{"jpg", "jpeg", "png", "pdf"}

// Provider interface for OCR services
type Provider interface {
	// ExtractText extracts text from the document
	ExtractText(ctx context.Context, doc Document) (*OCRResult, error)

	// GetProviderName returns the provider name
	GetProviderName() string
}

// Document is an uploaded file held in memory for a single extraction call.
type Document struct {
	Data     []byte
	Filename string
}

// Ext returns the lowercase extension without the leading dot.
func (d Document) Ext() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(d.Filename), "."))
}

// MimeType is always image/<ext>, pdf included, because that is what the
// upload form field has to carry.
func (d Document) MimeType() string {
	return "image/" + d.Ext()
}

// Supported reports whether the extension is one of SupportedExtensions.
func (d Document) Supported() bool {
	ext := d.Ext()
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// OCRResult contains the extracted text and metadata
type OCRResult struct {
	Text       string  `json:"text"`       // Raw extracted text
	Confidence float64 `json:"confidence"` // OCR confidence score (0-1)
	// Segments is how many parsed results the service returned. Only the
	// first one contributes to Text.
	Segments int `json:"segments"`
}
