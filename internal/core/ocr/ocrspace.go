package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

const (
	DefaultOCRSpaceURL = "https://api.ocr.space/parse/image"
	DefaultLanguage    = "eng"
	DefaultTimeout     = 30 * time.Second
)

// OCRSpaceProvider implements OCR using OCR.space API
type OCRSpaceProvider struct {
	apiKey   string
	url      string
	language string
	client   *http.Client
}

// OCRSpaceConfig configures an OCRSpaceProvider. Zero values fall back to
// the public endpoint, "eng" and a 30s timeout.
type OCRSpaceConfig struct {
	APIKey   string
	URL      string
	Language string
	Timeout  time.Duration
}

// NewOCRSpaceProvider creates a new OCR.space provider
func NewOCRSpaceProvider(cfg OCRSpaceConfig) *OCRSpaceProvider {
	if cfg.URL == "" {
		cfg.URL = DefaultOCRSpaceURL
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &OCRSpaceProvider{
		apiKey:   cfg.APIKey,
		url:      cfg.URL,
		language: cfg.Language,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// GetProviderName returns the provider name
func (p *OCRSpaceProvider) GetProviderName() string {
	return "OCR.space"
}

// OCR.space API response structure
type ocrSpaceResponse struct {
	ParsedResults []struct {
		ParsedText        string `json:"ParsedText"`
		FileParseExitCode int    `json:"FileParseExitCode"`
		ErrorMessage      string `json:"ErrorMessage"`
	} `json:"ParsedResults"`
	OCRExitCode           int             `json:"OCRExitCode"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage,omitempty"`
}

// errorMessages flattens ErrorMessage, which the API sends either as a
// string or as a list of strings.
func (r *ocrSpaceResponse) errorMessages() string {
	if len(r.ErrorMessage) == 0 {
		return ""
	}
	var list []string
	if err := json.Unmarshal(r.ErrorMessage, &list); err == nil {
		return strings.Join(list, "; ")
	}
	var single string
	if err := json.Unmarshal(r.ErrorMessage, &single); err == nil {
		return single
	}
	return string(r.ErrorMessage)
}

// ExtractText extracts text from the document using OCR.space API
func (p *OCRSpaceProvider) ExtractText(ctx context.Context, doc Document) (*OCRResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	// file part carries image/<ext>, CreateFormFile would force octet-stream
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(doc.Filename)))
	header.Set("Content-Type", doc.MimeType())
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(doc.Data); err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}

	if err := writer.WriteField("apikey", p.apiKey); err != nil {
		return nil, fmt.Errorf("failed to write api key: %w", err)
	}
	if err := writer.WriteField("language", p.language); err != nil {
		return nil, fmt.Errorf("failed to write language: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, &buf)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrTransportFailure, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: ocrspace request failed: %v", ErrTransportFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrTransportFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: ocrspace status %d: %s", ErrTransportFailure, resp.StatusCode, truncate(string(body), 256))
	}

	var ocrResp ocrSpaceResponse
	if err := json.Unmarshal(body, &ocrResp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", ErrTransportFailure, err)
	}

	if ocrResp.IsErroredOnProcessing {
		errMsg := ocrResp.errorMessages()
		if errMsg == "" {
			errMsg = "unknown error"
		}
		return nil, fmt.Errorf("%w: %s", ErrProcessingFailed, errMsg)
	}

	if len(ocrResp.ParsedResults) == 0 {
		return nil, fmt.Errorf("%w: response has no parsed results", ErrTransportFailure)
	}

	// Only the first segment is read; multi-page PDFs lose later pages.
	return &OCRResult{
		Text:       ocrResp.ParsedResults[0].ParsedText,
		Confidence: 0,
		Segments:   len(ocrResp.ParsedResults),
	}, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
