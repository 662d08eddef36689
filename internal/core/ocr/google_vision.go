package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const DefaultGoogleVisionURL = "https://vision.googleapis.com/v1/images:annotate"

// GoogleVisionProvider implements OCR using Google Cloud Vision API
type GoogleVisionProvider struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewGoogleVisionProvider creates a new Google Vision OCR provider. An empty
// endpoint means the public API.
func NewGoogleVisionProvider(apiKey, endpoint string, timeout time.Duration) *GoogleVisionProvider {
	if endpoint == "" {
		endpoint = DefaultGoogleVisionURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &GoogleVisionProvider{
		apiKey:   apiKey,
		endpoint: endpoint,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetProviderName returns the provider name
func (p *GoogleVisionProvider) GetProviderName() string {
	return "Google Cloud Vision"
}

type visionRequest struct {
	Requests []visionRequestItem `json:"requests"`
}

type visionRequestItem struct {
	Image    visionImage     `json:"image"`
	Features []visionFeature `json:"features"`
}

type visionImage struct {
	Content string `json:"content"` // base64 encoded image
}

type visionFeature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults,omitempty"`
}

type visionResponse struct {
	Responses []struct {
		TextAnnotations []struct {
			Description string  `json:"description"`
			Score       float64 `json:"score,omitempty"`
		} `json:"textAnnotations"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error,omitempty"`
	} `json:"responses"`
}

// ExtractText extracts text from image using Google Cloud Vision API
func (p *GoogleVisionProvider) ExtractText(ctx context.Context, doc Document) (*OCRResult, error) {
	reqBody := visionRequest{
		Requests: []visionRequestItem{
			{
				Image: visionImage{
					Content: base64.StdEncoding.EncodeToString(doc.Data),
				},
				Features: []visionFeature{
					{Type: "TEXT_DETECTION", MaxResults: 1},
				},
			},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := p.endpoint + "?key=" + url.QueryEscape(p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrTransportFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: google vision request failed: %v", ErrTransportFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrTransportFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: google vision status %d: %s", ErrTransportFailure, resp.StatusCode, truncate(string(body), 256))
	}

	var visionResp visionResponse
	if err := json.Unmarshal(body, &visionResp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", ErrTransportFailure, err)
	}

	if len(visionResp.Responses) == 0 {
		return nil, fmt.Errorf("%w: no response from Google Vision", ErrTransportFailure)
	}

	first := visionResp.Responses[0]
	if first.Error != nil {
		return nil, fmt.Errorf("%w: google vision: %s", ErrProcessingFailed, first.Error.Message)
	}

	// No annotations means the image holds no text, not a failure.
	if len(first.TextAnnotations) == 0 {
		return &OCRResult{Segments: 0}, nil
	}

	// First annotation contains the full text
	return &OCRResult{
		Text:       first.TextAnnotations[0].Description,
		Confidence: first.TextAnnotations[0].Score,
		Segments:   1,
	}, nil
}
