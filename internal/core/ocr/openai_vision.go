package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const transcribePrompt = `Transcribe every piece of text visible in this image exactly as printed.
Keep the original line breaks, capitalisation and punctuation.
Do not translate, summarise, correct or explain. Output only the text.`

// OpenAIVisionProvider reads text from images with an OpenAI vision model.
type OpenAIVisionProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIVisionProvider creates the provider. baseURL is only needed for
// proxies and tests; empty keeps the public API.
func NewOpenAIVisionProvider(apiKey, model, baseURL string, timeout time.Duration) *OpenAIVisionProvider {
	if model == "" {
		model = openai.GPT4oMini
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAIVisionProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (p *OpenAIVisionProvider) GetProviderName() string {
	return "OpenAI Vision"
}

func (p *OpenAIVisionProvider) ExtractText(ctx context.Context, doc Document) (*OCRResult, error) {
	if doc.Ext() == "pdf" {
		return nil, fmt.Errorf("%w: openai vision cannot read pdf input", ErrUnsupportedType)
	}

	mime := doc.MimeType()
	if mime == "image/jpg" {
		mime = "image/jpeg"
	}
	dataURL := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(doc.Data)

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: transcribePrompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: openai error: %v", ErrTransportFailure, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no response from OpenAI", ErrProcessingFailed)
	}

	return &OCRResult{
		Text:     strings.TrimSpace(resp.Choices[0].Message.Content),
		Segments: len(resp.Choices),
	}, nil
}
