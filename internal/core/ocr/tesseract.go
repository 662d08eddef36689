package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner lets tests stub the tesseract binary.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	return out.Bytes(), errb.Bytes(), err
}

// TesseractProvider implements OCR using Tesseract OCR engine
type TesseractProvider struct {
	tesseractPath string
	language      string
	runner        Runner
}

// NewTesseractProvider creates a new Tesseract OCR provider.
// language can be "eng", "hin" or "eng+hin".
func NewTesseractProvider(language string) *TesseractProvider {
	if language == "" {
		language = DefaultLanguage
	}

	return &TesseractProvider{
		tesseractPath: "tesseract", // Assumes tesseract is in PATH
		language:      language,
		runner:        execRunner{},
	}
}

// WithRunner swaps the command runner.
func (p *TesseractProvider) WithRunner(r Runner) *TesseractProvider {
	p.runner = r
	return p
}

// ExtractText writes the document to a temp file and runs
// `tesseract <file> stdout -l <lang>`.
func (p *TesseractProvider) ExtractText(ctx context.Context, doc Document) (*OCRResult, error) {
	if doc.Ext() == "pdf" {
		return nil, fmt.Errorf("%w: tesseract cannot read pdf input", ErrUnsupportedType)
	}

	tmp, err := os.CreateTemp("", "ocr_image_*."+doc.Ext())
	if err != nil {
		return nil, fmt.Errorf("failed to create temp image: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(doc.Data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp image: %w", err)
	}

	out, errb, err := p.runner.Run(ctx, p.tesseractPath, tmp.Name(), "stdout", "-l", p.language)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: tesseract: %v", ErrTransportFailure, ctx.Err())
		}
		return nil, fmt.Errorf("%w: tesseract: %v: %s", ErrProcessingFailed, err, truncate(string(errb), 512))
	}

	return &OCRResult{
		Text:     strings.TrimSpace(string(out)),
		Segments: 1,
	}, nil
}

// GetProviderName returns the name of the provider
func (p *TesseractProvider) GetProviderName() string {
	return "Tesseract OCR"
}
