// Package pipeline runs a document through OCR, field extraction and name
// matching, in that order, with no feedback between the steps.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/core/extract"
	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/core/match"
	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/core/ocr"
	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/core/reference"
)

// TextReader is the OCR step.
type TextReader interface {
	ExtractText(ctx context.Context, doc ocr.Document) (*ocr.OCRResult, error)
	GetProviderName() string
}

// Recorder stores an extraction log entry.
type Recorder interface {
	Log(ctx context.Context, entry *audit.ExtractionLog) error
}

// MatchOptions overrides the matcher defaults for one call. Nil fields keep
// the defaults.
type MatchOptions struct {
	TopN      *int
	Threshold *int
}

// Result is everything one document produced.
type Result struct {
	ID       uuid.UUID               `json:"id"`
	Filename string                  `json:"filename"`
	Provider string                  `json:"provider"`
	Text     string                  `json:"text"`
	Segments int                     `json:"segments"`
	Fields   extract.ExtractedFields `json:"fields"`
	Query    string                  `json:"query"`
	Matches  []match.Match           `json:"matches"`
	Duration time.Duration           `json:"duration_ns"`
}

// Pipeline wires the three steps together.
type Pipeline struct {
	reader     TextReader
	extractor  *extract.Extractor
	matcher    *match.Matcher
	references *reference.Store
	recorder   Recorder
}

func New(reader TextReader, extractor *extract.Extractor, matcher *match.Matcher, references *reference.Store) *Pipeline {
	return &Pipeline{
		reader:     reader,
		extractor:  extractor,
		matcher:    matcher,
		references: references,
	}
}

// WithRecorder enables extraction logging.
func (p *Pipeline) WithRecorder(r Recorder) *Pipeline {
	p.recorder = r
	return p
}

// Process runs OCR on doc, extracts fields from the text and matches the
// query against the reference names. A nil query means "use the first
// extracted name"; a pointer to "" is an explicit empty query. OCR errors
// are returned as they are.
func (p *Pipeline) Process(ctx context.Context, doc ocr.Document, query *string, opts MatchOptions) (*Result, error) {
	start := time.Now()
	id := uuid.New()

	ocrResult, err := p.reader.ExtractText(ctx, doc)
	if err != nil {
		p.record(ctx, &audit.ExtractionLog{
			ID:       id,
			Filename: doc.Filename,
			Size:     len(doc.Data),
			Provider: p.reader.GetProviderName(),
			Status:   statusFor(err),
			Error:    err.Error(),
			Duration: time.Since(start).Milliseconds(),
		})
		return nil, err
	}

	fields := p.Extract(ocrResult.Text)

	q := fields.FirstName()
	if query != nil {
		q = *query
	}
	matches := p.Match([]string{q}, opts)

	result := &Result{
		ID:       id,
		Filename: doc.Filename,
		Provider: p.reader.GetProviderName(),
		Text:     ocrResult.Text,
		Segments: ocrResult.Segments,
		Fields:   fields,
		Query:    q,
		Matches:  matches,
		Duration: time.Since(start),
	}

	log.Info().
		Str("id", id.String()).
		Int("names", len(fields.Names)).
		Int("id_numbers", len(fields.IDNumbers)).
		Int("dates", len(fields.Dates)).
		Int("matches", len(matches)).
		Dur("duration", result.Duration).
		Msg("document processed")

	p.record(ctx, &audit.ExtractionLog{
		ID:       id,
		Filename: doc.Filename,
		Size:     len(doc.Data),
		Provider: result.Provider,
		Status:   audit.StatusSuccess,
		Query:    q,
		Fields:   audit.ToJSON(fields),
		Matches:  audit.ToJSON(matches),
		Duration: result.Duration.Milliseconds(),
	})

	return result, nil
}

// Extract applies the field rules to text.
func (p *Pipeline) Extract(text string) extract.ExtractedFields {
	return p.extractor.Extract(text)
}

// Match ranks the current reference names against queries.
func (p *Pipeline) Match(queries []string, opts MatchOptions) []match.Match {
	topN, threshold := p.matcher.TopN(), p.matcher.Threshold()
	if opts.TopN != nil {
		topN = *opts.TopN
	}
	if opts.Threshold != nil {
		threshold = *opts.Threshold
	}
	return p.matcher.MatchWith(queries, p.references.Current().Names(), topN, threshold)
}

// References returns the reference snapshot in use.
func (p *Pipeline) References() *reference.Set {
	return p.references.Current()
}

func (p *Pipeline) ProviderName() string {
	return p.reader.GetProviderName()
}

func (p *Pipeline) record(ctx context.Context, entry *audit.ExtractionLog) {
	if p.recorder == nil {
		return
	}
	if err := p.recorder.Log(ctx, entry); err != nil {
		log.Warn().Err(err).Str("id", entry.ID.String()).Msg("failed to record extraction")
	}
}

func statusFor(err error) string {
	switch {
	case errors.Is(err, ocr.ErrProcessingFailed):
		return audit.StatusProcessingFailed
	case errors.Is(err, ocr.ErrUnsupportedType):
		return audit.StatusRejected
	default:
		return audit.StatusTransportFailure
	}
}
