package pipeline

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/core/extract"
	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/core/match"
	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/core/ocr"
	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/core/reference"
)

type stubReader struct {
	text string
	err  error
}

func (s *stubReader) ExtractText(ctx context.Context, doc ocr.Document) (*ocr.OCRResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &ocr.OCRResult{Text: s.text, Segments: 1}, nil
}

func (s *stubReader) GetProviderName() string { return "stub" }

type memRecorder struct {
	entries []*audit.ExtractionLog
}

func (m *memRecorder) Log(ctx context.Context, e *audit.ExtractionLog) error {
	m.entries = append(m.entries, e)
	return nil
}

func newPipeline(t *testing.T, reader TextReader) (*Pipeline, *memRecorder) {
	t.Helper()
	store := reference.NewStore(reference.NewStaticSource(nil))
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load references: %v", err)
	}
	rec := &memRecorder{}
	p := New(reader, extract.NewExtractor(extract.Options{}), match.NewMatcher(5, 80), store).WithRecorder(rec)
	return p, rec
}

func TestProcessDefaultsQueryToFirstName(t *testing.T) {
	p, rec := newPipeline(t, &stubReader{text: "Name: Kiran Kumar, DOB: 01-01-1990, Aadhaar: 1234 5678 9012"})

	res, err := p.Process(context.Background(), ocr.Document{Data: []byte("x"), Filename: "a.png"}, nil, MatchOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Query != "Kiran Kumar" {
		t.Fatalf("expected default query Kiran Kumar, got %q", res.Query)
	}
	if !reflect.DeepEqual(res.Fields.IDNumbers, []string{"1234 5678 9012"}) {
		t.Fatalf("unexpected ids %v", res.Fields.IDNumbers)
	}
	want := []match.Match{{Name: "Kiran Kumar", Score: 100}, {Name: "Kiran Kumari", Score: 92}, {Name: "Kiran Kum", Score: 82}}
	if !reflect.DeepEqual(res.Matches, want) {
		t.Fatalf("got %+v, want %+v", res.Matches, want)
	}
	if len(rec.entries) != 1 || rec.entries[0].Status != audit.StatusSuccess || rec.entries[0].ID != res.ID {
		t.Fatalf("unexpected audit entries %+v", rec.entries)
	}
}

func TestProcessExplicitQueryOverridesDefault(t *testing.T) {
	p, _ := newPipeline(t, &stubReader{text: "Name: Kiran Kumar"})

	q := "Riya Singh"
	threshold := 100
	res, err := p.Process(context.Background(), ocr.Document{Filename: "a.png"}, &q, MatchOptions{Threshold: &threshold})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Query != "Riya Singh" || len(res.Matches) != 1 || res.Matches[0].Name != "Riya Singh" {
		t.Fatalf("unexpected result %+v", res)
	}

	empty := ""
	res, err = p.Process(context.Background(), ocr.Document{Filename: "a.png"}, &empty, MatchOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Query != "" || len(res.Matches) != 0 || res.Matches == nil {
		t.Fatalf("empty query should give an empty non-nil match list, got %+v", res.Matches)
	}
}

func TestProcessNoFieldsIsNotAnError(t *testing.T) {
	p, _ := newPipeline(t, &stubReader{text: "illegible smudge"})

	res, err := p.Process(context.Background(), ocr.Document{Filename: "a.png"}, nil, MatchOptions{})
	if err != nil {
		t.Fatalf("no data must not be an error: %v", err)
	}
	if !res.Fields.Empty() || len(res.Matches) != 0 {
		t.Fatalf("expected empty fields and matches, got %+v", res)
	}
}

func TestProcessNoNameZeroThresholdMatchesNothing(t *testing.T) {
	p, rec := newPipeline(t, &stubReader{text: "DOB: 01-01-1990"})

	threshold := 0
	res, err := p.Process(context.Background(), ocr.Document{Filename: "a.png"}, nil, MatchOptions{Threshold: &threshold})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Query != "" || res.Matches == nil || len(res.Matches) != 0 {
		t.Fatalf("expected no matches without a name, got %+v", res.Matches)
	}
	if got := p.Match([]string{""}, MatchOptions{Threshold: &threshold}); len(got) != 0 {
		t.Fatalf("empty query matched %+v", got)
	}
	if len(rec.entries) != 1 || string(rec.entries[0].Matches) != "[]" {
		t.Fatalf("unexpected audit entries %+v", rec.entries)
	}
}

func TestProcessPropagatesOCRErrors(t *testing.T) {
	tests := []struct {
		err    error
		status string
	}{
		{fmt.Errorf("%w: connection refused", ocr.ErrTransportFailure), audit.StatusTransportFailure},
		{fmt.Errorf("%w: E301", ocr.ErrProcessingFailed), audit.StatusProcessingFailed},
		{fmt.Errorf("%w: a.gif", ocr.ErrUnsupportedType), audit.StatusRejected},
	}

	for _, tt := range tests {
		p, rec := newPipeline(t, &stubReader{err: tt.err})
		res, err := p.Process(context.Background(), ocr.Document{Filename: "a.png"}, nil, MatchOptions{})
		if res != nil {
			t.Fatalf("expected nil result, got %+v", res)
		}
		if !errors.Is(err, tt.err) {
			t.Fatalf("expected %v, got %v", tt.err, err)
		}
		if len(rec.entries) != 1 || rec.entries[0].Status != tt.status {
			t.Fatalf("expected %s audit entry, got %+v", tt.status, rec.entries)
		}
	}
}

func TestMatchUsesOverrides(t *testing.T) {
	p, _ := newPipeline(t, &stubReader{})

	topN := 1
	got := p.Match([]string{"Kiran Kumar"}, MatchOptions{TopN: &topN})
	if len(got) != 1 || got[0].Name != "Kiran Kumar" {
		t.Fatalf("unexpected matches %+v", got)
	}
	if p.References().Len() != 33 || p.ProviderName() != "stub" {
		t.Fatalf("unexpected pipeline state")
	}
}
