package ocr

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newOCRSpaceTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *OCRSpaceProvider) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	p := NewOCRSpaceProvider(OCRSpaceConfig{APIKey: "secret", URL: srv.URL, Timeout: 2 * time.Second})
	return srv, p
}

func TestOCRSpaceSendsWireContract(t *testing.T) {
	_, p := newOCRSpaceTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("apikey"); got != "secret" {
			t.Errorf("apikey = %q", got)
		}
		if got := r.FormValue("language"); got != "eng" {
			t.Errorf("language = %q", got)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("file field: %v", err)
		} else {
			defer f.Close()
			if hdr.Filename != "card.png" {
				t.Errorf("filename = %q", hdr.Filename)
			}
			if ct := hdr.Header.Get("Content-Type"); ct != "image/png" {
				t.Errorf("content type = %q", ct)
			}
			data, _ := io.ReadAll(f)
			if string(data) != "PNGDATA" {
				t.Errorf("file data = %q", data)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ParsedResults":[{"ParsedText":"Name: Priya Sharma","FileParseExitCode":1}],"OCRExitCode":1,"IsErroredOnProcessing":false}`)
	})

	res, err := p.ExtractText(context.Background(), Document{Data: []byte("PNGDATA"), Filename: "card.png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "Name: Priya Sharma" || res.Segments != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestOCRSpaceReadsOnlyFirstSegment(t *testing.T) {
	_, p := newOCRSpaceTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"ParsedResults":[{"ParsedText":"page one"},{"ParsedText":"page two"}],"OCRExitCode":1,"IsErroredOnProcessing":false}`)
	})

	res, err := p.ExtractText(context.Background(), Document{Data: []byte("%PDF"), Filename: "scan.pdf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "page one" {
		t.Fatalf("expected first segment only, got %q", res.Text)
	}
	if res.Segments != 2 {
		t.Fatalf("expected 2 segments reported, got %d", res.Segments)
	}
}

func TestOCRSpaceErrorKinds(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"processing error list", http.StatusOK, `{"IsErroredOnProcessing":true,"ErrorMessage":["E301: image too large"]}`, ErrProcessingFailed},
		{"processing error string", http.StatusOK, `{"IsErroredOnProcessing":true,"ErrorMessage":"bad image"}`, ErrProcessingFailed},
		{"non json body", http.StatusOK, `<html>gateway</html>`, ErrTransportFailure},
		{"server error", http.StatusInternalServerError, `oops`, ErrTransportFailure},
		{"no parsed results", http.StatusOK, `{"IsErroredOnProcessing":false,"ParsedResults":[]}`, ErrTransportFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, p := newOCRSpaceTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			res, err := p.ExtractText(context.Background(), Document{Data: []byte("x"), Filename: "a.jpg"})
			if res != nil {
				t.Fatalf("expected no result on error, got %+v", res)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestOCRSpaceConnectionFailureIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	p := NewOCRSpaceProvider(OCRSpaceConfig{APIKey: "k", URL: url, Timeout: time.Second})
	res, err := p.ExtractText(context.Background(), Document{Data: []byte("x"), Filename: "a.jpg"})
	if res != nil {
		t.Fatalf("connection failure must not produce a text result, got %+v", res)
	}
	if !errors.Is(err, ErrTransportFailure) {
		t.Fatalf("expected transport failure, got %v", err)
	}
}

func TestOCRSpaceTimeoutIsTransport(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	p := NewOCRSpaceProvider(OCRSpaceConfig{APIKey: "k", URL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := p.ExtractText(context.Background(), Document{Data: []byte("x"), Filename: "a.jpg"})
	if !errors.Is(err, ErrTransportFailure) {
		t.Fatalf("expected transport failure on timeout, got %v", err)
	}
}
