package reference

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Source loads reference names from somewhere.
type Source interface {
	Load(ctx context.Context) ([]string, error)
	GetSourceName() string
}

// StaticSource serves a fixed list.
type StaticSource struct {
	names []string
}

// NewStaticSource returns a source for names, or DefaultNames when empty.
func NewStaticSource(names []string) *StaticSource {
	if len(names) == 0 {
		names = DefaultNames
	}
	return &StaticSource{names: names}
}

func (s *StaticSource) Load(ctx context.Context) ([]string, error) {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out, nil
}

func (s *StaticSource) GetSourceName() string { return "static" }

// FileSource reads names from .txt (one per line), .csv (first column) or
// .xlsx (first column of the first sheet). Lines starting with # in text
// files are comments.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) GetSourceName() string { return "file:" + s.path }

func (s *FileSource) Load(ctx context.Context) ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".csv":
		return readCSV(data)
	case ".xlsx":
		return readXLSX(data)
	case ".txt", "":
		return readLines(data)
	default:
		return nil, fmt.Errorf("unsupported reference file type: %s", filepath.Ext(s.path))
	}
}

func readLines(data []byte) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan reference file: %w", err)
	}
	return names, nil
}

func readCSV(data []byte) ([]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var names []string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse reference csv: %w", err)
		}
		if len(rec) == 0 {
			continue
		}
		names = append(names, rec[0])
	}
	return dropHeader(names), nil
}

func readXLSX(data []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open reference workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	var names []string
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		names = append(names, row[0])
	}
	return dropHeader(names), nil
}

// dropHeader removes a leading "name" column header.
func dropHeader(names []string) []string {
	if len(names) > 0 && strings.EqualFold(strings.TrimSpace(names[0]), "name") {
		return names[1:]
	}
	return names
}
