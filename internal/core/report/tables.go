package report

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/core/match"
)

// MatchTable lists ranked matches for the given queries.
func MatchTable(queries []string, matches []match.Match, at time.Time) *Table {
	rows := make([][]interface{}, 0, len(matches))
	for i, m := range matches {
		rows = append(rows, []interface{}{i + 1, m.Name, m.Score})
	}
	return &Table{
		Title:       "Name matches",
		Subtitle:    "Query: " + strings.Join(queries, ", "),
		GeneratedAt: at,
		Headers:     []string{"Rank", "Name", "Score"},
		Rows:        rows,
		Widths:      []float64{8, 32, 10},
	}
}

// ExtractionTable lists extraction log entries, one per row, with the best
// match of each run.
func ExtractionTable(logs []audit.ExtractionLog, at time.Time) *Table {
	rows := make([][]interface{}, 0, len(logs))
	for _, l := range logs {
		best, score := bestMatch(l)
		rows = append(rows, []interface{}{
			l.CreatedAt.Format(time.RFC3339),
			l.Filename,
			l.Provider,
			l.Status,
			l.Query,
			best,
			score,
			l.Duration,
		})
	}
	return &Table{
		Title:       "Extractions",
		GeneratedAt: at,
		Landscape:   true,
		Headers:     []string{"Time", "File", "Provider", "Status", "Query", "Best match", "Score", "Duration (ms)"},
		Rows:        rows,
		Widths:      []float64{22, 24, 18, 18, 24, 24, 8, 14},
	}
}

func bestMatch(l audit.ExtractionLog) (string, interface{}) {
	if len(l.Matches) == 0 {
		return "", ""
	}
	var matches []match.Match
	if err := json.Unmarshal(l.Matches, &matches); err != nil || len(matches) == 0 {
		return "", ""
	}
	return matches[0].Name, matches[0].Score
}
