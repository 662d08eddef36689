// Package extract pulls candidate names, ID numbers and dates out of raw OCR
// text with a fixed set of pattern rules.
//
// The rules are heuristics. Lowercase or hyphenated names are missed and any
// capitalised phrase after a "Name:" label is accepted. Nothing is
// normalised, deduplicated or validated against a calendar.
package extract

import "regexp"

// space matches every rune unicode.IsSpace accepts plus U+001C..U+001F.
// RE2's \s is ASCII only.
const space = `[\t-\r\x{1c}-\x{1f}\x{85}\p{Z}]`

var (
	namePattern = regexp.MustCompile(`(?:Name:` + space + `*|^)([A-Z][a-z]+(?:` + space + `+[A-Z][a-z]+)*)`)
	idPattern   = regexp.MustCompile(`\b\d{4}` + space + `?\d{4}` + space + `?\d{4}\b`)

	// Separators may differ within one date ("01-01/1990").
	datePattern = regexp.MustCompile(`\b(?:\d{2}[-/]\d{2}[-/]\d{4}|\d{4}[-/]\d{2}[-/]\d{2})\b`)
	// Both separators must be the same character.
	strictDatePattern = regexp.MustCompile(`\b(?:\d{2}-\d{2}-\d{4}|\d{2}/\d{2}/\d{4}|\d{4}-\d{2}-\d{2}|\d{4}/\d{2}/\d{2})\b`)
)

// ExtractedFields holds the candidates found in one OCR text, in order of
// appearance. The slices are never nil.
type ExtractedFields struct {
	Names     []string `json:"names"`
	IDNumbers []string `json:"id_numbers"`
	Dates     []string `json:"dates"`
}

// Empty reports whether no rule matched anything.
func (f ExtractedFields) Empty() bool {
	return len(f.Names) == 0 && len(f.IDNumbers) == 0 && len(f.Dates) == 0
}

// FirstName returns the first candidate name, or "" when there is none.
func (f ExtractedFields) FirstName() string {
	if len(f.Names) == 0 {
		return ""
	}
	return f.Names[0]
}

// Options tune the extraction rules.
type Options struct {
	// StrictDateSeparators rejects dates mixing "-" and "/".
	StrictDateSeparators bool
}

// Extractor applies the pattern rules. The zero value uses default options.
type Extractor struct {
	opts Options
}

func NewExtractor(opts Options) *Extractor {
	return &Extractor{opts: opts}
}

// Extract runs every rule over text. It has no side effects and always
// returns the same lists for the same text.
func (e *Extractor) Extract(text string) ExtractedFields {
	dates := datePattern
	if e != nil && e.opts.StrictDateSeparators {
		dates = strictDatePattern
	}

	return ExtractedFields{
		Names:     findSubmatches(namePattern, text, 1),
		IDNumbers: findAll(idPattern, text),
		Dates:     findAll(dates, text),
	}
}

// ExtractFields is Extract with default options.
func ExtractFields(text string) ExtractedFields {
	return (*Extractor)(nil).Extract(text)
}

func findAll(re *regexp.Regexp, text string) []string {
	matches := re.FindAllString(text, -1)
	if matches == nil {
		return []string{}
	}
	return matches
}

func findSubmatches(re *regexp.Regexp, text string, group int) []string {
	out := []string{}
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if len(m) > group {
			out = append(out, m[group])
		}
	}
	return out
}
