// Package tabular reads the semi-structured delimited text the Tridium
// exports use. It tolerates byte-order marks, mixed line endings and
// quoted fields, and never fails: unreadable input degrades to an empty
// document the caller treats as "no data".
package tabular

import (
	"strings"

	"github.com/tridium-ingest/internal/models"
)

// Parse splits content into a header row and data rows. The first
// non-empty line is the header; every field is trimmed. Rows whose arity
// differs from the header are preserved as-is, because several export
// formats intentionally carry short or long rows.
func Parse(content string) models.TabularDocument {
	content = strings.TrimPrefix(content, "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return models.TabularDocument{Headers: []string{}, Rows: [][]string{}}
	}

	delim := sniffDelimiter(lines[0])

	doc := models.TabularDocument{
		Headers: splitLine(lines[0], delim),
		Rows:    make([][]string, 0, len(lines)-1),
	}
	for _, line := range lines[1:] {
		doc.Rows = append(doc.Rows, splitLine(line, delim))
	}
	return doc
}

// sniffDelimiter picks whichever of comma and tab splits the header
// into more fields. Tridium exports are comma-separated; tab is kept
// for hand-edited files.
func sniffDelimiter(header string) rune {
	if strings.Count(header, "\t") > strings.Count(header, ",") {
		return '\t'
	}
	return ','
}

// splitLine splits one line on the delimiter, honoring double quotes
// and treating braces/brackets as grouping so status sets like
// "{down,alarm}" survive as a single field.
func splitLine(line string, delim rune) []string {
	var (
		fields  []string
		current strings.Builder
		quoted  bool
		depth   int
	)

	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
		case !quoted && (r == '{' || r == '['):
			depth++
			current.WriteRune(r)
		case !quoted && (r == '}' || r == ']'):
			if depth > 0 {
				depth--
			}
			current.WriteRune(r)
		case !quoted && depth == 0 && r == delim:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))

	return fields
}
