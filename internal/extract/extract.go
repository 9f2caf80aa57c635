// Package extract turns a detected export file into typed records and an
// aggregate summary. Each format has its own extractor returning its own
// variant; the dispatcher hands back the one matching the detected format.
//
// Extraction never fails for a single bad row: unclassifiable rows are
// kept verbatim in an unclassified bucket and a warning is appended. The
// only fatal error is content that cannot be decoded as text.
package extract

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tridium-ingest/internal/models"
	"github.com/tridium-ingest/internal/tabular"
	"github.com/tridium-ingest/internal/units"
)

// ErrUnreadable is returned when the input is not decodable text.
// It is the only error extraction propagates.
var ErrUnreadable = errors.New("extract: content is not decodable text")

// Options carries the parsing knobs an extractor needs.
type Options struct {
	Rounding units.RoundingMode
}

// ParsedExport is the tagged result of one extraction. Every variant
// knows how to fold itself into the persisted dataset shape.
type ParsedExport interface {
	Format() models.FormatType
	Warnings() []string
	// Fill writes the variant's records and summary onto a dataset.
	Fill(ds *models.ImportedDataset)
}

// Extract runs the extractor matching format over content.
func Extract(format models.FormatType, content string, opts Options) (ParsedExport, error) {
	if !utf8.ValidString(content) || strings.ContainsRune(content, 0) {
		return nil, ErrUnreadable
	}

	switch format {
	case models.FormatN2:
		return ExtractN2(tabular.Parse(content)), nil
	case models.FormatBACnet:
		return ExtractBACnet(tabular.Parse(content)), nil
	case models.FormatResource:
		return ExtractResource(tabular.Parse(content), opts), nil
	case models.FormatPlatform:
		return ExtractPlatform(content), nil
	case models.FormatNetwork:
		return ExtractNetwork(tabular.Parse(content)), nil
	default:
		return ExtractUnknown(content), nil
	}
}

// UnknownExport keeps the raw lines of a file no extractor claimed.
type UnknownExport struct {
	Lines []string
	Warns []string
}

func (e *UnknownExport) Format() models.FormatType { return models.FormatUnknown }
func (e *UnknownExport) Warnings() []string        { return e.Warns }

func (e *UnknownExport) Fill(ds *models.ImportedDataset) {
	ds.Unclassified = e.Lines
	ds.Summary = models.DatasetSummary{Total: 0}
}

// ExtractUnknown retains the content as unclassified lines so nothing
// the user uploaded is silently lost.
func ExtractUnknown(content string) *UnknownExport {
	e := &UnknownExport{
		Warns: []string{"format unknown: content retained without extraction"},
	}
	for _, line := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) != "" {
			e.Lines = append(e.Lines, line)
		}
	}
	return e
}

// columnIndex finds the first header whose lowercased text contains any
// of the candidate substrings, in candidate priority order.
func columnIndex(headers []string, candidates ...string) int {
	for _, cand := range candidates {
		for i, h := range headers {
			if strings.Contains(strings.ToLower(h), cand) {
				return i
			}
		}
	}
	return -1
}

// field returns row[i] trimmed, or "" when the column is absent or the
// row is too short.
func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// rowWarning formats the shared degraded-row warning.
func rowWarning(rowNum int, reason string) string {
	return fmt.Sprintf("row %d: %s, kept as raw text", rowNum, reason)
}

// joinRow reassembles a raw row for the unclassified bucket.
func joinRow(row []string) string {
	return strings.Join(row, ",")
}
