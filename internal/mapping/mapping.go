// Package mapping powers the live CSV preview/import path: it proposes a
// semantic target field and data type for every source column, then
// applies the chosen mappings across every row of the document. The
// preview row limit never gates how many rows are converted.
package mapping

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tridium-ingest/internal/models"
	"github.com/tridium-ingest/internal/units"
)

// InferMappings proposes one ColumnMapping per header using
// header-name substring heuristics specific to the detected format.
// Headers nothing matches get a disabled text mapping named after a
// sanitized form of the header.
func InferMappings(doc models.TabularDocument, format models.FormatType) []models.ColumnMapping {
	mappings := make([]models.ColumnMapping, 0, len(doc.Headers))
	for _, header := range doc.Headers {
		mappings = append(mappings, inferOne(header, format))
	}
	return mappings
}

func inferOne(header string, format models.FormatType) models.ColumnMapping {
	h := strings.ToLower(header)

	m := models.ColumnMapping{
		SourceHeader: header,
		TargetField:  sanitizeField(header),
		DataType:     models.TypeText,
		Enabled:      false,
	}

	enable := func(field string, dt models.DataType, required bool) models.ColumnMapping {
		m.TargetField = field
		m.DataType = dt
		m.Enabled = true
		m.Required = required
		return m
	}

	// Hints shared by every tabular format.
	switch {
	case strings.Contains(h, "status"):
		return enable("status", models.TypeArray, false)
	case strings.Contains(h, "vendor"):
		return enable("vendor", models.TypeText, false)
	case strings.Contains(h, "model") && strings.Contains(h, "host"):
		return enable("hostModel", models.TypeText, false)
	case strings.Contains(h, "model"):
		return enable("model", models.TypeText, false)
	}

	switch format {
	case models.FormatBACnet:
		switch {
		case strings.Contains(h, "id") && strings.Contains(h, "device"):
			return enable("deviceId", models.TypeText, true)
		case strings.Contains(h, "name"):
			return enable("name", models.TypeText, true)
		case strings.Contains(h, "health"):
			return enable("health", models.TypeText, false)
		case strings.Contains(h, "mac"), strings.Contains(h, "address"):
			return enable("address", models.TypeText, false)
		}

	case models.FormatN2:
		switch {
		case strings.Contains(h, "name"):
			return enable("name", models.TypeText, true)
		case strings.Contains(h, "address"), strings.Contains(h, "addr"):
			return enable("address", models.TypeText, true)
		case strings.Contains(h, "type"):
			return enable("type", models.TypeText, false)
		case strings.Contains(h, "point"):
			return enable("pointCount", models.TypeNumber, false)
		}

	case models.FormatNetwork:
		switch {
		case strings.Contains(h, "path"):
			return enable("path", models.TypeText, false)
		case strings.Contains(h, "name"):
			return enable("name", models.TypeText, true)
		case strings.Contains(h, "ip"), strings.Contains(h, "address"):
			return enable("address", models.TypeText, false)
		case strings.Contains(h, "version"):
			return enable("version", models.TypeText, false)
		case strings.Contains(h, "connected"), strings.Contains(h, "conn"):
			return enable("connected", models.TypeBoolean, false)
		}

	case models.FormatResource:
		switch {
		case strings.Contains(h, "name"), strings.Contains(h, "metric"):
			return enable("name", models.TypeText, true)
		case strings.Contains(h, "value"):
			return enable("value", models.TypeText, true)
		}

	default:
		if strings.Contains(h, "name") {
			return enable("name", models.TypeText, false)
		}
	}

	return m
}

var fieldSanitizer = regexp.MustCompile(`[^a-z0-9]+`)

// sanitizeField turns an arbitrary header into a usable field name.
func sanitizeField(header string) string {
	s := fieldSanitizer.ReplaceAllString(strings.ToLower(strings.TrimSpace(header)), "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "column"
	}
	return s
}

// Apply converts every row of the document using the enabled mappings.
// ProcessedRows always equals TotalRows: no display limit or anomaly may
// truncate the conversion. Rows with missing required fields are still
// converted; the gap is reported as a warning.
func Apply(doc models.TabularDocument, mappings []models.ColumnMapping, format models.FormatType) models.ImportResult {
	result := models.ImportResult{
		TotalRows: len(doc.Rows),
		Headers:   doc.Headers,
		Rows:      doc.Rows,
		Records:   make([]map[string]interface{}, 0, len(doc.Rows)),
	}

	for i, row := range doc.Rows {
		if len(row) != len(doc.Headers) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("row %d: has %d fields, header has %d", i+1, len(row), len(doc.Headers)))
		}

		record := make(map[string]interface{})
		for col, m := range mappings {
			if !m.Enabled || col >= len(doc.Headers) {
				continue
			}
			value := ""
			if col < len(row) {
				value = strings.TrimSpace(row[col])
			}
			if m.Required && value == "" {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("row %d: required field %s is empty", i+1, m.TargetField))
			}
			record[m.TargetField] = coerce(value, m.DataType)
		}

		result.Records = append(result.Records, record)
		result.ProcessedRows++
	}

	result.Summary = summarize(result.Records, format)
	return result
}

// coerce converts a raw field to its mapped data type. Numbers fall
// back to 0 when non-numeric; booleans are a case-insensitive "true";
// arrays split bracketed comma lists or wrap a scalar.
func coerce(value string, dt models.DataType) interface{} {
	switch dt {
	case models.TypeNumber:
		if n, err := strconv.Atoi(strings.ReplaceAll(value, ",", "")); err == nil {
			return n
		}
		if f, ok := units.Number(value); ok {
			return int(f)
		}
		return 0
	case models.TypeBoolean:
		return strings.EqualFold(value, "true")
	case models.TypeArray:
		return units.StatusSet(value)
	default:
		return value
	}
}

// summarize derives the by-status/by-vendor/by-model histograms from
// the converted records.
func summarize(records []map[string]interface{}, format models.FormatType) models.DatasetSummary {
	summary := models.DatasetSummary{Total: len(records)}

	byStatus := map[string]int{}
	byVendor := map[string]int{}
	byModel := map[string]int{}

	for _, record := range records {
		if status, ok := record["status"].([]string); ok {
			for _, token := range status {
				byStatus[token]++
			}
			if format == models.FormatNetwork && contains(status, "alarm") {
				summary.AlarmCount++
			}
		}
		if vendor, ok := record["vendor"].(string); ok && vendor != "" {
			byVendor[vendor]++
		}
		if model, ok := record["model"].(string); ok && model != "" {
			byModel[model]++
		}
		if connected, ok := record["connected"].(bool); ok {
			if connected {
				summary.Connected++
			} else {
				summary.Disconnected++
			}
		}
	}

	if len(byStatus) > 0 {
		summary.ByStatus = byStatus
	}
	if len(byVendor) > 0 {
		summary.ByVendor = byVendor
	}
	if len(byModel) > 0 {
		summary.ByModel = byModel
	}

	return summary
}

func contains(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}
