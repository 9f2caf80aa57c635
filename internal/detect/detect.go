// Package detect guesses which Tridium export format an uploaded file
// contains. Scores are additive heuristics capped at 100, not
// probabilities; they only ever add points, so a matching filename hint
// can never lower the confidence a file earned on content alone.
package detect

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/tridium-ingest/internal/models"
	"github.com/tridium-ingest/internal/tabular"
)

// Confidence bands used by the import UX. At or above High the import
// proceeds silently; Medium triggers the auto-preview; below Medium the
// user must confirm; below Reject the file is flagged as a reject
// candidate (import stays possible but is labeled forced).
const (
	BandHigh   = 80
	BandMedium = 60
	BandReject = 20
)

// previewRows is how many parsed rows a DetectionResult carries for the
// confirmation dialog.
const previewRows = 5

// ConfidenceBand names the band a score falls in.
func ConfidenceBand(score int) string {
	switch {
	case score >= BandHigh:
		return "high"
	case score >= BandMedium:
		return "medium"
	case score >= BandReject:
		return "low"
	default:
		return "reject"
	}
}

// Detect scores filename and content hints for every known format and
// returns the best match. It is a pure function and never panics;
// unreadable content yields FormatUnknown with confidence 0.
func Detect(filename, content string) models.DetectionResult {
	if !utf8.ValidString(content) || strings.ContainsRune(content, 0) {
		return models.DetectionResult{
			Format:     models.FormatUnknown,
			Confidence: 0,
			Warnings:   []string{"file content could not be decoded as text"},
		}
	}

	name := strings.ToLower(filename)
	ext := filepath.Ext(name)
	lower := strings.ToLower(content)

	headerLine := ""
	for _, line := range strings.Split(lower, "\n") {
		if strings.TrimSpace(line) != "" {
			headerLine = line
			break
		}
	}

	scores := map[models.FormatType]int{
		models.FormatN2:       scoreN2(name, ext, headerLine, lower),
		models.FormatBACnet:   scoreBACnet(name, ext, headerLine),
		models.FormatResource: scoreResource(name, headerLine, lower),
		models.FormatPlatform: scorePlatform(name, ext, lower),
		models.FormatNetwork:  scoreNetwork(name, ext, headerLine),
	}

	best := models.FormatUnknown
	bestScore := 0
	for _, format := range []models.FormatType{
		models.FormatN2, models.FormatBACnet, models.FormatResource,
		models.FormatPlatform, models.FormatNetwork,
	} {
		if scores[format] > bestScore {
			best = format
			bestScore = scores[format]
		}
	}

	if bestScore > 100 {
		bestScore = 100
	}

	result := models.DetectionResult{Format: best, Confidence: bestScore}

	if bestScore < BandReject {
		result.Format = models.FormatUnknown
		result.Confidence = 0
		result.Warnings = append(result.Warnings,
			"export format not recognized: rename the file (e.g. n2_export.csv) or check the export type")
		return result
	}

	if bestScore < BandMedium {
		result.Warnings = append(result.Warnings,
			"low detection confidence: confirm the export type before importing")
	}

	if best != models.FormatPlatform {
		doc := tabular.Parse(content)
		n := len(doc.Rows)
		if n > previewRows {
			n = previewRows
		}
		result.RawPreview = doc.Rows[:n]
	}

	return result
}

func scoreN2(name, ext, header, content string) int {
	score := 0
	if strings.Contains(name, "n2") {
		score += 40
	}
	if ext == ".csv" {
		score += 5
	}
	if strings.Contains(header, "status") {
		score += 15
	}
	if strings.Contains(header, "address") {
		score += 15
	}
	if strings.Contains(header, "controller") || strings.Contains(header, "type") {
		score += 10
	}
	// Bracketed status sets are typical of N2 device dumps.
	if strings.Contains(content, "{ok}") || strings.Contains(content, "{down") {
		score += 10
	}
	return score
}

func scoreBACnet(name, ext, header string) int {
	score := 0
	if strings.Contains(name, "bacnet") {
		score += 40
	}
	if ext == ".csv" {
		score += 5
	}
	if strings.Contains(header, "device id") || strings.Contains(header, "device_id") {
		score += 25
	}
	if strings.Contains(header, "vendor") {
		score += 15
	}
	if strings.Contains(header, "model") {
		score += 10
	}
	if strings.Contains(header, "status") {
		score += 10
	}
	if strings.Contains(header, "health") {
		score += 10
	}
	return score
}

func scoreResource(name, header, content string) int {
	score := 0
	if strings.Contains(name, "resource") {
		score += 40
	}
	if strings.Contains(header, "name") && strings.Contains(header, "value") {
		score += 20
	}
	if strings.Contains(content, "kru") {
		score += 15
	}
	if strings.Contains(content, "heap") {
		score += 10
	}
	if strings.Contains(content, "cpu") {
		score += 10
	}
	if strings.Contains(content, "(limit:") || strings.Contains(content, "(limit: ") {
		score += 10
	}
	return score
}

func scorePlatform(name, ext, content string) int {
	score := 0
	if strings.Contains(name, "platform") {
		score += 40
	}
	// Platform details arrive as plain text, not CSV.
	if ext == ".txt" {
		score += 15
	}
	if strings.Contains(content, "daemon version") {
		score += 20
	}
	if strings.Contains(content, "host id") {
		score += 15
	}
	if strings.Contains(content, "niagara runtime") {
		score += 10
	}
	if strings.Contains(content, "operating system") {
		score += 5
	}
	return score
}

func scoreNetwork(name, ext, header string) int {
	score := 0
	if strings.Contains(name, "niagara") && strings.Contains(name, "net") {
		score += 40
	} else if strings.Contains(name, "network") {
		score += 25
	}
	if ext == ".csv" {
		score += 5
	}
	if strings.Contains(header, "path") {
		score += 15
	}
	if strings.Contains(header, "host model") || strings.Contains(header, "hostmodel") {
		score += 20
	}
	if strings.Contains(header, "ip") || strings.Contains(header, "address") {
		score += 10
	}
	if strings.Contains(header, "version") {
		score += 10
	}
	return score
}
