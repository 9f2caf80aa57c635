// Package units centralizes the numeric coercions shared by the export
// extractors: thousands-separated numbers, percentages, byte sizes,
// capacity pairs, durations and bracketed status lists.
package units

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tridium-ingest/internal/models"
)

// RoundingMode selects how derived capacity percentages are rounded.
type RoundingMode int

const (
	RoundHalfUp RoundingMode = iota
	Truncate
)

// RoundingModeFromString maps a config value onto a RoundingMode.
// Unrecognized values fall back to RoundHalfUp.
func RoundingModeFromString(s string) RoundingMode {
	if strings.EqualFold(strings.TrimSpace(s), "truncate") {
		return Truncate
	}
	return RoundHalfUp
}

var (
	numberRe   = regexp.MustCompile(`-?\d[\d,]*(?:\.\d+)?`)
	sizeRe     = regexp.MustCompile(`(?i)^\s*(-?[\d,]+(?:\.\d+)?)\s*(B|KB|KiB|MB|MiB|GB|GiB)\s*$`)
	capacityRe = regexp.MustCompile(`(?i)^\s*([\d,]+(?:\.\d+)?)\s*\(\s*Limit:\s*([^)]*)\)\s*$`)
	msRe       = regexp.MustCompile(`(?i)^\s*(-?[\d,]+(?:\.\d+)?)\s*ms\s*$`)
	kruRe      = regexp.MustCompile(`(?i)^\s*([\d,]+(?:\.\d+)?)\s*kRU\s*$`)
	uptimeWord = regexp.MustCompile(`(?i)(\d+)\s*(days?|d\b|hours?|h\b|hrs?|minutes?|mins?|m\b)`)
	colonTime  = regexp.MustCompile(`^\s*(\d+):(\d+):(\d+)(?::(\d+))?\s*$`)
)

// Number parses a numeric value tolerating thousands separators and
// surrounding text. The second return is false when no number is present.
func Number(s string) (float64, bool) {
	m := numberRe.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Int is Number truncated to an integer.
func Int(s string) (int, bool) {
	v, ok := Number(s)
	if !ok {
		return 0, false
	}
	return int(v), true
}

// Percent parses "45%" or a bare "45" into its numeric value.
func Percent(s string) (float64, bool) {
	return Number(strings.TrimSuffix(strings.TrimSpace(s), "%"))
}

// SizeMB parses a byte-size string like "2048 KB" or "1 GB" into whole
// megabytes, rounding down. Both SI and IEC suffixes use 1024 factors,
// matching how the exports report memory.
func SizeMB(s string) (float64, bool) {
	m := sizeRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	switch strings.ToUpper(m[2]) {
	case "B":
		v = v / (1024 * 1024)
	case "KB", "KIB":
		v = v / 1024
	case "MB", "MIB":
		// already MB
	case "GB", "GIB":
		v = v * 1024
	}
	return math.Floor(v), true
}

// Capacity parses a "used (Limit: limit)" pair. A limit of "none" means
// unlimited: Licensed and Percent stay nil. The percent rounding mode is
// caller-selected because the exports do not document one.
func Capacity(s string, mode RoundingMode) (models.Capacity, bool) {
	m := capacityRe.FindStringSubmatch(s)
	if m == nil {
		// A bare number is a capacity with no limit annotation.
		v, ok := Number(s)
		if !ok {
			return models.Capacity{}, false
		}
		return models.Capacity{Used: v}, true
	}

	used, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return models.Capacity{}, false
	}

	c := models.Capacity{Used: used}

	limit := strings.TrimSpace(m[2])
	if strings.EqualFold(limit, "none") || limit == "" {
		return c, true
	}

	licensed, ok := Number(limit)
	if !ok {
		return c, true
	}
	c.Licensed = &licensed

	if licensed > 0 {
		pct := used / licensed * 100
		switch mode {
		case Truncate:
			pct = math.Trunc(pct)
		default:
			pct = math.Round(pct)
		}
		c.Percent = &pct
	}
	return c, true
}

// Milliseconds parses an engine scan timing like "12.3 ms".
func Milliseconds(s string) (float64, bool) {
	m := msRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// KRU parses a resource-unit value like "236 kRU".
func KRU(s string) (float64, bool) {
	m := kruRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Uptime parses a station uptime in any of the formats the exports use:
// "3 days 4 hours 10 minutes", "3d 4h 10m", "dd:hh:mm:ss" or "hh:mm:ss".
// Seconds are dropped.
func Uptime(s string) (models.Uptime, bool) {
	if m := colonTime.FindStringSubmatch(s); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		c, _ := strconv.Atoi(m[3])
		if m[4] != "" {
			return models.Uptime{Days: a, Hours: b, Minutes: c}, true
		}
		return models.Uptime{Hours: a, Minutes: b}, true
	}

	matches := uptimeWord.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return models.Uptime{}, false
	}

	var up models.Uptime
	for _, m := range matches {
		n, _ := strconv.Atoi(m[1])
		switch strings.ToLower(m[2][:1]) {
		case "d":
			up.Days = n
		case "h":
			up.Hours = n
		case "m":
			up.Minutes = n
		}
	}
	return up, true
}

// StatusSet splits a bracketed status list like "{down,alarm}" into its
// tokens. An empty value yields an empty (non-nil) set; a bare scalar
// becomes a single-element set.
func StatusSet(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "{}[]()")

	tokens := []string{}
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}
