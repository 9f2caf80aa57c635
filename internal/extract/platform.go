package extract

import (
	"regexp"
	"strings"

	"github.com/tridium-ingest/internal/models"
)

// PlatformExport holds a parsed platform-details text export plus the
// section-presence flags used by the structural-completeness preview.
type PlatformExport struct {
	Record       models.PlatformSummaryRecord
	Sections     models.PlatformSections
	Unclassified []string
	Warns        []string
}

func (e *PlatformExport) Format() models.FormatType { return models.FormatPlatform }
func (e *PlatformExport) Warnings() []string        { return e.Warns }

func (e *PlatformExport) Fill(ds *models.ImportedDataset) {
	record := e.Record
	sections := e.Sections
	ds.Platform = &record
	ds.Unclassified = e.Unclassified
	ds.Summary = models.DatasetSummary{
		Total:    len(record.Modules) + len(record.Licenses) + len(record.Applications) + len(record.Filesystems),
		Sections: &sections,
	}
}

var (
	moduleLine  = regexp.MustCompile(`^(\S+)\s+\(([^)]+)\)$`)
	stationLine = regexp.MustCompile(`^station\s+"?([^"]+?)"?(?:\s+(.*))?$`)
	kvPair      = regexp.MustCompile(`(\w+)=(\S+)`)
)

// ExtractPlatform parses the structured text block a platform-details
// export produces: a key/value summary followed by Modules, Licenses,
// Applications and Filesystems sections. Lines inside a section that
// do not match its shape are kept unclassified.
func ExtractPlatform(content string) *PlatformExport {
	e := &PlatformExport{}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	lines := strings.Split(content, "\n")

	e.Sections = scanSections(lines)

	section := ""
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if next, ok := sectionHeader(line); ok {
			section = next
			continue
		}

		switch section {
		case "modules":
			e.parseModule(i+1, line)
		case "licenses":
			e.parseLicense(i+1, line)
		case "applications":
			e.parseApplication(i+1, line)
		case "filesystems":
			e.parseFilesystem(i+1, line)
		default:
			e.parseSummaryLine(line)
		}
	}

	if e.Record.DaemonVersion == "" && e.Record.HostID == "" {
		e.Warns = append(e.Warns, "platform summary fields not found: file may be truncated")
	}
	return e
}

// scanSections flags which subsections the file carries before any full
// parse, so the UI can show a completeness preview.
func scanSections(lines []string) models.PlatformSections {
	s := models.PlatformSections{}
	for _, raw := range lines {
		line := strings.ToLower(strings.TrimSpace(raw))
		if line != "" {
			s.LineCount++
		}
		switch {
		case strings.HasPrefix(line, "platform summary"):
			s.HasSummary = true
		case strings.HasPrefix(line, "host id"):
			s.HasHostID = true
		case strings.HasPrefix(line, "niagara runtime"), strings.HasPrefix(line, "runtime profile"):
			s.HasRuntimeInfo = true
		case strings.HasPrefix(line, "tls"):
			s.HasTLSConfig = true
		case strings.HasPrefix(line, "system home"), strings.HasPrefix(line, "user home"):
			s.HasSystemPaths = true
		case strings.HasPrefix(line, "modules"):
			s.HasModules = true
		case strings.HasPrefix(line, "filesystem"):
			s.HasFilesystems = true
		}
	}
	return s
}

// sectionHeader recognizes the list-section headers.
func sectionHeader(line string) (string, bool) {
	header := strings.ToLower(strings.TrimSuffix(line, ":"))
	switch header {
	case "modules":
		return "modules", true
	case "licenses":
		return "licenses", true
	case "applications", "stations":
		return "applications", true
	case "filesystems", "filesystem":
		return "filesystems", true
	}
	return "", false
}

func (e *PlatformExport) parseSummaryLine(line string) {
	key, value, found := strings.Cut(line, ":")
	if !found {
		return
	}
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}

	r := &e.Record
	switch {
	case key == "model":
		r.Model = value
	case key == "product":
		r.Product = value
	case strings.Contains(key, "daemon version"):
		r.DaemonVersion = value
	case key == "host id":
		r.HostID = value
	case strings.Contains(key, "architecture"):
		r.Architecture = value
	case strings.Contains(key, "operating system"):
		r.OperatingSystem = value
	}
}

func (e *PlatformExport) parseModule(lineNum int, line string) {
	m := moduleLine.FindStringSubmatch(line)
	if m == nil {
		e.keepRaw(lineNum, line, "unparsable module line")
		return
	}
	vendor, version, _ := strings.Cut(m[2], " ")
	e.Record.Modules = append(e.Record.Modules, models.PlatformModule{
		Name:    m[1],
		Vendor:  vendor,
		Version: strings.TrimSpace(version),
	})
}

func (e *PlatformExport) parseLicense(lineNum int, line string) {
	m := moduleLine.FindStringSubmatch(line)
	if m == nil {
		e.keepRaw(lineNum, line, "unparsable license line")
		return
	}
	lic := models.PlatformLicense{Name: m[1]}

	inner := m[2]
	if idx := strings.Index(strings.ToLower(inner), "expires"); idx >= 0 {
		lic.Expires = strings.TrimSpace(inner[idx+len("expires"):])
		inner = strings.TrimSpace(strings.TrimSuffix(inner[:idx], "- "))
		inner = strings.TrimSpace(strings.TrimSuffix(inner, "-"))
	}
	lic.Vendor = strings.TrimSpace(inner)
	e.Record.Licenses = append(e.Record.Licenses, lic)
}

func (e *PlatformExport) parseApplication(lineNum int, line string) {
	m := stationLine.FindStringSubmatch(line)
	if m == nil {
		e.keepRaw(lineNum, line, "unparsable application line")
		return
	}
	app := models.PlatformApplication{Name: m[1], Type: "station"}
	for _, kv := range kvPair.FindAllStringSubmatch(m[2], -1) {
		switch strings.ToLower(kv[1]) {
		case "autostart":
			app.Autostart = strings.EqualFold(kv[2], "true")
		case "status":
			app.Status = kv[2]
		}
	}
	e.Record.Applications = append(e.Record.Applications, app)
}

func (e *PlatformExport) parseFilesystem(lineNum int, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		e.keepRaw(lineNum, line, "unparsable filesystem line")
		return
	}
	fs := models.PlatformFilesystem{Path: fields[0]}
	if len(fields) > 1 {
		fs.Free = fields[1]
	}
	if len(fields) > 2 {
		fs.Total = fields[2]
	}
	e.Record.Filesystems = append(e.Record.Filesystems, fs)
}

func (e *PlatformExport) keepRaw(lineNum int, line, reason string) {
	e.Unclassified = append(e.Unclassified, line)
	e.Warns = append(e.Warns, rowWarning(lineNum, reason))
}
