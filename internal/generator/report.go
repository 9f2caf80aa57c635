package generator

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/tridium-ingest/internal/models"
)

// ReportGenerator renders the maintenance report PDF for an imported
// dataset.
type ReportGenerator struct {
	outputDir string
}

func NewReportGenerator(outputDir string) *ReportGenerator {
	return &ReportGenerator{
		outputDir: outputDir,
	}
}

// GeneratePDF renders the dataset report and writes it next to the
// other reports, returning the file path.
func (g *ReportGenerator) GeneratePDF(dataset *models.ImportedDataset) (string, error) {
	pdf := g.Render(dataset)

	fileName := fmt.Sprintf("report_%s_%s.pdf", dataset.Format, dataset.ID)
	outputPath := filepath.Join(g.outputDir, fileName)

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return "", fmt.Errorf("failed to write PDF: %w", err)
	}
	return outputPath, nil
}

// Render builds the PDF document in memory. Callers stream it with
// pdf.Output or persist it with OutputFileAndClose.
func (g *ReportGenerator) Render(dataset *models.ImportedDataset) *gofpdf.Fpdf {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(277, 10, fmt.Sprintf("Maintenance Report: %s", dataset.SourceFileName), "", 0, "C", false, 0, "")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(277, 6, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04:05")), "", 0, "C", false, 0, "")
	pdf.Ln(6)
	pdf.CellFormat(277, 6, fmt.Sprintf("Export type: %s    Imported: %s    Detection confidence: %d%%",
		dataset.Format, dataset.ImportedAt.Format("2006-01-02 15:04"), dataset.Confidence), "", 0, "C", false, 0, "")
	pdf.Ln(12)

	g.summarySection(pdf, dataset)

	switch dataset.Format {
	case models.FormatN2, models.FormatBACnet:
		g.deviceTable(pdf, dataset.Devices)
	case models.FormatNetwork:
		g.nodeTable(pdf, dataset.Nodes)
	case models.FormatResource:
		g.metricTable(pdf, dataset.MetricRows)
	case models.FormatPlatform:
		g.platformDetails(pdf, dataset.Platform)
	}

	if len(dataset.Warnings) > 0 {
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(277, 8, fmt.Sprintf("Warnings (%d)", len(dataset.Warnings)))
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 9)
		for _, w := range dataset.Warnings {
			pdf.Cell(277, 5, "- "+w)
			pdf.Ln(5)
		}
	}

	return pdf
}

func (g *ReportGenerator) summarySection(pdf *gofpdf.Fpdf, dataset *models.ImportedDataset) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(277, 8, "Summary")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	s := dataset.Summary

	pdf.Cell(277, 7, fmt.Sprintf("Total records: %d", s.Total))
	pdf.Ln(7)

	if s.HealthyPercent != nil {
		if *s.HealthyPercent < 80 {
			pdf.SetTextColor(255, 0, 0)
		} else {
			pdf.SetTextColor(0, 128, 0)
		}
		pdf.Cell(277, 7, fmt.Sprintf("Device health: %.1f%%", *s.HealthyPercent))
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(7)
	}

	g.histogram(pdf, "By status", s.ByStatus)
	g.histogram(pdf, "By type", s.ByType)
	g.histogram(pdf, "By vendor", s.ByVendor)
	g.histogram(pdf, "By host model", s.ByHostModel)

	if dataset.Format == models.FormatNetwork {
		pdf.Cell(277, 7, fmt.Sprintf("Connected: %d    Disconnected: %d    In alarm: %d",
			s.Connected, s.Disconnected, s.AlarmCount))
		pdf.Ln(7)
	}

	if s.Metrics != nil {
		g.metricsSummary(pdf, s.Metrics)
	}

	pdf.Ln(5)
}

func (g *ReportGenerator) histogram(pdf *gofpdf.Fpdf, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	line := title + ": "
	for i, k := range keys {
		if i > 0 {
			line += ", "
		}
		line += fmt.Sprintf("%s=%d", k, counts[k])
	}
	pdf.Cell(277, 7, line)
	pdf.Ln(7)
}

func (g *ReportGenerator) metricsSummary(pdf *gofpdf.Fpdf, m *models.ResourceMetrics) {
	if m.CPUUsage != nil {
		pdf.Cell(277, 7, fmt.Sprintf("CPU usage: %.0f%%", *m.CPUUsage))
		pdf.Ln(7)
	}
	if m.MemoryUsedMB != nil && m.MemoryTotalMB != nil {
		line := fmt.Sprintf("Memory: %.0f MB / %.0f MB", *m.MemoryUsedMB, *m.MemoryTotalMB)
		if m.MemoryPercent != nil {
			line += fmt.Sprintf(" (%.0f%%)", *m.MemoryPercent)
		}
		pdf.Cell(277, 7, line)
		pdf.Ln(7)
	}
	if m.HeapUsedMB != nil && m.HeapMaxMB != nil {
		pdf.Cell(277, 7, fmt.Sprintf("Heap: %.0f MB / %.0f MB", *m.HeapUsedMB, *m.HeapMaxMB))
		pdf.Ln(7)
	}
	if m.TotalKRU != nil {
		pdf.Cell(277, 7, fmt.Sprintf("Resource units: %.0f kRU", *m.TotalKRU))
		pdf.Ln(7)
	}
	if m.Uptime != nil {
		pdf.Cell(277, 7, fmt.Sprintf("Uptime: %dd %dh %dm", m.Uptime.Days, m.Uptime.Hours, m.Uptime.Minutes))
		pdf.Ln(7)
	}

	keys := make([]string, 0, len(m.Capacities))
	for k := range m.Capacities {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		c := m.Capacities[k]
		line := fmt.Sprintf("Capacity %s: %.0f", k, c.Used)
		if c.Licensed != nil {
			line += fmt.Sprintf(" of %.0f licensed", *c.Licensed)
		}
		if c.Percent != nil {
			line += fmt.Sprintf(" (%.0f%%)", *c.Percent)
		}
		pdf.Cell(277, 7, line)
		pdf.Ln(7)
	}
}

func (g *ReportGenerator) deviceTable(pdf *gofpdf.Fpdf, devices []models.DeviceRecord) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(277, 8, "Devices")
	pdf.Ln(10)

	colWidths := []float64{60, 30, 30, 50, 40, 40, 27}
	headers := []string{"Name", "Address", "Device ID", "Vendor", "Model", "Type", "Status"}
	g.tableHeader(pdf, colWidths, headers)

	pdf.SetFont("Helvetica", "", 8)
	for _, d := range devices {
		status := "ok"
		if len(d.Status) > 0 {
			status = ""
			for i, s := range d.Status {
				if i > 0 {
					status += ","
				}
				status += s
			}
		}
		if !d.Healthy {
			pdf.SetTextColor(255, 0, 0)
		}
		cells := []string{d.Name, d.Address, d.DeviceID, d.Vendor, d.Model, d.Type, status}
		for i, c := range cells {
			pdf.CellFormat(colWidths[i], 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(6)
	}
}

func (g *ReportGenerator) nodeTable(pdf *gofpdf.Fpdf, nodes []models.NetworkNodeRecord) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(277, 8, "Stations")
	pdf.Ln(10)

	colWidths := []float64{80, 45, 35, 35, 25, 25, 32}
	headers := []string{"Path", "Name", "Address", "Host Model", "Version", "Connected", "Status"}
	g.tableHeader(pdf, colWidths, headers)

	pdf.SetFont("Helvetica", "", 8)
	for _, n := range nodes {
		connected := "no"
		if n.Connected {
			connected = "yes"
		} else {
			pdf.SetTextColor(255, 0, 0)
		}
		cells := []string{n.Path, n.Name, n.Address, n.HostModel, n.Version, connected, n.Status}
		for i, c := range cells {
			pdf.CellFormat(colWidths[i], 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(6)
	}
}

func (g *ReportGenerator) metricTable(pdf *gofpdf.Fpdf, rows []models.ResourceMetricRecord) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(277, 8, "Raw Metrics")
	pdf.Ln(10)

	colWidths := []float64{130, 147}
	g.tableHeader(pdf, colWidths, []string{"Name", "Value"})

	pdf.SetFont("Helvetica", "", 8)
	for _, r := range rows {
		pdf.CellFormat(colWidths[0], 6, r.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 6, r.Value, "1", 0, "L", false, 0, "")
		pdf.Ln(6)
	}
}

func (g *ReportGenerator) platformDetails(pdf *gofpdf.Fpdf, p *models.PlatformSummaryRecord) {
	if p == nil {
		return
	}

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(277, 8, "Platform")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	lines := []string{
		fmt.Sprintf("Model: %s    Product: %s", p.Model, p.Product),
		fmt.Sprintf("Daemon version: %s    Host ID: %s", p.DaemonVersion, p.HostID),
		fmt.Sprintf("Architecture: %s    OS: %s", p.Architecture, p.OperatingSystem),
		fmt.Sprintf("Modules: %d    Licenses: %d    Applications: %d    Filesystems: %d",
			len(p.Modules), len(p.Licenses), len(p.Applications), len(p.Filesystems)),
	}
	for _, line := range lines {
		pdf.Cell(277, 7, line)
		pdf.Ln(7)
	}

	if len(p.Licenses) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(277, 7, "Licenses")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 9)
		for _, lic := range p.Licenses {
			pdf.Cell(277, 6, fmt.Sprintf("%s (%s) expires %s", lic.Name, lic.Vendor, lic.Expires))
			pdf.Ln(6)
		}
	}
}

func (g *ReportGenerator) tableHeader(pdf *gofpdf.Fpdf, colWidths []float64, headers []string) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(240, 240, 240)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(7)
}
