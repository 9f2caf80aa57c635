package processor

import (
	"errors"
	"testing"

	"github.com/tridium-ingest/internal/config"
	"github.com/tridium-ingest/internal/extract"
	"github.com/tridium-ingest/internal/models"
)

func newTestImporter() *Importer {
	return NewImporter(&config.ParserConfig{})
}

func rawFile(name, content string) models.RawImportFile {
	return models.RawImportFile{FileName: name, Content: content, Size: int64(len(content))}
}

func TestImport_N2EndToEnd(t *testing.T) {
	file := rawFile("n2_export.csv", "Name,Status,Address,Type\nAHU-1,{ok},101,Controller\n")

	dataset, detection, err := newTestImporter().Import(file, "")
	if err != nil {
		t.Fatal(err)
	}

	if detection.Format != models.FormatN2 {
		t.Fatalf("detected %s, want n2", detection.Format)
	}
	if detection.Confidence < 60 {
		t.Errorf("Confidence = %d, want >= 60", detection.Confidence)
	}

	if dataset.ID == "" {
		t.Error("dataset has no id")
	}
	if len(dataset.Devices) != 1 {
		t.Fatalf("len(Devices) = %d, want 1", len(dataset.Devices))
	}
	dev := dataset.Devices[0]
	if dev.Name != "AHU-1" || dev.Address != "101" || dev.Type != "Controller" {
		t.Errorf("device = %+v", dev)
	}
	if len(dev.Status) != 1 || dev.Status[0] != "ok" {
		t.Errorf("Status = %v, want [ok]", dev.Status)
	}
	if dataset.Summary.Total != 1 || dataset.Summary.ByStatus["ok"] != 1 {
		t.Errorf("summary = %+v", dataset.Summary)
	}
	if dataset.Forced {
		t.Error("clean detection must not be flagged forced")
	}

	// Tabular sources keep headers/rows for preview re-derivation.
	if len(dataset.Headers) != 4 || len(dataset.Rows) != 1 {
		t.Errorf("headers/rows = %d/%d, want 4/1", len(dataset.Headers), len(dataset.Rows))
	}
}

func TestImport_ResourceEndToEnd(t *testing.T) {
	file := rawFile("resource_export.csv",
		"Name,Value\ncpu.usage,45%\nmem.used,2048 MB\nmem.total,4096 MB\n")

	dataset, _, err := newTestImporter().Import(file, "")
	if err != nil {
		t.Fatal(err)
	}

	if dataset.Format != models.FormatResource {
		t.Fatalf("Format = %s, want resource", dataset.Format)
	}

	m := dataset.Summary.Metrics
	if m == nil {
		t.Fatal("Summary.Metrics is nil")
	}
	if m.CPUUsage == nil || *m.CPUUsage != 45 {
		t.Errorf("CPUUsage = %v, want 45", m.CPUUsage)
	}
	if m.MemoryUsedMB == nil || *m.MemoryUsedMB != 2048 {
		t.Errorf("MemoryUsedMB = %v, want 2048", m.MemoryUsedMB)
	}
	if m.MemoryTotalMB == nil || *m.MemoryTotalMB != 4096 {
		t.Errorf("MemoryTotalMB = %v, want 4096", m.MemoryTotalMB)
	}
	if m.MemoryPercent == nil || *m.MemoryPercent != 50 {
		t.Errorf("MemoryPercent = %v, want 50", m.MemoryPercent)
	}

	if len(dataset.MetricRows) != 3 {
		t.Errorf("len(MetricRows) = %d, want 3 (raw rows preserved)", len(dataset.MetricRows))
	}
}

func TestImport_ForcedFormat(t *testing.T) {
	// A file detection cannot place, imported with a user-chosen format.
	file := rawFile("export.csv", "a,b\nx,{ok}\n")

	dataset, detection, err := newTestImporter().Import(file, models.FormatN2)
	if err != nil {
		t.Fatal(err)
	}

	if detection.Format != models.FormatUnknown {
		t.Errorf("detected %s, want unknown", detection.Format)
	}
	if dataset.Format != models.FormatN2 {
		t.Errorf("Format = %s, want forced n2", dataset.Format)
	}
	if !dataset.Forced {
		t.Error("dataset must be flagged forced")
	}
}

func TestImport_UnreadableContent(t *testing.T) {
	file := rawFile("dump.csv", "Name\x00\xff\xfe")

	_, _, err := newTestImporter().Import(file, "")
	if !errors.Is(err, extract.ErrUnreadable) {
		t.Errorf("err = %v, want ErrUnreadable", err)
	}
}

func TestImport_UnknownKeepsContent(t *testing.T) {
	file := rawFile("notes.csv", "some,random\nlines,here\n")

	dataset, _, err := newTestImporter().Import(file, "")
	if err != nil {
		t.Fatal(err)
	}

	if dataset.Format != models.FormatUnknown {
		t.Fatalf("Format = %s, want unknown", dataset.Format)
	}
	if len(dataset.Unclassified) == 0 {
		t.Error("unknown import must retain raw lines")
	}
	if len(dataset.Warnings) == 0 {
		t.Error("unknown import must carry warnings")
	}
}

func TestImport_WarningsAccumulate(t *testing.T) {
	// One good row, one row without a name.
	file := rawFile("n2_export.csv", "Name,Status,Address\nAHU-1,{ok},101\n,{down},102\n")

	dataset, _, err := newTestImporter().Import(file, "")
	if err != nil {
		t.Fatal(err)
	}

	if len(dataset.Devices) != 1 {
		t.Errorf("len(Devices) = %d, want 1", len(dataset.Devices))
	}
	if len(dataset.Unclassified) != 1 {
		t.Errorf("len(Unclassified) = %d, want 1 (bad row degraded, not dropped)", len(dataset.Unclassified))
	}
	if len(dataset.Warnings) == 0 {
		t.Error("expected a row-level warning")
	}
}

func TestImport_PlatformHasNoTabularSource(t *testing.T) {
	file := rawFile("platform_details.txt",
		"Platform summary for host:\nDaemon Version: 4.10.0.154\nHost ID: Qnx-0001\n")

	dataset, _, err := newTestImporter().Import(file, "")
	if err != nil {
		t.Fatal(err)
	}

	if dataset.Format != models.FormatPlatform {
		t.Fatalf("Format = %s, want platform", dataset.Format)
	}
	if dataset.Platform == nil || dataset.Platform.HostID != "Qnx-0001" {
		t.Errorf("Platform = %+v", dataset.Platform)
	}
	if dataset.Headers != nil {
		t.Error("platform datasets carry no tabular headers")
	}
	if dataset.Summary.Sections == nil || !dataset.Summary.Sections.HasHostID {
		t.Errorf("Sections = %+v", dataset.Summary.Sections)
	}
}
