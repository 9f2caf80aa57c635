package extract

import (
	"math"

	"github.com/tridium-ingest/internal/models"
	"github.com/tridium-ingest/internal/units"
)

// N2Export holds the devices of an N2 field-bus export.
type N2Export struct {
	Devices      []models.DeviceRecord
	Summary      models.DatasetSummary
	Unclassified []string
	Warns        []string
}

func (e *N2Export) Format() models.FormatType { return models.FormatN2 }
func (e *N2Export) Warnings() []string        { return e.Warns }

func (e *N2Export) Fill(ds *models.ImportedDataset) {
	ds.Devices = e.Devices
	ds.Summary = e.Summary
	ds.Unclassified = e.Unclassified
}

// ExtractN2 converts each row into a DeviceRecord and tallies totals by
// status token and by controller type. Rows without a device name are
// degraded to the unclassified bucket, never dropped.
func ExtractN2(doc models.TabularDocument) *N2Export {
	e := &N2Export{}

	if doc.Empty() {
		e.Warns = append(e.Warns, "empty document: no header row found")
		e.Summary = models.DatasetSummary{Total: 0}
		return e
	}

	nameCol := columnIndex(doc.Headers, "name")
	statusCol := columnIndex(doc.Headers, "status")
	addrCol := columnIndex(doc.Headers, "address", "addr")
	typeCol := columnIndex(doc.Headers, "controller type", "device type", "type")
	pointCol := columnIndex(doc.Headers, "point")

	byStatus := map[string]int{}
	byType := map[string]int{}
	healthy := 0

	for i, row := range doc.Rows {
		name := field(row, nameCol)
		if name == "" {
			e.Unclassified = append(e.Unclassified, joinRow(row))
			e.Warns = append(e.Warns, rowWarning(i+1, "missing device name"))
			continue
		}

		dev := models.DeviceRecord{
			Name:    name,
			Address: field(row, addrCol),
			Status:  units.StatusSet(field(row, statusCol)),
			Type:    field(row, typeCol),
		}
		if pc, ok := units.Int(field(row, pointCol)); ok {
			dev.PointCount = &pc
		}
		dev.Healthy = statusHealthy(dev.Status)

		for _, token := range dev.Status {
			byStatus[token]++
		}
		if dev.Type != "" {
			byType[dev.Type]++
		}
		if dev.Healthy {
			healthy++
		}

		e.Devices = append(e.Devices, dev)
	}

	e.Summary = models.DatasetSummary{
		Total:    len(e.Devices),
		ByStatus: byStatus,
		ByType:   byType,
	}
	if len(e.Devices) > 0 {
		pct := roundPercent(float64(healthy) / float64(len(e.Devices)) * 100)
		e.Summary.HealthyPercent = &pct
	}
	return e
}

// statusHealthy reports whether a status set carries no fault tokens.
// An empty set counts as healthy: many exports omit the column for
// devices with nothing to report.
func statusHealthy(status []string) bool {
	for _, token := range status {
		switch token {
		case "down", "alarm", "fault", "offline", "disabled", "unackedalarm":
			return false
		}
	}
	return true
}

// roundPercent keeps health percentages to one decimal place.
func roundPercent(p float64) float64 {
	return math.Round(p*10) / 10
}
