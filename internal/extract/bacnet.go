package extract

import (
	"strings"

	"github.com/tridium-ingest/internal/models"
	"github.com/tridium-ingest/internal/units"
)

// BACnetExport holds the devices of a BACnet network export.
type BACnetExport struct {
	Devices      []models.DeviceRecord
	Summary      models.DatasetSummary
	Unclassified []string
	Warns        []string
}

func (e *BACnetExport) Format() models.FormatType { return models.FormatBACnet }
func (e *BACnetExport) Warnings() []string        { return e.Warns }

func (e *BACnetExport) Fill(ds *models.ImportedDataset) {
	ds.Devices = e.Devices
	ds.Summary = e.Summary
	ds.Unclassified = e.Unclassified
}

// ExtractBACnet converts each row into a DeviceRecord with device id,
// vendor, model and health classification, and computes the healthy
// percentage (devices without fault or alarm status over total) plus a
// vendor histogram.
func ExtractBACnet(doc models.TabularDocument) *BACnetExport {
	e := &BACnetExport{}

	if doc.Empty() {
		e.Warns = append(e.Warns, "empty document: no header row found")
		e.Summary = models.DatasetSummary{Total: 0}
		return e
	}

	idCol := columnIndex(doc.Headers, "device id", "device_id", "deviceid", "instance", "id")
	nameCol := columnIndex(doc.Headers, "device name", "object name", "name")
	vendorCol := columnIndex(doc.Headers, "vendor")
	modelCol := columnIndex(doc.Headers, "model")
	statusCol := columnIndex(doc.Headers, "status")
	healthCol := columnIndex(doc.Headers, "health")
	addrCol := columnIndex(doc.Headers, "mac", "address", "addr")

	byStatus := map[string]int{}
	byVendor := map[string]int{}
	byModel := map[string]int{}
	healthy := 0

	for i, row := range doc.Rows {
		name := field(row, nameCol)
		id := field(row, idCol)
		if name == "" && id == "" {
			e.Unclassified = append(e.Unclassified, joinRow(row))
			e.Warns = append(e.Warns, rowWarning(i+1, "missing device name and id"))
			continue
		}

		dev := models.DeviceRecord{
			Name:     name,
			DeviceID: id,
			Address:  field(row, addrCol),
			Vendor:   field(row, vendorCol),
			Model:    field(row, modelCol),
			Status:   units.StatusSet(field(row, statusCol)),
		}

		health := strings.ToLower(field(row, healthCol))
		dev.Healthy = statusHealthy(dev.Status) && !healthTextFailed(health)
		dev.UnackedAlarms = hasUnackedAlarm(dev.Status)

		for _, token := range dev.Status {
			byStatus[token]++
		}
		if dev.Vendor != "" {
			byVendor[dev.Vendor]++
		}
		if dev.Model != "" {
			byModel[dev.Model]++
		}
		if dev.Healthy {
			healthy++
		}

		e.Devices = append(e.Devices, dev)
	}

	e.Summary = models.DatasetSummary{
		Total:    len(e.Devices),
		ByStatus: byStatus,
		ByVendor: byVendor,
		ByModel:  byModel,
	}
	if len(e.Devices) > 0 {
		pct := roundPercent(float64(healthy) / float64(len(e.Devices)) * 100)
		e.Summary.HealthyPercent = &pct
	}
	return e
}

// healthTextFailed inspects a free-text health column such as
// "Fail [21-May-26 3:02 PM BST]".
func healthTextFailed(health string) bool {
	return strings.Contains(health, "fail") ||
		strings.Contains(health, "fault") ||
		strings.Contains(health, "down")
}

func hasUnackedAlarm(status []string) bool {
	for _, token := range status {
		if strings.Contains(token, "unack") {
			return true
		}
	}
	return false
}
