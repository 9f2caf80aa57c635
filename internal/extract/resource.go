package extract

import (
	"strings"

	"github.com/tridium-ingest/internal/models"
	"github.com/tridium-ingest/internal/units"
)

// ResourceExport holds a resource/performance export. Rows carries the
// raw name/value pairs, which stay the source of truth; Metrics is the
// normalized view derived from them.
type ResourceExport struct {
	Rows         []models.ResourceMetricRecord
	Metrics      models.ResourceMetrics
	Unclassified []string
	Warns        []string
}

func (e *ResourceExport) Format() models.FormatType { return models.FormatResource }
func (e *ResourceExport) Warnings() []string        { return e.Warns }

func (e *ResourceExport) Fill(ds *models.ImportedDataset) {
	metrics := e.Metrics
	ds.MetricRows = e.Rows
	ds.Unclassified = e.Unclassified
	ds.Summary = models.DatasetSummary{
		Total:   len(e.Rows),
		Metrics: &metrics,
	}
}

// ExtractResource normalizes a flat metric-name/value table. A field
// missing from the source stays nil in Metrics; it is never defaulted
// to zero.
func ExtractResource(doc models.TabularDocument, opts Options) *ResourceExport {
	e := &ResourceExport{}

	if doc.Empty() {
		e.Warns = append(e.Warns, "empty document: no header row found")
		return e
	}

	nameCol := columnIndex(doc.Headers, "name", "metric", "resource")
	valueCol := columnIndex(doc.Headers, "value")
	if nameCol < 0 {
		nameCol = 0
	}
	if valueCol < 0 || valueCol == nameCol {
		valueCol = nameCol + 1
	}

	for i, row := range doc.Rows {
		name := field(row, nameCol)
		value := field(row, valueCol)
		if name == "" {
			e.Unclassified = append(e.Unclassified, joinRow(row))
			e.Warns = append(e.Warns, rowWarning(i+1, "missing metric name"))
			continue
		}

		e.Rows = append(e.Rows, models.ResourceMetricRecord{Name: name, Value: value})
		e.normalize(name, value, opts)
	}

	return e
}

// normalize folds one raw row into the derived metrics object.
func (e *ResourceExport) normalize(name, value string, opts Options) {
	key := strings.ToLower(name)
	m := &e.Metrics

	switch {
	case strings.Contains(key, "cpu") && strings.Contains(key, "usage"):
		if v, ok := units.Percent(value); ok {
			m.CPUUsage = &v
		}

	case strings.Contains(key, "heap"):
		if v, ok := units.SizeMB(value); ok {
			switch {
			case strings.Contains(key, "used"):
				m.HeapUsedMB = &v
			case strings.Contains(key, "max"):
				m.HeapMaxMB = &v
			case strings.Contains(key, "total"):
				m.HeapTotalMB = &v
			case strings.Contains(key, "free"):
				m.HeapFreeMB = &v
			}
		}

	case strings.Contains(key, "mem"):
		if v, ok := units.SizeMB(value); ok {
			switch {
			case strings.Contains(key, "used"):
				m.MemoryUsedMB = &v
			case strings.Contains(key, "total"):
				m.MemoryTotalMB = &v
			}
			e.deriveMemoryPercent(opts)
		}

	case strings.Contains(key, "uptime"):
		if up, ok := units.Uptime(value); ok {
			m.Uptime = &up
		}

	case strings.Contains(key, "scan"):
		if v, ok := units.Milliseconds(value); ok {
			if m.ScanTimesMs == nil {
				m.ScanTimesMs = map[string]float64{}
			}
			m.ScanTimesMs[name] = v
		}

	default:
		e.normalizeGeneric(name, key, value, opts)
	}
}

// normalizeGeneric handles the rows recognized by value shape rather
// than by name: kRU resource units and "used (Limit: n)" capacities.
func (e *ResourceExport) normalizeGeneric(name, key, value string, opts Options) {
	m := &e.Metrics

	if kru, ok := units.KRU(value); ok {
		if strings.Contains(key, "total") {
			m.TotalKRU = &kru
			return
		}
		if m.ResourceUnits == nil {
			m.ResourceUnits = map[string]float64{}
		}
		m.ResourceUnits[name] = kru
		return
	}

	if strings.Contains(strings.ToLower(value), "(limit:") {
		if c, ok := units.Capacity(value, opts.Rounding); ok {
			if m.Capacities == nil {
				m.Capacities = map[string]models.Capacity{}
			}
			m.Capacities[name] = c
		}
	}
}

// deriveMemoryPercent recomputes the used/total ratio whenever either
// side of it changes.
func (e *ResourceExport) deriveMemoryPercent(opts Options) {
	m := &e.Metrics
	if m.MemoryUsedMB == nil || m.MemoryTotalMB == nil || *m.MemoryTotalMB == 0 {
		return
	}
	pct := *m.MemoryUsedMB / *m.MemoryTotalMB * 100
	pct = roundPercent(pct)
	m.MemoryPercent = &pct
}
