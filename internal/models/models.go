package models

import (
	"time"
)

// FormatType identifies which Tridium export format a file contains.
type FormatType string

const (
	FormatN2       FormatType = "n2"
	FormatBACnet   FormatType = "bacnet"
	FormatResource FormatType = "resource"
	FormatPlatform FormatType = "platform"
	FormatNetwork  FormatType = "network"
	FormatUnknown  FormatType = "unknown"
)

// RawImportFile is an uploaded export file after text decoding.
type RawImportFile struct {
	FileName string `json:"file_name"`
	Content  string `json:"-"`
	Size     int64  `json:"size"`
}

// DetectionResult is the format detector's verdict for one file.
// Confidence is a heuristic score in [0,100], not a probability.
type DetectionResult struct {
	Format     FormatType `bson:"format" json:"format"`
	Confidence int        `bson:"confidence" json:"confidence"`
	Warnings   []string   `bson:"warnings,omitempty" json:"warnings,omitempty"`
	RawPreview [][]string `bson:"raw_preview,omitempty" json:"raw_preview,omitempty"`
}

// TabularDocument is the output of the generic delimited-text parser.
// Row arity is not enforced against Headers; callers check it because
// some exports intentionally carry short or long rows.
type TabularDocument struct {
	Headers []string   `bson:"headers" json:"headers"`
	Rows    [][]string `bson:"rows" json:"rows"`
}

// Empty reports whether the document has no header row at all.
func (d TabularDocument) Empty() bool {
	return len(d.Headers) == 0
}

// DeviceRecord is one field device from an N2 or BACnet export.
// Status is a set of simultaneous status tokens, e.g. {down, alarm}.
type DeviceRecord struct {
	Name          string   `bson:"name" json:"name"`
	Address       string   `bson:"address,omitempty" json:"address,omitempty"`
	DeviceID      string   `bson:"device_id,omitempty" json:"deviceId,omitempty"`
	Status        []string `bson:"status" json:"status"`
	Vendor        string   `bson:"vendor,omitempty" json:"vendor,omitempty"`
	Model         string   `bson:"model,omitempty" json:"model,omitempty"`
	Type          string   `bson:"type,omitempty" json:"type,omitempty"`
	PointCount    *int     `bson:"point_count,omitempty" json:"pointCount,omitempty"`
	Healthy       bool     `bson:"healthy" json:"healthy"`
	UnackedAlarms bool     `bson:"unacked_alarms,omitempty" json:"unackedAlarms,omitempty"`
}

// ResourceMetricRecord is one raw name/value row from a resource export.
// Raw rows are the source of truth; ResourceMetrics is derived from them.
type ResourceMetricRecord struct {
	Name  string `bson:"name" json:"name"`
	Value string `bson:"value" json:"value"`
}

// Capacity is a parsed "used (Limit: limit)" pair. Licensed and Percent
// are nil when the limit is "none" (unlimited).
type Capacity struct {
	Used     float64  `bson:"used" json:"used"`
	Licensed *float64 `bson:"licensed,omitempty" json:"licensed,omitempty"`
	Percent  *float64 `bson:"percent,omitempty" json:"percent,omitempty"`
}

// Uptime is a parsed station uptime.
type Uptime struct {
	Days    int `bson:"days" json:"days"`
	Hours   int `bson:"hours" json:"hours"`
	Minutes int `bson:"minutes" json:"minutes"`
}

// ResourceMetrics is the normalized view of a resource export. Every
// field is optional: nil means the source row was absent, never zero.
type ResourceMetrics struct {
	CPUUsage      *float64            `bson:"cpu_usage,omitempty" json:"cpuUsage,omitempty"`
	HeapUsedMB    *float64            `bson:"heap_used_mb,omitempty" json:"heapUsedMB,omitempty"`
	HeapMaxMB     *float64            `bson:"heap_max_mb,omitempty" json:"heapMaxMB,omitempty"`
	HeapTotalMB   *float64            `bson:"heap_total_mb,omitempty" json:"heapTotalMB,omitempty"`
	HeapFreeMB    *float64            `bson:"heap_free_mb,omitempty" json:"heapFreeMB,omitempty"`
	MemoryUsedMB  *float64            `bson:"memory_used_mb,omitempty" json:"memoryUsedMB,omitempty"`
	MemoryTotalMB *float64            `bson:"memory_total_mb,omitempty" json:"memoryTotalMB,omitempty"`
	MemoryPercent *float64            `bson:"memory_percent,omitempty" json:"memoryPercent,omitempty"`
	Capacities    map[string]Capacity `bson:"capacities,omitempty" json:"capacities,omitempty"`
	ScanTimesMs   map[string]float64  `bson:"scan_times_ms,omitempty" json:"scanTimesMs,omitempty"`
	ResourceUnits map[string]float64  `bson:"resource_units,omitempty" json:"resourceUnits,omitempty"`
	TotalKRU      *float64            `bson:"total_kru,omitempty" json:"totalKRU,omitempty"`
	Uptime        *Uptime             `bson:"uptime,omitempty" json:"uptime,omitempty"`
}

// NetworkNodeRecord is one station from a Niagara network export.
type NetworkNodeRecord struct {
	Path      string `bson:"path,omitempty" json:"path,omitempty"`
	Name      string `bson:"name" json:"name"`
	Address   string `bson:"address,omitempty" json:"address,omitempty"`
	HostModel string `bson:"host_model,omitempty" json:"hostModel,omitempty"`
	Version   string `bson:"version,omitempty" json:"version,omitempty"`
	Connected bool   `bson:"connected" json:"connected"`
	Status    string `bson:"status,omitempty" json:"status,omitempty"`
}

// PlatformModule is one installed software module.
type PlatformModule struct {
	Name    string `bson:"name" json:"name"`
	Vendor  string `bson:"vendor,omitempty" json:"vendor,omitempty"`
	Version string `bson:"version,omitempty" json:"version,omitempty"`
}

// PlatformLicense is one installed license with its expiry text.
type PlatformLicense struct {
	Name    string `bson:"name" json:"name"`
	Vendor  string `bson:"vendor,omitempty" json:"vendor,omitempty"`
	Expires string `bson:"expires,omitempty" json:"expires,omitempty"`
}

// PlatformApplication is one station/application listed by the platform.
type PlatformApplication struct {
	Name      string `bson:"name" json:"name"`
	Type      string `bson:"type,omitempty" json:"type,omitempty"`
	Status    string `bson:"status,omitempty" json:"status,omitempty"`
	Autostart bool   `bson:"autostart,omitempty" json:"autostart,omitempty"`
}

// PlatformFilesystem is one filesystem row from the platform details.
type PlatformFilesystem struct {
	Path  string `bson:"path" json:"path"`
	Free  string `bson:"free,omitempty" json:"free,omitempty"`
	Total string `bson:"total,omitempty" json:"total,omitempty"`
}

// PlatformSummaryRecord holds the parsed platform-details export.
type PlatformSummaryRecord struct {
	Model           string                `bson:"model,omitempty" json:"model,omitempty"`
	Product         string                `bson:"product,omitempty" json:"product,omitempty"`
	DaemonVersion   string                `bson:"daemon_version,omitempty" json:"daemonVersion,omitempty"`
	HostID          string                `bson:"host_id,omitempty" json:"hostId,omitempty"`
	Architecture    string                `bson:"architecture,omitempty" json:"architecture,omitempty"`
	OperatingSystem string                `bson:"operating_system,omitempty" json:"operatingSystem,omitempty"`
	Modules         []PlatformModule      `bson:"modules,omitempty" json:"modules,omitempty"`
	Licenses        []PlatformLicense     `bson:"licenses,omitempty" json:"licenses,omitempty"`
	Applications    []PlatformApplication `bson:"applications,omitempty" json:"applications,omitempty"`
	Filesystems     []PlatformFilesystem  `bson:"filesystems,omitempty" json:"filesystems,omitempty"`
}

// PlatformSections flags which subsections a platform file contains,
// used for a structural-completeness preview before the full parse.
type PlatformSections struct {
	HasSummary     bool `bson:"has_summary" json:"hasSummary"`
	HasHostID      bool `bson:"has_host_id" json:"hasHostId"`
	HasRuntimeInfo bool `bson:"has_runtime_info" json:"hasRuntimeInfo"`
	HasTLSConfig   bool `bson:"has_tls_config" json:"hasTlsConfig"`
	HasSystemPaths bool `bson:"has_system_paths" json:"hasSystemPaths"`
	HasModules     bool `bson:"has_modules" json:"hasModules"`
	HasFilesystems bool `bson:"has_filesystems" json:"hasFilesystems"`
	LineCount      int  `bson:"line_count" json:"lineCount"`
}

// DatasetSummary carries the aggregate counts a dataset's preview and
// report need. Only the fields relevant to the format are populated.
type DatasetSummary struct {
	Total          int               `bson:"total" json:"total"`
	ByStatus       map[string]int    `bson:"by_status,omitempty" json:"byStatus,omitempty"`
	ByType         map[string]int    `bson:"by_type,omitempty" json:"byType,omitempty"`
	ByVendor       map[string]int    `bson:"by_vendor,omitempty" json:"byVendor,omitempty"`
	ByModel        map[string]int    `bson:"by_model,omitempty" json:"byModel,omitempty"`
	ByHostModel    map[string]int    `bson:"by_host_model,omitempty" json:"byHostModel,omitempty"`
	HealthyPercent *float64          `bson:"healthy_percent,omitempty" json:"healthyPercent,omitempty"`
	Connected      int               `bson:"connected,omitempty" json:"connected,omitempty"`
	Disconnected   int               `bson:"disconnected,omitempty" json:"disconnected,omitempty"`
	AlarmCount     int               `bson:"alarm_count,omitempty" json:"alarmCount,omitempty"`
	Metrics        *ResourceMetrics  `bson:"metrics,omitempty" json:"metrics,omitempty"`
	Sections       *PlatformSections `bson:"sections,omitempty" json:"sections,omitempty"`
}

// ImportedDataset is the persisted unit produced by one successful
// extraction. It is never mutated after creation; re-importing the same
// file creates a new dataset.
type ImportedDataset struct {
	ID             string                 `bson:"_id" json:"id"`
	Format         FormatType             `bson:"format" json:"format"`
	SourceFileName string                 `bson:"source_file_name" json:"sourceFileName"`
	ImportedAt     time.Time              `bson:"imported_at" json:"importedAt"`
	Confidence     int                    `bson:"confidence" json:"confidence"`
	Forced         bool                   `bson:"forced,omitempty" json:"forced,omitempty"`
	Warnings       []string               `bson:"warnings,omitempty" json:"warnings,omitempty"`
	Summary        DatasetSummary         `bson:"summary" json:"summary"`
	Devices        []DeviceRecord         `bson:"devices,omitempty" json:"devices,omitempty"`
	Nodes          []NetworkNodeRecord    `bson:"nodes,omitempty" json:"nodes,omitempty"`
	MetricRows     []ResourceMetricRecord `bson:"metric_rows,omitempty" json:"metricRows,omitempty"`
	Platform       *PlatformSummaryRecord `bson:"platform,omitempty" json:"platform,omitempty"`
	Unclassified   []string               `bson:"unclassified,omitempty" json:"unclassified,omitempty"`
	Headers        []string               `bson:"headers,omitempty" json:"headers,omitempty"`
	Rows           [][]string             `bson:"rows,omitempty" json:"rows,omitempty"`
}

// ImportError records a file that could not be imported.
type ImportError struct {
	FileName  string     `bson:"file_name" json:"file_name"`
	Format    FormatType `bson:"format,omitempty" json:"format,omitempty"`
	ErrorMsg  string     `bson:"error_msg" json:"error_msg"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
}

// DataType is the coercion target for a mapped column.
type DataType string

const (
	TypeText    DataType = "text"
	TypeNumber  DataType = "number"
	TypeBoolean DataType = "boolean"
	TypeArray   DataType = "array"
	TypeDate    DataType = "date"
)

// ColumnMapping proposes how one source column maps onto a semantic
// field of the detected format.
type ColumnMapping struct {
	SourceHeader string   `bson:"source_header" json:"sourceHeader"`
	TargetField  string   `bson:"target_field" json:"targetField"`
	DataType     DataType `bson:"data_type" json:"dataType"`
	Enabled      bool     `bson:"enabled" json:"enabled"`
	Required     bool     `bson:"required" json:"required"`
}

// ImportResult is the outcome of applying column mappings to every row
// of a document. ProcessedRows always equals TotalRows.
type ImportResult struct {
	TotalRows     int                      `json:"totalRows"`
	ProcessedRows int                      `json:"processedRows"`
	Records       []map[string]interface{} `json:"records"`
	Headers       []string                 `json:"headers"`
	Rows          [][]string               `json:"rows"`
	Summary       DatasetSummary           `json:"summary"`
	Warnings      []string                 `json:"warnings,omitempty"`
}

// PaginatedDatasets is the list response for stored datasets.
type PaginatedDatasets struct {
	Data       []ImportedDataset `json:"data"`
	Total      int64             `json:"total"`
	Page       int64             `json:"page"`
	Limit      int64             `json:"limit"`
	TotalPages int64             `json:"total_pages"`
}
