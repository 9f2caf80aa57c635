package extract

import (
	"strings"

	"github.com/tridium-ingest/internal/models"
	"github.com/tridium-ingest/internal/units"
)

// NetworkExport holds the stations of a Niagara network topology export.
type NetworkExport struct {
	Nodes        []models.NetworkNodeRecord
	Summary      models.DatasetSummary
	Unclassified []string
	Warns        []string
}

func (e *NetworkExport) Format() models.FormatType { return models.FormatNetwork }
func (e *NetworkExport) Warnings() []string        { return e.Warns }

func (e *NetworkExport) Fill(ds *models.ImportedDataset) {
	ds.Nodes = e.Nodes
	ds.Summary = e.Summary
	ds.Unclassified = e.Unclassified
}

// ExtractNetwork converts each row into a NetworkNodeRecord and computes
// connected/disconnected counts, alarm counts and a host-model histogram.
func ExtractNetwork(doc models.TabularDocument) *NetworkExport {
	e := &NetworkExport{}

	if doc.Empty() {
		e.Warns = append(e.Warns, "empty document: no header row found")
		e.Summary = models.DatasetSummary{Total: 0}
		return e
	}

	pathCol := columnIndex(doc.Headers, "path")
	nameCol := columnIndex(doc.Headers, "station name", "name")
	addrCol := columnIndex(doc.Headers, "ip", "address", "addr")
	modelCol := columnIndex(doc.Headers, "host model", "hostmodel", "model")
	versionCol := columnIndex(doc.Headers, "version")
	connectedCol := columnIndex(doc.Headers, "connected", "client conn", "conn")
	statusCol := columnIndex(doc.Headers, "status")

	byHostModel := map[string]int{}
	connected, disconnected, alarms := 0, 0, 0

	for i, row := range doc.Rows {
		name := field(row, nameCol)
		path := field(row, pathCol)
		if name == "" && path == "" {
			e.Unclassified = append(e.Unclassified, joinRow(row))
			e.Warns = append(e.Warns, rowWarning(i+1, "missing station name and path"))
			continue
		}
		if name == "" {
			name = lastPathSegment(path)
		}

		node := models.NetworkNodeRecord{
			Path:      path,
			Name:      name,
			Address:   field(row, addrCol),
			HostModel: field(row, modelCol),
			Version:   field(row, versionCol),
			Connected: parseConnected(field(row, connectedCol)),
			Status:    strings.Trim(field(row, statusCol), "{}[]"),
		}

		if node.Connected {
			connected++
		} else {
			disconnected++
		}
		if strings.Contains(strings.ToLower(node.Status), "alarm") {
			alarms++
		}
		if node.HostModel != "" {
			byHostModel[node.HostModel]++
		}

		e.Nodes = append(e.Nodes, node)
	}

	e.Summary = models.DatasetSummary{
		Total:        len(e.Nodes),
		ByHostModel:  byHostModel,
		Connected:    connected,
		Disconnected: disconnected,
		AlarmCount:   alarms,
	}
	return e
}

// parseConnected accepts the spellings the exports use for a live
// station connection.
func parseConnected(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "connected", "up", "ok":
		return true
	}
	// Some exports put the state in a status set, e.g. "{connected}".
	for _, token := range units.StatusSet(s) {
		if token == "connected" || token == "up" {
			return true
		}
	}
	return false
}

// lastPathSegment names a node from its ord path when the export has no
// name column.
func lastPathSegment(path string) string {
	path = strings.TrimRight(path, "/")
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
