package extract

import (
	"testing"

	"github.com/tridium-ingest/internal/tabular"
)

const bacnetCSV = "Device ID,Name,Vendor,Model,Status,Health\n" +
	"77,AHU-1,Honeywell,Spyder,{ok},Ok [21-May-26 9:00 AM]\n" +
	"78,VAV-2,Johnson Controls,FEC,{down},Fail [20-May-26 3:02 PM]\n" +
	"79,VAV-3,Honeywell,Spyder,{unackedAlarm},Ok [21-May-26 9:01 AM]\n" +
	"80,CHW-1,Distech,ECY,{ok},Ok [21-May-26 9:02 AM]\n"

func TestExtractBACnet(t *testing.T) {
	e := ExtractBACnet(tabular.Parse(bacnetCSV))

	if e.Summary.Total != 4 {
		t.Fatalf("Total = %d, want 4", e.Summary.Total)
	}

	dev := e.Devices[0]
	if dev.DeviceID != "77" || dev.Vendor != "Honeywell" || dev.Model != "Spyder" {
		t.Errorf("device = %+v", dev)
	}
	if !dev.Healthy {
		t.Error("device 77 should be healthy")
	}

	if e.Devices[1].Healthy {
		t.Error("device 78 is down, should not be healthy")
	}
	if !e.Devices[2].UnackedAlarms {
		t.Error("device 79 should flag unacked alarms")
	}
	if e.Devices[2].Healthy {
		t.Error("device 79 has an unacked alarm, should not be healthy")
	}

	// 2 of 4 healthy.
	if e.Summary.HealthyPercent == nil || *e.Summary.HealthyPercent != 50 {
		t.Errorf("HealthyPercent = %v, want 50", e.Summary.HealthyPercent)
	}
	if e.Summary.ByVendor["Honeywell"] != 2 {
		t.Errorf("ByVendor = %v", e.Summary.ByVendor)
	}
	if e.Summary.ByModel["Spyder"] != 2 {
		t.Errorf("ByModel = %v", e.Summary.ByModel)
	}
}

func TestExtractBACnet_HealthTextOverridesStatus(t *testing.T) {
	e := ExtractBACnet(tabular.Parse("Device ID,Name,Status,Health\n1,AHU,{ok},Fail [x]\n"))

	if e.Devices[0].Healthy {
		t.Error("failed health text should mark the device unhealthy")
	}
}

func TestExtractBACnet_RowWithoutIdentity(t *testing.T) {
	e := ExtractBACnet(tabular.Parse("Device ID,Name,Vendor\n1,AHU,Honeywell\n,,Distech\n"))

	if len(e.Devices) != 1 || len(e.Unclassified) != 1 || len(e.Warns) != 1 {
		t.Errorf("devices=%d unclassified=%d warns=%d, want 1/1/1",
			len(e.Devices), len(e.Unclassified), len(e.Warns))
	}
}
