package extract

import (
	"testing"
)

const platformText = `Platform summary for 192.168.1.140:
  Daemon Version: 4.10.0.154
  Model: TITAN
  Product: JACE-8000
  Host ID: Qnx-TITAN-D5E5-04D3
  Architecture: armv7
  Operating System: qnx (4.10.0.154)
  Niagara Runtime: nre-core-qnx-armle-v7 (4.10.0.154)
  System Home: /opt/niagara
  TLS Support: enabled

Modules:
  alarm-rt (Tridium 4.10.0.154)
  bacnet-rt (Tridium 4.10.0.154)

Licenses:
  Tridium.license (Tridium - expires 2027-01-01)

Applications:
  station "HQ_Main" autostart=true status=Running

Filesystems:
  / 120MB 512MB
  /mnt/aram0 52MB 96MB
`

func TestExtractPlatform(t *testing.T) {
	e := ExtractPlatform(platformText)
	r := e.Record

	if r.DaemonVersion != "4.10.0.154" {
		t.Errorf("DaemonVersion = %q", r.DaemonVersion)
	}
	if r.Model != "TITAN" || r.Product != "JACE-8000" {
		t.Errorf("Model/Product = %q/%q", r.Model, r.Product)
	}
	if r.HostID != "Qnx-TITAN-D5E5-04D3" {
		t.Errorf("HostID = %q", r.HostID)
	}
	if r.Architecture != "armv7" {
		t.Errorf("Architecture = %q", r.Architecture)
	}

	if len(r.Modules) != 2 {
		t.Fatalf("len(Modules) = %d, want 2", len(r.Modules))
	}
	if r.Modules[0].Name != "alarm-rt" || r.Modules[0].Vendor != "Tridium" || r.Modules[0].Version != "4.10.0.154" {
		t.Errorf("module = %+v", r.Modules[0])
	}

	if len(r.Licenses) != 1 {
		t.Fatalf("len(Licenses) = %d, want 1", len(r.Licenses))
	}
	if r.Licenses[0].Vendor != "Tridium" || r.Licenses[0].Expires != "2027-01-01" {
		t.Errorf("license = %+v", r.Licenses[0])
	}

	if len(r.Applications) != 1 {
		t.Fatalf("len(Applications) = %d, want 1", len(r.Applications))
	}
	app := r.Applications[0]
	if app.Name != "HQ_Main" || !app.Autostart || app.Status != "Running" {
		t.Errorf("application = %+v", app)
	}

	if len(r.Filesystems) != 2 {
		t.Fatalf("len(Filesystems) = %d, want 2", len(r.Filesystems))
	}
	if r.Filesystems[1].Path != "/mnt/aram0" || r.Filesystems[1].Free != "52MB" || r.Filesystems[1].Total != "96MB" {
		t.Errorf("filesystem = %+v", r.Filesystems[1])
	}
}

func TestExtractPlatform_Sections(t *testing.T) {
	e := ExtractPlatform(platformText)
	s := e.Sections

	if !s.HasSummary || !s.HasHostID || !s.HasRuntimeInfo || !s.HasTLSConfig ||
		!s.HasSystemPaths || !s.HasModules || !s.HasFilesystems {
		t.Errorf("sections = %+v, want all present", s)
	}
	if s.LineCount == 0 {
		t.Error("LineCount not counted")
	}
}

func TestExtractPlatform_MissingSections(t *testing.T) {
	e := ExtractPlatform("Daemon Version: 4.10.0.154\nHost ID: Qnx-0001\n")
	s := e.Sections

	if s.HasModules || s.HasFilesystems || s.HasTLSConfig {
		t.Errorf("sections = %+v, want modules/filesystems/tls absent", s)
	}
	if !s.HasHostID {
		t.Error("HasHostID = false, want true")
	}
}

func TestExtractPlatform_UnparsableSectionLineKept(t *testing.T) {
	e := ExtractPlatform("Modules:\n  this is not a module line\n")

	if len(e.Unclassified) != 1 {
		t.Fatalf("len(Unclassified) = %d, want 1", len(e.Unclassified))
	}
	if len(e.Record.Modules) != 0 {
		t.Errorf("Modules = %v, want none", e.Record.Modules)
	}
}

func TestExtractPlatform_TruncatedFileWarns(t *testing.T) {
	e := ExtractPlatform("just some text\n")

	if len(e.Warns) == 0 {
		t.Error("expected a truncated-file warning")
	}
}
