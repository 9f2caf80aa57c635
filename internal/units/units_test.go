package units

import (
	"reflect"
	"testing"

	"github.com/tridium-ingest/internal/models"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{"1,234", 1234, true},
		{"12,345.67", 12345.67, true},
		{"-5", -5, true},
		{"45%", 45, true},
		{"", 0, false},
		{"n/a", 0, false},
	}

	for _, tt := range tests {
		got, ok := Number(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Number(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSizeMB(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"2048 KB", 2, true},
		{"1 GB", 1024, true},
		{"500 B", 0, true},
		{"512 MB", 512, true},
		{"1.5 GiB", 1536, true},
		{"1,024 KB", 1, true},
		{"2048KB", 2, true},
		{"fast", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := SizeMB(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("SizeMB(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCapacity(t *testing.T) {
	c, ok := Capacity("120 (Limit: 200)", RoundHalfUp)
	if !ok {
		t.Fatal("Capacity() not ok")
	}
	if c.Used != 120 {
		t.Errorf("Used = %v, want 120", c.Used)
	}
	if c.Licensed == nil || *c.Licensed != 200 {
		t.Errorf("Licensed = %v, want 200", c.Licensed)
	}
	if c.Percent == nil || *c.Percent != 60 {
		t.Errorf("Percent = %v, want 60", c.Percent)
	}
}

func TestCapacity_NoLimit(t *testing.T) {
	c, ok := Capacity("50 (Limit: none)", RoundHalfUp)
	if !ok {
		t.Fatal("Capacity() not ok")
	}
	if c.Used != 50 {
		t.Errorf("Used = %v, want 50", c.Used)
	}
	if c.Licensed != nil {
		t.Errorf("Licensed = %v, want nil", *c.Licensed)
	}
	if c.Percent != nil {
		t.Errorf("Percent = %v, want nil", *c.Percent)
	}
}

func TestCapacity_Rounding(t *testing.T) {
	// 2/3 = 66.67%: half-up rounds to 67, truncate cuts to 66.
	c, _ := Capacity("2 (Limit: 3)", RoundHalfUp)
	if c.Percent == nil || *c.Percent != 67 {
		t.Errorf("RoundHalfUp percent = %v, want 67", c.Percent)
	}

	c, _ = Capacity("2 (Limit: 3)", Truncate)
	if c.Percent == nil || *c.Percent != 66 {
		t.Errorf("Truncate percent = %v, want 66", c.Percent)
	}
}

func TestCapacity_BareNumber(t *testing.T) {
	c, ok := Capacity("1,250", RoundHalfUp)
	if !ok || c.Used != 1250 || c.Licensed != nil {
		t.Errorf("Capacity(\"1,250\") = (%+v, %v), want bare used=1250", c, ok)
	}
}

func TestUptime(t *testing.T) {
	tests := []struct {
		in   string
		want models.Uptime
		ok   bool
	}{
		{"3 days 4 hours 10 minutes", models.Uptime{Days: 3, Hours: 4, Minutes: 10}, true},
		{"3d 4h 10m", models.Uptime{Days: 3, Hours: 4, Minutes: 10}, true},
		{"1 day 2 hours 5 mins", models.Uptime{Days: 1, Hours: 2, Minutes: 5}, true},
		{"01:02:03:04", models.Uptime{Days: 1, Hours: 2, Minutes: 3}, true},
		{"02:03:04", models.Uptime{Hours: 2, Minutes: 3}, true},
		{"", models.Uptime{}, false},
		{"running", models.Uptime{}, false},
	}

	for _, tt := range tests {
		got, ok := Uptime(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Uptime(%q) = (%+v, %v), want (%+v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestStatusSet(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"{down,alarm}", []string{"down", "alarm"}},
		{"{ok}", []string{"ok"}},
		{"", []string{}},
		{"[unackedAlarm, down]", []string{"unackedalarm", "down"}},
		{"ok", []string{"ok"}},
		{"{}", []string{}},
	}

	for _, tt := range tests {
		got := StatusSet(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("StatusSet(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMilliseconds(t *testing.T) {
	if v, ok := Milliseconds("12.3 ms"); !ok || v != 12.3 {
		t.Errorf("Milliseconds(\"12.3 ms\") = (%v, %v), want (12.3, true)", v, ok)
	}
	if _, ok := Milliseconds("12.3 s"); ok {
		t.Error("Milliseconds(\"12.3 s\") ok, want false")
	}
}

func TestKRU(t *testing.T) {
	if v, ok := KRU("236 kRU"); !ok || v != 236 {
		t.Errorf("KRU(\"236 kRU\") = (%v, %v), want (236, true)", v, ok)
	}
	if _, ok := KRU("236"); ok {
		t.Error("KRU(\"236\") ok, want false")
	}
}

func TestPercent(t *testing.T) {
	if v, ok := Percent("45%"); !ok || v != 45 {
		t.Errorf("Percent(\"45%%\") = (%v, %v), want (45, true)", v, ok)
	}
	if v, ok := Percent("12.5"); !ok || v != 12.5 {
		t.Errorf("Percent(\"12.5\") = (%v, %v), want (12.5, true)", v, ok)
	}
}
