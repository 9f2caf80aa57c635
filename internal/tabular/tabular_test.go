package tabular

import (
	"reflect"
	"testing"
)

func TestParse_Basic(t *testing.T) {
	doc := Parse("Name,Status,Address\nAHU-1,{ok},101\nVAV-2,{down},102\n")

	wantHeaders := []string{"Name", "Status", "Address"}
	if !reflect.DeepEqual(doc.Headers, wantHeaders) {
		t.Errorf("Headers = %v, want %v", doc.Headers, wantHeaders)
	}
	if len(doc.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(doc.Rows))
	}
	if !reflect.DeepEqual(doc.Rows[0], []string{"AHU-1", "{ok}", "101"}) {
		t.Errorf("Rows[0] = %v", doc.Rows[0])
	}
}

func TestParse_BOMAndCRLF(t *testing.T) {
	doc := Parse("\ufeffName,Status\r\nAHU-1,{ok}\rVAV-2,{down}\r\n")

	if !reflect.DeepEqual(doc.Headers, []string{"Name", "Status"}) {
		t.Errorf("Headers = %v, want [Name Status]", doc.Headers)
	}
	if len(doc.Rows) != 2 {
		t.Errorf("len(Rows) = %d, want 2", len(doc.Rows))
	}
}

func TestParse_SkipsEmptyLines(t *testing.T) {
	doc := Parse("\n\nName,Status\n\nAHU-1,{ok}\n   \n")

	if !reflect.DeepEqual(doc.Headers, []string{"Name", "Status"}) {
		t.Errorf("Headers = %v", doc.Headers)
	}
	if len(doc.Rows) != 1 {
		t.Errorf("len(Rows) = %d, want 1", len(doc.Rows))
	}
}

func TestParse_Empty(t *testing.T) {
	for _, in := range []string{"", "\n\n", "  \r\n  "} {
		doc := Parse(in)
		if !doc.Empty() || len(doc.Rows) != 0 {
			t.Errorf("Parse(%q) = %+v, want empty document", in, doc)
		}
	}
}

func TestParse_BracedStatusSurvivesCommas(t *testing.T) {
	doc := Parse("Name,Status,Address\nVAV-3,{down,alarm},103\n")

	want := []string{"VAV-3", "{down,alarm}", "103"}
	if !reflect.DeepEqual(doc.Rows[0], want) {
		t.Errorf("Rows[0] = %v, want %v", doc.Rows[0], want)
	}
}

func TestParse_QuotedFields(t *testing.T) {
	doc := Parse("Name,Vendor\n\"Boiler, West Wing\",Honeywell\n")

	want := []string{"Boiler, West Wing", "Honeywell"}
	if !reflect.DeepEqual(doc.Rows[0], want) {
		t.Errorf("Rows[0] = %v, want %v", doc.Rows[0], want)
	}
}

func TestParse_PreservesMalformedArity(t *testing.T) {
	doc := Parse("A,B,C\n1,2\n1,2,3,4\n")

	if len(doc.Rows[0]) != 2 {
		t.Errorf("short row padded: %v", doc.Rows[0])
	}
	if len(doc.Rows[1]) != 4 {
		t.Errorf("long row truncated: %v", doc.Rows[1])
	}
}

func TestParse_TabDelimited(t *testing.T) {
	doc := Parse("Name\tStatus\nAHU-1\t{ok}\n")

	if !reflect.DeepEqual(doc.Headers, []string{"Name", "Status"}) {
		t.Errorf("Headers = %v", doc.Headers)
	}
	if !reflect.DeepEqual(doc.Rows[0], []string{"AHU-1", "{ok}"}) {
		t.Errorf("Rows[0] = %v", doc.Rows[0])
	}
}

func TestParse_Idempotent(t *testing.T) {
	content := "Name,Status\nAHU-1,{ok}\n"
	a := Parse(content)
	b := Parse(content)
	if !reflect.DeepEqual(a, b) {
		t.Error("Parse not deterministic for identical input")
	}
}
