package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatXLSX, false},
		{"excel", FormatXLSX, false},
		{"xlsx", FormatXLSX, false},
		{"CSV", FormatCSV, false},
		{"json", FormatJSON, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 27, 9, 30, 0, 0, time.UTC)
	if got := Filename(FormatXLSX, now); got != "sih-internals-export-2026-08-27.xlsx" {
		t.Errorf("Filename = %q", got)
	}
	if got := Filename(FormatCSV, now); got != "sih-internals-export-2026-08-27.csv" {
		t.Errorf("Filename = %q", got)
	}
}

func TestWriteJSON_ScopeKeys(t *testing.T) {
	participants, teams := testFixtures()
	cat := testCatalog(t)

	var buf bytes.Buffer
	wb := BuildExport(participants, teams, cat, testNow(), ScopeParticipants)
	if err := WriteJSON(&buf, wb); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if _, ok := doc["participants"]; !ok {
		t.Error("participants key missing for sheets=participants")
	}
	if _, ok := doc["summary"]; !ok {
		t.Error("summary key must always be present")
	}
	if _, ok := doc["teams"]; ok {
		t.Error("teams key present despite sheets=participants")
	}
	if _, ok := doc["analytics"]; ok {
		t.Error("analytics key present despite sheets=participants")
	}
}

func TestWriteJSON_RowObjects(t *testing.T) {
	participants, teams := testFixtures()

	var buf bytes.Buffer
	wb := BuildExport(participants, teams, testCatalog(t), testNow(), ScopeAll)
	if err := WriteJSON(&buf, wb); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var doc struct {
		Participants []map[string]string `json:"participants"`
		Summary      map[string]string   `json:"summary"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(doc.Participants) != 3 {
		t.Fatalf("participants = %d, want 3", len(doc.Participants))
	}
	var alice map[string]string
	for _, p := range doc.Participants {
		if p["Email"] == "a@x.com" {
			alice = p
		}
	}
	if alice == nil || alice["Team Role"] != "Leader" {
		t.Errorf("Alice object = %v, want Team Role Leader", alice)
	}
	if doc.Summary["Total Participants"] != "3" {
		t.Errorf("summary totals = %v", doc.Summary)
	}
}

func TestWriteCSV_RoundTrips(t *testing.T) {
	participants, teams := testFixtures()
	// Force RFC 4180 quoting through the encoder.
	participants[0].Name = `Alice "Ace", Jr.`

	var buf bytes.Buffer
	wb := BuildExport(participants, teams, testCatalog(t), testNow(), ScopeParticipants)
	if err := WriteCSV(&buf, wb); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	raw := buf.Bytes()
	if !bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("CSV output missing UTF-8 BOM")
	}

	cr := csv.NewReader(bytes.NewReader(raw[3:]))
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		t.Fatalf("output is not parseable CSV: %v", err)
	}

	var found bool
	for _, rec := range records {
		for _, field := range rec {
			if field == `Alice "Ace", Jr.` {
				found = true
			}
		}
	}
	if !found {
		t.Error("quoted field did not survive the round trip")
	}

	// Summary block comes last.
	var lastLabel string
	for _, rec := range records {
		if len(rec) == 1 && rec[0] != "" {
			lastLabel = rec[0]
		}
	}
	if lastLabel != "Summary" {
		t.Errorf("last block label = %q, want Summary", lastLabel)
	}
}

func TestWriteCSV_EmptyData(t *testing.T) {
	var buf bytes.Buffer
	wb := BuildExport(nil, nil, testCatalog(t), testNow(), ScopeAll)
	if err := WriteCSV(&buf, wb); err != nil {
		t.Fatalf("WriteCSV on empty data: %v", err)
	}
	if !strings.Contains(buf.String(), "Participants") {
		t.Error("empty export still labels its blocks")
	}
}

func TestWriteXLSX_ProducesWorkbook(t *testing.T) {
	participants, teams := testFixtures()

	var buf bytes.Buffer
	wb := BuildExport(participants, teams, testCatalog(t), testNow(), ScopeAll)
	if err := WriteXLSX(&buf, wb); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	// An xlsx file is a zip archive; check the magic bytes rather than
	// re-parsing the whole workbook.
	if buf.Len() < 4 || buf.Bytes()[0] != 'P' || buf.Bytes()[1] != 'K' {
		t.Error("output does not look like an xlsx (zip) file")
	}
}

func TestWriteXLSX_EmptyData(t *testing.T) {
	var buf bytes.Buffer
	wb := BuildExport(nil, nil, testCatalog(t), testNow(), ScopeAll)
	if err := WriteXLSX(&buf, wb); err != nil {
		t.Fatalf("WriteXLSX on empty data: %v", err)
	}
}

func TestContentTypes(t *testing.T) {
	if got := FormatCSV.ContentType(); !strings.HasPrefix(got, "text/csv") {
		t.Errorf("csv content type = %q", got)
	}
	if got := FormatJSON.ContentType(); !strings.HasPrefix(got, "application/json") {
		t.Errorf("json content type = %q", got)
	}
	if got := FormatXLSX.ContentType(); !strings.Contains(got, "spreadsheetml") {
		t.Errorf("xlsx content type = %q", got)
	}
}
