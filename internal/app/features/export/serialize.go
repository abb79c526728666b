// internal/app/features/export/serialize.go
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Format is the download encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps the format query parameter to a Format. "excel" is
// accepted as an alias for xlsx; an empty value defaults to xlsx.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "excel", "xlsx":
		return FormatXLSX, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Ext returns the file extension, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// ContentType returns the MIME type for the download response.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json; charset=utf-8"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

// Filename returns the dated download name, e.g.
// sih-internals-export-2026-08-27.xlsx.
func Filename(f Format, now time.Time) string {
	return fmt.Sprintf("sih-internals-export-%s.%s", now.Format("2006-01-02"), f.Ext())
}

// WriteJSON renders the workbook as a single JSON document. Views the
// scope excluded are absent; included-but-empty views render as empty
// arrays.
func WriteJSON(w io.Writer, wb *Workbook) error {
	doc := map[string]any{
		"generatedAt": wb.GeneratedAt.Format(time.RFC3339),
		"summary":     summaryObject(wb.Summary),
	}
	if wb.Participants != nil {
		doc["participants"] = tableObjects(wb.Participants)
	}
	if wb.Teams != nil {
		doc["teams"] = tableObjects(wb.Teams)
	}
	if wb.Analytics != nil {
		doc["analytics"] = tableObjects(wb.Analytics)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// tableObjects turns rows into column-keyed objects.
func tableObjects(t *Table) []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		obj := make(map[string]string, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(row) {
				obj[col] = row[i]
			} else {
				obj[col] = ""
			}
		}
		out = append(out, obj)
	}
	return out
}

func summaryObject(t *Table) map[string]string {
	obj := make(map[string]string, len(t.Rows))
	for _, row := range t.Rows {
		if len(row) >= 2 {
			obj[row[0]] = row[1]
		}
	}
	return obj
}

// WriteCSV renders the workbook as labeled blocks in one CSV stream,
// summary last. The leading UTF-8 BOM keeps Excel from mangling
// non-ASCII names.
func WriteCSV(w io.Writer, wb *Workbook) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	first := true
	writeTable := func(t *Table) error {
		if t == nil {
			return nil
		}
		if !first {
			if err := cw.Write([]string{""}); err != nil {
				return err
			}
		}
		first = false

		if err := cw.Write([]string{t.Name}); err != nil {
			return err
		}
		if err := cw.Write(t.Columns); err != nil {
			return err
		}
		for _, row := range t.Rows {
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	}

	for _, t := range []*Table{wb.Participants, wb.Teams, wb.Analytics, wb.Summary} {
		if err := writeTable(t); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteXLSX renders the workbook with one sheet per view, summary
// sheet first.
func WriteXLSX(w io.Writer, wb *Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", wb.Summary.Name); err != nil {
		return err
	}
	if err := writeSheet(f, wb.Summary); err != nil {
		return err
	}

	for _, t := range []*Table{wb.Participants, wb.Teams, wb.Analytics} {
		if t == nil {
			continue
		}
		if _, err := f.NewSheet(t.Name); err != nil {
			return err
		}
		if err := writeSheet(f, t); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func writeSheet(f *excelize.File, t *Table) error {
	if err := f.SetSheetRow(t.Name, "A1", &t.Columns); err != nil {
		return err
	}
	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.Name, cell, &row); err != nil {
			return err
		}
	}

	if len(t.Columns) > 0 {
		last, err := excelize.ColumnNumberToName(len(t.Columns))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(t.Name, "A", last, 22); err != nil {
			return err
		}
	}
	return nil
}
