package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table holds rows read from delimited or spreadsheet input. Header keeps
// the first row verbatim so the source column order survives into display.
// Records may be ragged; missing trailing cells read as empty strings.
type Table struct {
	Header  []string
	Records [][]string
}

// Cell returns the value at row, column, or an empty string when the record
// is shorter than the header.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Records) {
		return ""
	}
	rec := t.Records[row]
	if col < 0 || col >= len(rec) {
		return ""
	}
	return rec[col]
}

// ReadCSV parses comma-delimited text with a header row. Fields are trimmed
// of surrounding whitespace. Records may have fewer or more fields than the
// header row.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}
	t := &Table{
		Header:  trimFields(records[0]),
		Records: make([][]string, 0, len(records)-1),
	}
	for _, rec := range records[1:] {
		t.Records = append(t.Records, trimFields(rec))
	}
	return t, nil
}

// ReadXLSX parses the first sheet of an Excel workbook. The first row is
// the header; the remaining rows become records with cell values rendered
// as strings by the spreadsheet library.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Table{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}
	t := &Table{
		Header:  trimFields(rows[0]),
		Records: make([][]string, 0, len(rows)-1),
	}
	for _, rec := range rows[1:] {
		t.Records = append(t.Records, trimFields(rec))
	}
	return t, nil
}

func trimFields(rec []string) []string {
	out := make([]string, len(rec))
	for i, f := range rec {
		out[i] = strings.TrimSpace(f)
	}
	return out
}
