package processor

import (
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/Sphmer/vsr/internal/dataset"
)

// Sort returns a copy of p with rows ordered by the named column. When both
// compared cells parse as numbers they compare numerically, otherwise as
// strings; descending flips the direction. The sort is stable, so rows with
// equal keys keep their relative order. An unknown column returns p
// unchanged.
func Sort(p *ProcessedDataSet, column string, ascending bool) *ProcessedDataSet {
	if !slices.Contains(p.Columns, column) {
		return p
	}
	rows := make([]map[string]string, len(p.Rows))
	copy(rows, p.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		cmp := compareCells(rows[i][column], rows[j][column])
		if ascending {
			return cmp < 0
		}
		return cmp > 0
	})
	return derive(p, rows)
}

// Filter returns a copy of p keeping only rows whose rendered cell in
// column contains needle, compared case-insensitively. An unknown column
// yields an empty row set.
func Filter(p *ProcessedDataSet, column, needle string) *ProcessedDataSet {
	if !slices.Contains(p.Columns, column) {
		return derive(p, nil)
	}
	needle = strings.ToLower(needle)
	var rows []map[string]string
	for _, row := range p.Rows {
		if strings.Contains(strings.ToLower(row[column]), needle) {
			rows = append(rows, row)
		}
	}
	return derive(p, rows)
}

// Limit truncates to the first maxRows rows, preserving order. A set
// already within the bound is returned unchanged.
func Limit(p *ProcessedDataSet, maxRows int) *ProcessedDataSet {
	if maxRows < 0 {
		maxRows = 0
	}
	if len(p.Rows) <= maxRows {
		return p
	}
	rows := make([]map[string]string, maxRows)
	copy(rows, p.Rows[:maxRows])
	return derive(p, rows)
}

// Window keeps rows[start:end), clamping both bounds into range. The full
// window returns p unchanged.
func Window(p *ProcessedDataSet, start, end int) *ProcessedDataSet {
	if start < 0 {
		start = 0
	}
	if end > len(p.Rows) {
		end = len(p.Rows)
	}
	if start > end {
		start = end
	}
	if start == 0 && end == len(p.Rows) {
		return p
	}
	rows := make([]map[string]string, end-start)
	copy(rows, p.Rows[start:end])
	return derive(p, rows)
}

// compareCells orders two rendered cells: numerically when both parse as
// numbers, lexically otherwise.
func compareCells(a, b string) int {
	if dataset.IsNumericString(a) && dataset.IsNumericString(b) {
		fa, _ := strconv.ParseFloat(a, 64)
		fb, _ := strconv.ParseFloat(b, 64)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}

// derive builds a new processed set around rows, recomputing statistics so
// they always describe the rows actually present.
func derive(p *ProcessedDataSet, rows []map[string]string) *ProcessedDataSet {
	columns := slices.Clone(p.Columns)
	return &ProcessedDataSet{
		SetName:     p.SetName,
		View:        p.View,
		Slide:       p.Slide,
		Columns:     columns,
		Rows:        rows,
		ColumnStats: computeStats(columns, rows),
	}
}
