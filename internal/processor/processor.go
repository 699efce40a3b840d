// Package processor projects data sets through view preferences into
// render-ready tables of display strings with per-column statistics.
package processor

import (
	"strconv"

	"github.com/montanaflynn/stats"

	"github.com/Sphmer/vsr/internal/config"
	"github.com/Sphmer/vsr/internal/dataset"
)

// MissingCell is the sentinel rendered for a column absent from a row.
const MissingCell = "N/A"

// ColumnStats summarizes one column of a processed set. When IsNumeric is
// true the numeric fields cover exactly the cells that parse as numbers and
// Count is their number; otherwise Count is the total row count and the
// numeric fields stay zero.
type ColumnStats struct {
	IsNumeric bool
	Min       float64
	Max       float64
	Sum       float64
	Avg       float64
	Count     int
}

// ProcessedDataSet is a data set after column selection, string rendering,
// and statistics computation, ready for display. Derived operations return
// new values; a processed set is never mutated in place.
type ProcessedDataSet struct {
	SetName     string
	View        config.ViewKind
	Slide       int
	Columns     []string
	Rows        []map[string]string
	ColumnStats map[string]ColumnStats
}

// Process projects ds through pref: resolve the display column order,
// render every row to strings, and compute per-column statistics.
//
// An empty column selection means every column of the first row in its
// native order. A non-empty selection is used exactly as given, so the
// selection order becomes the display order. Cells missing from a row
// render as "N/A" and never fail.
func Process(ds *dataset.DataSet, pref config.Preference) *ProcessedDataSet {
	pref = pref.Normalize()

	var columns []string
	if len(pref.Columns) > 0 {
		columns = append(columns, pref.Columns...)
	} else {
		columns = append(columns, defaultColumns(ds)...)
	}

	rows := make([]map[string]string, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		rendered := make(map[string]string, len(columns))
		for _, col := range columns {
			if v, ok := row.Get(col); ok {
				rendered[col] = v.Display()
			} else {
				rendered[col] = MissingCell
			}
		}
		rows = append(rows, rendered)
	}

	return &ProcessedDataSet{
		SetName:     ds.Name,
		View:        pref.View,
		Slide:       pref.Slide,
		Columns:     columns,
		Rows:        rows,
		ColumnStats: computeStats(columns, rows),
	}
}

func defaultColumns(ds *dataset.DataSet) []string {
	if len(ds.Rows) == 0 {
		return ds.ColumnNames()
	}
	return ds.Rows[0].Columns()
}

// computeStats collects, per column, every cell that parses as a number.
// Any numeric cell marks the column numeric and the statistics cover
// exactly that subset; rows whose cell does not parse are skipped, not
// zeroed. Columns with no numeric cells report the total row count.
func computeStats(columns []string, rows []map[string]string) map[string]ColumnStats {
	out := make(map[string]ColumnStats, len(columns))
	for _, col := range columns {
		var nums []float64
		for _, row := range rows {
			cell := row[col]
			if !dataset.IsNumericString(cell) {
				continue
			}
			f, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				continue
			}
			nums = append(nums, f)
		}
		if len(nums) == 0 {
			out[col] = ColumnStats{Count: len(rows)}
			continue
		}
		min, _ := stats.Min(nums)
		max, _ := stats.Max(nums)
		sum, _ := stats.Sum(nums)
		avg, _ := stats.Mean(nums)
		out[col] = ColumnStats{
			IsNumeric: true,
			Min:       min,
			Max:       max,
			Sum:       sum,
			Avg:       avg,
			Count:     len(nums),
		}
	}
	return out
}
