package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Sphmer/vsr/internal/dataset"
	"github.com/Sphmer/vsr/internal/processor"
)

// maxBarWidth caps the bar area regardless of terminal width.
const maxBarWidth = 50

type barEntry struct {
	label string
	value float64
}

// barLines renders one set as a horizontal bar chart. The bar column is the
// first numeric column, the label column the first non-numeric one, with a
// synthetic "Row N" label when every column is numeric. The window collects
// up to maxRows rows whose bar cell parses as a number, starting at scroll;
// non-numeric rows are skipped without using up the budget. Bars scale
// against the largest absolute value inside the window.
func barLines(p *processor.ProcessedDataSet, scroll, width, maxRows int) []string {
	if len(p.Rows) == 0 || len(p.Columns) == 0 {
		return []string{"No data for bar chart: " + p.SetName}
	}

	barCol := ""
	for _, col := range p.Columns {
		if p.ColumnStats[col].IsNumeric {
			barCol = col
			break
		}
	}
	if barCol == "" {
		return []string{"No numeric column found for bar chart: " + p.SetName}
	}

	labelCol := ""
	for _, col := range p.Columns {
		if col == barCol {
			continue
		}
		if !p.ColumnStats[col].IsNumeric {
			labelCol = col
			break
		}
	}
	if labelCol == "" {
		labelCol = "Row"
	}

	lines := []string{fmt.Sprintf("Bar Chart: %s by %s", barCol, labelCol)}

	var entries []barEntry
	shown := 0
	for i, row := range p.Rows {
		if i < scroll || shown >= maxRows {
			continue
		}
		cell, ok := row[barCol]
		if !ok || !dataset.IsNumericString(cell) {
			continue
		}
		value, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			continue
		}
		label, ok := row[labelCol]
		if !ok {
			label = fmt.Sprintf("Row %d", i+1)
		}
		entries = append(entries, barEntry{label: label, value: value})
		shown++
	}

	if len(entries) == 0 {
		return append(lines, "No numeric data to display.")
	}

	maxAbs := 0.0
	for _, e := range entries {
		if a := math.Abs(e.value); a > maxAbs {
			maxAbs = a
		}
	}
	if maxAbs == 0 {
		return append(lines, "All values are zero.")
	}

	barWidth := width - 30
	if barWidth > maxBarWidth {
		barWidth = maxBarWidth
	}
	if barWidth < 1 {
		barWidth = 1
	}

	for _, e := range entries {
		length := int(math.Round(math.Abs(e.value) / maxAbs * float64(barWidth)))
		label := runewidth.FillRight(runewidth.Truncate(e.label, 14, ""), 15)
		lines = append(lines, fmt.Sprintf("%s %8.2f %s", label, e.value, strings.Repeat("█", length)))
	}
	return lines
}
