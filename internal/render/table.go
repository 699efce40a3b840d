package render

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Sphmer/vsr/internal/processor"
)

// maxColumnWidth caps how wide a single table column may grow.
const maxColumnWidth = 30

// tableLines renders one set as a bordered table: a header row, a
// separator, then up to maxRows data rows starting at scroll. When rows
// fall outside the window a trailing line reports the visible range.
func tableLines(p *processor.ProcessedDataSet, scroll, _, maxRows int) []string {
	if len(p.Rows) == 0 || len(p.Columns) == 0 {
		return []string{"No data in set: " + p.SetName}
	}

	widths := columnWidths(p)
	lines := []string{
		tableHeader(p.Columns, widths),
		tableSeparator(widths),
	}

	shown := 0
	for i, row := range p.Rows {
		if i < scroll || shown >= maxRows {
			continue
		}
		lines = append(lines, tableRow(row, p.Columns, widths))
		shown++
	}

	if scroll > 0 || len(p.Rows) > scroll+maxRows {
		lines = append(lines, fmt.Sprintf("Showing rows %d-%d of %d", scroll+1, scroll+shown, len(p.Rows)))
	}
	return lines
}

// columnWidths sizes each column to its widest content, header included,
// capped at maxColumnWidth.
func columnWidths(p *processor.ProcessedDataSet) []int {
	widths := make([]int, len(p.Columns))
	for i, col := range p.Columns {
		w := runewidth.StringWidth(col)
		for _, row := range p.Rows {
			if cw := runewidth.StringWidth(row[col]); cw > w {
				w = cw
			}
		}
		if w > maxColumnWidth {
			w = maxColumnWidth
		}
		widths[i] = w
	}
	return widths
}

func tableHeader(columns []string, widths []int) string {
	var sb strings.Builder
	sb.WriteString("│")
	for i, col := range columns {
		sb.WriteString(" ")
		sb.WriteString(runewidth.FillRight(truncateCell(col, widths[i]), widths[i]))
		sb.WriteString(" │")
	}
	return sb.String()
}

func tableSeparator(widths []int) string {
	var sb strings.Builder
	sb.WriteString("├")
	for i, w := range widths {
		sb.WriteString(strings.Repeat("─", w+2))
		if i < len(widths)-1 {
			sb.WriteString("┼")
		} else {
			sb.WriteString("┤")
		}
	}
	return sb.String()
}

func tableRow(row map[string]string, columns []string, widths []int) string {
	var sb strings.Builder
	sb.WriteString("│")
	for i, col := range columns {
		value, ok := row[col]
		if !ok {
			value = processor.MissingCell
		}
		sb.WriteString(" ")
		sb.WriteString(runewidth.FillRight(truncateCell(value, widths[i]), widths[i]))
		sb.WriteString(" │")
	}
	return sb.String()
}
