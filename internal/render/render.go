// Package render lays processed data sets out into terminal lines: tables
// with box-drawing borders, horizontal bar charts, and column-summary trees.
// All entry points are pure functions from (sets, scroll offset, terminal
// width, visible row budget) to a slice of newline-free display lines.
package render

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/Sphmer/vsr/internal/config"
	"github.com/Sphmer/vsr/internal/processor"
)

// NoDataMessage is emitted when a render call receives no sets at all.
const NoDataMessage = "No data to display."

// Table renders every set as a bordered table, each followed by a blank
// line.
func Table(sets []*processor.ProcessedDataSet, scroll, width, maxRows int) []string {
	return renderEach(sets, scroll, width, maxRows, tableLines)
}

// Bars renders every set as a horizontal bar chart, each followed by a
// blank line.
func Bars(sets []*processor.ProcessedDataSet, scroll, width, maxRows int) []string {
	return renderEach(sets, scroll, width, maxRows, barLines)
}

// Tree renders every set as a column-summary tree, each followed by a blank
// line.
func Tree(sets []*processor.ProcessedDataSet, scroll, width, maxRows int) []string {
	return renderEach(sets, scroll, width, maxRows, treeLines)
}

// Mixed renders every set under a "=== name ===" banner using the set's own
// view kind, falling back to a table for unrecognized kinds.
func Mixed(sets []*processor.ProcessedDataSet, scroll, width, maxRows int) []string {
	if len(sets) == 0 {
		return []string{NoDataMessage}
	}
	var lines []string
	for _, p := range sets {
		lines = append(lines, fmt.Sprintf("=== %s ===", p.SetName))
		lines = append(lines, setLines(p, scroll, width, maxRows)...)
		lines = append(lines, "")
	}
	return lines
}

func setLines(p *processor.ProcessedDataSet, scroll, width, maxRows int) []string {
	switch p.View {
	case config.ViewBars:
		return barLines(p, scroll, width, maxRows)
	case config.ViewTree:
		return treeLines(p, scroll, width, maxRows)
	}
	return tableLines(p, scroll, width, maxRows)
}

func renderEach(sets []*processor.ProcessedDataSet, scroll, width, maxRows int, one func(*processor.ProcessedDataSet, int, int, int) []string) []string {
	if len(sets) == 0 {
		return []string{NoDataMessage}
	}
	var lines []string
	for _, p := range sets {
		lines = append(lines, one(p, scroll, width, maxRows)...)
		lines = append(lines, "")
	}
	return lines
}

// truncateCell shortens s to fit width display cells, marking the cut with
// an ellipsis when there is room for one.
func truncateCell(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
